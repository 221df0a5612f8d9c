package game

import (
	"fmt"

	"strike-server/config"
)

type Team string

const (
	TeamT  Team = "T"
	TeamCT Team = "CT"
)

// Opposite returns the opposing team.
func (t Team) Opposite() Team {
	if t == TeamT {
		return TeamCT
	}
	return TeamT
}

type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindBot    EntityKind = "bot"
)

// Entity is one simulated actor slot. Exactly RoomEntities of these exist for
// the lifetime of a room; ids are never recycled. Possession flips Kind
// between bot and player but the slot itself persists.
type Entity struct {
	ID        int
	Kind      EntityKind
	Team      Team
	SessionID string // empty while bot-controlled
	Name      string

	Pos   Vec3
	Vel   Vec3
	Yaw   float64
	Pitch float64

	HP          int
	Alive       bool
	Ammo        int
	RespawnTick uint64

	NextFireTick    uint64
	SprayIndex      int
	LastShotTick    uint64
	WeaponReadyTick uint64

	LastProcessedSeq uint32
	LastInput        ClientInput

	// Audio counters consumed by the client only.
	FootstepSeq uint32
	ShotSeq     uint32
	StepDistAcc float64
	Walking     bool

	Grounded bool

	History *History

	// Brain is non-nil only while the slot is bot-controlled.
	Brain *BotBrain
}

// newEntity builds a bot-controlled slot at room creation time.
func newEntity(id int, team Team, roomRand *Rand) *Entity {
	e := &Entity{
		ID:      id,
		Kind:    KindBot,
		Team:    team,
		Name:    fmt.Sprintf("bot-%d", id),
		HP:      config.MaxHealth,
		Alive:   true,
		Ammo:    config.MagazineSize,
		History: NewHistory(),
	}
	e.Brain = NewBotBrain(e.ID, roomRand)
	return e
}

// IsBot reports whether the slot is currently bot-controlled.
func (e *Entity) IsBot() bool { return e.Kind == KindBot }
