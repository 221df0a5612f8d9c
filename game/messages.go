package game

// Wire message shapes. Everything rides a {"type": ...} envelope as JSON
// text frames.

// EntitySnapshot is one entity's entry in a snapshot broadcast.
type EntitySnapshot struct {
	ID          int        `json:"id"`
	Kind        EntityKind `json:"kind"`
	Team        Team       `json:"team"`
	Pos         Vec3       `json:"pos"`
	Vel         Vec3       `json:"vel"`
	Yaw         float64    `json:"yaw"`
	Pitch       float64    `json:"pitch"`
	HP          int        `json:"hp"`
	Alive       bool       `json:"alive"`
	Ammo        int        `json:"ammo"`
	FootstepSeq uint32     `json:"footstepSeq"`
	ShotSeq     uint32     `json:"shotSeq"`
}

// SnapshotYou carries the per-client portion of a snapshot.
type SnapshotYou struct {
	ID               int    `json:"id"`
	LastProcessedSeq uint32 `json:"lastProcessedSeq"`
}

type SnapshotMessage struct {
	Type       string           `json:"type"`
	ServerTick uint64           `json:"serverTick"`
	Entities   []EntitySnapshot `json:"entities"`
	You        SnapshotYou      `json:"you"`
	Score      map[Team]int     `json:"score"`
}

type KillMessage struct {
	Type       string `json:"type"`
	ServerTick uint64 `json:"serverTick"`
	KillerID   int    `json:"killerId"`
	VictimID   int    `json:"victimId"`
	KillerTeam Team   `json:"killerTeam"`
	VictimTeam Team   `json:"victimTeam"`
	Headshot   bool   `json:"headshot"`
}

// WelcomeMessage is sent once when a session connects, before any snapshot.
// EntityID is -1 when no slot was free and the client joined as a spectator.
type WelcomeMessage struct {
	Type     string `json:"type"`
	EntityID int    `json:"entityId"`
	Team     Team   `json:"team,omitempty"`
	TickRate int    `json:"tickRate"`
	MapName  string `json:"map"`
}

func (r *Room) buildEntitySnapshots() []EntitySnapshot {
	out := make([]EntitySnapshot, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, EntitySnapshot{
			ID:          e.ID,
			Kind:        e.Kind,
			Team:        e.Team,
			Pos:         e.Pos,
			Vel:         e.Vel,
			Yaw:         e.Yaw,
			Pitch:       e.Pitch,
			HP:          e.HP,
			Alive:       e.Alive,
			Ammo:        e.Ammo,
			FootstepSeq: e.FootstepSeq,
			ShotSeq:     e.ShotSeq,
		})
	}
	return out
}
