package game

import (
	"fmt"
	"math"
	"strings"

	"strike-server/config"
)

// Behavior tree nodes. Selector takes the first branch that does not fail,
// sequence requires every child to succeed; conditions and actions are the
// leaves. The tree is composed once at brain construction and shared state
// lives on the brain, not in the nodes.

type Status int

const (
	StatusFailure Status = iota
	StatusSuccess
	StatusRunning
)

// botContext carries everything one cognition tick needs: the room (for nav
// and map data), the bot entity, its perception snapshot and the decision
// being assembled.
type botContext struct {
	room       *Room
	e          *Entity
	brain      *BotBrain
	perception Perception
	tick       uint64
	decision   *ClientInput
}

type Node interface {
	Tick(ctx *botContext) Status
}

type selector []Node

func (s selector) Tick(ctx *botContext) Status {
	for _, child := range s {
		if st := child.Tick(ctx); st != StatusFailure {
			return st
		}
	}
	return StatusFailure
}

type sequence []Node

func (s sequence) Tick(ctx *botContext) Status {
	for _, child := range s {
		if st := child.Tick(ctx); st != StatusSuccess {
			return st
		}
	}
	return StatusSuccess
}

type condition func(ctx *botContext) bool

func (c condition) Tick(ctx *botContext) Status {
	if c(ctx) {
		return StatusSuccess
	}
	return StatusFailure
}

type action func(ctx *botContext) Status

func (a action) Tick(ctx *botContext) Status { return a(ctx) }

// Perception is the snapshot the tick loop hands to a bot before cognition.
// Bots do not query the world themselves.
type Perception struct {
	Enemy        *Entity
	EnemyVisible bool
	EnemyInFront bool
}

// BotBrain is the per-bot decision state. It is discarded on possession and
// recreated freshly seeded when the controlling client leaves.
type BotBrain struct {
	rand          *Rand
	tree          Node
	targetPointID string
	path          []Vec3
	pathIndex     int
	repathAtTick  uint64
	seq           uint32
}

// NewBotBrain derives the bot's RNG stream from the room stream so decision
// jitter is reproducible for a given room seed and slot.
func NewBotBrain(entityID int, roomRand *Rand) *BotBrain {
	b := &BotBrain{
		rand: roomRand.Derive(fmt.Sprintf("bot:%d", entityID)),
	}
	b.tree = selector{
		sequence{
			condition(seesEnemy),
			action(engage),
		},
		sequence{
			condition(lowHealth),
			action(retreat),
		},
		action(patrol),
	}
	return b
}

// Think runs one cognition tick and returns the synthesized input record,
// shaped exactly like a client message so the same reconciliation and
// movement paths apply.
func (b *BotBrain) Think(r *Room, e *Entity, perception Perception, tick uint64) ClientInput {
	b.seq++
	decision := ClientInput{
		Seq:     b.seq,
		Yaw:     e.Yaw,
		Pitch:   e.Pitch,
		AimTick: tick,
	}
	ctx := &botContext{
		room:       r,
		e:          e,
		brain:      b,
		perception: perception,
		tick:       tick,
		decision:   &decision,
	}
	b.tree.Tick(ctx)
	return decision
}

func seesEnemy(ctx *botContext) bool {
	return ctx.perception.EnemyVisible && ctx.perception.Enemy != nil
}

func lowHealth(ctx *botContext) bool {
	return ctx.e.Alive && ctx.e.HP < config.LowHealthRetreat
}

// engage faces the visible enemy and holds position, firing only once the
// enemy sits inside the forward cone.
func engage(ctx *botContext) Status {
	enemy := ctx.perception.Enemy
	delta := enemy.Pos.Sub(ctx.e.Pos)
	ctx.decision.Yaw = math.Atan2(delta.X, delta.Z)
	horiz := math.Hypot(delta.X, delta.Z)
	if horiz > 0 {
		aimY := (enemy.Pos.Y + modelHeight*0.75) - (ctx.e.Pos.Y + EyeHeight)
		ctx.decision.Pitch = ClampPitch(math.Atan2(aimY, horiz))
	}
	ctx.decision.MoveX = 0
	ctx.decision.MoveY = 0
	ctx.decision.Shoot = ctx.perception.EnemyInFront
	return StatusSuccess
}

// retreat walks the bot back toward its own spawn when health is low.
func retreat(ctx *botContext) Status {
	id := "t_spawn"
	if ctx.e.Team == TeamCT {
		id = "ct_spawn"
	}
	point, ok := ctx.room.def.Point(id)
	if !ok {
		return StatusFailure
	}
	ctx.brain.targetPointID = id
	walkPath(ctx, point)
	return StatusSuccess
}

// patrol re-scores objectives when the path is exhausted or the repath
// deadline passed, then walks toward the chosen interest point.
func patrol(ctx *botContext) Status {
	brain := ctx.brain
	if brain.targetPointID == "" || len(brain.path) == 0 || ctx.tick >= brain.repathAtTick {
		brain.targetPointID = chooseObjective(ctx)
	}
	point, ok := ctx.room.def.Point(brain.targetPointID)
	if !ok {
		return StatusFailure
	}
	walkPath(ctx, point)
	return StatusSuccess
}

// chooseObjective scores every interest point with team-biased weights plus a
// small jitter term from the bot's seeded stream for tie-breaking and variety.
func chooseObjective(ctx *botContext) string {
	bestID := ""
	bestScore := math.Inf(-1)
	for _, p := range ctx.room.def.Points {
		score := objectiveBias(ctx.e.Team, p.ID) + ctx.brain.rand.Float()
		if score > bestScore {
			bestScore = score
			bestID = p.ID
		}
	}
	return bestID
}

func objectiveBias(team Team, id string) float64 {
	switch {
	case strings.Contains(id, "bombsite_b"):
		if team == TeamT {
			return 2.0
		}
		return 1.0
	case strings.Contains(id, "bombsite_a"):
		if team == TeamCT {
			return 2.0
		}
		return 1.0
	case strings.Contains(id, "mid"):
		return 1.5
	case strings.Contains(id, "spawn"):
		return -1.0
	default:
		return 0.5
	}
}

// walkPath recomputes the A* path when due, advances the waypoint cursor and
// projects the desired world heading into the bot's own yaw frame so the same
// move-axis contract as human input drives the movement pass.
func walkPath(ctx *botContext, point InterestPoint) {
	brain := ctx.brain
	e := ctx.e

	if ctx.tick >= brain.repathAtTick || len(brain.path) == 0 {
		brain.path = ctx.room.nav.FindPath(e.Pos, Vec3{X: point.X, Z: point.Z})
		brain.pathIndex = 0
		brain.repathAtTick = ctx.tick + config.BotRepathTicks
	}
	if brain.pathIndex >= len(brain.path) {
		ctx.decision.MoveX = 0
		ctx.decision.MoveY = 0
		return
	}
	wp := brain.path[brain.pathIndex]
	if HorizontalDist(e.Pos, wp) < config.BotWaypointRadius {
		brain.pathIndex++
		if brain.pathIndex >= len(brain.path) {
			ctx.decision.MoveX = 0
			ctx.decision.MoveY = 0
			return
		}
		wp = brain.path[brain.pathIndex]
	}

	desiredYaw := math.Atan2(wp.X-e.Pos.X, wp.Z-e.Pos.Z)
	if !ctx.perception.EnemyVisible {
		ctx.decision.Yaw = desiredYaw
	}
	// Rotate the world-space heading into the frame the bot will face this
	// tick, so the axes mean the same thing they do for human input.
	local := NormalizeYaw(desiredYaw - ctx.decision.Yaw)
	ctx.decision.MoveX = math.Sin(local)
	ctx.decision.MoveY = math.Cos(local)
}
