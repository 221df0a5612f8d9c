package game

import (
	"math"

	"strike-server/config"
)

// moveEntity integrates an entity's stored intent against the world colliders
// for one tick. Axis-separated resolution: each axis moves independently and
// reverts on overlap, which lets entities slide along walls.
func (r *Room) moveEntity(e *Entity) {
	dt := 1.0 / float64(config.TickRate)
	in := e.LastInput

	// Project the move axes into world space around the entity's yaw.
	sin, cos := math.Sincos(e.Yaw)
	wishX := cos*in.MoveX + sin*in.MoveY
	wishZ := -sin*in.MoveX + cos*in.MoveY
	if norm := math.Hypot(wishX, wishZ); norm > 1 {
		wishX /= norm
		wishZ /= norm
	}
	speed := config.RunSpeed
	e.Walking = in.Walk
	if in.Walk {
		speed = config.WalkSpeed
	}
	e.Vel.X = wishX * speed
	e.Vel.Z = wishZ * speed
	e.Vel.Y -= config.Gravity * dt

	before := e.Pos

	e.Pos.X += e.Vel.X * dt
	if r.collides(e.Pos) {
		e.Pos.X = before.X
		e.Vel.X = 0
	}
	e.Pos.Z += e.Vel.Z * dt
	if r.collides(e.Pos) {
		e.Pos.Z = before.Z
		e.Vel.Z = 0
	}
	e.Grounded = false
	e.Pos.Y += e.Vel.Y * dt
	if r.collides(e.Pos) {
		e.Pos.Y = before.Y
		if e.Vel.Y < 0 {
			e.Grounded = true
		}
		e.Vel.Y = 0
	}
	r.clampToBounds(&e.Pos)

	r.accountFootsteps(e, before)
}

// collides reports whether the entity body box at pos overlaps any collider.
func (r *Room) collides(pos Vec3) bool {
	body := BodyBox(pos)
	for _, c := range r.def.Colliders {
		if body.Overlaps(c.Box()) {
			return true
		}
	}
	return false
}

func (r *Room) clampToBounds(pos *Vec3) {
	b := r.def.Bounds
	if pos.X < b.MinX {
		pos.X = b.MinX
	}
	if pos.X > b.MaxX {
		pos.X = b.MaxX
	}
	if pos.Z < b.MinZ {
		pos.Z = b.MinZ
	}
	if pos.Z > b.MaxZ {
		pos.Z = b.MaxZ
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
}

// accountFootsteps accumulates horizontal distance and bumps the footstep
// counter when the travelled distance crosses the walk/run step threshold.
// The counter is only consumed by clients for audio.
func (r *Room) accountFootsteps(e *Entity, before Vec3) {
	if !e.Grounded {
		return
	}
	e.StepDistAcc += HorizontalDist(before, e.Pos)
	threshold := config.RunStepDistance
	if e.Walking {
		threshold = config.WalkStepDistance
	}
	if e.StepDistAcc >= threshold {
		e.StepDistAcc -= threshold
		e.FootstepSeq++
	}
}
