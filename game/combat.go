package game

import (
	"math"

	"strike-server/config"
)

// worldRayDist returns the nearest intersection distance between a ray and
// the static world geometry, or false when the ray escapes the map.
func (r *Room) worldRayDist(origin, dir Vec3) (float64, bool) {
	best := math.Inf(1)
	hit := false
	for _, c := range r.def.Colliders {
		if d, ok := RayAABB(origin, dir, c.Box()); ok && d < best {
			best = d
			hit = true
		}
	}
	return best, hit
}

// hasLineOfSight checks eye-to-eye visibility against world colliders only;
// other entities never block perception.
func (r *Room) hasLineOfSight(from, to *Entity) bool {
	origin := from.Pos.Add(Vec3{Y: EyeHeight})
	target := to.Pos.Add(Vec3{Y: EyeHeight})
	delta := target.Sub(origin)
	dist := math.Sqrt(delta.X*delta.X + delta.Y*delta.Y + delta.Z*delta.Z)
	if dist == 0 {
		return true
	}
	dir := delta.Scale(1 / dist)
	if wallDist, ok := r.worldRayDist(origin, dir); ok && wallDist < dist {
		return false
	}
	return true
}

// buildPerception assembles the snapshot a bot's behavior tree runs against:
// the nearest living enemy inside the detection radius with clear line of
// sight, and whether that enemy already sits in the bot's firing cone.
func (r *Room) buildPerception(e *Entity) Perception {
	var p Perception
	bestDist := config.BotDetectRadius
	for _, other := range r.entities {
		if other == e || !other.Alive || other.Team == e.Team {
			continue
		}
		d := HorizontalDist(e.Pos, other.Pos)
		if d > bestDist {
			continue
		}
		if !r.hasLineOfSight(e, other) {
			continue
		}
		bestDist = d
		p.Enemy = other
		p.EnemyVisible = true
	}
	if p.Enemy != nil {
		delta := p.Enemy.Pos.Sub(e.Pos)
		desired := math.Atan2(delta.X, delta.Z)
		p.EnemyInFront = math.Abs(NormalizeYaw(desired-e.Yaw)) <= config.BotFireConeRad
	}
	return p
}

// fireWeapon runs the weapon fire pass for one entity whose stored intent
// requests fire. Gated on the post-spawn draw delay, the fire-rate cooldown
// and remaining ammo.
func (r *Room) fireWeapon(e *Entity) {
	if !e.LastInput.Shoot {
		return
	}
	if r.tick < e.WeaponReadyTick || r.tick < e.NextFireTick {
		return
	}
	if e.Ammo <= 0 {
		return
	}

	// Spray progression restarts after an idle gap, otherwise climbs the
	// pattern up to its last position.
	if e.LastShotTick == 0 || r.tick-e.LastShotTick > config.SprayResetTicks {
		e.SprayIndex = 0
	} else if e.SprayIndex < config.SprayMaxIndex {
		e.SprayIndex++
	}

	e.Ammo--
	e.LastShotTick = r.tick
	e.NextFireTick = r.tick + config.FireCooldownTicks
	e.ShotSeq++

	origin := e.Pos.Add(Vec3{Y: EyeHeight})
	dir := BulletDirection(e.Yaw, e.Pitch, e.SprayIndex, e.Vel)
	aimTick := ClampAimTick(e.LastInput.AimTick, r.tick)
	r.resolveShot(e, origin, dir, aimTick)
}

// resolveShot performs lag-compensated hit resolution: candidates are rewound
// to their recorded position at aimTick, head and body boxes are intersected,
// and the closest valid entity hit wins, but only if it lands strictly
// before the nearest wall along the same ray.
func (r *Room) resolveShot(shooter *Entity, origin, dir Vec3, aimTick uint64) {
	wallDist := math.Inf(1)
	if d, ok := r.worldRayDist(origin, dir); ok {
		wallDist = d
	}

	var victim *Entity
	victimDist := math.Inf(1)
	victimHead := false

	for _, target := range r.entities {
		if target == shooter || !target.Alive || target.Team == shooter.Team {
			continue
		}
		rewound, ok := target.History.At(aimTick)
		if !ok {
			rewound = target.Pos
		}

		headDist, headHit := RayAABB(origin, dir, HeadBox(rewound))
		bodyDist, bodyHit := RayAABB(origin, dir, BodyBox(rewound))

		var dist float64
		var head bool
		switch {
		case headHit && (!bodyHit || headDist <= bodyDist):
			dist, head = headDist, true
		case bodyHit:
			dist, head = bodyDist, false
		default:
			continue
		}
		if dist < victimDist {
			victim = target
			victimDist = dist
			victimHead = head
		}
	}

	if victim == nil || victimDist >= wallDist {
		return
	}
	r.applyDamage(shooter, victim, victimHead)
}

// applyDamage applies hit damage and, on a kill, schedules the respawn,
// credits the shooter's team and broadcasts the kill event.
func (r *Room) applyDamage(shooter, victim *Entity, headshot bool) {
	damage := config.BodyDamage
	if headshot {
		damage = int(math.Round(config.BodyDamage * config.HeadMultiplier))
	}
	victim.HP -= damage
	if victim.HP > 0 {
		return
	}
	victim.HP = 0
	victim.Alive = false
	victim.RespawnTick = r.tick + config.RespawnDelayTicks
	r.score[shooter.Team]++

	kill := KillMessage{
		Type:       "kill",
		ServerTick: r.tick,
		KillerID:   shooter.ID,
		VictimID:   victim.ID,
		KillerTeam: shooter.Team,
		VictimTeam: victim.Team,
		Headshot:   headshot,
	}
	r.broadcast(kill)
	r.record(kill)
}
