package game

import (
	"log"

	"strike-server/config"
)

// step advances the simulation one tick. Passes run pass-major, in fixed
// order, for every entity before the next pass starts; history in particular
// is recorded only after all movement for the tick completed. Callers hold
// the room mutex.
func (r *Room) step() {
	r.tick++

	// 1. Respawn pass.
	for _, e := range r.entities {
		if !e.Alive && e.RespawnTick != 0 && r.tick >= e.RespawnTick {
			r.respawnEntity(e)
		}
	}

	// 2. Bot cognition pass. Decisions are stored through the same
	// reconciliation gate client input uses.
	for _, e := range r.entities {
		if !e.IsBot() || !e.Alive || e.Brain == nil {
			continue
		}
		perception := r.buildPerception(e)
		decision := e.Brain.Think(r, e, perception, r.tick)
		e.applyInput(decision)
	}

	// 3. Movement pass.
	for _, e := range r.entities {
		if e.Alive {
			r.moveEntity(e)
		}
	}

	// 4. Weapon fire pass.
	for _, e := range r.entities {
		if e.Alive {
			r.fireWeapon(e)
		}
	}

	// 5. History recording pass, every entity, dead or alive.
	for _, e := range r.entities {
		e.History.Record(r.tick, e.Pos)
	}

	// 6. Snapshot broadcast.
	if r.tick%config.SnapshotEvery == 0 {
		r.broadcastSnapshots()
	}

	// 7. Rollover guard. Reset keeps the counter above the history horizon
	// so the rewind window invariant holds across the wrap. Tick-stamped
	// entity state shifts down by the same amount or pending respawns and
	// cooldowns would stall until the counter climbed back.
	if r.tick >= config.TickResetThreshold {
		log.Printf("room %s: tick counter reset at %d", r.id, r.tick)
		delta := r.tick - config.HistoryTicks
		for _, e := range r.entities {
			e.RespawnTick = rebaseSchedule(e.RespawnTick, delta)
			e.NextFireTick = rebaseElapsed(e.NextFireTick, delta)
			e.WeaponReadyTick = rebaseElapsed(e.WeaponReadyTick, delta)
			e.LastShotTick = rebaseElapsed(e.LastShotTick, delta)
			if e.Brain != nil {
				e.Brain.repathAtTick = rebaseElapsed(e.Brain.repathAtTick, delta)
			}
		}
		r.tick = config.HistoryTicks
	}
}

// rebaseSchedule shifts a pending schedule stamp, where zero means "none" and
// an already-due stamp must stay due rather than collapse to zero.
func rebaseSchedule(v, delta uint64) uint64 {
	if v == 0 {
		return 0
	}
	if v <= delta {
		return 1
	}
	return v - delta
}

// rebaseElapsed shifts a deadline or last-seen stamp; anything at or before
// the new origin collapses to zero ("elapsed" / "never").
func rebaseElapsed(v, delta uint64) uint64 {
	if v <= delta {
		return 0
	}
	return v - delta
}

// broadcastSnapshots serializes the entity list once per client, stamping in
// the client's own last-processed sequence number and the team scores.
func (r *Room) broadcastSnapshots() {
	entities := r.buildEntitySnapshots()
	score := map[Team]int{TeamT: r.score[TeamT], TeamCT: r.score[TeamCT]}
	for sessionID, c := range r.clients {
		you := SnapshotYou{ID: -1}
		if e, ok := r.sessions[sessionID]; ok {
			you = SnapshotYou{ID: e.ID, LastProcessedSeq: e.LastProcessedSeq}
		}
		c.sendJSON(SnapshotMessage{
			Type:       "snapshot",
			ServerTick: r.tick,
			Entities:   entities,
			You:        you,
			Score:      score,
		})
	}
	r.record(SnapshotMessage{
		Type:       "snapshot",
		ServerTick: r.tick,
		Entities:   entities,
		Score:      score,
	})
}
