package game

import "strike-server/config"

// History is the per-entity ring buffer of past positions used for
// lag-compensated rewinding. One slot per tick, indexed tick % HistoryTicks,
// written exactly once per tick after all movement for that tick completed.
type History struct {
	pos  [config.HistoryTicks]Vec3
	tick [config.HistoryTicks]uint64
	used [config.HistoryTicks]bool
}

func NewHistory() *History {
	return &History{}
}

// Record stores pos as the post-movement position for tick.
func (h *History) Record(tick uint64, pos Vec3) {
	slot := tick % config.HistoryTicks
	h.pos[slot] = pos
	h.tick[slot] = tick
	h.used[slot] = true
}

// At returns the position recorded for tick. The second return is false when
// the slot holds no entry for that exact tick (never written, or already
// overwritten by a later lap); callers fall back to the current position.
func (h *History) At(tick uint64) (Vec3, bool) {
	slot := tick % config.HistoryTicks
	if !h.used[slot] || h.tick[slot] != tick {
		return Vec3{}, false
	}
	return h.pos[slot], true
}

// ClampAimTick bounds a shooter-supplied aim tick into the valid rewind
// window [current-HistoryTicks+1, current].
func ClampAimTick(aimTick, current uint64) uint64 {
	if aimTick > current {
		return current
	}
	oldest := uint64(0)
	if current >= config.HistoryTicks-1 {
		oldest = current - (config.HistoryTicks - 1)
	}
	if aimTick < oldest {
		return oldest
	}
	return aimTick
}
