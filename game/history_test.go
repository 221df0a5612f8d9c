package game

import (
	"testing"

	"strike-server/config"
)

func TestHistoryRecordAndAt(t *testing.T) {
	h := NewHistory()
	p := Vec3{X: 1, Y: 0, Z: 2}
	h.Record(100, p)

	got, ok := h.At(100)
	if !ok || got != p {
		t.Fatalf("At(100) = (%+v, %v), want (%+v, true)", got, ok, p)
	}
}

func TestHistoryMissingTick(t *testing.T) {
	h := NewHistory()
	h.Record(100, Vec3{X: 1})

	// Same slot, different tick: tick 10 maps to slot 10, never written.
	if _, ok := h.At(10); ok {
		t.Fatal("At(10) reported a position for an unwritten tick")
	}
	// Tick 100+HistoryTicks shares the slot with 100 but was not recorded.
	if _, ok := h.At(100 + config.HistoryTicks); ok {
		t.Fatal("At returned a stale entry for a later lap of the ring")
	}
}

func TestHistoryOverwriteLap(t *testing.T) {
	h := NewHistory()
	h.Record(100, Vec3{X: 1})
	h.Record(100+config.HistoryTicks, Vec3{X: 2})

	if _, ok := h.At(100); ok {
		t.Fatal("At(100) survived being overwritten by a later lap")
	}
	got, ok := h.At(100 + config.HistoryTicks)
	if !ok || got.X != 2 {
		t.Fatalf("At(190) = (%+v, %v), want the overwriting entry", got, ok)
	}
}

func TestClampAimTick(t *testing.T) {
	cases := []struct {
		name     string
		aim, cur uint64
		want     uint64
	}{
		{"future clamps to current", 300, 200, 200},
		{"in window passes through", 150, 200, 150},
		{"older than window clamps to oldest", 50, 200, 111},
		{"early ticks have no lower bound", 0, 50, 0},
		{"exact oldest edge", 111, 200, 111},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampAimTick(tc.aim, tc.cur); got != tc.want {
				t.Fatalf("ClampAimTick(%d, %d) = %d, want %d", tc.aim, tc.cur, got, tc.want)
			}
		})
	}
}
