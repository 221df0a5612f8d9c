package game

import (
	"fmt"
	"testing"
)

func validInputJSON(seq uint32) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"input","seq":%d,"moveX":0.5,"moveY":1,"yaw":1.2,"pitch":-0.3,"shoot":true,"walk":false,"aimTick":42}`,
		seq))
}

func TestDecodeInputValid(t *testing.T) {
	in, ok := DecodeInput(validInputJSON(7))
	if !ok {
		t.Fatal("valid input rejected")
	}
	if in.Seq != 7 || in.MoveX != 0.5 || in.MoveY != 1 || !in.Shoot || in.Walk || in.AimTick != 42 {
		t.Fatalf("decoded fields wrong: %+v", in)
	}
}

func TestDecodeInputRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"wrong type tag", `{"type":"chat","seq":1,"moveX":0,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":0}`},
		{"missing field", `{"type":"input","seq":1,"moveX":0,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false}`},
		{"wrong field type", `{"type":"input","seq":"one","moveX":0,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":0}`},
		{"move axis out of range", `{"type":"input","seq":1,"moveX":5,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":0}`},
		{"negative aim tick", `{"type":"input","seq":1,"moveX":0,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":-1}`},
		{"unknown extra field", `{"type":"input","seq":1,"moveX":0,"moveY":0,"yaw":0,"pitch":0,"shoot":false,"walk":false,"aimTick":0,"cheat":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := DecodeInput([]byte(tc.raw)); ok {
				t.Fatalf("accepted %s", tc.raw)
			}
		})
	}
}

func TestDecodeInputClampsPitch(t *testing.T) {
	raw := `{"type":"input","seq":1,"moveX":0,"moveY":0,"yaw":0,"pitch":3.0,"shoot":false,"walk":false,"aimTick":0}`
	in, ok := DecodeInput([]byte(raw))
	if !ok {
		t.Fatal("input with extreme pitch rejected outright, want clamp")
	}
	if in.Pitch != ClampPitch(3.0) {
		t.Fatalf("pitch = %v, want clamped", in.Pitch)
	}
}

func TestApplyInputSequenceGate(t *testing.T) {
	e := &Entity{}

	if !e.applyInput(ClientInput{Seq: 5, Yaw: 1.0}) {
		t.Fatal("first input rejected")
	}
	if e.LastProcessedSeq != 5 || e.Yaw != 1.0 {
		t.Fatalf("state after seq 5: seq=%d yaw=%v", e.LastProcessedSeq, e.Yaw)
	}

	// Older and duplicate sequence numbers are dropped without touching state.
	if e.applyInput(ClientInput{Seq: 3, Yaw: 9.0}) {
		t.Fatal("stale seq 3 accepted after seq 5")
	}
	if e.applyInput(ClientInput{Seq: 5, Yaw: 9.0}) {
		t.Fatal("duplicate seq 5 accepted")
	}
	if e.LastProcessedSeq != 5 || e.Yaw != 1.0 {
		t.Fatalf("stale input mutated state: seq=%d yaw=%v", e.LastProcessedSeq, e.Yaw)
	}

	if !e.applyInput(ClientInput{Seq: 6, Yaw: 2.0}) {
		t.Fatal("next seq rejected")
	}
	if e.LastProcessedSeq != 6 || e.Yaw != 2.0 {
		t.Fatalf("state after seq 6: seq=%d yaw=%v", e.LastProcessedSeq, e.Yaw)
	}
}

func TestHandleInputUnknownSession(t *testing.T) {
	r := testRoom(t)
	// Must not panic or mutate anything.
	r.HandleInput("no-such-session", validInputJSON(1))
}

func TestHandleInputRoutesToEntity(t *testing.T) {
	r := testRoom(t)
	e := r.Join("sess-1", "alice")
	if e == nil {
		t.Fatal("join failed")
	}

	r.HandleInput("sess-1", validInputJSON(9))
	if e.LastProcessedSeq != 9 {
		t.Fatalf("seq = %d, want 9", e.LastProcessedSeq)
	}
	if !e.LastInput.Shoot {
		t.Fatal("shoot intent not stored")
	}
}
