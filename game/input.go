package game

import (
	_ "embed"
	"encoding/json"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ClientInput is one validated per-client input record. For bot slots the
// behavior tree synthesizes the same shape each tick, so a single code path
// drives movement and combat for both kinds.
type ClientInput struct {
	Seq     uint32  `json:"seq"`
	MoveX   float64 `json:"moveX"`
	MoveY   float64 `json:"moveY"`
	Yaw     float64 `json:"yaw"`
	Pitch   float64 `json:"pitch"`
	Shoot   bool    `json:"shoot"`
	Walk    bool    `json:"walk"`
	AimTick uint64  `json:"aimTick"`
}

//go:embed schemas/input.json
var inputSchemaJSON string

// inputSchema validates raw input messages at the transport boundary before
// they are decoded into a ClientInput. Compiled once at init; the schema is
// generated from the wire struct by cmd/schemagen.
var inputSchema = jsonschema.MustCompileString("input.json", inputSchemaJSON)

// DecodeInput parses and validates a raw input message. Malformed or
// out-of-range messages return false and are dropped without a client-visible
// error.
func DecodeInput(raw []byte) (ClientInput, bool) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return ClientInput{}, false
	}
	if err := inputSchema.Validate(generic); err != nil {
		return ClientInput{}, false
	}
	var in ClientInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return ClientInput{}, false
	}
	in.MoveX = clampAxis(in.MoveX)
	in.MoveY = clampAxis(in.MoveY)
	in.Pitch = ClampPitch(in.Pitch)
	return in, true
}

func clampAxis(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// applyInput is the input reconciliation gate. Stale or replayed sequence
// numbers are dropped; accepted inputs become the entity's current intent and
// update the look direction immediately, outside the tick, so aim feels
// responsive while movement waits for the next tick boundary.
func (e *Entity) applyInput(in ClientInput) bool {
	if in.Seq <= e.LastProcessedSeq {
		return false
	}
	e.LastProcessedSeq = in.Seq
	e.LastInput = in
	e.Yaw = in.Yaw
	e.Pitch = ClampPitch(in.Pitch)
	return true
}

// HandleInput routes a raw input message from a session to its entity. An
// unknown session is a protocol error and is dropped silently.
func (r *Room) HandleInput(sessionID string, raw []byte) {
	in, ok := DecodeInput(raw)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	if !e.applyInput(in) && r.verbose {
		log.Printf("room %s: dropped stale input seq=%d from entity %d", r.id, in.Seq, e.ID)
	}
}
