package game

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"strike-server/config"
)

// Room owns the authoritative simulation state for one match: the fixed
// entity table, the session map and the score. The tick loop is the only
// writer of simulation state; client message handlers synchronize onto the
// same mutex, so at most one mutator is ever active.
type Room struct {
	id  string
	mu  sync.Mutex
	def *MapDef
	nav *NavGrid
	rng *Rand

	entities []*Entity
	sessions map[string]*Entity
	clients  map[string]*Client
	score    map[Team]int
	tick     uint64

	recorder *Recorder
	verbose  bool
	done     chan struct{}
}

// NewRoom builds a room with RoomEntities bot slots, five per team, spawned
// at their team pools. The seed string keys every derived RNG stream.
func NewRoom(id string, def *MapDef, seed string) *Room {
	r := &Room{
		id:       id,
		def:      def,
		nav:      NewNavGrid(def),
		rng:      NewRand(seed),
		sessions: make(map[string]*Entity),
		clients:  make(map[string]*Client),
		score:    map[Team]int{TeamT: 0, TeamCT: 0},
		done:     make(chan struct{}),
	}
	for i := 0; i < config.RoomEntities; i++ {
		team := TeamT
		if i >= config.EntitiesPerTeam {
			team = TeamCT
		}
		e := newEntity(i+1, team, r.rng)
		r.respawnEntity(e)
		r.entities = append(r.entities, e)
	}
	log.Printf("room %s: created with %d entities on map %q", id, len(r.entities), def.Name)
	return r
}

// SetRecorder attaches an event recorder. Must be called before Run.
func (r *Room) SetRecorder(rec *Recorder) { r.recorder = rec }

// SetVerbose toggles per-message drop logging. Must be called before Run.
func (r *Room) SetVerbose(v bool) { r.verbose = v }

// Run drives the fixed-rate tick loop until Stop is called.
func (r *Room) Run() {
	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.step()
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

// Stop halts the tick loop and closes the recorder.
func (r *Room) Stop() {
	close(r.done)
	if r.recorder != nil {
		r.recorder.Close()
	}
}

// respawnEntity resets a slot to a deterministic spawn pose for its team,
// salted by entity id and tick so consecutive respawns spread across the
// pool, with full health and ammo and the weapon draw delay armed.
func (r *Room) respawnEntity(e *Entity) {
	pos, yaw := r.def.SpawnFor(e.Team, uint64(e.ID)+r.tick)
	e.Pos = pos
	e.Vel = Vec3{}
	e.Yaw = yaw
	e.Pitch = 0
	e.HP = config.MaxHealth
	e.Alive = true
	e.Ammo = config.MagazineSize
	e.RespawnTick = 0
	e.SprayIndex = 0
	e.LastShotTick = 0
	e.NextFireTick = 0
	e.WeaponReadyTick = r.tick + config.WeaponDrawTicks
	e.StepDistAcc = 0
}

// Join possesses an unpossessed bot slot on the least-populated team for the
// session. Returns nil when every slot on both teams is player-controlled;
// the client stays connected without an entity (degraded, not an error).
func (r *Room) Join(sessionID, name string) *Entity {
	counts := map[Team]int{}
	for _, e := range r.entities {
		if !e.IsBot() {
			counts[e.Team]++
		}
	}
	first, second := TeamT, TeamCT
	if counts[TeamCT] < counts[TeamT] {
		first, second = TeamCT, TeamT
	}
	e := r.freeBot(first)
	if e == nil {
		e = r.freeBot(second)
	}
	if e == nil {
		log.Printf("room %s: no free slot for session %s", r.id, sessionID)
		return nil
	}

	e.Kind = KindPlayer
	e.SessionID = sessionID
	e.Name = name
	e.Brain = nil
	e.LastProcessedSeq = 0
	e.LastInput = ClientInput{}
	r.respawnEntity(e)
	r.sessions[sessionID] = e
	log.Printf("room %s: session %s possessed entity %d (%s)", r.id, sessionID, e.ID, e.Team)
	return e
}

func (r *Room) freeBot(team Team) *Entity {
	for _, e := range r.entities {
		if e.Team == team && e.IsBot() {
			return e
		}
	}
	return nil
}

// Leave reverts the session's entity to a freshly-seeded bot. The slot keeps
// simulating on the very next tick; entities are never removed.
func (r *Room) Leave(sessionID string) {
	e, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	e.Kind = KindBot
	e.SessionID = ""
	e.Name = fmt.Sprintf("bot-%d", e.ID)
	e.Brain = NewBotBrain(e.ID, r.rng)
	// The brain's sequence counter restarts, so the gate must too.
	e.LastProcessedSeq = 0
	e.LastInput = ClientInput{}
	log.Printf("room %s: session %s released entity %d back to bot control", r.id, sessionID, e.ID)
}

// attach registers a connected client for broadcasts.
func (r *Room) attach(c *Client) { r.clients[c.sessionID] = c }

// detach unregisters a client and frees its entity slot.
func (r *Room) detach(c *Client) {
	if _, ok := r.clients[c.sessionID]; !ok {
		return
	}
	delete(r.clients, c.sessionID)
	r.Leave(c.sessionID)
}

// broadcast marshals a message once and pushes it to every connected client.
// Sends are fire and forget: a slow client's full buffer drops the frame
// rather than stalling the tick.
func (r *Room) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("room %s: marshal broadcast: %v", r.id, err)
		return
	}
	for _, c := range r.clients {
		c.trySend(data)
	}
}

func (r *Room) record(v any) {
	if r.recorder != nil {
		r.recorder.Write(v)
	}
}

// RoomStats is the live state summary served by the metrics API.
type RoomStats struct {
	Tick             uint64       `json:"tick"`
	ConnectedClients int          `json:"connected_clients"`
	Players          int          `json:"players"`
	Bots             int          `json:"bots"`
	Alive            int          `json:"alive"`
	Score            map[Team]int `json:"score"`
	MapName          string       `json:"map"`
}

// Stats snapshots room counters for the metrics API.
func (r *Room) Stats() RoomStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := RoomStats{
		Tick:             r.tick,
		ConnectedClients: len(r.clients),
		Score:            map[Team]int{TeamT: r.score[TeamT], TeamCT: r.score[TeamCT]},
		MapName:          r.def.Name,
	}
	for _, e := range r.entities {
		if e.IsBot() {
			s.Bots++
		} else {
			s.Players++
		}
		if e.Alive {
			s.Alive++
		}
	}
	return s
}
