package game

import (
	"fmt"
	"testing"

	"strike-server/config"
)

// testMapDef is a small flat arena with a spawn pool per team and the interest
// points the bot objective scoring expects.
func testMapDef() *MapDef {
	return &MapDef{
		Name:   "arena",
		Bounds: Bounds{MinX: 0, MinZ: 0, MaxX: 20, MaxZ: 20},
		Nav:    NavParams{CellSize: 1, SampleHeight: 0.9},
		Colliders: []Collider{
			{MinX: 0, MinY: -1, MinZ: 0, MaxX: 20, MaxY: 0, MaxZ: 20, Surface: "concrete"},
		},
		Spawns: map[Team][]SpawnPoint{
			TeamT:  {{X: 5, Z: 2, Yaw: 0}, {X: 7, Z: 2, Yaw: 0}, {X: 9, Z: 2, Yaw: 0}},
			TeamCT: {{X: 5, Z: 18, Yaw: 3.14}, {X: 7, Z: 18, Yaw: 3.14}, {X: 9, Z: 18, Yaw: 3.14}},
		},
		Points: []InterestPoint{
			{ID: "bombsite_a", X: 17, Z: 17},
			{ID: "bombsite_b", X: 3, Z: 17},
			{ID: "mid", X: 10, Z: 10},
			{ID: "t_spawn", X: 7, Z: 2},
			{ID: "ct_spawn", X: 7, Z: 18},
		},
	}
}

func testRoom(t *testing.T) *Room {
	t.Helper()
	return NewRoom("test-room", testMapDef(), "test-seed")
}

func inSpawnPool(def *MapDef, team Team, pos Vec3) bool {
	for _, sp := range def.Spawns[team] {
		if sp.X == pos.X && sp.Z == pos.Z {
			return true
		}
	}
	return false
}

func TestNewRoomSlots(t *testing.T) {
	r := testRoom(t)

	if len(r.entities) != config.RoomEntities {
		t.Fatalf("room has %d entities, want %d", len(r.entities), config.RoomEntities)
	}
	for i, e := range r.entities {
		if e.ID != i+1 {
			t.Errorf("entity %d has id %d", i, e.ID)
		}
		wantTeam := TeamT
		if i >= config.EntitiesPerTeam {
			wantTeam = TeamCT
		}
		if e.Team != wantTeam {
			t.Errorf("entity %d on team %s, want %s", e.ID, e.Team, wantTeam)
		}
		if !e.IsBot() || e.Brain == nil {
			t.Errorf("entity %d should start bot-controlled", e.ID)
		}
		if !e.Alive || e.HP != config.MaxHealth || e.Ammo != config.MagazineSize {
			t.Errorf("entity %d not spawned with full loadout", e.ID)
		}
		if !inSpawnPool(r.def, e.Team, e.Pos) {
			t.Errorf("entity %d spawned at %+v, outside its team pool", e.ID, e.Pos)
		}
	}
}

func TestJoinBalancesTeams(t *testing.T) {
	r := testRoom(t)

	e1 := r.Join("s1", "alice")
	e2 := r.Join("s2", "bob")
	e3 := r.Join("s3", "carol")
	if e1 == nil || e2 == nil || e3 == nil {
		t.Fatal("join returned nil with free slots available")
	}
	if e1.Team == e2.Team {
		t.Fatalf("first two joins landed on the same team %s", e1.Team)
	}
	if e3 == e1 || e3 == e2 {
		t.Fatal("join reused a possessed slot")
	}
	for _, e := range []*Entity{e1, e2, e3} {
		if e.IsBot() || e.Brain != nil {
			t.Errorf("possessed entity %d still bot-controlled", e.ID)
		}
		if e.LastProcessedSeq != 0 {
			t.Errorf("possessed entity %d kept a stale sequence gate", e.ID)
		}
	}
}

func TestJoinFullRoom(t *testing.T) {
	r := testRoom(t)

	for i := 0; i < config.RoomEntities; i++ {
		if e := r.Join(fmt.Sprintf("s%d", i), fmt.Sprintf("p%d", i)); e == nil {
			t.Fatalf("join %d failed with free slots remaining", i)
		}
	}
	if e := r.Join("overflow", "late"); e != nil {
		t.Fatal("join succeeded in a full room")
	}
}

func TestLeaveRevertsSlotToBot(t *testing.T) {
	r := testRoom(t)

	e := r.Join("s1", "alice")
	if e == nil {
		t.Fatal("join failed")
	}
	e.applyInput(ClientInput{Seq: 500, Yaw: 1})

	r.Leave("s1")
	if !e.IsBot() || e.Brain == nil {
		t.Fatal("slot did not revert to bot control")
	}
	if e.SessionID != "" {
		t.Fatalf("session id %q not cleared", e.SessionID)
	}
	if e.Name != fmt.Sprintf("bot-%d", e.ID) {
		t.Fatalf("bot name = %q", e.Name)
	}
	if e.LastProcessedSeq != 0 {
		t.Fatal("sequence gate not reset; fresh brain decisions would be dropped")
	}
	if _, ok := r.sessions["s1"]; ok {
		t.Fatal("session still registered after leave")
	}

	// The slot keeps simulating: the fresh brain's first decision passes the
	// gate on the very next tick.
	r.step()
	if e.LastProcessedSeq == 0 {
		t.Fatal("bot decision did not flow through the input gate after leave")
	}
}

func TestLeaveUnknownSession(t *testing.T) {
	r := testRoom(t)
	r.Leave("never-joined")
}

func TestStepRespawnRestoresLoadout(t *testing.T) {
	r := testRoom(t)
	e := r.entities[0]

	e.Alive = false
	e.HP = 0
	e.Ammo = 3
	e.RespawnTick = r.tick + 2

	r.step()
	if e.Alive {
		t.Fatal("respawned before the scheduled tick")
	}
	r.step()
	if !e.Alive {
		t.Fatal("not respawned at the scheduled tick")
	}
	if e.HP != config.MaxHealth || e.Ammo != config.MagazineSize {
		t.Fatalf("respawn loadout: hp=%d ammo=%d", e.HP, e.Ammo)
	}
	if e.RespawnTick != 0 {
		t.Fatal("respawn tick not cleared")
	}
	if e.WeaponReadyTick != r.tick+config.WeaponDrawTicks {
		t.Fatalf("weapon ready at %d, want draw delay from tick %d", e.WeaponReadyTick, r.tick)
	}
	if !inSpawnPool(r.def, e.Team, e.Pos) {
		t.Fatalf("respawned at %+v, outside the team pool", e.Pos)
	}
}

func TestStepRecordsHistoryForDeadEntities(t *testing.T) {
	r := testRoom(t)
	e := r.entities[0]
	e.Alive = false
	e.RespawnTick = 0

	r.step()
	if _, ok := e.History.At(r.tick); !ok {
		t.Fatal("dead entity has no history entry for the current tick")
	}
}

func TestStepTickRollover(t *testing.T) {
	r := testRoom(t)
	r.tick = config.TickResetThreshold - 1

	// A respawn pending across the reset must survive, rebased.
	e := r.entities[0]
	e.Alive = false
	e.HP = 0
	e.RespawnTick = config.TickResetThreshold + 10

	r.step()
	if r.tick != config.HistoryTicks {
		t.Fatalf("tick after rollover = %d, want %d", r.tick, config.HistoryTicks)
	}
	if e.RespawnTick != config.HistoryTicks+10 {
		t.Fatalf("respawn tick rebased to %d, want %d", e.RespawnTick, config.HistoryTicks+10)
	}

	// Stepping on from the reset counter still respawns on schedule.
	for i := 0; i < 11; i++ {
		r.step()
	}
	if !e.Alive {
		t.Fatal("entity never respawned after the counter reset")
	}
}

func TestStats(t *testing.T) {
	r := testRoom(t)
	if r.Join("s1", "alice") == nil {
		t.Fatal("join failed")
	}
	r.entities[9].Alive = false

	s := r.Stats()
	if s.Players != 1 || s.Bots != config.RoomEntities-1 {
		t.Fatalf("players=%d bots=%d", s.Players, s.Bots)
	}
	if s.Alive != config.RoomEntities-1 {
		t.Fatalf("alive=%d", s.Alive)
	}
	if s.MapName != "arena" {
		t.Fatalf("map=%q", s.MapName)
	}
	if s.Score[TeamT] != 0 || s.Score[TeamCT] != 0 {
		t.Fatalf("score=%v", s.Score)
	}
}

func TestTrySendDropsWhenFull(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}
	c.trySend([]byte("a"))
	c.trySend([]byte("b")) // buffer full, dropped
	if len(c.send) != 1 {
		t.Fatalf("send buffer holds %d frames, want 1", len(c.send))
	}
	if got := <-c.send; string(got) != "a" {
		t.Fatalf("kept frame = %q, want the first one", got)
	}
}

func TestSnapshotCadence(t *testing.T) {
	r := testRoom(t)
	c := &Client{send: make(chan []byte, 16), sessionID: "s1"}
	if r.Join("s1", "alice") == nil {
		t.Fatal("join failed")
	}
	r.attach(c)

	for i := 0; i < config.SnapshotEvery*4; i++ {
		r.step()
	}
	if got := len(c.send); got != 4 {
		t.Fatalf("client received %d snapshots over %d ticks, want 4", got, config.SnapshotEvery*4)
	}
}

func TestBuildEntitySnapshots(t *testing.T) {
	r := testRoom(t)
	snaps := r.buildEntitySnapshots()
	if len(snaps) != config.RoomEntities {
		t.Fatalf("snapshot carries %d entities, want %d", len(snaps), config.RoomEntities)
	}
	for i, s := range snaps {
		e := r.entities[i]
		if s.ID != e.ID || s.Team != e.Team || s.HP != e.HP || s.Pos != e.Pos {
			t.Fatalf("snapshot %d does not mirror entity state: %+v", i, s)
		}
	}
}
