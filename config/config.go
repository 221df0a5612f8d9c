package config

import (
	"log"
	"os"
	"time"
)

// Simulation timing
const (
	// TickRate is the fixed simulation rate in ticks per second.
	TickRate = 30
	// TickInterval is the wall-clock spacing between simulation ticks.
	TickInterval = time.Second / TickRate
	// SnapshotEvery is the tick divisor for state broadcasts (every 3rd tick = 10 Hz).
	SnapshotEvery = 3
	// HistoryTicks is the rewind horizon kept per entity for lag compensation (3s).
	HistoryTicks = 90
	// TickResetThreshold guards the tick counter against overflow. When the
	// counter passes it, the loop resets to HistoryTicks so the rewind window
	// stays valid.
	TickResetThreshold = 1 << 30
)

// Room population
const (
	// RoomEntities is the fixed entity count per room, split evenly across teams.
	RoomEntities    = 10
	EntitiesPerTeam = RoomEntities / 2
)

// Combat tuning
const (
	MagazineSize      = 30
	BodyDamage        = 25
	HeadMultiplier    = 3.0
	FireCooldownTicks = 3  // 600 RPM at 30 ticks/s
	SprayMaxIndex     = 29 // spray pattern positions 0..29
	SprayResetTicks   = 9  // idle gap after which spray progression restarts
	WeaponDrawTicks   = 30 // delay after spawn before the weapon can fire
	RespawnDelayTicks = 150
	MaxHealth         = 100
	LowHealthRetreat  = 30
)

// Movement tuning
const (
	RunSpeed  = 5.4 // units per second
	WalkSpeed = 2.4
	Gravity   = 20.0
	// Footstep distance thresholds (horizontal units travelled per step sound).
	RunStepDistance  = 3.2
	WalkStepDistance = 2.2
)

// Bot tuning
const (
	BotDetectRadius   = 40.0
	BotFireConeRad    = 0.12 // max yaw error before a bot pulls the trigger
	BotRepathTicks    = 30
	BotWaypointRadius = 0.8
)

// Pitch is clamped just short of straight up/down.
const PitchLimit = 1.55

// Config holds process-level settings loaded from environment variables.
type Config struct {
	Addr         string
	MapPath      string
	RecordPath   string
	Verbose      bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Addr:         getEnv("STRIKE_ADDR", ":8080"),
		MapPath:      getEnv("STRIKE_MAP", ""),
		RecordPath:   getEnv("STRIKE_RECORD", ""),
		Verbose:      getEnv("STRIKE_VERBOSE", "") != "",
		ReadTimeout:  parseDuration(getEnv("STRIKE_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("STRIKE_WRITE_TIMEOUT", "15s"), 15*time.Second),
	}
	if cfg.MapPath == "" {
		log.Println("Using embedded default map; set STRIKE_MAP to load a map file")
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
