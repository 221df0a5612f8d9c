package game

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The static map definition is an immutable input artifact: colliders, spawn
// pools, bombsite regions, nav-grid parameters and the named interest points
// bot objective scoring runs over. It is read-only after load and shared by
// reference across the room.

//go:embed maps/default.yaml
var defaultMapYAML []byte

type Bounds struct {
	MinX float64 `yaml:"minX"`
	MinZ float64 `yaml:"minZ"`
	MaxX float64 `yaml:"maxX"`
	MaxZ float64 `yaml:"maxZ"`
}

type Collider struct {
	MinX    float64 `yaml:"minX"`
	MinY    float64 `yaml:"minY"`
	MinZ    float64 `yaml:"minZ"`
	MaxX    float64 `yaml:"maxX"`
	MaxY    float64 `yaml:"maxY"`
	MaxZ    float64 `yaml:"maxZ"`
	Surface string  `yaml:"surface"`
}

// Box converts the collider to its AABB.
func (c Collider) Box() AABB {
	return AABB{
		Min: Vec3{c.MinX, c.MinY, c.MinZ},
		Max: Vec3{c.MaxX, c.MaxY, c.MaxZ},
	}
}

type SpawnPoint struct {
	X   float64 `yaml:"x"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type Region struct {
	ID   string  `yaml:"id"`
	MinX float64 `yaml:"minX"`
	MinZ float64 `yaml:"minZ"`
	MaxX float64 `yaml:"maxX"`
	MaxZ float64 `yaml:"maxZ"`
}

// InterestPoint is a named map location bots score as a patrol objective.
type InterestPoint struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Z  float64 `yaml:"z"`
}

type NavParams struct {
	CellSize     float64 `yaml:"cellSize"`
	SampleHeight float64 `yaml:"sampleHeight"`
}

type MapDef struct {
	Name      string                  `yaml:"name"`
	Bounds    Bounds                  `yaml:"bounds"`
	Nav       NavParams               `yaml:"nav"`
	Colliders []Collider              `yaml:"colliders"`
	Spawns    map[Team][]SpawnPoint   `yaml:"spawns"`
	Bombsites []Region                `yaml:"bombsites"`
	Points    []InterestPoint         `yaml:"points"`
}

// LoadMap reads a map definition from path, or the embedded default map when
// path is empty.
func LoadMap(path string) (*MapDef, error) {
	data := defaultMapYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read map %s: %w", path, err)
		}
		data = b
	}
	var def MapDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (m *MapDef) validate() error {
	if m.Bounds.MaxX <= m.Bounds.MinX || m.Bounds.MaxZ <= m.Bounds.MinZ {
		return fmt.Errorf("map %q: degenerate bounds", m.Name)
	}
	if m.Nav.CellSize <= 0 {
		return fmt.Errorf("map %q: nav cellSize must be positive", m.Name)
	}
	for _, team := range []Team{TeamT, TeamCT} {
		if len(m.Spawns[team]) == 0 {
			return fmt.Errorf("map %q: no spawn points for team %s", m.Name, team)
		}
	}
	return nil
}

// Point returns the interest point with the given id.
func (m *MapDef) Point(id string) (InterestPoint, bool) {
	for _, p := range m.Points {
		if p.ID == id {
			return p, true
		}
	}
	return InterestPoint{}, false
}

// SpawnFor picks a spawn pose for a team, salted so consecutive respawns of
// the same entity spread across the pool. Falls back to the map center when a
// team has no spawn data.
func (m *MapDef) SpawnFor(team Team, salt uint64) (Vec3, float64) {
	pool := m.Spawns[team]
	if len(pool) == 0 {
		return Vec3{
			X: (m.Bounds.MinX + m.Bounds.MaxX) / 2,
			Z: (m.Bounds.MinZ + m.Bounds.MaxZ) / 2,
		}, 0
	}
	sp := pool[salt%uint64(len(pool))]
	return Vec3{X: sp.X, Y: 0, Z: sp.Z}, sp.Yaw
}
