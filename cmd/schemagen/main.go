package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"strike-server/game"
)

// schemagen reflects the ClientInput wire struct into a baseline JSON schema.
// The committed schema at game/schemas/input.json is this baseline plus the
// hand-maintained message envelope and numeric bounds; regenerate here and
// diff when the struct changes.

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "game/schemas/input.gen.json", "path to write the reflected schema")
	flag.Parse()

	schema := buildSchema()

	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(game.ClientInput))
	schema.Title = "ClientInput"
	schema.Description = "Per-client input message validated at the transport boundary"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
