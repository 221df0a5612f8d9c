package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"strike-server/game"
)

// pathcheck is a debugging CLI: it loads a map definition, builds the nav
// grid and prints the A* path between two world points as an ASCII overlay.
//
//	pathcheck -map maps/custom.yaml -from 30,5 -to 50,46

func main() {
	var mapPath, fromArg, toArg string
	flag.StringVar(&mapPath, "map", "", "map file (empty = embedded default)")
	flag.StringVar(&fromArg, "from", "30,5", "start point as x,z")
	flag.StringVar(&toArg, "to", "50,46", "goal point as x,z")
	flag.Parse()

	def, err := game.LoadMap(mapPath)
	if err != nil {
		log.Fatalf("map load error: %v", err)
	}
	from, err := parsePoint(fromArg)
	if err != nil {
		log.Fatalf("bad -from: %v", err)
	}
	to, err := parsePoint(toArg)
	if err != nil {
		log.Fatalf("bad -to: %v", err)
	}

	grid := game.NewNavGrid(def)
	path := grid.FindPath(from, to)
	if len(path) == 0 {
		fmt.Println("no path")
		return
	}
	fmt.Printf("path with %d waypoints:\n", len(path))
	for _, p := range path {
		fmt.Printf("  (%.1f, %.1f)\n", p.X, p.Z)
	}
	fmt.Println(grid.Render(path))
}

func parsePoint(s string) (game.Vec3, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return game.Vec3{}, fmt.Errorf("want x,z got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return game.Vec3{}, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return game.Vec3{}, err
	}
	return game.Vec3{X: x, Z: z}, nil
}
