package game

import (
	"container/heap"
	"math"
	"strings"
)

// NavGrid rasterizes the map's axis-aligned colliders onto a uniform XZ grid
// at a fixed sample height. It depends only on the immutable map definition,
// so a single instance is shared by every bot in the room.
type NavGrid struct {
	cols, rows int
	cellSize   float64
	originX    float64
	originZ    float64
	blocked    []bool
}

// NewNavGrid samples each cell center at nav.SampleHeight and marks it
// blocked when the sample falls strictly inside a collider whose vertical
// extent covers that height. The floor's top face sits at y=0, so it never
// blocks cells sampled above it.
func NewNavGrid(def *MapDef) *NavGrid {
	cols := int(math.Ceil((def.Bounds.MaxX - def.Bounds.MinX) / def.Nav.CellSize))
	rows := int(math.Ceil((def.Bounds.MaxZ - def.Bounds.MinZ) / def.Nav.CellSize))
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	g := &NavGrid{
		cols:     cols,
		rows:     rows,
		cellSize: def.Nav.CellSize,
		originX:  def.Bounds.MinX,
		originZ:  def.Bounds.MinZ,
		blocked:  make([]bool, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sample := Vec3{
				X: g.originX + (float64(col)+0.5)*g.cellSize,
				Y: def.Nav.SampleHeight,
				Z: g.originZ + (float64(row)+0.5)*g.cellSize,
			}
			for _, c := range def.Colliders {
				if c.Box().Contains(sample) {
					g.blocked[row*cols+col] = true
					break
				}
			}
		}
	}
	return g
}

func (g *NavGrid) index(col, row int) int { return row*g.cols + col }

func (g *NavGrid) inBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

// Walkable reports whether the cell at (col,row) is inside the grid and clear.
func (g *NavGrid) Walkable(col, row int) bool {
	return g.inBounds(col, row) && !g.blocked[g.index(col, row)]
}

// Locate maps a world point to its containing cell.
func (g *NavGrid) Locate(p Vec3) (int, int, bool) {
	col := int(math.Floor((p.X - g.originX) / g.cellSize))
	row := int(math.Floor((p.Z - g.originZ) / g.cellSize))
	if !g.inBounds(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

// CellCenter returns the world-space center of a cell at ground level.
func (g *NavGrid) CellCenter(col, row int) Vec3 {
	return Vec3{
		X: g.originX + (float64(col)+0.5)*g.cellSize,
		Y: 0,
		Z: g.originZ + (float64(row)+0.5)*g.cellSize,
	}
}

func (g *NavGrid) heuristic(col, row, goalCol, goalRow int) float64 {
	dx := math.Abs(float64(col - goalCol))
	dz := math.Abs(float64(row - goalRow))
	return (dx + dz) * g.cellSize
}

type navNode struct {
	idx    int
	g      float64
	f      float64
	order  int
	parent *navNode
}

// navQueue is a min-heap on f with ties broken by the lower flattened cell
// index, so identical inputs always expand in the same order.
type navQueue []*navNode

func (q navQueue) Len() int { return len(q) }

func (q navQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].idx < q[j].idx
}

func (q navQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].order = i
	q[j].order = j
}

func (q *navQueue) Push(x any) {
	n := x.(*navNode)
	n.order = len(*q)
	*q = append(*q, n)
}

func (q *navQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.order = -1
	*q = old[:n-1]
	return item
}

// 4-directional connectivity, fixed expansion order.
var navOffsets = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// FindPath runs A* between two world points and returns the path as
// cell-center world points in traversal order, including both endpoints'
// containing cells. The path is empty when either endpoint is out of bounds
// or blocked, or no route exists.
func (g *NavGrid) FindPath(from, to Vec3) []Vec3 {
	startCol, startRow, ok := g.Locate(from)
	if !ok || !g.Walkable(startCol, startRow) {
		return nil
	}
	goalCol, goalRow, ok := g.Locate(to)
	if !ok || !g.Walkable(goalCol, goalRow) {
		return nil
	}
	startIdx := g.index(startCol, startRow)
	goalIdx := g.index(goalCol, goalRow)

	open := &navQueue{}
	heap.Init(open)
	heap.Push(open, &navNode{
		idx: startIdx,
		f:   g.heuristic(startCol, startRow, goalCol, goalRow),
	})
	gScore := map[int]float64{startIdx: 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*navNode)
		if _, seen := closed[current.idx]; seen {
			continue
		}
		closed[current.idx] = struct{}{}
		if current.idx == goalIdx {
			return g.reconstruct(current)
		}
		col := current.idx % g.cols
		row := current.idx / g.cols
		for _, d := range navOffsets {
			nc, nr := col+d[0], row+d[1]
			if !g.Walkable(nc, nr) {
				continue
			}
			idx := g.index(nc, nr)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentative := current.g + g.cellSize
			if prev, ok := gScore[idx]; ok && tentative >= prev {
				continue
			}
			gScore[idx] = tentative
			heap.Push(open, &navNode{
				idx:    idx,
				g:      tentative,
				f:      tentative + g.heuristic(nc, nr, goalCol, goalRow),
				parent: current,
			})
		}
	}
	return nil
}

// Render draws the grid as ASCII rows (north = last row), marking blocked
// cells with '#' and path cells with '*'. Used by the pathcheck CLI.
func (g *NavGrid) Render(path []Vec3) string {
	onPath := make(map[int]struct{}, len(path))
	for _, p := range path {
		if col, row, ok := g.Locate(p); ok {
			onPath[g.index(col, row)] = struct{}{}
		}
	}
	var sb strings.Builder
	for row := g.rows - 1; row >= 0; row-- {
		for col := 0; col < g.cols; col++ {
			idx := g.index(col, row)
			_, marked := onPath[idx]
			switch {
			case g.blocked[idx]:
				sb.WriteByte('#')
			case marked:
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *NavGrid) reconstruct(end *navNode) []Vec3 {
	var rev []*navNode
	for n := end; n != nil; n = n.parent {
		rev = append(rev, n)
	}
	path := make([]Vec3, len(rev))
	for i := range rev {
		n := rev[len(rev)-1-i]
		path[i] = g.CellCenter(n.idx%g.cols, n.idx/g.cols)
	}
	return path
}
