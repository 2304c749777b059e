package navigation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cell is a grid coordinate on the XZ plane.
type Cell struct {
	X int
	Z int
}

// Grid is a walkability grid laid over the XZ plane. The zero Grid has no
// cells; agents without a grid walk straight lines.
type Grid struct {
	Origin   mgl32.Vec3 // world position of the corner of cell (0,0)
	CellSize float32
	Width    int
	Depth    int
	// MaxNodes bounds the nodes expanded by a single search.
	MaxNodes int

	blocked []bool
}

func NewGrid(origin mgl32.Vec3, cellSize float32, width, depth int) *Grid {
	if width < 0 {
		width = 0
	}
	if depth < 0 {
		depth = 0
	}
	return &Grid{
		Origin:   origin,
		CellSize: cellSize,
		Width:    width,
		Depth:    depth,
		MaxNodes: width * depth,
		blocked:  make([]bool, width*depth),
	}
}

func (g *Grid) inBounds(c Cell) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < g.Width && c.Z < g.Depth
}

func (g *Grid) index(c Cell) int {
	return c.Z*g.Width + c.X
}

// SetBlocked marks a cell as impassable. Out of range cells are ignored.
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if g.inBounds(c) {
		g.blocked[g.index(c)] = blocked
	}
}

func (g *Grid) Blocked(c Cell) bool {
	if !g.inBounds(c) {
		return true
	}
	return g.blocked[g.index(c)]
}

// CellAt returns the cell containing world position p.
func (g *Grid) CellAt(p mgl32.Vec3) Cell {
	local := p.Sub(g.Origin)
	return Cell{
		X: int(math.Floor(float64(local.X() / g.CellSize))),
		Z: int(math.Floor(float64(local.Z() / g.CellSize))),
	}
}

// CellCenter returns the world position of the centre of c at height y.
func (g *Grid) CellCenter(c Cell, y float32) mgl32.Vec3 {
	return mgl32.Vec3{
		g.Origin.X() + (float32(c.X)+0.5)*g.CellSize,
		y,
		g.Origin.Z() + (float32(c.Z)+0.5)*g.CellSize,
	}
}

// FindPath returns world space corners from 'from' to 'to', ending exactly at
// 'to'. It reports false when either end is blocked or no route exists.
func (g *Grid) FindPath(from, to mgl32.Vec3) ([]mgl32.Vec3, bool) {
	start := g.CellAt(from)
	goal := g.CellAt(to)
	if g.Blocked(start) || g.Blocked(goal) {
		return nil, false
	}

	cells := g.astar(start, goal)
	if cells == nil {
		return nil, false
	}

	corners := make([]mgl32.Vec3, 0, len(cells))
	for i, c := range cells {
		if i == 0 || i == len(cells)-1 {
			continue
		}
		// keep only the cells where the direction changes
		prev, next := cells[i-1], cells[i+1]
		if c.X-prev.X == next.X-c.X && c.Z-prev.Z == next.Z-c.Z {
			continue
		}
		corners = append(corners, g.CellCenter(c, to.Y()))
	}
	corners = append(corners, to)
	return corners, true
}

// astar finds a path on a 4-way grid, bounded by MaxNodes.
func (g *Grid) astar(start, goal Cell) []Cell {
	if start == goal {
		return []Cell{start}
	}

	startIdx := g.index(start)
	goalIdx := g.index(goal)

	open := make([]Cell, 0, 64)
	open = append(open, start)
	openSet := map[int]bool{startIdx: true}

	cameFrom := make(map[int]int, 128)
	gScore := make(map[int]float64, 128)
	fScore := make(map[int]float64, 128)
	gScore[startIdx] = 0
	fScore[startIdx] = heuristic(start, goal)

	maxNodes := g.MaxNodes
	if maxNodes <= 0 {
		maxNodes = g.Width * g.Depth
	}

	iterations := 0
	for len(open) > 0 && iterations < maxNodes {
		iterations++
		// find node with lowest fScore
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, n := range open {
			if f, ok := fScore[g.index(n)]; ok && f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		currentIdx := g.index(current)
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(openSet, currentIdx)

		if currentIdx == goalIdx {
			return g.reconstruct(cameFrom, currentIdx, startIdx)
		}

		neighbors := [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		for _, d := range neighbors {
			n := Cell{X: current.X + d.X, Z: current.Z + d.Z}
			if g.Blocked(n) {
				continue
			}
			neighborIdx := g.index(n)
			tentative := gScore[currentIdx] + 1
			prev, seen := gScore[neighborIdx]
			if !seen || tentative < prev {
				cameFrom[neighborIdx] = currentIdx
				gScore[neighborIdx] = tentative
				fScore[neighborIdx] = tentative + heuristic(n, goal)
				if !openSet[neighborIdx] {
					open = append(open, n)
					openSet[neighborIdx] = true
				}
			}
		}
	}
	return nil
}

func (g *Grid) reconstruct(cameFrom map[int]int, current, start int) []Cell {
	path := []Cell{{X: current % g.Width, Z: current / g.Width}}
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			return nil
		}
		current = prev
		path = append(path, Cell{X: current % g.Width, Z: current / g.Width})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(a, b Cell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Z-b.Z))
}
