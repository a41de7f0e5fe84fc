// Package mesh defines the commonly used topology helpers of a 2D NoC mesh.
package mesh

import "fmt"

// Side defines a port direction of a router.
type Side int

const (
	North Side = iota
	East
	South
	West
	Local // PE -> router, injection
	PERx  // router -> PE, ejection
)

// NumSides is the number of ports a router has, including the two local ones.
const NumSides = 6

// Cardinals lists the four spatial sides in the order routers scan them.
var Cardinals = [4]Side{North, South, East, West}

// Name returns the name of the side.
func (s Side) Name() string {
	switch s {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case Local:
		return "Local"
	case PERx:
		return "PERx"
	default:
		panic("invalid side")
	}
}

func (s Side) String() string {
	return s.Name()
}

// IsCardinal returns true if the side leads to another router.
func (s Side) IsCardinal() bool {
	return s >= North && s <= West
}

// Opposite returns the side of the neighbor that faces this side. Local sides
// face themselves.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Local, PERx:
		return s
	default:
		panic("invalid side")
	}
}

// ParseSide converts the numeric port used in configuration tables.
func ParseSide(v int) (Side, error) {
	if v < 0 || v >= NumSides {
		return 0, fmt.Errorf("invalid port %d", v)
	}

	return Side(v), nil
}

// A Mesh is a Width x Height grid of routers. Router ids are assigned row by
// row, id = y*Width + x. North is y-1, South is y+1, East is x+1, West is x-1.
type Mesh struct {
	Width, Height int
}

// New creates a mesh and panics on non-positive dimensions.
func New(width, height int) Mesh {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid mesh size %dx%d", width, height))
	}

	return Mesh{Width: width, Height: height}
}

// NumRouters returns the number of routers in the mesh.
func (m Mesh) NumRouters() int {
	return m.Width * m.Height
}

// ID returns the router id at the given coordinate.
func (m Mesh) ID(x, y int) int {
	if !m.Contains(x, y) {
		panic(fmt.Sprintf("coordinate (%d, %d) out of mesh %dx%d",
			x, y, m.Width, m.Height))
	}

	return y*m.Width + x
}

// Coord returns the coordinate of a router.
func (m Mesh) Coord(id int) (x, y int) {
	if id < 0 || id >= m.NumRouters() {
		panic(fmt.Sprintf("router %d out of mesh %dx%d", id, m.Width, m.Height))
	}

	return id % m.Width, id / m.Width
}

// Contains checks if a coordinate is inside the mesh.
func (m Mesh) Contains(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Neighbor returns the router reached through the given side. Local sides
// return the router itself. The second return value is false if the side
// leaves the mesh.
func (m Mesh) Neighbor(id int, side Side) (int, bool) {
	x, y := m.Coord(id)

	switch side {
	case North:
		y--
	case South:
		y++
	case East:
		x++
	case West:
		x--
	case Local, PERx:
		return id, true
	default:
		panic("invalid side")
	}

	if !m.Contains(x, y) {
		return -1, false
	}

	return m.ID(x, y), true
}

// MustNeighbor is like Neighbor, but crossing the mesh boundary is an
// invariant violation. Callers exclude boundary sides beforehand.
func (m Mesh) MustNeighbor(id int, side Side) int {
	other, ok := m.Neighbor(id, side)
	if !ok {
		x, y := m.Coord(id)
		panic(fmt.Sprintf("router %d (%d, %d) has no neighbor on the %s side",
			id, x, y, side.Name()))
	}

	return other
}

// HasNeighbor checks if the side leads to a router inside the mesh.
func (m Mesh) HasNeighbor(id int, side Side) bool {
	_, ok := m.Neighbor(id, side)
	return ok
}

// RouterName names a router the way logs and reports refer to it.
func (m Mesh) RouterName(id int) string {
	x, y := m.Coord(id)
	return fmt.Sprintf("LocalizerRouter[%d][%d]_#%d", x, y, id)
}
