package localizer

import "github.com/sarchlab/meshguard/mesh"

// State is the protocol state of a router.
type State int

const (
	// Normal routers may generate suspicions.
	Normal State = iota
	// Suspecting routers wait for the rate-limit timer to expire.
	Suspecting
	// Stopped routers had their endpoint disabled. The state is terminal.
	Stopped
)

func (s State) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Suspecting:
		return "Suspecting"
	case Stopped:
		return "Stopped"
	default:
		panic("invalid state")
	}
}

// A Router is the localizer state attached to one NoC router. It holds an
// inbound queue, one outbound queue per cardinal side, a rate-limit timer and
// the stop flag.
type Router struct {
	id, x, y int
	name     string

	rx tokenQueue
	tx [4]tokenQueue

	timeout   int
	armed     bool
	stopped   bool
	stoppedAt uint64
}

func newRouter(m mesh.Mesh, id int) Router {
	x, y := m.Coord(id)

	return Router{
		id:   id,
		x:    x,
		y:    y,
		name: m.RouterName(id),
	}
}

// ID returns the router id.
func (r *Router) ID() int {
	return r.id
}

// Coord returns the position of the router in the mesh.
func (r *Router) Coord() (x, y int) {
	return r.x, r.y
}

// Name returns the name of the router.
func (r *Router) Name() string {
	return r.name
}

// Timeout returns the remaining cycles before the router may generate
// another suspicion.
func (r *Router) Timeout() int {
	return r.timeout
}

// Stopped checks if the endpoint of the router has been disabled.
func (r *Router) Stopped() bool {
	return r.stopped
}

// StoppedAt returns the cycle at which the router stopped.
func (r *Router) StoppedAt() (uint64, bool) {
	return r.stoppedAt, r.stopped
}

// State returns the protocol state.
func (r *Router) State() State {
	switch {
	case r.stopped:
		return Stopped
	case r.timeout > 0:
		return Suspecting
	default:
		return Normal
	}
}

// Rx returns the tokens waiting in the inbound queue, front first.
func (r *Router) Rx() []Token {
	return r.rx.Snapshot()
}

// Tx returns the tokens waiting to leave through a cardinal side.
func (r *Router) Tx(side mesh.Side) []Token {
	return r.txQueue(side).Snapshot()
}

func (r *Router) txQueue(side mesh.Side) *tokenQueue {
	if !side.IsCardinal() {
		panic("local sides have no outbound token queue")
	}

	return &r.tx[side]
}
