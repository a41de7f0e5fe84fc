// Package pe models the processing elements attached to the routers, as far as
// the localizer needs them: a sticky flag that silences a malicious endpoint.
package pe

import (
	"fmt"
	"log/slog"
	"sort"
)

// Endpoints keeps the disable flag of every processing element of a mesh.
type Endpoints struct {
	disabled   []bool
	disabledAt map[int]uint64
	now        func() uint64
}

// NewEndpoints creates n enabled endpoints.
func NewEndpoints(n int) *Endpoints {
	return &Endpoints{
		disabled:   make([]bool, n),
		disabledAt: make(map[int]uint64),
	}
}

// WithCycleCounter lets the endpoints record the cycle at which each one was
// disabled.
func (e *Endpoints) WithCycleCounter(now func() uint64) *Endpoints {
	e.now = now
	return e
}

// SetDisabled stops the endpoint from injecting any further traffic. Setting
// it again has no effect.
func (e *Endpoints) SetDisabled(router int) {
	e.mustBeEndpoint(router)

	if e.disabled[router] {
		return
	}

	e.disabled[router] = true

	var cycle uint64
	if e.now != nil {
		cycle = e.now()
	}
	e.disabledAt[router] = cycle

	slog.Info("EndpointDisabled", "Router", router, "Cycle", cycle)
}

// Disabled tells if the endpoint has been disabled.
func (e *Endpoints) Disabled(router int) bool {
	e.mustBeEndpoint(router)
	return e.disabled[router]
}

// DisabledAt returns the cycle at which the endpoint was disabled.
func (e *Endpoints) DisabledAt(router int) (uint64, bool) {
	c, ok := e.disabledAt[router]
	return c, ok
}

// DisabledIDs lists the disabled endpoints in ascending order.
func (e *Endpoints) DisabledIDs() []int {
	ids := make([]int, 0, len(e.disabledAt))
	for id := range e.disabledAt {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// Len returns the number of endpoints.
func (e *Endpoints) Len() int {
	return len(e.disabled)
}

func (e *Endpoints) mustBeEndpoint(router int) {
	if router < 0 || router >= len(e.disabled) {
		panic(fmt.Sprintf("endpoint %d does not exist", router))
	}
}
