package telemetry

import (
	"fmt"

	"github.com/sarchlab/meshguard/mesh"
)

// Store keeps the current snapshot of every router of a mesh.
type Store struct {
	mesh      mesh.Mesh
	numVCs    int
	snapshots []Snapshot
}

// NewStore creates one empty snapshot per router.
func NewStore(m mesh.Mesh, numVCs int) *Store {
	if numVCs <= 0 {
		panic("need at least one virtual channel")
	}

	s := &Store{
		mesh:      m,
		numVCs:    numVCs,
		snapshots: make([]Snapshot, m.NumRouters()),
	}

	for id := range s.snapshots {
		s.snapshots[id] = NewSnapshot(id, numVCs)
	}

	return s
}

// NumVCs returns the number of virtual channels per port.
func (s *Store) NumVCs() int {
	return s.numVCs
}

// NumRouters returns the number of routers in the store.
func (s *Store) NumRouters() int {
	return len(s.snapshots)
}

// Snapshot returns a copy of the current snapshot of a router.
func (s *Store) Snapshot(router int) Snapshot {
	return s.snapshots[s.mustBeRouter(router)].Clone()
}

// Set overwrites the record of one channel of one port.
func (s *Store) Set(router int, side mesh.Side, vc int, ch Channel) {
	snap := &s.snapshots[s.mustBeRouter(router)]
	if vc < 0 || vc >= s.numVCs {
		panic(fmt.Sprintf("invalid virtual channel %d", vc))
	}

	snap.Ports[side][vc] = ch
}

// Replace overwrites a whole snapshot.
func (s *Store) Replace(snap Snapshot) {
	id := s.mustBeRouter(snap.Router)
	c := snap.Clone()
	for i := range c.Ports {
		if len(c.Ports[i]) != s.numVCs {
			panic(fmt.Sprintf("snapshot of router %d has %d channels on %s, want %d",
				id, len(c.Ports[i]), mesh.Side(i).Name(), s.numVCs))
		}
	}

	s.snapshots[id] = c
}

// Drain empties the buffers of a port and clears its per-cycle counters on
// every virtual channel. Capacity and idle counters are kept.
func (s *Store) Drain(router int, side mesh.Side) {
	snap := &s.snapshots[s.mustBeRouter(router)]
	for vc := range snap.Ports[side] {
		ch := &snap.Ports[side][vc]
		ch.BufferOccupancy = 0
		ch.StalledFlits = 0
		ch.TransmittedFlits = 0
		ch.CumulativeLatency = 0
	}
}

// Tick starts a new cycle. Idle counters advance, per-cycle counters clear.
func (s *Store) Tick(cycle uint64) {
	for id := range s.snapshots {
		snap := &s.snapshots[id]
		snap.Cycle = cycle

		for side := range snap.Ports {
			for vc := range snap.Ports[side] {
				ch := &snap.Ports[side][vc]
				ch.IdleCycles = saturatingInc(ch.IdleCycles)
				ch.StalledFlits = 0
				ch.TransmittedFlits = 0
				ch.CumulativeLatency = 0
			}
		}
	}
}

func (s *Store) mustBeRouter(router int) int {
	if router < 0 || router >= len(s.snapshots) {
		panic(fmt.Sprintf("router %d not in mesh", router))
	}

	return router
}
