// Package telemetry holds the per-cycle traffic records that NoC routers
// publish for the localizer.
package telemetry

import (
	"fmt"
	"math"

	"github.com/sarchlab/meshguard/mesh"
)

// Channel is the record of one virtual channel of one port in one cycle.
type Channel struct {
	BufferCapacity    int
	BufferOccupancy   int
	IdleCycles        int // saturating, reset when a flit arrives
	StalledFlits      int // rejected because the buffer was full
	TransmittedFlits  int
	CumulativeLatency int // of the flits transmitted in this cycle
}

func (c Channel) String() string {
	return fmt.Sprintf("%d, %d, %d, %d, %d, %d",
		c.BufferCapacity, c.BufferOccupancy, c.IdleCycles,
		c.StalledFlits, c.TransmittedFlits, c.CumulativeLatency)
}

// Snapshot is the telemetry of a router in one cycle, indexed by side and
// virtual channel.
type Snapshot struct {
	Router int
	Cycle  uint64
	Ports  [mesh.NumSides][]Channel
}

// NewSnapshot creates an empty snapshot with numVCs channels per port.
func NewSnapshot(router, numVCs int) Snapshot {
	s := Snapshot{Router: router}
	for i := range s.Ports {
		s.Ports[i] = make([]Channel, numVCs)
	}

	return s
}

// Channel returns the record of a port and virtual channel. A missing virtual
// channel reads as an empty record.
func (s Snapshot) Channel(side mesh.Side, vc int) Channel {
	chans := s.Ports[side]
	if vc < 0 || vc >= len(chans) {
		return Channel{}
	}

	return chans[vc]
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	for i := range s.Ports {
		c.Ports[i] = append([]Channel(nil), s.Ports[i]...)
	}

	return c
}

// A Source provides the current snapshot of each router.
type Source interface {
	Snapshot(router int) Snapshot
}

func saturatingInc(v int) int {
	if v == math.MaxInt {
		return v
	}

	return v + 1
}
