// Package feature turns raw router telemetry into perceptron inputs.
package feature

import (
	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/telemetry"
)

// Length is the number of elements in a feature vector.
const Length = 6

// Positions in a Vector.
const (
	Bias = iota
	BufferOccupancy
	IdleCycles
	StalledFlits
	TransmittedFlits
	AvgLatency
)

// Vector is the input of a perceptron. The first element is always 1 so that
// the first weight acts as the bias.
type Vector [Length]int

// Extractor builds feature vectors for the ports of a mesh.
type Extractor struct {
	mesh   mesh.Mesh
	source telemetry.Source
	vc     int
}

// NewExtractor creates an extractor that reads the given virtual channel.
func NewExtractor(m mesh.Mesh, source telemetry.Source, vc int) *Extractor {
	return &Extractor{
		mesh:   m,
		source: source,
		vc:     vc,
	}
}

// Neighbor returns the router and port on the other end of a link. Local
// ports have no spatial neighbor and resolve to the router itself. Crossing
// the mesh boundary panics.
func (e *Extractor) Neighbor(router int, side mesh.Side) (int, mesh.Side) {
	return e.mesh.MustNeighbor(router, side), side.Opposite()
}

// Extract returns the features of a port. The receiving side contributes its
// buffer status, the sending side its transmit statistics.
func (e *Extractor) Extract(router int, side mesh.Side) Vector {
	other, otherSide := e.Neighbor(router, side)

	local := e.source.Snapshot(router).Channel(side, e.vc)
	remote := e.source.Snapshot(other).Channel(otherSide, e.vc)

	return Vector{
		Bias:             1,
		BufferOccupancy:  local.BufferOccupancy,
		IdleCycles:       local.IdleCycles,
		StalledFlits:     remote.StalledFlits,
		TransmittedFlits: remote.TransmittedFlits,
		AvgLatency:       AverageLatency(remote),
	}
}

// AverageLatency returns the per-flit latency of the flits transmitted on a
// channel. Without transmitted flits, the raw cumulative latency is returned.
func AverageLatency(ch telemetry.Channel) int {
	if ch.TransmittedFlits > 0 {
		return ch.CumulativeLatency / ch.TransmittedFlits
	}

	return ch.CumulativeLatency
}
