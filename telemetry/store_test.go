package telemetry_test

import (
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/telemetry"
)

var _ = Describe("Store", func() {
	var store *telemetry.Store

	BeforeEach(func() {
		store = telemetry.NewStore(mesh.New(2, 2), 2)
	})

	It("should start with empty snapshots", func() {
		snap := store.Snapshot(3)
		Expect(snap.Router).To(Equal(3))
		Expect(snap.Channel(mesh.North, 1)).To(Equal(telemetry.Channel{}))
	})

	It("should set channels", func() {
		ch := telemetry.Channel{BufferCapacity: 4, BufferOccupancy: 3}
		store.Set(1, mesh.West, 1, ch)

		Expect(store.Snapshot(1).Channel(mesh.West, 1)).To(Equal(ch))
		Expect(store.Snapshot(1).Channel(mesh.West, 0)).
			To(Equal(telemetry.Channel{}))
	})

	It("should hand out copies", func() {
		store.Set(0, mesh.Local, 0, telemetry.Channel{StalledFlits: 2})

		snap := store.Snapshot(0)
		snap.Ports[mesh.Local][0].StalledFlits = 9

		Expect(store.Snapshot(0).Channel(mesh.Local, 0).StalledFlits).To(Equal(2))
	})

	It("should read a missing virtual channel as empty", func() {
		Expect(store.Snapshot(0).Channel(mesh.East, 7)).
			To(Equal(telemetry.Channel{}))
	})

	It("should reject unknown routers and channels", func() {
		Expect(func() { store.Snapshot(4) }).To(Panic())
		Expect(func() { store.Set(0, mesh.North, 2, telemetry.Channel{}) }).
			To(Panic())
	})

	It("should clear per-cycle counters on tick", func() {
		store.Set(2, mesh.PERx, 0, telemetry.Channel{
			BufferCapacity:    4,
			BufferOccupancy:   2,
			IdleCycles:        5,
			StalledFlits:      1,
			TransmittedFlits:  3,
			CumulativeLatency: 30,
		})

		store.Tick(7)

		snap := store.Snapshot(2)
		Expect(snap.Cycle).To(Equal(uint64(7)))
		Expect(snap.Channel(mesh.PERx, 0)).To(Equal(telemetry.Channel{
			BufferCapacity:  4,
			BufferOccupancy: 2,
			IdleCycles:      6,
		}))
	})

	It("should saturate idle counters", func() {
		store.Set(0, mesh.North, 0, telemetry.Channel{IdleCycles: math.MaxInt})

		store.Tick(1)

		Expect(store.Snapshot(0).Channel(mesh.North, 0).IdleCycles).
			To(Equal(math.MaxInt))
	})

	It("should drain a port", func() {
		store.Set(1, mesh.Local, 0, telemetry.Channel{
			BufferCapacity:    4,
			BufferOccupancy:   3,
			IdleCycles:        2,
			StalledFlits:      1,
			TransmittedFlits:  1,
			CumulativeLatency: 5,
		})

		store.Drain(1, mesh.Local)

		Expect(store.NumRouters()).To(Equal(4))
		Expect(store.Snapshot(1).Channel(mesh.Local, 0)).To(Equal(
			telemetry.Channel{BufferCapacity: 4, IdleCycles: 2}))
	})

	It("should replace whole snapshots", func() {
		snap := telemetry.NewSnapshot(1, 2)
		snap.Ports[mesh.South][1].BufferOccupancy = 3

		store.Replace(snap)

		Expect(store.Snapshot(1).Channel(mesh.South, 1).BufferOccupancy).
			To(Equal(3))
		Expect(func() { store.Replace(telemetry.NewSnapshot(1, 1)) }).
			To(Panic())
	})
})

var _ = Describe("Trace", func() {
	const traceCSV = `# cycle, router, side, vc, cap, occ, idle, stalled, tx, latency
2, 0, 1, 0, 4, 3, 0, 1, 2, 10
1, 1, 3, 0, 4, 1, 7, 0, 0, 0

2 , 1, 5, 0, 4, 4, 0, 2, 1, 6
`

	It("should group records by cycle", func() {
		trace, err := telemetry.LoadTrace(strings.NewReader(traceCSV))

		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Cycles()).To(Equal([]uint64{1, 2}))
		Expect(trace.LastCycle()).To(Equal(uint64(2)))
		Expect(trace.Records(2)).To(HaveLen(2))
		Expect(trace.Records(2)[1].Side).To(Equal(mesh.PERx))
		Expect(trace.Records(3)).To(BeEmpty())
	})

	It("should apply a frame to the store", func() {
		trace, err := telemetry.LoadTrace(strings.NewReader(traceCSV))
		Expect(err).NotTo(HaveOccurred())

		store := telemetry.NewStore(mesh.New(2, 1), 1)
		Expect(trace.Apply(store, 2)).To(Equal(2))

		Expect(store.Snapshot(0).Channel(mesh.East, 0)).To(Equal(
			telemetry.Channel{
				BufferCapacity:    4,
				BufferOccupancy:   3,
				StalledFlits:      1,
				TransmittedFlits:  2,
				CumulativeLatency: 10,
			}))
		Expect(store.Snapshot(1).Channel(mesh.PERx, 0).StalledFlits).
			To(Equal(2))
	})

	It("should accept records inside the mesh", func() {
		trace, err := telemetry.LoadTrace(strings.NewReader(traceCSV))
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Validate(mesh.New(2, 1), 1)).To(Succeed())
	})

	It("should reject records outside the mesh", func() {
		trace, err := telemetry.LoadTrace(strings.NewReader(
			"1, 0, 1, 0, 4, 3, 0, 1, 2, 10\n5, 99, 0, 0, 4, 1, 0, 0, 1, 3\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Records(5)[0].Line).To(Equal(2))

		m := mesh.New(2, 2)
		Expect(trace.Validate(m, 1)).To(MatchError(
			"line 2: router 99 outside 2x2 mesh"))

		trace, err = telemetry.LoadTrace(strings.NewReader(
			"5, 3, 0, 7, 4, 1, 0, 0, 1, 3\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Validate(m, 1)).To(MatchError(
			"line 1: virtual channel 7 out of 1 channels"))
		Expect(trace.Validate(m, 8)).To(Succeed())
	})

	It("should report malformed rows with their line", func() {
		_, err := telemetry.LoadTrace(strings.NewReader("1, 0, 1\n"))
		Expect(err).To(MatchError(ContainSubstring("line 1")))

		_, err = telemetry.LoadTrace(
			strings.NewReader("1, 0, 9, 0, 4, 3, 0, 1, 2, 10\n"))
		Expect(err).To(MatchError(ContainSubstring("invalid port")))

		_, err = telemetry.LoadTrace(
			strings.NewReader("1, 0, x, 0, 4, 3, 0, 1, 2, 10\n"))
		Expect(err).To(HaveOccurred())
	})
})
