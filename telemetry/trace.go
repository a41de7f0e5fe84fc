package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sarchlab/meshguard/mesh"
)

const traceFields = 10

// Record is one row of a telemetry trace.
type Record struct {
	Line    int
	Cycle   uint64
	Router  int
	Side    mesh.Side
	VC      int
	Channel Channel
}

// A Trace is a recorded telemetry stream, grouped by cycle.
type Trace struct {
	frames map[uint64][]Record
	cycles []uint64
}

// LoadTraceFile reads a trace from a CSV file.
func LoadTraceFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry trace: %w", err)
	}
	defer f.Close()

	t, err := LoadTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// LoadTrace reads rows of
// cycle, router, side, vc, capacity, occupancy, idle, stalled, transmitted, latency.
// Lines starting with # are comments.
func LoadTrace(r io.Reader) (*Trace, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	t := &Trace{frames: make(map[uint64][]Record)}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read telemetry trace: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec.Line = line

		if _, ok := t.frames[rec.Cycle]; !ok {
			t.cycles = append(t.cycles, rec.Cycle)
		}
		t.frames[rec.Cycle] = append(t.frames[rec.Cycle], rec)
	}

	sort.Slice(t.cycles, func(i, j int) bool { return t.cycles[i] < t.cycles[j] })

	return t, nil
}

func parseRecord(row []string) (Record, error) {
	fields := make([]int, 0, traceFields)
	for _, f := range row {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		v, err := strconv.Atoi(f)
		if err != nil {
			return Record{}, fmt.Errorf("invalid field %q: %w", f, err)
		}
		fields = append(fields, v)
	}

	if len(fields) != traceFields {
		return Record{}, fmt.Errorf("expect %d fields, got %d", traceFields, len(fields))
	}

	if fields[0] < 0 {
		return Record{}, fmt.Errorf("negative cycle %d", fields[0])
	}

	side, err := mesh.ParseSide(fields[2])
	if err != nil {
		return Record{}, err
	}

	return Record{
		Cycle:  uint64(fields[0]),
		Router: fields[1],
		Side:   side,
		VC:     fields[3],
		Channel: Channel{
			BufferCapacity:    fields[4],
			BufferOccupancy:   fields[5],
			IdleCycles:        fields[6],
			StalledFlits:      fields[7],
			TransmittedFlits:  fields[8],
			CumulativeLatency: fields[9],
		},
	}, nil
}

// Validate checks that every record addresses a router of the mesh and one of
// numVCs virtual channels.
func (t *Trace) Validate(m mesh.Mesh, numVCs int) error {
	for _, cycle := range t.cycles {
		for _, rec := range t.frames[cycle] {
			if rec.Router < 0 || rec.Router >= m.NumRouters() {
				return fmt.Errorf("line %d: router %d outside %dx%d mesh",
					rec.Line, rec.Router, m.Width, m.Height)
			}

			if rec.VC < 0 || rec.VC >= numVCs {
				return fmt.Errorf("line %d: virtual channel %d out of %d channels",
					rec.Line, rec.VC, numVCs)
			}
		}
	}

	return nil
}

// Cycles returns the cycles that have records, in order.
func (t *Trace) Cycles() []uint64 {
	return append([]uint64(nil), t.cycles...)
}

// Records returns the records of a cycle.
func (t *Trace) Records(cycle uint64) []Record {
	return t.frames[cycle]
}

// LastCycle returns the last cycle that has records.
func (t *Trace) LastCycle() uint64 {
	if len(t.cycles) == 0 {
		return 0
	}

	return t.cycles[len(t.cycles)-1]
}

// Apply writes the records of a cycle into the store. It returns the number
// of records applied.
func (t *Trace) Apply(store *Store, cycle uint64) int {
	recs := t.frames[cycle]
	for _, rec := range recs {
		store.Set(rec.Router, rec.Side, rec.VC, rec.Channel)
	}

	return len(recs)
}
