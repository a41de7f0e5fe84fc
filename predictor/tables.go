package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/meshguard/mesh"
)

// Role tells on which side of a link a perceptron sits. The numeric values
// are the ones used in the weights table.
type Role int

const (
	// Output classifies the producer of a link.
	Output Role = 0
	// Input classifies the consumer of a link.
	Input Role = 1
)

func (r Role) String() string {
	switch r {
	case Output:
		return "output"
	case Input:
		return "input"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Operator combines the input and output verdicts of a port.
type Operator bool

const (
	// Or flags the port when either side is suspicious.
	Or Operator = false
	// And flags the port only when both sides agree.
	And Operator = true
)

func (op Operator) String() string {
	if op == And {
		return "AND"
	}

	return "OR"
}

// Fuse combines two verdicts with an operator.
func Fuse(a, b bool, op Operator) bool {
	if op == And {
		return a && b
	}

	return a || b
}

// WeightKey identifies the perceptron of a router.
type WeightKey struct {
	Router int
	Role   Role
}

// PortKey identifies a port of a router.
type PortKey struct {
	Router int
	Side   mesh.Side
}

// WeightTable maps perceptrons to their weight vectors.
type WeightTable map[WeightKey][]float32

// OperatorTable maps ports to their fusion operators.
type OperatorTable map[PortKey]Operator

// Lookup returns the operator of a port. Missing entries are Or.
func (t OperatorTable) Lookup(router int, side mesh.Side) Operator {
	return t[PortKey{Router: router, Side: side}]
}

// LoadWeightsFile reads a weights table from a file.
func LoadWeightsFile(path string) (WeightTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	t, err := LoadWeights(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// LoadWeights reads rows of "router, role, w0, ..., w5". A later row for the
// same router and role replaces an earlier one.
func LoadWeights(r io.Reader) (WeightTable, error) {
	t := make(WeightTable)

	err := readRows(r, func(line int, fields []string) error {
		if len(fields) < 3 {
			return fmt.Errorf("line %d: want router, role and weights, got %d fields",
				line, len(fields))
		}

		router, err := parseRouter(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		role, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("line %d: invalid role: %w", line, err)
		}
		if Role(role) != Input && Role(role) != Output {
			return fmt.Errorf("line %d: invalid role %d", line, role)
		}

		w := make([]float32, 0, len(fields)-2)
		for _, s := range fields[2:] {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return fmt.Errorf("line %d: invalid weight: %w", line, err)
			}
			w = append(w, float32(v))
		}

		t[WeightKey{Router: router, Role: Role(role)}] = w

		return nil
	})

	return t, err
}

// LoadOperatorsFile reads an operator table from a file.
func LoadOperatorsFile(path string) (OperatorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open operators file: %w", err)
	}
	defer f.Close()

	t, err := LoadOperators(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// LoadOperators reads rows of "router, port, op" where op 1 is And and 0 is
// Or.
func LoadOperators(r io.Reader) (OperatorTable, error) {
	t := make(OperatorTable)

	err := readRows(r, func(line int, fields []string) error {
		if len(fields) != 3 {
			return fmt.Errorf("line %d: want router, port and op, got %d fields",
				line, len(fields))
		}

		router, err := parseRouter(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		port, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("line %d: invalid port: %w", line, err)
		}
		side, err := mesh.ParseSide(port)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		op, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("line %d: invalid operator: %w", line, err)
		}

		t[PortKey{Router: router, Side: side}] = op != 0

		return nil
	})

	return t, err
}

func parseRouter(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid router id: %w", err)
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid router id %d", id)
	}

	return id, nil
}

// readRows calls fn with the trimmed, non-empty fields of every row.
func readRows(r io.Reader, fn func(line int, fields []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := make([]string, 0, len(record))
		for _, f := range record {
			f = strings.TrimSpace(f)
			if f != "" {
				fields = append(fields, f)
			}
		}

		if len(fields) == 0 {
			continue
		}

		line, _ := reader.FieldPos(0)
		if err := fn(line, fields); err != nil {
			return err
		}
	}
}
