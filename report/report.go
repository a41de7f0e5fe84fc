// Package report summarizes the outcome of a localization run.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/meshguard/config"
)

// StoppedRouter is a router whose endpoint was disabled.
type StoppedRouter struct {
	ID    int
	Name  string
	X, Y  int
	Cycle uint64
}

// MitigationReport represents the outcome of a run.
type MitigationReport struct {
	Width, Height int
	Cycles        uint64
	Enabled       bool
	Stopped       []StoppedRouter

	// Localizations counts the suspicions that led to a disabled endpoint.
	// AvgLocalizationCycles is how long that took on average, from the
	// suspicion to the first disabled endpoint.
	Localizations         uint64
	AvgLocalizationCycles float64
}

// GenerateReport collects the report of a platform after it has run.
func GenerateReport(p *config.Platform) *MitigationReport {
	r := &MitigationReport{
		Width:   p.Mesh.Width,
		Height:  p.Mesh.Height,
		Cycles:  p.Driver.Cycle(),
		Enabled: p.Localizer != nil,
	}

	for _, id := range p.Endpoints.DisabledIDs() {
		x, y := p.Mesh.Coord(id)
		at, _ := p.Endpoints.DisabledAt(id)
		r.Stopped = append(r.Stopped, StoppedRouter{
			ID:    id,
			Name:  p.Mesh.RouterName(id),
			X:     x,
			Y:     y,
			Cycle: at,
		})
	}

	if p.Tracer != nil {
		r.Localizations = uint64(p.Tracer.TotalCount())
		r.AvgLocalizationCycles = float64(p.Tracer.AverageTime()) * float64(p.Freq())
	}

	return r
}

// WriteReport writes a formatted report to a writer.
func (r *MitigationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "MITIGATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Mesh: %dx%d, %d cycles\n", r.Width, r.Height, r.Cycles)

	if !r.Enabled {
		fmt.Fprintln(w, "Localization disabled")
		fmt.Fprintln(w)
		return
	}

	if len(r.Stopped) == 0 {
		fmt.Fprintln(w, "No endpoint disabled")
	} else {
		t := table.NewWriter()
		t.SetTitle(fmt.Sprintf("Disabled endpoints (%d)", len(r.Stopped)))
		t.AppendHeader(table.Row{"ID", "Router", "X", "Y", "Cycle"})
		for _, s := range r.Stopped {
			t.AppendRow(table.Row{s.ID, s.Name, s.X, s.Y, s.Cycle})
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintf(w, "Localizations: %d\n", r.Localizations)
	if r.Localizations > 0 {
		fmt.Fprintf(w, "Average localization time: %.2f cycles\n",
			r.AvgLocalizationCycles)
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file.
func (r *MitigationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
