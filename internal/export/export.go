// Package export writes the analysis payload as JSON and a replayed timeline
// as CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/statefield/internal/analysis"
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
)

// Payload is the document handed to an external interpreter: the full
// history plus the record and verdict for the current state.
type Payload struct {
	History []history.Sample   `json:"stateHistory"`
	Current mapping.Record     `json:"currentParams"`
	Verdict analysis.Verdict   `json:"verdict"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func NewPayload(snap engine.Snapshot, samples []history.Sample) Payload {
	if samples == nil {
		samples = []history.Sample{}
	}
	return Payload{
		History: samples,
		Current: snap.Record,
		Verdict: snap.Verdict,
	}
}

func WriteJSON(w io.Writer, p Payload) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p)
}

// ExportJSON writes p to path, or to stdout when path is empty or "-".
func ExportJSON(path string, p Payload) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, p)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, p)
}

// Header is the CSV column order.
func Header() []string {
	header := []string{"timestamp"}
	for _, k := range dimension.Keys() {
		header = append(header, string(k))
	}
	return append(header, "D", "lambda", "mu", "coherence", "tension")
}

func WriteCSV(w io.Writer, points []engine.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	for _, p := range points {
		row := []string{strconv.FormatInt(p.Sample.Timestamp, 10)}
		for _, v := range p.Sample.State.Positional() {
			row = append(row, strconv.Itoa(v))
		}
		r := p.Record
		for _, val := range []float64{r.D, r.Lambda, r.Mu, r.Coherence, r.Tension} {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, points []engine.Point) error {
	if path == "" || path == "-" {
		return WriteCSV(os.Stdout, points)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, points)
}
