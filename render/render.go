// Package render draws schedule artifacts. Every renderer accepts the same
// views: a queue view with today and tomorrow, and an aggregate view with the
// tomorrow grid of every queue.
package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/kilianp07/svitlo/core/fingerprint"
	"github.com/kilianp07/svitlo/core/model"
)

// Row is one labelled grid line of an artifact.
type Row struct {
	Label string
	Grid  model.DayGrid
}

// View is what a renderer draws: a title and grid rows.
type View struct {
	Title    string
	Subtitle string
	Rows     []Row
}

// Renderer writes one artifact in its file format.
type Renderer interface {
	// Format is the file extension without the dot.
	Format() string
	Render(w io.Writer, v View) error
}

const dateLayout = "02.01.2006"

// QueueView shows today and tomorrow of q.
func QueueView(ft model.FactTable, q model.QueueKey, loc *time.Location) View {
	rows := make([]Row, 0, 2)
	for _, day := range ft.Days() {
		rows = append(rows, Row{Label: day.Time(loc).Format(dateLayout), Grid: ft.Grid(day, q)})
	}
	return View{Title: q.DisplayID(), Subtitle: q.Label(), Rows: rows}
}

// AggregateView shows the tomorrow grid of every queue.
func AggregateView(ft model.FactTable, loc *time.Location) View {
	day := ft.Tomorrow()
	rows := make([]Row, 0, len(model.Queues))
	for _, q := range model.Queues {
		rows = append(rows, Row{Label: q.DisplayID(), Grid: ft.Grid(day, q)})
	}
	return View{Title: "GPV " + day.Time(loc).Format(dateLayout), Subtitle: "all queues, tomorrow", Rows: rows}
}

// ViewFor builds the view an artifact renders.
func ViewFor(a fingerprint.Artifact, ft model.FactTable, loc *time.Location) View {
	if a.Aggregate() {
		return AggregateView(ft, loc)
	}
	return QueueView(ft, a.Queue, loc)
}

var renderers = map[string]func() Renderer{
	"png":  func() Renderer { return NewPNG() },
	"pdf":  func() Renderer { return NewPDF() },
	"html": func() Renderer { return NewHTML() },
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	f, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("unknown render format %q", format)
	}
	return f(), nil
}

// ForFormats resolves a renderer per format, keeping the order given.
func ForFormats(formats []string) ([]Renderer, error) {
	out := make([]Renderer, 0, len(formats))
	for _, f := range formats {
		r, err := New(f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Formats lists the supported formats.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for n := range renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
