package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/svitlo/core/model"
)

// HTML renders an interactive heatmap page. Cell values are the share of the
// hour without power; the data name carries the state wire name.
type HTML struct{}

// NewHTML returns the heatmap renderer.
func NewHTML() *HTML { return &HTML{} }

func (*HTML) Format() string { return "html" }

func (*HTML) Render(w io.Writer, v View) error {
	hours := make([]string, model.SlotsPerDay)
	for i := range hours {
		hours[i] = pad2(i)
	}
	labels := make([]string, len(v.Rows))
	data := make([]opts.HeatMapData, 0, len(v.Rows)*model.SlotsPerDay)
	for r, row := range v.Rows {
		labels[r] = row.Label
		for slot := 1; slot <= model.SlotsPerDay; slot++ {
			s := row.Grid.Slot(slot)
			data = append(data, opts.HeatMapData{
				Name:  s.String(),
				Value: [3]interface{}{slot - 1, r, s.OffHours()},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: v.Title}),
		charts.WithTitleOpts(opts.Title{Title: v.Title, Subtitle: v.Subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: hours}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{hex(colorOn), hex(colorOff)}},
		}),
	)
	hm.AddSeries("off share", data)
	return hm.Render(w)
}
