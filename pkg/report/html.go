package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
	xAxisRotate = 60
)

// writeHTML renders the ranked blobs as a standalone echarts bar chart page.
func writeHTML(w io.Writer, rep Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Largest blobs",
			Subtitle: fmt.Sprintf("%d blobs, %d trees, %s total", rep.Stats.Blobs, rep.Stats.Trees, rep.HumanTotal),
			Left:     "center",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Bytes"}),
	)

	labels := make([]string, len(rep.Objects))
	data := make([]opts.BarData, len(rep.Objects))

	for i, entry := range rep.Objects {
		labels[i] = entry.shortID
		if labels[i] == "" {
			labels[i] = entry.ID
		}

		data[i] = opts.BarData{
			Name:  fmt.Sprintf("%s (%s, %s)", entry.ID, entry.HumanSize, entry.Class),
			Value: entry.Size,
		}
	}

	bar.SetXAxis(labels).AddSeries("size", data)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	return nil
}
