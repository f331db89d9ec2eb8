package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
)

func writeText(w io.Writer, rep Report, opts Options) error {
	binary := color.New(color.FgYellow, color.Bold)
	plain := color.New(color.FgGreen)
	header := color.New(color.Bold)

	if !opts.Color {
		binary.DisableColor()
		plain.DisableColor()
		header.DisableColor()
	}

	_, err := fmt.Fprintf(w, "Found %d blobs and %d trees taking %s\n",
		rep.Stats.Blobs, rep.Stats.Trees, header.Sprint(rep.HumanTotal))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if rep.Stats.Unreadable > 0 {
		_, err = fmt.Fprintf(w, "Skipped %d unreadable objects\n", rep.Stats.Unreadable)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	_, err = fmt.Fprintf(w, "Here are %d largest objects:\n", len(rep.Objects))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if len(rep.Objects) == 0 {
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = true

	tbl.AppendHeader(table.Row{"#", "Size", "Class", "ID"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
	})

	for _, entry := range rep.Objects {
		marker := plain.Sprint(entry.Class.Marker())
		if entry.Class == blobclass.Binary {
			marker = binary.Sprint(entry.Class.Marker())
		}

		tbl.AppendRow(table.Row{strconv.Itoa(entry.Rank), entry.HumanSize, marker, entry.ID})
	}

	tbl.Render()

	return nil
}
