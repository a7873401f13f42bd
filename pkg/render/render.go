package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stockwatch/pkg/monitor"
)

type Options struct {
	Color      bool
	PrettyJSON bool
}

// Renderer writes a check report.
type Renderer interface {
	Render(w io.Writer, report monitor.Report, opts Options) error
}

type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, report monitor.Report, opts Options) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

// TableRenderer prints results and the remaining watchlist as tables.
type TableRenderer struct{}

func (TableRenderer) Render(w io.Writer, report monitor.Report, opts Options) error {
	if report.Empty() {
		_, err := fmt.Fprintln(w, report.Message)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.AppendHeader(table.Row{"STOCK", "PRICE", "TARGET", "DIFF%", "SELL", "RESULT"})

	for _, r := range report.Results {
		if r.Error != "" {
			tw.AppendRow(table.Row{r.Symbol, "", "", "", "", colorize(opts.Color, text.FgRed, "error: "+r.Error)})
			continue
		}
		diff := fmt.Sprintf("%.2f", r.DifferencePercent)
		if r.DifferencePercent > 0 {
			diff = colorize(opts.Color, text.FgRed, diff)
		} else if r.DifferencePercent < 0 {
			diff = colorize(opts.Color, text.FgGreen, diff)
		}
		sell, result := "no", ""
		if r.SellTriggered {
			sell = "yes"
			result = colorize(opts.Color, text.FgRed, "failed")
			if r.Sold() {
				result = colorize(opts.Color, text.FgGreen, "sold")
			}
		}
		tw.AppendRow(table.Row{
			r.Symbol,
			fmt.Sprintf("%.2f", r.CurrentPrice),
			fmt.Sprintf("%.2f", r.TargetPrice),
			diff,
			sell,
			result,
		})
	}
	tw.Render()

	symbols := make([]string, 0, len(report.RemainingWatchlist))
	for sym := range report.RemainingWatchlist {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	_, err := fmt.Fprintf(w, "\nremaining: %d\n", len(symbols))
	if err != nil {
		return err
	}
	for _, sym := range symbols {
		if _, err := fmt.Fprintf(w, "  %s  %.2f\n", sym, report.RemainingWatchlist[sym]); err != nil {
			return err
		}
	}
	return nil
}

func colorize(enabled bool, c text.Color, s string) string {
	if !enabled {
		return s
	}
	return text.Colors{c}.Sprintf("%s", s)
}
