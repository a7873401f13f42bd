package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"stockwatch/pkg/monitor"
)

func sampleReport() monitor.Report {
	sold := true
	return monitor.Report{
		Results: []monitor.CheckResult{
			{Symbol: "BBCA", CurrentPrice: 98, TargetPrice: 100, DifferencePercent: 2, SellTriggered: true, SellSuccess: &sold},
			{Symbol: "TLKM", CurrentPrice: 3100, TargetPrice: 3000, DifferencePercent: -3.33},
			{Symbol: "ASII", Error: "boom"},
		},
		RemainingWatchlist: map[string]float64{"TLKM": 3000, "ASII": 5000},
	}
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableRenderer{}.Render(&buf, sampleReport(), Options{}))

	out := buf.String()
	require.Contains(t, out, "STOCK")
	require.Contains(t, out, "BBCA")
	require.Contains(t, out, "sold")
	require.Contains(t, out, "-3.33")
	require.Contains(t, out, "error: boom")
	require.Contains(t, out, "remaining: 2")
	require.Contains(t, out, "ASII  5000.00")
}

func TestTableRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableRenderer{}.Render(&buf, monitor.Report{Message: monitor.NoStocksMessage}, Options{Color: true}))
	require.Equal(t, monitor.NoStocksMessage+"\n", buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, monitor.Report{Message: monitor.NoStocksMessage}, Options{}))
	require.JSONEq(t, `{"message":"No stocks in watchlist"}`, buf.String())

	buf.Reset()
	require.NoError(t, JSONRenderer{}.Render(&buf, sampleReport(), Options{PrettyJSON: true}))
	require.Contains(t, buf.String(), "\n  \"results\"")
}
