// Plot tool for friveil sweep output: renders proof size and timing
// trade-offs from the JSONL records produced by `friveil sweep`.
//
// Usage:
//
//	go run ./Additionnals -in Additionnals/fri_sweep.jsonl -out Additionnals/fri_sweep.html
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type sweepRow struct {
	LogLen        int   `json:"log_len"`
	LogInvRate    int   `json:"log_inv_rate"`
	Queries       int   `json:"queries"`
	SoundnessBits int   `json:"soundness_bits"`
	DataBytes     int   `json:"data_bytes"`
	ProofBytes    int   `json:"proof_bytes"`
	CommitUS      int64 `json:"commit_us"`
	ProveUS       int64 `json:"prove_us"`
	VerifyUS      int64 `json:"verify_us"`
}

func loadRows(path string) ([]sweepRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []sweepRow
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var r sweepRow
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("bad row %q: %w", line, err)
		}
		rows = append(rows, r)
	}
	return rows, sc.Err()
}

// value layout shared by every series:
// [proofKB, proveMS, soundnessBits, logLen, logInvRate, queries, verifyMS]
func rowValue(r sweepRow) []interface{} {
	return []interface{}{
		float64(r.ProofBytes) / 1024.0,
		float64(r.ProveUS) / 1000.0,
		r.SoundnessBits,
		r.LogLen,
		r.LogInvRate,
		r.Queries,
		float64(r.VerifyUS) / 1000.0,
	}
}

func newScatter(title, xName, yName, yKey string, maxBits int) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
			Formatter: opts.FuncOpts(`function (p) {
  var v = p.value;
  return 'proof ' + v[0].toFixed(1) + ' KB<br/>' +
         '` + yKey + ` ' + v[1].toFixed(2) + ' ms<br/>' +
         v[2] + ' soundness bits<br/>' +
         'log_len ' + v[3] + ', rate 1/' + (1 << v[4]) + ', ' + v[5] + ' queries';
}`),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
		charts.WithVisualMapOpts(opts.VisualMap{
			Dimension:  "2",
			Min:        0,
			Max:        float32(maxBits),
			Calculable: opts.Bool(true),
			InRange:    &opts.VisualMapInRange{Color: []string{"#0ea5e9", "#22c55e", "#ef4444"}},
		}),
	)
	return sc
}

func main() {
	in := flag.String("in", "Additionnals/fri_sweep.jsonl", "sweep JSONL input")
	out := flag.String("out", "Additionnals/fri_sweep.html", "HTML output")
	flag.Parse()

	rows, err := loadRows(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no sweep rows in", *in)
		os.Exit(1)
	}

	maxBits := 0
	byRate := make(map[int][]sweepRow)
	for _, r := range rows {
		byRate[r.LogInvRate] = append(byRate[r.LogInvRate], r)
		if r.SoundnessBits > maxBits {
			maxBits = r.SoundnessBits
		}
	}
	ratesOrder := make([]int, 0, len(byRate))
	for rate := range byRate {
		ratesOrder = append(ratesOrder, rate)
	}
	sort.Ints(ratesOrder)

	sizeChart := newScatter("Proof size vs prove time", "proof size (KB)", "prove time (ms)", "prove", maxBits)
	verifyChart := newScatter("Proof size vs verify time", "proof size (KB)", "verify time (ms)", "verify", maxBits)
	for _, rate := range ratesOrder {
		items := make([]opts.ScatterData, 0, len(byRate[rate]))
		verifyItems := make([]opts.ScatterData, 0, len(byRate[rate]))
		for _, r := range byRate[rate] {
			v := rowValue(r)
			items = append(items, opts.ScatterData{Value: v})
			w := append([]interface{}(nil), v...)
			w[1], w[6] = w[6], w[1]
			verifyItems = append(verifyItems, opts.ScatterData{Value: w})
		}
		name := fmt.Sprintf("rate 1/%d", 1<<rate)
		sizeChart.AddSeries(name, items,
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}))
		verifyChart.AddSeries(name, verifyItems,
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 8}))
	}

	page := components.NewPage().SetPageTitle("friveil parameter sweep")
	page.AddCharts(sizeChart, verifyChart)
	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("wrote", *out)
}
