package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	fri "FRIVeil/FRI"
	pcs "FRIVeil/PCS"
	"FRIVeil/prof"
)

// sweepRow is one JSONL record of the parameter sweep, consumed by the plot
// tool in Additionnals.
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

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the parameter grid and record proof sizes and timings",
	RunE: func(cmd *cobra.Command, args []string) error {
		logLens, err := parseIntList(cmd.Flag("log-lens").Value.String())
		if err != nil {
			return err
		}
		rates, err := parseIntList(cmd.Flag("log-inv-rates").Value.String())
		if err != nil {
			return err
		}
		queryCounts, err := parseIntList(cmd.Flag("queries-list").Value.String())
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")

		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		buf := bufio.NewWriter(f)
		defer buf.Flush()
		enc := json.NewEncoder(buf)

		total, done := len(logLens)*len(rates)*len(queryCounts), 0
		for _, ll := range logLens {
			for _, rate := range rates {
				for _, q := range queryCounts {
					done++
					params := fri.Params{LogInvRate: rate, NumTestQueries: q, LogLen: ll, SecurityBits: flagSecurityBits}
					row, err := runSweepPoint(params)
					if err != nil {
						fmt.Fprintf(os.Stderr, "[%d/%d] skip (%d,%d,%d): %v\n", done, total, ll, rate, q, err)
						continue
					}
					if err := enc.Encode(row); err != nil {
						return err
					}
					fmt.Printf("[%d/%d] log_len=%d rate=1/%d queries=%d proof=%dB prove=%dus verify=%dus\n",
						done, total, ll, 1<<rate, q, row.ProofBytes, row.ProveUS, row.VerifyUS)
				}
			}
		}
		return nil
	},
}

// runSweepPoint measures one parameter set end to end on a full capacity
// blob.
func runSweepPoint(params fri.Params) (*sweepRow, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	scheme, err := pcs.NewScheme(params, flagWorkers)
	if err != nil {
		return nil, err
	}
	data := make([]byte, scheme.MaxDataBytes())
	for i := range data {
		data[i] = byte(i * 31)
	}

	prof.SnapshotAndReset()
	start := time.Now()
	co, err := scheme.Commit(data)
	prof.Track(start, "commit")
	if err != nil {
		return nil, err
	}
	point, err := scheme.RandomEvaluationPoint([]byte("sweep-point"))
	if err != nil {
		return nil, err
	}
	claim, err := scheme.CalculateEvaluationClaim(co, point)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	proof, err := scheme.Prove(co, point, claim)
	prof.Track(start, "prove")
	if err != nil {
		return nil, err
	}
	raw, err := proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	start = time.Now()
	verr := scheme.Verify(co.Root, point, claim, proof)
	prof.Track(start, "verify")
	if verr != nil {
		return nil, verr
	}

	row := &sweepRow{
		LogLen:        params.LogLen,
		LogInvRate:    params.LogInvRate,
		Queries:       params.NumTestQueries,
		SoundnessBits: params.ConjecturedSoundnessBits(),
		DataBytes:     len(data),
		ProofBytes:    len(raw),
	}
	for _, e := range prof.SnapshotAndReset() {
		us := e.Total.Microseconds()
		switch e.Label {
		case "commit":
			row.CommitUS = us
		case "prove":
			row.ProveUS = us
		case "verify":
			row.VerifyUS = us
		}
	}
	return row, nil
}

func parseIntList(spec string) ([]int, error) {
	parts := strings.Split(spec, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad list entry %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func init() {
	sweepCmd.Flags().String("log-lens", "6,8,10,12", "comma separated log message lengths")
	sweepCmd.Flags().String("log-inv-rates", "1,2,3", "comma separated log inverse rates")
	sweepCmd.Flags().String("queries-list", "64,96,128", "comma separated query counts")
	sweepCmd.Flags().String("out", "Additionnals/fri_sweep.jsonl", "JSONL output path")
}
