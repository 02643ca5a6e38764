// Command friveil commits to data blobs and proves evaluation claims about
// them from the command line.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuneinsight/lattigo/v4/utils"

	fri "FRIVeil/FRI"
	pcs "FRIVeil/PCS"
	"FRIVeil/bfield"
	"FRIVeil/vcs"
)

var (
	flagLogLen       int
	flagLogInvRate   int
	flagQueries      int
	flagSecurityBits int
	flagWorkers      int
)

func schemeParams() fri.Params {
	return fri.Params{
		LogInvRate:     flagLogInvRate,
		NumTestQueries: flagQueries,
		LogLen:         flagLogLen,
		SecurityBits:   flagSecurityBits,
	}
}

func newScheme() (*pcs.Scheme, error) {
	return pcs.NewScheme(schemeParams(), flagWorkers)
}

var rootCmd = &cobra.Command{
	Use:           "friveil",
	Short:         "FRI based polynomial commitments over B128 for data availability",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var genInputCmd = &cobra.Command{
	Use:   "gen-input",
	Short: "Generate a data blob",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")
		out, _ := cmd.Flags().GetString("out")
		seed, _ := cmd.Flags().GetString("seed")
		data := make([]byte, size)
		if seed == "" {
			if _, err := rand.Read(data); err != nil {
				return err
			}
		} else {
			prng, err := utils.NewKeyedPRNG([]byte(seed))
			if err != nil {
				return err
			}
			if _, err := prng.Read(data); err != nil {
				return err
			}
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %d bytes to %s\n", size, out)
		return nil
	},
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Commit to a blob and prove its evaluation claim",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		pointSeed, _ := cmd.Flags().GetString("point-seed")

		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		scheme, err := newScheme()
		if err != nil {
			return err
		}
		co, err := scheme.Commit(data)
		if err != nil {
			return err
		}
		point, err := scheme.RandomEvaluationPoint([]byte(pointSeed))
		if err != nil {
			return err
		}
		claim, err := scheme.CalculateEvaluationClaim(co, point)
		if err != nil {
			return err
		}
		proof, err := scheme.Prove(co, point, claim)
		if err != nil {
			return err
		}
		raw, err := proof.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, raw, 0o644); err != nil {
			return err
		}
		cb := claim.Bytes()
		fmt.Printf("root:  %s\n", hex.EncodeToString(co.Root[:]))
		fmt.Printf("claim: %s\n", hex.EncodeToString(cb[:]))
		fmt.Printf("proof: %s (%d bytes)\n", out, len(raw))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof against a commitment root and claim",
	RunE: func(cmd *cobra.Command, args []string) error {
		proofPath, _ := cmd.Flags().GetString("proof")
		rootHex, _ := cmd.Flags().GetString("root")
		claimHex, _ := cmd.Flags().GetString("claim")
		pointSeed, _ := cmd.Flags().GetString("point-seed")

		raw, err := os.ReadFile(proofPath)
		if err != nil {
			return err
		}
		var proof fri.Proof
		if err := proof.UnmarshalBinary(raw); err != nil {
			return err
		}
		root, err := parseDigest(rootHex)
		if err != nil {
			return err
		}
		claim, err := parseElem(claimHex)
		if err != nil {
			return err
		}
		scheme, err := newScheme()
		if err != nil {
			return err
		}
		point, err := scheme.RandomEvaluationPoint([]byte(pointSeed))
		if err != nil {
			return err
		}
		if err := scheme.Verify(root, point, claim, &proof); err != nil {
			return err
		}
		fmt.Println("proof accepted")
		return nil
	},
}

func parseDigest(s string) (vcs.Digest, error) {
	var d vcs.Digest
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != vcs.DigestLen {
		return d, fmt.Errorf("root must be %d hex encoded bytes", vcs.DigestLen)
	}
	copy(d[:], raw)
	return d, nil
}

func parseElem(s string) (bfield.Elem, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return bfield.Zero, fmt.Errorf("claim must be %d hex encoded bytes", bfield.ByteLen)
	}
	return bfield.FromBytes(raw)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagLogLen, "log-len", 10, "log2 of the committed message length in elements")
	pf.IntVar(&flagLogInvRate, "log-inv-rate", 1, "log2 of the inverse code rate")
	pf.IntVar(&flagQueries, "queries", 128, "number of test queries per proof")
	pf.IntVar(&flagSecurityBits, "security-bits", 0, "conjectured soundness target (0 selects the default)")
	pf.IntVar(&flagWorkers, "workers", 0, "worker goroutines (0 selects GOMAXPROCS)")

	genInputCmd.Flags().Int("size", 9<<10, "blob size in bytes")
	genInputCmd.Flags().String("out", "input.bin", "output path")
	genInputCmd.Flags().String("seed", "", "deterministic blob seed (empty for crypto random)")

	proveCmd.Flags().String("in", "input.bin", "blob to commit to")
	proveCmd.Flags().String("out", "input.proof", "proof output path")
	proveCmd.Flags().String("point-seed", "friveil-point", "seed of the evaluation point")

	verifyCmd.Flags().String("proof", "input.proof", "proof path")
	verifyCmd.Flags().String("root", "", "commitment root, hex")
	verifyCmd.Flags().String("claim", "", "evaluation claim, hex")
	verifyCmd.Flags().String("point-seed", "friveil-point", "seed of the evaluation point")
	_ = verifyCmd.MarkFlagRequired("root")
	_ = verifyCmd.MarkFlagRequired("claim")

	rootCmd.AddCommand(genInputCmd, proveCmd, verifyCmd, sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
