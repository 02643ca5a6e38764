// Package pcs assembles the polynomial commitment scheme: raw data is packed
// into a multilinear, encoded as a Reed-Solomon codeword, committed with a
// Merkle tree, and evaluation claims are proved with the folding proximity
// test. Commitments, claims and proofs are the only artifacts that cross the
// wire; verification needs none of the original data.
package pcs

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/tuneinsight/lattigo/v4/utils"

	fri "FRIVeil/FRI"
	"FRIVeil/bfield"
	"FRIVeil/logger"
	"FRIVeil/ntt"
	"FRIVeil/poly"
	"FRIVeil/transcript"
	"FRIVeil/vcs"
)

// transcriptLabel separates this protocol version's Fiat-Shamir domain.
const transcriptLabel = "friveil/v1"

// Scheme is a configured instance of the commitment scheme. It is safe for
// concurrent use.
type Scheme struct {
	params   fri.Params
	alg      bfield.Arith
	enc      *ntt.Encoder
	prover   *fri.Prover
	verifier *fri.Verifier
	workers  int
	log      zerolog.Logger
}

// CommitOutput is the prover-side result of a commitment: the public root
// plus the packed multilinear and codeword needed later to prove claims.
type CommitOutput struct {
	Root     vcs.Digest
	MLE      *poly.PackedMLE
	Codeword []bfield.Elem
}

// NewScheme validates the parameters and precomputes the encoder and folding
// domain. workers <= 0 selects GOMAXPROCS for every parallel phase.
func NewScheme(params fri.Params, workers int) (*Scheme, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	alg := bfield.NewTower128()
	enc, err := ntt.NewEncoder(alg, params.LogLen, params.LogInvRate, workers)
	if err != nil {
		return nil, err
	}
	prover, err := fri.NewProver(params, alg, workers)
	if err != nil {
		return nil, err
	}
	verifier, err := fri.NewVerifier(params, alg)
	if err != nil {
		return nil, err
	}
	log := logger.Logger().With().Str("component", "pcs").Logger()
	return &Scheme{
		params:   params,
		alg:      alg,
		enc:      enc,
		prover:   prover,
		verifier: verifier,
		workers:  workers,
		log:      log,
	}, nil
}

// Params returns the scheme's parameter set.
func (s *Scheme) Params() fri.Params { return s.params }

// MaxDataBytes returns the largest blob the scheme can commit to.
func (s *Scheme) MaxDataBytes() int {
	return bfield.ByteLen << s.params.LogLen
}

// Commit packs data into a multilinear, encodes it and commits to the
// codeword. The blob must fit in 2^LogLen elements.
func (s *Scheme) Commit(data []byte) (*CommitOutput, error) {
	start := time.Now()
	mle, err := poly.BytesToPackedMLE(data, s.params.LogLen)
	if err != nil {
		return nil, err
	}
	code, err := s.enc.Encode(mle.Values)
	if err != nil {
		return nil, err
	}
	tree, err := vcs.Commit(code, s.workers)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("commit")
	return &CommitOutput{Root: tree.Root(), MLE: mle, Codeword: code}, nil
}

// RandomEvaluationPoint derives an evaluation point of the scheme's arity
// from a seed. The derivation is deterministic, so distinct parties holding
// the seed agree on the point.
func (s *Scheme) RandomEvaluationPoint(seed []byte) ([]bfield.Elem, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, err
	}
	point := make([]bfield.Elem, s.params.LogLen)
	var buf [bfield.ByteLen]byte
	for i := range point {
		if _, err := io.ReadFull(prng, buf[:]); err != nil {
			return nil, err
		}
		point[i], err = bfield.FromBytes(buf[:])
		if err != nil {
			return nil, err
		}
	}
	return point, nil
}

// CalculateEvaluationClaim evaluates the committed multilinear at point.
func (s *Scheme) CalculateEvaluationClaim(out *CommitOutput, point []bfield.Elem) (bfield.Elem, error) {
	return out.MLE.Evaluate(s.alg, point)
}

// Prove produces a proof that the committed data evaluates to claim at
// point. The point and claim are absorbed into the transcript before any
// challenge is drawn, which binds every fold to them.
func (s *Scheme) Prove(out *CommitOutput, point []bfield.Elem, claim bfield.Elem) (*fri.Proof, error) {
	start := time.Now()
	expect, err := s.CalculateEvaluationClaim(out, point)
	if err != nil {
		return nil, err
	}
	if expect != claim {
		return nil, fmt.Errorf("pcs: claim %v does not evaluate from the committed data", claim)
	}
	tr, err := s.bindTranscript(point, claim)
	if err != nil {
		return nil, err
	}
	proof, err := s.prover.Prove(out.Codeword, tr)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("queries", s.params.NumTestQueries).Dur("took", time.Since(start)).Msg("prove")
	return proof, nil
}

// Verify checks a proof against a commitment root, evaluation point and
// claim. A nil return means acceptance.
func (s *Scheme) Verify(root vcs.Digest, point []bfield.Elem, claim bfield.Elem, proof *fri.Proof) error {
	start := time.Now()
	tr, err := s.bindTranscript(point, claim)
	if err != nil {
		return err
	}
	if err := s.verifier.Verify(root, proof, tr); err != nil {
		return err
	}
	s.log.Debug().Dur("took", time.Since(start)).Msg("verify")
	return nil
}

// bindTranscript starts the Fiat-Shamir transcript and absorbs the public
// statement: parameters, evaluation point and claim.
func (s *Scheme) bindTranscript(point []bfield.Elem, claim bfield.Elem) (*transcript.Transcript, error) {
	if len(point) != s.params.LogLen {
		return nil, fmt.Errorf("%w: point arity %d against log length %d",
			poly.ErrDimensionMismatch, len(point), s.params.LogLen)
	}
	raw, err := s.params.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tr := transcript.New(transcriptLabel)
	tr.Append("pcs/params", raw)
	for _, p := range point {
		tr.AppendElem("pcs/point", p)
	}
	tr.AppendElem("pcs/claim", claim)
	return tr, nil
}
