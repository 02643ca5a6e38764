package ntt

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"FRIVeil/bfield"
)

// parallelCutoff is the smallest per-worker block count worth the goroutine
// handoff; below it a stage runs sequentially.
const parallelCutoff = 4

// Encoder turns 2^logLen message elements into a rate 2^-logInvRate
// Reed-Solomon codeword by zero extending the coefficient vector and running
// the full additive NTT.
type Encoder struct {
	dom        *Domain
	logLen     int
	logInvRate int
	workers    int
}

// NewEncoder builds an encoder for messages of 2^logLen elements at the given
// inverse rate, sharing the domain's twiddle tables. workers <= 0 selects
// GOMAXPROCS.
func NewEncoder(alg bfield.Arith, logLen, logInvRate, workers int) (*Encoder, error) {
	if logLen < 0 || logInvRate < 1 {
		return nil, fmt.Errorf("%w: log length %d, log inverse rate %d", ErrDimensionMismatch, logLen, logInvRate)
	}
	dom, err := NewDomain(alg, logLen+logInvRate)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Encoder{dom: dom, logLen: logLen, logInvRate: logInvRate, workers: workers}, nil
}

// Domain exposes the shared evaluation domain, sized 2^(logLen+logInvRate).
func (e *Encoder) Domain() *Domain { return e.dom }

// LogLen returns the log2 of the message length.
func (e *Encoder) LogLen() int { return e.logLen }

// LogInvRate returns the log2 of the inverse code rate.
func (e *Encoder) LogInvRate() int { return e.logInvRate }

// Encode produces the codeword of msg, which must hold exactly 2^logLen
// elements. The input is not modified.
func (e *Encoder) Encode(msg []bfield.Elem) ([]bfield.Elem, error) {
	if len(msg) != 1<<e.logLen {
		return nil, fmt.Errorf("%w: %d message elements, want 2^%d", ErrDimensionMismatch, len(msg), e.logLen)
	}
	code := make([]bfield.Elem, 1<<e.dom.m)
	copy(code, msg)
	e.transform(code)
	return code, nil
}

// transform runs the NTT with stage-level parallelism. Blocks of one stage
// touch disjoint index ranges, so splitting them across workers is exact:
// parallel and sequential runs produce identical codewords.
func (e *Encoder) transform(a []bfield.Elem) {
	d := e.dom
	for i := d.m - 1; i >= 0; i-- {
		numBlocks := len(a) >> (i + 1)
		if e.workers == 1 || numBlocks < e.workers*parallelCutoff {
			d.transformStage(a, i, 0, numBlocks)
			continue
		}
		var g errgroup.Group
		chunk := (numBlocks + e.workers - 1) / e.workers
		for lo := 0; lo < numBlocks; lo += chunk {
			lo, hi := lo, min(lo+chunk, numBlocks)
			g.Go(func() error {
				d.transformStage(a, i, lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}
}
