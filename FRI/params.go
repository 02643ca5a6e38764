// Package fri implements the fast Reed-Solomon IOP of proximity over B128:
// commit to a codeword round by round, fold it to a constant under
// transcript-derived challenges, then spot check the folding chain at random
// query positions.
package fri

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"FRIVeil/bfield"
)

// DefaultSecurityBits is the conjectured soundness target when a parameter
// set does not name one.
const DefaultSecurityBits = 80

var (
	// ErrInvalidParams reports a parameter set that fails validation.
	ErrInvalidParams = errors.New("fri: invalid parameters")
	// ErrMalformedProof reports a proof whose structure cannot be parsed
	// against the parameter set.
	ErrMalformedProof = errors.New("fri: malformed proof")
	// ErrVerificationRejected reports a well-formed proof that fails a
	// cryptographic check.
	ErrVerificationRejected = errors.New("fri: verification rejected")
)

// Params fixes one instance of the proximity test.
type Params struct {
	// LogInvRate is the log2 of the inverse code rate.
	LogInvRate int `cbor:"log_inv_rate"`
	// NumTestQueries is the number of spot checks per proof.
	NumTestQueries int `cbor:"num_test_queries"`
	// LogLen is the log2 of the committed message length in field elements,
	// and the number of folding rounds.
	LogLen int `cbor:"log_len"`
	// SecurityBits is the conjectured soundness target; zero selects
	// DefaultSecurityBits.
	SecurityBits int `cbor:"security_bits,omitempty"`
}

// LogDomain returns the log2 of the evaluation domain size.
func (p Params) LogDomain() int { return p.LogLen + p.LogInvRate }

// Rounds returns the number of folding rounds.
func (p Params) Rounds() int { return p.LogLen }

// ConjecturedSoundnessBits returns the conjectured soundness of the query
// phase: each query catches a cheating prover except with probability the
// code rate, so the bits add up linearly.
func (p Params) ConjecturedSoundnessBits() int {
	return p.LogInvRate * p.NumTestQueries
}

// Validate checks the parameter set. The domain must fit the field, at least
// one folding round is required, and the query count must reach the security
// target.
func (p Params) Validate() error {
	if p.LogLen < 1 {
		return fmt.Errorf("%w: log length %d, need at least one round", ErrInvalidParams, p.LogLen)
	}
	if p.LogInvRate < 1 {
		return fmt.Errorf("%w: log inverse rate %d", ErrInvalidParams, p.LogInvRate)
	}
	if p.NumTestQueries < 1 {
		return fmt.Errorf("%w: %d test queries", ErrInvalidParams, p.NumTestQueries)
	}
	if p.LogDomain() > bfield.Degree {
		return fmt.Errorf("%w: 2^%d domain over a %d-bit field", ErrInvalidParams, p.LogDomain(), bfield.Degree)
	}
	target := p.SecurityBits
	if target == 0 {
		target = DefaultSecurityBits
	}
	if got := p.ConjecturedSoundnessBits(); got < target {
		return fmt.Errorf("%w: %d soundness bits below the %d bit target", ErrInvalidParams, got, target)
	}
	return nil
}

// paramsWire is a method-less shadow of Params. Encoding goes through it so
// the CBOR layer sees plain struct fields instead of calling back into the
// BinaryMarshaler methods.
type paramsWire Params

// MarshalBinary encodes the parameter set as canonical CBOR.
func (p Params) MarshalBinary() ([]byte, error) {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		return nil, err
	}
	return mode.Marshal(paramsWire(p))
}

// UnmarshalBinary decodes and validates a CBOR parameter set.
func (p *Params) UnmarshalBinary(data []byte) error {
	var dec paramsWire
	if err := cbor.Unmarshal(data, &dec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := Params(dec).Validate(); err != nil {
		return err
	}
	*p = Params(dec)
	return nil
}
