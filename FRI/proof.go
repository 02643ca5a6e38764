package fri

import (
	"encoding/binary"
	"fmt"

	"FRIVeil/bfield"
	"FRIVeil/vcs"
)

// proofMagic tags the serialized proof format.
var proofMagic = [4]byte{'F', 'V', 'P', '1'}

const proofHeaderLen = 4 + 1 + 1 + 4

// RoundOpening is one Merkle opening in the folding chain: the committed
// element pair and its sibling path.
type RoundOpening struct {
	Pair [vcs.LeafLen]byte
	Path []vcs.Digest
}

// QueryProof carries the openings of one query, one per folding round.
type QueryProof struct {
	Rounds []RoundOpening
}

// Proof is a complete proximity proof. Query positions are not part of the
// proof; the verifier rederives them from the transcript.
type Proof struct {
	LogInvRate int
	LogLen     int
	NumQueries int

	// Roots holds one commitment per folding round; Roots[0] is the
	// commitment of the original codeword.
	Roots []vcs.Digest
	// FinalValue is the constant the codeword folds down to.
	FinalValue bfield.Elem
	Queries    []QueryProof
}

// pathDepth returns the sibling path length of a round-r opening: the tree
// has 2^(m-r-1) leaves.
func pathDepth(logDomain, round int) int {
	return logDomain - round - 1
}

// encodedLen returns the exact serialized size of a proof with the given
// shape.
func encodedLen(logInvRate, logLen, numQueries int) int {
	m := logLen + logInvRate
	perQuery := 0
	for r := 0; r < logLen; r++ {
		perQuery += vcs.LeafLen + pathDepth(m, r)*vcs.DigestLen
	}
	return proofHeaderLen + logLen*vcs.DigestLen + bfield.ByteLen + numQueries*perQuery
}

// MarshalBinary serializes the proof.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p.LogInvRate < 1 || p.LogInvRate > 0xff || p.LogLen < 1 || p.LogLen > 0xff {
		return nil, fmt.Errorf("%w: shape (%d, %d)", ErrMalformedProof, p.LogInvRate, p.LogLen)
	}
	if len(p.Roots) != p.LogLen || len(p.Queries) != p.NumQueries {
		return nil, fmt.Errorf("%w: %d roots, %d queries", ErrMalformedProof, len(p.Roots), len(p.Queries))
	}
	m := p.LogLen + p.LogInvRate
	out := make([]byte, 0, encodedLen(p.LogInvRate, p.LogLen, p.NumQueries))
	out = append(out, proofMagic[:]...)
	out = append(out, byte(p.LogInvRate), byte(p.LogLen))
	out = binary.LittleEndian.AppendUint32(out, uint32(p.NumQueries))
	for _, root := range p.Roots {
		out = append(out, root[:]...)
	}
	fv := p.FinalValue.Bytes()
	out = append(out, fv[:]...)
	for qi, q := range p.Queries {
		if len(q.Rounds) != p.LogLen {
			return nil, fmt.Errorf("%w: query %d has %d rounds", ErrMalformedProof, qi, len(q.Rounds))
		}
		for r, op := range q.Rounds {
			if len(op.Path) != pathDepth(m, r) {
				return nil, fmt.Errorf("%w: query %d round %d path depth %d", ErrMalformedProof, qi, r, len(op.Path))
			}
			out = append(out, op.Pair[:]...)
			for _, sib := range op.Path {
				out = append(out, sib[:]...)
			}
		}
	}
	return out, nil
}

// UnmarshalBinary parses a serialized proof. The encoding is rigid: any
// deviation from the exact shape implied by the header fails with
// ErrMalformedProof.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if len(data) < proofHeaderLen || [4]byte(data[:4]) != proofMagic {
		return fmt.Errorf("%w: bad magic", ErrMalformedProof)
	}
	logInvRate := int(data[4])
	logLen := int(data[5])
	numQueries := int(binary.LittleEndian.Uint32(data[6:10]))
	if logInvRate < 1 || logLen < 1 || logLen+logInvRate > bfield.Degree {
		return fmt.Errorf("%w: shape (%d, %d)", ErrMalformedProof, logInvRate, logLen)
	}
	if numQueries < 1 || len(data) != encodedLen(logInvRate, logLen, numQueries) {
		return fmt.Errorf("%w: %d bytes for %d queries", ErrMalformedProof, len(data), numQueries)
	}
	m := logLen + logInvRate
	off := proofHeaderLen

	dec := Proof{LogInvRate: logInvRate, LogLen: logLen, NumQueries: numQueries}
	dec.Roots = make([]vcs.Digest, logLen)
	for r := range dec.Roots {
		off += copy(dec.Roots[r][:], data[off:])
	}
	fv, err := bfield.FromBytes(data[off : off+bfield.ByteLen])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	dec.FinalValue = fv
	off += bfield.ByteLen

	dec.Queries = make([]QueryProof, numQueries)
	for qi := range dec.Queries {
		rounds := make([]RoundOpening, logLen)
		for r := range rounds {
			off += copy(rounds[r].Pair[:], data[off:])
			path := make([]vcs.Digest, pathDepth(m, r))
			for lvl := range path {
				off += copy(path[lvl][:], data[off:])
			}
			rounds[r].Path = path
		}
		dec.Queries[qi] = QueryProof{Rounds: rounds}
	}
	*p = dec
	return nil
}
