// Package transcript implements the Fiat-Shamir channel: an append-only
// framed history hashed with SHAKE-256. Every record carries its kind, label
// and length, so no two distinct interaction histories serialize to the same
// byte stream.
package transcript

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"

	"FRIVeil/bfield"
)

const (
	kindAppend byte = 0x01
	kindDraw   byte = 0x02
)

// Transcript accumulates prover messages and derives verifier challenges.
// Prover and verifier must issue the same sequence of appends and draws to
// stay synchronized.
type Transcript struct {
	history []byte
	draws   uint64
}

// New starts a transcript under a domain separation label.
func New(label string) *Transcript {
	t := &Transcript{}
	t.frame(kindAppend, label, nil, 0)
	return t
}

// frame appends one record: kind, label length, label, data length, data,
// draw counter.
func (t *Transcript) frame(kind byte, label string, data []byte, counter uint64) {
	var hdr [11]byte
	hdr[0] = kind
	binary.LittleEndian.PutUint16(hdr[1:3], uint16(len(label)))
	binary.LittleEndian.PutUint32(hdr[3:7], uint32(len(data)))
	binary.LittleEndian.PutUint32(hdr[7:11], uint32(counter))
	t.history = append(t.history, hdr[:]...)
	t.history = append(t.history, label...)
	t.history = append(t.history, data...)
}

// Append absorbs a labeled prover message.
func (t *Transcript) Append(label string, data []byte) {
	t.frame(kindAppend, label, data, 0)
}

// AppendElem absorbs one field element.
func (t *Transcript) AppendElem(label string, e bfield.Elem) {
	b := e.Bytes()
	t.Append(label, b[:])
}

// squeeze records the draw in the history, then hashes the whole history to
// produce out. The record carries the label, the requested width and the
// draw counter; recording first makes every draw depend on all previous
// draws.
func (t *Transcript) squeeze(label string, out []byte) {
	t.draws++
	var width [4]byte
	binary.LittleEndian.PutUint32(width[:], uint32(len(out)))
	t.frame(kindDraw, label, width[:], t.draws)
	h := sha3.NewShake256()
	_, _ = h.Write(t.history)
	_, _ = h.Read(out)
}

// ChallengeElem derives a field element challenge.
func (t *Transcript) ChallengeElem(label string) bfield.Elem {
	var buf [bfield.ByteLen]byte
	t.squeeze(label, buf[:])
	e, _ := bfield.FromBytes(buf[:])
	return e
}

// ChallengeBytes derives n challenge bytes.
func (t *Transcript) ChallengeBytes(label string, n int) []byte {
	out := make([]byte, n)
	t.squeeze(label, out)
	return out
}

// ChallengeIndex derives a uniform index in [0, bound). The bound must be a
// positive power of two, which keeps the reduction unbiased. It panics
// otherwise.
func (t *Transcript) ChallengeIndex(label string, bound uint64) uint64 {
	if bound == 0 || bits.OnesCount64(bound) != 1 {
		panic("transcript: index bound is not a power of two")
	}
	var buf [8]byte
	t.squeeze(label, buf[:])
	return binary.LittleEndian.Uint64(buf[:]) & (bound - 1)
}
