// Package vcs commits to codewords with a binary Merkle tree over adjacent
// element pairs. Pairing the leaves lets one opening serve both inputs of a
// folding butterfly.
package vcs

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"FRIVeil/bfield"
)

const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01
)

// DigestLen is the hash width. SHAKE-256 truncated to 32 bytes keeps 128-bit
// collision resistance, matching the field's security level.
const DigestLen = 32

// LeafLen is the byte width of a committed element pair.
const LeafLen = 2 * bfield.ByteLen

// leafHashCutoff is the smallest leaf count worth fanning out to workers.
const leafHashCutoff = 256

// ErrLeafCount reports an attempt to commit to anything but a power-of-two
// number of pairs.
var ErrLeafCount = errors.New("vcs: leaf count is not a power of two")

// Digest is a truncated SHAKE-256 hash.
type Digest [DigestLen]byte

// Tree is a full binary Merkle tree of digests; layer 0 holds the hashed
// leaves and the last layer holds the root alone.
type Tree struct {
	layers [][]Digest
}

// PairLeaf serializes two adjacent codeword elements into one leaf.
func PairLeaf(c0, c1 bfield.Elem) [LeafLen]byte {
	var out [LeafLen]byte
	b0, b1 := c0.Bytes(), c1.Bytes()
	copy(out[:bfield.ByteLen], b0[:])
	copy(out[bfield.ByteLen:], b1[:])
	return out
}

// SplitLeaf recovers the element pair of a leaf.
func SplitLeaf(leaf [LeafLen]byte) (bfield.Elem, bfield.Elem) {
	c0, _ := bfield.FromBytes(leaf[:bfield.ByteLen])
	c1, _ := bfield.FromBytes(leaf[bfield.ByteLen:])
	return c0, c1
}

// Commit builds the tree over a codeword, one leaf per adjacent pair. The
// codeword length must be a power of two of at least 2. workers <= 0 selects
// GOMAXPROCS.
func Commit(code []bfield.Elem, workers int) (*Tree, error) {
	n := len(code) / 2
	if n == 0 || len(code) != 2*n || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d codeword elements", ErrLeafCount, len(code))
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	layer := make([]Digest, n)
	hashRange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			leaf := PairLeaf(code[2*i], code[2*i+1])
			layer[i] = hashLeaf(leaf[:])
		}
	}
	if workers == 1 || n < leafHashCutoff {
		hashRange(0, n)
	} else {
		var g errgroup.Group
		chunk := (n + workers - 1) / workers
		for lo := 0; lo < n; lo += chunk {
			lo, hi := lo, min(lo+chunk, n)
			g.Go(func() error {
				hashRange(lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}

	layers := [][]Digest{layer}
	for sz := n; sz > 1; sz >>= 1 {
		prev := layers[len(layers)-1]
		next := make([]Digest, sz/2)
		for i := 0; i < sz; i += 2 {
			next[i/2] = hashNode(prev[i], prev[i+1])
		}
		layers = append(layers, next)
	}
	return &Tree{layers: layers}, nil
}

// Root returns the root digest.
func (t *Tree) Root() Digest {
	return t.layers[len(t.layers)-1][0]
}

// Depth returns the path length of every leaf.
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// Path returns the sibling path for leaf idx, leaf layer first.
func (t *Tree) Path(idx int) []Digest {
	path := make([]Digest, len(t.layers)-1)
	for lvl := range path {
		path[lvl] = t.layers[lvl][idx^1]
		idx >>= 1
	}
	return path
}

// VerifyPath checks a leaf against a root through its sibling path.
func VerifyPath(leaf []byte, path []Digest, root Digest, idx int) bool {
	h := hashLeaf(leaf)
	for _, sib := range path {
		if idx&1 == 0 {
			h = hashNode(h, sib)
		} else {
			h = hashNode(sib, h)
		}
		idx >>= 1
	}
	return h == root
}

func hashLeaf(leaf []byte) Digest {
	buf := make([]byte, 1+len(leaf))
	buf[0] = leafPrefix
	copy(buf[1:], leaf)
	return shake32(buf)
}

func hashNode(l, r Digest) Digest {
	var buf [1 + 2*DigestLen]byte
	buf[0] = nodePrefix
	copy(buf[1:], l[:])
	copy(buf[1+DigestLen:], r[:])
	return shake32(buf[:])
}

func shake32(data []byte) Digest {
	var out Digest
	h := sha3.NewShake256()
	_, _ = h.Write(data)
	_, _ = h.Read(out[:])
	return out
}
