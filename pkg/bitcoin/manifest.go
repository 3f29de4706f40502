package bitcoin

import (
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/merkle"
)

// ManifestEntry is one asset's inscription payload within a batch.
type ManifestEntry struct {
	ResourceID  string `cbor:"resourceId"`
	ContentType string `cbor:"contentType"`
	Content     []byte `cbor:"content"`
}

// Manifest is a CBOR-encoded, canonically ordered batch of inscription
// entries, hashed leaf-by-leaf into a Merkle tree so any single entry's
// inclusion (and its proportional share of the batch's fee) can be proven
// without revealing the rest of the batch.
type Manifest struct {
	Entries []ManifestEntry
	tree    *merkle.Tree
}

// BuildManifest canonically CBOR-encodes each entry and builds the
// inclusion-proof Merkle tree over the encoded leaves.
func BuildManifest(entries []ManifestEntry) (*Manifest, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}
	leaves := make([][]byte, len(entries))
	for i, e := range entries {
		enc, err := crypto.CBOREncode(e)
		if err != nil {
			return nil, fmt.Errorf("encode manifest entry %d: %w", i, err)
		}
		leaves[i] = merkle.HashData(enc)
	}
	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("build manifest tree: %w", err)
	}
	return &Manifest{Entries: entries, tree: tree}, nil
}

// Root returns the manifest's Merkle root. BatchInscribe does not inscribe
// it: each entry is inscribed in its own commit/reveal pair.
func (m *Manifest) Root() []byte { return m.tree.Root() }

// ProofFor returns the inclusion proof for the entry at index i.
func (m *Manifest) ProofFor(i int) (*merkle.InclusionProof, error) {
	return m.tree.GenerateProof(i)
}

// ProportionalFees splits totalFeeSat across entries proportionally to each
// entry's encoded byte size. The last entry absorbs any rounding
// remainder so fees always sum exactly to totalFeeSat. BatchInscribe
// reports each share as the entry's FeeSat; the share is not passed to the
// provider, and the entries share no transaction.
func (m *Manifest) ProportionalFees(totalFeeSat int64) ([]int64, error) {
	sizes := make([]int64, len(m.Entries))
	var total int64
	for i, e := range m.Entries {
		enc, err := crypto.CBOREncode(e)
		if err != nil {
			return nil, fmt.Errorf("encode manifest entry %d: %w", i, err)
		}
		sizes[i] = int64(len(enc))
		total += sizes[i]
	}
	if total == 0 {
		return nil, fmt.Errorf("manifest has zero total size")
	}

	fees := make([]int64, len(sizes))
	var assigned int64
	for i, sz := range sizes {
		if i == len(sizes)-1 {
			fees[i] = totalFeeSat - assigned
			continue
		}
		fees[i] = totalFeeSat * sz / total
		assigned += fees[i]
	}
	return fees, nil
}
