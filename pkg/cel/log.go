package cel

import (
	"context"
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

// Log is an append-only, hash-chained sequence of CEL entries.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Append hashes, signs and appends a new entry, chaining it to the current
// tail. The caller's entry should come from NewEntry with no hash or proof
// set yet.
func (l *Log) Append(ctx context.Context, s signer.Signer, entry Entry, verificationMethod string) error {
	if len(l.Entries) > 0 {
		entry.PreviousEntryHash = l.Entries[len(l.Entries)-1].EntryHash
	}

	hash, err := ComputeEntryHash(entry)
	if err != nil {
		return err
	}
	entry.EntryHash = hash

	doc, err := entry.ToSigningMap()
	if err != nil {
		return err
	}
	proof, err := signer.SignDocument(ctx, s, signer.SuiteEddsaJcs2022, doc, verificationMethod, "assertionMethod")
	if err != nil {
		return fmt.Errorf("sign cel entry: %w", err)
	}
	entry.Proof = proof

	l.Entries = append(l.Entries, entry)
	return nil
}

// Verify checks the hash chain and every entry's signature. keyFor resolves
// the key type and public key to verify an entry's proof by its
// verificationMethod id (typically a controller lookup via pkg/resolver).
func (l *Log) Verify(keyFor func(verificationMethod string) (crypto.KeyType, []byte, error)) error {
	prevHash := ""
	for i, e := range l.Entries {
		if e.PreviousEntryHash != prevHash {
			return fmt.Errorf("%w: entry %d (%s)", ErrChainBroken, i, e.ID)
		}
		wantHash, err := ComputeEntryHash(e)
		if err != nil {
			return err
		}
		if wantHash != e.EntryHash {
			return fmt.Errorf("%w: entry %d (%s) hash mismatch", ErrChainBroken, i, e.ID)
		}
		if e.Proof == nil {
			return fmt.Errorf("%w: entry %d (%s) missing proof", ErrInvalidOperation, i, e.ID)
		}
		keyType, pubKey, err := keyFor(e.Proof.VerificationMethod)
		if err != nil {
			return fmt.Errorf("resolve verification method for entry %d: %w", i, err)
		}
		doc, err := e.ToSigningMap()
		if err != nil {
			return err
		}
		if err := signer.VerifyProof(doc, e.Proof, keyType, pubKey); err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.ID, err)
		}
		prevHash = e.EntryHash
	}
	return nil
}
