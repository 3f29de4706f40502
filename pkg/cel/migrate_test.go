package cel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

func TestMigrateLegacyProofsReplacesRdfcWithJcs(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	vm := "did:peer:4abc#key-1"

	data, _ := json.Marshal(map[string]string{"contentHash": "abc"})
	entry, err := NewEntry(OpResourceAdded, "did:peer:4abc/resources/r1", json.RawMessage(data))
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	hash, err := ComputeEntryHash(entry)
	if err != nil {
		t.Fatalf("ComputeEntryHash: %v", err)
	}
	entry.EntryHash = hash
	// Stand in for a log entry signed upstream by a real RDFC-1.0
	// implementation: MigrateLegacyProofs only inspects Cryptosuite to
	// decide what to re-sign, so a placeholder ProofValue is enough here.
	entry.Proof = &signer.DataIntegrityProof{
		Type:               "DataIntegrityProof",
		Cryptosuite:        "eddsa-rdfc-2022",
		Created:            "2024-01-01T00:00:00Z",
		VerificationMethod: vm,
		ProofPurpose:       "assertionMethod",
		ProofValue:         "zLegacyPlaceholder",
	}
	log := &Log{Entries: []Entry{entry}}

	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PrivateKey, nil }
	if err := MigrateLegacyProofs(context.Background(), log, keyFor); err != nil {
		t.Fatalf("MigrateLegacyProofs: %v", err)
	}

	if log.Entries[0].Proof.Cryptosuite != string(signer.SuiteEddsaJcs2022) {
		t.Fatalf("expected cryptosuite %s, got %s", signer.SuiteEddsaJcs2022, log.Entries[0].Proof.Cryptosuite)
	}
	if log.Entries[0].EntryHash != hash {
		t.Fatal("expected entry hash to be unchanged by proof migration")
	}

	verifyKeyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }
	if err := log.Verify(verifyKeyFor); err != nil {
		t.Fatalf("Verify after migration: %v", err)
	}
}

func TestMigrateLegacyProofsLeavesModernEntriesUntouched(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)
	vm := "did:peer:4abc#key-1"

	data, _ := json.Marshal(map[string]string{"contentHash": "abc"})
	entry, err := NewEntry(OpResourceAdded, "did:peer:4abc/resources/r1", json.RawMessage(data))
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	log := &Log{}
	if err := log.Append(context.Background(), s, entry, vm); err != nil {
		t.Fatalf("Append: %v", err)
	}
	originalProof := log.Entries[0].Proof

	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PrivateKey, nil }
	if err := MigrateLegacyProofs(context.Background(), log, keyFor); err != nil {
		t.Fatalf("MigrateLegacyProofs: %v", err)
	}
	if log.Entries[0].Proof.ProofValue != originalProof.ProofValue {
		t.Fatal("expected already-modern proof to be left untouched")
	}
}
