package asset

import (
	"context"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

func buildTestLog(t *testing.T) (*cel.Log, func(string) (crypto.KeyType, []byte, error)) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)
	vm := "did:peer:4abc#key-1"

	log := &cel.Log{}
	resource := cel.NewResource("did:peer:4abc/resources/r1", "text/plain", []byte("hello"), "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
	entry, err := cel.NewEntry(cel.OpResourceAdded, resource.ID, resource)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if err := log.Append(context.Background(), s, entry, vm); err != nil {
		t.Fatalf("Append: %v", err)
	}
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }
	return log, keyFor
}

func TestLoadAndVerify(t *testing.T) {
	log, keyFor := buildTestLog(t)
	a, err := Load("did:peer:4abc", log, keyFor)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	report := a.Verify(keyFor)
	if !report.Valid {
		t.Fatalf("expected valid report, got %v", report.Error)
	}
	if len(report.Provenance) != 1 {
		t.Fatalf("provenance length = %d, want 1", len(report.Provenance))
	}
}

func TestGetResourceVersion(t *testing.T) {
	log, keyFor := buildTestLog(t)
	a, err := Load("did:peer:4abc", log, keyFor)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, err := a.GetResourceVersion("did:peer:4abc/resources/r1", 1)
	if err != nil {
		t.Fatalf("GetResourceVersion: %v", err)
	}
	if v.Version != 1 {
		t.Fatalf("version = %d, want 1", v.Version)
	}
}

func TestFinalizedIsFalseBeforeMigration(t *testing.T) {
	log, keyFor := buildTestLog(t)
	a, err := Load("did:peer:4abc", log, keyFor)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Finalized() {
		t.Fatal("expected a freshly created asset to not be finalized")
	}
	if a.CurrentLayer() != "peer" {
		t.Fatalf("current layer = %s, want peer", a.CurrentLayer())
	}
}
