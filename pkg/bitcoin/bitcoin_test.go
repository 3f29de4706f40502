package bitcoin

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/txscript"

	"github.com/onionoriginals/sdk-go/pkg/ordinals"
)

func TestRequireTaprootRejectsNonTaproot(t *testing.T) {
	builder := txscript.NewScriptBuilder().AddOp(txscript.OP_DUP).AddOp(txscript.OP_HASH160)
	script, err := builder.Script()
	if err != nil {
		t.Fatalf("build script: %v", err)
	}
	if err := RequireTaproot(script); err == nil {
		t.Fatal("expected non-taproot script to be rejected")
	}
}

func TestBuildManifestAndProportionalFees(t *testing.T) {
	entries := []ManifestEntry{
		{ResourceID: "r1", ContentType: "text/plain", Content: []byte("short")},
		{ResourceID: "r2", ContentType: "text/plain", Content: []byte("a much longer piece of content here")},
	}
	manifest, err := BuildManifest(entries)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	fees, err := manifest.ProportionalFees(1000)
	if err != nil {
		t.Fatalf("ProportionalFees: %v", err)
	}
	var sum int64
	for _, f := range fees {
		sum += f
	}
	if sum != 1000 {
		t.Fatalf("fee sum = %d, want 1000", sum)
	}
	if fees[1] <= fees[0] {
		t.Fatalf("expected entry 2 (larger) to get a bigger fee share: %v", fees)
	}

	proof, err := manifest.ProofFor(0)
	if err != nil {
		t.Fatalf("ProofFor: %v", err)
	}
	if proof.MerkleRoot == "" {
		t.Fatal("expected non-empty merkle root in proof")
	}
}

func TestBuildManifestRejectsEmpty(t *testing.T) {
	if _, err := BuildManifest(nil); err != ErrEmptyBatch {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestManagerInscribeAndResolve(t *testing.T) {
	provider := ordinals.NewMemory()
	mgr := NewManager(provider)

	res, err := mgr.Inscribe(context.Background(), "application/json", []byte(`{"a":1}`), "bc1p...")
	if err != nil {
		t.Fatalf("Inscribe: %v", err)
	}
	inscriptions, err := mgr.Resolve(context.Background(), res.Satoshi)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(inscriptions) != 1 {
		t.Fatalf("expected 1 inscription, got %d", len(inscriptions))
	}
}

func TestManagerInscribeBatch(t *testing.T) {
	provider := ordinals.NewMemory()
	mgr := NewManager(provider)
	entries := []ManifestEntry{
		{ResourceID: "r1", ContentType: "text/plain", Content: []byte("one")},
		{ResourceID: "r2", ContentType: "text/plain", Content: []byte("two")},
	}
	results, err := mgr.InscribeBatch(context.Background(), entries, "bc1p...", FailFast)
	if err != nil {
		t.Fatalf("InscribeBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected batch entry error: %v", r.Err)
		}
	}
}
