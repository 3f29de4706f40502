package peer

import (
	"context"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/did"
)

func newVM(t *testing.T) did.VerificationMethod {
	t.Helper()
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	mk, err := kp.Multikey()
	if err != nil {
		t.Fatalf("Multikey: %v", err)
	}
	return did.VerificationMethod{ID: "#key-1", Type: "Multikey", PublicKeyMultibase: mk}
}

func TestCreateAndResolveRoundTrip(t *testing.T) {
	drv := New()
	vm := newVM(t)
	doc, err := drv.Create(context.Background(), did.CreateParams{VerificationMethods: []did.VerificationMethod{vm}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(doc.VerificationMethod) != 1 {
		t.Fatalf("expected 1 verification method, got %d", len(doc.VerificationMethod))
	}

	res, err := drv.Resolve(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.DidDocument.ID != doc.ID {
		t.Fatalf("resolved id %s != created id %s", res.DidDocument.ID, doc.ID)
	}
}

func TestDereferenceFragment(t *testing.T) {
	drv := New()
	vm := newVM(t)
	doc, err := drv.Create(context.Background(), did.CreateParams{VerificationMethods: []did.VerificationMethod{vm}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deref, err := drv.Dereference(context.Background(), doc.ID+"#key-1")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	if len(deref.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", deref.Errors)
	}
	if deref.DereferencedResource == nil {
		t.Fatal("expected a dereferenced resource")
	}
}

func TestDereferenceRejectsPath(t *testing.T) {
	drv := New()
	vm := newVM(t)
	doc, err := drv.Create(context.Background(), did.CreateParams{VerificationMethods: []did.VerificationMethod{vm}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	deref, err := drv.Dereference(context.Background(), doc.ID+"/some/path")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	if len(deref.Errors) != 1 || deref.Errors[0] != did.ErrorRepresentationNotSupported {
		t.Fatalf("expected RepresentationNotSupported, got %v", deref.Errors)
	}
}
