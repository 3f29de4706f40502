package btco

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/did"
)

type fakeSource struct {
	bySat map[string][]Inscription
}

func (f *fakeSource) InscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error) {
	return f.bySat[satoshi], nil
}

func genesisDoc(id string) []byte {
	doc := did.Document{Context: []string{"https://www.w3.org/ns/did/v1"}, ID: id}
	b, _ := json.Marshal(doc)
	return b
}

func TestResolveGenesisOnly(t *testing.T) {
	src := &fakeSource{bySat: map[string][]Inscription{
		"100": {{ID: "insc1", Satoshi: "100", Sequence: 0, ContentType: didDocumentContentType, Content: genesisDoc("did:btco:100")}},
	}}
	drv := New(src)
	res, err := drv.Resolve(context.Background(), "did:btco:100")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.DidDocument.ID != "did:btco:100" {
		t.Fatalf("id = %s", res.DidDocument.ID)
	}
}

func TestResolveAppliesLaterUpdate(t *testing.T) {
	updated := did.Document{Context: []string{"https://www.w3.org/ns/did/v1"}, ID: "did:btco:100", Deactivated: true}
	updatedBytes, _ := json.Marshal(updated)
	src := &fakeSource{bySat: map[string][]Inscription{
		"100": {
			{ID: "insc1", Satoshi: "100", Sequence: 0, ContentType: didDocumentContentType, Content: genesisDoc("did:btco:100")},
			{ID: "insc2", Satoshi: "100", Sequence: 1, ContentType: didDocumentContentType, Content: updatedBytes},
		},
	}}
	drv := New(src)
	res, err := drv.Resolve(context.Background(), "did:btco:100")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.DidDocument.Deactivated {
		t.Fatal("expected deactivated=true after update inscription applied")
	}
}

func TestResolveUnknownSatoshiNotFound(t *testing.T) {
	drv := New(&fakeSource{bySat: map[string][]Inscription{}})
	res, err := drv.Resolve(context.Background(), "did:btco:999")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0] != did.ErrorNotFound {
		t.Fatalf("expected NotFound, got %v", res.Errors)
	}
}

func TestDereferenceBySequence(t *testing.T) {
	src := &fakeSource{bySat: map[string][]Inscription{
		"100": {{ID: "insc1", Satoshi: "100", Sequence: 0, ContentType: "text/plain", Content: []byte("hello")}},
	}}
	drv := New(src)
	deref, err := drv.Dereference(context.Background(), "did:btco:100/0")
	if err != nil {
		t.Fatalf("Dereference: %v", err)
	}
	if deref.DereferencedResource == nil || string(deref.DereferencedResource.Content) != "hello" {
		t.Fatalf("unexpected dereference result: %+v", deref)
	}
}

func TestCreateRequiresInscription(t *testing.T) {
	drv := New(nil)
	if _, err := drv.Create(context.Background(), did.CreateParams{}); err == nil {
		t.Fatal("expected error from driver-level Create")
	}
}
