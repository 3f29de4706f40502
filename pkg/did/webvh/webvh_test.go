package webvh

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

// memoryHost is an in-memory stand-in for the domain-hosted did.jsonl log.
type memoryHost struct {
	files map[string][]byte
}

func (h *memoryHost) fetch(ctx context.Context, url string) ([]byte, error) {
	data, ok := h.files[url]
	if !ok {
		return nil, errNotFound
	}
	return data, nil
}

func (h *memoryHost) publish(ctx context.Context, url string, data []byte) error {
	if h.files == nil {
		h.files = map[string][]byte{}
	}
	h.files[url] = append(h.files[url], data...)
	return nil
}

var errNotFound = &notFoundErr{}

type notFoundErr struct{}

func (e *notFoundErr) Error() string { return "not found" }

func TestCreateAndResolveRoundTrip(t *testing.T) {
	host := &memoryHost{}
	drv := &Driver{Fetch: host.fetch, Publish: host.publish}

	vm := newVM(t)
	doc, err := drv.Create(context.Background(), did.CreateParams{
		Domain:              "example.com",
		PathSegments:        []string{"alice"},
		VerificationMethods: []did.VerificationMethod{vm},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
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

func TestResolveUnknownDomainNetworkError(t *testing.T) {
	host := &memoryHost{}
	drv := &Driver{Fetch: host.fetch}
	res, err := drv.Resolve(context.Background(), "did:webvh:example.com:nobody")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0] != did.ErrorNetworkUnavailable {
		t.Fatalf("expected NetworkUnavailable, got %v", res.Errors)
	}
}

func TestDereferenceFragment(t *testing.T) {
	host := &memoryHost{}
	drv := &Driver{Fetch: host.fetch, Publish: host.publish}
	vm := newVM(t)
	doc, err := drv.Create(context.Background(), did.CreateParams{
		Domain:              "example.com",
		VerificationMethods: []did.VerificationMethod{vm},
	})
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
}
