// Package btco implements the did:btco method driver (§4.3): identity is a
// satoshi number, and the DID document is derived from the ordered sequence
// of inscriptions carried by that satoshi (earliest valid DID document
// inscription wins, later inscriptions that satisfy an update pattern amend
// it). Resolution requires a connection to the Bitcoin network via an
// injected InscriptionSource, never performed offline.
package btco

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/did"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

// Inscription is the subset of an ordinal inscription the driver needs:
// its content and the satoshi and index it was inscribed at.
type Inscription struct {
	ID          string
	Satoshi     string
	Sequence    int // order of inscription on the satoshi, 0 = first
	ContentType string
	Content     []byte
}

// InscriptionSource looks up the inscriptions carried by a satoshi, in
// inscription order. Implemented by pkg/ordinals providers.
type InscriptionSource interface {
	InscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error)
}

// Driver implements did.Driver for did:btco.
type Driver struct {
	Source InscriptionSource
}

// New returns a did:btco driver backed by the given inscription source.
func New(source InscriptionSource) *Driver {
	return &Driver{Source: source}
}

func (d *Driver) Method() string { return "btco" }

// didDocumentContentType is the inscription content type that marks an
// inscription as a did:btco document update.
const didDocumentContentType = "application/did+json"

// Create always returns an error at the driver layer: a did:btco identity
// only exists once its genesis DID document has actually been inscribed
// on-chain, which requires a funded commit/reveal transaction (pkg/bitcoin).
// The driver cannot perform that write itself, and it builds no document.
func (d *Driver) Create(ctx context.Context, params did.CreateParams) (*did.Document, error) {
	return nil, fmt.Errorf("did:btco create requires on-chain inscription; use pkg/bitcoin.Manager.Inscribe then Resolve")
}

// Resolve reconstructs the current did:btco document by replaying the
// satoshi's inscriptions in order: the first valid DID document inscription
// is genesis, later ones (matching didDocumentContentType) are updates.
func (d *Driver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	parsed, err := didurl.Parse(didStr)
	if err != nil || parsed.Method != didurl.MethodBtco {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}
	if d.Source == nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
	}

	inscriptions, err := d.Source.InscriptionsBySatoshi(ctx, parsed.BtcoSatoshi.String())
	if err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
	}

	var doc *did.Document
	for _, insc := range inscriptions {
		if insc.ContentType != didDocumentContentType {
			continue
		}
		var candidate did.Document
		if err := json.Unmarshal(insc.Content, &candidate); err != nil {
			continue // malformed inscriptions are skipped, not fatal
		}
		if doc == nil {
			doc = &candidate
			continue
		}
		// Later inscriptions amend the document in place; id is immutable.
		candidate.ID = doc.ID
		doc = &candidate
	}

	if doc == nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
	}
	return &did.ResolutionResult{
		DidDocument: doc,
		Metadata:    did.ResolutionMetadata{ContentType: "application/did+json", Retrieved: time.Now().UTC()},
	}, nil
}

// Dereference supports #fragment lookups into the resolved document and
// numeric /<sequence> path lookups into the satoshi's raw inscription
// content (e.g. "did:btco:123/0" for the genesis inscription payload).
func (d *Driver) Dereference(ctx context.Context, didURLStr string) (*did.DereferenceResult, error) {
	parsed, err := didurl.Parse(didURLStr)
	if err != nil || parsed.Method != didurl.MethodBtco {
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	if parsed.Path != "" {
		if d.Source == nil {
			return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
		}
		inscriptions, err := d.Source.InscriptionsBySatoshi(ctx, parsed.BtcoSatoshi.String())
		if err != nil {
			return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
		}
		var seq int
		if _, scanErr := fmt.Sscanf(parsed.Path, "%d", &seq); scanErr != nil {
			return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorRepresentationNotSupported}}, nil
		}
		for _, insc := range inscriptions {
			if insc.Sequence == seq {
				return &did.DereferenceResult{
					DereferencedResource: &did.DereferencedResource{ContentType: insc.ContentType, Content: insc.Content},
					Metadata:             did.ResolutionMetadata{Retrieved: time.Now().UTC()},
				}, nil
			}
		}
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
	}

	res, err := d.Resolve(ctx, parsed.DID())
	if err != nil || res.DidDocument == nil {
		return &did.DereferenceResult{Errors: res.Errors}, nil
	}
	if parsed.Fragment == "" {
		docBytes, _ := json.Marshal(res.DidDocument)
		return &did.DereferenceResult{
			DereferencedResource: &did.DereferencedResource{ContentType: "application/did+json", Content: docBytes},
			Metadata:             res.Metadata,
		}, nil
	}
	target := parsed.DID() + "#" + parsed.Fragment
	for _, vm := range res.DidDocument.VerificationMethod {
		if vm.ID == target {
			vmBytes, _ := json.Marshal(vm)
			return &did.DereferenceResult{
				DereferencedResource: &did.DereferencedResource{ContentType: "application/did+json", Content: vmBytes},
				Metadata:             res.Metadata,
			}, nil
		}
	}
	return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
}
