// Package peer implements the did:peer method driver (§4.3): creation is
// offline, the DID document is fully self-contained in the method-specific
// id, and resolution never touches the network.
package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/did"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

// Driver implements did.Driver for did:peer.
type Driver struct{}

// New returns a did:peer driver.
func New() *Driver { return &Driver{} }

func (d *Driver) Method() string { return "peer" }

// peerDocBody is the subset of a DID document embedded (base58btc-multibase
// encoded) into a numalgo-4 did:peer identifier's long-form segment.
type peerDocBody struct {
	VerificationMethod []did.VerificationMethod `json:"verificationMethod"`
	Authentication     []string                 `json:"authentication"`
	AssertionMethod    []string                 `json:"assertionMethod"`
	Service            []did.Service            `json:"service,omitempty"`
}

// Create builds a numalgo-4 did:peer document from the supplied verification
// methods, embedding the document itself (minus id/controller, which are
// filled in relative to the computed DID) into the identifier.
func (d *Driver) Create(ctx context.Context, params did.CreateParams) (*did.Document, error) {
	if len(params.VerificationMethods) == 0 {
		return nil, fmt.Errorf("did:peer create requires at least one verification method")
	}

	body := peerDocBody{VerificationMethod: params.VerificationMethods}
	for _, vm := range params.VerificationMethods {
		body.Authentication = append(body.Authentication, vm.ID)
		body.AssertionMethod = append(body.AssertionMethod, vm.ID)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode peer document body: %w", err)
	}
	digest := crypto.Sha256(raw)
	hashMultibase, err := crypto.EncodeMultikey(crypto.KeyTypeEd25519, digest[:])
	if err != nil {
		return nil, fmt.Errorf("encode peer hash segment: %w", err)
	}

	didID := fmt.Sprintf("did:peer:4%s:%s", hashMultibase, encodeLongForm(raw))

	doc := &did.Document{
		Context:         []string{"https://www.w3.org/ns/did/v1"},
		ID:              didID,
		Authentication:  prefixAll(didID, body.Authentication),
		AssertionMethod: prefixAll(didID, body.AssertionMethod),
		Service:         body.Service,
	}
	for _, vm := range params.VerificationMethods {
		doc.VerificationMethod = append(doc.VerificationMethod, did.VerificationMethod{
			ID:                 didID + vm.ID,
			Type:               vm.Type,
			Controller:         didID,
			PublicKeyMultibase: vm.PublicKeyMultibase,
		})
	}
	return doc, nil
}

// Resolve decodes the long-form document embedded in the DID itself; no
// network access occurs.
func (d *Driver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	parsed, err := didurl.Parse(didStr)
	if err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}
	if parsed.Method != didurl.MethodPeer {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	longForm, err := extractLongForm(parsed.MethodSpecificID)
	if err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	var body peerDocBody
	if err := json.Unmarshal(longForm, &body); err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	doc := &did.Document{
		Context:         []string{"https://www.w3.org/ns/did/v1"},
		ID:              parsed.DID(),
		Authentication:  prefixAll(parsed.DID(), body.Authentication),
		AssertionMethod: prefixAll(parsed.DID(), body.AssertionMethod),
		Service:         body.Service,
	}
	for _, vm := range body.VerificationMethod {
		doc.VerificationMethod = append(doc.VerificationMethod, did.VerificationMethod{
			ID:                 parsed.DID() + vm.ID,
			Type:               vm.Type,
			Controller:         parsed.DID(),
			PublicKeyMultibase: vm.PublicKeyMultibase,
		})
	}

	return &did.ResolutionResult{
		DidDocument: doc,
		Metadata:    did.ResolutionMetadata{ContentType: "application/did+json", Retrieved: time.Now().UTC()},
	}, nil
}

// Dereference supports only #fragment lookups into the self-contained
// document; any path or query yields RepresentationNotSupported.
func (d *Driver) Dereference(ctx context.Context, didURL string) (*did.DereferenceResult, error) {
	parsed, err := didurl.Parse(didURL)
	if err != nil {
		if errors.Is(err, didurl.ErrRepresentationNotSupported) {
			return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorRepresentationNotSupported}}, nil
		}
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	res, resErr := d.Resolve(ctx, parsed.DID())
	if resErr != nil || res.DidDocument == nil {
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
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

func prefixAll(didID string, fragments []string) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = didID + f
	}
	return out
}

func encodeLongForm(raw []byte) string {
	mk, _ := crypto.EncodeMultikey(crypto.KeyTypeEd25519, raw)
	return mk
}

func extractLongForm(methodSpecificID string) ([]byte, error) {
	// methodSpecificID is "4<hashMultibase>:<longFormMultibase>"
	colonIdx := -1
	for i, c := range methodSpecificID {
		if c == ':' {
			colonIdx = i
			break
		}
	}
	if colonIdx < 0 {
		return nil, fmt.Errorf("did:peer numalgo-4 missing long-form segment")
	}
	_, raw, err := crypto.DecodeMultikey(methodSpecificID[colonIdx+1:])
	if err != nil {
		return nil, err
	}
	return raw, nil
}
