// Package did defines the uniform DID driver contract (§4.3) implemented by
// the three method-specific drivers in its peer, webvh and btco subpackages.
package did

import (
	"context"
	"time"
)

// VerificationMethod is a Multikey-encoded verification method entry in a
// DID document.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"` // "Multikey"
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Document is a W3C-compliant DID document.
type Document struct {
	Context            []string              `json:"@context"`
	ID                 string                `json:"id"`
	VerificationMethod []VerificationMethod  `json:"verificationMethod"`
	Authentication     []string              `json:"authentication"`
	AssertionMethod    []string              `json:"assertionMethod"`
	Service            []Service             `json:"service,omitempty"`
	Deactivated        bool                  `json:"deactivated,omitempty"`
	Modified           string                `json:"modified,omitempty"`
}

// Service is a DID document service entry.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// ErrorKind enumerates the resolver boundary's machine-readable error codes (§6).
type ErrorKind string

const (
	ErrorInvalidDid                 ErrorKind = "invalidDid"
	ErrorNotFound                   ErrorKind = "notFound"
	ErrorRepresentationNotSupported ErrorKind = "representationNotSupported"
	ErrorProofVerificationFailed    ErrorKind = "proofVerificationFailed"
	ErrorNetworkUnavailable         ErrorKind = "networkUnavailable"
)

// ResolutionMetadata carries the uniform resolver result's side-channel data.
type ResolutionMetadata struct {
	ContentType string    `json:"contentType,omitempty"`
	Retrieved   time.Time `json:"retrieved,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// ResolutionResult is the uniform resolve() result envelope (§4.4).
type ResolutionResult struct {
	DidDocument *Document           `json:"didDocument,omitempty"`
	Metadata    ResolutionMetadata  `json:"metadata"`
	Errors      []ErrorKind         `json:"errors,omitempty"`
}

// DereferencedResource is the resource dereference() found, if any.
type DereferencedResource struct {
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// DereferenceResult is the uniform dereference() result envelope (§4.4).
type DereferenceResult struct {
	DereferencedResource *DereferencedResource `json:"dereferencedResource,omitempty"`
	Metadata             ResolutionMetadata    `json:"metadata"`
	Errors               []ErrorKind           `json:"errors,omitempty"`
}

// CreateParams are the inputs to a driver's create operation. Not every
// field applies to every method: peer ignores Domain/PathSegments; webvh
// requires Domain and a storage adapter supplied out of band by the caller.
type CreateParams struct {
	VerificationMethods []VerificationMethod
	Controller          string
	Domain              string   // webvh
	PathSegments        []string // webvh
}

// Driver is the uniform contract every DID method implements (§4.3).
type Driver interface {
	Method() string
	Create(ctx context.Context, params CreateParams) (*Document, error)
	Resolve(ctx context.Context, did string) (*ResolutionResult, error)
	Dereference(ctx context.Context, didURL string) (*DereferenceResult, error)
}
