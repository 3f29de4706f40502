// Package credential issues and verifies the W3C Verifiable Credentials
// v2 that accompany lifecycle-significant CEL operations (§4.6):
// ResourceCreated, ResourceUpdated and ResourceMigrated.
package credential

import (
	"time"

	"github.com/onionoriginals/sdk-go/pkg/signer"
)

// CredentialType names the three lifecycle credential types this package issues.
type CredentialType string

const (
	TypeResourceCreated  CredentialType = "ResourceCreated"
	TypeResourceUpdated  CredentialType = "ResourceUpdated"
	TypeResourceMigrated CredentialType = "ResourceMigrated"
)

// Warning codes surfaced by Verify when a credential is structurally valid
// but something advisory is off (§4.6, §7).
const (
	WarningStatusCheckSkipped = "StatusCheckSkipped"
	WarningMissingCredential  = "MissingCredential"
)

// Subject is the credentialSubject payload for a lifecycle credential.
type Subject struct {
	ID           string `json:"id"`
	ResourceID   string `json:"resourceId"`
	ResourceHash string `json:"resourceHash,omitempty"`
	PreviousHash string `json:"previousHash,omitempty"`
	FromDid      string `json:"fromDid,omitempty"` // ResourceMigrated only
	ToDid        string `json:"toDid,omitempty"`   // ResourceMigrated only
}

// CredentialStatus is carried when present but never dereferenced (§4.6):
// checking revocation status is explicitly out of scope, and Verify always
// emits WarningStatusCheckSkipped when this field is set.
type CredentialStatus struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Credential is a W3C Verifiable Credential v2 with an embedded Data
// Integrity proof.
type Credential struct {
	Context           []string                    `json:"@context"`
	ID                string                      `json:"id"`
	Type              []string                    `json:"type"`
	Issuer            string                      `json:"issuer"`
	ValidFrom         time.Time                   `json:"validFrom"`
	CredentialSubject Subject                     `json:"credentialSubject"`
	CredentialStatus  *CredentialStatus           `json:"credentialStatus,omitempty"`
	Proof             *signer.DataIntegrityProof  `json:"proof,omitempty"`
}

// VerificationResult reports whether a credential's proof checked out, plus
// any advisory warnings that don't block acceptance.
type VerificationResult struct {
	Valid    bool
	Warnings []string
	Error    error
}
