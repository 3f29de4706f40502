package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

const contextURL = "https://www.w3.org/ns/credentials/v2"

// Issue signs and returns a new lifecycle credential of the given type,
// using s to produce its Data Integrity proof. status is optional and, when
// set, is included in the signed document (it is never dereferenced by
// Verify, only flagged via WarningStatusCheckSkipped).
func Issue(ctx context.Context, s signer.Signer, credType CredentialType, issuer, verificationMethod string, subject Subject, status *CredentialStatus) (*Credential, error) {
	cred := &Credential{
		Context:           []string{contextURL},
		ID:                "urn:uuid:" + uuid.NewString(),
		Type:              []string{"VerifiableCredential", string(credType)},
		Issuer:            issuer,
		ValidFrom:         time.Now().UTC(),
		CredentialSubject: subject,
		CredentialStatus:  status,
	}

	doc, err := toSigningMap(cred)
	if err != nil {
		return nil, err
	}
	proof, err := signer.SignDocument(ctx, s, signer.SuiteEddsaJcs2022, doc, verificationMethod, "assertionMethod")
	if err != nil {
		return nil, fmt.Errorf("issue %s credential: %w", credType, err)
	}
	cred.Proof = proof
	return cred, nil
}

// Verify checks a credential's Data Integrity proof against the issuer's
// public key, that issuer matches expectedIssuer, and that the credential's
// validFrom is not in the future by more than skew. A present but unchecked
// credentialStatus yields WarningStatusCheckSkipped rather than an error,
// since status checking is out of scope (§4.6).
func Verify(cred *Credential, keyType crypto.KeyType, issuerPublicKey []byte, expectedIssuer string, skew time.Duration) VerificationResult {
	if cred == nil {
		return VerificationResult{Valid: false, Warnings: []string{WarningMissingCredential}, Error: fmt.Errorf("credential is nil")}
	}

	var warnings []string
	if cred.CredentialStatus != nil {
		warnings = append(warnings, WarningStatusCheckSkipped)
	}

	if cred.Issuer != expectedIssuer {
		return VerificationResult{Valid: false, Warnings: warnings, Error: fmt.Errorf("credential issuer %q does not match expected issuer %q", cred.Issuer, expectedIssuer)}
	}
	if cred.ValidFrom.After(time.Now().UTC().Add(skew)) {
		return VerificationResult{Valid: false, Warnings: warnings, Error: fmt.Errorf("credential validFrom %s is beyond allowed skew", cred.ValidFrom)}
	}

	proof := cred.Proof
	doc, err := toSigningMap(cred)
	if err != nil {
		return VerificationResult{Valid: false, Warnings: warnings, Error: err}
	}
	if err := signer.VerifyProof(doc, proof, keyType, issuerPublicKey); err != nil {
		return VerificationResult{Valid: false, Warnings: warnings, Error: err}
	}
	return VerificationResult{Valid: true, Warnings: warnings}
}

// toSigningMap round-trips the credential through JSON to obtain the plain
// map[string]any document shape the proof layer canonicalizes and hashes.
func toSigningMap(cred *Credential) (map[string]any, error) {
	raw, err := json.Marshal(cred)
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	delete(m, "proof")
	return m, nil
}
