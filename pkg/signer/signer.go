// Package signer wraps the cryptographic primitives of pkg/crypto behind a
// uniform Signer interface (§4.5), so the rest of the SDK can be handed
// either an in-process key (InternalSigner) or a remote signing service
// (any type implementing Signer, e.g. an HSM or custody API client) without
// caring which.
package signer

import (
	"context"
	"time"

	"github.com/mr-tron/base58"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// Signer signs and reports the public key material for a single key. It is
// the seam external custody providers implement to keep private keys out of
// SDK process memory entirely.
type Signer interface {
	KeyType() crypto.KeyType
	PublicKey() []byte
	Sign(ctx context.Context, message []byte) ([]byte, error)
}

// InternalSigner signs with a private key held in process memory.
type InternalSigner struct {
	keyType    crypto.KeyType
	publicKey  []byte
	privateKey []byte
}

// NewInternalSigner wraps a generated or imported key pair as a Signer.
func NewInternalSigner(kp *crypto.KeyPair) *InternalSigner {
	return &InternalSigner{keyType: kp.Type, publicKey: kp.PublicKey, privateKey: kp.PrivateKey}
}

func (s *InternalSigner) KeyType() crypto.KeyType { return s.keyType }
func (s *InternalSigner) PublicKey() []byte       { return s.publicKey }

func (s *InternalSigner) Sign(ctx context.Context, message []byte) ([]byte, error) {
	return crypto.Sign(s.keyType, s.privateKey, message)
}

// SignDocument is the Signer-mediated counterpart of CreateProof: it signs
// whatever digest the cryptosuite computes for doc without ever exposing a
// raw private key to the caller.
func SignDocument(ctx context.Context, s Signer, suite Cryptosuite, doc map[string]any, verificationMethod, proofPurpose string) (*DataIntegrityProof, error) {
	if suite != SuiteEddsaJcs2022 {
		return nil, ErrUnsupportedCryptosuite
	}
	cfg := proofConfig{
		Type:               "DataIntegrityProof",
		Cryptosuite:        string(suite),
		Created:            time.Now().UTC().Format(time.RFC3339),
		VerificationMethod: verificationMethod,
		ProofPurpose:       proofPurpose,
	}
	digest, err := hashForSigning(suite, doc, cfg)
	if err != nil {
		return nil, err
	}
	sig, err := s.Sign(ctx, digest)
	if err != nil {
		return nil, err
	}
	return &DataIntegrityProof{
		Type:               cfg.Type,
		Cryptosuite:        cfg.Cryptosuite,
		Created:            cfg.Created,
		VerificationMethod: cfg.VerificationMethod,
		ProofPurpose:       cfg.ProofPurpose,
		ProofValue:         "z" + base58.Encode(sig),
	}, nil
}
