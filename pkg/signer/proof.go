package signer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/onionoriginals/sdk-go/pkg/canonical"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// Cryptosuite identifies the Data Integrity proof suite used to produce a
// proof (§4.1, §4.5). eddsa-jcs-2022 is the conformance suite for all newly
// signed artifacts; eddsa-rdfc-2022 is accepted only when verifying logs
// signed upstream by a real RDFC-1.0 implementation.
type Cryptosuite string

const (
	SuiteEddsaJcs2022  Cryptosuite = "eddsa-jcs-2022"
	SuiteEddsaRdfc2022 Cryptosuite = "eddsa-rdfc-2022"
)

// DataIntegrityProof is a W3C Data Integrity proof object (§4.5, §4.6).
type DataIntegrityProof struct {
	Type               string `json:"type"`
	Cryptosuite        string `json:"cryptosuite"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue"`
}

// proofConfig is the subset of a DataIntegrityProof hashed separately from
// the document body when computing and verifying a proof.
type proofConfig struct {
	Type               string `json:"type"`
	Cryptosuite        string `json:"cryptosuite"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
}

func canonicalizeFor(suite Cryptosuite, raw []byte) ([]byte, error) {
	switch suite {
	case SuiteEddsaJcs2022:
		return canonical.CanonicalizeJSON(raw)
	case SuiteEddsaRdfc2022:
		return crypto.LegacyRDFCanonicalize(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCryptosuite, suite)
	}
}

// hashForSigning concatenates the cryptosuite-canonicalized hash of the
// proof configuration with that of the document body, the two-part digest
// both eddsa-jcs-2022 and eddsa-rdfc-2022 sign (minus the document's own
// "proof" member).
func hashForSigning(suite Cryptosuite, doc map[string]any, cfg proofConfig) ([]byte, error) {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	canonCfg, err := canonicalizeFor(suite, cfgBytes)
	if err != nil {
		return nil, err
	}

	docCopy := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "proof" {
			continue
		}
		docCopy[k] = v
	}
	docBytes, err := json.Marshal(docCopy)
	if err != nil {
		return nil, err
	}
	canonDoc, err := canonicalizeFor(suite, docBytes)
	if err != nil {
		return nil, err
	}

	cfgHash := crypto.Sha256(canonCfg)
	docHash := crypto.Sha256(canonDoc)
	out := make([]byte, 0, 64)
	out = append(out, cfgHash[:]...)
	out = append(out, docHash[:]...)
	return out, nil
}

// CreateProof signs the given document (as a JSON object, without a "proof"
// member) and returns the proof to attach to it.
func CreateProof(suite Cryptosuite, doc map[string]any, keyType crypto.KeyType, privateKey []byte, verificationMethod, proofPurpose string) (*DataIntegrityProof, error) {
	if suite != SuiteEddsaJcs2022 {
		return nil, fmt.Errorf("%w: new proofs must use %s", ErrUnsupportedCryptosuite, SuiteEddsaJcs2022)
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
	sig, err := crypto.Sign(keyType, privateKey, digest)
	if err != nil {
		return nil, fmt.Errorf("sign proof: %w", err)
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

// VerifyProof verifies a document's attached proof against the supplied
// public key. eddsa-rdfc-2022 is accepted here (legacy logs) but CreateProof
// refuses to produce it.
func VerifyProof(doc map[string]any, proof *DataIntegrityProof, keyType crypto.KeyType, publicKey []byte) error {
	if proof == nil {
		return ErrMissingProof
	}
	suite := Cryptosuite(proof.Cryptosuite)
	if suite != SuiteEddsaJcs2022 && suite != SuiteEddsaRdfc2022 {
		return fmt.Errorf("%w: %s", ErrUnsupportedCryptosuite, proof.Cryptosuite)
	}
	if len(proof.ProofValue) == 0 || proof.ProofValue[0] != 'z' {
		return fmt.Errorf("%w: proofValue is not multibase base58btc encoded", ErrProofVerificationFailed)
	}
	sig, err := base58.Decode(proof.ProofValue[1:])
	if err != nil {
		return fmt.Errorf("%w: decode proofValue: %v", ErrProofVerificationFailed, err)
	}

	cfg := proofConfig{
		Type:               proof.Type,
		Cryptosuite:        proof.Cryptosuite,
		Created:            proof.Created,
		VerificationMethod: proof.VerificationMethod,
		ProofPurpose:       proof.ProofPurpose,
	}
	digest, err := hashForSigning(suite, doc, cfg)
	if err != nil {
		return err
	}
	ok, err := crypto.Verify(keyType, publicKey, digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofVerificationFailed, err)
	}
	if !ok {
		return ErrProofVerificationFailed
	}
	return nil
}
