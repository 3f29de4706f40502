package cel

import (
	"context"
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

// MigrateLegacyProofs re-signs every eddsa-rdfc-2022 entry in a log with
// eddsa-jcs-2022, the adapter path §9 calls for: read a log that may contain
// legacy-suite proofs, write a log where every proof is in the current
// suite. Entry hashes are untouched since Proof is excluded from
// ComputeEntryHash, so the chain itself does not change, only its
// signatures. Entries already on eddsa-jcs-2022 are left as-is.
//
// keyFor resolves the key type and private key to re-sign an entry by its
// existing proof's verificationMethod id.
func MigrateLegacyProofs(ctx context.Context, log *Log, keyFor func(verificationMethod string) (crypto.KeyType, []byte, error)) error {
	for i, e := range log.Entries {
		if e.Proof == nil || e.Proof.Cryptosuite != string(signer.SuiteEddsaRdfc2022) {
			continue
		}
		keyType, privKey, err := keyFor(e.Proof.VerificationMethod)
		if err != nil {
			return fmt.Errorf("resolve signing key for entry %d (%s): %w", i, e.ID, err)
		}
		s := signer.NewInternalSigner(&crypto.KeyPair{Type: keyType, PrivateKey: privKey})

		doc, err := e.ToSigningMap()
		if err != nil {
			return fmt.Errorf("encode entry %d (%s) for re-signing: %w", i, e.ID, err)
		}
		proof, err := signer.SignDocument(ctx, s, signer.SuiteEddsaJcs2022, doc, e.Proof.VerificationMethod, e.Proof.ProofPurpose)
		if err != nil {
			return fmt.Errorf("re-sign entry %d (%s): %w", i, e.ID, err)
		}
		log.Entries[i].Proof = proof
	}
	return nil
}
