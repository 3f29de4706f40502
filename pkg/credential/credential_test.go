package credential

import (
	"context"
	"testing"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

func TestIssueAndVerifyResourceCreated(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)

	cred, err := Issue(context.Background(), s, TypeResourceCreated, "did:peer:4abc", "did:peer:4abc#key-1", Subject{
		ID:           "did:peer:4abc",
		ResourceID:   "did:peer:4abc/resources/r1",
		ResourceHash: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
	}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if cred.ValidFrom.IsZero() {
		t.Fatal("expected Issue to set ValidFrom")
	}

	result := Verify(cred, kp.Type, kp.PublicKey, "did:peer:4abc", time.Minute)
	if !result.Valid {
		t.Fatalf("expected valid credential, got error %v", result.Error)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestVerifyFlagsMissingCredential(t *testing.T) {
	result := Verify(nil, crypto.KeyTypeEd25519, nil, "did:peer:4abc", time.Minute)
	if result.Valid {
		t.Fatal("expected invalid result for nil credential")
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarningMissingCredential {
		t.Fatalf("expected MissingCredential warning, got %v", result.Warnings)
	}
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)
	cred, err := Issue(context.Background(), s, TypeResourceCreated, "did:peer:4abc", "did:peer:4abc#key-1", Subject{
		ID: "did:peer:4abc", ResourceID: "did:peer:4abc/resources/r1",
	}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	result := Verify(cred, kp.Type, kp.PublicKey, "did:peer:4someone-else", time.Minute)
	if result.Valid {
		t.Fatal("expected invalid result for issuer mismatch")
	}
}

func TestVerifyRejectsFutureValidFromBeyondSkew(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)
	cred, err := Issue(context.Background(), s, TypeResourceCreated, "did:peer:4abc", "did:peer:4abc#key-1", Subject{
		ID: "did:peer:4abc", ResourceID: "did:peer:4abc/resources/r1",
	}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	cred.ValidFrom = time.Now().UTC().Add(time.Hour)

	result := Verify(cred, kp.Type, kp.PublicKey, "did:peer:4abc", time.Minute)
	if result.Valid {
		t.Fatal("expected invalid result for validFrom beyond skew")
	}
}

func TestVerifyFlagsStatusCheckSkipped(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	s := signer.NewInternalSigner(kp)
	cred, err := Issue(context.Background(), s, TypeResourceUpdated, "did:peer:4abc", "did:peer:4abc#key-1", Subject{
		ID: "did:peer:4abc", ResourceID: "did:peer:4abc/resources/r1",
	}, &CredentialStatus{ID: "https://example.com/status/1", Type: "StatusList2021Entry"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	result := Verify(cred, kp.Type, kp.PublicKey, "did:peer:4abc", time.Minute)
	if !result.Valid {
		t.Fatalf("expected valid despite status present, got %v", result.Error)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarningStatusCheckSkipped {
		t.Fatalf("expected StatusCheckSkipped warning, got %v", result.Warnings)
	}
}
