// originals-demo exercises a full asset lifecycle end to end against the
// SDK's in-memory backends: generate a controller key, create a resource,
// append it to a CEL log, verify and replay the log, issue a verifiable
// credential over the creation, and migrate the asset from did:peer to
// did:webvh with preliminary and final attestations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/credential"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
	"github.com/onionoriginals/sdk-go/pkg/sdk"
)

func main() {
	keyType := flag.String("key-type", "Ed25519", "controller key type: Ed25519 or Bls12381G2")
	resourceID := flag.String("resource", "demo-resource-1", "resource id to create")
	content := flag.String("content", "hello, originals", "resource content to hash and record")
	flag.Parse()

	if err := run(*keyType, *resourceID, *content); err != nil {
		log.Fatalf("originals-demo: %v", err)
	}
}

func run(keyTypeFlag, resourceID, content string) error {
	ctx := context.Background()

	var keyType crypto.KeyType
	switch keyTypeFlag {
	case "Ed25519":
		keyType = crypto.KeyTypeEd25519
	case "Bls12381G2":
		keyType = crypto.KeyTypeBLS12381G2
	default:
		return fmt.Errorf("unsupported key type %q", keyTypeFlag)
	}

	kp, err := crypto.GenerateKeyPair(keyType)
	if err != nil {
		return fmt.Errorf("generate controller key: %w", err)
	}
	multikey, err := kp.Multikey()
	if err != nil {
		return fmt.Errorf("encode controller multikey: %w", err)
	}

	s, err := sdk.New(sdk.Config{ControllerKeyPair: kp})
	if err != nil {
		return fmt.Errorf("build sdk: %w", err)
	}

	assetDid := "did:peer:4demo"
	verificationMethod := assetDid + "#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	contentHash := crypto.Sha256Hex([]byte(content))
	log.Printf("controller public key (multikey): %s", multikey)
	log.Printf("resource %s content hash: %s", resourceID, contentHash)

	celLog := &cel.Log{}
	resource := cel.NewResource(resourceID, "text/plain", []byte(content), contentHash)
	if err := s.CreateResource(ctx, celLog, resource, verificationMethod); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	asset, err := s.LoadAsset(assetDid, celLog, keyFor)
	if err != nil {
		return fmt.Errorf("load asset: %w", err)
	}
	version, err := asset.CurrentVersion(resourceID)
	if err != nil {
		return fmt.Errorf("current version: %w", err)
	}
	log.Printf("replayed resource version %d, content hash %s", version.Version, version.ContentHash)

	cred, err := s.IssueCredential(ctx, credential.TypeResourceCreated, assetDid, verificationMethod, credential.Subject{
		ID:           assetDid,
		ResourceID:   resourceID,
		ResourceHash: contentHash,
	})
	if err != nil {
		return fmt.Errorf("issue credential: %w", err)
	}
	result := credential.Verify(cred, kp.Type, kp.PublicKey, assetDid, time.Minute)
	log.Printf("credential %s verified=%v warnings=%v", cred.ID, result.Valid, result.Warnings)

	checkpoint, preliminary, err := s.BeginMigration(ctx, asset, didurl.MethodWebvh, version.ContentHash)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	log.Printf("migration checkpoint %s in state %s, preliminary attestation signed at %s", checkpoint.ID, checkpoint.State, preliminary.SignedAt)

	targetDid := "did:webvh:example.com:demo"
	_, final, err := s.CompleteMigration(ctx, celLog, checkpoint.ID, preliminary, sdk.MigrationEvidence{
		TargetDID:  targetDid,
		AnchorTxID: "demo-anchor-txid",
	}, verificationMethod)
	if err != nil {
		return fmt.Errorf("complete migration: %w", err)
	}
	log.Printf("migration finalized, anchor txid=%s stage=%s", final.Message.AnchorTxID, final.Message.Stage)

	summary, err := json.MarshalIndent(map[string]any{
		"assetDid":    assetDid,
		"resourceID":  resourceID,
		"contentHash": contentHash,
		"credentialID": cred.ID,
		"checkpointID": checkpoint.ID,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Println(string(summary))
	return nil
}
