package sdk

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onionoriginals/sdk-go/pkg/batchexec"
	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/credential"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/did"
	"github.com/onionoriginals/sdk-go/pkg/did/peer"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

func newTestSDK(t *testing.T) (*SDK, *crypto.KeyPair) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s, err := New(Config{ControllerKeyPair: kp})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, kp
}

// TestCreateResourceAndReplay mirrors golden scenario 1: create a resource,
// append it to a CEL log, and replay the log back into the same content
// hash (sha256("hello")), the same digest pkg/crypto's own golden test
// anchors on.
func TestCreateResourceAndReplay(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	contentHash := crypto.Sha256Hex([]byte("hello"))
	if contentHash != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("unexpected sha256(hello): %s", contentHash)
	}

	log := &cel.Log{}
	resource := cel.NewResource("resource-1", "text/plain", []byte("hello"), contentHash)
	if err := s.CreateResource(ctx, log, resource, vm); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	a, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	version, err := a.CurrentVersion("resource-1")
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version.ContentHash != contentHash {
		t.Fatalf("replayed content hash = %s, want %s", version.ContentHash, contentHash)
	}
}

// TestUpdateResourceRejectsAfterFinality mirrors the §3 global invariant
// that a version finalized on btco is immutable: UpdateResource must fail
// with LayerFinalityViolation once the asset has migrated there, derived
// from the asset's own replayed state rather than any caller-supplied flag.
func TestUpdateResourceRejectsAfterFinality(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	log := &cel.Log{}
	contentHash := crypto.Sha256Hex([]byte("hello"))
	resource := cel.NewResource("resource-1", "text/plain", []byte("hello"), contentHash)
	if err := s.CreateResource(ctx, log, resource, vm); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	migrated, err := cel.NewEntry(cel.OpResourceMigrated, "did:peer:4test", cel.MigrationData{
		From: "peer", To: "btco", SourceDID: "did:peer:4test", TargetDID: "did:btco:123",
		Satoshi: "123456", InscriptionID: "abci0", RevealTxID: "reveal-abc",
	})
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if err := log.Append(ctx, s.Signer, migrated, vm); err != nil {
		t.Fatalf("Append migration: %v", err)
	}

	a, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	if !a.Finalized() {
		t.Fatal("expected asset to be finalized after btco migration")
	}

	updated := resource
	updated.ContentHash = crypto.Sha256Hex([]byte("hello again"))
	if err := s.UpdateResource(ctx, a, log, updated, vm); err == nil {
		t.Fatal("expected update of a finalized asset to be rejected")
	}
}

// TestIssueCredentialForResourceCreation mirrors golden scenario 2:
// a verifiable credential attesting a resource's creation, signed and
// verified against the controller's own key.
func TestIssueCredentialForResourceCreation(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"

	cred, err := s.IssueCredential(ctx, credential.TypeResourceCreated, "did:peer:4test", vm, credential.Subject{
		ID:           "did:peer:4test",
		ResourceID:   "resource-1",
		ResourceHash: crypto.Sha256Hex([]byte("hello")),
	})
	if err != nil {
		t.Fatalf("IssueCredential: %v", err)
	}
	result := credential.Verify(cred, kp.Type, kp.PublicKey, "did:peer:4test", 0)
	if !result.Valid {
		t.Fatalf("expected valid credential, got error %v", result.Error)
	}
}

// TestMigrationLifecycleEmitsAttestations mirrors golden scenario 4: a
// peer -> webvh migration produces a preliminary attestation at
// checkpointing time and a final one once the transition is confirmed, and
// appends the ResourceMigrated event the attestations describe to the
// asset's own CEL.
func TestMigrationLifecycleEmitsAttestations(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	log := &cel.Log{}
	resource := cel.NewResource("resource-1", "text/plain", []byte("hello"), crypto.Sha256Hex([]byte("hello")))
	if err := s.CreateResource(ctx, log, resource, vm); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	a, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}

	cp, prelim, err := s.BeginMigration(ctx, a, didurl.MethodWebvh, "entryhash1")
	if err != nil {
		t.Fatalf("BeginMigration: %v", err)
	}
	if prelim.Message.Stage != "preliminary" {
		t.Fatalf("expected preliminary stage, got %s", prelim.Message.Stage)
	}

	_, final, err := s.CompleteMigration(ctx, log, cp.ID, prelim, MigrationEvidence{
		TargetDID:  "did:webvh:example.com:4test",
		AnchorTxID: "txid-abc",
	}, vm)
	if err != nil {
		t.Fatalf("CompleteMigration: %v", err)
	}
	if final.Message.AnchorTxID != "txid-abc" {
		t.Fatalf("expected anchor txid to carry through, got %s", final.Message.AnchorTxID)
	}

	last := log.Entries[len(log.Entries)-1]
	if last.Type != cel.OpResourceMigrated {
		t.Fatalf("expected last cel entry to be ResourceMigrated, got %s", last.Type)
	}

	migrated, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("reload after migration: %v", err)
	}
	if migrated.CurrentLayer() != didurl.MethodWebvh {
		t.Fatalf("current layer = %s, want webvh", migrated.CurrentLayer())
	}
	if migrated.Bindings().Webvh != "did:webvh:example.com:4test" {
		t.Fatalf("webvh binding = %s, want did:webvh:example.com:4test", migrated.Bindings().Webvh)
	}
}

// TestMigrationRejectsOutOfBtco mirrors golden scenario 5: once an asset is
// anchored on btco, BeginMigration must reject any further migration
// attempt. The source layer is read from the asset's own replayed state,
// so this holds even though the caller never labels "from" explicitly.
func TestMigrationRejectsOutOfBtco(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	log := &cel.Log{}
	resource := cel.NewResource("resource-1", "text/plain", []byte("hello"), crypto.Sha256Hex([]byte("hello")))
	if err := s.CreateResource(ctx, log, resource, vm); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	toWebvh, err := cel.NewEntry(cel.OpResourceMigrated, "did:peer:4test", cel.MigrationData{
		From: "peer", To: "webvh", SourceDID: "did:peer:4test", TargetDID: "did:webvh:example.com:4test",
	})
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if err := log.Append(ctx, s.Signer, toWebvh, vm); err != nil {
		t.Fatalf("Append: %v", err)
	}

	toBtco, err := cel.NewEntry(cel.OpResourceMigrated, "did:peer:4test", cel.MigrationData{
		From: "webvh", To: "btco", SourceDID: "did:peer:4test", TargetDID: "did:btco:123",
		Satoshi: "123456", InscriptionID: "abci0", RevealTxID: "reveal-abc",
	})
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if err := log.Append(ctx, s.Signer, toBtco, vm); err != nil {
		t.Fatalf("Append: %v", err)
	}

	a, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	if !a.Finalized() {
		t.Fatal("expected asset to be finalized on btco")
	}

	if _, _, err := s.BeginMigration(ctx, a, didurl.MethodWebvh, "h"); err == nil {
		t.Fatal("expected migration out of btco to be rejected")
	}
}

// TestTransferResourceAppendsEvent mirrors golden scenario 6: a transfer on
// a btco-anchored asset appends a ResourceTransferred event that carries
// the same satoshi the asset was already inscribed on.
func TestTransferResourceAppendsEvent(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	vm := "did:peer:4test#key-1"
	keyFor := func(string) (crypto.KeyType, []byte, error) { return kp.Type, kp.PublicKey, nil }

	log := &cel.Log{}
	resource := cel.NewResource("resource-1", "text/plain", []byte("hello"), crypto.Sha256Hex([]byte("hello")))
	if err := s.CreateResource(ctx, log, resource, vm); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	insc, err := s.Bitcoin.Inscribe(ctx, "text/plain", []byte("hello"), "bcrt1qexampleaddress000000000000000000000")
	if err == nil {
		// The in-memory ordinals provider always succeeds; use its satoshi
		// to build a realistic migration entry.
		migrated, merr := cel.NewEntry(cel.OpResourceMigrated, "did:peer:4test", cel.MigrationData{
			From: "peer", To: "btco", SourceDID: "did:peer:4test", TargetDID: "did:btco:" + insc.Satoshi,
			Satoshi: insc.Satoshi, InscriptionID: insc.Inscription.ID, RevealTxID: insc.RevealTxID,
		})
		if merr != nil {
			t.Fatalf("NewEntry: %v", merr)
		}
		if aerr := log.Append(ctx, s.Signer, migrated, vm); aerr != nil {
			t.Fatalf("Append migration: %v", aerr)
		}
	} else {
		t.Fatalf("Inscribe: %v", err)
	}

	a, err := s.LoadAsset("did:peer:4test", log, keyFor)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}

	txID, err := s.TransferResource(ctx, a, log, "bcrt1qrecipient0000000000000000000000000", vm)
	if err != nil {
		t.Fatalf("TransferResource: %v", err)
	}
	if txID == "" {
		t.Fatal("expected a non-empty transfer transaction id")
	}

	last := log.Entries[len(log.Entries)-1]
	if last.Type != cel.OpResourceTransferred {
		t.Fatalf("expected last cel entry to be ResourceTransferred, got %s", last.Type)
	}
	var transfer cel.TransferData
	if err := json.Unmarshal(last.Data, &transfer); err != nil {
		t.Fatalf("decode transfer data: %v", err)
	}
	if transfer.Satoshi != insc.Satoshi {
		t.Fatalf("transfer satoshi = %s, want %s", transfer.Satoshi, insc.Satoshi)
	}
}

// TestPutResourceRoundTrip mirrors golden scenario 3: storing and
// retrieving content through the SDK's configured storage adapter.
func TestPutResourceRoundTrip(t *testing.T) {
	s, _ := newTestSDK(t)
	ctx := context.Background()
	key, err := s.PutResource(ctx, []byte("hello"))
	if err != nil {
		t.Fatalf("PutResource: %v", err)
	}
	got, err := s.Storage.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
}

// TestRunBatchReturnsResultPerItem runs a batch of items through the SDK's
// bounded-concurrency executor and checks that every item gets a result.
func TestRunBatchReturnsResultPerItem(t *testing.T) {
	s, _ := newTestSDK(t)
	ctx := context.Background()
	items := []string{"a", "b", "c"}
	results, err := RunBatch(ctx, s, items, func(ctx context.Context, item string) (string, error) {
		return crypto.Sha256Hex([]byte(item)), nil
	}, batchexec.ContinueOnError)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

// TestResolvePeerDIDThroughSDK verifies the SDK's resolver dispatches a
// freshly created did:peer document back to itself.
func TestResolvePeerDIDThroughSDK(t *testing.T) {
	s, kp := newTestSDK(t)
	ctx := context.Background()
	multikey, err := kp.Multikey()
	if err != nil {
		t.Fatalf("Multikey: %v", err)
	}

	peerDriver := peer.New()
	doc, err := peerDriver.Create(ctx, did.CreateParams{
		VerificationMethods: []did.VerificationMethod{{ID: "#key-1", Type: "Multikey", PublicKeyMultibase: multikey}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := s.Resolver.Resolve(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.DidDocument == nil {
		t.Fatalf("expected a resolved document, errors: %v", res.Errors)
	}
}
