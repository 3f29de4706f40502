// Package sdk wires every layer of the Originals protocol into a single
// facade: DID resolution across all three methods, CEL-backed assets,
// verifiable credentials, content-addressed storage, the Bitcoin/ordinals
// manager, migration lifecycle, and attestations. It is the entry point a
// host application imports instead of wiring each pkg/* package by hand.
package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/asset"
	"github.com/onionoriginals/sdk-go/pkg/attestation"
	"github.com/onionoriginals/sdk-go/pkg/batchexec"
	"github.com/onionoriginals/sdk-go/pkg/bitcoin"
	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/credential"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/did/btco"
	"github.com/onionoriginals/sdk-go/pkg/did/peer"
	"github.com/onionoriginals/sdk-go/pkg/did/webvh"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
	"github.com/onionoriginals/sdk-go/pkg/errs"
	"github.com/onionoriginals/sdk-go/pkg/lifecycle"
	"github.com/onionoriginals/sdk-go/pkg/ordinals"
	"github.com/onionoriginals/sdk-go/pkg/resolver"
	"github.com/onionoriginals/sdk-go/pkg/signer"
	"github.com/onionoriginals/sdk-go/pkg/storage"
)

// Config configures an SDK instance. Storage and OrdinalsProvider may be
// left nil to fall back to in-memory implementations, suitable for tests
// and demos.
type Config struct {
	ControllerKeyPair *crypto.KeyPair
	Storage           storage.Adapter
	OrdinalsProvider  ordinals.Provider
	CheckpointStore   lifecycle.Store
	CheckpointTTL     time.Duration
	BatchConcurrency  int
	BatchMaxRetries   int
}

// SDK is the facade bundling the protocol's layers behind a single value.
type SDK struct {
	Resolver     *resolver.Resolver
	Signer       signer.Signer
	Storage      storage.Adapter
	Bitcoin      *bitcoin.Manager
	StateMachine *lifecycle.StateMachine
	Attestations *attestation.Manager

	ordinalsProvider ordinals.Provider
	batchOpts        batchexec.Options
}

// New builds an SDK from cfg, registering all three DID drivers against a
// shared resolver and wiring storage/ordinals/lifecycle/attestation from the
// same controller key.
func New(cfg Config) (*SDK, error) {
	if cfg.ControllerKeyPair == nil {
		return nil, fmt.Errorf("sdk: ControllerKeyPair is required")
	}

	store := cfg.Storage
	if store == nil {
		store = storage.NewMemory()
	}
	provider := cfg.OrdinalsProvider
	if provider == nil {
		provider = ordinals.NewMemory()
	}
	checkpointStore := cfg.CheckpointStore
	if checkpointStore == nil {
		checkpointStore = lifecycle.NewMemoryStore()
	}
	ttl := cfg.CheckpointTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := signer.NewInternalSigner(cfg.ControllerKeyPair)

	attMgr, err := attestation.NewManager(cfg.ControllerKeyPair)
	if err != nil {
		return nil, fmt.Errorf("sdk: build attestation manager: %w", err)
	}

	btcoDriver := btco.New(ordinalsInscriptionSourceAdapter{provider})
	res := resolver.New()
	res.Register(peer.New())
	res.Register(webvh.New())
	res.Register(btcoDriver)

	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &SDK{
		Resolver:         res,
		Signer:           s,
		Storage:          store,
		Bitcoin:          bitcoin.NewManager(provider),
		StateMachine:     lifecycle.NewStateMachine(checkpointStore, ttl),
		Attestations:     attMgr,
		ordinalsProvider: provider,
		batchOpts:        batchexec.Options{Concurrency: concurrency, MaxRetries: cfg.BatchMaxRetries},
	}, nil
}

// ordinalsInscriptionSourceAdapter adapts ordinals.Provider to
// btco.InscriptionSource, the narrower read-only interface did:btco
// resolution needs.
type ordinalsInscriptionSourceAdapter struct {
	provider ordinals.Provider
}

func (a ordinalsInscriptionSourceAdapter) InscriptionsBySatoshi(ctx context.Context, satoshi string) ([]btco.Inscription, error) {
	insc, err := a.provider.GetInscriptionsBySatoshi(ctx, satoshi)
	if err != nil {
		return nil, err
	}
	out := make([]btco.Inscription, len(insc))
	for i, v := range insc {
		out[i] = btco.Inscription{ID: v.ID, Satoshi: v.Satoshi, Sequence: v.Sequence, ContentType: v.ContentType, Content: v.Content}
	}
	return out, nil
}

// CreateResource appends a ResourceAdded entry to log for resource's first
// version, signing it with the SDK's controller key under
// verificationMethod (§3, §4.10).
func (s *SDK) CreateResource(ctx context.Context, log *cel.Log, resource cel.Resource, verificationMethod string) error {
	if resource.Version == 0 {
		resource.Version = 1
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	if err := resource.Validate(); err != nil {
		return fmt.Errorf("invalid resource: %w", err)
	}
	entry, err := cel.NewEntry(cel.OpResourceAdded, resource.ID, resource)
	if err != nil {
		return fmt.Errorf("build cel entry: %w", err)
	}
	return log.Append(ctx, s.Signer, entry, verificationMethod)
}

// UpdateResource appends a ResourceUpdated entry for an already-created
// resource, deriving version and previousVersionHash from a's replayed
// state rather than trusting the caller to supply them (§4.10: new hash
// must differ from the previous one; previousVersionHash must match it).
// A finalized asset rejects every update, checked against a's replayed
// state so a caller cannot bypass finality by mislabeling a layer (§3).
func (s *SDK) UpdateResource(ctx context.Context, a *asset.OriginalsAsset, log *cel.Log, resource cel.Resource, verificationMethod string) error {
	if a.Finalized() {
		return errs.New(errs.KindLayerFinalityViolation, "asset is finalized on btco and cannot be updated")
	}
	current, err := a.CurrentVersion(resource.ID)
	if err != nil {
		return fmt.Errorf("lookup current version: %w", err)
	}
	resource.Version = current.Version + 1
	resource.PreviousVersionHash = current.ContentHash
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	if err := resource.Validate(); err != nil {
		return fmt.Errorf("invalid resource: %w", err)
	}
	entry, err := cel.NewEntry(cel.OpResourceUpdated, resource.ID, resource)
	if err != nil {
		return fmt.Errorf("build cel entry: %w", err)
	}
	return log.Append(ctx, s.Signer, entry, verificationMethod)
}

// LoadAsset replays and verifies log into an OriginalsAsset under
// controllerDid, resolving verification-method keys via keyFor.
func (s *SDK) LoadAsset(controllerDid string, log *cel.Log, keyFor func(verificationMethod string) (crypto.KeyType, []byte, error)) (*asset.OriginalsAsset, error) {
	return asset.Load(controllerDid, log, keyFor)
}

// IssueCredential issues and signs a verifiable credential for a CEL
// operation using the SDK's controller key.
func (s *SDK) IssueCredential(ctx context.Context, credType credential.CredentialType, issuer, verificationMethod string, subject credential.Subject) (*credential.Credential, error) {
	return credential.Issue(ctx, s.Signer, credType, issuer, verificationMethod, subject, nil)
}

// BeginMigration validates and records the start of a's migration to to,
// producing both a lifecycle checkpoint and a preliminary attestation over
// it. The migration's source layer is read from a's replayed state, not
// from a caller-supplied argument, and a finalized asset is rejected
// before the state machine ever sees it (§3, §4.12).
func (s *SDK) BeginMigration(ctx context.Context, a *asset.OriginalsAsset, to didurl.Method, entryHash string) (*lifecycle.Checkpoint, *attestation.Attestation, error) {
	if a.Finalized() {
		return nil, nil, errs.New(errs.KindLayerFinalityViolation, "asset is finalized on btco and cannot migrate further")
	}
	from := a.CurrentLayer()
	cp, err := s.StateMachine.Begin(ctx, a.ControllerDid, from, to)
	if err != nil {
		return nil, nil, err
	}
	cp, err = s.StateMachine.Advance(ctx, cp.ID, lifecycle.StateCheckpointed, "")
	if err != nil {
		return nil, nil, err
	}
	att, err := s.Attestations.AttestPreliminary(ctx, a.ControllerDid, cp.ID, string(from), string(to), entryHash, time.Now().UTC().Unix())
	if err != nil {
		return cp, nil, fmt.Errorf("attest preliminary: %w", err)
	}
	return cp, att, nil
}

// MigrationEvidence carries the layer-specific proof CompleteMigration
// writes into the ResourceMigrated CEL entry (§3 "Migration record"): a
// resolvable target DID for a webvh destination, or the inscription,
// satoshi and reveal transaction for a btco one.
type MigrationEvidence struct {
	TargetDID     string
	AnchorTxID    string
	Satoshi       string
	InscriptionID string
	CommitTxID    string
	RevealTxID    string
	FeeRate       int64
}

// CompleteMigration advances a checkpoint through IN_PROGRESS to COMPLETED,
// appends the ResourceMigrated entry evidence describes to log, and
// produces the final attestation anchoring the migration (§4.12:
// "migration event appended to CEL, credential issued, attestation
// generated ..., checkpoint released"). The entry's from/to/sourceDid come
// from the checkpoint itself, not from the caller, so the CEL record
// always matches what the state machine actually validated.
func (s *SDK) CompleteMigration(ctx context.Context, log *cel.Log, checkpointID string, preliminary *attestation.Attestation, evidence MigrationEvidence, verificationMethod string) (*lifecycle.Checkpoint, *attestation.Attestation, error) {
	if _, err := s.StateMachine.Advance(ctx, checkpointID, lifecycle.StateInProgress, ""); err != nil {
		return nil, nil, err
	}
	cp, err := s.StateMachine.Advance(ctx, checkpointID, lifecycle.StateCompleted, "")
	if err != nil {
		return nil, nil, err
	}

	entry, err := cel.NewEntry(cel.OpResourceMigrated, cp.AssetDid, cel.MigrationData{
		From:          string(cp.FromMethod),
		To:            string(cp.ToMethod),
		SourceDID:     cp.AssetDid,
		TargetDID:     evidence.TargetDID,
		TransactionID: evidence.AnchorTxID,
		Satoshi:       evidence.Satoshi,
		InscriptionID: evidence.InscriptionID,
		CommitTxID:    evidence.CommitTxID,
		RevealTxID:    evidence.RevealTxID,
		FeeRate:       evidence.FeeRate,
	})
	if err != nil {
		return cp, nil, fmt.Errorf("build migration cel entry: %w", err)
	}
	if err := log.Append(ctx, s.Signer, entry, verificationMethod); err != nil {
		return cp, nil, fmt.Errorf("append migration entry: %w", err)
	}

	att, err := s.Attestations.AttestFinal(ctx, preliminary, evidence.AnchorTxID, time.Now().UTC().Unix())
	if err != nil {
		return cp, nil, fmt.Errorf("attest final: %w", err)
	}
	return cp, att, nil
}

// FailMigration advances a checkpoint to Failed, recording reason.
func (s *SDK) FailMigration(ctx context.Context, checkpointID, reason string) (*lifecycle.Checkpoint, error) {
	return s.StateMachine.Advance(ctx, checkpointID, lifecycle.StateFailed, reason)
}

// TransferResource moves a's inscribed satoshi to recipientAddr and appends
// the resulting ResourceTransferred entry to log in the same call (§4.13:
// "On success, the lifecycle appends a ResourceTransferred event"). Only
// legal once a has reached btco; the satoshi transferred is always a's
// current one, never caller-supplied, so the CEL invariant that a transfer
// cannot change the inscribed satoshi holds by construction.
func (s *SDK) TransferResource(ctx context.Context, a *asset.OriginalsAsset, log *cel.Log, recipientAddr, verificationMethod string) (string, error) {
	if a.CurrentLayer() != didurl.MethodBtco {
		return "", errs.New(errs.KindInvalidTransition, "transfer is only valid once an asset is anchored on btco")
	}
	satoshi := a.Satoshi()
	txID, err := s.Bitcoin.Transfer(ctx, satoshi, recipientAddr)
	if err != nil {
		return "", fmt.Errorf("transfer inscription: %w", err)
	}
	entry, err := cel.NewEntry(cel.OpResourceTransferred, a.ControllerDid, cel.TransferData{
		From:          a.ControllerDid,
		To:            recipientAddr,
		TransactionID: txID,
		Satoshi:       satoshi,
	})
	if err != nil {
		return "", fmt.Errorf("build transfer cel entry: %w", err)
	}
	if err := log.Append(ctx, s.Signer, entry, verificationMethod); err != nil {
		return "", fmt.Errorf("append transfer entry: %w", err)
	}
	return txID, nil
}

// PutResource stores content in the SDK's storage adapter, returning its
// content-address key.
func (s *SDK) PutResource(ctx context.Context, content []byte) (string, error) {
	key := crypto.Sha256Hex(content)
	if err := s.Storage.Put(ctx, key, content); err != nil {
		return "", err
	}
	return key, nil
}

// RunBatch fans work out across items using the SDK's configured batch
// concurrency and retry policy.
func RunBatch[T, R any](ctx context.Context, s *SDK, items []T, work batchexec.Work[T, R], mode batchexec.Mode) ([]batchexec.Result[R], error) {
	opts := s.batchOpts
	opts.Mode = mode
	return batchexec.Run(ctx, items, work, opts)
}
