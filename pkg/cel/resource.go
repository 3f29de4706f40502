package cel

import (
	"fmt"
	"strings"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// MediaCategory groups a Resource's MimeType into the coarse categories the
// three DID layers evidence differently (an inline-able text/json resource
// versus a binary one stored by reference, for instance).
type MediaCategory string

const (
	MediaImage       MediaCategory = "image"
	MediaText        MediaCategory = "text"
	MediaApplication MediaCategory = "application"
	MediaAudio       MediaCategory = "audio"
	MediaVideo       MediaCategory = "video"
	MediaOther       MediaCategory = "other"
)

// categoryForMime derives the coarse MediaCategory from a MIME type's top-level
// token ("image/png" -> MediaImage), falling back to MediaOther for anything
// not in the well-known IANA top-level set.
func categoryForMime(mimeType string) MediaCategory {
	top, _, ok := strings.Cut(mimeType, "/")
	if !ok {
		return MediaOther
	}
	switch MediaCategory(top) {
	case MediaImage, MediaText, MediaApplication, MediaAudio, MediaVideo:
		return MediaCategory(top)
	default:
		return MediaOther
	}
}

// Resource is a single version of a named resource attached to an asset
// (§3): a stable logical id shared across all its versions, the declared
// content type, the hash and optional inline bytes of this version's
// content, and the version chain linking it back to its predecessor.
type Resource struct {
	ID                  string        `json:"id"`
	MediaCategory       MediaCategory `json:"mediaCategory"`
	MimeType            string        `json:"mimeType"`
	ContentHash         string        `json:"contentHash"`
	Size                int64         `json:"size,omitempty"`
	URL                 string        `json:"url,omitempty"`
	Content             []byte        `json:"content,omitempty"`
	Version             int           `json:"version"`
	PreviousVersionHash string        `json:"previousVersionHash,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// Validate checks the structural invariants of a resource version in
// isolation (§3: hash must be SHA-256 hex, MIME type declared, content
// either inline or addressed by URL). It does not check version-chain
// invariants against a predecessor; Replay does that with the prior
// version in hand.
func (r Resource) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: resource id is required", ErrInvalidOperation)
	}
	if r.MimeType == "" || !strings.Contains(r.MimeType, "/") {
		return fmt.Errorf("%w: resource %s: mime type %q is not well-formed", ErrInvalidOperation, r.ID, r.MimeType)
	}
	if err := crypto.ValidateHashHex(r.ContentHash); err != nil {
		return fmt.Errorf("%w: resource %s: %v", ErrInvalidOperation, r.ID, err)
	}
	if r.Content == nil && r.URL == "" {
		return fmt.Errorf("%w: resource %s: must carry inline content or a url", ErrInvalidOperation, r.ID)
	}
	if r.Version < 1 {
		return fmt.Errorf("%w: resource %s: version must be >= 1", ErrInvalidOperation, r.ID)
	}
	return nil
}

// NewResource builds a first-version resource from content, deriving its
// category from mimeType and its size from content; contentHash is stored
// as given.
func NewResource(id, mimeType string, content []byte, contentHash string) Resource {
	return Resource{
		ID:            id,
		MediaCategory: categoryForMime(mimeType),
		MimeType:      mimeType,
		ContentHash:   contentHash,
		Size:          int64(len(content)),
		Content:       content,
		Version:       1,
		CreatedAt:     time.Now().UTC(),
	}
}

// MigrationData is the payload of a ResourceMigrated entry (§3 "Migration
// record"): the layer transition plus whatever evidence the target layer
// requires (the target DID for webvh, an inscription/reveal-tx/satoshi
// triple for btco). No URL is carried for a webvh migration.
type MigrationData struct {
	From          string `json:"from"`
	To            string `json:"to"`
	SourceDID     string `json:"sourceDid"`
	TargetDID     string `json:"targetDid"`
	TransactionID string `json:"transactionId,omitempty"`
	Satoshi       string `json:"satoshi,omitempty"`
	InscriptionID string `json:"inscriptionId,omitempty"`
	CommitTxID    string `json:"commitTxId,omitempty"`
	RevealTxID    string `json:"revealTxId,omitempty"`
	FeeRate       int64  `json:"feeRate,omitempty"`
}

// TransferData is the payload of a ResourceTransferred entry (§3 "Transfer
// record"): only legal once an asset is anchored on btco, and the satoshi
// it names must be unchanged from the asset's current one.
type TransferData struct {
	From          string `json:"from"`
	To            string `json:"to"`
	TransactionID string `json:"transactionId"`
	Satoshi       string `json:"satoshi"`
}
