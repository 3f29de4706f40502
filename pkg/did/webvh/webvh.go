// Package webvh implements the did:webvh method driver (§4.3): identity is
// anchored to a domain-hosted, hash-chained version log (did.jsonl) rather
// than a blockchain. Resolution fetches and verifies that log over HTTPS.
package webvh

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/canonical"
	"github.com/onionoriginals/sdk-go/pkg/did"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

// Fetcher retrieves bytes from a did:webvh resource URL. Swappable for tests
// and for alternate transports; defaults to HTTPS GET.
type Fetcher func(ctx context.Context, rawURL string) ([]byte, error)

// Publisher writes bytes to a did:webvh resource URL at creation/update time.
// The reference driver has no default publisher since publishing requires an
// operator-controlled web server; callers inject one (or adapt pkg/storage).
type Publisher func(ctx context.Context, rawURL string, data []byte) error

// LogEntry is one versioned entry in a did:webvh version log (did.jsonl).
type LogEntry struct {
	VersionID   string         `json:"versionId"`
	VersionTime time.Time      `json:"versionTime"`
	Params      map[string]any `json:"parameters,omitempty"`
	State       *did.Document  `json:"state"`
	Proof       json.RawMessage `json:"proof,omitempty"`
}

// Driver implements did.Driver for did:webvh.
type Driver struct {
	Fetch   Fetcher
	Publish Publisher
}

// New returns a did:webvh driver using the default HTTPS fetcher. Publishing
// is left nil; set Driver.Publish before calling Create against a live host.
func New() *Driver {
	return &Driver{Fetch: defaultFetch}
}

func (d *Driver) Method() string { return "webvh" }

func defaultFetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// logURL derives the https URL of a did:webvh's did.jsonl log from its
// domain and path segments, per the method's domain-to-URL mapping.
func logURL(domain string, pathSegments []string) string {
	host := strings.ReplaceAll(domain, "%3A", ":")
	parts := append([]string{}, pathSegments...)
	u := &url.URL{Scheme: "https", Host: host}
	if len(parts) == 0 {
		u.Path = "/.well-known/did.jsonl"
	} else {
		u.Path = "/" + strings.Join(parts, "/") + "/did.jsonl"
	}
	return u.String()
}

// resourceURL derives the https URL for a dereferenced path under a
// did:webvh identifier.
func resourceURL(domain string, pathSegments []string, resourcePath string) string {
	host := strings.ReplaceAll(domain, "%3A", ":")
	parts := append([]string{}, pathSegments...)
	parts = append(parts, strings.Split(resourcePath, "/")...)
	u := &url.URL{Scheme: "https", Host: host, Path: "/" + strings.Join(parts, "/")}
	return u.String()
}

// Create builds the genesis log entry for a did:webvh identifier. The
// identifier's self-certifying version id is the JCS hash of the entry with
// VersionID blanked, matching the chain-hash scheme used by every later
// entry (§4.3).
func (d *Driver) Create(ctx context.Context, params did.CreateParams) (*did.Document, error) {
	if params.Domain == "" {
		return nil, fmt.Errorf("did:webvh create requires a domain")
	}
	if len(params.VerificationMethods) == 0 {
		return nil, fmt.Errorf("did:webvh create requires at least one verification method")
	}

	didID := didurl.FormatWebvh(params.Domain, params.PathSegments...)

	doc := &did.Document{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      didID,
	}
	for _, vm := range params.VerificationMethods {
		full := did.VerificationMethod{
			ID:                 didID + vm.ID,
			Type:               vm.Type,
			Controller:         didID,
			PublicKeyMultibase: vm.PublicKeyMultibase,
		}
		doc.VerificationMethod = append(doc.VerificationMethod, full)
		doc.Authentication = append(doc.Authentication, full.ID)
		doc.AssertionMethod = append(doc.AssertionMethod, full.ID)
	}

	entry := LogEntry{VersionTime: time.Now().UTC(), State: doc}
	versionID, err := computeVersionID("1", "", entry)
	if err != nil {
		return nil, err
	}
	entry.VersionID = versionID

	if d.Publish != nil {
		line, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("encode genesis log entry: %w", err)
		}
		if err := d.Publish(ctx, logURL(params.Domain, params.PathSegments), append(line, '\n')); err != nil {
			return nil, fmt.Errorf("publish did:webvh log: %w", err)
		}
	}

	return doc, nil
}

// computeVersionID hashes a log entry (with its VersionID field set to
// previousVersionID) to produce "<n>-<hash>", chained from the previous
// entry's version id.
func computeVersionID(n, previousVersionID string, entry LogEntry) (string, error) {
	entry.VersionID = previousVersionID
	raw, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	digest, _, err := canonical.HashJCS(json.RawMessage(raw))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", n, digest), nil
}

// Resolve fetches and replays the did.jsonl log, verifying the hash chain,
// and returns the latest document state.
func (d *Driver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	parsed, err := didurl.Parse(didStr)
	if err != nil || parsed.Method != didurl.MethodWebvh {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	raw, err := d.Fetch(ctx, logURL(parsed.WebvhDomain, parsed.WebvhPathSegments))
	if err != nil {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
	}

	entries, err := parseLog(raw)
	if err != nil || len(entries) == 0 {
		return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
	}

	prev := ""
	for i, e := range entries {
		n := fmt.Sprintf("%d", i+1)
		want, err := computeVersionID(n, prev, e)
		if err != nil || want != e.VersionID {
			return &did.ResolutionResult{Errors: []did.ErrorKind{did.ErrorProofVerificationFailed}}, nil
		}
		prev = e.VersionID
	}

	latest := entries[len(entries)-1]
	return &did.ResolutionResult{
		DidDocument: latest.State,
		Metadata:    did.ResolutionMetadata{ContentType: "application/did+json", Retrieved: time.Now().UTC()},
	}, nil
}

func parseLog(raw []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parse did:webvh log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Dereference fetches the path component of a did:webvh DID URL as a
// domain-hosted resource; a bare fragment resolves against the current
// document's verification methods instead.
func (d *Driver) Dereference(ctx context.Context, didURLStr string) (*did.DereferenceResult, error) {
	parsed, err := didurl.Parse(didURLStr)
	if err != nil || parsed.Method != didurl.MethodWebvh {
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorInvalidDid}}, nil
	}

	if parsed.Path == "" {
		res, err := d.Resolve(ctx, parsed.DID())
		if err != nil || res.DidDocument == nil {
			return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
		}
		if parsed.Fragment == "" {
			docBytes, _ := json.Marshal(res.DidDocument)
			return &did.DereferenceResult{
				DereferencedResource: &did.DereferencedResource{ContentType: "application/did+json", Content: docBytes},
				Metadata:             res.Metadata,
			}, nil
		}
		target := parsed.DID() + "#" + parsed.Fragment
		for _, vm := range res.DidDocument.VerificationMethod {
			if vm.ID == target {
				vmBytes, _ := json.Marshal(vm)
				return &did.DereferenceResult{
					DereferencedResource: &did.DereferencedResource{ContentType: "application/did+json", Content: vmBytes},
					Metadata:             res.Metadata,
				}, nil
			}
		}
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNotFound}}, nil
	}

	content, err := d.Fetch(ctx, resourceURL(parsed.WebvhDomain, parsed.WebvhPathSegments, parsed.Path))
	if err != nil {
		return &did.DereferenceResult{Errors: []did.ErrorKind{did.ErrorNetworkUnavailable}}, nil
	}
	// Integrity is checked by callers holding an expected resource hash (pkg/resolver), not here.
	return &did.DereferenceResult{
		DereferencedResource: &did.DereferencedResource{ContentType: "application/octet-stream", Content: content},
		Metadata:             did.ResolutionMetadata{Retrieved: time.Now().UTC()},
	}, nil
}
