// Package didurl parses and formats DID URLs of the three protocol methods:
// did:peer, did:webvh and did:btco (§4.2).
package didurl

import (
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

// Method identifies one of the three supported DID methods.
type Method string

const (
	MethodPeer  Method = "peer"
	MethodWebvh Method = "webvh"
	MethodBtco  Method = "btco"
)

// BtcoNetwork identifies the Bitcoin network segment of a did:btco identifier.
type BtcoNetwork string

const (
	BtcoMainnet BtcoNetwork = "mainnet" // implicit: no network segment in the DID
	BtcoTest    BtcoNetwork = "test"
	BtcoSig     BtcoNetwork = "sig"
)

// DidURL is the parsed structure of a DID or DID URL.
type DidURL struct {
	Method           Method
	MethodSpecificID string // the raw segment between "did:<method>:" and the first of /,?,#

	Path     string // without leading '/'
	Query    url.Values
	Fragment string

	// Method-specific decoded fields.
	WebvhDomain      string   // webvh only
	WebvhPathSegments []string // webvh only, percent-decoded
	BtcoNetwork      BtcoNetwork // btco only
	BtcoSatoshi      *big.Int    // btco only
}

// DID returns the DID (method + method-specific-id) without path/query/fragment.
func (d *DidURL) DID() string {
	return fmt.Sprintf("did:%s:%s", d.Method, d.MethodSpecificID)
}

// String reconstructs the full DID URL.
func (d *DidURL) String() string {
	s := d.DID()
	if d.Path != "" {
		s += "/" + d.Path
	}
	if len(d.Query) > 0 {
		s += "?" + d.Query.Encode()
	}
	if d.Fragment != "" {
		s += "#" + d.Fragment
	}
	return s
}

var fqdnPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// maxSatoshi is 2^51, the exclusive upper bound on valid ordinal numbers (§4.2).
var maxSatoshi = new(big.Int).Lsh(big.NewInt(1), 51)

// Parse parses a DID or DID URL string, dispatching method-specific validation
// by method. Returns ErrInvalidDid for malformed input and
// ErrRepresentationNotSupported when a method forbids path/query (peer).
func Parse(raw string) (*DidURL, error) {
	if !strings.HasPrefix(raw, "did:") {
		return nil, fmt.Errorf("%w: missing did: scheme", ErrInvalidDid)
	}
	rest := raw[len("did:"):]

	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return nil, fmt.Errorf("%w: missing method-specific-id", ErrInvalidDid)
	}
	method := Method(rest[:colonIdx])
	remainder := rest[colonIdx+1:]

	// Find the earliest delimiter starting the path/query/fragment suffix.
	suffixStart := len(remainder)
	for _, delim := range []byte{'/', '?', '#'} {
		if idx := strings.IndexByte(remainder, delim); idx >= 0 && idx < suffixStart {
			suffixStart = idx
		}
	}
	methodSpecificID := remainder[:suffixStart]
	suffix := remainder[suffixStart:]

	if methodSpecificID == "" {
		return nil, fmt.Errorf("%w: empty method-specific-id", ErrInvalidDid)
	}

	d := &DidURL{Method: method, MethodSpecificID: methodSpecificID, Query: url.Values{}}

	if err := parseSuffix(d, suffix); err != nil {
		return nil, err
	}

	switch method {
	case MethodPeer:
		if err := validatePeer(d); err != nil {
			return nil, err
		}
	case MethodWebvh:
		if err := validateWebvh(d); err != nil {
			return nil, err
		}
	case MethodBtco:
		if err := validateBtco(d); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidDid, method)
	}

	return d, nil
}

func parseSuffix(d *DidURL, suffix string) error {
	if suffix == "" {
		return nil
	}

	// Fragment first, since it terminates everything else.
	if idx := strings.IndexByte(suffix, '#'); idx >= 0 {
		d.Fragment = suffix[idx+1:]
		suffix = suffix[:idx]
	}
	if idx := strings.IndexByte(suffix, '?'); idx >= 0 {
		q, err := url.ParseQuery(suffix[idx+1:])
		if err != nil {
			return fmt.Errorf("%w: invalid query: %v", ErrInvalidDid, err)
		}
		d.Query = q
		suffix = suffix[:idx]
	}
	if strings.HasPrefix(suffix, "/") {
		d.Path = strings.TrimPrefix(suffix, "/")
	} else if suffix != "" {
		return fmt.Errorf("%w: malformed did url suffix %q", ErrInvalidDid, suffix)
	}
	return nil
}

func validatePeer(d *DidURL) error {
	if !strings.HasPrefix(d.MethodSpecificID, "4") {
		return fmt.Errorf("%w: did:peer requires numalgo-4 long form", ErrInvalidDid)
	}
	parts := strings.SplitN(d.MethodSpecificID, ":", 2)
	if len(parts[0]) < 2 || parts[0][1] != 'z' {
		return fmt.Errorf("%w: did:peer numalgo-4 hash must be multibase ('z') encoded", ErrInvalidDid)
	}
	if d.Path != "" || len(d.Query) > 0 {
		return fmt.Errorf("%w: did:peer does not support path or query", ErrRepresentationNotSupported)
	}
	return nil
}

func validateWebvh(d *DidURL) error {
	segments := strings.Split(d.MethodSpecificID, ":")
	domain := segments[0]
	decodedDomain, err := url.PathUnescape(domain)
	if err != nil || !fqdnPattern.MatchString(decodedDomain) {
		return fmt.Errorf("%w: did:webvh domain %q is not a valid FQDN", ErrInvalidDid, domain)
	}
	d.WebvhDomain = decodedDomain

	for _, seg := range segments[1:] {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return fmt.Errorf("%w: did:webvh path segment %q is not percent-safe", ErrInvalidDid, seg)
		}
		d.WebvhPathSegments = append(d.WebvhPathSegments, decoded)
	}
	return nil
}

func validateBtco(d *DidURL) error {
	parts := strings.Split(d.MethodSpecificID, ":")
	var network BtcoNetwork
	var satStr string

	switch len(parts) {
	case 1:
		network = BtcoMainnet
		satStr = parts[0]
	case 2:
		switch BtcoNetwork(parts[0]) {
		case BtcoTest, BtcoSig:
			network = BtcoNetwork(parts[0])
		default:
			return fmt.Errorf("%w: unknown did:btco network %q", ErrInvalidDid, parts[0])
		}
		satStr = parts[1]
	default:
		return fmt.Errorf("%w: malformed did:btco identifier", ErrInvalidDid)
	}

	sat, ok := new(big.Int).SetString(satStr, 10)
	if !ok || sat.Sign() < 0 {
		return fmt.Errorf("%w: did:btco satoshi %q is not a non-negative integer", ErrInvalidDid, satStr)
	}
	if sat.Cmp(maxSatoshi) >= 0 {
		return fmt.Errorf("%w: did:btco satoshi %s out of range [0, 2^51)", ErrInvalidDid, sat.String())
	}

	d.BtcoNetwork = network
	d.BtcoSatoshi = sat
	return nil
}

// FormatBtco formats a did:btco identifier for the given network and satoshi.
func FormatBtco(network BtcoNetwork, satoshi *big.Int) string {
	if network == "" || network == BtcoMainnet {
		return fmt.Sprintf("did:btco:%s", satoshi.String())
	}
	return fmt.Sprintf("did:btco:%s:%s", network, satoshi.String())
}

// FormatWebvh formats a did:webvh identifier for a domain and optional path segments.
func FormatWebvh(domain string, pathSegments ...string) string {
	s := "did:webvh:" + url.PathEscape(domain)
	for _, seg := range pathSegments {
		s += ":" + url.PathEscape(seg)
	}
	return s
}
