// Package canonical implements RFC 8785 JSON Canonicalization Scheme (JCS),
// the serialization every signed artifact in the protocol is hashed and
// signed over: CEL envelopes, verifiable credentials, Data-Integrity proofs,
// and attestation artifacts.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// JCS returns the canonical JSON encoding of v: object keys sorted
// lexicographically by UTF-16 code unit (approximated here by byte-wise
// string comparison, which agrees with UTF-16 ordering for the ASCII-heavy
// key sets this SDK produces), arrays left in their original order, and
// numbers serialized in their shortest round-tripping form.
func JCS(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return CanonicalizeJSON(raw)
}

// CanonicalizeJSON takes arbitrary JSON bytes and re-serializes them in
// canonical form.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch vv := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if vv {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		return writeNumber(buf, vv)
	case string:
		return writeString(buf, vv)
	case []any:
		buf.WriteByte('[')
		for i, e := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, vv[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("canonicalize: unsupported type %T", v)
	}
}

// writeString writes s as a JSON string literal. Unlike json.Marshal it
// leaves <, > and & unescaped; U+2028 and U+2029 are still escaped, not
// written raw as
//   and  .
func writeString(buf *bytes.Buffer, s string) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(sb.Bytes(), []byte("\n")))
	return nil
}

// writeNumber renders a json.Number in its shortest ECMAScript-compatible
// form: integers with no decimal point or exponent, everything else via
// encoding/json's float formatting, which switches to exponent notation only
// below 1e-6 or from 1e21 up, as ECMAScript's Number-to-String does.
func writeNumber(buf *bytes.Buffer, n json.Number) error {
	if i, err := n.Int64(); err == nil {
		buf.WriteString(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", n, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("number %q is not representable in JSON", n)
	}
	if f == 0 {
		buf.WriteString("0")
		return nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Hash returns the SHA-256 digest of b.
func Hash(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// HashHex returns the lowercase hex SHA-256 digest of b.
func HashHex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// HashJCS canonicalizes v and returns the lowercase hex SHA-256 digest of
// the canonical bytes, along with the canonical bytes themselves.
func HashJCS(v any) (digestHex string, canonical []byte, err error) {
	canonical, err = JCS(v)
	if err != nil {
		return "", nil, err
	}
	return HashHex(canonical), canonical, nil
}
