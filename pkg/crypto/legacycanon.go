package crypto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// LegacyRDFCanonicalize implements a reduced stand-in for JSON-LD / RDF
// dataset canonicalization (URDNA2015 / RDFC-1.0), accepted only on the
// verification side of the eddsa-rdfc-2022 legacy path (§4.1, §4.5, §9). It
// is not a full RDF canonicalization algorithm — no quad expansion, no blank
// node relabeling — because the pack carries no JSON-LD/RDF library to
// ground a conformant implementation against. It exists solely so legacy
// logs signed by a real RDFC-1.0 implementation upstream can still be
// distinguished from JCS at the proof layer: pkg/signer canonicalizes with
// this function instead of canonical.JCS whenever a proof's cryptosuite is
// eddsa-rdfc-2022 (there is no separate legacy opt-in flag), and never signs
// new artifacts with it.
func LegacyRDFCanonicalize(raw []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("legacy canonicalize: %w", err)
	}
	var buf bytes.Buffer
	if err := writeLegacy(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeLegacy differs from JCS only in that array elements, whatever their
// type, are additionally sorted by their encoded form, approximating
// RDF's set-like (unordered) statement semantics for simple payloads.
func writeLegacy(buf *bytes.Buffer, v any) error {
	switch vv := v.(type) {
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
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeLegacy(buf, vv[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		elems := make([]string, len(vv))
		for i, e := range vv {
			var b bytes.Buffer
			if err := writeLegacy(&b, e); err != nil {
				return err
			}
			elems[i] = b.String()
		}
		sort.Strings(elems)
		buf.WriteByte('[')
		buf.WriteString(joinComma(elems))
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func joinComma(elems []string) string {
	var b bytes.Buffer
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e)
	}
	return b.String()
}
