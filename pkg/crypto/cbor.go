package crypto

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("crypto: build canonical cbor encoder: %v", err))
	}
	return mode
}()

// CBOREncode encodes v using CBOR's canonical (RFC 8949 §4.2.1) encoding,
// the wire format for ordinals inscription payloads (§4.13, §6).
func CBOREncode(v any) ([]byte, error) {
	b, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}
	return b, nil
}

// CBORDecode decodes CBOR bytes into v.
func CBORDecode(data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cbor decode: %w", err)
	}
	return nil
}
