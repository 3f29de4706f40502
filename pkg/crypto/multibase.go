package crypto

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// multicodec varint prefixes for the key types this SDK supports, per the
// multicodec table (https://github.com/multiformats/multicodec).
const (
	codecEd25519Pub    uint64 = 0xed
	codecSecp256k1Pub  uint64 = 0xe7
	codecBLS12_381G2Pub uint64 = 0xeb
)

// multibaseBase58btcPrefix is the 'z' prefix identifying base58btc encoding.
const multibaseBase58btcPrefix = 'z'

// EncodeMultikey serializes a public key as Multibase-over-Multicodec: the
// varint-prefixed key bytes, base58btc-encoded, with the 'z' multibase prefix.
func EncodeMultikey(keyType KeyType, pubKey []byte) (string, error) {
	codec, err := codecForKeyType(keyType)
	if err != nil {
		return "", err
	}
	prefixed := append(varint(codec), pubKey...)
	return string(multibaseBase58btcPrefix) + base58.Encode(prefixed), nil
}

// DecodeMultikey parses a Multibase-over-Multicodec string back into a key
// type and raw public key bytes.
func DecodeMultikey(s string) (KeyType, []byte, error) {
	if len(s) < 2 || s[0] != multibaseBase58btcPrefix {
		return "", nil, fmt.Errorf("%w: missing base58btc multibase prefix", ErrInvalidKeyEncoding)
	}
	raw, err := base58.Decode(s[1:])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	codec, n, err := readVarint(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	keyType, err := keyTypeForCodec(codec)
	if err != nil {
		return "", nil, err
	}
	return keyType, raw[n:], nil
}

func codecForKeyType(t KeyType) (uint64, error) {
	switch t {
	case KeyTypeEd25519:
		return codecEd25519Pub, nil
	case KeyTypeSecp256k1:
		return codecSecp256k1Pub, nil
	case KeyTypeBLS12381G2:
		return codecBLS12_381G2Pub, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, t)
	}
}

func keyTypeForCodec(c uint64) (KeyType, error) {
	switch c {
	case codecEd25519Pub:
		return KeyTypeEd25519, nil
	case codecSecp256k1Pub:
		return KeyTypeSecp256k1, nil
	case codecBLS12_381G2Pub:
		return KeyTypeBLS12381G2, nil
	default:
		return "", fmt.Errorf("%w: multicodec 0x%x", ErrUnsupportedAlgorithm, c)
	}
}

// varint encodes u as an unsigned LEB128 varint, the encoding multicodec uses.
func varint(u uint64) []byte {
	var out []byte
	for u >= 0x80 {
		out = append(out, byte(u)|0x80)
		u >>= 7
	}
	out = append(out, byte(u))
	return out
}

// readVarint decodes an unsigned LEB128 varint from the start of b, returning
// the value and the number of bytes consumed.
func readVarint(b []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, by := range b {
		if i > 9 {
			return 0, 0, fmt.Errorf("varint too long")
		}
		result |= uint64(by&0x7f) << shift
		if by&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("truncated varint")
}
