// Package crypto provides the protocol's cryptographic primitives (§4.1):
// Ed25519 (default), secp256k1 (Bitcoin operations) and BLS12-381-G2
// (optional selective disclosure) keypair generation, signing and
// verification, all serialized as Multibase-over-Multicodec, plus SHA-256
// and CBOR. JCS canonicalization lives in the sibling canonical package.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	blsimpl "github.com/onionoriginals/sdk-go/pkg/crypto/bls"
)

// KeyType identifies a supported key algorithm.
type KeyType string

const (
	KeyTypeEd25519    KeyType = "Ed25519"
	KeyTypeSecp256k1  KeyType = "Secp256k1"
	KeyTypeBLS12381G2 KeyType = "Bls12381G2"
)

// KeyPair is the common shape returned by GenerateKeyPair regardless of
// algorithm: a Multikey-encodable public key and the matching raw private
// key bytes.
type KeyPair struct {
	Type       KeyType
	PublicKey  []byte
	PrivateKey []byte
}

// Multikey returns the Multibase-over-Multicodec encoding of the public key.
func (k *KeyPair) Multikey() (string, error) {
	return EncodeMultikey(k.Type, k.PublicKey)
}

// GenerateKeyPair creates a new keypair of the requested type using a secure
// random source.
func GenerateKeyPair(t KeyType) (*KeyPair, error) {
	switch t {
	case KeyTypeEd25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate ed25519 key: %w", err)
		}
		return &KeyPair{Type: t, PublicKey: pub, PrivateKey: priv}, nil

	case KeyTypeSecp256k1:
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generate secp256k1 key: %w", err)
		}
		return &KeyPair{
			Type:       t,
			PublicKey:  priv.PubKey().SerializeCompressed(),
			PrivateKey: priv.Serialize(),
		}, nil

	case KeyTypeBLS12381G2:
		sk, pk, err := blsimpl.GenerateKeyPair()
		if err != nil {
			return nil, fmt.Errorf("generate bls12-381 key: %w", err)
		}
		return &KeyPair{Type: t, PublicKey: pk.Bytes(), PrivateKey: sk.Bytes()}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, t)
	}
}

// Sign signs message with the given key type and private key bytes.
func Sign(t KeyType, privKey, message []byte) ([]byte, error) {
	switch t {
	case KeyTypeEd25519:
		if len(privKey) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrInvalidKeyEncoding, ed25519.PrivateKeySize)
		}
		return ed25519.Sign(ed25519.PrivateKey(privKey), message), nil

	case KeyTypeSecp256k1:
		priv, _ := btcec.PrivKeyFromBytes(privKey)
		digest := Sha256(message)
		sig := ecdsa.Sign(priv, digest[:])
		return sig.Serialize(), nil

	case KeyTypeBLS12381G2:
		sk, err := blsimpl.PrivateKeyFromBytes(privKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		}
		return sk.Sign(message).Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, t)
	}
}

// Verify checks sig over message under pubKey for the given key type.
func Verify(t KeyType, pubKey, message, sig []byte) (bool, error) {
	switch t {
	case KeyTypeEd25519:
		if len(pubKey) != ed25519.PublicKeySize {
			return false, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrInvalidKeyEncoding, ed25519.PublicKeySize)
		}
		return ed25519.Verify(ed25519.PublicKey(pubKey), message, sig), nil

	case KeyTypeSecp256k1:
		pk, err := btcec.ParsePubKey(pubKey)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		}
		parsedSig, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		}
		digest := Sha256(message)
		return parsedSig.Verify(digest[:], pk), nil

	case KeyTypeBLS12381G2:
		pk, err := blsimpl.PublicKeyFromBytes(pubKey)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		}
		s, err := blsimpl.SignatureFromBytes(sig)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		}
		return pk.Verify(s, message), nil

	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, t)
	}
}
