package crypto

import "testing"

func TestEd25519SignVerify(t *testing.T) {
	kp, err := GenerateKeyPair(KeyTypeEd25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := []byte("hello")
	sig, err := Sign(KeyTypeEd25519, kp.PrivateKey, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := Verify(KeyTypeEd25519, kp.PublicKey, msg, sig)
	if err != nil || !ok {
		t.Fatalf("Verify: ok=%v err=%v", ok, err)
	}
	if ok, _ := Verify(KeyTypeEd25519, kp.PublicKey, []byte("tampered"), sig); ok {
		t.Fatal("expected verification to fail for tampered message")
	}
}

func TestSecp256k1SignVerify(t *testing.T) {
	kp, err := GenerateKeyPair(KeyTypeSecp256k1)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := []byte("bitcoin operation payload")
	sig, err := Sign(KeyTypeSecp256k1, kp.PrivateKey, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := Verify(KeyTypeSecp256k1, kp.PublicKey, msg, sig)
	if err != nil || !ok {
		t.Fatalf("Verify: ok=%v err=%v", ok, err)
	}
}

func TestMultikeyRoundTrip(t *testing.T) {
	for _, kt := range []KeyType{KeyTypeEd25519, KeyTypeSecp256k1} {
		kp, err := GenerateKeyPair(kt)
		if err != nil {
			t.Fatalf("GenerateKeyPair(%s): %v", kt, err)
		}
		mk, err := kp.Multikey()
		if err != nil {
			t.Fatalf("Multikey(%s): %v", kt, err)
		}
		if mk[0] != 'z' {
			t.Fatalf("expected multibase 'z' prefix, got %q", mk)
		}
		decodedType, decodedKey, err := DecodeMultikey(mk)
		if err != nil {
			t.Fatalf("DecodeMultikey(%s): %v", kt, err)
		}
		if decodedType != kt {
			t.Fatalf("decoded type %s != %s", decodedType, kt)
		}
		if string(decodedKey) != string(kp.PublicKey) {
			t.Fatalf("decoded key mismatch for %s", kt)
		}
	}
}

func TestSha256Hex(t *testing.T) {
	got := Sha256Hex([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Fatalf("Sha256Hex(hello) = %s, want %s", got, want)
	}
}

func TestValidateHashHex(t *testing.T) {
	if err := ValidateHashHex("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"); err != nil {
		t.Fatalf("expected valid hash, got %v", err)
	}
	if err := ValidateHashHex("too-short"); err == nil {
		t.Fatal("expected error for short hash")
	}
	if err := ValidateHashHex("2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"); err == nil {
		t.Fatal("expected error for uppercase hash")
	}
}

func TestCBORRoundTrip(t *testing.T) {
	type manifest struct {
		AssetID string `cbor:"assetId"`
		Version int    `cbor:"version"`
	}
	in := manifest{AssetID: "abc", Version: 2}
	enc, err := CBOREncode(in)
	if err != nil {
		t.Fatalf("CBOREncode: %v", err)
	}
	var out manifest
	if err := CBORDecode(enc, &out); err != nil {
		t.Fatalf("CBORDecode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}
