package merkle

import (
	"crypto/sha256"
	"testing"
)

func leafHash(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestBuildTreeRejectsEmpty(t *testing.T) {
	if _, err := BuildTree(nil); err != ErrEmptyTree {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
}

func TestBuildTreeRejectsShortLeaf(t *testing.T) {
	_, err := BuildTree([][]byte{[]byte("short")})
	if err == nil {
		t.Fatal("expected error for non-32-byte leaf")
	}
}

func TestInclusionProofRoundTrip(t *testing.T) {
	leaves := [][]byte{
		leafHash("asset-1-manifest"),
		leafHash("asset-2-manifest"),
		leafHash("asset-3-manifest"),
	}

	tree, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	for i, leaf := range leaves {
		proof, err := tree.GenerateProof(i)
		if err != nil {
			t.Fatalf("GenerateProof(%d): %v", i, err)
		}
		ok, err := VerifyProof(leaf, proof, tree.Root())
		if err != nil {
			t.Fatalf("VerifyProof(%d): %v", i, err)
		}
		if !ok {
			t.Fatalf("VerifyProof(%d) = false, want true", i)
		}
	}
}

func TestInclusionProofRejectsWrongLeaf(t *testing.T) {
	leaves := [][]byte{leafHash("a"), leafHash("b")}
	tree, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	proof, err := tree.GenerateProof(0)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	ok, err := VerifyProof(leafHash("not-in-tree"), proof, tree.Root())
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if ok {
		t.Fatal("VerifyProof should reject a leaf not covered by the proof")
	}
}

func TestSingleLeafTree(t *testing.T) {
	leaves := [][]byte{leafHash("only")}
	tree, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	proof, err := tree.GenerateProof(0)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	if len(proof.Path) != 0 {
		t.Fatalf("expected empty path for single-leaf tree, got %d entries", len(proof.Path))
	}
	ok, err := VerifyProof(leaves[0], proof, tree.Root())
	if err != nil || !ok {
		t.Fatalf("VerifyProof single leaf: ok=%v err=%v", ok, err)
	}
}
