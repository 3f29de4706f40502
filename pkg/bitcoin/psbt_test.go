package bitcoin

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
)

func TestSerializeWitnessRoundTrip(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{Witness: wire.TxWitness{[]byte("sig"), []byte("script"), []byte("control")}})

	encoded, err := SerializeWitness(tx, 0)
	if err != nil {
		t.Fatalf("SerializeWitness: %v", err)
	}
	if len(encoded) == 0 {
		t.Fatal("expected non-empty encoded witness")
	}
}

func TestSerializeWitnessRejectsOutOfRange(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	if _, err := SerializeWitness(tx, 0); err == nil {
		t.Fatal("expected error for out-of-range input index")
	}
}
