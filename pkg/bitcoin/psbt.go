package bitcoin

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// SerializeWitness encodes a transaction input's witness stack in PSBT wire
// format, the form an external co-signer (hardware wallet, multisig peer)
// expects when it is handed only the reveal transaction's witness data
// rather than the whole signed transaction.
func SerializeWitness(tx *wire.MsgTx, inputIndex int) ([]byte, error) {
	if inputIndex < 0 || inputIndex >= len(tx.TxIn) {
		return nil, fmt.Errorf("input index %d out of range (tx has %d inputs)", inputIndex, len(tx.TxIn))
	}
	var buf bytes.Buffer
	if err := psbt.WriteTxWitness(&buf, tx.TxIn[inputIndex].Witness); err != nil {
		return nil, fmt.Errorf("serialize witness: %w", err)
	}
	return buf.Bytes(), nil
}
