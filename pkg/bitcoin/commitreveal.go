package bitcoin

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/onionoriginals/sdk-go/pkg/ordinals"
)

// UTXOSource selects an unspent output to fund a commit transaction.
type UTXOSource interface {
	SelectUTXO(ctx context.Context, minValue int64) (outpoint wire.OutPoint, value int64, pkScript []byte, err error)
}

// Wallet signs transaction inputs and reports the internal key used for the
// reveal script's taproot commitment.
type Wallet struct {
	InternalKey *btcec.PrivateKey
	Params      *chaincfg.Params
}

// Builder implements ordinals.TxBuilder, constructing commit/reveal and
// transfer transactions with the ordinal inscription envelope inscribed
// into the reveal transaction's witness (the pattern that prevents
// front-running: the commit output's script is only revealed at spend
// time, (§4.13)).
type Builder struct {
	Wallet *Wallet
	UTXOs  UTXOSource
}

// inscriptionEnvelope builds the ord-style witness script: a checksig
// against the internal key, followed by an OP_FALSE OP_IF ... OP_ENDIF
// envelope carrying content type and content.
func inscriptionEnvelope(internalKey *btcec.PublicKey, contentType string, content []byte) ([]byte, error) {
	builder := txscript.NewScriptBuilder()
	builder.AddData(schnorr.SerializePubKey(internalKey))
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_FALSE)
	builder.AddOp(txscript.OP_IF)
	builder.AddData([]byte("ord"))
	builder.AddOp(txscript.OP_1)
	builder.AddData([]byte(contentType))
	builder.AddOp(txscript.OP_0)
	builder.AddData(content)
	builder.AddOp(txscript.OP_ENDIF)
	return builder.Script()
}

// BuildCommitReveal builds a commit transaction paying into a taproot
// output whose script-path leaf is the inscription envelope, and a reveal
// transaction spending that output via the script path to inscribe it.
func (b *Builder) BuildCommitReveal(ctx context.Context, req ordinals.CommitRevealRequest, feeRateSatPerVB int64) (commit, reveal *wire.MsgTx, satoshi string, err error) {
	internalPub := b.Wallet.InternalKey.PubKey()
	envelope, err := inscriptionEnvelope(internalPub, req.ContentType, req.Content)
	if err != nil {
		return nil, nil, "", fmt.Errorf("build inscription envelope: %w", err)
	}

	leaf := txscript.NewBaseTapLeaf(envelope)
	tapTree := txscript.AssembleTaprootScriptTree(leaf)
	rootHash := tapTree.RootNode.TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(internalPub, rootHash[:])

	commitPkScript, err := txscript.PayToTaprootScript(outputKey)
	if err != nil {
		return nil, nil, "", fmt.Errorf("build commit pkScript: %w", err)
	}
	if err := RequireTaproot(commitPkScript); err != nil {
		return nil, nil, "", err
	}

	envelopeWeight := int64(len(envelope))
	commitFee := feeRateSatPerVB * 150 // approximate commit tx vsize
	revealFee := feeRateSatPerVB * (envelopeWeight/4 + 100)
	dustLimit := int64(546)
	commitOutputValue := dustLimit + revealFee

	fundingOutpoint, fundingValue, fundingPkScript, err := b.UTXOs.SelectUTXO(ctx, commitOutputValue+commitFee)
	if err != nil {
		return nil, nil, "", fmt.Errorf("select funding utxo: %w", err)
	}
	if fundingValue < commitOutputValue+commitFee {
		return nil, nil, "", ErrInsufficientFunds
	}

	commitTx := wire.NewMsgTx(wire.TxVersion)
	commitTx.AddTxIn(&wire.TxIn{PreviousOutPoint: fundingOutpoint})
	commitTx.AddTxOut(wire.NewTxOut(commitOutputValue, commitPkScript))
	if change := fundingValue - commitOutputValue - commitFee; change > dustLimit {
		commitTx.AddTxOut(wire.NewTxOut(change, fundingPkScript))
	}

	commitTxHash := commitTx.TxHash()
	revealTx := wire.NewMsgTx(wire.TxVersion)
	revealTx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Hash: commitTxHash, Index: 0}})
	recipientAddr, err := btcutil.DecodeAddress(req.RecipientAddr, b.Wallet.Params)
	if err != nil {
		return nil, nil, "", fmt.Errorf("decode recipient address: %w", err)
	}
	recipientScript, err := txscript.PayToAddrScript(recipientAddr)
	if err != nil {
		return nil, nil, "", fmt.Errorf("build recipient script: %w", err)
	}
	revealTx.AddTxOut(wire.NewTxOut(dustLimit, recipientScript))

	controlBlock, err := tapTree.LeafMerkleProofs[0].ControlBlock(internalPub).ToBytes()
	if err != nil {
		return nil, nil, "", fmt.Errorf("build control block: %w", err)
	}
	revealTx.TxIn[0].Witness = wire.TxWitness{nil, envelope, controlBlock}

	satNumber := firstSatoshiOf(fundingOutpoint, fundingValue)
	return commitTx, revealTx, satNumber, nil
}

// BuildTransfer builds a transaction moving the satoshi carrying req's
// inscription to a new recipient address, preserving sat order (the
// recipient output must start at the same offset the inscribed sat sits
// at within the input set — full sat-tracking accounting lives in the
// operator's UTXO selection, out of scope here).
func (b *Builder) BuildTransfer(ctx context.Context, req ordinals.TransferRequest) (*wire.MsgTx, error) {
	outpoint, value, _, err := b.UTXOs.SelectUTXO(ctx, 546)
	if err != nil {
		return nil, fmt.Errorf("select utxo carrying satoshi %s: %w", req.Satoshi, err)
	}
	addr, err := btcutil.DecodeAddress(req.RecipientAddr, b.Wallet.Params)
	if err != nil {
		return nil, fmt.Errorf("decode recipient address: %w", err)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("build recipient script: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: outpoint})
	fee := req.FeeRateSatPerVB * 110
	outValue := value - fee
	if outValue < 546 {
		return nil, ErrInsufficientFunds
	}
	tx.AddTxOut(wire.NewTxOut(outValue, script))
	return tx, nil
}

// firstSatoshiOf derives a stable pseudo-satoshi-number placeholder for an
// outpoint, pending integration with a real sat-tracking index; production
// deployments resolve the true ordinal number from the indexer instead.
func firstSatoshiOf(outpoint wire.OutPoint, value int64) string {
	h := sha256.Sum256(append(outpoint.Hash[:], byte(outpoint.Index)))
	var asU64 uint64
	for i := 0; i < 8; i++ {
		asU64 = asU64<<8 | uint64(h[i])
	}
	return fmt.Sprintf("%d", asU64%(uint64(1)<<51))
}
