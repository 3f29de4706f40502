package ordinals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient/v8"
	"github.com/btcsuite/btcd/wire"

	"github.com/onionoriginals/sdk-go/pkg/errs"
)

// TxBuilder constructs the signed commit and reveal transactions for a
// CommitRevealRequest. Real construction needs UTXO selection and a signing
// key, both operator-supplied concerns kept out of this package; pkg/bitcoin
// provides the production implementation.
type TxBuilder interface {
	BuildCommitReveal(ctx context.Context, req CommitRevealRequest, feeRateSatPerVB int64) (commit, reveal *wire.MsgTx, satoshi string, err error)
	BuildTransfer(ctx context.Context, req TransferRequest) (*wire.MsgTx, error)
}

// IndexerClient queries an ord-compatible inscription indexer HTTP API,
// since bitcoind itself has no notion of inscriptions or sat tracking.
type IndexerClient interface {
	InscriptionByID(ctx context.Context, id string) (*Inscription, error)
	InscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error)
}

// RPCProvider is the reference Provider implementation: it broadcasts and
// estimates fees via a bitcoind rpcclient connection, builds transactions
// via an injected TxBuilder, and resolves inscription state via an injected
// ord-style IndexerClient.
type RPCProvider struct {
	rpc     *rpcclient.Client
	builder TxBuilder
	indexer IndexerClient
	params  *chaincfg.Params
	breaker *errs.CircuitBreaker
}

// RPCConfig configures a bitcoind JSON-RPC connection.
type RPCConfig struct {
	Host         string
	User         string
	Pass         string
	DisableTLS   bool
	Params       *chaincfg.Params
}

// NewRPCProvider dials bitcoind over JSON-RPC (HTTP POST mode, matching
// rpcclient's non-websocket usage for one-shot wallet/chain calls).
func NewRPCProvider(cfg RPCConfig, builder TxBuilder, indexer IndexerClient) (*RPCProvider, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect bitcoind rpc: %w", err)
	}
	params := cfg.Params
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &RPCProvider{rpc: client, builder: builder, indexer: indexer, params: params, breaker: errs.NewCircuitBreaker(5, 0)}, nil
}

func (p *RPCProvider) CreateInscription(ctx context.Context, req CommitRevealRequest) (*InscriptionResult, error) {
	if _, err := btcutil.DecodeAddress(req.RecipientAddr, p.params); err != nil {
		return nil, errs.New(errs.KindValidationFailed, "invalid recipient address").WithDetail("error", err.Error())
	}

	var result *InscriptionResult
	err := p.breaker.Do(func() error {
		commitTx, revealTx, satoshi, err := p.builder.BuildCommitReveal(ctx, req, req.FeeRateSatPerVB)
		if err != nil {
			return fmt.Errorf("build commit/reveal: %w", err)
		}
		existing, err := p.indexer.InscriptionsBySatoshi(ctx, satoshi)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "query indexer for satoshi reuse", err)
		}
		if len(existing) > 0 {
			return errs.New(errs.KindValidationFailed, "satoshi already carries an inscription").WithDetail("satoshi", satoshi)
		}
		commitHash, err := p.rpc.SendRawTransaction(commitTx, false)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "broadcast commit tx", err)
		}
		revealHash, err := p.rpc.SendRawTransaction(revealTx, false)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "broadcast reveal tx", err)
		}
		result = &InscriptionResult{
			CommitTxID: commitHash.String(),
			RevealTxID: revealHash.String(),
			Satoshi:    satoshi,
			Inscription: Inscription{
				ID:          revealHash.String() + "i0",
				Satoshi:     satoshi,
				ContentType: req.ContentType,
				Content:     req.Content,
				TxID:        revealHash.String(),
			},
		}
		return nil
	})
	return result, err
}

func (p *RPCProvider) TransferInscription(ctx context.Context, req TransferRequest) (string, error) {
	var txID string
	err := p.breaker.Do(func() error {
		tx, err := p.builder.BuildTransfer(ctx, req)
		if err != nil {
			return fmt.Errorf("build transfer tx: %w", err)
		}
		hash, err := p.rpc.SendRawTransaction(tx, false)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "broadcast transfer tx", err)
		}
		txID = hash.String()
		return nil
	})
	return txID, err
}

func (p *RPCProvider) GetInscriptionByID(ctx context.Context, id string) (*Inscription, error) {
	var out *Inscription
	err := p.breaker.Do(func() error {
		insc, err := p.indexer.InscriptionByID(ctx, id)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "query indexer", err)
		}
		out = insc
		return nil
	})
	return out, err
}

func (p *RPCProvider) GetInscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error) {
	var out []Inscription
	err := p.breaker.Do(func() error {
		res, err := p.indexer.InscriptionsBySatoshi(ctx, satoshi)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "query indexer", err)
		}
		out = res
		return nil
	})
	return out, err
}

func (p *RPCProvider) EstimateFee(ctx context.Context, targetBlocks int) (int64, error) {
	var rate int64
	err := p.breaker.Do(func() error {
		est, err := p.rpc.EstimateSmartFee(int64(targetBlocks), nil)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "estimatesmartfee", err)
		}
		if est.FeeRate == nil {
			return errs.New(errs.KindNetworkUnavailable, "estimatesmartfee returned no fee rate")
		}
		// FeeRate is BTC/kvB; convert to sat/vB.
		rate = int64(*est.FeeRate * 1e8 / 1000)
		if rate < 1 {
			rate = 1
		}
		return nil
	})
	return rate, err
}

// Confirmations reports how many blocks have been mined on top of the block
// containing txID, the check a caller uses to decide an anchoring
// transaction has reached the finality a btco DID requires (§9
// "Finalization").
func (p *RPCProvider) Confirmations(ctx context.Context, txID string) (int64, error) {
	hash, err := chainhash.NewHashFromStr(txID)
	if err != nil {
		return 0, errs.New(errs.KindValidationFailed, "invalid transaction id").WithDetail("error", err.Error())
	}
	var confirmations int64
	err = p.breaker.Do(func() error {
		tx, err := p.rpc.GetRawTransactionVerbose(hash)
		if err != nil {
			return errs.Wrap(errs.KindNetworkUnavailable, "getrawtransaction", err)
		}
		confirmations = int64(tx.Confirmations)
		return nil
	})
	return confirmations, err
}

// Shutdown disconnects the underlying rpcclient connection.
func (p *RPCProvider) Shutdown() { p.rpc.Shutdown() }

// HTTPIndexerClient is an IndexerClient backed by an ord server's HTTP API.
type HTTPIndexerClient struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *HTTPIndexerClient) InscriptionByID(ctx context.Context, id string) (*Inscription, error) {
	var out Inscription
	if err := c.getJSON(ctx, fmt.Sprintf("%s/inscription/%s", c.BaseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPIndexerClient) InscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error) {
	var out []Inscription
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sat/%s", c.BaseURL, satoshi), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPIndexerClient) getJSON(ctx context.Context, url string, v any) error {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errs.New(errs.KindNotFound, "inscription not found")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("indexer request failed: %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
