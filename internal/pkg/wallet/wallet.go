// Package wallet talks to an EIP-1193 style wallet provider exposed over
// JSON-RPC (eth_requestAccounts / eth_sendTransaction).
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
)

const defaultPollInterval = 2 * time.Second

// RPCWallet implements upgrade.Wallet.
type RPCWallet struct {
	rpc          *rpc.Client
	eth          *ethclient.Client
	pollInterval time.Duration
}

// Dial connects to the wallet endpoint at url.
func Dial(ctx context.Context, url string) (*RPCWallet, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc: %w", err)
	}
	return &RPCWallet{rpc: c, eth: ethclient.NewClient(c), pollInterval: defaultPollInterval}, nil
}

// NewFromEnv dials WALLET_RPC_URL. It returns a nil wallet when the variable
// is unset, which the upgrade flow treats as "no wallet connected".
func NewFromEnv(ctx context.Context) (upgrade.Wallet, error) {
	url := env.GetEnv("WALLET_RPC_URL", "")
	if url == "" {
		return nil, nil
	}
	w, err := Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	w.pollInterval = env.GetEnvDuration("WALLET_POLL_INTERVAL", defaultPollInterval)
	return w, nil
}

func (w *RPCWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := w.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
}

func (w *RPCWallet) SendTransaction(ctx context.Context, req upgrade.TransferRequest) (common.Hash, error) {
	var hash common.Hash
	args := sendTxArgs{From: req.From, To: req.To, Value: (*hexutil.Big)(req.Value)}
	if err := w.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// WaitConfirmed polls for the receipt until it is mined or ctx ends.
func (w *RPCWallet) WaitConfirmed(ctx context.Context, hash common.Hash) (*upgrade.Confirmation, error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			conf := &upgrade.Confirmation{Success: receipt.Status == types.ReceiptStatusSuccessful}
			if receipt.BlockNumber != nil {
				conf.BlockNumber = receipt.BlockNumber.Uint64()
			}
			return conf, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close releases the RPC connection.
func (w *RPCWallet) Close() {
	w.rpc.Close()
}
