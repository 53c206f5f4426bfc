package tickets404

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"
	"github.com/sirupsen/logrus"
)

// Chain is everything the operations need from a node, bound to one signing key.
type Chain interface {
	ChainID() uint64
	Address() common.Address
	Call(ctx context.Context, to common.Address, fn w3types.Func, args []any, returns ...any) error
	Transact(ctx context.Context, to common.Address, value *big.Int, fn w3types.Func, args ...any) (*types.Receipt, error)
	Deploy(ctx context.Context, artifact *Artifact, args ...any) (common.Address, *types.Receipt, error)
	SendValue(ctx context.Context, to common.Address, value *big.Int) (*types.Receipt, error)
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	// WithKey returns a Chain on the same connection signing with key.
	WithKey(key *ecdsa.PrivateKey) Chain
}

type Client struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	w3      *w3.Client
	chainID *big.Int
	signer  types.Signer
	key     *ecdsa.PrivateKey
	address common.Address

	Confirmations uint64
	PollInterval  time.Duration
}

func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	c, err := NewClient(ctx, rpcClient, key)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}
	return c, nil
}

// NewClient wraps an open rpc connection. key may be nil for read-only use.
func NewClient(ctx context.Context, rpcClient *rpc.Client, key *ecdsa.PrivateKey) (*Client, error) {
	ethClient := ethclient.NewClient(rpcClient)
	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	c := &Client{
		rpc:           rpcClient,
		eth:           ethClient,
		w3:            w3.NewClient(rpcClient),
		chainID:       chainID,
		signer:        types.LatestSignerForChainID(chainID),
		Confirmations: DefaultConfirmations,
		PollInterval:  2 * time.Second,
	}
	if key != nil {
		c.key = key
		c.address = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) WithKey(key *ecdsa.PrivateKey) Chain {
	cpy := *c
	cpy.key = key
	cpy.address = crypto.PubkeyToAddress(key.PublicKey)
	return &cpy
}

func (c *Client) Call(ctx context.Context, to common.Address, fn w3types.Func, args []any, returns ...any) error {
	return c.w3.CallCtx(ctx, eth.CallFunc(to, fn, args...).Returns(returns...))
}

func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance := new(big.Int)
	if err := c.w3.CallCtx(ctx, eth.Balance(addr, nil).Returns(balance)); err != nil {
		return nil, err
	}
	return balance, nil
}

func (c *Client) Transact(ctx context.Context, to common.Address, value *big.Int, fn w3types.Func, args ...any) (*types.Receipt, error) {
	data, err := fn.EncodeArgs(args...)
	if err != nil {
		return nil, fmt.Errorf("encode calldata: %w", err)
	}
	return c.send(ctx, &to, value, data)
}

func (c *Client) SendValue(ctx context.Context, to common.Address, value *big.Int) (*types.Receipt, error) {
	return c.send(ctx, &to, value, nil)
}

func (c *Client) Deploy(ctx context.Context, artifact *Artifact, args ...any) (common.Address, *types.Receipt, error) {
	data, err := artifact.DeployData(args...)
	if err != nil {
		return common.Address{}, nil, err
	}
	receipt, err := c.send(ctx, nil, nil, data)
	if err != nil {
		return common.Address{}, receipt, err
	}
	return receipt.ContractAddress, receipt, nil
}

func (c *Client) send(ctx context.Context, to *common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	if c.key == nil {
		return nil, ErrWalletNotSet
	}
	if value == nil {
		value = new(big.Int)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head: %w", err)
	}
	var tip, gasPrice *big.Int
	if head.BaseFee != nil {
		if tip, err = c.eth.SuggestGasTipCap(ctx); err != nil {
			return nil, fmt.Errorf("get gas tip: %w", err)
		}
	} else if gasPrice, err = c.eth.SuggestGasPrice(ctx); err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.address,
		To:    to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	tx := newTx(c.chainID, nonce, to, value, data, gas*6/5, tip, head.BaseFee, gasPrice)
	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}
	logrus.Debugf("sent tx %s, nonce %d", signed.Hash(), nonce)

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return nil, fmt.Errorf("wait tx %s: %w", signed.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTxFailed, signed.Hash())
	}
	if err := c.waitConfirmations(ctx, receipt); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// newTx builds a dynamic fee transaction paying tip over twice the base fee,
// or a legacy one at gasPrice on chains without a base fee.
func newTx(chainID *big.Int, nonce uint64, to *common.Address, value *big.Int, data []byte, gas uint64, tip, baseFee, gasPrice *big.Int) *types.Transaction {
	if baseFee == nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     data,
		})
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: new(big.Int).Add(tip, new(big.Int).Mul(baseFee, big.NewInt(2))),
		Gas:       gas,
		To:        to,
		Value:     value,
		Data:      data,
	})
}

// waitConfirmations blocks until the receipt's block has Confirmations blocks
// on top of it, counting itself.
func (c *Client) waitConfirmations(ctx context.Context, receipt *types.Receipt) error {
	if c.Confirmations <= 1 {
		return nil
	}
	target := new(big.Int).Add(receipt.BlockNumber, new(big.Int).SetUint64(c.Confirmations-1))
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		head := new(big.Int)
		err := c.w3.CallCtx(ctx, eth.BlockNumber().Returns(head))
		if err == nil && head.Cmp(target) >= 0 {
			return nil
		}
		if err != nil {
			logrus.Warnf("failed get block number: %s", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	if s == "" {
		return nil, ErrWalletNotSet
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
