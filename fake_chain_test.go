package tickets404

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3/w3types"
)

type sentTx struct {
	From     common.Address
	To       *common.Address
	Value    *big.Int
	Fn       w3types.Func
	Args     []any
	Artifact string
}

type balanceKey struct {
	token, owner common.Address
}

type allowanceKey struct {
	token, owner, spender common.Address
}

// fakeNode keeps just enough contract state for the operations to run. Ether
// balances live under the zero token address.
type fakeNode struct {
	chainID uint64
	block   int64
	nonces  map[common.Address]uint64

	weth    common.Address
	factory common.Address

	balances       map[balanceKey]*big.Int
	allowances     map[allowanceKey]*big.Int
	pools          map[common.Address]*big.Int
	poolLiquidity  *big.Int
	ticketRefresh  int64
	tickets        map[uint64]Ticket
	nextPositionId int64

	fail map[w3types.Func]bool
	sent []sentTx
}

func newFakeNode(chainID uint64) *fakeNode {
	return &fakeNode{
		chainID:        chainID,
		block:          100,
		nonces:         map[common.Address]uint64{},
		weth:           common.HexToAddress("0x4200000000000000000000000000000000000006"),
		factory:        common.HexToAddress("0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24"),
		balances:       map[balanceKey]*big.Int{},
		allowances:     map[allowanceKey]*big.Int{},
		pools:          map[common.Address]*big.Int{},
		poolLiquidity:  new(big.Int),
		ticketRefresh:  5,
		tickets:        map[uint64]Ticket{},
		nextPositionId: 1,
		fail:           map[w3types.Func]bool{},
	}
}

func (n *fakeNode) chain(key *ecdsa.PrivateKey) *fakeChain {
	return &fakeChain{node: n, key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (n *fakeNode) balance(token, owner common.Address) *big.Int {
	if b, ok := n.balances[balanceKey{token, owner}]; ok {
		return b
	}
	return new(big.Int)
}

func (n *fakeNode) setBalance(token, owner common.Address, v *big.Int) {
	n.balances[balanceKey{token, owner}] = v
}

// sentFns lists the functions of the sent transactions, nil for plain
// transfers and deployments.
func (n *fakeNode) sentFns() []w3types.Func {
	fns := make([]w3types.Func, len(n.sent))
	for i, tx := range n.sent {
		fns[i] = tx.Fn
	}
	return fns
}

func (n *fakeNode) receipt(logs []*types.Log, status uint64, contract common.Address) *types.Receipt {
	n.block++
	r := &types.Receipt{
		Status:          status,
		TxHash:          common.BigToHash(big.NewInt(int64(len(n.sent)))),
		GasUsed:         100_000,
		BlockNumber:     big.NewInt(n.block),
		Logs:            logs,
		ContractAddress: contract,
	}
	for _, l := range logs {
		l.TxHash = r.TxHash
	}
	return r
}

type fakeChain struct {
	node    *fakeNode
	key     *ecdsa.PrivateKey
	address common.Address
}

func (c *fakeChain) ChainID() uint64         { return c.node.chainID }
func (c *fakeChain) Address() common.Address { return c.address }

func (c *fakeChain) WithKey(key *ecdsa.PrivateKey) Chain {
	return c.node.chain(key)
}

func (c *fakeChain) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.node.balance(common.Address{}, addr), nil
}

func setBig(dst any, v *big.Int) {
	*(dst.(**big.Int)) = new(big.Int).Set(v)
}

func (c *fakeChain) Call(ctx context.Context, to common.Address, fn w3types.Func, args []any, returns ...any) error {
	n := c.node
	switch fn {
	case funcWETH9:
		*(returns[0].(*common.Address)) = n.weth
	case funcFactory:
		*(returns[0].(*common.Address)) = n.factory
	case funcBalanceOf:
		setBig(returns[0], n.balance(to, args[0].(common.Address)))
	case funcAllowance:
		v, ok := n.allowances[allowanceKey{to, args[0].(common.Address), args[1].(common.Address)}]
		if !ok {
			v = new(big.Int)
		}
		setBig(returns[0], v)
	case funcMaxTicketRefresh:
		setBig(returns[0], big.NewInt(n.ticketRefresh))
	case funcSlot0:
		price, ok := n.pools[to]
		if !ok {
			return fmt.Errorf("execution reverted")
		}
		tick, err := InitialTick(price)
		if err != nil {
			return err
		}
		setBig(returns[0], price)
		setBig(returns[1], big.NewInt(int64(tick)))
		*(returns[6].(*bool)) = true
	case funcLiquidity:
		setBig(returns[0], n.poolLiquidity)
	case funcGetTicket:
		t := n.tickets[args[0].(*big.Int).Uint64()]
		*(returns[0].(*common.Address)) = t.Owner
		*(returns[1].(*uint8)) = t.TicketType
	default:
		return fmt.Errorf("unexpected call to %s", to)
	}
	return nil
}

func (c *fakeChain) Transact(ctx context.Context, to common.Address, value *big.Int, fn w3types.Func, args ...any) (*types.Receipt, error) {
	n := c.node
	if value == nil {
		value = new(big.Int)
	}
	n.sent = append(n.sent, sentTx{From: c.address, To: &to, Value: value, Fn: fn, Args: args})
	n.nonces[c.address]++
	if n.fail[fn] {
		return n.receipt(nil, types.ReceiptStatusFailed, common.Address{}), fmt.Errorf("%w: %d", ErrTxFailed, len(n.sent))
	}

	var logs []*types.Log
	switch fn {
	case funcApprove:
		n.allowances[allowanceKey{to, c.address, args[0].(common.Address)}] = args[1].(*big.Int)
	case funcDeposit:
		n.setBalance(to, c.address, new(big.Int).Add(n.balance(to, c.address), value))
		n.setBalance(common.Address{}, c.address, new(big.Int).Sub(n.balance(common.Address{}, c.address), value))
	case funcCreateAndInitializePool:
		key := NewPoolKey(args[0].(common.Address), args[1].(common.Address), constants.FeeAmount(args[2].(*big.Int).Int64()))
		pool, err := key.Address(n.factory)
		if err != nil {
			return nil, err
		}
		if _, ok := n.pools[pool]; !ok {
			price := args[3].(*big.Int)
			n.pools[pool] = price
			tick, _ := InitialTick(price)
			logs = append(logs, &types.Log{
				Address: pool,
				Topics:  []common.Hash{TOPIC_INITIALIZE},
				Data:    append(word(price), word(big.NewInt(int64(tick)))...),
			})
		}
	case funcMint:
		p := args[0].(MintParams)
		id := big.NewInt(n.nextPositionId)
		n.nextPositionId++
		var data []byte
		for _, v := range []*big.Int{big.NewInt(1_000_000), p.Amount0Desired, p.Amount1Desired} {
			data = append(data, word(v)...)
		}
		logs = append(logs,
			nftTransferLog(to, common.Address{}, p.Recipient, id.Int64()),
			&types.Log{
				Address: to,
				Topics:  []common.Hash{TOPIC_INCREASE_LIQUIDITY, common.BigToHash(id)},
				Data:    data,
			},
		)
	}
	return n.receipt(logs, types.ReceiptStatusSuccessful, common.Address{}), nil
}

func (c *fakeChain) SendValue(ctx context.Context, to common.Address, value *big.Int) (*types.Receipt, error) {
	n := c.node
	n.sent = append(n.sent, sentTx{From: c.address, To: &to, Value: value})
	n.nonces[c.address]++
	n.setBalance(common.Address{}, c.address, new(big.Int).Sub(n.balance(common.Address{}, c.address), value))
	n.setBalance(common.Address{}, to, new(big.Int).Add(n.balance(common.Address{}, to), value))
	return n.receipt(nil, types.ReceiptStatusSuccessful, common.Address{}), nil
}

func (c *fakeChain) Deploy(ctx context.Context, artifact *Artifact, args ...any) (common.Address, *types.Receipt, error) {
	n := c.node
	addr := crypto.CreateAddress(c.address, n.nonces[c.address])
	n.sent = append(n.sent, sentTx{From: c.address, Value: new(big.Int), Args: args, Artifact: artifact.ContractName})
	n.nonces[c.address]++
	return addr, n.receipt(nil, types.ReceiptStatusSuccessful, addr), nil
}

// fakeArtifacts hands out bytecode-less artifacts, the fake chain never runs them.
type fakeArtifacts struct{}

func (fakeArtifacts) Artifact(name string) (*Artifact, error) {
	switch name {
	case "RendererStyle", "MetadataRenderer", "DN404Mirror", "Tickets404", "MockedTickets404",
		"Referrals", "MockedRequester", "RescueAirnodeRrp":
		return &Artifact{ContractName: name}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
}
