package tickets404

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3"
)

var (
	TOPIC_TRANSFER           = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	TOPIC_INITIALIZE         = crypto.Keccak256Hash([]byte("Initialize(uint160,int24)"))
	TOPIC_INCREASE_LIQUIDITY = crypto.Keccak256Hash([]byte("IncreaseLiquidity(uint256,uint128,uint256,uint256)"))

	eventTransfer721       = w3.MustNewEvent("Transfer(address indexed from, address indexed to, uint256 indexed tokenId)")
	eventInitialize        = w3.MustNewEvent("Initialize(uint160 sqrtPriceX96, int24 tick)")
	eventIncreaseLiquidity = w3.MustNewEvent("IncreaseLiquidity(uint256 indexed tokenId, uint128 liquidity, uint256 amount0, uint256 amount1)")
)

type PoolInitializeEvent struct {
	Pool         common.Address
	SqrtPriceX96 *big.Int
	Tick         int
}

type IncreaseLiquidityEvent struct {
	TokenId   *big.Int
	Liquidity *big.Int
	Amount0   *big.Int
	Amount1   *big.Int
}

type NFTTransfer struct {
	Contract common.Address
	From     common.Address
	To       common.Address
	TokenId  *big.Int
}

// ParseNFTTransfer decodes an ERC-721 Transfer. ERC-20 transfers share topic0
// but carry three topics and are rejected.
func ParseNFTTransfer(log *types.Log) (*NFTTransfer, error) {
	if len(log.Topics) != 4 || log.Topics[0] != TOPIC_TRANSFER {
		return nil, fmt.Errorf("not an erc721 transfer, topics: %d", len(log.Topics))
	}
	t := &NFTTransfer{Contract: log.Address, TokenId: new(big.Int)}
	if err := eventTransfer721.DecodeArgs(log, &t.From, &t.To, &t.TokenId); err != nil {
		return nil, fmt.Errorf("failed read transfer, tx: %s: %w", log.TxHash, err)
	}
	return t, nil
}

// TokenIdsFromReceipt lists the ids of every ERC-721 token moved by the
// transaction, optionally limited to one emitting contract.
func TokenIdsFromReceipt(receipt *types.Receipt, contract *common.Address) []*big.Int {
	var ids []*big.Int
	for _, log := range receipt.Logs {
		if contract != nil && log.Address != *contract {
			continue
		}
		t, err := ParseNFTTransfer(log)
		if err != nil {
			continue
		}
		ids = append(ids, t.TokenId)
	}
	return ids
}

func ParseInitializeEvent(log *types.Log) (*PoolInitializeEvent, error) {
	if len(log.Topics) != 1 || log.Topics[0] != TOPIC_INITIALIZE {
		return nil, fmt.Errorf("topic not match, expect %d, got %d", 1, len(log.Topics))
	}
	var (
		sqrtPriceX96 = new(big.Int)
		tick         = new(big.Int)
	)
	if err := eventInitialize.DecodeArgs(log, &sqrtPriceX96, &tick); err != nil {
		return nil, fmt.Errorf("failed read initialize, tx: %s: %w", log.TxHash, err)
	}
	return &PoolInitializeEvent{
		Pool:         log.Address,
		SqrtPriceX96: sqrtPriceX96,
		Tick:         int(tick.Int64()),
	}, nil
}

func ParseIncreaseLiquidityEvent(log *types.Log) (*IncreaseLiquidityEvent, error) {
	if len(log.Topics) != 2 || log.Topics[0] != TOPIC_INCREASE_LIQUIDITY {
		return nil, fmt.Errorf("topic not match, expect %d, got %d", 2, len(log.Topics))
	}
	e := &IncreaseLiquidityEvent{
		TokenId:   new(big.Int),
		Liquidity: new(big.Int),
		Amount0:   new(big.Int),
		Amount1:   new(big.Int),
	}
	if err := eventIncreaseLiquidity.DecodeArgs(log, &e.TokenId, &e.Liquidity, &e.Amount0, &e.Amount1); err != nil {
		return nil, fmt.Errorf("failed read increase liquidity, tx: %s: %w", log.TxHash, err)
	}
	return e, nil
}

// FindIncreaseLiquidity returns the first IncreaseLiquidity emitted by the
// position manager in receipt.
func FindIncreaseLiquidity(receipt *types.Receipt, positionManager common.Address) (*IncreaseLiquidityEvent, error) {
	for _, log := range receipt.Logs {
		if log.Address != positionManager {
			continue
		}
		if e, err := ParseIncreaseLiquidityEvent(log); err == nil {
			return e, nil
		}
	}
	return nil, fmt.Errorf("IncreaseLiquidity event not found in receipt %s", receipt.TxHash)
}

func FindInitializeEvent(receipt *types.Receipt) (*PoolInitializeEvent, error) {
	for _, log := range receipt.Logs {
		if e, err := ParseInitializeEvent(log); err == nil {
			return e, nil
		}
	}
	return nil, fmt.Errorf("Initialize event not found in receipt %s", receipt.TxHash)
}
