package tickets404

import (
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/constants"
)

var (
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(constants.One, 256), constants.One)

	Q96  = new(big.Int).Lsh(constants.One, 96)
	Q192 = new(big.Int).Lsh(constants.One, 192)

	MIN_SQRT_RATIO    = big.NewInt(4295128739)
	MAX_SQRT_RATIO, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	// seed space used by the lottery contract, 2**32-1
	SeedModulus = new(big.Int).SetUint64(1<<32 - 1)

	WeiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	BPS_DENOMINATOR int64 = 10_000
)

const (
	DefaultFee = constants.FeeHigh

	// DefaultConfirmations matches tx.wait(3) of the hardhat scripts.
	DefaultConfirmations uint64 = 3

	// ticket ids scanned by token-details when no range is given
	DefaultTicketScanStart uint64 = 15_000
	DefaultTicketScanStop  uint64 = 18_000

	// requester smoke test asks for a seed covering this many tokens
	RequesterSeedTokens int64 = 500
)
