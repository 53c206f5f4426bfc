package tickets404

import (
	"fmt"
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/daoleno/uniswapv3-sdk/entities"
	"github.com/daoleno/uniswapv3-sdk/utils"
)

// FullRangeTicks returns the widest usable tick range for a fee tier.
func FullRangeTicks(fee constants.FeeAmount) (tickLower, tickUpper int, err error) {
	spacing, ok := constants.TickSpacings[fee]
	if !ok {
		return 0, 0, fmt.Errorf("no tick spacing for fee %d", fee)
	}
	return entities.NearestUsableTick(utils.MinTick, spacing), entities.NearestUsableTick(utils.MaxTick, spacing), nil
}

// InitialTick is the tick the pool lands on when initialized with sqrtPriceX96.
func InitialTick(sqrtPriceX96 *big.Int) (int, error) {
	return utils.GetTickAtSqrtRatio(sqrtPriceX96)
}
