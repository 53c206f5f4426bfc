package tickets404

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

// Tickets404
var (
	funcInitializeToken = w3.MustNewFunc(
		"initializeToken((address AirnodeRrp, address Airnode, address SponsorWallet, uint256 EndpointIdUint256) settings, address mirror, address renderer, address referrals)", "",
	)

	funcInitializePool     = w3.MustNewFunc("initializePool(address router, address positionManager, uint24 fee)", "")
	funcInitializeTransfer = w3.MustNewFunc("initializeTransfer()", "")
	funcSyncLottery        = w3.MustNewFunc("syncLottery()", "")
	funcRescueToken        = w3.MustNewFunc("rescueToken()", "")
	funcSetExcludeTax      = w3.MustNewFunc("setExcludeTax(address account, bool excluded)", "")
	funcMaxTicketRefresh   = w3.MustNewFunc("maxTicketRefresh()", "uint256")
	funcGetTicket          = w3.MustNewFunc("getTicket(uint256 tokenId)", "address owner, uint8 ticketType")
)

// ERC20 and WETH9
var (
	funcBalanceOf = w3.MustNewFunc("balanceOf(address)", "uint256")
	funcAllowance = w3.MustNewFunc("allowance(address owner, address spender)", "uint256")
	funcApprove   = w3.MustNewFunc("approve(address spender, uint256 amount)", "bool")
	funcDeposit   = w3.MustNewFunc("deposit()", "")
)

// Uniswap V3 periphery and pool
var (
	funcCreateAndInitializePool = w3.MustNewFunc(
		"createAndInitializePoolIfNecessary(address token0, address token1, uint24 fee, uint160 sqrtPriceX96)", "address pool",
	)
	funcMint = w3.MustNewFunc(
		"mint((address token0, address token1, uint24 fee, int24 tickLower, int24 tickUpper, uint256 amount0Desired, uint256 amount1Desired, uint256 amount0Min, uint256 amount1Min, address recipient, uint256 deadline) params)",
		"uint256 tokenId, uint128 liquidity, uint256 amount0, uint256 amount1",
	)
	funcWETH9   = w3.MustNewFunc("WETH9()", "address")
	funcFactory = w3.MustNewFunc("factory()", "address")

	funcExactInputSingle = w3.MustNewFunc(
		"exactInputSingle((address tokenIn, address tokenOut, uint24 fee, address recipient, uint256 amountIn, uint256 amountOutMinimum, uint160 sqrtPriceLimitX96) params)", "uint256 amountOut",
	)
	funcExactOutputSingle = w3.MustNewFunc(
		"exactOutputSingle((address tokenIn, address tokenOut, uint24 fee, address recipient, uint256 amountOut, uint256 amountInMaximum, uint160 sqrtPriceLimitX96) params)", "uint256 amountIn",
	)
	funcSlot0 = w3.MustNewFunc(
		"slot0()", "uint160 sqrtPriceX96, int24 tick, uint16 observationIndex, uint16 observationCardinality, uint16 observationCardinalityNext, uint8 feeProtocol, bool unlocked",
	)

	funcLiquidity = w3.MustNewFunc("liquidity()", "uint128")
)

// MockedRequester
var (
	funcSetSettings    = w3.MustNewFunc("setSettings(address airnodeRrp, address airnode, address sponsorWallet, bytes32 endpointId)", "")
	funcRequestUint256 = w3.MustNewFunc("requestUint256(uint256 tokens)", "")
)

type AirnodeSettings struct {
	AirnodeRrp        common.Address
	Airnode           common.Address
	SponsorWallet     common.Address
	EndpointIdUint256 *big.Int
}

type MintParams struct {
	Token0         common.Address
	Token1         common.Address
	Fee            *big.Int
	TickLower      *big.Int
	TickUpper      *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

type ExactOutputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountOut         *big.Int
	AmountInMaximum   *big.Int
	SqrtPriceLimitX96 *big.Int
}

type Ticket struct {
	TokenId    *big.Int
	Owner      common.Address
	TicketType uint8
}
