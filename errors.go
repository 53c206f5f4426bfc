package tickets404

import "errors"

var (
	ErrZeroAmount0     = errors.New("ZERO_AMOUNT0")
	ErrNegativeAmount  = errors.New("NEGATIVE_AMOUNT")
	ErrInvalidAmount   = errors.New("INVALID_AMOUNT")
	ErrInvalidBps      = errors.New("INVALID_BPS")
	ErrNoLiquidity     = errors.New("NO_LIQUIDITY")
	ErrInsufficientETH = errors.New("INSUFFICIENT_ETH")

	ErrTokenNotDeployed   = errors.New("Tickets404 contract not found")
	ErrAlreadyInitialized = errors.New("contract already initialized")
	ErrNotInitialized     = errors.New("contract not initialized")
	ErrTradeNotEnabled    = errors.New("trade not enabled")

	ErrTxFailed        = errors.New("transaction reverted")
	ErrAirnodeMismatch = errors.New("airnode xpub does not derive the airnode address")
	ErrUnknownNetwork  = errors.New("no network settings for chain")
	ErrWalletNotSet    = errors.New("wallet is not set")
	ErrUnknownArtifact = errors.New("artifact not found")
)
