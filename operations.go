package tickets404

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3/w3types"
	"github.com/sirupsen/logrus"
)

// Operator drives the token's lifecycle on one chain. Every transaction it
// sends is appended to Journal when one is set.
type Operator struct {
	Chain     Chain
	Store     *StateStore
	Journal   *Journal
	Network   *Network
	Artifacts ArtifactStore
}

func NewOperator(chain Chain, store *StateStore, journal *Journal, nets Networks, artifacts ArtifactStore) (*Operator, error) {
	network, err := nets.ForChain(chain.ChainID())
	if err != nil {
		return nil, err
	}
	return &Operator{
		Chain:     chain,
		Store:     store,
		Journal:   journal,
		Network:   network,
		Artifacts: artifacts,
	}, nil
}

func (o *Operator) chainID() uint64 {
	return o.Chain.ChainID()
}

func (o *Operator) fee() constants.FeeAmount {
	return constants.FeeAmount(o.Network.Liquidity.Fee)
}

func (o *Operator) record(action ActionType, contract common.Address, receipt *types.Receipt, params TxParams, state *Deployments) {
	if receipt == nil {
		return
	}
	if state != nil {
		state.TotalGasSpent += receipt.GasUsed
	}
	logrus.WithFields(logrus.Fields{
		"action":   action,
		"contract": contract.Hex(),
		"tx":       receipt.TxHash.Hex(),
		"gas":      receipt.GasUsed,
		"block":    receipt.BlockNumber,
		"status":   receipt.Status,
	}).Info("transaction confirmed")
	if o.Journal == nil {
		return
	}
	rec, err := NewTxRecord(o.chainID(), action, contract, receipt, params)
	if err == nil {
		err = o.Journal.Record(rec)
	}
	if err != nil {
		logrus.Warnf("failed journal %s tx %s: %s", action, receipt.TxHash, err)
	}
}

func (o *Operator) transact(ctx context.Context, chain Chain, state *Deployments, action ActionType, to common.Address, value *big.Int, params TxParams, fn w3types.Func, args ...any) (*types.Receipt, error) {
	receipt, err := chain.Transact(ctx, to, value, fn, args...)
	o.record(action, to, receipt, params, state)
	if err != nil {
		return receipt, fmt.Errorf("%s on %s: %w", action, to, err)
	}
	return receipt, nil
}

func (o *Operator) sendValue(ctx context.Context, chain Chain, state *Deployments, action ActionType, to common.Address, value *big.Int) (*types.Receipt, error) {
	receipt, err := chain.SendValue(ctx, to, value)
	o.record(action, to, receipt, TxParams{"value": FormatEther(value)}, state)
	if err != nil {
		return receipt, fmt.Errorf("%s %s: %w", action, to, err)
	}
	return receipt, nil
}

func (o *Operator) deploy(ctx context.Context, state *Deployments, name string, args ...any) (common.Address, error) {
	logrus.Infof("Deploying %s...", name)
	artifact, err := o.Artifacts.Artifact(name)
	if err != nil {
		return common.Address{}, err
	}
	addr, receipt, err := o.Chain.Deploy(ctx, artifact, args...)
	o.record(DEPLOY, addr, receipt, TxParams{"contract": name}, state)
	if err != nil {
		return common.Address{}, fmt.Errorf("deploy %s: %w", name, err)
	}
	logrus.Infof("%s deployed to: %s", name, addr)
	return addr, nil
}

// loadOrEmpty returns the chain's state, or a fresh one when no file exists yet.
func (o *Operator) loadOrEmpty() (*Deployments, error) {
	state, err := o.Store.Load(o.chainID())
	if errors.Is(err, ErrTokenNotDeployed) {
		return &Deployments{IsTestnet: o.Network.IsTestnet()}, nil
	}
	return state, err
}

func (o *Operator) guard(state *Deployments, check func(*Deployments) error) error {
	if err := check(state); err != nil {
		return fmt.Errorf("%w in %s", err, o.Store.Path(o.chainID()))
	}
	return nil
}

// Deploy deploys the renderer, mirror, token and referral contracts and
// overwrites the chain's state file with their addresses.
func (o *Operator) Deploy(ctx context.Context) (*Deployments, error) {
	deployer := o.Chain.Address()
	logrus.Infof("Deploying contracts with the account: %s", deployer)
	logrus.Infof("Chain ID: %d", o.chainID())

	state := &Deployments{IsTestnet: o.Network.IsTestnet()}
	style, err := o.deploy(ctx, state, "RendererStyle")
	if err != nil {
		return nil, err
	}
	renderer, err := o.deploy(ctx, state, "MetadataRenderer", style)
	if err != nil {
		return nil, err
	}
	mirror, err := o.deploy(ctx, state, "DN404Mirror", deployer)
	if err != nil {
		return nil, err
	}
	token, err := o.deploy(ctx, state, o.Network.TokenContract)
	if err != nil {
		return nil, err
	}

	referrerKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	referrer := crypto.PubkeyToAddress(referrerKey.PublicKey)
	logrus.Infof("Default Referrer: %s", referrer)
	referral, err := o.deploy(ctx, state, "Referrals", token, referrer)
	if err != nil {
		return nil, err
	}

	state.RendererStyle = style.Hex()
	state.MetadataRenderer = renderer.Hex()
	state.DN404Mirror = mirror.Hex()
	state.Tickets404 = token.Hex()
	state.Referral = referral.Hex()
	state.DefaultReferrer = referrer.Hex()
	state.DefaultReferrerKey = hexutil.Encode(crypto.FromECDSA(referrerKey))

	logrus.Infof("Total Gas Spent: %d", state.TotalGasSpent)
	if err := o.Store.Save(o.chainID(), state); err != nil {
		return nil, err
	}
	logrus.Infof("Deployments saved to %s", o.Store.Path(o.chainID()))
	return state, nil
}

// Initialize wires the token to its QRND airnode, mirror, renderer and
// referrals, then points it at the Uniswap router and position manager.
func (o *Operator) Initialize(ctx context.Context) (*Deployments, error) {
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	if err := o.guard(state, (*Deployments).RequireNotInitialized); err != nil {
		return nil, err
	}
	token := common.HexToAddress(state.Tickets404)

	sponsor, err := DeriveSponsorWallet(o.Network.QRND.XPub, o.Network.Airnode(), token)
	if err != nil {
		return nil, err
	}
	endpoint, err := o.Network.EndpointID()
	if err != nil {
		return nil, err
	}
	logrus.Infof("Token: %s", token)
	logrus.Infof("Sponsor: %s", sponsor)

	logrus.Info("Initializing token...")
	settings := AirnodeSettings{
		AirnodeRrp:        o.Network.AirnodeRRP(),
		Airnode:           o.Network.Airnode(),
		SponsorWallet:     sponsor,
		EndpointIdUint256: endpoint,
	}
	_, err = o.transact(ctx, o.Chain, state, INITIALIZE, token, nil, TxParams{"step": "token", "sponsor": sponsor.Hex()},
		funcInitializeToken, settings,
		common.HexToAddress(state.DN404Mirror),
		common.HexToAddress(state.MetadataRenderer),
		common.HexToAddress(state.Referral),
	)
	if err != nil {
		return nil, err
	}

	logrus.Info("Initializing pool...")
	logrus.Infof("Router: %s", o.Network.SwapRouter02())
	logrus.Infof("PosManager: %s", o.Network.PositionManager())
	logrus.Infof("Fee: %d", o.Network.Liquidity.Fee)
	_, err = o.transact(ctx, o.Chain, state, INITIALIZE, token, nil, TxParams{"step": "pool"},
		funcInitializePool, o.Network.SwapRouter02(), o.Network.PositionManager(), new(big.Int).SetUint64(o.Network.Liquidity.Fee),
	)
	if err != nil {
		return nil, err
	}

	state.IsInitialized = true
	state.SponsorWallet = sponsor.Hex()
	if err := o.Store.Save(o.chainID(), state); err != nil {
		return nil, err
	}
	logrus.Info("Token & pool initialized! You can add liquidity now.")
	return state, nil
}

type LiquidityResult struct {
	Pool         common.Address
	Key          PoolKey
	SqrtPriceX96 *big.Int
	Tick         int
	TokenId      *big.Int
	Liquidity    *big.Int
	Amount0      *big.Int
	Amount1      *big.Int
}

func (o *Operator) weth9(ctx context.Context, chain Chain) (common.Address, error) {
	var weth common.Address
	if err := chain.Call(ctx, o.Network.SwapRouter02(), funcWETH9, nil, &weth); err != nil {
		return common.Address{}, fmt.Errorf("read WETH9: %w", err)
	}
	return weth, nil
}

func (o *Operator) readUint(ctx context.Context, chain Chain, contract common.Address, fn w3types.Func, args ...any) (*big.Int, error) {
	out := new(big.Int)
	if err := chain.Call(ctx, contract, fn, args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ensureAllowance approves spender for the max amount when the current
// allowance is below need.
func (o *Operator) ensureAllowance(ctx context.Context, chain Chain, state *Deployments, token, spender common.Address, need *big.Int) error {
	allowance, err := o.readUint(ctx, chain, token, funcAllowance, chain.Address(), spender)
	if err != nil {
		return fmt.Errorf("read allowance: %w", err)
	}
	if allowance.Cmp(need) >= 0 {
		return nil
	}
	_, err = o.transact(ctx, chain, state, APPROVE, token, nil, TxParams{"spender": spender.Hex()},
		funcApprove, spender, MaxUint256,
	)
	return err
}

// ensureWrapped deposits amount into WETH9 when the wrapped balance is below it.
// The ether balance must cover the deposit.
func (o *Operator) ensureWrapped(ctx context.Context, chain Chain, state *Deployments, weth common.Address, amount *big.Int) error {
	balance, err := o.readUint(ctx, chain, weth, funcBalanceOf, chain.Address())
	if err != nil {
		return fmt.Errorf("read WETH balance: %w", err)
	}
	if balance.Cmp(amount) >= 0 {
		return nil
	}
	eth, err := chain.Balance(ctx, chain.Address())
	if err != nil {
		return fmt.Errorf("read ETH balance: %w", err)
	}
	if eth.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s ETH, %s needed", ErrInsufficientETH, chain.Address(), FormatEther(eth), FormatEther(amount))
	}
	_, err = o.transact(ctx, chain, state, WRAP, weth, amount, TxParams{"amount": FormatEther(amount)}, funcDeposit)
	return err
}

// AddLiquidity creates and prices the WETH/token pool and mints a full range
// position of ethAmount and tokenAmount to the deployer. Minimum amounts are
// slippageBps below the desired ones.
func (o *Operator) AddLiquidity(ctx context.Context, ethAmount, tokenAmount *big.Int, slippageBps int64) (*LiquidityResult, error) {
	if ethAmount.Sign() <= 0 || tokenAmount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	if err := o.guard(state, (*Deployments).RequireInitialized); err != nil {
		return nil, err
	}
	token := common.HexToAddress(state.Tickets404)
	deployer := o.Chain.Address()
	npm := o.Network.PositionManager()

	weth, err := o.weth9(ctx, o.Chain)
	if err != nil {
		return nil, err
	}
	logrus.Info("Adding liquidity...")
	logrus.Infof("Token: %s", token)
	logrus.Infof("WETH9: %s", weth)
	logrus.Infof("POS Manager: %s", npm)
	logrus.Infof("Ether Amount: %s", FormatEther(ethAmount))
	logrus.Infof("Token Amount: %s", FormatEther(tokenAmount))

	logrus.Info("Approving token to POS Manager...")
	if err := o.ensureAllowance(ctx, o.Chain, state, token, npm, tokenAmount); err != nil {
		return nil, err
	}
	if err := o.ensureAllowance(ctx, o.Chain, state, weth, npm, ethAmount); err != nil {
		return nil, err
	}
	logrus.Info("Wrapping ether...")
	if err := o.ensureWrapped(ctx, o.Chain, state, weth, ethAmount); err != nil {
		return nil, err
	}

	token0, token1, amount0, amount1 := SortTokens(weth, token, ethAmount, tokenAmount)
	sqrtPriceX96, err := CalculateSqrtPriceX96(amount0, amount1)
	if err != nil {
		return nil, err
	}
	tick, err := InitialTick(sqrtPriceX96)
	if err != nil {
		return nil, err
	}
	key := PoolKey{Token0: token0, Token1: token1, Fee: o.fee()}

	var factory common.Address
	if err := o.Chain.Call(ctx, npm, funcFactory, nil, &factory); err != nil {
		return nil, fmt.Errorf("read factory: %w", err)
	}
	pool, err := key.Address(factory)
	if err != nil {
		return nil, err
	}
	existing, err := ReadPoolState(ctx, o.Chain, pool)
	existed := err == nil && existing.Initialized()
	if existed {
		logrus.Warnf("pool %s already initialized at %s, it keeps its own price", pool, existing.SqrtPriceX96)
	}

	logrus.Info("Initializing V3 pool...")
	logrus.Infof("Pool: %s", pool)
	logrus.Infof("Sqrt Price: %s (tick %d)", sqrtPriceX96, tick)
	logrus.Infof("Fee: %d", key.Fee)
	receipt, err := o.transact(ctx, o.Chain, state, CREATE_POOL, npm, nil, TxParams{"pool": pool.Hex(), "sqrtPriceX96": sqrtPriceX96.String()},
		funcCreateAndInitializePool, token0, token1, big.NewInt(int64(key.Fee)), sqrtPriceX96,
	)
	if err != nil {
		return nil, err
	}
	if !existed {
		if ev, err := FindInitializeEvent(receipt); err != nil {
			logrus.Warnf("no Initialize event for pool %s: %s", pool, err)
		} else if ev.Pool != pool {
			logrus.Warnf("pool initialized at %s, expected %s", ev.Pool, pool)
			pool = ev.Pool
		}
	}
	ps, err := ReadPoolState(ctx, o.Chain, pool)
	if err != nil {
		return nil, err
	}
	if ps.SqrtPriceX96.Cmp(sqrtPriceX96) != 0 {
		logrus.Warnf("pool price %s differs from the requested %s", ps.SqrtPriceX96, sqrtPriceX96)
	}

	tickLower, tickUpper, err := FullRangeTicks(key.Fee)
	if err != nil {
		return nil, err
	}
	amount0Min, err := MinAmount(amount0, slippageBps)
	if err != nil {
		return nil, err
	}
	amount1Min, err := MinAmount(amount1, slippageBps)
	if err != nil {
		return nil, err
	}
	logrus.Info("Adding liquidity...")
	receipt, err = o.transact(ctx, o.Chain, state, MINT, npm, nil, TxParams{"amount0": amount0.String(), "amount1": amount1.String()},
		funcMint, MintParams{
			Token0:         token0,
			Token1:         token1,
			Fee:            big.NewInt(int64(key.Fee)),
			TickLower:      big.NewInt(int64(tickLower)),
			TickUpper:      big.NewInt(int64(tickUpper)),
			Amount0Desired: amount0,
			Amount1Desired: amount1,
			Amount0Min:     amount0Min,
			Amount1Min:     amount1Min,
			Recipient:      deployer,
			Deadline:       MaxUint256,
		},
	)
	if err != nil {
		return nil, err
	}

	res := &LiquidityResult{
		Pool:         pool,
		Key:          key,
		SqrtPriceX96: ps.SqrtPriceX96,
		Tick:         ps.Tick,
	}
	if ev, err := FindIncreaseLiquidity(receipt, npm); err == nil {
		res.TokenId, res.Liquidity, res.Amount0, res.Amount1 = ev.TokenId, ev.Liquidity, ev.Amount0, ev.Amount1
	} else if ids := TokenIdsFromReceipt(receipt, &npm); len(ids) > 0 {
		res.TokenId = ids[0]
	} else {
		logrus.Warnf("no position id found in %s", receipt.TxHash)
	}
	logrus.Infof("Liquidity added. Transaction hash: %s", receipt.TxHash)

	state.Pool = pool.Hex()
	state.InitialSqrtPriceX96 = sqrtPriceX96.String()
	if res.TokenId != nil {
		state.PositionID = res.TokenId.String()
	}
	if err := o.Store.Save(o.chainID(), state); err != nil {
		return nil, err
	}
	logrus.Info("Liquidity added! You can start trading now.")
	return res, nil
}

// StartTrade enables transfers on the token.
func (o *Operator) StartTrade(ctx context.Context) (*types.Receipt, error) {
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	if err := o.guard(state, (*Deployments).RequireInitialized); err != nil {
		return nil, err
	}
	token := common.HexToAddress(state.Tickets404)
	logrus.Info("Starting trade...")
	logrus.Infof("Token: %s", token)
	receipt, err := o.transact(ctx, o.Chain, state, ENABLE_TRADE, token, nil, nil, funcInitializeTransfer)
	if err != nil {
		return nil, err
	}
	state.IsTradeEnabled = true
	if err := o.Store.Save(o.chainID(), state); err != nil {
		return nil, err
	}
	logrus.Info("You can now trade the tokens on Uniswap.")
	return receipt, nil
}

// tradeState loads the state and the pool key for buy and sell.
func (o *Operator) tradeState(ctx context.Context, chain Chain) (*Deployments, common.Address, common.Address, error) {
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, common.Address{}, common.Address{}, err
	}
	if err := o.guard(state, (*Deployments).RequireTradeEnabled); err != nil {
		return nil, common.Address{}, common.Address{}, err
	}
	weth, err := o.weth9(ctx, chain)
	if err != nil {
		return nil, common.Address{}, common.Address{}, err
	}
	return state, common.HexToAddress(state.Tickets404), weth, nil
}

// quote previews a swap when the pool is known, returning nil otherwise.
func (o *Operator) quote(ctx context.Context, state *Deployments, tokenIn, tokenOut common.Address, amount *big.Int, exactIn bool) *SwapQuote {
	if state.Pool == "" {
		return nil
	}
	ps, err := ReadPoolState(ctx, o.Chain, common.HexToAddress(state.Pool))
	if err != nil {
		logrus.Warnf("failed read pool: %s", err)
		return nil
	}
	q, err := ps.Quote(tokenIn, NewPoolKey(tokenIn, tokenOut, o.fee()), amount, exactIn)
	if err != nil {
		logrus.Warnf("failed quote swap: %s", err)
		return nil
	}
	return q
}

// Buy swaps WETH for maxTicketRefresh whole tokens. The input is capped by
// maxAmountIn and, when slippageBps is positive, by the quoted input plus
// slippage.
func (o *Operator) Buy(ctx context.Context, buyer Chain, maxAmountIn *big.Int, slippageBps int64) (*types.Receipt, error) {
	state, token, weth, err := o.tradeState(ctx, buyer)
	if err != nil {
		return nil, err
	}
	router := o.Network.SwapRouter02()
	logrus.Info("Buying tokens...")
	logrus.Infof("Token: %s", token)
	logrus.Infof("WETH9: %s", weth)
	logrus.Infof("Buyer Address: %s", buyer.Address())

	refresh, err := o.readUint(ctx, buyer, token, funcMaxTicketRefresh)
	if err != nil {
		return nil, fmt.Errorf("read maxTicketRefresh: %w", err)
	}
	amountOut := new(big.Int).Mul(refresh, WeiPerEther)
	if amountOut.Sign() == 0 {
		return nil, fmt.Errorf("%w: maxTicketRefresh is zero", ErrInvalidAmount)
	}

	amountInMaximum := new(big.Int).Set(maxAmountIn)
	if slippageBps > 0 {
		if q := o.quote(ctx, state, weth, token, amountOut, false); q != nil {
			limit, err := MaxAmount(q.TotalIn(), slippageBps)
			if err != nil {
				return nil, err
			}
			logrus.Infof("Quoted input: %s WETH", FormatEther(q.TotalIn()))
			if limit.Cmp(amountInMaximum) < 0 {
				amountInMaximum = limit
			}
		}
	}

	logrus.Info("Depositing WETH...")
	if err := o.ensureWrapped(ctx, buyer, nil, weth, amountInMaximum); err != nil {
		return nil, err
	}
	logrus.Info("Approving WETH...")
	if err := o.ensureAllowance(ctx, buyer, nil, weth, router, amountInMaximum); err != nil {
		return nil, err
	}

	logrus.Infof("Amount Out: %s TICKET", FormatEther(amountOut))
	receipt, err := o.transact(ctx, buyer, nil, SWAP, router, nil,
		TxParams{"side": "buy", "amountOut": amountOut.String(), "amountInMaximum": amountInMaximum.String()},
		funcExactOutputSingle, ExactOutputSingleParams{
			TokenIn:           weth,
			TokenOut:          token,
			Fee:               new(big.Int).SetUint64(o.Network.Liquidity.Fee),
			Recipient:         buyer.Address(),
			AmountOut:         amountOut,
			AmountInMaximum:   amountInMaximum,
			SqrtPriceLimitX96: new(big.Int),
		},
	)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Tokens bought: %s", receipt.TxHash)
	return receipt, nil
}

// Sell swaps the seller's whole token balance for WETH. With a positive
// slippageBps the output floor is the quoted output minus slippage, zero otherwise.
func (o *Operator) Sell(ctx context.Context, seller Chain, slippageBps int64) (*types.Receipt, error) {
	state, token, weth, err := o.tradeState(ctx, seller)
	if err != nil {
		return nil, err
	}
	router := o.Network.SwapRouter02()
	logrus.Info("Selling tokens...")
	logrus.Infof("Token: %s", token)
	logrus.Infof("Seller Address: %s", seller.Address())

	balance, err := o.readUint(ctx, seller, token, funcBalanceOf, seller.Address())
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	if balance.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s holds no tokens", ErrInvalidAmount, seller.Address())
	}
	if err := o.ensureAllowance(ctx, seller, nil, token, router, balance); err != nil {
		return nil, err
	}

	amountOutMinimum := new(big.Int)
	if slippageBps > 0 {
		if q := o.quote(ctx, state, token, weth, balance, true); q != nil {
			if amountOutMinimum, err = MinAmount(q.AmountOut, slippageBps); err != nil {
				return nil, err
			}
			logrus.Infof("Quoted output: %s WETH", FormatEther(q.AmountOut))
		}
	}

	logrus.Infof("AmountIn: %s TICKETS", FormatEther(balance))
	receipt, err := o.transact(ctx, seller, nil, SWAP, router, nil,
		TxParams{"side": "sell", "amountIn": balance.String(), "amountOutMinimum": amountOutMinimum.String()},
		funcExactInputSingle, ExactInputSingleParams{
			TokenIn:           token,
			TokenOut:          weth,
			Fee:               new(big.Int).SetUint64(o.Network.Liquidity.Fee),
			Recipient:         seller.Address(),
			AmountIn:          balance,
			AmountOutMinimum:  amountOutMinimum,
			SqrtPriceLimitX96: new(big.Int),
		},
	)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Tokens sold: %s", receipt.TxHash)
	return receipt, nil
}

func (o *Operator) tokenCall(ctx context.Context, action ActionType, check func(*Deployments) error, params TxParams, fn w3types.Func, args ...any) (*types.Receipt, error) {
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := o.guard(state, check); err != nil {
			return nil, err
		}
	}
	return o.transact(ctx, o.Chain, nil, action, common.HexToAddress(state.Tickets404), nil, params, fn, args...)
}

func (o *Operator) SyncLottery(ctx context.Context) (*types.Receipt, error) {
	logrus.Info("Syncing lottery...")
	return o.tokenCall(ctx, SYNC, nil, nil, funcSyncLottery)
}

func (o *Operator) RescueTokens(ctx context.Context) (*types.Receipt, error) {
	logrus.Info("Rescuing tokens...")
	return o.tokenCall(ctx, RESCUE, nil, nil, funcRescueToken)
}

func (o *Operator) ExcludeFromTax(ctx context.Context, account common.Address, excluded bool) (*types.Receipt, error) {
	logrus.Infof("Excluding %s from tax: %t", account, excluded)
	return o.tokenCall(ctx, EXCLUDE_TAX, (*Deployments).RequireInitialized,
		TxParams{"account": account.Hex(), "excluded": fmt.Sprint(excluded)},
		funcSetExcludeTax, account, excluded,
	)
}

// IncreasePrize sends amount of ether to the token and syncs the lottery so
// the prize pool picks it up.
func (o *Operator) IncreasePrize(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	token := common.HexToAddress(state.Tickets404)
	logrus.Infof("Prize Amount: %s ETH", FormatEther(amount))
	if _, err := o.sendValue(ctx, o.Chain, nil, FUND, token, amount); err != nil {
		return nil, err
	}
	logrus.Info("Prize increased! Syncing lottery...")
	return o.transact(ctx, o.Chain, nil, SYNC, token, nil, nil, funcSyncLottery)
}

// TokenDetails lists tickets in [from, to) whose type is above "try again".
func (o *Operator) TokenDetails(ctx context.Context, from, to uint64) ([]*Ticket, error) {
	state, err := o.Store.LoadToken(o.chainID())
	if err != nil {
		return nil, err
	}
	token := common.HexToAddress(state.Tickets404)
	logrus.Infof("Token IDs: %d to %d", from, to)

	var tickets []*Ticket
	for id := from; id < to; id++ {
		t := &Ticket{TokenId: new(big.Int).SetUint64(id)}
		if err := o.Chain.Call(ctx, token, funcGetTicket, []any{t.TokenId}, &t.Owner, &t.TicketType); err != nil {
			return tickets, fmt.Errorf("getTicket(%d): %w", id, err)
		}
		if t.TicketType <= 1 {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"tokenId": id,
			"owner":   t.Owner.Hex(),
			"type":    t.TicketType,
		}).Info("ticket")
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// DeployRequester deploys a MockedRequester, points it at the QRND airnode,
// funds its sponsor wallet and requests a seed to exercise the round trip.
func (o *Operator) DeployRequester(ctx context.Context) (common.Address, common.Address, error) {
	state, err := o.loadOrEmpty()
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	requester, err := o.deploy(ctx, state, "MockedRequester")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	sponsor, err := DeriveSponsorWallet(o.Network.QRND.XPub, o.Network.Airnode(), requester)
	if err != nil {
		return requester, common.Address{}, err
	}
	logrus.Infof("Sponsor Wallet: %s", sponsor)

	endpoint, err := o.Network.EndpointBytes32()
	if err != nil {
		return requester, sponsor, err
	}
	logrus.Info("Initializing requester...")
	_, err = o.transact(ctx, o.Chain, state, INITIALIZE, requester, nil, TxParams{"sponsor": sponsor.Hex()},
		funcSetSettings, o.Network.AirnodeRRP(), o.Network.Airnode(), sponsor, endpoint,
	)
	if err != nil {
		return requester, sponsor, err
	}

	balance, err := o.Network.InitialSponsorBalance()
	if err != nil {
		return requester, sponsor, err
	}
	if _, err := o.sendValue(ctx, o.Chain, state, FUND, sponsor, balance); err != nil {
		return requester, sponsor, err
	}
	logrus.Infof("Initial Sponsor Balance: %s ETH", FormatEther(balance))

	logrus.Infof("Requesting seed for %d tokens...", RequesterSeedTokens)
	_, err = o.transact(ctx, o.Chain, state, REQUEST, requester, nil, TxParams{"tokens": fmt.Sprint(RequesterSeedTokens)},
		funcRequestUint256, big.NewInt(RequesterSeedTokens),
	)
	if err != nil {
		return requester, sponsor, err
	}

	state.Requester = requester.Hex()
	return requester, sponsor, o.Store.Save(o.chainID(), state)
}

func (o *Operator) DeployRescueAirnode(ctx context.Context) (common.Address, error) {
	state, err := o.loadOrEmpty()
	if err != nil {
		return common.Address{}, err
	}
	rrp, err := o.deploy(ctx, state, "RescueAirnodeRrp")
	if err != nil {
		return common.Address{}, err
	}
	state.RescueAirnodeRrp = rrp.Hex()
	return rrp, o.Store.Save(o.chainID(), state)
}
