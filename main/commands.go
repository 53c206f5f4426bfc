package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	tickets404 "github.com/tickets404/ops"
	"github.com/urfave/cli/v2"
)

func slippageFlag(value int64) *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:  "slippage-bps",
		Usage: "Slippage tolerance in basis points, 0 disables the check",
		Value: value,
	}
}

func logReceipt(receipt *types.Receipt) {
	logrus.WithFields(logrus.Fields{
		"tx":      receipt.TxHash.Hex(),
		"block":   receipt.BlockNumber,
		"gasUsed": receipt.GasUsed,
	}).Info("done")
}

var deployCmd = &cli.Command{
	Name:  "deploy",
	Usage: "Deploy renderer, mirror, token and referral contracts",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		state, err := s.op.Deploy(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Tickets404:  %s\n", state.Tickets404)
		fmt.Printf("DN404Mirror: %s\n", state.DN404Mirror)
		fmt.Printf("Referral:    %s\n", state.Referral)
		return nil
	}),
}

var initializeCmd = &cli.Command{
	Name:  "initialize",
	Usage: "Configure QRND and the Uniswap pool settings on the token",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		state, err := s.op.Initialize(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Sponsor wallet: %s\n", state.SponsorWallet)
		return nil
	}),
}

var addLiquidityCmd = &cli.Command{
	Name:  "add-liquidity",
	Usage: "Create the token/WETH pool and mint a full range position",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "eth",
			Usage: "ETH side of the position, in ether",
			Value: "0.06",
		},
		&cli.StringFlag{
			Name:  "tokens",
			Usage: "Token side of the position, in whole tokens",
			Value: "70000",
		},
		slippageFlag(500),
	},
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		eth, err := tickets404.ParseEther(c.String("eth"))
		if err != nil {
			return fmt.Errorf("--eth: %w", err)
		}
		tokens, err := tickets404.ParseEther(c.String("tokens"))
		if err != nil {
			return fmt.Errorf("--tokens: %w", err)
		}
		res, err := s.op.AddLiquidity(s.ctx, eth, tokens, c.Int64("slippage-bps"))
		if err != nil {
			return err
		}
		fmt.Printf("Pool:         %s\n", res.Pool)
		fmt.Printf("Position:     %s\n", res.TokenId)
		fmt.Printf("SqrtPriceX96: %s\n", res.SqrtPriceX96)
		fmt.Printf("Tick:         %d\n", res.Tick)
		return nil
	}),
}

var startTradeCmd = &cli.Command{
	Name:  "start-trade",
	Usage: "Enable token transfers",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		receipt, err := s.op.StartTrade(s.ctx)
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var buyCmd = &cli.Command{
	Name:  "buy",
	Usage: "Buy the maximum ticket refresh amount of tokens with WETH",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "max-in",
			Usage: "Most WETH to spend, in ether",
			Value: "0.001",
		},
		slippageFlag(0),
	},
	Action: withSession("buyer-key", func(c *cli.Context, s *session) error {
		maxIn, err := tickets404.ParseEther(c.String("max-in"))
		if err != nil {
			return fmt.Errorf("--max-in: %w", err)
		}
		receipt, err := s.op.Buy(s.ctx, s.client, maxIn, c.Int64("slippage-bps"))
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var sellCmd = &cli.Command{
	Name:  "sell",
	Usage: "Sell the whole token balance for WETH",
	Flags: []cli.Flag{
		slippageFlag(0),
	},
	Action: withSession("seller-key", func(c *cli.Context, s *session) error {
		receipt, err := s.op.Sell(s.ctx, s.client, c.Int64("slippage-bps"))
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var syncCmd = &cli.Command{
	Name:  "sync",
	Usage: "Sync the lottery prize pool with the token balance",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		receipt, err := s.op.SyncLottery(s.ctx)
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var rescueCmd = &cli.Command{
	Name:  "rescue",
	Usage: "Rescue tokens stuck in the token contract",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		receipt, err := s.op.RescueTokens(s.ctx)
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var increasePrizeCmd = &cli.Command{
	Name:  "increase-prize",
	Usage: "Send ETH to the token and sync the lottery",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "amount",
			Usage: "ETH to add to the prize, in ether",
			Value: "0.001",
		},
	},
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		amount, err := tickets404.ParseEther(c.String("amount"))
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}
		receipt, err := s.op.IncreasePrize(s.ctx, amount)
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var excludeTaxCmd = &cli.Command{
	Name:  "exclude-tax",
	Usage: "Exclude an account from the transfer tax, or include it again",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "Account address",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "excluded",
			Usage: "Exclude (true) or include (false) the account",
			Value: true,
		},
	},
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		account := c.String("account")
		if !common.IsHexAddress(account) {
			return fmt.Errorf("--account: invalid address %q", account)
		}
		receipt, err := s.op.ExcludeFromTax(s.ctx, common.HexToAddress(account), c.Bool("excluded"))
		if err != nil {
			return err
		}
		logReceipt(receipt)
		return nil
	}),
}

var tokenDetailsCmd = &cli.Command{
	Name:  "token-details",
	Usage: "List winning tickets in a token id range",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "from",
			Usage: "First token id",
			Value: tickets404.DefaultTicketScanStart,
		},
		&cli.Uint64Flag{
			Name:  "to",
			Usage: "Stop before this token id",
			Value: tickets404.DefaultTicketScanStop,
		},
	},
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		tickets, err := s.op.TokenDetails(s.ctx, c.Uint64("from"), c.Uint64("to"))
		for _, t := range tickets {
			fmt.Printf("%s\t%s\t%d\n", t.TokenId, t.Owner.Hex(), t.TicketType)
		}
		return err
	}),
}

var deployRequesterCmd = &cli.Command{
	Name:  "deploy-requester",
	Usage: "Deploy a MockedRequester and request a seed through QRND",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		requester, sponsor, err := s.op.DeployRequester(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Requester: %s\n", requester)
		fmt.Printf("Sponsor:   %s\n", sponsor)
		return nil
	}),
}

var deployRescueAirnodeCmd = &cli.Command{
	Name:  "deploy-rescue-airnode",
	Usage: "Deploy the RescueAirnodeRrp helper",
	Action: withSession("deployer-key", func(c *cli.Context, s *session) error {
		rrp, err := s.op.DeployRescueAirnode(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("RescueAirnodeRrp: %s\n", rrp)
		return nil
	}),
}
