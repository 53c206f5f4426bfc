package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	tickets404 "github.com/tickets404/ops"
	"github.com/urfave/cli/v2"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "JSON-RPC endpoint of the target chain",
		EnvVars: []string{"RPC_URL"},
	},
	&cli.StringFlag{
		Name:    "deployer-key",
		Usage:   "Deployer private key (hex)",
		EnvVars: []string{"DEPLOYER_WALLET"},
	},
	&cli.StringFlag{
		Name:    "buyer-key",
		Usage:   "Private key used by buy",
		EnvVars: []string{"BUYER_WALLET"},
	},
	&cli.StringFlag{
		Name:    "seller-key",
		Usage:   "Private key used by sell",
		EnvVars: []string{"SELLER_WALLET"},
	},
	&cli.StringFlag{
		Name:  "deployments-dir",
		Usage: "Directory holding <chainId>.json state files",
		Value: "deployments",
	},
	&cli.StringFlag{
		Name:  "artifacts-dir",
		Usage: "Hardhat artifacts directory",
		Value: "artifacts",
	},
	&cli.StringFlag{
		Name:  "journal",
		Usage: "Sqlite file recording every sent transaction",
		Value: "deployments/journal.db",
	},
	&cli.StringFlag{
		Name:  "networks",
		Usage: "Network profiles yaml (default: built-in profiles)",
	},
	&cli.Uint64Flag{
		Name:  "confirmations",
		Usage: "Blocks to wait after a transaction is mined",
		Value: tickets404.DefaultConfirmations,
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "Give up on a command after this long",
		Value: 10 * time.Minute,
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "panic, fatal, error, warn, info, debug or trace",
		Value: "info",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Usage: "Log as JSON",
	},
}

func setupLogging(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if c.Bool("log-json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// session is what every on-chain command needs: a signing client for one key
// and the operator built on it.
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *tickets404.Client
	journal *tickets404.Journal
	op      *tickets404.Operator
}

func (s *session) Close() {
	s.cancel()
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			logrus.Warnf("close journal: %v", err)
		}
	}
	if s.client != nil {
		s.client.Close()
	}
}

func openSession(c *cli.Context, keyFlag string) (*session, error) {
	if c.String("rpc-url") == "" {
		return nil, fmt.Errorf("--rpc-url is required")
	}
	key, err := tickets404.ParsePrivateKey(c.String(keyFlag))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", keyFlag, err)
	}
	nets, err := tickets404.LoadNetworks(c.String("networks"))
	if err != nil {
		return nil, err
	}

	s := &session{}
	s.ctx, s.cancel = context.WithTimeout(c.Context, c.Duration("timeout"))
	s.client, err = tickets404.Dial(s.ctx, c.String("rpc-url"), key)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client.Confirmations = c.Uint64("confirmations")

	if err := os.MkdirAll(filepath.Dir(c.String("journal")), 0o755); err != nil {
		s.Close()
		return nil, err
	}
	s.journal, err = tickets404.OpenJournal(c.String("journal"))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.op, err = tickets404.NewOperator(
		s.client,
		tickets404.NewStateStore(c.String("deployments-dir")),
		s.journal,
		nets,
		tickets404.ArtifactDir{Dir: c.String("artifacts-dir")},
	)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// withSession runs fn with a session signing as the key named by keyFlag.
func withSession(keyFlag string, fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c, keyFlag)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(c, s)
	}
}

func main() {
	app := &cli.App{
		Name:   "tickets404",
		Usage:  "Deploy and operate the Tickets404 lottery token",
		Flags:  globalFlags,
		Before: setupLogging,
		Commands: []*cli.Command{
			deployCmd,
			initializeCmd,
			addLiquidityCmd,
			startTradeCmd,
			buyCmd,
			sellCmd,
			syncCmd,
			rescueCmd,
			increasePrizeCmd,
			excludeTaxCmd,
			tokenDetailsCmd,
			deployRequesterCmd,
			deployRescueAirnodeCmd,
			sqrtPriceCmd,
			seedCmd,
			journalCmd,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
