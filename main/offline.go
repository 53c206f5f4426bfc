package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"text/tabwriter"

	tickets404 "github.com/tickets404/ops"
	"github.com/urfave/cli/v2"
)

func parseBig(c *cli.Context, name string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.String(name), 0)
	if !ok {
		return nil, fmt.Errorf("--%s: invalid integer %q", name, c.String(name))
	}
	return v, nil
}

// parseAmount reads an amount flag in base units, or in ether with --ether.
func parseAmount(c *cli.Context, name string) (*big.Int, error) {
	if c.Bool("ether") {
		v, err := tickets404.ParseEther(c.String(name))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		return v, nil
	}
	return parseBig(c, name)
}

var sqrtPriceCmd = &cli.Command{
	Name:  "sqrt-price",
	Usage: "Compute the sqrtPriceX96 a pool is initialized with for two reserves",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "amount0",
			Usage:    "Reserve of token0",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount1",
			Usage:    "Reserve of token1",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "ether",
			Usage: "Amounts are given in ether instead of base units",
		},
	},
	Action: func(c *cli.Context) error {
		amount0, err := parseAmount(c, "amount0")
		if err != nil {
			return err
		}
		amount1, err := parseAmount(c, "amount1")
		if err != nil {
			return err
		}
		sqrtPrice, err := tickets404.CalculateSqrtPriceX96(amount0, amount1)
		if err != nil {
			return err
		}
		fmt.Printf("sqrtPriceX96: %s\n", sqrtPrice)
		fmt.Printf("price:        %s\n", tickets404.SqrtPriceX96ToPrice(sqrtPrice))
		if sqrtPrice.Cmp(tickets404.MIN_SQRT_RATIO) < 0 || sqrtPrice.Cmp(tickets404.MAX_SQRT_RATIO) >= 0 {
			fmt.Println("tick:         out of range")
			return nil
		}
		tick, err := tickets404.InitialTick(sqrtPrice)
		if err != nil {
			return err
		}
		fmt.Printf("tick:         %d\n", tick)
		return nil
	},
}

var seedCmd = &cli.Command{
	Name:  "seed",
	Usage: "Lottery seed helpers",
	Subcommands: []*cli.Command{
		{
			Name:  "normalize",
			Usage: "Reduce a raw QRND word to the value compared for a ticket",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "raw",
					Usage:    "Raw random word",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "token-id",
					Usage:    "Ticket token id",
					Required: true,
				},
			},
			Action: func(c *cli.Context) error {
				raw, err := parseBig(c, "raw")
				if err != nil {
					return err
				}
				tokenId, err := parseBig(c, "token-id")
				if err != nil {
					return err
				}
				fmt.Println(tickets404.NormalizeSeed(raw, tokenId))
				return nil
			},
		},
		{
			Name:  "invert",
			Usage: "Find a raw word that normalizes to the given probability for a ticket",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token-id",
					Usage:    "Ticket token id",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "probability",
					Usage:    "Wanted normalized value",
					Required: true,
				},
			},
			Action: func(c *cli.Context) error {
				tokenId, err := parseBig(c, "token-id")
				if err != nil {
					return err
				}
				probability, err := parseBig(c, "probability")
				if err != nil {
					return err
				}
				fmt.Println(tickets404.SeedForProbability(tokenId, probability))
				return nil
			},
		},
	},
}

var journalCmd = &cli.Command{
	Name:  "journal",
	Usage: "List the transactions recorded for a chain",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:     "chain-id",
			Usage:    "Chain to list",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		path := c.String("journal")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("journal %s: %w", filepath.Clean(path), err)
		}
		journal, err := tickets404.OpenJournal(path)
		if err != nil {
			return err
		}
		defer journal.Close()

		chainID := c.Uint64("chain-id")
		records, err := journal.List(chainID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tCONTRACT\tTX\tGAS\tSTATUS")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Action, r.Contract, r.TxHash, r.GasUsed, r.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		total, err := journal.TotalGasUsed(chainID)
		if err != nil {
			return err
		}
		fmt.Printf("total gas used: %d\n", total)
		return nil
	},
}
