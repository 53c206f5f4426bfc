package tickets404

import (
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"slices"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"
)

//go:embed networks.yaml
var defaultNetworks []byte

const (
	ProfileTestnet = "testnet"
	ProfileMainnet = "mainnet"
)

type QRNDSettings struct {
	AirnodeRRP            string `yaml:"airnode_rrp"`
	Airnode               string `yaml:"airnode"`
	Endpoint              string `yaml:"endpoint"`
	XPub                  string `yaml:"xpub"`
	InitialSponsorBalance string `yaml:"initial_sponsor_balance"`
}

type LiquiditySettings struct {
	PositionManager string `yaml:"position_manager"`
	SwapRouter02    string `yaml:"swap_router02"`
	Fee             uint64 `yaml:"fee"`
}

type Network struct {
	Name          string            `yaml:"-"`
	Testnet       bool              `yaml:"testnet"`
	ChainIDs      []uint64          `yaml:"chain_ids"`
	QRND          QRNDSettings      `yaml:"qrnd"`
	Liquidity     LiquiditySettings `yaml:"liquidity"`
	TokenContract string            `yaml:"token_contract"`
}

func (n *Network) IsTestnet() bool {
	return n.Testnet
}

func (n *Network) AirnodeRRP() common.Address { return common.HexToAddress(n.QRND.AirnodeRRP) }
func (n *Network) Airnode() common.Address    { return common.HexToAddress(n.QRND.Airnode) }
func (n *Network) PositionManager() common.Address {
	return common.HexToAddress(n.Liquidity.PositionManager)
}
func (n *Network) SwapRouter02() common.Address {
	return common.HexToAddress(n.Liquidity.SwapRouter02)
}

// EndpointID returns the QRND endpoint id as the uint256 the token stores.
func (n *Network) EndpointID() (*big.Int, error) {
	b, err := hexutil.Decode(n.QRND.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q: %w", n.QRND.Endpoint, err)
	}
	return new(big.Int).SetBytes(b), nil
}

func (n *Network) EndpointBytes32() ([32]byte, error) {
	var out [32]byte
	id, err := n.EndpointID()
	if err != nil {
		return out, err
	}
	id.FillBytes(out[:])
	return out, nil
}

func (n *Network) InitialSponsorBalance() (*big.Int, error) {
	return ParseEther(n.QRND.InitialSponsorBalance)
}

type Networks map[string]*Network

// LoadNetworks reads network profiles from path, or the embedded defaults when
// path is empty.
func LoadNetworks(path string) (Networks, error) {
	raw := defaultNetworks
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return ParseNetworks(raw)
}

func ParseNetworks(raw []byte) (Networks, error) {
	nets := Networks{}
	if err := yaml.Unmarshal(raw, &nets); err != nil {
		return nil, fmt.Errorf("parse networks: %w", err)
	}
	for name, n := range nets {
		if n == nil {
			return nil, fmt.Errorf("network %s is empty", name)
		}
		n.Name = name
		for _, addr := range []string{n.QRND.AirnodeRRP, n.QRND.Airnode, n.Liquidity.PositionManager, n.Liquidity.SwapRouter02} {
			if !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("network %s: invalid address %q", name, addr)
			}
		}
		if _, err := n.EndpointID(); err != nil {
			return nil, fmt.Errorf("network %s: %w", name, err)
		}
	}
	return nets, nil
}

// ForChain picks the profile listing chainID.
func (nets Networks) ForChain(chainID uint64) (*Network, error) {
	names := make([]string, 0, len(nets))
	for name := range nets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if slices.Contains(nets[name].ChainIDs, chainID) {
			return nets[name], nil
		}
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownNetwork, chainID)
}
