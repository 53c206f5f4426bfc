package tickets404

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ProtocolIdRRP is the airnode protocol id of request-response sponsor wallets.
const ProtocolIdRRP = "1"

var mask31 = big.NewInt(1<<31 - 1)

// WalletPathFromSponsor splits the sponsor address into six 31-bit chunks,
// lowest first, prefixed with the protocol id.
func WalletPathFromSponsor(sponsor common.Address, protocolId string) string {
	v := new(big.Int).SetBytes(sponsor.Bytes())
	parts := []string{protocolId}
	for i := 0; i < 6; i++ {
		chunk := new(big.Int).Rsh(v, uint(31*i))
		parts = append(parts, chunk.And(chunk, mask31).String())
	}
	return strings.Join(parts, "/")
}

func derivePath(key *hdkeychain.ExtendedKey, path string) (*hdkeychain.ExtendedKey, error) {
	for _, p := range strings.Split(path, "/") {
		i, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", path, err)
		}
		if i >= 1<<31 {
			return nil, fmt.Errorf("path %s: hardened index %d", path, i)
		}
		key, err = key.Derive(uint32(i))
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}

func keyAddress(key *hdkeychain.ExtendedKey) (common.Address, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub.ToECDSA()), nil
}

// DeriveSponsorWallet returns the address the airnode pays fulfilment gas
// from on behalf of sponsor. The xpub must belong to airnode.
func DeriveSponsorWallet(xpub string, airnode, sponsor common.Address) (common.Address, error) {
	root, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return common.Address{}, fmt.Errorf("parse xpub: %w", err)
	}
	first, err := derivePath(root, "0/0")
	if err != nil {
		return common.Address{}, err
	}
	addr, err := keyAddress(first)
	if err != nil {
		return common.Address{}, err
	}
	if addr != airnode {
		return common.Address{}, fmt.Errorf("%w: %s derives %s", ErrAirnodeMismatch, airnode, addr)
	}
	wallet, err := derivePath(root, WalletPathFromSponsor(sponsor, ProtocolIdRRP))
	if err != nil {
		return common.Address{}, err
	}
	return keyAddress(wallet)
}
