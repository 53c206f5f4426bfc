package tickets404

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAirnode builds an airnode style key pair: the xpub of m/44'/60'/0' and
// the address of its 0/0 child. The private account key is returned too.
func testAirnode(t *testing.T) (xpub string, airnode common.Address, account *hdkeychain.ExtendedKey) {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	for _, i := range []uint32{44, 60, 0} {
		key, err = key.Derive(hdkeychain.HardenedKeyStart + i)
		require.NoError(t, err)
	}
	pub, err := key.Neuter()
	require.NoError(t, err)

	child, err := derivePath(key, "0/0")
	require.NoError(t, err)
	airnode, err = keyAddress(child)
	require.NoError(t, err)
	return pub.String(), airnode, key
}

func TestWalletPathFromSponsor(t *testing.T) {
	tests := []struct {
		sponsor common.Address
		want    string
	}{
		{common.Address{}, "1/0/0/0/0/0/0"},
		{common.BigToAddress(big.NewInt(1)), "1/1/0/0/0/0/0"},
		{common.BigToAddress(big.NewInt(1 << 31)), "1/0/1/0/0/0/0"},
		{common.BigToAddress(big.NewInt(1<<31 - 1)), "1/2147483647/0/0/0/0/0"},
		{common.BigToAddress(new(big.Int).Lsh(big.NewInt(1), 155)), "1/0/0/0/0/0/1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, WalletPathFromSponsor(tt.sponsor, ProtocolIdRRP))
		})
	}
	assert.Equal(t, "2/1/0/0/0/0/0", WalletPathFromSponsor(common.BigToAddress(big.NewInt(1)), "2"))
}

func TestDeriveSponsorWallet(t *testing.T) {
	xpub, airnode, account := testAirnode(t)
	sponsor := common.HexToAddress("0x231278eDd38B00B07fBd52120CEf685B9BaEBCC1")

	wallet, err := DeriveSponsorWallet(xpub, airnode, sponsor)
	require.NoError(t, err)

	// deriving from the private account key lands on the same address
	priv, err := derivePath(account, WalletPathFromSponsor(sponsor, ProtocolIdRRP))
	require.NoError(t, err)
	want, err := keyAddress(priv)
	require.NoError(t, err)
	assert.Equal(t, want, wallet)

	other, err := DeriveSponsorWallet(xpub, airnode, common.HexToAddress("0x0000000000000000000000000000000000000404"))
	require.NoError(t, err)
	assert.NotEqual(t, wallet, other)
}

func TestDeriveSponsorWalletErrors(t *testing.T) {
	xpub, _, _ := testAirnode(t)

	_, err := DeriveSponsorWallet(xpub, common.HexToAddress("0x0000000000000000000000000000000000000001"), common.Address{})
	assert.ErrorIs(t, err, ErrAirnodeMismatch)

	_, err = DeriveSponsorWallet("not-an-xpub", common.Address{}, common.Address{})
	assert.Error(t, err)

	_, err = derivePath(nil, "2147483648")
	assert.Error(t, err, "hardened indexes are refused")
}
