package tickets404

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "deployments"))
	d := &Deployments{
		Tickets404:    "0x0000000000000000000000000000000000000404",
		DN404Mirror:   "0x0000000000000000000000000000000000000405",
		IsTestnet:     true,
		TotalGasSpent: 21000,
	}
	require.NoError(t, store.Save(84532, d))
	assert.Equal(t, filepath.Join(store.Dir, "84532.json"), store.Path(84532))

	got, err := store.Load(84532)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestStateStoreKeys(t *testing.T) {
	store := NewStateStore(t.TempDir())
	require.NoError(t, store.Save(1, &Deployments{Tickets404: "0x01", SponsorWallet: "0x02"}))

	b, err := os.ReadFile(store.Path(1))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	for _, key := range []string{
		"RendererStyle", "MetadataRenderer", "Referral", "Tickets404", "DN404Mirror",
		"DefaultReferrer", "DefaultReferrerKey", "IS_TESTNET", "TOTAL_GAS_SPENT",
		"IS_INITIALIZED", "IS_TRADE_ENABLED", "SPONSOR_WALLET",
	} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "POOL", "optional keys are omitted until set")
	assert.Contains(t, string(b), "\n    \"Tickets404\"", "four space indent")
}

func TestStateStoreLoadsHardhatFile(t *testing.T) {
	store := NewStateStore(t.TempDir())
	doc := `{
    "RendererStyle": "0xa",
    "Tickets404": "0xb",
    "IS_TESTNET": true,
    "TOTAL_GAS_SPENT": 12345,
    "IS_INITIALIZED": true,
    "IS_TRADE_ENABLED": false,
    "SPONSOR_WALLET": "0xc"
}`
	require.NoError(t, os.WriteFile(store.Path(11155111), []byte(doc), 0o644))

	d, err := store.LoadToken(11155111)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), d.TotalGasSpent)
	assert.True(t, d.IsInitialized)
	assert.NoError(t, d.RequireInitialized())
	assert.ErrorIs(t, d.RequireTradeEnabled(), ErrTradeNotEnabled)
}

func TestStateStoreMissing(t *testing.T) {
	store := NewStateStore(t.TempDir())
	_, err := store.Load(5)
	assert.ErrorIs(t, err, ErrTokenNotDeployed)

	require.NoError(t, store.Save(5, &Deployments{}))
	_, err = store.LoadToken(5)
	assert.ErrorIs(t, err, ErrTokenNotDeployed)
}

func TestDeploymentGuards(t *testing.T) {
	tests := []struct {
		name  string
		d     Deployments
		check func(*Deployments) error
		want  error
	}{
		{"no token", Deployments{}, (*Deployments).RequireInitialized, ErrTokenNotDeployed},
		{"not initialized", Deployments{Tickets404: "0x1"}, (*Deployments).RequireInitialized, ErrNotInitialized},
		{"already initialized", Deployments{Tickets404: "0x1", IsInitialized: true}, (*Deployments).RequireNotInitialized, ErrAlreadyInitialized},
		{"trade disabled", Deployments{Tickets404: "0x1", IsInitialized: true}, (*Deployments).RequireTradeEnabled, ErrTradeNotEnabled},
		{"trade before init", Deployments{Tickets404: "0x1", IsTradeEnabled: true}, (*Deployments).RequireTradeEnabled, ErrNotInitialized},
		{"trade enabled", Deployments{Tickets404: "0x1", IsInitialized: true, IsTradeEnabled: true}, (*Deployments).RequireTradeEnabled, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(&tt.d)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
