package tickets404

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecord(t *testing.T) {
	j := openTestJournal(t)
	token := common.HexToAddress("0x0000000000000000000000000000000000000404")

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash("0x01"),
		GasUsed:     50_000,
		BlockNumber: big.NewInt(7),
	}
	rec, err := NewTxRecord(84532, DEPLOY, token, receipt, TxParams{"contract": "Tickets404"})
	require.NoError(t, err)
	require.NoError(t, j.Record(rec))

	rec, err = NewTxRecord(84532, SYNC, token, &types.Receipt{GasUsed: 30_000, BlockNumber: big.NewInt(8)}, nil)
	require.NoError(t, err)
	require.NoError(t, j.Record(rec))

	rec, err = NewTxRecord(1, SYNC, token, &types.Receipt{GasUsed: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, j.Record(rec))

	records, err := j.List(84532)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var actions []ActionType
	for _, r := range records {
		actions = append(actions, r.Action)
		assert.Equal(t, token.Hex(), r.Contract)
	}
	assert.ElementsMatch(t, []ActionType{DEPLOY, SYNC}, actions)

	for _, r := range records {
		if r.Action == DEPLOY {
			assert.Equal(t, "Tickets404", r.Params["contract"])
			assert.Equal(t, uint64(7), r.BlockNumber)
			assert.Equal(t, types.ReceiptStatusSuccessful, r.Status)
		}
	}

	total, err := j.TotalGasUsed(84532)
	require.NoError(t, err)
	assert.Equal(t, uint64(80_000), total)
}

func TestJournalEmpty(t *testing.T) {
	j := openTestJournal(t)

	records, err := j.List(5)
	require.NoError(t, err)
	assert.Empty(t, records)

	total, err := j.TotalGasUsed(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
}

func TestTxParamsScan(t *testing.T) {
	var p TxParams
	require.NoError(t, p.Scan(`{"amount":"1"}`))
	assert.Equal(t, "1", p["amount"])

	require.NoError(t, p.Scan([]byte(`{"amount":"2"}`)))
	assert.Equal(t, "2", p["amount"])

	assert.Error(t, p.Scan(42))
}
