package tickets404

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionType string

const (
	DEPLOY       ActionType = "deploy"
	INITIALIZE   ActionType = "initialize"
	APPROVE      ActionType = "approve"
	WRAP         ActionType = "wrap"
	CREATE_POOL  ActionType = "create-pool"
	MINT         ActionType = "mint"
	SWAP         ActionType = "swap"
	ENABLE_TRADE ActionType = "enable-trade"
	SYNC         ActionType = "sync"
	RESCUE       ActionType = "rescue"
	EXCLUDE_TAX  ActionType = "exclude-tax"
	FUND         ActionType = "fund"
	REQUEST      ActionType = "request"
)

// TxParams keeps the human readable inputs of a transaction next to its receipt.
type TxParams map[string]string

func (p TxParams) GormDataType() string {
	return "LONGTEXT"
}

func (p *TxParams) Scan(value interface{}) error {
	var err error
	switch v := value.(type) {
	case []byte:
		err = json.Unmarshal(v, p)
	case string:
		err = json.Unmarshal([]byte(v), p)
	case nil:
		return nil
	default:
		err = errors.New(fmt.Sprint("Failed to unmarshal TxParams value:", value))
	}
	return err
}

func (p TxParams) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	bs, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(bs), nil
}

type TxRecord struct {
	Id          string     `gorm:"primaryKey"`
	ChainID     uint64     `gorm:"index"`
	Action      ActionType `gorm:"index"`
	Contract    string
	TxHash      string
	GasUsed     uint64
	BlockNumber uint64
	Status      uint64
	Params      TxParams
	Timestamp   time.Time
}

func NewTxRecord(chainID uint64, action ActionType, contract common.Address, receipt *types.Receipt, params TxParams) (*TxRecord, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	rec := &TxRecord{
		Id:        id.String(),
		ChainID:   chainID,
		Action:    action,
		Contract:  contract.Hex(),
		Params:    params,
		Timestamp: time.Now().UTC(),
	}
	if receipt != nil {
		rec.TxHash = receipt.TxHash.Hex()
		rec.GasUsed = receipt.GasUsed
		rec.Status = receipt.Status
		if receipt.BlockNumber != nil {
			rec.BlockNumber = receipt.BlockNumber.Uint64()
		}
	}
	return rec, nil
}

type Journal struct {
	db *gorm.DB
}

// OpenJournal opens (or creates) the sqlite journal at path. Use
// "file::memory:" for a throwaway journal.
func OpenJournal(path string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.AutoMigrate(&TxRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Record(rec *TxRecord) error {
	return j.db.Create(rec).Error
}

func (j *Journal) List(chainID uint64) ([]*TxRecord, error) {
	var records []*TxRecord
	err := j.db.Where("chain_id = ?", chainID).Order("rowid").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (j *Journal) TotalGasUsed(chainID uint64) (uint64, error) {
	var total *uint64
	err := j.db.Model(&TxRecord{}).Select("sum(gas_used) as total").Where("chain_id = ?", chainID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
