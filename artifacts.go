package tickets404

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract as written by hardhat.
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

func ParseArtifact(raw []byte) (*Artifact, error) {
	var h hardhatArtifact
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(bytes.NewReader(h.ABI))
	if err != nil {
		return nil, fmt.Errorf("abi of %s: %w", h.ContractName, err)
	}
	code, err := hexutil.Decode(h.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("bytecode of %s: %w", h.ContractName, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%s has no bytecode, is it abstract?", h.ContractName)
	}
	return &Artifact{ContractName: h.ContractName, ABI: parsed, Bytecode: code}, nil
}

// DeployData is the creation code followed by the packed constructor args.
func (a *Artifact) DeployData(args ...interface{}) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("constructor of %s: %w", a.ContractName, err)
	}
	data := make([]byte, 0, len(a.Bytecode)+len(packed))
	data = append(data, a.Bytecode...)
	return append(data, packed...), nil
}

type ArtifactStore interface {
	Artifact(name string) (*Artifact, error)
}

// ArtifactDir finds <name>.json anywhere below Dir, skipping hardhat's .dbg.json files.
type ArtifactDir struct {
	Dir string
}

func (d ArtifactDir) Artifact(name string) (*Artifact, error) {
	var found string
	err := filepath.WalkDir(d.Dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		if filepath.Base(path) == name+".json" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == "" {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownArtifact, name, d.Dir)
	}
	raw, err := os.ReadFile(found)
	if err != nil {
		return nil, err
	}
	return ParseArtifact(raw)
}
