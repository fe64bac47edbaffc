package proposal

import (
	"encoding/json"

	"github.com/axismarkets/axis-go/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Execution option payloads, one per proposal type. The raw parameters
// travel with the proposal as opaque JSON and are decoded only at
// execution time by the matching handler.

type ParamChangeOption struct {
	TargetRef string          `json:"targetRef"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
}

type AssetTypeOption struct {
	RegistryRef string `json:"registryRef"`
	Name        string `json:"name"`
	Schema      string `json:"schema"`
}

type OracleChangeOption struct {
	OracleRef string        `json:"oracleRef"`
	NewOracle types.Address `json:"newOracle"`
}

type TreasuryAllocOption struct {
	Treasury  types.Address `json:"treasury"`
	Recipient types.Address `json:"recipient"`
	Amount    *uint256.Int  `json:"amount"`
	AssetRef  string        `json:"assetRef"`
}

type ProtocolUpgradeOption struct {
	TargetRef string `json:"targetRef"`
	Version   string `json:"version"`
	CodeHash  string `json:"codeHash"`
}

func DecodeOption[T any](params json.RawMessage) (*T, xerrors.XError) {
	opt := new(T)
	if err := json.Unmarshal(params, opt); err != nil {
		return nil, xerrors.ErrExecutionFailed.Wrapf("malformed execution parameters: %v", err)
	}
	return opt, nil
}
