package types

import (
	"time"

	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
)

// IBalanceOracle answers balance queries against the token ledger.
type IBalanceOracle interface {
	TokenBalanceOf(types.Address) (*uint256.Int, xerrors.XError)
	StakedBalanceOf(types.Address) (*uint256.Int, xerrors.XError)
}

// ILedgerGateway performs the token-mutating operations of the external
// ledger and returns its opaque transaction identifiers. Transport and
// validation failures surface as ErrLedgerUnavailable / ErrLedgerRejected.
type ILedgerGateway interface {
	Transfer(from, to types.Address, amount *uint256.Int, assetRef string) (abytes.HexBytes, xerrors.XError)
	Burn(amount *uint256.Int) (abytes.HexBytes, xerrors.XError)
	Buyback(amount *uint256.Int) (abytes.HexBytes, xerrors.XError)
	ExecuteContractCall(targetRef, function string, args []byte) (abytes.HexBytes, xerrors.XError)
}

type ISupplyProvider interface {
	CirculatingSupply() (*uint256.Int, xerrors.XError)
}

// Payment is a completed-payment record as read from the payment ledger.
type Payment struct {
	FeeAmount *uint256.Int `json:"feeAmount"`
	Type      string       `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// IPaymentLedger is read-only to this core.
type IPaymentLedger interface {
	FindCompletedBetween(start, end time.Time) ([]*Payment, xerrors.XError)
}

// StepResult reports one step of a multi-step distribution. Steps are
// independent; a failed step never rolls back the ones before it, so
// callers must inspect each entry rather than a single boolean.
type StepResult struct {
	Name   string          `json:"name"`
	To     types.Address   `json:"to,omitempty"`
	Amount *uint256.Int    `json:"amount"`
	TxID   abytes.HexBytes `json:"txId,omitempty"`
	Err    xerrors.XError  `json:"-"`
}

func (r *StepResult) OK() bool {
	return r.Err == nil
}

// IRewardDistributor is how the revenue and tokenomics ctrlers reach the
// staking ledger's pro-rata distribution path.
type IRewardDistributor interface {
	DistributeRewards(total *uint256.Int) ([]*StepResult, xerrors.XError)
}
