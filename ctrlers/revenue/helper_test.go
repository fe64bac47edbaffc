package revenue

import (
	"testing"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type paymentsHelper struct {
	payments []*ctrlertypes.Payment
}

func (h *paymentsHelper) add(fee uint64, ptype string, at time.Time) {
	h.payments = append(h.payments, &ctrlertypes.Payment{
		FeeAmount: uint256.NewInt(fee),
		Type:      ptype,
		CreatedAt: at,
	})
}

func (h *paymentsHelper) FindCompletedBetween(start, end time.Time) ([]*ctrlertypes.Payment, xerrors.XError) {
	var out []*ctrlertypes.Payment
	for _, p := range h.payments {
		if !p.CreatedAt.Before(start) && !p.CreatedAt.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

type gwCall struct {
	op     string
	to     types.Address
	amount *uint256.Int
}

type gatewayHelper struct {
	calls    []gwCall
	failStep string // "transfer:<to hex>" or "burn"
}

func (h *gatewayHelper) Transfer(from, to types.Address, amount *uint256.Int, assetRef string) (abytes.HexBytes, xerrors.XError) {
	if h.failStep == "transfer:"+to.String() {
		return nil, xerrors.ErrLedgerUnavailable
	}
	h.calls = append(h.calls, gwCall{op: "transfer", to: to, amount: amount.Clone()})
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) Burn(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	if h.failStep == "burn" {
		return nil, xerrors.ErrLedgerRejected
	}
	h.calls = append(h.calls, gwCall{op: "burn", amount: amount.Clone()})
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) Buyback(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	h.calls = append(h.calls, gwCall{op: "buyback", amount: amount.Clone()})
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) ExecuteContractCall(targetRef, function string, args []byte) (abytes.HexBytes, xerrors.XError) {
	return abytes.RandBytes(32), nil
}

type distributorHelper struct {
	totals []*uint256.Int
	fail   xerrors.XError
}

func (h *distributorHelper) DistributeRewards(total *uint256.Int) ([]*ctrlertypes.StepResult, xerrors.XError) {
	if h.fail != nil {
		return nil, h.fail
	}
	h.totals = append(h.totals, total.Clone())
	return []*ctrlertypes.StepResult{{Name: "staker-reward", Amount: total.Clone()}}, nil
}

type testEnv struct {
	ctrler      *RevenueCtrler
	payments    *paymentsHelper
	gw          *gatewayHelper
	distributor *distributorHelper
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	payments := &paymentsHelper{}
	gw := &gatewayHelper{}
	distributor := &distributorHelper{}

	ctrler := NewRevenueCtrler(ctrlertypes.DefaultFeeParams(), payments, gw, distributor, tmlog.NewNopLogger())

	env := &testEnv{ctrler: ctrler, payments: payments, gw: gw, distributor: distributor,
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ctrler.now = func() time.Time { return env.now }
	return env
}

var _ ctrlertypes.IPaymentLedger = (*paymentsHelper)(nil)
var _ ctrlertypes.ILedgerGateway = (*gatewayHelper)(nil)
var _ ctrlertypes.IRewardDistributor = (*distributorHelper)(nil)
