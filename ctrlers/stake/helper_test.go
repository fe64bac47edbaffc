package stake

import (
	"testing"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/ledger"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type oracleHelper struct {
	balances map[string]*uint256.Int
}

func (h *oracleHelper) setBalance(addr types.Address, amt uint64) {
	h.balances[addr.String()] = uint256.NewInt(amt)
}

func (h *oracleHelper) TokenBalanceOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	if b, ok := h.balances[addr.String()]; ok {
		return b.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

func (h *oracleHelper) StakedBalanceOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	return uint256.NewInt(0), nil
}

type transfer struct {
	from, to types.Address
	amount   *uint256.Int
}

type gatewayHelper struct {
	transfers []transfer
	failTo    types.Address // fail transfers to this recipient
}

func (h *gatewayHelper) Transfer(from, to types.Address, amount *uint256.Int, assetRef string) (abytes.HexBytes, xerrors.XError) {
	if h.failTo != nil && to.Compare(h.failTo) == 0 {
		return nil, xerrors.ErrLedgerRejected
	}
	h.transfers = append(h.transfers, transfer{from: from, to: to, amount: amount.Clone()})
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) Burn(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) Buyback(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) ExecuteContractCall(targetRef, function string, args []byte) (abytes.HexBytes, xerrors.XError) {
	return abytes.RandBytes(32), nil
}

type testEnv struct {
	ctrler *StakeCtrler
	oracle *oracleHelper
	gw     *gatewayHelper
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	oracle := &oracleHelper{balances: make(map[string]*uint256.Int)}
	gw := &gatewayHelper{}

	ctrler, xerr := NewStakeCtrler(ctrlertypes.Test1StakeParams(), t.TempDir(), oracle, gw, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ctrler.Close() })

	env := &testEnv{ctrler: ctrler, oracle: oracle, gw: gw,
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ctrler.now = func() time.Time { return env.now }
	return env
}

// faultLedger wraps the real position ledger and fails reads on demand,
// standing in for a transient tree fault or a corrupt record.
type faultLedger struct {
	inner      ledger.ILedger[*Position]
	getErr     xerrors.XError
	iterateErr xerrors.XError
}

func (l *faultLedger) Set(pos *Position) xerrors.XError {
	return l.inner.Set(pos)
}

func (l *faultLedger) Get(key ledger.LedgerKey) (*Position, xerrors.XError) {
	if l.getErr != nil {
		return nil, l.getErr
	}
	return l.inner.Get(key)
}

func (l *faultLedger) Del(key ledger.LedgerKey) (*Position, xerrors.XError) {
	return l.inner.Del(key)
}

func (l *faultLedger) Read(key ledger.LedgerKey) (*Position, xerrors.XError) {
	return l.inner.Read(key)
}

func (l *faultLedger) IterateAllItems(cb func(*Position) xerrors.XError) xerrors.XError {
	if l.iterateErr != nil {
		return l.iterateErr
	}
	return l.inner.IterateAllItems(cb)
}

func (l *faultLedger) Commit() ([]byte, int64, xerrors.XError) {
	return l.inner.Commit()
}

func (l *faultLedger) Close() xerrors.XError {
	return l.inner.Close()
}

var _ ctrlertypes.IBalanceOracle = (*oracleHelper)(nil)
var _ ctrlertypes.ILedgerGateway = (*gatewayHelper)(nil)
var _ ledger.ILedger[*Position] = (*faultLedger)(nil)
