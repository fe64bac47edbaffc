package gov

import (
	"sync"
	"testing"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type acctHelper struct {
	balances map[string]*uint256.Int
	staked   map[string]*uint256.Int
}

func newAcctHelper() *acctHelper {
	return &acctHelper{
		balances: make(map[string]*uint256.Int),
		staked:   make(map[string]*uint256.Int),
	}
}

func (h *acctHelper) setBalance(addr types.Address, amt uint64) {
	h.balances[addr.String()] = uint256.NewInt(amt)
}

func (h *acctHelper) setStaked(addr types.Address, amt uint64) {
	h.staked[addr.String()] = uint256.NewInt(amt)
}

func (h *acctHelper) TokenBalanceOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	if b, ok := h.balances[addr.String()]; ok {
		return b.Clone(), nil
	}
	return nil, xerrors.ErrNotFoundResult
}

func (h *acctHelper) StakedBalanceOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	if b, ok := h.staked[addr.String()]; ok {
		return b.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

type supplyHelper struct {
	supply *uint256.Int
}

func (h *supplyHelper) CirculatingSupply() (*uint256.Int, xerrors.XError) {
	return h.supply.Clone(), nil
}

type gwCall struct {
	op       string
	from, to types.Address
	amount   *uint256.Int
	target   string
	function string
}

type gatewayHelper struct {
	mtx   sync.Mutex
	calls []gwCall
	fail  xerrors.XError
}

func (h *gatewayHelper) record(c gwCall) (abytes.HexBytes, xerrors.XError) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.fail != nil {
		return nil, h.fail
	}
	h.calls = append(h.calls, c)
	return abytes.RandBytes(32), nil
}

func (h *gatewayHelper) Transfer(from, to types.Address, amount *uint256.Int, assetRef string) (abytes.HexBytes, xerrors.XError) {
	return h.record(gwCall{op: "transfer", from: from, to: to, amount: amount.Clone()})
}

func (h *gatewayHelper) Burn(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	return h.record(gwCall{op: "burn", amount: amount.Clone()})
}

func (h *gatewayHelper) Buyback(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	return h.record(gwCall{op: "buyback", amount: amount.Clone()})
}

func (h *gatewayHelper) ExecuteContractCall(targetRef, function string, args []byte) (abytes.HexBytes, xerrors.XError) {
	return h.record(gwCall{op: "contractCall", target: targetRef, function: function})
}

type testEnv struct {
	ctrler *GovCtrler
	accts  *acctHelper
	supply *supplyHelper
	gw     *gatewayHelper
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	accts := newAcctHelper()
	supply := &supplyHelper{supply: uint256.NewInt(1_000_000)}
	gw := &gatewayHelper{}

	ctrler, xerr := NewGovCtrler(ctrlertypes.Test1GovParams(), t.TempDir(), accts, supply, gw, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	t.Cleanup(func() { _ = ctrler.Close() })

	env := &testEnv{ctrler: ctrler, accts: accts, supply: supply, gw: gw,
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ctrler.now = func() time.Time { return env.now }
	return env
}

var _ ctrlertypes.IBalanceOracle = (*acctHelper)(nil)
var _ ctrlertypes.ISupplyProvider = (*supplyHelper)(nil)
var _ ctrlertypes.ILedgerGateway = (*gatewayHelper)(nil)
