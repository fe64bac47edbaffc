package node

import (
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// NoopCollaborators returns logging stand-ins for every external adapter.
// Useful for local runs before the real ledger and payment backends are
// wired in: transfers succeed with random tx ids, balances and supply are
// zero, the payment ledger is empty.
func NoopCollaborators(logger log.Logger) *Collaborators {
	l := logger.With("module", "axis_NoopGateway")
	return &Collaborators{
		Oracle:   &noopOracle{},
		Supply:   &noopSupply{},
		Gateway:  &noopGateway{logger: l},
		Payments: &noopPayments{},
	}
}

type noopOracle struct{}

func (o *noopOracle) TokenBalanceOf(types.Address) (*uint256.Int, xerrors.XError) {
	return uint256.NewInt(0), nil
}
func (o *noopOracle) StakedBalanceOf(types.Address) (*uint256.Int, xerrors.XError) {
	return uint256.NewInt(0), nil
}

type noopSupply struct{}

func (s *noopSupply) CirculatingSupply() (*uint256.Int, xerrors.XError) {
	return uint256.NewInt(0), nil
}

type noopGateway struct {
	logger log.Logger
}

func (g *noopGateway) Transfer(from, to types.Address, amount *uint256.Int, assetRef string) (abytes.HexBytes, xerrors.XError) {
	g.logger.Info("Transfer", "from", from, "to", to, "amount", amount.Dec(), "asset", assetRef)
	return abytes.RandHexBytes(32), nil
}

func (g *noopGateway) Burn(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	g.logger.Info("Burn", "amount", amount.Dec())
	return abytes.RandHexBytes(32), nil
}

func (g *noopGateway) Buyback(amount *uint256.Int) (abytes.HexBytes, xerrors.XError) {
	g.logger.Info("Buyback", "amount", amount.Dec())
	return abytes.RandHexBytes(32), nil
}

func (g *noopGateway) ExecuteContractCall(targetRef, function string, args []byte) (abytes.HexBytes, xerrors.XError) {
	g.logger.Info("ExecuteContractCall", "target", targetRef, "function", function, "args", len(args))
	return abytes.RandHexBytes(32), nil
}

type noopPayments struct{}

func (p *noopPayments) FindCompletedBetween(start, end time.Time) ([]*ctrlertypes.Payment, xerrors.XError) {
	return nil, nil
}

var _ ctrlertypes.IBalanceOracle = (*noopOracle)(nil)
var _ ctrlertypes.ISupplyProvider = (*noopSupply)(nil)
var _ ctrlertypes.ILedgerGateway = (*noopGateway)(nil)
var _ ctrlertypes.IPaymentLedger = (*noopPayments)(nil)
