package node

import (
	"context"
	"sync"
	"time"

	"github.com/axismarkets/axis-go/cmd/config"
	"github.com/axismarkets/axis-go/ctrlers/gov"
	"github.com/axismarkets/axis-go/ctrlers/revenue"
	"github.com/axismarkets/axis-go/ctrlers/stake"
	"github.com/axismarkets/axis-go/ctrlers/tokenomics"
	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

// Collaborators are the external-system adapters the ctrlers run against.
// The daemon caller constructs them; the core never reaches outside these
// interfaces.
type Collaborators struct {
	Oracle   ctrlertypes.IBalanceOracle
	Supply   ctrlertypes.ISupplyProvider
	Gateway  ctrlertypes.ILedgerGateway
	Payments ctrlertypes.IPaymentLedger
}

// Node wires the ctrlers together and runs the periodic schedulers: the
// proposal status sweep and the buyback-and-burn cycle.
type Node struct {
	cfg *config.Config

	govCtrler   *gov.GovCtrler
	stakeCtrler *stake.StakeCtrler
	revCtrler   *revenue.RevenueCtrler
	tokCtrler   *tokenomics.TokenomicsCtrler

	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger log.Logger
}

func NewNode(cfg *config.Config, collab *Collaborators, logger log.Logger) (*Node, xerrors.XError) {
	govCtrler, xerr := gov.NewGovCtrler(
		ctrlertypes.DefaultGovParams(), cfg.DBDir, collab.Oracle, collab.Supply, collab.Gateway, logger)
	if xerr != nil {
		return nil, xerr
	}

	stakeCtrler, xerr := stake.NewStakeCtrler(
		ctrlertypes.DefaultStakeParams(), cfg.DBDir, collab.Oracle, collab.Gateway, logger)
	if xerr != nil {
		_ = govCtrler.Close()
		return nil, xerr
	}

	revCtrler := revenue.NewRevenueCtrler(
		ctrlertypes.DefaultFeeParams(), collab.Payments, collab.Gateway, stakeCtrler, logger)
	tokCtrler := tokenomics.NewTokenomicsCtrler(
		ctrlertypes.DefaultTokenomicsParams(), revCtrler, collab.Gateway, stakeCtrler, logger)

	return &Node{
		cfg:         cfg,
		govCtrler:   govCtrler,
		stakeCtrler: stakeCtrler,
		revCtrler:   revCtrler,
		tokCtrler:   tokCtrler,
		logger:      logger.With("module", "axis_Node"),
	}, nil
}

func (n *Node) GovCtrler() *gov.GovCtrler                    { return n.govCtrler }
func (n *Node) StakeCtrler() *stake.StakeCtrler              { return n.stakeCtrler }
func (n *Node) RevenueCtrler() *revenue.RevenueCtrler        { return n.revCtrler }
func (n *Node) TokenomicsCtrler() *tokenomics.TokenomicsCtrler { return n.tokCtrler }

// Start launches the schedulers. They stop when ctx is canceled or Stop is
// called.
func (n *Node) Start(ctx context.Context) {
	ctx, n.cancel = context.WithCancel(ctx)

	n.wg.Add(2)
	go n.runSweeper(ctx)
	go n.runBuybackCycle(ctx)

	n.logger.Info("Start node",
		"dbDir", n.cfg.DBDir, "sweepInterval", n.cfg.SweepInterval, "buybackInterval", n.cfg.BuybackInterval)
}

func (n *Node) runSweeper(ctx context.Context) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passed, rejected, xerr := n.govCtrler.UpdateProposalStatuses()
			if xerr != nil {
				n.logger.Error("Sweep proposal statuses", "error", xerr)
				continue
			}
			if len(passed)+len(rejected) > 0 {
				n.logger.Info("Sweep proposal statuses", "passed", len(passed), "rejected", len(rejected))
			}
		}
	}
}

func (n *Node) runBuybackCycle(ctx context.Context) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.cfg.BuybackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle, xerr := n.tokCtrler.ExecuteBuybackAndBurn()
			if xerr != nil {
				n.logger.Error("Buyback cycle", "error", xerr)
				continue
			}
			n.logger.Info("Buyback cycle",
				"revenue", cycle.TotalRevenue.Dec(), "buyback", cycle.BuybackAmount.Dec(), "steps", len(cycle.Steps))
		}
	}
}

// Stop halts the schedulers and closes the ledgers.
func (n *Node) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()

	if xerr := n.govCtrler.Close(); xerr != nil {
		n.logger.Error("govCtrler.Close()", "error", xerr.Error())
	}
	if xerr := n.stakeCtrler.Close(); xerr != nil {
		n.logger.Error("stakeCtrler.Close()", "error", xerr.Error())
	}
	n.logger.Info("Stop node")
}
