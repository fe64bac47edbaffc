package tokenomics

import (
	"sync"
	"time"

	"github.com/axismarkets/axis-go/ctrlers/revenue"
	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// Cycle summarizes one buyback-and-burn run.
type Cycle struct {
	TotalRevenue  *uint256.Int `json:"totalRevenue"`
	BuybackAmount *uint256.Int `json:"buybackAmount"`
	BurnAmount    *uint256.Int `json:"burnAmount"`
	StakerRewards *uint256.Int `json:"stakerRewards"`
	Timestamp     time.Time    `json:"timestamp"`

	Steps []*ctrlertypes.StepResult `json:"steps"`
}

// TokenomicsCtrler drives the periodic buyback-and-burn cycle over the
// revenue accountant, the ledger gateway and the staking distribution path.
type TokenomicsCtrler struct {
	params *ctrlertypes.TokenomicsParams

	accountant  *revenue.RevenueCtrler
	gateway     ctrlertypes.ILedgerGateway
	distributor ctrlertypes.IRewardDistributor

	now    func() time.Time
	logger log.Logger
	mtx    sync.Mutex
}

func NewTokenomicsCtrler(params *ctrlertypes.TokenomicsParams,
	accountant *revenue.RevenueCtrler, gateway ctrlertypes.ILedgerGateway,
	distributor ctrlertypes.IRewardDistributor, logger log.Logger) *TokenomicsCtrler {

	return &TokenomicsCtrler{
		params:      params,
		accountant:  accountant,
		gateway:     gateway,
		distributor: distributor,
		now:         time.Now,
		logger:      logger.With("module", "axis_TokenomicsCtrler"),
	}
}

// ExecuteBuybackAndBurn runs one cycle: buyback = monthly revenue x
// buybackPct, burn and staker rewards each carved from the buyback amount.
// The buyback, burn and reward calls are independent; a failed call is
// recorded in its StepResult and the later calls are still attempted.
func (ctrler *TokenomicsCtrler) ExecuteBuybackAndBurn() (*Cycle, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	monthly, xerr := ctrler.accountant.RevenueOf(revenue.TIMEFRAME_MONTHLY)
	if xerr != nil {
		return nil, xerr
	}

	pctOf := func(base *uint256.Int, pct int64) *uint256.Int {
		v := new(uint256.Int).Mul(base, uint256.NewInt(uint64(pct)))
		return v.Div(v, uint256.NewInt(100))
	}

	buyback := pctOf(monthly, ctrler.params.BuybackPct())
	burn := pctOf(buyback, ctrler.params.BurnPct())
	rewards := pctOf(buyback, ctrler.params.StakerRewardPct())

	cycle := &Cycle{
		TotalRevenue:  monthly,
		BuybackAmount: buyback,
		BurnAmount:    burn,
		StakerRewards: rewards,
		Timestamp:     ctrler.now(),
	}

	if !buyback.IsZero() {
		res := &ctrlertypes.StepResult{Name: "buyback", Amount: buyback}
		res.TxID, res.Err = ctrler.gateway.Buyback(buyback)
		cycle.Steps = append(cycle.Steps, res)
	}
	if !burn.IsZero() {
		res := &ctrlertypes.StepResult{Name: "burn", Amount: burn}
		res.TxID, res.Err = ctrler.gateway.Burn(burn)
		cycle.Steps = append(cycle.Steps, res)
	}
	if !rewards.IsZero() {
		res := &ctrlertypes.StepResult{Name: "staker-rewards", Amount: rewards}
		if _, xerr := ctrler.distributor.DistributeRewards(rewards); xerr != nil {
			res.Err = xerr
		}
		cycle.Steps = append(cycle.Steps, res)
	}

	for _, res := range cycle.Steps {
		if !res.OK() {
			ctrler.logger.Error("Buyback and burn", "step", res.Name, "amount", res.Amount.Dec(), "error", res.Err)
		}
	}
	ctrler.logger.Info("Buyback and burn",
		"revenue", monthly.Dec(), "buyback", buyback.Dec(), "burn", burn.Dec(), "rewards", rewards.Dec())
	return cycle, nil
}
