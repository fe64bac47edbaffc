package revenue

import (
	"math/big"
	"sync"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// Timeframe selects a fixed-duration revenue window anchored at now.
// Windows are calendar-naive: monthly is always 30 days, yearly 365.
type Timeframe string

const (
	TIMEFRAME_DAILY   Timeframe = "daily"
	TIMEFRAME_WEEKLY  Timeframe = "weekly"
	TIMEFRAME_MONTHLY Timeframe = "monthly"
	TIMEFRAME_YEARLY  Timeframe = "yearly"
)

func (tf Timeframe) window() (time.Duration, xerrors.XError) {
	switch tf {
	case TIMEFRAME_DAILY:
		return 24 * time.Hour, nil
	case TIMEFRAME_WEEKLY:
		return 7 * 24 * time.Hour, nil
	case TIMEFRAME_MONTHLY:
		return 30 * 24 * time.Hour, nil
	case TIMEFRAME_YEARLY:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, xerrors.New("unknown timeframe: " + string(tf))
	}
}

// Allocation is the fixed-percentage split of a fee total. Treasury,
// stakers, insurance and validators partition the total exactly, with the
// integer-division remainder assigned to treasury. Burn is computed from
// the same base but is NOT part of the partition; it is a separate
// directive and must not be subtracted from the other four.
type Allocation struct {
	Treasury   *uint256.Int `json:"treasury"`
	Stakers    *uint256.Int `json:"stakers"`
	Insurance  *uint256.Int `json:"insurance"`
	Validators *uint256.Int `json:"validators"`
	Burn       *uint256.Int `json:"burn"`
}

// TypeShare is one payment type's contribution to the monthly total.
type TypeShare struct {
	Total      *uint256.Int `json:"total"`
	PctOfTotal float64      `json:"pctOfTotal"`
}

// Metrics is the aggregate revenue report.
type Metrics struct {
	Daily   *uint256.Int `json:"daily"`
	Weekly  *uint256.Int `json:"weekly"`
	Monthly *uint256.Int `json:"monthly"`
	Yearly  *uint256.Int `json:"yearly"`

	ByType        map[string]*TypeShare `json:"byType"`
	MoMGrowthPct  float64               `json:"momGrowthPct"`
	AvgTxValue    *uint256.Int          `json:"avgTxValue"`
	MonthlyTxCnt  int64                 `json:"monthlyTxCount"`
}

// RevenueCtrler aggregates completed-payment fees and pushes the fixed
// split out through the ledger gateway.
type RevenueCtrler struct {
	params *ctrlertypes.FeeParams

	payments    ctrlertypes.IPaymentLedger
	gateway     ctrlertypes.ILedgerGateway
	distributor ctrlertypes.IRewardDistributor

	now    func() time.Time
	logger log.Logger
	mtx    sync.RWMutex
}

func NewRevenueCtrler(params *ctrlertypes.FeeParams,
	payments ctrlertypes.IPaymentLedger, gateway ctrlertypes.ILedgerGateway,
	distributor ctrlertypes.IRewardDistributor, logger log.Logger) *RevenueCtrler {

	return &RevenueCtrler{
		params:      params,
		payments:    payments,
		gateway:     gateway,
		distributor: distributor,
		now:         time.Now,
		logger:      logger.With("module", "axis_RevenueCtrler"),
	}
}

// RevenueOf sums completed-payment fees over [now - window, now].
func (ctrler *RevenueCtrler) RevenueOf(tf Timeframe) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	win, xerr := tf.window()
	if xerr != nil {
		return nil, xerr
	}
	now := ctrler.now()
	total, _, xerr := ctrler.sumBetween(now.Add(-win), now)
	return total, xerr
}

// toFloat is for reporting ratios only; token amounts stay in uint256.
func toFloat(v *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}

func (ctrler *RevenueCtrler) sumBetween(start, end time.Time) (*uint256.Int, []*ctrlertypes.Payment, xerrors.XError) {
	pays, xerr := ctrler.payments.FindCompletedBetween(start, end)
	if xerr != nil {
		return nil, nil, xerr
	}
	total := uint256.NewInt(0)
	for _, p := range pays {
		total.Add(total, p.FeeAmount)
	}
	return total, pays, nil
}

// Metrics reports the four window totals, the monthly per-type breakdown,
// month-over-month growth ((cur-prev)/prev * 100, zero when prev is zero)
// and the average monthly transaction value.
func (ctrler *RevenueCtrler) Metrics() (*Metrics, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	now := ctrler.now()
	day := 24 * time.Hour

	daily, _, xerr := ctrler.sumBetween(now.Add(-day), now)
	if xerr != nil {
		return nil, xerr
	}
	weekly, _, xerr := ctrler.sumBetween(now.Add(-7*day), now)
	if xerr != nil {
		return nil, xerr
	}
	monthly, monthPays, xerr := ctrler.sumBetween(now.Add(-30*day), now)
	if xerr != nil {
		return nil, xerr
	}
	yearly, _, xerr := ctrler.sumBetween(now.Add(-365*day), now)
	if xerr != nil {
		return nil, xerr
	}
	prevMonthly, _, xerr := ctrler.sumBetween(now.Add(-60*day), now.Add(-30*day))
	if xerr != nil {
		return nil, xerr
	}

	byType := make(map[string]*TypeShare)
	for _, p := range monthPays {
		share, ok := byType[p.Type]
		if !ok {
			share = &TypeShare{Total: uint256.NewInt(0)}
			byType[p.Type] = share
		}
		share.Total.Add(share.Total, p.FeeAmount)
	}
	if !monthly.IsZero() {
		monthlyF := toFloat(monthly)
		for _, share := range byType {
			share.PctOfTotal = toFloat(share.Total) / monthlyF * 100
		}
	}

	growth := float64(0)
	if !prevMonthly.IsZero() {
		growth = (toFloat(monthly) - toFloat(prevMonthly)) / toFloat(prevMonthly) * 100
	}

	avgTx := uint256.NewInt(0)
	if n := len(monthPays); n > 0 {
		avgTx = new(uint256.Int).Div(monthly, uint256.NewInt(uint64(n)))
	}

	return &Metrics{
		Daily:        daily,
		Weekly:       weekly,
		Monthly:      monthly,
		Yearly:       yearly,
		ByType:       byType,
		MoMGrowthPct: growth,
		AvgTxValue:   avgTx,
		MonthlyTxCnt: int64(len(monthPays)),
	}, nil
}

// Allocate splits totalRevenue by the configured percentages. The four
// primary shares sum to exactly totalRevenue; the remainder of the integer
// division goes to treasury. Burn is computed independently from the full
// base.
func (ctrler *RevenueCtrler) Allocate(totalRevenue *uint256.Int) *Allocation {
	pctOf := func(pct int64) *uint256.Int {
		v := new(uint256.Int).Mul(totalRevenue, uint256.NewInt(uint64(pct)))
		return v.Div(v, uint256.NewInt(100))
	}

	alloc := &Allocation{
		Treasury:   pctOf(ctrler.params.TreasuryPct()),
		Stakers:    pctOf(ctrler.params.StakersPct()),
		Insurance:  pctOf(ctrler.params.InsurancePct()),
		Validators: pctOf(ctrler.params.ValidatorsPct()),
		Burn:       pctOf(ctrler.params.BurnPct()),
	}

	distributed := new(uint256.Int).Add(alloc.Treasury, alloc.Stakers)
	distributed.Add(distributed, alloc.Insurance)
	distributed.Add(distributed, alloc.Validators)
	remainder := new(uint256.Int).Sub(totalRevenue, distributed)
	alloc.Treasury = new(uint256.Int).Add(alloc.Treasury, remainder)

	return alloc
}

// DistributeFees pushes one gateway call per non-zero bucket. The steps are
// independent: a failure is recorded in that bucket's StepResult and the
// remaining buckets are still attempted. Callers reconcile from the
// returned results.
func (ctrler *RevenueCtrler) DistributeFees(totalFees *uint256.Int) ([]*ctrlertypes.StepResult, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if totalFees == nil || totalFees.IsZero() {
		return nil, nil
	}

	alloc := ctrler.Allocate(totalFees)
	collector := ctrler.params.CollectorAddr()
	asset := ctrler.params.AssetRef()

	var results []*ctrlertypes.StepResult

	if !alloc.Treasury.IsZero() {
		res := &ctrlertypes.StepResult{Name: "treasury", To: ctrler.params.TreasuryAddr(), Amount: alloc.Treasury}
		res.TxID, res.Err = ctrler.gateway.Transfer(collector, ctrler.params.TreasuryAddr(), alloc.Treasury, asset)
		results = append(results, res)
	}
	if !alloc.Stakers.IsZero() {
		res := &ctrlertypes.StepResult{Name: "stakers", Amount: alloc.Stakers}
		if _, xerr := ctrler.distributor.DistributeRewards(alloc.Stakers); xerr != nil {
			res.Err = xerr
		}
		results = append(results, res)
	}
	if !alloc.Insurance.IsZero() {
		res := &ctrlertypes.StepResult{Name: "insurance", To: ctrler.params.InsuranceAddr(), Amount: alloc.Insurance}
		res.TxID, res.Err = ctrler.gateway.Transfer(collector, ctrler.params.InsuranceAddr(), alloc.Insurance, asset)
		results = append(results, res)
	}
	if !alloc.Validators.IsZero() {
		res := &ctrlertypes.StepResult{Name: "validators", To: ctrler.params.ValidatorPoolAddr(), Amount: alloc.Validators}
		res.TxID, res.Err = ctrler.gateway.Transfer(collector, ctrler.params.ValidatorPoolAddr(), alloc.Validators, asset)
		results = append(results, res)
	}
	if !alloc.Burn.IsZero() {
		res := &ctrlertypes.StepResult{Name: "burn", Amount: alloc.Burn}
		res.TxID, res.Err = ctrler.gateway.Burn(alloc.Burn)
		results = append(results, res)
	}

	for _, res := range results {
		if !res.OK() {
			ctrler.logger.Error("Distribute fees", "step", res.Name, "amount", res.Amount.Dec(), "error", res.Err)
		}
	}
	ctrler.logger.Info("Distribute fees", "total", totalFees.Dec(), "steps", len(results))
	return results, nil
}
