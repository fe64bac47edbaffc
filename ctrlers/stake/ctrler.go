package stake

import (
	"sync"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/ledger"
	"github.com/axismarkets/axis-go/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// StakeCtrler keeps per-account staking positions and the lifetime-rewards
// counters, and runs the pro-rata reward distribution path used by the
// revenue and tokenomics ctrlers.
type StakeCtrler struct {
	params *ctrlertypes.StakeParams

	positionLedger ledger.ILedger[*Position]

	oracle  ctrlertypes.IBalanceOracle
	gateway ctrlertypes.ILedgerGateway

	now    func() time.Time
	logger log.Logger
	mtx    sync.RWMutex
}

// UnstakeResult reports what was released on unstake.
type UnstakeResult struct {
	UnstakedAmount *uint256.Int
	Rewards        *uint256.Int
	Total          *uint256.Int
}

func NewStakeCtrler(params *ctrlertypes.StakeParams, dbDir string,
	oracle ctrlertypes.IBalanceOracle, gateway ctrlertypes.ILedgerGateway,
	logger log.Logger) (*StakeCtrler, xerrors.XError) {

	newPositionProvider := func() *Position { return &Position{} }

	positionLedger, xerr := ledger.NewSimpleLedger[*Position]("positions", dbDir, 1024, newPositionProvider)
	if xerr != nil {
		return nil, xerr
	}

	return &StakeCtrler{
		params:         params,
		positionLedger: positionLedger,
		oracle:         oracle,
		gateway:        gateway,
		now:            time.Now,
		logger:         logger.With("module", "axis_StakeCtrler"),
	}, nil
}

// Stake locks `amount` into the staking pool. The APY is fixed at stake
// time by linear interpolation over the lock period.
func (ctrler *StakeCtrler) Stake(owner types.Address, class ctrlertypes.StakeClass,
	amount *uint256.Int, lockDays int64) (*Position, xerrors.XError) {

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	terms := ctrler.params.TermsOf(class)
	if terms == nil {
		return nil, xerrors.New("unknown stake class")
	}
	if amount.Cmp(terms.MinStake) < 0 {
		return nil, xerrors.ErrBelowMinimumStake.Wrapf(
			"amount:%v, minimum:%v, class:%v", amount.Dec(), terms.MinStake.Dec(), class)
	}
	if lockDays < ctrler.params.MinLockDays() || lockDays > ctrler.params.MaxLockDays() {
		return nil, xerrors.ErrInvalidLockPeriod.Wrapf(
			"lockDays:%d, range:[%d,%d]", lockDays, ctrler.params.MinLockDays(), ctrler.params.MaxLockDays())
	}

	balance, xerr := ctrler.oracle.TokenBalanceOf(owner)
	if xerr != nil {
		return nil, xerr
	}
	if balance.Cmp(amount) < 0 {
		return nil, xerrors.ErrInsufficientBalance.Wrapf("balance:%v, amount:%v", balance.Dec(), amount.Dec())
	}

	apy, xerr := ctrler.params.APYOf(class, lockDays)
	if xerr != nil {
		return nil, xerr
	}

	// read the current position before the escrow transfer so a ledger
	// fault fails fast with no external side effect
	pos, xerr := ctrler.positionOf(owner)
	if xerr != nil {
		return nil, xerr
	}

	if _, xerr := ctrler.gateway.Transfer(owner, ctrler.params.PoolAddr(), amount, ctrler.params.AssetRef()); xerr != nil {
		return nil, xerr
	}

	now := ctrler.now()
	pos.Class = class
	pos.StakedAmount = new(uint256.Int).Add(pos.StakedAmount, amount)
	pos.LockDays = lockDays
	pos.StartAt = now
	pos.EndAt = now.Add(time.Duration(lockDays) * 24 * time.Hour)
	pos.APY = apy
	pos.Active = true

	if xerr := ctrler.setPosition(pos); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Info("Stake tokens",
		"owner", owner, "class", class.String(), "amount", amount.Dec(), "lockDays", lockDays, "apy", apy)
	return pos, nil
}

// Unstake releases the whole staked balance plus full-term rewards.
// Elapsed time is not prorated.
func (ctrler *StakeCtrler) Unstake(owner types.Address, class ctrlertypes.StakeClass) (*UnstakeResult, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	pos, xerr := ctrler.positionOf(owner)
	if xerr != nil {
		return nil, xerr
	}
	if pos.StakedAmount.IsZero() || pos.Class != class {
		return nil, xerrors.ErrNothingStaked.Wrapf("owner:%v, class:%v", owner, class)
	}

	unstaked := new(uint256.Int).Set(pos.StakedAmount)
	rewards := pos.fullTermRewards()
	total := new(uint256.Int).Add(unstaked, rewards)

	if _, xerr := ctrler.gateway.Transfer(ctrler.params.PoolAddr(), owner, total, ctrler.params.AssetRef()); xerr != nil {
		return nil, xerr
	}

	pos.StakedAmount = uint256.NewInt(0)
	pos.AccruedRewards = uint256.NewInt(0)
	pos.LifetimeRewards = new(uint256.Int).Add(pos.LifetimeRewards, rewards)
	pos.Active = false

	if xerr := ctrler.setPosition(pos); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Info("Unstake tokens",
		"owner", owner, "unstaked", unstaked.Dec(), "rewards", rewards.Dec())
	return &UnstakeResult{
		UnstakedAmount: unstaked,
		Rewards:        rewards,
		Total:          total,
	}, nil
}

// DistributeRewards splits totalRewards pro rata over every account with a
// non-zero staked balance and transfers each share from the treasury. A
// failed transfer is reported in its recipient's StepResult and does not
// roll back the recipients already processed.
func (ctrler *StakeCtrler) DistributeRewards(totalRewards *uint256.Int) ([]*ctrlertypes.StepResult, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if totalRewards == nil || totalRewards.IsZero() {
		return nil, nil
	}

	var stakers []*Position
	totalStaked := uint256.NewInt(0)
	xerr := ctrler.positionLedger.IterateAllItems(func(pos *Position) xerrors.XError {
		if !pos.StakedAmount.IsZero() {
			stakers = append(stakers, pos)
			totalStaked.Add(totalStaked, pos.StakedAmount)
		}
		return nil
	})
	if xerr != nil {
		return nil, xerr
	}
	if totalStaked.IsZero() {
		return nil, xerrors.ErrNothingStaked
	}

	var results []*ctrlertypes.StepResult
	for _, pos := range stakers {
		share := new(uint256.Int).Mul(totalRewards, pos.StakedAmount)
		share.Div(share, totalStaked)
		if share.IsZero() {
			continue
		}

		res := &ctrlertypes.StepResult{
			Name:   "staker-reward",
			To:     pos.Owner,
			Amount: share,
		}
		txID, xerr := ctrler.gateway.Transfer(ctrler.params.TreasuryAddr(), pos.Owner, share, ctrler.params.AssetRef())
		if xerr != nil {
			res.Err = xerr
			ctrler.logger.Error("Distribute rewards", "owner", pos.Owner, "share", share.Dec(), "error", xerr)
			results = append(results, res)
			continue
		}
		res.TxID = txID

		pos.AccruedRewards = new(uint256.Int).Add(pos.AccruedRewards, share)
		pos.LifetimeRewards = new(uint256.Int).Add(pos.LifetimeRewards, share)
		if xerr := ctrler.setPosition(pos); xerr != nil {
			res.Err = xerr
		}
		results = append(results, res)
	}

	ctrler.logger.Info("Distribute rewards", "total", totalRewards.Dec(), "recipients", len(results))
	return results, nil
}

// positionOf treats a missing record as a fresh position; any other read
// failure is propagated so a transient ledger fault can not erase an
// account's recorded stake.
func (ctrler *StakeCtrler) positionOf(owner types.Address) (*Position, xerrors.XError) {
	pos, xerr := ctrler.positionLedger.Get(ledger.ToLedgerKey(owner))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return NewPosition(owner), nil
		}
		return nil, xerr
	}
	return pos, nil
}

func (ctrler *StakeCtrler) setPosition(pos *Position) xerrors.XError {
	if xerr := ctrler.positionLedger.Set(pos); xerr != nil {
		return xerr
	}
	_, _, xerr := ctrler.positionLedger.Commit()
	return xerr
}

func (ctrler *StakeCtrler) PositionOf(owner types.Address) (*Position, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	pos, xerr := ctrler.positionLedger.Get(ledger.ToLedgerKey(owner))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrNothingStaked
		}
		return nil, xerr
	}
	return pos, nil
}

func (ctrler *StakeCtrler) StakedOf(owner types.Address) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	pos, xerr := ctrler.positionOf(owner)
	if xerr != nil {
		return nil, xerr
	}
	return pos.StakedAmount, nil
}

func (ctrler *StakeCtrler) TotalStaked() (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	total := uint256.NewInt(0)
	if xerr := ctrler.positionLedger.IterateAllItems(func(pos *Position) xerrors.XError {
		total.Add(total, pos.StakedAmount)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return total, nil
}

func (ctrler *StakeCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.positionLedger != nil {
		if xerr := ctrler.positionLedger.Close(); xerr != nil {
			ctrler.logger.Error("positionLedger.Close()", "error", xerr.Error())
		}
		ctrler.positionLedger = nil
	}
	return nil
}

var _ ctrlertypes.IRewardDistributor = (*StakeCtrler)(nil)
