package stake

import (
	"encoding/json"
	"time"

	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/ledger"
	"github.com/axismarkets/axis-go/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Position is the staking entry of one account. The staked amount
// accumulates across top-ups; class, lock period and APY follow the most
// recent stake call. LifetimeRewards survives unstaking.
type Position struct {
	Owner types.Address
	Class ctrlertypes.StakeClass

	StakedAmount *uint256.Int
	LockDays     int64
	StartAt      time.Time
	EndAt        time.Time
	APY          int64 // centipercent: 2500 == 25.00%

	AccruedRewards  *uint256.Int
	LifetimeRewards *uint256.Int
	Active          bool
}

func NewPosition(owner types.Address) *Position {
	return &Position{
		Owner:           owner,
		StakedAmount:    uint256.NewInt(0),
		AccruedRewards:  uint256.NewInt(0),
		LifetimeRewards: uint256.NewInt(0),
	}
}

func (p *Position) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(p.Owner)
}

// fullTermRewards applies the position's APY over its full lock period.
// Elapsed time is deliberately ignored: early unstaking still yields
// full-term rewards. Changing this alters financial outcomes.
func (p *Position) fullTermRewards() *uint256.Int {
	rewards := new(uint256.Int).Mul(p.StakedAmount, uint256.NewInt(uint64(p.APY)))
	return rewards.Div(rewards, uint256.NewInt(10_000))
}

type positionWire struct {
	Owner types.Address          `json:"owner"`
	Class ctrlertypes.StakeClass `json:"class"`

	StakedAmount string    `json:"stakedAmount"`
	LockDays     int64     `json:"lockDays"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
	APY          int64     `json:"apy"`

	AccruedRewards  string `json:"accruedRewards"`
	LifetimeRewards string `json:"lifetimeRewards"`
	Active          bool   `json:"active"`
}

func (p *Position) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(&positionWire{
		Owner:           p.Owner,
		Class:           p.Class,
		StakedAmount:    p.StakedAmount.Dec(),
		LockDays:        p.LockDays,
		StartAt:         p.StartAt,
		EndAt:           p.EndAt,
		APY:             p.APY,
		AccruedRewards:  p.AccruedRewards.Dec(),
		LifetimeRewards: p.LifetimeRewards.Dec(),
		Active:          p.Active,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (p *Position) Decode(bz []byte) xerrors.XError {
	w := &positionWire{}
	if err := json.Unmarshal(bz, w); err != nil {
		return xerrors.From(err)
	}

	staked, err := uint256.FromDecimal(w.StakedAmount)
	if err != nil {
		return xerrors.From(err)
	}
	accrued, err := uint256.FromDecimal(w.AccruedRewards)
	if err != nil {
		return xerrors.From(err)
	}
	lifetime, err := uint256.FromDecimal(w.LifetimeRewards)
	if err != nil {
		return xerrors.From(err)
	}

	p.Owner = w.Owner
	p.Class = w.Class
	p.StakedAmount = staked
	p.LockDays = w.LockDays
	p.StartAt = w.StartAt
	p.EndAt = w.EndAt
	p.APY = w.APY
	p.AccruedRewards = accrued
	p.LifetimeRewards = lifetime
	p.Active = w.Active
	return nil
}

var _ ledger.ILedgerItem = (*Position)(nil)
