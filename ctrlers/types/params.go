package types

import (
	"encoding/json"
	"time"

	"github.com/axismarkets/axis-go/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
)

// GovParams is the immutable governance parameter set.
// A new set only takes effect through a passed parameter-change proposal.
type GovParams struct {
	minProposalStake   *uint256.Int
	quorumPercent      int64
	defaultVotingDays  int64
	minVotingDays      int64
	maxVotingDays      int64
	executionDelay     time.Duration
}

func DefaultGovParams() *GovParams {
	return &GovParams{
		minProposalStake:  uint256.MustFromDecimal("10000000000000000000000"), // 10,000 AXIS
		quorumPercent:     10,
		defaultVotingDays: 7,
		minVotingDays:     1,
		maxVotingDays:     30,
		executionDelay:    48 * time.Hour,
	}
}

func Test1GovParams() *GovParams {
	return &GovParams{
		minProposalStake:  uint256.NewInt(10_000),
		quorumPercent:     10,
		defaultVotingDays: 7,
		minVotingDays:     1,
		maxVotingDays:     30,
		executionDelay:    time.Hour,
	}
}

func (p *GovParams) MinProposalStake() *uint256.Int { return new(uint256.Int).Set(p.minProposalStake) }
func (p *GovParams) QuorumPercent() int64           { return p.quorumPercent }
func (p *GovParams) DefaultVotingDays() int64       { return p.defaultVotingDays }
func (p *GovParams) MinVotingDays() int64           { return p.minVotingDays }
func (p *GovParams) MaxVotingDays() int64           { return p.maxVotingDays }
func (p *GovParams) ExecutionDelay() time.Duration  { return p.executionDelay }

type govParamsWire struct {
	MinProposalStake  string `json:"minProposalStake"`
	QuorumPercent     int64  `json:"quorumPercent"`
	DefaultVotingDays int64  `json:"defaultVotingDays"`
	MinVotingDays     int64  `json:"minVotingDays"`
	MaxVotingDays     int64  `json:"maxVotingDays"`
	ExecutionDelaySec int64  `json:"executionDelaySec"`
}

func (p *GovParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(&govParamsWire{
		MinProposalStake:  p.minProposalStake.Dec(),
		QuorumPercent:     p.quorumPercent,
		DefaultVotingDays: p.defaultVotingDays,
		MinVotingDays:     p.minVotingDays,
		MaxVotingDays:     p.maxVotingDays,
		ExecutionDelaySec: int64(p.executionDelay / time.Second),
	})
}

func (p *GovParams) UnmarshalJSON(bz []byte) error {
	w := &govParamsWire{}
	if err := json.Unmarshal(bz, w); err != nil {
		return err
	}
	stake, err := uint256.FromDecimal(w.MinProposalStake)
	if err != nil {
		return err
	}
	p.minProposalStake = stake
	p.quorumPercent = w.QuorumPercent
	p.defaultVotingDays = w.DefaultVotingDays
	p.minVotingDays = w.MinVotingDays
	p.maxVotingDays = w.MaxVotingDays
	p.executionDelay = time.Duration(w.ExecutionDelaySec) * time.Second
	return nil
}

// StakeClass partitions staking positions; each class carries its own
// minimum stake and APY band.
type StakeClass int32

const (
	STAKE_ATTESTOR StakeClass = 1 + iota
	STAKE_VALIDATOR
	STAKE_LIQUIDITY
	STAKE_GOVERNANCE
)

func (c StakeClass) String() string {
	switch c {
	case STAKE_ATTESTOR:
		return "attestor"
	case STAKE_VALIDATOR:
		return "validator"
	case STAKE_LIQUIDITY:
		return "liquidity"
	case STAKE_GOVERNANCE:
		return "governance"
	default:
		return "unknown"
	}
}

// ClassTerms holds the staking terms of one class.
// APY values are in centipercent: 2500 == 25.00%.
type ClassTerms struct {
	MinStake *uint256.Int `json:"minStake"`
	MinAPY   int64        `json:"minApy"`
	MaxAPY   int64        `json:"maxApy"`
}

type StakeParams struct {
	terms       map[StakeClass]*ClassTerms
	minLockDays int64
	maxLockDays int64

	poolAddr     types.Address
	treasuryAddr types.Address
	assetRef     string
}

func DefaultStakeParams() *StakeParams {
	_1e18 := uint256.NewInt(1_000000000_000000000)
	minOf := func(n uint64) *uint256.Int {
		return new(uint256.Int).Mul(uint256.NewInt(n), _1e18)
	}
	return &StakeParams{
		terms: map[StakeClass]*ClassTerms{
			STAKE_ATTESTOR:   {MinStake: minOf(10_000), MinAPY: 800, MaxAPY: 2500},
			STAKE_VALIDATOR:  {MinStake: minOf(50_000), MinAPY: 1200, MaxAPY: 3000},
			STAKE_LIQUIDITY:  {MinStake: minOf(1_000), MinAPY: 500, MaxAPY: 1500},
			STAKE_GOVERNANCE: {MinStake: minOf(5_000), MinAPY: 600, MaxAPY: 1800},
		},
		minLockDays:  30,
		maxLockDays:  365,
		poolAddr:     types.ModuleAddress("staking-pool"),
		treasuryAddr: types.ModuleAddress("treasury"),
		assetRef:     "AXIS",
	}
}

func Test1StakeParams() *StakeParams {
	return &StakeParams{
		terms: map[StakeClass]*ClassTerms{
			STAKE_ATTESTOR:   {MinStake: uint256.NewInt(10_000), MinAPY: 800, MaxAPY: 2500},
			STAKE_VALIDATOR:  {MinStake: uint256.NewInt(50_000), MinAPY: 1200, MaxAPY: 3000},
			STAKE_LIQUIDITY:  {MinStake: uint256.NewInt(1_000), MinAPY: 500, MaxAPY: 1500},
			STAKE_GOVERNANCE: {MinStake: uint256.NewInt(5_000), MinAPY: 600, MaxAPY: 1800},
		},
		minLockDays:  30,
		maxLockDays:  365,
		poolAddr:     types.ModuleAddress("staking-pool"),
		treasuryAddr: types.ModuleAddress("treasury"),
		assetRef:     "AXIS",
	}
}

func (p *StakeParams) TermsOf(c StakeClass) *ClassTerms {
	return p.terms[c]
}

func (p *StakeParams) MinLockDays() int64        { return p.minLockDays }
func (p *StakeParams) MaxLockDays() int64        { return p.maxLockDays }
func (p *StakeParams) PoolAddr() types.Address   { return p.poolAddr }
func (p *StakeParams) TreasuryAddr() types.Address { return p.treasuryAddr }
func (p *StakeParams) AssetRef() string          { return p.assetRef }

// APYOf interpolates the APY of a class linearly over the lock period,
// rounded half-up to centipercent. APYOf(c, maxLockDays) == MaxAPY exactly.
func (p *StakeParams) APYOf(c StakeClass, lockDays int64) (int64, xerrors.XError) {
	terms := p.terms[c]
	if terms == nil {
		return 0, xerrors.New("unknown stake class")
	}
	if lockDays < p.minLockDays || lockDays > p.maxLockDays {
		return 0, xerrors.ErrInvalidLockPeriod.Wrapf("lockDays:%d, range:[%d,%d]", lockDays, p.minLockDays, p.maxLockDays)
	}
	span := terms.MaxAPY - terms.MinAPY
	num := span*lockDays*2 + p.maxLockDays // half-up rounding
	return terms.MinAPY + num/(p.maxLockDays*2), nil
}

// FeeParams fixes the revenue split. The four primary shares must sum to
// 100; the integer-division remainder goes to treasury. The burn share is
// computed from the same base but is not part of the partition.
type FeeParams struct {
	treasuryPct   int64
	stakersPct    int64
	insurancePct  int64
	validatorsPct int64
	burnPct       int64

	collectorAddr     types.Address
	treasuryAddr      types.Address
	insuranceAddr     types.Address
	validatorPoolAddr types.Address
	assetRef          string
}

func DefaultFeeParams() *FeeParams {
	return &FeeParams{
		treasuryPct:       40,
		stakersPct:        30,
		insurancePct:      20,
		validatorsPct:     10,
		burnPct:           25,
		collectorAddr:     types.ModuleAddress("fee-collector"),
		treasuryAddr:      types.ModuleAddress("treasury"),
		insuranceAddr:     types.ModuleAddress("insurance-fund"),
		validatorPoolAddr: types.ModuleAddress("validator-pool"),
		assetRef:          "AXIS",
	}
}

func (p *FeeParams) TreasuryPct() int64   { return p.treasuryPct }
func (p *FeeParams) StakersPct() int64    { return p.stakersPct }
func (p *FeeParams) InsurancePct() int64  { return p.insurancePct }
func (p *FeeParams) ValidatorsPct() int64 { return p.validatorsPct }
func (p *FeeParams) BurnPct() int64       { return p.burnPct }

func (p *FeeParams) CollectorAddr() types.Address     { return p.collectorAddr }
func (p *FeeParams) TreasuryAddr() types.Address      { return p.treasuryAddr }
func (p *FeeParams) InsuranceAddr() types.Address     { return p.insuranceAddr }
func (p *FeeParams) ValidatorPoolAddr() types.Address { return p.validatorPoolAddr }
func (p *FeeParams) AssetRef() string                 { return p.assetRef }

// TokenomicsParams fixes the buyback-and-burn cycle rates, all applied
// as percentages: buyback from monthly revenue, burn and staker rewards
// from the buyback amount.
type TokenomicsParams struct {
	buybackPct      int64
	burnPct         int64
	stakerRewardPct int64
}

func DefaultTokenomicsParams() *TokenomicsParams {
	return &TokenomicsParams{
		buybackPct:      50,
		burnPct:         25,
		stakerRewardPct: 25,
	}
}

func (p *TokenomicsParams) BuybackPct() int64      { return p.buybackPct }
func (p *TokenomicsParams) BurnPct() int64         { return p.burnPct }
func (p *TokenomicsParams) StakerRewardPct() int64 { return p.stakerRewardPct }
