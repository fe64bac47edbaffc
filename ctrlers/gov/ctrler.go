package gov

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/axismarkets/axis-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/axismarkets/axis-go/ctrlers/types"
	"github.com/axismarkets/axis-go/ledger"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
)

// GovCtrler owns the proposal lifecycle: creation, vote casting, the
// periodic status sweep and type-dispatched execution. Voting weight is
// snapshotted from the balance oracle at cast time.
type GovCtrler struct {
	params *ctrlertypes.GovParams

	proposalLedger *ledger.SimpleLedger[*proposal.Proposal]

	oracle  ctrlertypes.IBalanceOracle
	supply  ctrlertypes.ISupplyProvider
	gateway ctrlertypes.ILedgerGateway

	now    func() time.Time
	logger log.Logger
	mtx    sync.RWMutex
}

func NewGovCtrler(params *ctrlertypes.GovParams, dbDir string,
	oracle ctrlertypes.IBalanceOracle, supply ctrlertypes.ISupplyProvider, gateway ctrlertypes.ILedgerGateway,
	logger log.Logger) (*GovCtrler, xerrors.XError) {

	newProposalProvider := func() *proposal.Proposal { return &proposal.Proposal{} }

	proposalLedger, xerr := ledger.NewSimpleLedger[*proposal.Proposal]("proposals", dbDir, 1024, newProposalProvider)
	if xerr != nil {
		return nil, xerr
	}

	return &GovCtrler{
		params:         params,
		proposalLedger: proposalLedger,
		oracle:         oracle,
		supply:         supply,
		gateway:        gateway,
		now:            time.Now,
		logger:         logger.With("module", "axis_GovCtrler"),
	}, nil
}

func proposalID(proposer types.Address, title string, at time.Time) abytes.HexBytes {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(at.UnixNano()))
	return ethcrypto.Keccak256(proposer, []byte(title), ts[:])
}

// CreateProposal opens voting immediately. The quorum requirement is a
// snapshot of circulating supply at creation and is not re-read later.
func (ctrler *GovCtrler) CreateProposal(proposer types.Address, propType int32, title, description string,
	execParams json.RawMessage, votingDays int64) (*proposal.Proposal, xerrors.XError) {

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch propType {
	case proposal.PROPOSAL_PARAM_CHANGE, proposal.PROPOSAL_ASSET_TYPE, proposal.PROPOSAL_ORACLE_CHANGE,
		proposal.PROPOSAL_TREASURY_ALLOC, proposal.PROPOSAL_PROTOCOL_UPGRADE:
	default:
		return nil, xerrors.ErrUnknownProposalType.Wrapf("type:%d", propType)
	}

	balance, xerr := ctrler.oracle.TokenBalanceOf(proposer)
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrProposerNotFound.Wrapf("proposer:%v", proposer)
		}
		return nil, xerr
	}
	if balance.Cmp(ctrler.params.MinProposalStake()) < 0 {
		return nil, xerrors.ErrInsufficientStake.Wrapf(
			"balance:%v, required:%v", balance.Dec(), ctrler.params.MinProposalStake().Dec())
	}

	if votingDays == 0 {
		votingDays = ctrler.params.DefaultVotingDays()
	}
	if votingDays < ctrler.params.MinVotingDays() || votingDays > ctrler.params.MaxVotingDays() {
		return nil, xerrors.New("voting period is out of range")
	}

	circulating, xerr := ctrler.supply.CirculatingSupply()
	if xerr != nil {
		return nil, xerr
	}
	quorum := new(uint256.Int).Mul(circulating, uint256.NewInt(uint64(ctrler.params.QuorumPercent())))
	quorum.Div(quorum, uint256.NewInt(100))

	now := ctrler.now()
	prop := proposal.NewProposal(
		proposalID(proposer, title, now), proposer, propType, title, description,
		execParams, now, now.Add(time.Duration(votingDays)*24*time.Hour), quorum)

	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return nil, xerr
	}
	if _, _, xerr := ctrler.proposalLedger.Commit(); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Info("Create proposal",
		"id", prop.ID, "proposer", proposer,
		"type", proposal.ProposalTypeName(propType), "votingEnd", prop.VotingEnd)
	return prop, nil
}

// CastVote snapshots the voter's token balance as the vote weight. The
// (proposal, voter) uniqueness check runs under the ctrler lock, so two
// racing casts from the same voter cannot both pass it.
func (ctrler *GovCtrler) CastVote(voter types.Address, propID abytes.HexBytes, choice proposal.Choice) (*proposal.Vote, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKey(propID))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal.Wrapf("id:%v", propID)
		}
		return nil, xerr
	}

	now := ctrler.now()
	if prop.Status != proposal.STATUS_ACTIVE || now.After(prop.VotingEnd) {
		return nil, xerrors.ErrVotingClosed
	}
	if prop.HasVoted(voter) {
		return nil, xerrors.ErrDuplicateVote
	}
	if !choice.Valid() {
		return nil, xerrors.New("invalid vote choice")
	}

	weight, xerr := ctrler.oracle.TokenBalanceOf(voter)
	if xerr != nil {
		// a voter with no account has no voting power
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrNoVotingPower.Wrapf("voter:%v", voter)
		}
		return nil, xerr
	}
	if weight.IsZero() {
		return nil, xerrors.ErrNoVotingPower
	}

	v := &proposal.Vote{
		Voter:  voter,
		Choice: choice,
		Weight: weight,
		CastAt: now,
	}
	if xerr := prop.DoVote(v); xerr != nil {
		return nil, xerr
	}

	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return nil, xerr
	}
	if _, _, xerr := ctrler.proposalLedger.Commit(); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Debug("Cast vote", "proposal", prop.ID, "voter", voter, "choice", choice.String(), "weight", weight.Dec())
	return v, nil
}

// UpdateProposalStatuses is the periodic sweep and the only path out of
// STATUS_ACTIVE. Proposals whose window closed but which have not been
// swept yet stay active until the next run.
func (ctrler *GovCtrler) UpdateProposalStatuses() ([]abytes.HexBytes, []abytes.HexBytes, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.now()

	var due []*proposal.Proposal
	xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		if prop.Status == proposal.STATUS_ACTIVE && !prop.VotingEnd.After(now) {
			due = append(due, prop)
		}
		return nil
	})
	if xerr != nil {
		return nil, nil, xerr
	}

	var passed, rejected []abytes.HexBytes
	for _, prop := range due {
		switch prop.CloseVoting() {
		case proposal.STATUS_PASSED:
			passed = append(passed, prop.ID)
		case proposal.STATUS_REJECTED:
			rejected = append(rejected, prop.ID)
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return nil, nil, xerr
		}
	}

	if len(due) > 0 {
		if _, _, xerr := ctrler.proposalLedger.Commit(); xerr != nil {
			return nil, nil, xerr
		}
		ctrler.logger.Info("Update proposal statuses", "passed", len(passed), "rejected", len(rejected))
	}
	return passed, rejected, nil
}

// ExecuteProposal dispatches the passed proposal to its execution handler.
// Exactly one ledger-mutating call is made; a gateway failure surfaces as
// ErrExecutionFailed and leaves the status at passed so the caller may retry.
func (ctrler *GovCtrler) ExecuteProposal(propID abytes.HexBytes, executor types.Address) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKey(propID))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal.Wrapf("id:%v", propID)
		}
		return nil, xerr
	}

	if prop.Status != proposal.STATUS_PASSED {
		return nil, xerrors.ErrNotPassed.Wrapf("status:%v", prop.Status)
	}

	now := ctrler.now()
	executableAt := prop.VotingEnd.Add(ctrler.params.ExecutionDelay())
	if now.Before(executableAt) {
		return nil, xerrors.ErrExecutionDelayNotMet.Wrapf("executableAt:%v", executableAt)
	}

	txID, xerr := ctrler.dispatchExecution(prop)
	if xerr != nil {
		ctrler.logger.Error("Execute proposal", "id", prop.ID, "error", xerr)
		return nil, xerr
	}

	if xerr := prop.MarkExecuted(txID, now); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return nil, xerr
	}
	if _, _, xerr := ctrler.proposalLedger.Commit(); xerr != nil {
		return nil, xerr
	}

	ctrler.logger.Info("Execute proposal", "id", prop.ID, "executor", executor, "txId", txID)
	return prop, nil
}

func (ctrler *GovCtrler) dispatchExecution(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	switch prop.PropType {
	case proposal.PROPOSAL_PARAM_CHANGE:
		return ctrler.execParamChange(prop)
	case proposal.PROPOSAL_ASSET_TYPE:
		return ctrler.execAssetType(prop)
	case proposal.PROPOSAL_ORACLE_CHANGE:
		return ctrler.execOracleChange(prop)
	case proposal.PROPOSAL_TREASURY_ALLOC:
		return ctrler.execTreasuryAlloc(prop)
	case proposal.PROPOSAL_PROTOCOL_UPGRADE:
		return ctrler.execProtocolUpgrade(prop)
	default:
		return nil, xerrors.ErrUnknownProposalType.Wrapf("type:%d", prop.PropType)
	}
}

func (ctrler *GovCtrler) execParamChange(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	opt, xerr := proposal.DecodeOption[proposal.ParamChangeOption](prop.Params)
	if xerr != nil {
		return nil, xerr
	}
	args, _ := json.Marshal(map[string]json.RawMessage{"key": json.RawMessage(`"` + opt.Key + `"`), "value": opt.Value})
	txID, xerr := ctrler.gateway.ExecuteContractCall(opt.TargetRef, "updateParameter", args)
	if xerr != nil {
		return nil, xerrors.ErrExecutionFailed.Wrap(xerr)
	}
	return txID, nil
}

func (ctrler *GovCtrler) execAssetType(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	opt, xerr := proposal.DecodeOption[proposal.AssetTypeOption](prop.Params)
	if xerr != nil {
		return nil, xerr
	}
	args, _ := json.Marshal(opt)
	txID, xerr := ctrler.gateway.ExecuteContractCall(opt.RegistryRef, "addAssetType", args)
	if xerr != nil {
		return nil, xerrors.ErrExecutionFailed.Wrap(xerr)
	}
	return txID, nil
}

func (ctrler *GovCtrler) execOracleChange(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	opt, xerr := proposal.DecodeOption[proposal.OracleChangeOption](prop.Params)
	if xerr != nil {
		return nil, xerr
	}
	args, _ := json.Marshal(opt)
	txID, xerr := ctrler.gateway.ExecuteContractCall(opt.OracleRef, "setOracle", args)
	if xerr != nil {
		return nil, xerrors.ErrExecutionFailed.Wrap(xerr)
	}
	return txID, nil
}

func (ctrler *GovCtrler) execTreasuryAlloc(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	opt, xerr := proposal.DecodeOption[proposal.TreasuryAllocOption](prop.Params)
	if xerr != nil {
		return nil, xerr
	}
	txID, xerr := ctrler.gateway.Transfer(opt.Treasury, opt.Recipient, opt.Amount, opt.AssetRef)
	if xerr != nil {
		return nil, xerrors.ErrExecutionFailed.Wrap(xerr)
	}
	return txID, nil
}

func (ctrler *GovCtrler) execProtocolUpgrade(prop *proposal.Proposal) (abytes.HexBytes, xerrors.XError) {
	opt, xerr := proposal.DecodeOption[proposal.ProtocolUpgradeOption](prop.Params)
	if xerr != nil {
		return nil, xerr
	}
	args, _ := json.Marshal(opt)
	txID, xerr := ctrler.gateway.ExecuteContractCall(opt.TargetRef, "upgrade", args)
	if xerr != nil {
		return nil, xerrors.ErrExecutionFailed.Wrap(xerr)
	}
	return txID, nil
}

// VotingPowerOf is the sum of the liquid and staked balances.
// Delegated power is declared but not implemented; it is always zero.
func (ctrler *GovCtrler) VotingPowerOf(addr types.Address) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	balance, xerr := ctrler.oracle.TokenBalanceOf(addr)
	if xerr != nil {
		return nil, xerr
	}
	staked, xerr := ctrler.oracle.StakedBalanceOf(addr)
	if xerr != nil {
		return nil, xerr
	}

	power := new(uint256.Int).Add(balance, staked)
	power.Add(power, ctrler.DelegatedPowerOf(addr))
	return power, nil
}

// DelegatedPowerOf always returns zero: vote delegation is a declared
// field of the protocol that has never been implemented.
func (ctrler *GovCtrler) DelegatedPowerOf(_ types.Address) *uint256.Int {
	return uint256.NewInt(0)
}

func (ctrler *GovCtrler) ReadProposal(propID abytes.HexBytes) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKey(propID))
	if xerr != nil {
		if xerr.Code() == xerrors.ErrCodeNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	}
	return prop, nil
}

func (ctrler *GovCtrler) ReadAllProposals() ([]*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	var proposals []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		proposals = append(proposals, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return proposals, nil
}

func (ctrler *GovCtrler) ProposalCount() (int, xerrors.XError) {
	props, xerr := ctrler.ReadAllProposals()
	if xerr != nil {
		return 0, xerr
	}
	return len(props), nil
}

func (ctrler *GovCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("proposalLedger.Close()", "error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	return nil
}
