package gov

import (
	"testing"
	"time"

	"github.com/axismarkets/axis-go/ctrlers/gov/proposal"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCreateProposalValidation(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()

	// unknown proposer
	_, xerr := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 0)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeProposerNotFound, xerr.Code())

	// below proposal threshold
	env.accts.setBalance(proposer, 9_999)
	_, xerr = env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 0)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeInsufficientStake, xerr.Code())

	env.accts.setBalance(proposer, 10_000)

	// unknown type
	_, xerr = env.ctrler.CreateProposal(proposer, 99, "t", "d", nil, 0)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeUnknownProposalType, xerr.Code())

	// voting period out of range
	_, xerr = env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 31)
	require.Error(t, xerr)

	// threshold is met exactly
	prop, xerr := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 0)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATUS_ACTIVE, prop.Status)
	require.Equal(t, env.now.Add(7*24*time.Hour), prop.VotingEnd) // default period
}

func TestCreateProposalQuorumSnapshot(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.accts.setBalance(proposer, 50_000)

	prop, xerr := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_ASSET_TYPE, "t", "d", nil, 10)
	require.NoError(t, xerr)
	// 10% of 1,000,000
	require.Equal(t, uint256.NewInt(100_000), prop.QuorumRequired)

	// supply changes do not affect the snapshot
	env.supply.supply = uint256.NewInt(2_000_000)
	got, xerr := env.ctrler.ReadProposal(prop.ID)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(100_000), got.QuorumRequired)
}

func TestCastVote(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.accts.setBalance(proposer, 50_000)

	prop, xerr := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 7)
	require.NoError(t, xerr)

	// unknown proposal
	_, xerr = env.ctrler.CastVote(proposer, abytes.RandBytes(32), proposal.CHOICE_FOR)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeNotFoundProposal, xerr.Code())

	// zero balance voter
	broke := types.RandAddress()
	env.accts.setBalance(broke, 0)
	_, xerr = env.ctrler.CastVote(broke, prop.ID, proposal.CHOICE_FOR)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeNoVotingPower, xerr.Code())

	// a voter the oracle has never seen has no voting power either
	_, xerr = env.ctrler.CastVote(types.RandAddress(), prop.ID, proposal.CHOICE_FOR)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeNoVotingPower, xerr.Code())

	voterA, voterB, voterC := types.RandAddress(), types.RandAddress(), types.RandAddress()
	env.accts.setBalance(voterA, 60_000)
	env.accts.setBalance(voterB, 30_000)
	env.accts.setBalance(voterC, 20_000)

	_, xerr = env.ctrler.CastVote(voterA, prop.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)
	_, xerr = env.ctrler.CastVote(voterB, prop.ID, proposal.CHOICE_AGAINST)
	require.NoError(t, xerr)
	_, xerr = env.ctrler.CastVote(voterC, prop.ID, proposal.CHOICE_ABSTAIN)
	require.NoError(t, xerr)

	// double vote, any choice
	_, xerr = env.ctrler.CastVote(voterA, prop.ID, proposal.CHOICE_AGAINST)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeDuplicateVote, xerr.Code())

	got, xerr := env.ctrler.ReadProposal(prop.ID)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(60_000), got.VotesFor)
	require.Equal(t, uint256.NewInt(30_000), got.VotesAgainst)
	// abstain counts toward quorum only
	require.Equal(t, uint256.NewInt(110_000), got.TotalVotes)

	// voting closes at the window end even before the sweep runs
	env.now = env.now.Add(7*24*time.Hour + time.Second)
	_, xerr = env.ctrler.CastVote(types.RandAddress(), prop.ID, proposal.CHOICE_FOR)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeVotingClosed, xerr.Code())
}

func TestUpdateProposalStatuses(t *testing.T) {
	env := newTestEnv(t)
	proposer := types.RandAddress()
	env.accts.setBalance(proposer, 50_000)

	voterA, voterB := types.RandAddress(), types.RandAddress()
	env.accts.setBalance(voterA, 80_000)
	env.accts.setBalance(voterB, 80_000)

	// quorum met, for > against -> passed
	propPass, _ := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "pass", "d", nil, 7)
	_, xerr := env.ctrler.CastVote(voterA, propPass.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)
	_, xerr = env.ctrler.CastVote(voterB, propPass.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)

	// quorum met, tie -> rejected (strict majority required)
	propTie, _ := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "tie", "d", nil, 7)
	_, xerr = env.ctrler.CastVote(voterA, propTie.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)
	_, xerr = env.ctrler.CastVote(voterB, propTie.ID, proposal.CHOICE_AGAINST)
	require.NoError(t, xerr)

	// quorum not met -> rejected even though unopposed
	propQuiet, _ := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "quiet", "d", nil, 7)
	_, xerr = env.ctrler.CastVote(proposer, propQuiet.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)

	// still open, must not be touched by the sweep
	propOpen, _ := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "open", "d", nil, 10)

	env.now = env.now.Add(7 * 24 * time.Hour)
	passed, rejected, xerr := env.ctrler.UpdateProposalStatuses()
	require.NoError(t, xerr)
	require.Len(t, passed, 1)
	require.Len(t, rejected, 2)
	require.Equal(t, propPass.ID, passed[0])

	got, _ := env.ctrler.ReadProposal(propOpen.ID)
	require.Equal(t, proposal.STATUS_ACTIVE, got.Status)

	// sweep is idempotent
	passed, rejected, xerr = env.ctrler.UpdateProposalStatuses()
	require.NoError(t, xerr)
	require.Empty(t, passed)
	require.Empty(t, rejected)
}

func TestVotingPowerOf(t *testing.T) {
	env := newTestEnv(t)
	addr := types.RandAddress()
	env.accts.setBalance(addr, 1_000)
	env.accts.setStaked(addr, 500)

	power, xerr := env.ctrler.VotingPowerOf(addr)
	require.NoError(t, xerr)
	require.Equal(t, uint256.NewInt(1_500), power)

	// delegation is declared but never accrues
	require.True(t, env.ctrler.DelegatedPowerOf(addr).IsZero())
}
