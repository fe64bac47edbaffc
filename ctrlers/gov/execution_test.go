package gov

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/axismarkets/axis-go/ctrlers/gov/proposal"
	"github.com/axismarkets/axis-go/types"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// passProposal creates a proposal, votes it through and sweeps it past the
// voting window.
func passProposal(t *testing.T, env *testEnv, propType int32, params json.RawMessage) *proposal.Proposal {
	proposer := types.RandAddress()
	env.accts.setBalance(proposer, 200_000)

	prop, xerr := env.ctrler.CreateProposal(proposer, propType, "exec test "+proposal.ProposalTypeName(propType), "d", params, 7)
	require.NoError(t, xerr)

	_, xerr = env.ctrler.CastVote(proposer, prop.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)

	env.now = env.now.Add(7 * 24 * time.Hour)
	passed, _, xerr := env.ctrler.UpdateProposalStatuses()
	require.NoError(t, xerr)
	require.Contains(t, passed, prop.ID)
	return prop
}

func TestExecuteProposalGates(t *testing.T) {
	env := newTestEnv(t)
	executor := types.RandAddress()

	proposer := types.RandAddress()
	env.accts.setBalance(proposer, 200_000)
	prop, xerr := env.ctrler.CreateProposal(proposer, proposal.PROPOSAL_PARAM_CHANGE, "t", "d", nil, 7)
	require.NoError(t, xerr)

	// still active
	_, xerr = env.ctrler.ExecuteProposal(prop.ID, executor)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeNotPassed, xerr.Code())

	_, xerr = env.ctrler.CastVote(proposer, prop.ID, proposal.CHOICE_FOR)
	require.NoError(t, xerr)
	env.now = env.now.Add(7 * 24 * time.Hour)
	_, _, xerr = env.ctrler.UpdateProposalStatuses()
	require.NoError(t, xerr)

	// passed but inside the execution delay (1h in test params)
	_, xerr = env.ctrler.ExecuteProposal(prop.ID, executor)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeExecutionDelayNotMet, xerr.Code())
}

func TestExecuteParamChange(t *testing.T) {
	env := newTestEnv(t)
	params, _ := json.Marshal(&proposal.ParamChangeOption{
		TargetRef: "asset-registry", Key: "maxFee", Value: json.RawMessage(`"250"`),
	})
	prop := passProposal(t, env, proposal.PROPOSAL_PARAM_CHANGE, params)

	env.now = env.now.Add(time.Hour)
	executed, xerr := env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATUS_EXECUTED, executed.Status)
	require.True(t, executed.Executed)
	require.NotEmpty(t, executed.ExecTxID)

	require.Len(t, env.gw.calls, 1)
	require.Equal(t, "contractCall", env.gw.calls[0].op)
	require.Equal(t, "updateParameter", env.gw.calls[0].function)
	require.Equal(t, "asset-registry", env.gw.calls[0].target)
}

func TestExecuteTreasuryAlloc(t *testing.T) {
	env := newTestEnv(t)
	recipient := types.RandAddress()
	treasury := types.ModuleAddress("treasury")
	params, _ := json.Marshal(&proposal.TreasuryAllocOption{
		Treasury: treasury, Recipient: recipient, Amount: uint256.NewInt(777), AssetRef: "AXIS",
	})
	prop := passProposal(t, env, proposal.PROPOSAL_TREASURY_ALLOC, params)

	env.now = env.now.Add(time.Hour)
	_, xerr := env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.NoError(t, xerr)

	require.Len(t, env.gw.calls, 1)
	require.Equal(t, "transfer", env.gw.calls[0].op)
	require.Equal(t, treasury, env.gw.calls[0].from)
	require.Equal(t, recipient, env.gw.calls[0].to)
	require.Equal(t, uint256.NewInt(777), env.gw.calls[0].amount)
}

func TestExecuteProposalGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	params, _ := json.Marshal(&proposal.ProtocolUpgradeOption{
		TargetRef: "core", Version: "v2.0.0",
	})
	prop := passProposal(t, env, proposal.PROPOSAL_PROTOCOL_UPGRADE, params)

	env.now = env.now.Add(time.Hour)
	env.gw.fail = xerrors.ErrLedgerUnavailable
	_, xerr := env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeExecutionFailed, xerr.Code())

	// status stays passed so execution may be retried
	got, _ := env.ctrler.ReadProposal(prop.ID)
	require.Equal(t, proposal.STATUS_PASSED, got.Status)
	require.False(t, got.Executed)

	env.gw.fail = nil
	executed, xerr := env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATUS_EXECUTED, executed.Status)

	// a re-execution of an executed proposal is rejected
	_, xerr = env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeNotPassed, xerr.Code())
}

func TestExecuteMalformedParams(t *testing.T) {
	env := newTestEnv(t)
	prop := passProposal(t, env, proposal.PROPOSAL_ORACLE_CHANGE, json.RawMessage(`{"oracleRef": 42}`))

	env.now = env.now.Add(time.Hour)
	_, xerr := env.ctrler.ExecuteProposal(prop.ID, types.RandAddress())
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeExecutionFailed, xerr.Code())
	require.Empty(t, env.gw.calls)
}
