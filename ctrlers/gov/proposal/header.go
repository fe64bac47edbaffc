package proposal

import (
	"time"

	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/holiman/uint256"
)

const (
	PROPOSAL_PARAM_CHANGE int32 = 1 + iota
	PROPOSAL_ASSET_TYPE
	PROPOSAL_ORACLE_CHANGE
	PROPOSAL_TREASURY_ALLOC
	PROPOSAL_PROTOCOL_UPGRADE
)

func ProposalTypeName(t int32) string {
	switch t {
	case PROPOSAL_PARAM_CHANGE:
		return "parameter-change"
	case PROPOSAL_ASSET_TYPE:
		return "asset-type-addition"
	case PROPOSAL_ORACLE_CHANGE:
		return "oracle-change"
	case PROPOSAL_TREASURY_ALLOC:
		return "treasury-allocation"
	case PROPOSAL_PROTOCOL_UPGRADE:
		return "protocol-upgrade"
	default:
		return "unknown"
	}
}

type Status int32

const (
	STATUS_DRAFT Status = iota
	STATUS_ACTIVE
	STATUS_PASSED
	STATUS_REJECTED
	STATUS_EXECUTED
)

func (s Status) String() string {
	switch s {
	case STATUS_DRAFT:
		return "draft"
	case STATUS_ACTIVE:
		return "active"
	case STATUS_PASSED:
		return "passed"
	case STATUS_REJECTED:
		return "rejected"
	case STATUS_EXECUTED:
		return "executed"
	default:
		return "unknown"
	}
}

type ProposalHeader struct {
	ID          abytes.HexBytes
	Proposer    types.Address
	PropType    int32
	Title       string
	Description string
	Status      Status

	VotingStart time.Time
	VotingEnd   time.Time

	QuorumRequired *uint256.Int
	VotesFor       *uint256.Int
	VotesAgainst   *uint256.Int
	TotalVotes     *uint256.Int

	Executed   bool
	ExecutedAt time.Time
	ExecTxID   abytes.HexBytes
}

func (h *ProposalHeader) GetID() abytes.HexBytes {
	return h.ID
}

func (h *ProposalHeader) GetStatus() Status {
	return h.Status
}

func (h *ProposalHeader) GetVotingEnd() time.Time {
	return h.VotingEnd
}

func (h *ProposalHeader) QuorumMet() bool {
	return h.TotalVotes.Cmp(h.QuorumRequired) >= 0
}
