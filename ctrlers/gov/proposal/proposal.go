package proposal

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/axismarkets/axis-go/ledger"
	"github.com/axismarkets/axis-go/types"
	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	"github.com/holiman/uint256"
)

type Proposal struct {
	ProposalHeader
	Params json.RawMessage
	Votes  []*Vote

	voterIdx map[string]*Vote

	mtx sync.RWMutex
}

func NewProposal(id abytes.HexBytes, proposer types.Address, propType int32, title, description string,
	params json.RawMessage, votingStart, votingEnd time.Time, quorumRequired *uint256.Int) *Proposal {
	return &Proposal{
		ProposalHeader: ProposalHeader{
			ID:             id,
			Proposer:       proposer,
			PropType:       propType,
			Title:          title,
			Description:    description,
			Status:         STATUS_ACTIVE,
			VotingStart:    votingStart,
			VotingEnd:      votingEnd,
			QuorumRequired: quorumRequired,
			VotesFor:       uint256.NewInt(0),
			VotesAgainst:   uint256.NewInt(0),
			TotalVotes:     uint256.NewInt(0),
		},
		Params:   params,
		voterIdx: make(map[string]*Vote),
	}
}

func (prop *Proposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.ID.Array32()
}

func (prop *Proposal) HasVoted(addr types.Address) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	_, ok := prop.voterIdx[addr.String()]
	return ok
}

func (prop *Proposal) VoteOf(addr types.Address) *Vote {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.voterIdx[addr.String()]
}

// DoVote appends a vote and tallies its weight. A second vote from the
// same voter fails; abstain weight counts toward TotalVotes only.
func (prop *Proposal) DoVote(v *Vote) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Status != STATUS_ACTIVE {
		return xerrors.ErrVotingClosed
	}
	if _, ok := prop.voterIdx[v.Voter.String()]; ok {
		return xerrors.ErrDuplicateVote
	}

	switch v.Choice {
	case CHOICE_FOR:
		prop.VotesFor = new(uint256.Int).Add(prop.VotesFor, v.Weight)
	case CHOICE_AGAINST:
		prop.VotesAgainst = new(uint256.Int).Add(prop.VotesAgainst, v.Weight)
	case CHOICE_ABSTAIN:
		// total only
	default:
		return xerrors.New("invalid vote choice")
	}
	prop.TotalVotes = new(uint256.Int).Add(prop.TotalVotes, v.Weight)

	prop.Votes = append(prop.Votes, v)
	prop.voterIdx[v.Voter.String()] = v
	return nil
}

// CloseVoting settles the outcome: quorum reached and a strict weight
// majority in favor passes, anything else rejects. Ties fail.
func (prop *Proposal) CloseVoting() Status {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Status != STATUS_ACTIVE {
		return prop.Status
	}

	if prop.QuorumMet() && prop.VotesFor.Cmp(prop.VotesAgainst) > 0 {
		prop.Status = STATUS_PASSED
	} else {
		prop.Status = STATUS_REJECTED
	}
	return prop.Status
}

func (prop *Proposal) MarkExecuted(txID abytes.HexBytes, at time.Time) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Status != STATUS_PASSED {
		return xerrors.ErrNotPassed
	}
	prop.Status = STATUS_EXECUTED
	prop.Executed = true
	prop.ExecutedAt = at
	prop.ExecTxID = txID
	return nil
}

type proposalWire struct {
	ID          abytes.HexBytes `json:"id"`
	Proposer    types.Address   `json:"proposer"`
	PropType    int32           `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      Status          `json:"status"`

	VotingStart time.Time `json:"votingStart"`
	VotingEnd   time.Time `json:"votingEnd"`

	QuorumRequired string `json:"quorumRequired"`
	VotesFor       string `json:"votesFor"`
	VotesAgainst   string `json:"votesAgainst"`
	TotalVotes     string `json:"totalVotes"`

	Executed   bool            `json:"executed"`
	ExecutedAt time.Time       `json:"executedAt"`
	ExecTxID   abytes.HexBytes `json:"execTxId"`

	Params json.RawMessage `json:"params"`
	Votes  []*Vote         `json:"votes"`
}

func (prop *Proposal) Encode() ([]byte, xerrors.XError) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	bz, err := json.Marshal(&proposalWire{
		ID:             prop.ID,
		Proposer:       prop.Proposer,
		PropType:       prop.PropType,
		Title:          prop.Title,
		Description:    prop.Description,
		Status:         prop.Status,
		VotingStart:    prop.VotingStart,
		VotingEnd:      prop.VotingEnd,
		QuorumRequired: prop.QuorumRequired.Dec(),
		VotesFor:       prop.VotesFor.Dec(),
		VotesAgainst:   prop.VotesAgainst.Dec(),
		TotalVotes:     prop.TotalVotes.Dec(),
		Executed:       prop.Executed,
		ExecutedAt:     prop.ExecutedAt,
		ExecTxID:       prop.ExecTxID,
		Params:         prop.Params,
		Votes:          prop.Votes,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (prop *Proposal) Decode(bz []byte) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	w := &proposalWire{}
	if err := json.Unmarshal(bz, w); err != nil {
		return xerrors.From(err)
	}

	quorum, err := uint256.FromDecimal(w.QuorumRequired)
	if err != nil {
		return xerrors.From(err)
	}
	votesFor, err := uint256.FromDecimal(w.VotesFor)
	if err != nil {
		return xerrors.From(err)
	}
	votesAgainst, err := uint256.FromDecimal(w.VotesAgainst)
	if err != nil {
		return xerrors.From(err)
	}
	totalVotes, err := uint256.FromDecimal(w.TotalVotes)
	if err != nil {
		return xerrors.From(err)
	}

	prop.ProposalHeader = ProposalHeader{
		ID:             w.ID,
		Proposer:       w.Proposer,
		PropType:       w.PropType,
		Title:          w.Title,
		Description:    w.Description,
		Status:         w.Status,
		VotingStart:    w.VotingStart,
		VotingEnd:      w.VotingEnd,
		QuorumRequired: quorum,
		VotesFor:       votesFor,
		VotesAgainst:   votesAgainst,
		TotalVotes:     totalVotes,
		Executed:       w.Executed,
		ExecutedAt:     w.ExecutedAt,
		ExecTxID:       w.ExecTxID,
	}
	prop.Params = w.Params
	prop.Votes = w.Votes
	prop.voterIdx = make(map[string]*Vote, len(w.Votes))
	for _, v := range w.Votes {
		prop.voterIdx[v.Voter.String()] = v
	}
	return nil
}

var _ ledger.ILedgerItem = (*Proposal)(nil)
