package proposal

import (
	"encoding/json"
	"time"

	"github.com/axismarkets/axis-go/types"
	"github.com/holiman/uint256"
)

type Choice int32

const (
	CHOICE_FOR Choice = 1 + iota
	CHOICE_AGAINST
	CHOICE_ABSTAIN
)

func (c Choice) String() string {
	switch c {
	case CHOICE_FOR:
		return "for"
	case CHOICE_AGAINST:
		return "against"
	case CHOICE_ABSTAIN:
		return "abstain"
	default:
		return "unknown"
	}
}

func (c Choice) Valid() bool {
	return c == CHOICE_FOR || c == CHOICE_AGAINST || c == CHOICE_ABSTAIN
}

// Vote is immutable once cast. Weight is the voter's balance snapshot at
// cast time and is never re-evaluated.
type Vote struct {
	Voter  types.Address
	Choice Choice
	Weight *uint256.Int
	CastAt time.Time
}

type voteWire struct {
	Voter  types.Address `json:"voter"`
	Choice Choice        `json:"choice"`
	Weight string        `json:"weight"`
	CastAt time.Time     `json:"castAt"`
}

func (v *Vote) MarshalJSON() ([]byte, error) {
	return json.Marshal(&voteWire{
		Voter:  v.Voter,
		Choice: v.Choice,
		Weight: v.Weight.Dec(),
		CastAt: v.CastAt,
	})
}

func (v *Vote) UnmarshalJSON(bz []byte) error {
	w := &voteWire{}
	if err := json.Unmarshal(bz, w); err != nil {
		return err
	}
	weight, err := uint256.FromDecimal(w.Weight)
	if err != nil {
		return err
	}
	v.Voter = w.Voter
	v.Choice = w.Choice
	v.Weight = weight
	v.CastAt = w.CastAt
	return nil
}
