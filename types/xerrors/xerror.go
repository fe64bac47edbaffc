package xerrors

import (
	"errors"
	"fmt"
)

const (
	ErrCodeSuccess uint32 = iota
	ErrCodeGeneric
	ErrCodeNotFoundResult
	ErrCodeCommit

	ErrCodeProposerNotFound
	ErrCodeInsufficientStake
	ErrCodeNotFoundProposal
	ErrCodeVotingClosed
	ErrCodeDuplicateVote
	ErrCodeNoVotingPower
	ErrCodeNotPassed
	ErrCodeExecutionDelayNotMet
	ErrCodeUnknownProposalType
	ErrCodeExecutionFailed

	ErrCodeBelowMinimumStake
	ErrCodeInvalidLockPeriod
	ErrCodeInsufficientBalance
	ErrCodeNothingStaked

	ErrCodeLedgerUnavailable
	ErrCodeLedgerRejected
)

var (
	ErrNotFoundResult = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrCommit         = NewWith(ErrCodeCommit, "commit failed")

	ErrProposerNotFound     = NewWith(ErrCodeProposerNotFound, "not found proposer account")
	ErrInsufficientStake    = NewWith(ErrCodeInsufficientStake, "proposer stake is under the proposal threshold")
	ErrNotFoundProposal     = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrVotingClosed         = NewWith(ErrCodeVotingClosed, "the voting window is closed")
	ErrDuplicateVote        = NewWith(ErrCodeDuplicateVote, "the voter has already voted on this proposal")
	ErrNoVotingPower        = NewWith(ErrCodeNoVotingPower, "the voter has no voting power")
	ErrNotPassed            = NewWith(ErrCodeNotPassed, "the proposal has not passed")
	ErrExecutionDelayNotMet = NewWith(ErrCodeExecutionDelayNotMet, "the execution delay has not elapsed")
	ErrUnknownProposalType  = NewWith(ErrCodeUnknownProposalType, "unknown proposal type")
	ErrExecutionFailed      = NewWith(ErrCodeExecutionFailed, "proposal execution failed")

	ErrBelowMinimumStake   = NewWith(ErrCodeBelowMinimumStake, "stake amount is under the class minimum")
	ErrInvalidLockPeriod   = NewWith(ErrCodeInvalidLockPeriod, "lock period is out of range")
	ErrInsufficientBalance = NewWith(ErrCodeInsufficientBalance, "insufficient token balance")
	ErrNothingStaked       = NewWith(ErrCodeNothingStaked, "nothing staked")

	ErrLedgerUnavailable = NewWith(ErrCodeLedgerUnavailable, "ledger gateway is unavailable")
	ErrLedgerRejected    = NewWith(ErrCodeLedgerRejected, "ledger gateway rejected the operation")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(format string, args ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}

// Is reports whether err carries the same code as target.
// Sentinel kinds are compared by code so that wrapped errors
// still match their kind.
func (e *xerr) Is(target error) bool {
	var xe *xerr
	if errors.As(target, &xe) {
		return e.code == xe.code
	}
	return false
}
