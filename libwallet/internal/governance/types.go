package governance

import (
	"math/big"
	"strings"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalState is the governor's lifecycle state of a proposal. The values
// up to StateExecuted mirror the IGovernor.ProposalState enum.
type ProposalState uint8

const (
	StatePending ProposalState = iota
	StateActive
	StateCanceled
	StateDefeated
	StateSucceeded
	StateQueued
	StateExpired
	StateExecuted

	// StateUnknown is used when neither the state call nor the proposal
	// listing produced a state.
	StateUnknown ProposalState = 255
)

func (s ProposalState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCanceled:
		return "canceled"
	case StateDefeated:
		return "defeated"
	case StateSucceeded:
		return "succeeded"
	case StateQueued:
		return "queued"
	case StateExpired:
		return "expired"
	case StateExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// IsVotable reports whether a proposal in this state may be selected as the
// current proposal. Unknown counts so that a proposal whose state call has
// not resolved yet is not hidden.
func (s ProposalState) IsVotable() bool {
	return s == StateActive || s == StateUnknown
}

// VoteChoice is the support value passed to castVote.
type VoteChoice uint8

const (
	VoteAgainst VoteChoice = 0
	VoteFor     VoteChoice = 1
	VoteAbstain VoteChoice = 2
)

func (c VoteChoice) String() string {
	switch c {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	default:
		return "invalid"
	}
}

// IsValid reports whether c is one of the three supported choices.
func (c VoteChoice) IsValid() bool {
	return c <= VoteAbstain
}

// ParseVoteChoice accepts a choice name ("for", "against", "abstain", or the
// "yes"/"no" aliases) or its numeric support value.
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "against", "no":
		return VoteAgainst, nil
	case "1", "for", "yes":
		return VoteFor, nil
	case "2", "abstain":
		return VoteAbstain, nil
	default:
		return 0, errors.E(errors.Op("governance.ParseVoteChoice"), errors.Invalid, utils.ErrInvalidVoteChoice)
	}
}

// Proposal is a governance proposal as listed by the governor contract.
type Proposal struct {
	ID          *big.Int       `json:"id"`
	Proposer    common.Address `json:"proposer"`
	Description string         `json:"description"`
	StartBlock  *big.Int       `json:"startBlock"`
	EndBlock    *big.Int       `json:"endBlock"`

	// ListedState is the state embedded in the bulk listing, StateUnknown
	// when the listing carries none.
	ListedState ProposalState `json:"-"`
}

// IDString returns the decimal proposal id, empty for a nil id.
func (p *Proposal) IDString() string {
	if p == nil || p.ID == nil {
		return ""
	}
	return p.ID.String()
}

// ProposalMeta is the per-proposal metadata returned by proposals(id).
type ProposalMeta struct {
	Description string
	StartBlock  *big.Int
	EndBlock    *big.Int
}

// VoteTally holds the 10^18 scaled vote weights of a proposal.
type VoteTally struct {
	For     *big.Int `json:"for"`
	Against *big.Int `json:"against"`
	Abstain *big.Int `json:"abstain"`
}

// Total returns the sum of all three options.
func (t *VoteTally) Total() *big.Int {
	total := new(big.Int)
	if t == nil {
		return total
	}
	for _, v := range []*big.Int{t.For, t.Against, t.Abstain} {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

// TallyPercentages are whole percentages per option.
type TallyPercentages struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

// NoticeType classifies a transaction notice.
type NoticeType string

const (
	NoticeIdle    NoticeType = "idle"
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
)

// TxNotice is the banner shown after a write attempt.
type TxNotice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

// NoticeKind identifies the message of a success notice so renderers can
// localize it. Error notices carry the raw reason in Message instead.
type NoticeKind string

const (
	NoticeKindNone      NoticeKind = ""
	NoticeKindVoted     NoticeKind = "voted"
	NoticeKindDelegated NoticeKind = "delegated"
)

// AccountInfo is what is known about the connected account.
type AccountInfo struct {
	Address       common.Address `json:"address"`
	WatchingOnly  bool           `json:"watchingOnly"`
	Balance       *big.Int       `json:"balance,omitempty"`
	VotingPower   *big.Int       `json:"votingPower,omitempty"`
	PowerBlock    *big.Int       `json:"powerBlock,omitempty"`
	Delegate      common.Address `json:"delegate"`
	HasDelegated  bool           `json:"hasDelegated"`
	BalanceLoaded bool           `json:"balanceLoaded"`
	PowerLoaded   bool           `json:"powerLoaded"`
}

// Warning is an eligibility hint for the connected account.
type Warning string

const (
	WarningNoTokens      Warning = "no_tokens"
	WarningDelegateFirst Warning = "delegate_first"
)

// PanelState is what the tally panel should display.
type PanelState string

const (
	PanelError            PanelState = "error"
	PanelLoading          PanelState = "loading"
	PanelNoActiveProposal PanelState = "no_active_proposal"
	PanelLocked           PanelState = "locked"
	PanelTallyLoading     PanelState = "tally_loading"
	PanelResults          PanelState = "results"
)

// ProposalView is a listed proposal together with its cached state and the
// last tally fetched for it.
type ProposalView struct {
	*Proposal
	State ProposalState `json:"state"`
	Tally *VoteTally    `json:"tally,omitempty"`
}

// ViewModel is the immutable snapshot published to renderers after every
// change. Listeners must not modify it.
type ViewModel struct {
	Loading      bool            `json:"loading"`
	ProposalsErr string          `json:"proposalsError,omitempty"`
	Proposals    []*ProposalView `json:"proposals"`

	Current      *ProposalView    `json:"current,omitempty"`
	Title        string           `json:"title"`
	Tally        *VoteTally       `json:"tally,omitempty"`
	Percentages  TallyPercentages `json:"percentages"`
	Panel        PanelState       `json:"panel"`
	TokenAddress common.Address   `json:"tokenAddress"`

	Account  *AccountInfo `json:"account,omitempty"`
	Warnings []Warning    `json:"warnings,omitempty"`

	HasVoted    bool       `json:"hasVoted"`
	IsVoting    bool       `json:"isVoting"`
	Notice      TxNotice   `json:"notice"`
	NoticeKind  NoticeKind `json:"noticeKind,omitempty"`
	CanVote     bool       `json:"canVote"`
	CanDelegate bool       `json:"canDelegate"`

	LastSynced time.Time `json:"lastSynced"`
}

// HasWarning reports whether w is among the view model's warnings.
func (vm *ViewModel) HasWarning(w Warning) bool {
	for _, warning := range vm.Warnings {
		if warning == w {
			return true
		}
	}
	return false
}

// ProposalNotificationListener receives view-model updates. Callbacks run on
// the controller's goroutines and must not block.
type ProposalNotificationListener interface {
	OnViewModelUpdated(vm *ViewModel)
	OnCurrentProposalChanged(proposal *Proposal)
	OnProposalVoteStarted(proposal *Proposal)
	OnProposalVoteFinished(proposal *Proposal)
}
