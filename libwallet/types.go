package libwallet

import (
	"code.cryptopower.dev/group/govdash/libwallet/internal/governance"
)

type (
	Proposal                     = governance.Proposal
	ProposalState                = governance.ProposalState
	ProposalView                 = governance.ProposalView
	VoteChoice                   = governance.VoteChoice
	VoteTally                    = governance.VoteTally
	TallyPercentages             = governance.TallyPercentages
	AccountInfo                  = governance.AccountInfo
	Warning                      = governance.Warning
	PanelState                   = governance.PanelState
	NoticeType                   = governance.NoticeType
	NoticeKind                   = governance.NoticeKind
	TxNotice                     = governance.TxNotice
	ViewModel                    = governance.ViewModel
	ProposalNotificationListener = governance.ProposalNotificationListener
)

const (
	VoteAgainst = governance.VoteAgainst
	VoteFor     = governance.VoteFor
	VoteAbstain = governance.VoteAbstain

	StatePending   = governance.StatePending
	StateActive    = governance.StateActive
	StateCanceled  = governance.StateCanceled
	StateDefeated  = governance.StateDefeated
	StateSucceeded = governance.StateSucceeded
	StateQueued    = governance.StateQueued
	StateExpired   = governance.StateExpired
	StateExecuted  = governance.StateExecuted
	StateUnknown   = governance.StateUnknown

	WarningNoTokens      = governance.WarningNoTokens
	WarningDelegateFirst = governance.WarningDelegateFirst

	PanelError            = governance.PanelError
	PanelLoading          = governance.PanelLoading
	PanelNoActiveProposal = governance.PanelNoActiveProposal
	PanelLocked           = governance.PanelLocked
	PanelTallyLoading     = governance.PanelTallyLoading
	PanelResults          = governance.PanelResults

	NoticeIdle    = governance.NoticeIdle
	NoticeSuccess = governance.NoticeSuccess
	NoticeError   = governance.NoticeError

	NoticeKindNone      = governance.NoticeKindNone
	NoticeKindVoted     = governance.NoticeKindVoted
	NoticeKindDelegated = governance.NoticeKindDelegated

	ErrGenericTxFailure = governance.ErrGenericTxFailure
)

// ParseVoteChoice accepts a choice name or its numeric support value.
func ParseVoteChoice(s string) (VoteChoice, error) {
	return governance.ParseVoteChoice(s)
}
