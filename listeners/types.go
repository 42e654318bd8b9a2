package listeners

import "code.cryptopower.dev/group/govdash/libwallet"

type ProposalStatus int

const (
	// Proposal notification types
	Synced          ProposalStatus = iota // 0 = A new view model was published.
	CurrentChanged                        // 1 = The current proposal changed.
	VoteStarted                           // 2 = Voting started on a proposal.
	VoteFinished                          // 3 = Voting ended on a proposal.
)

func (s ProposalStatus) String() string {
	switch s {
	case Synced:
		return "synced"
	case CurrentChanged:
		return "current_changed"
	case VoteStarted:
		return "vote_started"
	case VoteFinished:
		return "vote_finished"
	default:
		return "unknown"
	}
}

// ProposalNotification models governance notifications. Proposal is nil for
// Synced updates and for a CurrentChanged update that cleared the selection.
type ProposalNotification struct {
	ProposalStatus ProposalStatus
	Proposal       *libwallet.Proposal
	ViewModel      *libwallet.ViewModel
}
