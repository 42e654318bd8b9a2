package listeners

import (
	"code.cryptopower.dev/group/govdash/libwallet"
)

const notificationBuffer = 4

var _ libwallet.ProposalNotificationListener = (*ProposalNotificationListener)(nil)

// ProposalNotificationListener satisfies the governance
// ProposalNotificationListener interface contract and forwards every
// callback to ProposalNotifChan. Sends never block: when the channel is full
// a Synced update replaces the oldest pending one and other updates are
// dropped with a log entry.
type ProposalNotificationListener struct {
	ProposalNotifChan chan ProposalNotification
}

func NewProposalNotificationListener() *ProposalNotificationListener {
	return &ProposalNotificationListener{
		ProposalNotifChan: make(chan ProposalNotification, notificationBuffer),
	}
}

func (pn *ProposalNotificationListener) OnViewModelUpdated(vm *libwallet.ViewModel) {
	pn.sendNotification(ProposalNotification{
		ProposalStatus: Synced,
		ViewModel:      vm,
	})
}

func (pn *ProposalNotificationListener) OnCurrentProposalChanged(proposal *libwallet.Proposal) {
	pn.sendNotification(ProposalNotification{
		ProposalStatus: CurrentChanged,
		Proposal:       proposal,
	})
}

func (pn *ProposalNotificationListener) OnProposalVoteStarted(proposal *libwallet.Proposal) {
	pn.sendNotification(ProposalNotification{
		ProposalStatus: VoteStarted,
		Proposal:       proposal,
	})
}

func (pn *ProposalNotificationListener) OnProposalVoteFinished(proposal *libwallet.Proposal) {
	pn.sendNotification(ProposalNotification{
		ProposalStatus: VoteFinished,
		Proposal:       proposal,
	})
}

func (pn *ProposalNotificationListener) sendNotification(signal ProposalNotification) {
	select {
	case pn.ProposalNotifChan <- signal:
		return
	default:
	}

	if signal.ProposalStatus != Synced {
		log.Warnf("Dropped %s notification, listener is not keeping up", signal.ProposalStatus)
		return
	}

	// Make room for the latest view model.
	select {
	case <-pn.ProposalNotifChan:
	default:
	}
	select {
	case pn.ProposalNotifChan <- signal:
	default:
		log.Warn("Dropped view model update, listener is not keeping up")
	}
}
