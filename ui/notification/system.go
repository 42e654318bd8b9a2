package notification

import (
	"code.cryptopower.dev/group/govdash/libwallet"
	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"code.cryptopower.dev/group/govdash/ui/values"
	"github.com/decred/slog"
	"github.com/gen2brain/beeep"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger.
func UseLogger(logger slog.Logger) {
	log = logger
}

var _ libwallet.ProposalNotificationListener = (*SystemNotification)(nil)

// SystemNotification raises a desktop notification when a new proposal
// becomes the current one and when voting opens on a proposal.
type SystemNotification struct {
	iconPath string
	notify   func(title, message, appIcon string) error
}

// NewSystemNotification returns a notifier using iconPath as the
// notification icon. An empty path uses the desktop's default icon.
func NewSystemNotification(iconPath string) *SystemNotification {
	return &SystemNotification{
		iconPath: iconPath,
		notify:   beeep.Notify,
	}
}

// Notify shows message without blocking the caller.
func (s *SystemNotification) Notify(message string) {
	title := values.String(values.StrAppTitle)
	go func() {
		if err := s.notify(title, message, s.iconPath); err != nil {
			log.Warnf("Desktop notification failed: %v", err)
		}
	}()
}

func (s *SystemNotification) OnViewModelUpdated(*libwallet.ViewModel) {}

func (s *SystemNotification) OnCurrentProposalChanged(proposal *libwallet.Proposal) {
	if proposal == nil {
		return
	}
	s.Notify(values.StringF(values.StrNewProposalNotif, "#"+utils.FormatProposalID(proposal.IDString())))
}

func (s *SystemNotification) OnProposalVoteStarted(proposal *libwallet.Proposal) {
	s.Notify(values.StringF(values.StrVoteStartedNotif, "#"+utils.FormatProposalID(proposal.IDString())))
}

func (s *SystemNotification) OnProposalVoteFinished(*libwallet.Proposal) {}
