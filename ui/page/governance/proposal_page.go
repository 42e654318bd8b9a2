package governance

import (
	"fmt"
	"io"
	"strings"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet"
	libutils "code.cryptopower.dev/group/govdash/libwallet/utils"
	"code.cryptopower.dev/group/govdash/ui/values"
	"github.com/ararog/timeago"
)

const (
	ProposalPageID = "Proposal"

	// barWidth is the number of cells of a full progress bar.
	barWidth  = 24
	ruleWidth = 56
)

// PageInfo is the static part of the page.
type PageInfo struct {
	NetType  libutils.NetworkType
	Governor string
}

// ProposalPage renders the governance view model as text: the current
// proposal with the account and vote actions, then the tally panel and the
// contract footer.
type ProposalPage struct {
	info PageInfo
	now  func() time.Time
}

func NewProposalPage(info PageInfo) *ProposalPage {
	return &ProposalPage{info: info, now: time.Now}
}

func (pg *ProposalPage) ID() string {
	return ProposalPageID
}

// Render writes the full page for vm to w.
func (pg *ProposalPage) Render(w io.Writer, vm *libwallet.ViewModel) error {
	_, err := io.WriteString(w, pg.Layout(vm))
	return err
}

// Layout returns the page for vm.
func (pg *ProposalPage) Layout(vm *libwallet.ViewModel) string {
	var sb strings.Builder
	pg.layoutHeader(&sb, vm)
	pg.layoutSpotlight(&sb, vm)
	pg.layoutResults(&sb, vm)
	pg.layoutFooter(&sb, vm)
	return sb.String()
}

func (pg *ProposalPage) layoutHeader(sb *strings.Builder, vm *libwallet.ViewModel) {
	fmt.Fprintf(sb, "%s · %s #%s  [%s]\n", values.String(values.StrAppTitle),
		values.String(values.StrProposalID), displayProposalID(vm), pg.info.NetType.Display())

	switch {
	case vm.Account == nil:
		sb.WriteString(values.String(values.StrConnectToParticipate))
	case vm.Account.WatchingOnly:
		fmt.Fprintf(sb, "%s (%s)", values.StringF(values.StrConnected, libutils.ShortenAddress(vm.Account.Address.Hex())),
			values.String(values.StrWatchingOnly))
	default:
		sb.WriteString(values.StringF(values.StrConnected, libutils.ShortenAddress(vm.Account.Address.Hex())))
	}
	sb.WriteString("\n")
	writeRule(sb)
}

func (pg *ProposalPage) layoutSpotlight(sb *strings.Builder, vm *libwallet.ViewModel) {
	title := proposalHeading(vm.Title)
	if title == "" {
		title = values.String(values.StrNoProposalTitle)
	}
	fmt.Fprintf(sb, "%s\n  %s\n\n", values.String(values.StrProposalEyebrow), title)

	if banner := noticeBanner(vm); banner != "" {
		fmt.Fprintf(sb, "%s\n\n", banner)
	}

	fmt.Fprintf(sb, "%s: %s\n", values.String(values.StrVotingPower), votingPower(vm.Account))
	fmt.Fprintf(sb, "  %s\n", values.String(values.StrDelegateHint))
	for _, warning := range vm.Warnings {
		switch warning {
		case libwallet.WarningNoTokens:
			fmt.Fprintf(sb, "  ! %s\n", values.String(values.StrWarningNoTokens))
		case libwallet.WarningDelegateFirst:
			fmt.Fprintf(sb, "  ! %s\n", values.String(values.StrWarningDelegateFirst))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(values.String(values.StrLede))
	sb.WriteString("\n\n")

	actions := make([]string, 0, len(values.ArrVoteOptions)+1)
	for _, option := range values.ArrVoteOptions {
		actions = append(actions, actionLabel(option.Command, values.String(option.Label), vm.CanVote))
	}
	actions = append(actions, actionLabel("delegate", values.String(values.StrDelegate), vm.CanDelegate))
	sb.WriteString(strings.Join(actions, "  "))
	sb.WriteString("\n")
	if vm.IsVoting {
		fmt.Fprintf(sb, "%s\n", values.String(values.StrSubmitting))
	}
	fmt.Fprintf(sb, "%s\n", values.String(values.StrConfirmHint))
	writeRule(sb)
}

func (pg *ProposalPage) layoutResults(sb *strings.Builder, vm *libwallet.ViewModel) {
	fmt.Fprintf(sb, "%s · %s\n\n", values.String(values.StrLiveResults), values.String(values.StrOnChainVotes))

	switch vm.Panel {
	case libwallet.PanelError:
		reason := vm.ProposalsErr
		if reason == "" {
			reason = values.String(values.StrUnknownError)
		}
		fmt.Fprintf(sb, "%s\n", values.StringF(values.StrLoadProposalsFailed, reason))
	case libwallet.PanelLoading:
		fmt.Fprintf(sb, "%s\n", values.String(values.StrLoadingProposals))
	case libwallet.PanelNoActiveProposal:
		fmt.Fprintf(sb, "%s\n  %s\n", values.String(values.StrNoActiveProposal), values.String(values.StrNoActiveProposalBody))
	case libwallet.PanelLocked:
		fmt.Fprintf(sb, "%s\n  %s\n", values.String(values.StrVoteFirst), values.String(values.StrVoteFirstBody))
	case libwallet.PanelTallyLoading:
		fmt.Fprintf(sb, "%s\n", values.String(values.StrLoadingTally))
	case libwallet.PanelResults:
		layoutTally(sb, vm.Tally, vm.Percentages)
	}
	writeRule(sb)
}

func (pg *ProposalPage) layoutFooter(sb *strings.Builder, vm *libwallet.ViewModel) {
	fmt.Fprintf(sb, "%-14s %s\n", values.String(values.StrVoteContract), libutils.ShortenAddress(pg.info.Governor))
	fmt.Fprintf(sb, "%-14s #%s\n", values.String(values.StrProposalID), displayProposalID(vm))
	if url := libutils.ExplorerAddressURL(pg.info.NetType, pg.info.Governor); url != "" {
		fmt.Fprintf(sb, "%-14s %s\n", values.String(values.StrExplorer), url)
	}

	if vm.LastSynced.IsZero() {
		fmt.Fprintf(sb, "%s\n", values.String(values.StrNeverSynced))
		return
	}
	ago, err := timeago.TimeAgoWithTime(pg.now(), vm.LastSynced)
	if err != nil {
		ago = libutils.FormatUTCTime(vm.LastSynced.Unix())
	}
	fmt.Fprintf(sb, "%s\n", values.StringF(values.StrLastSynced, ago))
}

func layoutTally(sb *strings.Builder, tally *libwallet.VoteTally, pct libwallet.TallyPercentages) {
	if tally == nil {
		return
	}
	total := tally.Total()
	rows := []struct {
		label   string
		votes   float64
		percent int
	}{
		{values.String(values.StrVoteYes), libutils.ScaledToFloat(tally.For), pct.For},
		{values.String(values.StrVoteNo), libutils.ScaledToFloat(tally.Against), pct.Against},
		{values.String(values.StrVoteAbstain), libutils.ScaledToFloat(tally.Abstain), pct.Abstain},
	}
	for _, row := range rows {
		width := 0
		if total.Sign() > 0 {
			width = progressWidth(row.percent)
		}
		fmt.Fprintf(sb, "%-8s %16s %4d%%  %s\n", row.label, values.StringF(values.StrVotesUnit, values.FormatVotes(row.votes)),
			row.percent, progressBar(width))
	}
}

// progressWidth caps percent to the 0..100 range.
func progressWidth(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

func progressBar(width int) string {
	filled := width * barWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

func noticeBanner(vm *libwallet.ViewModel) string {
	switch vm.Notice.Type {
	case libwallet.NoticeSuccess:
		switch vm.NoticeKind {
		case libwallet.NoticeKindVoted:
			return "✓ " + values.StringF(values.StrVoteSucceeded, choiceLabel(vm.Notice.Message))
		case libwallet.NoticeKindDelegated:
			return "✓ " + values.String(values.StrDelegated)
		}
		return "✓ " + vm.Notice.Message
	case libwallet.NoticeError:
		message := vm.Notice.Message
		if message == "" || message == libwallet.ErrGenericTxFailure {
			message = values.String(values.StrTxFailed)
		}
		return "✗ " + message
	}
	return ""
}

// choiceLabel maps a choice name to its localized button label.
func choiceLabel(choice string) string {
	c, err := libwallet.ParseVoteChoice(choice)
	if err != nil {
		return choice
	}
	switch c {
	case libwallet.VoteFor:
		return values.String(values.StrVoteYes)
	case libwallet.VoteAgainst:
		return values.String(values.StrVoteNo)
	default:
		return values.String(values.StrVoteAbstain)
	}
}

func votingPower(acct *libwallet.AccountInfo) string {
	if acct == nil || !acct.PowerLoaded {
		return "—"
	}
	return values.FormatVotes(libutils.ScaledToFloat(acct.VotingPower))
}

func actionLabel(command, label string, enabled bool) string {
	if enabled {
		return fmt.Sprintf("[%s: %s]", command, label)
	}
	return fmt.Sprintf("(%s: %s)", command, label)
}

func displayProposalID(vm *libwallet.ViewModel) string {
	if vm.Current == nil {
		return libutils.FormatProposalID("")
	}
	return libutils.FormatProposalID(vm.Current.IDString())
}

func writeRule(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("─", ruleWidth))
	sb.WriteString("\n")
}
