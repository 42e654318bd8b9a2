package governance

import (
	"math/big"
	"sort"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"github.com/ethereum/go-ethereum/common"
)

// sortProposals orders proposals by numerically descending id. Proposals
// without an id sort last.
func sortProposals(proposals []*Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		a, b := proposals[i].ID, proposals[j].ID
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Cmp(b) > 0
		}
	})
}

// selectCurrent returns the votable proposal with the largest id. A proposal
// missing from states is treated as StateUnknown.
func selectCurrent(proposals []*Proposal, states map[string]ProposalState) *Proposal {
	var current *Proposal
	for _, p := range proposals {
		if p == nil || p.ID == nil {
			continue
		}

		state, ok := states[p.ID.String()]
		if !ok {
			state = StateUnknown
		}
		if !state.IsVotable() {
			continue
		}

		if current == nil || p.ID.Cmp(current.ID) > 0 {
			current = p
		}
	}
	return current
}

// tallyPercentages converts a tally into whole percentages. When the total is
// positive the result sums to exactly 100; the points lost to truncation go
// to the options with the largest remainders, ties broken in For, Against,
// Abstain order.
func tallyPercentages(t *VoteTally) TallyPercentages {
	total := t.Total()
	if total.Sign() <= 0 {
		return TallyPercentages{}
	}

	values := []*big.Int{t.For, t.Against, t.Abstain}
	percents := make([]int, len(values))
	remainders := make([]*big.Int, len(values))
	assigned := 0
	hundred := big.NewInt(100)
	for i, v := range values {
		if v == nil {
			v = new(big.Int)
		}
		q, r := new(big.Int).QuoRem(new(big.Int).Mul(v, hundred), total, new(big.Int))
		percents[i] = int(q.Int64())
		remainders[i] = r
		assigned += percents[i]
	}

	order := []int{0, 1, 2}
	sort.SliceStable(order, func(i, j int) bool {
		return remainders[order[i]].Cmp(remainders[order[j]]) > 0
	})
	for k := 0; assigned < 100; k++ {
		idx := order[k%len(order)]
		if remainders[idx].Sign() == 0 {
			break
		}
		percents[idx]++
		assigned++
	}

	return TallyPercentages{For: percents[0], Against: percents[1], Abstain: percents[2]}
}

// votingPowerBlock returns the block at which voting power is measured: the
// later of the snapshot and start blocks, an unresolved value counting as 0.
// A zero result means the current voting power is used.
func votingPowerBlock(snapshot, startBlock *big.Int) *big.Int {
	block := new(big.Int)
	for _, b := range []*big.Int{snapshot, startBlock} {
		if b != nil && b.Cmp(block) > 0 {
			block.Set(b)
		}
	}
	return block
}

// hasDelegated reports whether the account has activated its voting power.
func hasDelegated(power *big.Int, delegate common.Address, delegatedThisSession bool) bool {
	return utils.IsPositive(power) || delegate != (common.Address{}) || delegatedThisSession
}

// accountWarnings derives the eligibility hints for the connected account.
func accountWarnings(acct *AccountInfo) []Warning {
	if acct == nil || !acct.BalanceLoaded {
		return nil
	}

	if !utils.IsPositive(acct.Balance) {
		return []Warning{WarningNoTokens}
	}

	if acct.PowerLoaded && !utils.IsPositive(acct.VotingPower) {
		return []Warning{WarningDelegateFirst}
	}
	return nil
}

// hasKnownZeroPower reports whether the account's voting power has been read
// and is zero.
func hasKnownZeroPower(acct *AccountInfo) bool {
	return acct != nil && acct.PowerLoaded && !utils.IsPositive(acct.VotingPower)
}

type voteEligibility struct {
	current  *Proposal
	account  *AccountInfo
	hasVoted bool
	isBusy   bool
}

// canVote holds only when a current proposal exists, a signing account is
// connected, the viewer has not voted this session, no transaction is in
// flight and the account is not known to hold zero voting power.
func (e voteEligibility) canVote() bool {
	if e.current == nil || e.account == nil || e.account.WatchingOnly {
		return false
	}
	if e.hasVoted || e.isBusy {
		return false
	}
	return !hasKnownZeroPower(e.account)
}

type panelInput struct {
	loaded       bool
	proposalsErr bool
	current      *Proposal
	hasVoted     bool
	hideResults  bool
	tallyLoaded  bool
}

// panelState decides what the tally panel shows. The precedence is error,
// loading, empty, locked, tally loading, results.
func panelState(in panelInput) PanelState {
	switch {
	case in.proposalsErr:
		return PanelError
	case !in.loaded:
		return PanelLoading
	case in.current == nil:
		return PanelNoActiveProposal
	case in.hideResults && !in.hasVoted:
		return PanelLocked
	case !in.tallyLoaded:
		return PanelTallyLoading
	default:
		return PanelResults
	}
}

// proposalTitle prefers the on-chain metadata description over the listing
// description. An empty result means there is nothing to show.
func proposalTitle(meta *ProposalMeta, listed *Proposal) string {
	if meta != nil && meta.Description != "" {
		return meta.Description
	}
	if listed != nil {
		return listed.Description
	}
	return ""
}
