package governance

import (
	"math/big"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func proposal(id int64) *Proposal {
	return &Proposal{ID: big.NewInt(id), StartBlock: big.NewInt(id * 10), ListedState: StateUnknown}
}

func statesOf(pairs map[int64]ProposalState) map[string]ProposalState {
	states := make(map[string]ProposalState, len(pairs))
	for id, state := range pairs {
		states[big.NewInt(id).String()] = state
	}
	return states
}

var _ = Describe("ViewModel", func() {
	Describe("selectCurrent", func() {
		It("picks the largest active id", func() {
			proposals := []*Proposal{proposal(1), proposal(3), proposal(2)}
			states := statesOf(map[int64]ProposalState{1: StateActive, 2: StateActive, 3: StateDefeated})
			Expect(selectCurrent(proposals, states).ID.Int64()).To(Equal(int64(2)))
		})

		It("compares ids numerically", func() {
			proposals := []*Proposal{proposal(9), proposal(10)}
			states := statesOf(map[int64]ProposalState{9: StateActive, 10: StateActive})
			Expect(selectCurrent(proposals, states).ID.Int64()).To(Equal(int64(10)))
		})

		It("treats a missing or unknown state as active", func() {
			proposals := []*Proposal{proposal(4), proposal(7), proposal(5)}
			states := statesOf(map[int64]ProposalState{4: StateActive, 5: StateUnknown})
			Expect(selectCurrent(proposals, states).ID.Int64()).To(Equal(int64(7)))

			states["7"] = StateExecuted
			Expect(selectCurrent(proposals, states).ID.Int64()).To(Equal(int64(5)))
		})

		It("selects nothing when no proposal is votable", func() {
			proposals := []*Proposal{proposal(1), proposal(2)}
			states := statesOf(map[int64]ProposalState{1: StatePending, 2: StateSucceeded})
			Expect(selectCurrent(proposals, states)).To(BeNil())
			Expect(selectCurrent(nil, states)).To(BeNil())
		})
	})

	Describe("sortProposals", func() {
		It("orders by descending id with nil ids last", func() {
			proposals := []*Proposal{proposal(2), {}, proposal(11), proposal(3)}
			sortProposals(proposals)
			Expect(proposals[0].ID.Int64()).To(Equal(int64(11)))
			Expect(proposals[1].ID.Int64()).To(Equal(int64(3)))
			Expect(proposals[2].ID.Int64()).To(Equal(int64(2)))
			Expect(proposals[3].ID).To(BeNil())
		})
	})

	Describe("tallyPercentages", func() {
		It("splits 3:1:0 into 75, 25 and 0", func() {
			p := tallyPercentages(&VoteTally{For: votes(3), Against: votes(1), Abstain: votes(0)})
			Expect(p).To(Equal(TallyPercentages{For: 75, Against: 25, Abstain: 0}))
		})

		It("returns zeros for an empty tally", func() {
			p := tallyPercentages(&VoteTally{For: new(big.Int), Against: new(big.Int), Abstain: new(big.Int)})
			Expect(p).To(Equal(TallyPercentages{}))
			Expect(tallyPercentages(&VoteTally{})).To(Equal(TallyPercentages{}))
		})

		It("always sums to 100 when votes exist", func() {
			for _, t := range []*VoteTally{
				{For: votes(1), Against: votes(1), Abstain: votes(1)},
				{For: votes(2), Against: votes(1), Abstain: votes(4)},
				{For: big.NewInt(1), Against: votes(1000), Abstain: nil},
				{For: votes(0), Against: votes(0), Abstain: big.NewInt(7)},
			} {
				p := tallyPercentages(t)
				Expect(p.For + p.Against + p.Abstain).To(Equal(100))
			}
		})

		It("gives the rounding point to the largest remainder", func() {
			p := tallyPercentages(&VoteTally{For: votes(1), Against: votes(1), Abstain: votes(1)})
			Expect(p).To(Equal(TallyPercentages{For: 34, Against: 33, Abstain: 33}))

			p = tallyPercentages(&VoteTally{For: votes(1), Against: votes(2), Abstain: votes(4)})
			Expect(p).To(Equal(TallyPercentages{For: 14, Against: 29, Abstain: 57}))
		})
	})

	Describe("votingPowerBlock", func() {
		It("uses the later of snapshot and start block", func() {
			Expect(votingPowerBlock(big.NewInt(120), big.NewInt(110)).Int64()).To(Equal(int64(120)))
			Expect(votingPowerBlock(big.NewInt(90), big.NewInt(110)).Int64()).To(Equal(int64(110)))
			Expect(votingPowerBlock(nil, big.NewInt(110)).Int64()).To(Equal(int64(110)))
			Expect(votingPowerBlock(nil, nil).Sign()).To(Equal(0))
		})
	})

	Describe("hasDelegated", func() {
		It("requires power or a delegate", func() {
			Expect(hasDelegated(new(big.Int), common.Address{}, false)).To(BeFalse())
			Expect(hasDelegated(nil, common.Address{}, false)).To(BeFalse())
			Expect(hasDelegated(new(big.Int), testAccount, false)).To(BeTrue())
			Expect(hasDelegated(votes(1), common.Address{}, false)).To(BeTrue())
			Expect(hasDelegated(new(big.Int), common.Address{}, true)).To(BeTrue())
		})
	})

	Describe("accountWarnings and eligibility", func() {
		var acct *AccountInfo

		BeforeEach(func() {
			acct = &AccountInfo{Address: testAccount}
		})

		It("warns nothing until the balance is loaded", func() {
			Expect(accountWarnings(acct)).To(BeEmpty())
			Expect(accountWarnings(nil)).To(BeEmpty())
		})

		It("warns about missing tokens", func() {
			acct.Balance, acct.BalanceLoaded = new(big.Int), true
			acct.VotingPower, acct.PowerLoaded = new(big.Int), true
			Expect(accountWarnings(acct)).To(Equal([]Warning{WarningNoTokens}))
		})

		It("asks a holder without voting power to delegate first and disables voting", func() {
			acct.Balance, acct.BalanceLoaded = votes(5), true
			acct.VotingPower, acct.PowerLoaded = new(big.Int), true
			Expect(accountWarnings(acct)).To(Equal([]Warning{WarningDelegateFirst}))

			e := voteEligibility{current: proposal(1), account: acct}
			Expect(e.canVote()).To(BeFalse())

			acct.VotingPower = votes(5)
			Expect(accountWarnings(acct)).To(BeEmpty())
			Expect(e.canVote()).To(BeTrue())
		})

		It("disables voting without a proposal, an account, or after voting", func() {
			Expect(voteEligibility{account: acct}.canVote()).To(BeFalse())
			Expect(voteEligibility{current: proposal(1)}.canVote()).To(BeFalse())
			Expect(voteEligibility{current: proposal(1), account: acct, hasVoted: true}.canVote()).To(BeFalse())
			Expect(voteEligibility{current: proposal(1), account: acct, isBusy: true}.canVote()).To(BeFalse())

			acct.WatchingOnly = true
			Expect(voteEligibility{current: proposal(1), account: acct}.canVote()).To(BeFalse())
		})
	})

	Describe("panelState", func() {
		It("follows error, loading, empty, locked, tally loading, results", func() {
			current := proposal(1)
			Expect(panelState(panelInput{proposalsErr: true, loaded: true, current: current})).To(Equal(PanelError))
			Expect(panelState(panelInput{})).To(Equal(PanelLoading))
			Expect(panelState(panelInput{loaded: true, hasVoted: true})).To(Equal(PanelNoActiveProposal))
			Expect(panelState(panelInput{loaded: true, current: current, hideResults: true, tallyLoaded: true})).To(Equal(PanelLocked))
			Expect(panelState(panelInput{loaded: true, current: current, hideResults: true, hasVoted: true})).To(Equal(PanelTallyLoading))
			Expect(panelState(panelInput{loaded: true, current: current, tallyLoaded: true})).To(Equal(PanelResults))
		})
	})

	Describe("proposalTitle", func() {
		It("prefers the metadata description", func() {
			listed := &Proposal{Description: "listed"}
			Expect(proposalTitle(&ProposalMeta{Description: "meta"}, listed)).To(Equal("meta"))
			Expect(proposalTitle(&ProposalMeta{}, listed)).To(Equal("listed"))
			Expect(proposalTitle(nil, nil)).To(BeEmpty())
		})
	})

	Describe("Session", func() {
		It("resets the vote flag and notice when the selection changes", func() {
			s := newSession()
			Expect(s.selectProposal(big.NewInt(1))).To(BeTrue())
			s.voteSucceeded(VoteFor)
			Expect(s.HasVoted).To(BeTrue())
			Expect(s.Notice.Type).To(Equal(NoticeSuccess))

			By("keeping the state for the same id")
			Expect(s.selectProposal(big.NewInt(1))).To(BeFalse())
			Expect(s.HasVoted).To(BeTrue())

			By("clearing it for a new id")
			Expect(s.selectProposal(big.NewInt(2))).To(BeTrue())
			Expect(s.HasVoted).To(BeFalse())
			Expect(s.Notice).To(Equal(TxNotice{Type: NoticeIdle}))
			Expect(s.NoticeKind).To(Equal(NoticeKindNone))

			By("clearing it when nothing is selected")
			s.txFailed("boom")
			Expect(s.selectProposal(nil)).To(BeTrue())
			Expect(s.Notice.Type).To(Equal(NoticeIdle))
			Expect(s.SelectedID).To(BeNil())
		})
	})
})

var _ = Describe("ParseVoteChoice", func() {
	It("accepts names, aliases and support values", func() {
		for input, want := range map[string]VoteChoice{
			"for": VoteFor, "YES": VoteFor, "1": VoteFor,
			"against": VoteAgainst, "no": VoteAgainst, "0": VoteAgainst,
			" abstain ": VoteAbstain, "2": VoteAbstain,
		} {
			got, err := ParseVoteChoice(input)
			Expect(err).To(BeNil())
			Expect(got).To(Equal(want))
		}
	})

	It("rejects anything else", func() {
		_, err := ParseVoteChoice("maybe")
		Expect(utils.TranslateError(err)).To(MatchError(utils.ErrInvalidVoteChoice))
	})
})
