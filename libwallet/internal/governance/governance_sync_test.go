package governance

import (
	"context"
	"errors"
	"math/big"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Governance", func() {
	var (
		ctx      context.Context
		reader   *testReader
		listener *testListener
		g        *Governance
	)

	BeforeEach(func() {
		ctx = context.Background()
		reader = newTestReader()
		listener = &testListener{}

		var err error
		g, err = New(&Config{Reader: reader, PollInterval: 10 * time.Millisecond, RecheckDelay: 5 * time.Millisecond})
		Expect(err).To(BeNil())
		Expect(g.AddNotificationListener(listener, "test")).To(Succeed())
	})

	AfterEach(func() {
		g.Shutdown()
	})

	It("rejects a missing reader", func() {
		_, err := New(&Config{})
		Expect(err).ToNot(BeNil())
		_, err = New(nil)
		Expect(err).ToNot(BeNil())
	})

	It("rejects a duplicate listener", func() {
		err := g.AddNotificationListener(&testListener{}, "test")
		Expect(err).To(MatchError(utils.ErrListenerAlreadyExist))
		g.RemoveNotificationListener("test")
		Expect(g.AddNotificationListener(listener, "test")).To(Succeed())
	})

	It("starts in the loading state", func() {
		vm := g.ViewModel()
		Expect(vm.Loading).To(BeTrue())
		Expect(vm.Panel).To(Equal(PanelLoading))
		Expect(vm.CanVote).To(BeFalse())
		Expect(g.GetLastSyncedTimeStamp()).To(Equal(int64(0)))
	})

	Describe("Refresh", func() {
		It("selects the largest active proposal and derives its tally", func() {
			reader.addProposal(1, StateActive, "first")
			reader.addProposal(3, StateDefeated, "third")
			reader.addProposal(2, StateActive, "second")
			reader.setTally(2, 3, 1, 0)

			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.Loading).To(BeFalse())
			Expect(vm.ProposalsErr).To(BeEmpty())
			Expect(vm.Proposals).To(HaveLen(3))
			Expect(vm.Proposals[0].IDString()).To(Equal("3"))
			Expect(vm.Proposals[0].State).To(Equal(StateDefeated))
			Expect(vm.Current.IDString()).To(Equal("2"))
			Expect(vm.Title).To(Equal("second"))
			Expect(vm.Percentages).To(Equal(TallyPercentages{For: 75, Against: 25}))
			Expect(vm.Panel).To(Equal(PanelResults))
			Expect(vm.TokenAddress).To(Equal(testToken))
			Expect(g.GetLastSyncedTimeStamp()).To(BeNumerically(">", 0))
			Expect(listener.viewCount()).To(BeNumerically(">", 0))
		})

		It("keeps other tallies when one state lookup fails", func() {
			reader.addProposal(1, StateActive, "first")
			reader.addProposal(2, StateDefeated, "second")
			reader.setTally(1, 1, 1, 0)
			reader.setTally(2, 0, 2, 0)
			reader.stateErrs["2"] = errors.New("request timed out")

			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.ProposalsErr).To(BeEmpty())
			Expect(vm.Proposals).To(HaveLen(2))

			By("falling back to the unknown state, which counts as active")
			Expect(vm.Proposals[0].State).To(Equal(StateUnknown))
			Expect(vm.Current.IDString()).To(Equal("2"))

			By("still showing the tally of the other proposal")
			Expect(vm.Proposals[1].Tally).ToNot(BeNil())
			Expect(vm.Proposals[1].Tally.For).To(Equal(votes(1)))
		})

		It("uses the listed state when the state lookup fails", func() {
			reader.addProposal(4, StateActive, "four")
			reader.addProposal(5, StateActive, "five")
			reader.proposals[1].ListedState = StateExecuted
			reader.stateErrs["5"] = errors.New("request timed out")

			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(g.ViewModel().Current.IDString()).To(Equal("4"))
		})

		It("shows the raw listing error and no proposals when the listing fails", func() {
			reader.addProposal(1, StateActive, "first")
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(g.ViewModel().Current).ToNot(BeNil())

			reader.proposalsErr = errors.New("header not found")
			err := g.Refresh(ctx)
			Expect(err).ToNot(BeNil())

			vm := g.ViewModel()
			Expect(vm.ProposalsErr).To(Equal("header not found"))
			Expect(vm.Proposals).To(BeEmpty())
			Expect(vm.Current).To(BeNil())
			Expect(vm.Panel).To(Equal(PanelError))
			Expect(vm.CanVote).To(BeFalse())

			By("recovering on the next successful listing")
			reader.proposalsErr = nil
			Expect(g.Refresh(ctx)).To(Succeed())
			vm = g.ViewModel()
			Expect(vm.ProposalsErr).To(BeEmpty())
			Expect(vm.Current.IDString()).To(Equal("1"))
		})

		It("shows the empty state when nothing is active", func() {
			reader.addProposal(1, StateSucceeded, "first")
			reader.addProposal(2, StatePending, "second")
			g.ConnectWallet(&testWallet{address: testAccount})
			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.Current).To(BeNil())
			Expect(vm.Title).To(BeEmpty())
			Expect(vm.Panel).To(Equal(PanelNoActiveProposal))
			Expect(vm.CanVote).To(BeFalse())
		})

		It("notifies voting start, end and current proposal changes", func() {
			reader.addProposal(1, StatePending, "first")
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(listener.changed).To(BeEmpty())

			reader.setState(1, StateActive)
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(listener.started).To(HaveLen(1))
			Expect(listener.changed).To(HaveLen(1))
			Expect(listener.changed[0].IDString()).To(Equal("1"))

			reader.setState(1, StateSucceeded)
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(listener.finished).To(HaveLen(1))
			Expect(listener.changed).To(HaveLen(2))
			Expect(listener.changed[1]).To(BeNil())
		})

		It("measures voting power at the later of snapshot and start block", func() {
			reader.addProposal(1, StateActive, "first")
			g.ConnectWallet(&testWallet{address: testAccount})

			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(reader.powerBlock.Int64()).To(Equal(int64(101)))

			reader.snapshots["1"] = big.NewInt(150)
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(reader.powerBlock.Int64()).To(Equal(int64(150)))
			Expect(g.ViewModel().Account.PowerBlock.Int64()).To(Equal(int64(150)))
		})

		It("discards lookups that finish after shutdown", func() {
			reader.addProposal(1, StateActive, "first")
			reader.block = make(chan struct{})

			done := make(chan error, 1)
			go func() { done <- g.Refresh(ctx) }()

			g.Shutdown()
			close(reader.block)

			Eventually(done).Should(Receive(MatchError(errShutdown)))
			Expect(g.ViewModel().Loading).To(BeTrue())
			Expect(listener.viewCount()).To(Equal(0))
		})
	})

	Describe("account", func() {
		var wallet *testWallet

		BeforeEach(func() {
			reader.addProposal(1, StateActive, "first")
			wallet = &testWallet{address: testAccount}
			g.ConnectWallet(wallet)
		})

		It("asks a holder without voting power to delegate first", func() {
			reader.balance = votes(5)
			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.Warnings).To(Equal([]Warning{WarningDelegateFirst}))
			Expect(vm.Account.HasDelegated).To(BeFalse())
			Expect(vm.CanVote).To(BeFalse())
			Expect(vm.CanDelegate).To(BeTrue())

			By("delegating to itself")
			wallet.onDelegate = func() {
				reader.mu.Lock()
				reader.power = votes(5)
				reader.mu.Unlock()
			}
			Expect(g.Delegate(ctx)).To(Succeed())

			vm = g.ViewModel()
			Expect(vm.Warnings).To(BeEmpty())
			Expect(vm.Account.HasDelegated).To(BeTrue())
			Expect(vm.CanDelegate).To(BeFalse())
			Expect(vm.CanVote).To(BeTrue())
			Expect(vm.Notice.Type).To(Equal(NoticeSuccess))
			Expect(vm.NoticeKind).To(Equal(NoticeKindDelegated))

			err := g.Delegate(ctx)
			Expect(utils.TranslateError(err)).To(MatchError(utils.ErrAlreadyDelegated))
		})

		It("counts a non-zero delegate as delegated even without power", func() {
			reader.balance = votes(5)
			reader.delegate = common.HexToAddress("0x00000000000000000000000000000000000000cc")
			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.Account.HasDelegated).To(BeTrue())
			Expect(vm.CanDelegate).To(BeFalse())
		})

		It("warns an account without tokens", func() {
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(g.ViewModel().HasWarning(WarningNoTokens)).To(BeTrue())
		})

		It("forgets the account on disconnect", func() {
			Expect(g.Refresh(ctx)).To(Succeed())
			g.DisconnectWallet()

			vm := g.ViewModel()
			Expect(vm.Account).To(BeNil())
			Expect(vm.CanVote).To(BeFalse())
			Expect(vm.CanDelegate).To(BeFalse())
		})
	})

	Describe("voting", func() {
		var wallet *testWallet

		BeforeEach(func() {
			reader.addProposal(1, StateActive, "first")
			reader.balance = votes(5)
			reader.power = votes(5)
			wallet = &testWallet{address: testAccount}
			g.ConnectWallet(wallet)
			Expect(g.Refresh(ctx)).To(Succeed())
			Expect(g.ViewModel().CanVote).To(BeTrue())
		})

		It("records the vote and refetches the tally twice", func() {
			before := reader.tallyCalls(1)
			reader.setTally(1, 5, 0, 0)

			Expect(g.CastVote(ctx, VoteFor)).To(Succeed())
			Expect(wallet.votes).To(Equal([]VoteChoice{VoteFor}))

			vm := g.ViewModel()
			Expect(vm.HasVoted).To(BeTrue())
			Expect(vm.CanVote).To(BeFalse())
			Expect(vm.Notice).To(Equal(TxNotice{Type: NoticeSuccess, Message: "for"}))
			Expect(vm.NoticeKind).To(Equal(NoticeKindVoted))
			Expect(vm.Percentages.For).To(Equal(100))

			Eventually(func() int { return reader.tallyCalls(1) }).Should(Equal(before + 2))

			err := g.CastVote(ctx, VoteAgainst)
			Expect(utils.TranslateError(err)).To(MatchError(utils.ErrAlreadyVoted))
		})

		It("resets the vote when a newer proposal becomes current", func() {
			Expect(g.CastVote(ctx, VoteAbstain)).To(Succeed())
			Expect(g.ViewModel().HasVoted).To(BeTrue())

			reader.addProposal(2, StateActive, "second")
			Expect(g.Refresh(ctx)).To(Succeed())

			vm := g.ViewModel()
			Expect(vm.Current.IDString()).To(Equal("2"))
			Expect(vm.HasVoted).To(BeFalse())
			Expect(vm.Notice).To(Equal(TxNotice{Type: NoticeIdle}))
			Expect(vm.CanVote).To(BeTrue())
		})

		It("shows the failure reason of a rejected vote", func() {
			wallet.voteErr = errors.New("execution reverted: Governor: vote not currently active")

			Expect(g.CastVote(ctx, VoteFor)).ToNot(Succeed())

			vm := g.ViewModel()
			Expect(vm.HasVoted).To(BeFalse())
			Expect(vm.IsVoting).To(BeFalse())
			Expect(vm.Notice).To(Equal(TxNotice{Type: NoticeError, Message: "Governor: vote not currently active"}))

			By("dismissing the notice")
			g.DismissNotice()
			Expect(g.ViewModel().Notice.Type).To(Equal(NoticeIdle))
		})

		It("rejects an invalid choice without submitting", func() {
			err := g.CastVote(ctx, VoteChoice(3))
			Expect(utils.TranslateError(err)).To(MatchError(utils.ErrInvalidVoteChoice))
			Expect(wallet.votes).To(BeEmpty())
			Expect(g.ViewModel().Notice.Type).To(Equal(NoticeIdle))
		})

		It("rejects a vote without an active proposal without touching the notice", func() {
			reader.setState(1, StateDefeated)
			Expect(g.Refresh(ctx)).To(Succeed())

			err := g.CastVote(ctx, VoteFor)
			Expect(utils.TranslateError(err)).To(MatchError(utils.ErrNoActiveProposal))
			Expect(wallet.votes).To(BeEmpty())
			Expect(g.ViewModel().Notice.Type).To(Equal(NoticeIdle))
		})

		It("rejects a vote from a watching-only account", func() {
			g.ConnectWallet(&testWallet{address: testAccount, watchingOnly: true})
			err := g.CastVote(ctx, VoteFor)
			Expect(utils.TranslateError(err)).To(MatchError(utils.ErrWalletIsWatchOnly))
		})
	})

	Describe("Sync", func() {
		It("polls until stopped and refuses a second loop", func() {
			reader.addProposal(1, StateActive, "first")

			done := make(chan error, 1)
			go func() { done <- g.Sync(ctx) }()
			Eventually(g.IsSyncing).Should(BeTrue())

			err := g.Sync(ctx)
			Expect(err).To(MatchError(utils.ErrSyncAlreadyInProgress))

			Eventually(func() int { return reader.tallyCalls(1) }).Should(BeNumerically(">=", 3))

			g.StopSync()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
			Eventually(g.IsSyncing).Should(BeFalse())
		})
	})
})
