package governance

import (
	"context"
	"math/big"
	"sync"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
)

var errShutdown = errors.New("governance controller is shut down")

// ContractReader is the read-only view of the governor and its voting token.
type ContractReader interface {
	Proposals(ctx context.Context) ([]*Proposal, error)
	ProposalState(ctx context.Context, proposalID *big.Int) (ProposalState, error)
	ProposalVotes(ctx context.Context, proposalID *big.Int) (*VoteTally, error)
	ProposalSnapshot(ctx context.Context, proposalID *big.Int) (*big.Int, error)
	ProposalMeta(ctx context.Context, proposalID *big.Int) (*ProposalMeta, error)
	TokenAddress(ctx context.Context) (common.Address, error)
	VotingPower(ctx context.Context, token, account common.Address, block *big.Int) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Delegates(ctx context.Context, token, account common.Address) (common.Address, error)
}

// Wallet is the connected account. Write methods block until the submitted
// transaction is mined or ctx is done.
type Wallet interface {
	Address() common.Address
	IsWatchingOnly() bool
	CastVote(ctx context.Context, proposalID *big.Int, choice VoteChoice) error
	Delegate(ctx context.Context, token, delegatee common.Address) error
}

// Config holds the controller's collaborators and timings.
type Config struct {
	Reader ContractReader

	// PollInterval defaults to utils.DefaultPollInterval.
	PollInterval time.Duration
	// RecheckDelay defaults to utils.DefaultRecheckDelay.
	RecheckDelay time.Duration
	// HideResultsUntilVoted keeps the tally panel locked until the viewer
	// has voted in this session.
	HideResultsUntilVoted bool

	// Registerer receives the controller metrics. A private registry is used
	// when nil.
	Registerer prometheus.Registerer
}

// Governance polls the governor for proposals, keeps the per-proposal state
// cache and the session, and publishes a fresh ViewModel to its listeners
// after every change.
type Governance struct {
	reader       ContractReader
	pollInterval time.Duration
	recheckDelay time.Duration
	hideResults  bool
	metrics      *metrics

	// ctx lives until Shutdown and bounds background work such as the
	// delayed tally re-check.
	ctx      context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.RWMutex
	cancelSync context.CancelFunc
	closed     bool

	loaded       bool
	proposalsErr error
	proposals    []*Proposal
	states       map[string]ProposalState
	tallies      map[string]*VoteTally
	tallySeqs    map[string]uint64
	nextTallySeq uint64

	meta       *ProposalMeta
	snapshot   *big.Int
	tokenAddr  common.Address
	wallet     Wallet
	account    *AccountInfo
	session    Session
	lastSynced time.Time
	view       *ViewModel

	// publishMu orders snapshot builds with their delivery so listeners
	// never see an older view after a newer one.
	publishMu sync.Mutex

	notificationListenersMu sync.RWMutex
	notificationListeners   map[string]ProposalNotificationListener
}

// New returns a controller that has not fetched anything yet.
func New(cfg *Config) (*Governance, error) {
	const op errors.Op = "governance.New"
	if cfg == nil || cfg.Reader == nil {
		return nil, errors.E(op, errors.Invalid, "contract reader is required")
	}

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m, err := newMetrics("govdash", registerer)
	if err != nil {
		log.Errorf("Error registering governance metrics: %v", err)
		return nil, errors.E(op, err)
	}

	g := &Governance{
		reader:       cfg.Reader,
		pollInterval: cfg.PollInterval,
		recheckDelay: cfg.RecheckDelay,
		hideResults:  cfg.HideResultsUntilVoted,
		metrics:      m,

		states:    make(map[string]ProposalState),
		tallies:   make(map[string]*VoteTally),
		tallySeqs: make(map[string]uint64),
		session:   newSession(),

		notificationListeners: make(map[string]ProposalNotificationListener),
	}
	if g.pollInterval <= 0 {
		g.pollInterval = utils.DefaultPollInterval
	}
	if g.recheckDelay <= 0 {
		g.recheckDelay = utils.DefaultRecheckDelay
	}
	g.ctx, g.shutdown = context.WithCancel(context.Background())
	g.view = g.buildViewModel()

	return g, nil
}

// Shutdown stops syncing, cancels background re-checks and waits for them.
// Results of lookups still in flight are discarded.
func (g *Governance) Shutdown() {
	g.StopSync()

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.shutdown()
	g.wg.Wait()
	log.Info("Governance: shut down")
}

// ConnectWallet makes w the account whose balance, voting power and
// delegation are tracked, and the signer of votes.
func (g *Governance) ConnectWallet(w Wallet) {
	g.mu.Lock()
	g.wallet = w
	g.account = &AccountInfo{
		Address:      w.Address(),
		WatchingOnly: w.IsWatchingOnly(),
	}
	g.session.disconnect()
	g.mu.Unlock()

	log.Infof("Governance: connected account %s", w.Address().Hex())
	g.publish()
}

// DisconnectWallet forgets the connected account.
func (g *Governance) DisconnectWallet() {
	g.mu.Lock()
	g.wallet = nil
	g.account = nil
	g.session.disconnect()
	g.mu.Unlock()

	g.publish()
}

// ViewModel returns the last published snapshot.
func (g *Governance) ViewModel() *ViewModel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.view
}

// DismissNotice clears the transaction notice.
func (g *Governance) DismissNotice() {
	g.mu.Lock()
	g.session.clearNotice()
	g.mu.Unlock()

	g.publish()
}

func (g *Governance) AddNotificationListener(notificationListener ProposalNotificationListener, uniqueIdentifier string) error {
	g.notificationListenersMu.Lock()
	defer g.notificationListenersMu.Unlock()

	if _, ok := g.notificationListeners[uniqueIdentifier]; ok {
		return errors.New(utils.ErrListenerAlreadyExist)
	}

	g.notificationListeners[uniqueIdentifier] = notificationListener
	return nil
}

func (g *Governance) RemoveNotificationListener(uniqueIdentifier string) {
	g.notificationListenersMu.Lock()
	defer g.notificationListenersMu.Unlock()

	delete(g.notificationListeners, uniqueIdentifier)
}

// publish rebuilds the view model and hands it to every listener.
func (g *Governance) publish() {
	g.publishMu.Lock()
	defer g.publishMu.Unlock()

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	vm := g.buildViewModel()
	g.view = vm
	g.mu.Unlock()

	g.notificationListenersMu.RLock()
	defer g.notificationListenersMu.RUnlock()

	for _, notificationListener := range g.notificationListeners {
		notificationListener.OnViewModelUpdated(vm)
	}
}

func (g *Governance) publishCurrentChanged(proposal *Proposal) {
	g.notificationListenersMu.RLock()
	defer g.notificationListenersMu.RUnlock()

	for _, notificationListener := range g.notificationListeners {
		notificationListener.OnCurrentProposalChanged(proposal)
	}
}

func (g *Governance) publishVoteStarted(proposal *Proposal) {
	g.notificationListenersMu.RLock()
	defer g.notificationListenersMu.RUnlock()

	for _, notificationListener := range g.notificationListeners {
		notificationListener.OnProposalVoteStarted(proposal)
	}
}

func (g *Governance) publishVoteFinished(proposal *Proposal) {
	g.notificationListenersMu.RLock()
	defer g.notificationListenersMu.RUnlock()

	for _, notificationListener := range g.notificationListeners {
		notificationListener.OnProposalVoteFinished(proposal)
	}
}

// currentLocked returns the selected proposal. g.mu must be held.
func (g *Governance) currentLocked() *Proposal {
	if g.session.SelectedID == nil {
		return nil
	}
	for _, p := range g.proposals {
		if sameID(p.ID, g.session.SelectedID) {
			return p
		}
	}
	return nil
}

// selectCurrentLocked re-derives the current proposal from the cached states
// and reports whether the selection changed. g.mu must be held for writing.
func (g *Governance) selectCurrentLocked() (*Proposal, bool) {
	current := selectCurrent(g.proposals, g.states)

	var id *big.Int
	if current != nil {
		id = current.ID
	}
	changed := g.session.selectProposal(id)
	if changed {
		g.meta = nil
		g.snapshot = nil
	}
	return current, changed
}

// buildViewModel derives a fresh snapshot. g.mu must be held.
func (g *Governance) buildViewModel() *ViewModel {
	vm := &ViewModel{
		Loading:      !g.loaded,
		TokenAddress: g.tokenAddr,
		HasVoted:     g.session.HasVoted,
		IsVoting:     g.session.IsVoting,
		Notice:       g.session.Notice,
		NoticeKind:   g.session.NoticeKind,
		LastSynced:   g.lastSynced,
	}
	if g.proposalsErr != nil {
		vm.ProposalsErr = g.proposalsErr.Error()
	}

	vm.Proposals = make([]*ProposalView, 0, len(g.proposals))
	for _, p := range g.proposals {
		id := p.ID.String()
		state, ok := g.states[id]
		if !ok {
			state = StateUnknown
		}
		view := &ProposalView{Proposal: p, State: state, Tally: g.tallies[id]}
		vm.Proposals = append(vm.Proposals, view)
		if g.session.isSelected(p.ID) {
			vm.Current = view
		}
	}

	var current *Proposal
	if vm.Current != nil {
		current = vm.Current.Proposal
		vm.Title = proposalTitle(g.meta, current)
		vm.Tally = vm.Current.Tally
		if vm.Tally != nil {
			vm.Percentages = tallyPercentages(vm.Tally)
		}
	}

	if g.account != nil {
		acct := *g.account
		vm.Account = &acct
		vm.Warnings = accountWarnings(&acct)
	}

	vm.CanVote = voteEligibility{
		current:  current,
		account:  vm.Account,
		hasVoted: g.session.HasVoted,
		isBusy:   g.session.IsVoting || g.session.IsDelegating,
	}.canVote()
	vm.CanDelegate = vm.Account != nil && !vm.Account.WatchingOnly &&
		g.tokenAddr != (common.Address{}) && !vm.Account.HasDelegated &&
		!g.session.IsDelegating && !g.session.IsVoting

	vm.Panel = panelState(panelInput{
		loaded:       g.loaded,
		proposalsErr: g.proposalsErr != nil,
		current:      current,
		hasVoted:     g.session.HasVoted,
		hideResults:  g.hideResults,
		tallyLoaded:  vm.Tally != nil,
	})

	return vm
}
