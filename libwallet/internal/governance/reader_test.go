package governance

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

var (
	testToken   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testAccount = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func votes(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// testReader is an in-memory ContractReader. Every field may be changed
// between refreshes while holding mu.
type testReader struct {
	mu sync.Mutex

	proposals    []*Proposal
	proposalsErr error
	states       map[string]ProposalState
	stateErrs    map[string]error
	tallies      map[string]*VoteTally
	snapshots    map[string]*big.Int
	token        common.Address
	balance      *big.Int
	power        *big.Int
	delegate     common.Address

	voteCalls  map[string]int
	powerCalls int
	powerBlock *big.Int

	// block, when set, makes Proposals wait until it is closed.
	block chan struct{}
	// onMeta, when set, runs at the start of every ProposalMeta call.
	onMeta func()
}

func newTestReader() *testReader {
	return &testReader{
		states:    make(map[string]ProposalState),
		stateErrs: make(map[string]error),
		tallies:   make(map[string]*VoteTally),
		snapshots: make(map[string]*big.Int),
		voteCalls: make(map[string]int),
		token:     testToken,
		balance:   new(big.Int),
		power:     new(big.Int),
	}
}

func (r *testReader) addProposal(id int64, state ProposalState, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proposals = append(r.proposals, &Proposal{
		ID:          big.NewInt(id),
		Description: description,
		StartBlock:  big.NewInt(100 + id),
		EndBlock:    big.NewInt(200 + id),
		ListedState: StateUnknown,
	})
	r.states[big.NewInt(id).String()] = state
}

func (r *testReader) setState(id int64, state ProposalState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[big.NewInt(id).String()] = state
}

func (r *testReader) setTally(id int64, forVotes, against, abstain int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tallies[big.NewInt(id).String()] = &VoteTally{For: votes(forVotes), Against: votes(against), Abstain: votes(abstain)}
}

func (r *testReader) tallyCalls(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.voteCalls[big.NewInt(id).String()]
}

func (r *testReader) Proposals(ctx context.Context) ([]*Proposal, error) {
	r.mu.Lock()
	block := r.block
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.proposalsErr != nil {
		return nil, r.proposalsErr
	}
	proposals := make([]*Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		cp := *p
		proposals = append(proposals, &cp)
	}
	return proposals, nil
}

func (r *testReader) ProposalState(_ context.Context, id *big.Int) (ProposalState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.stateErrs[id.String()]; err != nil {
		return StateUnknown, err
	}
	state, ok := r.states[id.String()]
	if !ok {
		return StateUnknown, context.DeadlineExceeded
	}
	return state, nil
}

func (r *testReader) ProposalVotes(_ context.Context, id *big.Int) (*VoteTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voteCalls[id.String()]++
	tally, ok := r.tallies[id.String()]
	if !ok {
		return &VoteTally{For: new(big.Int), Against: new(big.Int), Abstain: new(big.Int)}, nil
	}
	cp := *tally
	return &cp, nil
}

func (r *testReader) ProposalSnapshot(_ context.Context, id *big.Int) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snapshot, ok := r.snapshots[id.String()]; ok {
		return snapshot, nil
	}
	return new(big.Int), nil
}

func (r *testReader) ProposalMeta(_ context.Context, id *big.Int) (*ProposalMeta, error) {
	r.mu.Lock()
	onMeta := r.onMeta
	r.mu.Unlock()
	if onMeta != nil {
		onMeta()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.proposals {
		if p.ID.Cmp(id) == 0 {
			return &ProposalMeta{Description: p.Description, StartBlock: p.StartBlock, EndBlock: p.EndBlock}, nil
		}
	}
	return nil, context.DeadlineExceeded
}

func (r *testReader) TokenAddress(context.Context) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token, nil
}

func (r *testReader) VotingPower(_ context.Context, _, _ common.Address, block *big.Int) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.powerCalls++
	r.powerBlock = block
	return new(big.Int).Set(r.power), nil
}

func (r *testReader) BalanceOf(context.Context, common.Address, common.Address) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return new(big.Int).Set(r.balance), nil
}

func (r *testReader) Delegates(context.Context, common.Address, common.Address) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delegate, nil
}

// testListener records what the controller published.
type testListener struct {
	mu       sync.Mutex
	views    []*ViewModel
	changed  []*Proposal
	started  []*Proposal
	finished []*Proposal
}

func (l *testListener) OnViewModelUpdated(vm *ViewModel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views = append(l.views, vm)
}

func (l *testListener) OnCurrentProposalChanged(p *Proposal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = append(l.changed, p)
}

func (l *testListener) OnProposalVoteStarted(p *Proposal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, p)
}

func (l *testListener) OnProposalVoteFinished(p *Proposal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finished = append(l.finished, p)
}

func (l *testListener) viewCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.views)
}

// testWallet signs nothing; it records calls and returns the configured
// errors.
type testWallet struct {
	mu           sync.Mutex
	address      common.Address
	watchingOnly bool
	voteErr      error
	delegateErr  error
	votes        []VoteChoice
	onDelegate   func()
}

func (w *testWallet) Address() common.Address { return w.address }

func (w *testWallet) IsWatchingOnly() bool { return w.watchingOnly }

func (w *testWallet) CastVote(_ context.Context, _ *big.Int, choice VoteChoice) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.voteErr != nil {
		return w.voteErr
	}
	w.votes = append(w.votes, choice)
	return nil
}

func (w *testWallet) Delegate(context.Context, common.Address, common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.delegateErr != nil {
		return w.delegateErr
	}
	if w.onDelegate != nil {
		w.onDelegate()
	}
	return nil
}
