package governance

import (
	"context"
	"math/big"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the per-proposal calls issued by one refresh.
const maxConcurrentLookups = 16

// Sync refreshes immediately and then once per poll interval until ctx is
// done or StopSync is called.
func (g *Governance) Sync(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return errShutdown
	}
	if g.cancelSync != nil {
		g.mu.Unlock()
		return errors.New(utils.ErrSyncAlreadyInProgress)
	}

	syncCtx, cancel := context.WithCancel(ctx)
	g.cancelSync = cancel
	g.mu.Unlock()

	defer func() {
		cancel()
		g.mu.Lock()
		g.cancelSync = nil
		g.mu.Unlock()
	}()

	log.Info("Governance sync: started")
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		if err := g.Refresh(syncCtx); err != nil && syncCtx.Err() == nil {
			log.Errorf("Governance sync: refresh failed, retrying in %v: %v", g.pollInterval, err)
		}

		select {
		case <-syncCtx.Done():
			log.Info("Governance sync: stopped")
			return syncCtx.Err()
		case <-ticker.C:
		}
	}
}

// IsSyncing reports whether the poll loop is running.
func (g *Governance) IsSyncing() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cancelSync != nil
}

// StopSync cancels the poll loop. Lookups in flight are discarded.
func (g *Governance) StopSync() {
	g.mu.RLock()
	cancel := g.cancelSync
	g.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
}

// GetLastSyncedTimeStamp returns the unix time of the last completed refresh,
// 0 before the first one.
func (g *Governance) GetLastSyncedTimeStamp() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.lastSynced.IsZero() {
		return 0
	}
	return g.lastSynced.Unix()
}

type proposalLookup struct {
	state    ProposalState
	tally    *VoteTally
	tallySeq uint64
}

// Refresh runs one sync cycle: the bulk listing, the per-proposal states and
// tallies, then the current proposal's metadata and the connected account.
// Only a failed listing is returned as an error; every per-item failure
// degrades to a fallback value.
func (g *Governance) Refresh(ctx context.Context) error {
	const op errors.Op = "governance.Refresh"
	g.metrics.refreshes.Inc()

	proposals, err := g.reader.Proposals(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.metrics.refreshFailures.Inc()
		log.Errorf("Error fetching proposals: %v", err)

		g.mu.Lock()
		if g.isStaleLocked(ctx) {
			g.mu.Unlock()
			return g.staleErr(ctx)
		}
		// The selection and the session outlive a failed listing; only a
		// successful listing may change the current proposal.
		g.loaded = true
		g.proposalsErr = err
		g.proposals = nil
		g.mu.Unlock()

		g.publish()
		return errors.E(op, errors.IO, err)
	}

	sortProposals(proposals)
	lookups := g.lookupProposals(ctx, proposals)

	g.mu.Lock()
	if g.isStaleLocked(ctx) {
		g.mu.Unlock()
		return g.staleErr(ctx)
	}

	previous := g.states
	g.states = make(map[string]ProposalState, len(proposals))
	var started, finished []*Proposal
	for i, p := range proposals {
		id := p.ID.String()
		state := lookups[i].state
		g.states[id] = state

		if prev, ok := previous[id]; ok && prev != state {
			switch {
			case prev == StatePending && state == StateActive:
				started = append(started, p)
			case prev == StateActive && state != StateUnknown && state != StatePending:
				finished = append(finished, p)
			}
		}

		if tally := lookups[i].tally; tally != nil && lookups[i].tallySeq > g.tallySeqs[id] {
			g.tallies[id] = tally
			g.tallySeqs[id] = lookups[i].tallySeq
		}
	}
	for id := range g.tallies {
		if _, ok := g.states[id]; !ok {
			delete(g.tallies, id)
			delete(g.tallySeqs, id)
		}
	}

	g.loaded = true
	g.proposalsErr = nil
	g.proposals = proposals
	current, changed := g.selectCurrentLocked()
	g.mu.Unlock()

	for _, p := range started {
		log.Infof("Governance sync: voting started on proposal %s", p.IDString())
		g.publishVoteStarted(p)
	}
	for _, p := range finished {
		log.Infof("Governance sync: voting finished on proposal %s", p.IDString())
		g.publishVoteFinished(p)
	}
	if changed {
		if current != nil {
			log.Infof("Governance sync: current proposal is now %s", current.IDString())
		} else {
			log.Info("Governance sync: no active proposal")
		}
		g.publishCurrentChanged(current)
	}

	g.refreshCurrent(ctx, current)

	g.mu.Lock()
	if !g.isStaleLocked(ctx) {
		g.lastSynced = time.Now()
		g.metrics.lastSynced.SetToCurrentTime()
	}
	g.mu.Unlock()

	g.publish()
	return nil
}

// lookupProposals fetches the state and tally of every proposal
// concurrently. A failed state lookup falls back to the listing's state (or
// StateUnknown); a failed tally lookup leaves the tally nil.
func (g *Governance) lookupProposals(ctx context.Context, proposals []*Proposal) []proposalLookup {
	results := make([]proposalLookup, len(proposals))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentLookups)
	for i, p := range proposals {
		i, p := i, p
		eg.Go(func() error {
			state, err := g.reader.ProposalState(egCtx, p.ID)
			if err != nil {
				g.metrics.stateLookupFailures.Inc()
				state = p.ListedState
				log.Warnf("State lookup for proposal %s failed, using %s: %v", p.IDString(), state, err)
			}
			results[i].state = state

			seq := g.issueTallySeq()
			tally, err := g.reader.ProposalVotes(egCtx, p.ID)
			if err != nil {
				log.Warnf("Tally lookup for proposal %s failed: %v", p.IDString(), err)
				return nil
			}
			results[i].tally = tally
			results[i].tallySeq = seq
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// refreshCurrent loads the current proposal's metadata and snapshot, the
// token address and the connected account's balance, voting power and
// delegate. Each read degrades independently.
func (g *Governance) refreshCurrent(ctx context.Context, current *Proposal) {
	var meta *ProposalMeta
	var snapshot *big.Int
	if current != nil {
		var err error
		meta, err = g.reader.ProposalMeta(ctx, current.ID)
		if err != nil {
			log.Warnf("Metadata lookup for proposal %s failed: %v", current.IDString(), err)
		}
		snapshot, err = g.reader.ProposalSnapshot(ctx, current.ID)
		if err != nil {
			log.Warnf("Snapshot lookup for proposal %s failed: %v", current.IDString(), err)
		}
	}

	g.mu.Lock()
	if g.isStaleLocked(ctx) {
		g.mu.Unlock()
		return
	}
	if current != nil && g.session.isSelected(current.ID) {
		if meta != nil {
			g.meta = meta
		}
		if snapshot != nil {
			g.snapshot = snapshot
		}
	}
	token := g.tokenAddr
	g.mu.Unlock()

	if token == (common.Address{}) {
		addr, err := g.reader.TokenAddress(ctx)
		if err != nil {
			log.Warnf("Token address lookup failed: %v", err)
		} else {
			g.mu.Lock()
			g.tokenAddr = addr
			g.mu.Unlock()
		}
	}

	g.refreshAccount(ctx)
}

// refreshAccount reads the connected account's token balance, its voting
// power at the current proposal's snapshot and its delegate.
func (g *Governance) refreshAccount(ctx context.Context) {
	g.mu.RLock()
	wallet := g.wallet
	token := g.tokenAddr
	var startBlock *big.Int
	if current := g.currentLocked(); current != nil {
		startBlock = current.StartBlock
		if g.meta != nil && g.meta.StartBlock != nil {
			startBlock = g.meta.StartBlock
		}
	}
	block := votingPowerBlock(g.snapshot, startBlock)
	g.mu.RUnlock()

	if wallet == nil || token == (common.Address{}) {
		return
	}
	account := wallet.Address()

	balance, balanceErr := g.reader.BalanceOf(ctx, token, account)
	if balanceErr != nil {
		log.Warnf("Balance lookup for %s failed: %v", account.Hex(), balanceErr)
	}
	power, powerErr := g.reader.VotingPower(ctx, token, account, block)
	if powerErr != nil {
		log.Warnf("Voting power lookup for %s at block %s failed: %v", account.Hex(), block, powerErr)
	}
	delegate, delegateErr := g.reader.Delegates(ctx, token, account)
	if delegateErr != nil {
		log.Warnf("Delegate lookup for %s failed: %v", account.Hex(), delegateErr)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isStaleLocked(ctx) || g.wallet != wallet || g.account == nil {
		return
	}

	acct := g.account
	if balanceErr == nil {
		acct.Balance = balance
		acct.BalanceLoaded = true
	}
	if powerErr == nil {
		acct.VotingPower = power
		acct.PowerBlock = block
		acct.PowerLoaded = true
	}
	if delegateErr == nil {
		acct.Delegate = delegate
	}
	acct.HasDelegated = hasDelegated(acct.VotingPower, acct.Delegate, g.session.Delegated)
}

// refetchTally reloads one proposal's tally outside the poll cycle.
func (g *Governance) refetchTally(ctx context.Context, proposalID *big.Int) {
	seq := g.issueTallySeq()
	tally, err := g.reader.ProposalVotes(ctx, proposalID)
	if err != nil {
		log.Warnf("Tally refetch for proposal %s failed: %v", proposalID, err)
		return
	}

	id := proposalID.String()
	g.mu.Lock()
	if g.isStaleLocked(ctx) || seq <= g.tallySeqs[id] {
		g.mu.Unlock()
		return
	}
	g.tallies[id] = tally
	g.tallySeqs[id] = seq
	g.mu.Unlock()

	g.publish()
}

func (g *Governance) issueTallySeq() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextTallySeq++
	return g.nextTallySeq
}

// isStaleLocked reports whether results obtained under ctx must be dropped.
// g.mu must be held.
func (g *Governance) isStaleLocked(ctx context.Context) bool {
	return g.closed || ctx.Err() != nil
}

func (g *Governance) staleErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errShutdown
}
