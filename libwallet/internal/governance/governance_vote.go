package governance

import (
	"context"
	"math/big"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/ethereum/go-ethereum/common"
)

// CastVote submits the connected account's vote on the current proposal and
// waits for it to be mined. Precondition failures are returned without
// touching the notice; a failed transaction is returned and also shown as an
// error notice. A mined vote triggers an immediate tally refetch and one
// delayed re-check.
func (g *Governance) CastVote(ctx context.Context, choice VoteChoice) error {
	const op errors.Op = "governance.CastVote"
	if !choice.IsValid() {
		return errors.E(op, errors.Invalid, utils.ErrInvalidVoteChoice)
	}

	g.mu.Lock()
	current := g.currentLocked()
	if err := g.checkVoteLocked(op, current); err != nil {
		g.mu.Unlock()
		return err
	}
	wallet := g.wallet
	proposalID := new(big.Int).Set(current.ID)
	g.session.IsVoting = true
	g.mu.Unlock()
	g.publish()

	log.Infof("Casting %s vote on proposal %s from %s", choice, proposalID, wallet.Address().Hex())
	err := wallet.CastVote(ctx, proposalID, choice)

	g.mu.Lock()
	g.session.IsVoting = false
	selected := g.session.isSelected(proposalID)
	if err != nil {
		if selected {
			g.session.txFailed(humanReadableError(err))
		}
	} else if selected {
		g.session.voteSucceeded(choice)
	}
	g.mu.Unlock()

	if err != nil {
		g.metrics.txFailures.WithLabelValues("castVote").Inc()
		log.Errorf("Vote on proposal %s failed: %v", proposalID, err)
		g.publish()
		return errors.E(op, err)
	}

	g.metrics.votesCast.WithLabelValues(choice.String()).Inc()
	log.Infof("Vote on proposal %s confirmed", proposalID)
	g.publish()

	g.refetchTally(g.ctx, proposalID)
	g.scheduleTallyRecheck(proposalID)
	return nil
}

// checkVoteLocked returns the precondition that prevents a vote on current,
// if any. g.mu must be held.
func (g *Governance) checkVoteLocked(op errors.Op, current *Proposal) error {
	switch {
	case current == nil:
		return errors.E(op, errors.Invalid, utils.ErrNoActiveProposal)
	case g.wallet == nil:
		return errors.E(op, errors.Invalid, utils.ErrNotConnected)
	case g.wallet.IsWatchingOnly():
		return errors.E(op, errors.WatchingOnly, utils.ErrWalletIsWatchOnly)
	case g.session.HasVoted:
		return errors.E(op, errors.Invalid, utils.ErrAlreadyVoted)
	case g.session.IsVoting:
		return errors.E(op, errors.Invalid, utils.ErrVoteInProgress)
	case g.session.IsDelegating:
		return errors.E(op, errors.Invalid, utils.ErrTxInProgress)
	case hasKnownZeroPower(g.account):
		return errors.E(op, errors.Invalid, utils.ErrNoVotingPower)
	}
	return nil
}

// scheduleTallyRecheck refetches the tally once more after the recheck
// delay, unless the controller is shut down first.
func (g *Governance) scheduleTallyRecheck(proposalID *big.Int) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()

		timer := time.NewTimer(g.recheckDelay)
		defer timer.Stop()

		select {
		case <-g.ctx.Done():
			return
		case <-timer.C:
			g.refetchTally(g.ctx, proposalID)
		}
	}()
}

// Delegate delegates the connected account's voting power to itself and
// waits for the transaction to be mined.
func (g *Governance) Delegate(ctx context.Context) error {
	const op errors.Op = "governance.Delegate"

	g.mu.Lock()
	var err error
	switch {
	case g.wallet == nil:
		err = errors.E(op, errors.Invalid, utils.ErrNotConnected)
	case g.wallet.IsWatchingOnly():
		err = errors.E(op, errors.WatchingOnly, utils.ErrWalletIsWatchOnly)
	case g.tokenAddr == (common.Address{}):
		err = errors.E(op, errors.Invalid, utils.ErrTokenUnknown)
	case g.account != nil && g.account.HasDelegated:
		err = errors.E(op, errors.Invalid, utils.ErrAlreadyDelegated)
	case g.session.IsVoting || g.session.IsDelegating:
		err = errors.E(op, errors.Invalid, utils.ErrTxInProgress)
	}
	if err != nil {
		g.mu.Unlock()
		return err
	}
	wallet := g.wallet
	token := g.tokenAddr
	g.session.IsDelegating = true
	g.mu.Unlock()
	g.publish()

	self := wallet.Address()
	log.Infof("Delegating voting power of %s to itself", self.Hex())
	err = wallet.Delegate(ctx, token, self)

	g.mu.Lock()
	g.session.IsDelegating = false
	connected := g.wallet == wallet
	if err != nil {
		if connected {
			g.session.txFailed(humanReadableError(err))
		}
	} else if connected {
		g.session.delegationSucceeded()
		if g.account != nil {
			g.account.HasDelegated = true
		}
	}
	g.mu.Unlock()

	if err != nil {
		g.metrics.txFailures.WithLabelValues("delegate").Inc()
		log.Errorf("Delegation from %s failed: %v", self.Hex(), err)
		g.publish()
		return errors.E(op, err)
	}

	g.metrics.delegations.Inc()
	log.Infof("Delegation from %s confirmed", self.Hex())
	g.refreshAccount(g.ctx)
	g.publish()
	return nil
}
