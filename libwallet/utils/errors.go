package utils

import (
	"decred.org/dcrwallet/v2/errors"
)

const (
	// Error Codes
	ErrInvalid                      = "invalid"
	ErrNotConnected                 = "not_connected"
	ErrNotExist                     = "not_exists"
	ErrInvalidAddress               = "invalid_address"
	ErrInvalidPassphrase            = "invalid_passphrase"
	ErrWalletIsWatchOnly            = "watch_only_wallet"
	ErrWalletLocked                 = "wallet_locked"
	ErrUnavailable                  = "unavailable"
	ErrContextCanceled              = "context_canceled"
	ErrFailedPrecondition           = "failed_precondition"
	ErrSyncAlreadyInProgress        = "sync_already_in_progress"
	ErrListenerAlreadyExist         = "listener_already_exist"
	ErrLoggerAlreadyRegistered      = "logger_already_registered"
	ErrLogRotatorAlreadyInitialized = "log_rotator_already_initialized"
	ErrNoActiveProposal             = "no_active_proposal"
	ErrAlreadyVoted                 = "already_voted"
	ErrVoteInProgress               = "vote_in_progress"
	ErrAlreadyDelegated             = "already_delegated"
	ErrInvalidVoteChoice            = "invalid_vote_choice"
	ErrChainIDMismatch              = "chain_id_mismatch"
	ErrNoVotingPower                = "no_voting_power"
	ErrTxInProgress                 = "tx_in_progress"
	ErrTokenUnknown                 = "token_unknown"
)

var (
	ErrInvalidNet = errors.New("invalid network type found")
)

// TranslateError maps wallet error kinds to the string codes above so the
// API and console layers can match on them.
func TranslateError(err error) error {
	if err, ok := err.(*errors.Error); ok {
		switch err.Kind {
		case errors.NotExist:
			return errors.New(ErrNotExist)
		case errors.Passphrase:
			return errors.New(ErrInvalidPassphrase)
		case errors.WatchingOnly:
			return errors.New(ErrWalletIsWatchOnly)
		case errors.Locked:
			return errors.New(ErrWalletLocked)
		case errors.Invalid:
			// Precondition failures carry their code as the wrapped error.
			if err.Err != nil {
				return err.Err
			}
			return errors.New(ErrFailedPrecondition)
		}
	}
	return err
}
