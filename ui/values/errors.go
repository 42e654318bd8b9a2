package values

import (
	"code.cryptopower.dev/group/govdash/libwallet/utils"
)

// This files holds implementation to translate errors into user friendly messages.

// TranslateErr translates error codes returned by the governance controller
// to user friendly messages. Unknown codes are returned unchanged.
func TranslateErr(errStr string) string {
	switch errStr {
	case utils.ErrInvalidPassphrase:
		return String(StrInvalidPassphrase)

	case utils.ErrNotConnected:
		return String(StrNotConnected)

	case utils.ErrWalletIsWatchOnly:
		return String(StrWatchOnly)

	case utils.ErrNoActiveProposal:
		return String(StrNoActiveProposal)

	case utils.ErrAlreadyVoted:
		return String(StrAlreadyVoted)

	case utils.ErrVoteInProgress:
		return String(StrVoteInProgress)

	case utils.ErrTxInProgress:
		return String(StrTxInProgress)

	case utils.ErrAlreadyDelegated:
		return String(StrAlreadyDelegated)

	case utils.ErrNoVotingPower:
		return String(StrNoVotingPower)

	case utils.ErrInvalidVoteChoice:
		return String(StrInvalidVoteChoice)

	case utils.ErrTokenUnknown:
		return String(StrTokenUnknown)
	}
	return errStr
}
