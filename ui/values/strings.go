package values

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

const (
	StrAppTitle             = "app_title"
	StrProposalEyebrow      = "proposal_eyebrow"
	StrNoProposalTitle      = "no_proposal_title"
	StrConnected            = "connected"
	StrConnectWallet        = "connect_wallet"
	StrConnectToParticipate = "connect_to_participate"
	StrWatchingOnly         = "watching_only"
	StrVotingPower          = "voting_power"
	StrDelegateHint         = "delegate_hint"
	StrDelegate             = "delegate"
	StrWarningNoTokens      = "warning_no_tokens"
	StrWarningDelegateFirst = "warning_delegate_first"
	StrLede                 = "lede"
	StrVoteYes              = "vote_yes"
	StrVoteNo               = "vote_no"
	StrVoteAbstain          = "vote_abstain"
	StrVoteSucceeded        = "vote_succeeded"
	StrDelegated            = "delegated"
	StrTxFailed             = "tx_failed"
	StrSubmitting           = "submitting"
	StrConfirmHint          = "confirm_hint"
	StrLiveResults          = "live_results"
	StrOnChainVotes         = "on_chain_votes"
	StrLoadProposalsFailed  = "load_proposals_failed"
	StrUnknownError         = "unknown_error"
	StrLoadingProposals     = "loading_proposals"
	StrNoActiveProposal     = "no_active_proposal"
	StrNoActiveProposalBody = "no_active_proposal_body"
	StrVoteFirst            = "vote_first"
	StrVoteFirstBody        = "vote_first_body"
	StrLoadingTally         = "loading_tally"
	StrVotesUnit            = "votes_unit"
	StrVoteContract         = "vote_contract"
	StrProposalID           = "proposal_id"
	StrExplorer             = "explorer"
	StrLastSynced           = "last_synced"
	StrNeverSynced          = "never_synced"
	StrNewProposalNotif     = "new_proposal_notif"
	StrVoteStartedNotif     = "vote_started_notif"
	StrCommandsHelp         = "commands_help"
	StrUnknownCommand       = "unknown_command"
	StrEnterPassphrase      = "enter_passphrase"
	StrNotConnected         = "not_connected"
	StrWatchOnly            = "watch_only"
	StrAlreadyVoted         = "already_voted"
	StrVoteInProgress       = "vote_in_progress"
	StrTxInProgress         = "tx_in_progress"
	StrAlreadyDelegated     = "already_delegated"
	StrNoVotingPower        = "no_voting_power"
	StrInvalidVoteChoice    = "invalid_vote_choice"
	StrTokenUnknown         = "token_unknown"
	StrInvalidPassphrase    = "invalid_passphrase"
)

var en = map[string]string{
	StrAppTitle:             "On-chain governance",
	StrProposalEyebrow:      "Current proposal",
	StrNoProposalTitle:      "No proposal yet, create one first",
	StrConnected:            "Connected %s",
	StrConnectWallet:        "Connect wallet",
	StrConnectToParticipate: "Connect a wallet to take part",
	StrWatchingOnly:         "watching only",
	StrVotingPower:          "Voting power",
	StrDelegateHint:         "Delegate to yourself first so the tokens you hold become usable voting power.",
	StrDelegate:             "Delegate",
	StrWarningNoTokens:      "You do not hold any governance tokens yet. Get some tokens before you delegate.",
	StrWarningDelegateFirst: "You have no voting power yet. Delegate first.",
	StrLede:                 "Every vote is written straight to the chain. Pick a side and confirm the transaction in your wallet.",
	StrVoteYes:              "Yes",
	StrVoteNo:               "No",
	StrVoteAbstain:          "Abstain",
	StrVoteSucceeded:        "Vote succeeded: %s",
	StrDelegated:            "Delegated voting power to yourself",
	StrTxFailed:             "Transaction failed, please try again later",
	StrSubmitting:           "Submitting transaction...",
	StrConfirmHint:          "Confirmation on chain can take a few seconds. Do not submit twice.",
	StrLiveResults:          "Live results",
	StrOnChainVotes:         "On-chain votes",
	StrLoadProposalsFailed:  "Unable to load proposals: %s",
	StrUnknownError:         "unknown error",
	StrLoadingProposals:     "Loading proposals...",
	StrNoActiveProposal:     "No active proposal",
	StrNoActiveProposalBody: "Create a proposal on the contract first, or check the contract address.",
	StrVoteFirst:            "Vote first",
	StrVoteFirstBody:        "Results unlock once you submit any option. The latest on-chain tally syncs automatically.",
	StrLoadingTally:         "Fetching the tally from the chain...",
	StrVotesUnit:            "%s votes",
	StrVoteContract:         "Vote contract",
	StrProposalID:           "Proposal ID",
	StrExplorer:             "Explorer",
	StrLastSynced:           "Last synced %s",
	StrNeverSynced:          "Not synced yet",
	StrNewProposalNotif:     "New proposal open for voting: %s",
	StrVoteStartedNotif:     "Voting started on proposal %s",
	StrCommandsHelp:         "Commands: yes, no, abstain, delegate, refresh, dismiss, quit",
	StrUnknownCommand:       "Unknown command: %s",
	StrEnterPassphrase:      "Passphrase for %s: ",
	StrNotConnected:         "Connect a wallet first",
	StrWatchOnly:            "This account is watching only and cannot sign transactions",
	StrAlreadyVoted:         "You already voted on this proposal",
	StrVoteInProgress:       "A vote is already being submitted",
	StrTxInProgress:         "Another transaction is in progress",
	StrAlreadyDelegated:     "Voting power is already delegated",
	StrNoVotingPower:        "You have no voting power at this proposal's snapshot",
	StrInvalidVoteChoice:    "Unknown vote choice",
	StrTokenUnknown:         "The governance token is not loaded yet",
	StrInvalidPassphrase:    "Invalid passphrase",
}

var zhTW = map[string]string{
	StrAppTitle:             "鏈上治理",
	StrProposalEyebrow:      "本次提案",
	StrNoProposalTitle:      "尚無提案，請先建立提案",
	StrConnected:            "已連接 %s",
	StrConnectWallet:        "連接錢包",
	StrConnectToParticipate: "請連接錢包以參與",
	StrWatchingOnly:         "僅供觀看",
	StrVotingPower:          "投票權",
	StrDelegateHint:         "要先 delegate 給自己，錢包持有的代幣才會轉成可用的 Voting Power。",
	StrDelegate:             "Delegate",
	StrWarningNoTokens:      "您尚未持有治理代幣，請先取得代幣再 delegate。",
	StrWarningDelegateFirst: "您尚未擁有投票權，請先 delegate。",
	StrLede:                 "體驗 web3 投票，所有票數直接寫入區塊鏈。選擇立場並在錢包中確認 transaction，您的選擇將即時同步。",
	StrVoteYes:              "贊成",
	StrVoteNo:               "反對",
	StrVoteAbstain:          "棄權",
	StrVoteSucceeded:        "投票成功：%s",
	StrDelegated:            "已將投票權委託給自己",
	StrTxFailed:             "交易失敗，請稍後再試",
	StrSubmitting:           "交易送出中...",
	StrConfirmHint:          "送出後請在錢包確認交易；鏈上確認可能需要幾秒鐘，請勿重複點擊。",
	StrLiveResults:          "即時結果",
	StrOnChainVotes:         "鏈上票數",
	StrLoadProposalsFailed:  "無法載入提案：%s",
	StrUnknownError:         "未知錯誤",
	StrLoadingProposals:     "正在載入提案...",
	StrNoActiveProposal:     "尚未有提案",
	StrNoActiveProposalBody: "請先在合約上建立提案；或確認您填入的合約地址正確。",
	StrVoteFirst:            "請先完成投票",
	StrVoteFirstBody:        "提交任一選項後解鎖結果，我們會自動同步鏈上最新票數。",
	StrLoadingTally:         "正在鏈上抓取提案...",
	StrVotesUnit:            "%s 票",
	StrVoteContract:         "投票合約",
	StrProposalID:           "提案編號",
	StrExplorer:             "區塊瀏覽器",
	StrLastSynced:           "上次同步 %s",
	StrNeverSynced:          "尚未同步",
	StrNewProposalNotif:     "新提案開放投票：%s",
	StrVoteStartedNotif:     "提案 %s 已開始投票",
	StrCommandsHelp:         "指令：yes、no、abstain、delegate、refresh、dismiss、quit",
	StrUnknownCommand:       "未知指令：%s",
	StrEnterPassphrase:      "%s 的密碼：",
	StrNotConnected:         "請先連接錢包",
	StrWatchOnly:            "此帳戶僅供觀看，無法簽署交易",
	StrAlreadyVoted:         "您已對此提案投票",
	StrVoteInProgress:       "投票正在送出中",
	StrTxInProgress:         "另一筆交易正在進行中",
	StrAlreadyDelegated:     "已委託投票權",
	StrNoVotingPower:        "您在此提案的快照區塊沒有投票權",
	StrInvalidVoteChoice:    "無效的投票選項",
	StrTokenUnknown:         "治理代幣尚未載入",
	StrInvalidPassphrase:    "密碼錯誤",
}

var (
	languageMatcher = language.NewMatcher(ArrLanguages)
	translations    = newCatalog()

	mu           sync.RWMutex
	userLanguage = English
	printer      = message.NewPrinter(English, message.Catalog(translations))
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for tag, table := range map[language.Tag]map[string]string{English: en, TraditionalChinese: zhTW} {
		for key, msg := range table {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("invalid translation %q: %v", key, err))
			}
		}
	}
	return b
}

// SetUserLanguage switches the display language. Any BCP 47 tag is accepted
// and matched against the supported languages.
func SetUserLanguage(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return err
	}
	_, index, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return fmt.Errorf("unsupported language %q", lang)
	}

	mu.Lock()
	userLanguage = ArrLanguages[index]
	printer = message.NewPrinter(userLanguage, message.Catalog(translations))
	mu.Unlock()
	return nil
}

// UserLanguage returns the active display language.
func UserLanguage() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return userLanguage
}

func currentPrinter() *message.Printer {
	mu.RLock()
	defer mu.RUnlock()
	return printer
}

// String returns the localized string of key.
func String(key string) string {
	return currentPrinter().Sprintf(key)
}

// StringF returns the localized string of key formatted with args.
func StringF(key string, args ...interface{}) string {
	return currentPrinter().Sprintf(key, args...)
}

// FormatVotes formats a display vote count with locale grouping and at most
// two fraction digits.
func FormatVotes(v float64) string {
	return currentPrinter().Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
