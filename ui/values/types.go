package values

import (
	"golang.org/x/text/language"
)

// Supported display languages.
var (
	English            = language.English
	TraditionalChinese = language.MustParse("zh-TW")
)

// ArrLanguages lists the selectable languages, in menu order.
var ArrLanguages = []language.Tag{English, TraditionalChinese}

// VoteOption pairs a support value with its label key.
type VoteOption struct {
	Command string
	Label   string
}

// ArrVoteOptions lists the vote buttons in display order. Command is the
// console command and the value accepted by the API.
var ArrVoteOptions = []VoteOption{
	{Command: "yes", Label: StrVoteYes},
	{Command: "no", Label: StrVoteNo},
	{Command: "abstain", Label: StrVoteAbstain},
}
