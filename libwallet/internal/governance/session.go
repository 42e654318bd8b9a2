package governance

import (
	"math/big"
)

// Session is the per-viewer state that lives for as long as the process.
// Its fields only change through the transitions below; every change of the
// selected proposal resets the vote flag and the notice.
type Session struct {
	SelectedID   *big.Int
	HasVoted     bool
	IsVoting     bool
	IsDelegating bool
	Delegated    bool
	Notice       TxNotice
	NoticeKind   NoticeKind
}

func newSession() Session {
	return Session{Notice: TxNotice{Type: NoticeIdle}}
}

// selectProposal records id as the selected proposal and reports whether the
// selection changed. A nil id clears the selection.
func (s *Session) selectProposal(id *big.Int) bool {
	if sameID(s.SelectedID, id) {
		return false
	}

	if id == nil {
		s.SelectedID = nil
	} else {
		s.SelectedID = new(big.Int).Set(id)
	}
	s.HasVoted = false
	s.clearNotice()
	return true
}

func (s *Session) isSelected(id *big.Int) bool {
	return s.SelectedID != nil && sameID(s.SelectedID, id)
}

func (s *Session) clearNotice() {
	s.Notice = TxNotice{Type: NoticeIdle}
	s.NoticeKind = NoticeKindNone
}

func (s *Session) voteSucceeded(choice VoteChoice) {
	s.HasVoted = true
	s.Notice = TxNotice{Type: NoticeSuccess, Message: choice.String()}
	s.NoticeKind = NoticeKindVoted
}

func (s *Session) delegationSucceeded() {
	s.Delegated = true
	s.Notice = TxNotice{Type: NoticeSuccess}
	s.NoticeKind = NoticeKindDelegated
}

func (s *Session) txFailed(message string) {
	s.Notice = TxNotice{Type: NoticeError, Message: message}
	s.NoticeKind = NoticeKindNone
}

// disconnect drops everything tied to the connected account.
func (s *Session) disconnect() {
	s.HasVoted = false
	s.Delegated = false
	s.clearNotice()
}

func sameID(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}
