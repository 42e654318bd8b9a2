package governance

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"code.cryptopower.dev/group/govdash/libwallet"
	libutils "code.cryptopower.dev/group/govdash/libwallet/utils"
	"code.cryptopower.dev/group/govdash/listeners"
	"code.cryptopower.dev/group/govdash/ui/values"
)

const consoleListenerID = "governance-console"

// Controller is the part of the governance controller the console drives.
type Controller interface {
	ViewModel() *libwallet.ViewModel
	Refresh(ctx context.Context) error
	CastVote(ctx context.Context, choice libwallet.VoteChoice) error
	Delegate(ctx context.Context) error
	DismissNotice()
	AddNotificationListener(l libwallet.ProposalNotificationListener, uniqueIdentifier string) error
	RemoveNotificationListener(uniqueIdentifier string)
}

// Console renders the proposal page whenever the view model changes and
// reads one command per line from its input.
type Console struct {
	*listeners.ProposalNotificationListener

	ctrl Controller
	page *ProposalPage
	in   io.Reader

	outMu        sync.Mutex
	out          io.Writer
	lastRendered string

	actions sync.WaitGroup
}

func NewConsole(ctrl Controller, info PageInfo, in io.Reader, out io.Writer) *Console {
	return &Console{
		ProposalNotificationListener: listeners.NewProposalNotificationListener(),
		ctrl:                         ctrl,
		page:                         NewProposalPage(info),
		in:                           in,
		out:                          out,
	}
}

// Run blocks until ctx is done, the input is exhausted or the quit command
// is read. Actions still in flight are waited for before it returns.
func (c *Console) Run(ctx context.Context) error {
	if err := c.ctrl.AddNotificationListener(c, consoleListenerID); err != nil {
		return err
	}
	defer c.ctrl.RemoveNotificationListener(consoleListenerID)
	defer c.actions.Wait()

	c.render(c.ctrl.ViewModel())
	c.println(values.String(values.StrCommandsHelp))

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("Error reading console input: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n := <-c.ProposalNotifChan:
			if n.ProposalStatus == listeners.Synced {
				c.render(n.ViewModel)
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handleCommand(ctx, line); quit {
				return nil
			}
		}
	}
}

// handleCommand starts the action named by line and reports whether the
// console should exit.
func (c *Console) handleCommand(ctx context.Context, line string) bool {
	command := strings.ToLower(strings.TrimSpace(line))
	switch command {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "help", "?":
		c.println(values.String(values.StrCommandsHelp))
	case "dismiss":
		c.ctrl.DismissNotice()
	case "refresh":
		c.runAction(func() error { return c.ctrl.Refresh(ctx) })
	case "delegate":
		c.runAction(func() error { return c.ctrl.Delegate(ctx) })
	default:
		choice, err := libwallet.ParseVoteChoice(command)
		if err != nil {
			c.println(values.StringF(values.StrUnknownCommand, command))
			return false
		}
		c.runAction(func() error { return c.ctrl.CastVote(ctx, choice) })
	}
	return false
}

// runAction runs fn in the background so view-model updates keep rendering
// while a transaction is being mined.
func (c *Console) runAction(fn func() error) {
	c.actions.Add(1)
	go func() {
		defer c.actions.Done()
		if err := fn(); err != nil {
			c.showError(err)
		}
	}()
}

// showError prints precondition failures. Transaction failures are already
// on the notice banner.
func (c *Console) showError(err error) {
	code := libutils.TranslateError(err).Error()
	if message := values.TranslateErr(code); message != code {
		c.println("! " + message)
		return
	}
	log.Debugf("Console action failed: %v", err)
}

func (c *Console) render(vm *libwallet.ViewModel) {
	if vm == nil {
		return
	}
	page := c.page.Layout(vm)

	c.outMu.Lock()
	defer c.outMu.Unlock()
	if page == c.lastRendered {
		return
	}
	c.lastRendered = page
	fmt.Fprint(c.out, "\n"+page)
}

func (c *Console) println(s string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintln(c.out, s)
}
