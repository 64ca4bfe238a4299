package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ikbalkahhori/bright-path-sub000/assistant"
	"github.com/ikbalkahhori/bright-path-sub000/memory"
)

// chatSession is the part of assistant.SessionManager the console drives.
type chatSession interface {
	SendMessage(ctx context.Context, text string) string
	Reset(ctx context.Context) error
	History() []memory.Turn
}

var _ chatSession = (*assistant.SessionManager)(nil)

type console struct {
	session chatSession
	in      io.Reader
	out     io.Writer
}

func newConsole(session chatSession, in io.Reader, out io.Writer) *console {
	return &console{session: session, in: in, out: out}
}

// Run reads one message per line until EOF, /exit or ctx is done. Blank lines
// are ignored. Each message waits for its reply before the next line is read.
func (c *console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Ask about studying abroad. Commands: /reset, /history, /exit")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := c.session.Reset(ctx); err != nil {
				fmt.Fprintf(c.out, "Could not start a new conversation: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Started a new conversation.")
		case "/history":
			c.printHistory()
		default:
			// empty when a reset overtook the reply
			if reply := c.session.SendMessage(ctx, line); reply != "" {
				fmt.Fprintln(c.out, reply)
			}
		}
	}
}

// printHistory skips the priming turns; visitors only see their own exchange.
func (c *console) printHistory() {
	turns := c.session.History()
	if len(turns) <= assistant.PrimingTurns {
		fmt.Fprintln(c.out, "No messages yet.")
		return
	}
	for _, turn := range turns[assistant.PrimingTurns:] {
		fmt.Fprintf(c.out, "[%s] %s\n", turn.Role, turn.Content)
	}
}
