package launchcore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Confirmer asks an operator to approve the plan before any transaction is signed.
type Confirmer interface {
	Confirm(ctx context.Context, plan LaunchPlan) (bool, error)
}

type ConfirmFunc func(ctx context.Context, plan LaunchPlan) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, plan LaunchPlan) (bool, error) { return f(ctx, plan) }

// IsAffirmative reports whether answer is "yes", ignoring case and surrounding whitespace.
func IsAffirmative(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

// PromptConfirmer asks on a line-oriented terminal. It waits without a timeout;
// a closed input or a cancelled ctx counts as a decline.
type PromptConfirmer struct {
	out io.Writer

	mu      sync.Mutex
	in      *bufio.Reader
	pending chan string
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, plan LaunchPlan) (bool, error) {
	fmt.Fprintf(p.out, "Required ETH per wallet: %s (x%d wallets, total with buffer %s)\n",
		plan.RequiredPerWallet.String(), plan.Wallets, plan.TotalRequired.String())
	fmt.Fprint(p.out, "Do you want to proceed with the open trade and bundle? (yes/no): ")

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, nil
	case line := <-p.readLine():
		p.mu.Lock()
		p.pending = nil
		p.mu.Unlock()
		return IsAffirmative(line), nil
	}
}

// readLine returns the in-flight read, starting one if none is pending. A
// read left behind by a cancelled prompt answers the next prompt.
func (p *PromptConfirmer) readLine() <-chan string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		return p.pending
	}
	ch := make(chan string, 1)
	p.pending = ch
	go func() {
		line, _ := p.in.ReadString('\n')
		ch <- line
	}()
	return ch
}
