// Package prompt provides the input sources used to identify the miner
// running a simulation.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyName is returned when the provided miner name is blank.
var ErrEmptyName = errors.New("miner name can't be empty")

// Provider represents the behavior of something that can supply the name of
// the miner.
type Provider interface {
	MinerName(ctx context.Context) (string, error)
}

// =============================================================================

// Static provides a name that is already known, such as one from configuration.
type Static string

// MinerName implements the Provider interface.
func (s Static) MinerName(ctx context.Context) (string, error) {
	name := strings.TrimSpace(string(s))
	if name == "" {
		return "", ErrEmptyName
	}

	return name, nil
}

// =============================================================================

// Reader asks for the name on Out and reads one line from In.
type Reader struct {
	In       io.Reader
	Out      io.Writer
	Question string
}

// MinerName implements the Provider interface. The read happens in its own
// G so a cancelled context returns right away. That G stays blocked on In
// until the read completes.
func (r Reader) MinerName(ctx context.Context) (string, error) {
	if r.Out != nil && r.Question != "" {
		fmt.Fprint(r.Out, r.Question)
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := bufio.NewReader(r.In).ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()

	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("reading miner name: %w", res.err)
		}
		return Static(res.line).MinerName(ctx)
	}
}
