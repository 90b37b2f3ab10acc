// Package complete grows an encoded piece by repeatedly asking a text
// completion model to continue it.
package complete

import (
	"context"
	"strings"
	"time"

	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/logger"
	"github.com/pkg/errors"
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type Generator struct {
	Completer Completer
	Rounds    int
	// only the last SeenLines lines are sent each round
	SeenLines int
	// per request; zero means no limit beyond ctx
	Timeout time.Duration
}

// Generate continues seed for at most Rounds requests and stops early on
// an END line or an empty completion. On error the text generated so far
// is returned alongside it.
func (g *Generator) Generate(ctx context.Context, seed string) (string, error) {
	text := seed
	for round := 0; round < g.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return text, err
		}
		out, err := g.complete(ctx, Window(text, g.SeenLines))
		if err != nil {
			return text, errors.Wrapf(err, "round %v", round+1)
		}
		logger.Debug("completion", "round", round+1, "chars", len(out))
		text += out
		if cut, done := CutAtEnd(text); done {
			return cut, nil
		}
		if out == "" {
			break
		}
	}
	return text, nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	return g.Completer.Complete(ctx, prompt)
}

// Window keeps the last n lines of text; n <= 0 keeps everything.
func Window(text string, n int) string {
	if n <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// CutAtEnd drops the first END line and everything after it.
func CutAtEnd(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == constants.End {
			return strings.Join(lines[:i], "\n"), true
		}
	}
	return text, false
}
