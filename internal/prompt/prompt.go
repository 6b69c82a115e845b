// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt asks the operator questions on a terminal. Terminal
// implements the journal and classification resolvers used during a run.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/bibrun/internal/journal"
	"github.com/pdiddy/bibrun/pkg/types"
)

// Terminal reads answers line by line from In and writes questions to Out.
// When In is exhausted every remaining question is treated as declined.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// NewTerminal creates a Terminal over in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Line prints question and returns the trimmed answer. io.EOF is returned
// when there is no more input.
func (t *Terminal) Line(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.eof {
		return "", io.EOF
	}
	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", eris.Wrap(err, "prompt: writing question")
	}

	answer, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		t.eof = true
		if answer == "" {
			fmt.Fprintln(t.out)
			return "", io.EOF
		}
	} else if err != nil {
		return "", eris.Wrap(err, "prompt: reading answer")
	}
	return strings.TrimSpace(answer), nil
}

// ConfirmJournal offers each candidate in turn. Only "y" or "yes"
// accepts; any other answer moves on to the next candidate.
func (t *Terminal) ConfirmJournal(ctx context.Context, name string, candidates []journal.Candidate) (journal.Candidate, bool, error) {
	for _, c := range candidates {
		q := fmt.Sprintf("Is %s the journal %s (y/n)? ", name, c.Record.FullTitle)
		answer, err := t.Line(ctx, q)
		if errors.Is(err, io.EOF) {
			return journal.Candidate{}, false, nil
		}
		if err != nil {
			return journal.Candidate{}, false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return c, true, nil
		}
	}
	return journal.Candidate{}, false, nil
}

// ChooseCategory asks until the answer is one of allowed. End of input
// leaves the publication unclassified.
func (t *Terminal) ChooseCategory(ctx context.Context, title string, allowed []types.Category) (types.Category, bool, error) {
	opts := make([]string, len(allowed))
	for i, c := range allowed {
		opts[i] = string(c)
	}
	q := fmt.Sprintf("Under which TR&D does %q fall (%s)? ", title, strings.Join(opts, "/"))

	for {
		answer, err := t.Line(ctx, q)
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		for _, c := range allowed {
			if answer == string(c) {
				return c, true, nil
			}
		}
	}
}
