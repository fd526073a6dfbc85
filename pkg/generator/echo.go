package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/pkg/errors"
)

// EchoModel builds an outline from the prompt itself, one section per
// sentence, without calling any provider. Ids are left empty and filled in
// by the generator.
type EchoModel struct {
	// Delay is waited before answering, to make the in-flight state visible.
	Delay time.Duration
}

func NewEchoModel() *EchoModel {
	return &EchoModel{}
}

func (e *EchoModel) Name() string {
	return KindEcho
}

var sentenceSplit = regexp.MustCompile(`[.;!?\n]+`)

func (e *EchoModel) Complete(ctx context.Context, p Prompt) (string, error) {
	if e.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(e.Delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := p.Request
	o := outline.Outline{Language: req.Language, Verbosity: req.Verbosity}
	for _, clause := range sentenceSplit.Split(req.Prompt, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		o.Sections = append(o.Sections, echoSection(clause, req.Verbosity))
	}
	if len(o.Sections) == 0 {
		o.Sections = []*outline.Node{}
	}

	b, err := json.Marshal(o)
	if err != nil {
		return "", errors.Wrap(err, "could not encode echo outline")
	}
	return string(b), nil
}

func echoSection(clause string, verbosity string) *outline.Node {
	n := &outline.Node{
		Title: clause,
		Body:  fmt.Sprintf("You asked about %s.", clause),
	}
	switch verbosity {
	case outline.VerbosityShort:
	case outline.VerbosityLong:
		n.Body += " This section repeats your words back."
		n.Children = []*outline.Node{
			{Title: "Details", Body: fmt.Sprintf("More about %s.", clause)},
			{Title: "Summary", Body: clause},
		}
	default:
		n.Children = []*outline.Node{
			{Title: "Details", Body: fmt.Sprintf("More about %s.", clause)},
		}
	}
	return n
}

var _ Model = (*EchoModel)(nil)
