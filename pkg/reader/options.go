package reader

import (
	"time"

	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/outline"
)

const (
	StatusGenerating = "Generating response please wait..."

	EmptyPromptGuidance = "Prompt is empty. Press Alt or Control plus E to edit the prompt, " +
		"then press Control or Command plus Enter to generate."
	PromptInstructions = "Prompt field. Type your request, then press Control or Command plus Enter to generate."
)

// Delays are the debounce delays for each kind of announcement.
type Delays struct {
	// Navigation applies to titles spoken while moving with the keyboard.
	Navigation time.Duration
	// Body applies to bodies spoken on expansion, to entries focused directly
	// and to the empty-prompt guidance.
	Body         time.Duration
	Instructions time.Duration
	// Announce applies to the first title after the outline is replaced.
	Announce time.Duration
}

var DefaultDelays = Delays{
	Navigation:   120 * time.Millisecond,
	Body:         80 * time.Millisecond,
	Instructions: 60 * time.Millisecond,
	Announce:     120 * time.Millisecond,
}

// Languages the reader cycles through when no list is configured.
var DefaultLanguages = []string{"en", "de"}

type Option func(*Controller)

// WithOutline seeds the reader. The default sample is used otherwise.
func WithOutline(o *outline.Outline) Option {
	return func(c *Controller) {
		if o != nil {
			c.seed = o
		}
	}
}

func WithSink(sink events.Sink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

func WithPreferences(p keys.Preferences) Option {
	return func(c *Controller) {
		c.prefs = p
	}
}

func WithDelays(d Delays) Option {
	return func(c *Controller) {
		c.delays = d
	}
}

func WithVerbosity(v string) Option {
	return func(c *Controller) {
		if outline.IsVerbosity(v) {
			c.verbosity = v
		}
	}
}

func WithLanguage(lang string) Option {
	return func(c *Controller) {
		if lang != "" {
			c.language = lang
		}
	}
}

func WithLanguages(langs []string) Option {
	return func(c *Controller) {
		if len(langs) > 0 {
			c.languages = langs
		}
	}
}

func WithPrompt(p string) Option {
	return func(c *Controller) {
		c.prompt = p
	}
}

func WithKeyMap(km keys.KeyMap) Option {
	return func(c *Controller) {
		c.keyMap = &km
	}
}
