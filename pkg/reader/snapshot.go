package reader

import (
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/navigation"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/huandu/go-clone"
)

type SpeechSnapshot struct {
	speech.Status `yaml:",inline"`
	Settings      speech.Settings `json:"settings" yaml:"settings"`
	Voice         *speech.Voice   `json:"voice,omitempty" yaml:"voice,omitempty"`
}

// Snapshot is the complete reader state at one point in time. It shares no
// memory with the controller.
type Snapshot struct {
	Outline     *outline.Outline    `json:"outline" yaml:"outline"`
	Entries     []outline.FlatEntry `json:"entries" yaml:"entries"`
	Navigation  navigation.State    `json:"navigation" yaml:"navigation"`
	Prompt      string              `json:"prompt" yaml:"prompt"`
	Verbosity   string              `json:"verbosity" yaml:"verbosity"`
	Language    string              `json:"language" yaml:"language"`
	Status      string              `json:"status" yaml:"status"`
	Busy        bool                `json:"busy" yaml:"busy"`
	Preferences keys.Preferences    `json:"preferences" yaml:"preferences"`
	Speech      SpeechSnapshot      `json:"speech" yaml:"speech"`
}

func (c *Controller) State() *Snapshot {
	s := &Snapshot{
		Outline:     c.outline,
		Entries:     c.nav.Entries(),
		Navigation:  c.nav.State(),
		Prompt:      c.prompt,
		Verbosity:   c.verbosity,
		Language:    c.language,
		Status:      c.status,
		Busy:        c.busy,
		Preferences: c.prefs,
		Speech: SpeechSnapshot{
			Status:   c.speech.Status(),
			Settings: c.speech.Settings(),
		},
	}
	if v, ok := c.Voice(); ok {
		s.Speech.Voice = &v
	}
	return clone.Clone(s).(*Snapshot)
}
