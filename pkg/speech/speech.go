// Package speech reads outline titles and bodies aloud.
//
// A Coordinator owns at most one active utterance. Announcements triggered by
// rapid navigation are debounced: CancelAndSpeak cancels whatever is playing
// or pending and schedules the new text after a short delay, so only the last
// of a burst of requests is ever audible. The platform speech capability is
// injected as an Engine; when none is available every call is a no-op.
package speech

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when no speech capability exists on this
// platform. Callers degrade to silence.
var ErrUnavailable = errors.New("speech synthesis not available")

const (
	MinRate   = 0.5
	MaxRate   = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

// Settings are applied to each utterance when it starts.
type Settings struct {
	Rate    float64 `json:"rate" yaml:"rate"`
	Volume  float64 `json:"volume" yaml:"volume"`
	VoiceID string  `json:"voice_id,omitempty" yaml:"voice_id,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{Rate: 1, Volume: 1}
}

// Clamped returns s with rate and volume forced into their valid ranges.
func (s Settings) Clamped() Settings {
	s.Rate = clamp(s.Rate, MinRate, MaxRate)
	s.Volume = clamp(s.Volume, MinVolume, MaxVolume)
	return s
}

// Utterance is one playback request.
type Utterance struct {
	Text    string
	Rate    float64
	Volume  float64
	VoiceID string
}

func NewUtterance(text string, s Settings) Utterance {
	s = s.Clamped()
	return Utterance{Text: text, Rate: s.Rate, Volume: s.Volume, VoiceID: s.VoiceID}
}

type Voice struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	LanguageTag string `json:"language_tag" yaml:"language_tag"`
}

// Engine is the platform speech capability.
type Engine interface {
	// Speak plays u and blocks until playback finishes, fails, or ctx is
	// cancelled.
	Speak(ctx context.Context, u Utterance) error
	// CancelAll stops any playback immediately.
	CancelAll()
	Voices(ctx context.Context) ([]Voice, error)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
