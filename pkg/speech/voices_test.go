package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickVoice(t *testing.T) {
	voices := []Voice{
		{ID: "fr", DisplayName: "French", LanguageTag: "fr-FR"},
		{ID: "de", DisplayName: "German", LanguageTag: "de-DE"},
		{ID: "en", DisplayName: "English", LanguageTag: "EN-us"},
	}

	tests := []struct {
		name      string
		language  string
		preferred string
		want      string
	}{
		{name: "language prefix is case insensitive", language: "en", want: "en"},
		{name: "full tag", language: "de-DE", want: "de"},
		{name: "preferred wins", language: "en", preferred: "fr", want: "fr"},
		{name: "unknown preferred falls back to language", language: "de", preferred: "xx", want: "de"},
		{name: "no match takes first", language: "ja", want: "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := PickVoice(voices, tt.language, tt.preferred)
			assert.True(t, ok)
			assert.Equal(t, tt.want, v.ID)
		})
	}

	_, ok := PickVoice(nil, "en", "")
	assert.False(t, ok)
}
