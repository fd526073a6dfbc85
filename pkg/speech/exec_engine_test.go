package speech

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, i := range installed {
			if i == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestNewEngineResolvesBackend(t *testing.T) {
	e, err := newEngine(BackendAuto, fakeLookPath("espeak", "say"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/espeak", e.Program())

	e, err = newEngine(BackendSay, fakeLookPath("espeak", "say"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/say", e.Program())

	_, err = newEngine(BackendEspeak, fakeLookPath("say"))
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = newEngine(BackendNone, fakeLookPath("espeak"))
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = newEngine("festival", fakeLookPath("espeak"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestEspeakArgs(t *testing.T) {
	e := &ExecEngine{program: "espeak-ng", flavor: flavorEspeak}
	args, text := e.args(Utterance{Text: "hello", Rate: 2, Volume: 0.5, VoiceID: "en-gb"})
	assert.Equal(t, []string{"-s", "350", "-a", "50", "-v", "en-gb", "--stdin"}, args)
	assert.Equal(t, "hello", text)
}

func TestSayArgs(t *testing.T) {
	e := &ExecEngine{program: "say", flavor: flavorSay}
	args, text := e.args(Utterance{Text: "hello", Rate: 1, Volume: 1})
	assert.Equal(t, []string{"-r", "175"}, args)
	assert.Equal(t, "[[volm 1.00]] hello", text)
}

func TestEngineVoices(t *testing.T) {
	e := &ExecEngine{program: "espeak-ng", flavor: flavorEspeak}
	e.output = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, []string{"--voices"}, args)
		return []byte(`Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 2  en-gb           --/M      English_(Great_Britain) gmw/en          (en 2)
`), nil
	}
	voices, err := e.Voices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Voice{
		{ID: "af", DisplayName: "Afrikaans", LanguageTag: "af"},
		{ID: "en-gb", DisplayName: "English (Great Britain)", LanguageTag: "en-gb"},
	}, voices)
}

func TestParseSayVoices(t *testing.T) {
	out := []byte(`Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel.
Anna                de_DE    # Hallo, ich heiße Anna.
garbage
`)
	assert.Equal(t, []Voice{
		{ID: "Alex", DisplayName: "Alex", LanguageTag: "en-US"},
		{ID: "Bad News", DisplayName: "Bad News", LanguageTag: "en-US"},
		{ID: "Anna", DisplayName: "Anna", LanguageTag: "de-DE"},
	}, parseSayVoices(out))
}
