package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	BackendAuto   = "auto"
	BackendEspeak = "espeak"
	BackendSay    = "say"
	BackendNone   = "none"
)

// Backends lists the accepted values for the speech backend setting.
var Backends = []string{BackendAuto, BackendEspeak, BackendSay, BackendNone}

// words per minute at rate 1.0
const baseWordsPerMinute = 175

type flavor int

const (
	flavorEspeak flavor = iota
	flavorSay
)

// ExecEngine speaks by running a command line synthesizer (espeak-ng, espeak
// or macOS say). Text is passed on stdin.
type ExecEngine struct {
	program string
	flavor  flavor

	lookPath func(string) (string, error)
	output   func(ctx context.Context, name string, args ...string) ([]byte, error)

	mu      sync.Mutex
	running map[*exec.Cmd]struct{}
}

// NewEngine resolves backend to an installed synthesizer. It returns
// ErrUnavailable for BackendNone or when nothing suitable is on PATH.
func NewEngine(backend string) (*ExecEngine, error) {
	return newEngine(backend, exec.LookPath)
}

func newEngine(backend string, lookPath func(string) (string, error)) (*ExecEngine, error) {
	type candidate struct {
		name   string
		flavor flavor
	}
	var candidates []candidate
	switch backend {
	case "", BackendAuto:
		candidates = []candidate{{"espeak-ng", flavorEspeak}, {"espeak", flavorEspeak}, {"say", flavorSay}}
	case BackendEspeak:
		candidates = []candidate{{"espeak-ng", flavorEspeak}, {"espeak", flavorEspeak}}
	case BackendSay:
		candidates = []candidate{{"say", flavorSay}}
	case BackendNone:
		return nil, ErrUnavailable
	default:
		return nil, errors.Errorf("unknown speech backend %q", backend)
	}

	for _, c := range candidates {
		path, err := lookPath(c.name)
		if err != nil {
			continue
		}
		log.Debug().Str("program", path).Msg("using speech synthesizer")
		return &ExecEngine{
			program:  path,
			flavor:   c.flavor,
			lookPath: lookPath,
			output:   runOutput,
			running:  map[*exec.Cmd]struct{}{},
		}, nil
	}
	return nil, ErrUnavailable
}

func (e *ExecEngine) Program() string {
	return e.program
}

func (e *ExecEngine) Speak(ctx context.Context, u Utterance) error {
	args, text := e.args(u)
	cmd := exec.CommandContext(ctx, e.program, args...)
	cmd.Stdin = strings.NewReader(text)

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "could not start %s", e.program)
	}
	e.mu.Lock()
	e.running[cmd] = struct{}{}
	e.mu.Unlock()

	err := cmd.Wait()

	e.mu.Lock()
	delete(e.running, cmd)
	e.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return errors.Wrapf(err, "%s failed", e.program)
	}
	return nil
}

func (e *ExecEngine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for cmd := range e.running {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
}

func (e *ExecEngine) Voices(ctx context.Context) ([]Voice, error) {
	switch e.flavor {
	case flavorSay:
		out, err := e.output(ctx, e.program, "-v", "?")
		if err != nil {
			return nil, errors.Wrap(err, "say -v ? failed")
		}
		return parseSayVoices(out), nil
	default:
		out, err := e.output(ctx, e.program, "--voices")
		if err != nil {
			return nil, errors.Wrapf(err, "%s --voices failed", e.program)
		}
		return parseEspeakVoices(out), nil
	}
}

func (e *ExecEngine) args(u Utterance) ([]string, string) {
	wpm := fmt.Sprintf("%d", int(baseWordsPerMinute*u.Rate+0.5))
	switch e.flavor {
	case flavorSay:
		args := []string{"-r", wpm}
		if u.VoiceID != "" {
			args = append(args, "-v", u.VoiceID)
		}
		// say has no volume flag; the embedded command applies to this utterance only
		return args, fmt.Sprintf("[[volm %.2f]] %s", u.Volume, u.Text)
	default:
		args := []string{"-s", wpm, "-a", fmt.Sprintf("%d", int(u.Volume*100+0.5))}
		if u.VoiceID != "" {
			args = append(args, "-v", u.VoiceID)
		}
		return append(args, "--stdin"), u.Text
	}
}

func runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// parseEspeakVoices reads the table printed by `espeak --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en
func parseEspeakVoices(out []byte) []Voice {
	voices := []Voice{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{
			ID:          fields[1],
			DisplayName: strings.ReplaceAll(fields[3], "_", " "),
			LanguageTag: fields[1],
		})
	}
	return voices
}

var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}([A-Za-z]{2,3}(?:[_-][A-Za-z0-9]+)?)\s+#`)

// parseSayVoices reads the listing printed by `say -v ?`:
//
//	Alex                en_US    # Most people recognize me by my voice.
func parseSayVoices(out []byte) []Voice {
	voices := []Voice{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := sayVoiceLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{
			ID:          name,
			DisplayName: name,
			LanguageTag: strings.ReplaceAll(m[2], "_", "-"),
		})
	}
	return voices
}

var _ Engine = (*ExecEngine)(nil)
