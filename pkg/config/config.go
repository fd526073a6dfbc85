// Package config decodes the naofs settings tree from viper.
package config

import (
	"strings"
	"time"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/reader"
	"github.com/go-go-golems/naofs/pkg/server"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "naofs"

type GeneratorSettings struct {
	Kind          string        `mapstructure:"kind"`
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Model         string        `mapstructure:"model"`
	GeminiAPIKey  string        `mapstructure:"gemini-api-key"`
	GeminiBaseURL string        `mapstructure:"gemini-base-url"`
	OpenAIAPIKey  string        `mapstructure:"openai-api-key"`
	OpenAIBaseURL string        `mapstructure:"openai-base-url"`
	EchoDelay     time.Duration `mapstructure:"echo-delay"`
}

type ReaderSettings struct {
	Verbosity       string   `mapstructure:"verbosity"`
	Language        string   `mapstructure:"language"`
	Languages       []string `mapstructure:"languages"`
	AutoSpeakTitles bool     `mapstructure:"auto-speak-titles"`
	AutoSpeakBodies bool     `mapstructure:"auto-speak-bodies"`
	OutlineFile     string   `mapstructure:"outline-file"`
}

type DelaySettings struct {
	Navigation   time.Duration `mapstructure:"navigation"`
	Body         time.Duration `mapstructure:"body"`
	Instructions time.Duration `mapstructure:"instructions"`
	Announce     time.Duration `mapstructure:"announce"`
}

type SpeechSettings struct {
	Engine string        `mapstructure:"engine"`
	Rate   float64       `mapstructure:"rate"`
	Volume float64       `mapstructure:"volume"`
	Voice  string        `mapstructure:"voice"`
	Delays DelaySettings `mapstructure:"delays"`
}

type ServerSettings struct {
	Addr         string `mapstructure:"addr"`
	CORSOrigin   string `mapstructure:"cors-origin"`
	MaxBodyBytes int64  `mapstructure:"max-body-bytes"`
}

type Settings struct {
	Generator GeneratorSettings `mapstructure:"generator"`
	Reader    ReaderSettings    `mapstructure:"reader"`
	Speech    SpeechSettings    `mapstructure:"speech"`
	Server    ServerSettings    `mapstructure:"server"`
}

// SetDefaults registers every key with its default, so that environment
// variables are picked up for keys missing from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator.kind", generator.KindHTTP)
	v.SetDefault("generator.endpoint", generation.DefaultEndpoint)
	v.SetDefault("generator.timeout", generation.DefaultTimeout)
	v.SetDefault("generator.model", generator.DefaultGeminiModel)
	v.SetDefault("generator.gemini-api-key", "")
	v.SetDefault("generator.gemini-base-url", "")
	v.SetDefault("generator.openai-api-key", "")
	v.SetDefault("generator.openai-base-url", "")
	v.SetDefault("generator.echo-delay", time.Duration(0))

	v.SetDefault("reader.verbosity", outline.DefaultVerbosity)
	v.SetDefault("reader.language", outline.DefaultLanguage)
	v.SetDefault("reader.languages", reader.DefaultLanguages)
	v.SetDefault("reader.auto-speak-titles", true)
	v.SetDefault("reader.auto-speak-bodies", true)
	v.SetDefault("reader.outline-file", "")

	defaults := speech.DefaultSettings()
	v.SetDefault("speech.engine", speech.BackendAuto)
	v.SetDefault("speech.rate", defaults.Rate)
	v.SetDefault("speech.volume", defaults.Volume)
	v.SetDefault("speech.voice", "")
	v.SetDefault("speech.delays.navigation", reader.DefaultDelays.Navigation)
	v.SetDefault("speech.delays.body", reader.DefaultDelays.Body)
	v.SetDefault("speech.delays.instructions", reader.DefaultDelays.Instructions)
	v.SetDefault("speech.delays.announce", reader.DefaultDelays.Announce)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.cors-origin", "*")
	v.SetDefault("server.max-body-bytes", server.DefaultMaxBodyBytes)

	// Provider keys are also read from their conventional variables.
	_ = v.BindEnv("generator.gemini-api-key", "NAOFS_GENERATOR_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("generator.openai-api-key", "NAOFS_GENERATOR_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrap(err, "could not decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects unknown enum values and clamps speech parameters into
// range.
func (s *Settings) Validate() error {
	s.Generator.Kind = strings.ToLower(strings.TrimSpace(s.Generator.Kind))
	switch s.Generator.Kind {
	case generator.KindHTTP, generator.KindGemini, generator.KindOpenAI, generator.KindEcho:
	default:
		return errors.Errorf("unknown generator kind %q", s.Generator.Kind)
	}
	if s.Generator.Timeout < 0 {
		return errors.Errorf("generator timeout must not be negative, got %s", s.Generator.Timeout)
	}

	if !outline.IsVerbosity(s.Reader.Verbosity) {
		return errors.Errorf("unknown verbosity %q (expected one of %s)",
			s.Reader.Verbosity, strings.Join(outline.Verbosities, ", "))
	}
	if strings.TrimSpace(s.Reader.Language) == "" {
		s.Reader.Language = outline.DefaultLanguage
	}
	if len(s.Reader.Languages) == 0 {
		s.Reader.Languages = reader.DefaultLanguages
	}

	engine := strings.ToLower(strings.TrimSpace(s.Speech.Engine))
	known := false
	for _, b := range speech.Backends {
		known = known || b == engine
	}
	if !known {
		return errors.Errorf("unknown speech engine %q (expected one of %s)",
			s.Speech.Engine, strings.Join(speech.Backends, ", "))
	}
	s.Speech.Engine = engine

	clamped := s.SpeechSettings()
	s.Speech.Rate = clamped.Rate
	s.Speech.Volume = clamped.Volume

	for _, d := range []time.Duration{s.Speech.Delays.Navigation, s.Speech.Delays.Body, s.Speech.Delays.Instructions, s.Speech.Delays.Announce} {
		if d < 0 {
			return errors.Errorf("speech delays must not be negative, got %s", d)
		}
	}
	return nil
}

func (s *Settings) SpeechSettings() speech.Settings {
	return speech.Settings{Rate: s.Speech.Rate, Volume: s.Speech.Volume, VoiceID: s.Speech.Voice}.Clamped()
}

func (s *Settings) ReaderDelays() reader.Delays {
	return reader.Delays{
		Navigation:   s.Speech.Delays.Navigation,
		Body:         s.Speech.Delays.Body,
		Instructions: s.Speech.Delays.Instructions,
		Announce:     s.Speech.Delays.Announce,
	}
}

func (s *Settings) GeneratorOptions() generator.Options {
	return generator.Options{
		Kind:          s.Generator.Kind,
		Model:         s.Generator.Model,
		GeminiAPIKey:  s.Generator.GeminiAPIKey,
		GeminiBaseURL: s.Generator.GeminiBaseURL,
		OpenAIAPIKey:  s.Generator.OpenAIAPIKey,
		OpenAIBaseURL: s.Generator.OpenAIBaseURL,
		EchoDelay:     s.Generator.EchoDelay,
	}
}

func (s *Settings) ServerOptions() []server.Option {
	return []server.Option{
		server.WithCORSOrigin(s.Server.CORSOrigin),
		server.WithMaxBodyBytes(s.Server.MaxBodyBytes),
	}
}
