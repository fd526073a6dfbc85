package main

import (
	"strings"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindFlag binds flag to a nested settings key.
func bindFlag(cmd *cobra.Command, key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)))
}

func addGeneratorFlags(cmd *cobra.Command) {
	kinds := []string{generator.KindHTTP, generator.KindGemini, generator.KindOpenAI, generator.KindEcho}
	flags := cmd.PersistentFlags()
	flags.String("generator", generator.KindHTTP, "Generator backend ("+strings.Join(kinds, ", ")+")")
	flags.String("endpoint", generation.DefaultEndpoint, "Generation server URL for the http generator")
	flags.Duration("timeout", generation.DefaultTimeout, "Generation request timeout")
	flags.String("model", generator.DefaultGeminiModel, "Model name for the gemini and openai generators")
	flags.String("gemini-api-key", "", "Gemini API key (also read from GEMINI_API_KEY)")
	flags.String("openai-api-key", "", "OpenAI API key (also read from OPENAI_API_KEY)")
	flags.String("openai-base-url", "", "OpenAI-compatible API base URL")

	bindFlag(cmd, "generator.kind", "generator")
	bindFlag(cmd, "generator.endpoint", "endpoint")
	bindFlag(cmd, "generator.timeout", "timeout")
	bindFlag(cmd, "generator.model", "model")
	bindFlag(cmd, "generator.gemini-api-key", "gemini-api-key")
	bindFlag(cmd, "generator.openai-api-key", "openai-api-key")
	bindFlag(cmd, "generator.openai-base-url", "openai-base-url")
}

func addReaderFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("verbosity", outline.DefaultVerbosity, "Requested verbosity ("+strings.Join(outline.Verbosities, ", ")+")")
	flags.String("language", outline.DefaultLanguage, "Requested language")
	flags.String("outline", "", "Outline file (YAML or JSON) shown at startup instead of the sample")
	flags.String("speech-engine", speech.BackendAuto, "Speech engine ("+strings.Join(speech.Backends, ", ")+")")
	flags.String("voice", "", "Speech voice id")
	flags.Float64("rate", speech.DefaultSettings().Rate, "Speech rate")

	bindFlag(cmd, "reader.verbosity", "verbosity")
	bindFlag(cmd, "reader.language", "language")
	bindFlag(cmd, "reader.outline-file", "outline")
	bindFlag(cmd, "speech.engine", "speech-engine")
	bindFlag(cmd, "speech.voice", "voice")
	bindFlag(cmd, "speech.rate", "rate")
}
