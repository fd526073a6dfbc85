package main

import (
	"context"

	"github.com/go-go-golems/naofs/pkg/config"
	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/go-go-golems/naofs/pkg/reader"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/go-go-golems/naofs/pkg/tui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var readCmd = &cobra.Command{
	Use:         "read",
	Short:       "Open the outline reader (default)",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{interactiveAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd)
	},
}

func runRead(cmd *cobra.Command) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := newGenerationClient(ctx, s)
	if err != nil {
		return err
	}

	router, err := events.NewEventRouter(events.WithVerbose(viper.GetBool("verbose")))
	if err != nil {
		return errors.Wrap(err, "could not create event router")
	}
	defer func() {
		_ = router.Close()
	}()

	options := []reader.Option{
		reader.WithSink(router.Sink()),
		reader.WithPreferences(keys.Preferences{
			AutoSpeakTitles: s.Reader.AutoSpeakTitles,
			AutoSpeakBodies: s.Reader.AutoSpeakBodies,
		}),
		reader.WithDelays(s.ReaderDelays()),
		reader.WithVerbosity(s.Reader.Verbosity),
		reader.WithLanguage(s.Reader.Language),
		reader.WithLanguages(s.Reader.Languages),
	}
	if s.Reader.OutlineFile != "" {
		o, err := outline.LoadFile(s.Reader.OutlineFile)
		if err != nil {
			return err
		}
		options = append(options, reader.WithOutline(o))
	}

	sc := speech.NewCoordinator(newSpeechEngine(s.Speech.Engine), speech.WithSettings(s.SpeechSettings()))
	ctrl := reader.NewController(sc, generation.NewManager(client), options...)

	return tui.Run(ctx, ctrl, router)
}

// newSpeechEngine returns nil when no engine is usable; the reader then runs
// silently.
func newSpeechEngine(backend string) speech.Engine {
	engine, err := speech.NewEngine(backend)
	if err != nil {
		if !errors.Is(err, speech.ErrUnavailable) {
			log.Warn().Err(err).Str("backend", backend).Msg("speech engine failed")
		}
		return nil
	}
	log.Debug().Str("program", engine.Program()).Msg("speech engine ready")
	return engine
}

func newGenerationClient(ctx context.Context, s *config.Settings) (generation.Client, error) {
	if s.Generator.Kind == generator.KindHTTP {
		return generation.NewHTTPClient(s.Generator.Endpoint, generation.WithTimeout(s.Generator.Timeout)), nil
	}
	g, err := newOutlineGenerator(ctx, s)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newOutlineGenerator(ctx context.Context, s *config.Settings) (*generator.OutlineGenerator, error) {
	model, err := generator.NewModel(ctx, s.GeneratorOptions())
	if err != nil {
		return nil, errors.Wrap(err, "could not create model")
	}
	return generator.NewOutlineGenerator(model)
}
