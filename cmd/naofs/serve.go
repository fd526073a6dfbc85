package main

import (
	"os/signal"
	"syscall"

	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/go-go-golems/naofs/pkg/server"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve outline generation over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if s.Generator.Kind == generator.KindHTTP {
			return errors.New("serve needs an in-process generator: use --generator gemini, openai or echo")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, err := newOutlineGenerator(ctx, s)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		options := append(s.ServerOptions(), server.WithRegistry(reg))
		srv := server.NewServer(g, options...)

		log.Info().
			Str("model", g.Model().Name()).
			Str("addr", s.Server.Addr).
			Msg("starting generation server")

		return srv.ListenAndServe(ctx, s.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":5000", "Listen address")
	serveCmd.Flags().String("cors-origin", "*", "Allowed CORS origin")
	cobra.CheckErr(viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(viper.BindPFlag("server.cors-origin", serveCmd.Flags().Lookup("cors-origin")))
}
