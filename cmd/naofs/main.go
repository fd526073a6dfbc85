package main

import (
	"os"
	"strings"

	"github.com/go-go-golems/naofs/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// interactiveAnnotation marks commands that take over the terminal.
const interactiveAnnotation = "interactive"

var rootCmd = &cobra.Command{
	Use:   "naofs",
	Short: "naofs reads generated outlines aloud, one heading at a time",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// reinitialize the logger because we can now parse --log-level and co
		// from the command line flag
		initLogger(!cmd.HasParent() || cmd.Annotations[interactiveAnnotation] == "true")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd)
	},
}

func initLogger(interactive bool) {
	logLevel := viper.GetString("log-level")
	verbose := viper.GetBool("verbose")
	if verbose && logLevel != "trace" {
		logLevel = "debug"
	}

	err := InitLogger(&logConfig{
		Level:       logLevel,
		LogFile:     viper.GetString("log-file"),
		LogFormat:   viper.GetString("log-format"),
		WithCaller:  viper.GetBool("with-caller"),
		Interactive: interactive,
	})
	cobra.CheckErr(err)
}

func initConfig(rootCmd *cobra.Command, configPath string) error {
	viper.SetEnvPrefix(config.EnvPrefix)

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.naofs")
		viper.AddConfigPath("/etc/naofs")

		xdgConfigPath, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(xdgConfigPath + "/naofs")
		}
	}

	err := viper.ReadInConfig()
	// if the file does not exist, continue normally
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; ignore error
	} else if err != nil {
		return err
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Settings flags are bound to their nested keys where they are declared.
	for _, name := range []string{"with-caller", "log-level", "log-format", "log-file", "verbose"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}

	log.Debug().
		Str("config", viper.ConfigFileUsed()).
		Msg("Loaded configuration")

	return nil
}

// loadSettings decodes the settings after the command line has been parsed.
func loadSettings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("with-caller", false, "Log caller")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (the reader logs nowhere else)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.naofs/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")

	addGeneratorFlags(rootCmd)
	addReaderFlags(rootCmd)

	// parse the flags one time just to catch --config
	configFile := ""
	for idx, arg := range os.Args {
		if arg == "--config" && len(os.Args) > idx+1 {
			configFile = os.Args[idx+1]
		} else if strings.HasPrefix(arg, "--config=") {
			configFile = strings.TrimPrefix(arg, "--config=")
		}
	}

	err := initConfig(rootCmd, configFile)
	cobra.CheckErr(err)

	rootCmd.AddCommand(readCmd, serveCmd, printCmd, voicesCmd, schemaCmd)
}
