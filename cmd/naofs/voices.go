package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the speech engine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := viper.GetString("speech.engine")
		engine, err := speech.NewEngine(backend)
		if err != nil {
			return err
		}
		voices, err := engine.Voices(cmd.Context())
		if err != nil {
			return err
		}

		language := viper.GetString("reader.language")
		picked, _ := speech.PickVoice(voices, language, viper.GetString("speech.voice"))

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "\tID\tNAME\tLANGUAGE\n")
		for _, v := range voices {
			marker := ""
			if v.ID == picked.ID {
				marker = "*"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, v.ID, v.DisplayName, v.LanguageTag)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "engine: %s, * marks the voice used for language %q\n", engine.Program(), language)
		return w.Flush()
	},
}
