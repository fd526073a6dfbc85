package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print an outline in reading order (the sample when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := outline.Default()
		if len(args) == 1 {
			var err error
			o, err = outline.LoadFile(args[0])
			if err != nil {
				return err
			}
		}

		render, _ := cmd.Flags().GetBool("render")
		out := cmd.OutOrStdout()
		if !render {
			for i, e := range o.Entries() {
				_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, e.Title)
				if e.Body != "" {
					_, _ = fmt.Fprintf(out, "   %s\n", strings.ReplaceAll(e.Body, "\n", "\n   "))
				}
			}
			return nil
		}

		md := outline.Markdown(o)
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			_, _ = fmt.Fprint(out, md)
			return nil
		}
		style, _ := cmd.Flags().GetString("style")
		styled, err := glamour.Render(md, style)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, styled)
		return nil
	},
}

func init() {
	printCmd.Flags().Bool("render", false, "Render as markdown")
	printCmd.Flags().String("style", "dark", "Glamour style used when rendering to a terminal")
}
