package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"jvlint/internal/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available lint rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		colorMode, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		codeColor := color.New(color.FgCyan)
		if !useColor(colorMode, os.Stdout) {
			codeColor.DisableColor()
		}

		all := lint.All()
		nameWidth := 0
		for _, r := range all {
			if w := runewidth.StringWidth(r.Name()); w > nameWidth {
				nameWidth = w
			}
		}
		for _, r := range all {
			fmt.Fprintf(os.Stdout, "%s  %s  %s\n",
				codeColor.Sprint(r.Code().ID()),
				runewidth.FillRight(r.Name(), nameWidth),
				r.Code().Title())
		}
		return nil
	},
}
