package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:           "doc2slides",
		Short:         "Turn a text or PDF document into a styled slide deck",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("DOC2SLIDES_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		generateCmd(&cfgPath),
		exportCmd(&cfgPath),
		listCmd(&cfgPath),
		showCmd(&cfgPath),
		deleteCmd(&cfgPath),
		templatesCmd(),
		serveCmd(&cfgPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
