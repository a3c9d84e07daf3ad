package main

import (
	"context"

	"github.com/spf13/cobra"
	log "github.com/vine-io/vine/lib/logger"
)

var (
	cfgPath string
	cfg     = defaultConfig()
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "bpmnkit",
		Short:        "Translate diagram graphs to and from BPMN 2.0 XML",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				_ = log.Init(log.WithLevel(log.DebugLevel))
			}

			loaded, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cfg.override(cmd)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", DefaultConfigPath, "path of the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.Int("indent", 0, "spaces per nesting level of written documents, -1 for one line")
	flags.Bool("heuristics", true, "guess gateway and event types from labels")

	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newValidateCmd(),
		newConvertCmd(),
		newServeCmd(),
		newDemoCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
