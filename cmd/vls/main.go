// Command vls decodes Vertex Language System programs and synthesizes
// leaf meshes, writing canonical CBOR meshes and WebP previews.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vls-mesh/internal/config"
	"vls-mesh/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	configFile string
	verbose    bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "vls",
		Short:         "Decode VLS programs and synthesize leaf meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to config JSON file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		a.decodeCmd(),
		a.inspectCmd(),
		a.opsCmd(),
		a.leafCmd(),
		a.clusterCmd(),
		a.renderCmd(),
		a.batchCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if a.configFile == "" {
		return nil
	}
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// resolve applies flags over the loaded config file and fills defaults.
func (a *app) resolve(cmd *cobra.Command, flags config.Flags) config.Config {
	cfg := a.cfg
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		flags.Seed = &seed
	}
	cfg.Resolve(flags)
	return cfg
}
