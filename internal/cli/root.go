package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The config file is loaded in PersistentPreRunE, so every subcommand sees
// c.Config and a logger configured from it. Commands that do not need a
// config (completion) still load it; a missing default file is not an error.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "rankorder orders layered graphs to minimize edge crossings",
		Long: `rankorder reorders the nodes within each rank of a layered graph so that
as few weighted edges cross as possible, honoring ordering constraints and
node clusters. It works as a CLI, a cached batch tool and an HTTP API.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/rankorder/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.crossingsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
