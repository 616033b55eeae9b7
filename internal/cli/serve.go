package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		flags   orderFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz       liveness and version
  POST /v1/order      order a graph document
  POST /v1/crossings  count crossings of a document's layering

The ordering flags set the defaults that requests may override. The server
stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defaults, err := flags.options(c.Config.Ordering, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if err := defaults.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(server.Options{
				Runner:         runner,
				Logger:         c.Logger,
				Defaults:       defaults,
				MaxBodyBytes:   c.Config.Server.MaxBodyBytes,
				RequestTimeout: c.Config.Server.RequestTimeout.Std(),
			})
			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
