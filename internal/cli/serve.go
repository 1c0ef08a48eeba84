package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DavidBetteridge/TaskVisualiser/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		chart   chartFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

  GET  /healthz
  POST /v1/layout   CSV body, returns the layout as JSON
  POST /v1/render   CSV body, returns the chart (?format=svg|png|pdf|json)

Chart flags set the defaults for requests; query parameters override them.
The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := chart.apply(cmd, c.Config.Chart)
			if err != nil {
				return err
			}
			srvCfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				srvCfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving the %s API", appName)
			printKeyValue("Address", StyleHighlight.Render(srvCfg.Addr))
			printKeyValue("Health", StyleLink.Render("http://"+hostPort(srvCfg.Addr)+"/healthz"))
			printNewline()
			return server.New(runner, srvCfg, cfg, c.Logger).Run(ctx)
		},
	}

	chart.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// hostPort turns a listen address like ":8080" into one a browser can open.
func hostPort(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
