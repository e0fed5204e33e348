package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/internal/server"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		storeBackend string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API",
		Long: `Run the extraction HTTP API.

  POST /v1/extract?cell_size=N     image upload (multipart field "image" or raw body)
  POST /v1/extract/grid            serialized grid JSON
  GET  /v1/graphs                  recent results
  GET  /v1/graphs/{id}             stored graph
  GET  /v1/graphs/{id}/overlay.png annotated image
  GET  /v1/graphs/{id}/graph.dot   Graphviz source
  GET  /v1/stats                   extraction, cache and request counters
  GET  /healthz

Results are stored in the configured store (see --store).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			storeCfg := c.Config.Store
			if storeBackend != "" {
				storeCfg.Backend = storeBackend
			}

			st, err := store.Open(ctx, storeCfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			cache, err := c.newCache(ctx, noCache)
			if err != nil {
				st.Close()
				return fmt.Errorf("open cache: %w", err)
			}

			srv := server.New(server.Options{
				Cache:          cache,
				Store:          st,
				Logger:         log.FromContext(ctx),
				MaxUploadBytes: int64(c.Config.Server.MaxUploadMB) << 20,
				Workers:        c.Config.Workers,
				LabelSize:      c.Config.LabelSize,
				Stats:          c.stats,
			})
			defer srv.Close()

			printInfo("Serving on %s (store: %s)", StyleHighlight.Render(addr), storeCfg.Backend)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&storeBackend, "store", "", "result store: memory, sqlite, mongo (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
