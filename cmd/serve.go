package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/server"
	"github.com/oakwood-commons/aqx/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scanner, suggestions and history over HTTP",
		Long: `Serve a JSON API for browser front ends:

  GET  /health
  GET  /api/catalogs, /api/catalogs/{name}
  GET  /api/parse?q=
  GET  /api/suggest?q=&catalog=&caret=
  POST /api/submit {"catalog": "...", "q": "..."}
  GET  /api/history, /api/history/{field}

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hist, closeHist, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHist()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			lgr := logger.FromContext(cmd.Context()).WithName("server")
			srv := &server.Server{
				Addr: addr,
				Handler: server.NewHandler(server.Deps{
					Catalogs: a.catalogs,
					History:  hist,
					Engine:   a.engine(),
					Logger:   lgr,
					OnSubmit: func(s server.Submission) {
						lgr.Info("query submitted", "id", s.ID, "catalog", s.Catalog, "conditions", len(s.Conditions))
					},
				}),
				ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
				ShutdownTimeout:   a.cfg.Server.ShutdownTimeout,
				Logger:            lgr,
				Ready: func(bound string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "aqx listening on http://%s\n", bound)
				},
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
