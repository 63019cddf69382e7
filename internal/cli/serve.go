package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/protouml/protouml/internal/server"
	"github.com/protouml/protouml/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr  string // listen address
	mongo string // MongoDB URI for the share store
}

// serveCommand creates the serve command, exposing the diagram pipeline
// over HTTP.
//
// Shares are stored in memory unless a MongoDB URI is configured, so a
// bare "protouml serve" is fully self-contained.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram pipeline over HTTP",
		Long: `Serve the diagram pipeline over HTTP.

Endpoints:
  POST /v1/diagrams     Generate diagram text and a render token from proto source
  POST /v1/shares       Generate and persist a diagram under a fresh ID
  GET  /v1/shares/{id}  Retrieve a persisted diagram
  GET  /healthz         Liveness check

Examples:
  protouml serve
  protouml serve --addr :9090
  protouml serve --mongo mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI for the share store (in-memory if empty)")

	return cmd
}

// runServe builds the server with its store and runs it until the context
// is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Serve.Addr
	}
	mongoURI := opts.mongo
	if mongoURI == "" {
		mongoURI = c.Config.Serve.MongoURI
	}

	var st store.Store
	if mongoURI != "" {
		c.Logger.Infof("Connecting to MongoDB share store")
		ms, err := store.NewMongoStore(ctx, mongoURI)
		if err != nil {
			return err
		}
		st = ms
	} else {
		c.Logger.Debug("Using in-memory share store")
		st = store.NewMemoryStore()
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	srv := server.New(server.Deps{
		Store:    st,
		Layout:   c.Config.LayoutOptions(),
		Endpoint: c.Config.Render.Endpoint,
		Format:   c.Config.Render.Format,
		Logger:   c.Logger,
	})

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
