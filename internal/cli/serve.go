package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/internal/server"
	"github.com/matzehuels/assetcanvas/pkg/storage"
	"github.com/matzehuels/assetcanvas/pkg/store"
)

type serveOpts struct {
	addr    string
	backend string
	sample  bool
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canvas over HTTP and WebSocket",
		Long: `Serve the canvas over HTTP and WebSocket.

The enterprise is loaded from the configured storage backend. When the
backend is empty the built-in sample is used unless --sample=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.backend, "storage", "", "storage backend: null, file, redis, mongo, sqlite")
	cmd.Flags().BoolVar(&opts.sample, "sample", true, "load the sample enterprise into empty storage")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered diagram cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	sample := opts.sample && cfg.Canvas.Sample

	var (
		st      *store.Store
		backend storage.Backend
	)
	label := fmt.Sprintf("Opening %s storage...", cfg.Storage.Backend)
	err = withSpinner(ctx, os.Stderr, label, func() error {
		var err error
		st, backend, err = c.openStore(ctx, cfg, sample)
		return err
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	diagrams := c.newDiagramCache(opts.noCache)
	defer diagrams.Close()

	srv, err := server.New(ctx, cfg, st,
		server.WithLogger(c.Logger),
		server.WithDiagramCache(diagrams),
	)
	if err != nil {
		return err
	}
	defer srv.Close()

	printSuccess("Serving %s", StyleHighlight.Render(st.Enterprise().Name))
	printSummary(st.Enterprise())
	printKeyValue("storage", backend.Name())
	printNextStep("Canvas status", "curl "+baseURL(cfg.Server.Addr)+"/api/canvas")

	return srv.ListenAndServe(ctx)
}

// baseURL turns a listen address into a URL a local client can reach.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
