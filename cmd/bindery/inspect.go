package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/config"
	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/inspect"
	"github.com/vango-dev/bindery/pkg/model"
)

func inspectCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "inspect <file.html>",
		Short: "Bind a page and serve a live view of its bindings",
		Long: `Parse an HTML file into the shadow root of a host element, bind a
model seeded from the config's model section, and serve the inspector:

  GET /bindings    registry snapshot
  GET /metrics     Prometheus metrics
  GET /ws          activity stream

Examples:
  bindery inspect index.html
  bindery inspect --addr :9000 -c bindery.yaml form.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInspect(ctx, cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

// session is a bound page ready to be served.
type session struct {
	engine *binding.Engine
	hub    *inspect.Hub
	reg    *prometheus.Registry
	model  *model.Object
	root   *dom.Node
	logger *slog.Logger
}

// newSession loads path into a fresh document and binds a model to it.
// Per-element failures are logged and do not stop the session.
func newSession(ctx context.Context, cfg *config.Config, path string) (*session, error) {
	logger := cfg.Logger(os.Stderr)
	reg := prometheus.NewRegistry()
	hub := inspect.NewHub(logger)

	opts, err := cfg.EngineOptions(logger, reg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, binding.WithActivity(hub.Publish))
	engine := binding.New(opts...)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	m := model.New(name)
	cfg.Seed(m)

	doc := dom.NewDocument()
	host := doc.CreateElement("bindery-page")
	doc.Body().AppendChild(host)
	root := host.AttachShadow()
	if err := root.SetInnerHTML(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Nothing observes the tree yet; drop the parse record.
	if err := doc.Flush(); err != nil {
		return nil, err
	}

	if err := engine.Bind(ctx, m, binding.Options{Root: root}); err != nil {
		logger.Warn("some bindings failed", "file", path, "error", err)
	}

	return &session{engine: engine, hub: hub, reg: reg, model: m, root: root, logger: logger}, nil
}

func runInspect(ctx context.Context, cfg *config.Config, path string) error {
	s, err := newSession(ctx, cfg, path)
	if err != nil {
		return err
	}
	ent, _ := s.engine.Entry(s.model)
	s.logger.Info("page bound", "model", s.model.Name(), "bindings", ent.Len())

	srv := inspect.New(s.engine, s.hub, inspect.WithRegistry(s.reg), inspect.WithLogger(s.logger))
	return srv.ListenAndServe(ctx, cfg.Inspect.Addr)
}
