package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/engine"
	"github.com/AccelByte/extend-struggle-engine/pkg/environment/rodsource"
	"github.com/AccelByte/extend-struggle-engine/pkg/pipeline"
	"github.com/AccelByte/extend-struggle-engine/pkg/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	url            string
	tenant         string
	collector      string
	controlURL     string
	configPath     string
	headless       bool
	confirmPrompts bool
	statusInterval time.Duration
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Attach to a page and log struggle alerts until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Page to open")
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant ID stamped on reports")
	cmd.Flags().StringVar(&opts.collector, "collector", "", "Collector base URL; reports are disabled when empty")
	cmd.Flags().StringVar(&opts.controlURL, "control-url", "", "DevTools URL of a running browser; a new one is launched when empty")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Pipeline file; built-in defaults when empty")
	cmd.Flags().BoolVar(&opts.headless, "headless", true, "Launch the browser headless")
	cmd.Flags().BoolVar(&opts.confirmPrompts, "confirm-prompts", false, "Send a report whenever the prompt opens")
	cmd.Flags().DurationVar(&opts.statusInterval, "status-interval", 10*time.Second, "How often to log the current score; 0 disables")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func loadPipeline(path string) (*pipeline.Pipeline, error) {
	if path == "" {
		return pipeline.Default()
	}
	return pipeline.Load(path)
}

func runWatch(ctx context.Context, opts *watchOptions) error {
	p, err := loadPipeline(opts.configPath)
	if err != nil {
		return err
	}

	cfg := p.EngineConfig()
	cfg.SessionID = session.NewID()
	if opts.tenant != "" {
		cfg.TenantID = opts.tenant
	}
	if opts.collector != "" {
		cfg.CollectorEndpoint = opts.collector
	}

	log := logrus.WithField("session", cfg.SessionID)

	browser, err := rodsource.Connect(ctx, rodsource.Config{ControlURL: opts.controlURL, Headless: opts.headless})
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Debugf("browser close: %v", err)
		}
	}()

	src := rodsource.New(rodsource.Config{})
	presenter := &logPresenter{log: log}

	engineOpts, err := p.EngineOptions(engine.Options{Environment: src, Presenter: presenter})
	if err != nil {
		return err
	}
	e, err := engine.New(cfg, engineOpts)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	loop := engine.NewLoop(e, src)
	if opts.confirmPrompts {
		presenter.onPrompt = func() {
			go func() {
				if err := loop.ConfirmReport(ctx); err != nil {
					log.Warnf("confirm report: %v", err)
				}
			}()
		}
	}
	loop.Start(ctx)
	defer loop.Stop()

	if _, err := src.Open(ctx, browser, opts.url); err != nil {
		return err
	}
	log.Infof("watching %s", opts.url)

	var ticker <-chan time.Time
	if opts.statusInterval > 0 {
		t := time.NewTicker(opts.statusInterval)
		defer t.Stop()
		ticker = t.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping")
			return nil
		case <-ticker:
			s, err := loop.State(ctx)
			if err != nil {
				return err
			}
			log.Infof("score %.0f level %s multiplier %.1f", s.Score, s.AlertLevel, s.SensitivityMultiplier)
		}
	}
}
