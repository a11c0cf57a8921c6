// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package rodsource observes a real browser page over the Chrome DevTools
// Protocol. An injected hook reports DOM events through a runtime binding.
package rodsource

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/AccelByte/extend-struggle-engine/pkg/environment"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// DefaultBindingName is the page global the hook reports through.
const DefaultBindingName = "__struggleSignal"

//go:embed hook.js
var hookJS string

// Config selects the browser to attach to.
type Config struct {
	// ControlURL is the DevTools websocket URL. Empty launches a browser.
	ControlURL  string
	Headless    bool
	BindingName string
}

// Connect attaches to a running browser or launches one.
func Connect(ctx context.Context, cfg Config) (*rod.Browser, error) {
	controlURL := cfg.ControlURL
	if controlURL == "" {
		url, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return browser, nil
}

// Source is an environment backed by one browser page.
type Source struct {
	*environment.Manual

	binding string
}

// New creates a source. It becomes ready once Attach has hooked a page.
func New(cfg Config) *Source {
	binding := cfg.BindingName
	if binding == "" {
		binding = DefaultBindingName
	}
	return &Source{
		Manual:  environment.NewManual(),
		binding: binding,
	}
}

// Open creates a page at url, attaches to it and returns it.
func (s *Source) Open(ctx context.Context, browser *rod.Browser, url string) (*rod.Page, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := s.Attach(ctx, page); err != nil {
		return nil, err
	}
	if err := page.Context(ctx).Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return page, nil
}

// Attach installs the hook on the page and every document it loads later,
// then streams binding calls until ctx is done.
func (s *Source) Attach(ctx context.Context, page *rod.Page) error {
	if err := (proto.RuntimeAddBinding{Name: s.binding}).Call(page); err != nil {
		return fmt.Errorf("add binding: %w", err)
	}

	script := fmt.Sprintf("%s(%q)", hookJS, s.binding)
	if _, err := page.EvalOnNewDocument(script); err != nil {
		return fmt.Errorf("install hook: %w", err)
	}

	wait := page.Context(ctx).EachEvent(func(ev *proto.RuntimeBindingCalled) {
		if ev.Name != s.binding {
			return
		}
		s.handleBinding(ev.Payload)
	})
	go wait()

	// The current document predates EvalOnNewDocument.
	if _, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      fmt.Sprintf("() => %s(%q)", hookJS, s.binding),
		ByValue: true,
	}); err != nil {
		logrus.Warnf("failed to hook current document: %v", err)
	}

	s.Ready()
	return nil
}

type bindingPayload struct {
	Signal signal.RawSignal      `json:"signal"`
	Page   *environment.Snapshot `json:"page"`
}

func (s *Source) handleBinding(payload string) {
	var msg bindingPayload
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logrus.Debugf("dropping malformed binding payload: %v", err)
		return
	}
	if msg.Signal.Type == "" {
		return
	}

	if msg.Page != nil {
		s.UpdatePage(*msg.Page)
	}

	s.Emit(msg.Signal)
}
