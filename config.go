package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/facebookgo/inject"
	"github.com/subosito/gotenv"
	"github.com/tryanzu/gomarketplace/core/shell"
	"github.com/tryanzu/gomarketplace/deps"
)

// How long a command waits for the saved cart before giving up.
const loadTimeout = 10 * time.Second

type options struct {
	configFile string
	overrides  []string
}

// app is what a command runs against once dependencies are up.
type app struct {
	container deps.Deps
	shell     shell.Module
}

// start bootstraps the dependencies, wires the graph and loads the saved cart.
func start(opts options, watch bool) (*app, error) {

	// Optional .env in the working directory.
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	file, required := opts.configFile, opts.configFile != ""
	if file == "" {
		if env := os.Getenv("MARKETPLACE_CONFIG"); env != "" {
			file, required = env, true
		}
	}

	container, err := deps.Bootstrap(deps.Deps{
		ConfigFile:     file,
		ConfigRequired: required,
		Watch:          watch,
		Overrides:      opts.overrides,
	})
	if err != nil {
		return nil, err
	}

	a := &app{container: container}

	// Graph main object (used to inject dependencies)
	var g inject.Graph
	err = g.Provide(
		&inject.Object{Value: container.Log(), Complete: true},
		&inject.Object{Value: container.Config(), Complete: true},
		&inject.Object{Value: container.Exceptions(), Complete: true},
		&inject.Object{Value: container.Metrics(), Complete: true},
		&inject.Object{Value: container.Events(), Complete: true},
		&inject.Object{Value: container.Cart(), Complete: true},
		&inject.Object{Value: &a.shell},
	)
	if err == nil {
		err = g.Populate()
	}
	if err != nil {
		deps.Shutdown(container)
		return nil, err
	}

	store := container.Cart()
	store.Boot(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := store.WaitReady(ctx); err != nil {
		deps.Shutdown(container)
		return nil, fmt.Errorf("loading saved cart: %w", err)
	}

	return a, nil
}

// stop waits for pending snapshot writes and shuts everything down.
func (a *app) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if err := a.container.Cart().Flush(ctx); err != nil {
		a.container.Log().Warningf("cart writes still pending at exit: %v", err)
	}

	deps.Shutdown(a.container)
}
