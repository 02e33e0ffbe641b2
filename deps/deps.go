package deps

import (
	"github.com/op/go-logging"
	"github.com/tryanzu/gomarketplace/core/config"
	"github.com/tryanzu/gomarketplace/core/events"
	"github.com/tryanzu/gomarketplace/modules/cart"
	"github.com/tryanzu/gomarketplace/modules/exceptions"
	"github.com/tryanzu/gomarketplace/modules/metrics"
	"github.com/tryanzu/gomarketplace/modules/storage"
)

type Deps struct {
	// Inputs read by the ignitors.
	ConfigFile     string
	ConfigRequired bool
	Watch          bool
	Overrides      []string

	ConfigProvider     *config.Config
	LoggerProvider     *logging.Logger
	ExceptionsProvider *exceptions.ExceptionsModule
	MetricsProvider    *metrics.Cart
	EventsProvider     *events.Bus
	BucketProvider     storage.Bucket
	CartProvider       *cart.Store
}

func (d Deps) Config() *config.Config {
	return d.ConfigProvider
}

func (d Deps) Log() *logging.Logger {
	return d.LoggerProvider
}

func (d Deps) Exceptions() *exceptions.ExceptionsModule {
	return d.ExceptionsProvider
}

func (d Deps) Metrics() *metrics.Cart {
	return d.MetricsProvider
}

func (d Deps) Events() *events.Bus {
	return d.EventsProvider
}

func (d Deps) Bucket() storage.Bucket {
	return d.BucketProvider
}

func (d Deps) Cart() *cart.Store {
	return d.CartProvider
}
