package deps

import (
	"github.com/tryanzu/gomarketplace/core/events"
	"github.com/tryanzu/gomarketplace/modules/exceptions"
	"github.com/tryanzu/gomarketplace/modules/metrics"
)

func IgniteExceptions(container Deps) (Deps, error) {
	module, err := exceptions.Boot(container.Config().View().UString("sentry.dsn"))
	if err != nil {
		return container, err
	}

	container.ExceptionsProvider = module
	return container, nil
}

func IgniteMetrics(container Deps) (Deps, error) {
	container.MetricsProvider = metrics.NewCart("marketplace")
	return container, nil
}

func IgniteEvents(container Deps) (Deps, error) {
	container.EventsProvider = events.Boot()
	return container, nil
}
