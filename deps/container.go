package deps

// An ignitor takes a Container and injects bootstraped dependencies.
type Ignitor func(Deps) (Deps, error)

// Ignitors in bootstrap order.
var Ignitors = []Ignitor{
	IgniteConfig,
	IgniteLogger,
	IgniteExceptions,
	IgniteMetrics,
	IgniteEvents,
	IgniteStorage,
	IgniteCart,
}

// Bootstrap runs the ignitors over container. On failure whatever was
// already started is shut down.
func Bootstrap(container Deps) (Deps, error) {
	var err error
	for _, fn := range Ignitors {
		container, err = fn(container)
		if err != nil {
			Shutdown(container)
			return container, err
		}
	}

	return container, nil
}

// Shutdown stops the dependencies in reverse bootstrap order.
func Shutdown(container Deps) {
	if container.CartProvider != nil {
		container.CartProvider.Close()
	}
	if container.BucketProvider != nil {
		if err := container.BucketProvider.Close(); err != nil && container.LoggerProvider != nil {
			container.LoggerProvider.Warningf("closing bucket: %v", err)
		}
	}
	if container.EventsProvider != nil {
		container.EventsProvider.Stop()
	}
	if container.ExceptionsProvider != nil {
		container.ExceptionsProvider.Close()
	}
	if container.ConfigProvider != nil {
		container.ConfigProvider.Close()
	}
}
