package cart

import "context"

type contextKey struct{}

// WithStore makes the store available to consumers down the context chain.
func WithStore(ctx context.Context, module *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, module)
}

// FromContext returns the store carried by ctx, or ErrOutsideProvider when
// there is none or it was closed.
func FromContext(ctx context.Context) (*Store, error) {
	module, _ := ctx.Value(contextKey{}).(*Store)
	if !module.alive() {
		return nil, ErrOutsideProvider
	}

	return module, nil
}

// MustFromContext is FromContext for code paths that cannot run without a cart.
func MustFromContext(ctx context.Context) *Store {
	module, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}

	return module
}
