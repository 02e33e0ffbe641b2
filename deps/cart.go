package deps

import (
	"github.com/tryanzu/gomarketplace/modules/cart"
)

// IgniteCart builds the cart store. Booting it (loading the saved cart) is
// left to the caller.
func IgniteCart(container Deps) (Deps, error) {
	namespace := container.Config().View().UString("app.namespace", "@GoMarketplace")

	container.CartProvider = cart.New(
		container.Bucket(),
		cart.WithKey(namespace+"-Cart"),
		cart.WithEvents(container.Events()),
		cart.WithReporter(container.Exceptions()),
		cart.WithRecorder(container.Metrics()),
	)

	return container, nil
}
