package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tryanzu/gomarketplace/modules/cart"
	"github.com/tryanzu/gomarketplace/modules/helpers"
)

const titleWidth = 32

// List prints one line per cart item followed by the totals.
func (module *Module) List(w io.Writer) {
	items := module.Cart.Products()
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}

	for _, item := range items {
		fmt.Fprintf(w, "%-20s %-32s x%-3d %s\n",
			item.ID,
			helpers.Truncate(item.Title, titleWidth),
			item.Quantity,
			module.price(item.Price*float64(item.Quantity)),
		)
	}

	module.Total(w)
}

// Add puts a product in the cart. args are id, title, image and price; an id
// of "-" is derived from the title.
func (module *Module) Add(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 4 {
		return usage("add <id|-> <title> <image> <price>")
	}

	price, err := strconv.ParseFloat(strings.Replace(args[3], ",", ".", 1), 64)
	if err != nil || price < 0 {
		return fmt.Errorf("invalid price %q", args[3])
	}

	product := cart.Product{
		ID:       args[0],
		Title:    args[1],
		ImageURL: args[2],
		Price:    price,
	}
	if product.ID == "-" {
		product.ID = helpers.StrSlug(product.Title)
	}
	if product.ID == "" {
		return fmt.Errorf("cannot derive an id from %q", product.Title)
	}

	if module.Cart.AddToCart(ctx, product) {
		fmt.Fprintf(w, "added %s\n", product.ID)
	} else {
		fmt.Fprintf(w, "%s is already in the cart, use inc\n", product.ID)
	}

	return nil
}

// Increment raises the quantity of args[0].
func (module *Module) Increment(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 1 {
		return usage("inc <id>")
	}

	if !module.Cart.Increment(ctx, args[0]) {
		fmt.Fprintf(w, "%s is not in the cart\n", args[0])
		return nil
	}

	module.quantity(w, args[0])
	return nil
}

// Decrement lowers the quantity of args[0].
func (module *Module) Decrement(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 1 {
		return usage("dec <id>")
	}

	if !module.Cart.Decrement(ctx, args[0]) {
		fmt.Fprintf(w, "%s is not in the cart\n", args[0])
		return nil
	}

	module.quantity(w, args[0])
	return nil
}

// Total prints the unit count and the cart value.
func (module *Module) Total(w io.Writer) {
	fmt.Fprintf(w, "%d units, total %s\n", module.Cart.Count(), module.price(module.Cart.Total()))
}

// Stats prints the cart counters.
func (module *Module) Stats(w io.Writer) error {
	if module.Metrics == nil {
		fmt.Fprintln(w, "metrics are disabled")
		return nil
	}

	samples, err := module.Metrics.Samples()
	if err != nil {
		return err
	}

	for _, sample := range samples {
		labels := make([]string, 0, len(sample.Labels))
		for name, value := range sample.Labels {
			labels = append(labels, name+"="+value)
		}

		fmt.Fprintf(w, "%s{%s} %v\n", sample.Name, strings.Join(labels, ","), sample.Value)
	}

	return nil
}

// Watch prints cart snapshots as they are published, skipping the one
// current on entry. It returns after n snapshots (n <= 0 means forever), when
// ctx is done or when the store closes.
func (module *Module) Watch(ctx context.Context, w io.Writer, n int) error {
	sub := module.Cart.Subscribe()
	defer sub.Close()

	// Current state.
	select {
	case <-sub.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	for seen := 0; n <= 0 || seen < n; seen++ {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				return nil
			}

			count, total := 0, 0.0
			for _, item := range snap.Products {
				count += item.Quantity
				total += item.Price * float64(item.Quantity)
			}
			fmt.Fprintf(w, "v%d: %d items, %d units, total %s\n", snap.Version, len(snap.Products), count, module.price(total))
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (module *Module) quantity(w io.Writer, id string) {
	for _, item := range module.Cart.Products() {
		if item.ID == id {
			fmt.Fprintf(w, "%s x%d\n", id, item.Quantity)
			return
		}
	}

	fmt.Fprintf(w, "removed %s\n", id)
}

func (module *Module) price(amount float64) string {
	unit, lang := "BRL", "pt-BR"
	if module.Config != nil {
		view := module.Config.View()
		unit = view.UString("display.currency", unit)
		lang = view.UString("display.language", lang)
	}

	return helpers.FormatPrice(amount, unit, lang)
}
