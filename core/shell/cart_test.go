package shell

import (
	"bytes"
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tryanzu/gomarketplace/core/config"
	"github.com/tryanzu/gomarketplace/modules/cart"
	"github.com/tryanzu/gomarketplace/modules/helpers"
	"github.com/tryanzu/gomarketplace/modules/metrics"
	"github.com/tryanzu/gomarketplace/modules/storage"
)

func testModule() *Module {
	recorder := metrics.NewCart("test")
	store := cart.New(storage.NewMemory(), cart.WithRecorder(recorder))
	store.Boot(context.Background())
	<-store.Ready()

	return &Module{
		Cart:    store,
		Metrics: recorder,
		Config:  config.New(),
	}
}

func TestShellCommands(t *testing.T) {
	ctx := context.Background()

	Convey("Given a shell over an empty cart", t, func() {
		module := testModule()
		defer module.Cart.Close()
		out := &bytes.Buffer{}

		Convey("list says so", func() {
			module.List(out)
			So(out.String(), ShouldEqual, "cart is empty\n")
		})

		Convey("add puts the product in with quantity 1", func() {
			err := module.Add(ctx, out, []string{"p1", "Shirt", "u1", "20"})
			So(err, ShouldBeNil)
			So(out.String(), ShouldEqual, "added p1\n")
			So(module.Cart.Products(), ShouldResemble, []cart.Product{
				{ID: "p1", Title: "Shirt", ImageURL: "u1", Price: 20, Quantity: 1},
			})

			Convey("adding it again changes nothing", func() {
				out.Reset()
				So(module.Add(ctx, out, []string{"p1", "Shirt", "u1", "20"}), ShouldBeNil)
				So(out.String(), ShouldEqual, "p1 is already in the cart, use inc\n")
				So(module.Cart.Products()[0].Quantity, ShouldEqual, 1)
			})

			Convey("inc and dec walk the quantity", func() {
				out.Reset()
				So(module.Increment(ctx, out, []string{"p1"}), ShouldBeNil)
				So(module.Decrement(ctx, out, []string{"p1"}), ShouldBeNil)
				So(module.Decrement(ctx, out, []string{"p1"}), ShouldBeNil)
				So(out.String(), ShouldEqual, "p1 x2\np1 x1\nremoved p1\n")
				So(module.Cart.Products(), ShouldBeEmpty)
			})

			Convey("list shows the item and totals", func() {
				out.Reset()
				module.Increment(ctx, &bytes.Buffer{}, []string{"p1"})
				module.List(out)
				So(out.String(), ShouldContainSubstring, "p1")
				So(out.String(), ShouldContainSubstring, "x2")
				So(out.String(), ShouldContainSubstring, "2 units, total "+helpers.FormatPrice(40, "BRL", "pt-BR"))
			})

			Convey("stats reports the counters", func() {
				out.Reset()
				So(module.Stats(out), ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "test_cart_mutations_total")
			})
		})

		Convey("an id of - is taken from the title", func() {
			So(module.Add(ctx, out, []string{"-", "Camiseta Azul", "u1", "19,90"}), ShouldBeNil)
			items := module.Cart.Products()
			So(items, ShouldHaveLength, 1)
			So(items[0].ID, ShouldEqual, "camiseta-azul")
			So(items[0].Price, ShouldEqual, 19.90)
		})

		Convey("unknown ids are reported, not failed", func() {
			So(module.Increment(ctx, out, []string{"p999"}), ShouldBeNil)
			So(module.Decrement(ctx, out, []string{"p999"}), ShouldBeNil)
			So(out.String(), ShouldEqual, "p999 is not in the cart\np999 is not in the cart\n")
		})

		Convey("bad arguments are errors", func() {
			So(module.Add(ctx, out, []string{"p1"}), ShouldNotBeNil)
			So(module.Add(ctx, out, []string{"p1", "Shirt", "u1", "cheap"}), ShouldNotBeNil)
			So(module.Add(ctx, out, []string{"p1", "Shirt", "u1", "-3"}), ShouldNotBeNil)
			So(module.Add(ctx, out, []string{"-", "???", "u1", "3"}), ShouldNotBeNil)
			So(module.Increment(ctx, out, nil), ShouldNotBeNil)
			So(module.Decrement(ctx, out, []string{"a", "b"}), ShouldNotBeNil)
			So(module.Cart.Products(), ShouldBeEmpty)
		})
	})
}

func TestShellWatch(t *testing.T) {

	Convey("Given a shell over a cart", t, func() {
		module := testModule()
		defer module.Cart.Close()
		ctx := context.Background()
		module.Cart.AddToCart(ctx, cart.Product{ID: "p1", Title: "Shirt", Price: 20})

		Convey("watch prints the next change", func() {
			out := &bytes.Buffer{}
			done := make(chan error, 1)
			go func() {
				done <- module.Watch(ctx, out, 1)
			}()

			// Keep changing the cart until the watcher saw one change.
			var err error
			for waiting := true; waiting; {
				select {
				case err = <-done:
					waiting = false
				case <-time.After(5 * time.Millisecond):
					module.Cart.Increment(ctx, "p1")
				}
			}

			So(err, ShouldBeNil)
			So(out.String(), ShouldStartWith, "v")
			So(out.String(), ShouldContainSubstring, "1 items")
		})

		Convey("watch stops with its context", func() {
			watchCtx, cancel := context.WithCancel(ctx)
			cancel()
			So(module.Watch(watchCtx, &bytes.Buffer{}, 0), ShouldEqual, context.Canceled)
		})

		Convey("watch ends when the store closes", func() {
			done := make(chan error, 1)
			go func() {
				done <- module.Watch(ctx, &bytes.Buffer{}, 0)
			}()

			time.Sleep(50 * time.Millisecond)
			module.Cart.Close()
			So(<-done, ShouldBeNil)
		})
	})
}
