package shell

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"
	"github.com/op/go-logging"
	"github.com/tryanzu/gomarketplace/core/config"
	"github.com/tryanzu/gomarketplace/modules/cart"
	"github.com/tryanzu/gomarketplace/modules/metrics"
)

var log = logging.MustGetLogger("shell")

// Module is the interactive cart shell. Its fields are filled by the
// dependency graph.
type Module struct {
	Cart    *cart.Store    `inject:""`
	Metrics *metrics.Cart  `inject:""`
	Config  *config.Config `inject:""`

	stopWatch context.CancelFunc
}

// Run starts the shell and blocks until the user exits it.
func (module *Module) Run(ctx context.Context) {
	shell := ishell.New()
	shell.Println("GoMarketplace Interactive Shell 0.1")

	for _, cmd := range module.Commands(ctx) {
		shell.AddCmd(cmd)
	}

	shell.Run()
	module.unwatch()
}

// Commands lists the shell commands bound to this module.
func (module *Module) Commands(ctx context.Context) []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "list",
			Help: "List the items in the cart.",
			Func: func(c *ishell.Context) {
				module.List(printer{c})
			},
		},
		{
			Name:     "add",
			Help:     "Add a product: add <id|-> <title> <image> <price>",
			LongHelp: "Adds the product with quantity 1. Products already in the cart are left untouched, use inc instead.",
			Func: func(c *ishell.Context) {
				if err := module.Add(ctx, printer{c}, c.Args); err != nil {
					c.Println("error:", err)
				}
			},
		},
		{
			Name: "inc",
			Help: "Increment an item quantity: inc <id>",
			Func: func(c *ishell.Context) {
				if err := module.Increment(ctx, printer{c}, c.Args); err != nil {
					c.Println("error:", err)
				}
			},
		},
		{
			Name: "dec",
			Help: "Decrement an item quantity, removing it at zero: dec <id>",
			Func: func(c *ishell.Context) {
				if err := module.Decrement(ctx, printer{c}, c.Args); err != nil {
					c.Println("error:", err)
				}
			},
		},
		{
			Name: "total",
			Help: "Show how many units the cart holds and what they cost.",
			Func: func(c *ishell.Context) {
				module.Total(printer{c})
			},
		},
		{
			Name: "stats",
			Help: "Show mutation and persistence counters.",
			Func: func(c *ishell.Context) {
				if err := module.Stats(printer{c}); err != nil {
					c.Println("error:", err)
				}
			},
		},
		{
			Name: "watch",
			Help: "Toggle printing every cart change as it happens.",
			Func: func(c *ishell.Context) {
				if module.unwatch() {
					c.Println("stopped watching")
					return
				}

				watchCtx, cancel := context.WithCancel(ctx)
				module.stopWatch = cancel
				go func() {
					if err := module.Watch(watchCtx, printer{c}, 0); err != nil && err != context.Canceled {
						log.Warningf("watch ended: %v", err)
					}
				}()
				c.Println("watching cart changes, run watch again to stop")
			},
		},
	}
}

func (module *Module) unwatch() bool {
	if module.stopWatch == nil {
		return false
	}

	module.stopWatch()
	module.stopWatch = nil
	return true
}

// printer lets the command bodies write to the shell.
type printer struct {
	c *ishell.Context
}

func (p printer) Write(b []byte) (int, error) {
	p.c.Print(string(b))
	return len(b), nil
}

func usage(cmd string) error {
	return fmt.Errorf("usage: %s", cmd)
}
