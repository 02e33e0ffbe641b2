package deps

import (
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/op/go-logging"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tryanzu/gomarketplace/modules/cart"
	"github.com/tryanzu/gomarketplace/modules/storage"
)

func TestBootstrap(t *testing.T) {

	Convey("Given a config selecting the bunt driver", t, func() {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.toml")
		content := "[app]\nnamespace = \"@Test\"\n\n[storage]\ndriver = \"bunt\"\npath = \"" + filepath.ToSlash(filepath.Join(dir, "cart.db")) + "\"\n"
		So(ioutil.WriteFile(file, []byte(content), 0644), ShouldBeNil)

		container, err := Bootstrap(Deps{ConfigFile: file, ConfigRequired: true})
		So(err, ShouldBeNil)
		defer Shutdown(container)

		Convey("every provider is filled", func() {
			So(container.Config(), ShouldNotBeNil)
			So(container.Log(), ShouldNotBeNil)
			So(container.Exceptions(), ShouldNotBeNil)
			So(container.Metrics(), ShouldNotBeNil)
			So(container.Events(), ShouldNotBeNil)
			So(container.Bucket(), ShouldHaveSameTypeAs, &storage.Bunt{})
			So(container.Cart(), ShouldNotBeNil)
		})

		Convey("the cart key follows the namespace", func() {
			So(container.Cart().Key(), ShouldEqual, "@Test-Cart")
		})

		Convey("cart writes land in the bucket", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			store := container.Cart()
			store.Boot(ctx)
			So(store.WaitReady(ctx), ShouldBeNil)

			store.AddToCart(ctx, cart.Product{ID: "p1", Title: "Shirt", ImageURL: "u1", Price: 20})
			So(store.Flush(ctx), ShouldBeNil)

			data, found, err := container.Bucket().Get(ctx, "@Test-Cart")
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(data, ShouldEqual, `[{"id":"p1","title":"Shirt","image_url":"u1","price":20,"quantity":1}]`)
		})
	})

	Convey("Overrides win over the config file", t, func() {
		container, err := Bootstrap(Deps{
			ConfigFile: filepath.Join(t.TempDir(), "absent.hjson"),
			Overrides:  []string{"storage.driver=memory"},
		})
		So(err, ShouldBeNil)
		defer Shutdown(container)

		So(container.Bucket(), ShouldHaveSameTypeAs, &storage.Memory{})
		So(container.Cart().Key(), ShouldEqual, "@GoMarketplace-Cart")
	})

	Convey("A required config file must exist", t, func() {
		_, err := Bootstrap(Deps{
			ConfigFile:     filepath.Join(t.TempDir(), "absent.hjson"),
			ConfigRequired: true,
		})
		So(err, ShouldNotBeNil)
	})

	Convey("Unknown drivers fail the bootstrap", t, func() {
		_, err := Bootstrap(Deps{
			ConfigFile: filepath.Join(t.TempDir(), "absent.hjson"),
			Overrides:  []string{"storage.driver=floppy"},
		})
		So(errors.Is(err, storage.ErrUnknownDriver), ShouldBeTrue)
	})
}

func TestLoggerLevel(t *testing.T) {

	Convey("Given a bootstrap with a debug override", t, func() {
		container, err := Bootstrap(Deps{
			ConfigFile: filepath.Join(t.TempDir(), "absent.hjson"),
			Overrides:  []string{"storage.driver=memory", "logging.level=debug"},
		})
		So(err, ShouldBeNil)
		defer Shutdown(container)

		So(logging.GetLevel("marketplace"), ShouldEqual, logging.DEBUG)

		Convey("level changes apply while other goroutines log", func() {
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					container.Log().Debugf("tick %d", i)
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					container.Config().Set("logging.level=notice")
				}
			}()
			wg.Wait()

			So(container.Config().Set("logging.level=error"), ShouldBeNil)

			deadline := time.After(5 * time.Second)
			for logging.GetLevel("marketplace") != logging.ERROR {
				select {
				case <-deadline:
					t.Fatal("level was not re-applied")
				case <-time.After(10 * time.Millisecond):
				}
			}
		})

		Convey("closing the config releases the reload listener", func() {
			So(container.Config().Close(), ShouldBeNil)

			select {
			case <-container.Config().Done():
			case <-time.After(time.Second):
				t.Fatal("config was not closed")
			}
		})
	})
}
