package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"
)

const key = "@GoMarketplace-Cart"

// bucketContract checks the behaviour every driver shares.
func bucketContract(bucket Bucket) {
	ctx := context.Background()

	Convey("a missing key is not found", func() {
		value, found, err := bucket.Get(ctx, key)
		So(err, ShouldBeNil)
		So(found, ShouldBeFalse)
		So(value, ShouldEqual, "")
	})

	Convey("a value set can be read back", func() {
		So(bucket.Set(ctx, key, `[{"id":"p1"}]`), ShouldBeNil)

		value, found, err := bucket.Get(ctx, key)
		So(err, ShouldBeNil)
		So(found, ShouldBeTrue)
		So(value, ShouldEqual, `[{"id":"p1"}]`)

		Convey("and replaced as a whole", func() {
			So(bucket.Set(ctx, key, `[]`), ShouldBeNil)

			value, _, err := bucket.Get(ctx, key)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, `[]`)
		})
	})
}

func TestMemory(t *testing.T) {

	Convey("Given a memory bucket", t, func() {
		bucket := NewMemory()
		bucketContract(bucket)

		Convey("a closed bucket refuses work", func() {
			So(bucket.Close(), ShouldBeNil)
			_, _, err := bucket.Get(context.Background(), key)
			So(err, ShouldEqual, ErrClosed)
			So(bucket.Set(context.Background(), key, "x"), ShouldEqual, ErrClosed)
		})
	})
}

func TestBunt(t *testing.T) {

	Convey("Given a bunt bucket", t, func() {
		path := filepath.Join(t.TempDir(), "cart.db")
		bucket, err := OpenBunt(path)
		So(err, ShouldBeNil)
		defer bucket.Close()

		bucketContract(bucket)

		Convey("values survive reopening", func() {
			So(bucket.Set(context.Background(), key, "saved"), ShouldBeNil)
			So(bucket.Close(), ShouldBeNil)

			reopened, err := OpenBunt(path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			value, found, err := reopened.Get(context.Background(), key)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(value, ShouldEqual, "saved")
		})

		Convey("a closed bucket refuses work", func() {
			So(bucket.Close(), ShouldBeNil)
			So(bucket.Set(context.Background(), key, "x"), ShouldEqual, ErrClosed)
		})
	})
}

func TestLedis(t *testing.T) {

	Convey("Given a ledis bucket", t, func() {
		dir := t.TempDir()
		bucket, err := OpenLedis(dir)
		So(err, ShouldBeNil)
		defer bucket.Close()

		bucketContract(bucket)

		Convey("values survive reopening", func() {
			So(bucket.Set(context.Background(), key, "saved"), ShouldBeNil)
			So(bucket.Close(), ShouldBeNil)

			reopened, err := OpenLedis(dir)
			So(err, ShouldBeNil)
			defer reopened.Close()

			value, found, err := reopened.Get(context.Background(), key)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(value, ShouldEqual, "saved")
		})

		Convey("a closed bucket refuses work", func() {
			So(bucket.Set(context.Background(), key, "saved"), ShouldBeNil)
			So(bucket.Close(), ShouldBeNil)
			So(bucket.Close(), ShouldBeNil)

			_, found, err := bucket.Get(context.Background(), key)
			So(err, ShouldEqual, ErrClosed)
			So(found, ShouldBeFalse)
			So(bucket.Set(context.Background(), key, "x"), ShouldEqual, ErrClosed)
		})
	})
}

func TestRedis(t *testing.T) {

	Convey("Given a redis bucket", t, func() {
		server, err := miniredis.Run()
		So(err, ShouldBeNil)
		defer server.Close()

		bucket, err := OpenRedis(server.Addr(), 0)
		So(err, ShouldBeNil)
		defer bucket.Close()

		bucketContract(bucket)

		Convey("values are plain redis strings", func() {
			So(bucket.Set(context.Background(), key, "saved"), ShouldBeNil)

			value, err := server.Get(key)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "saved")
		})
	})

	Convey("An unreachable redis fails to open", t, func() {
		server, err := miniredis.Run()
		So(err, ShouldBeNil)
		addr := server.Addr()
		server.Close()

		_, err = OpenRedis(addr, 0)
		So(err, ShouldNotBeNil)
	})
}

func TestOpen(t *testing.T) {

	Convey("Open picks the driver", t, func() {
		bucket, err := Open(DriverMemory, Options{})
		So(err, ShouldBeNil)
		So(bucket, ShouldHaveSameTypeAs, &Memory{})

		bucket, err = Open(DriverBunt, Options{Path: filepath.Join(t.TempDir(), "cart.db")})
		So(err, ShouldBeNil)
		So(bucket, ShouldHaveSameTypeAs, &Bunt{})
		So(bucket.Close(), ShouldBeNil)

		bucket, err = Open(DriverLedis, Options{Path: t.TempDir()})
		So(err, ShouldBeNil)
		So(bucket, ShouldHaveSameTypeAs, &Ledis{})
		So(bucket.Close(), ShouldBeNil)
	})

	Convey("Unknown drivers are refused", t, func() {
		_, err := Open("floppy", Options{})
		So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
	})
}
