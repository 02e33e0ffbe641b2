// Package storage provides the durable key-value buckets the cart snapshot is
// written to.
package storage

import (
	"errors"
	"fmt"

	"github.com/imdario/mergo"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("storage")

var (
	ErrUnknownDriver = errors.New("storage: unknown driver")
	ErrClosed        = errors.New("storage: bucket closed")
)

const (
	DriverBunt   = "bunt"
	DriverLedis  = "ledis"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Options struct {
	// Path of the bunt database file or the ledis data directory.
	Path string

	RedisAddress string
	RedisDB      int
}

var defaults = Options{
	Path:         "./cart.db",
	RedisAddress: "localhost:6379",
}

// Open returns the bucket for driver. Zero fields of opts take their defaults.
func Open(driver string, opts Options) (Bucket, error) {
	if err := mergo.Merge(&opts, defaults); err != nil {
		return nil, err
	}

	log.Infof("opening %s bucket", driver)

	switch driver {
	case DriverBunt:
		return OpenBunt(opts.Path)
	case DriverLedis:
		return OpenLedis(opts.Path)
	case DriverRedis:
		return OpenRedis(opts.RedisAddress, opts.RedisDB)
	case DriverMemory:
		return NewMemory(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}
