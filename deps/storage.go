package deps

import (
	"github.com/tryanzu/gomarketplace/modules/storage"
)

func IgniteStorage(container Deps) (Deps, error) {
	view := container.Config().View()
	driver := view.UString("storage.driver", storage.DriverBunt)

	bucket, err := storage.Open(driver, storage.Options{
		Path:         view.UString("storage.path"),
		RedisAddress: view.UString("storage.redis.address"),
		RedisDB:      view.UInt("storage.redis.db"),
	})
	if err != nil {
		return container, err
	}

	container.BucketProvider = bucket
	return container, nil
}
