package deps

import (
	"os"

	"github.com/tryanzu/gomarketplace/core/config"
)

// DefaultConfigFile is merged when present and no other file was asked for.
const DefaultConfigFile = "./config.hjson"

func IgniteConfig(d Deps) (Deps, error) {
	c := config.New()
	d.ConfigProvider = c

	file := d.ConfigFile
	if file == "" {
		file = DefaultConfigFile
	}

	if _, err := os.Stat(file); err == nil || d.ConfigRequired {
		if err := c.Merge(file); err != nil {
			return d, err
		}

		if d.Watch {
			if err := c.WatchFile(file); err != nil {
				return d, err
			}
		}
	}

	for _, assignment := range d.Overrides {
		if err := c.Set(assignment); err != nil {
			return d, err
		}
	}

	return d, nil
}
