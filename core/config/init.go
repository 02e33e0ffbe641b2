package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/divideandconquer/go-merge/merge"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/hcl"
	"github.com/hjson/hjson-go"
	olecfg "github.com/olebedev/config"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("config")

// Defaults every loaded file is merged over.
var Defaults = map[string]interface{}{
	"app": map[string]interface{}{
		"namespace": "@GoMarketplace",
	},
	"storage": map[string]interface{}{
		"driver": "bunt",
		"path":   "./cart.db",
		"redis": map[string]interface{}{
			"address": "localhost:6379",
			"db":      0,
		},
	},
	"logging": map[string]interface{}{
		"level": "info",
	},
	"sentry": map[string]interface{}{
		"dsn": "",
	},
	"display": map[string]interface{}{
		"currency": "BRL",
		"language": "pt-BR",
	},
}

// Config is the layered runtime configuration. Every merge signals on Reload.
type Config struct {
	Reload chan bool

	mu        sync.RWMutex
	current   map[string]interface{}
	overrides []map[string]interface{}
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// New returns a config holding the defaults.
func New() *Config {
	c := &Config{
		Reload:  make(chan bool, 1),
		current: map[string]interface{}{},
		done:    make(chan struct{}),
	}
	c.apply(Defaults)
	return c
}

// Copy returns the merged configuration tree.
func (c *Config) Copy() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyTree(c.current)
}

// View is a typed accessor over a copy of the current tree.
func (c *Config) View() *olecfg.Config {
	return &olecfg.Config{Root: c.Copy()}
}

// Merge decodes file by extension (.hjson/.json, .toml, .hcl) and merges it
// over the current configuration. Values given to Set still win.
func (c *Config) Merge(file string) error {
	dat, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	config, err := decode(filepath.Ext(file), dat)
	if err != nil {
		return fmt.Errorf("config %s: %w", file, err)
	}

	c.mu.RLock()
	overrides := c.overrides
	c.mu.RUnlock()

	c.apply(config)
	for _, o := range overrides {
		c.apply(o)
	}

	log.Infof("merged %s", file)
	return nil
}

// Override merges values over the current configuration.
func (c *Config) Override(values map[string]interface{}) {
	c.apply(values)
}

// Set overrides one dotted path, "storage.driver=memory" style.
func (c *Config) Set(assignment string) error {
	parts := strings.SplitN(assignment, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return fmt.Errorf("config: malformed override %q", assignment)
	}

	path := strings.Split(strings.TrimSpace(parts[0]), ".")
	var value interface{} = strings.TrimSpace(parts[1])
	for i := len(path) - 1; i >= 0; i-- {
		value = map[string]interface{}{path[i]: value}
	}

	override := value.(map[string]interface{})
	c.mu.Lock()
	c.overrides = append(c.overrides, override)
	c.mu.Unlock()

	c.apply(override)
	return nil
}

func (c *Config) apply(config map[string]interface{}) {
	c.mu.Lock()
	merged := merge.Merge(copyTree(c.current), normalize(config))
	if tree, ok := merged.(map[string]interface{}); ok {
		c.current = tree
	}
	c.mu.Unlock()

	// Reload signal if anyone is listening...
	select {
	case c.Reload <- true:
	default:
	}
}

// WatchFile merges file again every time it is written.
func (c *Config) WatchFile(file string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(file); err != nil {
		watcher.Close()
		return err
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					log.Infof("modified file: %s", event.Name)
					if err := c.Merge(event.Name); err != nil {
						log.Errorf("reload failed: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %v", err)
			}
		}
	}()

	return nil
}

// Done is closed once Close was called. Reload listeners stop on it.
func (c *Config) Done() <-chan struct{} {
	return c.done
}

// Close stops watching files and releases Reload listeners.
func (c *Config) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		return nil
	}

	err := c.watcher.Close()
	c.watcher = nil
	return err
}

func decode(ext string, dat []byte) (map[string]interface{}, error) {
	var config map[string]interface{}

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(dat), &config); err != nil {
			return nil, err
		}
	case ".hcl":
		if err := hcl.Decode(&config, string(dat)); err != nil {
			return nil, err
		}
	default:
		if err := hjson.Unmarshal(dat, &config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// normalize folds decoder specific shapes into plain maps the typed view
// understands: hcl blocks come as single element []map lists and toml
// integers as int64.
func normalize(value map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(value))
	for k, v := range value {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return normalize(t)
	case []map[string]interface{}:
		if len(t) == 1 {
			return normalize(t[0])
		}
		list := make([]interface{}, len(t))
		for i := range t {
			list[i] = normalize(t[i])
		}
		return list
	case []interface{}:
		list := make([]interface{}, len(t))
		for i := range t {
			list[i] = normalizeValue(t[i])
		}
		return list
	case int64:
		return int(t)
	}

	return v
}

func copyTree(tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(tree))
	for k, v := range tree {
		if sub, ok := v.(map[string]interface{}); ok {
			out[k] = copyTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}
