package deps

import (
	"os"
	"sync"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("marketplace")

// Example format string. Everything except the message has a custom color
// which is dependent on the log level. Many fields have a custom output
// formatting too, eg. the time returns the hour down to the milli second.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module}	%{shortfile}	▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
)

var (
	backend     *levelBackend
	backendOnce sync.Once
)

// levelBackend is a LeveledBackend with one level for every module that can
// be changed while other goroutines log.
type levelBackend struct {
	mu      sync.RWMutex
	level   logging.Level
	backend logging.Backend
}

func (b *levelBackend) Log(level logging.Level, calldepth int, rec *logging.Record) error {
	return b.backend.Log(level, calldepth+1, rec)
}

func (b *levelBackend) GetLevel(module string) logging.Level {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.level
}

func (b *levelBackend) SetLevel(level logging.Level, module string) {
	b.mu.Lock()
	b.level = level
	b.mu.Unlock()
}

func (b *levelBackend) IsEnabledFor(level logging.Level, module string) bool {
	return level <= b.GetLevel(module)
}

// IgniteLogger installs the shared backend once and applies the configured
// level, again on every config reload until the config is closed.
func IgniteLogger(container Deps) (Deps, error) {
	backendOnce.Do(func() {
		stderr := logging.NewLogBackend(os.Stderr, "", 0)
		backend = &levelBackend{
			level:   logging.INFO,
			backend: logging.NewBackendFormatter(stderr, format),
		}
		logging.SetBackend(backend)
	})

	backend.SetLevel(level(container), "")
	container.LoggerProvider = log

	if c := container.Config(); c != nil {
		go func() {
			for {
				select {
				case <-c.Reload:
					backend.SetLevel(level(container), "")
				case <-c.Done():
					return
				}
			}
		}()
	}

	return container, nil
}

func level(container Deps) logging.Level {
	if container.Config() == nil {
		return logging.INFO
	}

	name := container.Config().View().UString("logging.level", "info")
	lvl, err := logging.LogLevel(name)
	if err != nil {
		log.Warningf("unknown logging level %q, using info", name)
		return logging.INFO
	}

	return lvl
}
