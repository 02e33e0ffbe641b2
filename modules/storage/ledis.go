package storage

import (
	"context"
	"sync"

	lediscfg "github.com/siddontang/ledisdb/config"
	"github.com/siddontang/ledisdb/ledis"
)

// Ledis stores values in an embedded ledisdb under dir.
type Ledis struct {
	conn *ledis.Ledis
	db   *ledis.DB

	mu     sync.RWMutex
	closed bool
}

func OpenLedis(dir string) (*Ledis, error) {
	conf := lediscfg.NewConfigDefault()
	conf.DataDir = dir

	conn, err := ledis.Open(conf)
	if err != nil {
		return nil, err
	}

	db, err := conn.Select(0)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Ledis{conn: conn, db: db}, nil
}

func (l *Ledis) Get(ctx context.Context, key string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// A closed ledis answers nil as for a missing key.
	if l.closed {
		return "", false, ErrClosed
	}

	value, err := l.db.Get([]byte(key))
	if err != nil {
		return "", false, err
	}

	// ledis answers nil for missing keys.
	if value == nil {
		return "", false, nil
	}

	return string(value), true, nil
}

func (l *Ledis) Set(ctx context.Context, key, value string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}

	return l.db.Set([]byte(key), []byte(value))
}

// Close releases the data directory. Closing twice is harmless.
func (l *Ledis) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		l.conn.Close()
	}

	return nil
}
