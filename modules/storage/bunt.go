package storage

import (
	"context"

	"github.com/tidwall/buntdb"
)

// Bunt stores values in a buntdb file, the default on-device store.
type Bunt struct {
	db *buntdb.DB
}

// OpenBunt opens (or creates) the database at path. ":memory:" keeps it in memory.
func OpenBunt(path string) (*Bunt, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}

	return &Bunt{db: db}, nil
}

func (b *Bunt) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err == buntdb.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		value, found = v, true
		return nil
	})

	if err == buntdb.ErrDatabaseClosed {
		err = ErrClosed
	}

	return
}

func (b *Bunt) Set(ctx context.Context, key, value string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})

	if err == buntdb.ErrDatabaseClosed {
		return ErrClosed
	}

	return err
}

func (b *Bunt) Close() error {
	return b.db.Close()
}
