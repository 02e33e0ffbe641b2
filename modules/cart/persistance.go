package cart

import (
	"context"
	"encoding/json"
)

// Bucket is the durable key-value store the cart snapshot is mirrored to.
type Bucket interface {

	// Get the value stored under key. found is false when nothing was saved yet.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// Encode serializes the whole cart as one snapshot.
func Encode(items []Product) (string, error) {
	if items == nil {
		items = []Product{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Decode parses a snapshot. Entries breaking the cart invariants are dropped:
// missing ids, negative prices, non positive quantities and repeated ids (the
// first one wins).
func Decode(data string) ([]Product, error) {
	var list []Product
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, err
	}

	items := make([]Product, 0, len(list))
	for _, item := range list {
		if !item.valid() || item.Quantity < 1 || indexOf(items, item.ID) != -1 {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}
