package events

func CartLoaded(key string, count int) Event {
	return Event{
		Name: CART_LOADED,
		Params: map[string]interface{}{
			"key":   key,
			"count": count,
		},
	}
}

func CartLoadFailed(key string, err error) Event {
	return Event{
		Name: CART_LOAD_FAILED,
		Params: map[string]interface{}{
			"key":   key,
			"error": err,
		},
	}
}

// CartItem builds one of the cart:item.* events.
func CartItem(name, id string, quantity int) Event {
	return Event{
		Name: name,
		Params: map[string]interface{}{
			"id":       id,
			"quantity": quantity,
		},
	}
}

func CartPersisted(key, writeID string, version uint64) Event {
	return Event{
		Name: CART_PERSISTED,
		Params: map[string]interface{}{
			"key":      key,
			"write_id": writeID,
			"version":  version,
		},
	}
}

func CartPersistFailed(key, writeID string, version uint64, err error) Event {
	return Event{
		Name: CART_PERSIST_FAILED,
		Params: map[string]interface{}{
			"key":      key,
			"write_id": writeID,
			"version":  version,
			"error":    err,
		},
	}
}
