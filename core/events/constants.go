package events

const (
	CART_LOADED      = "cart:loaded"
	CART_LOAD_FAILED = "cart:load.failed"

	CART_ITEM_ADDED       = "cart:item.added"
	CART_ITEM_INCREMENTED = "cart:item.incremented"
	CART_ITEM_DECREMENTED = "cart:item.decremented"
	CART_ITEM_REMOVED     = "cart:item.removed"

	CART_PERSISTED      = "cart:persisted"
	CART_PERSIST_FAILED = "cart:persist.failed"
)
