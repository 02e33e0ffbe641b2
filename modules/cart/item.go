package cart

import "encoding/json"

// Product is a cart line item. Quantity is always >= 1 while the item is held.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// UnmarshalJSON accepts both image_url and imageUrl spellings.
func (item *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		ImageURL  string  `json:"image_url"`
		ImageURL2 string  `json:"imageUrl"`
		Price     float64 `json:"price"`
		Quantity  int     `json:"quantity"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*item = Product{
		ID:       raw.ID,
		Title:    raw.Title,
		ImageURL: raw.ImageURL,
		Price:    raw.Price,
		Quantity: raw.Quantity,
	}

	if item.ImageURL == "" {
		item.ImageURL = raw.ImageURL2
	}

	return nil
}

// IncQuantity returns a copy of the item with its quantity moved by the given delta.
func (item Product) IncQuantity(by int) Product {
	item.Quantity = item.Quantity + by
	return item
}

// valid reports whether the item can be held: it needs an id and a price
// that is not negative.
func (item Product) valid() bool {
	return item.ID != "" && item.Price >= 0
}

func indexOf(items []Product, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}

	return -1
}

func clone(items []Product) []Product {
	list := make([]Product, len(items))
	copy(list, items)
	return list
}
