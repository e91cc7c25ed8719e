package profile

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// ErrItemNotFound is returned for operations on an unknown item id.
var ErrItemNotFound = errors.New("item not found")

// AddItem appends a new enabled item with the next free id.
func (j *Job) AddItem(name string, price decimal.Decimal, taxable bool) engine.Item {
	var next int64 = 1
	for _, it := range j.Items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	item := engine.Item{ID: next, Name: name, Price: price, Taxable: taxable, Enabled: true}
	j.Items = append(j.Items, item)
	return item
}

// UpdateItem replaces the item with the same id.
func (j *Job) UpdateItem(item engine.Item) error {
	for i := range j.Items {
		if j.Items[i].ID == item.ID {
			j.Items[i] = item
			return nil
		}
	}
	return ErrItemNotFound
}

// SetItemEnabled toggles an item in or out of the totals without
// removing it from storage.
func (j *Job) SetItemEnabled(id int64, enabled bool) error {
	for i := range j.Items {
		if j.Items[i].ID == id {
			j.Items[i].Enabled = enabled
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes an item outright.
func (j *Job) RemoveItem(id int64) error {
	for i := range j.Items {
		if j.Items[i].ID == id {
			j.Items = append(j.Items[:i], j.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}
