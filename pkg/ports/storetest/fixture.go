// Package storetest provides a reusable contract suite that verifies an
// adapter complies with ports.EntityStore, plus a small entity fixture
// shared by adapter tests.
package storetest

import (
	"fmt"

	"github.com/latticekit/lattice/pkg/entity"
)

// ItemID identifies an Item.
type ItemID string

func (id ItemID) String() string { return string(id) }

// Item is a minimal entity used to exercise stores and repositories in
// tests. It carries one numeric field with a validation rule so invalid
// instances are easy to construct.
type Item struct {
	ID    ItemID            `json:"id"`
	Name  string            `json:"name"`
	Price float64           `json:"price"`
	Tags  map[string]string `json:"tags,omitempty"`
}

func (i Item) EntityID() ItemID { return i.ID }

func (i Item) Validate() error {
	var items []entity.Violation
	if i.Name == "" {
		items = append(items, entity.Violation{Field: "name", Reason: "required"})
	}
	if i.Price < 0 {
		items = append(items, entity.Violation{Field: "price", Reason: "must not be negative"})
	}
	if len(items) > 0 {
		return entity.Invalid(items...)
	}
	return nil
}

func (i Item) Clone() Item {
	out := i
	if i.Tags != nil {
		out.Tags = make(map[string]string, len(i.Tags))
		for k, v := range i.Tags {
			out.Tags[k] = v
		}
	}
	return out
}

func (i Item) Display() string {
	return fmt.Sprintf("%s (%.2f)", i.Name, i.Price)
}

func (i Item) Debug() string {
	return fmt.Sprintf("Item{ID:%s Name:%q Price:%.2f Tags:%v}", i.ID, i.Name, i.Price, i.Tags)
}
