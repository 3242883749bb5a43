package model

import "github.com/shopspring/decimal"

// Payload carries the client supplied fields for creating or partially
// updating a T. Nil fields are treated as not provided.
type Payload[T any] interface {
	// Fill assigns every provided field to obj
	Fill(obj *T)
	// Changes returns the provided fields keyed by column name
	Changes() map[string]any
}

// MenuPayload is the writable part of a Menu
type MenuPayload struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (p MenuPayload) Fill(m *Menu) {
	fillText(&m.Title, &m.Description, p.Title, p.Description)
}

func (p MenuPayload) Changes() map[string]any {
	return textChanges(p.Title, p.Description)
}

// SubmenuPayload is the writable part of a Submenu
type SubmenuPayload struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (p SubmenuPayload) Fill(s *Submenu) {
	fillText(&s.Title, &s.Description, p.Title, p.Description)
}

func (p SubmenuPayload) Changes() map[string]any {
	return textChanges(p.Title, p.Description)
}

// DishPayload is the writable part of a Dish
type DishPayload struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

func (p DishPayload) Fill(d *Dish) {
	fillText(&d.Title, &d.Description, p.Title, p.Description)
	if p.Price != nil {
		d.Price = *p.Price
	}
}

func (p DishPayload) Changes() map[string]any {
	changes := textChanges(p.Title, p.Description)
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	return changes
}

func fillText(title, description *string, newTitle, newDescription *string) {
	if newTitle != nil {
		*title = *newTitle
	}
	if newDescription != nil {
		*description = *newDescription
	}
}

func textChanges(title, description *string) map[string]any {
	changes := make(map[string]any, 3)
	if title != nil {
		changes["title"] = *title
	}
	if description != nil {
		changes["description"] = *description
	}
	return changes
}

// String returns a pointer to s, for building payloads
func String(s string) *string { return &s }

// Price returns a pointer to the decimal parsed from s, for building payloads.
// It panics on malformed input and is meant for literals.
func Price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
