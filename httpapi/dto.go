package httpapi

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/dailyyoga/menuhub/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Create bodies. Updates decode straight into the model payloads, whose
// fields are all optional.

type menuIn struct {
	Title       *string `json:"title" validate:"required,min=1,max=256"`
	Description *string `json:"description" validate:"required,max=2000"`
}

func (in menuIn) payload() model.MenuPayload {
	return model.MenuPayload{Title: in.Title, Description: in.Description}
}

type submenuIn struct {
	Title       *string `json:"title" validate:"required,min=1,max=256"`
	Description *string `json:"description" validate:"required,max=2000"`
}

func (in submenuIn) payload() model.SubmenuPayload {
	return model.SubmenuPayload{Title: in.Title, Description: in.Description}
}

type dishIn struct {
	Title       *string          `json:"title" validate:"required,min=1,max=256"`
	Description *string          `json:"description" validate:"required,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

func (in dishIn) payload() model.DishPayload {
	return model.DishPayload{Title: in.Title, Description: in.Description, Price: in.Price}
}

type menuOut struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubmenusCount int    `json:"submenus_count"`
	DishesCount   int    `json:"dishes_count"`
}

type submenuOut struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DishesCount int    `json:"dishes_count"`
}

type dishOut struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type menuTreeOut struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Submenus    []submenuTreeOut `json:"submenus"`
}

type submenuTreeOut struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Dishes      []dishOut `json:"dishes"`
}

type deleteOut struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func deleted(entity string) deleteOut {
	return deleteOut{Status: true, Message: "The " + entity + " has been deleted"}
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func toMenu(m *model.Menu) menuOut {
	return menuOut{
		ID:            id(m.ID),
		Title:         m.Title,
		Description:   m.Description,
		SubmenusCount: m.SubmenusCount(),
		DishesCount:   m.DishesCount(),
	}
}

func toSubmenu(s *model.Submenu) submenuOut {
	return submenuOut{
		ID:          id(s.ID),
		Title:       s.Title,
		Description: s.Description,
		DishesCount: s.DishesCount(),
	}
}

func toDish(d *model.Dish) dishOut {
	return dishOut{
		ID:          id(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
	}
}

func mapAll[T, O any](items []T, fn func(*T) O) []O {
	out := make([]O, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}

func toTree(menus []model.Menu) []menuTreeOut {
	return mapAll(menus, func(m *model.Menu) menuTreeOut {
		return menuTreeOut{
			ID:          id(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Submenus: mapAll(m.Submenus, func(s *model.Submenu) submenuTreeOut {
				return submenuTreeOut{
					ID:          id(s.ID),
					Title:       s.Title,
					Description: s.Description,
					Dishes:      mapAll(s.Dishes, toDish),
				}
			}),
		}
	})
}

// newValidator reports json field names and validates decimals by value
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
