package repository

import (
	"context"

	"github.com/dailyyoga/menuhub/model"
	"gorm.io/gorm"
)

// Per-type messages
const (
	MenuNotFound    = "menu not found"
	SubmenuNotFound = "submenu not found"
	DishNotFound    = "dish not found"

	MenuAlreadyExists    = "menu with this title already exists"
	SubmenuAlreadyExists = "submenu with this title already exists"
	DishAlreadyExists    = "dish with this title already exists"
)

// catalogHooks allows every update and delete; none of the catalog types
// restrict them
type catalogHooks[T any] struct{}

func (catalogHooks[T]) IsUpdateAllowed(context.Context, *T, map[string]any) error { return nil }

func (catalogHooks[T]) IsDeleteAllowed(context.Context, *T) error { return nil }

type menuHooks struct {
	catalogHooks[model.Menu]
}

type submenuHooks struct {
	catalogHooks[model.Submenu]
}

func (submenuHooks) PerformCreate(s *model.Submenu, menuID uint) error {
	s.MenuID = menuID
	return nil
}

type dishHooks struct {
	catalogHooks[model.Dish]
}

func (dishHooks) PerformCreate(d *model.Dish, submenuID uint) error {
	d.SubmenuID = submenuID
	return nil
}

// NewMenuRepository returns the menu repository; reads preload submenus and
// their dishes
func NewMenuRepository(db *gorm.DB) *Repository[model.Menu] {
	return New[model.Menu](db, Config{
		NotFound:      MenuNotFound,
		AlreadyExists: MenuAlreadyExists,
		Preloads:      []string{"Submenus", "Submenus.Dishes"},
		Hooks:         menuHooks{},
	})
}

// NewSubmenuRepository returns the submenu repository; reads preload dishes
func NewSubmenuRepository(db *gorm.DB) *Repository[model.Submenu] {
	return New[model.Submenu](db, Config{
		NotFound:       SubmenuNotFound,
		AlreadyExists:  SubmenuAlreadyExists,
		ParentNotFound: MenuNotFound,
		Preloads:       []string{"Dishes"},
		Hooks:          submenuHooks{},
	})
}

// NewDishRepository returns the dish repository
func NewDishRepository(db *gorm.DB) *Repository[model.Dish] {
	return New[model.Dish](db, Config{
		NotFound:       DishNotFound,
		AlreadyExists:  DishAlreadyExists,
		ParentNotFound: SubmenuNotFound,
		Hooks:          dishHooks{},
	})
}
