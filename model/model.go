// Package model declares the three-level catalog: a Menu owns Submenus, a
// Submenu owns Dishes. Counts over descendants are derived from the loaded
// child collections and never stored.
package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entity is implemented by every catalog record
type Entity interface {
	GetID() uint
}

// Menu is the root of the catalog tree
type Menu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	Submenus    []Submenu `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"submenus,omitempty"`
}

func (Menu) TableName() string { return "menu" }

func (m Menu) GetID() uint { return m.ID }

// SubmenusCount is the number of submenus owned by the menu
func (m Menu) SubmenusCount() int { return len(m.Submenus) }

// DishesCount is the number of dishes across all submenus of the menu
func (m Menu) DishesCount() int {
	n := 0
	for _, s := range m.Submenus {
		n += s.DishesCount()
	}
	return n
}

// Submenu belongs to exactly one Menu
type Submenu struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MenuID      uint   `gorm:"not null;index" json:"menu_id"`
	Title       string `gorm:"size:256;not null;uniqueIndex" json:"title"`
	Description string `gorm:"size:2000" json:"description"`
	Dishes      []Dish `gorm:"foreignKey:SubmenuID;constraint:OnDelete:CASCADE" json:"dishes,omitempty"`
}

func (Submenu) TableName() string { return "submenu" }

func (s Submenu) GetID() uint { return s.ID }

// DishesCount is the number of dishes owned by the submenu
func (s Submenu) DishesCount() int { return len(s.Dishes) }

// Dish belongs to exactly one Submenu
type Dish struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SubmenuID   uint            `gorm:"not null;index" json:"submenu_id"`
	Title       string          `gorm:"size:256;not null;uniqueIndex" json:"title"`
	Description string          `gorm:"size:2000" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
}

func (Dish) TableName() string { return "dish" }

func (d Dish) GetID() uint { return d.ID }

// Migrate creates or updates the catalog tables, including the cascading
// foreign keys
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Menu{}, &Submenu{}, &Dish{})
}
