package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Document is the parsed catalog, menus in file order
type Document []MenuRecord

type MenuRecord struct {
	Title       string
	Description string
	Submenus    []SubmenuRecord
}

type SubmenuRecord struct {
	Title       string
	Description string
	Dishes      []DishRecord
}

type DishRecord struct {
	Title       string
	Description string
	Price       decimal.Decimal
}

// Counts returns the number of menus, submenus and dishes in d
func (d Document) Counts() (menus, submenus, dishes int) {
	menus = len(d)
	for _, m := range d {
		submenus += len(m.Submenus)
		for _, s := range m.Submenus {
			dishes += len(s.Dishes)
		}
	}
	return menus, submenus, dishes
}

// ReadFile parses sheet of the xlsx file at path, or its first sheet when
// sheet is empty
func ReadFile(path, sheet string) (Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, ErrOpen(path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, ErrOpen(path, err)
	}
	return Parse(rows)
}

// Parse builds a Document from sheet rows. A value in column A starts a
// menu (title B, description C), a value in column B starts a submenu of
// the last menu (title C, description D), any other row is a dish of the
// last submenu (title D, description E, price F). Blank rows are ignored.
func Parse(rows [][]string) (Document, error) {
	var doc Document
	for i, row := range rows {
		line := i + 1
		switch {
		case blank(row):
			continue

		case cell(row, 0) != "":
			title := cell(row, 1)
			if title == "" {
				return nil, ErrParse(line, "menu title is empty")
			}
			doc = append(doc, MenuRecord{Title: title, Description: cell(row, 2)})

		case cell(row, 1) != "":
			if len(doc) == 0 {
				return nil, ErrParse(line, "submenu before any menu")
			}
			title := cell(row, 2)
			if title == "" {
				return nil, ErrParse(line, "submenu title is empty")
			}
			menu := &doc[len(doc)-1]
			menu.Submenus = append(menu.Submenus, SubmenuRecord{Title: title, Description: cell(row, 3)})

		default:
			if len(doc) == 0 || len(doc[len(doc)-1].Submenus) == 0 {
				return nil, ErrParse(line, "dish before any submenu")
			}
			dish, err := parseDish(row)
			if err != nil {
				return nil, ErrParse(line, err.Error())
			}
			menu := &doc[len(doc)-1]
			sub := &menu.Submenus[len(menu.Submenus)-1]
			sub.Dishes = append(sub.Dishes, dish)
		}
	}
	return doc, nil
}

func parseDish(row []string) (DishRecord, error) {
	dish := DishRecord{Title: cell(row, 3), Description: cell(row, 4)}
	if dish.Title == "" {
		return dish, errors.New("dish title is empty")
	}
	if raw := cell(row, 5); raw != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			return dish, fmt.Errorf("price %q is not a number", raw)
		}
		if price.IsNegative() {
			return dish, fmt.Errorf("price %s is negative", raw)
		}
		dish.Price = price.Round(2)
	}
	return dish, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
