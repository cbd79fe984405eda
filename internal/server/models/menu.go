package models

import "github.com/shopspring/decimal"

// MenuItem is a catalog entry. When ImageKey is set the menu service
// replaces ImageURL with a presigned link to that object.
type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	ImageKey     string          `json:"-"`
	CategoryID   string          `json:"-"`
	Category     string          `json:"category"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsVegan      bool            `json:"isVegan"`
	IsGlutenFree bool            `json:"isGlutenFree"`
	Rating       float64         `json:"rating"`
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
}
