package models

import "github.com/shopspring/decimal"

// MenuItem is a read-only catalog entry.
type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	Category     string          `json:"category"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsVegan      bool            `json:"isVegan"`
	IsGlutenFree bool            `json:"isGlutenFree"`
	Rating       float64         `json:"rating"`
}

// DietaryTags returns short markers for the dietary flags that are set.
func (m MenuItem) DietaryTags() []string {
	var tags []string
	if m.IsVegetarian {
		tags = append(tags, "veg")
	}
	if m.IsVegan {
		tags = append(tags, "vegan")
	}
	if m.IsGlutenFree {
		tags = append(tags, "gluten-free")
	}
	return tags
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
}
