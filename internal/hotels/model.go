// Package hotels implements hotel records: CRUD for admins, public
// search/listing, and the aggregation counts the client's landing page
// renders (hotels per city, hotels per type). Mutations sit behind the
// auth package's admin gate.
package hotels

import (
	"time"
)

// Hotel represents a bookable property. Title and Description may contain
// rich text from the admin editor and are sanitized before persistence.
type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Distance    string    `json:"distance"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Popular     bool      `json:"popular"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HotelInput holds the fields an admin can set when creating or updating
// a hotel.
type HotelInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Distance    string `json:"distance"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Popular     bool   `json:"popular"`
}

// ListFilter narrows a hotel listing. Zero values mean "no filter".
type ListFilter struct {
	// Popular, when non-nil, filters on the popular flag.
	Popular *bool

	// Types filters to hotels of any of the given types.
	Types []string

	// Cities filters to hotels in any of the given cities.
	Cities []string
}

// TypeCount is one row of the hotels-per-type aggregation.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CityCount is one row of the hotels-per-city aggregation.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}
