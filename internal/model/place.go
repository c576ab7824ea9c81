package model

import (
	"encoding/json"
	"fmt"
)

type Point struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Region is the visible map area, described by its four corners.
type Region struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomLeft  Point `json:"bottom_left"`
	BottomRight Point `json:"bottom_right"`
}

type SearchType int

const (
	SearchTypeGeo SearchType = 1
	SearchTypeBiz SearchType = 2
)

func (s SearchType) String() string {
	switch s {
	case SearchTypeGeo:
		return "geo"
	case SearchTypeBiz:
		return "biz"
	default:
		return fmt.Sprintf("SearchType(%d)", int(s))
	}
}

type CategoryKind string

const (
	CategoryUndefined CategoryKind = "undefined"
	CategoryToponym   CategoryKind = "toponym"
	CategoryBusiness  CategoryKind = "business"
)

// Toponym is an address-like geo object.
type Toponym struct {
	Address string `json:"address"`
}

// Business is an organisation geo object. Optional fields are nil when unknown.
type Business struct {
	Name         string  `json:"name"`
	WorkingHours *string `json:"working_hours,omitempty"`
	Categories   *string `json:"categories,omitempty"`
	Phones       *string `json:"phones,omitempty"`
	Link         *string `json:"link,omitempty"`
}

// Category is a tagged union: exactly one of Toponym or Business is set,
// matching Kind. The zero value is Undefined.
type Category struct {
	Kind     CategoryKind
	Toponym  *Toponym
	Business *Business
}

func ToponymCategory(address string) Category {
	return Category{Kind: CategoryToponym, Toponym: &Toponym{Address: address}}
}

func BusinessCategory(b Business) Category {
	return Category{Kind: CategoryBusiness, Business: &b}
}

func UndefinedCategory() Category {
	return Category{Kind: CategoryUndefined}
}

// Visit dispatches on the variant. Every case must be supplied.
func (c Category) Visit(toponym func(Toponym), business func(Business), undefined func()) {
	switch c.Kind {
	case CategoryToponym:
		if c.Toponym != nil {
			toponym(*c.Toponym)
			return
		}
	case CategoryBusiness:
		if c.Business != nil {
			business(*c.Business)
			return
		}
	}
	undefined()
}

type categoryJSON struct {
	Kind CategoryKind `json:"kind"`
	Toponym
	Business
}

func (c Category) MarshalJSON() ([]byte, error) {
	var out interface{}
	c.Visit(
		func(t Toponym) {
			out = struct {
				Kind CategoryKind `json:"kind"`
				Toponym
			}{CategoryToponym, t}
		},
		func(b Business) {
			out = struct {
				Kind CategoryKind `json:"kind"`
				Business
			}{CategoryBusiness, b}
		},
		func() {
			out = struct {
				Kind CategoryKind `json:"kind"`
			}{CategoryUndefined}
		},
	)
	return json.Marshal(out)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var raw categoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case CategoryToponym:
		*c = ToponymCategory(raw.Address)
	case CategoryBusiness:
		*c = BusinessCategory(raw.Business)
	case CategoryUndefined, "":
		*c = UndefinedCategory()
	default:
		return fmt.Errorf("unknown category kind %q", raw.Kind)
	}
	return nil
}

// PlaceItem is a transient display item built from search results or bookmarks.
type PlaceItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Distance    int      `json:"distance"`
	Location    *Point   `json:"location,omitempty"`
	Category    Category `json:"category"`
}

// GeoObject is a single search or geocoding candidate returned by a provider.
type GeoObject struct {
	Name        string
	Description string
	Point       *Point
	Category    Category
}
