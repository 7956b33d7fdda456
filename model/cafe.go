package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Cafe struct {
	ID           uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"size:250;not null;uniqueIndex"`
	MapURL       string  `json:"map_url" gorm:"column:map_url;size:500;not null"`
	ImgURL       string  `json:"img_url" gorm:"column:img_url;size:500;not null"`
	Location     string  `json:"location" gorm:"size:250;not null"`
	Seats        string  `json:"seats" gorm:"size:250;not null"`
	HasToilet    bool    `json:"has_toilet" gorm:"not null"`
	HasWifi      bool    `json:"has_wifi" gorm:"not null"`
	HasSockets   bool    `json:"has_sockets" gorm:"not null"`
	CanTakeCalls bool    `json:"can_take_calls" gorm:"not null"`
	CoffeePrice  *string `json:"coffee_price" gorm:"size:250"`
}

// TableName keeps the table name used by existing cafes.db files.
func (Cafe) TableName() string {
	return "cafe"
}

type Amenities struct {
	HasSockets   bool `json:"has_sockets"`
	HasToilet    bool `json:"has_toilet"`
	HasWifi      bool `json:"has_wifi"`
	CanTakeCalls bool `json:"can_take_calls"`
}

// CafeResponse is the public JSON shape of a cafe: flat scalar fields plus
// the four booleans grouped under amenities. The id is not exposed.
type CafeResponse struct {
	Name        string    `json:"name"`
	MapURL      string    `json:"map_url"`
	ImgURL      string    `json:"img_url"`
	Location    string    `json:"location"`
	Seats       string    `json:"seats"`
	CoffeePrice *string   `json:"coffee_price"`
	Amenities   Amenities `json:"amenities"`
}

func ShapeCafe(c Cafe) CafeResponse {
	return CafeResponse{
		Name:        c.Name,
		MapURL:      c.MapURL,
		ImgURL:      c.ImgURL,
		Location:    c.Location,
		Seats:       c.Seats,
		CoffeePrice: c.CoffeePrice,
		Amenities: Amenities{
			HasSockets:   c.HasSockets,
			HasToilet:    c.HasToilet,
			HasWifi:      c.HasWifi,
			CanTakeCalls: c.CanTakeCalls,
		},
	}
}

func ShapeCafes(cafes []Cafe) []CafeResponse {
	out := make([]CafeResponse, 0, len(cafes))
	for _, c := range cafes {
		out = append(out, ShapeCafe(c))
	}
	return out
}

// NormalizeLocation upper-cases the first letter and lower-cases the rest,
// so "lONDON", "london" and "London" all compare equal to the stored "London".
func NormalizeLocation(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
