package perfumes

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnisex:
		return true
	}
	return false
}

type Perfume struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	BrandID     *int64    `json:"brand_id"`
	Gender      Gender    `json:"gender"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// PerfumeCard is one row of a catalog listing. Price is the derived price:
// the lowest positive store price, nil when no store prices the perfume.
type PerfumeCard struct {
	Perfume
	BrandName *string  `json:"brand_name"`
	Price     *float64 `json:"price"`
	Notes     []string `json:"notes"`
}

type StoreOffer struct {
	ID        int64    `json:"id"`
	StoreName string   `json:"store_name"`
	URL       string   `json:"url"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
}

type PerfumeDetail struct {
	Perfume
	BrandName *string      `json:"brand_name"`
	Notes     []string     `json:"notes"`
	Stores    []StoreOffer `json:"stores"`
}

type PriceRange struct {
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

// Page is the catalog listing payload.
type Page struct {
	Perfumes    []PerfumeCard `json:"perfumes"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int           `json:"-"`
}
