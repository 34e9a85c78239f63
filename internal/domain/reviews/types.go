package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("review not found")
	ErrConflict       = errors.New("you have already reviewed this perfume")
	ErrUnknownPerfume = errors.New("perfume does not exist")
)

type Review struct {
	ID                int64     `json:"id"`
	PerfumeID         int64     `json:"perfume_id"`
	UserID            int64     `json:"user_id"`
	ScentTrailRating  int       `json:"scent_trail_rating"`
	LongevityRating   int       `json:"longevity_rating"`
	ValueRating       int       `json:"value_rating"`
	OverallImpression int       `json:"overall_impression"`
	ReviewText        string    `json:"review_text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Joined fields
	UserName  string  `json:"user_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type Averages struct {
	ScentTrail float64 `json:"scent_trail"`
	Longevity  float64 `json:"longevity"`
	Value      float64 `json:"value"`
	Overall    float64 `json:"overall"`
}

type Summary struct {
	Total    int      `json:"total"`
	Averages Averages `json:"averages"`
}
