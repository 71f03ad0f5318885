package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Bounds is a lat/lng bounding box restricting the per-pin rollup.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

type PinRollup struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Lng             float64 `json:"lng"`
	Lat             float64 `json:"lat"`
	City            *string `json:"city"`
	Country         *string `json:"country"`
	CommentCount    int     `json:"comment_count"`
	TotalScore      int     `json:"total_score"`
	TopCommentScore int     `json:"top_comment_score"`
}

type CityRollup struct {
	City         string `json:"city"`
	Country      string `json:"country"`
	CommentCount int    `json:"comment_count"`
	TotalScore   int    `json:"total_score"`
}

type CountryRollup struct {
	Country      string `json:"country"`
	CommentCount int    `json:"comment_count"`
	TotalScore   int    `json:"total_score"`
}

type TopComment struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Likes    int      `json:"likes"`
	Dislikes int      `json:"dislikes"`
	Score    int      `json:"score"`
	PinName  *string  `json:"pin_name"`
	Lng      *float64 `json:"lng"`
	Lat      *float64 `json:"lat"`
	City     *string  `json:"city"`
	Country  *string  `json:"country"`
}

type Heatmap struct {
	Date        string          `json:"date"`
	Pins        []PinRollup     `json:"pins"`
	Cities      []CityRollup    `json:"cities"`
	Countries   []CountryRollup `json:"countries"`
	TopComments []TopComment    `json:"topComments"`
}

// HeatmapService aggregates one calendar day of comment activity at the
// three hierarchy levels plus a top-comment feed. The four queries share
// the day predicate but are otherwise independent.
type HeatmapService struct {
	db *gorm.DB
}

func NewHeatmapService(db *gorm.DB) *HeatmapService {
	return &HeatmapService{db: db}
}

// Generate builds the heatmap for a calendar day (YYYY-MM-DD; empty means
// today in loc). The bounding box, when given, restricts only the per-pin
// rollup.
func (s *HeatmapService) Generate(ctx context.Context, date string, bounds *Bounds, loc *time.Location) (Heatmap, error) {
	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	}

	hm := Heatmap{
		Date:        date,
		Pins:        []PinRollup{},
		Cities:      []CityRollup{},
		Countries:   []CountryRollup{},
		TopComments: []TopComment{},
	}

	// Pins with at least one comment that day: inner-join semantics via
	// HAVING, so a pin without activity never shows up.
	pinSQL := `SELECT
	   p.id,
	   p.name,
	   ST_X(p.location::geometry) AS lng,
	   ST_Y(p.location::geometry) AS lat,
	   p.city,
	   p.country,
	   COUNT(c.id) AS comment_count,
	   COALESCE(SUM(c.likes - c.dislikes), 0) AS total_score,
	   MAX(c.likes - c.dislikes) AS top_comment_score
	 FROM pins p
	 LEFT JOIN comments c ON c.pin_id = p.id AND DATE(c.created_at) = ?`
	pinArgs := []interface{}{date}
	if bounds != nil {
		pinSQL += `
	 WHERE ST_Within(p.location::geometry, ST_MakeEnvelope(?, ?, ?, ?, 4326))`
		pinArgs = append(pinArgs, bounds.MinLng, bounds.MinLat, bounds.MaxLng, bounds.MaxLat)
	}
	pinSQL += `
	 GROUP BY p.id
	 HAVING COUNT(c.id) > 0
	 ORDER BY total_score DESC
	 LIMIT 200`

	if err := s.db.WithContext(ctx).Raw(pinSQL, pinArgs...).Scan(&hm.Pins).Error; err != nil {
		return Heatmap{}, err
	}

	err := s.db.WithContext(ctx).Raw(
		`SELECT
		   c.city,
		   c.country,
		   COUNT(c.id) AS comment_count,
		   SUM(c.likes - c.dislikes) AS total_score
		 FROM comments c
		 WHERE DATE(c.created_at) = ? AND c.city IS NOT NULL
		 GROUP BY c.city, c.country
		 ORDER BY total_score DESC
		 LIMIT 100`,
		date,
	).Scan(&hm.Cities).Error
	if err != nil {
		return Heatmap{}, err
	}

	err = s.db.WithContext(ctx).Raw(
		`SELECT
		   c.country,
		   COUNT(c.id) AS comment_count,
		   SUM(c.likes - c.dislikes) AS total_score
		 FROM comments c
		 WHERE DATE(c.created_at) = ?
		 GROUP BY c.country
		 ORDER BY total_score DESC
		 LIMIT 50`,
		date,
	).Scan(&hm.Countries).Error
	if err != nil {
		return Heatmap{}, err
	}

	err = s.db.WithContext(ctx).Raw(
		`SELECT
		   c.id,
		   c.content,
		   c.likes,
		   c.dislikes,
		   (c.likes - c.dislikes) AS score,
		   p.name AS pin_name,
		   ST_X(p.location::geometry) AS lng,
		   ST_Y(p.location::geometry) AS lat,
		   c.city,
		   c.country
		 FROM comments c
		 LEFT JOIN pins p ON c.pin_id = p.id
		 WHERE DATE(c.created_at) = ?
		 ORDER BY score DESC, c.created_at DESC, c.id DESC
		 LIMIT 50`,
		date,
	).Scan(&hm.TopComments).Error
	if err != nil {
		return Heatmap{}, err
	}

	return hm, nil
}
