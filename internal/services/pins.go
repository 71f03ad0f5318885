package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pindrop/internal/apperr"
	"pindrop/internal/geo"
	"pindrop/internal/models"
)

// MinPinDistanceMeters is the dedup radius: no two pins may coexist closer
// than this.
const MinPinDistanceMeters = 50

// MaxPinSearchRadiusMeters caps the proximity search radius.
const MaxPinSearchRadiusMeters = 50000

// pinRef is the nearest-pin probe result used by the proximity guard.
type pinRef struct {
	ID   string
	Name string
}

// nearestPinWithin returns one pin inside the radius, or
// gorm.ErrRecordNotFound when the spot is free. Runs on the caller's
// transaction so the check and the subsequent insert share isolation.
func nearestPinWithin(tx *gorm.DB, lat, lng, radiusMeters float64) (pinRef, error) {
	var ref pinRef
	result := tx.Raw(
		`SELECT id, name FROM pins
		 WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)
		 LIMIT 1`,
		lng, lat, radiusMeters,
	).Scan(&ref)
	if result.Error != nil {
		return pinRef{}, result.Error
	}
	if result.RowsAffected == 0 {
		return pinRef{}, gorm.ErrRecordNotFound
	}
	return ref, nil
}

// PinWithDistance is a proximity-search row; distance is geodesic meters
// from the query point.
type PinWithDistance struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	GooglePlaceID *string   `json:"google_place_id"`
	City          *string   `json:"city"`
	Country       *string   `json:"country"`
	CreatedAt     time.Time `json:"created_at"`
	Distance      float64   `json:"distance"`
}

type PinService struct {
	db *gorm.DB
}

func NewPinService(db *gorm.DB) *PinService {
	return &PinService{db: db}
}

// Search lists pins within radiusMeters of a point, nearest first.
func (s *PinService) Search(ctx context.Context, lat, lng, radiusMeters float64) ([]PinWithDistance, error) {
	if radiusMeters <= 0 {
		radiusMeters = 1000
	}
	if radiusMeters > MaxPinSearchRadiusMeters {
		radiusMeters = MaxPinSearchRadiusMeters
	}

	var pins []PinWithDistance
	err := s.db.WithContext(ctx).Raw(
		`SELECT
		   id,
		   name,
		   ST_X(location::geometry) AS lng,
		   ST_Y(location::geometry) AS lat,
		   google_place_id,
		   city,
		   country,
		   created_at,
		   ST_Distance(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) AS distance
		 FROM pins
		 WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)
		 ORDER BY distance
		 LIMIT 100`,
		lng, lat, lng, lat, radiusMeters,
	).Scan(&pins).Error
	if err != nil {
		return nil, err
	}
	if pins == nil {
		pins = []PinWithDistance{}
	}
	return pins, nil
}

// Create inserts an explicitly named pin. Unlike the inline pin path on
// comment creation, a neighbor inside the dedup radius is a user-visible
// Conflict naming the existing pin.
func (s *PinService) Create(ctx context.Context, userID, name string, lat, lng float64, placeID, city *string, country string) (models.Pin, error) {
	pin := models.Pin{
		ID:            uuid.NewString(),
		Name:          name,
		Location:      geo.Point{Lat: lat, Lng: lng},
		GooglePlaceID: placeID,
		City:          city,
		Country:       &country,
		CreatedBy:     userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nearby, err := nearestPinWithin(tx, lat, lng, MinPinDistanceMeters)
		if err == nil {
			return apperr.Conflict(fmt.Sprintf("A pin already exists nearby: %q", nearby.Name))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&pin).Error
	})
	if err != nil {
		return models.Pin{}, err
	}
	return pin, nil
}
