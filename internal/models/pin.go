package models

import (
	"time"

	"pindrop/internal/geo"
)

type Pin struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	Location      geo.Point `gorm:"not null" json:"location"`
	GooglePlaceID *string   `gorm:"size:255" json:"google_place_id,omitempty"`
	// Derived by reverse geocoding at creation time.
	City      *string   `gorm:"size:100;index" json:"city"`
	Country   *string   `gorm:"size:100;index" json:"country"`
	CreatedBy string    `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator   User      `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
