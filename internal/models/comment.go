package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TranslationMap caches machine translations per language code, persisted
// as jsonb. Entries are written by backfill tooling, not by the API; reads
// serve from it when the requested language is present.
type TranslationMap map[string]string

func (m TranslationMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *TranslationMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("models: cannot scan %T into TranslationMap", value)
	}
}

func (TranslationMap) GormDataType() string {
	return "jsonb"
}

type Comment struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// Comments may be city/country scoped without a pin.
	PinID   *string `gorm:"type:uuid;index" json:"pin_id"`
	Pin     *Pin    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Country string  `gorm:"size:100;not null;index" json:"country"`
	City    *string `gorm:"size:100;index" json:"city"`
	Content string  `gorm:"size:1000;not null" json:"content"`
	// Denormalized vote counters, kept consistent with the votes table
	// inside every ledger transaction.
	Likes             int            `gorm:"not null;default:0" json:"likes"`
	Dislikes          int            `gorm:"not null;default:0" json:"dislikes"`
	TranslatedContent TranslationMap `json:"translated_content,omitempty"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
}
