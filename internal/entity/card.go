package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Ownership states for a tracked card.
const (
	OwnershipOwned  = "OWNED"
	OwnershipWanted = "WANTED"
	OwnershipNone   = "NONE"
)

// Card is a tracked trading card identified by its marketplace item key.
// Tier ranks tracking priority from 1 (highest) to 4; tier 4 cards are
// aggregated but left out of trend and suggestion runs.
type Card struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ItemKey        string         `gorm:"not null;uniqueIndex" json:"item_key"`
	Name           string         `gorm:"not null" json:"name"`
	SetName        string         `json:"set_name"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	Tier           int            `gorm:"not null;default:2" json:"tier"`
	ReferenceValue float64        `gorm:"not null" json:"reference_value"`
	HighDemand     bool           `gorm:"not null" json:"high_demand"`
	Ownership      string         `gorm:"not null;default:NONE" json:"ownership"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (Card) TableName() string {
	return "cards"
}
