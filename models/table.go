package models

import (
	"time"

	"gorm.io/gorm"
)

// Table statuses
const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableMaintenance = "maintenance"
)

// Table locations
const (
	LocationIndoor  = "indoor"
	LocationOutdoor = "outdoor"
	LocationTerrace = "terrace"
	LocationBar     = "bar"
)

type Table struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TableNumber string         `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int            `gorm:"not null" json:"capacity"`
	Location    string         `gorm:"type:varchar(50);not null" json:"location"`
	Status      string         `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName keeps the table name the dashboard schema uses.
func (Table) TableName() string {
	return "restaurant_tables"
}

func ValidTableStatus(status string) bool {
	switch status {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

func ValidTableLocation(location string) bool {
	switch location {
	case LocationIndoor, LocationOutdoor, LocationTerrace, LocationBar:
		return true
	}
	return false
}
