package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CustomerName    string         `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string         `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone   string         `gorm:"type:varchar(50);not null" json:"customer_phone"`
	ReservationDate string         `gorm:"type:varchar(10);not null" json:"reservation_date"`
	ReservationTime string         `gorm:"type:varchar(5);not null" json:"reservation_time"`
	Guests          int            `gorm:"not null" json:"guests"`
	TableID         *uint          `gorm:"index" json:"table_id"`
	SpecialRequests *string        `gorm:"type:text" json:"special_requests"`
	Status          string         `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	CreatedBy       uint           `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReservationDetail is the list/detail row joined with the table number
// and the display name of the user who created the reservation.
type ReservationDetail struct {
	Reservation
	TableNumber   *string `json:"table_number"`
	CreatedByName string  `json:"created_by_name"`
}

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// ActiveReservation reports whether a reservation still holds a claim on
// its table: pending or confirmed, not soft-deleted.
func ActiveReservation(status string) bool {
	return status == ReservationPending || status == ReservationConfirmed
}
