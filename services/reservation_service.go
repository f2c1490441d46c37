package services

import (
	"errors"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Domain errors, translated to HTTP codes at the controller boundary.
var (
	ErrReservationNotFound = errors.New("Reservation not found")
	ErrTableNotFound       = errors.New("Table not found")
	ErrTableUnavailable    = errors.New("Table is not available")
	ErrNoFieldsToUpdate    = errors.New("No valid fields to update")
)

// Reasons recorded when a table status is written.
const (
	ReasonManual              = "manual"
	ReasonReservationHold     = "reservation_hold"
	ReasonReservationReleased = "reservation_released"
)

// ReservationService owns every reservation mutation together with its table
// status side effects. Each operation runs inside a single transaction so a
// failure partway through cannot leave the reservation and the table rows
// disagreeing about who holds the table.
type ReservationService struct {
	DB *gorm.DB

	// ReserveOnPending makes a pending reservation hold its table the same
	// way a confirmed one does. Off by default to match the dashboard's
	// historical behavior.
	ReserveOnPending bool
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

type CreateReservationInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ReservationDate string
	ReservationTime string
	Guests          int
	TableID         *uint
	SpecialRequests *string
	Status          string
	CreatedBy       uint
}

// SetTableStatus is the one write path for a table's status field, whether
// the change is a manual staff edit or a reservation side effect.
func SetTableStatus(tx *gorm.DB, table *models.Table, status, reason string) error {
	if err := tx.Model(table).Update("status", status).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Table %d status -> %s (%s)", table.ID, status, reason)
	return nil
}

// Create inserts the reservation and, when it lands as confirmed against a
// table, flips that table to reserved.
func (rs *ReservationService) Create(input CreateReservationInput) (*models.Reservation, error) {
	reservation := models.Reservation{
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ReservationDate: input.ReservationDate,
		ReservationTime: input.ReservationTime,
		Guests:          input.Guests,
		TableID:         input.TableID,
		SpecialRequests: input.SpecialRequests,
		Status:          input.Status,
		CreatedBy:       input.CreatedBy,
	}
	if reservation.Status == "" {
		reservation.Status = models.ReservationPending
	}

	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		if input.TableID != nil {
			table, err := rs.lockTable(tx, *input.TableID)
			if err != nil {
				return err
			}

			if models.ActiveReservation(reservation.Status) && table.Status != models.TableAvailable {
				return ErrTableUnavailable
			}

			if err := tx.Create(&reservation).Error; err != nil {
				return err
			}

			if rs.holdsTable(reservation.Status) {
				return SetTableStatus(tx, table, models.TableReserved, ReasonReservationHold)
			}
			return nil
		}

		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

// Update applies an allow-listed partial update. The table side effect is
// recomputed only when the effective table or status changed: the old table
// (if any) is released unconditionally, then the new table is reserved when
// the reservation ends up holding one. Acquiring a hold on a table the
// reservation did not already hold requires that table to be available, which
// is what makes the second of two sequential confirms against one table fail
// instead of silently double-booking it.
func (rs *ReservationService) Update(id uint, fields map[string]interface{}) (*models.Reservation, error) {
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	var reservation models.Reservation
	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		newTableID := reservation.TableID
		tablePresent := false
		if v, ok := fields["table_id"]; ok {
			tablePresent = true
			newTableID, _ = v.(*uint)
		}

		newStatus := reservation.Status
		if v, ok := fields["status"]; ok {
			if s, ok := v.(string); ok {
				newStatus = s
			}
		}

		tableChanged := tablePresent && !sameTableID(newTableID, reservation.TableID)
		statusChanged := newStatus != reservation.Status

		if tableChanged || statusChanged {
			wantsHold := newTableID != nil && rs.holdsTable(newStatus)
			keepsOwnHold := !tableChanged && rs.holdsTable(reservation.Status)

			var newTable *models.Table
			if wantsHold {
				var err error
				newTable, err = rs.lockTable(tx, *newTableID)
				if err != nil {
					return err
				}
				if !keepsOwnHold && newTable.Status != models.TableAvailable {
					return ErrTableUnavailable
				}
			}

			if reservation.TableID != nil {
				oldTable, err := rs.lockTable(tx, *reservation.TableID)
				if err != nil && !errors.Is(err, ErrTableNotFound) {
					return err
				}
				if err == nil {
					if err := SetTableStatus(tx, oldTable, models.TableAvailable, ReasonReservationReleased); err != nil {
						return err
					}
				}
			}

			if wantsHold {
				if err := SetTableStatus(tx, newTable, models.TableReserved, ReasonReservationHold); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&reservation).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&reservation, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

// Delete soft-deletes the reservation and releases its table. Deleting an
// already-deleted reservation reports not found rather than a second release.
func (rs *ReservationService) Delete(id uint) error {
	return rs.DB.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if reservation.TableID != nil {
			table, err := rs.lockTable(tx, *reservation.TableID)
			if err != nil && !errors.Is(err, ErrTableNotFound) {
				return err
			}
			if err == nil {
				if err := SetTableStatus(tx, table, models.TableAvailable, ReasonReservationReleased); err != nil {
					return err
				}
			}
		}

		return tx.Delete(&reservation).Error
	})
}

// holdsTable reports whether a reservation in the given status claims its
// table's reserved slot.
func (rs *ReservationService) holdsTable(status string) bool {
	if status == models.ReservationConfirmed {
		return true
	}
	return rs.ReserveOnPending && status == models.ReservationPending
}

// lockTable fetches a live table, row-locked for the rest of the transaction
// on backends that support it, so two concurrent confirms cannot both read
// the table as available.
func (rs *ReservationService) lockTable(tx *gorm.DB, id uint) (*models.Table, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var table models.Table
	if err := q.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func sameTableID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
