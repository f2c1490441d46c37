package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB) *ReservationController {
	svc := services.NewReservationService(db)
	svc.ReserveOnPending = config.ReserveOnPending()
	return &ReservationController{DB: db, Service: svc}
}

// GetAllReservations -> list with status/date/search filters, newest slot first
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB.Model(&models.Reservation{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("reservation_date = ?", date)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("customer_name LIKE ? OR customer_email LIKE ? OR customer_phone LIKE ?", term, term, term)
	}

	var reservations []models.Reservation
	if err := query.Order("reservation_date DESC, reservation_time DESC").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	details, err := rc.buildDetails(reservations)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", details)
}

// GetReservationByID -> one live reservation with its joined display fields
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrReservationNotFound)
		return
	}

	detail, err := rc.detailFor(reservation)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", detail)
}

// CreateReservation -> insert a reservation; confirming against a table
// flips that table to reserved inside the same transaction.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		CustomerName    string  `json:"customer_name"`
		CustomerEmail   string  `json:"customer_email"`
		CustomerPhone   string  `json:"customer_phone"`
		ReservationDate string  `json:"reservation_date"`
		ReservationTime string  `json:"reservation_time"`
		Guests          int     `json:"guests"`
		TableID         *uint   `json:"table_id"`
		SpecialRequests *string `json:"special_requests"`
		Status          string  `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var errs []utils.FieldError
	if len(strings.TrimSpace(req.CustomerName)) < 3 {
		errs = append(errs, utils.FieldError{Field: "customer_name", Message: "Customer name must be at least 3 characters long"})
	}
	if !utils.ValidEmail(req.CustomerEmail) {
		errs = append(errs, utils.FieldError{Field: "customer_email", Message: "Please provide a valid email"})
	}
	if !utils.ValidPhone(req.CustomerPhone) {
		errs = append(errs, utils.FieldError{Field: "customer_phone", Message: "Phone number must be at least 10 digits"})
	}
	if !utils.ValidDateYMD(req.ReservationDate) {
		errs = append(errs, utils.FieldError{Field: "reservation_date", Message: "Invalid date format (expected YYYY-MM-DD)"})
	}
	if !utils.ValidTimeHHMM(req.ReservationTime) {
		errs = append(errs, utils.FieldError{Field: "reservation_time", Message: "Invalid time format (HH:MM)"})
	}
	if req.Guests < 1 || req.Guests > 20 {
		errs = append(errs, utils.FieldError{Field: "guests", Message: "Number of guests must be between 1 and 20"})
	}
	if req.Status != "" && !models.ValidReservationStatus(req.Status) {
		errs = append(errs, utils.FieldError{Field: "status", Message: "Invalid status (must be: pending, confirmed, completed, or cancelled)"})
	}
	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}

	reservation, err := rc.Service.Create(services.CreateReservationInput{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		Guests:          req.Guests,
		TableID:         req.TableID,
		SpecialRequests: req.SpecialRequests,
		Status:          req.Status,
		CreatedBy:       c.GetUint("user_id"),
	})
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}

	detail, err := rc.detailFor(*reservation)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationCreate(detail)
	utils.InfoLogger.Printf("Reservation %d created by user %d (status=%s)", reservation.ID, reservation.CreatedBy, reservation.Status)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", detail)
}

// Fields a reservation update may touch; anything else in the payload is ignored.
var reservationUpdateFields = []string{
	"customer_name",
	"customer_email",
	"customer_phone",
	"reservation_date",
	"reservation_time",
	"guests",
	"table_id",
	"special_requests",
	"status",
}

// UpdateReservation -> partial update with table status reconciliation
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	fields, errs := filterReservationUpdate(raw)
	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}

	reservation, err := rc.Service.Update(uint(id), fields)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}

	detail, err := rc.detailFor(*reservation)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationUpdate(detail)
	utils.InfoLogger.Printf("Reservation %d updated", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated successfully", detail)
}

// DeleteReservation -> soft delete; the linked table is released
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	if err := rc.Service.Delete(uint(id)); err != nil {
		rc.respondServiceError(c, err)
		return
	}

	events.BroadcastReservationDelete(uint(id))
	utils.InfoLogger.Printf("Reservation %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted successfully", nil)
}

// GetReservationStats -> counts for the dashboard cards
func (rc *ReservationController) GetReservationStats(c *gin.Context) {
	var total, today int64
	rc.DB.Model(&models.Reservation{}).Count(&total)
	rc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ?", time.Now().Format("2006-01-02")).
		Count(&today)

	var byStatus []StatusCount
	rc.DB.Model(&models.Reservation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus)

	utils.RespondJSON(c, http.StatusOK, "Reservation statistics", gin.H{
		"total":    total,
		"today":    today,
		"byStatus": byStatus,
	})
}

func (rc *ReservationController) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReservationNotFound), errors.Is(err, services.ErrTableNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTableUnavailable):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Reservation operation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// filterReservationUpdate keeps allow-listed keys, validates each present
// value and converts it to the type the data layer expects.
func filterReservationUpdate(raw map[string]interface{}) (map[string]interface{}, []utils.FieldError) {
	fields := make(map[string]interface{})
	var errs []utils.FieldError

	for _, key := range reservationUpdateFields {
		value, ok := raw[key]
		if !ok {
			continue
		}

		switch key {
		case "customer_name":
			s, ok := value.(string)
			if !ok || len(strings.TrimSpace(s)) < 3 {
				errs = append(errs, utils.FieldError{Field: key, Message: "Customer name must be at least 3 characters long"})
				continue
			}
			fields[key] = strings.TrimSpace(s)
		case "customer_email":
			s, ok := value.(string)
			if !ok || !utils.ValidEmail(s) {
				errs = append(errs, utils.FieldError{Field: key, Message: "Please provide a valid email"})
				continue
			}
			fields[key] = s
		case "customer_phone":
			s, ok := value.(string)
			if !ok || !utils.ValidPhone(s) {
				errs = append(errs, utils.FieldError{Field: key, Message: "Phone number must be at least 10 digits"})
				continue
			}
			fields[key] = strings.TrimSpace(s)
		case "reservation_date":
			s, ok := value.(string)
			if !ok || !utils.ValidDateYMD(s) {
				errs = append(errs, utils.FieldError{Field: key, Message: "Invalid date format (expected YYYY-MM-DD)"})
				continue
			}
			fields[key] = s
		case "reservation_time":
			s, ok := value.(string)
			if !ok || !utils.ValidTimeHHMM(s) {
				errs = append(errs, utils.FieldError{Field: key, Message: "Invalid time format (HH:MM)"})
				continue
			}
			fields[key] = s
		case "guests":
			n, ok := value.(float64)
			if !ok || n != float64(int(n)) || n < 1 || n > 20 {
				errs = append(errs, utils.FieldError{Field: key, Message: "Number of guests must be between 1 and 20"})
				continue
			}
			fields[key] = int(n)
		case "table_id":
			if value == nil {
				fields[key] = (*uint)(nil)
				continue
			}
			n, ok := value.(float64)
			if !ok || n != float64(int(n)) || n <= 0 {
				errs = append(errs, utils.FieldError{Field: key, Message: "table_id must be a positive number or null"})
				continue
			}
			id := uint(n)
			fields[key] = &id
		case "special_requests":
			if value == nil {
				fields[key] = (*string)(nil)
				continue
			}
			s, ok := value.(string)
			if !ok {
				errs = append(errs, utils.FieldError{Field: key, Message: "Special requests must be a string"})
				continue
			}
			fields[key] = s
		case "status":
			s, ok := value.(string)
			if !ok || !models.ValidReservationStatus(s) {
				errs = append(errs, utils.FieldError{Field: key, Message: "Invalid status (must be: pending, confirmed, completed, or cancelled)"})
				continue
			}
			fields[key] = s
		}
	}

	return fields, errs
}

// detailFor joins one reservation with its table number and creator name.
// Lookups are unscoped so historical reservations still render after their
// table or creator was soft-deleted.
func (rc *ReservationController) detailFor(reservation models.Reservation) (models.ReservationDetail, error) {
	detail := models.ReservationDetail{Reservation: reservation}

	if reservation.TableID != nil {
		var table models.Table
		if err := rc.DB.Unscoped().First(&table, *reservation.TableID).Error; err == nil {
			detail.TableNumber = &table.TableNumber
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, err
		}
	}

	var user models.User
	if err := rc.DB.Unscoped().First(&user, reservation.CreatedBy).Error; err == nil {
		detail.CreatedByName = user.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return detail, err
	}

	return detail, nil
}

func (rc *ReservationController) buildDetails(reservations []models.Reservation) ([]models.ReservationDetail, error) {
	tableIDs := make([]uint, 0, len(reservations))
	userIDs := make([]uint, 0, len(reservations))
	for _, r := range reservations {
		if r.TableID != nil {
			tableIDs = append(tableIDs, *r.TableID)
		}
		userIDs = append(userIDs, r.CreatedBy)
	}

	tables := make(map[uint]string)
	if len(tableIDs) > 0 {
		var rows []models.Table
		if err := rc.DB.Unscoped().Where("id IN ?", tableIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, t := range rows {
			tables[t.ID] = t.TableNumber
		}
	}

	users := make(map[uint]string)
	if len(userIDs) > 0 {
		var rows []models.User
		if err := rc.DB.Unscoped().Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, u := range rows {
			users[u.ID] = u.Name
		}
	}

	details := make([]models.ReservationDetail, 0, len(reservations))
	for _, r := range reservations {
		d := models.ReservationDetail{Reservation: r, CreatedByName: users[r.CreatedBy]}
		if r.TableID != nil {
			if number, ok := tables[*r.TableID]; ok {
				num := number
				d.TableNumber = &num
			}
		}
		details = append(details, d)
	}
	return details, nil
}
