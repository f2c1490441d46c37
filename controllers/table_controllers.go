package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

var (
	ErrDuplicateTableNumber = errors.New("Table number already exists")
	ErrTableHasReservations = errors.New("Cannot delete table with active reservations")
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// StatusCount is one row of a GROUP BY status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetAllTables -> all live tables, optionally filtered by status/location
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Model(&models.Table{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	var tables []models.Table
	if err := query.Order("table_number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail of one live table
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrTableNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// CreateTable -> add a table; the number must be unique among live tables
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number"`
		Capacity    int    `json:"capacity"`
		Location    string `json:"location"`
		Status      string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var errs []utils.FieldError
	req.TableNumber = strings.TrimSpace(req.TableNumber)
	if req.TableNumber == "" {
		errs = append(errs, utils.FieldError{Field: "table_number", Message: "Table number is required"})
	}
	if req.Capacity < 1 || req.Capacity > 50 {
		errs = append(errs, utils.FieldError{Field: "capacity", Message: "Capacity must be between 1 and 50"})
	}
	if !models.ValidTableLocation(req.Location) {
		errs = append(errs, utils.FieldError{Field: "location", Message: "Invalid location"})
	}
	if req.Status != "" && !models.ValidTableStatus(req.Status) {
		errs = append(errs, utils.FieldError{Field: "status", Message: "Invalid status"})
	}
	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}

	var count int64
	tc.DB.Model(&models.Table{}).
		Where("LOWER(table_number) = LOWER(?)", req.TableNumber).
		Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, ErrDuplicateTableNumber)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Status:      models.TableAvailable,
	}
	if req.Status != "" {
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableCreate(table)
	utils.InfoLogger.Printf("New table created: %s (status=%s)", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// UpdateTable -> partial update over the allow-list; a status change goes
// through the same audited write path the reservation side effects use.
func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrTableNotFound)
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	fields := make(map[string]interface{})
	var errs []utils.FieldError
	newStatus := ""

	if value, ok := raw["table_number"]; ok {
		s, isStr := value.(string)
		s = strings.TrimSpace(s)
		if !isStr || s == "" {
			errs = append(errs, utils.FieldError{Field: "table_number", Message: "Table number is required"})
		} else {
			fields["table_number"] = s
		}
	}
	if value, ok := raw["capacity"]; ok {
		n, isNum := value.(float64)
		if !isNum || n != float64(int(n)) || n < 1 || n > 50 {
			errs = append(errs, utils.FieldError{Field: "capacity", Message: "Capacity must be between 1 and 50"})
		} else {
			fields["capacity"] = int(n)
		}
	}
	if value, ok := raw["location"]; ok {
		s, isStr := value.(string)
		if !isStr || !models.ValidTableLocation(s) {
			errs = append(errs, utils.FieldError{Field: "location", Message: "Invalid location"})
		} else {
			fields["location"] = s
		}
	}
	if value, ok := raw["status"]; ok {
		s, isStr := value.(string)
		if !isStr || !models.ValidTableStatus(s) {
			errs = append(errs, utils.FieldError{Field: "status", Message: "Invalid status"})
		} else {
			newStatus = s
		}
	}

	if len(errs) > 0 {
		utils.RespondValidationErrors(c, errs)
		return
	}
	if len(fields) == 0 && newStatus == "" {
		utils.RespondError(c, http.StatusBadRequest, services.ErrNoFieldsToUpdate)
		return
	}

	if number, ok := fields["table_number"].(string); ok && !strings.EqualFold(number, table.TableNumber) {
		var count int64
		tc.DB.Model(&models.Table{}).
			Where("LOWER(table_number) = LOWER(?) AND id != ?", number, table.ID).
			Count(&count)
		if count > 0 {
			utils.RespondError(c, http.StatusConflict, ErrDuplicateTableNumber)
			return
		}
	}

	if len(fields) > 0 {
		if err := tc.DB.Model(&table).Updates(fields).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	if newStatus != "" && newStatus != table.Status {
		if err := services.SetTableStatus(tc.DB, &table, newStatus, services.ReasonManual); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tc.DB.First(&table, table.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated successfully", table)
}

// DeleteTable -> soft delete, refused while active reservations reference it
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrTableNotFound)
		return
	}

	var active int64
	tc.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", table.ID, []string{models.ReservationPending, models.ReservationConfirmed}).
		Count(&active)
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, ErrTableHasReservations)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableDelete(table.ID)
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", gin.H{
		"id": table.ID,
	})
}

// GetTableStats -> counts by status for the dashboard cards
func (tc *TableController) GetTableStats(c *gin.Context) {
	var total, available int64
	tc.DB.Model(&models.Table{}).Count(&total)
	tc.DB.Model(&models.Table{}).Where("status = ?", models.TableAvailable).Count(&available)

	var byStatus []StatusCount
	tc.DB.Model(&models.Table{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus)

	utils.RespondJSON(c, http.StatusOK, "Table statistics", gin.H{
		"total":     total,
		"available": available,
		"byStatus":  byStatus,
	})
}
