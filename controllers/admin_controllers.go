package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> the combined counters on the dashboard landing page
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalReservations int64 `json:"total_reservations"`
		TodayReservations int64 `json:"today_reservations"`
		TotalTables       int64 `json:"total_tables"`
		AvailableTables   int64 `json:"available_tables"`
		TotalUsers        int64 `json:"total_users"`
		ReservationStats  struct {
			Pending   int64 `json:"pending"`
			Confirmed int64 `json:"confirmed"`
			Completed int64 `json:"completed"`
			Cancelled int64 `json:"cancelled"`
		} `json:"reservation_stats"`
		TableStats struct {
			Available   int64 `json:"available"`
			Occupied    int64 `json:"occupied"`
			Reserved    int64 `json:"reserved"`
			Maintenance int64 `json:"maintenance"`
		} `json:"table_stats"`
	}

	ac.DB.Model(&models.Reservation{}).Count(&stats.TotalReservations)
	ac.DB.Model(&models.Reservation{}).Where("reservation_date = ?", today).Count(&stats.TodayReservations)

	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationPending).Count(&stats.ReservationStats.Pending)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationConfirmed).Count(&stats.ReservationStats.Confirmed)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationCompleted).Count(&stats.ReservationStats.Completed)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationCancelled).Count(&stats.ReservationStats.Cancelled)

	ac.DB.Model(&models.Table{}).Count(&stats.TotalTables)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableAvailable).Count(&stats.TableStats.Available)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&stats.TableStats.Occupied)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableReserved).Count(&stats.TableStats.Reserved)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableMaintenance).Count(&stats.TableStats.Maintenance)
	stats.AvailableTables = stats.TableStats.Available

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)

	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", stats)
}
