package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/models"
)

func setupReservationRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Stand-in for the auth middleware so c.GetUint("user_id") resolves.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", models.RoleStaff)
		c.Next()
	})

	resCtrl := controllers.NewReservationController(db)
	router.GET("/reservations", resCtrl.GetAllReservations)
	router.GET("/reservations/stats", resCtrl.GetReservationStats)
	router.GET("/reservations/:reservation_id", resCtrl.GetReservationByID)
	router.POST("/reservations", resCtrl.CreateReservation)
	router.PUT("/reservations/:reservation_id", resCtrl.UpdateReservation)
	router.DELETE("/reservations/:reservation_id", resCtrl.DeleteReservation)
	return router
}

func seedStaffUser(t *testing.T, db *gorm.DB) models.User {
	user := models.User{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "irrelevant",
		Role:     models.RoleStaff,
		Status:   models.UserActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func reservationPayload(overrides gin.H) gin.H {
	payload := gin.H{
		"customer_name":    "Ana Flores",
		"customer_email":   "ana@example.com",
		"customer_phone":   "5551234567",
		"reservation_date": "2025-06-01",
		"reservation_time": "19:00",
		"guests":           2,
	}
	for k, v := range overrides {
		payload[k] = v
	}
	return payload
}

func tableStatus(t *testing.T, db *gorm.DB, id uint) string {
	var table models.Table
	if err := db.First(&table, id).Error; err != nil {
		t.Fatalf("failed to reload table: %v", err)
	}
	return table.Status
}

func TestCreateConfirmedReservationReservesTableHTTP(t *testing.T) {
	db := setupTestDB(t, "resv_confirmed")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T1", Capacity: 4, Location: "indoor", Status: "available"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
		"status":   "confirmed",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	response := parseResponse(t, w)
	assert.Equal(t, "Reservation created successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, "T1", data["table_number"])
	assert.Equal(t, "Budi Santoso", data["created_by_name"])
	assert.Equal(t, float64(user.ID), data["created_by"])

	assert.Equal(t, models.TableReserved, tableStatus(t, db, table.ID))
}

func TestCreatePendingReservationLeavesTableHTTP(t *testing.T) {
	db := setupTestDB(t, "resv_pending")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T2", Capacity: 4, Location: "indoor", Status: "available"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))
}

func TestCreateReservationAgainstBusyTable(t *testing.T) {
	db := setupTestDB(t, "resv_busy_table")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T3", Capacity: 4, Location: "indoor", Status: "occupied"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
		"status":   "confirmed",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Table is not available", parseResponse(t, w)["message"])
}

func TestCreateReservationAgainstMissingTable(t *testing.T) {
	db := setupTestDB(t, "resv_missing_table")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": 9999,
		"status":   "confirmed",
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Table not found", parseResponse(t, w)["message"])
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupTestDB(t, "resv_validation")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	w := doJSON(t, router, "POST", "/reservations", gin.H{
		"customer_name":    "Al",
		"customer_email":   "not-an-email",
		"customer_phone":   "123",
		"reservation_date": "01-06-2025",
		"reservation_time": "7pm",
		"guests":           0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseResponse(t, w)
	assert.Equal(t, "Validation failed", response["message"])
	assert.Len(t, response["errors"], 6)
}

func TestUpdateReservationCancelReleasesTableHTTP(t *testing.T) {
	db := setupTestDB(t, "resv_cancel")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T4", Capacity: 4, Location: "indoor", Status: "available"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
		"status":   "confirmed",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(parseResponse(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, router, "PUT", "/reservations/"+strconv.Itoa(id), gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["status"])
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))
}

func TestUpdateReservationNoValidFields(t *testing.T) {
	db := setupTestDB(t, "resv_no_fields")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(parseResponse(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, router, "PUT", "/reservations/"+strconv.Itoa(id), gin.H{
		"unknown_field": "value",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No valid fields to update", parseResponse(t, w)["message"])
}

func TestDeleteReservationReleasesTableHTTP(t *testing.T) {
	db := setupTestDB(t, "resv_delete")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T5", Capacity: 4, Location: "indoor", Status: "available"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
		"status":   "confirmed",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(parseResponse(t, w)["data"].(map[string]interface{})["id"].(float64))
	assert.Equal(t, models.TableReserved, tableStatus(t, db, table.ID))

	url := "/reservations/" + strconv.Itoa(id)
	w = doJSON(t, router, "DELETE", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, table.ID))

	// Soft-deleted rows vanish from the API.
	w = doJSON(t, router, "DELETE", url, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllReservationsFiltered(t *testing.T) {
	db := setupTestDB(t, "resv_filter")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"reservation_date": "2025-06-01",
	}))
	doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"customer_name":    "Carlos Rivera",
		"customer_email":   "carlos@example.com",
		"reservation_date": "2025-06-02",
	}))

	w := doJSON(t, router, "GET", "/reservations?date=2025-06-02", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Carlos Rivera", data[0].(map[string]interface{})["customer_name"])

	w = doJSON(t, router, "GET", "/reservations?search=ana@", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = parseResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Ana Flores", data[0].(map[string]interface{})["customer_name"])
}

func TestReservationDetailSurvivesTableDeletion(t *testing.T) {
	db := setupTestDB(t, "resv_historical")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	table := models.Table{TableNumber: "T6", Capacity: 4, Location: "indoor", Status: "available"}
	db.Create(&table)

	w := doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{
		"table_id": table.ID,
		"status":   "completed",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(parseResponse(t, w)["data"].(map[string]interface{})["id"].(float64))

	db.Delete(&models.Table{}, table.ID)

	w = doJSON(t, router, "GET", "/reservations/"+strconv.Itoa(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "T6", data["table_number"])
}

func TestReservationStats(t *testing.T) {
	db := setupTestDB(t, "resv_stats")
	user := seedStaffUser(t, db)
	router := setupReservationRouter(db, user.ID)

	doJSON(t, router, "POST", "/reservations", reservationPayload(nil))
	doJSON(t, router, "POST", "/reservations", reservationPayload(gin.H{"status": "completed"}))

	w := doJSON(t, router, "GET", "/reservations/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["byStatus"], 2)
}
