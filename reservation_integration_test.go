package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
)

func setupIntegrationRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Table{}, &models.Reservation{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return router.SetupRouter(db), db
}

func request(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

// Full lifecycle through the real router and auth stack: register an admin,
// create a table, confirm a reservation against it, watch the table flip to
// reserved, get refused when deleting the busy table, complete the
// reservation and see the table released, then delete it.
func TestReservationLifecycle(t *testing.T) {
	r, db := setupIntegrationRouter(t, "integration_lifecycle")

	w := request(t, r, "POST", "/api/auth/register", "", gin.H{
		"name":     "Admin Utama",
		"email":    "admin@example.com",
		"password": "Password123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["data"].(map[string]interface{})["token"].(string)
	assert.NotEmpty(t, token)

	// Protected routes reject anonymous callers.
	w = request(t, r, "GET", "/api/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, r, "POST", "/api/tables", token, gin.H{
		"table_number": "T1",
		"capacity":     4,
		"location":     "indoor",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	tableID := decode(t, w)["data"].(map[string]interface{})["id"].(float64)

	w = request(t, r, "POST", "/api/reservations", token, gin.H{
		"customer_name":    "Ana Flores",
		"customer_email":   "ana@example.com",
		"customer_phone":   "5551234567",
		"reservation_date": "2025-06-01",
		"reservation_time": "19:00",
		"guests":           2,
		"table_id":         tableID,
		"status":           "confirmed",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resData := decode(t, w)["data"].(map[string]interface{})
	reservationID := resData["id"].(float64)
	assert.Equal(t, "T1", resData["table_number"])

	tableURL := fmt.Sprintf("/api/tables/%.0f", tableID)
	w = request(t, r, "GET", tableURL, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TableReserved, decode(t, w)["data"].(map[string]interface{})["status"])

	// The table cannot be removed while a confirmed reservation holds it.
	w = request(t, r, "DELETE", tableURL, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, "PUT", fmt.Sprintf("/api/reservations/%.0f", reservationID), token, gin.H{
		"status": "completed",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, "GET", tableURL, token, nil)
	assert.Equal(t, models.TableAvailable, decode(t, w)["data"].(map[string]interface{})["status"])

	w = request(t, r, "DELETE", tableURL, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Historical detail still shows the deleted table's number.
	w = request(t, r, "GET", fmt.Sprintf("/api/reservations/%.0f", reservationID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T1", decode(t, w)["data"].(map[string]interface{})["table_number"])

	w = request(t, r, "GET", "/api/dashboard/stats", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logout revokes the token for every protected route.
	w = request(t, r, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, "GET", "/api/tables", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStaffCapabilityBoundaries(t *testing.T) {
	r, _ := setupIntegrationRouter(t, "integration_capabilities")

	w := request(t, r, "POST", "/api/auth/register", "", gin.H{
		"name":     "Staff Baru",
		"email":    "staff@example.com",
		"password": "Password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["data"].(map[string]interface{})["token"].(string)

	// Staff can read tables and create reservations.
	w = request(t, r, "GET", "/api/tables", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, "POST", "/api/reservations", token, gin.H{
		"customer_name":    "Carlos Rivera",
		"customer_email":   "carlos@example.com",
		"customer_phone":   "5559876543",
		"reservation_date": "2025-06-02",
		"reservation_time": "20:00",
		"guests":           4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Staff cannot manage tables or users.
	w = request(t, r, "POST", "/api/tables", token, gin.H{
		"table_number": "X1", "capacity": 2, "location": "bar",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, "GET", "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, models.RoleStaff, user["role"])
}
