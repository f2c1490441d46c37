package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection from DB_* environment variables.
func InitDB() (*gorm.DB, error) {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	user := getEnv("DB_USER", "root")
	password := os.Getenv("DB_PASSWORD")
	name := getEnv("DB_NAME", "reservation_app")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, name)

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// ReserveOnPending reports whether a pending reservation should also flip
// its table to reserved. The observed dashboard behavior only reserves on
// confirm, which leaves pending reservations free to stack on one table;
// the knob lets an operator close that gap without a code change.
func ReserveOnPending() bool {
	return os.Getenv("RESERVE_ON_PENDING") == "true"
}

// FrontendURL is the CORS origin the dashboard is served from.
func FrontendURL() string {
	return getEnv("FRONTEND_URL", "http://localhost:3000")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
