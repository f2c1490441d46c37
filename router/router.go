package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": true, "message": "ok"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	authPublic := api.Group("/auth")
	authPublic.Use(middlewares.NewStrictRateLimiter())
	{
		authPublic.POST("/register", userCtrl.Register)
		authPublic.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/")
	auth.Use(middlewares.AuthMiddleware(db))

	auth.GET("/auth/me", userCtrl.GetProfile)
	auth.POST("/auth/logout", userCtrl.Logout)

	// RESERVATIONS
	auth.GET("/reservations/stats",
		middlewares.RequireCapability(models.CapViewReservations), reservationCtrl.GetReservationStats)
	auth.GET("/reservations",
		middlewares.RequireCapability(models.CapViewReservations), reservationCtrl.GetAllReservations)
	auth.GET("/reservations/:reservation_id",
		middlewares.RequireCapability(models.CapViewReservations), reservationCtrl.GetReservationByID)
	auth.POST("/reservations",
		middlewares.RequireCapability(models.CapCreateReservations), reservationCtrl.CreateReservation)
	auth.PUT("/reservations/:reservation_id",
		middlewares.RequireCapability(models.CapEditReservations), reservationCtrl.UpdateReservation)
	auth.DELETE("/reservations/:reservation_id",
		middlewares.RequireCapability(models.CapEditReservations), reservationCtrl.DeleteReservation)

	// TABLES
	auth.GET("/tables/stats",
		middlewares.RequireCapability(models.CapViewTables), tableCtrl.GetTableStats)
	auth.GET("/tables",
		middlewares.RequireCapability(models.CapViewTables), tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id",
		middlewares.RequireCapability(models.CapViewTables), tableCtrl.GetTableByID)
	auth.POST("/tables",
		middlewares.RequireCapability(models.CapManageTables), tableCtrl.CreateTable)
	auth.PUT("/tables/:table_id",
		middlewares.RequireCapability(models.CapManageTables), tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id",
		middlewares.RequireCapability(models.CapDeleteTables), tableCtrl.DeleteTable)

	// USERS (admin)
	auth.GET("/users",
		middlewares.RequireCapability(models.CapManageUsers), userCtrl.GetAllUsers)
	auth.GET("/users/:user_id",
		middlewares.RequireCapability(models.CapManageUsers), userCtrl.GetUserByID)
	auth.POST("/users",
		middlewares.RequireCapability(models.CapManageUsers), userCtrl.CreateUser)
	auth.PUT("/users/:user_id",
		middlewares.RequireCapability(models.CapManageUsers), userCtrl.UpdateUser)
	auth.DELETE("/users/:user_id",
		middlewares.RequireCapability(models.CapManageUsers), userCtrl.DeleteUser)

	// DASHBOARD
	auth.GET("/dashboard/stats",
		middlewares.RequireCapability(models.CapViewReports), adminCtrl.GetDashboardStats)

	// Live updates for the dashboard
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", controllers.EventsHandler)
	}

	return r
}
