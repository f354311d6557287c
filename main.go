package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/fintrack/fintrack-api/config"
	"github.com/fintrack/fintrack-api/handlers"
	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	scheduler := startSessionCleanup(db)
	defer scheduler.Stop()

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter())

	routes.SetupAccountRoutes(&router.RouterGroup, db)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/ws/feed", wsHandler.HandleWS)
		routes.SetupLedgerRoutes(protected, db, wsHandler)
		routes.SetupReportRoutes(protected, db)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// startSessionCleanup purges expired sessions every night.
func startSessionCleanup(db *sql.DB) *cron.Cron {
	scheduler := cron.New()
	_, err := scheduler.AddFunc("@daily", func() {
		result, err := db.Exec(`DELETE FROM sessions WHERE expires_at < NOW()`)
		if err != nil {
			log.Printf("❌ Session cleanup failed: %v", err)
			return
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			log.Printf("🧹 Cleaned %d expired sessions", rows)
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule session cleanup:", err)
	}
	scheduler.Start()
	return scheduler
}
