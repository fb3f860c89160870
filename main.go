// @title           Maintenance API
// @version         1.0
// @description     Maintenance request and vendor quotation backend - all endpoints used in the application.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "maintenance/docs"
	"maintenance/handlers"
	"maintenance/services"
	"maintenance/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if base := os.Getenv("BASE_URL"); base != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, base)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	notifier := services.NewEmailService()

	// Daily session cleanup at 00:30
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 0 * * *", func() {
		log.Println("Starting daily session cleanup")
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("Session cleanup failed: %v", err)
			return
		}
		log.Println("Session cleanup completed")
	})
	if err != nil {
		log.Fatalf("Failed to schedule session cleanup cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.GET("/api/get_user", handlers.GetUserHandler(db))

	// ==================== 2. USERS & CATALOG ====================
	r.POST("/api/create_user", handlers.CreateUserHandler(db))
	r.GET("/api/catalog", handlers.CatalogHandler(db))

	// ==================== 3. MAINTENANCE REQUESTS ====================
	r.POST("/api/request_create", handlers.RequestCreateHandler(db, gdb, notifier))
	r.GET("/api/request_fetch/:id", handlers.RequestFetchHandler(db, gdb))
	r.GET("/api/my_requests", handlers.MyRequestsHandler(db, gdb))
	r.GET("/api/requests", handlers.RequestsHandler(db, gdb))
	r.GET("/api/requests/export", handlers.RequestsExportHandler(db, gdb))
	r.PUT("/api/request_update/:id", handlers.RequestUpdateHandler(db, gdb))

	// ==================== 4. APPROVALS ====================
	r.POST("/api/request_approve/:id", handlers.RequestApproveHandler(db, gdb, notifier))
	r.POST("/api/request_reject/:id", handlers.RequestRejectHandler(db, gdb, notifier))
	r.GET("/api/request_pdf/:id", handlers.RequestPDFHandler(db, gdb))

	// ==================== 5. QUOTATIONS ====================
	r.POST("/api/quotation_link", handlers.QuotationLinkHandler(db, gdb))
	r.GET("/api/quotation/fill/:token", handlers.QuotationFillFetchHandler(gdb))
	r.POST("/api/quotation/fill/:token", handlers.QuotationFillSubmitHandler(gdb))
	r.GET("/api/quotation_batches", handlers.QuotationBatchesHandler(db, gdb))
	r.GET("/api/quotation_batch/:id", handlers.QuotationBatchHandler(db, gdb))
	r.GET("/api/quotation_batch/:id/qr", handlers.QuotationQRHandler(db, gdb))
	r.POST("/api/quotation_select/:response_id", handlers.QuotationSelectHandler(db, gdb))

	// ==================== 6. API DOCS ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
