package main

import (
	"log"
	"net/http"

	"remitgo/config"
	"remitgo/database"
	"remitgo/handlers"
	"remitgo/middleware"
	"remitgo/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	config.ValidateConfig(cfg)

	if err := utils.InitializeEncryption(cfg.EncryptionKey); err != nil {
		log.Fatal("Failed to initialize encryption:", err)
	}

	if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
		log.Fatal("Failed to initialize JWT:", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	h := handlers.NewHandlers(db, cfg)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/google", h.GoogleLogin).Methods("POST")
	api.HandleFunc("/auth/forgotpassword", h.ForgotPassword).Methods("POST")
	api.HandleFunc("/auth/resetpassword/{token}", h.ResetPassword).Methods("PUT")
	api.HandleFunc("/auth/resend-verification", h.ResendVerification).Methods("POST")
	api.HandleFunc("/auth/verify-email/{token}", h.VerifyEmail).Methods("GET")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuth)

	protected.HandleFunc("/auth/logout", h.Logout).Methods("GET")
	protected.HandleFunc("/auth/updatedetails", h.UpdateDetails).Methods("PUT")
	protected.HandleFunc("/auth/me", h.GetMe).Methods("GET")

	// KYC routes
	protected.HandleFunc("/kyc/token", h.GetAccessToken).Methods("GET")
	protected.HandleFunc("/kyc/status", h.SaveStatus).Methods("POST")
	protected.HandleFunc("/kyc/me/dashboard", h.MyDashboard).Methods("GET")

	// Order routes
	protected.HandleFunc("/orders/create", h.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders/verify-otp", h.VerifyOTP).Methods("POST")
	protected.HandleFunc("/orders/resend-otp", h.ResendOTP).Methods("POST")
	protected.HandleFunc("/orders", h.GetMyOrders).Methods("GET")

	// Admin routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuth)
	admin.HandleFunc("/kyc/users", h.GetKYCUsers).Methods("GET")
	admin.HandleFunc("/kyc/users/{id}", h.UpdateKYCUser).Methods("PUT")
	admin.HandleFunc("/kyc/users/{id}", h.DeleteKYCUser).Methods("DELETE")
	admin.HandleFunc("/orders/admin", h.GetAllOrders).Methods("GET")
	admin.HandleFunc("/orders/status/{id}", h.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/audit-logs", h.GetAuditLogs).Methods("GET")

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", cfg.Environment)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
