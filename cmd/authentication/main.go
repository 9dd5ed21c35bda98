// This is a **mock authentication service**, designed to provide JWT tokens
// for the warranty service, simulating user authentication. The tenant is
// taken from the "tenant" query parameter.
package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gartstein/warranty/internal/warranty/auth"
	"go.uber.org/zap"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler generates a tenant-scoped JWT and returns it in JSON response
func tokenHandler(secret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.URL.Query().Get("tenant")
		if tenantID == "" {
			http.Error(w, "tenant query parameter required", http.StatusBadRequest)
			return
		}

		// Simulate a user ID for the token
		userID := "12345"

		token, err := auth.GenerateToken(userID, tenantID, secret)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TokenResponse{Token: token}); err != nil {
			logger.Error("Failed to encode token", zap.Error(err))
		}
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultSecret
	}
	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = defaultPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler(secret, logger))

	logger.Info("Authentication service running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Fatal("Authentication service failed", zap.Error(err))
	}
}
