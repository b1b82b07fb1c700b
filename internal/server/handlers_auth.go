package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmorrison/foliowatch/internal/common"
)

// signJWT creates a signed HMAC-SHA256 JWT for the admin user.
func signJWT(username string, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iss": "foliowatch-server",
		"iat": now.Unix(),
		"exp": now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// handleAuthLogin handles POST /api/auth/login with username and password,
// returning a bearer token for the admin endpoints.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	auth := s.app.Config.Auth
	if auth.AdminUsername == "" || auth.AdminPasswordHash == "" {
		WriteError(w, http.StatusForbidden, "Admin login not configured")
		return
	}

	if req.Username != auth.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(auth.AdminPasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed login attempt")
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := signJWT(req.Username, &auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": int(auth.GetTokenExpiry().Seconds()),
	})
}
