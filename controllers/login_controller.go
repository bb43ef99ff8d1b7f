package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/middleware"
	"stockk_backend/schemas"
)

// LoginController exchanges provider identities for locally issued tokens
type LoginController struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLoginController creates a new login controller
func NewLoginController(cfg *config.Config, logger *zap.Logger) *LoginController {
	return &LoginController{cfg: cfg, logger: logger}
}

// ExchangeOIDCToken issues a local HS256 bearer token for the user the
// auth middleware already resolved against the identity provider.
// POST /api/v0/login/exchange-oidc-token
func (ctl *LoginController) ExchangeOIDCToken(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ctl.cfg.AccessTokenExpireMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(ctl.cfg.JWTSecret))
	if err != nil {
		ctl.logger.Error("failed to sign access token", zap.Uint("user_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, schemas.Token{AccessToken: signed, TokenType: "bearer"})
}

// TestToken echoes the authenticated user, proving the token works
// POST /api/v0/login/test-token
func (ctl *LoginController) TestToken(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondOK(c, user)
}
