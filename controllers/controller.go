package controllers

import (
	"errors"
	"net/http"

	"autobot/config"
	"autobot/credits"
	"autobot/dedup"
	"autobot/logger"
	"autobot/relay"

	"github.com/gin-gonic/gin"
)

var (
	engine *relay.Engine
	window dedup.Store
	conf   config.Configuration
	log    *logger.Logger
)

// Setup hands the controllers their collaborators. Call once at boot,
// before the router is initialized.
func Setup(e *relay.Engine, w dedup.Store, cfg config.Configuration, l *logger.Logger) {
	engine = e
	window = w
	conf = cfg
	log = l.With("service", "Controllers")
}

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondRelayError maps the relay failure taxonomy onto HTTP statuses.
func respondRelayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, relay.ErrEmptyMessage):
		RespondError(c, "message is required", http.StatusBadRequest)
	case errors.Is(err, relay.ErrTenantNotFound):
		RespondError(c, "bot configuration not found", http.StatusNotFound)
	case errors.Is(err, relay.ErrTenantInactive):
		RespondError(c, "bot is not active", http.StatusForbidden)
	case errors.Is(err, credits.ErrInsufficientCredit):
		RespondError(c, "insufficient credits", http.StatusPaymentRequired)
	case errors.Is(err, relay.ErrInferenceUnavailable):
		RespondError(c, "AI engine temporarily unavailable, please retry", http.StatusBadGateway)
	default:
		RespondError(c, "internal error", http.StatusInternalServerError)
	}
}
