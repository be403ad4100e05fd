package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rohitid33/sprint-rail/internal/api/shared"
)

// defaultTokenLifetime is how long an issued default token stays valid.
// The token exists for client compatibility only; requests are never
// verified against it.
const defaultTokenLifetime = 24 * time.Hour

// tokenClaims is the claim set of the default token.
type tokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// TokenHandler issues the signed default token for the fixed identity.
type TokenHandler struct {
	signingKey []byte
	callerID   uuid.UUID
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

// NewTokenHandler creates a new TokenHandler signing with the given secret.
func NewTokenHandler(secret string, callerID uuid.UUID, logger *slog.Logger) *TokenHandler {
	if secret == "" {
		panic("token secret cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenHandler{
		signingKey: []byte(secret),
		callerID:   callerID,
		logger:     logger.With(slog.String("component", "token_handler")),
		timeFunc:   time.Now,
	}
}

// DefaultToken handles GET of a signed JWT for the fixed caller identity.
func (h *TokenHandler) DefaultToken(w http.ResponseWriter, r *http.Request) {
	now := h.timeFunc()
	claims := tokenClaims{
		UserID: h.callerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   h.callerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(defaultTokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.signingKey)
	if err != nil {
		h.logger.Error("failed to sign default token",
			slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"An unexpected error occurred", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{Token: signed})
}
