package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/api/middleware"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/metrics"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/ratelimit"
)

// bcrypt cost for new password hashes.
const hashRounds = 12

// tokenTTL is the signed token lifetime and the cookie max-age.
const tokenTTL = 7 * 24 * time.Hour

// Handler provides the registration, login and session endpoints.
type Handler struct {
	db           *gorm.DB
	authSecret   []byte
	limiter      *ratelimit.Limiter
	logger       *slog.Logger
	secureCookie bool
}

// NewHandler creates the auth handler. limiter may be nil to disable login
// throttling.
func NewHandler(db *gorm.DB, authSecret string, limiter *ratelimit.Limiter, logger *slog.Logger, secureCookie bool) *Handler {
	return &Handler{
		db:           db,
		authSecret:   []byte(authSecret),
		limiter:      limiter,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    uint       `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Name  string     `json:"name,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// Register creates a new user account and logs it in.
//
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}
	if !req.Role.Registerable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Rolle"})
		return
	}

	var existing model.User
	err := h.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Benutzer existiert bereits"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashRounds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
		return
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Name:         strings.TrimSpace(req.Name),
	}
	if err := h.db.Create(&user).Error; err != nil {
		h.logger.Error("create user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
		return
	}

	token, err := h.issueToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
		return
	}

	h.logger.Info("user registered", slog.String("email", email), slog.String("role", string(user.Role)))
	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(&user)})
}

// Login verifies credentials and sets the auth cookie.
//
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-Mail und Passwort erforderlich"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-Mail und Passwort erforderlich"})
		return
	}

	allowed, err := h.limiter.Allow(c.Request.Context(), email+"|"+c.ClientIP())
	if err != nil {
		// Fail open: a redis outage must not lock everyone out.
		h.logger.Warn("login throttle check failed", slog.String("error", err.Error()))
	} else if !allowed {
		if metrics.LoginThrottledTotal != nil {
			metrics.LoginThrottledTotal.Inc()
		}
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Zu viele Anmeldeversuche"})
		return
	}

	var user model.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		h.countLogin("failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.countLogin("failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
		return
	}

	token, err := h.issueToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serverfehler"})
		return
	}

	h.countLogin("success")
	h.logger.Info("user logged in", slog.String("email", email), slog.String("role", string(user.Role)))
	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(&user)})
}

// Me returns the account behind the current token.
//
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nicht authentifiziert"})
		return
	}

	var user model.User
	if err := h.db.First(&user, id.UserID).Error; err != nil {
		// The token may outlive the account.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Benutzer nicht gefunden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(&user)})
}

// Logout clears the auth cookie. Tokens are stateless, nothing is revoked
// server-side.
//
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) issueToken(userID uint, role model.Role) (string, error) {
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.authSecret)
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(tokenTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) countLogin(outcome string) {
	if metrics.LoginAttemptsTotal != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}
