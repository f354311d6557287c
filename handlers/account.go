package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/utils"
)

const (
	refreshCookie = "ft_refresh"

	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute

	sessionTTL    = 24 * time.Hour
	rememberedTTL = 7 * 24 * time.Hour
)

type AccountHandler struct {
	DB *sql.DB
}

// RegisterForm returns the empty registration form model.
func (h *AccountHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": models.RegisterRequest{}})
}

// Register creates a user and signs them in immediately.
func (h *AccountHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", req.Email).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:    req.Email,
		FullName: req.FullName,
	}
	err = h.DB.QueryRow(`
		INSERT INTO users (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, req.Email, passwordHash, req.FullName).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		log.Printf("❌ Failed to create user %s: %v", utils.MaskEmail(req.Email), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	resp, err := h.signIn(c, user, sessionTTL, "/Dashboard/Index")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// LoginForm returns the empty login form model.
func (h *AccountHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": models.LoginRequest{}})
}

// Login verifies credentials, applies the lockout policy, stamps the user's
// last login and opens a session.
func (h *AccountHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	var passwordHash string
	var totpSecret sql.NullString
	var failedLogins int
	var lockedUntil sql.NullTime

	err := h.DB.QueryRow(`
		SELECT id, email, password_hash, full_name, totp_secret, totp_enabled,
		       failed_logins, locked_until, created_at, last_login
		FROM users
		WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Email, &passwordHash, &user.FullName,
		&totpSecret, &user.TOTPEnabled, &failedLogins, &lockedUntil,
		&user.CreatedAt, &user.LastLogin)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login attempt."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if lockedUntil.Valid && lockedUntil.Time.After(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account locked. Try again later."})
		return
	}

	if !utils.CheckPassword(req.Password, passwordHash) {
		h.recordFailedLogin(user.ID, failedLogins)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login attempt."})
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
			return
		}
		secret, err := utils.DecryptSecret(totpSecret.String)
		if err != nil || !utils.VerifyTOTP(secret, req.TOTPCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
			return
		}
	}

	now := time.Now()
	_, err = h.DB.Exec(`
		UPDATE users
		SET failed_logins = 0, locked_until = NULL, last_login = $1
		WHERE id = $2
	`, now, user.ID)
	if err != nil {
		log.Printf("⚠️ Failed to stamp last login for %s: %v", user.ID, err)
	}
	user.LastLogin = &now

	ttl := sessionTTL
	if req.RememberMe {
		ttl = rememberedTTL
	}

	resp, err := h.signIn(c, user, ttl, redirectTarget(req.ReturnURL))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	utils.SafeLog("🔓 User %s signed in", user.Email)

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the session and clears cookies.
func (h *AccountHandler) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(refreshCookie); err == nil && refresh != "" {
		if _, err := h.DB.Exec(`DELETE FROM sessions WHERE refresh_token = $1`, refresh); err != nil {
			log.Printf("⚠️ Failed to revoke session: %v", err)
		}
	}

	clearCookie(c, middleware.SessionCookie)
	clearCookie(c, refreshCookie)
	clearCookie(c, middleware.CSRFCookie)

	c.JSON(http.StatusOK, gin.H{"redirect_to": "/Account/Login"})
}

// Profile returns the authenticated user.
func (h *AccountHandler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, email, full_name, totp_enabled, created_at, last_login
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.FullName, &user.TOTPEnabled,
		&user.CreatedAt, &user.LastLogin)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ============================================================================
// 2FA
// ============================================================================

func (h *AccountHandler) SetupTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var email string
	if err := h.DB.QueryRow(`SELECT email FROM users WHERE id = $1`, userID).Scan(&email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	secret, url, err := utils.GenerateTOTPSecret(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate 2FA secret"})
		return
	}

	encrypted, err := utils.EncryptSecret(secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store 2FA secret"})
		return
	}

	_, err = h.DB.Exec(`UPDATE users SET totp_secret = $1 WHERE id = $2`, encrypted, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store 2FA secret"})
		return
	}

	c.JSON(http.StatusOK, models.TOTPSetupResponse{Secret: secret, URL: url})
}

func (h *AccountHandler) VerifyTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var encrypted sql.NullString
	if err := h.DB.QueryRow(`SELECT totp_secret FROM users WHERE id = $1`, userID).Scan(&encrypted); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if !encrypted.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "2FA setup has not been started"})
		return
	}

	secret, err := utils.DecryptSecret(encrypted.String)
	if err != nil || !utils.VerifyTOTP(secret, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
		return
	}

	if _, err := h.DB.Exec(`UPDATE users SET totp_enabled = TRUE WHERE id = $1`, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

func (h *AccountHandler) DisableTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	_, err := h.DB.Exec(`UPDATE users SET totp_enabled = FALSE, totp_secret = NULL WHERE id = $1`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable 2FA"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}

// ============================================================================
// HELPERS
// ============================================================================

// signIn issues the session JWT, refresh token and anti-forgery token, sets
// the cookies and records the session row.
func (h *AccountHandler) signIn(c *gin.Context, user models.User, ttl time.Duration, redirectTo string) (*models.AuthResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, ttl)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	csrfToken, err := middleware.GenerateCSRFToken()
	if err != nil {
		return nil, err
	}

	_, err = h.DB.Exec(`
		INSERT INTO sessions (id, user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), user.ID, refreshToken, time.Now().Add(ttl))
	if err != nil {
		return nil, err
	}

	maxAge := int(ttl.Seconds())
	c.SetCookie(middleware.SessionCookie, accessToken, maxAge, "/", "", false, true)
	c.SetCookie(refreshCookie, refreshToken, maxAge, "/", "", false, true)
	// Readable by the client so it can be echoed in the X-CSRF-Token header
	c.SetCookie(middleware.CSRFCookie, csrfToken, maxAge, "/", "", false, false)

	return &models.AuthResponse{
		User:       user,
		Token:      accessToken,
		CSRFToken:  csrfToken,
		RedirectTo: redirectTo,
	}, nil
}

func (h *AccountHandler) recordFailedLogin(userID string, failedLogins int) {
	failedLogins++
	var err error
	if failedLogins >= maxFailedLogins {
		_, err = h.DB.Exec(`
			UPDATE users SET failed_logins = 0, locked_until = $1 WHERE id = $2
		`, time.Now().Add(lockoutDuration), userID)
	} else {
		_, err = h.DB.Exec(`UPDATE users SET failed_logins = $1 WHERE id = $2`, failedLogins, userID)
	}
	if err != nil {
		log.Printf("⚠️ Failed to record login failure for %s: %v", userID, err)
	}
}

// redirectTarget honours a caller-supplied return URL only when it is local.
func redirectTarget(returnURL string) string {
	if strings.HasPrefix(returnURL, "/") && !strings.HasPrefix(returnURL, "//") {
		return returnURL
	}
	return "/Dashboard/Index"
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}
