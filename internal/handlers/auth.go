package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yojanasetu/apiserver/internal/oauth"
	"github.com/yojanasetu/apiserver/internal/services"
	"github.com/yojanasetu/apiserver/internal/storage"
	"github.com/yojanasetu/apiserver/internal/store"
	"github.com/yojanasetu/apiserver/types"
	"go.uber.org/zap"
)

// Session tokens expire one hour after issuance.
const defaultTokenTTL = time.Hour

const (
	oauthStateCookie = "oauth_state"
	avatarFormField  = "avatar"
	maxAvatarBytes   = 8 << 20
)

// AuthHandler provides the signup/login/OAuth/profile endpoints.
type AuthHandler struct {
	accounts     *services.AccountService
	google       *oauth.GoogleVerifier
	avatars      *storage.AvatarStore
	secret       []byte
	tokenTTL     time.Duration
	clientOrigin string
	logger       *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
// google and avatars may be nil; the corresponding endpoints then report
// the feature as unavailable.
func NewAuthHandler(
	accounts *services.AccountService,
	google *oauth.GoogleVerifier,
	avatars *storage.AvatarStore,
	jwtSecret string,
	clientOrigin string,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		accounts:     accounts,
		google:       google,
		avatars:      avatars,
		secret:       []byte(jwtSecret),
		tokenTTL:     defaultTokenTTL,
		clientOrigin: clientOrigin,
		logger:       logger,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Get("/google", handler.GoogleRedirect)
	r.Get("/google/callback", handler.GoogleCallback)
	r.Post("/google", handler.GoogleExchange)

	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth)
		r.Post("/profile", handler.SaveProfile)
		r.Get("/profile", handler.GetProfile)
		r.Get("/user", handler.GetEmail)
		r.Post("/avatar", handler.UploadAvatar)
		r.Get("/avatar", handler.GetAvatar)
	})
}

// RequireAuth enforces the bearer token contract: a missing Authorization
// header is 401, a present but invalid or expired token is 403.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeError(w, http.StatusUnauthorized, "access denied")
			return
		}

		tokenString, err := bearerToken(header)
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		subject, err := parseTokenSubject(tokenString, h.secret)
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleTokenRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  types.Account `json:"user"`
}

// Signup creates a password-based account and returns a session token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	account, err := h.accounts.Signup(r.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	h.respondWithToken(w, account)
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.respondWithToken(w, account)
}

// GoogleRedirect starts the browser consent flow.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Google authentication is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback completes the redirect flow. On success it redirects to
// the client with the session token as a query parameter, on failure with
// an error code.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Google authentication is not configured")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.redirectToClient(w, r, url.Values{"error": {"auth_failed"}})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToClient(w, r, url.Values{"error": {"auth_failed"}})
		return
	}

	identity, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("google code exchange failed", zap.Error(err))
		h.redirectToClient(w, r, url.Values{"error": {"auth_failed"}})
		return
	}

	account, err := h.accounts.LoginWithGoogle(r.Context(), identity)
	if err != nil {
		h.logger.Error("google callback failed", zap.Error(err))
		h.redirectToClient(w, r, url.Values{"error": {"callback_failed"}})
		return
	}

	token, err := issueToken(account.ID.Hex(), h.secret, h.tokenTTL)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		h.redirectToClient(w, r, url.Values{"error": {"callback_failed"}})
		return
	}

	h.redirectToClient(w, r, url.Values{"token": {token}})
}

// GoogleExchange verifies a client-supplied Google ID token and returns a
// session token, creating the account on first sign-in.
func (h *AuthHandler) GoogleExchange(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Google authentication is not configured")
		return
	}

	var req GoogleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}

	identity, err := h.google.Verify(r.Context(), req.Token)
	if err != nil {
		h.logger.Warn("google token verification failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Google authentication failed")
		return
	}

	account, err := h.accounts.LoginWithGoogle(r.Context(), identity)
	if err != nil {
		h.logger.Error("google exchange failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Google authentication failed")
		return
	}

	h.respondWithToken(w, account)
}

// SaveProfile replaces the account's profile wholesale.
func (h *AuthHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	account, err := h.accounts.SaveProfile(r.Context(), accountID, profile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("save profile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string        `json:"message"`
		User    types.Account `json:"user"`
	}{Message: "Profile saved successfully", User: account})
}

// GetProfile returns the stored profile, or an empty object if none was
// saved yet.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GetEmail returns only the account's email.
func (h *AuthHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	email, err := h.accounts.GetEmail(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get email failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch user email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

// UploadAvatar stores an avatar image in object storage and records it on
// the account.
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		writeError(w, http.StatusNotImplemented, "avatar storage is not configured")
		return
	}

	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		writeError(w, http.StatusBadRequest, "avatar file too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.avatars.Save(r.Context(), accountID, file, header.Size, contentType); err != nil {
		h.logger.Error("save avatar failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save avatar")
		return
	}

	if err := h.accounts.SetPicture(r.Context(), accountID, "/auth/avatar"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("record avatar failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save avatar")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Avatar saved successfully"})
}

// GetAvatar streams the account's stored avatar.
func (h *AuthHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		writeError(w, http.StatusNotImplemented, "avatar storage is not configured")
		return
	}

	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	reader, err := h.avatars.Open(r.Context(), accountID)
	if err != nil {
		writeError(w, http.StatusNotFound, "avatar not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, account types.Account) {
	token, err := issueToken(account.ID.Hex(), h.secret, h.tokenTTL)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: account})
}

func (h *AuthHandler) redirectToClient(w http.ResponseWriter, r *http.Request, query url.Values) {
	http.Redirect(w, r, h.clientOrigin+"/login?"+query.Encode(), http.StatusFound)
}

func issueToken(accountID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
