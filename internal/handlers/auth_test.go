package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yojanasetu/apiserver/internal/services"
	"github.com/yojanasetu/apiserver/types"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) (http.Handler, *fakeAccountRepo) {
	t.Helper()

	repo := newFakeAccountRepo()
	svc := services.NewAccountService(repo, nil, nil)
	handler := NewAuthHandler(svc, nil, nil, testSecret, "http://localhost:5173", nil)

	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, handler)
	})
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signup(t *testing.T, router http.Handler, email string) AuthResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", SignupRequest{
		Name:     "A",
		Email:    email,
		Password: "pw123456",
		Phone:    "9999999999",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("signup returned empty token")
	}
	return resp
}

func TestSignupIssuesUsableToken(t *testing.T) {
	router, _ := newAuthRouter(t)
	resp := signup(t, router, "a@x.com")

	subject, err := parseTokenSubject(resp.Token, []byte(testSecret))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if subject != resp.User.ID.Hex() {
		t.Fatalf("token subject %q does not match account id %q", subject, resp.User.ID.Hex())
	}

	rec := doJSON(t, router, http.MethodGet, "/auth/user", resp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user returned %d: %s", rec.Code, rec.Body.String())
	}
	var user map[string]string
	decodeBody(t, rec, &user)
	if user["email"] != "a@x.com" {
		t.Fatalf("unexpected email %q", user["email"])
	}
}

func TestSignupRejectsMissingFields(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", SignupRequest{Email: "a@x.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	router, _ := newAuthRouter(t)
	signup(t, router, "a@x.com")

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", SignupRequest{
		Name:     "B",
		Email:    "a@x.com",
		Password: "other",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "User already exists" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestLogin(t *testing.T) {
	router, _ := newAuthRouter(t)
	created := signup(t, router, "a@x.com")

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", LoginRequest{Email: "a@x.com", Password: "pw123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decodeBody(t, rec, &resp)
	if resp.User.ID != created.User.ID {
		t.Fatal("login returned a different account")
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", LoginRequest{Email: "a@x.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Error != "Invalid email or password" {
		t.Fatalf("unexpected error %q", errResp.Error)
	}
}

func TestRequireAuthContract(t *testing.T) {
	router, _ := newAuthRouter(t)
	resp := signup(t, router, "a@x.com")

	// No Authorization header at all.
	rec := doJSON(t, router, http.MethodGet, "/auth/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	// A present but tampered token.
	rec = doJSON(t, router, http.MethodGet, "/auth/profile", resp.Token+"x", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for tampered token, got %d", rec.Code)
	}

	// An expired token.
	expired, err := issueToken(resp.User.ID.Hex(), []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec = doJSON(t, router, http.MethodGet, "/auth/profile", expired, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for expired token, got %d", rec.Code)
	}

	// A token signed with a different secret.
	forged, err := issueToken(resp.User.ID.Hex(), []byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec = doJSON(t, router, http.MethodGet, "/auth/profile", forged, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for forged token, got %d", rec.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	router, _ := newAuthRouter(t)
	resp := signup(t, router, "a@x.com")

	// Before the first save the profile is an empty object.
	rec := doJSON(t, router, http.MethodGet, "/auth/profile", resp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile returned %d: %s", rec.Code, rec.Body.String())
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "{}" {
		t.Fatalf("expected empty profile object, got %s", body)
	}

	saveRec := doJSON(t, router, http.MethodPost, "/auth/profile", resp.Token, types.Profile{
		FullName:        "A Person",
		PreferredSector: "Agriculture",
		State:           "Bihar",
	})
	if saveRec.Code != http.StatusOK {
		t.Fatalf("save profile returned %d: %s", saveRec.Code, saveRec.Body.String())
	}
	var saved struct {
		Message string        `json:"message"`
		User    types.Account `json:"user"`
	}
	decodeBody(t, saveRec, &saved)
	if saved.Message != "Profile saved successfully" {
		t.Fatalf("unexpected message %q", saved.Message)
	}

	rec = doJSON(t, router, http.MethodGet, "/auth/profile", resp.Token, nil)
	var profile map[string]any
	decodeBody(t, rec, &profile)
	if profile["preferredSector"] != "Agriculture" || profile["state"] != "Bihar" {
		t.Fatalf("unexpected profile %v", profile)
	}

	// A second save replaces the profile wholesale.
	doJSON(t, router, http.MethodPost, "/auth/profile", resp.Token, types.Profile{PreferredSector: "Education"})
	rec = doJSON(t, router, http.MethodGet, "/auth/profile", resp.Token, nil)
	profile = nil
	decodeBody(t, rec, &profile)
	if _, ok := profile["fullName"]; ok {
		t.Fatalf("expected fullName to be dropped, got %v", profile)
	}
	if profile["preferredSector"] != "Education" {
		t.Fatalf("unexpected profile %v", profile)
	}
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", SignupRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "pw123456",
	})
	var raw map[string]any
	decodeBody(t, rec, &raw)
	user, ok := raw["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user object in %v", raw)
	}
	if _, ok := user["password"]; ok {
		t.Fatal("password field leaked into the response")
	}
}

func TestGoogleEndpointsUnconfigured(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/google", "", GoogleTokenRequest{Token: "abc"})
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestAvatarEndpointsUnconfigured(t *testing.T) {
	router, _ := newAuthRouter(t)
	resp := signup(t, router, "a@x.com")

	rec := doJSON(t, router, http.MethodGet, "/auth/avatar", resp.Token, nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestNotFoundRoute(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "Route GET /nope not found" {
		t.Fatalf("unexpected body %q", resp.Error)
	}
}
