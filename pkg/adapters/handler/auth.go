package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie  = "oauthstate"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthHandler struct {
	auth          ports.AuthService
	sessions      ports.SessionIssuer
	oauthConfig   *oauth2.Config
	userInfoURL   string
	landingURL    string
	loginPath     string
	allowedEmails []string
	isProduction  bool
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, auth ports.AuthService, sessions ports.SessionIssuer) *AuthHandler {
	h := &AuthHandler{
		auth:          auth,
		sessions:      sessions,
		userInfoURL:   googleUserInfoURL,
		landingURL:    cfg.FrontendURL,
		loginPath:     cfg.LoginPath,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
	}
	if cfg.GoogleClientID != "" {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Login checks a password login and issues the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		hlog.FromRequest(r).Info().Err(err).Str("email", req.Email).Msg("login rejected")
		writeError(w, r, err)
		return
	}

	expiresAt, err := h.sessions.Issue(w, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.ID).Msg("login successful")
	writeJSON(w, http.StatusOK, loginResponse{Success: true, User: user, ExpiresAt: expiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, trackResponse{Success: true})
}

// Me returns the user behind the current session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := SessionFromContext(r.Context())
	if !token.Present() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), token.SubjectID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			h.sessions.Clear(w)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		http.NotFound(w, r)
		return
	}
	state, err := h.generateStateOauthCookie(w)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		http.NotFound(w, r)
		return
	}
	log := hlog.FromRequest(r)

	oauthState, err := r.Cookie(oauthStateCookie)
	if err != nil {
		log.Warn().Err(err).Msg("callback: missing oauth state cookie")
		http.Redirect(w, r, h.loginPath, http.StatusTemporaryRedirect)
		return
	}
	if r.FormValue("state") != oauthState.Value {
		log.Warn().Msg("callback: oauth state mismatch")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid oauth state"})
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Error().Err(err).Msg("callback: code exchange failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "code exchange failed"})
		return
	}

	googleUser, err := h.fetchGoogleUser(r, token)
	if err != nil {
		log.Error().Err(err).Msg("callback: failed getting user info")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed getting user info"})
		return
	}

	if !googleUser.VerifiedEmail {
		log.Warn().Str("email", googleUser.Email).Msg("callback: email not verified")
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied: email not verified"})
		return
	}

	if !h.emailAllowed(googleUser.Email) {
		log.Warn().Str("email", googleUser.Email).Msg("callback: email not in allowlist")
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied: your email is not in the allowlist"})
		return
	}

	user, err := h.auth.AdminByEmail(r.Context(), googleUser.Email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied: no admin account for this email"})
			return
		}
		writeError(w, r, err)
		return
	}

	if _, err := h.sessions.Issue(w, user); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("google login successful")
	http.Redirect(w, r, h.landingURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchGoogleUser(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	resp, err := h.oauthConfig.Client(r.Context(), token).Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo returned " + resp.Status)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// An empty allowlist admits every existing admin
func (h *AuthHandler) emailAllowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return true
	}
	return slices.ContainsFunc(h.allowedEmails, func(allowed string) bool {
		return strings.EqualFold(allowed, email)
	})
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}
