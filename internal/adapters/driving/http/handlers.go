package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

// appRedirectPath is where the browser lands after a successful login.
const appRedirectPath = "/app"

// oauthStateCookieName marks a pending authorization flow. It binds the
// callback to the browser that started the flow, on top of the
// server-side single-use state.
const oauthStateCookieName = "deckgen_oauth_state"

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error   string `json:"error" example:"unauthenticated"`
	Message string `json:"message" example:"session not found or expired"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// CreateSlidesRequest is the wire format for deck creation.
// @Description Request to create a presentation from raw text
type CreateSlidesRequest struct {
	Title          string `json:"title" example:"Quarterly Review"`
	Content        string `json:"content" example:"First slide\n\nSecond slide"`
	SplitterType   string `json:"splitter_type" example:"max_words"`
	SplitterConfig struct {
		MaxWords int `json:"max_words,omitempty" example:"50"`
		MaxChars int `json:"max_chars,omitempty" example:"500"`
	} `json:"splitter_config"`
}

// CreateSlidesResponse is returned after a deck has been created.
// @Description Response after successful presentation creation
type CreateSlidesResponse struct {
	PresentationID  string `json:"presentation_id" example:"1aBcD3fGh"`
	PresentationURL string `json:"presentation_url" example:"https://docs.google.com/presentation/d/1aBcD3fGh/edit"`
	SlideCount      int    `json:"slide_count" example:"4"`
	Message         string `json:"message" example:"created presentation with 4 slides"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks session backend connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "backend_unavailable", "database unreachable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "backend_unavailable", "redis unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// OAuth endpoints

// handleOAuthStart godoc
// @Summary      Start OAuth flow
// @Description  Generates PKCE credentials, sets a pending-flow marker cookie and redirects the browser to the provider's consent screen
// @Tags         OAuth
// @Success      302  "Redirect to the provider with the flow marker cookie set"
// @Failure      500  {object}  ErrorResponse  "OAuth credentials not configured"
// @Router       /oauth/start [get]
func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	resp, err := s.oauthService.Authorize(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setOAuthStateCookie(w, resp.State, cookieMaxAge(resp.ExpiresAt))
	http.Redirect(w, r, resp.AuthorizationURL, http.StatusFound)
}

// handleOAuthCallback godoc
// @Summary      OAuth callback
// @Description  Validates the flow marker and state, exchanges the code for tokens, creates a session and redirects to the app
// @Tags         OAuth
// @Success      302  "Redirect to the app with the session cookie set"
// @Failure      400  {object}  ErrorResponse  "Missing flow marker, state mismatch, expired flow or provider error"
// @Failure      502  {object}  ErrorResponse  "Token exchange failed"
// @Router       /oauth/callback [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := driving.CallbackRequest{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	// The marker cookie set at /oauth/start must accompany the callback
	// and match the state parameter. Without it the server-side state is
	// left unconsumed and no exchange happens.
	marker, err := r.Cookie(oauthStateCookieName)
	if err != nil || marker.Value == "" || marker.Value != req.State {
		clearOAuthStateCookie(w)
		writeError(w, http.StatusBadRequest, "csrf_mismatch",
			"callback does not match a flow started in this browser")
		return
	}
	clearOAuthStateCookie(w)

	resp, err := s.oauthService.Callback(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, resp.SessionID, cookieMaxAge(resp.ExpiresAt))
	http.Redirect(w, r, appRedirectPath, http.StatusFound)
}

// handleLogout godoc
// @Summary      Logout
// @Description  Deletes the session and clears the cookie
// @Tags         OAuth
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /oauth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		_ = s.authService.Logout(r.Context(), cookie.Value)
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Deck endpoints

// handleSplitters godoc
// @Summary      List splitters
// @Description  Returns the available text segmentation strategies and their defaults
// @Tags         Decks
// @Produce      json
// @Success      200  {array}  driving.SplitterInfo
// @Router       /api/splitters [get]
func (s *Server) handleSplitters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deckService.Splitters())
}

// handleCreateSlides godoc
// @Summary      Create a presentation
// @Description  Splits the content into slides and builds a presentation in the caller's account
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSlidesRequest  true  "Deck content and splitter selection"
// @Success      200      {object}  CreateSlidesResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request or splitter config"
// @Failure      401      {object}  ErrorResponse  "Missing or expired session"
// @Failure      502      {object}  ErrorResponse  "Provider call failed"
// @Router       /api/create-slides [post]
func (s *Server) handleCreateSlides(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing session")
		return
	}

	var body CreateSlidesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", "invalid request body")
		return
	}

	// Omitted limits fall back to the documented defaults.
	splitter := domain.SplitterConfig{
		Type:     domain.SplitterType(body.SplitterType),
		MaxWords: body.SplitterConfig.MaxWords,
		MaxChars: body.SplitterConfig.MaxChars,
	}
	if splitter.MaxWords == 0 {
		splitter.MaxWords = domain.DefaultMaxWords
	}
	if splitter.MaxChars == 0 {
		splitter.MaxChars = domain.DefaultMaxChars
	}

	resp, err := s.deckService.Create(r.Context(), driving.CreateDeckRequest{
		Title:       body.Title,
		Content:     body.Content,
		Splitter:    splitter,
		AccessToken: authCtx.AccessToken,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateSlidesResponse{
		PresentationID:  resp.PresentationID,
		PresentationURL: resp.PresentationURL,
		SlideCount:      resp.SlideCount,
		Message:         fmt.Sprintf("created presentation with %d slides", resp.SlideCount),
	})
}

// Cookie helpers

func setSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func setOAuthStateCookie(w http.ResponseWriter, state string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearOAuthStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// cookieMaxAge converts an RFC3339 expiry into cookie seconds.
// Unparseable input yields a session cookie.
func cookieMaxAge(expiresAt string) int {
	t, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return 0
	}
	seconds := int(time.Until(t).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var oauthErr *driving.OAuthError
	if errors.As(err, &oauthErr) {
		writeError(w, http.StatusBadRequest, "provider_error", oauthErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrCsrfMismatch):
		writeError(w, http.StatusBadRequest, "csrf_mismatch", "state parameter does not match a pending flow")
	case errors.Is(err, domain.ErrStateExpired):
		writeError(w, http.StatusBadRequest, "state_expired", "authorization flow expired, start again")
	case errors.Is(err, domain.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
	case errors.Is(err, domain.ErrMalformedRequest):
		writeError(w, http.StatusBadRequest, "malformed_request", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "session not found or expired")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "not_configured", "oauth credentials not configured")
	case errors.Is(err, domain.ErrTokenExchangeFailed):
		writeError(w, http.StatusBadGateway, "token_exchange_failed", "could not exchange authorization code")
	case errors.Is(err, domain.ErrRemoteUnavailable):
		writeError(w, http.StatusBadGateway, "remote_unavailable", "provider unreachable, nothing was created")
	case errors.Is(err, domain.ErrPartialApplyUnknown):
		writeError(w, http.StatusBadGateway, "partial_apply_unknown", "provider connection lost mid-update, the presentation may be incomplete")
	case errors.Is(err, domain.ErrRemoteRejected):
		writeError(w, http.StatusBadGateway, "remote_rejected", "provider rejected the request")
	case errors.Is(err, domain.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, "backend_unavailable", "storage backend unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
