package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/decoyra/internal/auth"
	"github.com/BradenHooton/decoyra/internal/models"
	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// maxBodyBytes caps request bodies on the decoy endpoints
const maxBodyBytes = 64 << 10

// DecoyServiceInterface defines the interface for recording attacker activity
type DecoyServiceInterface interface {
	RecordLogin(ctx context.Context, attempt models.LoginAttempt) *models.BruteForceAlert
	HandleMessage(ctx context.Context, clientIP, text string) string
}

// LoginEndpoint is one fake login form and the rejection it always returns
type LoginEndpoint struct {
	Path   string
	Detail string
}

// LoginEndpoints are the decoy login routes
var LoginEndpoints = []LoginEndpoint{
	{Path: "/login", Detail: "Invalid credentials"},
	{Path: "/admin/login", Detail: "Invalid admin credentials"},
	{Path: "/bank/login", Detail: "Authentication failed"},
}

// DecoyHandler serves the fake login forms and the scam intake endpoint
type DecoyHandler struct {
	service  DecoyServiceInterface
	tarpit   *auth.TimingDelay
	ipConfig *pkghttp.IPConfig
	logger   *slog.Logger
}

// NewDecoyHandler creates a new DecoyHandler. A nil tarpit disables the delay.
func NewDecoyHandler(service DecoyServiceInterface, tarpit *auth.TimingDelay, ipConfig *pkghttp.IPConfig, logger *slog.Logger) *DecoyHandler {
	if tarpit == nil {
		tarpit = auth.NewTimingDelay(auth.TimingConfig{})
	}
	return &DecoyHandler{
		service:  service,
		tarpit:   tarpit,
		ipConfig: ipConfig,
		logger:   logger,
	}
}

// Request DTOs

// LoginRequest represents the request body for a decoy login.
// Pointer fields tell a missing field apart from an empty one; both values are
// recorded verbatim, empty strings included.
type LoginRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// HoneypotRequest represents a message posted to the scam intake endpoint
type HoneypotRequest struct {
	SessionID           *string        `json:"sessionId" validate:"required"`
	Message             map[string]any `json:"message" validate:"required"`
	ConversationHistory []any          `json:"conversationHistory"`
	Metadata            map[string]any `json:"metadata"`
}

// HoneypotResponse carries the scripted victim reply
type HoneypotResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Login returns the handler for one fake login form. Every attempt is
// recorded, held in the tar-pit, then rejected with the endpoint's 401.
// @Summary Decoy login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Failure 400 {object} pkghttp.DetailResponse
// @Failure 401 {object} pkghttp.DetailResponse
// @Failure 422 {object} pkghttp.DetailResponse
// @Router /login [post]
// @Router /admin/login [post]
// @Router /bank/login [post]
func (h *DecoyHandler) Login(endpoint LoginEndpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req LoginRequest
		if !h.decode(w, r, &req) {
			return
		}

		attempt := models.LoginAttempt{
			Timestamp: start.UTC(),
			Endpoint:  endpoint.Path,
			ClientIP:  pkghttp.ExtractClientIP(r, h.ipConfig),
			UserAgent: r.UserAgent(),
			Username:  *req.Username,
			Password:  *req.Password,
		}
		h.service.RecordLogin(r.Context(), attempt)

		if err := h.tarpit.WaitFrom(r.Context(), start); err != nil {
			// client went away during the delay
			return
		}

		pkghttp.WriteUnauthorized(w, endpoint.Detail)
	}
}

// Honeypot answers a scam message with the scripted victim reply
// @Summary Scam message intake
// @Accept json
// @Param X-API-Key header string true "Honeypot API key"
// @Param request body HoneypotRequest true "Honeypot request"
// @Produce json
// @Success 200 {object} HoneypotResponse
// @Failure 400 {object} pkghttp.DetailResponse
// @Failure 401 {object} pkghttp.DetailResponse
// @Failure 422 {object} pkghttp.DetailResponse
// @Router /honeypot [post]
func (h *DecoyHandler) Honeypot(w http.ResponseWriter, r *http.Request) {
	var req HoneypotRequest
	if !h.decode(w, r, &req) {
		return
	}

	// a missing or non-string text is an empty message
	text, _ := req.Message["text"].(string)

	reply := h.service.HandleMessage(r.Context(), pkghttp.ExtractClientIP(r, h.ipConfig), text)

	pkghttp.WriteJSON(w, http.StatusOK, HoneypotResponse{
		Status: "success",
		Reply:  reply,
	})
}

// decode reads and validates a JSON body, writing the 400/422 itself on failure
func (h *DecoyHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.DebugContext(r.Context(), "rejected malformed request body",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		pkghttp.WriteBadRequest(w)
		return false
	}

	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return false
	}

	return true
}
