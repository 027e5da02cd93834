package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yojanasetu/apiserver/internal/services"
	"github.com/yojanasetu/apiserver/internal/store"
	"go.uber.org/zap"
)

// SuggestHandler serves model-ranked scheme suggestions.
type SuggestHandler struct {
	suggestions *services.SuggestionService
	logger      *zap.Logger
}

// NewSuggestHandler constructs a SuggestHandler.
func NewSuggestHandler(suggestions *services.SuggestionService, logger *zap.Logger) *SuggestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestHandler{suggestions: suggestions, logger: logger}
}

// SuggestRouter registers suggestion routes on the given router.
func SuggestRouter(r chi.Router, handler *SuggestHandler) {
	r.Get("/{userID}", handler.Suggest)
}

// upstreamErrorResponse carries the raw model text alongside the error so
// unparseable responses can be diagnosed from the client side.
type upstreamErrorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// Suggest returns the ranked scheme list for the account in the URL.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "userID")

	ranked, err := h.suggestions.Suggest(r.Context(), accountID)
	if err != nil {
		var noSchemes *services.NoSchemesError
		var upstream *services.UpstreamResponseError
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.As(err, &noSchemes):
			writeError(w, http.StatusNotFound, noSchemes.Error())
		case errors.As(err, &upstream):
			h.logger.Error("model response unparseable", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, upstreamErrorResponse{
				Error: "Error parsing AI response",
				Raw:   upstream.Raw,
			})
		default:
			h.logger.Error("suggestion failed", zap.String("account_id", accountID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to build suggestions")
		}
		return
	}

	writeJSON(w, http.StatusOK, ranked)
}
