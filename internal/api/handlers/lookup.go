package handlers

import (
	"net/http"
	"strings"

	"route-planner/internal/api/dto"
	"route-planner/internal/platform/logger"
	"route-planner/internal/ports"
)

type LookupHandler struct {
	Lookup ports.AddressLookup
	Log    *logger.Logger
}

func (h *LookupHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "q is required")
		return
	}

	s, err := h.Lookup.Geocode(r.Context(), q)
	if err != nil {
		writeAppError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, dto.SuggestionFromDomain(s))
}

func (h *LookupHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "q is required")
		return
	}

	found, err := h.Lookup.Autocomplete(r.Context(), q)
	if err != nil {
		writeAppError(w, r, h.Log, err)
		return
	}

	res := dto.AutocompleteResponse{Suggestions: make([]dto.SuggestionDTO, 0, len(found))}
	for _, s := range found {
		res.Suggestions = append(res.Suggestions, dto.SuggestionFromDomain(s))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}
