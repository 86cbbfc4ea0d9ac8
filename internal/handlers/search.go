package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/ahumphries/campusnet/internal/models"
	"github.com/ahumphries/campusnet/internal/services"
)

type SearchHandler struct {
	searchService services.SearchServiceInterface
}

func NewSearchHandler(searchService services.SearchServiceInterface) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search is public; no session needed. A blank query returns empty result
// sets rather than dumping every row.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, &models.SearchResults{
			Users:    []models.UserSearchResult{},
			Posts:    []models.PostSearchResult{},
			Research: []models.ResearchSearchResult{},
		})
		return
	}

	results, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		log.Printf("Error searching: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, results)
}
