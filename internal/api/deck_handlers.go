package api

import (
	"fmt"
	"net/http"

	"github.com/vytor/studydeck/internal/auth"
	"github.com/vytor/studydeck/internal/cache"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
)

type deckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// checkFreshness writes an ETag derived from the view's invalidation version
// and reports whether the client's copy is still current. Callers must have
// authorized the request first: an ETag or a 304 for a resource the caller
// cannot see would leak its mutation activity.
func (s *Server) checkFreshness(w http.ResponseWriter, r *http.Request, path string) bool {
	etag := fmt.Sprintf(`"%s-v%d"`, path, s.Versions.Version(path))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	ownerID, _ := auth.IdentityFromContext(r.Context())
	if s.checkFreshness(w, r, cache.DashboardPath(ownerID)) {
		return
	}

	if decks == nil {
		decks = []models.Deck{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"deck": deck})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := urlID(r, "deckID")

	deck, err := s.DeckService.GetDeck(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if s.checkFreshness(w, r, cache.DeckPath(deckID)) {
		return
	}

	cards, err := s.CardService.ListCards(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"deck": deck, "cards": cards})
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.UpdateDeck(r.Context(), urlID(r, "deckID"), req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deck": deck})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID := urlID(r, "deckID")
	if err := s.DeckService.DeleteDeck(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("deck %d deleted with its cards", deckID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DeckService.DeckStats(r.Context(), urlID(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
