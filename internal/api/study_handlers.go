package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studydeck/internal/auth"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/study"
)

func (s *Server) handleStartStudy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID := urlID(r, "deckID")

	// Start authorizes through the deck; the card list becomes the session's
	// snapshot.
	if _, err := s.DeckService.GetDeck(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.CardService.ListCards(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// GetDeck above guarantees an authenticated caller.
	ownerID, _ := auth.IdentityFromContext(r.Context())

	token, session, err := s.Sessions.Start(ownerID, deckID, cards)
	if err == study.ErrNoCards {
		handleError(w, r, errors.NewBadRequestError("deck has no cards to study"))
		return
	}
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("study session started: deck_id=%d, cards=%d", deckID, len(cards))
	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"state": session.State(),
	})
}

// session resolves the token for the authenticated caller. A token that
// exists but belongs to someone else is reported as not found.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*study.Session, bool) {
	ownerID, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewUnauthorizedError())
		return nil, false
	}
	session, ok := s.Sessions.Get(chi.URLParam(r, "token"), ownerID)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("study session"))
		return nil, false
	}
	return session, true
}

func (s *Server) handleStudyState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleEndStudy(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewUnauthorizedError())
		return
	}
	s.Sessions.End(chi.URLParam(r, "token"), ownerID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStudyFlip(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Flip()
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleStudyNext(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Next()
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleStudyPrevious(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Previous()
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleStudyShuffle(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Shuffle()
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleStudyRestart(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.Restart()
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}

func (s *Server) handleStudyRate(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		MasteryLevel int `json:"mastery_level"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := session.Rate(r.Context(), req.MasteryLevel); err == study.ErrRatingInFlight {
		respondJSON(w, http.StatusConflict, map[string]any{"state": session.State()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"state": session.State()})
}
