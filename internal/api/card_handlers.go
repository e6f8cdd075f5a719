package api

import (
	"net/http"
)

type cardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), urlID(r, "deckID"), req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"card": card})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.CardService.GetCard(r.Context(), urlID(r, "cardID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"card": card})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.UpdateCard(r.Context(), urlID(r, "cardID"), req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"card": card})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.CardService.DeleteCard(r.Context(), urlID(r, "cardID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStudyCard records a study result directly, outside any session.
func (s *Server) handleStudyCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MasteryLevel int `json:"mastery_level"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.StudyCard(r.Context(), urlID(r, "cardID"), req.MasteryLevel)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"card": card})
}
