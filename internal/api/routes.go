package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/vytor/studydeck/internal/auth"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(auth.Middleware(s.JWTSecret))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{deckID}", s.handleGetDeck)
		r.Put("/decks/{deckID}", s.handleUpdateDeck)
		r.Delete("/decks/{deckID}", s.handleDeleteDeck)
		r.Get("/decks/{deckID}/stats", s.handleDeckStats)
		r.Post("/decks/{deckID}/cards", s.handleCreateCard)
		r.Post("/decks/{deckID}/study", s.handleStartStudy)

		r.Get("/cards/{cardID}", s.handleGetCard)
		r.Put("/cards/{cardID}", s.handleUpdateCard)
		r.Delete("/cards/{cardID}", s.handleDeleteCard)
		r.Post("/cards/{cardID}/study", s.handleStudyCard)

		r.Get("/study/{token}", s.handleStudyState)
		r.Delete("/study/{token}", s.handleEndStudy)
		r.Post("/study/{token}/flip", s.handleStudyFlip)
		r.Post("/study/{token}/next", s.handleStudyNext)
		r.Post("/study/{token}/previous", s.handleStudyPrevious)
		r.Post("/study/{token}/shuffle", s.handleStudyShuffle)
		r.Post("/study/{token}/restart", s.handleStudyRestart)
		r.Post("/study/{token}/rate", s.handleStudyRate)
	})

	return cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "If-None-Match"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(r)
}
