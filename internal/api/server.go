package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studydeck/internal/cache"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/services"
	"github.com/vytor/studydeck/internal/study"
)

type Server struct {
	DeckService services.DeckService
	CardService services.CardService
	Sessions    *study.Manager
	Versions    *cache.Memory
	JWTSecret   []byte
	CORSOrigins []string
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON decodes the request body into dst, limiting its size.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid request body")
	}
	return nil
}

// urlID parses a positive integer URL parameter. Malformed values come back
// as 0 and are rejected by service validation.
func urlID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
