package owners

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pet-school-registry/internal/domain/pets"
	"pet-school-registry/internal/domain/policy"
	"pet-school-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	msgNoJWT      = "The JWT is missing or invalid"
	msgOtherOwner = "You cannot view another user's information page"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, baseURL string) {
	r.Route("/users", func(ur chi.Router) {
		ur.Use(middleware.RequireJSONAccept)

		ur.Get("/", listOwnersHandler(svc, baseURL))
		ur.Get("/{ownerID}", getOwnerHandler(svc, petsSvc, baseURL))
	})
}

type ownerSummary struct {
	OwnerID string `json:"owner_id"`
	NumPets int    `json:"num_pets"`
	Self    string `json:"self"`
}

// ownerPet omite el campo owner: en la página del dueño es redundante.
type ownerPet struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Breed  string          `json:"breed"`
	Age    int             `json:"age"`
	School *pets.SchoolRef `json:"school"`
	Self   string          `json:"self"`
}

type ownerDetail struct {
	OwnerID string     `json:"owner_id"`
	Pets    []ownerPet `json:"pets"`
	Self    string     `json:"self"`
}

type errorResponse struct {
	Error string `json:"Error"`
}

// El listado es público y solo expone resúmenes, nunca los pets de otro.
func listOwnersHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		out := make([]ownerSummary, 0, len(items))
		for _, o := range items {
			out = append(out, ownerSummary{
				OwnerID: o.OwnerID,
				NumPets: len(o.Pets),
				Self:    ownerSelf(baseURL, o.OwnerID),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service, petsSvc *pets.Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		ownerID := chi.URLParam(r, "ownerID")
		if !policy.AllowOwnerDetail(claims.OwnerID, ownerID) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgOtherOwner})
			return
		}

		// Provisión perezosa: ver tu propia página te da de alta si hace falta.
		owner, err := svc.GetOrCreate(r.Context(), ownerID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		out := ownerDetail{
			OwnerID: owner.OwnerID,
			Pets:    make([]ownerPet, 0, len(owner.Pets)),
			Self:    ownerSelf(baseURL, owner.OwnerID),
		}
		for _, petID := range owner.Pets {
			p, err := petsSvc.GetByID(r.Context(), petID)
			if err != nil {
				if errors.Is(err, pets.ErrNotFound) {
					// Referencia colgante en mitad de un borrado; se omite.
					continue
				}
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
				return
			}
			out.Pets = append(out.Pets, ownerPet{
				ID:     p.ID,
				Name:   p.Name,
				Breed:  p.Breed,
				Age:    p.Age,
				School: p.School,
				Self:   fmt.Sprintf("%s/pets/%d", baseURL, p.ID),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func ownerSelf(baseURL, ownerID string) string {
	return fmt.Sprintf("%s/users/%s", baseURL, ownerID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
