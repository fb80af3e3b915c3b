package pets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pet-school-registry/internal/domain/policy"
	"pet-school-registry/internal/domain/schools"
	"pet-school-registry/internal/middleware"
	"pet-school-registry/internal/platform/pagination"

	"github.com/go-chi/chi/v5"
)

// Mensajes del deployment de referencia; son contrato observable.
const (
	msgBadFull = "The request object is missing at least one of the required attributes or at least one of the attributes has an invalid value"
	msgBadPart = "At least one of the attributes in the request object has an invalid value"
	msgNoJWT   = "The JWT is missing or invalid"
	msgNotMine = "The pet belongs to someone else"
	msgNoPet   = "No pet with this pet_id exists"

	msgSchoolViaRelPatch = "PATCH to /pets/:pet_id cannot be used to update the school - use PUT or DELETE to /pets/:pet_id/school/:school_id to modify relationships between pets and schools"
	msgSchoolViaRelPut   = "PUT to /pets/:pet_id cannot be used to update the school - use PUT or DELETE to /pets/:pet_id/school/:school_id to modify relationships between pets and schools"
	msgOwnerFrozen       = "The owner of the pet cannot be changed"

	msgAlreadyEnrolled = "The pet is already enrolled at a school"
	msgPairNotFound    = "The specified pet and/or school does not exist"
	msgNotEnrolledPair = "No pet with this pet_id is enrolled at a school with this school_id"
)

// Relationships es lo que el handler necesita del engine de relaciones.
// Interface local para evitar el ciclo pets <-> relations.
type Relationships interface {
	RegisterPet(ctx context.Context, ownerID string, in AttributesInput) (Pet, error)
	RemovePet(ctx context.Context, petID int64) error
	Enroll(ctx context.Context, petID, schoolID int64) error
	Unenroll(ctx context.Context, petID, schoolID int64) error
}

func RegisterRoutes(r chi.Router, svc *Service, rel Relationships, baseURL string) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Use(middleware.RequireJSONAccept)

		pr.Post("/", createPetHandler(rel, baseURL))
		pr.Get("/", listPetsHandler(svc, baseURL))

		pr.Get("/{petID}", getPetHandler(svc, baseURL))
		pr.Patch("/{petID}", patchPetHandler(svc, baseURL))
		pr.Put("/{petID}", putPetHandler(svc, baseURL))
		pr.Delete("/{petID}", deletePetHandler(svc, rel))

		// Endpoints dedicados de relación pet↔school
		pr.Put("/{petID}/schools/{schoolID}", enrollHandler(svc, rel))
		pr.Delete("/{petID}/schools/{schoolID}", unenrollHandler(svc, rel))
	})
}

type petRequest struct {
	Name  *string `json:"name"`
	Breed *string `json:"breed"`
	Age   *int    `json:"age"`
}

type petResponse struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Breed  string     `json:"breed"`
	Age    int        `json:"age"`
	Owner  string     `json:"owner"`
	School *SchoolRef `json:"school"`
	Self   string     `json:"self"`
}

type petCollectionResponse struct {
	Pets      []petResponse `json:"pets"`
	TotalPets int           `json:"total_pets"`
	Next      string        `json:"next,omitempty"`
}

type errorResponse struct {
	Error string `json:"Error"`
}

func createPetHandler(rel Relationships, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}
		if req.Name == nil || req.Breed == nil || req.Age == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		p, err := rel.RegisterPet(r.Context(), claims.OwnerID, AttributesInput{
			Name:  *req.Name,
			Breed: *req.Breed,
			Age:   *req.Age,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p, baseURL))
	}
}

func listPetsHandler(svc *Service, baseURL string) http.HandlerFunc {
	// Listado owner-scoped y paginado (página de 5).
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.OwnerID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		win := pagination.Window(items, page, pagination.DefaultPageSize)

		out := petCollectionResponse{
			Pets:      make([]petResponse, 0, len(win.Items)),
			TotalPets: win.Total,
		}
		for _, p := range win.Items {
			out.Pets = append(out.Pets, toPetResponse(p, baseURL))
		}
		if win.HasMore {
			out.Next = fmt.Sprintf("%s/pets?page=%d", baseURL, win.Next)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		p, ok := fetchPet(w, r, svc, msgNoPet)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, p.Owner, policy.ActionRead) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p, baseURL))
	}
}

func patchPetHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		current, ok := fetchPet(w, r, svc, msgNoPet)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, current.Owner, policy.ActionMutate) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		// Decodificamos a map primero para detectar presencia de campos
		// prohibidos (school/owner se mutan solo vía sus endpoints).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}

		req, err := decodePetFields(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}

		// PATCH real: lo no enviado conserva el valor actual.
		in := AttributesInput{Name: current.Name, Breed: current.Breed, Age: current.Age}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Breed != nil {
			in.Breed = *req.Breed
		}
		if req.Age != nil {
			in.Age = *req.Age
		}

		// Los valores se validan antes que los campos prohibidos; el orden es
		// observable cuando el request trae ambos defectos.
		if !ValidAttributes(in.Name, in.Breed, in.Age) {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}
		if _, exists := raw["school"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgSchoolViaRelPatch})
			return
		}
		if _, exists := raw["owner"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgOwnerFrozen})
			return
		}

		updated, err := svc.Replace(r.Context(), current.ID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgNoPet})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated, baseURL))
	}
}

func putPetHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		current, ok := fetchPet(w, r, svc, msgNoPet)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, current.Owner, policy.ActionMutate) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		req, err := decodePetFields(raw)
		if err != nil || req.Name == nil || req.Breed == nil || req.Age == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}
		if !ValidAttributes(*req.Name, *req.Breed, *req.Age) {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		if _, exists := raw["school"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgSchoolViaRelPut})
			return
		}
		if _, exists := raw["owner"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgOwnerFrozen})
			return
		}

		updated, err := svc.Replace(r.Context(), current.ID, AttributesInput{
			Name:  *req.Name,
			Breed: *req.Breed,
			Age:   *req.Age,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgNoPet})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		// PUT responde 303 apuntando al recurso, sin body.
		w.Header().Set("Location", petSelf(baseURL, updated.ID))
		w.WriteHeader(http.StatusSeeOther)
	}
}

func deletePetHandler(svc *Service, rel Relationships) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		p, ok := fetchPet(w, r, svc, msgNoPet)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, p.Owner, policy.ActionMutate) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		if err := rel.RemovePet(r.Context(), p.ID); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func enrollHandler(svc *Service, rel Relationships) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		p, ok := fetchPet(w, r, svc, msgPairNotFound)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, p.Owner, policy.ActionMutate) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		schoolID, err := strconv.ParseInt(chi.URLParam(r, "schoolID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{msgPairNotFound})
			return
		}

		if err := rel.Enroll(r.Context(), p.ID, schoolID); err != nil {
			switch {
			case errors.Is(err, ErrAlreadyEnrolled):
				writeJSON(w, http.StatusForbidden, errorResponse{msgAlreadyEnrolled})
			case errors.Is(err, ErrNotFound), errors.Is(err, schools.ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgPairNotFound})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func unenrollHandler(svc *Service, rel Relationships) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.OwnerID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{msgNoJWT})
			return
		}

		p, ok := fetchPet(w, r, svc, msgNotEnrolledPair)
		if !ok {
			return
		}
		if !policy.AllowPet(claims.OwnerID, p.Owner, policy.ActionMutate) {
			writeJSON(w, http.StatusForbidden, errorResponse{msgNotMine})
			return
		}

		schoolID, err := strconv.ParseInt(chi.URLParam(r, "schoolID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{msgNotEnrolledPair})
			return
		}

		if err := rel.Unenroll(r.Context(), p.ID, schoolID); err != nil {
			switch {
			case errors.Is(err, ErrNotEnrolled), errors.Is(err, ErrNotFound), errors.Is(err, schools.ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgNotEnrolledPair})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// fetchPet resuelve {petID} y escribe el 404 con el mensaje que corresponda al
// endpoint. Un id no numérico cuenta como inexistente.
func fetchPet(w http.ResponseWriter, r *http.Request, svc *Service, notFoundMsg string) (Pet, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{notFoundMsg})
		return Pet{}, false
	}

	p, err := svc.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{notFoundMsg})
		return Pet{}, false
	}
	return p, true
}

// decodePetFields re-marshalea el map crudo al struct de punteros para
// reutilizar los tags (simple y suficiente acá).
func decodePetFields(raw map[string]json.RawMessage) (petRequest, error) {
	b, _ := json.Marshal(raw)
	var req petRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return petRequest{}, err
	}
	return req, nil
}

func petSelf(baseURL string, id int64) string {
	return fmt.Sprintf("%s/pets/%d", baseURL, id)
}

func toPetResponse(p Pet, baseURL string) petResponse {
	return petResponse{
		ID:     p.ID,
		Name:   p.Name,
		Breed:  p.Breed,
		Age:    p.Age,
		Owner:  p.Owner,
		School: p.School,
		Self:   petSelf(baseURL, p.ID),
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (pets/schools/owners) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
