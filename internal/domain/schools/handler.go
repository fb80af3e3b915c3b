package schools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pet-school-registry/internal/middleware"
	"pet-school-registry/internal/platform/pagination"

	"github.com/go-chi/chi/v5"
)

const (
	msgBadFull = "The request object is missing at least one of the required attributes or at least one of the attributes has an invalid value"
	msgBadPart = "At least one of the attributes in the request object has an invalid value"
	msgNoSch   = "No school with this school_id exists"

	msgStudentsViaRelPatch = "PATCH to /schools/:school_id cannot be used to update the students - use PUT or DELETE to /pets/:pet_id/school/:school_id to modify relationships between pets and schools"
	msgStudentsViaRelPut   = "PUT to /schools/:school_id cannot be used to update the students - use PUT or DELETE to /pets/:pet_id/school/:school_id to modify relationships between pets and schools"
)

// Remover es lo que el handler necesita del engine de relaciones para borrar
// una escuela (desinscribir a cada alumno antes del delete).
type Remover interface {
	RemoveSchool(ctx context.Context, schoolID int64) error
}

// Las escuelas no tienen scoping de propiedad: cualquier caller, verificado o
// no, puede crearlas, editarlas y borrarlas. Así es el comportamiento de
// referencia y se preserva.
func RegisterRoutes(r chi.Router, svc *Service, rel Remover, baseURL string) {
	r.Route("/schools", func(sr chi.Router) {
		sr.Use(middleware.RequireJSONAccept)

		sr.Post("/", createSchoolHandler(svc, baseURL))
		sr.Get("/", listSchoolsHandler(svc, baseURL))

		sr.Get("/{schoolID}", getSchoolHandler(svc, baseURL))
		sr.Patch("/{schoolID}", patchSchoolHandler(svc, baseURL))
		sr.Put("/{schoolID}", putSchoolHandler(svc, baseURL))
		sr.Delete("/{schoolID}", deleteSchoolHandler(svc, rel))
	})
}

type schoolRequest struct {
	Name       *string `json:"name"`
	Location   *string `json:"location"`
	Headmaster *string `json:"headmaster"`
}

type schoolResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Headmaster string  `json:"headmaster"`
	Students   []int64 `json:"students"`
	Self       string  `json:"self"`
}

type schoolCollectionResponse struct {
	Schools      []schoolResponse `json:"schools"`
	TotalSchools int              `json:"total_schools"`
	Next         string           `json:"next,omitempty"`
}

type errorResponse struct {
	Error string `json:"Error"`
}

func createSchoolHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req schoolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}
		if req.Name == nil || req.Location == nil || req.Headmaster == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		sch, err := svc.Create(r.Context(), CreateInput{
			Name:       *req.Name,
			Location:   *req.Location,
			Headmaster: *req.Headmaster,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, toSchoolResponse(sch, baseURL))
	}
}

func listSchoolsHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		win := pagination.Window(items, page, pagination.DefaultPageSize)

		out := schoolCollectionResponse{
			Schools:      make([]schoolResponse, 0, len(win.Items)),
			TotalSchools: win.Total,
		}
		for _, sch := range win.Items {
			out.Schools = append(out.Schools, toSchoolResponse(sch, baseURL))
		}
		if win.HasMore {
			out.Next = fmt.Sprintf("%s/schools?page=%d", baseURL, win.Next)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getSchoolHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := fetchSchool(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toSchoolResponse(sch, baseURL))
	}
}

func patchSchoolHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := fetchSchool(w, r, svc)
		if !ok {
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}

		req, err := decodeSchoolFields(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}

		in := ReplaceInput{Name: current.Name, Location: current.Location, Headmaster: current.Headmaster}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Location != nil {
			in.Location = *req.Location
		}
		if req.Headmaster != nil {
			in.Headmaster = *req.Headmaster
		}

		// Valores primero, campos prohibidos después; mismo orden que en pets.
		if !ValidAttributes(in.Name, in.Location, in.Headmaster) {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			return
		}
		// La lista de inscritos solo se muta vía enroll/unenroll.
		if _, exists := raw["students"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgStudentsViaRelPatch})
			return
		}

		updated, err := svc.Replace(r.Context(), current.ID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadPart})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgNoSch})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toSchoolResponse(updated, baseURL))
	}
}

func putSchoolHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := fetchSchool(w, r, svc)
		if !ok {
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		req, err := decodeSchoolFields(raw)
		if err != nil || req.Name == nil || req.Location == nil || req.Headmaster == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}
		if !ValidAttributes(*req.Name, *req.Location, *req.Headmaster) {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			return
		}

		if _, exists := raw["students"]; exists {
			writeJSON(w, http.StatusBadRequest, errorResponse{msgStudentsViaRelPut})
			return
		}

		updated, err := svc.Replace(r.Context(), current.ID, ReplaceInput{
			Name:       *req.Name,
			Location:   *req.Location,
			Headmaster: *req.Headmaster,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{msgBadFull})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{msgNoSch})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			}
			return
		}

		w.Header().Set("Location", schoolSelf(baseURL, updated.ID))
		w.WriteHeader(http.StatusSeeOther)
	}
}

func deleteSchoolHandler(svc *Service, rel Remover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := fetchSchool(w, r, svc)
		if !ok {
			return
		}

		if err := rel.RemoveSchool(r.Context(), sch.ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{msgNoSch})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func fetchSchool(w http.ResponseWriter, r *http.Request, svc *Service) (School, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "schoolID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{msgNoSch})
		return School{}, false
	}

	sch, err := svc.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{msgNoSch})
		return School{}, false
	}
	return sch, true
}

func decodeSchoolFields(raw map[string]json.RawMessage) (schoolRequest, error) {
	b, _ := json.Marshal(raw)
	var req schoolRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return schoolRequest{}, err
	}
	return req, nil
}

func schoolSelf(baseURL string, id int64) string {
	return fmt.Sprintf("%s/schools/%d", baseURL, id)
}

func toSchoolResponse(sch School, baseURL string) schoolResponse {
	students := sch.Students
	if students == nil {
		students = []int64{}
	}
	return schoolResponse{
		ID:         sch.ID,
		Name:       sch.Name,
		Location:   sch.Location,
		Headmaster: sch.Headmaster,
		Students:   students,
		Self:       schoolSelf(baseURL, sch.ID),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
