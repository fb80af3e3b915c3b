package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	ga "pet-school-registry/internal/adapters/auth/googleid"
	mem "pet-school-registry/internal/adapters/storage/memory"
	mg "pet-school-registry/internal/adapters/storage/mongo"
	pg "pet-school-registry/internal/adapters/storage/postgres"
	"pet-school-registry/internal/domain/owners"
	"pet-school-registry/internal/domain/pets"
	"pet-school-registry/internal/domain/relations"
	"pet-school-registry/internal/domain/schools"
	"pet-school-registry/internal/middleware"
	"pet-school-registry/internal/platform/logger"
	"pet-school-registry/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Flujo de login OAuth. Puede ser nil: los endpoints de login responden
	// 503 y el resto de la API sigue funcionando (dev con X-Debug-User-ID).
	Flow *ga.Flow

	// Opcional: si viene DB usa Postgres; si viene Mongo usa Mongo.
	// Si no viene nada, intenta por env y cae a in-memory.
	DB    *sql.DB
	Mongo *mongo.Database

	// Prefijo absoluto para los locators self en las respuestas.
	BaseURL string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		ownerRepo  owners.Repository
		petRepo    pets.Repository
		schoolRepo schools.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil && opts.Mongo == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	switch {
	case db != nil:
		ownerRepo = pg.NewOwnersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		schoolRepo = pg.NewSchoolsRepo(db)
		log.Info("storage adapter: postgres", nil)
	case opts.Mongo != nil:
		ownerRepo = mg.NewOwnersRepo(opts.Mongo)
		petRepo = mg.NewPetsRepo(opts.Mongo)
		schoolRepo = mg.NewSchoolsRepo(opts.Mongo)
		log.Info("storage adapter: mongo", nil)
	default:
		ownerRepo = mem.NewOwnerRepo()
		petRepo = mem.NewPetRepo()
		schoolRepo = mem.NewSchoolRepo()
		log.Info("storage adapter: memory", nil)
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownerRepo)
	petsSvc := pets.NewService(petRepo)
	schoolsSvc := schools.NewService(schoolRepo)

	// Engine de relaciones: todas las escrituras que tocan más de un
	// documento pasan por aquí.
	rel := relations.NewService(ownerRepo, petRepo, schoolRepo)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, rel, opts.BaseURL)
	schools.RegisterRoutes(r, schoolsSvc, rel, opts.BaseURL)
	owners.RegisterRoutes(r, ownersSvc, petsSvc, opts.BaseURL)

	registerLoginRoutes(r, opts.Flow, opts.AuthVerifier, ownersSvc, log)

	return r
}

type loginResponse struct {
	OwnerID string `json:"owner_id"`
	JWT     string `json:"jwt"`
}

type loginError struct {
	Error string `json:"Error"`
}

// Handshake de login: /login redirige al consent de Google con un state de un
// solo uso; /oauth valida el state, canjea el code, verifica el ID token y da
// de alta al owner si es su primera visita.
func registerLoginRoutes(r chi.Router, flow *ga.Flow, verifier auth.AuthVerifier, ownersSvc *owners.Service, log logger.Logger) {
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		if !flow.IsConfigured() {
			writeLoginJSON(w, http.StatusServiceUnavailable, loginError{"login is not configured"})
			return
		}

		url, err := flow.AuthURL(r.Context())
		if err != nil {
			log.Error("login: building consent URL", map[string]any{"err": err.Error()})
			writeLoginJSON(w, http.StatusInternalServerError, loginError{"internal error"})
			return
		}
		http.Redirect(w, r, url, http.StatusSeeOther)
	})

	r.Get("/oauth", func(w http.ResponseWriter, r *http.Request) {
		if !flow.IsConfigured() || verifier == nil {
			writeLoginJSON(w, http.StatusServiceUnavailable, loginError{"login is not configured"})
			return
		}

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")

		idToken, err := flow.Exchange(r.Context(), state, code)
		if err != nil {
			writeLoginJSON(w, http.StatusUnauthorized, loginError{"State value is not valid or the authorization code could not be exchanged"})
			return
		}

		claims, err := verifier.Verify(r.Context(), idToken)
		if err != nil {
			writeLoginJSON(w, http.StatusUnauthorized, loginError{"The JWT is missing or invalid"})
			return
		}

		owner, err := ownersSvc.GetOrCreate(r.Context(), claims.OwnerID)
		if err != nil {
			log.Error("login: provisioning owner", map[string]any{"err": err.Error()})
			writeLoginJSON(w, http.StatusInternalServerError, loginError{"internal error"})
			return
		}

		writeLoginJSON(w, http.StatusOK, loginResponse{OwnerID: owner.OwnerID, JWT: idToken})
	})
}

func writeLoginJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
