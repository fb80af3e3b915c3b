package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

const msgNotAcceptable = "The requested response type must be application/json"

// RequireJSONAccept corta con 406 cuando el cliente no acepta application/json.
// Es un check independiente de la autenticación y corre antes que todo lo
// demás en la ruta. Un Accept ausente cuenta como "acepta cualquier cosa".
func RequireJSONAccept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r.Header.Get("Accept")) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotAcceptable)
			_ = json.NewEncoder(w).Encode(map[string]string{"Error": msgNotAcceptable})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func acceptsJSON(accept string) bool {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mt := strings.TrimSpace(part)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		switch strings.ToLower(mt) {
		case "*/*", "application/*", "application/json":
			return true
		}
	}
	return false
}
