package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"trmnl/internal/logging"
)

// requireToken guards next with a bearer token. An empty token disables the
// check; the device endpoints never pass through here.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	token := s.opts.APIToken
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			s.log(r.Context()).Warn("rejected unauthenticated status request",
				logging.String("remote", r.RemoteAddr))
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
