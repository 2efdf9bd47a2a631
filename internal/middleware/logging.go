package middleware

import (
	"net/http"

	"github.com/2beens/gymplanner/internal/auth"
	"github.com/2beens/gymplanner/pkg"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ip":     pkg.ClientIP(r),
				"ua":     r.Header.Get("User-Agent"),
				"user":   auth.UserIDFromContext(r.Context()),
			}).Trace(" ====> request")
		})
	}
}
