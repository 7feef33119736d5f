package middleware

import (
	"net/http"
)

// SecureHeaders stops browsers from sniffing uploaded files into another
// content type and from framing the album.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}
