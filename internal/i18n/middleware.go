package i18n

import "net/http"

// Middleware injects a printer into every request context. The language is
// taken from the "lang" query parameter, then the Accept-Language header,
// then lang.
func Middleware(lang string) func(http.Handler) http.Handler {
	fallback := NewPrinter(lang)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := fallback
			if q := r.URL.Query().Get("lang"); q != "" {
				p = NewPrinter(q)
			} else if accept := r.Header.Get("Accept-Language"); accept != "" {
				p = NewPrinter(accept)
			}
			next.ServeHTTP(w, r.WithContext(WithPrinter(r.Context(), p)))
		})
	}
}
