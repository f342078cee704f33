package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideParam names the query or form field carrying the real method.
const MethodOverrideParam = "_method"

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets HTML forms, which can only POST, reach PUT, PATCH and
// DELETE routes. The method is read from the _method query parameter, or
// from an url-encoded form body. Multipart bodies are left for the handler
// to parse, so uploads must pass the method in the query.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.URL.Query().Get(MethodOverrideParam)
			if method == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				if err := r.ParseForm(); err == nil {
					method = r.PostForm.Get(MethodOverrideParam)
				}
			}

			method = strings.ToUpper(strings.TrimSpace(method))
			if overridableMethods[method] {
				r.Method = method
			}
		}

		next.ServeHTTP(w, r)
	})
}
