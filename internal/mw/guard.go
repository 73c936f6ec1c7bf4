package mw

import (
	"encoding/json"
	"net/http"
)

// Denial is a guard's refusal: the status and the message sent to the client.
type Denial struct {
	Status  int
	Message string
}

// Guard inspects a request before the handler runs. It either returns the
// (possibly enriched) request to continue with, or a Denial.
type Guard func(r *http.Request) (*http.Request, *Denial)

// Chain evaluates guards in order and stops at the first denial, so a later
// guard never sees a request an earlier one refused.
func Chain(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, g := range guards {
				var d *Denial
				r, d = g(r)
				if d != nil {
					deny(w, d)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, d *Denial) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(d.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": d.Message})
}
