package optimizer

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// Strategy computes a tour for the stops of one request.
type Strategy func(stops []domain.Stop) (ports.TourOutcome, error)

// Handle decodes one request from dec, runs strategy and returns the reply.
// Failures are reported in the reply rather than as an error.
func Handle(dec *json.Decoder, strategy Strategy) Response {
	var req Request
	if err := dec.Decode(&req); err != nil {
		return NewErrorResponse(errors.New("invalid JSON input: " + err.Error()))
	}
	if len(req.Routes) == 0 {
		return NewErrorResponse(errors.New("no routes provided"))
	}
	if len(req.Routes) < 2 {
		return NewErrorResponse(errors.New("at least 2 routes required for optimization"))
	}

	outcome, err := strategy(req.Stops())
	if err != nil {
		return NewErrorResponse(errors.New("optimization failed: " + err.Error()))
	}

	res, err := NewResponse(outcome)
	if err != nil {
		return NewErrorResponse(err)
	}
	return res
}

// NewHandler serves the optimizer protocol over HTTP for HTTPOptimizer clients.
func NewHandler(strategy Strategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResponseBytes))
		defer r.Body.Close()

		res := Handle(dec, strategy)

		status := http.StatusOK
		if !res.Success {
			status = http.StatusUnprocessableEntity
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		}
	})
}
