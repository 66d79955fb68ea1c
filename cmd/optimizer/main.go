// Command optimizer is the clustered route optimizer.
//
// By default it reads one request from stdin and writes the reply to stdout,
// exiting with status 1 on failure. With -listen it serves the same protocol
// over HTTP at POST /optimize.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"route-optimizer-service/internal/adapters/optimizer"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"time"
)

func clustered(stops []domain.Stop) (ports.TourOutcome, error) {
	return services.ClusteredTour(stops, services.DefaultFleet)
}

func main() {
	listen := flag.String("listen", "", "serve the optimizer protocol over HTTP on this address")
	flag.Parse()

	if *listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/optimize", optimizer.NewHandler(clustered))

		log.Printf("Optimizer listening addr=%s", *listen)
		srv := &http.Server{
			Addr:              *listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		log.Fatal(srv.ListenAndServe())
	}

	os.Exit(run(json.NewDecoder(os.Stdin), json.NewEncoder(os.Stdout)))
}

func run(dec *json.Decoder, enc *json.Encoder) int {
	res := optimizer.Handle(dec, clustered)
	if err := enc.Encode(res); err != nil {
		log.Printf("encode response: %v", err)
		return 1
	}
	if !res.Success {
		return 1
	}
	return 0
}
