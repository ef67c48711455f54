// Command sample_stream_server serves a WebSocket stream of synthetic latency
// samples for manually exercising stream ingestion:
//
//	go run ./scripts/testservers/sample_stream_server -port 8080 -rate 50
//	apdexgauge ws://localhost:8080/stream --threshold 500ms
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type samplePayload struct {
	Latency float64 `json:"latency"`
	Error   bool    `json:"error,omitempty"`
}

func main() {
	port := flag.Int("port", 8080, "Listening port")
	rate := flag.Int("rate", 20, "Samples per second")
	mean := flag.Float64("mean", 0.4, "Mean latency in seconds")
	errorRate := flag.Float64("error-rate", 0.02, "Fraction of samples marked as errors")
	flag.Parse()

	upgrader := websocket.Upgrader{}

	http.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("client connected: %s", r.RemoteAddr)

		ticker := time.NewTicker(time.Second / time.Duration(*rate))
		defer ticker.Stop()

		for range ticker.C {
			payload := samplePayload{
				Latency: rand.ExpFloat64() * *mean,
				Error:   rand.Float64() < *errorRate,
			}
			data, err := json.Marshal(payload)
			if err != nil {
				log.Printf("marshal: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("client gone: %v", err)
				return
			}
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("serving sample stream on ws://localhost%s/stream", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
