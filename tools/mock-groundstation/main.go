// Command mock-groundstation stands in for the ground station API during
// local gsctl runs. It accepts POST /jobs and records what it received.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

type tle struct {
	TLE0 string `json:"tle0"`
	TLE1 string `json:"tle1"`
	TLE2 string `json:"tle2"`
}

type job struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TLE         tle       `json:"tle"`
	RXFrequency float64   `json:"rx_frequency"`
	TXFrequency float64   `json:"tx_frequency"`
}

type received struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	Satellite string `json:"satellite"`
	Body      string `json:"body"`
}

type stats struct {
	Count    int64      `json:"count"`
	LastJobs []received `json:"last_jobs"`
	Since    string     `json:"since"`
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const maxStored = 50

type server struct {
	mu    sync.Mutex
	count int64
	jobs  []received
	since time.Time

	// fail makes every job submission answer 500.
	fail bool
}

func newServer(fail bool) *server {
	return &server{since: time.Now().UTC(), fail: fail}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", s.jobsHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/reset", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		s.count = 0
		s.jobs = nil
		s.since = time.Now().UTC()
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "reset")
	})
	return mux
}

func main() {
	addr := ":3000"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}
	s := newServer(os.Getenv("MOCK_FAIL") == "1")

	log.Printf("mock-groundstation listening on %s (fail=%t)", addr, s.fail)
	log.Fatal(http.ListenAndServe(addr, s.routes()))
}

func (s *server) jobsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, response{Status: "error", Message: "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	defer r.Body.Close()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Message: "read body"})
		return
	}

	var j job
	if err := json.Unmarshal(body, &j); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Message: "invalid JSON: " + err.Error()})
		return
	}
	if j.TLE.TLE0 == "" || j.TLE.TLE1 == "" || j.TLE.TLE2 == "" {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Message: "tle0, tle1 and tle2 are required"})
		return
	}

	if s.fail {
		log.Printf("job for %s rejected (MOCK_FAIL)", j.TLE.TLE0)
		writeJSON(w, http.StatusInternalServerError, response{Status: "error", Message: "scheduler unavailable"})
		return
	}

	s.mu.Lock()
	s.count++
	id := s.count
	s.jobs = append(s.jobs, received{
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RequestID: r.Header.Get("X-Request-ID"),
		Satellite: j.TLE.TLE0,
		Body:      string(body),
	})
	if len(s.jobs) > maxStored {
		s.jobs = s.jobs[len(s.jobs)-maxStored:]
	}
	s.mu.Unlock()

	log.Printf("job #%d received: %s %s..%s rx=%.0f tx=%.0f",
		id, j.TLE.TLE0, j.Start.Format(time.RFC3339), j.End.Format(time.RFC3339), j.RXFrequency, j.TXFrequency)
	writeJSON(w, http.StatusOK, response{Status: "ok", Message: fmt.Sprintf("job %d accepted", id)})
}

func (s *server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := stats{
		Count:    s.count,
		LastJobs: append([]received(nil), s.jobs...),
		Since:    s.since.Format(time.RFC3339),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
