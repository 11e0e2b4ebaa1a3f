package api

import (
	"time"

	"github.com/djlord-it/gsctl/internal/domain"
)

// TLEData is the wire form of an orbital element set.
type TLEData struct {
	TLE0 string `json:"tle0"`
	TLE1 string `json:"tle1"`
	TLE2 string `json:"tle2"`
}

// JobRequest is the body of POST /jobs. It is built once per invocation
// and never modified after NewJobRequest returns.
type JobRequest struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TLE         TLEData   `json:"tle"`
	RXFrequency float64   `json:"rx_frequency"`
	TXFrequency float64   `json:"tx_frequency"`
}

// APIResponse is the body the ground station returns on success.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewJobRequest packages collected fields into the wire request.
// No validation or ordering checks happen here.
func NewJobRequest(f domain.CollectedFields) JobRequest {
	return JobRequest{
		Start: f.Window.Start.UTC(),
		End:   f.Window.End.UTC(),
		TLE: TLEData{
			TLE0: f.Elements.Name,
			TLE1: f.Elements.Line1,
			TLE2: f.Elements.Line2,
		},
		RXFrequency: f.Frequencies.RX,
		TXFrequency: f.Frequencies.TX,
	}
}
