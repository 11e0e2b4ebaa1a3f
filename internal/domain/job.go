package domain

import "time"

// OrbitalElementSet is a satellite's two-line element set plus its name line.
// The lines are opaque text; no checksum or column validation is applied.
type OrbitalElementSet struct {
	Name  string
	Line1 string
	Line2 string
}

// TimeWindow is the tracking window. Start is not required to precede End;
// ordering is left to the ground station API.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// FrequencyPair holds receive/transmit frequencies in Hz.
type FrequencyPair struct {
	RX float64
	TX float64
}

// CollectedFields is everything the operator supplied for one job.
type CollectedFields struct {
	Window      TimeWindow
	Elements    OrbitalElementSet
	Frequencies FrequencyPair
}
