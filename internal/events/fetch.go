package events

import "time"

// FetchStart is emitted before an outbound subgraph fetch.
type FetchStart struct {
	Subgraph string
	URL      string
}

// FetchFinish is emitted after a subgraph fetch completes.
type FetchFinish struct {
	Subgraph string
	URL      string
	Status   int
	Err      error
	Duration time.Duration
}
