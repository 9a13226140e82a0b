package flightsync

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Outcome tells how an Index call ended when it did not fail.
type Outcome int

const (
	OutcomeSkipped Outcome = iota + 1
	OutcomeIndexed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// Result is the outcome of indexing one flight.
type Result struct {
	Outcome Outcome
	// ID is the document ID; empty when skipped.
	ID string
	// Result is what Elasticsearch reported, usually "created" or "updated".
	Result string
}

// Response is the invocation-style answer for a Result.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

const skippedBody = "Skipped (no icao24)"

type indexedBody struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Result  string `json:"result"`
}

// Response renders r as {statusCode, body}: 200 with a plain text body for a
// skipped flight, 201 with a JSON body for an indexed one. A Result with no
// outcome renders as a 500.
func (r Result) Response() Response {
	switch r.Outcome {
	case OutcomeSkipped:
		return Response{StatusCode: http.StatusOK, Body: skippedBody}
	case OutcomeIndexed:
		body, _ := json.Marshal(indexedBody{
			Message: "Flight indexed successfully",
			ID:      r.ID,
			Result:  r.Result,
		})
		return Response{StatusCode: http.StatusCreated, Body: string(body)}
	default:
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       fmt.Sprintf("An unexpected error occurred: unknown outcome %d", int(r.Outcome)),
		}
	}
}
