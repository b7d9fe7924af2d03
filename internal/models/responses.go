package models

import "time"

// HealthResponse represents a basic health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// DBHealthResponse represents a database health check response
type DBHealthResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Connected bool          `json:"connected"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
}

// IngestRequest is the batch-ingest payload: raw records observed from one
// source account.
type IngestRequest struct {
	AccountID string      `json:"account_id"`
	Records   []RawRecord `json:"records"`
}

// IngestResponse reports how a batch of raw records was ingested.
type IngestResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Contacts int `json:"contacts"`
}

// MergeRequest asks for a speculative merge of two contacts by email key.
type MergeRequest struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// MergeResponse carries the merge preview and the similarity of the inputs.
type MergeResponse struct {
	Similarity float64                `json:"similarity"`
	Merged     map[string]interface{} `json:"merged"`
}

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
