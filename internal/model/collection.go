package model

import (
	"time"
)

// DataKind identifies one of the collected data kinds
type DataKind string

const (
	KindStock     DataKind = "stock"
	KindFairValue DataKind = "fair_value"
	KindIPO       DataKind = "ipo"
)

// CollectionResponse is the envelope returned by collection trigger endpoints
type CollectionResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Count     *int      `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UpsertResult reports how a persisted batch split between inserts and updates
type UpsertResult struct {
	Created int
	Updated int
	Skipped int
}

// Total returns the number of rows written
func (r UpsertResult) Total() int {
	return r.Created + r.Updated
}

// CollectionEvent is published to Kafka after each collection run
type CollectionEvent struct {
	Kind      DataKind  `json:"kind"`
	Success   bool      `json:"success"`
	Count     int       `json:"count"`
	Error     string    `json:"error,omitempty"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}
