// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// FinalizedLab summarizes one lab touched by a finalized request.
type FinalizedLab struct {
	LabID    uint64 `json:"lab_id"`
	LabName  string `json:"lab_name"`
	Seats    int    `json:"seats"`
	AssetIDs []int  `json:"asset_ids,omitempty"`
}

// AllocationFinalizedEvent is published when a workstation request is
// finalized and its seat holds become committed allocations.  It
// carries enough information for downstream consumers (asset
// tracking, reporting) without querying the primary database.
type AllocationFinalizedEvent struct {
	RequestID   uint64         `json:"request_id"`
	Division    string         `json:"division"`
	Required    int            `json:"required"`
	Requestor   string         `json:"requestor"`
	Labs        []FinalizedLab `json:"labs"`
	FinalizedAt time.Time      `json:"finalized_at"`
}
