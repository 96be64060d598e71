// Package domain holds DTOs and ports for the quota tracker
package domain

// DenyKind discriminates which limit a denied admission hit
type DenyKind string

const (
	// DenyDaily means the global daily cap is exhausted
	DenyDaily DenyKind = "daily"

	// DenyPerCaller means the caller's sliding window is full
	DenyPerCaller DenyKind = "per_caller"

	// DenyBurst means the caller exceeded the short burst sub-window
	DenyBurst DenyKind = "burst"
)

// DailyUsage is the global daily counter snapshot
type DailyUsage struct {
	Limit     int    `json:"limit" example:"30"`
	Used      int    `json:"used" example:"7"`
	Remaining int    `json:"remaining" example:"23"`
	Date      string `json:"date" example:"2026-08-29"`
}

// PerCallerUsage describes the per-caller sliding window policy
type PerCallerUsage struct {
	Max      int   `json:"max" example:"3"`
	WindowMs int64 `json:"windowMs" example:"3600000"`
}

// Usage is the non-mutating snapshot served from the health surface
type Usage struct {
	PerUser PerCallerUsage `json:"perUser"`
	Daily   DailyUsage     `json:"daily"`
}
