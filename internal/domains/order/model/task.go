package model

const TypeCleanupUnfinished = "order:cleanup_unfinished"

// CleanupPayload selects unfinished orders older than OlderThanMinutes.
// Zero falls back to the worker's configured TTL.
type CleanupPayload struct {
	OlderThanMinutes int `json:"older_than_minutes"`
}
