package storefront

// Status tracks the lifecycle of a store's most recent asynchronous workflow.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	// StatusFulfilled marks completed cart/order workflows; the catalog store
	// reports StatusSucceeded for its fetch instead.
	StatusFulfilled Status = "fulfilled"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)
