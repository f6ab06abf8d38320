// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the task
// store (defined in internal/store) to fulfill application features.
//
// Every write runs inside store.TaskStore.RunInTx, so a failure part way
// through an operation leaves no partial change behind. Errors are wrapped in
// TaskServiceError; callers match the underlying store and domain errors with
// errors.Is/errors.As.
package service
