// Package store defines the TaskStore persistence contract and the errors
// every storage engine reports through it. Engines live under
// internal/platform; the storetest subpackage holds the behavior suite they
// all must pass.
package store
