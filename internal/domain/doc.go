// Package domain contains the task entity and the rules that govern it:
// status values, creation defaults, partial-update merging and timestamp
// normalization. It has no knowledge of HTTP or storage.
package domain
