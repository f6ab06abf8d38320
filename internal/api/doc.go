// Package api handles incoming HTTP requests for the task collection:
// routing, request decoding and validation, and response formatting. It
// translates HTTP concerns into TaskService calls and maps service errors
// back to status codes without exposing internal details.
package api
