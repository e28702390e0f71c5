// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the planner, ledger and profile services, translating HTTP concerns
// to schedule and completion operations.
package api
