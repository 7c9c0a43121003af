// Package handler implements the JSON health and readiness handlers.
package handler
