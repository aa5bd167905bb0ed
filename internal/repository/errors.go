// Package repository provides data access to the MySQL tables backing
// the allocation tool.  Sentinel errors defined here let handlers
// distinguish failure scenarios, e.g. translating a not-found into a
// 404 instead of a generic database error.
package repository

import "errors"

var (
	// ErrOfficeNotFound is returned when an office ID has no row.
	ErrOfficeNotFound = errors.New("office not found")
	// ErrFloorNotFound is returned when a floor ID has no row.
	ErrFloorNotFound = errors.New("floor not found")
	// ErrLabNotFound is returned when a lab ID has no row.
	ErrLabNotFound = errors.New("lab not found")
	// ErrRequestNotFound is returned when a request ID has no row.
	ErrRequestNotFound = errors.New("request not found")
	// ErrUserNotFound is returned when an email has no user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrHoldNotFound is returned when an update targets a pending
	// seat hold that no longer exists.
	ErrHoldNotFound = errors.New("seat hold not found")
)
