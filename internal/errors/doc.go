// Package errors provides structured, coded errors for the nocta CLI.
//
// Every user-facing failure carries a stable code (e.g., "E003"), a short
// message, optional detail and a fix suggestion:
//
//	return errors.New("E003").
//		WithDetail("Component 'button' not found in registry").
//		WithSuggestion("Run 'nocta list' to see available components")
//
// Errors wrap underlying causes and support errors.Is/As via Unwrap.
package errors
