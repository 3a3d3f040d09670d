package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Storage adapters return these
// (optionally wrapped) so services can translate them into domain behavior.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: blob does not exist in the store
// - ErrUnavailable: storage temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
