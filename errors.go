package esquery

import (
	"github.com/kailas-cloud/esquery/internal/db"
	"github.com/kailas-cloud/esquery/internal/domain"
)

// Sentinel errors. Match with errors.Is.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrMalformedSpec       = domain.ErrMalformedSpec
	ErrUnsupportedOperator = domain.ErrUnsupportedOperator
	ErrUnsupportedStage    = domain.ErrUnsupportedStage
	ErrNotFound            = domain.ErrNotFound
	ErrEngine              = domain.ErrEngine
	ErrIndexExists         = db.ErrIndexExists
)
