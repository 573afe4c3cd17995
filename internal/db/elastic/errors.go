package elastic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esquery/internal/db"
)

// Engine error types mapped to db sentinels.
const (
	typeIndexNotFound = "index_not_found_exception"
	typeIndexExists   = "resource_already_exists_exception"
)

type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EngineError is an error response returned by the cluster.
type EngineError struct {
	Status int
	Type   string
	Reason string
}

func (e *EngineError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("elasticsearch status %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("elasticsearch status %d: %s: %s", e.Status, e.Type, e.Reason)
}

// Unwrap maps well-known engine error types to db sentinels.
func (e *EngineError) Unwrap() error {
	switch e.Type {
	case typeIndexNotFound:
		return db.ErrIndexNotFound
	case typeIndexExists:
		return db.ErrIndexExists
	default:
		return nil
	}
}

// responseError reads an error response into a *db.Error wrapping *EngineError.
func responseError(op string, res *esapi.Response) error {
	ee := &EngineError{Status: res.StatusCode}

	data, err := io.ReadAll(res.Body)
	if err != nil || len(data) == 0 {
		ee.Reason = "empty response body"
		return &db.Error{Op: op, Err: ee}
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Error) == 0 {
		ee.Reason = string(data)
		return &db.Error{Op: op, Err: ee}
	}

	var cause errorCause
	if err := json.Unmarshal(body.Error, &cause); err == nil {
		ee.Type, ee.Reason = cause.Type, cause.Reason
	} else {
		var reason string
		_ = json.Unmarshal(body.Error, &reason)
		ee.Reason = reason
	}
	return &db.Error{Op: op, Err: ee}
}

// IsEngineError reports whether err carries an error response from the cluster.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
