package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxTaskBodyBytes = 1 << 20

// taskPayloadSchema checks type shape only: no length or content rules.
const taskPayloadSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"id": {"type": "integer", "minimum": 0, "maximum": 4294967295},
		"title": {"type": "string"},
		"completed": {"type": "boolean"}
	},
	"required": ["title", "completed"]
}`

var taskSchema = jsonschema.MustCompileString("https://taskapi.local/schemas/task.json", taskPayloadSchema)

// taskPayload is the create/update request body. ID is parsed and ignored.
type taskPayload struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// bodyError carries the error code reported to the client.
type bodyError struct {
	Code string
	Err  error
}

func (e *bodyError) Error() string { return e.Err.Error() }
func (e *bodyError) Unwrap() error { return e.Err }

var errEmptyBody = errors.New("empty body")

func decodeTaskPayload(r *http.Request) (taskPayload, error) {
	if r.Body == nil {
		return taskPayload{}, &bodyError{Code: "invalid_request", Err: errEmptyBody}
	}
	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxTaskBodyBytes+1))
	if err != nil {
		return taskPayload{}, &bodyError{Code: "invalid_request", Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > maxTaskBodyBytes {
		return taskPayload{}, &bodyError{Code: "invalid_request", Err: errors.New("body too large")}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return taskPayload{}, &bodyError{Code: "invalid_request", Err: errEmptyBody}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return taskPayload{}, &bodyError{Code: "invalid_request", Err: fmt.Errorf("invalid json: %w", err)}
	}
	if err := taskSchema.Validate(doc); err != nil {
		return taskPayload{}, &bodyError{Code: "invalid_task", Err: schemaError(err)}
	}

	var p taskPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return taskPayload{}, &bodyError{Code: "invalid_task", Err: err}
	}
	return p, nil
}

// schemaError flattens a validation error tree into "location: message" parts.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var parts []string
	collectSchemaErrors(ve, &parts)
	if len(parts) == 0 {
		return errors.New(ve.Message)
	}
	return errors.New(strings.Join(parts, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, parts *[]string) {
	if len(err.Causes) == 0 {
		loc := strings.TrimPrefix(err.InstanceLocation, "/")
		if loc == "" {
			loc = "body"
		}
		*parts = append(*parts, loc+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, parts)
	}
}
