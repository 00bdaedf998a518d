// Package binding collects request validation failures and serializes them
// for transport in a response header.
package binding

import (
	"encoding/json"
	"fmt"
)

// Header is the response header that carries serialized validation errors.
// Clients depend on reading failures from this header rather than the body,
// so the CORS layer must expose it.
const Header = "errors"

// Error describes a single rejected field.
type Error struct {
	ObjectName   string `json:"objectName"`
	FieldName    string `json:"fieldName"`
	FieldValue   string `json:"fieldValue"`
	ErrorMessage string `json:"errorMessage"`
}

// Errors accumulates validation failures in the order they were recorded.
type Errors struct {
	errors []Error
}

// NewErrors creates an empty aggregator for requests without identity
// constraints.
func NewErrors() *Errors {
	return &Errors{}
}

// NewErrorsWithID creates an aggregator for create requests, where the body
// must not carry an identity. A zero id means unassigned.
func NewErrorsWithID(bodyID int) *Errors {
	e := &Errors{}
	if bodyID != 0 {
		e.addBodyIDError(bodyID, "must not be specified")
	}
	return e
}

// NewErrorsWithIDs creates an aggregator for update requests, where a body
// identity, if present, must match the path identity.
func NewErrorsWithIDs(pathID, bodyID int) *Errors {
	e := &Errors{}
	if pathID != 0 && bodyID != 0 && pathID != bodyID {
		e.addBodyIDError(bodyID, fmt.Sprintf("does not match pathId: %d", pathID))
	}
	return e
}

func (e *Errors) addBodyIDError(bodyID int, message string) {
	e.Add("body", "id", fmt.Sprintf("%d", bodyID), message)
}

// Add records a field failure. Order of addition is preserved in the
// serialized output.
func (e *Errors) Add(objectName, fieldName, fieldValue, errorMessage string) {
	e.errors = append(e.errors, Error{
		ObjectName:   objectName,
		FieldName:    fieldName,
		FieldValue:   fieldValue,
		ErrorMessage: errorMessage,
	})
}

// Empty reports whether no failures have been recorded.
func (e *Errors) Empty() bool {
	return len(e.errors) == 0
}

// ToJSON serializes the accumulated failures as a compact single-line JSON
// array, suitable for a header value.
func (e *Errors) ToJSON() (string, error) {
	list := e.errors
	if list == nil {
		list = []Error{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode binding errors: %w", err)
	}
	return string(b), nil
}
