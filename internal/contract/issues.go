package contract

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
)

// Issue is one validation problem, shaped like the API's 422 detail items.
type Issue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Issues converts a ValidateRequest error into API-style detail items.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}

	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return []Issue{{Loc: []string{}, Msg: err.Error(), Type: "value_error"}}
	}

	loc := []string{"body"}
	if reqErr.Parameter != nil {
		loc = []string{reqErr.Parameter.In, reqErr.Parameter.Name}
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		return []Issue{{
			Loc:  append(loc, schemaErr.JSONPointer()...),
			Msg:  schemaErr.Reason,
			Type: "value_error",
		}}
	}

	msg := reqErr.Reason
	if msg == "" && reqErr.Err != nil {
		msg = reqErr.Err.Error()
	}
	if msg == "" {
		msg = reqErr.Error()
	}
	return []Issue{{Loc: loc, Msg: msg, Type: "value_error"}}
}
