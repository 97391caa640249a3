// Package contract embeds the OpenAPI description of the EduPlay admin API
// and checks requests and client endpoints against it.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

//go:embed openapi.yaml
var document []byte

// Document returns the raw OpenAPI YAML.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Contract is a parsed and validated API description.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
}

// Load parses the embedded document, validates it and builds a router over
// its paths. Paths are relative to the API base URL.
func Load(ctx context.Context) (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeAPIContract, "failed to load API contract", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeAPIContract, "invalid API contract", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, conerr.Wrap(conerr.ErrCodeAPIContract, "failed to build contract router", err)
	}

	return &Contract{doc: doc, router: router}, nil
}

// Version returns the contract's info.version.
func (c *Contract) Version() string {
	return c.doc.Info.Version
}

// Operations returns the methods declared for every path.
func (c *Contract) Operations() map[string][]string {
	summary := make(map[string][]string)
	if c.doc.Paths == nil {
		return summary
	}

	for path, item := range c.doc.Paths.Map() {
		methods := make([]string, 0, 4)
		for method := range item.Operations() {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		if len(methods) > 0 {
			summary[path] = methods
		}
	}
	return summary
}

// HasOperation reports whether method and path are declared. Path segments
// in braces match any declared parameter.
func (c *Contract) HasOperation(method, path string) bool {
	path = normalizePath(path)
	item := c.doc.Paths.Find(path)
	if item == nil {
		item = c.findPathWithParams(path)
	}
	if item == nil {
		return false
	}
	return item.GetOperation(strings.ToUpper(method)) != nil
}

// Finding is one mismatch between the console and the contract.
type Finding struct {
	Code     string `json:"code" yaml:"code"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Method   string `json:"method" yaml:"method"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
}

// CheckEndpoints verifies that every operation an endpoint supports is in
// the contract.
func (c *Contract) CheckEndpoints(endpoints []resource.Endpoint) []Finding {
	var findings []Finding

	check := func(e resource.Endpoint, method, path string) {
		if c.HasOperation(method, path) {
			return
		}
		findings = append(findings, Finding{
			Code:     "MISSING_OPERATION",
			Endpoint: e.Name,
			Method:   method,
			Path:     path,
			Message:  fmt.Sprintf("%s %s is not declared in the API contract", method, path),
		})
	}

	for _, e := range endpoints {
		check(e, http.MethodGet, e.ListPath)
		if e.CanCreate() {
			check(e, http.MethodPost, e.CreatePath)
		}
		if e.CanModify() {
			item := strings.TrimRight(e.ItemPath, "/") + "/{id}"
			check(e, http.MethodPut, item)
			check(e, http.MethodDelete, item)
		}
	}
	return findings
}

// ErrUnknownRoute is returned by ValidateRequest for undeclared operations.
var ErrUnknownRoute = errors.New("operation not declared in API contract")

// ValidateRequest checks r's path, parameters and body against the
// contract. r.URL.Path must be relative to the API base. Authentication is
// left to the caller.
func (c *Contract) ValidateRequest(ctx context.Context, r *http.Request) error {
	route, pathParams, err := c.router.FindRoute(r)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, r.URL.Path, ErrUnknownRoute)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	return openapi3filter.ValidateRequest(ctx, input)
}

// findPathWithParams matches a path whose parameter names may differ from
// the contract's.
func (c *Contract) findPathWithParams(requestPath string) *openapi3.PathItem {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")

	for specPath, item := range c.doc.Paths.Map() {
		specSegments := strings.Split(strings.Trim(specPath, "/"), "/")
		if len(requestSegments) != len(specSegments) {
			continue
		}

		match := true
		for i := range requestSegments {
			if isParam(specSegments[i]) || isParam(requestSegments[i]) {
				continue
			}
			if requestSegments[i] != specSegments[i] {
				match = false
				break
			}
		}
		if match {
			return item
		}
	}
	return nil
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

func normalizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
