// Package openapi builds forms from OpenAPI 3 schemas using kin-openapi. A
// form comes either from a named schema component or from the request body
// of an operation.
package openapi
