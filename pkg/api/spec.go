package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger returns the parsed and validated OpenAPI document served by this package
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading spec: %w", err)
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("error validating spec: %w", err)
	}
	return swagger, nil
}

// RawSpec returns the embedded OpenAPI document as YAML
func RawSpec() []byte {
	return openapiSpec
}
