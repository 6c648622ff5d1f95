// Package api embeds the registry's OpenAPI document, used for request validation and served as is.
package api

import _ "embed"

// Spec is the OpenAPI 3 document describing the registry HTTP surface.
//
//go:embed registry.openapi.yaml
var Spec []byte
