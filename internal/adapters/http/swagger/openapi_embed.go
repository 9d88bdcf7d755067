package swagger

import _ "embed"

// OpenAPI is the Ladder API document served at /openapi.yaml and rendered
// by /api-docs.
//
//go:embed openapi.yaml
var OpenAPI []byte
