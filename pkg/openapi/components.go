package openapi

import "maps"

// errorResponses lists the shared error responses by component name.
var errorResponses = map[string]string{
	"BadRequest":          "Invalid request",
	"Unauthorized":        "Authentication required or bearer token rejected",
	"NotFound":            "Resource not found",
	"Conflict":            "Resource conflict",
	"PayloadTooLarge":     "Upload exceeds the configured size limit",
	"BadGateway":          "The model returned an unusable response",
	"ServiceUnavailable":  "Analysis backend not configured or every model failed",
	"InternalServerError": "Unexpected server error",
}

// NewComponents returns Components seeded with the Error and PageRequest
// schemas and one JSON error response per entry in errorResponses.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error":      {Type: "string", Description: "Error message"},
					"request_id": {Type: "string", Description: "Matches the X-Request-ID response header"},
				},
				Required: []string{"error"},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated fields, - prefix for descending. Example: -created_at"},
				},
			},
		},
		Responses: make(map[string]*Response, len(errorResponses)),
	}

	for name, description := range errorResponses {
		c.Responses[name] = ResponseJSON(description, "Error")
	}
	return c
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
