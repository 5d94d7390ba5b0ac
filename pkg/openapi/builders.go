package openapi

const (
	mediaJSON      = "application/json"
	mediaMultipart = "multipart/form-data"
	mediaBinary    = "application/octet-stream"
)

// SchemaRef references a component schema by name.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef references a component response by name.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// Integer returns an integer schema bounded below by min.
func Integer(min float64) *Schema {
	return &Schema{Type: "integer", Minimum: &min}
}

func content(media string, schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{media: {Schema: schema}}
}

// RequestBodyJSON is a JSON body of the named component schema.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{Required: required, Content: content(mediaJSON, SchemaRef(schemaName))}
}

// RequestBodyMultipart is a multipart/form-data body described by form.
func RequestBodyMultipart(form *Schema, required bool) *RequestBody {
	return &RequestBody{Required: required, Content: content(mediaMultipart, form)}
}

// ResponseJSON is a JSON response of the named component schema.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{Description: description, Content: content(mediaJSON, SchemaRef(schemaName))}
}

// ResponseBinary is a raw byte stream of any content type.
func ResponseBinary(description string) *Response {
	return &Response{
		Description: description,
		Content:     content(mediaBinary, &Schema{Type: "string", Format: "binary"}),
	}
}

// PathParam is a required UUID path parameter.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

// EnumParam is a required path parameter restricted to values.
func EnumParam(name string, values ...string) *Parameter {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   &Schema{Type: "string", Enum: enum},
	}
}

// QueryParam is a query parameter of the given JSON type.
func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "query",
		Required:    required,
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}
