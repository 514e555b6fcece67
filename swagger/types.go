package swagger

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Version is the value of the "swagger" field of every generated document.
const Version = "2.0"

// Document represents the root of a Swagger 2.0 document. Paths and
// definitions keep insertion order when serialized.
//
// See: https://swagger.io/specification/v2/#swagger-object
type Document struct {
	Swagger             string                     `json:"swagger"`
	Info                Info                       `json:"info"`
	Host                string                     `json:"host,omitempty"`
	BasePath            string                     `json:"basePath,omitempty"`
	Schemes             []string                   `json:"schemes,omitempty"`
	Consumes            []string                   `json:"consumes,omitempty"`
	Produces            []string                   `json:"produces,omitempty"`
	Tags                []Tag                      `json:"tags,omitempty"`
	Paths               *OrderedMap[*PathItem]     `json:"paths"`
	Definitions         *OrderedMap[*Schema]       `json:"definitions,omitempty"`
	SecurityDefinitions map[string]*SecurityScheme `json:"securityDefinitions,omitempty"`
	Security            []SecurityRequirement      `json:"security,omitempty"`
	ExternalDocs        *ExternalDocs              `json:"externalDocs,omitempty"`
	XAltDefinitions     *OrderedMap[*Schema]       `json:"x-alt-definitions,omitempty"`
}

// Info provides metadata about the API. Extensions holds x-* keys.
//
// See: https://swagger.io/specification/v2/#info-object
type Info struct {
	Title          string         `json:"title" yaml:"title" validate:"required"`
	Description    string         `json:"description,omitempty" yaml:"description"`
	TermsOfService string         `json:"termsOfService,omitempty" yaml:"termsOfService" validate:"omitempty,url"`
	Contact        *Contact       `json:"contact,omitempty" yaml:"contact"`
	License        *License       `json:"license,omitempty" yaml:"license"`
	Version        string         `json:"version" yaml:"version" validate:"required"`
	Extensions     map[string]any `json:"-" yaml:",inline"`
}

// MarshalJSON appends x-* extensions to the info object.
func (i Info) MarshalJSON() ([]byte, error) {
	type alias Info
	return marshalWithExtensions(alias(i), i.Extensions)
}

// Contact represents contact information for the API.
//
// See: https://swagger.io/specification/v2/#contact-object
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name"`
	URL   string `json:"url,omitempty" yaml:"url" validate:"omitempty,url"`
	Email string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
}

// License represents license information for the API.
//
// See: https://swagger.io/specification/v2/#license-object
type License struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	URL  string `json:"url,omitempty" yaml:"url" validate:"omitempty,url"`
}

// Tag adds metadata to a tag used by operations.
//
// See: https://swagger.io/specification/v2/#tag-object
type Tag struct {
	Name         string        `json:"name" yaml:"name" validate:"required"`
	Description  string        `json:"description,omitempty" yaml:"description"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty" yaml:"externalDocs"`
}

// ExternalDocs references external documentation.
//
// See: https://swagger.io/specification/v2/#external-documentation-object
type ExternalDocs struct {
	Description string `json:"description,omitempty" yaml:"description"`
	URL         string `json:"url" yaml:"url" validate:"required,url"`
}

// PathItem maps lower-case HTTP methods to operations.
//
// See: https://swagger.io/specification/v2/#path-item-object
type PathItem = OrderedMap[*Operation]

// Operation describes a single API operation on a path. Extensions holds
// x-* keys supplied by route options.
//
// See: https://swagger.io/specification/v2/#operation-object
type Operation struct {
	Tags         []string               `json:"tags,omitempty"`
	Summary      string                 `json:"summary,omitempty"`
	Description  string                 `json:"description,omitempty"`
	ExternalDocs *ExternalDocs          `json:"externalDocs,omitempty"`
	OperationID  string                 `json:"operationId,omitempty"`
	Consumes     []string               `json:"consumes,omitempty"`
	Produces     []string               `json:"produces,omitempty"`
	Parameters   []*Parameter           `json:"parameters,omitempty"`
	Responses    *OrderedMap[*Response] `json:"responses"`
	Schemes      []string               `json:"schemes,omitempty"`
	Deprecated   bool                   `json:"deprecated,omitempty"`
	Security     []SecurityRequirement  `json:"security,omitempty"`
	Extensions   map[string]any         `json:"-"`
}

// MarshalJSON appends x-* extensions to the operation object.
func (o Operation) MarshalJSON() ([]byte, error) {
	type alias Operation
	return marshalWithExtensions(alias(o), o.Extensions)
}

// Parameter describes a single operation parameter. Body parameters carry
// a Schema; all others describe their value inline.
//
// See: https://swagger.io/specification/v2/#parameter-object
type Parameter struct {
	Name             string   `json:"name"`
	In               string   `json:"in"`
	Description      string   `json:"description,omitempty"`
	Required         bool     `json:"required,omitempty"`
	Schema           *Schema  `json:"schema,omitempty"`
	Type             string   `json:"type,omitempty"`
	Format           string   `json:"format,omitempty"`
	AllowEmptyValue  bool     `json:"allowEmptyValue,omitempty"`
	Items            *Schema  `json:"items,omitempty"`
	CollectionFormat string   `json:"collectionFormat,omitempty"`
	Default          any      `json:"default,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	MinLength        *int     `json:"minLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
	Enum             []any    `json:"enum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
}

// Response describes a single response from an API operation.
//
// See: https://swagger.io/specification/v2/#response-object
type Response struct {
	Description string               `json:"description"`
	Schema      *Schema              `json:"schema,omitempty"`
	Headers     *OrderedMap[*Header] `json:"headers,omitempty"`
	Examples    map[string]any       `json:"examples,omitempty"`
}

// Header describes a response header.
//
// See: https://swagger.io/specification/v2/#header-object
type Header struct {
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Format      string   `json:"format,omitempty"`
	Items       *Schema  `json:"items,omitempty"`
	Default     any      `json:"default,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
}

// Schema is the Swagger 2.0 subset of JSON Schema draft 4. XAlternatives
// and XConstraint are vendor extensions emitted when x-properties are on;
// Extensions carries x-* metadata copied from the source schema.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref                  string               `json:"$ref,omitempty"`
	Type                 string               `json:"type,omitempty"`
	Format               string               `json:"format,omitempty"`
	Title                string               `json:"title,omitempty"`
	Description          string               `json:"description,omitempty"`
	Default              any                  `json:"default,omitempty"`
	Example              any                  `json:"example,omitempty"`
	Enum                 []any                `json:"enum,omitempty"`
	Maximum              *float64             `json:"maximum,omitempty"`
	ExclusiveMaximum     bool                 `json:"exclusiveMaximum,omitempty"`
	Minimum              *float64             `json:"minimum,omitempty"`
	ExclusiveMinimum     bool                 `json:"exclusiveMinimum,omitempty"`
	MultipleOf           *float64             `json:"multipleOf,omitempty"`
	MaxLength            *int                 `json:"maxLength,omitempty"`
	MinLength            *int                 `json:"minLength,omitempty"`
	Pattern              string               `json:"pattern,omitempty"`
	Items                *Schema              `json:"items,omitempty"`
	MaxItems             *int                 `json:"maxItems,omitempty"`
	MinItems             *int                 `json:"minItems,omitempty"`
	UniqueItems          bool                 `json:"uniqueItems,omitempty"`
	MaxProperties        *int                 `json:"maxProperties,omitempty"`
	MinProperties        *int                 `json:"minProperties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	Properties           *OrderedMap[*Schema] `json:"properties,omitempty"`
	AdditionalProperties *Schema              `json:"additionalProperties,omitempty"`
	ReadOnly             bool                 `json:"readOnly,omitempty"`
	XAlternatives        []*Schema            `json:"x-alternatives,omitempty"`
	XConstraint          map[string]any       `json:"x-constraint,omitempty"`
	Extensions           map[string]any       `json:"-"`
}

// MarshalJSON appends x-* extensions to the schema object.
func (s Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	return marshalWithExtensions(alias(s), s.Extensions)
}

// SecurityScheme defines a security scheme usable by operations.
// The "type" field is one of "basic", "apiKey" or "oauth2".
//
// See: https://swagger.io/specification/v2/#security-scheme-object
type SecurityScheme struct {
	Type             string            `json:"type" yaml:"type" validate:"oneof=basic apiKey oauth2"`
	Description      string            `json:"description,omitempty" yaml:"description"`
	Name             string            `json:"name,omitempty" yaml:"name" validate:"required_if=Type apiKey"`
	In               string            `json:"in,omitempty" yaml:"in" validate:"omitempty,oneof=query header"`
	Flow             string            `json:"flow,omitempty" yaml:"flow" validate:"omitempty,oneof=implicit password application accessCode"`
	AuthorizationURL string            `json:"authorizationUrl,omitempty" yaml:"authorizationUrl" validate:"omitempty,url"`
	TokenURL         string            `json:"tokenUrl,omitempty" yaml:"tokenUrl" validate:"omitempty,url"`
	Scopes           map[string]string `json:"scopes,omitempty" yaml:"scopes"`
}

// SecurityRequirement maps security scheme names to required scopes.
//
// See: https://swagger.io/specification/v2/#security-requirement-object
type SecurityRequirement map[string][]string

// marshalWithExtensions serializes v and splices the x-* entries of ext
// into the resulting object in sorted key order.
func marshalWithExtensions(v any, ext map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(ext) == 0 {
		return data, err
	}

	keys := make([]string, 0, len(ext))
	for k := range ext {
		if strings.HasPrefix(k, "x-") {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	empty := len(data) == 2

	for _, k := range keys {
		value, err := json.Marshal(ext[k])
		if err != nil {
			return nil, err
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false

		name, _ := json.Marshal(k)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
