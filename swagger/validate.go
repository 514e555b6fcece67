package swagger

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/go-openapi/jsonpointer"
	"github.com/xeipuuv/gojsonschema"
)

// Issue sources.
const (
	IssueDocument  = "document"
	IssueSchema    = "openapi"
	IssueReference = "reference"
	IssueExample   = "example"
)

// Issue is a problem found while validating a generated document.
type Issue struct {
	Source  string
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Source + ": " + i.Message
	}
	return i.Source + ": " + i.Path + ": " + i.Message
}

// ValidateDocument checks a serialized Swagger 2.0 document. The document
// is converted to OpenAPI 3 and validated, every $ref must resolve inside
// the document and definition examples must satisfy their schema. An empty
// result means no issue was found.
func ValidateDocument(ctx context.Context, data []byte) []Issue {
	var doc openapi2.T
	if err := json.Unmarshal(data, &doc); err != nil {
		return []Issue{{Source: IssueDocument, Message: err.Error()}}
	}

	var issues []Issue

	if doc.Swagger != Version {
		issues = append(issues, Issue{Source: IssueDocument, Path: "/swagger", Message: "swagger version must be " + Version})
	}

	converted, err := openapi2conv.ToV3(&doc)
	if err != nil {
		issues = append(issues, Issue{Source: IssueSchema, Message: err.Error()})
	} else if err := converted.Validate(ctx); err != nil {
		issues = append(issues, Issue{Source: IssueSchema, Message: err.Error()})
	}

	tree, err := decodeTree(data)
	if err != nil {
		return append(issues, Issue{Source: IssueDocument, Message: err.Error()})
	}

	issues = append(issues, checkReferences(tree)...)
	issues = append(issues, checkExamples(data)...)

	return issues
}

// checkReferences reports every $ref that does not resolve in the tree.
func checkReferences(root any) []Issue {
	var issues []Issue

	var walk func(v any, at string)
	walk = func(v any, at string) {
		switch node := v.(type) {
		case *OrderedMap[any]:
			for _, key := range node.Keys() {
				child, _ := node.Get(key)
				if key == "$ref" {
					if ref, ok := child.(string); ok {
						if err := resolvePointer(root, ref); err != nil {
							issues = append(issues, Issue{Source: IssueReference, Path: at, Message: err.Error()})
						}
					}
					continue
				}
				walk(child, at+"/"+escapePointer(key))
			}
		case []any:
			for i, child := range node {
				walk(child, at+"/"+jsonIndex(i))
			}
		}
	}

	walk(root, "")
	return issues
}

func resolvePointer(root any, ref string) error {
	pointer, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return &DereferenceError{Pointer: ref, Reason: "only local references are supported"}
	}

	ptr, err := jsonpointer.New(pointer)
	if err != nil {
		return err
	}

	_, _, err = ptr.Get(root)
	return err
}

// checkExamples validates definition examples against their definition.
// The definitions section is embedded in each schema so that $refs resolve.
func checkExamples(data []byte) []Issue {
	var doc struct {
		Definitions map[string]map[string]any `json:"definitions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Definitions) == 0 {
		return nil
	}

	all := make(map[string]any, len(doc.Definitions))
	for name, def := range doc.Definitions {
		all[name] = def
	}

	var issues []Issue
	for _, name := range slices.Sorted(maps.Keys(doc.Definitions)) {
		def := doc.Definitions[name]
		example, ok := def["example"]
		if !ok {
			continue
		}

		schemaDoc := maps.Clone(def)
		schemaDoc["definitions"] = all

		at := "/definitions/" + escapePointer(name) + "/example"

		result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schemaDoc), gojsonschema.NewGoLoader(example))
		if err != nil {
			issues = append(issues, Issue{Source: IssueExample, Path: at, Message: err.Error()})
			continue
		}

		for _, desc := range result.Errors() {
			issues = append(issues, Issue{
				Source:  IssueExample,
				Path:    at,
				Message: desc.Field() + ": " + desc.Description(),
			})
		}
	}

	return issues
}
