package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a parsed OpenAPI document.
type Document struct {
	spec *openapi3.T
}

// Parse loads a JSON or YAML OpenAPI payload.
func Parse(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// Load reads and parses a document from disk.
func Load(ctx context.Context, path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("openapi: document path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Parse(ctx, raw)
}

// LoadFS reads and parses a document from an fs.FS.
func LoadFS(ctx context.Context, files fs.FS, name string) (*Document, error) {
	if files == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Parse(ctx, raw)
}

// Components lists the schema component names in sorted order.
func (d *Document) Components() []string {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operations lists the operation ids that carry a request body schema.
// Operations without an id are listed as "<method>:<path>".
func (d *Document) Operations() []string {
	var ids []string
	d.eachOperation(func(id string, op *openapi3.Operation) bool {
		if requestSchema(op.RequestBody) != nil {
			ids = append(ids, id)
		}
		return true
	})
	sort.Strings(ids)
	return ids
}

func (d *Document) component(name string) (*openapi3.Schema, error) {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}
	return ref.Value, nil
}

func (d *Document) operation(operationID string) (*openapi3.Schema, error) {
	var found *openapi3.Operation
	d.eachOperation(func(id string, op *openapi3.Operation) bool {
		if id == operationID {
			found = op
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	schema := requestSchema(found.RequestBody)
	if schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}
	return schema, nil
}

func (d *Document) eachOperation(fn func(id string, op *openapi3.Operation) bool) {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if !fn(id, op) {
				return
			}
		}
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
