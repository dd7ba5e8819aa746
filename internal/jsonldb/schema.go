package jsonldb

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of a document holding rows of type T.
//
// T must be a struct or a pointer to a struct. Properties are inlined (no
// $ref) so the schema is self-contained.
func Schema[T any]() (*jsonschema.Schema, error) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
		}
		t = t.Elem()
	case reflect.Struct:
		// ok
	default:
		return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}

	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true, ExpandedStruct: true}
	item := r.ReflectFromType(t)
	item.Version = ""
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		Type:    "array",
		Items:   item,
	}, nil
}
