package report_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitbloat/pkg/report"
)

type schemaNode struct {
	Type       string                 `json:"type"`
	Properties map[string]*schemaNode `json:"properties"`
	Items      *schemaNode            `json:"items"`
	Required   []string               `json:"required"`
}

// jsonFields returns the JSON names of the exported fields of t.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)

	for _, field := range reflect.VisibleFields(t) {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		fields[name] = field.Type
	}

	return fields
}

// assertCovers checks that node declares and requires every field of t,
// recursing into nested structs and slices of structs.
func assertCovers(t *testing.T, path string, node *schemaNode, typ reflect.Type) {
	t.Helper()

	fields := jsonFields(typ)
	assert.Len(t, node.Properties, len(fields), "%s: schema properties vs struct fields", path)

	for name, fieldType := range fields {
		child, ok := node.Properties[name]
		if !assert.True(t, ok, "%s.%s missing from schema", path, name) {
			continue
		}

		assert.Contains(t, node.Required, name, "%s.%s not required", path, name)

		switch fieldType.Kind() {
		case reflect.Struct:
			assertCovers(t, path+"."+name, child, fieldType)
		case reflect.Slice:
			if fieldType.Elem().Kind() == reflect.Struct && assert.NotNil(t, child.Items, "%s.%s items", path, name) {
				assertCovers(t, path+"."+name+"[]", child.Items, fieldType.Elem())
			}
		}
	}
}

func TestSchemaCoversReport(t *testing.T) {
	t.Parallel()

	var root schemaNode
	require.NoError(t, json.Unmarshal(report.Schema(), &root))

	assertCovers(t, "report", &root, reflect.TypeFor[report.Report]())
}
