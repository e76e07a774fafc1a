package swagger

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/agri-gov-api/pkg/response"
)

// The doc is maintained by hand, so at least make sure it stays valid JSON
// and its Pagination definition tracks the envelope type.
func TestDocTemplateIsValidJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(docTemplate), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc, "paths")
	assert.Contains(t, doc, "definitions")
}

func TestPaginationDefinitionMatchesEnvelope(t *testing.T) {
	var doc struct {
		Definitions map[string]struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(docTemplate), &doc))

	def, ok := doc.Definitions["Pagination"]
	require.True(t, ok, "Pagination definition missing")

	typ := reflect.TypeOf(response.Pagination{})
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		assert.Contains(t, def.Properties, tag, "documented Pagination is missing field %q", tag)
	}
}
