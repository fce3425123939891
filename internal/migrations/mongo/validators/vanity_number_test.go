package validators

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"vanity/pkg/model"
)

func recordFields(t *testing.T) map[string]bool {
	t.Helper()
	fields := make(map[string]bool)
	typ := reflect.TypeOf(model.VanityRecord{})
	for i := 0; i < typ.NumField(); i++ {
		name := strings.Split(typ.Field(i).Tag.Get("bson"), ",")[0]
		require.NotEmpty(t, name)
		fields[name] = true
	}
	return fields
}

func TestVanityNumberValidator_MatchesRecord(t *testing.T) {
	fields := recordFields(t)
	schema := VanityNumberValidator["$jsonSchema"].(bson.M)

	properties := schema["properties"].(bson.M)
	assert.Len(t, properties, len(fields))
	for name := range properties {
		assert.True(t, fields[name], "schema property %q has no record field", name)
	}

	for _, name := range schema["required"].([]string) {
		assert.True(t, fields[name], "required property %q has no record field", name)
	}
}
