package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	paths := doc["paths"].(map[string]any)
	require.Contains(t, paths, "/timetables/generate")
	require.Contains(t, paths, "/timetables/{id}/approve")
}
