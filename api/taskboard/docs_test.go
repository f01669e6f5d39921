package taskboard_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/taskboard/api/taskboard"
	"github.com/stretchr/testify/require"
)

type swaggerDoc struct {
	Paths map[string]map[string]struct {
		Parameters []struct {
			Name string `json:"name"`
			In   string `json:"in"`
		} `json:"parameters"`
	} `json:"paths"`
}

func TestListingRoutesDocumentPagination(t *testing.T) {
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(taskboard.SwaggerInfo.ReadDoc()), &doc))

	for _, path := range []string{
		"/user",
		"/project",
		"/project/company/{companyId}",
		"/task",
		"/task/by_project/{projectId}",
		"/task/by_asignee/{userId}",
		"/task/{projectId}",
	} {
		op, ok := doc.Paths[path]["get"]
		require.True(t, ok, path)

		query := map[string]bool{}
		for _, p := range op.Parameters {
			if p.In == "query" {
				query[p.Name] = true
			}
		}
		for _, name := range []string{"page", "size", "sort", "q"} {
			require.True(t, query[name], "%s is missing query param %s", path, name)
		}
	}
}
