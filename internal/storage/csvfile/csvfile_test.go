package csvfile

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesclean/internal/datasource/file"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

func TestSink_WritesLayoutPath(t *testing.T) {
	layout := file.DefaultLayout(t.TempDir())
	s, err := storage.New(context.Background(), storage.Config{Kind: "csv", Layout: layout})
	require.NoError(t, err)
	defer s.Close()

	ds := records.Dataset{
		Name:    "geo_locations",
		Columns: []string{"country_code", "country_name", "region"},
		Rows: []records.Record{
			{"country_code": "CI", "country_name": "Côte d'Ivoire", "region": "EMEA"},
			{"country_code": "ZZ", "country_name": nil, "region": nil},
		},
	}
	n, err := s.Write(context.Background(), ds)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := os.ReadFile(layout.Output("geo_locations"))
	require.NoError(t, err)
	assert.Equal(t, "country_code,country_name,region\nCI,Côte d'Ivoire,EMEA\nZZ,,\n", string(got))
}
