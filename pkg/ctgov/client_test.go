package ctgov

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trialmap/internal/model"
)

func TestSearch_Pagination(t *testing.T) {
	var terms []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terms = append(terms, r.URL.Query().Get("query.term"))
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{
				"studies": [
					{"protocolSection": {"identificationModule": {"nctId": "NCT00000001"}}},
					{"protocolSection": {"identificationModule": {"nctId": "NCT00000002"}}}
				],
				"nextPageToken": "page2"
			}`)
		case "page2":
			fmt.Fprint(w, `{
				"studies": [
					{"protocolSection": {"identificationModule": {"nctId": "NCT00000003"}}}
				]
			}`)
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithPageSize(2))
	studies, err := client.Search(context.Background(), "fitzpatrick", "United States")
	require.NoError(t, err)
	require.Len(t, studies, 3)
	assert.Equal(t, "NCT00000001", studies[0].NCTID())
	assert.Equal(t, "NCT00000003", studies[2].NCTID())

	require.Len(t, terms, 2)
	assert.Equal(t,
		`AREA[EligibilityCriteria](fitzpatrick) AND SEARCH[Location](AREA[LocationCountry]"United States")`,
		terms[0])
}

func TestSearch_MidPaginationErrorKeepsFetchedPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{
				"studies": [{"protocolSection": {"identificationModule": {"nctId": "NCT00000001"}}}],
				"nextPageToken": "page2"
			}`)
			return
		}
		http.Error(w, "upstream failure", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	studies, err := client.Search(context.Background(), "fitzpatrick", "United States")
	require.Error(t, err)
	assert.Len(t, studies, 1)
	assert.Equal(t, "NCT00000001", studies[0].NCTID())
}

func TestSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	studies, err := client.Search(context.Background(), "fitzpatrick", "United States")
	assert.Error(t, err)
	assert.Empty(t, studies)
}

func TestSaveLoadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raw.json")
	studies := []model.StudyRecord{
		{ProtocolSection: model.ProtocolSection{
			Identification: model.IdentificationModule{NCTID: "NCT00000001"},
			Eligibility:    &model.EligibilityModule{EligibilityCriteria: "Fitzpatrick II."},
		}},
	}

	require.NoError(t, SaveRaw(path, studies))

	loaded, err := LoadRaw(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "NCT00000001", loaded[0].NCTID())
	assert.Equal(t, "Fitzpatrick II.", loaded[0].EligibilityCriteria())

	// The wrapper key matches the registry's own search response shape.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"studies"`)
}

func TestLoadRaw_MissingFile(t *testing.T) {
	_, err := LoadRaw(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
