package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"vinyl-collection/internal/domains/catalog/discogs"
	catalogHandler "vinyl-collection/internal/domains/catalog/handler"
	catalogService "vinyl-collection/internal/domains/catalog/service"
	recordHandler "vinyl-collection/internal/domains/record/handler"
	"vinyl-collection/internal/domains/record/repository"
	recordService "vinyl-collection/internal/domains/record/service"
	"vinyl-collection/internal/infrastructure/docstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type cliTestEnv struct {
	serverURL  string
	configPath string
	statePath  string
	baseDir    string
}

const fakeDiscogsPayload = `{"results":[
  {"id":1015,"title":"Boards Of Canada - Music Has The Right To Children","year":"1998","label":["Warp Records"],"format":["Vinyl","LP","Album"],"uri":"/release/1015","catno":"WARPLP55","thumb":"https://i.discogs.com/t.jpg"},
  {"id":2020,"title":"Boards Of Canada - Music Has The Right To Children","year":"2004","label":["Warp Records"],"format":["CD","Album"],"uri":"/release/2020"}
]}`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	base := t.TempDir()

	fakeDiscogs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fakeDiscogsPayload))
	}))
	t.Cleanup(fakeDiscogs.Close)

	store, err := docstore.NewFileStore(filepath.Join(base, "items.json"))
	require.NoError(t, err)
	repo := repository.NewDocumentRepository(store)
	rh := recordHandler.NewHandler(recordService.NewRecordService(repo, nil), recordService.NewBulkImportService(repo, nil))
	client, err := discogs.New("token", discogs.WithBaseURL(fakeDiscogs.URL))
	require.NoError(t, err)
	ch := catalogHandler.NewHandler(catalogService.NewLookupService(client, nil, 0, nil))

	r := gin.New()
	api := r.Group("/api")
	api.GET("/items", rh.ListRecords)
	api.POST("/items", rh.CreateRecord)
	api.POST("/items/bulk", rh.BulkImport)
	api.GET("/items/stats", rh.Summary)
	api.GET("/items/:id", rh.GetRecord)
	api.PUT("/items/:id", rh.UpdateRecord)
	api.DELETE("/items/:id", rh.DeleteRecord)
	api.GET("/discogs/search", ch.Search)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env := &cliTestEnv{
		serverURL:  srv.URL,
		configPath: filepath.Join(base, "config.toml"),
		statePath:  filepath.Join(base, "state", "undo.json"),
		baseDir:    base,
	}
	contents := "server_url = \"http://unused.invalid\"\nstate_file = \"" + env.statePath + "\"\ndefault_sort = \"year\"\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(contents), 0o644))
	return env
}

// run executes one CLI invocation, like a separate process would
func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--server", e.serverURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}
