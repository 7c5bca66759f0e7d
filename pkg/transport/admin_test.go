package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/filestore"
	"github.com/cuemby/rcanvas/pkg/orchestrator"
)

func startTestServer(t *testing.T) (*httptest.Server, *orchestrator.Orchestrator, *filestore.FileStore) {
	t.Helper()
	fs, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	orch := orchestrator.New(fs)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go orch.Run(ctx)

	srv := httptest.NewServer(New(orch, fs).Handler())
	t.Cleanup(srv.Close)
	return srv, orch, fs
}

func TestCreateDocumentThenListIncludesIt(t *testing.T) {
	srv, _, _ := startTestServer(t)

	resp, err := http.Post(srv.URL+"/admin/documents", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created documentDescription
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	listResp, err := http.Get(srv.URL + "/admin/documents")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var docs []documentDescription
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&docs))

	found := false
	for _, d := range docs {
		if d.FileID == created.FileID {
			found = true
		}
	}
	assert.True(t, found, "created document should appear in the list")
}

func TestGetDocumentUnknownFileReturnsNotFound(t *testing.T) {
	srv, _, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/admin/documents/" + uuid.New().String())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpenSessionThenGetReportsOnlineManualBehavior(t *testing.T) {
	srv, _, _ := startTestServer(t)
	fileID := uuid.New()

	resp, err := http.Post(srv.URL+"/admin/documents/"+fileID.String()+"/session", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/admin/documents/" + fileID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var desc documentDescription
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&desc))
	assert.True(t, desc.Online)
	assert.Equal(t, "manual_commit_by_admin", desc.Behavior)
}

func TestOpenSessionTwiceConflicts(t *testing.T) {
	srv, _, _ := startTestServer(t)
	fileID := uuid.New()

	resp1, err := http.Post(srv.URL+"/admin/documents/"+fileID.String()+"/session", "application/json", nil)
	require.NoError(t, err)
	resp1.Body.Close()
	require.Equal(t, http.StatusCreated, resp1.StatusCode)

	resp2, err := http.Post(srv.URL+"/admin/documents/"+fileID.String()+"/session", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestCloseSessionThenGetReportsOffline(t *testing.T) {
	srv, _, _ := startTestServer(t)
	fileID := uuid.New()

	resp, err := http.Post(srv.URL+"/admin/documents/"+fileID.String()+"/session", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/admin/documents/"+fileID.String()+"/session", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	getResp, err := http.Get(srv.URL + "/admin/documents/" + fileID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var desc documentDescription
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&desc))
	assert.False(t, desc.Online)
}

func TestCommitWithNoOpenSessionNotFound(t *testing.T) {
	srv, _, _ := startTestServer(t)
	fileID := uuid.New()

	resp, err := http.Post(srv.URL+"/admin/documents/"+fileID.String()+"/commit", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetDocumentInvalidFileIDBadRequest(t *testing.T) {
	srv, _, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/admin/documents/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
