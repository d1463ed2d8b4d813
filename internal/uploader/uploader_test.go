package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrkutin/legalacts-parser/internal/config"
	"github.com/mrkutin/legalacts-parser/internal/corpus"
	"github.com/mrkutin/legalacts-parser/pkg/types"
)

// fakeQdrant emulates the handful of REST calls the uploader makes.
type fakeQdrant struct {
	name       string
	exists     bool
	count      int
	deleted    bool
	createDim  int
	upserts    [][]Point
	seenAPIKey string
}

func (f *fakeQdrant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if k := r.Header.Get("api-key"); k != "" {
		f.seenAPIKey = k
	}
	collection := "/collections/" + f.name

	switch {
	case r.Method == http.MethodGet && r.URL.Path == collection:
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"result":{"status":"green"}}`)

	case r.Method == http.MethodDelete && r.URL.Path == collection:
		f.deleted = true
		f.exists = false
		fmt.Fprint(w, `{"result":true}`)

	case r.Method == http.MethodPut && r.URL.Path == collection:
		var body struct {
			Vectors struct {
				Size int `json:"size"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.createDim = body.Vectors.Size
		f.exists = true
		fmt.Fprint(w, `{"result":true}`)

	case r.Method == http.MethodPost && r.URL.Path == collection+"/points/count":
		fmt.Fprintf(w, `{"result":{"count":%d}}`, f.count)

	case r.Method == http.MethodPut && r.URL.Path == collection+"/points":
		var body struct {
			Points []Point `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.upserts = append(f.upserts, body.Points)
		fmt.Fprint(w, `{"result":{"status":"acknowledged"}}`)

	default:
		http.NotFound(w, r)
	}
}

// stubEmbedder returns fixed-width vectors without any HTTP round trip.
type stubEmbedder struct {
	dim int
}

func (s stubEmbedder) Dimension(context.Context) (int, error) { return s.dim, nil }

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		vec := make([]float64, s.dim)
		vec[0] = float64(i + 1)
		out[i] = vec
	}
	return out, nil
}

func writeCorpusFile(t *testing.T, dir, name string, n int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := corpus.NewWriter(path)
	require.NoError(t, err)
	defer w.Close()
	for i := 1; i <= n; i++ {
		require.NoError(t, w.Append(types.Record{
			Meta: types.RecordMeta{
				ArticleNumber: fmt.Sprintf("%d", i),
				ArticleName:   fmt.Sprintf("Статья номер %d", i),
			},
			Body: fmt.Sprintf("Текст статьи %d.", i),
		}))
	}
	return path
}

func newTestUploader(t *testing.T, fq *fakeQdrant, dim int) (*Uploader, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(fq)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.VectorDBConfig{Endpoint: srv.URL, APIKey: "secret"})
	require.NoError(t, err)
	return New(client, stubEmbedder{dim: dim}, nil), srv
}

func TestUploadFreshCollection(t *testing.T) {
	path := writeCorpusFile(t, t.TempDir(), "gk-rf.txt", 3)
	fq := &fakeQdrant{name: "gk-rf"}
	u, _ := newTestUploader(t, fq, 4)

	total, err := u.Upload(context.Background(), Options{FilePath: path, BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	assert.False(t, fq.deleted)
	assert.Equal(t, 4, fq.createDim)
	assert.Equal(t, "secret", fq.seenAPIKey)
	require.Len(t, fq.upserts, 2)
	assert.Len(t, fq.upserts[0], 2)
	assert.Len(t, fq.upserts[1], 1)

	first := fq.upserts[0][0]
	assert.Equal(t, 1, first.ID)
	assert.Len(t, first.Vector, 4)
	assert.Equal(t, "gk-rf.txt", first.Payload["source_file"])
	assert.Equal(t, "gk-rf-art-1-1", first.Payload["article_uid"])
	assert.Equal(t, "1", first.Payload["article_number"])
	assert.Equal(t, "Текст статьи 1.", first.Payload["text"])

	last := fq.upserts[1][0]
	assert.Equal(t, 3, last.ID)
	assert.Equal(t, "gk-rf-art-3-3", last.Payload["article_uid"])
}

func TestUploadReplacesExistingCollection(t *testing.T) {
	path := writeCorpusFile(t, t.TempDir(), "gk-rf.txt", 1)
	fq := &fakeQdrant{name: "gk-rf", exists: true, count: 10}
	u, _ := newTestUploader(t, fq, 4)

	total, err := u.Upload(context.Background(), Options{FilePath: path, BatchSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	assert.True(t, fq.deleted)
	require.Len(t, fq.upserts, 1)
	assert.Equal(t, 1, fq.upserts[0][0].ID)
}

func TestUploadAppendNumbersAfterExisting(t *testing.T) {
	path := writeCorpusFile(t, t.TempDir(), "federal_laws.txt", 2)
	fq := &fakeQdrant{name: "federal_laws", exists: true, count: 5}
	u, _ := newTestUploader(t, fq, 4)

	total, err := u.Upload(context.Background(), Options{FilePath: path, BatchSize: 8, Append: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	assert.False(t, fq.deleted)
	require.Len(t, fq.upserts, 1)
	assert.Equal(t, 6, fq.upserts[0][0].ID)
	assert.Equal(t, 7, fq.upserts[0][1].ID)
}

func TestUploadHonorsLimit(t *testing.T) {
	path := writeCorpusFile(t, t.TempDir(), "gk-rf.txt", 5)
	fq := &fakeQdrant{name: "gk-rf"}
	u, _ := newTestUploader(t, fq, 4)

	total, err := u.Upload(context.Background(), Options{FilePath: path, BatchSize: 8, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUploadExplicitCollectionName(t *testing.T) {
	path := writeCorpusFile(t, t.TempDir(), "gk-rf.txt", 1)
	fq := &fakeQdrant{name: "legal"}
	u, _ := newTestUploader(t, fq, 4)

	_, err := u.Upload(context.Background(), Options{FilePath: path, Collection: "legal", BatchSize: 8})
	require.NoError(t, err)
	require.Len(t, fq.upserts, 1)
	// uid still derives from the file, not the collection
	assert.Equal(t, "gk-rf-art-1-1", fq.upserts[0][0].Payload["article_uid"])
}

func TestHTTPEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embedding/config-status":
			fmt.Fprint(w, `{"provider_info":{"provider":"local","model":"frida","dimension":3,"available":true}}`)
		case "/api/embedding/query-embedding":
			var req struct {
				Text string `json:"text"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Text)
			fmt.Fprint(w, `{"embedding":[0.1,0.2,0.3],"dimension":3}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(srv.URL)
	require.NoError(t, err)

	dim, err := e.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	vecs, err := e.Embed(context.Background(), []string{"раз", "два"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vecs[0])
}

func TestResolveInputPath(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "gk-rf.txt", 1)

	got, err := ResolveInputPath(path, dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = ResolveInputPath("gk-rf.txt", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gk-rf.txt"), got)

	_, err = ResolveInputPath("missing.txt", dir)
	assert.Error(t, err)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "gk-rf", FileStem(filepath.Join("output", "gk-rf.txt")))
	assert.Equal(t, "federal_laws", FileStem("federal_laws.txt"))
}

func TestUploadMissingFile(t *testing.T) {
	fq := &fakeQdrant{name: "gone"}
	u, _ := newTestUploader(t, fq, 4)
	_, err := u.Upload(context.Background(), Options{FilePath: filepath.Join(t.TempDir(), "gone.txt"), BatchSize: 8})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
