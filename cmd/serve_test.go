package cmd

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsphweid/chorale/decode"
	"github.com/jsphweid/chorale/encode"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	return &Server{
		Lib:        notation.Default{},
		Decode:     decode.DefaultOptions(),
		EncodedDir: t.TempDir(),
		Layout:     model.LayoutSteps,
		rng:        rand.New(rand.NewPCG(1, 2)),
	}
}

const piece = "60 64 67 48\n_ _ _ _\n62 r 67 _\n_ r _ _\n64 60"

func TestHandleDecodeMIDI(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/decode?format=midi", strings.NewReader(piece))
	w := httptest.NewRecorder()
	NewRouter(s).ServeHTTP(w, req)

	resp := w.Result()
	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("audio/midi", resp.Header.Get("Content-Type"))
	assert.Equal("1", resp.Header.Get("X-Dropped-Steps"))
	assert.Equal("MThd", w.Body.String()[:4])
}

func TestHandleDecodeMusicXML(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/decode?format=musicxml", strings.NewReader(piece))
	w := httptest.NewRecorder()
	testServer(t).HandleDecode(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "<score-partwise")
	assert.Contains(t, w.Body.String(), "<part-name>Soprano</part-name>")
}

func TestHandleDecodeErrors(t *testing.T) {
	cases := []struct {
		url    string
		body   string
		status int
		detail string
	}{
		{"/decode?format=pdf", piece, 400, "unknown render format"},
		{"/decode", "", 400, "empty body"},
		{"/decode", "_ 60\n60 _", 422, "hold"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, c.url, strings.NewReader(c.body))
		w := httptest.NewRecorder()
		testServer(t).HandleDecode(w, req)

		assert.Equal(t, c.status, w.Code, c.url)
		var res model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Contains(t, res.Error, c.detail)
	}
}

func TestHandleDecodeBodyTooLarge(t *testing.T) {
	// a valid piece that only goes wrong when cut off at the limit
	row := "60 64 67 48\n"
	body := strings.Repeat(row, maxBodyBytes/len(row)+1)
	req := httptest.NewRequest(http.MethodPost, "/decode", strings.NewReader(body))
	w := httptest.NewRecorder()
	NewRouter(testServer(t)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "exceeds")
}

func TestHandleSeedHugeBars(t *testing.T) {
	s := testServer(t)
	voices := make([][]string, 4)
	for i := range voices {
		voices[i] = append([]string{"60"}, strings.Fields(strings.Repeat("_ ", 19))...)
	}
	_, err := encode.WriteSong(s.EncodedDir, 0, voices, model.LayoutSteps)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(s))
	defer srv.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	for _, bars := range []string{"576460752303423488", "257"} {
		resp, err := client.Get(srv.URL + "/seed?bars=" + bars)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bars)
	}

	// the server still answers afterwards, and large in-range counts
	// return the whole song
	for _, bars := range []string{"1", "256"} {
		resp, err := client.Get(srv.URL + "/seed?bars=" + bars)
		require.NoError(t, err)
		var res model.SeedResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, bars)
		assert.Equal(t, "0.txt", res.SongFile)
	}
}

func TestHandleSeed(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.HandleSeed(w, httptest.NewRequest(http.MethodGet, "/seed", nil))
	assert.Equal(t, 404, w.Code)

	voices := make([][]string, 4)
	for i := range voices {
		voices[i] = append([]string{"60"}, strings.Fields(strings.Repeat("_ ", 39))...)
	}
	_, err := encode.WriteSong(s.EncodedDir, 7, voices, model.LayoutSteps)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/seed?bars=2", nil))
	require.Equal(t, 200, w.Code)
	var res model.SeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "7.txt", res.SongFile)
	assert.Equal(t, 2, res.Bars)
	assert.Len(t, strings.Split(res.Text, "\n"), 33)

	w = httptest.NewRecorder()
	s.HandleSeed(w, httptest.NewRequest(http.MethodGet, "/seed?bars=zero", nil))
	assert.Equal(t, 400, w.Code)
}
