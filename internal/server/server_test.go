package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bingwall/internal/server"
	"bingwall/internal/wallpaper"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var hc = http.Client{Timeout: 2 * time.Second}

type fakeClient struct {
	images []wallpaper.Image
	err    error
	last   wallpaper.Query
}

func (f *fakeClient) GetWallpaper(_ context.Context, q wallpaper.Query) ([]wallpaper.Image, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

func newTestServer(fc *fakeClient) *httptest.Server {
	s := server.New("8080", fc, zap.NewNop())
	return httptest.NewServer(s.Handler)
}

func TestListWallpapers_ReturnsWallpapers(t *testing.T) {
	fc := &fakeClient{images: []wallpaper.Image{{
		StartDate: time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC),
		URL:       "https://www.bing.com/th?id=OHR.PresDayDC_EN-US2054662773_1024x768.jpg",
		Copyright: "Washington Monument (© AevanStock/Shutterstock)",
	}}}
	ts := newTestServer(fc)
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers?w=1024&h=768&n=2&idx=1&mkt=en-US")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	assert.NotEmpty(t, res.Header.Get("ETag"))

	var lr server.ListResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&lr))
	require.Len(t, lr.Data, 1)
	assert.Equal(t, fc.images[0].URL, lr.Data[0].URL)

	require.NotNil(t, fc.last.Resolution)
	assert.Equal(t, wallpaper.Resolution{Width: 1024, Height: 768}, *fc.last.Resolution)
	assert.Equal(t, 2, fc.last.Count)
	assert.Equal(t, 1, fc.last.Index)
	assert.Equal(t, "en-US", fc.last.Market)
}

func TestListWallpapers_DefaultsToSingleUnsizedWallpaper(t *testing.T) {
	fc := &fakeClient{images: []wallpaper.Image{{URL: "https://www.bing.com/th?id=X_1920x1080.jpg"}}}
	ts := newTestServer(fc)
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, fc.last.Resolution)
	assert.Equal(t, 1, fc.last.Count)
}

func TestListWallpapers_MalformedResolutionParams(t *testing.T) {
	ts := newTestServer(&fakeClient{})
	defer ts.Close()

	for _, q := range []string{"?w=abc&h=768", "?w=1024", "?w=0&h=768"} {
		res, err := hc.Get(ts.URL + "/wallpapers" + q)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, q)
	}
}

func TestListWallpapers_NoMatchingResolution(t *testing.T) {
	ts := newTestServer(&fakeClient{err: wallpaper.ErrNoMatchingResolution})
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers?w=200&h=200")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListWallpapers_UpstreamFailure(t *testing.T) {
	ts := newTestServer(&fakeClient{err: errors.New("connection refused")})
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
}

func TestListWallpapers_FormattingFailure(t *testing.T) {
	ts := newTestServer(&fakeClient{err: errors.Wrap(wallpaper.ErrInvalidDate, "format wallpapers")})
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestListWallpapers_ErrorResponsesSkipCaching(t *testing.T) {
	ts := newTestServer(&fakeClient{err: errors.New("connection refused")})
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Empty(t, res.Header.Get("ETag"))
	assert.Empty(t, res.Header.Get("Cache-Control"))
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))
}

func TestListWallpapers_NotModified(t *testing.T) {
	fc := &fakeClient{images: []wallpaper.Image{{URL: "https://www.bing.com/th?id=X_1920x1080.jpg"}}}
	ts := newTestServer(fc)
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	res.Body.Close()
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/wallpapers", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)

	res, err = hc.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotModified, res.StatusCode)
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(&fakeClient{})
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/wallpapers")
	require.NoError(t, err)
	res.Body.Close()

	res, err = hc.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "bingwall_requests_total")
}
