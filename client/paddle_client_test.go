package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaddleExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"results":[[
			{"text":"Invoice No: 445","confidence":0.98,"text_region":[[10,10],[210,10],[210,30],[10,30]]},
			{"text":"Total: 39.05","confidence":0.92,"text_region":[[10,50],[150,50],[150,70],[10,70]]}
		]]}`))
	}))
	defer srv.Close()

	c := NewPaddleClient(srv.URL, zap.NewNop())
	text, boxes, conf, err := c.ExtractText(context.Background(), []byte("fake-image"))

	require.NoError(t, err)
	assert.Equal(t, "Invoice No: 445\nTotal: 39.05\n", text)
	require.Len(t, boxes, 2)
	assert.Equal(t, 0, boxes[0].LineIndex)
	assert.Equal(t, 1, boxes[1].LineIndex)
	assert.Equal(t, 10, boxes[0].X)
	assert.Equal(t, 200, boxes[0].Width)
	assert.Equal(t, 20, boxes[0].Height)
	assert.InDelta(t, 95.0, conf, 0.001)
}

func TestPaddleExtractTextEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[[]]}`))
	}))
	defer srv.Close()

	c := NewPaddleClient(srv.URL, zap.NewNop())
	_, _, _, err := c.extractViaAPI(context.Background(), []byte("fake-image"))

	assert.Error(t, err)
}

func TestPaddleExtractTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPaddleClient(srv.URL, zap.NewNop())
	_, _, _, err := c.extractViaAPI(context.Background(), []byte("fake-image"))

	assert.Error(t, err)
}

func TestRegionBounds(t *testing.T) {
	x, y, w, h, ok := regionBounds([][]float64{{10, 20}, {110, 20}, {110, 45}, {10, 45}})
	require.True(t, ok)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
	assert.Equal(t, 100, w)
	assert.Equal(t, 25, h)

	_, _, _, _, ok = regionBounds(nil)
	assert.False(t, ok)
}
