package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleTranslateLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		assert.Equal(t, "bn", r.URL.Query().Get("tl"))
		assert.Equal(t, "hello world", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[[["ওহে বিশ্ব","hello world",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	g := NewGoogleTranslator(srv.URL, time.Second, nil)
	out, err := g.TranslateLine(context.Background(), "hello world", "bn")

	require.NoError(t, err)
	assert.Equal(t, "ওহে বিশ্ব", out)
}

func TestGoogleTranslateLineMultiSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[["প্রথম ","first ",null],["দ্বিতীয়","second",null]],null,"en"]`))
	}))
	defer srv.Close()

	g := NewGoogleTranslator(srv.URL, time.Second, nil)
	out, err := g.TranslateLine(context.Background(), "first second", "bn")

	require.NoError(t, err)
	assert.Equal(t, "প্রথম দ্বিতীয়", out)
}

func TestGoogleTranslateLineHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogleTranslator(srv.URL, time.Second, nil)
	_, err := g.TranslateLine(context.Background(), "hello", "bn")

	assert.Error(t, err)
}

func TestGoogleTranslateLineBadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":"object"}`))
	}))
	defer srv.Close()

	g := NewGoogleTranslator(srv.URL, time.Second, nil)
	_, err := g.TranslateLine(context.Background(), "hello", "bn")

	assert.Error(t, err)
}
