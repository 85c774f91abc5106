package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadToPresignedURL(t *testing.T) {
	payload := []byte("jpeg bytes")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT string
		var gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.URL, payload, "image/jpeg")
		require.NoError(t, err)
		require.Equal(t, http.MethodPut, gotMethod)
		require.Equal(t, "image/jpeg", gotCT)
		require.Equal(t, payload, gotBody)
	})

	t.Run("default content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		require.NoError(t, UploadToPresignedURL(context.Background(), ts.URL, payload, ""))
		require.Equal(t, "application/octet-stream", gotCT)
	})

	t.Run("server error includes status and body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "access denied", http.StatusForbidden)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.URL, payload, "")
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), "403"))
		require.True(t, strings.Contains(err.Error(), "access denied"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		err := UploadToPresignedURL(ctx, ts.URL, payload, "")
		require.Error(t, err)
	})
}
