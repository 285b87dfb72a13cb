package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userboard/internal/models"
	"github.com/BradenHooton/userboard/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `{"users":[{"id":1,"firstName":"Emily","lastName":"Johnson","email":"emily.johnson@x.dummyjson.com","username":"emilys","age":28,"gender":"female"}],"total":1,"skip":0,"limit":30}`

func TestFetchUsers_Success(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("ETag", `W/"abc"`)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, srv.Client())
	result, err := client.FetchUsers(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "Emily", result.Users[0].FirstName)
	assert.Equal(t, 28, *result.Users[0].Age)
	assert.Equal(t, "female", *result.Users[0].Gender)
	assert.Nil(t, result.Users[0].Phone)
	assert.Equal(t, `W/"abc"`, result.ETag)
	assert.False(t, result.NotModified)
	assert.Equal(t, "max-age=300", gotHeaders.Get("Cache-Control"))
	assert.Empty(t, gotHeaders.Get("If-None-Match"))
}

func TestFetchUsers_SendsIfNoneMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	client := upstream.NewClient(srv.URL, srv.Client())
	result, err := client.FetchUsers(context.Background(), `"v1"`)

	require.NoError(t, err)
	assert.True(t, result.NotModified)
	assert.Equal(t, http.StatusNotModified, result.StatusCode)
	assert.Nil(t, result.Users)
}

func TestFetchUsers_StatusWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"maintenance window"}`))
	}))
	defer srv.Close()

	_, err := upstream.NewClient(srv.URL, srv.Client()).FetchUsers(context.Background(), "")

	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.FetchErrStatusMessage, fe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "maintenance window", err.Error())
}

func TestFetchUsers_StatusWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := upstream.NewClient(srv.URL, srv.Client()).FetchUsers(context.Background(), "")

	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.FetchErrStatusGeneric, fe.Kind)
	assert.Equal(t, models.MsgFetchFailed, err.Error())
}

func TestFetchUsers_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":`))
	}))
	defer srv.Close()

	_, err := upstream.NewClient(srv.URL, srv.Client()).FetchUsers(context.Background(), "")

	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.FetchErrDecode, fe.Kind)
	assert.Equal(t, models.MsgUnexpected, err.Error())
}

func TestFetchUsers_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := upstream.NewClient(url, nil).FetchUsers(context.Background(), "")

	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, models.FetchErrTransport, fe.Kind)
	assert.Equal(t, models.MsgFetchFailed, err.Error())
}

func TestFetchUsers_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := upstream.NewClient(srv.URL, srv.Client()).FetchUsers(ctx, "")

	assert.True(t, upstream.IsCanceled(err))
}
