package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL:           server.URL,
		WriteTimeout:      5 * time.Second,
		CheckTimeout:      2 * time.Second,
		RequestsPerSecond: 100,
	})
	return client, server
}

func TestResolveTag_Registered(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_card", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "04A1B2", body["CardNo"])

		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "0", "Message": "Lobby"})
	}))

	label, err := client.ResolveTag(context.Background(), "04A1B2")
	require.NoError(t, err)
	assert.Equal(t, "Lobby", label)
}

func TestResolveTag_Unregistered(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "-1", "Message": ""})
	}))

	label, err := client.ResolveTag(context.Background(), "FFEE01")
	require.NoError(t, err)
	assert.Empty(t, label, "unregistered card resolves to empty label, not an error")
}

func TestResolveTag_ServerError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ResolveTag(context.Background(), "04A1B2")
	assert.Error(t, err)
}

func TestResolveTag_Unreachable(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.ResolveTag(context.Background(), "04A1B2")
	assert.Error(t, err)
}

func TestRegisterLocation_Success(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/insert_address", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "FFEE01", body["CardNo"])
		assert.Equal(t, "Dock-2", body["LocationName"])

		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "0"})
	}))

	err := client.RegisterLocation(context.Background(), "FFEE01", "Dock-2")
	assert.NoError(t, err)
}

func TestRegisterLocation_Rejected(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "-1", "Message": "duplicate location name"})
	}))

	err := client.RegisterLocation(context.Background(), "FFEE01", "Dock-2")
	require.Error(t, err)

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "duplicate location name", rejection.Reason)
}

func TestSubmitCheckIn_Acknowledged(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/insert_patrol", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "04A1B2", body["CardNo"])
		assert.Equal(t, "Lobby", body["LocationName"])
		assert.NotEmpty(t, body["CheckInTime"])

		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "0"})
	}))

	ok := client.SubmitCheckIn(context.Background(), CheckIn{
		TagID:    "04A1B2",
		Label:    "Lobby",
		ReadTime: time.Now(),
	})
	assert.True(t, ok)
}

func TestSubmitCheckIn_Refused(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"Result": "-1"})
	}))

	ok := client.SubmitCheckIn(context.Background(), CheckIn{TagID: "04A1B2", Label: "Lobby"})
	assert.False(t, ok)
}

func TestSubmitCheckIn_Unreachable(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	ok := client.SubmitCheckIn(context.Background(), CheckIn{TagID: "04A1B2", Label: "Lobby"})
	assert.False(t, ok, "transport failure is an unacknowledged submit, not a panic")
}

func TestFetchAllMappings(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_all_cards", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"cardNo": "04A1B2", "locationName": "Lobby", "type": "checkpoint"},
			{"cardNo": "FFEE01", "locationName": "Dock-2", "type": ""},
		})
	}))

	mappings, err := client.FetchAllMappings(context.Background())
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "04A1B2", mappings[0].TagID)
	assert.Equal(t, "Lobby", mappings[0].Label)
	assert.Equal(t, "checkpoint", mappings[0].Category)
}

func TestIsConnectivityAvailable(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	assert.True(t, client.IsConnectivityAvailable(context.Background()))

	server.Close()
	assert.False(t, client.IsConnectivityAvailable(context.Background()))
}

func TestLatestVersion(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest_version", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"Version": "1.4.2"})
	}))

	latest, err := client.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", latest)
}
