package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeOK(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"data":      data,
	}))
}

func TestLoginDecodesTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "admin", req.Username)

		envelopeOK(t, w, TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			ExpiresIn:    900,
			Username:     "admin",
		})
	}))
	defer srv.Close()

	tokens, err := New(srv.URL).Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, int64(900), tokens.ExpiresIn)
}

func TestBearerTokenSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		envelopeOK(t, w, Status{Version: "1.0.0", Sessions: 3})
	}))
	defer srv.Close()

	status, err := New(srv.URL).WithToken("tok").GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, 3, status.Sessions)
}

func TestEnvelopedErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "error",
			"error":  "Room not found",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetRoom(42)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Room not found", apiErr.Message)
	assert.True(t, apiErr.IsNotFound())
}

func TestPlainTextErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListSessions()
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, "Authorization header required", apiErr.Message)
}

func TestListRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/rooms", r.URL.Path)
		envelopeOK(t, w, []Room{{ID: 1, Name: "Skirmish", MaxPlayers: 10}})
	}))
	defer srv.Close()

	rooms, err := New(srv.URL).WithToken("tok").ListRooms()
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Skirmish", rooms[0].Name)
}

func TestDeleteRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/rooms/7", r.URL.Path)
		envelopeOK(t, w, DeleteRoomResult{RoomID: 7, Kicked: 2})
	}))
	defer srv.Close()

	result, err := New(srv.URL).WithToken("tok").DeleteRoom(7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), result.RoomID)
	assert.Equal(t, 2, result.Kicked)
}
