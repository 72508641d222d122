package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RocketClient/internal/backend"
	"RocketClient/internal/config"
	"RocketClient/internal/telemetry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	c, err := New(cfg, testLogger(), telemetry.Global())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func authorized(r *http.Request) bool {
	if r.Header.Get("Authorization") == "Bearer "+testToken {
		return true
	}
	ck, err := r.Cookie(SessionCookie)
	return err == nil && ck.Value == testToken
}

// fakeBackend mimics the Rocket routes used in these tests
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var creds backend.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, backend.ErrorResponse{Error: "Invalid username or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: testToken, Path: "/"})
		writeJSON(w, http.StatusOK, backend.LoginResponse{Token: testToken})
	})
	mux.HandleFunc("/api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, backend.MessageResponse{Message: "Logged out successfully"})
	})
	mux.HandleFunc("/api/v1/protected/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, backend.ErrorResponse{Error: "Invalid token"})
			return
		}
		switch r.URL.Path {
		case "/api/v1/protected/":
			writeJSON(w, http.StatusOK, backend.AuthStatus{Authenticated: "true"})
		case "/api/v1/protected/activites":
			writeJSON(w, http.StatusOK, backend.ActivityFeed{
				Username:   "jane",
				Activities: []backend.Activity{{Name: "bob", Message: "Completed a 5.00 km run in 30 minutes"}},
			})
		case "/api/v1/protected/friends/add":
			var req backend.FriendRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.FriendName == "ghost" {
				writeJSON(w, http.StatusNotFound, backend.ErrorResponse{Error: "User not found"})
				return
			}
			writeJSON(w, http.StatusOK, backend.MessageResponse{Message: "Friend added successfully"})
		case "/api/v1/protected/settings/image":
			file, header, err := r.FormFile("image")
			if err != nil {
				writeJSON(w, http.StatusBadRequest, backend.ErrorResponse{Error: "Failed to read image"})
				return
			}
			data, _ := io.ReadAll(file)
			writeJSON(w, http.StatusOK, backend.MessageResponse{Message: header.Filename + ":" + string(data)})
		case "/api/v1/protected/chat/history":
			writeJSON(w, http.StatusOK, backend.ChatHistory{Messages: []backend.ChatMessage{
				{ID: "m1", Username: "You", Message: "hi", Timestamp: "2024-05-01T10:00:00Z"},
			}})
		default:
			http.NotFound(w, r)
		}
	})
	return httptest.NewServer(mux)
}

func TestNewValidatesInput(t *testing.T) {
	cfg := config.Default()
	_, err := New(cfg, nil, telemetry.Instruments{})
	assert.Error(t, err)

	cfg.BaseURL = "ftp://rocket"
	_, err = New(cfg, testLogger(), telemetry.Instruments{})
	assert.Error(t, err)
}

func TestChatURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/api/v1/protected/ws/chat", newTestClient(t, "http://localhost:8080").ChatURL())
	assert.Equal(t, "wss://rocket.example/api/v1/protected/ws/chat", newTestClient(t, "https://rocket.example/").ChatURL())
}

func TestLoginThenProtectedCall(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	ok, err := c.CheckAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Login(ctx, "jane@example.com", "secret"))
	assert.Equal(t, testToken, c.Token())

	ok, err = c.CheckAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	feed, err := c.Activities(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane", feed.Username)
	require.Len(t, feed.Activities, 1)
}

func TestLoginFailureCarriesBackendMessage(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	err := c.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid username or password", apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestCheckAuthenticatedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ok, err := newTestClient(t, srv.URL).CheckAuthenticated(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCheckAuthenticatedRequiresTrueString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"authenticated": "yes"})
	}))
	defer srv.Close()

	ok, err := newTestClient(t, srv.URL).CheckAuthenticated(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNotFoundIsMatchable(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "jane@example.com", "secret"))

	err := c.AddFriend(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "User not found")

	assert.NoError(t, c.AddFriend(ctx, "bob"))
}

func TestUpdateImageSendsMultipart(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/protected/settings/image", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		got = header.Filename + ":" + string(data)
		writeJSON(w, http.StatusOK, backend.MessageResponse{Message: "Image updated successfully"})
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).UpdateImage(context.Background(), "me.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "me.png:PNGDATA", got)
}

func TestEndpointPaths(t *testing.T) {
	runID := uuid.MustParse("6f1c2a5e-8d8a-4c1e-9a55-2b1f4f7b9d10")
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		switch r.URL.Path {
		case "/api/v1/protected/challenges/progress":
			writeJSON(w, http.StatusOK, backend.ChallengeProgress{Completed: 1, Total: 3})
		case "/api/v1/protected/user/rocketpoints":
			writeJSON(w, http.StatusOK, backend.RocketPoints{RocketPoints: 420})
		default:
			writeJSON(w, http.StatusOK, backend.MessageResponse{Message: "ok"})
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, c.DeleteRun(ctx, runID))
	require.NoError(t, c.DeletePlannedRun(ctx, runID))
	require.NoError(t, c.DeleteFriend(ctx, "bob smith"))
	require.NoError(t, c.UpdateSteps(ctx, 9000))
	require.NoError(t, c.CompleteChallenge(ctx, runID, 50))

	progress, err := c.ChallengeProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Total)

	points, err := c.RocketPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 420, points)

	assert.Equal(t, []string{
		"DELETE /api/v1/protected/runs/" + runID.String(),
		"DELETE /api/v1/protected/runs/plan/" + runID.String(),
		"DELETE /api/v1/protected/friends/bob%20smith",
		"POST /api/v1/protected/updateSteps",
		"POST /api/v1/protected/challenges/complete",
		"GET /api/v1/protected/challenges/progress",
		"GET /api/v1/protected/user/rocketpoints",
	}, seen)
}

func TestLogoutClearsTokenOnFailure(t *testing.T) {
	srv := fakeBackend(t)
	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Login(context.Background(), "jane@example.com", "secret"))
	srv.Close()

	assert.Error(t, c.Logout(context.Background()))
	assert.Empty(t, c.Token())
}

func TestSessionCookiesRoundTrip(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Login(context.Background(), "jane@example.com", "secret"))

	cookies := c.SessionCookies()
	require.NotEmpty(t, cookies)

	fresh := newTestClient(t, srv.URL)
	fresh.RestoreSession(cookies)
	assert.Equal(t, testToken, fresh.Token())

	history, err := fresh.ChatHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "You", history[0].Username)
}

func TestAuthHeader(t *testing.T) {
	c := newTestClient(t, "http://localhost:8080")
	assert.Empty(t, c.AuthHeader().Get("Authorization"))

	c.RestoreSession([]*http.Cookie{{Name: SessionCookie, Value: "abc"}})
	assert.Equal(t, "Bearer abc", c.AuthHeader().Get("Authorization"))
}

func TestChallengesAndImages(t *testing.T) {
	var invite backend.ChallengeInvite
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/protected/challenges/new":
			writeJSON(w, http.StatusOK, []backend.Challenge{{ID: "c1", Text: "Walk 5000 steps", Points: 50}})
		case "/api/v1/protected/challenges/invite":
			json.NewDecoder(r.Body).Decode(&invite)
			writeJSON(w, http.StatusOK, backend.MessageResponse{Message: "Invitation sent"})
		case "/api/v1/protected/user/image":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"username":"bob","name":null,"mime_type":null,"data":null}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	challenges, err := c.DailyChallenges(ctx)
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, 50, challenges[0].Points)

	require.NoError(t, c.InviteToChallenge(ctx, "c1", "f1"))
	assert.Equal(t, backend.ChallengeInvite{ChallengeID: "c1", FriendID: "f1"}, invite)

	img, err := c.UserImage(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "bob", img.Username)
	assert.Nil(t, img.Name)
	assert.Nil(t, img.Data)
}
