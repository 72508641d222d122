package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"RocketClient/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	ok    bool
	err   error
	calls int
}

func (f *fakeChecker) CheckAuthenticated(ctx context.Context) (bool, error) {
	f.calls++
	return f.ok, f.err
}

func newGuard(t *testing.T, checker *fakeChecker) (*Guard, *session.State) {
	t.Helper()
	state := session.NewState()
	g, err := New(checker, state, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return g, state
}

func TestNewRejectsNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(nil, session.NewState(), logger)
	assert.Error(t, err)
	_, err = New(&fakeChecker{}, nil, logger)
	assert.Error(t, err)
	_, err = New(&fakeChecker{}, session.NewState(), nil)
	assert.Error(t, err)
}

func TestProtectedPageRedirectsWhenLoggedOut(t *testing.T) {
	checker := &fakeChecker{ok: false}
	g, state := newGuard(t, checker)
	state.SetUser("jane")

	dest, err := g.Navigate(context.Background(), "/chat")
	require.NoError(t, err)
	assert.Equal(t, LoginPath, dest.Path)
	assert.Equal(t, "login", dest.Page)
	assert.True(t, dest.Redirected)
	assert.False(t, state.LoggedIn())
	assert.Empty(t, state.Username())
}

func TestPublicPagesNeverRedirect(t *testing.T) {
	checker := &fakeChecker{ok: false}
	g, _ := newGuard(t, checker)

	for _, path := range []string{"/", "/login", "/register", "/download"} {
		dest, err := g.Navigate(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, dest.Path)
		assert.False(t, dest.Redirected, path)
	}
	assert.Equal(t, 4, checker.calls)
}

func TestAuthenticatedNavigation(t *testing.T) {
	checker := &fakeChecker{ok: true}
	g, state := newGuard(t, checker)

	dest, err := g.Navigate(context.Background(), "/profile/jane")
	require.NoError(t, err)
	assert.Equal(t, "profile", dest.Page)
	assert.Equal(t, "jane", dest.Params["username"])
	assert.False(t, dest.Redirected)
	assert.True(t, state.LoggedIn())
}

func TestCheckerCalledOnEveryNavigation(t *testing.T) {
	checker := &fakeChecker{ok: true}
	g, _ := newGuard(t, checker)

	for i := 0; i < 3; i++ {
		_, err := g.Navigate(context.Background(), "/runs")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, checker.calls)

	// session expired between navigations
	checker.ok = false
	dest, err := g.Navigate(context.Background(), "/runs")
	require.NoError(t, err)
	assert.True(t, dest.Redirected)
	assert.Equal(t, 4, checker.calls)
}

func TestCheckErrorCountsAsLoggedOut(t *testing.T) {
	checker := &fakeChecker{ok: true, err: errors.New("connection refused")}
	g, state := newGuard(t, checker)
	state.Set(true)

	dest, err := g.Navigate(context.Background(), "/settings")
	require.NoError(t, err)
	assert.True(t, dest.Redirected)
	assert.False(t, state.LoggedIn())
}

func TestUnknownPath(t *testing.T) {
	g, _ := newGuard(t, &fakeChecker{ok: true})

	dest, err := g.Navigate(context.Background(), "/no/such/page")
	require.NoError(t, err)
	assert.Equal(t, NotFound, dest.Page)

	// unknown paths are not public
	g, _ = newGuard(t, &fakeChecker{ok: false})
	dest, err = g.Navigate(context.Background(), "/no/such/page")
	require.NoError(t, err)
	assert.True(t, dest.Redirected)
}

func TestNavigateNormalizesPath(t *testing.T) {
	g, _ := newGuard(t, &fakeChecker{ok: false})

	dest, err := g.Navigate(context.Background(), "download?ref=home")
	require.NoError(t, err)
	assert.Equal(t, "/download", dest.Path)
	assert.False(t, dest.Redirected)
}

func TestNavigateCancelledContext(t *testing.T) {
	checker := &fakeChecker{ok: true}
	g, _ := newGuard(t, checker)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Navigate(ctx, "/chat")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, checker.calls)
}
