package guard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"RocketClient/internal/session"

	"github.com/gorilla/mux"
)

const (
	LoginPath = "/login"
	NotFound  = "not-found"
)

// publicPages may be visited without a session. Everything else, including
// unknown paths, needs one.
var publicPages = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
	"/download": true,
}

// AuthChecker asks the backend whether the current session is valid
type AuthChecker interface {
	CheckAuthenticated(ctx context.Context) (bool, error)
}

// Destination is where a navigation ends up
type Destination struct {
	Path       string
	Page       string
	Params     map[string]string
	Redirected bool
}

// Guard checks the session before every page change
type Guard struct {
	checker AuthChecker
	state   *session.State
	router  *mux.Router
	logger  *slog.Logger
}

// New creates a guard that asks checker and records the result in state
func New(checker AuthChecker, state *session.State, logger *slog.Logger) (*Guard, error) {
	if checker == nil {
		return nil, fmt.Errorf("auth checker cannot be nil")
	}
	if state == nil {
		return nil, fmt.Errorf("session state cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Guard{
		checker: checker,
		state:   state,
		router:  pages(),
		logger:  logger,
	}, nil
}

func pages() *mux.Router {
	r := mux.NewRouter()
	r.Path("/").Name("home")
	r.Path("/login").Name("login")
	r.Path("/register").Name("register")
	r.Path("/chat").Name("chat")
	r.Path("/highscore").Name("highscore")
	r.Path("/friendlist").Name("friendlist")
	r.Path("/challenges").Name("challenges")
	r.Path("/runs").Name("runs")
	r.Path("/download").Name("download")
	r.Path("/settings").Name("settings")
	r.Path("/profile/{username}").Name("profile")
	r.Path("/legal-notice").Name("legal-notice")
	r.Path("/privacy-policy").Name("privacy-policy")
	r.Path("/accessibility").Name("accessibility")
	return r
}

// Resolve maps a path to its page name without checking auth.
// Unknown paths resolve to NotFound.
func (g *Guard) Resolve(path string) (string, map[string]string) {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return NotFound, nil
	}
	var match mux.RouteMatch
	if !g.router.Match(req, &match) || match.Route == nil {
		return NotFound, nil
	}
	return match.Route.GetName(), match.Vars
}

// Navigate re-checks the session with the backend on every call and returns
// the page the user lands on. A failed check counts as logged out.
func (g *Guard) Navigate(ctx context.Context, path string) (Destination, error) {
	if err := ctx.Err(); err != nil {
		return Destination{}, err
	}
	path = normalize(path)

	ok, err := g.checker.CheckAuthenticated(ctx)
	if err != nil {
		g.logger.Warn("auth check failed", "path", path, "error", err)
		ok = false
	}
	g.state.Set(ok)

	if !publicPages[path] && !ok {
		g.logger.Info("redirecting to login", "from", path)
		page, _ := g.Resolve(LoginPath)
		return Destination{Path: LoginPath, Page: page, Redirected: true}, nil
	}

	page, params := g.Resolve(path)
	g.logger.Debug("navigated", "path", path, "page", page)
	return Destination{Path: path, Page: page, Params: params}, nil
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
