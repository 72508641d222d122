package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"RocketClient/internal/avatar"
	"RocketClient/internal/backend"
	"RocketClient/internal/geo"
	"RocketClient/internal/guard"

	"github.com/google/uuid"
)

// pages maps page-like commands to the web route they stand for
var pages = map[string]string{
	"/feed":           "/",
	"/whoami":         "/settings",
	"/goal":           "/settings",
	"/set-image":      "/settings",
	"/delete-image":   "/settings",
	"/steps":          "/settings",
	"/points":         "/settings",
	"/delete-account": "/settings",
	"/image":          "/friendlist",
	"/users":          "/friendlist",
	"/invite":         "/challenges",
	"/friends":        "/friendlist",
	"/add-friend":     "/friendlist",
	"/remove-friend":  "/friendlist",
	"/followers":      "/friendlist",
	"/following":      "/friendlist",
	"/ranking":        "/highscore",
	"/challenges":     "/challenges",
	"/complete":       "/challenges",
	"/progress":       "/challenges",
	"/runs":           "/runs",
	"/plans":          "/runs",
	"/plan":           "/runs",
	"/upload":         "/runs",
	"/delete-run":     "/runs",
	"/delete-plan":    "/runs",
	"/elevation":      "/runs",
	"/chat":           "/chat",
	"/react":          "/chat",
}

// handleCommand handles slash commands
func (s *Shell) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}
	name, args := parts[0], parts[1:]

	if path, ok := pages[name]; ok {
		allowed, err := s.navigate(ctx, path)
		if err != nil || !allowed {
			return false, err
		}
	}

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		s.printHelp()
		return false, nil

	case "/health":
		status, err := s.api.Health(ctx)
		if err != nil {
			return false, err
		}
		for k, v := range status {
			s.printf("  %s: %s\n", k, v)
		}
		return false, nil

	case "/login":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: /login <email> <password>")
		}
		return false, s.login(ctx, args[0], args[1])

	case "/register":
		if len(args) != 3 {
			return false, fmt.Errorf("usage: /register <email> <username> <password>")
		}
		if err := s.api.Register(ctx, args[0], args[1], args[2]); err != nil {
			return false, err
		}
		s.printf("Registered %s. Use /login to sign in.\n", args[1])
		return false, nil

	case "/logout":
		return false, s.logout(ctx)

	case "/goto":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /goto <path>")
		}
		_, err := s.navigate(ctx, args[0])
		return false, err

	case "/stats":
		return false, s.stats(ctx, args)

	case "/avatar":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: /avatar <name> <file.png>")
		}
		return false, s.writeAvatar(args[0], args[1])

	case "/leave":
		if !s.leaveChat() {
			return false, errNotInChat
		}
		s.printf("Left the chat room\n")
		return false, nil
	}

	return false, s.handlePage(ctx, name, args)
}

// navigate runs the guard and reports whether the page may be shown
func (s *Shell) navigate(ctx context.Context, path string) (bool, error) {
	dest, err := s.guard.Navigate(ctx, path)
	if err != nil {
		return false, fmt.Errorf("navigation failed: %w", err)
	}

	s.mu.Lock()
	s.page = dest.Path
	s.mu.Unlock()

	if dest.Redirected {
		s.printf("Please log in first (redirected to %s)\n", dest.Path)
		return false, nil
	}
	if dest.Page == guard.NotFound {
		s.printf("Page not found: %s\n", dest.Path)
		return false, nil
	}
	s.logger.Debug("page", "path", dest.Path, "page", dest.Page)
	return true, nil
}

func (s *Shell) login(ctx context.Context, email, password string) error {
	if err := s.api.Login(ctx, email, password); err != nil {
		return err
	}

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.state.Set(true)
		s.logger.Warn("failed to load profile after login", "error", err)
	} else {
		s.state.SetUser(user.Username)
	}

	if s.store != nil {
		if err := s.store.SaveCookies(s.api.BaseURL(), s.api.SessionCookies()); err != nil {
			s.logger.Warn("failed to save cookies", "error", err)
		}
	}

	s.printf("Logged in as %s\n", s.displayName(email))
	return nil
}

func (s *Shell) logout(ctx context.Context) error {
	s.leaveChat()
	err := s.api.Logout(ctx)
	s.state.Set(false)

	if s.store != nil {
		if serr := s.store.SaveCookies(s.api.BaseURL(), nil); serr != nil {
			s.logger.Warn("failed to clear cookies", "error", serr)
		}
	}
	if err != nil {
		return err
	}
	s.printf("Logged out\n")
	return nil
}

func (s *Shell) displayName(fallback string) string {
	if name := s.state.Username(); name != "" {
		return name
	}
	return fallback
}

// handlePage runs commands that passed the guard
func (s *Shell) handlePage(ctx context.Context, name string, args []string) error {
	switch name {
	case "/feed":
		feed, err := s.api.Activities(ctx)
		if err != nil {
			return err
		}
		if len(feed.Activities) == 0 {
			s.printf("No recent activity\n")
		}
		for _, a := range feed.Activities {
			s.printf("[%s] %s %s: %s\n", avatar.Initials(a.Name), a.Name, a.Time, a.Message)
		}

	case "/whoami":
		user, err := s.api.CurrentUser(ctx)
		if err != nil {
			return err
		}
		s.state.SetUser(user.Username)
		s.printf("%s <%s>\n", user.Username, user.Email)
		s.printf("  rocket points: %d\n", user.RocketPoints)
		s.printf("  avatar: %s %s\n", avatar.Initials(user.Username), avatar.Color(user.Username))

	case "/goal":
		if len(args) == 0 {
			settings, err := s.api.Settings(ctx)
			if err != nil {
				return err
			}
			s.printf("Daily step goal: %d\n", settings.StepGoal)
			return nil
		}
		goal, err := positiveInt(args[0])
		if err != nil {
			return fmt.Errorf("usage: /goal [steps]: %w", err)
		}
		if err := s.api.UpdateStepGoal(ctx, goal); err != nil {
			return err
		}
		s.printf("Step goal set to %d\n", goal)

	case "/set-image":
		if len(args) != 1 {
			return fmt.Errorf("usage: /set-image <file>")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		if err := s.api.UpdateImage(ctx, filepath.Base(f.Name()), f); err != nil {
			return err
		}
		s.printf("Profile image updated\n")

	case "/delete-image":
		if err := s.api.DeleteImage(ctx); err != nil {
			return err
		}
		s.printf("Profile image removed\n")

	case "/points":
		points, err := s.api.RocketPoints(ctx)
		if err != nil {
			return err
		}
		s.printf("Rocket points: %d\n", points)

	case "/delete-account":
		if len(args) != 1 || args[0] != "confirm" {
			return fmt.Errorf("usage: /delete-account confirm")
		}
		if err := s.api.DeleteUser(ctx); err != nil {
			return err
		}
		s.state.Set(false)
		s.printf("Account deleted\n")

	case "/image":
		id, err := s.userID(ctx, args)
		if err != nil {
			return err
		}
		img, err := s.api.UserImage(ctx, id)
		if err != nil {
			return err
		}
		if img.Name == nil || img.Data == nil {
			s.printf("%s has no profile image\n", img.Username)
			return nil
		}
		mime := ""
		if img.MimeType != nil {
			mime = *img.MimeType
		}
		s.printf("%s: %s (%s, %d bytes base64)\n", img.Username, *img.Name, mime, len(*img.Data))

	case "/users":
		users, err := s.api.AllUsers(ctx)
		if err != nil {
			return err
		}
		s.printUsers(users, false)

	case "/invite":
		if len(args) != 2 {
			return fmt.Errorf("usage: /invite <challenge-id> <username>")
		}
		friend, err := s.api.UserByName(ctx, args[1])
		if err != nil {
			return err
		}
		if err := s.api.InviteToChallenge(ctx, args[0], friend.ID.String()); err != nil {
			return err
		}
		s.printf("Invited %s\n", args[1])

	case "/steps":
		if len(args) != 1 {
			return fmt.Errorf("usage: /steps <count>")
		}
		steps, err := positiveInt(args[0])
		if err != nil {
			return fmt.Errorf("usage: /steps <count>: %w", err)
		}
		if err := s.api.UpdateSteps(ctx, steps); err != nil {
			return err
		}
		s.printf("Recorded %d steps\n", steps)

	case "/friends":
		friends, err := s.api.Friends(ctx)
		if err != nil {
			return err
		}
		s.printUsers(friends, false)

	case "/add-friend":
		if len(args) != 1 {
			return fmt.Errorf("usage: /add-friend <username>")
		}
		if err := s.api.AddFriend(ctx, args[0]); err != nil {
			return err
		}
		s.printf("Now following %s\n", args[0])

	case "/remove-friend":
		if len(args) != 1 {
			return fmt.Errorf("usage: /remove-friend <username>")
		}
		if err := s.api.DeleteFriend(ctx, args[0]); err != nil {
			return err
		}
		s.printf("Removed %s\n", args[0])

	case "/followers", "/following":
		id, err := s.userID(ctx, args)
		if err != nil {
			return err
		}
		var users []backend.UserWithImage
		if name == "/followers" {
			users, err = s.api.Followers(ctx, id)
		} else {
			users, err = s.api.Following(ctx, id)
		}
		if err != nil {
			return err
		}
		s.printUsers(users, false)

	case "/ranking":
		var users []backend.UserWithImage
		var err error
		if len(args) > 0 && args[0] == "friends" {
			users, err = s.api.FriendRanking(ctx)
		} else {
			users, err = s.api.UserRanking(ctx)
		}
		if err != nil {
			return err
		}
		s.printUsers(users, true)

	case "/challenges":
		challenges, err := s.api.DailyChallenges(ctx)
		if err != nil {
			return err
		}
		for _, c := range challenges {
			s.printf("  %s  %s (%d points)\n", c.ID, c.Text, c.Points)
		}

	case "/complete":
		if len(args) != 2 {
			return fmt.Errorf("usage: /complete <challenge-id> <points>")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid challenge id: %w", err)
		}
		points, err := positiveInt(args[1])
		if err != nil {
			return fmt.Errorf("invalid points: %w", err)
		}
		if err := s.api.CompleteChallenge(ctx, id, points); err != nil {
			return err
		}
		s.printf("Challenge completed, +%d rocket points\n", points)

	case "/progress":
		progress, err := s.api.ChallengeProgress(ctx)
		if err != nil {
			return err
		}
		s.printf("Completed %d of %d challenges\n", progress.Completed, progress.Total)

	case "/runs":
		runs, err := s.api.Runs(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			s.printf("No runs yet\n")
		}
		for _, r := range runs {
			s.printf("  %s  %.2f km in %s (%s)\n", r.ID, r.Distance, r.Duration, r.CreatedAt)
		}

	case "/plans":
		plans, err := s.api.PlannedRuns(ctx)
		if err != nil {
			return err
		}
		for _, p := range plans {
			s.printf("  %s  %s %.2f km\n", p.ID, p.Name, p.Distance)
		}

	case "/plan":
		if len(args) < 2 {
			return fmt.Errorf("usage: /plan <name> <LINESTRING(...)>")
		}
		route, distance, err := parseRoute(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if err := s.api.PlanRun(ctx, args[0], route, distance); err != nil {
			return err
		}
		s.printf("Planned %s (%.2f km)\n", args[0], distance)

	case "/upload":
		if len(args) < 2 {
			return fmt.Errorf("usage: /upload <duration> <LINESTRING(...)>")
		}
		route, distance, err := parseRoute(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if err := s.api.UploadRun(ctx, route, args[0], distance); err != nil {
			return err
		}
		s.printf("Uploaded run (%.2f km)\n", distance)

	case "/delete-run", "/delete-plan":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", name)
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		if name == "/delete-run" {
			err = s.api.DeleteRun(ctx, id)
		} else {
			err = s.api.DeletePlannedRun(ctx, id)
		}
		if err != nil {
			return err
		}
		s.printf("Deleted %s\n", id)

	case "/elevation":
		if len(args) != 1 {
			return fmt.Errorf("usage: /elevation <run-id>")
		}
		return s.elevationProfile(ctx, args[0])

	case "/chat":
		return s.enterChat(ctx)

	case "/react":
		if len(args) != 1 {
			return fmt.Errorf("usage: /react <message-id>")
		}
		return s.react(args[0])

	default:
		return fmt.Errorf("unknown command %s, try /help", name)
	}
	return nil
}

func (s *Shell) stats(ctx context.Context, args []string) error {
	path := "/profile/" + s.displayName("me")
	if len(args) > 0 {
		path = "/profile/" + args[0]
	}
	if ok, err := s.navigate(ctx, path); err != nil || !ok {
		return err
	}

	id, err := s.userID(ctx, args)
	if err != nil {
		return err
	}
	days, err := s.api.UserStatistics(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range days {
		s.printf("  %s  %d steps\n", d.Day, d.Steps)
	}
	return nil
}

// userID resolves an optional username argument, defaulting to the current user
func (s *Shell) userID(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		user, err := s.api.UserByName(ctx, args[0])
		if err != nil {
			return "", err
		}
		return user.ID.String(), nil
	}
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID.String(), nil
}

func (s *Shell) printUsers(users []backend.UserWithImage, ranked bool) {
	if len(users) == 0 {
		s.printf("Nobody here yet\n")
		return
	}
	for i, u := range users {
		prefix := "  "
		if ranked {
			prefix = fmt.Sprintf("%3d. ", i+1)
		}
		s.printf("%s[%s] %s  %d points\n", prefix, avatar.Initials(u.Username), u.Username, u.RocketPoints)
	}
}

func (s *Shell) elevationProfile(ctx context.Context, runID string) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}
	runs, err := s.api.Runs(ctx)
	if err != nil {
		return err
	}

	var route string
	found := false
	for _, r := range runs {
		if r.ID == id {
			route, found = r.Route, true
			break
		}
	}
	if !found {
		return fmt.Errorf("run %s not found", id)
	}

	points, err := geo.ParseRoute(route)
	if err != nil {
		return err
	}

	// a failed lookup still yields one nil per point
	result, lookupErr := s.elevation.Lookup(ctx, points)
	if lookupErr != nil {
		s.logger.Warn("elevation lookup failed", "run_id", id, "error", lookupErr)
	}

	known := 0
	var minE, maxE, gain float64
	var prev *float64
	for _, e := range result.Elevations {
		if e == nil {
			continue
		}
		if known == 0 || *e < minE {
			minE = *e
		}
		if known == 0 || *e > maxE {
			maxE = *e
		}
		if prev != nil && *e > *prev {
			gain += *e - *prev
		}
		prev = e
		known++
	}

	s.printf("Sampled %d of %d points, %d with elevation\n", len(result.Points), len(points), known)
	if known > 0 {
		s.printf("  min %.0f m  max %.0f m  ascent %.0f m\n", minE, maxE, gain)
	}
	return lookupErr
}

func (s *Shell) writeAvatar(name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := avatar.WritePNG(f, name, 128); err != nil {
		return err
	}
	s.printf("Wrote %s avatar (%s, %s) to %s\n", name, avatar.Initials(name), avatar.Color(name), path)
	return nil
}

// parseRoute validates a WKT line string and measures it
func parseRoute(wkt string) (string, float64, error) {
	points, err := geo.ParseRoute(wkt)
	if err != nil {
		return "", 0, err
	}
	if len(points) < 2 {
		return "", 0, fmt.Errorf("route needs at least two points")
	}
	return geo.FormatRoute(points), geo.Distance(points), nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}

func (s *Shell) printHelp() {
	s.printf("Available commands:\n")
	s.printf("  /login <email> <password>          - Sign in\n")
	s.printf("  /register <email> <user> <pass>    - Create an account\n")
	s.printf("  /logout                            - Sign out\n")
	s.printf("  /whoami                            - Show your profile\n")
	s.printf("  /goto <path>                       - Open a page, e.g. /goto /runs\n")
	s.printf("  /feed                              - Recent activity\n")
	s.printf("  /friends, /followers, /following   - Friend lists\n")
	s.printf("  /add-friend, /remove-friend <name> - Manage friends\n")
	s.printf("  /users, /image [name]              - All users, profile images\n")
	s.printf("  /ranking [friends]                 - Highscore\n")
	s.printf("  /points                            - Your rocket points\n")
	s.printf("  /invite <challenge-id> <name>      - Invite a friend to a challenge\n")
	s.printf("  /challenges, /progress             - Daily challenges\n")
	s.printf("  /complete <id> <points>            - Complete a challenge\n")
	s.printf("  /runs, /plans                      - Runs and planned routes\n")
	s.printf("  /plan <name> <wkt>                 - Save a planned route\n")
	s.printf("  /upload <duration> <wkt>           - Upload a run\n")
	s.printf("  /delete-run, /delete-plan <id>     - Delete a run or plan\n")
	s.printf("  /elevation <run-id>                - Elevation profile of a run\n")
	s.printf("  /steps <n>, /goal [n], /stats      - Steps and statistics\n")
	s.printf("  /set-image <file>, /delete-image   - Profile image\n")
	s.printf("  /chat, /react <id>, /leave         - Chat room\n")
	s.printf("  /avatar <name> <file.png>          - Render an avatar\n")
	s.printf("  /health                            - Backend health\n")
	s.printf("  /delete-account confirm            - Delete your account\n")
	s.printf("  /help, /quit                       - This help, exit\n")
}
