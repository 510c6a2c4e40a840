package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/traineetrack/traineetrack/internal/auth"
	"github.com/traineetrack/traineetrack/internal/clone"
	"github.com/traineetrack/traineetrack/internal/config"
	"github.com/traineetrack/traineetrack/internal/github"
)

const tokenCookie = "access_token"

// Handler handles REST API requests. Each authenticated request gets its own
// GitHub client and clone session, constructed from the caller's token.
type Handler struct {
	cfg       *config.Config
	exchanger *auth.Exchanger
	logger    *zap.Logger

	// Client construction is indirected for tests.
	userClient    func(token string) github.API
	installClient func(ctx context.Context, org string) (github.API, error)
}

// NewHandler creates a REST handler.
func NewHandler(cfg *config.Config, exchanger *auth.Exchanger, appAuth *github.AppAuth, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		exchanger: exchanger,
		logger:    logger,
		userClient: func(token string) github.API {
			return github.NewClient(token, logger)
		},
		installClient: func(ctx context.Context, org string) (github.API, error) {
			return appAuth.InstallationClient(ctx, org)
		},
	}
}

// RegisterRoutes registers REST API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth", h.ExchangeCode)
	r.Post("/auth/logout", h.Logout)
	r.Route("/github", func(r chi.Router) {
		r.Post("/initial-setup", h.InitialSetup)
		r.Get("/issues", h.ListIssues)
		r.Post("/clone/{repo}", h.Clone)
		r.Post("/clone/{repo}/{issue}", h.Clone)
	})
}

// ExchangeCode handles POST /auth?code=: it trades the OAuth authorization
// code for a user token and stores it in an httpOnly cookie.
func (h *Handler) ExchangeCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("authorization code exchange failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "user authenticated"})
}

// Logout handles POST /auth/logout by clearing the token cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "user logged out"})
}

// setupStatus reports which setup steps completed, used to describe partial
// progress when initial setup fails.
type setupStatus struct {
	SignedIn           bool `json:"signedIn"`
	RepoCreated        bool `json:"repoCreated"`
	ProjectBoardLinked bool `json:"projectBoardLinked"`
}

// InitialSetup handles POST /github/initial-setup.
func (h *Handler) InitialSetup(w http.ResponseWriter, r *http.Request) {
	orch, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := orch.InitialSetup(r.Context(), sess); err != nil {
		h.logger.Error("initial setup failed",
			zap.String("session", sess.ID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
			"setupStatus": setupStatus{
				SignedIn:           true,
				RepoCreated:        sess.RepositoryID != "",
				ProjectBoardLinked: sess.ProjectID != "",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, setupStatus{
		SignedIn:           true,
		RepoCreated:        true,
		ProjectBoardLinked: true,
	})
}

// ListIssues handles GET /github/issues?repo=. It reads the source
// organization's repository as the GitHub App installation, so no user token
// is required.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repo")
	if repo == "" {
		writeError(w, http.StatusBadRequest, "repo is required")
		return
	}

	client, err := h.installClient(r.Context(), h.cfg.DefaultOwner)
	if err != nil {
		h.logger.Error("could not build installation client", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	issues, err := client.ListIssues(r.Context(), h.cfg.DefaultOwner, repo)
	if err != nil {
		h.logger.Error("could not list issues",
			zap.String("repo", repo),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

// Clone handles POST /github/clone/{repo} and /github/clone/{repo}/{issue}.
// With an issue number it clones that single issue; otherwise it clones every
// issue in the source repository. The allow_duplicates query flag disables the
// duplicate-title skip on the batch path.
func (h *Handler) Clone(w http.ResponseWriter, r *http.Request) {
	repo := chi.URLParam(r, "repo")

	orch, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var (
		res *clone.Result
		err error
	)
	if raw := chi.URLParam(r, "issue"); raw != "" {
		number, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "issue number must be an integer")
			return
		}
		res, err = orch.CloneOne(r.Context(), sess, repo, number)
	} else {
		allowDuplicates := r.URL.Query().Get("allow_duplicates") == "true"
		res, err = orch.CloneAll(r.Context(), sess, repo, allowDuplicates)
	}

	if err != nil {
		h.logger.Error("clone failed",
			zap.String("session", sess.ID),
			zap.String("repo", repo),
			zap.Error(err),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, clone.ErrNoIssues) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res.Snapshot())
}

// session authenticates the request and builds a per-request orchestrator and
// session. On failure it writes the error response and returns ok=false.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*clone.Orchestrator, *clone.Session, bool) {
	token := requestToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing access token")
		return nil, nil, false
	}

	client := h.userClient(token)

	// Resolving the user also validates the token before any work starts.
	user, err := client.GetAuthenticatedUser(r.Context())
	if err != nil {
		h.logger.Error("could not resolve authenticated user", zap.Error(err))
		writeError(w, http.StatusUnauthorized, err.Error())
		return nil, nil, false
	}

	sess := clone.NewSession(user.Login, user.NodeID)
	orch := clone.New(client, clone.Config{
		DefaultOwner: h.cfg.DefaultOwner,
		DefaultRepo:  h.cfg.DefaultRepo,
		ProjectQuery: h.cfg.ProjectQuery,
		Concurrency:  h.cfg.CloneConcurrency,
	}, h.logger)

	return orch, sess, true
}

// requestToken pulls the caller's token from the cookie set at login or a
// bearer Authorization header.
func requestToken(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
