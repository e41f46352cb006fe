// Package web serves the guessing-game playground over HTTP.
//
// The API is JSON. A client creates a session against one of the
// loaded rulesets, answers the question the server proposes, and
// repeats until the engine names a hypothesis or runs out of askable
// facts. Graph snapshots are served as Graphviz DOT for inspection.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/hunchworks/hunch/internal/dot"
	"github.com/hunchworks/hunch/internal/phrasing"
	"github.com/hunchworks/hunch/pkg/hunch"
	"github.com/hunchworks/hunch/pkg/hunch/config"
	"github.com/hunchworks/hunch/pkg/hunch/explain"
	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/rank"
	"github.com/hunchworks/hunch/pkg/hunch/rules"
	"github.com/hunchworks/hunch/pkg/hunch/session"
)

const shutdownTimeout = 10 * time.Second

type compiledRuleset struct {
	def    *config.Ruleset
	rules  rules.Rules
	groups rules.Groups
}

// Server hosts the playground API.
type Server struct {
	log      *zap.Logger
	store    session.Store
	rulesets map[string]compiledRuleset
	names    []string
	cache    *lru.Cache[string, []rank.Candidate]
	router   *mux.Router
}

// New compiles the given rulesets and builds the server. Ranking
// results are memoized in an LRU cache keyed by ruleset and answer
// set, since ranking is the expensive part of every state response.
func New(log *zap.Logger, rulesets map[string]*config.Ruleset, store session.Store, cacheSize int) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = 256
	}

	cache, err := lru.New[string, []rank.Candidate](cacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:      log,
		store:    store,
		rulesets: make(map[string]compiledRuleset, len(rulesets)),
		cache:    cache,
	}
	for name, def := range rulesets {
		r, groups, err := def.Compile()
		if err != nil {
			return nil, fmt.Errorf("ruleset %s: %w", name, err)
		}
		s.rulesets[name] = compiledRuleset{def: def, rules: r, groups: groups}
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)

	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	s.log.Info("listening", zap.String("addr", addr))
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rulesets", s.handleListRulesets).Methods(http.MethodGet)
	r.HandleFunc("/rulesets/{name}/explain/{fact}", s.handleExplain).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/answer", s.handleAnswer).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/graph.dot", s.handleGraph).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type rulesetInfo struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Subject    string   `json:"subject,omitempty"`
	Hypotheses []string `json:"hypotheses"`
}

func (s *Server) handleListRulesets(w http.ResponseWriter, r *http.Request) {
	infos := make([]rulesetInfo, 0, len(s.names))
	for _, name := range s.names {
		c := s.rulesets[name]
		infos = append(infos, rulesetInfo{
			Name:       name,
			Title:      c.def.Title,
			Subject:    c.def.Subject,
			Hypotheses: c.rules.Hypotheses(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

type explainEntry struct {
	Fact    string     `json:"fact"`
	Clauses [][]string `json:"clauses"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, ok := s.rulesets[vars["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown ruleset")
		return
	}

	entries := explain.Definition(c.rules, vars["fact"])
	out := make([]explainEntry, 0, len(entries))
	for _, e := range entries {
		clauses := make([][]string, 0, len(e.Clauses))
		for _, clause := range e.Clauses {
			clauses = append(clauses, clause.Facts())
		}
		out = append(out, explainEntry{Fact: e.Fact, Clauses: clauses})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ruleset string `json:"ruleset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, _, err := s.gameFor(req.Ruleset, nil)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	sess, err := s.store.Create(r.Context(), req.Ruleset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.log.Info("session created",
		zap.String("id", sess.ID),
		zap.String("ruleset", req.Ruleset))
	writeJSON(w, http.StatusCreated, s.state(sess, game))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, game, err := s.loadSession(r)
	if err != nil {
		s.respondGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(sess, game))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fact string `json:"fact"`
		Yes  bool   `json:"yes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Fact == "" {
		writeError(w, http.StatusBadRequest, "fact is required")
		return
	}

	sess, game, err := s.loadSession(r)
	if err != nil {
		s.respondGameError(w, err)
		return
	}
	if _, err := game.Tree().TruthOf(req.Fact); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown fact %q", req.Fact))
		return
	}

	next, err := game.Answer(req.Fact, req.Yes)
	if err != nil {
		if errors.Is(err, internalerr.ErrContradiction) {
			s.log.Info("answer rejected",
				zap.String("id", sess.ID),
				zap.String("fact", req.Fact),
				zap.Error(err))
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.Assertions = next.Assertions()
	if fact, found, serr := next.Solution(); serr == nil && found {
		sess.Solved = true
		sess.Solution = fact
	} else {
		sess.Solved = false
		sess.Solution = ""
	}
	if err := s.store.Put(r.Context(), sess); err != nil {
		s.respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.state(sess, next))
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	_, game, err := s.loadSession(r)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	w.Write(dot.Marshal(game.Tree()))
}

type sessionSummary struct {
	ID        string    `json:"id"`
	Ruleset   string    `json:"ruleset"`
	Answered  int       `json:"answered"`
	Solved    bool      `json:"solved"`
	Solution  string    `json:"solution,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	sessions, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	out := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionSummary{
			ID:        sess.ID,
			Ruleset:   sess.Ruleset,
			Answered:  len(sess.Assertions),
			Solved:    sess.Solved,
			Solution:  sess.Solution,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionState is the response body shared by the session endpoints.
type sessionState struct {
	ID        string            `json:"id"`
	Ruleset   string            `json:"ruleset"`
	Answered  map[string]bool   `json:"answered"`
	Roots     map[string]string `json:"roots"`
	Finished  bool              `json:"finished"`
	Solved    bool              `json:"solved"`
	Solution  string            `json:"solution,omitempty"`
	NoMatch   bool              `json:"no_match,omitempty"`
	Ambiguous bool              `json:"ambiguous,omitempty"`
	Question  string            `json:"question,omitempty"`
	Prompt    string            `json:"prompt,omitempty"`
}

func (s *Server) state(sess session.Session, game *hunch.Game) sessionState {
	st := sessionState{
		ID:       sess.ID,
		Ruleset:  sess.Ruleset,
		Answered: game.Assertions(),
		Roots:    make(map[string]string),
		Finished: game.Finished(),
	}
	for _, root := range game.Tree().Roots() {
		v, err := game.Tree().TruthOf(root)
		if err != nil {
			continue
		}
		st.Roots[root] = v.String()
	}

	switch fact, found, err := game.Solution(); {
	case found:
		st.Solved = true
		st.Solution = fact
	case errors.Is(err, internalerr.ErrNoSolution):
		st.NoMatch = true
	case errors.Is(err, internalerr.ErrAmbiguousSolution):
		st.Ambiguous = true
	}

	if !st.Finished {
		if fact, ok := s.question(sess.Ruleset, game); ok {
			st.Question = fact
			subject := ""
			if c, ok := s.rulesets[sess.Ruleset]; ok {
				subject = c.def.Subject
			}
			st.Prompt = phrasing.QuestionAbout(subject, fact)
		}
	}
	return st
}

// question returns the top-ranked askable fact, consulting the cache
// first.
func (s *Server) question(ruleset string, game *hunch.Game) (string, bool) {
	key := cacheKey(ruleset, game.Assertions())
	cands, ok := s.cache.Get(key)
	if !ok {
		var err error
		cands, err = game.Candidates()
		if err != nil {
			s.log.Warn("rank failed", zap.String("ruleset", ruleset), zap.Error(err))
			return "", false
		}
		s.cache.Add(key, cands)
	}
	if len(cands) == 0 {
		return "", false
	}
	return cands[0].Fact, true
}

func cacheKey(ruleset string, assertions map[string]bool) string {
	facts := make([]string, 0, len(assertions))
	for fact := range assertions {
		facts = append(facts, fact)
	}
	sort.Strings(facts)

	var b strings.Builder
	b.WriteString(ruleset)
	for _, fact := range facts {
		b.WriteByte('|')
		b.WriteString(fact)
		b.WriteByte('=')
		b.WriteString(strconv.FormatBool(assertions[fact]))
	}
	return b.String()
}

// loadSession fetches the stored session and rebuilds its game.
func (s *Server) loadSession(r *http.Request) (session.Session, *hunch.Game, error) {
	id := mux.Vars(r)["id"]
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return session.Session{}, nil, err
	}

	game, _, err := s.gameFor(sess.Ruleset, sess.Assertions)
	if err != nil {
		return session.Session{}, nil, err
	}
	return sess, game, nil
}

func (s *Server) gameFor(name string, assertions map[string]bool) (*hunch.Game, compiledRuleset, error) {
	c, ok := s.rulesets[name]
	if !ok {
		return nil, compiledRuleset{}, fmt.Errorf("ruleset %s: %w", name, internalerr.ErrNotFound)
	}

	game, err := hunch.New(hunch.Options{
		Rules:      c.rules,
		Groups:     c.groups,
		Assertions: assertions,
	})
	if err != nil {
		return nil, compiledRuleset{}, err
	}
	return game, c, nil
}

func (s *Server) respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, internalerr.ErrContradiction):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, internalerr.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
