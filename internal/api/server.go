package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	planner "github.com/MagicOwO/pipo-agent/internal/agents/planner/actor"
	"github.com/MagicOwO/pipo-agent/internal/store"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/MagicOwO/pipo-agent/pkg/messages"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"io"
	"net/http"
	"time"
)

type command struct {
	Goal string `json:"goal"`
}

type getStatus struct {
	Status models.Job `json:"status"`
}

type startSession struct {
	Query string      `json:"query"`
	Mode  models.Mode `json:"mode"`
}

type feedback struct {
	Feedback string `json:"feedback"`
}

type accepted struct {
	ID      string `json:"id"`
	Command string `json:"command"`
}

type actionInfo struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	EstimatedDuration float64         `json:"estimatedDurationSeconds"`
	Inputs            []actions.Input `json:"inputs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Options wires the server to the rest of the application.
type Options struct {
	Addr  string
	Store store.Store
	// Actions are the actions sessions plan over.
	Actions    *actions.Registry
	NewJob     func() actor.Producer
	NewSession func(id uuid.UUID) actor.Producer
	// CheckKey reports whether an LLM key is configured.
	CheckKey func() error
	// AckTimeout bounds the wait for a session actor to accept a command.
	// A session still working on an earlier command does not answer in time.
	AckTimeout time.Duration
}

type Server struct {
	ac       *actor.RootContext
	server   *http.Server
	opts     Options
	sessions *sessionsCache
}

func New(ac *actor.RootContext, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.CheckKey == nil {
		opts.CheckKey = func() error { return nil }
	}
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = 2 * time.Second
	}
	s := &Server{
		ac:       ac,
		opts:     opts,
		sessions: newSessionsCache(),
	}

	r := chi.NewRouter()
	r.Use(logMiddleware())

	r.Get("/health", s.health)
	r.Get("/actions", s.listActions)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/new", s.newJob)
	r.Get("/status/{id}", s.jobStatus)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/start", s.startSession)
			r.Post("/feedback", s.submitFeedback)
			r.Post("/approve", s.command(func() interface{} { return messages.ApprovePlan{} }))
			r.Post("/reject", s.command(func() interface{} { return messages.RejectPlan{} }))
			r.Post("/reset", s.command(func() interface{} { return messages.ResetSession{} }))
		})
	})

	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server starting")
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]bool{"openai_api_key": s.opts.CheckKey() == nil})
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	out := []actionInfo{}
	for _, spec := range s.opts.Actions.Specs() {
		out = append(out, actionInfo{
			Name:              spec.Name,
			Description:       spec.Description,
			EstimatedDuration: spec.EstimatedDuration.Seconds(),
			Inputs:            s.opts.Actions.Inputs(spec.Name),
		})
	}
	render.JSON(w, r, out)
}

func (s *Server) newJob(w http.ResponseWriter, r *http.Request) {
	cmd := command{}
	if err := unmarshalRequestBody(r, &cmd); err != nil || cmd.Goal == "" {
		log.Debug().Msg("cannot parse body")
		fail(w, r, http.StatusBadRequest, "unable to parse body")
		return
	}
	if err := s.opts.CheckKey(); err != nil {
		fail(w, r, http.StatusPreconditionFailed, err.Error())
		return
	}

	id := uuid.New()
	job := models.Job{ID: id.String(), State: models.Init, Request: cmd.Goal, UpdatedAt: time.Now()}
	if err := s.opts.Store.Save(r.Context(), store.JobKey(job.ID), job); err != nil {
		log.Error().Err(err).Msg("unable to save job")
		fail(w, r, http.StatusInternalServerError, "unable to save job")
		return
	}

	pid := s.ac.Spawn(actor.PropsFromProducer(s.opts.NewJob(), actor.WithSupervisor(restartStrategy())))
	s.ac.Send(pid, messages.NewRequest{RequestID: id, Request: cmd.Goal})

	log.Debug().Str(logger.RequestTaskID, id.String()).Msg("agent job has been started")
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, struct {
		Id string `json:"id"`
	}{id.String()})
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var job models.Job
	if !s.load(w, r, store.JobKey(id.String()), &job) {
		return
	}
	render.JSON(w, r, getStatus{job})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	keys, err := s.opts.Store.List(r.Context(), store.SessionKey(""))
	if err != nil {
		log.Error().Err(err).Msg("unable to list sessions")
		fail(w, r, http.StatusInternalServerError, "unable to list sessions")
		return
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(store.SessionKey("")):])
	}
	render.JSON(w, r, map[string][]string{"sessions": ids})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	session := models.Session{ID: id.String(), Mode: models.ModeStatic, Stage: models.StageInput}
	s.start(w, r, session)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var session models.Session
	if !s.load(w, r, store.SessionKey(id.String()), &session) {
		return
	}
	s.start(w, r, session)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, session models.Session) {
	body := startSession{}
	if err := unmarshalRequestBody(r, &body); err != nil || body.Query == "" {
		fail(w, r, http.StatusBadRequest, "unable to parse body")
		return
	}
	if body.Mode == "" {
		body.Mode = models.ModeStatic
	}
	if !body.Mode.Valid() {
		fail(w, r, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", body.Mode))
		return
	}

	msg := messages.StartSession{Query: body.Query, Mode: body.Mode}
	if err := planner.Allowed(session.Stage, msg); err != nil {
		fail(w, r, http.StatusConflict, err.Error())
		return
	}
	if err := s.opts.CheckKey(); err != nil {
		fail(w, r, http.StatusPreconditionFailed, err.Error())
		return
	}

	id, err := uuid.Parse(session.ID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "corrupt session id")
		return
	}
	msg.SessionID = id
	if !s.ask(w, r, id, msg) {
		return
	}

	session.Query, session.Mode, session.UpdatedAt = body.Query, body.Mode, time.Now()
	log.Debug().Str(logger.SessionIDField, session.ID).Str("mode", string(body.Mode)).Msg("session started")
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, session)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var session models.Session
	if !s.load(w, r, store.SessionKey(id.String()), &session) {
		return
	}
	render.JSON(w, r, session)
}

func (s *Server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	body := feedback{}
	if err := unmarshalRequestBody(r, &body); err != nil || body.Feedback == "" {
		fail(w, r, http.StatusBadRequest, "unable to parse body")
		return
	}
	s.command(func() interface{} { return messages.SubmitFeedback{Feedback: body.Feedback} })(w, r)
}

// command forwards a workflow message to the session actor once the stored
// stage accepts it.
func (s *Server) command(newMsg func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var session models.Session
		if !s.load(w, r, store.SessionKey(id.String()), &session) {
			return
		}

		msg := newMsg()
		if err := planner.Allowed(session.Stage, msg); err != nil {
			fail(w, r, http.StatusConflict, err.Error())
			return
		}
		if !s.ask(w, r, id, msg) {
			return
		}

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, accepted{ID: id.String(), Command: fmt.Sprintf("%T", msg)})
	}
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var session models.Session
	if !s.load(w, r, store.SessionKey(id.String()), &session) {
		return
	}
	if !s.ask(w, r, id, messages.DeleteSession{}) {
		return
	}

	s.sessions.remove(id)
	log.Debug().Str(logger.SessionIDField, id.String()).Msg("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ask hands msg to the session actor and waits for it to be acknowledged. The
// stored stage can lag behind the actor, so the actor has the final say.
func (s *Server) ask(w http.ResponseWriter, r *http.Request, id uuid.UUID, msg interface{}) bool {
	req := messages.Request{Command: msg, Deadline: time.Now().Add(s.opts.AckTimeout)}
	res, err := s.ac.RequestFuture(s.sessionPID(id), req, s.opts.AckTimeout).Result()
	if err != nil {
		log.Debug().Err(err).Str(logger.SessionIDField, id.String()).Msg("session did not acknowledge")
		fail(w, r, http.StatusConflict, "session is busy")
		return false
	}
	ack, ok := res.(messages.Ack)
	if !ok {
		fail(w, r, http.StatusInternalServerError, "unexpected session reply")
		return false
	}
	if ack.Err != nil {
		fail(w, r, http.StatusConflict, ack.Err.Error())
		return false
	}
	return true
}

func (s *Server) sessionPID(id uuid.UUID) *actor.PID {
	return s.sessions.getOrSpawn(id, func() *actor.PID {
		return s.ac.Spawn(actor.PropsFromProducer(s.opts.NewSession(id), actor.WithSupervisor(restartStrategy())))
	})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, key string, out interface{}) bool {
	err := s.opts.Store.Load(r.Context(), key, out)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Debug().Str("key", key).Msg("cannot find id")
		fail(w, r, http.StatusNotFound, "not found")
		return false
	case err != nil:
		log.Error().Err(err).Str("key", key).Msg("unable to load")
		fail(w, r, http.StatusInternalServerError, "unable to load state")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Debug().Msg("cannot parse id")
		fail(w, r, http.StatusBadRequest, "unable to parse id")
		return uuid.Nil, false
	}
	return id, true
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func restartStrategy() actor.SupervisorStrategy {
	decider := func(reason interface{}) actor.Directive {
		log.Error().Msgf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	return actor.NewOneForOneStrategy(3, 10000, decider)
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
