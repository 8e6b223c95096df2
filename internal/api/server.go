// Package api provides the HTTP surface over the suggestion engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/engine"
	"github.com/kinship-hq/kinship/internal/logging"
	"github.com/kinship-hq/kinship/internal/scoring"
	"github.com/kinship-hq/kinship/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	wsHub      *WebSocketHub
	log        *logging.Logger

	service  *engine.Service
	recorder *scoring.Recorder

	rels         *storage.RelationshipStore
	interactions *storage.InteractionStore
	intentions   *storage.IntentionStore
	lifeEvents   *storage.LifeEventStore
}

// Config for the server.
type Config struct {
	Host    string
	Port    int
	Service *engine.Service
}

// New creates the API server over an engine service.
func New(cfg Config) *Server {
	rels, interactions, intentions, lifeEvents := cfg.Service.Stores()
	s := &Server{
		service:      cfg.Service,
		recorder:     scoring.NewRecorder(rels, interactions),
		rels:         rels,
		interactions: interactions,
		intentions:   intentions,
		lifeEvents:   lifeEvents,
		wsHub:        NewWebSocketHub(),
		log:          logging.Component("api"),
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/suggestions", s.handleGetSuggestions)
		r.Post("/suggestions/{id}/dismiss", s.handleDismissSuggestion)

		r.Get("/relationships", s.handleListRelationships)
		r.Post("/relationships", s.handleCreateRelationship)
		r.Get("/relationships/{id}", s.handleGetRelationship)
		r.Put("/relationships/{id}", s.handleUpdateRelationship)
		r.Delete("/relationships/{id}", s.handleDeleteRelationship)

		r.Post("/interactions", s.handleCreateInteraction)
		r.Put("/interactions/{id}", s.handleUpdateInteraction)
		r.Delete("/interactions/{id}", s.handleDeleteInteraction)

		r.Post("/intentions", s.handleCreateIntention)
		r.Post("/intentions/{id}/schedule", s.handleScheduleIntention)
		r.Delete("/intentions/{id}", s.handleDeleteIntention)

		r.Post("/life-events", s.handleCreateLifeEvent)
		r.Delete("/life-events/{id}", s.handleDeleteLifeEvent)
	})

	r.Get("/ws", s.handleWebSocket)

	s.router = r
}

// Start runs the server until it stops.
func (s *Server) Start() error {
	go s.wsHub.Run()
	s.log.Info("API server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// BroadcastSuggestions pushes a fresh batch to connected clients.
func (s *Server) BroadcastSuggestions(batch []core.Suggestion) {
	s.wsHub.Broadcast(WebSocketMessage{
		Type:      "suggestions",
		Data:      batch,
		Timestamp: time.Now().UTC(),
	})
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrRecordNotFound),
		errors.Is(err, core.ErrRelationshipNotFound),
		errors.Is(err, core.ErrInteractionNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Suggestions ---

func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	batch, err := s.service.Generate(r.Context(), time.Now())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.BroadcastSuggestions(batch)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": batch,
		"count":       len(batch),
	})
}

func (s *Server) handleDismissSuggestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.service.Dismiss(r.Context(), id, time.Now())
	if errors.Is(err, core.ErrNotDismissible) {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// --- Relationships ---

// relationshipView decorates a stored relationship with its live score.
type relationshipView struct {
	core.Relationship
	CurrentScore int `json:"current_score"`
}

func (s *Server) viewOf(rel core.Relationship, now time.Time) relationshipView {
	return relationshipView{
		Relationship: rel,
		CurrentScore: scoring.DisplayScore(scoring.CurrentScore(rel, now)),
	}
}

func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	rels, err := s.rels.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	now := time.Now()
	views := make([]relationshipView, 0, len(rels))
	for _, rel := range rels {
		views = append(views, s.viewOf(rel, now))
	}
	s.respondJSON(w, http.StatusOK, views)
}

type relationshipRequest struct {
	Name        string     `json:"name"`
	Tier        core.Tier  `json:"tier"`
	Archetype   string     `json:"archetype"`
	Type        string     `json:"type"`
	Birthday    *time.Time `json:"birthday"`
	Anniversary *time.Time `json:"anniversary"`
}

func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.Tier.Valid() {
		s.respondError(w, http.StatusBadRequest, core.ErrInvalidTier.Error())
		return
	}

	rel := &core.Relationship{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Tier:          req.Tier,
		Archetype:     core.Archetype(req.Archetype),
		Type:          core.RelationshipType(req.Type),
		VitalityScore: 50,
		Birthday:      req.Birthday,
		Anniversary:   req.Anniversary,
	}
	if err := s.rels.Create(r.Context(), rel); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, s.viewOf(*rel, time.Now()))
}

func (s *Server) handleGetRelationship(w http.ResponseWriter, r *http.Request) {
	rel, err := s.rels.Relationship(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.viewOf(rel, time.Now()))
}

func (s *Server) handleUpdateRelationship(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rel, err := s.rels.Relationship(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req relationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name != "" {
		rel.Name = req.Name
	}
	if req.Tier != "" {
		if !req.Tier.Valid() {
			s.respondError(w, http.StatusBadRequest, core.ErrInvalidTier.Error())
			return
		}
		rel.Tier = req.Tier
	}
	if req.Archetype != "" {
		rel.Archetype = core.Archetype(req.Archetype)
	}
	if req.Type != "" {
		rel.Type = core.RelationshipType(req.Type)
	}
	if req.Birthday != nil {
		rel.Birthday = req.Birthday
	}
	if req.Anniversary != nil {
		rel.Anniversary = req.Anniversary
	}

	if err := s.rels.Update(r.Context(), &rel); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.viewOf(rel, time.Now()))
}

func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	if err := s.rels.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Interactions ---

type interactionRequest struct {
	Participants  []string   `json:"participants"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	OccurredAt    *time.Time `json:"occurred_at"`
	Duration      string     `json:"duration"`
	Vibe          int        `json:"vibe"`
	HasReflection bool       `json:"has_reflection"`
	Initiator     string     `json:"initiator"`
}

func (req interactionRequest) validate() error {
	if len(req.Participants) == 0 {
		return core.ErrNoParticipants
	}
	if req.Vibe < 0 || req.Vibe > 5 {
		return core.ErrInvalidVibe
	}
	return nil
}

// handleCreateInteraction logs or plans an interaction and credits the
// score contribution to every participant.
func (s *Server) handleCreateInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := core.InteractionStatus(req.Status)
	if status == "" {
		status = core.StatusCompleted
	}
	occurred := time.Now().UTC()
	if req.OccurredAt != nil {
		occurred = *req.OccurredAt
	}
	duration := core.Duration(req.Duration)
	if duration == "" {
		duration = core.DurationStandard
	}

	in := &core.Interaction{
		ID:            uuid.NewString(),
		Participants:  req.Participants,
		Category:      core.InteractionCategory(req.Category),
		Status:        status,
		OccurredAt:    occurred,
		Duration:      duration,
		Vibe:          req.Vibe,
		HasReflection: req.HasReflection,
		Initiator:     core.Initiator(req.Initiator),
	}
	if err := s.interactions.Create(r.Context(), in); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.recorder.Apply(r.Context(), *in); err != nil {
		// The interaction is stored; surface the scoring failure without
		// losing the record.
		s.log.Error("apply scores for %s: %v", in.ID, err)
		s.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"interaction": in,
			"warning":     "some scores could not be updated",
		})
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"interaction": in})
}

// handleUpdateInteraction edits an interaction: the original contribution
// is backed out with its logged parameters and the edit applied fresh.
func (s *Server) handleUpdateInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	old, err := s.interactions.Interaction(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	edited := old
	if req.Category != "" {
		edited.Category = core.InteractionCategory(req.Category)
	}
	if req.Status != "" {
		edited.Status = core.InteractionStatus(req.Status)
	}
	if req.OccurredAt != nil {
		edited.OccurredAt = *req.OccurredAt
	}
	if req.Duration != "" {
		edited.Duration = core.Duration(req.Duration)
	}
	if req.Vibe != 0 {
		if req.Vibe < 1 || req.Vibe > 5 {
			s.respondError(w, http.StatusBadRequest, core.ErrInvalidVibe.Error())
			return
		}
		edited.Vibe = req.Vibe
	}
	if req.HasReflection {
		edited.HasReflection = true
	}
	if req.Initiator != "" {
		edited.Initiator = core.Initiator(req.Initiator)
	}

	participantsChanged := len(req.Participants) > 0
	if participantsChanged {
		edited.Participants = req.Participants
	}

	if err := s.interactions.Update(r.Context(), &edited); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if participantsChanged {
		if err := s.recorder.SyncParticipants(r.Context(), old, req.Participants); err != nil {
			s.log.Error("sync participants for %s: %v", id, err)
		}
		if err := s.interactions.SetParticipants(r.Context(), id, req.Participants); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		old.Participants = req.Participants
	}
	if err := s.recorder.Reapply(r.Context(), old, edited); err != nil {
		s.log.Error("reapply scores for %s: %v", id, err)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"interaction": edited})
}

// handleDeleteInteraction reverts the contribution before removing the row.
func (s *Server) handleDeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, err := s.interactions.Interaction(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if err := s.recorder.Revert(r.Context(), in); err != nil {
		s.log.Error("revert scores for %s: %v", id, err)
	}
	if err := s.interactions.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Intentions ---

type intentionRequest struct {
	RelationshipID string `json:"relationship_id"`
	Note           string `json:"note"`
}

func (s *Server) handleCreateIntention(w http.ResponseWriter, r *http.Request) {
	var req intentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.RelationshipID == "" {
		s.respondError(w, http.StatusBadRequest, "relationship_id is required")
		return
	}

	intent := &core.Intention{
		ID:             uuid.NewString(),
		RelationshipID: req.RelationshipID,
		Note:           req.Note,
		Active:         true,
	}
	if err := s.intentions.Create(r.Context(), intent); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, intent)
}

func (s *Server) handleScheduleIntention(w http.ResponseWriter, r *http.Request) {
	if err := s.intentions.MarkScheduled(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "scheduled"})
}

func (s *Server) handleDeleteIntention(w http.ResponseWriter, r *http.Request) {
	if err := s.intentions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Life events ---

type lifeEventRequest struct {
	RelationshipID string     `json:"relationship_id"`
	Kind           string     `json:"kind"`
	Label          string     `json:"label"`
	Date           *time.Time `json:"date"`
	Recurring      bool       `json:"recurring"`
	LeadDays       int        `json:"lead_days"`
}

func (s *Server) handleCreateLifeEvent(w http.ResponseWriter, r *http.Request) {
	var req lifeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.RelationshipID == "" || req.Date == nil {
		s.respondError(w, http.StatusBadRequest, "relationship_id and date are required")
		return
	}

	ev := &core.LifeEvent{
		ID:             uuid.NewString(),
		RelationshipID: req.RelationshipID,
		Kind:           core.LifeEventKind(req.Kind),
		Label:          req.Label,
		Date:           *req.Date,
		Recurring:      req.Recurring,
		LeadDays:       req.LeadDays,
	}
	if err := s.lifeEvents.Create(r.Context(), ev); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleDeleteLifeEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.lifeEvents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
