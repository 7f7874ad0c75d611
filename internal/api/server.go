package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hangul-ai/internal/export"
	"hangul-ai/internal/models"
	"hangul-ai/internal/progress"
	"hangul-ai/internal/srs"
	"hangul-ai/internal/store"
)

// XP awarded per activity. Reviews only pay out on a successful recall.
const (
	xpChat        = 5
	xpReview      = 10
	xpQuizCorrect = 10
	xpAssignment  = 20
)

// Generator produces learning content. Failures surface as an error next to
// a usable fallback batch; handlers log the error and keep going.
type Generator interface {
	Flashcards(ctx context.Context, topic string) ([]models.CardContent, error)
	Quiz(ctx context.Context, topic string) ([]models.QuizQuestion, error)
	Feedback(ctx context.Context, topic, task, response string) (string, error)
	TutorReply(ctx context.Context, message string) (string, error)
}

type Server struct {
	mux       *http.ServeMux
	store     *store.Store
	sched     srs.Scheduler
	generator Generator
	exportDir string
	snapshot  string
	now       func() time.Time
}

func NewServer(st *store.Store, sched srs.Scheduler, gen Generator, exportDir, snapshotPath string) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		store:     st,
		sched:     sched,
		generator: gen,
		exportDir: exportDir,
		snapshot:  snapshotPath,
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/flashcards/generate", s.handleGenerateFlashcards)
	s.mux.HandleFunc("/api/flashcards/due", s.handleDueCards)
	s.mux.HandleFunc("/api/flashcards/stats", s.handleFlashcardStats)
	s.mux.HandleFunc("/api/flashcards/export", s.handleExportDeck)
	s.mux.HandleFunc("/api/flashcards/import", s.handleImportDeck)
	s.mux.HandleFunc("/api/flashcards/", s.handleCardActions)
	s.mux.HandleFunc("/api/quizzes/generate", s.handleGenerateQuiz)
	s.mux.HandleFunc("/api/quizzes/submit", s.handleSubmitQuiz)
	s.mux.HandleFunc("/api/quizzes/accuracy", s.handleQuizAccuracy)
	s.mux.HandleFunc("/api/assignments", s.handleAssignments)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type topicRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleGenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload topicRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	now := s.now()
	cards, genErr := s.generator.Flashcards(r.Context(), payload.Topic)
	if genErr != nil {
		log.Printf("flashcard generation for %q fell back: %v", payload.Topic, genErr)
	}

	if err := s.store.AddFlashcards(r.Context(), payload.Topic, cards, now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.LogActivity(r.Context(), now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"added":    len(cards),
		"topic":    payload.Topic,
		"fallback": genErr != nil,
	})
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	cards, err := s.store.DueCards(r.Context(), s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleFlashcardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	stats, err := s.store.FlashcardStats(r.Context(), s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type reviewRequest struct {
	Outcome string `json:"outcome"`
}

func (s *Server) handleCardActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/flashcards/")
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "review" {
		http.NotFound(w, r)
		return
	}

	cardID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	outcome, err := srs.ParseOutcome(payload.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	card, err := s.store.Flashcard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			writeError(w, http.StatusNotFound, "flashcard not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := s.now()
	interval, nextReview := s.sched.Next(card.Interval, now, outcome)
	if err := s.store.UpdateCard(r.Context(), cardID, interval, nextReview); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if outcome == srs.Easy {
		if err := s.store.AddXP(r.Context(), xpReview); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := s.store.LogActivity(r.Context(), now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mirrorSnapshot(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"card": map[string]any{
			"id":         cardID,
			"interval":   interval,
			"nextReview": nextReview,
		},
		"outcome": outcome.String(),
	})
}

func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	cards, err := s.store.AllFlashcards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	path, err := export.WriteDeck(s.exportDir, cards)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "cards": len(cards)})
}

type importRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload importRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	entries, err := export.ReadDeck(payload.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	byTopic := make(map[string][]models.CardContent)
	var order []string
	for _, e := range entries {
		topic := e.Topic
		if topic == "" {
			topic = "Imported"
		}
		if _, seen := byTopic[topic]; !seen {
			order = append(order, topic)
		}
		byTopic[topic] = append(byTopic[topic], e.Card)
	}
	for _, topic := range order {
		if err := s.store.AddFlashcards(r.Context(), topic, byTopic[topic], now); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"imported": len(entries), "topics": len(order)})
}

func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload topicRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	quiz, genErr := s.generator.Quiz(r.Context(), payload.Topic)
	if genErr != nil {
		log.Printf("quiz generation for %q fell back: %v", payload.Topic, genErr)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":     payload.Topic,
		"questions": quiz,
		"fallback":  genErr != nil,
	})
}

type quizSubmission struct {
	Topic      string   `json:"topic"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	UserAnswer string   `json:"userAnswer"`
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload quizSubmission
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Question == "" || payload.Answer == "" {
		writeError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	now := s.now()
	correct := payload.UserAnswer == payload.Answer
	if err := s.store.SaveQuizResult(r.Context(), payload.Topic, payload.Question,
		payload.Options, payload.Answer, payload.UserAnswer, correct, now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if correct {
		if err := s.store.AddXP(r.Context(), xpQuizCorrect); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := s.store.LogActivity(r.Context(), now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mirrorSnapshot(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{"correct": correct})
}

func (s *Server) handleQuizAccuracy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	acc, err := s.store.QuizAccuracy(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := map[string]any{"total": acc.Total, "correct": acc.Correct}
	if pct, ok := progress.Accuracy(acc.Total, acc.Correct); ok {
		out["accuracy"] = pct
	} else {
		out["accuracy"] = nil
		out["message"] = "no quizzes answered yet"
	}
	writeJSON(w, http.StatusOK, out)
}

type assignmentRequest struct {
	Topic    string `json:"topic"`
	Task     string `json:"task"`
	Response string `json:"response"`
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleAssignmentHistory(w, r)
	case http.MethodPost:
		s.handleSubmitAssignment(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.AssignmentHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": history})
}

func (s *Server) handleSubmitAssignment(w http.ResponseWriter, r *http.Request) {
	var payload assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Task == "" || payload.Response == "" {
		writeError(w, http.StatusBadRequest, "task and response are required")
		return
	}

	now := s.now()
	feedback, genErr := s.generator.Feedback(r.Context(), payload.Topic, payload.Task, payload.Response)
	if genErr != nil {
		log.Printf("feedback generation fell back: %v", genErr)
	}

	if err := s.store.AddAssignment(r.Context(), payload.Topic, payload.Task, payload.Response, feedback, now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.AddXP(r.Context(), xpAssignment); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.LogActivity(r.Context(), now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mirrorSnapshot(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"feedback": feedback,
		"fallback": genErr != nil,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	now := s.now()
	reply, genErr := s.generator.TutorReply(r.Context(), payload.Message)
	if genErr != nil {
		log.Printf("tutor reply fell back: %v", genErr)
	}

	if err := s.store.AddXP(r.Context(), xpChat); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.LogActivity(r.Context(), now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.mirrorSnapshot(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"reply":    reply,
		"fallback": genErr != nil,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx := r.Context()
	now := s.now()

	stats, err := s.store.FlashcardStats(ctx, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	acc, err := s.store.QuizAccuracy(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	streaks, err := s.store.Streaks(ctx, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	xp, err := s.store.XP(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := map[string]any{
		"flashcards": stats,
		"quizzes":    map[string]any{"total": acc.Total, "correct": acc.Correct},
		"streaks":    streaks,
		"xp":         xp,
	}
	if pct, ok := progress.Accuracy(acc.Total, acc.Correct); ok {
		out["quizzes"].(map[string]any)["accuracy"] = pct
	}
	writeJSON(w, http.StatusOK, out)
}

// mirrorSnapshot copies the current progress totals to the flat snapshot
// file. The database stays authoritative; a failed mirror is logged, never
// surfaced to the learner.
func (s *Server) mirrorSnapshot(ctx context.Context) {
	if s.snapshot == "" {
		return
	}

	xp, err := s.store.XP(ctx)
	if err != nil {
		log.Printf("snapshot mirror: read xp: %v", err)
		return
	}
	acc, err := s.store.QuizAccuracy(ctx)
	if err != nil {
		log.Printf("snapshot mirror: read quiz accuracy: %v", err)
		return
	}
	assignments, err := s.store.AssignmentHistory(ctx)
	if err != nil {
		log.Printf("snapshot mirror: read assignments: %v", err)
		return
	}

	snap := progress.Snapshot{
		XP:              xp.Points,
		QuizzesTaken:    acc.Total,
		CorrectAnswers:  acc.Correct,
		AssignmentsDone: len(assignments),
	}
	if err := progress.SaveSnapshot(s.snapshot, snap); err != nil {
		log.Printf("snapshot mirror: save: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
