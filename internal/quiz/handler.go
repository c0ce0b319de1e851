package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/revisely/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.LearningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Subject == "" || req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "subject and topic are required"})
		return
	}
	if req.Grade < 6 || req.Grade > 12 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "grade must be between 6 and 12"})
		return
	}
	if !models.ValidBoards[req.Board] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid board"})
		return
	}
	for _, qt := range req.QuestionTypes {
		if !models.ValidQuestionTypes[models.QuestionType(qt)] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid question type: " + qt})
			return
		}
	}
	for _, dl := range req.DifficultyLevels {
		if !models.ValidDifficultyLevels[models.DifficultyLevel(dl)] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid difficulty level: " + dl})
			return
		}
	}

	// Default count
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	}
	if req.QuestionCount < 5 || req.QuestionCount > 50 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_count must be between 5 and 50"})
		return
	}

	detail, err := h.service.CreateTopic(r.Context(), userID, req)
	if err != nil {
		log.Printf("create topic failed for user %d: %v", userID, err)
		switch {
		case errors.Is(err, ErrGenerationFailed):
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed, please try again"})
		case errors.Is(err, ErrIncompleteBank):
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Generated question bank was incomplete, please try again"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create topic"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	topics, err := h.service.ListTopics(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list topics"})
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	writeJSON(w, http.StatusOK, models.TopicListResponse{Topics: topics, Total: len(topics)})
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid topic ID"})
		return
	}

	detail, err := h.service.GetTopic(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Topic not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load topic"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	due, err := h.service.DueEntries(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list due reviews"})
		return
	}
	if due == nil {
		due = []models.DueEntry{}
	}
	writeJSON(w, http.StatusOK, models.DueListResponse{Entries: due, Total: len(due)})
}

func (h *Handler) GetAttemptQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid schedule entry ID"})
		return
	}

	resp, err := h.service.AttemptQuestions(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Schedule entry not found"})
			return
		}
		log.Printf("serve attempt failed for entry %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load questions"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid schedule entry ID"})
		return
	}

	var req models.CompleteAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Score == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "score is required"})
		return
	}
	if *req.Score < 0 || *req.Score > 100 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "score must be between 0 and 100"})
		return
	}

	resp, err := h.service.CompleteAttempt(r.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Schedule entry not found"})
			return
		}
		log.Printf("complete attempt failed for entry %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ReviewAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid schedule entry ID"})
		return
	}

	resp, err := h.service.ReviewAttempt(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Completed attempt not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load review"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
