package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"daily-riddle-service/internal/app"
	"daily-riddle-service/internal/domain"
)

// Handler exposes the riddle use cases as a JSON API. Authentication and
// admin authorization sit in front of this handler and are not its concern.
type Handler struct {
	service *app.PuzzleService
}

func NewHandler(service *app.PuzzleService) *Handler {
	return &Handler{service: service}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/puzzle/today", h.handleToday)
	mux.HandleFunc("/puzzle/check-day", h.handleCheckDay)
	mux.HandleFunc("/puzzle/all", h.handleList)
	mux.HandleFunc("/puzzle", h.handleCreate)
	mux.HandleFunc("/guess", h.handleGuess)
	mux.HandleFunc("/score", h.handleScore)
	mux.HandleFunc("/date/today", h.handleServerToday)
}

// handleToday resolves the puzzle for the caller's own calendar day. The
// day arrives explicitly as ?localDay=YYYY-MM-DD; the server never guesses
// the caller's time zone.
func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	localDay := r.URL.Query().Get("localDay")
	if localDay == "" {
		writeError(w, http.StatusBadRequest, "localDay query parameter is required")
		return
	}
	puzzle, err := h.service.TodayPuzzle(r.Context(), localDay)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, puzzle)
}

type createPuzzleRequest struct {
	Content  string `json:"content"`
	Solution string `json:"solution"`
	Day      string `json:"day"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req createPuzzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" || req.Solution == "" || req.Day == "" {
		writeError(w, http.StatusBadRequest, "content, solution, and day are required")
		return
	}
	puzzle, err := h.service.CreatePuzzle(r.Context(), req.Content, req.Solution, req.Day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, puzzle.Public())
}

func (h *Handler) handleCheckDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	day := r.URL.Query().Get("day")
	if day == "" {
		writeError(w, http.StatusBadRequest, "day query parameter is required")
		return
	}
	available, err := h.service.CheckDayAvailable(r.Context(), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available, "exists": !available})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	puzzles, err := h.service.ListPuzzles(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, puzzles)
}

type guessRequest struct {
	Identity string `json:"identity"`
	PuzzleID string `json:"puzzleId"`
	Text     string `json:"text"`
}

type guessResponse struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
	Solved  bool `json:"solved"`
}

func (h *Handler) handleGuess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identity == "" || req.PuzzleID == "" {
		writeError(w, http.StatusBadRequest, "identity and puzzleId are required")
		return
	}
	attempt, err := h.service.SubmitGuess(r.Context(), req.Identity, req.PuzzleID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guessResponse{
		Correct: attempt.Correct,
		Score:   attempt.Ordinal,
		Solved:  attempt.Correct,
	})
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "identity query parameter is required")
		return
	}
	summary, err := h.service.Score(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleServerToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	today := h.service.ServerToday()
	writeJSON(w, http.StatusOK, map[string]any{
		"today": today.String(),
		"year":  today.Year,
		"month": int(today.Month),
		"day":   today.Date,
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a store fault: logged with detail, masked to the
// client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDayTaken):
		writeError(w, http.StatusBadRequest, "a puzzle already exists for this date")
	case errors.Is(err, domain.ErrAlreadySolved):
		writeError(w, http.StatusBadRequest, "puzzle already solved")
	case errors.Is(err, domain.ErrAttemptConflict):
		writeError(w, http.StatusConflict, "a simultaneous guess was recorded first, try again")
	case errors.Is(err, domain.ErrPuzzleNotFound):
		writeError(w, http.StatusNotFound, "no puzzle available")
	default:
		log.Printf("store fault: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// wsErrorMessage applies the same taxonomy masking for socket clients.
func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedDate),
		errors.Is(err, domain.ErrDayTaken),
		errors.Is(err, domain.ErrAlreadySolved),
		errors.Is(err, domain.ErrAttemptConflict),
		errors.Is(err, domain.ErrPuzzleNotFound):
		return err.Error()
	default:
		log.Printf("store fault: %v", err)
		return "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
