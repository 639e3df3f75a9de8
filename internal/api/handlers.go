package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sharebox/internal/database"
	"sharebox/internal/metrics"
	"sharebox/internal/models"
	"sharebox/internal/service"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondErr maps domain errors to HTTP statuses. Unknown errors become 500
// and get logged; the client sees a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrNotItemOwner),
		errors.Is(err, service.ErrSelfBooking):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrCommentNotAllowed),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, models.ErrUnsupportedState):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDoubleApproval),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// actorID extracts the acting user from the sharer header.
func actorID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
	return id, err == nil && id > 0
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func pageParams(r *http.Request) (from, size int) {
	from, _ = strconv.Atoi(r.URL.Query().Get("from"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	return from, size
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- users ---

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	created, err := s.users.Add(r.Context(), user)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.All(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var patch models.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	user, err := s.users.Patch(r.Context(), id, patch)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- items ---

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	var item models.Item
	if !decodeBody(w, r, &item) {
		return
	}
	created, err := s.items.Add(r.Context(), ownerID, item)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	views, err := s.items.AllByOwner(r.Context(), ownerID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if views == nil {
		views = []models.ItemView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	views, err := s.items.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if views == nil {
		views = []models.ItemView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	view, err := s.items.Get(r.Context(), viewerID, itemID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var patch models.ItemPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	view, err := s.items.Patch(r.Context(), userID, itemID, patch)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := s.items.Delete(r.Context(), userID, itemID); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	comment, err := s.items.AddComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// --- bookings ---

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	var req models.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := s.bookings.Create(r.Context(), bookerID, req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}
	view, err := s.bookings.Approve(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if approved {
		metrics.IncBookingDecision("approved")
	} else {
		metrics.IncBookingDecision("rejected")
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	view, err := s.bookings.GetByID(r.Context(), viewerID, bookingID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleBooker)
}

func (s *Server) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleOwner)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, role models.ListRole) {
	viewerID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	filter, err := models.ParseStateFilter(r.URL.Query().Get("state"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	from, size := pageParams(r)
	views, err := s.bookings.List(r.Context(), viewerID, role, filter, from, size)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if views == nil {
		views = []models.BookingView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// --- requests ---

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	var body struct {
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	view, err := s.requests.Add(r.Context(), userID, body.Description)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	views, err := s.requests.AllOwn(r.Context(), userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if views == nil {
		views = []models.RequestView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	from, size := pageParams(r)
	views, err := s.requests.AllOthers(r.Context(), userID, from, size)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if views == nil {
		views = []models.RequestView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing sharer header")
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	view, err := s.requests.Get(r.Context(), userID, requestID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// --- admin ---

func (s *Server) handleEnqueueExport(w http.ResponseWriter, r *http.Request) {
	task := &models.ExportTask{
		TaskType:  "bookings_export",
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	if err := s.queue.CreateExportTask(r.Context(), task); err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int64{"taskId": task.ID})
}
