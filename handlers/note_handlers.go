package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/servicedesk/middleware"
	"p9e.in/servicedesk/models"
)

// NoteHandlers exposes both note families over the same route shapes:
// threads hang off a service inward or a call log, replies stay one level
// deep. Editing someone else's note needs the note delete permission.
type NoteHandlers struct {
	db           *gorm.DB
	inwardNotes  *NoteService[models.InwardNote, *models.InwardNote]
	callLogNotes *NoteService[models.CallLogNote, *models.CallLogNote]
}

func NewNoteHandlers(db *gorm.DB) *NoteHandlers {
	return &NoteHandlers{
		db:           db,
		inwardNotes:  NewNoteService[models.InwardNote](db, "inward note"),
		callLogNotes: NewNoteService[models.CallLogNote](db, "call log note"),
	}
}

type notePayload struct {
	Note     string     `json:"note"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *NoteHandlers) ListInwardNotes(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerID(r, &models.ServiceInward{}, "service inward")
	if err != nil {
		respondError(w, err)
		return
	}
	notes, err := h.inwardNotes.ListRoots(ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": notes})
}

func (h *NoteHandlers) AddInwardNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerID(r, &models.ServiceInward{}, "service inward")
	if err != nil {
		respondError(w, err)
		return
	}
	var body notePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	note, err := h.inwardNotes.AddNote(ownerID, actorID(r), body.Note, body.ParentID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "note added", "data": note})
}

func (h *NoteHandlers) EditInwardNote(w http.ResponseWriter, r *http.Request) {
	var body notePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	note, err := h.inwardNotes.EditNote(mux.Vars(r)["noteId"], actorID(r), canModerateNotes(r), body.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "note updated", "data": note})
}

func (h *NoteHandlers) DeleteInwardNote(w http.ResponseWriter, r *http.Request) {
	if err := h.inwardNotes.DeleteNote(mux.Vars(r)["noteId"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "note deleted"})
}

func (h *NoteHandlers) ListCallLogNotes(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerID(r, &models.CallLog{}, "call log")
	if err != nil {
		respondError(w, err)
		return
	}
	notes, err := h.callLogNotes.ListRoots(ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": notes})
}

func (h *NoteHandlers) AddCallLogNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerID(r, &models.CallLog{}, "call log")
	if err != nil {
		respondError(w, err)
		return
	}
	var body notePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	note, err := h.callLogNotes.AddNote(ownerID, actorID(r), body.Note, body.ParentID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "note added", "data": note})
}

func (h *NoteHandlers) EditCallLogNote(w http.ResponseWriter, r *http.Request) {
	var body notePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	note, err := h.callLogNotes.EditNote(mux.Vars(r)["noteId"], actorID(r), canModerateNotes(r), body.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "note updated", "data": note})
}

func (h *NoteHandlers) DeleteCallLogNote(w http.ResponseWriter, r *http.Request) {
	if err := h.callLogNotes.DeleteNote(mux.Vars(r)["noteId"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "note deleted"})
}

// ownerID resolves the {id} path segment to an existing owner row.
func (h *NoteHandlers) ownerID(r *http.Request, model interface{}, entity string) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &models.NotFoundError{Entity: entity, ID: raw}
	}
	var count int64
	if err := h.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return uuid.Nil, err
	}
	if count == 0 {
		return uuid.Nil, &models.NotFoundError{Entity: entity, ID: raw}
	}
	return id, nil
}

func canModerateNotes(r *http.Request) bool {
	return middleware.Can(r, "note:delete")
}
