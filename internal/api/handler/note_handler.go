package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homenotes/homenotes/internal/api/metrics"
	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// NoteHandler serves the authenticated note list and creation flow.
type NoteHandler struct {
	noteService ports.NoteService
}

func NewNoteHandler(noteService ports.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List returns the caller's notes, newest first.
//
// @Summary      List your notes
// @Tags         notes
// @Produce      json
// @Success      200  {object}  noteListResponse
// @Router       / [get]
func (h *NoteHandler) List(c echo.Context) error {
	userID, username, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	notes, err := h.noteService.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := noteListResponse{
		Username: username,
		Notes:    make([]noteResponse, 0, len(notes)),
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, noteResponse{
			ID:        n.ID,
			Body:      n.Body,
			Timestamp: n.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Create persists a new note for the caller and sends them back to the list.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Param        note  formData  string  true  "Note body"
// @Success      303
// @Failure      422  {object}  fieldErrorResponse
// @Router       / [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if _, err := h.noteService.Create(c.Request().Context(), userID, req.Note); err != nil {
		if errors.Is(err, domain.ErrEmptyNote) {
			return c.JSON(http.StatusUnprocessableEntity, fieldErrorResponse{
				Errors: FieldErrors{"note": err.Error()},
			})
		}
		return err
	}

	metrics.NotesCreatedTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}
