// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/classtrack/classtrack/internal/tracker"
)

type classroomHandler struct {
	svc *tracker.ClassroomService
}

type createClassroomRequest struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type addStudentRequest struct {
	Email string `json:"email"`
}

type classroomResponse struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacherId"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Students    []string  `json:"students,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newClassroomResponse(c *tracker.Classroom) classroomResponse {
	resp := classroomResponse{
		ID:          c.ID.String(),
		TeacherID:   c.TeacherID.String(),
		Name:        c.Name,
		Subject:     c.Subject,
		Description: c.Description,
		IsActive:    c.Active,
		CreatedAt:   c.CreatedAt,
	}
	if c.Students != nil {
		resp.Students = make([]string, 0, len(c.Students))
		for _, id := range c.Students {
			resp.Students = append(resp.Students, id.String())
		}
	}
	return resp
}

func newClassroomListResponse(classrooms []*tracker.Classroom) []classroomResponse {
	out := make([]classroomResponse, 0, len(classrooms))
	for _, c := range classrooms {
		out = append(out, newClassroomResponse(c))
	}
	return out
}

// urlULID parses the named URL parameter as a ULID. A malformed ID maps
// to not found so route probing cannot distinguish bad IDs from missing
// resources.
func urlULID(r *http.Request, name string) (ulid.ULID, error) {
	id, err := ulid.Parse(chi.URLParam(r, name))
	if err != nil {
		return ulid.ULID{}, tracker.ErrNotFound
	}
	return id, nil
}

func (h *classroomHandler) listMine(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	classrooms, err := h.svc.ListMine(r.Context(), p)
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusOK, newClassroomListResponse(classrooms))
}

func (h *classroomHandler) create(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var req createClassroomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	c, err := h.svc.Create(r.Context(), p, req.Name, req.Subject, req.Description)
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusCreated, newClassroomResponse(c))
}

func (h *classroomHandler) update(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	var patch tracker.ClassroomPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, "classroom", err)
		return
	}
	if patch.IsZero() {
		writeError(w, r, "classroom", &tracker.ValidationError{Field: "body", Message: "must change at least one field"})
		return
	}

	c, err := h.svc.Update(r.Context(), p, id, patch)
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusOK, newClassroomResponse(c))
}

func (h *classroomHandler) delete(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (h *classroomHandler) addStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	var req addStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	c, err := h.svc.AddStudent(r.Context(), p, id, req.Email)
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusOK, newClassroomResponse(c))
}

func (h *classroomHandler) removeStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}
	studentID, err := urlULID(r, "studentID")
	if err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	if err := h.svc.RemoveStudent(r.Context(), p, id, studentID); err != nil {
		writeError(w, r, "classroom", err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
