// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/classtrack/classtrack/internal/tracker"
)

type progressHandler struct {
	svc *tracker.ProgressService
}

type createProgressRequest struct {
	StudentID        string                    `json:"studentId"`
	ClassroomID      string                    `json:"classroomId"`
	Subject          string                    `json:"subject"`
	Score            float64                   `json:"score"`
	CompletedModules []tracker.CompletedModule `json:"completedModules"`
	TotalModules     int                       `json:"totalModules"`
}

type progressResponse struct {
	ID                 string                    `json:"id"`
	StudentID          string                    `json:"studentId"`
	ClassroomID        string                    `json:"classroomId"`
	Subject            string                    `json:"subject"`
	Score              float64                   `json:"score"`
	CompletedModules   []tracker.CompletedModule `json:"completedModules"`
	TotalModules       int                       `json:"totalModules"`
	ProgressPercentage float64                   `json:"progressPercentage"`
	LastUpdated        time.Time                 `json:"lastUpdated"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

func newProgressResponse(pr *tracker.Progress) progressResponse {
	modules := pr.CompletedModules
	if modules == nil {
		modules = []tracker.CompletedModule{}
	}
	return progressResponse{
		ID:                 pr.ID.String(),
		StudentID:          pr.StudentID.String(),
		ClassroomID:        pr.ClassroomID.String(),
		Subject:            pr.Subject,
		Score:              pr.Score,
		CompletedModules:   modules,
		TotalModules:       pr.TotalModules,
		ProgressPercentage: pr.ProgressPercentage,
		LastUpdated:        pr.LastUpdated,
		CreatedAt:          pr.CreatedAt,
	}
}

func newProgressListResponse(records []*tracker.Progress) []progressResponse {
	out := make([]progressResponse, 0, len(records))
	for _, pr := range records {
		out = append(out, newProgressResponse(pr))
	}
	return out
}

func (h *progressHandler) listMine(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	records, err := h.svc.ListMine(r.Context(), p)
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	writeJSON(w, http.StatusOK, newProgressListResponse(records))
}

func (h *progressHandler) listForClassroom(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	classroomID, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	records, err := h.svc.ListForClassroom(r.Context(), p, classroomID)
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	writeJSON(w, http.StatusOK, newProgressListResponse(records))
}

func (h *progressHandler) create(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var req createProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "progress", err)
		return
	}

	studentID, err := ulid.Parse(req.StudentID)
	if err != nil {
		writeError(w, r, "progress", &tracker.ValidationError{Field: "studentId", Message: "must be a valid id"})
		return
	}
	classroomID, err := ulid.Parse(req.ClassroomID)
	if err != nil {
		writeError(w, r, "progress", &tracker.ValidationError{Field: "classroomId", Message: "must be a valid id"})
		return
	}

	record, err := h.svc.Create(r.Context(), p, tracker.CreateProgressInput{
		StudentID:        studentID,
		ClassroomID:      classroomID,
		Subject:          req.Subject,
		Score:            req.Score,
		CompletedModules: req.CompletedModules,
		TotalModules:     req.TotalModules,
	})
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	writeJSON(w, http.StatusCreated, newProgressResponse(record))
}

func (h *progressHandler) update(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	var patch tracker.ProgressPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, "progress", err)
		return
	}
	if patch.IsZero() {
		writeError(w, r, "progress", &tracker.ValidationError{Field: "body", Message: "must change at least one field"})
		return
	}

	record, err := h.svc.Update(r.Context(), p, id, patch)
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	writeJSON(w, http.StatusOK, newProgressResponse(record))
}

func (h *progressHandler) delete(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	id, err := urlULID(r, "id")
	if err != nil {
		writeError(w, r, "progress", err)
		return
	}

	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		writeError(w, r, "progress", err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
