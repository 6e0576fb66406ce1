// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/httpapi"
	"github.com/classtrack/classtrack/internal/tracker"
)

// In-memory stores so handler tests exercise the full service stack
// without a database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[ulid.ULID]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return auth.ErrEmailTaken
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) FindStudentByEmail(_ context.Context, email string) (ulid.ULID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == auth.NormalizeEmail(email) && u.Role == tracker.RoleStudent {
			return u.ID, nil
		}
	}
	return ulid.ULID{}, tracker.ErrNotFound
}

type memClassroomRepo struct {
	mu         sync.Mutex
	classrooms map[ulid.ULID]*tracker.Classroom
}

func newMemClassroomRepo() *memClassroomRepo {
	return &memClassroomRepo{classrooms: make(map[ulid.ULID]*tracker.Classroom)}
}

func (r *memClassroomRepo) Get(_ context.Context, id ulid.ULID) (*tracker.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classrooms[id]
	if !ok {
		return nil, tracker.ErrNotFound
	}
	clone := *c
	clone.Students = append([]ulid.ULID(nil), c.Students...)
	return &clone, nil
}

func (r *memClassroomRepo) Create(_ context.Context, c *tracker.Classroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.classrooms[c.ID] = &clone
	return nil
}

func (r *memClassroomRepo) Update(_ context.Context, c *tracker.Classroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.classrooms[c.ID]
	if !ok {
		return tracker.ErrNotFound
	}
	stored.Name = c.Name
	stored.Subject = c.Subject
	stored.Description = c.Description
	stored.Active = c.Active
	return nil
}

func (r *memClassroomRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classrooms[id]; !ok {
		return tracker.ErrNotFound
	}
	delete(r.classrooms, id)
	return nil
}

func (r *memClassroomRepo) ListByTeacher(_ context.Context, teacherID ulid.ULID) ([]*tracker.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.Classroom
	for _, c := range r.classrooms {
		if c.TeacherID == teacherID {
			clone := *c
			clone.Students = append([]ulid.ULID(nil), c.Students...)
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memClassroomRepo) ListByStudent(_ context.Context, studentID ulid.ULID) ([]*tracker.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.Classroom
	for _, c := range r.classrooms {
		if c.Enrolled(studentID) {
			clone := *c
			clone.Students = nil
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memClassroomRepo) AddStudent(_ context.Context, classroomID, studentID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classrooms[classroomID]
	if !ok {
		return tracker.ErrNotFound
	}
	if c.Enrolled(studentID) {
		return tracker.ErrConflict
	}
	c.Students = append(c.Students, studentID)
	return nil
}

func (r *memClassroomRepo) RemoveStudent(_ context.Context, classroomID, studentID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classrooms[classroomID]
	if !ok {
		return tracker.ErrNotFound
	}
	for i, id := range c.Students {
		if id == studentID {
			c.Students = append(c.Students[:i], c.Students[i+1:]...)
			return nil
		}
	}
	return nil
}

type memProgressRepo struct {
	mu      sync.Mutex
	records map[ulid.ULID]*tracker.Progress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[ulid.ULID]*tracker.Progress)}
}

func (r *memProgressRepo) Get(_ context.Context, id ulid.ULID) (*tracker.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok {
		return nil, tracker.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProgressRepo) Create(_ context.Context, p *tracker.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.records[p.ID] = &clone
	return nil
}

func (r *memProgressRepo) Update(_ context.Context, p *tracker.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[p.ID]; !ok {
		return tracker.ErrNotFound
	}
	clone := *p
	r.records[p.ID] = &clone
	return nil
}

func (r *memProgressRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return tracker.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memProgressRepo) ListByStudent(_ context.Context, studentID ulid.ULID) ([]*tracker.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.Progress
	for _, p := range r.records {
		if p.StudentID == studentID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memProgressRepo) ListByClassroom(_ context.Context, classroomID ulid.ULID) ([]*tracker.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tracker.Progress
	for _, p := range r.records {
		if p.ClassroomID == classroomID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// testAPI bundles the wired handler with helpers for driving requests.
type testAPI struct {
	t       *testing.T
	handler http.Handler
	server  *httpapi.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := newMemUserRepo()
	classrooms := newMemClassroomRepo()
	progress := newMemProgressRepo()
	policy := tracker.NewPolicy()

	tokens, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	authSvc := auth.NewService(users, auth.NewArgon2idHasher(), tokens)

	classroomSvc := tracker.NewClassroomService(tracker.ClassroomServiceConfig{
		Classrooms: classrooms,
		Users:      users,
		Transactor: passthroughTx{},
		Policy:     policy,
	})
	progressSvc := tracker.NewProgressService(tracker.ProgressServiceConfig{
		Progress:   progress,
		Classrooms: classrooms,
		Policy:     policy,
	})

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:       "127.0.0.1:0",
		Auth:       authSvc,
		Resolver:   authSvc,
		Classrooms: classroomSvc,
		Progress:   progressSvc,
	})

	return &testAPI{t: t, handler: server.Handler(), server: server}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(name, email, role string) (token string, userID string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func (a *testAPI) createClassroom(token, name, subject string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/classrooms", token, map[string]string{
		"name": name, "subject": subject,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Kind
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("register login me flow", func(t *testing.T) {
		api := newTestAPI(t)
		token, userID := api.register("Ada", "ada@example.com", "teacher")

		rec := api.do(http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var me struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		assert.Equal(t, userID, me.ID)
		assert.Equal(t, "teacher", me.Role)

		rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "Ada@Example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		api := newTestAPI(t)
		api.register("Ada", "ada@example.com", "teacher")

		rec := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Other", "email": "ada@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", errorKind(t, rec))
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		api := newTestAPI(t)
		api.register("Ada", "ada@example.com", "teacher")

		rec := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", errorKind(t, rec))
	})

	t.Run("short password is a validation error", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ada", "email": "ada@example.com", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("unknown body field rejected", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ada", "email": "ada@example.com", "password": "secret123", "admin": "true",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestClassroomEndpoints(t *testing.T) {
	t.Run("teacher creates and lists classrooms", func(t *testing.T) {
		api := newTestAPI(t)
		token, userID := api.register("Ada", "ada@example.com", "teacher")
		api.createClassroom(token, "Algebra", "Math")

		rec := api.do(http.MethodGet, "/api/classrooms/my", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []struct {
			TeacherID string `json:"teacherId"`
			Name      string `json:"name"`
			IsActive  bool   `json:"isActive"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, userID, list[0].TeacherID)
		assert.True(t, list[0].IsActive)
	})

	t.Run("student cannot create a classroom", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Kid", "kid@example.com", "student")

		rec := api.do(http.MethodPost, "/api/classrooms", token, map[string]string{
			"name": "Algebra", "subject": "Math",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", errorKind(t, rec))
	})

	t.Run("enrollment and roster redaction", func(t *testing.T) {
		api := newTestAPI(t)
		teacherToken, _ := api.register("Ada", "ada@example.com", "teacher")
		studentToken, studentID := api.register("Kid", "kid@example.com", "student")
		classroomID := api.createClassroom(teacherToken, "Algebra", "Math")

		rec := api.do(http.MethodPost, "/api/classrooms/"+classroomID+"/students", teacherToken,
			map[string]string{"email": "kid@example.com"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var enrolled struct {
			Students []string `json:"students"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enrolled))
		assert.Equal(t, []string{studentID}, enrolled.Students)

		// The student sees the classroom but never the roster.
		rec = api.do(http.MethodGet, "/api/classrooms/my", studentToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var raw []map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		require.Len(t, raw, 1)
		_, hasRoster := raw[0]["students"]
		assert.False(t, hasRoster, "roster should be omitted for students")

		// Enrolling twice conflicts.
		rec = api.do(http.MethodPost, "/api/classrooms/"+classroomID+"/students", teacherToken,
			map[string]string{"email": "kid@example.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		// Unenrolling is idempotent.
		rec = api.do(http.MethodDelete, "/api/classrooms/"+classroomID+"/students/"+studentID, teacherToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = api.do(http.MethodDelete, "/api/classrooms/"+classroomID+"/students/"+studentID, teacherToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("non-owner cannot touch a classroom", func(t *testing.T) {
		api := newTestAPI(t)
		ownerToken, _ := api.register("Ada", "ada@example.com", "teacher")
		otherToken, _ := api.register("Bob", "bob@example.com", "teacher")
		classroomID := api.createClassroom(ownerToken, "Algebra", "Math")

		rec := api.do(http.MethodPut, "/api/classrooms/"+classroomID, otherToken,
			map[string]string{"name": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(http.MethodDelete, "/api/classrooms/"+classroomID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("update applies allow-listed fields", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Ada", "ada@example.com", "teacher")
		classroomID := api.createClassroom(token, "Algebra", "Math")

		rec := api.do(http.MethodPut, "/api/classrooms/"+classroomID, token, map[string]any{
			"name": "Algebra II", "isActive": false,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated struct {
			Name     string `json:"name"`
			IsActive bool   `json:"isActive"`
			Subject  string `json:"subject"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Algebra II", updated.Name)
		assert.False(t, updated.IsActive)
		assert.Equal(t, "Math", updated.Subject)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Ada", "ada@example.com", "teacher")
		classroomID := api.createClassroom(token, "Algebra", "Math")

		rec := api.do(http.MethodPut, "/api/classrooms/"+classroomID, token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("ownership change attempt is rejected", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Ada", "ada@example.com", "teacher")
		classroomID := api.createClassroom(token, "Algebra", "Math")

		rec := api.do(http.MethodPut, "/api/classrooms/"+classroomID, token, map[string]string{
			"teacherId": ulid.Make().String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id maps to not found", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Ada", "ada@example.com", "teacher")

		rec := api.do(http.MethodDelete, "/api/classrooms/not-a-ulid", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing classroom is not found", func(t *testing.T) {
		api := newTestAPI(t)
		token, _ := api.register("Ada", "ada@example.com", "teacher")

		rec := api.do(http.MethodDelete, "/api/classrooms/"+ulid.Make().String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", errorKind(t, rec))
	})
}

func TestProgressEndpoints(t *testing.T) {
	setup := func(t *testing.T) (api *testAPI, teacherToken, studentToken, classroomID, studentID string) {
		api = newTestAPI(t)
		teacherToken, _ = api.register("Ada", "ada@example.com", "teacher")
		studentToken, studentID = api.register("Kid", "kid@example.com", "student")
		classroomID = api.createClassroom(teacherToken, "Algebra", "Math")

		rec := api.do(http.MethodPost, "/api/classrooms/"+classroomID+"/students", teacherToken,
			map[string]string{"email": "kid@example.com"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return api, teacherToken, studentToken, classroomID, studentID
	}

	progressBody := func(studentID, classroomID string) map[string]any {
		return map[string]any{
			"studentId":   studentID,
			"classroomId": classroomID,
			"subject":     "Math",
			"score":       85,
			"completedModules": []map[string]any{
				{"name": "Fractions", "completedAt": time.Now().UTC(), "score": 92},
			},
			"totalModules": 2,
		}
	}

	t.Run("teacher records and student reads own progress", func(t *testing.T) {
		api, teacherToken, studentToken, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created struct {
			ID                 string  `json:"id"`
			ProgressPercentage float64 `json:"progressPercentage"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.InDelta(t, 50.0, created.ProgressPercentage, 0.0001)

		rec = api.do(http.MethodGet, "/api/progress/my", studentToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var mine []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)
	})

	t.Run("unenrolled student is a validation failure", func(t *testing.T) {
		api, teacherToken, _, classroomID, _ := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken,
			progressBody(ulid.Make().String(), classroomID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("student cannot record progress", func(t *testing.T) {
		api, _, studentToken, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", studentToken, progressBody(studentID, classroomID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("teacher lists classroom progress and student cannot", func(t *testing.T) {
		api, teacherToken, studentToken, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = api.do(http.MethodGet, "/api/progress/classroom/"+classroomID, teacherToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(http.MethodGet, "/api/progress/classroom/"+classroomID, studentToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-owner teacher cannot update progress", func(t *testing.T) {
		api, teacherToken, _, classroomID, studentID := setup(t)
		otherToken, _ := api.register("Bob", "bob@example.com", "teacher")

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = api.do(http.MethodPut, "/api/progress/"+created.ID, otherToken, map[string]any{"score": 10})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(http.MethodDelete, "/api/progress/"+created.ID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("update recomputes percentage", func(t *testing.T) {
		api, teacherToken, _, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = api.do(http.MethodPut, "/api/progress/"+created.ID, teacherToken, map[string]any{
			"totalModules": 4,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated struct {
			ProgressPercentage float64 `json:"progressPercentage"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.InDelta(t, 25.0, updated.ProgressPercentage, 0.0001)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		api, teacherToken, _, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = api.do(http.MethodPut, "/api/progress/"+created.ID, teacherToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("record move attempt is rejected", func(t *testing.T) {
		api, teacherToken, _, classroomID, studentID := setup(t)

		rec := api.do(http.MethodPost, "/api/progress", teacherToken, progressBody(studentID, classroomID))
		require.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = api.do(http.MethodPut, "/api/progress/"+created.ID, teacherToken, map[string]any{
			"classroomId": ulid.Make().String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
