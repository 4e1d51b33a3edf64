package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sparklab/ideahub-backend/internal/db"
	"github.com/sparklab/ideahub-backend/internal/http/handlers"
	"github.com/sparklab/ideahub-backend/internal/http/middleware"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/repos"
	"github.com/sparklab/ideahub-backend/internal/server"
	"github.com/sparklab/ideahub-backend/internal/services"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type scriptedGemini struct {
	mu      sync.Mutex
	replies []string
}

func (s *scriptedGemini) Complete(_ context.Context, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return "", fmt.Errorf("no scripted reply left")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedGemini) push(replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

type testServer struct {
	router *gin.Engine
	gemini *scriptedGemini
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repos.NewUserRepo(gdb, log)
	ideaRepo := repos.NewIdeaRepo(gdb, log)
	feedbackRepo := repos.NewFeedbackRepo(gdb, log)

	gem := &scriptedGemini{}
	tokens := services.NewTokenService(log, "test-secret")
	auth := services.NewAuthService(gdb, log, userRepo, tokens)
	generation := services.NewGenerationService(log, gem, "gemini-1.5-flash")
	similarity := services.NewSimilarityService(log, ideaRepo, gem, "gemini-1.5-flash", "gemini-pro")
	ideas := services.NewIdeaService(gdb, log, ideaRepo, userRepo, feedbackRepo, similarity)

	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		CORSOrigins:    []string{"http://localhost:3000"},
		AuthHandler:    handlers.NewAuthHandler(log, auth),
		StudentHandler: handlers.NewStudentHandler(log, generation, ideas, nil),
		StaffHandler:   handlers.NewStaffHandler(log, ideas, similarity),
		AuthMiddleware: middleware.NewAuthMiddleware(log, tokens),
	})
	return &testServer{router: router, gemini: gem}
}

func (ts *testServer) do(t *testing.T, method, path, cookie string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	parsed := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, parsed
}

// register creates an account and returns the identity cookie value.
func (ts *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()
	rec, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status=%d body=%s", email, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie && c.Value != "" {
			if !c.HttpOnly {
				t.Fatal("identity cookie is not HTTP-only")
			}
			return c.Value
		}
	}
	t.Fatal("register did not set the identity cookie")
	return ""
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)
	rec, _ := ts.do(t, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestStudentWorkflow(t *testing.T) {
	ts := newTestServer(t)
	student := ts.register(t, "Student One", "student@example.edu", types.RoleStudent)

	t.Run("generate_idea", func(t *testing.T) {
		ts.gemini.push("# Smart Library\nA catalog assistant in Markdown.")
		rec, body := ts.do(t, http.MethodPost, "/api/student/generate-idea", student, gin.H{
			"areasOfInterest": "AI",
			"domainInterest":  "Education",
			"languagesKnown":  "Go",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		idea, _ := body["idea"].(string)
		if !strings.Contains(idea, "Smart Library") {
			t.Fatalf("idea=%q, want the generated markdown", idea)
		}
	})

	t.Run("generate_idea_missing_fields", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodPost, "/api/student/generate-idea", student, gin.H{
			"areasOfInterest": "AI",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400", rec.Code)
		}
		if body["error"] == nil {
			t.Fatalf("body=%v, want error envelope", body)
		}
	})

	t.Run("submit_first_idea", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodPost, "/api/student/submit-idea", student, gin.H{
			"title":           "Smart Library",
			"description":     "A catalog assistant",
			"areasOfInterest": "AI, NLP",
			"domainInterest":  "Education",
			"languagesKnown":  "Go",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		idea, _ := body["idea"].(map[string]any)
		if idea["status"] != types.IdeaStatusPending {
			t.Fatalf("status=%v, want pending", idea["status"])
		}
		if score, _ := idea["uniqueness_score"].(float64); score != 100 {
			t.Fatalf("uniqueness_score=%v, want 100 against an empty corpus", idea["uniqueness_score"])
		}
	})

	t.Run("list_own_ideas", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodGet, "/api/student/ideas", student, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		ideas, _ := body["ideas"].([]any)
		if len(ideas) != 1 {
			t.Fatalf("len(ideas)=%d, want 1", len(ideas))
		}
	})

	t.Run("staff_routes_forbidden", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodGet, "/api/staff/ideas", student, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status=%d, want 403", rec.Code)
		}
	})
}

func TestStaffWorkflow(t *testing.T) {
	ts := newTestServer(t)
	student := ts.register(t, "Student One", "student@example.edu", types.RoleStudent)
	staff := ts.register(t, "Staff One", "staff@example.edu", types.RoleStaff)

	_, body := ts.do(t, http.MethodPost, "/api/student/submit-idea", student, gin.H{
		"title":       "Campus Swap",
		"description": "A marketplace for used textbooks",
	})
	idea, _ := body["idea"].(map[string]any)
	ideaID, _ := idea["id"].(string)
	if ideaID == "" {
		t.Fatalf("submit returned no idea id: %v", body)
	}

	t.Run("list_joins_student", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodGet, "/api/staff/ideas?status=pending", staff, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		ideas, _ := body["ideas"].([]any)
		if len(ideas) != 1 {
			t.Fatalf("len(ideas)=%d, want 1", len(ideas))
		}
		view, _ := ideas[0].(map[string]any)
		studentInfo, _ := view["student"].(map[string]any)
		if studentInfo["email"] != "student@example.edu" {
			t.Fatalf("student=%v, want submitter joined in", view["student"])
		}
	})

	t.Run("check_similarity", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodPost, "/api/staff/check-similarity", staff, gin.H{"ideaId": ideaID})
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		if body["isUnique"] != true {
			t.Fatalf("isUnique=%v, want true against an empty approved corpus", body["isUnique"])
		}
		if score, _ := body["uniquenessScore"].(float64); score != 100 {
			t.Fatalf("uniquenessScore=%v, want 100", body["uniquenessScore"])
		}
	})

	t.Run("review_approve", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodPost, "/api/staff/review-idea", staff, gin.H{
			"ideaId":   ideaID,
			"status":   types.IdeaStatusApproved,
			"feedback": "Looks viable",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		reviewed, _ := body["idea"].(map[string]any)
		if reviewed["status"] != types.IdeaStatusApproved {
			t.Fatalf("status=%v, want approved", reviewed["status"])
		}
		if msg, _ := body["message"].(string); !strings.Contains(msg, "approved") {
			t.Fatalf("message=%q, want approval notice", msg)
		}
	})

	t.Run("review_twice_rejected", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/staff/review-idea", staff, gin.H{
			"ideaId": ideaID,
			"status": types.IdeaStatusRejected,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400 for a terminal idea", rec.Code)
		}
	})

	t.Run("too_similar_submission_rejected", func(t *testing.T) {
		ts.gemini.push("Similarity: 92%\nUnique: no")
		rec, body := ts.do(t, http.MethodPost, "/api/student/submit-idea", student, gin.H{
			"title":       "Textbook Swap",
			"description": "Another used textbook marketplace",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		envelope, _ := body["error"].(map[string]any)
		if envelope["code"] != "too_similar" {
			t.Fatalf("code=%v, want too_similar", envelope["code"])
		}
	})

	t.Run("similarity_details", func(t *testing.T) {
		ts.gemini.push("Similarity: 15%\nUnique: yes")
		_, body := ts.do(t, http.MethodPost, "/api/student/submit-idea", student, gin.H{
			"title":       "Lab Scheduler",
			"description": "Book lab equipment slots",
		})
		second, _ := body["idea"].(map[string]any)
		secondID, _ := second["id"].(string)
		if secondID == "" {
			t.Fatalf("second submit returned no id: %v", body)
		}

		ts.gemini.push("[1]: 40%")
		rec, details := ts.do(t, http.MethodPost, "/api/staff/similarity-details", staff, gin.H{"ideaId": secondID})
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
		}
		if score, _ := details["similarityScore"].(float64); score != 40 {
			t.Fatalf("similarityScore=%v, want 40", details["similarityScore"])
		}
		ranked, _ := details["mostSimilarIdeas"].([]any)
		if len(ranked) != 1 {
			t.Fatalf("len(mostSimilarIdeas)=%d, want 1", len(ranked))
		}
		top, _ := ranked[0].(map[string]any)
		if top["title"] != "Campus Swap" {
			t.Fatalf("top match=%v, want the approved idea", top)
		}
	})

	t.Run("unknown_idea_404", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/staff/check-similarity", staff, gin.H{"ideaId": uuid.NewString()})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status=%d, want 404", rec.Code)
		}
	})

	t.Run("malformed_idea_id", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/staff/similarity-details", staff, gin.H{"ideaId": "nope"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400", rec.Code)
		}
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := newTestServer(t)
	rec, _ := ts.do(t, http.MethodPost, "/api/auth/logout", "anything", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			if c.Value != "" || c.MaxAge >= 0 {
				t.Fatalf("cookie=%+v, want cleared", c)
			}
			return
		}
	}
	t.Fatal("logout did not touch the identity cookie")
}
