package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
)

type mockProfileRepo struct {
	profilesByUser map[string]domain.StaffProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profilesByUser: make(map[string]domain.StaffProfile)}
}

func (m *mockProfileRepo) Create(_ context.Context, profile domain.StaffProfile) error {
	m.profilesByUser[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (domain.StaffProfile, error) {
	profile, ok := m.profilesByUser[userID]
	if !ok {
		return domain.StaffProfile{}, pgx.ErrNoRows
	}
	return profile, nil
}

type mockAssessmentRepo struct {
	byProfile map[string][]domain.Assessment
	nextSeq   int64
	appendErr error
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{byProfile: make(map[string][]domain.Assessment)}
}

func (m *mockAssessmentRepo) Append(_ context.Context, assessment domain.Assessment) (domain.Assessment, error) {
	if m.appendErr != nil {
		return domain.Assessment{}, m.appendErr
	}
	m.nextSeq++
	assessment.Seq = m.nextSeq
	m.byProfile[assessment.ProfileID] = append(m.byProfile[assessment.ProfileID], assessment)
	return assessment, nil
}

func (m *mockAssessmentRepo) ListByProfileID(_ context.Context, profileID string) ([]domain.Assessment, error) {
	out := make([]domain.Assessment, len(m.byProfile[profileID]))
	copy(out, m.byProfile[profileID])
	return out, nil
}

type mockCourseRepo struct {
	courses []domain.Course
	listErr error
}

func (m *mockCourseRepo) Create(_ context.Context, course domain.Course) error {
	m.courses = append(m.courses, course)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (domain.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Course{}, pgx.ErrNoRows
}

func (m *mockCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.courses, nil
}

func (m *mockCourseRepo) SetEmbedding(_ context.Context, _ string, _ pgvector.Vector) error {
	return nil
}

func (m *mockCourseRepo) SearchSimilar(_ context.Context, _ pgvector.Vector, _ int) ([]domain.Course, error) {
	return nil, nil
}

const validSwotResponse = `{
	"strengths": "empatia",
	"weaknesses": "delegacion",
	"opportunities": "liderazgo",
	"threats": "burnout"
}`

func newTestAssessmentService(mock *llm.MockClient, profiles *mockProfileRepo, assessments *mockAssessmentRepo, courses *mockCourseRepo) *AssessmentService {
	structured := llm.NewStructuredClient(mock)
	swotSvc := NewSwotService(structured, zap.NewNop())
	recommendSvc := NewRecommendService(structured, zap.NewNop())
	return NewAssessmentService(swotSvc, recommendSvc, profiles, assessments, courses, zap.NewNop())
}

func TestSubmitAssessmentIncomplete(t *testing.T) {
	svc := newTestAssessmentService(&llm.MockClient{}, newMockProfileRepo(), newMockAssessmentRepo(), &mockCourseRepo{})

	cases := []map[string]string{
		nil,
		{},
		{"q1": ""},
		{"q1": "   "},
		{"": "respuesta"},
		{"q1": "ok", "q2": ""},
	}
	for _, responses := range cases {
		if _, err := svc.SubmitAssessment(context.Background(), "u1", responses); !errors.Is(err, ErrIncompleteQuestionnaire) {
			t.Errorf("respuestas %v: esperaba ErrIncompleteQuestionnaire, obtuve %v", responses, err)
		}
	}
}

func TestSubmitAssessmentPipeline(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	assessments := newMockAssessmentRepo()
	courses := &mockCourseRepo{courses: []domain.Course{
		{ID: "c1", Title: "A", Description: "a"},
		{ID: "c2", Title: "B", Description: "b"},
	}}

	// El mock responde lo mismo a ambas llamadas; el JSON cubre los dos esquemas.
	mock := &llm.MockClient{Response: `{
		"strengths": "empatia",
		"weaknesses": "delegacion",
		"opportunities": "liderazgo",
		"threats": "burnout",
		"recommended_course_ids": ["c2", "c1"]
	}`}
	svc := newTestAssessmentService(mock, profiles, assessments, courses)

	stored, err := svc.SubmitAssessment(context.Background(), "u1", map[string]string{"q1": "respuesta"})
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	if stored.ProfileID != "p1" {
		t.Errorf("profile_id: %q", stored.ProfileID)
	}
	if stored.Swot.Strengths != "empatia" || stored.Swot.Threats != "burnout" {
		t.Errorf("swot: %+v", stored.Swot)
	}
	if len(stored.LearningPath) != 2 || stored.LearningPath[0] != "c2" || stored.LearningPath[1] != "c1" {
		t.Errorf("learning path debia conservar el orden del generador: %v", stored.LearningPath)
	}
	if stored.AppliedAt.IsZero() {
		t.Error("applied_at debia asignarse en el servidor")
	}
	if mock.GenerateCalls != 2 {
		t.Errorf("esperaba 2 llamadas al LLM (swot y recomendacion), hubo %d", mock.GenerateCalls)
	}
	if len(assessments.byProfile["p1"]) != 1 {
		t.Fatalf("debia persistirse exactamente un registro")
	}
}

func TestSubmitAssessmentSchemaMismatchNoWrite(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	assessments := newMockAssessmentRepo()
	courses := &mockCourseRepo{courses: []domain.Course{{ID: "c1", Title: "A", Description: "a"}}}

	mock := &llm.MockClient{Response: `{"strengths": "solo una cosa"}`}
	svc := newTestAssessmentService(mock, profiles, assessments, courses)

	_, err := svc.SubmitAssessment(context.Background(), "u1", map[string]string{"q1": "respuesta"})
	if !errors.Is(err, llm.ErrSchemaMismatch) {
		t.Fatalf("esperaba ErrSchemaMismatch, obtuve %v", err)
	}
	if len(assessments.byProfile["p1"]) != 0 {
		t.Fatal("un pipeline fallido no debia dejar escrituras")
	}
}

func TestSubmitAssessmentEmptyCatalog(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	assessments := newMockAssessmentRepo()

	mock := &llm.MockClient{Response: validSwotResponse}
	svc := newTestAssessmentService(mock, profiles, assessments, &mockCourseRepo{})

	stored, err := svc.SubmitAssessment(context.Background(), "u1", map[string]string{"q1": "respuesta"})
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(stored.LearningPath) != 0 {
		t.Errorf("sin catalogo la ruta debia quedar vacia: %v", stored.LearningPath)
	}
	if mock.GenerateCalls != 1 {
		t.Errorf("solo el swot debia llamar al LLM, llamadas: %d", mock.GenerateCalls)
	}
}

func TestRecordAssessmentAppendOnly(t *testing.T) {
	assessments := newMockAssessmentRepo()
	svc := NewAssessmentService(nil, nil, newMockProfileRepo(), assessments, &mockCourseRepo{}, zap.NewNop())

	for i := 0; i < 4; i++ {
		if _, err := svc.RecordAssessment(context.Background(), "p1", domain.SwotResult{Strengths: "s"}, domain.LearningPath{"c1"}, "texto"); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	stored := assessments.byProfile["p1"]
	if len(stored) != 4 {
		t.Fatalf("esperaba 4 registros, hay %d", len(stored))
	}
	seen := make(map[string]struct{})
	for _, a := range stored {
		if _, dup := seen[a.ID]; dup {
			t.Fatalf("id duplicado: %s", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
}

func TestIsAssessmentRequiredNoHistory(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	svc := NewAssessmentService(nil, nil, profiles, newMockAssessmentRepo(), &mockCourseRepo{}, zap.NewNop())

	required, err := svc.IsAssessmentRequired(context.Background(), "p1")
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if !required {
		t.Fatal("sin historia la evaluacion es requerida")
	}
}

func TestStalenessClosedBoundary(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		appliedAt time.Time
		want     bool
	}{
		{"recien aplicada", now, false},
		{"89 dias", now.Add(-ReassessmentWindow + 24*time.Hour), false},
		{"un segundo antes del limite", now.Add(-ReassessmentWindow + time.Second), false},
		{"exactamente 90 dias", now.Add(-ReassessmentWindow), true},
		{"90 dias y un segundo", now.Add(-ReassessmentWindow - time.Second), true},
		{"doce meses", now.AddDate(-1, 0, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := []domain.Assessment{{ID: "a1", AppliedAt: tc.appliedAt}}
			if got := StalenessRequired(history, now); got != tc.want {
				t.Fatalf("appliedAt=%v: esperaba %v, obtuve %v", tc.appliedAt, tc.want, got)
			}
		})
	}
}

func TestStalenessUsesLatestEntry(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []domain.Assessment{
		{ID: "vieja", AppliedAt: now.AddDate(0, -8, 0), Seq: 1},
		{ID: "fresca", AppliedAt: now.AddDate(0, 0, -10), Seq: 2},
	}

	if StalenessRequired(history, now) {
		t.Fatal("con una evaluacion fresca no corresponde reevaluar")
	}
}
