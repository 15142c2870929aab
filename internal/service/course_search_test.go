package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
)

type recordingCourseRepo struct {
	courses        []domain.Course
	lastEmbeddedID string
	lastEmbedding  pgvector.Vector
	lastSearchK    int
}

func (m *recordingCourseRepo) Create(_ context.Context, course domain.Course) error {
	m.courses = append(m.courses, course)
	return nil
}

func (m *recordingCourseRepo) GetByID(_ context.Context, id string) (domain.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Course{}, pgx.ErrNoRows
}

func (m *recordingCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	return m.courses, nil
}

func (m *recordingCourseRepo) SetEmbedding(_ context.Context, id string, embedding pgvector.Vector) error {
	m.lastEmbeddedID = id
	m.lastEmbedding = embedding
	return nil
}

func (m *recordingCourseRepo) SearchSimilar(_ context.Context, _ pgvector.Vector, k int) ([]domain.Course, error) {
	m.lastSearchK = k
	return m.courses, nil
}

func TestIndexCourseStoresEmbedding(t *testing.T) {
	repo := &recordingCourseRepo{}
	mock := &llm.MockClient{Embedding: []float32{0.1, 0.2, 0.3}}
	svc := NewCourseSearchService(mock, repo, zap.NewNop())

	course := domain.Course{ID: "c1", Title: "Comunicacion", Description: "escucha"}
	if err := svc.IndexCourse(context.Background(), course); err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if repo.lastEmbeddedID != "c1" {
		t.Fatalf("curso indexado: %q", repo.lastEmbeddedID)
	}
}

func TestIndexCourseEmbeddingError(t *testing.T) {
	repo := &recordingCourseRepo{}
	embedErr := errors.New("provider down")
	svc := NewCourseSearchService(&llm.MockClient{EmbeddingErr: embedErr}, repo, zap.NewNop())

	err := svc.IndexCourse(context.Background(), domain.Course{ID: "c1"})
	if !errors.Is(err, embedErr) {
		t.Fatalf("esperaba error del proveedor, obtuve %v", err)
	}
	if repo.lastEmbeddedID != "" {
		t.Fatal("no debia guardar embedding tras un fallo")
	}
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	repo := &recordingCourseRepo{}
	mock := &llm.MockClient{Embedding: []float32{0.5}}
	svc := NewCourseSearchService(mock, repo, zap.NewNop())

	hits, err := svc.Search(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if hits != nil {
		t.Fatalf("consulta vacia debia devolver nil: %v", hits)
	}
	if repo.lastSearchK != 0 {
		t.Fatal("consulta vacia no debia tocar el repositorio")
	}
}

func TestSearchPassesK(t *testing.T) {
	repo := &recordingCourseRepo{courses: []domain.Course{{ID: "c1"}}}
	svc := NewCourseSearchService(&llm.MockClient{Embedding: []float32{0.5}}, repo, zap.NewNop())

	hits, err := svc.Search(context.Background(), "burnout", 3)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(hits) != 1 || repo.lastSearchK != 3 {
		t.Fatalf("hits=%v k=%d", hits, repo.lastSearchK)
	}
}
