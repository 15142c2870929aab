package service

import (
	"context"
	"testing"
	"time"

	"salus-lms/internal/domain"
)

func TestLatestEmptyHistory(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Fatal("historia vacia no tiene ultima evaluacion")
	}
}

func TestLatestPicksMostRecentRegardlessOfOrder(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)
	t3 := t1.AddDate(0, 2, 0)

	a1 := domain.Assessment{ID: "a1", AppliedAt: t1, Seq: 1}
	a2 := domain.Assessment{ID: "a2", AppliedAt: t2, Seq: 2}
	a3 := domain.Assessment{ID: "a3", AppliedAt: t3, Seq: 3}

	orders := [][]domain.Assessment{
		{a1, a2, a3},
		{a3, a2, a1},
		{a2, a3, a1},
		{a3, a1, a2},
	}
	for _, history := range orders {
		latest, ok := Latest(history)
		if !ok || latest.ID != "a3" {
			t.Fatalf("orden %v: esperaba a3, obtuve %+v", history, latest)
		}
	}
}

func TestLatestTieBreaksBySeq(t *testing.T) {
	at := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	history := []domain.Assessment{
		{ID: "primera", AppliedAt: at, Seq: 7},
		{ID: "segunda", AppliedAt: at, Seq: 8},
	}

	latest, ok := Latest(history)
	if !ok || latest.ID != "segunda" {
		t.Fatalf("empate de applied_at debia ganarlo la insercion mas tardia: %+v", latest)
	}

	latest, ok = Latest([]domain.Assessment{history[1], history[0]})
	if !ok || latest.ID != "segunda" {
		t.Fatalf("el desempate no debia depender del orden de entrada: %+v", latest)
	}
}

func TestSortNewestFirstDoesNotMutate(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := []domain.Assessment{
		{ID: "a1", AppliedAt: t1, Seq: 1},
		{ID: "a3", AppliedAt: t1.AddDate(0, 2, 0), Seq: 3},
		{ID: "a2", AppliedAt: t1.AddDate(0, 1, 0), Seq: 2},
	}

	sorted := SortNewestFirst(original)
	if sorted[0].ID != "a3" || sorted[1].ID != "a2" || sorted[2].ID != "a1" {
		t.Fatalf("orden esperado a3,a2,a1: %v", sorted)
	}
	if original[0].ID != "a1" || original[1].ID != "a3" {
		t.Fatal("el input no debia mutar")
	}
}

func TestLatestAssessmentThroughService(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	assessments := newMockAssessmentRepo()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		assessments.Append(context.Background(), domain.Assessment{
			ID:        []string{"a1", "a2", "a3"}[i],
			ProfileID: "p1",
			AppliedAt: base.AddDate(0, i, 0),
		})
	}

	svc := NewProfileService(profiles, assessments)

	latest, found, err := svc.LatestAssessment(context.Background(), "u1")
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if !found || latest.ID != "a3" {
		t.Fatalf("esperaba a3, obtuve %+v", latest)
	}

	history, err := svc.AssessmentHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(history) != 3 || history[0].ID != "a3" || history[2].ID != "a1" {
		t.Fatalf("historia de mas nueva a mas vieja: %v", history)
	}
}

func TestLatestAssessmentNoProfileHistory(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.Create(context.Background(), domain.StaffProfile{ID: "p1", UserID: "u1"})
	svc := NewProfileService(profiles, newMockAssessmentRepo())

	_, found, err := svc.LatestAssessment(context.Background(), "u1")
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if found {
		t.Fatal("sin registros no hay ultima evaluacion")
	}
}
