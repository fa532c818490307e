package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := seedTag(t, s, "Breakfast", "breakfast")

	got, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Breakfast" || got.Slug != "breakfast" {
		t.Errorf("unexpected tag: %+v", got)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetTag(context.Background(), 77); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTag_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)

	seedTag(t, s, "Lunch", "lunch")

	err := s.CreateTag(context.Background(), &domain.Tag{Name: "Lunch time", Slug: "lunch"})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListTags_OrderedByName(t *testing.T) {
	s := newTestStore(t)

	seedTag(t, s, "Dinner", "dinner")
	seedTag(t, s, "Breakfast", "breakfast")

	tags, err := s.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0].Slug != "breakfast" || tags[1].Slug != "dinner" {
		t.Errorf("unexpected order: %+v", tags)
	}
}

func TestExistingTagIDs(t *testing.T) {
	s := newTestStore(t)

	a := seedTag(t, s, "A", "a")

	found, err := s.ExistingTagIDs(context.Background(), []int64{a.ID, a.ID + 10})
	if err != nil {
		t.Fatalf("ExistingTagIDs: %v", err)
	}
	if !found[a.ID] || found[a.ID+10] {
		t.Errorf("unexpected result: %v", found)
	}
}

func TestImportTags_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tags := []*domain.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
	}

	n, err := s.ImportTags(ctx, tags)
	if err != nil {
		t.Fatalf("ImportTags: %v", err)
	}
	if n != 2 {
		t.Errorf("first import: got %d, want 2", n)
	}

	n, err = s.ImportTags(ctx, tags)
	if err != nil {
		t.Fatalf("ImportTags again: %v", err)
	}
	if n != 0 {
		t.Errorf("second import: got %d, want 0", n)
	}
}
