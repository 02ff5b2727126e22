package ops

import (
	"context"
	"testing"
)

func TestList_EmptyStore(t *testing.T) {
	database, _, _ := setupTest(t)

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if out.Items == nil {
		t.Error("Items is nil, want empty array")
	}
	if out.Pagination.Total != 0 || out.Pagination.HasMore {
		t.Errorf("Pagination = %+v, want empty", out.Pagination)
	}
}

func TestList_PaginationAndOrder(t *testing.T) {
	database, cfg, deps := setupTest(t)

	questions := []string{"first question", "second question", "third question"}
	for _, q := range questions {
		if _, err := Consult(context.Background(), database, cfg, deps, ConsultInput{Question: q}); err != nil {
			t.Fatalf("Consult(%q) error = %v", q, err)
		}
	}

	out, err := List(database, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	if !out.Pagination.HasMore || out.Pagination.Total != 3 {
		t.Errorf("Pagination = %+v, want has_more with total 3", out.Pagination)
	}
	if out.Sort != "created_at_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}
	// Same-second inserts tie-break on insertion order
	if out.Items[0].Question != "third question" {
		t.Errorf("Items[0] = %q, want third question", out.Items[0].Question)
	}

	out, err = List(database, ListInput{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() page 2 error = %v", err)
	}
	if len(out.Items) != 1 || out.Pagination.HasMore {
		t.Errorf("page 2 = %d items, has_more = %v", len(out.Items), out.Pagination.HasMore)
	}
}

func TestList_LimitClamped(t *testing.T) {
	database, _, _ := setupTest(t)

	out, err := List(database, ListInput{Limit: 10000})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxListLimit)
	}
}

func TestLatest(t *testing.T) {
	database, cfg, deps := setupTest(t)

	out, err := Latest(database)
	if err != nil {
		t.Fatalf("Latest() on empty store error = %v", err)
	}
	if out.Item != nil {
		t.Errorf("Item = %+v, want nil", out.Item)
	}

	for _, q := range []string{"older", "newer"} {
		if _, err := Consult(context.Background(), database, cfg, deps, ConsultInput{Question: q}); err != nil {
			t.Fatalf("Consult(%q) error = %v", q, err)
		}
	}

	out, err = Latest(database)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if out.Item == nil || out.Item.Question != "newer" {
		t.Errorf("Item = %+v, want newer", out.Item)
	}
}
