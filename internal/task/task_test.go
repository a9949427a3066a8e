package task

import (
	"errors"
	"fmt"
	"testing"
)

func TestCollection_Sorted(t *testing.T) {
	c := Collection{
		3: {ID: 3, Description: "c"},
		1: {ID: 1, Description: "a"},
		2: {ID: 2, Description: "b"},
	}
	got := c.Sorted()
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	for i, t2 := range got {
		if t2.ID != i+1 {
			t.Fatalf("Sorted()[%d].ID=%d, want %d", i, t2.ID, i+1)
		}
	}
}

func TestCollection_SortedEmpty(t *testing.T) {
	var c Collection
	got := c.Sorted()
	if got == nil || len(got) != 0 {
		t.Fatalf("Sorted() of nil collection = %#v, want empty slice", got)
	}
}

func TestCollection_MaxID(t *testing.T) {
	if got := (Collection{}).MaxID(); got != 0 {
		t.Fatalf("MaxID() empty = %d, want 0", got)
	}
	c := Collection{4: {ID: 4}, 9: {ID: 9}, 2: {ID: 2}}
	if got := c.MaxID(); got != 9 {
		t.Fatalf("MaxID()=%d, want 9", got)
	}
}

func TestCollection_CloneIsIndependent(t *testing.T) {
	c := Collection{1: {ID: 1, Description: "a"}}
	cp := c.Clone()
	cp[1] = Task{ID: 1, Description: "changed"}
	cp[2] = Task{ID: 2}

	if c[1].Description != "a" || len(c) != 1 {
		t.Fatalf("original modified through clone: %+v", c)
	}
}

func TestCollection_Validate(t *testing.T) {
	if err := (Collection{1: {ID: 1}}).Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
	if err := (Collection{1: {ID: 5}}).Validate(); !IsStorage(err) {
		t.Fatalf("Validate() mismatch err=%v, want storage error", err)
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		err  error
		kind Kind
		msg  string
	}{
		{Validationf("description cannot be empty"), KindValidation, "description cannot be empty"},
		{NotFoundf("task not found: %d", 7), KindNotFound, "task not found: 7"},
		{Storage(cause, "save %s", "todo.json"), KindStorage, "save todo.json: permission denied"},
		{Storage(nil, "bad content"), KindStorage, "bad content"},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.kind {
			t.Errorf("KindOf(%v)=%v, want %v", tt.err, got, tt.kind)
		}
		if tt.err.Error() != tt.msg {
			t.Errorf("Error()=%q, want %q", tt.err.Error(), tt.msg)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("eof")
	err := fmt.Errorf("open store: %w", Storage(cause, "load"))

	if !IsStorage(err) {
		t.Fatal("IsStorage() = false through fmt wrapping")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable with errors.Is")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Fatal("KindOf(plain) != 0")
	}
}
