package todo

import (
	"testing"
	"time"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func TestAddAppendsActiveTask(t *testing.T) {
	l := NewList(nil).WithIDSource(NewIDSourceWithClock(fixedClock(1000)))

	task := l.Add("Buy milk")

	if l.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", l.Len())
	}
	if task.Text != "Buy milk" {
		t.Errorf("Text: got %q, want %q", task.Text, "Buy milk")
	}
	if task.Done {
		t.Error("new task should not be done")
	}
	if task.ID != 1000 {
		t.Errorf("ID: got %d, want 1000", task.ID)
	}
	got, ok := l.Get(task.ID)
	if !ok || got != task {
		t.Errorf("Get(%d): got %+v, %v", task.ID, got, ok)
	}
}

func TestAddSameMillisecondGetsDistinctIDs(t *testing.T) {
	l := NewList(nil).WithIDSource(NewIDSourceWithClock(fixedClock(5000)))

	a := l.Add("a")
	b := l.Add("b")
	c := l.Add("c")

	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Fatalf("IDs collide: %d %d %d", a.ID, b.ID, c.ID)
	}
	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Errorf("IDs not increasing: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestNewListObservesExistingIDs(t *testing.T) {
	// Clock behind the stored IDs, e.g. after a clock change.
	l := NewList([]Task{{ID: 9000, Text: "old"}}).WithIDSource(NewIDSourceWithClock(fixedClock(100)))

	task := l.Add("new")
	if task.ID <= 9000 {
		t.Errorf("ID: got %d, want > 9000", task.ID)
	}
}

func TestToggleMovesBetweenPartitions(t *testing.T) {
	l := NewList([]Task{
		{ID: 1, Text: "one"},
		{ID: 2, Text: "two"},
	})

	if !l.Toggle(1) {
		t.Fatal("Toggle(1) reported not found")
	}
	active, completed := l.Partition()
	if len(active) != 1 || active[0].ID != 2 {
		t.Errorf("active: got %+v", active)
	}
	if len(completed) != 1 || completed[0].ID != 1 || completed[0].Text != "one" {
		t.Errorf("completed: got %+v", completed)
	}

	if !l.Toggle(1) {
		t.Fatal("second Toggle(1) reported not found")
	}
	if got := l.Completed(); len(got) != 0 {
		t.Errorf("completed after second toggle: got %+v", got)
	}
}

func TestToggleUnknownIsNoop(t *testing.T) {
	l := NewList([]Task{{ID: 1, Text: "one"}})
	if l.Toggle(42) {
		t.Error("Toggle(42) should report not found")
	}
	if got := l.Tasks(); got[0].Done {
		t.Error("unrelated task toggled")
	}
}

func TestDeleteKeepsOrder(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		found   bool
		wantIDs []int64
	}{
		{name: "first", id: 1, found: true, wantIDs: []int64{2, 3, 4}},
		{name: "middle", id: 3, found: true, wantIDs: []int64{1, 2, 4}},
		{name: "last", id: 4, found: true, wantIDs: []int64{1, 2, 3}},
		{name: "missing", id: 9, found: false, wantIDs: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList([]Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
			if got := l.Delete(tt.id); got != tt.found {
				t.Errorf("Delete(%d): got %v, want %v", tt.id, got, tt.found)
			}
			tasks := l.Tasks()
			if len(tasks) != len(tt.wantIDs) {
				t.Fatalf("Len: got %d, want %d", len(tasks), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if tasks[i].ID != id {
					t.Errorf("tasks[%d].ID: got %d, want %d", i, tasks[i].ID, id)
				}
			}
		})
	}
}

func TestDeleteDoesNotAliasCopies(t *testing.T) {
	l := NewList([]Task{{ID: 1}, {ID: 2}, {ID: 3}})
	before := l.Tasks()
	l.Delete(1)
	if before[0].ID != 1 || before[1].ID != 2 || before[2].ID != 3 {
		t.Errorf("earlier copy changed: %+v", before)
	}
}

func TestSetTextChangesOnlyText(t *testing.T) {
	l := NewList([]Task{
		{ID: 1, Text: "one", Done: true},
		{ID: 2, Text: "two"},
	})

	if !l.SetText(1, "Updated") {
		t.Fatal("SetText(1) reported not found")
	}
	got, _ := l.Get(1)
	want := Task{ID: 1, Text: "Updated", Done: true}
	if got != want {
		t.Errorf("task: got %+v, want %+v", got, want)
	}
	other, _ := l.Get(2)
	if other.Text != "two" {
		t.Errorf("other task text changed: %q", other.Text)
	}
	if l.SetText(7, "x") {
		t.Error("SetText(7) should report not found")
	}
}

func TestPartitionIsComplete(t *testing.T) {
	l := NewList([]Task{
		{ID: 1, Done: true},
		{ID: 2},
		{ID: 3, Done: true},
		{ID: 4},
		{ID: 5},
	})

	active, completed := l.Partition()
	if len(active)+len(completed) != l.Len() {
		t.Fatalf("partition sizes %d+%d != %d", len(active), len(completed), l.Len())
	}
	seen := map[int64]bool{}
	for _, task := range append(active, completed...) {
		if seen[task.ID] {
			t.Errorf("task %d in both partitions", task.ID)
		}
		seen[task.ID] = true
	}
	for _, task := range active {
		if task.Done {
			t.Errorf("done task %d in active", task.ID)
		}
	}
	for _, task := range completed {
		if !task.Done {
			t.Errorf("active task %d in completed", task.ID)
		}
	}
	if active[0].ID != 2 || active[1].ID != 4 || active[2].ID != 5 {
		t.Errorf("active order: got %+v", active)
	}
}

func TestZeroListUsable(t *testing.T) {
	var l List
	task := l.Add("x")
	if task.ID == 0 {
		t.Error("zero list issued zero ID")
	}
	if l.Len() != 1 {
		t.Errorf("Len: got %d, want 1", l.Len())
	}
}
