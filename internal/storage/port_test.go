package storage

import (
	"errors"
	"testing"

	"github.com/nibzard/tasklist/internal/todo"
)

func TestKVPortRoundTrip(t *testing.T) {
	port := NewKVPort(NewMemoryKV(), "")
	if port.Key() != DefaultKey {
		t.Errorf("Key: got %q, want %q", port.Key(), DefaultKey)
	}

	want := []todo.Task{
		{ID: 1, Text: "Buy milk"},
		{ID: 2, Text: "Call mom", Done: true},
	}
	if err := port.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := port.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load: got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tasks[%d]: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestKVPortLoadAbsentOrBlank(t *testing.T) {
	tests := []struct {
		name  string
		value *string
	}{
		{name: "absent"},
		{name: "empty string", value: strPtr("")},
		{name: "whitespace", value: strPtr("  \n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			if tt.value != nil {
				_ = kv.Set(DefaultKey, *tt.value)
			}
			tasks, err := NewKVPort(kv, DefaultKey).Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("got %#v, want empty list", tasks)
			}
		})
	}
}

func TestKVPortLoadMalformedBacksUp(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set("tasks", `{"not": "an array"}`)
	port := NewKVPort(kv, "tasks")

	_, err := port.Load()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load: got %v, want ErrMalformed", err)
	}
	backup, ok, _ := kv.Get("tasks.bak")
	if !ok || backup != `{"not": "an array"}` {
		t.Errorf("backup: got %q ok=%v", backup, ok)
	}
	// The original value stays until the next save.
	if raw, _, _ := port.Raw(); raw != `{"not": "an array"}` {
		t.Errorf("raw value changed: %q", raw)
	}
}

type failingKV struct {
	*MemoryKV
	setErr error
	getErr error
}

func (f *failingKV) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryKV.Get(key)
}

func (f *failingKV) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryKV.Set(key, value)
}

func TestKVPortErrors(t *testing.T) {
	boom := errors.New("disk full")

	port := NewKVPort(&failingKV{MemoryKV: NewMemoryKV(), setErr: boom}, "tasks")
	if err := port.Save([]todo.Task{{ID: 1, Text: "a"}}); !errors.Is(err, boom) {
		t.Errorf("Save: got %v, want wrapped %v", err, boom)
	}

	port = NewKVPort(&failingKV{MemoryKV: NewMemoryKV(), getErr: boom}, "tasks")
	if _, err := port.Load(); !errors.Is(err, boom) || errors.Is(err, ErrMalformed) {
		t.Errorf("Load: got %v, want wrapped %v", err, boom)
	}

	mem := NewMemoryKV()
	_ = mem.Set("tasks", "garbage")
	port = NewKVPort(&failingKV{MemoryKV: mem, setErr: boom}, "tasks")
	if _, err := port.Load(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Load with failed backup: got %v, want ErrMalformed", err)
	}
}

func TestMemoryPort(t *testing.T) {
	port := NewMemoryPort(todo.Task{ID: 1, Text: "a"})
	tasks, err := port.Load()
	if err != nil || len(tasks) != 1 {
		t.Fatalf("Load: got %v, %v", tasks, err)
	}
	tasks[0].Text = "mutated"
	if port.Tasks[0].Text != "a" {
		t.Error("Load returned an alias of the stored slice")
	}

	if err := port.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if port.Saves != 1 || len(port.Tasks) != 0 {
		t.Errorf("after Save: saves=%d tasks=%v", port.Saves, port.Tasks)
	}

	port.SaveErr = errors.New("nope")
	if err := port.Save(nil); err == nil {
		t.Error("expected injected save error")
	}
}

func strPtr(s string) *string {
	return &s
}
