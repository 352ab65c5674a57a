// Package todo models the task list and its persisted form.
package todo

// Task represents a single entry in the list.
type Task struct {
	ID   int64  `json:"id" yaml:"id" validate:"gte=0"`
	Text string `json:"task" yaml:"task"`
	Done bool   `json:"status" yaml:"status"`
}

// List is an ordered sequence of tasks. The zero value is an empty list
// ready to use.
type List struct {
	tasks []Task
	ids   *IDSource
}

// NewList returns a list holding a copy of tasks, in order.
func NewList(tasks []Task) *List {
	l := &List{
		tasks: make([]Task, len(tasks)),
		ids:   NewIDSource(),
	}
	copy(l.tasks, tasks)
	for _, t := range l.tasks {
		l.ids.Observe(t.ID)
	}
	return l
}

// WithIDSource replaces the list's ID source. Existing IDs are observed so the
// source never reissues them.
func (l *List) WithIDSource(src *IDSource) *List {
	for _, t := range l.tasks {
		src.Observe(t.ID)
	}
	l.ids = src
	return l
}

func (l *List) idSource() *IDSource {
	if l.ids == nil {
		l.ids = NewIDSource()
		for _, t := range l.tasks {
			l.ids.Observe(t.ID)
		}
	}
	return l.ids
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of all tasks in insertion order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Get returns the task with the given ID.
func (l *List) Get(id int64) (Task, bool) {
	if i := l.index(id); i >= 0 {
		return l.tasks[i], true
	}
	return Task{}, false
}

// Add appends a new, not yet done task and returns it. The text is stored as
// given; callers validate it first.
func (l *List) Add(text string) Task {
	task := Task{
		ID:   l.idSource().Next(),
		Text: text,
	}
	l.tasks = append(l.tasks, task)
	return task
}

// Toggle flips the done flag of a task. It reports whether the task was found.
func (l *List) Toggle(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Done = !l.tasks[i].Done
	return true
}

// Delete removes a task, keeping the relative order of the rest.
// It reports whether the task was found.
func (l *List) Delete(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
	return true
}

// SetText replaces the text of a task. It reports whether the task was found.
func (l *List) SetText(id int64, text string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Text = text
	return true
}

// Active returns the tasks that are not done, in insertion order.
func (l *List) Active() []Task {
	active, _ := l.Partition()
	return active
}

// Completed returns the tasks that are done, in insertion order.
func (l *List) Completed() []Task {
	_, completed := l.Partition()
	return completed
}

// Partition splits the list by the done flag.
func (l *List) Partition() (active, completed []Task) {
	for _, t := range l.tasks {
		if t.Done {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

func (l *List) index(id int64) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
