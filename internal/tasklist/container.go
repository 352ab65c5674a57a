package tasklist

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/todo"
)

// Options configures a Container.
type Options struct {
	// Logger receives persistence and recovery messages. Defaults to a
	// discarding logger.
	Logger *log.Logger
	// AlertDelay is the validation alert display time. Defaults to
	// DefaultAlertDelay.
	AlertDelay time.Duration
	// IDs overrides the task ID source.
	IDs *todo.IDSource
}

// Container owns the task list and mirrors it to a storage port.
type Container struct {
	port   storage.Port
	logger *log.Logger
	ids    *todo.IDSource
	list   *todo.List
	alert  *Alert

	input string

	editing bool
	editID  int64
	editBuf string

	// recovered is the decode error of the last load that fell back to an
	// empty list.
	recovered error
}

// New returns an empty container backed by port. Call Load to read the
// stored list.
func New(port storage.Port, opts Options) *Container {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ids := opts.IDs
	if ids == nil {
		ids = todo.NewIDSource()
	}
	return &Container{
		port:   port,
		logger: logger,
		ids:    ids,
		list:   todo.NewList(nil).WithIDSource(ids),
		alert:  NewAlert(opts.AlertDelay),
	}
}

// Load replaces the list with the stored one. A missing value is an empty
// list. A malformed value is logged and replaced by an empty list; the port
// keeps a backup and the error is available from Recovered. Other read
// errors are returned and leave the list unchanged.
func (c *Container) Load() error {
	tasks, err := c.port.Load()
	c.recovered = nil
	if err != nil {
		if !errors.Is(err, storage.ErrMalformed) {
			return fmt.Errorf("load tasks: %w", err)
		}
		c.logger.Warn("stored tasks are malformed, starting with an empty list", "err", err)
		c.recovered = err
		tasks = nil
	}
	c.replace(tasks)
	c.logger.Debug("tasks loaded", "count", c.list.Len())
	return nil
}

// Reload reads the stored list again. The edit target is kept if the task
// still exists and is still active. It reports whether the list changed.
func (c *Container) Reload() (bool, error) {
	before := c.list.Tasks()
	if err := c.Load(); err != nil {
		return false, err
	}
	if slices.Equal(before, c.list.Tasks()) {
		return false, nil
	}
	if c.editing {
		if task, ok := c.list.Get(c.editID); !ok || task.Done {
			c.exitEdit()
		}
	}
	c.logger.Info("tasks reloaded", "count", c.list.Len())
	return true, nil
}

// Recovered returns the decode error of the last Load that fell back to an
// empty list, or nil.
func (c *Container) Recovered() error {
	return c.recovered
}

func (c *Container) replace(tasks []todo.Task) {
	c.list = todo.NewList(tasks).WithIDSource(c.ids)
}

// Input returns the add-input value.
func (c *Container) Input() string {
	return c.input
}

// SetInput sets the add-input value.
func (c *Container) SetInput(s string) {
	c.input = s
}

// Submit adds the current input as a task.
func (c *Container) Submit() (todo.Task, error) {
	return c.Add(c.input)
}

// Add appends a task with text. Blank text raises the alert, leaves the list
// unchanged and returns todo.ErrEmptyText. On success the input and any
// alert are cleared and the list is persisted; a persist error is returned
// with the task, which stays in the list.
func (c *Container) Add(text string) (todo.Task, error) {
	if err := todo.ValidateInput(text); err != nil {
		c.alert.Raise()
		return todo.Task{}, err
	}
	task := c.list.Add(text)
	c.input = ""
	c.alert.Clear()
	c.logger.Info("task added", "id", task.ID)
	return task, c.Persist()
}

// Toggle flips the done flag of a task. It reports whether the task was
// found; unknown IDs are a no-op.
func (c *Container) Toggle(id int64) (bool, error) {
	if !c.list.Toggle(id) {
		return false, nil
	}
	task, _ := c.list.Get(id)
	if task.Done && c.editing && c.editID == id {
		// Completed tasks are not editable.
		c.exitEdit()
	}
	c.logger.Info("task toggled", "id", id, "done", task.Done)
	return true, c.Persist()
}

// Delete removes a task. Deleting the task under edit ends the edit.
func (c *Container) Delete(id int64) (bool, error) {
	if !c.list.Delete(id) {
		return false, nil
	}
	if c.editing && c.editID == id {
		c.exitEdit()
	}
	c.logger.Info("task deleted", "id", id)
	return true, c.Persist()
}

// BeginEdit puts a task into edit mode with its text in the buffer. Any
// other pending edit is discarded. It reports whether the task was found.
func (c *Container) BeginEdit(id int64) bool {
	task, ok := c.list.Get(id)
	if !ok {
		return false
	}
	if c.editing && c.editID != id {
		c.logger.Debug("edit discarded", "id", c.editID)
	}
	c.editing = true
	c.editID = id
	c.editBuf = task.Text
	return true
}

// Editing returns the task under edit.
func (c *Container) Editing() (int64, bool) {
	return c.editID, c.editing
}

// EditBuffer returns the pending edit text.
func (c *Container) EditBuffer() string {
	return c.editBuf
}

// SetEditBuffer replaces the pending edit text. It is ignored when idle.
func (c *Container) SetEditBuffer(s string) {
	if c.editing {
		c.editBuf = s
	}
}

// CommitEdit replaces a task's text and ends any edit of that task. The text
// is stored as given, blank included. It reports whether the task was found.
func (c *Container) CommitEdit(id int64, text string) (bool, error) {
	if c.editing && c.editID == id {
		c.exitEdit()
	}
	if !c.list.SetText(id, text) {
		return false, nil
	}
	c.logger.Info("task edited", "id", id)
	return true, c.Persist()
}

// CommitBuffer commits the pending edit buffer to the task under edit.
func (c *Container) CommitBuffer() (bool, error) {
	if !c.editing {
		return false, nil
	}
	return c.CommitEdit(c.editID, c.editBuf)
}

// CancelEdit ends the edit without changing the task.
func (c *Container) CancelEdit() {
	c.exitEdit()
}

func (c *Container) exitEdit() {
	c.editing = false
	c.editID = 0
	c.editBuf = ""
}

// Persist writes the full list to the port. Failures are logged and
// returned; the in-memory list is kept either way.
func (c *Container) Persist() error {
	if err := c.port.Save(c.list.Tasks()); err != nil {
		c.logger.Error("persist failed", "err", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// Alert returns the validation alert.
func (c *Container) Alert() *Alert {
	return c.alert
}

// Get returns a task by ID.
func (c *Container) Get(id int64) (todo.Task, bool) {
	return c.list.Get(id)
}

// Len returns the number of tasks.
func (c *Container) Len() int {
	return c.list.Len()
}

// Tasks returns all tasks in insertion order.
func (c *Container) Tasks() []todo.Task {
	return c.list.Tasks()
}

// Active returns the tasks that are not done.
func (c *Container) Active() []todo.Task {
	return c.list.Active()
}

// Completed returns the tasks that are done.
func (c *Container) Completed() []todo.Task {
	return c.list.Completed()
}
