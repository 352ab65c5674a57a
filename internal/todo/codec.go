package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tasks.schema.json"

// Schema is the JSON Schema of the persisted task array.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "task", "status"],
    "properties": {
      "id": {"type": "integer", "minimum": 0},
      "task": {"type": "string"},
      "status": {"type": "boolean"}
    }
  }
}`

var tasksSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
		panic(fmt.Sprintf("todo: add schema resource: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("todo: compile schema: %v", err))
	}
	return schema
}

// Encode serializes tasks as a compact JSON array. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses a persisted task array. The value must match Schema and
// carry unique IDs.
func Decode(data []byte) ([]Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse tasks: trailing data after array")
	}

	if err := tasksSchema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var stored []storedTask
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	tasks := make([]Task, 0, len(stored))
	seen := make(map[int64]int, len(stored))
	for i, st := range stored {
		t, err := st.task()
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("[%d].id", i), Err: err}
		}
		tasks = append(tasks, t)
		if j, ok := seen[t.ID]; ok {
			return nil, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (also at [%d])", t.ID, j),
			}
		}
		seen[t.ID] = i
	}
	return tasks, nil
}

// storedTask is the persisted shape of a Task. IDs are kept as numbers so
// whole values written as 7.0 or 7e0 still load.
type storedTask struct {
	ID   json.Number `json:"id"`
	Text string      `json:"task"`
	Done bool        `json:"status"`
}

func (st storedTask) task() (Task, error) {
	id, err := st.ID.Int64()
	if err != nil {
		f, ferr := st.ID.Float64()
		if ferr != nil || f != math.Trunc(f) || f < 0 || f >= math.MaxInt64 {
			return Task{}, fmt.Errorf("id %s is not a whole number in range", st.ID)
		}
		id = int64(f)
	}
	return Task{ID: id, Text: st.Text, Done: st.Done}, nil
}

// schemaError flattens a schema validation failure into the first leaf cause.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate tasks: %w", err)
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  fmt.Errorf("%s", ve.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var path strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&path, "[%d]", idx)
			continue
		}
		if path.Len() > 0 {
			path.WriteByte('.')
		}
		path.WriteString(part)
	}
	return path.String()
}
