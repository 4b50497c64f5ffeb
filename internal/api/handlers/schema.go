package handlers

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const taskSpecSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "due_date": {"type": "string", "format": "date-time"},
    "assignees": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "consensus_percentage": {"type": "integer", "minimum": 0, "maximum": 100},
    "consensus_assignees": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "item_ids": {"type": "array", "items": {"type": "string", "minLength": 1}}
  },
  "additionalProperties": false
}`

// TaskSpecValidator validates task creation bodies against a pre-compiled
// JSON schema.
type TaskSpecValidator struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func NewTaskSpecValidator() *TaskSpecValidator {
	return &TaskSpecValidator{}
}

func (v *TaskSpecValidator) load() {
	v.schema, v.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(taskSpecSchema))
	if v.err != nil {
		v.err = fmt.Errorf("compile task spec schema: %w", v.err)
	}
}

func (v *TaskSpecValidator) Validate(doc interface{}) error {
	v.once.Do(v.load)
	if v.err != nil {
		return v.err
	}
	b, _ := json.Marshal(doc)
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return err
	}
	if !res.Valid() {
		return fmt.Errorf("task spec invalid: %v", res.Errors())
	}
	return nil
}
