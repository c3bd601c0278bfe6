// Package todo holds the in-memory task registry.
//
// A Registry keeps tasks keyed by a caller-supplied id and remembers the
// order they were added in:
//
//	reg := todo.NewRegistry()
//	task, _ := todo.NewTask("1", "Buy groceries", "Buy milk, bread, eggs", "2024-12-01")
//	_ = reg.Add(task)
//	sorted, _ := reg.Sort("due_date")
//
// # Due Dates
//
// Due dates use the strict YYYY-MM-DD form. Malformed text or an impossible
// calendar date (2024-02-30) is rejected with ErrInvalidDueDate and never
// replaces an existing due date.
//
// # Editing
//
// Registry.Edit treats an empty name, description or due date as "leave
// unchanged". There is no way to clear a field through Edit.
//
// # Sorting
//
//   - "due_date": ascending, tasks without a due date first
//   - "completion_status": pending before completed
//
// Sorting is stable and returns a copy. The registry order used by List,
// All and Search is only ever changed by Add and Remove.
//
// # Seed Files
//
// A seed file pre-populates a registry. It is JSON or YAML:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {
//	      "id": "1",
//	      "name": "Buy groceries",
//	      "description": "Buy milk, bread, eggs",
//	      "due_date": "2024-12-01",
//	      "completed": false
//	    }
//	  ]
//	}
//
// Seed files are checked against an embedded JSON Schema (draft 2020-12)
// before any task is added. Export writes the same format.
package todo
