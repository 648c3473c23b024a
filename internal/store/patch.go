package store

import (
	"context"
	"fmt"
	"strings"
)

// Patch is a partial set of API-visible field values keyed by field name.
type Patch map[string]any

// patchField maps one API-visible field onto a table column. cast, when set,
// is appended to the placeholder so text values coerce to the column type
// (e.g. "::date").
type patchField struct {
	name    string
	column  string
	cast    string
	boolean bool
}

// patchSpec describes the fixed allow-list of mutable fields for one entity.
// Fields are ordered so generated statements are deterministic.
type patchSpec struct {
	table  string
	fields []patchField
}

var taskPatch = patchSpec{
	table: "tasks",
	fields: []patchField{
		{name: "title", column: "title"},
		{name: "description", column: "description"},
		{name: "completed", column: "completed", boolean: true},
		{name: "dueDate", column: "due_date", cast: "::date"},
		{name: "priority", column: "priority"},
		{name: "category", column: "category"},
	},
}

var eventPatch = patchSpec{
	table: "events",
	fields: []patchField{
		{name: "title", column: "title"},
		{name: "description", column: "description"},
		{name: "eventDate", column: "event_date", cast: "::date"},
		{name: "eventTime", column: "event_time", cast: "::time"},
		{name: "color", column: "color"},
	},
}

// build intersects patch with the allow-list and produces a parameterized
// UPDATE scoped to (id, userID). Fields outside the allow-list are ignored.
// An empty intersection yields an empty statement, meaning there is nothing
// to execute.
func (s patchSpec) build(patch Patch, id, userID int64) (sql string, args []any, applied Patch) {
	var sets []string
	for _, f := range s.fields {
		value, ok := patch[f.name]
		if !ok {
			continue
		}
		if f.boolean {
			value = truthy(value)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", f.column, len(args), f.cast))
		if applied == nil {
			applied = Patch{}
		}
		applied[f.name] = value
	}
	if len(sets) == 0 {
		return "", nil, nil
	}

	args = append(args, id, userID)
	sql = fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND user_id = $%d",
		s.table, strings.Join(sets, ", "), len(args)-1, len(args))
	return sql, args, applied
}

// applyPatch runs the allow-listed partial update shared by the task and
// event repositories. It returns nil both when the patch carried no
// recognized fields and when no owned row matched; the two outcomes are
// deliberately indistinguishable to the caller.
func applyPatch(ctx context.Context, db querier, spec patchSpec, id, userID int64, patch Patch) (Patch, error) {
	sql, args, applied := spec.build(patch, id, userID)
	if sql == "" {
		return nil, nil
	}

	defer observeDB(ctx, "db."+spec.table+".update")()
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	result := Patch{"id": id}
	for name, value := range applied {
		result[name] = value
	}
	return result, nil
}

// truthy folds the loosely typed values JSON decoding produces into a proper
// boolean for the completed column.
func truthy(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	case nil:
		return false
	default:
		return true
	}
}
