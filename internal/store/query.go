package store

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// fold(x) lower-cases with Unicode rules. SQLite's lower() and LIKE only fold
// ASCII, so name and tag matching go through fold on both sides.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return foldCase(v), nil
		case []byte:
			return foldCase(string(v)), nil
		default:
			return v, nil
		}
	})
}

func foldCase(s string) string { return strings.ToLower(s) }

// predicate is one parameterized fragment of a WHERE clause. User input only
// ever travels through args.
type predicate struct {
	sql  string
	args []any
}

func pred(sql string, args ...any) predicate {
	return predicate{sql: sql, args: args}
}

// anyOf joins predicates with OR. An empty input yields the zero predicate,
// which where.and ignores.
func anyOf(ps ...predicate) predicate {
	var parts []string
	var args []any
	for _, p := range ps {
		if p.sql == "" {
			continue
		}
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	switch len(parts) {
	case 0:
		return predicate{}
	case 1:
		return predicate{sql: parts[0], args: args}
	}
	return predicate{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}
}

// where accumulates AND-combined predicates.
type where struct {
	parts []predicate
}

func (w *where) and(p predicate) {
	if p.sql == "" {
		return
	}
	w.parts = append(w.parts, p)
}

// build renders " WHERE ..." (or "" when unconstrained) and the bound args in
// placeholder order.
func (w where) build() (string, []any) {
	if len(w.parts) == 0 {
		return "", nil
	}
	sqls := make([]string, 0, len(w.parts))
	var args []any
	for _, p := range w.parts {
		sqls = append(sqls, p.sql)
		args = append(args, p.args...)
	}
	return " WHERE " + strings.Join(sqls, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern matching s anywhere.
// Pair it with `fold(col) LIKE ? ESCAPE '\'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(foldCase(s)) + "%"
}
