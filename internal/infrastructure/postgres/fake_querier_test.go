package postgres

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	insertRe = regexp.MustCompile(`(?s)INSERT INTO (\w+) \((.*?)\)\s*VALUES`)
	selectRe = regexp.MustCompile(`(?s)SELECT (.*?)\s+FROM (\w+)`)
	deleteRe = regexp.MustCompile(`DELETE FROM (\w+) WHERE (\w+) = \$1`)
	assignRe = regexp.MustCompile(`(\w+)\s*=\s*\$(\d+)`)
)

// tableDB Querier en memoria: guarda cada fila como columna -> valor y la devuelve en el orden
// del SELECT, de modo que un desfase entre columnas y argumentos o en el orden del Scan se detecta.
type tableDB struct {
	tables    map[string][]map[string]any
	counters  map[string]int64
	insertErr error // error para el siguiente INSERT INTO documents
}

var _ Querier = (*tableDB)(nil)

func newTableDB() *tableDB {
	return &tableDB{tables: map[string][]map[string]any{}, counters: map[string]int64{}}
}

func (db *tableDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	sql = strings.TrimSpace(sql)
	switch {
	case strings.HasPrefix(sql, "INSERT INTO"):
		m := insertRe.FindStringSubmatch(sql)
		if m == nil {
			return pgconn.CommandTag{}, fmt.Errorf("insert no reconocido: %s", sql)
		}
		table := m[1]
		if table == "documents" && db.insertErr != nil {
			err := db.insertErr
			db.insertErr = nil
			return pgconn.CommandTag{}, err
		}
		cols := splitColumns(m[2])
		if len(cols) != len(args) {
			return pgconn.CommandTag{}, fmt.Errorf("%s: %d columnas y %d argumentos", table, len(cols), len(args))
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = args[i]
		}
		db.tables[table] = append(db.tables[table], row)
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	case strings.HasPrefix(sql, "UPDATE documents"):
		n := 0
		for _, row := range db.tables["documents"] {
			if row["id"] != args[0] {
				continue
			}
			for _, a := range assignRe.FindAllStringSubmatch(sql, -1) {
				var idx int
				fmt.Sscanf(a[2], "%d", &idx)
				if a[1] != "id" {
					row[a[1]] = args[idx-1]
				}
			}
			n++
		}
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil

	case strings.HasPrefix(sql, "DELETE FROM"):
		m := deleteRe.FindStringSubmatch(sql)
		if m == nil {
			return pgconn.CommandTag{}, fmt.Errorf("delete no reconocido: %s", sql)
		}
		n := db.remove(m[1], m[2], args[0])
		if m[1] == "documents" {
			db.remove("document_taxes", "document_id", args[0])
			db.remove("document_lines", "document_id", args[0])
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("sentencia no soportada: %s", sql)
}

func (db *tableDB) remove(table, col string, val any) int {
	kept := db.tables[table][:0]
	n := 0
	for _, row := range db.tables[table] {
		if row[col] == val {
			n++
			continue
		}
		kept = append(kept, row)
	}
	db.tables[table] = kept
	return n
}

func (db *tableDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if strings.Contains(sql, "document_counters") {
		key := fmt.Sprint(args[0], "/", args[1])
		db.counters[key]++
		return tableRow{vals: []any{db.counters[key]}}
	}
	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return tableRow{err: fmt.Errorf("select no reconocido: %s", sql)}
	}
	cols := splitColumns(m[1])
	for _, row := range db.tables[m[2]] {
		if row["id"] == args[0] {
			return tableRow{vals: project(row, cols)}
		}
	}
	return tableRow{err: pgx.ErrNoRows}
}

func (db *tableDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("select no reconocido: %s", sql)
	}
	cols, table := splitColumns(m[1]), m[2]

	var selected []map[string]any
	if table == "documents" {
		for _, row := range db.tables[table] {
			if row["company_id"] == args[0] && (args[1] == "" || row["kind"] == args[1]) {
				selected = append(selected, row)
			}
		}
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i]["created_at"].(time.Time).After(selected[j]["created_at"].(time.Time))
		})
		limit, offset := args[2].(int), args[3].(int)
		if offset > len(selected) {
			offset = len(selected)
		}
		selected = selected[offset:]
		if limit < len(selected) {
			selected = selected[:limit]
		}
	} else {
		for _, row := range db.tables[table] {
			if row["document_id"] == args[0] {
				selected = append(selected, row)
			}
		}
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i]["position"].(int) < selected[j]["position"].(int)
		})
	}

	out := &tableRows{}
	for _, row := range selected {
		out.rows = append(out.rows, project(row, cols))
	}
	return out, nil
}

func (db *tableDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, qq := range b.QueuedQueries {
		if _, err := db.Exec(ctx, qq.SQL, qq.Arguments...); err != nil {
			return tableBatch{err: err}
		}
	}
	return tableBatch{}
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func project(row map[string]any, cols []string) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	return vals
}

type tableRow struct {
	vals []any
	err  error
}

func (r tableRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinos para %d columnas", len(dest), len(r.vals))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Ptr {
			return fmt.Errorf("scan: destino %d no es puntero", i)
		}
		v := reflect.ValueOf(r.vals[i])
		if !v.IsValid() {
			return fmt.Errorf("scan: columna %d sin valor", i)
		}
		if !v.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("scan: columna %d es %T, destino %s", i, r.vals[i], dv.Elem().Type())
		}
		dv.Elem().Set(v)
	}
	return nil
}

type tableRows struct {
	rows [][]any
	i    int
}

func (r *tableRows) Close()                                       {}
func (r *tableRows) Err() error                                   { return nil }
func (r *tableRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *tableRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *tableRows) RawValues() [][]byte                          { return nil }
func (r *tableRows) Conn() *pgx.Conn                              { return nil }

func (r *tableRows) Next() bool {
	if r.i < len(r.rows) {
		r.i++
		return true
	}
	return false
}

func (r *tableRows) Scan(dest ...any) error { return tableRow{vals: r.rows[r.i-1]}.Scan(dest...) }

func (r *tableRows) Values() ([]any, error) { return r.rows[r.i-1], nil }

type tableBatch struct{ err error }

func (b tableBatch) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, b.err }
func (b tableBatch) Query() (pgx.Rows, error)         { return nil, b.err }
func (b tableBatch) QueryRow() pgx.Row                { return tableRow{err: b.err} }
func (b tableBatch) Close() error                     { return b.err }
