package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Scoper decides the initial scoped flag for a freshly inserted entity. The
// autonoscope package implements it; db only depends on the interface to
// avoid an import cycle, mirroring how engine/ctx.rs's State trait is
// implemented by the binary crate rather than by the runtime crate itself.
type Scoper interface {
	Matches(family Family, object map[string]interface{}) (bool, error)
}

// Store is the per-workspace entity store (component C4).
type Store struct {
	db        *sql.DB
	Workspace string
	Scope     Scoper
}

// Open opens (creating if necessary) the SQLite file backing workspace and
// applies any pending migrations.
func Open(path, workspace string, scope Scoper) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // SQLite's writer lock is the point of serialization (spec §5)

	s := &Store{db: sqlDB, Workspace: workspace, Scope: scope}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(migrations[0]); err != nil {
		return err
	}

	var applied int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&applied); err != nil {
		return err
	}

	for i := 1; i < len(migrations); i++ {
		if i <= applied {
			continue
		}
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, i); err != nil {
			return err
		}
	}
	return nil
}

// Insert upserts object into family's table (idempotent on its unique
// "value"-family constraint, spec §4.6) and returns its row id. A fresh
// insert consults the autonoscope Scoper unless the caller pre-set
// "scoped".
func (s *Store) Insert(family Family, object map[string]interface{}) (int64, error) {
	table, ok := tableFor[family]
	if !ok {
		return 0, fmt.Errorf("unknown family %q", family)
	}

	for _, field := range requiredFields[family] {
		if _, present := object[field]; !present {
			return 0, fmt.Errorf("missing required field %q for %s", field, family)
		}
	}

	if _, set := object["scoped"]; !set {
		scoped := true
		if s.Scope != nil {
			var err error
			scoped, err = s.Scope.Matches(family, object)
			if err != nil {
				return 0, err
			}
		}
		object["scoped"] = scoped
	}

	cols := make([]string, 0, len(object)+1)
	placeholders := make([]string, 0, len(object)+1)
	args := make([]interface{}, 0, len(object)+1)
	for k, v := range object {
		cols = append(cols, k)
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}
	cols = append(cols, "created_at")
	placeholders = append(placeholders, "?")
	args = append(args, time.Now())

	conflict := "value"
	switch family {
	case FamilySubdomainIpAddr:
		conflict = "subdomain_id, ip_addr_id"
	case FamilyNetworkDevice:
		conflict = "network_id, device_id"
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET id=id RETURNING id",
		table, join(cols, ","), join(placeholders, ","), conflict,
	)

	var id int64
	if err := s.db.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s failed: %w", table, err)
	}

	if err := s.logActivity(fmt.Sprintf("insert:%s", family), object); err != nil {
		return 0, err
	}

	return id, nil
}

// Select looks up an entity by its unique value, returning (id, found).
func (s *Store) Select(family Family, value string) (int64, bool, error) {
	table, ok := tableFor[family]
	if !ok {
		return 0, false, fmt.Errorf("unknown family %q", family)
	}

	var id int64
	err := s.db.QueryRow(fmt.Sprintf("SELECT id FROM %s WHERE value = ?", table), value).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Update applies changeset to the row identified by id within family.
func (s *Store) Update(family Family, id int64, changeset map[string]interface{}) error {
	table, ok := tableFor[family]
	if !ok {
		return fmt.Errorf("unknown family %q", family)
	}
	if len(changeset) == 0 {
		return nil
	}

	cols := make([]string, 0, len(changeset))
	args := make([]interface{}, 0, len(changeset)+1)
	for k, v := range changeset {
		cols = append(cols, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, join(cols, ", "))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("update %s failed: %w", table, err)
	}

	return s.logActivity(fmt.Sprintf("update:%s", family), changeset)
}

// Delete removes all rows matching filter within family; cascades are
// enforced by the ON DELETE CASCADE foreign keys declared in schema.go.
func (s *Store) Delete(family Family, filter Filter) (int64, error) {
	table, ok := tableFor[family]
	if !ok {
		return 0, fmt.Errorf("unknown family %q", family)
	}
	where, args := filter.SQL()
	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", table, where), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		_ = s.logActivity(fmt.Sprintf("delete:%s", family), map[string]interface{}{"count": n})
	}
	return n, nil
}

// SetScoped toggles the scoped flag for every row matching filter
// (idempotent, spec §3.1).
func (s *Store) SetScoped(family Family, filter Filter, scoped bool) (int64, error) {
	table, ok := tableFor[family]
	if !ok {
		return 0, fmt.Errorf("unknown family %q", family)
	}
	where, args := filter.SQL()
	args = append([]interface{}{scoped}, args...)
	res, err := s.db.Exec(fmt.Sprintf("UPDATE %s SET scoped = ? WHERE %s", table, where), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		topic := "noscope"
		if scoped {
			topic = "scope"
		}
		_ = s.logActivity(fmt.Sprintf("%s:%s", topic, family), map[string]interface{}{"count": n})
	}
	return n, nil
}

// Filter evaluates filter against family and returns every matching row as
// a generic column->value map (the same loosely typed shape the IPC layer
// already deals in).
func (s *Store) Filter(family Family, filter Filter) ([]map[string]interface{}, error) {
	table, ok := tableFor[family]
	if !ok {
		return nil, fmt.Errorf("unknown family %q", family)
	}

	if err := s.ttlReap(table); err != nil {
		return nil, err
	}

	where, args := filter.SQL()
	rows, err := s.db.Query(fmt.Sprintf("SELECT * FROM %s WHERE %s", table, where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TTLReap removes expired rows across every entity table. It is called
// lazily before any read that can surface stale rows (spec §4.6); Filter
// calls the single-table variant internally, and the CLI's `stats`/`export`
// paths call this exported form before a full-workspace scan.
func (s *Store) TTLReap(now time.Time) error {
	for _, table := range tableFor {
		if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE ttl IS NOT NULL AND ttl < ?", table), now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ttlReap(table string) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE ttl IS NOT NULL AND ttl < ?", table), time.Now())
	return err
}

func (s *Store) logActivity(topic string, content interface{}) error {
	buf, err := json.Marshal(content)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO activity (topic, time, content) VALUES (?, ?, ?)`,
		topic, time.Now(), buf,
	)
	return err
}

// AutonoscopeRule is a single persisted autonoscope row (component C3).
type AutonoscopeRule struct {
	Object string
	Value  string
	Scoped bool
}

// LoadAutonoscope returns every persisted autonoscope rule in insertion
// order; callers re-sort by precision.
func (s *Store) LoadAutonoscope() ([]AutonoscopeRule, error) {
	rows, err := s.db.Query(`SELECT object, value, scoped FROM autonoscope ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AutonoscopeRule
	for rows.Next() {
		var r AutonoscopeRule
		if err := rows.Scan(&r.Object, &r.Value, &r.Scoped); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertAutonoscope persists a rule, replacing any existing rule with the
// same (object, value) pair (the autonoscope table's unique constraint).
func (s *Store) InsertAutonoscope(object, value string, scoped bool) error {
	_, err := s.db.Exec(
		`INSERT INTO autonoscope (object, value, scoped) VALUES (?, ?, ?)
		 ON CONFLICT(object, value) DO UPDATE SET scoped = excluded.scoped`,
		object, value, scoped,
	)
	return err
}

// DeleteAutonoscope removes a rule by its exact (object, value) pair.
func (s *Store) DeleteAutonoscope(object, value string) error {
	_, err := s.db.Exec(`DELETE FROM autonoscope WHERE object = ? AND value = ?`, object, value)
	return err
}

// Activities returns every activity row within [since, until), newest last,
// for component C14 (the activity/calendar view).
func (s *Store) Activities(since, until time.Time) ([]Activity, error) {
	rows, err := s.db.Query(
		`SELECT id, topic, time, content, location FROM activity WHERE time >= ? AND time < ? ORDER BY time ASC`,
		since, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Topic, &a.Time, &a.Content, &a.Location); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, rows.Err()
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
