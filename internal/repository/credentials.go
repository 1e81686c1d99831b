package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCredentialsNotConfigured is returned when the credential resource is absent.
var ErrCredentialsNotConfigured = errors.New("teacher credentials not configured")

// ErrCredentialsInvalid is returned when the credential resource cannot be parsed.
var ErrCredentialsInvalid = errors.New("teacher credentials are invalid")

// TeacherSource loads the username→password table of staff accounts.
// Implementations read the underlying resource on every call.
type TeacherSource interface {
	LoadTeachers(ctx context.Context) (map[string]string, error)
}

// FileTeacherSource reads credentials from a JSON file shaped like
//
//	{"teachers": [{"username": "...", "password": "..."}]}
type FileTeacherSource struct {
	path string
}

// NewFileTeacherSource constructs a FileTeacherSource for path.
func NewFileTeacherSource(path string) *FileTeacherSource {
	return &FileTeacherSource{path: path}
}

// Entries stay raw so one badly shaped entry cannot fail the whole file.
type teachersFile struct {
	Teachers []json.RawMessage `json:"teachers"`
}

// LoadTeachers reads and parses the file. Entries that are not objects, or
// lack a string username or password, are skipped.
func (s *FileTeacherSource) LoadTeachers(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCredentialsNotConfigured
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc teachersFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
	}

	teachers := make(map[string]string, len(doc.Teachers))
	for _, raw := range doc.Teachers {
		username, password, ok := parseTeacherEntry(raw)
		if ok {
			teachers[username] = password
		}
	}
	return teachers, nil
}

// parseTeacherEntry accepts an object whose username and password are both
// non-empty strings.
func parseTeacherEntry(raw json.RawMessage) (string, string, bool) {
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", "", false
	}
	username, _ := entry["username"].(string)
	password, _ := entry["password"].(string)
	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

// PostgresTeacherSource reads credentials from a teachers(username, password)
// table on every call.
type PostgresTeacherSource struct {
	db *pgxpool.Pool
}

// NewPostgresTeacherSource constructs a PostgresTeacherSource.
func NewPostgresTeacherSource(db *pgxpool.Pool) *PostgresTeacherSource {
	return &PostgresTeacherSource{db: db}
}

// LoadTeachers queries every row, skipping ones with an empty or NULL
// username or password. A missing table means credentials were never set up.
func (s *PostgresTeacherSource) LoadTeachers(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT username, password FROM teachers`)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, ErrCredentialsNotConfigured
		}
		return nil, fmt.Errorf("query teachers: %w", err)
	}
	defer rows.Close()

	teachers := make(map[string]string)
	for rows.Next() {
		var username, password *string
		if err := rows.Scan(&username, &password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
		}
		if username == nil || password == nil || *username == "" || *password == "" {
			continue
		}
		teachers[*username] = *password
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, ErrCredentialsNotConfigured
		}
		return nil, fmt.Errorf("read teachers: %w", err)
	}
	return teachers, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
