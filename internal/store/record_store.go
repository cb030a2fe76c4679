package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jjenkins/covidash/internal/model"
)

// timeLayout is fixed-width so TEXT columns sort chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// RecordStore handles database operations for persisted snapshots
type RecordStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

// Create stores a snapshot under a new identifier
func (s *RecordStore) Create(ctx context.Context, snap model.Snapshot) (*model.PersistedRecord, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	record := &model.PersistedRecord{
		ID:       uuid.NewString(),
		Snapshot: snap,
	}

	query := `
		INSERT INTO records (id, country, captured_at, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		snap.Country,
		snap.Timestamp.UTC().Format(timeLayout),
		string(payload),
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record for %s: %w", snap.Country, err)
	}

	return record, nil
}

// GetByID retrieves a record by its identifier. It returns nil when absent.
func (s *RecordStore) GetByID(ctx context.Context, id string) (*model.PersistedRecord, error) {
	query := `SELECT id, payload FROM records WHERE id = $1`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}

	return record, nil
}

// List retrieves all records, newest first
func (s *RecordStore) List(ctx context.Context) ([]model.PersistedRecord, error) {
	query := `
		SELECT id, payload
		FROM records
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	records := []model.PersistedRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// CountRecords returns the total number of records
func (s *RecordStore) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.PersistedRecord, error) {
	var (
		id      string
		payload string
	)
	if err := row.Scan(&id, &payload); err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}

	return &model.PersistedRecord{ID: id, Snapshot: snap}, nil
}
