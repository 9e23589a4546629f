package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sentiment-dashboard/models"
	"sentiment-dashboard/utils"
)

// PostgresStore keeps parsed corpora in PostgreSQL so dashboards can run
// without the CSV files on local disk. Labels are stored raw and still go
// through normalization on read.
type PostgresStore struct {
	db    *sql.DB
	begin func() (txn, error)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// txn is the part of *sql.Tx that Write needs.
type txn interface {
	execer
	Commit() error
	Rollback() error
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{
		db: db,
		begin: func() (txn, error) {
			tx, err := db.Begin()
			if err != nil {
				return nil, err
			}
			return tx, nil
		},
	}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS corpus_datasets (
			topic              TEXT        NOT NULL,
			source             VARCHAR(16) NOT NULL,
			mode               VARCHAR(16) NOT NULL,
			file               TEXT        NOT NULL DEFAULT '',
			has_ground_truth   BOOLEAN     NOT NULL DEFAULT FALSE,
			has_predicted      BOOLEAN     NOT NULL DEFAULT FALSE,
			has_probabilities  BOOLEAN     NOT NULL DEFAULT FALSE,
			has_timestamp      BOOLEAN     NOT NULL DEFAULT FALSE,
			skipped_rows       INTEGER     NOT NULL DEFAULT 0,
			ingested_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (topic, source, mode)
		);

		CREATE TABLE IF NOT EXISTS corpus_records (
			id            SERIAL PRIMARY KEY,
			topic         TEXT        NOT NULL,
			source        VARCHAR(16) NOT NULL,
			mode          VARCHAR(16) NOT NULL,
			ground_truth  TEXT        NOT NULL DEFAULT '',
			predicted     TEXT        NOT NULL DEFAULT '',
			prob_neg      DOUBLE PRECISION,
			prob_neu      DOUBLE PRECISION,
			prob_pos      DOUBLE PRECISION,
			published_at  TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_corpus_records_dataset ON corpus_records(topic, source, mode);
	`)
	return err
}

// Clear deletes the stored rows of one dataset.
func (ps *PostgresStore) Clear(id models.DatasetID) error {
	return clearDataset(ps.db, id)
}

func clearDataset(ex execer, id models.DatasetID) error {
	if _, err := ex.Exec(
		"DELETE FROM corpus_records WHERE topic = $1 AND source = $2 AND mode = $3",
		string(id.Topic), string(id.Source), string(id.Mode),
	); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored copy of ds. The delete, the dataset row and
// every record batch commit together or not at all.
func (ps *PostgresStore) Write(ds *models.RawDataset) error {
	if ds == nil {
		return nil
	}

	tx, err := ps.begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeDataset(tx, ds); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

const batchSize = 50

func writeDataset(ex execer, ds *models.RawDataset) error {
	if err := clearDataset(ex, ds.ID); err != nil {
		return err
	}

	_, err := ex.Exec(upsertDatasetQuery, string(ds.ID.Topic), string(ds.ID.Source), string(ds.ID.Mode), ds.File,
		ds.HasGroundTruth, ds.HasPredicted, ds.HasProbabilities, ds.HasTimestamp, ds.SkippedRows)
	if err != nil {
		return fmt.Errorf("postgres: upsert dataset: %w", err)
	}

	for i := 0; i < len(ds.Records); i += batchSize {
		end := i + batchSize
		if end > len(ds.Records) {
			end = len(ds.Records)
		}
		query, args := insertBatchQuery(ds.ID, ds.Records[i:end])
		if _, err := ex.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch %d: %w", i/batchSize+1, err)
		}
	}
	return nil
}

const upsertDatasetQuery = `
	INSERT INTO corpus_datasets
		(topic, source, mode, file, has_ground_truth, has_predicted, has_probabilities, has_timestamp, skipped_rows, ingested_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
	ON CONFLICT (topic, source, mode) DO UPDATE SET
		file = EXCLUDED.file,
		has_ground_truth = EXCLUDED.has_ground_truth,
		has_predicted = EXCLUDED.has_predicted,
		has_probabilities = EXCLUDED.has_probabilities,
		has_timestamp = EXCLUDED.has_timestamp,
		skipped_rows = EXCLUDED.skipped_rows,
		ingested_at = NOW()
`

const recordColumns = 9

func insertBatchQuery(id models.DatasetID, batch []models.RawRecord) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*recordColumns)

	for idx, r := range batch {
		base := idx * recordColumns
		placeholders := make([]string, recordColumns)
		for k := range placeholders {
			placeholders[k] = fmt.Sprintf("$%d", base+k+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var neg, neu, pos sql.NullFloat64
		if r.Probabilities != nil {
			neg = sql.NullFloat64{Float64: r.Probabilities.NEG, Valid: true}
			neu = sql.NullFloat64{Float64: r.Probabilities.NEU, Valid: true}
			pos = sql.NullFloat64{Float64: r.Probabilities.POS, Valid: true}
		}
		var published sql.NullTime
		if !r.Timestamp.IsZero() {
			published = sql.NullTime{Time: r.Timestamp, Valid: true}
		}
		valueArgs = append(valueArgs,
			string(id.Topic), string(id.Source), string(id.Mode),
			r.GroundTruth, r.Predicted, neg, neu, pos, published)
	}

	query := fmt.Sprintf(`
		INSERT INTO corpus_records (topic, source, mode, ground_truth, predicted, prob_neg, prob_neu, prob_pos, published_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// Fetch retrieves a stored dataset.
func (ps *PostgresStore) Fetch(id models.DatasetID) (*models.RawDataset, error) {
	ds := &models.RawDataset{ID: id}
	err := ps.db.QueryRow(`
		SELECT file, has_ground_truth, has_predicted, has_probabilities, has_timestamp, skipped_rows
		FROM corpus_datasets
		WHERE topic = $1 AND source = $2 AND mode = $3
	`, string(id.Topic), string(id.Source), string(id.Mode)).Scan(
		&ds.File, &ds.HasGroundTruth, &ds.HasPredicted, &ds.HasProbabilities, &ds.HasTimestamp, &ds.SkippedRows,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: %w: %s not ingested", models.ErrUnknownDataset, id)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch dataset: %w", err)
	}

	rows, err := ps.db.Query(`
		SELECT ground_truth, predicted, prob_neg, prob_neu, prob_pos, published_at
		FROM corpus_records
		WHERE topic = $1 AND source = $2 AND mode = $3
		ORDER BY id
	`, string(id.Topic), string(id.Source), string(id.Mode))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row recordRow
		if err := rows.Scan(&row.groundTruth, &row.predicted, &row.neg, &row.neu, &row.pos, &row.published); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		ds.Records = append(ds.Records, row.record())
	}
	return ds, rows.Err()
}

// recordRow is one scanned corpus_records row.
type recordRow struct {
	groundTruth   string
	predicted     string
	neg, neu, pos sql.NullFloat64
	published     sql.NullTime
}

// record maps NULL columns back to absent values: probabilities survive
// only as a complete triple and a NULL date becomes the zero time.
func (row recordRow) record() models.RawRecord {
	r := models.RawRecord{GroundTruth: row.groundTruth, Predicted: row.predicted}
	if row.neg.Valid && row.neu.Valid && row.pos.Valid {
		r.Probabilities = &models.ClassProbabilities{NEG: row.neg.Float64, NEU: row.neu.Float64, POS: row.pos.Float64}
	}
	if row.published.Valid {
		r.Timestamp = row.published.Time.In(time.UTC)
	}
	return r
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
