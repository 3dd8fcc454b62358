package repository

import (
	"context"
	"errors"
	"fmt"

	"stationbot/internal/model"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

type ChangelogRepository struct {
	db *pgxpool.Pool
}

func NewChangelogRepository(db *pgxpool.Pool) *ChangelogRepository {
	return &ChangelogRepository{db: db}
}

// Create stores a merged pull request's changelog. A second merge of the same
// PR (revert and re-merge) replaces the previous row.
func (r *ChangelogRepository) Create(ctx context.Context, rec *model.ChangelogRecord) (*model.ChangelogRecord, error) {
	entries, err := json.Marshal(rec.Entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO changelogs (repo, pr_number, title, author, entries, merged_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (repo, pr_number) DO UPDATE
		   SET title = EXCLUDED.title, author = EXCLUDED.author,
		       entries = EXCLUDED.entries, merged_at = EXCLUDED.merged_at
		 RETURNING id, repo, pr_number, title, author, entries, merged_at, created_at`,
		rec.Repo, rec.PRNumber, rec.Title, rec.Author, entries, rec.MergedAt,
	)
	return scanChangelog(row)
}

func (r *ChangelogRepository) List(ctx context.Context, limit int) ([]model.ChangelogRecord, error) {
	limit = ClampLimit(limit)
	rows, err := r.db.Query(ctx,
		`SELECT id, repo, pr_number, title, author, entries, merged_at, created_at
		 FROM changelogs ORDER BY merged_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ChangelogRecord
	for rows.Next() {
		rec, err := scanChangelog(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *ChangelogRepository) GetByPR(ctx context.Context, repo string, number int) (*model.ChangelogRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, repo, pr_number, title, author, entries, merged_at, created_at
		 FROM changelogs WHERE repo = $1 AND pr_number = $2`,
		repo, number,
	)
	rec, err := scanChangelog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// ClampLimit keeps list sizes between 1 and 50, defaulting to 20.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}

func scanChangelog(row pgx.Row) (*model.ChangelogRecord, error) {
	var (
		rec     model.ChangelogRecord
		entries []byte
	)
	if err := row.Scan(&rec.ID, &rec.Repo, &rec.PRNumber, &rec.Title, &rec.Author, &entries, &rec.MergedAt, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(entries, &rec.Entries); err != nil {
		return nil, fmt.Errorf("decode entries for PR #%d: %w", rec.PRNumber, err)
	}
	return &rec, nil
}
