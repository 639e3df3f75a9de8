package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharebox/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	query := `INSERT INTO requests (description, creator_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, request.Description, request.CreatorID, fmtTime(request.Created))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	query := `SELECT id, description, creator_id, created FROM requests WHERE id = ?`
	request, err := scanRequest(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

func (db *DB) RequestsByCreator(ctx context.Context, creatorID int64) ([]*models.Request, error) {
	query := `SELECT id, description, creator_id, created FROM requests
              WHERE creator_id = ? ORDER BY created DESC, id DESC`
	return db.queryRequests(ctx, query, creatorID)
}

// RequestsForOthers pages through requests created by anyone but creatorID,
// oldest id first. offset/limit are row semantics; the caller translates page
// indexes.
func (db *DB) RequestsForOthers(ctx context.Context, creatorID int64, offset, limit int) ([]*models.Request, error) {
	query := `SELECT id, description, creator_id, created FROM requests
              WHERE creator_id != ? ORDER BY id ASC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, creatorID, limit, offset)
}

func scanRequest(row rowScanner) (*models.Request, error) {
	r := &models.Request{}
	var createdStr string
	if err := row.Scan(&r.ID, &r.Description, &r.CreatorID, &createdStr); err != nil {
		return nil, err
	}
	var err error
	if r.Created, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	return r, nil
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
