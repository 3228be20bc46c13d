package repositories

import (
	"context"
	"database/sql"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/db"
	"dispatch-compliance-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQL-backed implementation of the DocumentRepository port (sqlite or postgres).
type SQLDocumentRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDocumentRepository(conn *sql.DB, dialect db.Dialect) *SQLDocumentRepository {
	return &SQLDocumentRepository{DB: conn, Dialect: dialect}
}

// Return the session's documents in insertion order.
func (s *SQLDocumentRepository) ListDocuments(ctx context.Context, sessionID string) (_ []domain.DocumentRecord, err error) {
	defer obs.Time(ctx, "documents.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql document repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT id, category, display_name, expiry_date, uploaded_at, source, extracted
	FROM documents
	WHERE session_id = ?
	ORDER BY position;
	`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: query documents table: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.DocumentRecord, 0, 16)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: row iteration: %w", err)
	}

	return docs, nil
}

func (s *SQLDocumentRepository) AddDocuments(ctx context.Context, sessionID string, docs []domain.DocumentRecord) (err error) {
	defer obs.Time(ctx, "documents.repo.Add")(&err)

	if s.DB == nil {
		return errors.New("sql document repository: DB is nil")
	}
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add documents: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.lockSession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("add documents: lock session: %w", err)
	}

	var next int
	row := tx.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT COALESCE(MAX(position), 0) FROM documents WHERE session_id = ?;
	`), sessionID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("add documents: read position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO documents (id, session_id, position, category, display_name, expiry_date, uploaded_at, source, extracted)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("add documents: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		next++

		extracted, err := json.Marshal(d.Extracted)
		if err != nil {
			return fmt.Errorf("add documents: encode extracted fields for %s: %w", d.ID, err)
		}

		var expiry sql.NullString
		if d.ExpiryDate != nil {
			expiry = sql.NullString{String: d.ExpiryDate.Format(domain.DateLayout), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			d.ID.String(),
			sessionID,
			next,
			string(d.Category),
			d.DisplayName,
			expiry,
			d.UploadedAt.UTC().Format(time.RFC3339),
			string(d.Source),
			string(extracted),
		); err != nil {
			return fmt.Errorf("add documents: insert %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add documents: commit tx: %w", err)
	}

	return nil
}

func (s *SQLDocumentRepository) GetDocument(ctx context.Context, sessionID string, id uuid.UUID) (domain.DocumentRecord, error) {
	if s.DB == nil {
		return domain.DocumentRecord{}, errors.New("sql document repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT id, category, display_name, expiry_date, uploaded_at, source, extracted
	FROM documents
	WHERE session_id = ? AND id = ?;
	`), sessionID, id.String())

	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DocumentRecord{}, fmt.Errorf("get document %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return d, nil
}

func (s *SQLDocumentRepository) SetExpiry(ctx context.Context, sessionID string, id uuid.UUID, expiry time.Time) error {
	if s.DB == nil {
		return errors.New("sql document repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	UPDATE documents SET expiry_date = ?
	WHERE session_id = ? AND id = ?;
	`), domain.DateOf(expiry).Format(domain.DateLayout), sessionID, id.String())
	if err != nil {
		return fmt.Errorf("set expiry %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set expiry %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("set expiry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLDocumentRepository) ClearDocuments(ctx context.Context, sessionID string) error {
	if s.DB == nil {
		return errors.New("sql document repository: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM documents WHERE session_id = ?;`), sessionID); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return nil
}

// lockSession serializes position allocation for one session until tx ends.
// sqlite runs on a single connection, so only postgres takes the lock.
func (s *SQLDocumentRepository) lockSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	if s.Dialect != db.DialectPostgres {
		return nil
	}
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, sessionID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.DocumentRecord, error) {
	var (
		id, category, name, uploadedAt, source, extracted string
		expiry                                            sql.NullString
	)
	if err := row.Scan(&id, &category, &name, &expiry, &uploadedAt, &source, &extracted); err != nil {
		return domain.DocumentRecord{}, err
	}

	docID, err := uuid.Parse(id)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("scan document: parse id %q: %w", id, err)
	}

	// Stored rows are trusted data; a bad value is corruption, not caller input.
	cat := domain.DocumentCategory(category)
	if !cat.Valid() {
		return domain.DocumentRecord{}, fmt.Errorf("scan document %s: stored category %q is not valid", id, category)
	}

	uploaded, err := time.Parse(time.RFC3339, uploadedAt)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("scan document %s: parse uploaded_at: %w", id, err)
	}

	d := domain.DocumentRecord{
		ID:          docID,
		Category:    cat,
		DisplayName: name,
		UploadedAt:  uploaded,
		Source:      domain.DocumentSource(source),
	}

	if expiry.Valid {
		exp, err := time.Parse(domain.DateLayout, expiry.String)
		if err != nil {
			return domain.DocumentRecord{}, fmt.Errorf("scan document %s: parse expiry_date: %w", id, err)
		}
		d.ExpiryDate = &exp
	}

	if err := json.Unmarshal([]byte(extracted), &d.Extracted); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("scan document %s: decode extracted fields: %w", id, err)
	}

	return d, nil
}
