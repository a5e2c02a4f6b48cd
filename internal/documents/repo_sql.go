package documents

import (
	"context"
	"database/sql"

	"medidoc-backend/internal/shared/storage/db"
)

// SQLRepo implements Repo over database/sql for Postgres or SQLite.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const insertPostgres = `
INSERT INTO documents (filename, category, document_date, doctor_name, hospital_name, summary, content, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

const insertSQLite = `
INSERT INTO documents (filename, category, document_date, doctor_name, hospital_name, summary, content, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Insert stores a new document and returns the store-assigned id.
func (r *SQLRepo) Insert(ctx context.Context, doc Document) (int64, error) {
	if r.Dialect == db.DialectPostgres {
		var id int64
		err := r.DB.QueryRowContext(
			ctx,
			insertPostgres,
			doc.Filename,
			doc.Category,
			doc.DocumentDate,
			doc.DoctorName,
			doc.HospitalName,
			doc.Summary,
			doc.Content,
			doc.CreatedAt,
		).Scan(&id)
		return id, err
	}

	res, err := r.DB.ExecContext(
		ctx,
		insertSQLite,
		doc.Filename,
		doc.Category,
		doc.DocumentDate,
		doc.DoctorName,
		doc.HospitalName,
		doc.Summary,
		doc.Content,
		doc.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAll returns summary rows; "N/A" dates sort strictly after real dates,
// real dates descending.
func (r *SQLRepo) ListAll(ctx context.Context) ([]Document, error) {
	const query = `
SELECT id, filename, category, document_date, doctor_name, hospital_name, summary
FROM documents
ORDER BY
    CASE WHEN document_date = 'N/A' THEN 1 ELSE 0 END,
    document_date DESC,
    id DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.Category,
			&doc.DocumentDate,
			&doc.DoctorName,
			&doc.HospitalName,
			&doc.Summary,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// AllForSearch returns every record's search projection in store order.
func (r *SQLRepo) AllForSearch(ctx context.Context) ([]SearchRow, error) {
	const query = `SELECT filename, content, summary, category FROM documents`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SearchRow{}
	for rows.Next() {
		var row SearchRow
		if err := rows.Scan(&row.Filename, &row.Content, &row.Summary, &row.Category); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ Repo = (*SQLRepo)(nil)
