package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mlipski/salesledger/internal/importer"
	"github.com/mlipski/salesledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBatch(ctx context.Context, filename string) (*importer.Batch, error) {
	batch := &importer.Batch{
		Filename: filename,
		Status:   importer.BatchPending,
	}

	const query = `
		INSERT INTO import_batches (filename, status, created_at)
		VALUES ($1, $2, NOW())
		RETURNING batch_id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, filename, string(batch.Status)).
		Scan(&batch.ID, &batch.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating import batch: %w", err)
	}

	return batch, nil
}

func (s *Store) UpdateBatch(ctx context.Context, id uuid.UUID, upd importer.BatchUpdate) error {
	sets := []string{"status = $1", "updated_at = NOW()"}
	args := []any{string(upd.Status)}
	argIdx := 2

	if upd.TotalRows != nil {
		sets = append(sets, fmt.Sprintf("total_rows = $%d", argIdx))

		args = append(args, *upd.TotalRows)
		argIdx++
	}

	if upd.ProcessedRows != nil {
		sets = append(sets, fmt.Sprintf("processed_rows = $%d", argIdx))

		args = append(args, *upd.ProcessedRows)
		argIdx++
	}

	if upd.ErrorRows != nil {
		sets = append(sets, fmt.Sprintf("error_rows = $%d", argIdx))

		args = append(args, *upd.ErrorRows)
		argIdx++
	}

	if upd.ErrorDetail != nil {
		sets = append(sets, fmt.Sprintf("error_details = $%d", argIdx))

		args = append(args, *upd.ErrorDetail)
		argIdx++
	}

	query := fmt.Sprintf("UPDATE import_batches SET %s WHERE batch_id = $%d",
		strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating import batch: %w", err)
	}

	return nil
}

// ExistingTransactionIDs runs one batched lookup for the given ids and
// returns the subset already present.
func (s *Store) ExistingTransactionIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]struct{}{}, nil
	}

	query := `SELECT transaction_id FROM transactions WHERE transaction_id IN (` +
		placeholders(1, len(ids)) + `)`

	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("checking existing transactions: %w", err)
	}
	defer rows.Close()

	existing := make(map[uuid.UUID]struct{})

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning transaction id: %w", err)
		}

		existing[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction ids: %w", err)
	}

	return existing, nil
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens the storage transaction that entity resolution and the
// bulk insert share, so the insert is all-or-nothing.
func (s *Store) BeginImport(ctx context.Context) (importer.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) ResolveCustomers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]transaction.Customer, error) {
	resolved := make(map[uuid.UUID]transaction.Customer, len(ids))

	err := resolveEntities(ctx, itx.tx, "customers", "customer_id", ids,
		func(id uuid.UUID, createdAt sql.NullTime) {
			resolved[id] = transaction.Customer{ID: id, CreatedAt: createdAt.Time}
		})
	if err != nil {
		return nil, fmt.Errorf("resolving customers: %w", err)
	}

	return resolved, nil
}

func (itx *importTx) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]transaction.Product, error) {
	resolved := make(map[uuid.UUID]transaction.Product, len(ids))

	err := resolveEntities(ctx, itx.tx, "products", "product_id", ids,
		func(id uuid.UUID, createdAt sql.NullTime) {
			resolved[id] = transaction.Product{ID: id, CreatedAt: createdAt.Time}
		})
	if err != nil {
		return nil, fmt.Errorf("resolving products: %w", err)
	}

	return resolved, nil
}

// resolveEntities bulk get-or-creates rows of one entity table: a single
// insert for the whole id set with ON CONFLICT DO NOTHING (which absorbs
// concurrent creation of the same id), then a single select to read back
// every resolved row.
func resolveEntities(ctx context.Context, tx *sql.Tx, table, idCol string, ids []uuid.UUID, collect func(uuid.UUID, sql.NullTime)) error {
	if len(ids) == 0 {
		return nil
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING",
		table, idCol, valueRows(len(ids), 1), idCol)
	if _, err := tx.ExecContext(ctx, insert, idArgs(ids)...); err != nil {
		return fmt.Errorf("bulk inserting %s: %w", table, err)
	}

	query := fmt.Sprintf("SELECT %s, created_at FROM %s WHERE %s IN (%s)",
		idCol, table, idCol, placeholders(1, len(ids)))

	rows, err := tx.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return fmt.Errorf("selecting %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			createdAt sql.NullTime
		)

		if err := rows.Scan(&id, &createdAt); err != nil {
			return fmt.Errorf("scanning %s row: %w", table, err)
		}

		collect(id, createdAt)
	}

	return rows.Err()
}

// InsertTransactions writes all rows in a single multi-row INSERT. Any
// constraint violation fails the statement as a whole, which the caller
// surfaces as a batch-level failure.
func (itx *importTx) InsertTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	const cols = 7

	values := make([]string, len(txs))
	args := make([]any, 0, len(txs)*cols)

	for i, tx := range txs {
		base := i*cols + 1
		values[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW())",
			base, base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args,
			tx.ID, tx.Timestamp, tx.Amount, string(tx.Currency),
			tx.Quantity, tx.CustomerID, tx.ProductID,
		)
	}

	query := `
		INSERT INTO transactions (transaction_id, timestamp, amount, currency, quantity, customer_id, product_id, created_at)
		VALUES ` + strings.Join(values, ", ")

	if _, err := itx.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk inserting transactions: %w", err)
	}

	return nil
}

// placeholders renders "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}

	return strings.Join(parts, ", ")
}

// valueRows renders "($1), ($2), ..." for n single-column value tuples.
func valueRows(n, start int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("($%d)", start+i)
	}

	return strings.Join(parts, ", ")
}

func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return args
}
