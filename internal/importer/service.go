package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlipski/salesledger/internal/importer/csvfile"
	"github.com/mlipski/salesledger/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=importer
type Repository interface {
	CreateBatch(ctx context.Context, filename string) (*Batch, error)
	UpdateBatch(ctx context.Context, id uuid.UUID, upd BatchUpdate) error

	// ExistingTransactionIDs returns the subset of ids already present in
	// the store, as a single batched lookup.
	ExistingTransactionIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx is the storage transaction that spans entity resolution and the
// final bulk insert, so that either all surviving rows commit or none do.
type ImportTx interface {
	// ResolveCustomers ensures a customer row exists for every id and
	// returns the resolved set. Concurrent creation of the same id is
	// treated as already-present, never as a failure.
	ResolveCustomers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]transaction.Customer, error)
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]transaction.Product, error)
	InsertTransactions(ctx context.Context, txs []*transaction.Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// pendingRow is a validated, non-duplicate candidate awaiting insertion.
type pendingRow struct {
	num int
	raw map[string]string
	row csvfile.ValidRow
}

// Import runs the full ingestion pipeline over one uploaded file.
//
// Rows rejected at validation or duplicate-check time are reported in the
// result but never block rows that passed. A failure during the final bulk
// insert invalidates the entire batch (nothing is persisted) and is
// returned as an error, distinct from the row-level errors in the result.
func (s *Service) Import(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	batch, err := s.repo.CreateBatch(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("create import batch: %w", err)
	}

	reader, err := csvfile.NewReader(r)
	if err != nil {
		var headerErr *csvfile.HeaderError
		if errors.As(err, &headerErr) {
			return s.finishHeaderFailure(ctx, batch, headerErr)
		}

		s.markFailed(ctx, batch, err)

		return nil, fmt.Errorf("read upload: %w", err)
	}

	survivors, rowErrors, rejectedRows, totalRows, err := s.collectRows(reader)
	if err != nil {
		s.markFailed(ctx, batch, err)
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if err := s.advance(ctx, batch, BatchUpdate{
		Status:    BatchProcessing,
		TotalRows: &totalRows,
	}); err != nil {
		return nil, err
	}

	survivors, dupErrors, err := s.rejectDuplicates(ctx, survivors)
	if err != nil {
		s.markFailed(ctx, batch, err)
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	rowErrors = append(rowErrors, dupErrors...)
	rejectedRows += len(dupErrors)

	if len(survivors) > 0 {
		if err := s.insertAll(ctx, survivors); err != nil {
			s.markFailed(ctx, batch, err)
			return nil, fmt.Errorf("bulk insert: %w", err)
		}
	}

	result := &Result{
		ProcessedCount: len(survivors),
		ErrorCount:     rejectedRows,
		Errors:         rowErrors,
	}

	s.finishCompleted(ctx, batch, result, totalRows)

	return result, nil
}

// collectRows makes the single forward pass over the file, validating each
// row. A row failing several field checks yields one error entry per field
// but counts as a single rejected row.
func (s *Service) collectRows(reader *csvfile.Reader) (survivors []pendingRow, rowErrors []RowError, rejectedRows, totalRows int, err error) {
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, nil, 0, 0, err
		}

		totalRows++

		valid, fieldErrs := csvfile.ValidateRow(row.Fields)
		if len(fieldErrs) > 0 {
			rejectedRows++

			for _, fe := range fieldErrs {
				rowErrors = append(rowErrors, RowError{
					Row:     row.Number,
					Field:   fe.Field,
					Message: fe.Message,
					Raw:     row.Fields,
				})
			}

			continue
		}

		survivors = append(survivors, pendingRow{num: row.Number, raw: row.Fields, row: valid})
	}

	return survivors, rowErrors, rejectedRows, totalRows, nil
}

// rejectDuplicates drops candidates whose transaction id already exists in
// the store, reporting each one individually.
func (s *Service) rejectDuplicates(ctx context.Context, candidates []pendingRow) ([]pendingRow, []RowError, error) {
	if len(candidates) == 0 {
		return candidates, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.row.TransactionID)
	}

	existing, err := s.repo.ExistingTransactionIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	var (
		kept    []pendingRow
		dupErrs []RowError
	)

	for _, c := range candidates {
		if _, isDup := existing[c.row.TransactionID]; isDup {
			dupErrs = append(dupErrs, RowError{
				Row:     c.num,
				Field:   csvfile.ColTransactionID,
				Message: fmt.Sprintf("transaction %s already exists", c.row.TransactionID),
				Raw:     c.raw,
			})

			continue
		}

		kept = append(kept, c)
	}

	return kept, dupErrs, nil
}

// insertAll resolves referenced customers and products in bulk and inserts
// every surviving row within one storage transaction.
func (s *Service) insertAll(ctx context.Context, survivors []pendingRow) error {
	customerIDs := uniqueIDs(survivors, func(p pendingRow) uuid.UUID { return p.row.CustomerID })
	productIDs := uniqueIDs(survivors, func(p pendingRow) uuid.UUID { return p.row.ProductID })

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if _, err := itx.ResolveCustomers(ctx, customerIDs); err != nil {
		return fmt.Errorf("resolve customers: %w", err)
	}

	if _, err := itx.ResolveProducts(ctx, productIDs); err != nil {
		return fmt.Errorf("resolve products: %w", err)
	}

	txs := make([]*transaction.Transaction, len(survivors))
	for i, c := range survivors {
		txs[i] = &transaction.Transaction{
			ID:         c.row.TransactionID,
			Timestamp:  c.row.Timestamp,
			Amount:     c.row.Amount,
			Currency:   c.row.Currency,
			Quantity:   c.row.Quantity,
			CustomerID: c.row.CustomerID,
			ProductID:  c.row.ProductID,
		}
	}

	if err := itx.InsertTransactions(ctx, txs); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	return nil
}

func uniqueIDs(rows []pendingRow, key func(pendingRow) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(rows))

	var ids []uuid.UUID

	for _, r := range rows {
		id := key(r)
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}

		ids = append(ids, id)
	}

	return ids
}

// finishHeaderFailure terminates a batch whose file never produced a data
// row: the header error is the sole error entry, attributed to row 0.
func (s *Service) finishHeaderFailure(ctx context.Context, batch *Batch, headerErr *csvfile.HeaderError) (*Result, error) {
	result := &Result{
		ErrorCount: 1,
		Errors:     []RowError{{Row: 0, Message: headerErr.Error()}},
	}

	s.finishCompleted(ctx, batch, result, 0)

	return result, nil
}

// finishCompleted records the terminal completed state. Bookkeeping is
// write-only, so a failure here is logged rather than surfaced: the data
// itself is already committed.
func (s *Service) finishCompleted(ctx context.Context, batch *Batch, result *Result, total int) {
	detail := ""

	if len(result.Errors) > 0 {
		raw, err := json.Marshal(result.Errors)
		if err == nil {
			detail = string(raw)
		}
	}

	err := s.advance(ctx, batch, BatchUpdate{
		Status:        BatchCompleted,
		TotalRows:     &total,
		ProcessedRows: &result.ProcessedCount,
		ErrorRows:     &result.ErrorCount,
		ErrorDetail:   &detail,
	})
	if err != nil {
		slog.Warn("failed to finalize import batch", "batch_id", batch.ID, "error", err)
	}
}

func (s *Service) markFailed(ctx context.Context, batch *Batch, cause error) {
	detail := cause.Error()

	err := s.advance(ctx, batch, BatchUpdate{
		Status:      BatchFailed,
		ErrorDetail: &detail,
	})
	if err != nil {
		slog.Warn("failed to mark import batch failed", "batch_id", batch.ID, "error", err)
	}
}

// advance moves the batch to the next status, enforcing that transitions
// only ever go forward.
func (s *Service) advance(ctx context.Context, batch *Batch, upd BatchUpdate) error {
	if !batch.Status.CanTransition(upd.Status) {
		return fmt.Errorf("invalid batch transition %s -> %s", batch.Status, upd.Status)
	}

	if err := s.repo.UpdateBatch(ctx, batch.ID, upd); err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}

	batch.Status = upd.Status

	return nil
}
