package importer_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mlipski/salesledger/internal/importer"
)

const csvHeader = "transaction_id,timestamp,amount,currency,customer_id,product_id,quantity"

var (
	txID1      = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	txID2      = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	customerID = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	productID1 = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	productID2 = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

func csvRow(txID uuid.UUID, amount, cur string, productID uuid.UUID, qty int) string {
	return fmt.Sprintf("%s,2024-03-01T10:00:00Z,%s,%s,%s,%s,%d",
		txID, amount, cur, customerID, productID, qty)
}

func newBatch() *importer.Batch {
	return &importer.Batch{ID: uuid.New(), Status: importer.BatchPending}
}

// expectBatchLifecycle wires CreateBatch and records every status an
// UpdateBatch call moves the batch through.
func expectBatchLifecycle(repo *importer.MockRepository, batch *importer.Batch, statuses *[]importer.BatchStatus) {
	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(batch, nil)
	repo.EXPECT().
		UpdateBatch(gomock.Any(), batch.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, upd importer.BatchUpdate) error {
			*statuses = append(*statuses, upd.Status)
			return nil
		}).
		AnyTimes()
}

func TestService_Import_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	itx := importer.NewMockImportTx(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	file := strings.Join([]string{
		csvHeader,
		csvRow(txID1, "100.00", "PLN", productID1, 1),
		csvRow(txID2, "10.00", "EUR", productID2, 3),
	}, "\n")

	repo.EXPECT().
		ExistingTransactionIDs(gomock.Any(), []uuid.UUID{txID1, txID2}).
		Return(map[uuid.UUID]struct{}{}, nil)
	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)

	itx.EXPECT().ResolveCustomers(gomock.Any(), []uuid.UUID{customerID}).Return(nil, nil)
	itx.EXPECT().ResolveProducts(gomock.Any(), []uuid.UUID{productID1, productID2}).Return(nil, nil)
	itx.EXPECT().InsertTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []importer.BatchStatus{importer.BatchProcessing, importer.BatchCompleted}, statuses)
}

func TestService_Import_InvalidRowsDoNotBlockValidOnes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	itx := importer.NewMockImportTx(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	file := strings.Join([]string{
		csvHeader,
		csvRow(txID1, "100.00", "PLN", productID1, 1),
		csvRow(txID2, "0.00", "PLN", productID1, 1), // amount at the rejected boundary
	}, "\n")

	repo.EXPECT().
		ExistingTransactionIDs(gomock.Any(), []uuid.UUID{txID1}).
		Return(map[uuid.UUID]struct{}{}, nil)
	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)

	itx.EXPECT().ResolveCustomers(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().ResolveProducts(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().InsertTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "amount", result.Errors[0].Field)
	assert.NotNil(t, result.Errors[0].Raw)
}

func TestService_Import_DuplicateReportedAndSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	itx := importer.NewMockImportTx(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	file := strings.Join([]string{
		csvHeader,
		csvRow(txID1, "100.00", "PLN", productID1, 1),
		csvRow(txID2, "50.00", "USD", productID2, 2),
	}, "\n")

	repo.EXPECT().
		ExistingTransactionIDs(gomock.Any(), []uuid.UUID{txID1, txID2}).
		Return(map[uuid.UUID]struct{}{txID1: {}}, nil)
	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)

	itx.EXPECT().ResolveCustomers(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().ResolveProducts(gomock.Any(), []uuid.UUID{productID2}).Return(nil, nil)
	itx.EXPECT().InsertTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "transaction_id", result.Errors[0].Field)
	assert.Contains(t, result.Errors[0].Message, txID1.String())
}

func TestService_Import_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	// Data rows below the broken header would be valid, but must not be
	// processed.
	file := "transaction_id,amount\n" + txID1.String() + ",100.00\n"

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "broken.csv")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "currency")
	// Header failure is terminal.
	assert.Equal(t, []importer.BatchStatus{importer.BatchCompleted}, statuses)
}

func TestService_Import_EmptyFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(""), "empty.csv")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ProcessedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
}

func TestService_Import_BulkInsertFailureFailsWholeBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	itx := importer.NewMockImportTx(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	file := strings.Join([]string{
		csvHeader,
		csvRow(txID1, "100.00", "PLN", productID1, 1),
		csvRow(txID2, "50.00", "USD", productID2, 2),
	}, "\n")

	repo.EXPECT().
		ExistingTransactionIDs(gomock.Any(), gomock.Any()).
		Return(map[uuid.UUID]struct{}{}, nil)
	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)

	itx.EXPECT().ResolveCustomers(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().ResolveProducts(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().InsertTransactions(gomock.Any(), gomock.Len(2)).Return(errors.New("unique constraint violated"))
	itx.EXPECT().Rollback().Return(nil)

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "sales.csv")

	// A bulk insert failure is a batch-level error, not a partial success.
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, []importer.BatchStatus{importer.BatchProcessing, importer.BatchFailed}, statuses)
}

func TestService_Import_AllRowsDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := importer.NewMockRepository(ctrl)
	batch := newBatch()

	var statuses []importer.BatchStatus

	expectBatchLifecycle(repo, batch, &statuses)

	file := strings.Join([]string{
		csvHeader,
		csvRow(txID1, "100.00", "PLN", productID1, 1),
	}, "\n")

	repo.EXPECT().
		ExistingTransactionIDs(gomock.Any(), gomock.Any()).
		Return(map[uuid.UUID]struct{}{txID1: {}}, nil)
	// No BeginImport: nothing survives, nothing to insert.

	svc := importer.NewService(repo)
	result, err := svc.Import(context.Background(), strings.NewReader(file), "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, []importer.BatchStatus{importer.BatchProcessing, importer.BatchCompleted}, statuses)
}
