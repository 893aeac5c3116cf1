package services_test

import (
	"sync"
	"testing"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"
	"garment_tracker/internal/services"
	"garment_tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	orders        services.OrderService
	transfers     services.TransferService
	repositions   services.RepositionService
	notifications services.NotificationService
}

func setup(t *testing.T) *fixture {
	db := testutil.SetupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	repositionRepo := repository.NewRepositionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := services.NewNotificationService(notificationRepo, userRepo, nil, nil, nil)

	return &fixture{
		db:            db,
		orders:        services.NewOrderService(db, orderRepo, notifier),
		transfers:     services.NewTransferService(db, transferRepo, notifier),
		repositions:   services.NewRepositionService(db, repositionRepo, notifier),
		notifications: notifier,
	}
}

func (f *fixture) createOrder(t *testing.T, actor services.Actor, folio string, pieces int) *models.Order {
	t.Helper()
	order, err := f.orders.Create(services.CreateOrderRequest{
		Folio:        folio,
		ClienteHotel: "Hotel Central",
		NoSolicitud:  "S-100",
		Modelo:       "M-01",
		TipoPrenda:   "camisa",
		Color:        "blanco",
		Tela:         "algodón",
		TotalPiezas:  pieces,
	}, actor)
	require.NoError(t, err)
	return order
}

func (f *fixture) ledgerSum(t *testing.T, orderID uint) int {
	t.Helper()
	var rows []models.OrderPiece
	require.NoError(t, f.db.Where("order_id = ?", orderID).Find(&rows).Error)
	sum := 0
	for _, row := range rows {
		sum += row.Pieces
	}
	return sum
}

func TestTransferAcceptMovesPieces(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-001", 100)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  40,
	}, corte)
	require.NoError(t, err)
	assert.Equal(t, models.TransferPending, transfer.Status)

	accepted, err := f.transfers.Accept(transfer.ID, bordado)
	require.NoError(t, err)
	assert.Equal(t, models.TransferAccepted, accepted.Status)
	require.NotNil(t, accepted.ProcessedBy)
	assert.Equal(t, bordado.ID, *accepted.ProcessedBy)

	var rows []models.OrderPiece
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Order("area").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 100, f.ledgerSum(t, order.ID))

	// Split order: CurrentArea stays at the last consolidated area.
	got, err := f.orders.Get(order.ID)
	require.NoError(t, err)
	assert.True(t, got.AreaSplit)
	assert.Equal(t, models.AreaCorte, got.CurrentArea)
}

func TestTransferConsolidationMovesCurrentArea(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-002", 50)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  50,
	}, corte)
	require.NoError(t, err)

	_, err = f.transfers.Accept(transfer.ID, bordado)
	require.NoError(t, err)

	// Source row is deleted, not zeroed.
	var rows []models.OrderPiece
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AreaBordado, rows[0].Area)
	assert.Equal(t, 50, rows[0].Pieces)

	got, err := f.orders.Get(order.ID)
	require.NoError(t, err)
	assert.False(t, got.AreaSplit)
	assert.Equal(t, models.AreaBordado, got.CurrentArea)
}

func TestTransferRejectLeavesLedgerUntouched(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-003", 80)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  30,
	}, corte)
	require.NoError(t, err)

	rejected, err := f.transfers.Reject(transfer.ID, bordado)
	require.NoError(t, err)
	assert.Equal(t, models.TransferRejected, rejected.Status)

	var rows []models.OrderPiece
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AreaCorte, rows[0].Area)
	assert.Equal(t, 80, rows[0].Pieces)
}

func TestTransferSingleResolution(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-004", 60)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  20,
	}, corte)
	require.NoError(t, err)

	_, err = f.transfers.Accept(transfer.ID, bordado)
	require.NoError(t, err)

	_, err = f.transfers.Accept(transfer.ID, bordado)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)

	_, err = f.transfers.Reject(transfer.ID, bordado)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)

	assert.Equal(t, 60, f.ledgerSum(t, order.ID))
}

func TestTransferRequestInsufficientBalance(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)

	order := f.createOrder(t, corte, "F-005", 10)

	_, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  11,
	}, corte)
	assert.True(t, services.IsInsufficientBalance(err))

	// Requesting from an area holding nothing fails the same way.
	_, plancha := testutil.CreateUser(t, f.db, "plancha1", models.AreaPlancha)
	_, err = f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaCalidad,
		Pieces:  1,
	}, plancha)
	assert.True(t, services.IsInsufficientBalance(err))
}

func TestTransferOnlyDestinationCanResolve(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, plancha := testutil.CreateUser(t, f.db, "plancha1", models.AreaPlancha)
	_, admin := testutil.CreateUser(t, f.db, "admin1", models.AreaAdmin)

	order := f.createOrder(t, corte, "F-006", 40)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID,
		ToArea:  models.AreaBordado,
		Pieces:  10,
	}, corte)
	require.NoError(t, err)

	_, err = f.transfers.Accept(transfer.ID, plancha)
	assert.True(t, services.IsAuthorization(err))

	// Admin may resolve on behalf of any area.
	_, err = f.transfers.Accept(transfer.ID, admin)
	assert.NoError(t, err)
}

func TestTransferRequestValidation(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)

	order := f.createOrder(t, corte, "F-007", 40)

	cases := []services.CreateTransferRequest{
		{OrderID: order.ID, ToArea: models.AreaBordado, Pieces: 0},
		{OrderID: order.ID, ToArea: models.AreaCorte, Pieces: 5},
		{OrderID: order.ID, ToArea: models.AreaAdmin, Pieces: 5},
		{OrderID: order.ID, ToArea: "lavanderia", Pieces: 5},
	}
	for _, req := range cases {
		_, err := f.transfers.Request(req, corte)
		assert.True(t, services.IsValidation(err), "expected validation error for %+v", req)
	}

	_, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID + 999, ToArea: models.AreaBordado, Pieces: 5,
	}, corte)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

// Two pending transfers of 60 pieces each against a balance of 100: exactly
// one accept succeeds regardless of interleaving.
func TestConcurrentAcceptsCannotOverdraw(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-008", 100)

	first, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID, ToArea: models.AreaBordado, Pieces: 60,
	}, corte)
	require.NoError(t, err)
	second, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID, ToArea: models.AreaBordado, Pieces: 60,
	}, corte)
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.transfers.Accept(first.ID, bordado)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.transfers.Accept(second.ID, bordado)
	}()
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case services.IsInsufficientBalance(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 100, f.ledgerSum(t, order.ID))
}

func TestPendingInboxForArea(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)

	order := f.createOrder(t, corte, "F-009", 30)

	transfer, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID, ToArea: models.AreaBordado, Pieces: 10,
	}, corte)
	require.NoError(t, err)

	pending, err := f.transfers.PendingForArea(models.AreaBordado)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, transfer.ID, pending[0].ID)

	_, err = f.transfers.Accept(transfer.ID, bordado)
	require.NoError(t, err)

	pending, err = f.transfers.PendingForArea(models.AreaBordado)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
