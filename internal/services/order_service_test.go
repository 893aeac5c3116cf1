package services_test

import (
	"testing"

	"garment_tracker/internal/models"
	"garment_tracker/internal/services"
	"garment_tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderSeedsLedger(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)

	order := f.createOrder(t, corte, "F-100", 75)
	assert.Equal(t, models.OrderActive, order.Status)
	assert.Equal(t, models.AreaCorte, order.CurrentArea)

	var rows []models.OrderPiece
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AreaCorte, rows[0].Area)
	assert.Equal(t, 75, rows[0].Pieces)

	history, err := f.orders.GetHistory(order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryCreated, history[0].Action)
}

func TestCreateOrderRestrictions(t *testing.T) {
	f := setup(t)
	_, bordado := testutil.CreateUser(t, f.db, "bordado1", models.AreaBordado)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)

	_, err := f.orders.Create(services.CreateOrderRequest{
		Folio: "F-101", ClienteHotel: "H", NoSolicitud: "S", Modelo: "M",
		TipoPrenda: "p", Color: "c", Tela: "t", TotalPiezas: 10,
	}, bordado)
	assert.True(t, services.IsAuthorization(err))

	_, err = f.orders.Create(services.CreateOrderRequest{
		Folio: "F-102", ClienteHotel: "H", NoSolicitud: "S", Modelo: "M",
		TipoPrenda: "p", Color: "c", Tela: "t", TotalPiezas: 0,
	}, corte)
	assert.True(t, services.IsValidation(err))
}

func TestCreateOrderDuplicateFolio(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)

	f.createOrder(t, corte, "F-103", 10)

	_, err := f.orders.Create(services.CreateOrderRequest{
		Folio: "F-103", ClienteHotel: "H", NoSolicitud: "S", Modelo: "M",
		TipoPrenda: "p", Color: "c", Tela: "t", TotalPiezas: 5,
	}, corte)
	assert.True(t, services.IsInvariantViolation(err))
}

func TestCompleteOrder(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, envios := testutil.CreateUser(t, f.db, "envios1", models.AreaEnvios)

	order := f.createOrder(t, corte, "F-104", 10)

	// Only envios may complete.
	err := f.orders.Complete(order.ID, corte)
	assert.True(t, services.IsAuthorization(err))

	require.NoError(t, f.orders.Complete(order.ID, envios))

	got, err := f.orders.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Completing twice is an error, not a no-op.
	err = f.orders.Complete(order.ID, envios)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)
}

func TestDeleteOrderCascades(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, admin := testutil.CreateUser(t, f.db, "admin1", models.AreaAdmin)

	order := f.createOrder(t, corte, "F-105", 20)
	_, err := f.transfers.Request(services.CreateTransferRequest{
		OrderID: order.ID, ToArea: models.AreaBordado, Pieces: 5,
	}, corte)
	require.NoError(t, err)

	err = f.orders.Delete(order.ID, corte)
	assert.True(t, services.IsAuthorization(err))

	require.NoError(t, f.orders.Delete(order.ID, admin))

	_, err = f.orders.Get(order.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	f.db.Model(&models.OrderPiece{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.Transfer{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.OrderHistory{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)
}
