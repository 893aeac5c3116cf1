package services_test

import (
	"fmt"
	"testing"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/services"
	"garment_tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createReposition(t *testing.T, actor services.Actor) *models.Reposition {
	t.Helper()
	reposition, err := f.repositions.Create(services.CreateRepositionRequest{
		Type:              models.TypeRepocision,
		SolicitanteNombre: "Juan Pérez",
		NoSolicitud:       "S-200",
		CausanteDano:      "máquina",
		DescripcionSuceso: "rasgadura en costura lateral",
		ModeloPrenda:      "M-02",
		Tela:              "lino",
		Color:             "azul",
		TipoPieza:         "manga",
		Urgencia:          models.UrgencyUrgente,
		Pieces: []services.RepositionPieceInput{
			{Talla: "M", Cantidad: 2, FolioOriginal: "F-001"},
		},
	}, actor)
	require.NoError(t, err)
	return reposition
}

func TestRepositionFolioSequence(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)

	now := time.Now()
	prefix := fmt.Sprintf("JN-REQ-%02d-%02d-", int(now.Month()), now.Year()%100)

	first := f.createReposition(t, ensamble)
	second := f.createReposition(t, ensamble)

	assert.Equal(t, prefix+"001", first.Folio)
	assert.Equal(t, prefix+"002", second.Folio)
	assert.Equal(t, models.RepositionPendiente, first.Status)
	assert.Equal(t, models.AreaEnsamble, first.CurrentArea)
}

func TestRepositionApprovalGating(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, operaciones := testutil.CreateUser(t, f.db, "operaciones1", models.AreaOperaciones)

	reposition := f.createReposition(t, ensamble)

	// The requesting area cannot approve.
	_, err := f.repositions.Approve(reposition.ID, models.RepositionAprobado, "", ensamble)
	assert.True(t, services.IsAuthorization(err))

	approved, err := f.repositions.Approve(reposition.ID, models.RepositionAprobado, "ok", operaciones)
	require.NoError(t, err)
	assert.Equal(t, models.RepositionAprobado, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, operaciones.ID, *approved.ApprovedBy)

	// Single resolution.
	_, err = f.repositions.Approve(reposition.ID, models.RepositionRechazado, "", operaciones)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)
}

func TestRepositionTransferRequiresApproval(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, operaciones := testutil.CreateUser(t, f.db, "operaciones1", models.AreaOperaciones)
	_, plancha := testutil.CreateUser(t, f.db, "plancha1", models.AreaPlancha)

	reposition := f.createReposition(t, ensamble)

	_, err := f.repositions.RequestTransfer(reposition.ID, services.CreateRepositionTransferRequest{
		ToArea: models.AreaPlancha,
	}, ensamble)
	assert.True(t, services.IsValidation(err))

	_, err = f.repositions.Approve(reposition.ID, models.RepositionAprobado, "", operaciones)
	require.NoError(t, err)

	transfer, err := f.repositions.RequestTransfer(reposition.ID, services.CreateRepositionTransferRequest{
		ToArea: models.AreaPlancha,
	}, ensamble)
	require.NoError(t, err)

	processed, err := f.repositions.ProcessTransfer(transfer.ID, models.TransferAccepted, plancha)
	require.NoError(t, err)
	assert.Equal(t, models.TransferAccepted, processed.Status)

	got, err := f.repositions.Get(reposition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AreaPlancha, got.CurrentArea)

	// Already resolved.
	_, err = f.repositions.ProcessTransfer(transfer.ID, models.TransferRejected, plancha)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)
}

func TestRepositionRejectedTransferKeepsArea(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, operaciones := testutil.CreateUser(t, f.db, "operaciones1", models.AreaOperaciones)
	_, plancha := testutil.CreateUser(t, f.db, "plancha1", models.AreaPlancha)

	reposition := f.createReposition(t, ensamble)
	_, err := f.repositions.Approve(reposition.ID, models.RepositionAprobado, "", operaciones)
	require.NoError(t, err)

	transfer, err := f.repositions.RequestTransfer(reposition.ID, services.CreateRepositionTransferRequest{
		ToArea: models.AreaPlancha,
	}, ensamble)
	require.NoError(t, err)

	_, err = f.repositions.ProcessTransfer(transfer.ID, models.TransferRejected, plancha)
	require.NoError(t, err)

	got, err := f.repositions.Get(reposition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AreaEnsamble, got.CurrentArea)
}

func TestRepositionCompleteLifecycle(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, operaciones := testutil.CreateUser(t, f.db, "operaciones1", models.AreaOperaciones)
	_, envios := testutil.CreateUser(t, f.db, "envios1", models.AreaEnvios)

	reposition := f.createReposition(t, ensamble)

	// Pending repositions cannot be completed.
	err := f.repositions.Complete(reposition.ID, "", envios)
	assert.True(t, services.IsValidation(err))

	_, err = f.repositions.Approve(reposition.ID, models.RepositionAprobado, "", operaciones)
	require.NoError(t, err)

	// Non-privileged areas request completion instead.
	err = f.repositions.Complete(reposition.ID, "", ensamble)
	assert.True(t, services.IsAuthorization(err))
	require.NoError(t, f.repositions.RequestCompletion(reposition.ID, "listo", ensamble))

	require.NoError(t, f.repositions.Complete(reposition.ID, "", envios))

	got, err := f.repositions.Get(reposition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RepositionCompletado, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Completado is absorbing.
	err = f.repositions.Complete(reposition.ID, "", envios)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)
	err = f.repositions.Delete(reposition.ID, "motivo suficientemente largo", envios)
	assert.ErrorIs(t, err, services.ErrAlreadyProcessed)
}

func TestRepositionDeleteRequiresReason(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, admin := testutil.CreateUser(t, f.db, "admin1", models.AreaAdmin)

	reposition := f.createReposition(t, ensamble)

	err := f.repositions.Delete(reposition.ID, "corto", admin)
	assert.True(t, services.IsValidation(err))

	// Whitespace does not count toward the minimum.
	err = f.repositions.Delete(reposition.ID, "   abc    ", admin)
	assert.True(t, services.IsValidation(err))

	err = f.repositions.Delete(reposition.ID, "duplicado por error de captura", admin)
	require.NoError(t, err)

	got, err := f.repositions.Get(reposition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RepositionEliminado, got.Status)
	require.NotNil(t, got.DeletedAt)
	assert.Nil(t, got.CompletedAt)
}

func TestRepositionListHidesFinished(t *testing.T) {
	f := setup(t)
	_, ensamble := testutil.CreateUser(t, f.db, "ensamble1", models.AreaEnsamble)
	_, admin := testutil.CreateUser(t, f.db, "admin1", models.AreaAdmin)

	reposition := f.createReposition(t, ensamble)
	require.NoError(t, f.repositions.Delete(reposition.ID, "duplicado por error de captura", admin))

	visible, err := f.repositions.List(models.AreaEnsamble, ensamble, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// A regular area cannot opt into finished tickets.
	visible, err = f.repositions.List(models.AreaEnsamble, ensamble, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.repositions.List("", admin, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositionTracking(t *testing.T) {
	f := setup(t)
	_, corte := testutil.CreateUser(t, f.db, "corte1", models.AreaCorte)
	_, operaciones := testutil.CreateUser(t, f.db, "operaciones1", models.AreaOperaciones)
	_, plancha := testutil.CreateUser(t, f.db, "plancha1", models.AreaPlancha)

	reposition := f.createReposition(t, corte)
	_, err := f.repositions.Approve(reposition.ID, models.RepositionAprobado, "", operaciones)
	require.NoError(t, err)

	transfer, err := f.repositions.RequestTransfer(reposition.ID, services.CreateRepositionTransferRequest{
		ToArea: models.AreaPlancha,
	}, corte)
	require.NoError(t, err)
	_, err = f.repositions.ProcessTransfer(transfer.ID, models.TransferAccepted, plancha)
	require.NoError(t, err)

	tracking, err := f.repositions.GetTracking(reposition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AreaPlancha, tracking.CurrentArea)
	require.Len(t, tracking.Steps, len(models.TrackingSequence))

	byArea := make(map[models.Area]string)
	for _, step := range tracking.Steps {
		byArea[step.Area] = step.Status
	}
	assert.Equal(t, "current", byArea[models.AreaPlancha])
	assert.Equal(t, "pending", byArea[models.AreaCalidad])
	assert.Greater(t, tracking.Progress, 0.0)
	assert.Less(t, tracking.Progress, 100.0)
}
