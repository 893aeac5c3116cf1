package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RepositionPieceInput struct {
	Talla         string `json:"talla" binding:"required"`
	Cantidad      int    `json:"cantidad" binding:"required"`
	FolioOriginal string `json:"folio_original"`
}

type CreateRepositionRequest struct {
	Type              models.RepositionType  `json:"type" binding:"required"`
	SolicitanteNombre string                 `json:"solicitante_nombre" binding:"required"`
	NoSolicitud       string                 `json:"no_solicitud" binding:"required"`
	NoHoja            string                 `json:"no_hoja"`
	CausanteDano      string                 `json:"causante_dano" binding:"required"`
	DescripcionSuceso string                 `json:"descripcion_suceso" binding:"required"`
	ModeloPrenda      string                 `json:"modelo_prenda" binding:"required"`
	Tela              string                 `json:"tela" binding:"required"`
	Color             string                 `json:"color" binding:"required"`
	TipoPieza         string                 `json:"tipo_pieza" binding:"required"`
	Urgencia          models.Urgency         `json:"urgencia" binding:"required"`
	Observaciones     string                 `json:"observaciones"`
	Pieces            []RepositionPieceInput `json:"pieces"`
}

type CreateRepositionTransferRequest struct {
	ToArea models.Area `json:"to_area" binding:"required"`
	Notes  string      `json:"notes"`
}

// TrackingStep is one step of the derived tracking view.
type TrackingStep struct {
	Area   models.Area `json:"area"`
	Status string      `json:"status"` // completed, current, pending
}

type RepositionTracking struct {
	RepositionID uint                    `json:"reposition_id"`
	Folio        string                  `json:"folio"`
	CurrentArea  models.Area             `json:"current_area"`
	Status       models.RepositionStatus `json:"status"`
	Steps        []TrackingStep          `json:"steps"`
	Progress     float64                 `json:"progress"`
}

// RepositionService runs the reposition lifecycle and its transfer state
// machine: pendiente → aprobado/rechazado, any number of wholesale transfers
// while aprobado, then completado or eliminado (both absorbing).
type RepositionService interface {
	Create(req CreateRepositionRequest, actor Actor) (*models.Reposition, error)
	List(area models.Area, actor Actor, includeFinished bool) ([]models.Reposition, error)
	Get(id uint) (*models.Reposition, error)
	Approve(repositionID uint, action models.RepositionStatus, notes string, actor Actor) (*models.Reposition, error)
	RequestCompletion(repositionID uint, notes string, actor Actor) error
	Complete(repositionID uint, notes string, actor Actor) error
	Delete(repositionID uint, reason string, actor Actor) error
	RequestTransfer(repositionID uint, req CreateRepositionTransferRequest, actor Actor) (*models.RepositionTransfer, error)
	ProcessTransfer(transferID uint, action models.TransferStatus, actor Actor) (*models.RepositionTransfer, error)
	PendingTransfersForArea(area models.Area) ([]models.RepositionTransfer, error)
	GetHistory(repositionID uint) ([]models.RepositionHistory, error)
	GetTracking(repositionID uint) (*RepositionTracking, error)
}

type repositionService struct {
	db             *gorm.DB
	repositionRepo repository.RepositionRepository
	notifier       NotificationService
}

func NewRepositionService(db *gorm.DB, repositionRepo repository.RepositionRepository, notifier NotificationService) RepositionService {
	return &repositionService{db: db, repositionRepo: repositionRepo, notifier: notifier}
}

// nextFolio issues the next sequence number for the current month's folio
// prefix from a dedicated counter row, atomically within the enclosing
// transaction. Format: JN-REQ-{MM}-{YY}-{seq:03d}.
func nextFolio(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("JN-REQ-%02d-%02d-", int(now.Month()), now.Year()%100)

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.FolioCounter{Prefix: prefix}).Error; err != nil {
		return "", fmt.Errorf("failed to ensure folio counter: %w", err)
	}

	var counter models.FolioCounter
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ?", prefix).First(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to lock folio counter: %w", err)
	}

	counter.Counter++
	if err := tx.Model(&models.FolioCounter{}).Where("prefix = ?", prefix).
		Update("counter", counter.Counter).Error; err != nil {
		return "", fmt.Errorf("failed to advance folio counter: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, counter.Counter), nil
}

func (s *repositionService) Create(req CreateRepositionRequest, actor Actor) (*models.Reposition, error) {
	if !req.Type.IsValid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("tipo de reposición inválido: %s", req.Type)}
	}
	if !req.Urgencia.IsValid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("urgencia inválida: %s", req.Urgencia)}
	}
	for _, piece := range req.Pieces {
		if piece.Cantidad < 1 {
			return nil, &ValidationError{Msg: "la cantidad por talla debe ser al menos 1"}
		}
	}

	now := time.Now()
	reposition := &models.Reposition{
		Type:              req.Type,
		SolicitanteNombre: req.SolicitanteNombre,
		SolicitanteArea:   actor.Area,
		FechaSolicitud:    now,
		NoSolicitud:       req.NoSolicitud,
		NoHoja:            req.NoHoja,
		CausanteDano:      req.CausanteDano,
		DescripcionSuceso: req.DescripcionSuceso,
		ModeloPrenda:      req.ModeloPrenda,
		Tela:              req.Tela,
		Color:             req.Color,
		TipoPieza:         req.TipoPieza,
		Urgencia:          req.Urgencia,
		Observaciones:     req.Observaciones,
		CurrentArea:       actor.Area,
		Status:            models.RepositionPendiente,
		CreatedBy:         actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		folio, err := nextFolio(tx, now)
		if err != nil {
			return err
		}
		reposition.Folio = folio

		if err := tx.Create(reposition).Error; err != nil {
			return fmt.Errorf("failed to create reposition: %w", err)
		}

		for _, piece := range req.Pieces {
			if err := tx.Create(&models.RepositionPiece{
				RepositionID:  reposition.ID,
				Talla:         piece.Talla,
				Cantidad:      piece.Cantidad,
				FolioOriginal: piece.FolioOriginal,
			}).Error; err != nil {
				return fmt.Errorf("failed to create reposition piece: %w", err)
			}
		}

		return tx.Create(&models.RepositionHistory{
			RepositionID: reposition.ID,
			Action:       models.HistoryCreated,
			Description:  fmt.Sprintf("Reposición %s creada", reposition.Type),
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notifier.NotifyAreas(
			[]models.Area{models.AreaAdmin, models.AreaOperaciones}, actor.ID,
			models.NotifRepositionCreated,
			"Nueva solicitud de reposición",
			fmt.Sprintf("%s solicita %s (%s)", reposition.SolicitanteNombre, reposition.Type, reposition.Folio),
			Ref{RepositionID: &reposition.ID})
		s.notifier.Broadcast("reposition_created", map[string]interface{}{"reposition_id": reposition.ID})
	}()

	return reposition, nil
}

// List hides completed and deleted repositions from regular areas; admin and
// envios see everything when they ask for it.
func (s *repositionService) List(area models.Area, actor Actor, includeFinished bool) ([]models.Reposition, error) {
	if includeFinished && !actor.IsPrivileged() {
		includeFinished = false
	}
	if actor.IsAdmin() {
		area = ""
	}
	return s.repositionRepo.List(area, includeFinished)
}

func (s *repositionService) Get(id uint) (*models.Reposition, error) {
	reposition, err := s.repositionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reposition, nil
}

// Approve resolves a pending reposition to aprobado or rechazado.
func (s *repositionService) Approve(repositionID uint, action models.RepositionStatus, notes string, actor Actor) (*models.Reposition, error) {
	if action != models.RepositionAprobado && action != models.RepositionRechazado {
		return nil, &ValidationError{Msg: fmt.Sprintf("acción de aprobación inválida: %s", action)}
	}
	if !actor.CanApproveRepositions() {
		return nil, &AuthorizationError{Msg: "solo Operaciones, Administración o Envíos pueden aprobar o rechazar"}
	}

	var reposition models.Reposition
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reposition, repositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reposition.Status != models.RepositionPendiente {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		if err := tx.Model(&reposition).Updates(map[string]interface{}{
			"status":      action,
			"approved_by": actor.ID,
			"approved_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update reposition status: %w", err)
		}

		historyAction := models.HistoryApproved
		if action == models.RepositionRechazado {
			historyAction = models.HistoryRejected
		}
		description := fmt.Sprintf("Reposición %s", action)
		if notes != "" {
			description += ": " + notes
		}
		return tx.Create(&models.RepositionHistory{
			RepositionID: repositionID,
			Action:       historyAction,
			Description:  description,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		notifType := models.NotifRepositionApproved
		title := "Reposición aprobada"
		if action == models.RepositionRechazado {
			notifType = models.NotifRepositionRejected
			title = "Reposición rechazada"
		}
		s.notifier.Notify(reposition.CreatedBy, notifType, title,
			fmt.Sprintf("La reposición %s fue %s", reposition.Folio, action),
			Ref{RepositionID: &reposition.ID})
		s.notifier.Broadcast("reposition_updated", map[string]interface{}{"reposition_id": reposition.ID})
	}()

	return &reposition, nil
}

// RequestCompletion records that a non-privileged area considers the work
// done. The status does not change; approvers are notified.
func (s *repositionService) RequestCompletion(repositionID uint, notes string, actor Actor) error {
	var reposition models.Reposition
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reposition, repositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reposition.Status.IsTerminal() {
			return ErrAlreadyProcessed
		}
		if reposition.Status != models.RepositionAprobado {
			return &ValidationError{Msg: "solo una reposición aprobada puede solicitar finalización"}
		}

		description := "Finalización solicitada"
		if notes != "" {
			description += ": " + notes
		}
		return tx.Create(&models.RepositionHistory{
			RepositionID: repositionID,
			Action:       models.HistoryCompletionRequested,
			Description:  description,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	go func() {
		s.notifier.NotifyCompletionApprovers(models.NotifCompletionRequested,
			"Solicitud de finalización",
			fmt.Sprintf("Se solicita finalizar la reposición %s", reposition.Folio),
			Ref{RepositionID: &reposition.ID})
		s.notifier.Broadcast("reposition_updated", map[string]interface{}{"reposition_id": reposition.ID})
	}()

	return nil
}

// Complete closes an approved reposition. Privileged areas only; completado
// is absorbing.
func (s *repositionService) Complete(repositionID uint, notes string, actor Actor) error {
	if !actor.IsPrivileged() {
		return &AuthorizationError{Msg: "solo Administración o Envíos pueden finalizar la reposición"}
	}

	var reposition models.Reposition
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reposition, repositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reposition.Status.IsTerminal() {
			return ErrAlreadyProcessed
		}
		if reposition.Status != models.RepositionAprobado && reposition.Status != models.RepositionEnProceso {
			return &ValidationError{Msg: "solo una reposición aprobada puede finalizarse"}
		}

		now := time.Now()
		if err := tx.Model(&reposition).Updates(map[string]interface{}{
			"status":       models.RepositionCompletado,
			"approved_by":  actor.ID,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete reposition: %w", err)
		}

		description := "Reposición finalizada"
		if notes != "" {
			description += ": " + notes
		}
		return tx.Create(&models.RepositionHistory{
			RepositionID: repositionID,
			Action:       models.HistoryCompleted,
			Description:  description,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	go func() {
		s.notifier.Notify(reposition.CreatedBy, models.NotifRepositionCompleted,
			"Reposición completada",
			fmt.Sprintf("La reposición %s fue completada", reposition.Folio),
			Ref{RepositionID: &reposition.ID})
		s.notifier.Broadcast("reposition_updated", map[string]interface{}{"reposition_id": reposition.ID})
	}()

	return nil
}

// Delete soft-deletes a reposition with an audited reason. Irreversible; the
// deletion timestamp has its own column, separate from CompletedAt.
func (s *repositionService) Delete(repositionID uint, reason string, actor Actor) error {
	if !actor.IsPrivileged() {
		return &AuthorizationError{Msg: "solo Administración o Envíos pueden eliminar la reposición"}
	}
	reason = strings.TrimSpace(reason)
	if len(reason) < 10 {
		return &ValidationError{Msg: "el motivo de eliminación debe tener al menos 10 caracteres"}
	}

	var reposition models.Reposition
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reposition, repositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reposition.Status.IsTerminal() {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		if err := tx.Model(&reposition).Updates(map[string]interface{}{
			"status":     models.RepositionEliminado,
			"deleted_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to delete reposition: %w", err)
		}

		return tx.Create(&models.RepositionHistory{
			RepositionID: repositionID,
			Action:       models.HistoryDeleted,
			Description:  "Reposición eliminada: " + reason,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	go func() {
		if reposition.CreatedBy != actor.ID {
			s.notifier.Notify(reposition.CreatedBy, models.NotifRepositionDeleted,
				"Reposición eliminada",
				fmt.Sprintf("La reposición %s fue eliminada: %s", reposition.Folio, reason),
				Ref{RepositionID: &reposition.ID})
		}
		s.notifier.Broadcast("reposition_updated", map[string]interface{}{"reposition_id": reposition.ID})
	}()

	return nil
}

// RequestTransfer creates a pending wholesale transfer. Only a reposition in
// status aprobado can travel; pending, rejected, completed and deleted
// tickets cannot.
func (s *repositionService) RequestTransfer(repositionID uint, req CreateRepositionTransferRequest, actor Actor) (*models.RepositionTransfer, error) {
	if !req.ToArea.IsValid() || req.ToArea == models.AreaAdmin {
		return nil, &ValidationError{Msg: fmt.Sprintf("área destino inválida: %s", req.ToArea)}
	}
	if req.ToArea == actor.Area {
		return nil, &ValidationError{Msg: "el área destino no puede ser el área origen"}
	}

	transfer := &models.RepositionTransfer{
		RepositionID: repositionID,
		FromArea:     actor.Area,
		ToArea:       req.ToArea,
		Notes:        req.Notes,
		Status:       models.TransferPending,
		CreatedBy:    actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reposition models.Reposition
		if err := tx.First(&reposition, repositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reposition.Status != models.RepositionAprobado {
			return &ValidationError{Msg: fmt.Sprintf("solo una reposición aprobada puede transferirse (estado actual: %s)", reposition.Status)}
		}

		if err := tx.Create(transfer).Error; err != nil {
			return fmt.Errorf("failed to create reposition transfer: %w", err)
		}

		return tx.Create(&models.RepositionHistory{
			RepositionID: repositionID,
			Action:       models.HistoryTransferRequested,
			Description:  fmt.Sprintf("Transferencia solicitada de %s a %s", transfer.FromArea, transfer.ToArea),
			FromArea:     &transfer.FromArea,
			ToArea:       &transfer.ToArea,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notifier.NotifyAreas([]models.Area{transfer.ToArea}, actor.ID,
			models.NotifRepositionTransfer,
			"Transferencia de reposición pendiente",
			fmt.Sprintf("Reposición en camino de %s a %s", transfer.FromArea, transfer.ToArea),
			Ref{RepositionID: &repositionID})
		s.notifier.Broadcast("reposition_transfer_created", map[string]interface{}{"transfer_id": transfer.ID})
	}()

	return transfer, nil
}

// ProcessTransfer resolves a pending reposition transfer exactly once. An
// accepted transfer moves the whole ticket to the destination area; there is
// no quantity to reconcile.
func (s *repositionService) ProcessTransfer(transferID uint, action models.TransferStatus, actor Actor) (*models.RepositionTransfer, error) {
	if action != models.TransferAccepted && action != models.TransferRejected {
		return nil, &ValidationError{Msg: fmt.Sprintf("acción inválida: %s", action)}
	}

	var transfer models.RepositionTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if transfer.Status != models.TransferPending {
			return ErrAlreadyProcessed
		}
		if actor.Area != transfer.ToArea && !actor.IsAdmin() {
			return &AuthorizationError{Msg: "solo el área destino puede procesar la transferencia"}
		}

		var reposition models.Reposition
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reposition, transfer.RepositionID).Error; err != nil {
			return err
		}
		if reposition.Status.IsTerminal() {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		if err := tx.Model(&transfer).Updates(map[string]interface{}{
			"status":       action,
			"processed_by": actor.ID,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark reposition transfer: %w", err)
		}

		if action == models.TransferAccepted {
			if err := tx.Model(&reposition).Update("current_area", transfer.ToArea).Error; err != nil {
				return err
			}
		}

		historyAction := models.HistoryTransferAccepted
		if action == models.TransferRejected {
			historyAction = models.HistoryTransferRejected
		}
		return tx.Create(&models.RepositionHistory{
			RepositionID: transfer.RepositionID,
			Action:       historyAction,
			Description:  fmt.Sprintf("Transferencia %s de %s a %s", action, transfer.FromArea, transfer.ToArea),
			FromArea:     &transfer.FromArea,
			ToArea:       &transfer.ToArea,
			UserID:       actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		notifType := models.NotifTransferAccepted
		title := "Transferencia de reposición aceptada"
		if action == models.TransferRejected {
			notifType = models.NotifTransferRejected
			title = "Transferencia de reposición rechazada"
		}
		s.notifier.Notify(transfer.CreatedBy, notifType, title,
			fmt.Sprintf("Transferencia de %s a %s: %s", transfer.FromArea, transfer.ToArea, action),
			Ref{RepositionID: &transfer.RepositionID})
		s.notifier.Broadcast("reposition_updated", map[string]interface{}{"reposition_id": transfer.RepositionID})
	}()

	return &transfer, nil
}

func (s *repositionService) PendingTransfersForArea(area models.Area) ([]models.RepositionTransfer, error) {
	return s.repositionRepo.GetPendingTransfersForArea(area)
}

func (s *repositionService) GetHistory(repositionID uint) ([]models.RepositionHistory, error) {
	return s.repositionRepo.GetHistory(repositionID)
}

// GetTracking projects the reposition's history onto the fixed area sequence.
// A step is current when it matches CurrentArea, completed when some history
// entry arrived there, pending otherwise. Pure read; no state of its own.
func (s *repositionService) GetTracking(repositionID uint) (*RepositionTracking, error) {
	reposition, err := s.Get(repositionID)
	if err != nil {
		return nil, err
	}
	history, err := s.repositionRepo.GetHistory(repositionID)
	if err != nil {
		return nil, err
	}

	arrived := make(map[models.Area]bool)
	for _, entry := range history {
		if entry.ToArea != nil {
			arrived[*entry.ToArea] = true
		}
	}

	steps := make([]TrackingStep, 0, len(models.TrackingSequence))
	completed := 0
	hasCurrent := false
	for _, area := range models.TrackingSequence {
		status := "pending"
		switch {
		case area == reposition.CurrentArea:
			status = "current"
			hasCurrent = true
		case arrived[area]:
			status = "completed"
			completed++
		}
		steps = append(steps, TrackingStep{Area: area, Status: status})
	}

	progress := float64(completed)
	if hasCurrent {
		progress += 0.5
	}
	progress = progress / float64(len(models.TrackingSequence)) * 100

	return &RepositionTracking{
		RepositionID: reposition.ID,
		Folio:        reposition.Folio,
		CurrentArea:  reposition.CurrentArea,
		Status:       reposition.Status,
		Steps:        steps,
		Progress:     progress,
	}, nil
}
