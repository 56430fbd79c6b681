package apurement

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

// DefaultMaxAttempts intentos de la unidad completa ante CONFLICT.
const DefaultMaxAttempts = 3

// Service motor de apurement: ledger de asignaciones SA/EA, agregación y proyección de elegibles.
// Toda escritura pasa por Locker (por SA) + TxRunner (fila SA bloqueada) y se reintenta ante CONFLICT.
type Service struct {
	tx          TxRunner
	reads       Repos
	locker      Locker
	log         *logger.Logger
	maxAttempts int
	now         func() time.Time
}

// NewService construye el servicio. locker nil equivale a NoopLocker; log nil a logger.Nop().
func NewService(tx TxRunner, reads Repos, locker Locker, log *logger.Logger, maxAttempts int) *Service {
	if locker == nil {
		locker = NoopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Service{
		tx:          tx,
		reads:       reads,
		locker:      locker,
		log:         log.Named("apurement"),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// CreateAllocationInput entrada de una asignación: Quantity es la cantidad EA (lado exportación).
type CreateAllocationInput struct {
	SaID     string
	EaID     string
	Quantity decimal.Decimal
	UserID   string
}

// CreateAllocation registra una asignación SA/EA y recalcula la SA en la misma transacción.
// Devuelve NotFoundError (SA/EA), ValidationError (cantidad, coeficiente, cuota) o ErrConflict.
func (s *Service) CreateAllocation(ctx context.Context, in CreateAllocationInput) (*entity.Allocation, error) {
	var out *entity.Allocation
	err := s.Write(ctx, []string{SaLockKey(in.SaID), EaLockKey(in.EaID)}, func(r Repos) error {
		a, err := AllocateInTx(ctx, r, in, s.now())
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("sa_id", in.SaID).
			Str("ea_id", in.EaID).
			Str("quantity", in.Quantity.String()).
			Msg("asignación rechazada")
		return nil, err
	}
	s.log.Info().
		Str("allocation_id", out.ID).
		Str("sa_id", out.SaID).
		Str("ea_id", out.EaID).
		Str("ea_quantity", in.Quantity.String()).
		Str("consumed_on_sa", out.Quantity.String()).
		Msg("asignación registrada")
	return out, nil
}

// Write ejecuta fn bajo los bloqueos dados (SaLockKey / EaLockKey) y dentro de una transacción,
// reintentando la unidad completa (bloqueo + tx) ante domain.ErrConflict.
// Las claves se bloquean en orden para evitar interbloqueos entre escritores.
func (s *Service) Write(ctx context.Context, keys []string, fn func(r Repos) error) error {
	keys = lockKeys(keys)
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.writeOnce(ctx, keys, fn)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.log.Debug().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*20) * time.Millisecond):
		}
	}
	return err
}

// Now reloj del servicio (fijable en tests vía SetClock).
func (s *Service) Now() time.Time { return s.now() }

// SetClock reemplaza el reloj.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) writeOnce(ctx context.Context, keys []string, fn func(r Repos) error) error {
	unlock, err := s.locker.Lock(ctx, keys...)
	if err != nil {
		return err
	}
	defer unlock()
	return s.tx.Run(ctx, fn)
}

func lockKeys(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	keys := make([]string, 0, len(in))
	for _, k := range in {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AllocateInTx aplica las precondiciones en orden (la primera que falla gana), inserta la
// asignación con la cantidad consumida en la SA y ejecuta la agregación. Debe llamarse
// dentro de una transacción: la SA se lee con GetForUpdate.
func AllocateInTx(ctx context.Context, r Repos, in CreateAllocationInput, now time.Time) (*entity.Allocation, error) {
	sa, err := r.Sa.GetForUpdate(ctx, in.SaID)
	if err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, domain.NewNotFoundError("SA", in.SaID)
	}
	ea, err := r.Ea.GetByID(ctx, in.EaID)
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, domain.NewNotFoundError("EA", in.EaID)
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("la cantidad debe ser mayor que cero")
	}

	consumed, err := apurement.ConsumedOnSa(in.Quantity, apurement.ScrapRate(sa.Family))
	if err != nil {
		return nil, err
	}
	current, err := r.Allocations.SumBySa(ctx, sa.ID)
	if err != nil {
		return nil, err
	}
	if _, err := apurement.CheckQuota(current, consumed, sa.QuantityInitial); err != nil {
		return nil, err
	}

	a := &entity.Allocation{
		ID:        NewID(),
		SaID:      sa.ID,
		EaID:      ea.ID,
		Quantity:  consumed,
		CreatedBy: in.UserID,
		CreatedAt: now,
	}
	if err := r.Allocations.Create(ctx, a); err != nil {
		return nil, err
	}
	if err := aggregate(ctx, r, sa); err != nil {
		return nil, err
	}
	a.Sa = sa
	a.Ea = ea
	return a, nil
}

// Recalculate vuelve a derivar quantity_apured y status de la SA desde el ledger.
// Idempotente. Debe llamarse dentro de una transacción.
func Recalculate(ctx context.Context, r Repos, saID string) (*entity.SaDeclaration, error) {
	sa, err := r.Sa.GetForUpdate(ctx, saID)
	if err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, domain.NewNotFoundError("SA", saID)
	}
	if err := aggregate(ctx, r, sa); err != nil {
		return nil, err
	}
	return sa, nil
}

// aggregate es el único escritor de quantity_apured y status.
func aggregate(ctx context.Context, r Repos, sa *entity.SaDeclaration) error {
	sum, err := r.Allocations.SumBySa(ctx, sa.ID)
	if err != nil {
		return err
	}
	total := apurement.Round3(sum)
	status := apurement.DeriveStatus(total, sa.QuantityInitial)
	if err := r.SaApurement.UpdateApurement(ctx, sa.ID, total, status); err != nil {
		return err
	}
	sa.QuantityApured = total
	sa.Status = status
	return nil
}

// RecalculateSa ejecuta la agregación de una SA en su propia transacción.
func (s *Service) RecalculateSa(ctx context.Context, saID string) (*entity.SaDeclaration, error) {
	var out *entity.SaDeclaration
	err := s.Write(ctx, []string{SaLockKey(saID)}, func(r Repos) error {
		sa, err := Recalculate(ctx, r, saID)
		if err != nil {
			return err
		}
		out = sa
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("sa_id", saID).Str("quantity_apured", out.QuantityApured.String()).
		Str("status", out.Status).Msg("SA recalculada")
	return out, nil
}

// ListAllocationsForSa asignaciones de la SA en orden canónico (created_at asc), con la EA cargada.
func (s *Service) ListAllocationsForSa(ctx context.Context, saID string) ([]*entity.Allocation, error) {
	sa, err := s.reads.Sa.GetByID(ctx, saID)
	if err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, domain.NewNotFoundError("SA", saID)
	}
	return s.reads.Allocations.ListBySa(ctx, saID)
}

// EaAllocation asignación vista desde la EA, con la merma implicada (solo visualización).
type EaAllocation struct {
	*entity.Allocation
	ScrapQuantity decimal.Decimal
	// FamilyMismatch la familia copiada en la EA difiere de la familia de la SA.
	FamilyMismatch bool
}

// ListAllocationsForEa asignaciones de la EA en orden canónico, con la SA y su familia cargadas.
func (s *Service) ListAllocationsForEa(ctx context.Context, eaID string) ([]EaAllocation, error) {
	ea, err := s.reads.Ea.GetByID(ctx, eaID)
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, domain.NewNotFoundError("EA", eaID)
	}
	list, err := s.reads.Allocations.ListByEa(ctx, eaID)
	if err != nil {
		return nil, err
	}
	out := make([]EaAllocation, 0, len(list))
	for _, a := range list {
		out = append(out, ToEaAllocation(ea, a))
	}
	return out, nil
}

// ToEaAllocation calcula la merma de visualización a partir de la cantidad del ledger (lado SA):
// quantity * t con t de la familia de la SA, es decir eaQty * t / (1 - t).
func ToEaAllocation(ea *entity.EaDeclaration, a *entity.Allocation) EaAllocation {
	view := EaAllocation{Allocation: a, ScrapQuantity: decimal.Zero}
	if a.Sa == nil {
		return view
	}
	view.ScrapQuantity = apurement.ScrapOfConsumed(a.Quantity, apurement.ScrapRate(a.Sa.Family))
	if ea != nil && ea.FamilyID != "" && a.Sa.FamilyID != "" && ea.FamilyID != a.Sa.FamilyID {
		view.FamilyMismatch = true
	}
	return view
}

// HasAllocationsForEa indica si alguna asignación referencia la EA.
func (s *Service) HasAllocationsForEa(ctx context.Context, eaID string) (bool, error) {
	n, err := s.reads.Allocations.CountByEa(ctx, eaID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasAllocationsForSa indica si alguna asignación referencia la SA.
func (s *Service) HasAllocationsForSa(ctx context.Context, saID string) (bool, error) {
	n, err := s.reads.Allocations.CountBySa(ctx, saID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EligibleSa proyección de cuota restante de una SA.
type EligibleSa struct {
	Sa              *entity.SaDeclaration
	SaRemaining     decimal.Decimal
	EaRemaining     decimal.Decimal
	CoefficientUsed decimal.Decimal
}

// EligibleSas lista las SA OPEN o PARTIALLY_APURED por fecha de vencimiento asc con su remanente.
// familyID vacío = todas las familias. La cantidad EA es indicativa (coeficiente 1 + t).
func (s *Service) EligibleSas(ctx context.Context, familyID string) ([]EligibleSa, error) {
	list, err := s.reads.Sa.ListEligible(ctx,
		[]string{entity.SaStatusOpen, entity.SaStatusPartiallyApured}, familyID)
	if err != nil {
		return nil, err
	}
	out := make([]EligibleSa, 0, len(list))
	for _, sa := range list {
		t := apurement.ScrapRate(sa.Family)
		saRemaining := apurement.Remaining(sa.QuantityInitial, sa.QuantityApured)
		out = append(out, EligibleSa{
			Sa:              sa,
			SaRemaining:     saRemaining,
			EaRemaining:     apurement.EaRemaining(saRemaining, t),
			CoefficientUsed: apurement.EligibilityCoef(t),
		})
	}
	return out, nil
}

// NewID genera un UUIDv7 (ordenado por tiempo de creación).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
