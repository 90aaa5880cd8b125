package service

import (
	"context"
	"fmt"
	"time"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoService appends entries to the cash ledger and computes derived
// balances. The target session is passed in explicitly by the caller, who
// obtained it once from CajaService — movements always belong to a visible,
// already-resolved open session, not a hidden re-query.
type MovimientoService interface {
	Registrar(ctx context.Context, sesion *model.SesionCaja, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	// Revertir creates a new REVERSO entry that compensates the original;
	// the original is never edited or removed. This is the only sanctioned
	// way to undo a movement.
	Revertir(ctx context.Context, movimientoID uuid.UUID, motivo string) (*dto.MovimientoResponse, error)
	Resumen(ctx context.Context, sesionID uuid.UUID) (*dto.ResumenSesionResponse, error)
	Listar(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoResponse, error)
}

type movimientoService struct {
	repo     repository.CajaRepository
	catalogo CatalogoService
}

func NewMovimientoService(repo repository.CajaRepository, catalogo CatalogoService) MovimientoService {
	return &movimientoService{repo: repo, catalogo: catalogo}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *movimientoService) Registrar(ctx context.Context, sesion *model.SesionCaja, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	if sesion == nil {
		return nil, apierror.Conflictf("no hay sesion de caja abierta")
	}
	if sesion.Estado != model.EstadoAbierta {
		return nil, apierror.Conflictf("la sesion de caja ya esta cerrada")
	}

	tipo, err := model.ParseTipoMovimiento(req.Tipo)
	if err != nil {
		return nil, err
	}
	metodo, err := model.ParseMetodoPago(req.MetodoPago)
	if err != nil {
		return nil, err
	}
	monto, err := montoFirmado(tipo, req.Monto, req.Signo)
	if err != nil {
		return nil, err
	}

	mov := &model.Movimiento{
		SesionCajaID: sesion.ID,
		Tipo:         tipo,
		MetodoPago:   metodo,
		Monto:        monto,
		Referencia:   req.Referencia,
		CreatedAt:    time.Now().UTC(),
	}
	s.resolverIDs(ctx, mov)

	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, apierror.Serverf("no se pudo registrar el movimiento").Wrap(err)
	}
	return movimientoToResponse(mov), nil
}

// montoFirmado determines the signed amount from the type:
//
//	EGRESO  → always −|monto|
//	INGRESO → always +|monto|
//	AJUSTE / REVERSO → explicit signo when present, else the sign of the
//	raw supplied monto (legacy rule, see the Deprecated note on the field).
func montoFirmado(tipo model.TipoMovimiento, monto decimal.Decimal, signo *int) (decimal.Decimal, error) {
	if monto.IsZero() {
		return decimal.Zero, apierror.Validationf("el monto no puede ser cero")
	}
	abs := monto.Abs()
	switch tipo {
	case model.TipoIngreso:
		return abs, nil
	case model.TipoEgreso:
		return abs.Neg(), nil
	default: // AJUSTE, REVERSO
		if signo != nil {
			if *signo < 0 {
				return abs.Neg(), nil
			}
			return abs, nil
		}
		return monto, nil
	}
}

// resolverIDs attaches the numeric catalog ids. Best effort: a missing
// mapping never blocks the append.
func (s *movimientoService) resolverIDs(ctx context.Context, m *model.Movimiento) {
	catalogo := s.catalogo.Resolver(ctx)
	if id, ok := catalogo.TiposMovimiento[string(m.Tipo)]; ok {
		m.TipoMovimientoID = &id
	}
	if id, ok := catalogo.MetodosPago[string(m.MetodoPago)]; ok {
		m.MetodoPagoID = &id
	}
}

// ── Revertir ──────────────────────────────────────────────────────────────────

func (s *movimientoService) Revertir(ctx context.Context, movimientoID uuid.UUID, motivo string) (*dto.MovimientoResponse, error) {
	original, err := s.repo.FindMovimientoByID(ctx, movimientoID)
	if err != nil {
		return nil, apierror.NotFoundf("movimiento no encontrado")
	}

	originalID := original.ID
	reverso := &model.Movimiento{
		SesionCajaID: original.SesionCajaID,
		Tipo:         model.TipoReverso,
		MetodoPago:   original.MetodoPago,
		Monto:        original.Monto.Neg(),
		Referencia:   fmt.Sprintf("reverso: %s", motivo),
		ReversoDe:    &originalID,
		CreatedAt:    time.Now().UTC(),
	}
	s.resolverIDs(ctx, reverso)

	if err := s.repo.CreateMovimiento(ctx, reverso); err != nil {
		return nil, apierror.Serverf("no se pudo registrar el reverso").Wrap(err)
	}
	return movimientoToResponse(reverso), nil
}

// ── Resumen ───────────────────────────────────────────────────────────────────
// Client-side analytics over the session's entries, supplementary to the
// balances reported with the open session itself.

func (s *movimientoService) Resumen(ctx context.Context, sesionID uuid.UUID) (*dto.ResumenSesionResponse, error) {
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, apierror.Serverf("no se pudieron leer los movimientos").Wrap(err)
	}

	saldoEfectivo := decimal.Zero
	electronico := decimal.Zero
	porMetodo := make(map[string]dto.MetodoResumen, len(model.MetodosPago))
	for _, m := range model.MetodosPago {
		porMetodo[string(m)] = dto.MetodoResumen{
			Ingresos: decimal.Zero, Egresos: decimal.Zero, Neto: decimal.Zero,
		}
	}

	for _, m := range movs {
		if m.MetodoPago == model.MetodoEfectivo {
			saldoEfectivo = saldoEfectivo.Add(m.Monto)
		} else {
			electronico = electronico.Add(m.Monto)
		}

		entry := porMetodo[string(m.MetodoPago)]
		if m.Monto.IsNegative() {
			entry.Egresos = entry.Egresos.Add(m.Monto.Abs())
		} else {
			entry.Ingresos = entry.Ingresos.Add(m.Monto)
		}
		entry.Neto = entry.Ingresos.Sub(entry.Egresos)
		porMetodo[string(m.MetodoPago)] = entry
	}

	return &dto.ResumenSesionResponse{
		SesionCajaID:  sesionID.String(),
		SaldoEfectivo: saldoEfectivo,
		SaldoTotal:    saldoEfectivo.Add(electronico),
		PorMetodo:     porMetodo,
	}, nil
}

func (s *movimientoService) Listar(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoResponse, error) {
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, apierror.Serverf("no se pudieron listar los movimientos").Wrap(err)
	}
	out := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *movimientoToResponse(&movs[i]))
	}
	return out, nil
}

func movimientoToResponse(m *model.Movimiento) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:           m.ID.String(),
		SesionCajaID: m.SesionCajaID.String(),
		Tipo:         string(m.Tipo),
		MetodoPago:   string(m.MetodoPago),
		Monto:        m.Monto,
		Referencia:   m.Referencia,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReversoDe != nil {
		id := m.ReversoDe.String()
		resp.ReversoDe = &id
	}
	return resp
}
