package service

import (
	"context"
	"time"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"
	"almapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CajaService interface {
	Abrir(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, operadorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	// SesionAbierta returns (nil, nil) when the operator has no open session.
	SesionAbierta(ctx context.Context, operadorID uuid.UUID) (*model.SesionCaja, error)
	Sesion(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error)
	Reporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.ReporteCajaResponse, int64, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	dispatcher *worker.Dispatcher
}

func NewCajaService(repo repository.CajaRepository, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{repo: repo, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	if req.MontoApertura.IsNegative() {
		return nil, apierror.Validationf("el monto de apertura no puede ser negativo")
	}

	// Guard: one open session per operator. A storage failure here is logged
	// but does not block the open; the partial unique index is the backstop.
	existing, err := s.repo.FindSesionAbiertaPorOperador(ctx, operadorID)
	if err != nil && !isNotFound(err) {
		log.Warn().Err(err).Str("operador_id", operadorID.String()).
			Msg("caja: fallo consultando sesion abierta durante la apertura")
	}
	if existing != nil {
		return nil, apierror.Conflictf("ya existe una caja abierta para este operador")
	}

	sesion := &model.SesionCaja{
		OperadorID:    operadorID,
		MontoApertura: req.MontoApertura,
		Estado:        model.EstadoAbierta,
		OpenedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, apierror.Serverf("no se pudo abrir la caja").Wrap(err)
	}

	return sesionToResponse(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Soft reconciliation: the counted amount may differ from the expected
// balance. The gap is persisted as Desvio, the close is never rejected.

func (s *cajaService) Cerrar(ctx context.Context, operadorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	if req.MontoContado.IsNegative() {
		return nil, apierror.Validationf("el monto contado no puede ser negativo")
	}

	sesion, err := s.repo.FindSesionAbiertaPorOperador(ctx, operadorID)
	if err != nil || sesion == nil {
		return nil, apierror.Conflictf("no hay sesion de caja abierta")
	}

	movs, err := s.repo.ListMovimientos(ctx, sesion.ID)
	if err != nil {
		return nil, apierror.Serverf("no se pudieron leer los movimientos de la sesion").Wrap(err)
	}

	esperado := sesion.MontoApertura
	for _, m := range movs {
		if m.MetodoPago == model.MetodoEfectivo {
			esperado = esperado.Add(m.Monto)
		}
	}
	desvio := req.MontoContado.Sub(esperado)

	now := time.Now().UTC()
	montoContado := req.MontoContado
	sesion.Estado = model.EstadoCerrada
	sesion.MontoEsperado = &esperado
	sesion.MontoCierre = &montoContado
	sesion.Desvio = &desvio
	sesion.NotasCierre = req.Notas
	sesion.ClosedAt = &now

	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, apierror.Serverf("no se pudo cerrar la caja").Wrap(err)
	}

	// Async close report — fire & forget, the close already succeeded.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReporteCierre(ctx, worker.ReporteCierrePayload{
			SesionCajaID: sesion.ID.String(),
		}); err != nil {
			log.Warn().Err(err).Str("sesion_caja_id", sesion.ID.String()).
				Msg("caja: no se pudo encolar el reporte de cierre")
		}
	}

	return &dto.CierreCajaResponse{
		SesionCajaID:  sesion.ID.String(),
		MontoEsperado: esperado,
		MontoContado:  req.MontoContado,
		Desvio:        desvio,
		Estado:        sesion.Estado,
		Notas:         req.Notas,
		ClosedAt:      now.Format(time.RFC3339),
	}, nil
}

// ── SesionAbierta ─────────────────────────────────────────────────────────────
// Lookup failures (not-found AND storage errors) both yield "no open session"
// so the caller can still offer opening one. Availability over strictness —
// the error is logged, never propagated.

func (s *cajaService) SesionAbierta(ctx context.Context, operadorID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbiertaPorOperador(ctx, operadorID)
	if err != nil {
		if !isNotFound(err) {
			log.Warn().Err(err).Str("operador_id", operadorID.String()).
				Msg("caja: fallo consultando sesion abierta, se asume sin sesion")
		}
		return nil, nil
	}
	return sesion, nil
}

func (s *cajaService) Sesion(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, apierror.NotFoundf("sesion de caja no encontrada")
	}
	return sesion, nil
}

// ── Reporte / Historial ───────────────────────────────────────────────────────

func (s *cajaService) Reporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, apierror.NotFoundf("sesion de caja no encontrada")
	}
	r := sesionToReporte(sesion)
	return &r, nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.ReporteCajaResponse, int64, error) {
	sesiones, total, err := s.repo.ListSesionesCerradas(ctx, page, limit)
	if err != nil {
		return nil, 0, apierror.Serverf("no se pudo listar el historial de cajas").Wrap(err)
	}
	out := make([]dto.ReporteCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		out = append(out, sesionToReporte(&sesiones[i]))
	}
	return out, total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sesionToResponse(s *model.SesionCaja) *dto.SesionCajaResponse {
	resp := &dto.SesionCajaResponse{
		SesionCajaID:  s.ID.String(),
		OperadorID:    s.OperadorID.String(),
		MontoApertura: s.MontoApertura,
		Estado:        s.Estado,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func sesionToReporte(s *model.SesionCaja) dto.ReporteCajaResponse {
	r := dto.ReporteCajaResponse{
		SesionCajaID:  s.ID.String(),
		OperadorID:    s.OperadorID.String(),
		MontoApertura: s.MontoApertura,
		MontoEsperado: s.MontoEsperado,
		MontoCierre:   s.MontoCierre,
		Desvio:        s.Desvio,
		Estado:        s.Estado,
		NotasCierre:   s.NotasCierre,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		r.ClosedAt = &t
	}
	return r
}

// SaldosSesion computes the running balances of an open session for the
// "caja abierta" payload: cash-only and cash+electronic.
func SaldosSesion(apertura decimal.Decimal, movs []model.Movimiento) (saldoEfectivo, saldoTotal decimal.Decimal) {
	saldoEfectivo = apertura
	electronico := decimal.Zero
	for _, m := range movs {
		if m.MetodoPago == model.MetodoEfectivo {
			saldoEfectivo = saldoEfectivo.Add(m.Monto)
		} else {
			electronico = electronico.Add(m.Monto)
		}
	}
	return saldoEfectivo, saldoEfectivo.Add(electronico)
}
