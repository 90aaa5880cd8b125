package service

import (
	"context"
	"time"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoteService interface {
	Crear(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error)
	// CorregirDisponible is the only post-creation mutation: a correction of
	// the remaining quantity, e.g. to void part of a lot.
	CorregirDisponible(ctx context.Context, id uuid.UUID, cantidad int) (*dto.LoteResponse, error)
	// Eliminar is a hard delete; the handler gates it behind an explicit
	// confirmation flag.
	Eliminar(ctx context.Context, id uuid.UUID) error
	CostoPromedio(ctx context.Context, productoID uuid.UUID) (*dto.CostoPromedioResponse, error)
}

type loteService struct {
	repo repository.LoteRepository
}

func NewLoteService(repo repository.LoteRepository) LoteService {
	return &loteService{repo: repo}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *loteService) Crear(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error) {
	lote, err := buildLote(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, lote); err != nil {
		return nil, apierror.Serverf("no se pudo crear el lote").Wrap(err)
	}
	return loteToResponse(lote), nil
}

// buildLote validates a lot request and materializes the model. Shared with
// CompraService, which creates lots line-by-line inside its transaction.
func buildLote(req dto.CrearLoteRequest) (*model.Lote, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.Validationf("producto_id invalido")
	}
	if req.NumeroLote == "" {
		return nil, apierror.Validationf("el numero de lote es obligatorio")
	}
	if req.NumeroLote != req.NumeroLoteConfirmacion {
		return nil, apierror.Validationf("el numero de lote y su confirmacion no coinciden")
	}
	if req.Cantidad <= 0 {
		return nil, apierror.Validationf("la cantidad inicial debe ser mayor a cero")
	}
	if !req.CostoUnitario.IsPositive() {
		return nil, apierror.Validationf("el costo unitario debe ser mayor a cero")
	}

	descuento, err := model.ParseTipoDescuento(req.TipoDescuento)
	if err != nil {
		return nil, err
	}
	if err := validarDescuento(descuento, req.ValorDescuento); err != nil {
		return nil, err
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, apierror.Validationf("proveedor_id invalido")
		}
		proveedorID = &pid
	}

	fecha := time.Now().UTC()
	if req.FechaCompra != nil {
		fecha, err = time.Parse(time.RFC3339, *req.FechaCompra)
		if err != nil {
			return nil, apierror.Validationf("fecha_compra invalida, se espera RFC 3339")
		}
	}

	return &model.Lote{
		ProductoID:         productoID,
		NumeroLote:         req.NumeroLote,
		CantidadInicial:    req.Cantidad,
		CantidadDisponible: req.Cantidad,
		CostoUnitario:      req.CostoUnitario,
		TipoDescuento:      descuento,
		ValorDescuento:     req.ValorDescuento,
		ProveedorID:        proveedorID,
		FechaCompra:        fecha,
		Notas:              req.Notas,
	}, nil
}

func validarDescuento(tipo model.TipoDescuento, valor decimal.Decimal) error {
	switch tipo {
	case model.DescuentoPercent:
		if valor.IsNegative() || valor.GreaterThan(decimal.NewFromInt(100)) {
			return apierror.Validationf("el descuento porcentual debe estar entre 0 y 100")
		}
	case model.DescuentoFixed:
		if valor.IsNegative() {
			return apierror.Validationf("el descuento fijo no puede ser negativo")
		}
	}
	return nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *loteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("lote no encontrado")
	}
	return loteToResponse(lote), nil
}

func (s *loteService) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error) {
	lotes, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, apierror.Serverf("no se pudieron listar los lotes").Wrap(err)
	}
	out := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		out = append(out, *loteToResponse(&lotes[i]))
	}
	return out, nil
}

// ── CorregirDisponible ────────────────────────────────────────────────────────

func (s *loteService) CorregirDisponible(ctx context.Context, id uuid.UUID, cantidad int) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("lote no encontrado")
	}
	if cantidad < 0 || cantidad > lote.CantidadInicial {
		return nil, apierror.Validationf(
			"la cantidad disponible debe estar entre 0 y %d", lote.CantidadInicial)
	}
	if err := s.repo.UpdateDisponible(ctx, id, cantidad); err != nil {
		return nil, apierror.Serverf("no se pudo corregir el lote").Wrap(err)
	}
	lote.CantidadDisponible = cantidad
	return loteToResponse(lote), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *loteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFoundf("lote no encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Serverf("no se pudo eliminar el lote").Wrap(err)
	}
	return nil
}

// ── CostoPromedio ─────────────────────────────────────────────────────────────

func (s *loteService) CostoPromedio(ctx context.Context, productoID uuid.UUID) (*dto.CostoPromedioResponse, error) {
	lotes, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, apierror.Serverf("no se pudieron listar los lotes").Wrap(err)
	}
	activos := 0
	for i := range lotes {
		if lotes[i].CantidadDisponible > 0 {
			activos++
		}
	}
	return &dto.CostoPromedioResponse{
		ProductoID:    productoID.String(),
		CostoPromedio: model.CostoPromedio(lotes),
		LotesActivos:  activos,
	}, nil
}

func loteToResponse(l *model.Lote) *dto.LoteResponse {
	resp := &dto.LoteResponse{
		ID:                 l.ID.String(),
		ProductoID:         l.ProductoID.String(),
		NumeroLote:         l.NumeroLote,
		CantidadInicial:    l.CantidadInicial,
		CantidadDisponible: l.CantidadDisponible,
		CostoUnitario:      l.CostoUnitario,
		TipoDescuento:      string(l.TipoDescuento),
		ValorDescuento:     l.ValorDescuento,
		CostoFinalUnitario: l.CostoFinalUnitario(),
		FechaCompra:        l.FechaCompra.Format(time.RFC3339),
		Notas:              l.Notas,
	}
	if l.ProveedorID != nil {
		id := l.ProveedorID.String()
		resp.ProveedorID = &id
	}
	return resp
}
