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
	"gorm.io/gorm"
)

// CompraService registers a purchase as ONE logical operation: N lots created
// plus exactly one EGRESO ledger movement for the summed line amounts.
//
// All three writes run inside a single DB transaction, so a failure at the
// ledger step rolls the lots back — there is no partial state to clean up.
type CompraService interface {
	Registrar(ctx context.Context, operadorID uuid.UUID, sesion *model.SesionCaja, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
}

type compraService struct {
	repo     repository.CompraRepository
	loteRepo repository.LoteRepository
	cajaRepo repository.CajaRepository
	catalogo CatalogoService
}

func NewCompraService(
	repo repository.CompraRepository,
	loteRepo repository.LoteRepository,
	cajaRepo repository.CajaRepository,
	catalogo CatalogoService,
) CompraService {
	return &compraService{repo: repo, loteRepo: loteRepo, cajaRepo: cajaRepo, catalogo: catalogo}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Validation fails fast and reports the first violation; nothing is persisted
// until every line has passed.

func (s *compraService) Registrar(ctx context.Context, operadorID uuid.UUID, sesion *model.SesionCaja, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	if sesion == nil {
		return nil, apierror.Conflictf("no hay sesion de caja abierta")
	}
	if sesion.Estado != model.EstadoAbierta {
		return nil, apierror.Conflictf("la sesion de caja ya esta cerrada")
	}

	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, apierror.Validationf("debe seleccionar un proveedor")
	}
	metodo, err := model.ParseMetodoPago(req.MetodoPago)
	if err != nil {
		return nil, err
	}
	if len(req.Lineas) == 0 {
		return nil, apierror.Validationf("la compra debe tener al menos una linea")
	}

	// Pre-flight: validate every line and materialize its lot + net amount.
	type lineaResuelta struct {
		lote  *model.Lote
		neto  decimal.Decimal
		linea dto.CompraLineaRequest
	}
	resueltas := make([]lineaResuelta, 0, len(req.Lineas))
	total := decimal.Zero

	for i, linea := range req.Lineas {
		lote, neto, err := resolverLinea(linea, proveedorID)
		if err != nil {
			return nil, apierror.Validationf("linea %d: %s", i+1, err.Error())
		}
		total = total.Add(neto)
		resueltas = append(resueltas, lineaResuelta{lote: lote, neto: neto, linea: linea})
	}

	// Catalog ids resolved once, outside the transaction — best effort.
	catalogo := s.catalogo.Resolver(ctx)

	compra := &model.Compra{
		ProveedorID: proveedorID,
		OperadorID:  operadorID,
		MetodoPago:  metodo,
		MontoTotal:  total,
		Nota:        req.Nota,
		CreatedAt:   time.Now().UTC(),
	}
	var movimiento *model.Movimiento

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, compra); err != nil {
			return err
		}

		for i := range resueltas {
			if err := s.loteRepo.CreateTx(tx, resueltas[i].lote); err != nil {
				return fmt.Errorf("creando lote %q: %w", resueltas[i].lote.NumeroLote, err)
			}
		}

		for i := range resueltas {
			compra.Lineas = append(compra.Lineas, model.CompraLinea{
				CompraID:       compra.ID,
				ProductoID:     resueltas[i].lote.ProductoID,
				LoteID:         resueltas[i].lote.ID,
				Cantidad:       resueltas[i].linea.Cantidad,
				PrecioUnitario: resueltas[i].linea.PrecioUnitario,
				MontoNeto:      resueltas[i].neto,
			})
		}
		if err := s.repo.CreateLineasTx(tx, compra.Lineas); err != nil {
			return err
		}

		// Exactly one EGRESO for the whole purchase.
		movimiento = &model.Movimiento{
			SesionCajaID: sesion.ID,
			Tipo:         model.TipoEgreso,
			MetodoPago:   metodo,
			Monto:        total.Neg(),
			Referencia:   fmt.Sprintf("compra %s", compra.ID),
			CreatedAt:    time.Now().UTC(),
		}
		if id, ok := catalogo.TiposMovimiento[string(model.TipoEgreso)]; ok {
			movimiento.TipoMovimientoID = &id
		}
		if id, ok := catalogo.MetodosPago[string(metodo)]; ok {
			movimiento.MetodoPagoID = &id
		}
		return s.cajaRepo.CreateMovimientoTx(tx, movimiento)
	})
	if txErr != nil {
		return nil, apierror.Serverf("no se pudo registrar la compra").Wrap(txErr)
	}

	return compraToResponse(compra, movimiento.ID.String()), nil
}

// resolverLinea validates one purchase line and builds its lot. Unlike
// standalone lot creation, a line may cost zero (bonus stock from the
// supplier); the discount bounds are shared, FIXED additionally may not
// exceed the line subtotal, and the net amount is clamped to ≥ 0.
func resolverLinea(linea dto.CompraLineaRequest, proveedorID uuid.UUID) (*model.Lote, decimal.Decimal, error) {
	productoID, err := uuid.Parse(linea.ProductoID)
	if err != nil {
		return nil, decimal.Zero, apierror.Validationf("debe seleccionar un producto")
	}
	if linea.Cantidad <= 0 {
		return nil, decimal.Zero, apierror.Validationf("la cantidad debe ser mayor a cero")
	}
	if linea.PrecioUnitario.IsNegative() {
		return nil, decimal.Zero, apierror.Validationf("el precio unitario no puede ser negativo")
	}
	if linea.NumeroLote == "" {
		return nil, decimal.Zero, apierror.Validationf("el numero de lote es obligatorio")
	}
	if linea.NumeroLote != linea.NumeroLoteConfirmacion {
		return nil, decimal.Zero, apierror.Validationf(
			"el numero de lote y su confirmacion no coinciden")
	}

	subtotal := linea.PrecioUnitario.Mul(decimal.NewFromInt(int64(linea.Cantidad)))

	descuento, err := model.ParseTipoDescuento(linea.TipoDescuento)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := validarDescuento(descuento, linea.ValorDescuento); err != nil {
		return nil, decimal.Zero, err
	}
	if descuento == model.DescuentoFixed && linea.ValorDescuento.GreaterThan(subtotal) {
		return nil, decimal.Zero, apierror.Validationf(
			"el descuento fijo no puede superar el subtotal de la linea")
	}

	pid := proveedorID
	lote := &model.Lote{
		ProductoID:         productoID,
		NumeroLote:         linea.NumeroLote,
		CantidadInicial:    linea.Cantidad,
		CantidadDisponible: linea.Cantidad,
		CostoUnitario:      linea.PrecioUnitario,
		TipoDescuento:      descuento,
		ValorDescuento:     linea.ValorDescuento,
		ProveedorID:        &pid,
		FechaCompra:        time.Now().UTC(),
		Notas:              linea.Notas,
	}

	neto := subtotal
	switch descuento {
	case model.DescuentoPercent:
		factor := decimal.NewFromInt(1).Sub(linea.ValorDescuento.Div(decimal.NewFromInt(100)))
		neto = subtotal.Mul(factor)
	case model.DescuentoFixed:
		neto = subtotal.Sub(linea.ValorDescuento)
	}
	if neto.IsNegative() {
		neto = decimal.Zero
	}
	return lote, neto, nil
}

// ── Obtener ───────────────────────────────────────────────────────────────────

func (s *compraService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("compra no encontrada")
	}
	return compraToResponse(compra, ""), nil
}

func compraToResponse(c *model.Compra, movimientoID string) *dto.CompraResponse {
	lineas := make([]dto.CompraLineaResponse, 0, len(c.Lineas))
	for _, l := range c.Lineas {
		lineas = append(lineas, dto.CompraLineaResponse{
			ProductoID:     l.ProductoID.String(),
			LoteID:         l.LoteID.String(),
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			MontoNeto:      l.MontoNeto,
		})
	}
	return &dto.CompraResponse{
		ID:           c.ID.String(),
		Fecha:        c.CreatedAt.Format(time.RFC3339),
		ProveedorID:  c.ProveedorID.String(),
		OperadorID:   c.OperadorID.String(),
		MetodoPago:   string(c.MetodoPago),
		MontoTotal:   c.MontoTotal,
		MovimientoID: movimientoID,
		Lineas:       lineas,
	}
}
