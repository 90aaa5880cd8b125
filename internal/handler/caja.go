package handler

import (
	"net/http"
	"strconv"
	"time"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/infra"
	"almapos/internal/middleware"
	"almapos/internal/model"
	"almapos/internal/repository"
	"almapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct {
	svc         service.CajaService
	movimientos service.MovimientoService
	repo        repository.CajaRepository
	pdfPath     string
}

func NewCajaHandler(svc service.CajaService, movimientos service.MovimientoService, repo repository.CajaRepository, pdfPath string) *CajaHandler {
	return &CajaHandler{svc: svc, movimientos: movimientos, repo: repo, pdfPath: pdfPath}
}

// Abrir godoc
// @Summary Abre una nueva sesion de caja para el operador autenticado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.SesionCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operadorID, err := operadorDelToken(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Abrir(c.Request.Context(), operadorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la sesion de caja abierta declarando el monto contado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Declaracion de cierre"
// @Success 200 {object} dto.CierreCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operadorID, err := operadorDelToken(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Cerrar(c.Request.Context(), operadorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abierta returns the operator's open session with its running balances, or
// {open: false} when there is none. Always 200 — "no session" is a normal
// state, not an error.
func (h *CajaHandler) Abierta(c *gin.Context) {
	operadorID, err := operadorDelToken(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sesion, _ := h.svc.SesionAbierta(c.Request.Context(), operadorID)
	if sesion == nil {
		c.JSON(http.StatusOK, dto.SesionAbiertaResponse{Open: false})
		return
	}

	movs, err := h.repo.ListMovimientos(c.Request.Context(), sesion.ID)
	if err != nil {
		respondError(c, apierror.Serverf("no se pudieron leer los movimientos de la sesion").Wrap(err))
		return
	}
	saldoEfectivo, saldoTotal := service.SaldosSesion(sesion.MontoApertura, movs)

	c.JSON(http.StatusOK, dto.SesionAbiertaResponse{
		Open:          true,
		Sesion:        sesionAbiertaPayload(sesion),
		SaldoEfectivo: &saldoEfectivo,
		SaldoTotal:    &saldoTotal,
	})
}

// Historial returns a paginated list of closed cash sessions.
func (h *CajaHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}

// Reporte godoc
// @Summary Obtiene el reporte de una sesion de caja
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/reporte [get]
func (h *CajaHandler) Reporte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReportePDF serves the arqueo PDF for a closed session. The file is
// rendered on demand; the background worker usually got there first and the
// render is idempotent over the same path.
func (h *CajaHandler) ReportePDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}

	sesion, err := h.repo.FindSesionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, apierror.NotFoundf("sesion de caja no encontrada"))
		return
	}
	if sesion.Estado != model.EstadoCerrada {
		respondError(c, apierror.Conflictf("la sesion aun no esta cerrada"))
		return
	}

	movs, err := h.repo.ListMovimientos(c.Request.Context(), id)
	if err != nil {
		respondError(c, apierror.Serverf("no se pudieron leer los movimientos de la sesion").Wrap(err))
		return
	}

	path, err := infra.GenerateCierrePDF(sesion, movs, h.pdfPath)
	if err != nil {
		respondError(c, apierror.Serverf("no se pudo generar el PDF").Wrap(err))
		return
	}

	c.Header("Content-Disposition", "inline; filename=cierre_"+id.String()+".pdf")
	c.File(path)
}

// Resumen returns the per-method breakdown and running balances of a session.
func (h *CajaHandler) Resumen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.movimientos.Resumen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func operadorDelToken(c *gin.Context) (uuid.UUID, error) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil, apierror.Validationf("token sin operador")
	}
	id, err := uuid.Parse(claims.OperadorID)
	if err != nil {
		return uuid.Nil, apierror.Validationf("ID de operador inválido")
	}
	return id, nil
}

func sesionAbiertaPayload(s *model.SesionCaja) *dto.SesionCajaResponse {
	return &dto.SesionCajaResponse{
		SesionCajaID:  s.ID.String(),
		OperadorID:    s.OperadorID.String(),
		MontoApertura: s.MontoApertura,
		Estado:        s.Estado,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
	}
}
