package handler

import (
	"net/http"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovimientoHandler struct {
	svc  service.MovimientoService
	caja service.CajaService
}

func NewMovimientoHandler(svc service.MovimientoService, caja service.CajaService) *MovimientoHandler {
	return &MovimientoHandler{svc: svc, caja: caja}
}

// Registrar godoc
// @Summary Registra un movimiento en el libro de la sesion
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/movimientos [post]
func (h *MovimientoHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sesion, err := h.resolverSesion(c, req.SesionCajaID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), sesion, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Reverso godoc
// @Summary Revierte un movimiento con una entrada compensatoria
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del movimiento original"
// @Param body body dto.ReversoRequest true "Motivo del reverso"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id}/reverso [post]
func (h *MovimientoHandler) Reverso(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ReversoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Revertir(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns the session's entries in insertion order. The session is
// taken from ?sesion_caja_id, falling back to the operator's open session.
func (h *MovimientoHandler) Listar(c *gin.Context) {
	sesion, err := h.resolverSesion(c, c.Query("sesion_caja_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), sesion.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// resolverSesion turns an optional explicit session id into the session the
// operation targets. An empty id means "the caller's open session".
func (h *MovimientoHandler) resolverSesion(c *gin.Context, sesionID string) (*model.SesionCaja, error) {
	if sesionID != "" {
		id, err := uuid.Parse(sesionID)
		if err != nil {
			return nil, apierror.Validationf("sesion_caja_id inválido")
		}
		return h.caja.Sesion(c.Request.Context(), id)
	}

	operadorID, err := operadorDelToken(c)
	if err != nil {
		return nil, err
	}
	sesion, err := h.caja.SesionAbierta(c.Request.Context(), operadorID)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, apierror.Conflictf("no hay sesion de caja abierta")
	}
	return sesion, nil
}
