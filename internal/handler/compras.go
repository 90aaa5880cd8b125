package handler

import (
	"net/http"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CompraHandler struct {
	svc  service.CompraService
	caja service.CajaService
}

func NewCompraHandler(svc service.CompraService, caja service.CajaService) *CompraHandler {
	return &CompraHandler{svc: svc, caja: caja}
}

// Registrar godoc
// @Summary Registra una compra: lotes nuevos mas un egreso en caja
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarCompraRequest true "Compra"
// @Success 201 {object} dto.CompraResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/compras [post]
func (h *CompraHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operadorID, err := operadorDelToken(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sesion, err := h.caja.SesionAbierta(c.Request.Context(), operadorID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), operadorID, sesion, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CompraHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
