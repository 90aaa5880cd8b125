package handler

import (
	"net/http"

	"almapos/internal/apierror"
	"almapos/internal/dto"
	"almapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoteHandler struct{ svc service.LoteService }

func NewLoteHandler(svc service.LoteService) *LoteHandler { return &LoteHandler{svc: svc} }

// Crear godoc
// @Summary Registra un lote de inventario
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearLoteRequest true "Datos del lote"
// @Success 201 {object} dto.LoteResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/lotes [post]
func (h *LoteHandler) Crear(c *gin.Context) {
	var req dto.CrearLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LoteHandler) Obtener(c *gin.Context) {
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

// Listar returns every lot of a product, oldest purchase first.
func (h *LoteHandler) Listar(c *gin.Context) {
	productoID, err := uuid.Parse(c.Query("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id inválido"))
		return
	}
	resp, err := h.svc.ListarPorProducto(c.Request.Context(), productoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CorregirDisponible godoc
// @Summary Corrige la cantidad disponible de un lote
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del lote"
// @Param body body dto.CorregirDisponibleRequest true "Nueva cantidad disponible"
// @Success 200 {object} dto.LoteResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/lotes/{id}/disponible [patch]
func (h *LoteHandler) CorregirDisponible(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CorregirDisponibleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CorregirDisponible(c.Request.Context(), id, req.CantidadDisponible)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar hard-deletes a lot. Destructive, so it demands ?confirmar=true
// in addition to the supervisor role the router already enforces.
func (h *LoteHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if c.Query("confirmar") != "true" {
		c.JSON(http.StatusBadRequest, apierror.New("la eliminacion requiere confirmar=true"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CostoPromedio godoc
// @Summary Costo promedio ponderado de los lotes activos de un producto
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param producto_id query string true "ID del producto"
// @Success 200 {object} dto.CostoPromedioResponse
// @Router /v1/lotes/costo-promedio [get]
func (h *LoteHandler) CostoPromedio(c *gin.Context) {
	productoID, err := uuid.Parse(c.Query("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id inválido"))
		return
	}
	resp, err := h.svc.CostoPromedio(c.Request.Context(), productoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
