package handler

import (
	"net/http"

	"almapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Resolver godoc
// @Summary Mapas nombre→id de tipos de movimiento y metodos de pago
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CatalogoResponse
// @Router /v1/catalogo [get]
func (h *CatalogoHandler) Resolver(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Resolver(c.Request.Context()))
}

// Invalidar drops the cached catalog so the next read refetches from the DB.
func (h *CatalogoHandler) Invalidar(c *gin.Context) {
	if err := h.svc.Invalidar(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
