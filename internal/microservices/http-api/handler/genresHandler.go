package handler

import (
	"net/http"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(s service.GenreService) *GenreHandler {
	return &GenreHandler{svc: s}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	genres := rg.Group("/genres")
	{
		genres.GET("", h.List)
		genres.GET("/:slug", h.Get)
		genres.POST("", middleware.RequireAuth(), h.Create)
		genres.PATCH("/:slug", middleware.RequireAuth(), h.Update)
		genres.DELETE("/:slug", middleware.RequireAuth(), h.Delete)
	}
}

func (h *GenreHandler) List(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	q.PageQuery = q.PageQuery.Normalize()

	list, total, err := h.svc.List(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.MapSlice(list, dto.GenreFromModel), total, q.PageQuery))
}

func (h *GenreHandler) Get(c *gin.Context) {
	g, err := h.svc.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreFromModel(g))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(g))
}

func (h *GenreHandler) Update(c *gin.Context) {
	var req dto.UpdateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreFromModel(g))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
