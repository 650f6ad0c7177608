package api

import (
	"net/http"

	"github.com/bluevoyage/travelbooking/internal/service/packages"
	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	service packages.PackageUseCase
}

func NewPackageHandler(service packages.PackageUseCase) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *PackageHandler) list(c *gin.Context) {
	packages, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, packages)
}

func (h *PackageHandler) get(c *gin.Context) {
	pkg, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}
