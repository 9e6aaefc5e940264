package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/techbites/storefront/internal/application/catalog"
	"github.com/techbites/storefront/internal/domain/catalog"
	"github.com/techbites/storefront/internal/interfaces/http/dto"
)

// CatalogHandler handles catalog API endpoints
type CatalogHandler struct {
	BaseHandler
	loader *catalogapp.Loader
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(loader *catalogapp.Loader) *CatalogHandler {
	return &CatalogHandler{loader: loader}
}

// ListCategories godoc
// @Summary      List menu categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.CategoriesResponse}
// @Router       /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.Success(c, dto.CategoriesResponse{
		Categories: catalog.Categories(),
		Default:    catalog.DefaultCategory,
	})
}

// ListProducts godoc
// @Summary      List products, optionally filtered by category
// @Tags         catalog
// @Produce      json
// @Param        categoria query string false "Category tag, case-insensitive"
// @Success      200 {object} dto.Response{data=[]catalog.Product}
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query dto.ProductsQuery
	_ = c.ShouldBindQuery(&query)

	if query.Category == "" {
		h.Success(c, h.loader.Products())
		return
	}
	category, ok := catalog.LookupCategory(query.Category)
	if !ok {
		// An unknown tag simply matches nothing
		h.Success(c, []catalog.Product{})
		return
	}
	h.Success(c, h.loader.ByCategory(category))
}

// Reload godoc
// @Summary      Fetch the catalog again from its source
// @Description  Failures are logged and leave the current catalog in place
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.HealthResponse}
// @Router       /catalog/reload [post]
func (h *CatalogHandler) Reload(c *gin.Context) {
	h.loader.Reload(c.Request.Context())
	h.Success(c, catalogStatus(h.loader))
}

func catalogStatus(loader *catalogapp.Loader) dto.HealthResponse {
	resp := dto.HealthResponse{
		Status:        "ok",
		CatalogLoaded: loader.Loaded(),
		ProductCount:  len(loader.Products()),
	}
	if err := loader.LastError(); err != nil {
		resp.CatalogError = err.Error()
	}
	return resp
}
