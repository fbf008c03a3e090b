package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"kfit/internal/catalog"
	"kfit/internal/models"
	"kfit/internal/placeholder"
	"kfit/internal/resolver"
	"kfit/internal/validation"
)

// imageCacheControl lets browsers and CDNs keep resolved image redirects.
const imageCacheControl = "public, max-age=86400"

// PlaceholderHandler serves product images and product metadata.
type PlaceholderHandler struct {
	resolver *resolver.Resolver
	renderer *placeholder.Renderer
}

// NewPlaceholderHandler creates a new placeholder handler.
func NewPlaceholderHandler(r *resolver.Resolver, renderer *placeholder.Renderer) *PlaceholderHandler {
	return &PlaceholderHandler{resolver: r, renderer: renderer}
}

// Image redirects to a product photo for the query, or renders a
// placeholder when no photo can be found.
func (h *PlaceholderHandler) Image(c fiber.Ctx) error {
	q := searchQuery(c)

	res := h.resolver.ResolveImage(c.Context(), q)
	if res.Found() {
		c.Set(fiber.HeaderCacheControl, imageCacheControl)
		return c.Redirect().Status(fiber.StatusFound).To(res.ImageURL)
	}

	spec := placeholder.Spec{
		Text:   catalog.Decode(q.ItemName),
		Brand:  catalog.Decode(q.Brand),
		Width:  validation.ParseDimension(c.Query("w")),
		Height: validation.ParseDimension(c.Query("h")),
	}

	if strings.EqualFold(c.Query("format"), "png") {
		body, err := h.renderer.RenderPNG(spec)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(body)
	}

	body, err := h.renderer.RenderSVG(spec)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(body)
}

// ProductInfo returns the first shop result for the query as JSON.
// Image and link are null when nothing could be found.
func (h *PlaceholderHandler) ProductInfo(c fiber.Ctx) error {
	q := searchQuery(c)

	res := h.resolver.ResolveProduct(c.Context(), q)
	if !res.Found() || res.Result == nil {
		return c.JSON(models.ProductInfo{Title: catalog.Decode(q.ItemName)})
	}

	return c.JSON(models.ProductInfo{
		Image: &res.Result.ImageURL,
		Link:  &res.Result.Link,
		Title: res.Result.Title,
		Price: &res.Result.Price,
		Mall:  &res.Result.Mall,
	})
}

// searchQuery reads the shared query parameters.
func searchQuery(c fiber.Ctx) models.SearchQuery {
	return models.SearchQuery{
		ItemName: validation.TruncateLabel(c.Query("text", "Item")),
		Brand:    validation.TruncateLabel(c.Query("brand")),
		Gender:   validation.ParseGender(c.Query("gender")),
	}
}
