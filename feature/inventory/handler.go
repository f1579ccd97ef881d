package inventory

import (
	"context"
	"errors"

	"inventory-manager/core/logger"
	"inventory-manager/core/utils"
	"inventory-manager/core/variant"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SchemaQuery is the query of GET /inventory/schema.
type SchemaQuery struct {
	CategoryID int64 `query:"category_id" validate:"gte=0"`
	ProductID  int64 `query:"product_id" validate:"required,gt=0"`
}

// ResolveRequest is the body of POST /inventory/resolve and /inventory/options.
type ResolveRequest struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	BranchID  int64            `json:"branch_id" validate:"required,gt=0"`
	Selection []variant.Choice `json:"selection" validate:"dive"`
}

// SummaryQuery is the query of GET /inventory/branches/:branch/summary.
type SummaryQuery struct {
	ProductID int64 `query:"product_id" validate:"gte=0"`
}

// Refresher reloads a snapshot backend.
type Refresher interface {
	Refresh(ctx context.Context) (*Snapshot, error)
}

// Handler handles HTTP requests for inventory.
type Handler struct {
	service   *Service
	refresher Refresher
}

// NewHandler creates a new HTTP handler. refresher may be nil.
func NewHandler(service *Service, refresher Refresher) *Handler {
	return &Handler{service: service, refresher: refresher}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/schema", h.HandleGetSchema)
	group.Post("/resolve", h.HandleResolve)
	group.Post("/options", h.HandleOptions)
	group.Get("/branches/:branch/summary", h.HandleBranchSummary)
	group.Get("/branches/:branch/products/:product/detail", h.HandleProductDetail)
	if h.refresher != nil {
		group.Post("/snapshot/refresh", h.HandleRefreshSnapshot)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, variant.ErrUnknownDimension),
		errors.Is(err, variant.ErrDimensionLocked),
		errors.Is(err, variant.ErrInvalidValue),
		errors.Is(err, variant.ErrUnknownMode):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func invalid(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": "validation failed"}
	if details := utils.GetValidationErrors(err); details != nil {
		body["details"] = details
	} else {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// HandleGetSchema returns the reconciled attribute schema of a product.
// @Summary Get Attribute Schema
// @Description Reconcile category links, product assignments and inventory tags into at most two ordered dimensions.
// @Tags inventory
// @Produce json
// @Param product_id query int true "Product ID"
// @Param category_id query int false "Category ID (looked up from the product when omitted)"
// @Success 200 {object} variant.Schema "Schema"
// @Failure 400 {object} map[string]any "Invalid query"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/schema [get]
func (h *Handler) HandleGetSchema(c *fiber.Ctx) error {
	var q SchemaQuery
	if err := c.QueryParser(&q); err != nil {
		return invalid(c, err)
	}
	if err := utils.ValidateStruct(q); err != nil {
		return invalid(c, err)
	}

	schema, err := h.service.ReconcileSchema(c.Context(), q.CategoryID, q.ProductID)
	if err != nil {
		return h.fail(c, "Schema reconciliation failed", err)
	}
	return c.JSON(schema)
}

// HandleResolve resolves a selection to one inventory record.
// @Summary Resolve Variant
// @Description Map a complete selection to the inventory record of that variant at a branch. Not found is reported in the body status.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Selection"
// @Success 200 {object} variant.Resolution "Resolution"
// @Failure 400 {object} map[string]any "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/resolve [post]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return invalid(c, err)
	}

	res, err := h.service.Resolve(c.Context(), req.ProductID, req.BranchID, variant.SelectionFrom(req.Selection))
	if err != nil {
		return h.fail(c, "Variant resolution failed", err)
	}
	return c.JSON(res)
}

// HandleOptions returns the variant picker state for a partial selection.
// @Summary Variant Options
// @Description Replay a partial selection and list the values still available per dimension.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Partial selection"
// @Success 200 {object} Options "Options"
// @Failure 400 {object} map[string]any "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/options [post]
func (h *Handler) HandleOptions(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return invalid(c, err)
	}

	opts, err := h.service.Options(c.Context(), req.ProductID, req.BranchID, req.Selection)
	if err != nil {
		return h.fail(c, "Option listing failed", err)
	}
	return c.JSON(opts)
}

// HandleBranchSummary returns one row per product of a branch.
// @Summary Branch Summary
// @Description Aggregate a branch's inventory into one row per product.
// @Tags inventory
// @Produce json
// @Param branch path int true "Branch ID"
// @Param product_id query int false "Restrict to one product"
// @Success 200 {object} AggregateResult "Summary"
// @Failure 400 {object} map[string]any "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/branches/{branch}/summary [get]
func (h *Handler) HandleBranchSummary(c *fiber.Ctx) error {
	branchID, err := c.ParamsInt("branch")
	if err != nil || branchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid branch id"})
	}
	var q SummaryQuery
	if err := c.QueryParser(&q); err != nil {
		return invalid(c, err)
	}
	if err := utils.ValidateStruct(q); err != nil {
		return invalid(c, err)
	}

	var productID *int64
	if q.ProductID > 0 {
		productID = &q.ProductID
	}
	result, err := h.service.Aggregate(c.Context(), int64(branchID), productID, variant.ModeSummary)
	if err != nil {
		return h.fail(c, "Summary aggregation failed", err)
	}
	return c.JSON(result)
}

// HandleProductDetail returns one row per attribute combination of a product.
// @Summary Product Detail
// @Description Aggregate a product's inventory at a branch into one row per attribute combination.
// @Tags inventory
// @Produce json
// @Param branch path int true "Branch ID"
// @Param product path int true "Product ID"
// @Success 200 {object} AggregateResult "Detail"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/branches/{branch}/products/{product}/detail [get]
func (h *Handler) HandleProductDetail(c *fiber.Ctx) error {
	branchID, err := c.ParamsInt("branch")
	if err != nil || branchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid branch id"})
	}
	product, err := c.ParamsInt("product")
	if err != nil || product <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	productID := int64(product)
	result, err := h.service.Aggregate(c.Context(), int64(branchID), &productID, variant.ModeDetail)
	if err != nil {
		return h.fail(c, "Detail aggregation failed", err)
	}
	return c.JSON(result)
}

// HandleRefreshSnapshot reloads the snapshot backend.
// @Summary Refresh Snapshot
// @Description Reload the inventory snapshot from object storage.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]any "Snapshot counts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/snapshot/refresh [post]
func (h *Handler) HandleRefreshSnapshot(c *fiber.Ctx) error {
	snap, err := h.refresher.Refresh(c.Context())
	if err != nil {
		return h.fail(c, "Snapshot refresh failed", err)
	}
	return c.JSON(fiber.Map{
		"generated_at": snap.GeneratedAt,
		"products":     len(snap.Products),
		"assignments":  len(snap.Assignments),
		"records":      len(snap.Records),
	})
}
