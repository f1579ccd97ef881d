package integrity

import (
	"errors"

	"inventory-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/tables", h.HandleTablesCheck)
	group.Get("/snapshot", h.HandleSnapshotCheck)
	group.Get("/branches/:branch", h.HandleBranchCheck)
	group.Get("/drift", h.HandleDriftCheck)
}

// HandleIntegrityCheck runs the table and snapshot checks.
// @Summary Run All Integrity Checks
// @Description Compares the inventory tables with their models and inspects the snapshot object. Branch data checks run per branch.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if tables, err := h.service.CheckTables(); err != nil {
		report["tables"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["tables"] = tables
	}

	if snap, err := h.service.CheckSnapshot(c.Context()); err != nil {
		report["snapshot"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["snapshot"] = snap
	}

	return c.JSON(report)
}

// HandleTablesCheck compares the live schema with the models.
// @Summary Check Tables
// @Description Checks that every inventory table exists with the expected columns and types.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.TablesReport "Tables Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/tables [get]
func (h *Handler) HandleTablesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckTables()
	if err != nil {
		l.Error("Tables check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Table mismatch detected", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleSnapshotCheck checks and optionally creates the snapshot bucket.
// @Summary Check Snapshot
// @Description Checks that the snapshot bucket and object exist. Optionally creates a missing bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.SnapshotReport "Snapshot Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/snapshot [get]
func (h *Handler) HandleSnapshotCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckSnapshot(c.Context())
	if err != nil {
		l.Error("Snapshot check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.BucketExists && fix {
		l.Info("Attempting to create snapshot bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixBucket(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		report.BucketExists = true
		return c.JSON(fiber.Map{"status": "fixed", "report": report})
	}

	return c.JSON(fiber.Map{"status": "checked", "report": report})
}

// HandleBranchCheck reports data problems at a branch.
// @Summary Check Branch Data
// @Description Lists untagged and mis-tagged records, missing first-dimension assignments and combinations that resolve with low confidence.
// @Tags integrity
// @Produce json
// @Param branch path int true "Branch ID"
// @Success 200 {object} checks.DataReport "Data Report"
// @Failure 400 {object} map[string]string "Invalid branch"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/branches/{branch} [get]
func (h *Handler) HandleBranchCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	branchID, err := c.ParamsInt("branch")
	if err != nil || branchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid branch id"})
	}

	l.Info("Starting branch data check", zap.Int("branch", branchID))
	report, err := h.service.CheckBranch(c.Context(), int64(branchID))
	if err != nil {
		l.Error("Branch data check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Branch data check completed",
		zap.Int("products", report.Products),
		zap.Int("issues", len(report.Issues)))
	return c.JSON(report)
}


// HandleDriftCheck compares the live records with the snapshot export.
// @Summary Check Snapshot Drift
// @Description Lists records missing from, stale in, or differing in the snapshot compared to the database.
// @Tags integrity
// @Produce json
// @Success 200 {object} reconcile.Report "Drift Report"
// @Failure 503 {object} map[string]string "Drift check not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/drift [get]
func (h *Handler) HandleDriftCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDrift(c.Context())
	if errors.Is(err, ErrDriftUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Drift check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Summary.InSync() {
		l.Warn("Snapshot drift detected",
			zap.Int("missing", report.Summary.MissingSnapshot),
			zap.Int("stale", report.Summary.Stale),
			zap.Int("mismatched", report.Summary.Mismatched))
	}
	return c.JSON(report)
}
