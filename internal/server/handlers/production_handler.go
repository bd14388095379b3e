package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// ProductionService is what the catalog and record routes need.
type ProductionService interface {
	AddProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	AddTeamMember(ctx context.Context, m models.TeamMember) (models.TeamMember, error)
	AddProductionRecord(ctx context.Context, r models.ProductionRecord) (models.ProductionRecord, error)
	AddPackagingRecord(ctx context.Context, r models.PackagingRecord) (models.PackagingRecord, error)
	DeleteProductionRecord(ctx context.Context, id string) error
	DeletePackagingRecord(ctx context.Context, id string) error

	Products() []models.Product
	TeamMembers(role models.Role) ([]models.TeamMember, error)
	ProductionRecords() []models.ProductionRecord
	PackagingRecords() []models.PackagingRecord
	Daily(date string) (models.DailyProduction, error)
	Hourly(date string) ([]models.HourlyProduction, error)
	Dashboard(date string) (models.Dashboard, error)
}

// ProductionHandler serves products, team members, production and packaging.
type ProductionHandler struct {
	svc    ProductionService
	logger *zap.Logger
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(svc ProductionService, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{svc: svc, logger: logger}
}

type productRequest struct {
	Name         string  `json:"name"`
	WeightPerBag FlexInt `json:"weightPerBag"`
}

type productPatchRequest struct {
	Name         *string  `json:"name"`
	WeightPerBag *FlexInt `json:"weightPerBag"`
}

type teamMemberRequest struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	BoxNumber *FlexInt `json:"boxNumber"`
}

type productionRequest struct {
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	BoxNumber    FlexInt `json:"boxNumber"`
	ProductID    string  `json:"productId"`
	Quantity     FlexInt `json:"quantity"`
	Observations string  `json:"observations"`
}

type packagingRequest struct {
	Date           string  `json:"date"`
	CollaboratorID string  `json:"collaboratorId"`
	Quantity       FlexInt `json:"quantity"`
	ProductID      string  `json:"productId"`
}

// ListProducts returns the catalog.
func (h *ProductionHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Products())
}

// CreateProduct adds a product.
func (h *ProductionHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	product, err := h.svc.AddProduct(c.Request.Context(), models.Product{Name: req.Name, WeightPerBag: req.WeightPerBag.Int()})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits name and/or weight of a product.
func (h *ProductionHandler) UpdateProduct(c *gin.Context) {
	var req productPatchRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	patch := models.ProductPatch{Name: req.Name}
	if req.WeightPerBag != nil {
		w := req.WeightPerBag.Int()
		patch.WeightPerBag = &w
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListTeamMembers returns collaborators, optionally filtered by ?role=.
func (h *ProductionHandler) ListTeamMembers(c *gin.Context) {
	members, err := h.svc.TeamMembers(models.Role(c.Query("role")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// CreateTeamMember adds a collaborator.
func (h *ProductionHandler) CreateTeamMember(c *gin.Context) {
	var req teamMemberRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	member := models.TeamMember{Name: req.Name, Role: models.Role(req.Role)}
	if req.BoxNumber != nil {
		box := models.BoxNumber(req.BoxNumber.Int())
		member.BoxNumber = &box
	}
	created, err := h.svc.AddTeamMember(c.Request.Context(), member)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListProduction returns production records, newest first.
func (h *ProductionHandler) ListProduction(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ProductionRecords())
}

// CreateProduction records a bagging batch.
func (h *ProductionHandler) CreateProduction(c *gin.Context) {
	var req productionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	record, err := h.svc.AddProductionRecord(c.Request.Context(), models.ProductionRecord{
		Date:         req.Date,
		Time:         req.Time,
		BoxNumber:    models.BoxNumber(req.BoxNumber.Int()),
		ProductID:    req.ProductID,
		Quantity:     req.Quantity.Int(),
		Observations: req.Observations,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// DeleteProduction removes a production record.
func (h *ProductionHandler) DeleteProduction(c *gin.Context) {
	if err := h.svc.DeleteProductionRecord(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPackaging returns packaging records, newest first.
func (h *ProductionHandler) ListPackaging(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.PackagingRecords())
}

// CreatePackaging records packed bags for a collaborator.
func (h *ProductionHandler) CreatePackaging(c *gin.Context) {
	var req packagingRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	record, err := h.svc.AddPackagingRecord(c.Request.Context(), models.PackagingRecord{
		Date:           req.Date,
		CollaboratorID: req.CollaboratorID,
		Quantity:       req.Quantity.Int(),
		ProductID:      req.ProductID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// DeletePackaging removes a packaging record.
func (h *ProductionHandler) DeletePackaging(c *gin.Context) {
	if err := h.svc.DeletePackagingRecord(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Daily returns the per-box totals of ?date= (today by default).
func (h *ProductionHandler) Daily(c *gin.Context) {
	daily, err := h.svc.Daily(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

// Hourly returns the 24 hourly buckets of ?date=.
func (h *ProductionHandler) Hourly(c *gin.Context) {
	hourly, err := h.svc.Hourly(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, hourly)
}

// Dashboard returns the KPIs of ?date=.
func (h *ProductionHandler) Dashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
