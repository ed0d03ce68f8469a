package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/upstream"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
	"github.com/labstack/echo/v4"
)

type GenerateRequest struct {
	ConfigName string                `json:"configName" validate:"required_without=Config"`
	Config     *domain.Configuration `json:"config"`
	Record     *model.OrderRecord    `json:"record" validate:"required"`
	Country    string                `json:"country" validate:"required"`
	Expected   map[string]any        `json:"expected"`
}

// PatchRequest generates from a record after applying an RFC 6902 patch to it.
type PatchRequest struct {
	GenerateRequest
	Patch json.RawMessage `json:"patch" validate:"required"`
}

type ValidateRequest struct {
	ConfigName string                   `json:"configName" validate:"required_without=Config"`
	Config     *domain.Configuration    `json:"config"`
	Vocabulary *domain.Vocabulary       `json:"vocabulary"`
	Previous   []domain.ValidationError `json:"previous"`
}

type ExpressionRequest struct {
	Expression string `json:"expression"`
}

type UpstreamRequest struct {
	Transaction *upstream.Transaction `json:"transaction"`
	Order       upstream.OrderDetails `json:"order" validate:"required"`
}

type handlers struct {
	svc    interfaces.EngineFacade
	strict bool
	now    func() time.Time
}

func (h *handlers) register(e *echo.Echo) {
	e.POST("/payloads", h.generate)
	e.PATCH("/payloads", h.patch)
	e.POST("/validations", h.validate)
	e.POST("/expressions/validate", h.validateExpression)
	e.POST("/records/upstream", h.upstreamRecord)
	e.GET("/invoicing-items", h.invoicingItems)
	e.GET("/metadata-variables", h.metadataVariables)
}

func (h *handlers) generate(c echo.Context) error {
	req, err := bindRequest[GenerateRequest](c)
	if err != nil {
		return err
	}
	return h.run(c, req, req.Record)
}

func (h *handlers) patch(c echo.Context) error {
	req, err := bindRequest[PatchRequest](c)
	if err != nil {
		return err
	}
	record, err := infrastructure.ApplyRecordPatch(req.Record, req.Patch, h.now())
	if err != nil {
		return httperror.WrapError(http.StatusUnprocessableEntity, err)
	}
	return h.run(c, req.GenerateRequest, record)
}

func (h *handlers) run(c echo.Context, req GenerateRequest, record *model.OrderRecord) error {
	report, err := h.svc.Generate(c.Request().Context(), engine.RunRequest{
		ConfigName: req.ConfigName,
		Config:     req.Config,
		Record:     record,
		Country:    req.Country,
		Expected:   req.Expected,
	})
	if err != nil {
		return err
	}
	if h.strict && !report.Success {
		return generationFailed(report)
	}
	return c.JSON(http.StatusOK, report)
}

// generationFailed reports the first failed field and carries the rest in meta.
func generationFailed(report *engine.RunReport) error {
	first := report.Errors[0]
	return domain.NewMappingError(first.Error).
		AddField(first.Field).
		AddCountry(report.Country).
		ToHTTPError().
		AddMetaValue("run_id", report.RunID).
		AddMetaValue("errors", report.Errors)
}

func (h *handlers) validate(c echo.Context) error {
	req, err := bindRequest[ValidateRequest](c)
	if err != nil {
		return err
	}
	report, err := h.svc.Validate(c.Request().Context(), engine.ValidationRequest{
		ConfigName: req.ConfigName,
		Config:     req.Config,
		Vocabulary: req.Vocabulary,
		Previous:   req.Previous,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handlers) validateExpression(c echo.Context) error {
	req, err := bindRequest[ExpressionRequest](c)
	if err != nil {
		return err
	}
	res, err := h.svc.ValidateExpression(c.Request().Context(), req.Expression)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) upstreamRecord(c echo.Context) error {
	req, err := bindRequest[UpstreamRequest](c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, upstream.MapToRecord(req.Transaction, req.Order, h.now()))
}

func (h *handlers) invoicingItems(c echo.Context) error {
	vocab, err := h.svc.Vocabulary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vocab.InvoicingItems)
}

func (h *handlers) metadataVariables(c echo.Context) error {
	vocab, err := h.svc.Vocabulary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vocab.MetadataVariables)
}
