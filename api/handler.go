package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/siherrmann/docqa/model"
)

// QueryService answers natural-language questions. Satisfied by docqa.DocQA.
type QueryService interface {
	AnswerQuestion(ctx context.Context, question string) (*model.QueryResult, error)
}

// Handler exposes the query pipeline over HTTP. The wire format keeps the
// field names of the original service API.
type Handler struct {
	service QueryService
	log     *slog.Logger
}

// NewHandler creates a new query handler.
func NewHandler(service QueryService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     logger,
	}
}

// RegisterRoutes mounts the query endpoints on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.POST("/rag", h.Query)
}

type queryRequest struct {
	Pregunta string `json:"pregunta"`
}

type queryResult struct {
	Ruta      string  `json:"ruta"`
	Contenido string  `json:"contenido"`
	Score     float64 `json:"score"`
}

type queryResponse struct {
	Resultados     []queryResult `json:"resultados"`
	Respuesta      *string       `json:"respuesta"`
	RespuestaError *string       `json:"respuestaError"`
}

// Ping reports service liveness.
func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Query answers one question. A missing question is a client error, any
// pipeline failure a server error; a generation failure is neither and
// comes back inside the response body.
func (h *Handler) Query(c echo.Context) error {
	requestID := uuid.New().String()

	var req queryRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Pregunta) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "falta campo pregunta"})
	}

	result, err := h.service.AnswerQuestion(c.Request().Context(), req.Pregunta)
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "falta campo pregunta"})
		}
		h.log.Error("query pipeline failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "fallo en rag"})
	}

	response := queryResponse{
		Resultados: make([]queryResult, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		response.Resultados = append(response.Resultados, queryResult{
			Ruta:      r.SourceID,
			Contenido: r.Content,
			Score:     r.Score,
		})
	}
	if result.Answer != nil {
		response.Respuesta = result.Answer.Text
		response.RespuestaError = result.Answer.GenerationError
	}

	h.log.Info("answered question",
		slog.String("request_id", requestID),
		slog.Int("results", len(response.Resultados)),
	)

	return c.JSON(http.StatusOK, response)
}
