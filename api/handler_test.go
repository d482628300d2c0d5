package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/siherrmann/docqa/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueryService struct {
	result       *model.QueryResult
	err          error
	lastQuestion string
}

func (s *fakeQueryService) AnswerQuestion(ctx context.Context, question string) (*model.QueryResult, error) {
	s.lastQuestion = question
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func performQuery(t *testing.T, service QueryService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	handler := NewHandler(service, testLogger())
	handler.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/rag", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestHandlerPing(t *testing.T) {
	t.Run("Ping reports ok", func(t *testing.T) {
		e := echo.New()
		handler := NewHandler(&fakeQueryService{}, testLogger())
		handler.RegisterRoutes(e)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	})
}

func TestHandlerQuery(t *testing.T) {
	t.Run("Valid question returns results and answer", func(t *testing.T) {
		text := "a grounded answer (Source 1)"
		service := &fakeQueryService{
			result: &model.QueryResult{
				Results: []*model.RetrievalResult{
					{SourceID: "notes.md#0", Content: "first passage", Score: 0.9},
				},
				Answer: &model.Answer{Text: &text, GroundedIn: []string{"notes.md#0"}},
			},
		}

		rec := performQuery(t, service, `{"pregunta":"where is the treasure?"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "where is the treasure?", service.lastQuestion)

		var response queryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Equal(t, 1, len(response.Resultados))
		assert.Equal(t, "notes.md#0", response.Resultados[0].Ruta)
		assert.Equal(t, "first passage", response.Resultados[0].Contenido)
		assert.Equal(t, 0.9, response.Resultados[0].Score)
		require.NotNil(t, response.Respuesta)
		assert.Equal(t, text, *response.Respuesta)
		assert.Nil(t, response.RespuestaError)
	})

	t.Run("Generation failure stays in the response body", func(t *testing.T) {
		genErr := "generation failed: llm returned 500"
		service := &fakeQueryService{
			result: &model.QueryResult{
				Results: []*model.RetrievalResult{
					{SourceID: "notes.md#0", Content: "first passage", Score: 0.9},
				},
				Answer: &model.Answer{GenerationError: &genErr},
			},
		}

		rec := performQuery(t, service, `{"pregunta":"a question"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var response queryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Nil(t, response.Respuesta)
		require.NotNil(t, response.RespuestaError)
		assert.Contains(t, *response.RespuestaError, "500")
	})

	t.Run("Missing question field", func(t *testing.T) {
		rec := performQuery(t, &fakeQueryService{}, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"falta campo pregunta"}`, rec.Body.String())
	})

	t.Run("Whitespace-only question field", func(t *testing.T) {
		rec := performQuery(t, &fakeQueryService{}, `{"pregunta":"   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"falta campo pregunta"}`, rec.Body.String())
	})

	t.Run("Malformed body", func(t *testing.T) {
		rec := performQuery(t, &fakeQueryService{}, `{"pregunta":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Validation error from the service", func(t *testing.T) {
		service := &fakeQueryService{err: &model.ValidationError{Field: "question"}}

		rec := performQuery(t, service, `{"pregunta":"a question"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"falta campo pregunta"}`, rec.Body.String())
	})

	t.Run("Pipeline failure is a server error", func(t *testing.T) {
		service := &fakeQueryService{err: &model.EmbeddingServiceError{Err: fmt.Errorf("connection refused")}}

		rec := performQuery(t, service, `{"pregunta":"a question"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"fallo en rag"}`, rec.Body.String())
	})
}
