package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/plugin/chat"
)

type fakeTurnProcessor struct {
	lastReq chat.TurnRequest
	result  *chat.TurnResult
	err     error
}

func (f *fakeTurnProcessor) ProcessTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(processor TurnProcessor) (*APIV1Service, *echo.Echo) {
	service := NewAPIV1Service(&profile.Profile{Mode: "dev", Version: "test"}, nil, processor)
	e := echo.New()
	service.Register(e)
	return service, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler(t *testing.T) {
	processor := &fakeTurnProcessor{
		result: &chat.TurnResult{SessionID: "s-123", Output: "你好 means hello."},
	}
	_, e := newTestService(processor)

	rec := doJSON(e, http.MethodPost, "/api/chat",
		`{"user_input": "What does 你好 mean?", "model_provider": "openai", "use_graph": false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "你好 means hello.", resp.Response.Output)
	require.Equal(t, "s-123", resp.SessionID)

	require.Equal(t, chat.ProviderOpenAI, processor.lastReq.Provider)
	require.False(t, processor.lastReq.Retrieval)
	require.Empty(t, processor.lastReq.SessionID)
}

func TestChatHandlerDefaults(t *testing.T) {
	processor := &fakeTurnProcessor{
		result: &chat.TurnResult{SessionID: "s-1", Output: "ok"},
	}
	_, e := newTestService(processor)

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"user_input": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Provider defaults to gemini, retrieval defaults to on.
	require.Equal(t, chat.ProviderGemini, processor.lastReq.Provider)
	require.True(t, processor.lastReq.Retrieval)
}

func TestChatHandlerInvalidProvider(t *testing.T) {
	processor := &fakeTurnProcessor{}
	_, e := newTestService(processor)

	rec := doJSON(e, http.MethodPost, "/api/chat",
		`{"user_input": "hi", "model_provider": "claude"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["detail"], "invalid model provider")

	// The turn never started.
	require.Empty(t, processor.lastReq.UserInput)
}

func TestChatHandlerTurnFailure(t *testing.T) {
	processor := &fakeTurnProcessor{err: errors.New("model invocation failed: rate limited")}
	_, e := newTestService(processor)

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"user_input": "hi"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Error processing request: model invocation failed: rate limited", resp["detail"])
}

func TestChatHandlerSessionPassthrough(t *testing.T) {
	processor := &fakeTurnProcessor{
		result: &chat.TurnResult{SessionID: "existing", Output: "ok"},
	}
	_, e := newTestService(processor)

	rec := doJSON(e, http.MethodPost, "/api/chat",
		`{"user_input": "hi", "session_id": "existing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "existing", processor.lastReq.SessionID)
}

func TestHealthHandler(t *testing.T) {
	_, e := newTestService(&fakeTurnProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRootHandler(t *testing.T) {
	_, e := newTestService(&fakeTurnProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "test", resp["version"])
}
