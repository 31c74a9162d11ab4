package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/miachat/miachat/plugin/chat"
	"github.com/miachat/miachat/store"
)

// ChatRequest is the body of POST /api/chat. SessionID and UseGraph are
// pointers to distinguish "absent" from zero values: a missing session id
// starts a new session, a missing use_graph defaults to true.
type ChatRequest struct {
	UserInput     string  `json:"user_input"`
	SessionID     *string `json:"session_id"`
	ModelProvider string  `json:"model_provider"`
	UseGraph      *bool   `json:"use_graph"`
}

type ChatOutput struct {
	Output string `json:"output"`
}

type ChatResponse struct {
	Response  ChatOutput `json:"response"`
	SessionID string     `json:"session_id"`
}

func errorDetail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

// Chat handles one conversational turn.
func (s *APIV1Service) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorDetail("Invalid request body"))
	}

	provider, err := chat.ParseModelProvider(req.ModelProvider)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorDetail(err.Error()))
	}

	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	retrieval := true
	if req.UseGraph != nil {
		retrieval = *req.UseGraph
	}

	result, err := s.Orchestrator.ProcessTurn(c.Request().Context(), chat.TurnRequest{
		SessionID: sessionID,
		UserInput: req.UserInput,
		Provider:  provider,
		Retrieval: retrieval,
	})
	if err != nil {
		if errors.Is(err, chat.ErrInvalidProvider) {
			return c.JSON(http.StatusBadRequest, errorDetail(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, errorDetail("Error processing request: "+err.Error()))
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response:  ChatOutput{Output: result.Output},
		SessionID: result.SessionID,
	})
}

func (s *APIV1Service) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the mIA chat API",
		"version": s.Profile.Version,
	})
}

func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SessionMessage is one linear-history entry as exposed over the API.
type SessionMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type SessionMessagesResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []SessionMessage `json:"messages"`
}

// ListSessionMessages returns a session's linear history in chronological
// order.
func (s *APIV1Service) ListSessionMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("id")

	session, err := s.Store.GetChatSession(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorDetail("Error processing request: "+err.Error()))
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, errorDetail("Session not found"))
	}

	rows, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &sessionID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorDetail("Error processing request: "+err.Error()))
	}

	messages := make([]SessionMessage, len(rows))
	for i, row := range rows {
		messages[i] = SessionMessage{
			Role:      row.Role,
			Content:   row.Content,
			Timestamp: row.CreatedTs,
		}
	}
	return c.JSON(http.StatusOK, SessionMessagesResponse{
		SessionID: sessionID,
		Messages:  messages,
	})
}
