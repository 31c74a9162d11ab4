// Package v1 carries the REST surface of the chat server.
package v1

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/plugin/chat"
	"github.com/miachat/miachat/store"
)

// TurnProcessor drives one conversational turn. Satisfied by
// *chat.Orchestrator.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error)
}

type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Orchestrator TurnProcessor
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, orchestrator TurnProcessor) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Store:        store,
		Orchestrator: orchestrator,
	}
}

// Register mounts the API routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/", s.Root)
	g.GET("/health", s.Health)
	g.POST("/chat", s.Chat)
	g.GET("/sessions/:id/messages", s.ListSessionMessages)
}
