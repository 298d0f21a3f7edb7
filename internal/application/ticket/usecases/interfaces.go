// Package usecases holds the ticket store application operations.
package usecases

import (
	"context"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/ticket"
)

// StatusResolver is the slice of the status engine the ticket store needs.
type StatusResolver interface {
	ResolveStatusOrDefault(ctx context.Context, raw string) (*ticket.StatusDefinition, error)
	ValidateStatusChoice(ctx context.Context, raw string) (*ticket.StatusDefinition, error)
	IsTerminal(slug string) bool
}

// BodySanitizer cleans user-authored reply bodies. ok=false means nothing
// visible survived and the reply must be rejected.
type BodySanitizer interface {
	SanitizeBody(body string) (clean string, ok bool)
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error)
}

type AddReplyExecutor interface {
	Execute(ctx context.Context, cmd AddReplyCommand) (*dto.ReplyDTO, error)
}

type ListRepliesExecutor interface {
	Execute(ctx context.Context, query ListRepliesQuery) ([]*dto.ReplyDTO, error)
}

type AddWatcherExecutor interface {
	Execute(ctx context.Context, cmd WatcherCommand) error
}

type RemoveWatcherExecutor interface {
	Execute(ctx context.Context, cmd WatcherCommand) error
}

type ListWatchersExecutor interface {
	Execute(ctx context.Context, ticketID uint) ([]*dto.WatcherDTO, error)
}
