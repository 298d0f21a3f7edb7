package usecases

import (
	"context"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/ticket"
)

// ListRepliesQuery carries the caller's authority: IncludeInternal is set by
// the handler only for technicians and super admins.
type ListRepliesQuery struct {
	TicketID        uint
	IncludeInternal bool
}

type ListRepliesUseCase struct {
	tickets ticket.Repository
}

func NewListRepliesUseCase(tickets ticket.Repository) *ListRepliesUseCase {
	return &ListRepliesUseCase{tickets: tickets}
}

func (uc *ListRepliesUseCase) Execute(ctx context.Context, query ListRepliesQuery) ([]*dto.ReplyDTO, error) {
	if _, err := uc.tickets.GetByID(ctx, query.TicketID); err != nil {
		return nil, err
	}

	replies, err := uc.tickets.ListReplies(ctx, query.TicketID, query.IncludeInternal)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ReplyDTO, 0, len(replies))
	for _, r := range replies {
		items = append(items, dto.FromReply(r))
	}
	return items, nil
}
