package usecases

import (
	"context"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/ticket"
)

type GetTicketQuery struct {
	TicketID uint
}

type GetTicketUseCase struct {
	tickets ticket.Repository
}

func NewGetTicketUseCase(tickets ticket.Repository) *GetTicketUseCase {
	return &GetTicketUseCase{tickets: tickets}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := uc.tickets.GetByID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(t), nil
}
