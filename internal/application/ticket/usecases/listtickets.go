package usecases

import (
	"context"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/domain/ticket"
	"github.com/praxisops/praxis/internal/shared/utils"
)

type ListTicketsQuery struct {
	Status         *string
	Priority       *string
	CompanyID      *uint
	ModuleSlug     *string
	AssignedUserID *uint
	RequesterID    *uint
	Search         string
	Limit          int
	Offset         int
	SortBy         string
	SortOrder      string
}

type ListTicketsResult struct {
	Items  []*dto.TicketDTO `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type ListTicketsUseCase struct {
	tickets ticket.Repository
}

func NewListTicketsUseCase(tickets ticket.Repository) *ListTicketsUseCase {
	return &ListTicketsUseCase{tickets: tickets}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	page := utils.ValidatePagination(query.Limit, query.Offset)

	filter := ticket.Filter{
		Status:         query.Status,
		Priority:       query.Priority,
		CompanyID:      query.CompanyID,
		ModuleSlug:     query.ModuleSlug,
		AssignedUserID: query.AssignedUserID,
		RequesterID:    query.RequesterID,
		Search:         query.Search,
		Limit:          page.Limit,
		Offset:         page.Offset,
		SortBy:         query.SortBy,
		SortOrder:      query.SortOrder,
	}

	tickets, total, err := uc.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.FromTicket(t))
	}

	return &ListTicketsResult{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
