package service

import (
	"context"
	"fmt"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/engine"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// RepayDebt settles a cash/bank payment against the customer's standing
	// balances; a payment beyond the open debt becomes credit.
	RepayDebt(ctx context.Context, actor Actor, customerID uuid.UUID, req dto.RepayDebtRequest) (*dto.CustomerResponse, error)
}

type customerService struct {
	repo       repository.CustomerRepository
	ledgerRepo repository.LedgerRepository
	periodRepo repository.PeriodRepository
}

func NewCustomerService(
	repo repository.CustomerRepository,
	ledgerRepo repository.LedgerRepository,
	periodRepo repository.PeriodRepository,
) CustomerService {
	return &customerService{repo: repo, ledgerRepo: ledgerRepo, periodRepo: periodRepo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		Name:          req.Name,
		Phone:         req.Phone,
		CreditBalance: decimal.Zero,
		DebtBalance:   decimal.Zero,
		Active:        true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "customer not found")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, includeInactive bool) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, *customerToResponse(&customers[i]))
	}
	return resp, nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "customer not found")
	}
	if customer.DebtBalance.IsPositive() {
		return apierror.NewDomain(apierror.KindValidation,
			"cannot deactivate a customer with open debt")
	}
	customer.Active = false
	return s.repo.Update(ctx, customer)
}

func (s *customerService) RepayDebt(ctx context.Context, actor Actor, customerID uuid.UUID, req dto.RepayDebtRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "customer not found")
	}
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	paidAt, err := parseTime(req.PaidAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, paidAt); err != nil {
		return nil, err
	}

	// Nothing is due beyond the standing debt, so the payment runs through the
	// same settlement as a checkout with a zero invoice.
	rec := engine.Reconcile(decimal.Zero, req.Amount, customer.CreditBalance, customer.DebtBalance)

	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateBalancesTx(tx, customerID, rec.FinalCredit, rec.FinalDebt); err != nil {
			return err
		}
		in := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionIn,
			Channel: channel, Type: model.EntryDebtRepayment,
			OccurredAt: paidAt, AccountID: accountID,
			CustomerID:    &customerID,
			Description:   fmt.Sprintf("debt repayment from %s", customer.Name),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		if err := s.ledgerRepo.CreateTx(tx, &in); err != nil {
			return err
		}
		if !rec.SettledDebt.IsPositive() {
			return nil
		}
		// Mirror the settled portion out of the receivable channel so the
		// derived receivable balance tracks the remaining open debt.
		out := model.LedgerEntry{
			Amount: rec.SettledDebt, Direction: model.DirectionOut,
			Channel: model.ChannelReceivable, Type: model.EntryDebtRepayment,
			OccurredAt: paidAt,
			CustomerID: &customerID,
			Description:   fmt.Sprintf("debt settled by %s", customer.Name),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &out)
	})
	if err != nil {
		return nil, err
	}

	customer.CreditBalance = rec.FinalCredit
	customer.DebtBalance = rec.FinalDebt
	return customerToResponse(customer), nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Phone:         c.Phone,
		CreditBalance: c.CreditBalance,
		DebtBalance:   c.DebtBalance,
		Active:        c.Active,
	}
}
