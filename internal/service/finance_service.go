package service

import (
	"context"
	"fmt"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinanceService interface {
	CreateExpense(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.EntityResponse, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreatePurchase(ctx context.Context, actor Actor, req dto.CreatePurchaseRequest) (*dto.EntityResponse, error)
	ListPurchases(ctx context.Context) ([]model.Purchase, error)
	DeletePurchase(ctx context.Context, id uuid.UUID) error

	CreateLoan(ctx context.Context, actor Actor, req dto.CreateLoanRequest) (*dto.EntityResponse, error)
	RepayLoan(ctx context.Context, actor Actor, loanID uuid.UUID, req dto.RepayLoanRequest) error
	ListLoans(ctx context.Context) ([]model.Loan, error)

	CreateTransfer(ctx context.Context, actor Actor, req dto.CreateTransferRequest) (*dto.EntityResponse, error)
	ListTransfers(ctx context.Context) ([]model.Transfer, error)
	DeleteTransfer(ctx context.Context, id uuid.UUID) error

	CreatePartnerDebt(ctx context.Context, actor Actor, req dto.CreatePartnerDebtRequest) (*dto.EntityResponse, error)
	ListPartnerDebts(ctx context.Context) ([]model.PartnerDebt, error)

	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.EntityResponse, error)
	ListBankAccounts(ctx context.Context) ([]model.BankAccount, error)
}

type financeService struct {
	repo       repository.FinanceRepository
	ledgerRepo repository.LedgerRepository
	periodRepo repository.PeriodRepository
	ledger     LedgerService
}

func NewFinanceService(
	repo repository.FinanceRepository,
	ledgerRepo repository.LedgerRepository,
	periodRepo repository.PeriodRepository,
	ledger LedgerService,
) FinanceService {
	return &financeService{repo: repo, ledgerRepo: ledgerRepo, periodRepo: periodRepo, ledger: ledger}
}

// resolveChannel validates the channel/account pairing shared by every
// outflow and inflow request.
func resolveChannel(channel string, accountID *string) (model.Channel, *uuid.UUID, error) {
	ch := model.Channel(channel)
	acc, err := parseUUIDPtr(accountID)
	if err != nil {
		return "", nil, err
	}
	if ch == model.ChannelBank && acc == nil {
		return "", nil, apierror.NewDomain(apierror.KindValidation,
			"bank operations require an account id")
	}
	return ch, acc, nil
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *financeService) CreateExpense(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.EntityResponse, error) {
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	partnerID, err := parseUUIDPtr(req.PartnerID)
	if err != nil {
		return nil, err
	}
	spentAt, err := parseTime(req.SpentAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, spentAt); err != nil {
		return nil, err
	}
	if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return nil, err
	}

	expense := &model.Expense{
		Title:     req.Title,
		Amount:    req.Amount,
		Channel:   channel,
		AccountID: accountID,
		PartnerID: partnerID,
		SpentAt:   spentAt,
	}

	// An expense marked with a partner is a repayment of that partner's loan
	// to the place; the distribution calculator tracks it separately.
	entryType := model.EntryExpense
	if partnerID != nil {
		entryType = model.EntryPartnerRepayment
	}

	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateExpenseTx(tx, expense); err != nil {
			return err
		}
		ref := expense.ID
		entry := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionOut,
			Channel: channel, Type: entryType,
			OccurredAt: spentAt, AccountID: accountID,
			PartnerID: partnerID, ParentID: &ref,
			Description:   req.Title,
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: expense.ID.String()}, nil
}

func (s *financeService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	return s.repo.ListExpenses(ctx, nil, nil)
}

func (s *financeService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.repo.FindExpenseByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "expense not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, expense.SpentAt); err != nil {
		return err
	}
	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByParentTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteExpenseTx(tx, id)
	})
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (s *financeService) CreatePurchase(ctx context.Context, actor Actor, req dto.CreatePurchaseRequest) (*dto.EntityResponse, error) {
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	partnerID, err := parseUUIDPtr(req.PartnerID)
	if err != nil {
		return nil, err
	}
	purchasedAt, err := parseTime(req.PurchasedAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, purchasedAt); err != nil {
		return nil, err
	}
	if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		Title:       req.Title,
		Amount:      req.Amount,
		Channel:     channel,
		AccountID:   accountID,
		PartnerID:   partnerID,
		PurchasedAt: purchasedAt,
	}

	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreatePurchaseTx(tx, purchase); err != nil {
			return err
		}
		ref := purchase.ID
		entry := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionOut,
			Channel: channel, Type: model.EntryPurchase,
			OccurredAt: purchasedAt, AccountID: accountID,
			PartnerID: partnerID, ParentID: &ref,
			Description:   req.Title,
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: purchase.ID.String()}, nil
}

func (s *financeService) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	return s.repo.ListPurchases(ctx, nil, nil)
}

func (s *financeService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.repo.FindPurchaseByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "purchase not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, purchase.PurchasedAt); err != nil {
		return err
	}
	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByParentTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeletePurchaseTx(tx, id)
	})
}

// ── Loans ────────────────────────────────────────────────────────────────────

func (s *financeService) CreateLoan(ctx context.Context, actor Actor, req dto.CreateLoanRequest) (*dto.EntityResponse, error) {
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	receivedAt, err := parseTime(req.ReceivedAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, receivedAt); err != nil {
		return nil, err
	}

	loan := &model.Loan{
		LenderName: req.LenderName,
		Amount:     req.Amount,
		Channel:    channel,
		AccountID:  accountID,
		ReceivedAt: receivedAt,
	}
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateLoanTx(tx, loan); err != nil {
			return err
		}
		ref := loan.ID
		entry := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionIn,
			Channel: channel, Type: model.EntryLoanReceipt,
			OccurredAt: receivedAt, AccountID: accountID, ParentID: &ref,
			Description:   fmt.Sprintf("loan from %s", req.LenderName),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: loan.ID.String()}, nil
}

func (s *financeService) RepayLoan(ctx context.Context, actor Actor, loanID uuid.UUID, req dto.RepayLoanRequest) error {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "loan not found")
	}
	outstanding := loan.Amount.Sub(loan.Repaid)
	if req.Amount.GreaterThan(outstanding) {
		return apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("repayment %s exceeds outstanding %s",
				req.Amount.StringFixed(2), outstanding.StringFixed(2)))
	}

	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return err
	}
	repaidAt, err := parseTime(req.RepaidAt)
	if err != nil {
		return err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, repaidAt); err != nil {
		return err
	}
	if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return err
	}

	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		loan.Repaid = loan.Repaid.Add(req.Amount)
		if err := s.repo.SaveLoanTx(tx, loan); err != nil {
			return err
		}
		ref := loan.ID
		entry := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionOut,
			Channel: channel, Type: model.EntryLoanRepayment,
			OccurredAt: repaidAt, AccountID: accountID, ParentID: &ref,
			Description:   fmt.Sprintf("loan repayment to %s", loan.LenderName),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &entry)
	})
}

func (s *financeService) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListLoans(ctx)
}

// ── Transfers ────────────────────────────────────────────────────────────────
// A transfer is recorded as two single-channel entries (out of the source, in
// to the destination) sharing the transfer as parent, so balance derivation
// stays a uniform per-channel sum.

func (s *financeService) CreateTransfer(ctx context.Context, actor Actor, req dto.CreateTransferRequest) (*dto.EntityResponse, error) {
	from := model.Channel(req.FromChannel)
	to := model.Channel(req.ToChannel)
	if from == to {
		return nil, apierror.NewDomain(apierror.KindValidation, "transfer channels must differ")
	}
	accountID, err := parseUUIDPtr(req.AccountID)
	if err != nil {
		return nil, err
	}
	if (from == model.ChannelBank || to == model.ChannelBank) && accountID == nil {
		return nil, apierror.NewDomain(apierror.KindValidation,
			"bank transfers require an account id")
	}
	if to == model.ChannelBank && req.SenderName == "" {
		return nil, apierror.NewDomain(apierror.KindValidation,
			"bank deposits require a sender name")
	}
	movedAt, err := parseTime(req.MovedAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, movedAt); err != nil {
		return nil, err
	}

	var srcAccount *uuid.UUID
	if from == model.ChannelBank {
		srcAccount = accountID
	}
	if err := s.ledger.AssertSufficientFunds(ctx, from, srcAccount, req.Amount); err != nil {
		return nil, err
	}

	transfer := &model.Transfer{
		Amount:      req.Amount,
		FromChannel: from,
		ToChannel:   to,
		AccountID:   accountID,
		SenderName:  req.SenderName,
		MovedAt:     movedAt,
	}
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTransferTx(tx, transfer); err != nil {
			return err
		}
		ref := transfer.ID
		out := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionOut,
			Channel: from, Type: model.EntryTransfer,
			OccurredAt: movedAt, ParentID: &ref,
			Description:   fmt.Sprintf("transfer %s to %s", from, to),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		if from == model.ChannelBank {
			out.AccountID = accountID
		}
		if err := s.ledgerRepo.CreateTx(tx, &out); err != nil {
			return err
		}
		in := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionIn,
			Channel: to, Type: model.EntryTransfer,
			OccurredAt: movedAt, ParentID: &ref,
			Description:   fmt.Sprintf("transfer %s from %s", to, from),
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		if to == model.ChannelBank {
			in.AccountID = accountID
		}
		return s.ledgerRepo.CreateTx(tx, &in)
	})
	if err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: transfer.ID.String()}, nil
}

func (s *financeService) ListTransfers(ctx context.Context) ([]model.Transfer, error) {
	return s.repo.ListTransfers(ctx)
}

func (s *financeService) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	transfers, err := s.repo.ListTransfers(ctx)
	if err != nil {
		return err
	}
	var transfer *model.Transfer
	for i := range transfers {
		if transfers[i].ID == id {
			transfer = &transfers[i]
			break
		}
	}
	if transfer == nil {
		return apierror.NewDomain(apierror.KindNotFound, "transfer not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, transfer.MovedAt); err != nil {
		return err
	}
	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByParentTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTransferTx(tx, id)
	})
}

// ── Partner withdrawals ──────────────────────────────────────────────────────

func (s *financeService) CreatePartnerDebt(ctx context.Context, actor Actor, req dto.CreatePartnerDebtRequest) (*dto.EntityResponse, error) {
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindValidation, "invalid partner_id")
	}
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	withdrawnAt, err := parseTime(req.WithdrawnAt)
	if err != nil {
		return nil, err
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, withdrawnAt); err != nil {
		return nil, err
	}
	if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return nil, err
	}

	debt := &model.PartnerDebt{
		PartnerID:   partnerID,
		Amount:      req.Amount,
		Channel:     channel,
		AccountID:   accountID,
		WithdrawnAt: withdrawnAt,
	}
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreatePartnerDebtTx(tx, debt); err != nil {
			return err
		}
		ref := debt.ID
		entry := model.LedgerEntry{
			Amount: req.Amount, Direction: model.DirectionOut,
			Channel: channel, Type: model.EntryPartnerWithdrawal,
			OccurredAt: withdrawnAt, AccountID: accountID,
			PartnerID: &partnerID, ParentID: &ref,
			Description:   "partner withdrawal ahead of distribution",
			PerformedByID: actor.ID, PerformedByName: actor.Name,
		}
		return s.ledgerRepo.CreateTx(tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: debt.ID.String()}, nil
}

func (s *financeService) ListPartnerDebts(ctx context.Context) ([]model.PartnerDebt, error) {
	return s.repo.ListPartnerDebts(ctx)
}

// ── Bank accounts ────────────────────────────────────────────────────────────

func (s *financeService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*dto.EntityResponse, error) {
	account := &model.BankAccount{Name: req.Name, Number: req.Number, Active: true}
	if err := s.repo.CreateBankAccount(ctx, account); err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: account.ID.String()}, nil
}

func (s *financeService) ListBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	return s.repo.ListBankAccounts(ctx)
}
