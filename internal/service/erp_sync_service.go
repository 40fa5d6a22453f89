package service

import (
	"context"
	"fmt"

	"github.com/nordcup-as/production-api/internal/repository"
	"go.uber.org/zap"
)

// erpSyncBatchSize caps how many customers a single sync run looks up.
const erpSyncBatchSize = 500

// AccountLookup is the subset of the ERP client used for account sync.
type AccountLookup interface {
	LookupAccountNumber(ctx context.Context, email, companyName string) (string, error)
	IsEnabled() bool
}

// ERPSyncService backfills ERP account numbers onto customers.
type ERPSyncService struct {
	customerRepo *repository.CustomerRepository
	erp          AccountLookup
	logger       *zap.Logger
}

func NewERPSyncService(
	customerRepo *repository.CustomerRepository,
	erp AccountLookup,
	logger *zap.Logger,
) *ERPSyncService {
	return &ERPSyncService{
		customerRepo: customerRepo,
		erp:          erp,
		logger:       logger,
	}
}

// SyncMissingAccounts looks up ERP account numbers for customers without
// one. Lookup failures for individual customers are logged and counted,
// not fatal.
func (s *ERPSyncService) SyncMissingAccounts(ctx context.Context) (int, int, error) {
	if s.erp == nil || !s.erp.IsEnabled() {
		return 0, 0, nil
	}

	customers, err := s.customerRepo.ListMissingERPAccount(ctx, erpSyncBatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list customers missing erp account: %w", err)
	}

	matched := 0
	unmatched := 0
	for i := range customers {
		customer := &customers[i]

		accountNumber, err := s.erp.LookupAccountNumber(ctx, customer.Email, customer.CompanyName)
		if err != nil {
			s.logger.Warn("erp account lookup failed",
				zap.String("customer_id", customer.ID.String()),
				zap.Error(err))
			unmatched++
			continue
		}
		if accountNumber == "" {
			unmatched++
			continue
		}

		customer.ERPAccountNumber = accountNumber
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			s.logger.Warn("failed to store erp account number",
				zap.String("customer_id", customer.ID.String()),
				zap.Error(err))
			unmatched++
			continue
		}
		matched++
	}

	return matched, unmatched, nil
}
