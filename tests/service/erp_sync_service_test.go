package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"github.com/nordcup-as/production-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAccountLookup returns canned account numbers keyed by email
type fakeAccountLookup struct {
	accounts map[string]string
	failFor  map[string]bool
	enabled  bool
}

func (f *fakeAccountLookup) LookupAccountNumber(ctx context.Context, email, companyName string) (string, error) {
	if f.failFor[email] {
		return "", errors.New("erp unavailable")
	}
	return f.accounts[email], nil
}

func (f *fakeAccountLookup) IsEnabled() bool {
	return f.enabled
}

func TestERPSyncService_SyncMissingAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerRepo := repository.NewCustomerRepository(db)

	matched := testutil.CreateTestCustomer(t, db, "Matched AS")
	unmatched := testutil.CreateTestCustomer(t, db, "Unmatched AS")
	failing := testutil.CreateTestCustomer(t, db, "Failing AS")

	alreadySynced := testutil.CreateTestCustomer(t, db, "Synced AS")
	alreadySynced.ERPAccountNumber = "ACC-0042"
	require.NoError(t, db.Save(alreadySynced).Error)

	lookup := &fakeAccountLookup{
		enabled:  true,
		accounts: map[string]string{matched.Email: "ACC-1001"},
		failFor:  map[string]bool{failing.Email: true},
	}
	svc := service.NewERPSyncService(customerRepo, lookup, zap.NewNop())

	gotMatched, gotUnmatched, err := svc.SyncMissingAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gotMatched)
	assert.Equal(t, 2, gotUnmatched) // no account found + lookup failure

	var stored domain.Customer
	require.NoError(t, db.First(&stored, "id = ?", matched.ID).Error)
	assert.Equal(t, "ACC-1001", stored.ERPAccountNumber)

	stored = domain.Customer{}
	require.NoError(t, db.First(&stored, "id = ?", unmatched.ID).Error)
	assert.Empty(t, stored.ERPAccountNumber)
}

func TestERPSyncService_DisabledIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerRepo := repository.NewCustomerRepository(db)
	testutil.CreateTestCustomer(t, db, "Untouched AS")

	svc := service.NewERPSyncService(customerRepo, &fakeAccountLookup{enabled: false}, zap.NewNop())
	matched, unmatched, err := svc.SyncMissingAccounts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, matched)
	assert.Zero(t, unmatched)
}
