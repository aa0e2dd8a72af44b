//go:build integration

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"entitle/internal/billing/ledger"
	"entitle/internal/billing/models"
	"entitle/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *ledger.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.ApplySchema(s.T(), "schema.sql")
	s.store = ledger.NewPostgresStore(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "billing_transactions"))
}

func record(item string, state models.PurchaseState) models.Transaction {
	return models.Transaction{
		OrderID:        "order-" + item,
		ProductID:      item,
		NotificationID: "notify-" + item,
		PurchaseState:  state,
		PurchaseTime:   time.Date(2013, 4, 2, 12, 0, 0, 0, time.UTC),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	want := record("ob-sword", models.StatePurchased)
	want.DeveloperPayload = "ob-payload"
	s.Require().NoError(s.store.Add(s.ctx, want))

	got, err := s.store.GetByItem(s.ctx, "ob-sword")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(want, got[0])
}

func (s *PostgresStoreSuite) TestInsertionOrderPreserved() {
	for _, item := range []string{"ob-c", "ob-a", "ob-b"} {
		s.Require().NoError(s.store.Add(s.ctx, record(item, models.StatePurchased)))
	}
	all, err := s.store.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("ob-c", all[0].ProductID)
	s.Equal("ob-a", all[1].ProductID)
	s.Equal("ob-b", all[2].ProductID)
}

// Cancellations are intentionally not subtracted from the purchase count.
func (s *PostgresStoreSuite) TestCountPurchasesIgnoresCancellations() {
	for range 3 {
		s.Require().NoError(s.store.Add(s.ctx, record("ob-potion", models.StatePurchased)))
	}
	s.Require().NoError(s.store.Add(s.ctx, record("ob-potion", models.StateCanceled)))

	count, err := s.store.CountPurchases(s.ctx, "ob-potion")
	s.Require().NoError(err)
	s.Equal(3, count)

	s.Require().NoError(s.store.Add(s.ctx, record("ob-potion", models.StatePurchased)))
	count, err = s.store.CountPurchases(s.ctx, "ob-potion")
	s.Require().NoError(err)
	s.Equal(4, count)
}

func (s *PostgresStoreSuite) TestRemoveByItems() {
	s.Require().NoError(s.store.Add(s.ctx, record("ob-a", models.StatePurchased)))
	s.Require().NoError(s.store.Add(s.ctx, record("ob-b", models.StatePurchased)))
	s.Require().NoError(s.store.Add(s.ctx, record("ob-c", models.StatePurchased)))

	s.Require().NoError(s.store.RemoveByItems(s.ctx, []string{"ob-a", "ob-c"}))

	all, err := s.store.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("ob-b", all[0].ProductID)

	purchased, err := s.store.IsPurchased(s.ctx, "ob-a")
	s.Require().NoError(err)
	s.False(purchased)
}
