package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"entitle/internal/billing/controller/mocks"
	"entitle/internal/billing/ledger"
	"entitle/internal/billing/models"
	"entitle/internal/billing/nonce"
	"entitle/internal/notify"
)

type ReceiptSuite struct {
	suite.Suite

	gomockCtrl *gomock.Controller
	transport  *mocks.MockStorefrontTransport
	config     *mocks.MockConfigProvider
	notifier   *recorderNotifier
	store      *ledger.InMemoryStore
	controller *Controller
	now        time.Time
	ctx        context.Context
}

func TestReceiptSuite(t *testing.T) {
	suite.Run(t, new(ReceiptSuite))
}

func (s *ReceiptSuite) SetupTest() {
	s.gomockCtrl = gomock.NewController(s.T())
	s.transport = mocks.NewMockStorefrontTransport(s.gomockCtrl)
	s.config = mocks.NewMockConfigProvider(s.gomockCtrl)
	s.config.EXPECT().Salt(gomock.Any()).Return(nil).AnyTimes()
	s.notifier = &recorderNotifier{}
	s.store = ledger.NewInMemoryStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	logger := discardLogger()
	s.controller = New(
		s.transport, s.notifier, stubValidator{ok: true},
		nonce.NewInMemoryRegistry(), s.store, s.config, logger,
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ReceiptSuite) signIn(userID string) {
	if s.controller.Identity() != userID {
		s.transport.EXPECT().SendRestoreRequest(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		s.controller.OnUserChanged(s.ctx, userID)
	}
	s.notifier.reset()
}

func receipt(sku string, itemType models.ItemType, period *models.SubscriptionPeriod) models.Receipt {
	return models.Receipt{
		PurchaseToken:      "token-" + sku,
		SKU:                sku,
		ItemType:           itemType,
		SubscriptionPeriod: period,
	}
}

func (s *ReceiptSuite) TestOnUserChanged() {
	s.Run("new user restores transactions and resolves support", func() {
		s.transport.EXPECT().SendRestoreRequest(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(1)

		s.controller.OnUserChanged(s.ctx, "user-a")

		s.Equal("user-a", s.controller.Identity())
		s.Equal(models.StatusSupported, s.controller.CheckBillingSupported(s.ctx))
		s.Equal(models.StatusSupported, s.controller.CheckSubscriptionSupported(s.ctx))
	})

	s.Run("same user again is a no-op", func() {
		s.controller.OnUserChanged(s.ctx, "user-a")
	})
}

func (s *ReceiptSuite) TestOnPurchaseResult() {
	s.signIn("user-a")

	s.Run("successful purchase lands in the ledger", func() {
		r := receipt("sword", models.ItemConsumable, nil)
		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-a", SKU: "sword", Status: models.PurchaseSuccessful, Receipt: &r,
		})

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(stored, 1)
		s.Equal("sword", stored[0].ProductID)
		s.Equal(models.StatePurchased, stored[0].PurchaseState)
		s.Equal(s.now, stored[0].PurchaseTime)
		s.Len(s.notifier.byType(notify.EventPurchaseStateChanged), 1)
	})

	s.Run("subscription receipt collapses to its family sku", func() {
		r := receipt("gold.monthly", models.ItemSubscription, &models.SubscriptionPeriod{Start: s.now})
		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-a", SKU: "gold.monthly", Status: models.PurchaseSuccessful, Receipt: &r,
		})

		purchased, err := s.store.IsPurchased(s.ctx, "gold")
		s.Require().NoError(err)
		s.True(purchased)
	})

	s.Run("already entitled records nothing", func() {
		s.notifier.reset()
		before, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)

		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-a", SKU: "sword", Status: models.PurchaseAlreadyEntitled,
		})

		after, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Len(after, len(before))
		s.Empty(s.notifier.events)
	})

	s.Run("invalid sku maps to item unavailable", func() {
		s.notifier.reset()
		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-a", SKU: "nope", Status: models.PurchaseInvalidSKU,
		})

		events := s.notifier.byType(notify.EventPurchaseRequestResponse)
		s.Require().Len(events, 1)
		s.Equal(models.ResultItemUnavailable, events[0].ResponseCode)
	})

	s.Run("failure maps to a generic error", func() {
		s.notifier.reset()
		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-a", SKU: "sword", Status: models.PurchaseFailed,
		})

		events := s.notifier.byType(notify.EventPurchaseRequestResponse)
		s.Require().Len(events, 1)
		s.Equal(models.ResultError, events[0].ResponseCode)
	})

	s.Run("result for another user switches identity and restores", func() {
		s.transport.EXPECT().SendRestoreRequest(gomock.Any(), gomock.Any()).Return(int64(2), nil).Times(1)

		r := receipt("axe", models.ItemConsumable, nil)
		s.controller.OnPurchaseResult(s.ctx, models.PurchaseResult{
			UserID: "user-b", SKU: "axe", Status: models.PurchaseSuccessful, Receipt: &r,
		})

		s.Equal("user-b", s.controller.Identity())
		purchased, err := s.store.IsPurchased(s.ctx, "axe")
		s.Require().NoError(err)
		s.True(purchased)
	})
}

func (s *ReceiptSuite) TestOnPurchaseUpdates() {
	s.Run("update for a different user is dropped", func() {
		s.signIn("user-a")
		s.controller.OnPurchaseUpdates(s.ctx, models.PurchaseUpdate{
			UserID:   "user-b",
			Receipts: []models.Receipt{receipt("sword", models.ItemEntitled, nil)},
		})

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
		s.Empty(s.notifier.byType(notify.EventTransactionsRestored))
	})

	s.Run("revoked skus leave the ledger", func() {
		s.signIn("user-a")
		s.Require().NoError(s.store.Add(s.ctx, models.Transaction{
			OrderID: "o-1", ProductID: "sword", PurchaseState: models.StatePurchased, PurchaseTime: s.now,
		}))

		s.controller.OnPurchaseUpdates(s.ctx, models.PurchaseUpdate{
			UserID:      "user-a",
			RevokedSKUs: []string{"sword"},
		})

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
		s.Len(s.notifier.byType(notify.EventTransactionsRestored), 1)
	})

	s.Run("entitlements are restored idempotently", func() {
		s.signIn("user-a")
		update := models.PurchaseUpdate{
			UserID:   "user-a",
			Receipts: []models.Receipt{receipt("map-pack", models.ItemEntitled, nil)},
		}

		s.controller.OnPurchaseUpdates(s.ctx, update)
		s.controller.OnPurchaseUpdates(s.ctx, update)

		count, err := s.store.CountPurchases(s.ctx, "map-pack")
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("open latest period keeps the subscription", func() {
		s.signIn("user-a")
		closed := s.now.Add(-24 * time.Hour)
		s.controller.OnPurchaseUpdates(s.ctx, models.PurchaseUpdate{
			UserID: "user-a",
			Receipts: []models.Receipt{
				receipt("gold.1", models.ItemSubscription, &models.SubscriptionPeriod{
					Start: s.now.Add(-48 * time.Hour), End: &closed,
				}),
				receipt("gold.2", models.ItemSubscription, &models.SubscriptionPeriod{
					Start: s.now.Add(-12 * time.Hour),
				}),
			},
		})

		purchased, err := s.store.IsPurchased(s.ctx, "gold")
		s.Require().NoError(err)
		s.True(purchased)
	})

	s.Run("closed latest period expires the subscription", func() {
		s.signIn("user-a")
		s.Require().NoError(s.store.Add(s.ctx, models.Transaction{
			OrderID: "o-gold", ProductID: "gold", PurchaseState: models.StatePurchased, PurchaseTime: s.now,
		}))
		ended := s.now.Add(-time.Hour)
		s.controller.OnPurchaseUpdates(s.ctx, models.PurchaseUpdate{
			UserID: "user-a",
			Receipts: []models.Receipt{
				receipt("gold.1", models.ItemSubscription, &models.SubscriptionPeriod{
					Start: s.now.Add(-48 * time.Hour), End: &ended,
				}),
			},
		})

		purchased, err := s.store.IsPurchased(s.ctx, "gold")
		s.Require().NoError(err)
		s.False(purchased)

		events := s.notifier.byType(notify.EventPurchaseStateChanged)
		s.Require().Len(events, 1)
		s.Equal("gold", events[0].ProductID)
		s.Equal(models.StateCanceled, events[0].State)
	})

	s.Run("tied starts with an end-dated candidate expire the subscription", func() {
		s.signIn("user-a")
		s.Require().NoError(s.store.Add(s.ctx, models.Transaction{
			OrderID: "o-gold-tied", ProductID: "gold", PurchaseState: models.StatePurchased, PurchaseTime: s.now,
		}))
		start := s.now.Add(-10 * time.Hour)
		ended := s.now.Add(-time.Hour)
		s.controller.OnPurchaseUpdates(s.ctx, models.PurchaseUpdate{
			UserID: "user-a",
			Receipts: []models.Receipt{
				receipt("gold.a", models.ItemSubscription, &models.SubscriptionPeriod{Start: start}),
				receipt("gold.b", models.ItemSubscription, &models.SubscriptionPeriod{Start: start, End: &ended}),
			},
		})

		purchased, err := s.store.IsPurchased(s.ctx, "gold")
		s.Require().NoError(err)
		s.False(purchased, "an end-dated candidate among the tied latest periods removes the family entry")

		events := s.notifier.byType(notify.EventPurchaseStateChanged)
		s.Require().Len(events, 1)
		s.Equal("gold", events[0].ProductID)
		s.Equal(models.StateCanceled, events[0].State)
	})
}
