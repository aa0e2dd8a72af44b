package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
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

// recorderNotifier captures emitted events for assertions.
type recorderNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorderNotifier) Notify(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorderNotifier) byType(t notify.EventType) []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorderNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// stubValidator accepts or rejects every payload.
type stubValidator struct{ ok bool }

func (v stubValidator) Validate(_, _ string) bool { return v.ok }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ControllerSuite struct {
	suite.Suite

	gomockCtrl *gomock.Controller
	transport  *mocks.MockStorefrontTransport
	config     *mocks.MockConfigProvider
	notifier   *recorderNotifier
	nonces     *nonce.InMemoryRegistry
	store      *ledger.InMemoryStore
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.gomockCtrl = gomock.NewController(s.T())
	s.transport = mocks.NewMockStorefrontTransport(s.gomockCtrl)
	s.config = mocks.NewMockConfigProvider(s.gomockCtrl)
	s.notifier = &recorderNotifier{}
	s.nonces = nonce.NewInMemoryRegistry()
	s.store = ledger.NewInMemoryStore()
	s.ctx = context.Background()
}

// Each subtest gets its own store, registry and mocks.
func (s *ControllerSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *ControllerSuite) newController(opts ...Option) *Controller {
	return New(s.transport, s.notifier, stubValidator{ok: true}, s.nonces, s.store, s.config, discardLogger(), opts...)
}

// plaintextSalt disables obfuscation so assertions can read the ledger directly.
func (s *ControllerSuite) plaintextSalt() {
	s.config.EXPECT().Salt(gomock.Any()).Return(nil).AnyTimes()
}

func signedPayload(n uint64, orders ...string) string {
	out := fmt.Sprintf(`{"nonce":%d,"orders":[`, n)
	for i, o := range orders {
		if i > 0 {
			out += ","
		}
		out += o
	}
	return out + "]}"
}

func order(productID, notificationID string, state models.PurchaseState) string {
	return fmt.Sprintf(
		`{"notificationId":%q,"orderId":"order-%s","productId":%q,"purchaseTime":1700000000000,"purchaseState":%d,"developerPayload":""}`,
		notificationID, productID, productID, state,
	)
}

func (s *ControllerSuite) TestCheckBillingSupported() {
	s.Run("unknown status sends a support check", func() {
		c := s.newController()
		s.transport.EXPECT().SendSupportCheck(gomock.Any(), models.CapabilityItems).Return(int64(1), nil)

		s.Equal(models.StatusUnknown, c.CheckBillingSupported(s.ctx))
		s.Empty(s.notifier.byType(notify.EventBillingChecked))

		c.OnResponseCode(s.ctx, 1, models.ResultOK)
		events := s.notifier.byType(notify.EventBillingChecked)
		s.Require().Len(events, 1)
		s.True(events[0].Supported)
	})

	s.Run("resolved status re-emits without a transport call", func() {
		c := s.newController()
		s.transport.EXPECT().SendSupportCheck(gomock.Any(), models.CapabilityItems).Return(int64(1), nil).Times(1)

		c.CheckBillingSupported(s.ctx)
		c.OnResponseCode(s.ctx, 1, models.ResultOK)
		s.notifier.reset()

		s.Equal(models.StatusSupported, c.CheckBillingSupported(s.ctx))
		s.Len(s.notifier.byType(notify.EventBillingChecked), 1)
	})

	s.Run("unsupported billing implies unsupported subscriptions", func() {
		c := s.newController()
		s.transport.EXPECT().SendSupportCheck(gomock.Any(), models.CapabilityItems).Return(int64(1), nil)

		c.CheckBillingSupported(s.ctx)
		c.OnResponseCode(s.ctx, 1, models.ResultBillingUnavailable)

		s.Equal(models.StatusUnsupported, c.CheckSubscriptionSupported(s.ctx))
		events := s.notifier.byType(notify.EventSubscriptionChecked)
		s.Require().Len(events, 1)
		s.False(events[0].Supported)
	})

	s.Run("supported subscriptions imply supported billing", func() {
		c := s.newController()
		s.transport.EXPECT().SendSupportCheck(gomock.Any(), models.CapabilitySubscriptions).Return(int64(2), nil)

		c.CheckSubscriptionSupported(s.ctx)
		c.OnResponseCode(s.ctx, 2, models.ResultOK)

		s.Equal(models.StatusSupported, c.CheckBillingSupported(s.ctx))
		s.Len(s.notifier.byType(notify.EventBillingChecked), 1)
	})

	s.Run("failed send resolves unsupported", func() {
		c := s.newController()
		s.transport.EXPECT().SendSupportCheck(gomock.Any(), models.CapabilityItems).Return(int64(0), errors.New("service down"))

		s.Equal(models.StatusUnknown, c.CheckBillingSupported(s.ctx))
		events := s.notifier.byType(notify.EventBillingChecked)
		s.Require().Len(events, 1)
		s.False(events[0].Supported)
		s.Equal(models.StatusUnsupported, c.CheckBillingSupported(s.ctx))
	})
}

func (s *ControllerSuite) TestRequestPurchase() {
	s.Run("response code reaches the caller as an event", func() {
		c := s.newController()
		s.transport.EXPECT().SendPurchaseRequest(gomock.Any(), "sword", "ref-1").Return(int64(10), nil)

		c.RequestPurchase(s.ctx, "sword", false, "ref-1")
		c.OnResponseCode(s.ctx, 10, models.ResultUserCanceled)

		events := s.notifier.byType(notify.EventPurchaseRequestResponse)
		s.Require().Len(events, 1)
		s.Equal("sword", events[0].ItemID)
		s.Equal(models.ResultUserCanceled, events[0].ResponseCode)
	})

	s.Run("failed send surfaces service unavailable", func() {
		c := s.newController()
		s.transport.EXPECT().SendPurchaseRequest(gomock.Any(), "sword", "").Return(int64(0), errors.New("no connection"))

		c.RequestPurchase(s.ctx, "sword", false, "")

		events := s.notifier.byType(notify.EventPurchaseRequestResponse)
		s.Require().Len(events, 1)
		s.Equal(models.ResultServiceUnavailable, events[0].ResponseCode)
	})
}

func (s *ControllerSuite) TestOnPurchaseStateChanged() {
	s.Run("stores records and confirms auto items in one batch", func() {
		s.plaintextSalt()
		c := s.newController(WithDebug(true))
		s.transport.EXPECT().SendPurchaseRequest(gomock.Any(), "sword", "").Return(int64(10), nil)
		s.transport.EXPECT().SendConfirmations(gomock.Any(), []string{"n1"}).Return(int64(11), nil).Times(1)

		c.RequestPurchase(s.ctx, "sword", true, "")
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)

		payload := signedPayload(n,
			order("sword", "n1", models.StatePurchased),
			order("shield", "n2", models.StatePurchased),
		)
		c.OnPurchaseStateChanged(s.ctx, payload, "")

		all, err := c.Transactions(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 2)
		s.Len(s.notifier.byType(notify.EventPurchaseStateChanged), 2)
	})

	s.Run("manual confirmation is batched until requested", func() {
		s.plaintextSalt()
		c := s.newController(WithDebug(true))
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)

		c.OnPurchaseStateChanged(s.ctx, signedPayload(n, order("shield", "n2", models.StatePurchased)), "")

		s.transport.EXPECT().SendConfirmations(gomock.Any(), []string{"n2"}).Return(int64(12), nil).Times(1)
		s.True(c.ConfirmNotifications(s.ctx, "shield"))
		s.False(c.ConfirmNotifications(s.ctx, "shield"), "already confirmed")
		s.False(c.ConfirmNotifications(s.ctx, "unknown-item"))
	})

	s.Run("replayed payload is dropped", func() {
		s.plaintextSalt()
		c := s.newController(WithDebug(true))
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)
		payload := signedPayload(n, order("sword", "", models.StatePurchased))

		c.OnPurchaseStateChanged(s.ctx, payload, "")
		c.OnPurchaseStateChanged(s.ctx, payload, "")

		all, err := c.Transactions(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("racing duplicate deliveries store the batch once", func() {
		s.plaintextSalt()
		c := s.newController(WithDebug(true))
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)
		payload := signedPayload(n, order("sword", "", models.StatePurchased))

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.OnPurchaseStateChanged(s.ctx, payload, "")
			}()
		}
		wg.Wait()

		all, err := c.Transactions(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1, "a replayed payload must be applied at most once")
	})

	s.Run("unknown nonce writes nothing", func() {
		c := s.newController(WithDebug(true))
		c.OnPurchaseStateChanged(s.ctx, signedPayload(999, order("sword", "", models.StatePurchased)), "")

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
	})

	s.Run("malformed payload writes nothing", func() {
		c := s.newController(WithDebug(true))
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)

		// Second order has an unknown purchase state; the whole payload fails.
		bad := fmt.Sprintf(
			`{"nonce":%d,"orders":[%s,{"productId":"shield","purchaseState":7}]}`,
			n, order("sword", "", models.StatePurchased),
		)
		c.OnPurchaseStateChanged(s.ctx, bad, "")

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
		known, err := s.nonces.IsKnown(s.ctx, n)
		s.Require().NoError(err)
		s.True(known, "nonce stays outstanding when nothing was applied")
	})

	s.Run("invalid signature is rejected outside debug mode", func() {
		c := New(s.transport, s.notifier, stubValidator{ok: false}, s.nonces, s.store, s.config, discardLogger())
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)

		c.OnPurchaseStateChanged(s.ctx, signedPayload(n, order("sword", "", models.StatePurchased)), "sig")

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
	})

	s.Run("empty signature is rejected outside debug mode", func() {
		c := s.newController()
		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)

		c.OnPurchaseStateChanged(s.ctx, signedPayload(n, order("sword", "", models.StatePurchased)), "")

		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Empty(stored)
	})
}

func (s *ControllerSuite) TestRestoreTransactions() {
	s.Run("restore completion emits an event", func() {
		c := s.newController()
		var sent uint64
		s.transport.EXPECT().SendRestoreRequest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n uint64) (int64, error) {
				sent = n
				return 5, nil
			})

		c.RestoreTransactions(s.ctx)
		known, err := s.nonces.IsKnown(s.ctx, sent)
		s.Require().NoError(err)
		s.True(known)

		c.OnResponseCode(s.ctx, 5, models.ResultOK)
		s.Len(s.notifier.byType(notify.EventTransactionsRestored), 1)
	})

	s.Run("failed restore releases the nonce", func() {
		c := s.newController()
		var sent uint64
		s.transport.EXPECT().SendRestoreRequest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n uint64) (int64, error) {
				sent = n
				return 5, nil
			})

		c.RestoreTransactions(s.ctx)
		c.OnResponseCode(s.ctx, 5, models.ResultServiceUnavailable)

		known, err := s.nonces.IsKnown(s.ctx, sent)
		s.Require().NoError(err)
		s.False(known)
		s.Empty(s.notifier.byType(notify.EventTransactionsRestored))
	})
}

func (s *ControllerSuite) TestOnNotify() {
	c := s.newController()
	s.transport.EXPECT().SendPurchaseInformationRequest(gomock.Any(), []string{"notif-1"}, gomock.Any()).Return(int64(7), nil)

	c.OnNotify(s.ctx, "notif-1")
}

func (s *ControllerSuite) TestOnResponseCodeUnknownRequest() {
	c := s.newController()

	c.OnResponseCode(s.ctx, 404, models.ResultOK)

	s.Empty(s.notifier.events)
}

func (s *ControllerSuite) TestQueriesWithObfuscation() {
	salt := []byte("per-identity-salt")

	// Each subtest ingests the same batch under player-1's salt.
	seed := func() *Controller {
		s.config.EXPECT().Salt("player-1").Return(salt).AnyTimes()
		c := s.newController(WithDebug(true))
		c.SetIdentity("player-1")

		n, err := s.nonces.Generate(s.ctx)
		s.Require().NoError(err)
		payload := signedPayload(n,
			order("sword", "", models.StatePurchased),
			order("sword", "", models.StatePurchased),
			order("sword", "", models.StateCanceled),
		)
		c.OnPurchaseStateChanged(s.ctx, payload, "")
		return c
	}

	s.Run("stored records are obfuscated", func() {
		seed()
		stored, err := s.store.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(stored, 3)
		for _, t := range stored {
			s.NotEqual("sword", t.ProductID)
			s.NotContains(t.OrderID, "sword")
		}
	})

	s.Run("queries operate on plaintext ids", func() {
		c := seed()
		purchased, err := c.IsPurchased(s.ctx, "sword")
		s.Require().NoError(err)
		s.True(purchased)

		count, err := c.CountPurchases(s.ctx, "sword")
		s.Require().NoError(err)
		s.Equal(2, count, "cancellations are not purchases")

		transactions, err := c.TransactionsForItem(s.ctx, "sword")
		s.Require().NoError(err)
		s.Len(transactions, 3)
		s.Equal("sword", transactions[0].ProductID)
	})

	s.Run("unreadable records are excluded after a salt change", func() {
		c := seed()
		s.config.EXPECT().Salt("player-2").Return([]byte("other-salt")).AnyTimes()
		c.SetIdentity("player-2")

		all, err := c.Transactions(s.ctx)
		s.Require().NoError(err)
		s.Empty(all)
	})
}

func (s *ControllerSuite) TestDeveloperPayloadRoundTrip() {
	s.plaintextSalt()
	c := s.newController(WithDebug(true))
	n, err := s.nonces.Generate(s.ctx)
	s.Require().NoError(err)

	payload := signedPayload(n, `{"productId":"sword","orderId":"o-1","purchaseState":0,"purchaseTime":1700000000000,"developerPayload":"level-7"}`)
	c.OnPurchaseStateChanged(s.ctx, payload, "")

	all, err := c.Transactions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("level-7", all[0].DeveloperPayload)
	s.Equal(time.UnixMilli(1700000000000).UTC(), all[0].PurchaseTime)
}
