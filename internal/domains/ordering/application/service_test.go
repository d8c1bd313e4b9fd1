package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application/types"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

type fakeCatalog map[string]domain.CatalogEntry

func (c fakeCatalog) Lookup(id string) (domain.CatalogEntry, bool) {
	entry, ok := c[id]
	return entry, ok
}

type fixedContact struct {
	number string
	err    error
}

func (c fixedContact) DefaultContactNumber(context.Context) (string, error) {
	return c.number, c.err
}

type recordingMessenger struct {
	deliveries []domain.Delivery
	err        error
}

func (m *recordingMessenger) Deliver(_ context.Context, d domain.Delivery) (domain.Receipt, error) {
	if m.err != nil {
		return domain.Receipt{}, m.err
	}
	m.deliveries = append(m.deliveries, d)
	return domain.Receipt{Channel: "test", Reference: "ref-1"}, nil
}

type fixture struct {
	service   *Service
	catalog   fakeCatalog
	carts     *memory.CartStore
	leads     *memory.LeadLog
	messenger *recordingMessenger
}

func newFixture(t *testing.T, contact fixedContact) *fixture {
	t.Helper()
	scope, err := session.NewScope("operator-1", "id")
	require.NoError(t, err)
	f := &fixture{
		catalog: fakeCatalog{
			"1": {ID: "1", Name: "Tea", PriceMinor: 5000},
			"2": {ID: "2", Name: "Cake", PriceMinor: 15000},
		},
		carts:     memory.NewCartStore(),
		leads:     memory.NewLeadLog(),
		messenger: &recordingMessenger{},
	}
	f.service = NewService(scope, f.carts, f.catalog, contact, f.messenger,
		WithLeadLog(f.leads),
		WithIdempotencyStore(memory.NewIdempotencyStore()),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { return "lead-1" }),
	)
	return f
}

func (f *fixture) add(t *testing.T, session, item string) *types.CartView {
	t.Helper()
	view, err := f.service.AddItem(context.Background(), types.AddItemInput{SessionID: session, ItemID: item})
	require.NoError(t, err)
	return view
}

func TestService_AddTwiceThenRemoveEmptiesCart(t *testing.T) {
	f := newFixture(t, fixedContact{number: "082211112222"})
	ctx := context.Background()

	f.add(t, "s1", "1")
	view := f.add(t, "s1", "1")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, int64(10000), view.TotalMinor)

	view, err := f.service.ChangeQuantity(ctx, types.ChangeQuantityInput{SessionID: "s1", ItemID: "1", Delta: -2})
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.TotalMinor)
}

func TestService_AddItemRequiresCatalogItem(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	_, err := f.service.AddItem(context.Background(), types.AddItemInput{SessionID: "s1", ItemID: "missing"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = f.service.AddItem(context.Background(), types.AddItemInput{SessionID: "s1", ItemID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ChangeQuantityValidation(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	ctx := context.Background()
	f.add(t, "s1", "1")

	_, err := f.service.ChangeQuantity(ctx, types.ChangeQuantityInput{SessionID: "s1", ItemID: "1", Delta: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantityDelta)

	_, err = f.service.ChangeQuantity(ctx, types.ChangeQuantityInput{SessionID: "s1", ItemID: "2", Delta: 1})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	view, err := f.service.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestService_ViewRepricesAndPrunes(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	ctx := context.Background()
	f.add(t, "s1", "1")
	f.add(t, "s1", "2")

	f.catalog["1"] = domain.CatalogEntry{ID: "1", Name: "Tea", PriceMinor: 7000}
	delete(f.catalog, "2")

	view, err := f.service.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7000), view.TotalMinor)
	assert.Equal(t, []string{"2"}, view.Pruned)

	stored, err := f.carts.Load(ctx, "operator-1", "s1")
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
}

func TestService_ViewOfUnknownSessionIsEmpty(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	view, err := f.service.View(context.Background(), "new")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestService_CheckoutSendsMessageAndClearsCart(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822-1111-2222"})
	ctx := context.Background()
	f.add(t, "s1", "2")
	f.add(t, "s1", "1")
	f.add(t, "s1", "1")

	result, err := f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1", Locale: "en"})
	require.NoError(t, err)

	assert.Equal(t, "6282211112222", result.Destination)
	assert.Equal(t, "Hello, I would like to order:\n\n1. Cake (1) - Rp15.000\n2. Tea (2) - Rp10.000\n\nTotal: Rp25.000", result.Message)
	assert.Equal(t, int64(25000), result.TotalMinor)
	require.Len(t, f.messenger.deliveries, 1)
	assert.Equal(t, result.Message, f.messenger.deliveries[0].Message)

	_, err = f.carts.Load(ctx, "operator-1", "s1")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	leads := f.leads.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, 3, leads[0].ItemCount)
	count, err := f.service.SubmittedOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestService_CheckoutUnknownLocaleUsesScopeDefault(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	f.add(t, "s1", "1")

	result, err := f.service.Checkout(context.Background(), types.CheckoutInput{SessionID: "s1", Locale: "fr"})
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Halo, saya ingin memesan:")
}

func TestService_CheckoutFailureKeepsCart(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	ctx := context.Background()
	f.add(t, "s1", "1")
	f.messenger.err = errors.New("gateway down")

	_, err := f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1"})
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)

	stored, err := f.carts.Load(ctx, "operator-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Line{{ItemID: "1", Quantity: 1}}, stored.Lines)
	assert.Empty(t, f.leads.Leads())
}

func TestService_CheckoutRejectsEmptyCartAndBadDestination(t *testing.T) {
	f := newFixture(t, fixedContact{number: "n/a"})
	ctx := context.Background()

	_, err := f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.add(t, "s1", "1")
	_, err = f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidDestination)
	assert.Empty(t, f.messenger.deliveries)
}

func TestService_CheckoutReplaysIdempotentRetry(t *testing.T) {
	f := newFixture(t, fixedContact{number: "0822"})
	ctx := context.Background()
	f.add(t, "s1", "1")

	first, err := f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1", IdempotencyKey: "key-1"})
	require.NoError(t, err)
	retry, err := f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s1", IdempotencyKey: "key-1"})
	require.NoError(t, err)

	assert.True(t, retry.Replayed)
	assert.Equal(t, first.Message, retry.Message)
	assert.Len(t, f.messenger.deliveries, 1)

	_, err = f.service.Checkout(ctx, types.CheckoutInput{SessionID: "s2", IdempotencyKey: "key-1"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestFingerprintCheckout_IsStable(t *testing.T) {
	a, err := FingerprintCheckout("op", "s1", "id")
	require.NoError(t, err)
	b, err := FingerprintCheckout("op", "s1", "id")
	require.NoError(t, err)
	c, err := FingerprintCheckout("op", "s1", "en")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
