package orders

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/pricing"
	"github.com/WebLink-Company/mi-comida/internal/shared"
)

type fakeRepo struct {
	orders map[uuid.UUID]*Order

	createdWith *Order
	transition  struct {
		id       uuid.UUID
		from, to Status
	}
	deleted []uuid.UUID
}

func newFakeRepo(seed ...*Order) *fakeRepo {
	r := &fakeRepo{orders: make(map[uuid.UUID]*Order)}
	for _, o := range seed {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filters ListFilters) ([]Order, error) {
	var result []Order
	for _, o := range r.orders {
		if filters.UserID != nil && o.UserID != *filters.UserID {
			continue
		}
		if filters.CompanyID != nil && o.CompanyID != *filters.CompanyID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

func (r *fakeRepo) Create(_ context.Context, order Order) (Order, error) {
	for _, existing := range r.orders {
		if existing.UserID == order.UserID && existing.Date.Equal(order.Date) {
			return Order{}, ErrDuplicateOrder
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = &order
	r.createdWith = &order
	return order, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return ErrNotFound
	}
	o.Status = to
	r.transition.id, r.transition.from, r.transition.to = id, from, to
	return nil
}

func (r *fakeRepo) DeletePending(_ context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != StatusPending {
		return ErrNotPending
	}
	delete(r.orders, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCatalog struct {
	options   map[uuid.UUID]masterdata.LunchOption
	companies map[uuid.UUID]masterdata.Company
}

func (c *fakeCatalog) GetLunchOption(_ context.Context, id uuid.UUID) (masterdata.LunchOption, error) {
	o, ok := c.options[id]
	if !ok {
		return masterdata.LunchOption{}, shared.ErrNotFound
	}
	return o, nil
}

func (c *fakeCatalog) GetCompany(_ context.Context, id uuid.UUID) (masterdata.Company, error) {
	co, ok := c.companies[id]
	if !ok {
		return masterdata.Company{}, shared.ErrNotFound
	}
	return co, nil
}

var (
	testProviderID = uuid.MustParse("99999999-9999-9999-9999-999999999999")
	testCompanyID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testOptionID   = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	testUserID     = uuid.MustParse("77777777-7777-7777-7777-777777777777")

	testNow = time.Date(2026, 3, 17, 11, 0, 0, 0, time.UTC)
)

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		options: map[uuid.UUID]masterdata.LunchOption{
			testOptionID: {
				ID:         testOptionID,
				ProviderID: testProviderID,
				Name:       "Bandeja Paisa",
				Price:      decimal.NewFromInt(12),
				Available:  true,
			},
		},
		companies: map[uuid.UUID]masterdata.Company{
			testCompanyID: {
				ID:         testCompanyID,
				ProviderID: testProviderID,
				Name:       "Acme",
				Subsidy:    pricing.SubsidyConfig{Percentage: decimal.NewFromInt(50)},
			},
		},
	}
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, testCatalog(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.WithNow(func() time.Time { return testNow })
	return svc
}

func employeeIdentity() *shared.TenantIdentity {
	companyID := testCompanyID
	return &shared.TenantIdentity{UserID: testUserID, Role: shared.RoleEmployee, CompanyID: &companyID}
}

func supervisorIdentity(company uuid.UUID) *shared.TenantIdentity {
	return &shared.TenantIdentity{UserID: uuid.New(), Role: shared.RoleSupervisor, CompanyID: &company}
}

func providerIdentity(provider uuid.UUID) *shared.TenantIdentity {
	return &shared.TenantIdentity{UserID: uuid.New(), Role: shared.RoleProvider, ProviderID: &provider}
}

func TestCreateQuotesSubsidisedPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	quote, err := svc.Create(context.Background(), employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	require.NoError(t, err)

	require.NotNil(t, quote.Order)
	assert.Equal(t, StatusPending, quote.Order.Status)
	assert.Equal(t, testCompanyID, quote.Order.CompanyID)
	assert.True(t, quote.Order.Date.Equal(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)),
		"defaults to today at midnight UTC")
	assert.True(t, quote.Pricing.Payable.Equal(decimal.NewFromInt(6)))
	assert.True(t, quote.Pricing.Covered.Equal(decimal.NewFromInt(6)))
}

func TestCreateMatchesPreview(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	preview, err := svc.PricePreview(ctx, testCompanyID, testOptionID)
	require.NoError(t, err)
	created, err := svc.Create(ctx, employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	require.NoError(t, err)

	assert.True(t, preview.Pricing.Payable.Equal(created.Pricing.Payable))
	assert.Nil(t, preview.Order)
}

func TestCreateRejectsUnavailableOption(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	catalog := testCatalog()
	option := catalog.options[testOptionID]
	option.Available = false
	catalog.options[testOptionID] = option
	svc.catalog = catalog

	_, err := svc.Create(context.Background(), employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	assert.ErrorIs(t, err, ErrOptionUnavailable)
}

func TestCreateDuplicateDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestCreateWithoutCompany(t *testing.T) {
	svc := newTestService(newFakeRepo())
	identity := &shared.TenantIdentity{UserID: testUserID, Role: shared.RoleEmployee}

	_, err := svc.Create(context.Background(), identity, CreateInput{LunchOptionID: testOptionID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDecideApprovesPendingOrder(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, UserID: testUserID, Status: StatusPending}
	repo := newFakeRepo(order)
	svc := newTestService(repo)

	err := svc.Decide(context.Background(), supervisorIdentity(testCompanyID), order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, repo.orders[order.ID].Status)
	assert.Equal(t, StatusPending, repo.transition.from, "update is guarded on the source status")
}

func TestDecideRejects(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusPending}
	repo := newFakeRepo(order)
	svc := newTestService(repo)

	err := svc.Decide(context.Background(), supervisorIdentity(testCompanyID), order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, repo.orders[order.ID].Status)
}

func TestDecideOtherCompanyForbidden(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusPending}
	svc := newTestService(newFakeRepo(order))

	err := svc.Decide(context.Background(), supervisorIdentity(uuid.New()), order.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDecideNonPendingOrder(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusDelivered}
	svc := newTestService(newFakeRepo(order))

	err := svc.Decide(context.Background(), supervisorIdentity(testCompanyID), order.ID, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDispatchPrepareAndDeliver(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusApproved}
	repo := newFakeRepo(order)
	svc := newTestService(repo)
	provider := providerIdentity(testProviderID)
	ctx := context.Background()

	require.NoError(t, svc.Dispatch(ctx, provider, order.ID, StatusPrepared))
	assert.Equal(t, StatusPrepared, repo.orders[order.ID].Status)

	require.NoError(t, svc.Dispatch(ctx, provider, order.ID, StatusDelivered))
	assert.Equal(t, StatusDelivered, repo.orders[order.ID].Status)
}

func TestDispatchApprovedStraightToDelivered(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusApproved}
	repo := newFakeRepo(order)
	svc := newTestService(repo)

	err := svc.Dispatch(context.Background(), providerIdentity(testProviderID), order.ID, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, repo.orders[order.ID].Status)
}

func TestDispatchWrongProviderForbidden(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusApproved}
	svc := newTestService(newFakeRepo(order))

	err := svc.Dispatch(context.Background(), providerIdentity(uuid.New()), order.ID, StatusPrepared)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDispatchRejectsDecisionStatuses(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusPending}
	svc := newTestService(newFakeRepo(order))

	err := svc.Dispatch(context.Background(), providerIdentity(testProviderID), order.ID, StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelOwnPendingOrder(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, UserID: testUserID, Status: StatusPending}
	repo := newFakeRepo(order)
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), employeeIdentity(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{order.ID}, repo.deleted)
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, UserID: uuid.New(), Status: StatusPending}
	svc := newTestService(newFakeRepo(order))

	err := svc.Cancel(context.Background(), employeeIdentity(), order.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelApprovedOrder(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, UserID: testUserID, Status: StatusApproved}
	svc := newTestService(newFakeRepo(order))

	err := svc.Cancel(context.Background(), employeeIdentity(), order.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateCache(context.Context) { f.calls++ }

func TestMutationsInvalidateStatsCache(t *testing.T) {
	pendingID := uuid.New()
	approvedID := uuid.New()
	repo := newFakeRepo(
		&Order{ID: pendingID, CompanyID: testCompanyID, UserID: uuid.New(), Status: StatusPending},
		&Order{ID: approvedID, CompanyID: testCompanyID, UserID: uuid.New(), Status: StatusApproved},
	)
	svc := newTestService(repo)
	inv := &fakeInvalidator{}
	svc.WithInvalidator(inv)
	ctx := context.Background()

	quote, err := svc.Create(ctx, employeeIdentity(), CreateInput{LunchOptionID: testOptionID})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls, "create must bump the dashboard cache")

	require.NoError(t, svc.Decide(ctx, supervisorIdentity(testCompanyID), pendingID, true))
	assert.Equal(t, 2, inv.calls)

	require.NoError(t, svc.Dispatch(ctx, providerIdentity(testProviderID), approvedID, StatusPrepared))
	assert.Equal(t, 3, inv.calls)

	require.NoError(t, svc.Cancel(ctx, employeeIdentity(), quote.Order.ID))
	assert.Equal(t, 4, inv.calls)
}

func TestFailedMutationDoesNotInvalidate(t *testing.T) {
	order := &Order{ID: uuid.New(), CompanyID: testCompanyID, Status: StatusDelivered}
	svc := newTestService(newFakeRepo(order))
	inv := &fakeInvalidator{}
	svc.WithInvalidator(inv)

	err := svc.Decide(context.Background(), supervisorIdentity(testCompanyID), order.ID, true)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, inv.calls, "rejected transitions leave the cache untouched")
}

func TestListForCompanyRequiresAssignment(t *testing.T) {
	svc := newTestService(newFakeRepo())
	identity := &shared.TenantIdentity{UserID: uuid.New(), Role: shared.RoleSupervisor}

	_, err := svc.ListForCompany(context.Background(), identity, ListFilters{})
	assert.ErrorIs(t, err, shared.ErrUnassignedCompany)
}

func TestListForCompanyPinsCompanyFilter(t *testing.T) {
	mine := &Order{ID: uuid.New(), CompanyID: testCompanyID, UserID: uuid.New(), Status: StatusPending}
	other := &Order{ID: uuid.New(), CompanyID: uuid.New(), UserID: uuid.New(), Status: StatusPending}
	svc := newTestService(newFakeRepo(mine, other))

	got, err := svc.ListForCompany(context.Background(), supervisorIdentity(testCompanyID), ListFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}
