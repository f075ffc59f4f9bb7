package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/akessab/dzstore-system/internal/model"
	"github.com/akessab/dzstore-system/internal/repository"
)

type stubRepo struct {
	settings    *model.Settings
	settingsErr error

	createdNumbers   []string
	createdCoupon    *model.CouponSnapshot
	createOrderFails int
	createOrderErr   error

	orderByNumber    *model.Order
	orderByNumberErr error

	confirmStatuses    []bool
	confirmStatusesErr error
	setConfirmedIDs    []int64
	setConfirmedValue  bool
	setConfirmedCount  int64
	setConfirmedErr    error

	generatedCodes     []string
	createCouponFails  int
	createdCouponCents int64
	coupon             *model.Coupon
	couponErr          error

	updateVersion int64
	removedSize   string
	removedColor  string
	updateErr     error

	counts           *repository.AnalyticsCounts
	countsErr        error
	confirmedOnlyArg bool

	dailyRows []repository.DailySalesRow
	dailyErr  error
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.createdNumbers = append(s.createdNumbers, order.Number)
	if s.createOrderErr != nil {
		return nil, s.createOrderErr
	}
	if len(s.createdNumbers) <= s.createOrderFails {
		return nil, repository.ErrOrderNumberTaken
	}
	s.createdCoupon = order.Coupon
	order.ID = int64(len(s.createdNumbers))
	order.CreatedAt = time.Now().UTC()
	return order, nil
}

func (s *stubRepo) GetOrders(ctx context.Context) ([]model.Order, error) {
	return nil, nil
}

func (s *stubRepo) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return s.orderByNumber, s.orderByNumberErr
}

func (s *stubRepo) GetConfirmStatuses(ctx context.Context, ids []int64) ([]bool, error) {
	return s.confirmStatuses, s.confirmStatusesErr
}

func (s *stubRepo) SetOrdersConfirmed(ctx context.Context, ids []int64, confirmed bool) (int64, error) {
	s.setConfirmedIDs = ids
	s.setConfirmedValue = confirmed
	return s.setConfirmedCount, s.setConfirmedErr
}

func (s *stubRepo) UpdateDeliveryPhone(ctx context.Context, id int64, phone string) error {
	return nil
}

func (s *stubRepo) SetAskForPhone(ctx context.Context, number string) error {
	return nil
}

func (s *stubRepo) DeleteOrder(ctx context.Context, id int64) error {
	return nil
}

func (s *stubRepo) CreateCoupon(ctx context.Context, code string, discountCents int64) (*model.Coupon, error) {
	s.generatedCodes = append(s.generatedCodes, code)
	s.createdCouponCents = discountCents
	if s.couponErr != nil {
		return nil, s.couponErr
	}
	if len(s.generatedCodes) <= s.createCouponFails {
		return nil, repository.ErrCouponCodeTaken
	}
	return &model.Coupon{
		ID:             int64(len(s.generatedCodes)),
		Code:           code,
		DiscountAmount: float64(discountCents) / 100,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (s *stubRepo) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return s.coupon, s.couponErr
}

func (s *stubRepo) GetAllCoupons(ctx context.Context) ([]model.Coupon, error) {
	return nil, nil
}

func (s *stubRepo) GetActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	return nil, nil
}

func (s *stubRepo) ToggleCouponStatus(ctx context.Context, id int64) (*model.Coupon, error) {
	return s.coupon, s.couponErr
}

func (s *stubRepo) DeleteCoupon(ctx context.Context, id int64) error {
	return nil
}

func (s *stubRepo) GetSettings(ctx context.Context) (*model.Settings, error) {
	return s.settings, s.settingsErr
}

func (s *stubRepo) UpdateSettings(ctx context.Context, settings *model.Settings, expectedVersion int64, removedSize, removedColor string) (*model.Settings, error) {
	s.updateVersion = expectedVersion
	s.removedSize = removedSize
	s.removedColor = removedColor
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	updated := *settings
	updated.Version = expectedVersion + 1
	return &updated, nil
}

func (s *stubRepo) GetAnalyticsCounts(ctx context.Context, confirmedOnly bool) (*repository.AnalyticsCounts, error) {
	s.confirmedOnlyArg = confirmedOnly
	return s.counts, s.countsErr
}

func (s *stubRepo) GetDailySalesRows(ctx context.Context, confirmedOnly bool, start, end time.Time) ([]repository.DailySalesRow, error) {
	s.confirmedOnlyArg = confirmedOnly
	return s.dailyRows, s.dailyErr
}

func testSettings() *model.Settings {
	return &model.Settings{
		Delivery: []model.DeliveryRate{
			{State: "16 - الجزائر", OfficePrice: 400, HomePrice: 600, DeliveryDays: 2},
		},
		OrderCalculation: model.OrderCalculationAll,
		Categories:       []model.Category{},
		Sizes:            []string{},
		Colors:           []string{},
		Version:          1,
	}
}

func newTestService(repo *stubRepo) *Service {
	return NewService(repo, nil, zap.NewNop())
}

func validOrderInput() CreateOrderInput {
	return CreateOrderInput{
		FullName:      "Karim Bensalem",
		PhoneNumber:   "0550123456",
		Wilaya:        "16 - الجزائر",
		Baladia:       "Bab El Oued",
		DeliveryPlace: model.DeliveryPlaceHome,
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2, Price: 1200},
		},
		TotalAmount: 3000,
	}
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"empty full name", func(in *CreateOrderInput) { in.FullName = "" }},
		{"empty phone", func(in *CreateOrderInput) { in.PhoneNumber = "" }},
		{"empty wilaya", func(in *CreateOrderInput) { in.Wilaya = "" }},
		{"empty baladia", func(in *CreateOrderInput) { in.Baladia = "" }},
		{"bad delivery place", func(in *CreateOrderInput) { in.DeliveryPlace = "pigeon" }},
		{"no items", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *CreateOrderInput) { in.Items[0].Price = -1 }},
		{"negative total", func(in *CreateOrderInput) { in.TotalAmount = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validOrderInput()
			tc.mutate(&input)

			_, err := svc.CreateOrder(context.Background(), input)
			if !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("expected ErrInvalidOrder, got %v", err)
			}
		})
	}
}

func TestCreateOrder_ResolvesDeliveryPrice(t *testing.T) {
	repo := &stubRepo{settings: testSettings()}
	svc := newTestService(repo)

	order, err := svc.CreateOrder(context.Background(), validOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.DeliveryPrice != 600 {
		t.Fatalf("DeliveryPrice = %v, want 600 (home rate)", order.DeliveryPrice)
	}

	input := validOrderInput()
	input.DeliveryPlace = model.DeliveryPlaceOffice
	order, err = svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.DeliveryPrice != 400 {
		t.Fatalf("DeliveryPrice = %v, want 400 (office rate)", order.DeliveryPrice)
	}
}

func TestCreateOrder_ZeroPriceForUnknownWilaya(t *testing.T) {
	repo := &stubRepo{settings: testSettings()}
	svc := newTestService(repo)

	input := validOrderInput()
	input.Wilaya = "31 - وهران"

	order, err := svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.DeliveryPrice != 0 {
		t.Fatalf("DeliveryPrice = %v, want 0 for wilaya without rate", order.DeliveryPrice)
	}
}

func TestCreateOrder_RegeneratesNumberOnConflict(t *testing.T) {
	repo := &stubRepo{
		settings:         testSettings(),
		createOrderFails: 2,
	}
	svc := newTestService(repo)

	input := validOrderInput()
	input.OrderNumber = "123456"

	order, err := svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if len(repo.createdNumbers) != 3 {
		t.Fatalf("attempts = %d, want 3", len(repo.createdNumbers))
	}
	if repo.createdNumbers[0] != "123456" {
		t.Fatalf("first attempt number = %q, want client-supplied 123456", repo.createdNumbers[0])
	}
	if order.Number == "123456" {
		t.Fatalf("number must be regenerated after conflict")
	}
	for _, n := range repo.createdNumbers[1:] {
		if n == "123456" {
			t.Fatalf("conflicting number %q reused on retry", n)
		}
	}
}

func TestCreateOrder_GeneratesNumberWhenMissing(t *testing.T) {
	repo := &stubRepo{settings: testSettings()}
	svc := newTestService(repo)

	order, err := svc.CreateOrder(context.Background(), validOrderInput())
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if len(order.Number) != 6 {
		t.Fatalf("generated number %q, want 6 digits", order.Number)
	}
}

func TestCreateOrder_RedeemsCoupon(t *testing.T) {
	repo := &stubRepo{
		settings: testSettings(),
		coupon:   &model.Coupon{ID: 1, Code: "SUMMER7", DiscountAmount: 300, IsActive: true},
	}
	svc := newTestService(repo)

	input := validOrderInput()
	input.CouponCode = "SUMMER7"

	order, err := svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if repo.createdCoupon == nil {
		t.Fatalf("coupon snapshot must reach the repository")
	}
	if repo.createdCoupon.Code != "SUMMER7" || repo.createdCoupon.DiscountAmount != 300 {
		t.Fatalf("snapshot = %+v, want SUMMER7/300", repo.createdCoupon)
	}
	if order.Coupon == nil || order.Coupon.DiscountAmount != 300 {
		t.Fatalf("order coupon = %+v, want frozen discount 300", order.Coupon)
	}
}

func TestCreateOrder_StaleCouponIgnored(t *testing.T) {
	repo := &stubRepo{
		settings:  testSettings(),
		couponErr: repository.ErrCouponNotFound,
	}
	svc := newTestService(repo)

	input := validOrderInput()
	input.CouponCode = "GONE777"

	order, err := svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("stale coupon code must not fail the order, got %v", err)
	}
	if order.Coupon != nil || repo.createdCoupon != nil {
		t.Fatalf("order must be created without a discount, got %+v", order.Coupon)
	}
}

func TestCreateOrder_RedeemsInactiveCoupon(t *testing.T) {
	repo := &stubRepo{
		settings: testSettings(),
		coupon:   &model.Coupon{ID: 1, Code: "WINTER7", DiscountAmount: 150, IsActive: false},
	}
	svc := newTestService(repo)

	input := validOrderInput()
	input.CouponCode = "WINTER7"

	order, err := svc.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.Coupon == nil || order.Coupon.Code != "WINTER7" {
		t.Fatalf("inactive coupon must still redeem at order time, got %+v", order.Coupon)
	}
}

func TestToggleConfirmOrders_EmptyBatch(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, _, err := svc.ToggleConfirmOrders(context.Background(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestToggleConfirmOrders_MixedBatchConfirmsAll(t *testing.T) {
	repo := &stubRepo{
		confirmStatuses:   []bool{true, false, false},
		setConfirmedCount: 3,
	}
	svc := newTestService(repo)

	count, newStatus, err := svc.ToggleConfirmOrders(context.Background(), []int64{4, 5, 6})
	if err != nil {
		t.Fatalf("ToggleConfirmOrders error: %v", err)
	}
	if !newStatus {
		t.Fatalf("newStatus = false, mixed batch must be confirmed")
	}
	if !repo.setConfirmedValue {
		t.Fatalf("repository must be asked to confirm the batch")
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if len(repo.setConfirmedIDs) != 3 {
		t.Fatalf("ids passed = %v, want all three", repo.setConfirmedIDs)
	}
}

func TestToggleConfirmOrders_FullyConfirmedBatchUnconfirms(t *testing.T) {
	repo := &stubRepo{
		confirmStatuses:   []bool{true, true},
		setConfirmedCount: 2,
	}
	svc := newTestService(repo)

	count, newStatus, err := svc.ToggleConfirmOrders(context.Background(), []int64{4, 5})
	if err != nil {
		t.Fatalf("ToggleConfirmOrders error: %v", err)
	}
	if newStatus {
		t.Fatalf("newStatus = true, fully confirmed batch must be unconfirmed")
	}
	if repo.setConfirmedValue {
		t.Fatalf("repository must be asked to unconfirm the batch")
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestToggleConfirmOrders_AllUnconfirmedBatchConfirms(t *testing.T) {
	repo := &stubRepo{
		confirmStatuses:   []bool{false, false},
		setConfirmedCount: 2,
	}
	svc := newTestService(repo)

	_, newStatus, err := svc.ToggleConfirmOrders(context.Background(), []int64{7, 8})
	if err != nil {
		t.Fatalf("ToggleConfirmOrders error: %v", err)
	}
	if !newStatus || !repo.setConfirmedValue {
		t.Fatalf("unconfirmed batch must be confirmed")
	}
}

func TestToggleConfirmOrders_PropagatesNotFound(t *testing.T) {
	repo := &stubRepo{confirmStatusesErr: repository.ErrOrderNotFound}
	svc := newTestService(repo)

	_, _, err := svc.ToggleConfirmOrders(context.Background(), []int64{404})
	if !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if repo.setConfirmedIDs != nil {
		t.Fatalf("batch must not be updated when lookup fails")
	}
}

func TestEstimatedDelivery_ZeroForUnconfirmed(t *testing.T) {
	order := &model.Order{IsConfirmed: false}

	if got := estimatedDelivery(order, 3, time.Now()); got != 0 {
		t.Fatalf("estimate = %d, want 0 for unconfirmed order", got)
	}
}

func TestEstimatedDelivery_CountsDownFromConfirmation(t *testing.T) {
	now := time.Now().UTC()
	confirmed := now.Add(-24 * time.Hour)
	order := &model.Order{IsConfirmed: true, ConfirmedAt: &confirmed}

	got := estimatedDelivery(order, 3, now)
	want := 2 * 24 * time.Hour.Milliseconds()
	if got != want {
		t.Fatalf("estimate = %d, want %d", got, want)
	}
}

func TestEstimatedDelivery_NeverNegative(t *testing.T) {
	now := time.Now().UTC()
	confirmed := now.Add(-10 * 24 * time.Hour)
	order := &model.Order{IsConfirmed: true, ConfirmedAt: &confirmed}

	if got := estimatedDelivery(order, 3, now); got != 0 {
		t.Fatalf("estimate = %d, want 0 for overdue order", got)
	}
}

func TestFollowOrder_UsesDefaultDeliveryDays(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubRepo{
		settings: testSettings(),
		orderByNumber: &model.Order{
			Number:      "654321",
			Wilaya:      "31 - وهران",
			Baladia:     "Es Senia",
			IsConfirmed: true,
			ConfirmedAt: &now,
		},
	}
	svc := newTestService(repo)

	info, err := svc.FollowOrder(context.Background(), "654321")
	if err != nil {
		t.Fatalf("FollowOrder error: %v", err)
	}
	if info.Address != "31 - وهران Es Senia" {
		t.Fatalf("address = %q", info.Address)
	}

	max := int64(model.DefaultDeliveryDays) * 24 * time.Hour.Milliseconds()
	if info.EstimatedDelivery <= 0 || info.EstimatedDelivery > max {
		t.Fatalf("estimate = %d, want within (0, %d]", info.EstimatedDelivery, max)
	}
}

func TestCreateCoupon_InvalidDiscount(t *testing.T) {
	svc := newTestService(&stubRepo{})

	for _, discount := range []float64{0, -5} {
		if _, err := svc.CreateCoupon(context.Background(), discount); !errors.Is(err, ErrInvalidDiscount) {
			t.Fatalf("discount %v: expected ErrInvalidDiscount, got %v", discount, err)
		}
	}
}

func TestCreateCoupon_RegeneratesCodeOnConflict(t *testing.T) {
	repo := &stubRepo{createCouponFails: 1}
	svc := newTestService(repo)

	coupon, err := svc.CreateCoupon(context.Background(), 500)
	if err != nil {
		t.Fatalf("CreateCoupon error: %v", err)
	}
	if len(repo.generatedCodes) != 2 {
		t.Fatalf("attempts = %d, want 2", len(repo.generatedCodes))
	}
	if repo.generatedCodes[0] == repo.generatedCodes[1] {
		t.Fatalf("code %q reused on retry", repo.generatedCodes[0])
	}
	if coupon.DiscountAmount != 500 {
		t.Fatalf("DiscountAmount = %v, want 500", coupon.DiscountAmount)
	}
}

func TestCreateCoupon_RoundsToCents(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	coupon, err := svc.CreateCoupon(context.Background(), 19.99)
	if err != nil {
		t.Fatalf("CreateCoupon error: %v", err)
	}
	if repo.createdCouponCents != 1999 {
		t.Fatalf("discount cents = %d, want 1999", repo.createdCouponCents)
	}
	if coupon.DiscountAmount != 19.99 {
		t.Fatalf("DiscountAmount = %v, want 19.99", coupon.DiscountAmount)
	}
}

func TestValidateCoupon_InactiveLooksMissing(t *testing.T) {
	repo := &stubRepo{
		coupon: &model.Coupon{ID: 1, Code: "SUMMER7", IsActive: false},
	}
	svc := newTestService(repo)

	_, err := svc.ValidateCoupon(context.Background(), "SUMMER7")
	if !errors.Is(err, repository.ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound for inactive coupon, got %v", err)
	}
}

func TestValidateCoupon_Active(t *testing.T) {
	repo := &stubRepo{
		coupon: &model.Coupon{ID: 1, Code: "SUMMER7", DiscountAmount: 300, IsActive: true},
	}
	svc := newTestService(repo)

	c, err := svc.ValidateCoupon(context.Background(), "SUMMER7")
	if err != nil {
		t.Fatalf("ValidateCoupon error: %v", err)
	}
	if c.DiscountAmount != 300 {
		t.Fatalf("DiscountAmount = %v, want 300", c.DiscountAmount)
	}
}

func TestAddCategory_RejectsDuplicate(t *testing.T) {
	settings := testSettings()
	settings.Categories = []model.Category{{Name: "Robes"}}
	svc := newTestService(&stubRepo{settings: settings})

	_, err := svc.AddCategory(context.Background(), 1, model.Category{Name: "Robes"})
	if !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand for duplicate category, got %v", err)
	}
}

func TestSettingsCommand_StaleVersion(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	_, err := svc.AddSize(context.Background(), 99, "XL")
	if !errors.Is(err, repository.ErrSettingsConflict) {
		t.Fatalf("expected ErrSettingsConflict, got %v", err)
	}
}

func TestRemoveSize_PassesCascadeValue(t *testing.T) {
	settings := testSettings()
	settings.Sizes = []string{"M", "XL"}
	repo := &stubRepo{settings: settings}
	svc := newTestService(repo)

	updated, err := svc.RemoveSize(context.Background(), 1, "XL")
	if err != nil {
		t.Fatalf("RemoveSize error: %v", err)
	}
	if repo.removedSize != "XL" {
		t.Fatalf("cascade size = %q, want XL", repo.removedSize)
	}
	if len(updated.Sizes) != 1 || updated.Sizes[0] != "M" {
		t.Fatalf("sizes = %v, want [M]", updated.Sizes)
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}
}

func TestRemoveColor_PassesCascadeValue(t *testing.T) {
	settings := testSettings()
	settings.Colors = []string{"red", "black"}
	repo := &stubRepo{settings: settings}
	svc := newTestService(repo)

	if _, err := svc.RemoveColor(context.Background(), 1, "red"); err != nil {
		t.Fatalf("RemoveColor error: %v", err)
	}
	if repo.removedColor != "red" {
		t.Fatalf("cascade color = %q, want red", repo.removedColor)
	}
}

type stubImageDeleter struct {
	deleted []string
	err     error
}

func (d *stubImageDeleter) DeleteImage(ctx context.Context, imageURL string) error {
	d.deleted = append(d.deleted, imageURL)
	return d.err
}

func TestRemoveCategory_DeletesImage(t *testing.T) {
	settings := testSettings()
	settings.Categories = []model.Category{{Name: "Robes", Image: "https://img.example/robes.jpg"}}
	deleter := &stubImageDeleter{}
	svc := NewService(&stubRepo{settings: settings}, deleter, zap.NewNop())

	updated, err := svc.RemoveCategory(context.Background(), 1, "Robes")
	if err != nil {
		t.Fatalf("RemoveCategory error: %v", err)
	}
	if len(updated.Categories) != 0 {
		t.Fatalf("categories = %+v, want empty", updated.Categories)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != "https://img.example/robes.jpg" {
		t.Fatalf("deleted images = %v", deleter.deleted)
	}
}

func TestRemoveCategory_ImageFailureDoesNotFailCommand(t *testing.T) {
	settings := testSettings()
	settings.Categories = []model.Category{{Name: "Robes", Image: "https://img.example/robes.jpg"}}
	deleter := &stubImageDeleter{err: errors.New("host unavailable")}
	svc := NewService(&stubRepo{settings: settings}, deleter, zap.NewNop())

	if _, err := svc.RemoveCategory(context.Background(), 1, "Robes"); err != nil {
		t.Fatalf("RemoveCategory must not fail on image host error, got %v", err)
	}
}

func TestAddSize_Idempotent(t *testing.T) {
	settings := testSettings()
	settings.Sizes = []string{"M"}
	repo := &stubRepo{settings: settings}
	svc := newTestService(repo)

	updated, err := svc.AddSize(context.Background(), 1, "M")
	if err != nil {
		t.Fatalf("AddSize error: %v", err)
	}
	if len(updated.Sizes) != 1 {
		t.Fatalf("sizes = %v, want [M]", updated.Sizes)
	}
}

func TestSetOrderCalculation_RejectsUnknownMode(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	_, err := svc.SetOrderCalculation(context.Background(), 1, "sometimes")
	if !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestSetDeliveryRates_Validation(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	cases := []struct {
		name  string
		rates []model.DeliveryRate
	}{
		{"empty table", nil},
		{"missing state", []model.DeliveryRate{{OfficePrice: 100, HomePrice: 200, DeliveryDays: 2}}},
		{"negative price", []model.DeliveryRate{{State: "01 - أدرار", OfficePrice: -1, HomePrice: 200, DeliveryDays: 2}}},
		{"zero days", []model.DeliveryRate{{State: "01 - أدرار", OfficePrice: 100, HomePrice: 200, DeliveryDays: 0}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SetDeliveryRates(context.Background(), 1, tc.rates)
			if !errors.Is(err, ErrInvalidCommand) {
				t.Fatalf("expected ErrInvalidCommand, got %v", err)
			}
		})
	}
}

func TestGetAnalyticsData_DerivedFields(t *testing.T) {
	repo := &stubRepo{
		settings: testSettings(),
		counts: &repository.AnalyticsCounts{
			ProductsTotal:          10,
			ProductsFeatured:       3,
			OrdersAll:              8,
			OrdersConfirmed:        5,
			CouponsTotal:           4,
			CouponsActive:          1,
			RevenueCents:           100000,
			RevenueNoDeliveryCents: 90000,
			DiscountCents:          6000,
			DiscountedOrders:       2,
		},
	}
	svc := newTestService(repo)

	data, err := svc.GetAnalyticsData(context.Background())
	if err != nil {
		t.Fatalf("GetAnalyticsData error: %v", err)
	}

	if repo.confirmedOnlyArg {
		t.Fatalf("confirmedOnly must be false in mode all")
	}
	if data.Products.Regular != 7 {
		t.Fatalf("Products.Regular = %d, want 7", data.Products.Regular)
	}
	if data.Orders.Total != 8 || data.Orders.Pending != 3 {
		t.Fatalf("Orders = %+v, want total 8 pending 3", data.Orders)
	}
	if data.Coupons.Inactive != 3 {
		t.Fatalf("Coupons.Inactive = %d, want 3", data.Coupons.Inactive)
	}
	if data.Revenue.WithDelivery != 1000 || data.Revenue.WithoutDelivery != 900 {
		t.Fatalf("Revenue = %+v", data.Revenue)
	}
	if data.Revenue.AverageDiscount != 30 {
		t.Fatalf("AverageDiscount = %v, want 30", data.Revenue.AverageDiscount)
	}
	if data.Revenue.NetWithDelivery != 940 || data.Revenue.NetWithoutDelivery != 840 {
		t.Fatalf("net revenue = %+v", data.Revenue)
	}
}

func TestGetAnalyticsData_ConfirmedMode(t *testing.T) {
	settings := testSettings()
	settings.OrderCalculation = model.OrderCalculationConfirmed
	repo := &stubRepo{
		settings: settings,
		counts: &repository.AnalyticsCounts{
			OrdersAll:       8,
			OrdersConfirmed: 5,
		},
	}
	svc := newTestService(repo)

	data, err := svc.GetAnalyticsData(context.Background())
	if err != nil {
		t.Fatalf("GetAnalyticsData error: %v", err)
	}

	if !repo.confirmedOnlyArg {
		t.Fatalf("confirmedOnly must be true in mode confirmed")
	}
	if data.Orders.Total != 5 {
		t.Fatalf("Orders.Total = %d, want confirmed count 5", data.Orders.Total)
	}
	if data.Orders.Confirmed != 5 || data.Orders.Pending != 3 {
		t.Fatalf("Orders = %+v, confirmed/pending must count all orders", data.Orders)
	}
}

func TestGetDailySalesData_InvalidRange(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetDailySalesData(context.Background(), start, end)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestGetDailySalesData_ZeroFillsMissingDays(t *testing.T) {
	repo := &stubRepo{
		settings: testSettings(),
		dailyRows: []repository.DailySalesRow{
			{
				Date:                   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
				Orders:                 2,
				RevenueCents:           50000,
				RevenueNoDeliveryCents: 44000,
				DiscountCents:          1000,
			},
		},
	}
	svc := newTestService(repo)

	start := time.Date(2026, 8, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, 8, 3, 2, 0, 0, 0, time.UTC)

	series, err := svc.GetDailySalesData(context.Background(), start, end)
	if err != nil {
		t.Fatalf("GetDailySalesData error: %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}

	wantDates := []string{"2026-08-01", "2026-08-02", "2026-08-03"}
	for i, want := range wantDates {
		if series[i].Date != want {
			t.Fatalf("series[%d].Date = %q, want %q", i, series[i].Date, want)
		}
	}

	if series[0].Orders != 0 || series[0].RevenueWithDelivery != 0 {
		t.Fatalf("empty day must be zero-filled: %+v", series[0])
	}
	if series[1].Orders != 2 || series[1].RevenueWithDelivery != 500 {
		t.Fatalf("populated day = %+v", series[1])
	}
	if series[1].NetWithDelivery != 490 || series[1].NetWithoutDelivery != 430 {
		t.Fatalf("net revenue = %+v", series[1])
	}
}

func TestGetDailySalesData_SingleDayRange(t *testing.T) {
	svc := newTestService(&stubRepo{settings: testSettings()})

	day := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)

	series, err := svc.GetDailySalesData(context.Background(), day, day)
	if err != nil {
		t.Fatalf("GetDailySalesData error: %v", err)
	}
	if len(series) != 1 || series[0].Date != "2026-08-05" {
		t.Fatalf("series = %+v, want single zero day", series)
	}
}
