// Package model содержит доменные сущности интернет-магазина.
package model

import "time"

// DeliveryPlace описывает место доставки заказа.
type DeliveryPlace string

const (
	// DeliveryPlaceHome — доставка на дом.
	DeliveryPlaceHome DeliveryPlace = "home"
	// DeliveryPlaceOffice — доставка в пункт выдачи транспортной компании.
	DeliveryPlaceOffice DeliveryPlace = "office"
)

// Valid сообщает, является ли значение допустимым местом доставки.
func (p DeliveryPlace) Valid() bool {
	return p == DeliveryPlaceHome || p == DeliveryPlaceOffice
}

// OrderItem описывает одну позицию заказа. Цена фиксируется на момент
// оформления и не пересчитывается при изменении товара.
type OrderItem struct {
	ProductID     int64
	ProductName   string
	ProductImage  string
	Quantity      int
	Price         float64
	SelectedColor *string
	SelectedSize  *string
}

// CouponSnapshot — зафиксированная в заказе копия купона. Живёт независимо
// от самого купона, который удаляется при погашении.
type CouponSnapshot struct {
	Code           string
	DiscountAmount float64
}

// Order описывает заказ покупателя.
type Order struct {
	ID            int64
	Number        string
	FullName      string
	PhoneNumber   string
	Wilaya        string
	Baladia       string
	DeliveryPlace DeliveryPlace
	DeliveryPrice float64
	Items         []OrderItem
	Coupon        *CouponSnapshot
	TotalAmount   float64
	IsConfirmed   bool
	ConfirmedAt   *time.Time
	DeliveryPhone *string
	IsAskForPhone bool
	CreatedAt     time.Time
}

// Coupon описывает одноразовый купон на скидку.
type Coupon struct {
	ID             int64
	Code           string
	DiscountAmount float64
	IsActive       bool
	CreatedAt      time.Time
}

// Product описывает товар каталога. Каталогом управляет внешняя
// админ-панель, здесь товары нужны позициям заказов и аналитике.
type Product struct {
	ID         int64
	Name       string
	Price      float64
	Image      string
	Category   string
	IsFeatured bool
	Sizes      []string
	Colors     []string
	CreatedAt  time.Time
}

// OrderCalculation определяет режим агрегации заказов в аналитике.
type OrderCalculation string

const (
	// OrderCalculationAll — учитываются все заказы.
	OrderCalculationAll OrderCalculation = "all"
	// OrderCalculationConfirmed — учитываются только подтверждённые заказы.
	OrderCalculationConfirmed OrderCalculation = "confirmed"
)

// Valid сообщает, является ли значение допустимым режимом агрегации.
func (c OrderCalculation) Valid() bool {
	return c == OrderCalculationAll || c == OrderCalculationConfirmed
}

// DeliveryRate содержит тарифы доставки для одной вилайи.
type DeliveryRate struct {
	State        string  `json:"state"`
	OfficePrice  float64 `json:"officePrice"`
	HomePrice    float64 `json:"homePrice"`
	DeliveryDays int     `json:"deliveryDays"`
}

// Category описывает категорию каталога с изображением во внешнем хостинге.
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Settings — единственный документ настроек магазина. Version используется
// для оптимистической блокировки конкурентных изменений.
type Settings struct {
	Delivery         []DeliveryRate
	OrderCalculation OrderCalculation
	Categories       []Category
	Sizes            []string
	Colors           []string
	Version          int64
}

// DefaultDeliveryDays — срок доставки, используемый при отсутствии
// тарифа для вилайи заказа.
const DefaultDeliveryDays = 3

// TrackingInfo — публичная проекция заказа для отслеживания. Не содержит
// позиций, сумм и купона.
type TrackingInfo struct {
	Number            string
	IsConfirmed       bool
	Address           string
	EstimatedDelivery int64
	DeliveryPhone     *string
	IsAskForPhone     bool
}

// ProductStats содержит счётчики товаров.
type ProductStats struct {
	Total    int64 `json:"total"`
	Featured int64 `json:"featured"`
	Regular  int64 `json:"regular"`
}

// OrderStats содержит счётчики заказов. Confirmed и Pending считаются
// по всем заказам независимо от режима агрегации.
type OrderStats struct {
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
	Pending   int64 `json:"pending"`
}

// CouponStats содержит счётчики купонов.
type CouponStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// RevenueStats содержит суммы выручки и скидок.
type RevenueStats struct {
	WithDelivery       float64 `json:"withDelivery"`
	WithoutDelivery    float64 `json:"withoutDelivery"`
	TotalDiscounts     float64 `json:"totalDiscounts"`
	AverageDiscount    float64 `json:"averageDiscount"`
	NetWithDelivery    float64 `json:"netWithDelivery"`
	NetWithoutDelivery float64 `json:"netWithoutDelivery"`
}

// AnalyticsData — сводный срез аналитики.
type AnalyticsData struct {
	Products ProductStats `json:"products"`
	Orders   OrderStats   `json:"orders"`
	Coupons  CouponStats  `json:"coupons"`
	Revenue  RevenueStats `json:"revenue"`
}

// DailySales содержит агрегаты продаж за один календарный день (UTC).
type DailySales struct {
	Date                   string  `json:"date"`
	Orders                 int64   `json:"orders"`
	RevenueWithDelivery    float64 `json:"revenueWithDelivery"`
	RevenueWithoutDelivery float64 `json:"revenueWithoutDelivery"`
	TotalDiscounts         float64 `json:"totalDiscounts"`
	NetWithDelivery        float64 `json:"netWithDelivery"`
	NetWithoutDelivery     float64 `json:"netWithoutDelivery"`
}
