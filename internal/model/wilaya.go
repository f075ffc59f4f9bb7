package model

import "fmt"

// wilayaNames — закрытый перечень из 58 административных вилай Алжира.
// Админка правит тарифы и сроки, но не сам перечень.
var wilayaNames = []string{
	"أدرار",
	"الشلف",
	"الأغواط",
	"أم البواقي",
	"باتنة",
	"بجاية",
	"بسكرة",
	"بشار",
	"البليدة",
	"البويرة",
	"تمنراست",
	"تبسة",
	"تلمسان",
	"تيارت",
	"تيزي وزو",
	"الجزائر",
	"الجلفة",
	"جيجل",
	"سطيف",
	"سعيدة",
	"سكيكدة",
	"سيدي بلعباس",
	"عنابة",
	"قالمة",
	"قسنطينة",
	"المدية",
	"مستغانم",
	"المسيلة",
	"معسكر",
	"ورقلة",
	"وهران",
	"البيض",
	"إليزي",
	"برج بوعريريج",
	"بومرداس",
	"الطارف",
	"تندوف",
	"تيسمسيلت",
	"الوادي",
	"خنشلة",
	"سوق أهراس",
	"تيبازة",
	"ميلة",
	"عين الدفلى",
	"النعامة",
	"عين تموشنت",
	"غرداية",
	"غليزان",
	"تيميمون",
	"برج باجي مختار",
	"أولاد جلال",
	"بني عباس",
	"عين صالح",
	"عين قزام",
	"تقرت",
	"جانت",
	"المغير",
	"المنيعة",
}

// DefaultDeliveryRates возвращает таблицу тарифов по умолчанию: по одной
// записи на каждую вилайю, с нулевыми ценами и стандартным сроком доставки.
func DefaultDeliveryRates() []DeliveryRate {
	rates := make([]DeliveryRate, 0, len(wilayaNames))
	for i, name := range wilayaNames {
		rates = append(rates, DeliveryRate{
			State:        fmt.Sprintf("%d - %s", i+1, name),
			OfficePrice:  0,
			HomePrice:    0,
			DeliveryDays: DefaultDeliveryDays,
		})
	}
	return rates
}

// DefaultSettings возвращает настройки, создаваемые лениво при первом чтении.
func DefaultSettings() *Settings {
	return &Settings{
		Delivery:         DefaultDeliveryRates(),
		OrderCalculation: OrderCalculationAll,
		Categories:       []Category{},
		Sizes:            []string{},
		Colors:           []string{},
		Version:          1,
	}
}
