package services

import (
	"math/rand"
	"time"

	"makhraj/backend/models"
)

// FlashSaleSize is how many items can be on sale on a given day.
const FlashSaleSize = 3

var flashSaleDiscounts = []int{10, 20, 25, 50}

// FlashSaleItem is a shop item with today's discount applied.
type FlashSaleItem struct {
	Item      models.ShopItem `json:"item"`
	Discount  int             `json:"discount"`
	SalePrice int             `json:"sale_price"`
}

// SelectFlashSale picks today's discounted items. The PRNG is seeded from
// the calendar date in loc, so every instance of the service computes the
// same sale for the same day without any coordination or stored state.
func SelectFlashSale(items []models.ShopItem, now time.Time, loc *time.Location) []FlashSaleItem {
	if len(items) == 0 {
		return nil
	}

	y, m, d := now.In(loc).Date()
	seed := int64(y)*10000 + int64(m)*100 + int64(d)
	rng := rand.New(rand.NewSource(seed))

	picked := make([]models.ShopItem, len(items))
	copy(picked, items)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	count := FlashSaleSize
	if count > len(picked) {
		count = len(picked)
	}

	sale := make([]FlashSaleItem, 0, count)
	for _, item := range picked[:count] {
		discount := flashSaleDiscounts[rng.Intn(len(flashSaleDiscounts))]
		sale = append(sale, FlashSaleItem{
			Item:      item,
			Discount:  discount,
			SalePrice: discountedPrice(item.Price, discount),
		})
	}
	return sale
}

func discountedPrice(price, discount int) int {
	return price - price*discount/100
}
