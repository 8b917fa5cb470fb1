package models

type Category string

const (
	CategoryRestaurant    Category = "restaurant"
	CategoryCafe          Category = "cafe"
	CategoryViewpoint     Category = "viewpoint"
	CategoryShopping      Category = "shopping"
	CategoryMuseum        Category = "museum"
	CategoryPark          Category = "park"
	CategoryHotel         Category = "hotel"
	CategoryNightlife     Category = "nightlife"
	CategoryBeach         Category = "beach"
	CategoryActivity      Category = "activity"
	CategoryAccommodation Category = "accommodation"
	CategoryOther         Category = "other"
)

var categories = map[Category]bool{
	CategoryRestaurant:    true,
	CategoryCafe:          true,
	CategoryViewpoint:     true,
	CategoryShopping:      true,
	CategoryMuseum:        true,
	CategoryPark:          true,
	CategoryHotel:         true,
	CategoryNightlife:     true,
	CategoryBeach:         true,
	CategoryActivity:      true,
	CategoryAccommodation: true,
	CategoryOther:         true,
}

func (c Category) IsValid() bool {
	return categories[c]
}
