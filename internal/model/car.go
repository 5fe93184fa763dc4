package model

// Car is a canonical used-car listing scraped from the marketplace.
//
// Link is the identity key: a listing keeps its link across scrape
// cycles, so it decides insert vs update. Brand, Model and Year are
// written once at first insertion; Price and Color are refreshed on
// every re-scrape. Rows are never deleted.
type Car struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Brand string `gorm:"size:100;not null;index" json:"brand"`
	Model string `gorm:"size:100;not null" json:"model"`
	Year  int    `gorm:"not null;index" json:"year"`
	Price int    `gorm:"not null;index" json:"price"`
	Color string `gorm:"size:50;not null;index" json:"color"`
	Link  string `gorm:"size:500;not null;uniqueIndex" json:"link"`
}

// TableName sets the table name used by gorm
func (Car) TableName() string {
	return "cars"
}
