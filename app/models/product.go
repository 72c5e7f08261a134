package models

import "time"

// Product is one catalog item. The second and third images are optional and
// stored as NULL when absent so that blanks never trip the unique indexes.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"size:500;not null;uniqueIndex" json:"description"`
	Price       string    `gorm:"size:50;not null" json:"price"`
	ImgURLOne   string    `gorm:"column:img_url_one;size:500;not null;uniqueIndex" json:"img_url_one"`
	ImgURLTwo   *string   `gorm:"column:img_url_two;size:500;uniqueIndex" json:"img_url_two"`
	ImgURLThree *string   `gorm:"column:img_url_three;size:500;uniqueIndex" json:"img_url_three"`
	Sizes       string    `gorm:"size:255;not null" json:"sizes"`
	Materials   string    `gorm:"size:255;not null" json:"materials"`
	Colors      string    `gorm:"size:255;not null" json:"colors"`
	Other       *string   `gorm:"type:text" json:"other"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// Images returns the non-empty image URLs in display order.
func (p *Product) Images() []string {
	out := []string{p.ImgURLOne}
	for _, u := range []*string{p.ImgURLTwo, p.ImgURLThree} {
		if u != nil && *u != "" {
			out = append(out, *u)
		}
	}
	return out
}
