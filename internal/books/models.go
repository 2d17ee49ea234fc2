package books

import "time"

// Book is a catalog entry. ID is an ObjectID in hex form.
type Book struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Author        string    `json:"author" bson:"author"`
	Price         float64   `json:"price" bson:"price"`
	Stock         int       `json:"stock" bson:"stock"`
	Image         string    `json:"image" bson:"image"`
	DiscountPrice float64   `json:"discount_price" bson:"discount_price"`
	Description   string    `json:"description" bson:"description"`
	CoverKey      string    `json:"cover_key,omitempty" bson:"cover_key,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Input holds the client-editable fields for create and full update.
type Input struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	Price         float64 `json:"price" binding:"gte=0"`
	Stock         int     `json:"stock" binding:"gte=0"`
	Image         string  `json:"image"`
	DiscountPrice float64 `json:"discount_price" binding:"gte=0"`
	Description   string  `json:"description"`
}

// Apply copies the editable fields onto b.
func (in Input) Apply(b *Book) {
	b.Title = in.Title
	b.Author = in.Author
	b.Price = in.Price
	b.Stock = in.Stock
	b.Image = in.Image
	b.DiscountPrice = in.DiscountPrice
	b.Description = in.Description
}

// ListLimit caps how many books a single list call returns.
const ListLimit = 100
