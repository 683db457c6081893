package domain

// ProductDocument is the aggregated review text of one product
type ProductDocument struct {
	ProductID string `json:"product_id"`
	Text      string `json:"text"` // lower-cased, fragments joined by a single space
}

// Universe is the ordered set of documents a run samples from
type Universe []ProductDocument
