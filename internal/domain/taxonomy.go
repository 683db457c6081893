package domain

// Uncategorized is assigned to every product that could not be mapped into the taxonomy
const Uncategorized = "Uncategorized"

// Taxonomy is the ordered list of accepted category labels. Order decides ties.
type Taxonomy []string

// KeywordGroup lists the lower-case keywords that hint at a category label
type KeywordGroup struct {
	Label    string   `mapstructure:"label" json:"label"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// KeywordMap is ordered; the sampler attributes a product to the first group it matches
type KeywordMap []KeywordGroup

// DefaultTaxonomy is the official marketplace category list
var DefaultTaxonomy = Taxonomy{
	"Amazon Device Accessories", "Amazon Kindle", "Automotive & Powersports",
	"Baby Products", "Beauty", "Books", "Camera & Photo", "Cell Phones & Accessories",
	"Collectible Coins", "Consumer Electronics", "Entertainment Collectibles",
	"Fine Art", "Grocery & Gourmet Food", "Health & Personal Care", "Home & Garden",
	"Industrial & Scientific", "Kindle Accessories and Amazon Fire TV Accessories",
	"Major Appliances", "Music and DVD", "Musical Instruments", "Office Products",
	"Outdoors", "Personal Computers", "Pet Supplies", "Software", "Sports",
	"Sports Collectibles", "Tools & Home Improvement", "Toys & Games",
	"Video, DVD & Blu-ray", "Video Games", "Watches",
}

// DefaultKeywordMap targets the categories that are rare under uniform sampling
var DefaultKeywordMap = KeywordMap{
	{Label: "Pet Supplies", Keywords: []string{"dog", "cat", "puppy", "kitten", "pet", "fish", "ferret"}},
	{Label: "Beauty", Keywords: []string{"lotion", "shampoo", "conditioner", "makeup", "lipstick", "mascara", "skin"}},
	{Label: "Health & Personal Care", Keywords: []string{"vitamin", "supplement", "pill", "medical", "health", "dental"}},
	{Label: "Toys & Games", Keywords: []string{"toy", "game", "puzzle", "doll", "fun", "play"}},
	{Label: "Automotive & Powersports", Keywords: []string{"car", "vehicle", "tire", "engine", "automotive"}},
	{Label: "Outdoors", Keywords: []string{"outdoor", "camping", "hiking", "sports", "tent"}},
	{Label: "Books", Keywords: []string{"book", "read", "author", "novel", "pages"}},
}
