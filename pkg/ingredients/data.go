package ingredients

// Built-in canonical ingredients with their customary units. Deliberately
// small; a deployment can grow this without schema changes since the catalog
// is in-memory.
var defaultEntries = []Entry{
	{Name: "wheat flour", Unit: "g"},
	{Name: "sugar", Unit: "g"},
	{Name: "brown sugar", Unit: "g"},
	{Name: "salt", Unit: "g"},
	{Name: "black pepper", Unit: "g"},
	{Name: "butter", Unit: "g"},
	{Name: "olive oil", Unit: "ml"},
	{Name: "sunflower oil", Unit: "ml"},
	{Name: "milk", Unit: "ml"},
	{Name: "cream", Unit: "ml"},
	{Name: "sour cream", Unit: "g"},
	{Name: "yogurt", Unit: "g"},
	{Name: "egg", Unit: "pcs"},
	{Name: "chicken breast", Unit: "g"},
	{Name: "chicken thigh", Unit: "g"},
	{Name: "beef", Unit: "g"},
	{Name: "pork", Unit: "g"},
	{Name: "salmon", Unit: "g"},
	{Name: "white fish", Unit: "g"},
	{Name: "shrimp", Unit: "g"},
	{Name: "rice", Unit: "g"},
	{Name: "spaghetti", Unit: "g"},
	{Name: "penne", Unit: "g"},
	{Name: "buckwheat", Unit: "g"},
	{Name: "oats", Unit: "g"},
	{Name: "potato", Unit: "g"},
	{Name: "carrot", Unit: "g"},
	{Name: "onion", Unit: "g"},
	{Name: "garlic", Unit: "pcs"},
	{Name: "tomato", Unit: "g"},
	{Name: "canned tomatoes", Unit: "g"},
	{Name: "tomato paste", Unit: "g"},
	{Name: "cucumber", Unit: "g"},
	{Name: "bell pepper", Unit: "g"},
	{Name: "zucchini", Unit: "g"},
	{Name: "eggplant", Unit: "g"},
	{Name: "broccoli", Unit: "g"},
	{Name: "cauliflower", Unit: "g"},
	{Name: "spinach", Unit: "g"},
	{Name: "lettuce", Unit: "g"},
	{Name: "mushrooms", Unit: "g"},
	{Name: "champignons", Unit: "g"},
	{Name: "cheese", Unit: "g"},
	{Name: "parmesan", Unit: "g"},
	{Name: "mozzarella", Unit: "g"},
	{Name: "cottage cheese", Unit: "g"},
	{Name: "lemon", Unit: "pcs"},
	{Name: "lime", Unit: "pcs"},
	{Name: "apple", Unit: "pcs"},
	{Name: "banana", Unit: "pcs"},
	{Name: "berries", Unit: "g"},
	{Name: "honey", Unit: "g"},
	{Name: "walnuts", Unit: "g"},
	{Name: "almonds", Unit: "g"},
	{Name: "basil", Unit: "g"},
	{Name: "parsley", Unit: "g"},
	{Name: "dill", Unit: "g"},
	{Name: "cilantro", Unit: "g"},
	{Name: "thyme", Unit: "g"},
	{Name: "rosemary", Unit: "g"},
	{Name: "paprika", Unit: "g"},
	{Name: "cumin", Unit: "g"},
	{Name: "cinnamon", Unit: "g"},
	{Name: "vanilla sugar", Unit: "g"},
	{Name: "baking powder", Unit: "g"},
	{Name: "yeast", Unit: "g"},
	{Name: "soy sauce", Unit: "ml"},
	{Name: "vinegar", Unit: "ml"},
	{Name: "mustard", Unit: "g"},
	{Name: "mayonnaise", Unit: "g"},
	{Name: "chickpeas", Unit: "g"},
	{Name: "lentils", Unit: "g"},
	{Name: "red beans", Unit: "g"},
	{Name: "corn", Unit: "g"},
	{Name: "green peas", Unit: "g"},
	{Name: "ginger", Unit: "g"},
	{Name: "chili pepper", Unit: "pcs"},
	{Name: "coconut milk", Unit: "ml"},
	{Name: "dark chocolate", Unit: "g"},
	{Name: "cocoa powder", Unit: "g"},
}

// Common variants mapped to canonical names.
var defaultAliases = map[string]string{
	"flour":            "wheat flour",
	"all-purpose flour": "wheat flour",
	"eggs":             "egg",
	"tomatoes":         "tomato",
	"chopped tomatoes": "canned tomatoes",
	"potatoes":         "potato",
	"carrots":          "carrot",
	"onions":           "onion",
	"garlic clove":     "garlic",
	"garlic cloves":    "garlic",
	"button mushrooms": "champignons",
	"scampi":           "shrimp",
	"prawns":           "shrimp",
	"pasta":            "spaghetti",
	"rolled oats":      "oats",
	"oatmeal":          "oats",
	"chicken fillet":   "chicken breast",
	"curd":             "cottage cheese",
	"chocolate":        "dark chocolate",
	"cocoa":            "cocoa powder",
	"caster sugar":     "sugar",
	"spring onion":     "onion",
}
