package domain

// CollectionParts holds the car-part catalog.
const CollectionParts = "parts"

// FieldQuantity is the stock count of a part.
const FieldQuantity = "quantity"
