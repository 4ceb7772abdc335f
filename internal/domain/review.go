package domain

// CollectionReviews holds customer reviews.
const CollectionReviews = "reviews"
