package domain

// CollectionUsers stores one profile document per email.
const CollectionUsers = "users"

// RoleAdmin is the only elevated role a user record can hold.
const RoleAdmin = "admin"

// User document fields read by the service.
const (
	FieldEmail = "email"
	FieldRole  = "role"
)
