package models

import "time"

// KeyStatus is the lifecycle state of an IAM access key
type KeyStatus string

const (
	KeyStatusActive   KeyStatus = "Active"
	KeyStatusInactive KeyStatus = "Inactive"
)

// Principal represents an IAM user as returned by the identity API
type Principal struct {
	UserName  string    // IAM user name
	CreatedAt time.Time // When the user was created
}

// AccessKey represents an access key attached to an IAM user
type AccessKey struct {
	KeyID     string    // Access key ID (AKIA...)
	CreatedAt time.Time // When the key was created
	Status    KeyStatus // Active or Inactive
}
