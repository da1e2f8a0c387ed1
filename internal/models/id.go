package models

import "github.com/google/uuid"

const (
	PrefixItem   = "inv-"
	PrefixStream = "stream-"
	PrefixChange = "change-"
	PrefixCheck  = "check-"
	PrefixUser   = "user-"
)

// NewID: önekli, zamana göre sıralı (UUIDv7) kimlik üretir
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		return prefix + uuid.NewString()
	}
	return prefix + id.String()
}
