package id

import "github.com/google/uuid"

// UUIDGenerator issues random UUIDv4 identifiers for cart lines.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
