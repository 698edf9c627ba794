package models

import "time"

// UnknownField is rendered for optional metadata absent from a record.
// Older records predate the metadata fields entirely.
const UnknownField = "Unknown"

// Record is the current verification state for one identity. Upserts replace
// the record in full; there is no history.
type Record struct {
	// Username is the canonical identity key ("@handle", lowercase).
	Username string `json:"username"`
	// Service is the free-text description of what the user is verified for.
	Service string `json:"service"`
	// Network names where the verification applies. Optional.
	Network string `json:"network,omitempty"`
	// AddedBy is the handle of the operator who added the record. Optional.
	AddedBy string `json:"added_by,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// WithDefaults fills absent optional metadata so render paths never deal
// with empty strings.
func (r Record) WithDefaults() Record {
	if r.Network == "" {
		r.Network = UnknownField
	}
	if r.AddedBy == "" {
		r.AddedBy = UnknownField
	}
	return r
}
