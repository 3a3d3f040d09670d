package models

// ContextFields carries caller-supplied context attributes. Empty fields are
// treated as unspecified and preserve the current value on merge.
type ContextFields struct {
	ContextID         string `json:"context_id,omitempty"`
	Brand             string `json:"brand,omitempty"`
	DomainName        string `json:"domain_name,omitempty"`
	CollectionType    string `json:"collection_type,omitempty"`
	CollectionPointID string `json:"collection_point_id,omitempty"`
}

// Empty reports whether no attribute is specified (the context id alone does
// not count: it addresses the record, it is not a mutation).
func (f ContextFields) Empty() bool {
	return f.Brand == "" && f.DomainName == "" && f.CollectionType == "" && f.CollectionPointID == ""
}

// ConsentFields carries caller-supplied consent attributes for declaration or
// update. Empty fields are unspecified and fall back to the current record.
type ConsentFields struct {
	ContextID   string `json:"context_id,omitempty"`
	Description string `json:"description,omitempty"`
	Datatype    string `json:"datatype,omitempty"`
	Status      string `json:"status,omitempty"`
	// ExpiryDate accepts the configured date layout, RFC 3339, or unix
	// seconds. Invalid or empty input normalizes to "no expiry" on
	// declaration and preserves the current expiry on update.
	ExpiryDate string `json:"expiry_date,omitempty"`
	Issuer     string `json:"issuer,omitempty"`
}

// Empty reports whether no attribute is specified.
func (f ConsentFields) Empty() bool {
	return f.Description == "" && f.Datatype == "" && f.Status == "" &&
		f.ExpiryDate == "" && f.Issuer == ""
}

// SyncFailure is the structured payload surfaced when a sync round fails.
type SyncFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
