package store

// LeaseRecord is one entry of the lease usage export. Unknown keys in the
// export (resource properties, owner, status, ...) are ignored.
type LeaseRecord struct {
	UUID          string  `json:"UUID" validate:"required"`
	Resource      string  `json:"Resource" validate:"required"`
	ResourceClass string  `json:"Resource Class" validate:"required"`
	Project       *string `json:"Project" validate:"required"` // key must be present, value may be empty
	StartTime     string  `json:"Start Time" validate:"required"`
	ExpireTime    *string `json:"Expire Time,omitempty"`
}
