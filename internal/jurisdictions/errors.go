package jurisdictions

import "errors"

var (
	ErrUnknownJurisdiction   = errors.New("unknown jurisdiction")
	ErrDuplicateJurisdiction = errors.New("duplicate jurisdiction")
	ErrInvalidRecord         = errors.New("invalid jurisdiction record")
)
