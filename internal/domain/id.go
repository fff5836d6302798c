package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"lukechampine.com/uint128"
)

// ID is a platform identifier. Classroom hands out decimal strings that do not
// always fit in 64 bits, so IDs are kept as unsigned 128-bit integers.
type ID struct {
	n uint128.Uint128
}

// ParseID parses a positive decimal platform ID.
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, &InvalidIDError{Value: s, Reason: "empty"}
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ID{}, &InvalidIDError{Value: s, Reason: "not a decimal number"}
		}
	}

	n, err := uint128.FromString(s)
	if err != nil {
		return ID{}, &InvalidIDError{Value: s, Reason: err.Error()}
	}
	if n.IsZero() {
		return ID{}, &InvalidIDError{Value: s, Reason: "must be positive"}
	}
	return ID{n: n}, nil
}

// MustParseID is ParseID for literals in tests and fixtures.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return id.n.String()
}

func (id ID) Equal(other ID) bool {
	return id.n.Equals(other.n)
}

func (id ID) IsZero() bool {
	return id.n.IsZero()
}

// MarshalJSON writes the ID as a bare JSON number.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(id.n.String()), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	parsed, err := ParseID(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value stores the ID as a decimal string, matching a NUMERIC(39,0) column.
func (id ID) Value() (driver.Value, error) {
	return id.n.String(), nil
}

func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return id.scanString(string(v))
	case string:
		return id.scanString(v)
	case int64:
		if v <= 0 {
			return &InvalidIDError{Value: fmt.Sprint(v), Reason: "must be positive"}
		}
		id.n = uint128.From64(uint64(v))
		return nil
	default:
		return fmt.Errorf("scan id: unsupported type %T", src)
	}
}

func (id *ID) scanString(s string) error {
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
