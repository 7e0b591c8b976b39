package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Base contains common fields for all models
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SoftDelete marks rows that are hidden instead of removed.
type SoftDelete struct {
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

// Scope selects which rows of a soft-deletable table a read may see.
// The zero value hides deleted rows.
type Scope struct {
	IncludeDeleted bool
}

// Page is a limit/offset window over a result set.
type Page struct {
	Limit  int
	Offset int
}

// Ref is the {id, name} summary embedded in responses.
type Ref struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		parsed, err := ParseDate(v[:min(len(v), len(DateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}
