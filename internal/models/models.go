package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is an ordered list of strings persisted as a JSON array.
type StringList []string

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch value := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("string list: unsupported source %T", src)
	}
	items := []string{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func cloneList(l StringList) StringList {
	out := make(StringList, len(l))
	copy(out, l)
	return out
}

type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	IsAdmin   bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type UserInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ContactMessage is a visitor message from the public contact form. It is
// handed to a delivery collaborator and never persisted.
type ContactMessage struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject" validate:"omitnil,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func (u *User) GetID() int   { return u.ID }
func (u *User) SetID(id int) { u.ID = id }

func (in UserInput) Build() User {
	return User{Username: in.Username, Password: in.Password, IsAdmin: in.IsAdmin}
}
