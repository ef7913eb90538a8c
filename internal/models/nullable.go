package models

import "encoding/json"

// Nullable is a patch field for a column that may be NULL. Set records that
// the key was present in the request body, so an explicit null clears the
// column while an absent key leaves it alone.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Present[T any](value T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &value}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// ValidationValue exposes the wrapped pointer to the validator, so omitnil
// and length tags apply to the value itself.
func (n Nullable[T]) ValidationValue() any {
	return n.Value
}

func setNullable[T any](dst **T, value Nullable[T]) {
	if !value.Set {
		return
	}
	if value.Value == nil {
		*dst = nil
		return
	}
	copied := *value.Value
	*dst = &copied
}
