package memory

import (
	"context"
	"sort"

	"portfolio-backend-go/internal/storage"
)

type entity[E any] interface {
	*E
	GetID() int
	SetID(int)
}

type orderedEntity[E any] interface {
	entity[E]
	GetDisplayOrder() int
	SetDisplayOrder(int)
}

type builder[E any] interface {
	Build() E
}

type patcher[E any] interface {
	ApplyTo(*E)
}

// table holds one entity kind. All tables of a Store share its lock so
// cross-kind operations such as the category cascade stay atomic.
type table[E any, PE entity[E], In builder[E], P patcher[E]] struct {
	store  *Store
	rows   map[int]E
	order  []int
	nextID int

	less     func(a, b *E) bool
	check    func(row *E) error
	onDelete func(id int)
}

func newTable[E any, PE entity[E], In builder[E], P patcher[E]](store *Store) *table[E, PE, In, P] {
	return &table[E, PE, In, P]{store: store, rows: map[int]E{}, nextID: 1}
}

func (t *table[E, PE, In, P]) List(ctx context.Context) ([]E, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.listLocked(func(*E) bool { return true }), nil
}

func (t *table[E, PE, In, P]) listLocked(keep func(*E) bool) []E {
	out := make([]E, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep(&row) {
			out = append(out, row)
		}
	}
	if t.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return t.less(&out[i], &out[j]) })
	}
	return out
}

func (t *table[E, PE, In, P]) Get(ctx context.Context, id int) (E, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, storage.ErrNotFound
	}
	return row, nil
}

func (t *table[E, PE, In, P]) Create(ctx context.Context, in In) (E, error) {
	row := in.Build()
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.check != nil {
		if err := t.check(&row); err != nil {
			var zero E
			return zero, err
		}
	}
	t.insertLocked(&row)
	return row, nil
}

func (t *table[E, PE, In, P]) insertLocked(row *E) {
	id := t.nextID
	t.nextID++
	PE(row).SetID(id)
	t.rows[id] = *row
	t.order = append(t.order, id)
	t.store.mutations.Add(1)
}

func (t *table[E, PE, In, P]) Update(ctx context.Context, id int, patch P) (E, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, storage.ErrNotFound
	}
	patch.ApplyTo(&row)
	if t.check != nil {
		if err := t.check(&row); err != nil {
			var zero E
			return zero, err
		}
	}
	t.rows[id] = row
	t.store.mutations.Add(1)
	return row, nil
}

func (t *table[E, PE, In, P]) Delete(ctx context.Context, id int) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.deleteLocked(id) {
		return storage.ErrNotFound
	}
	if t.onDelete != nil {
		t.onDelete(id)
	}
	return nil
}

func (t *table[E, PE, In, P]) deleteLocked(id int) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.store.mutations.Add(1)
	return true
}

func (t *table[E, PE, In, P]) deleteWhereLocked(match func(*E) bool) {
	for _, id := range append([]int(nil), t.order...) {
		row := t.rows[id]
		if match(&row) {
			t.deleteLocked(id)
		}
	}
}

type orderedTable[E any, PE orderedEntity[E], In builder[E], P patcher[E]] struct {
	*table[E, PE, In, P]
}

func newOrderedTable[E any, PE orderedEntity[E], In builder[E], P patcher[E]](store *Store) orderedTable[E, PE, In, P] {
	t := newTable[E, PE, In, P](store)
	t.less = func(a, b *E) bool {
		return PE(a).GetDisplayOrder() < PE(b).GetDisplayOrder()
	}
	return orderedTable[E, PE, In, P]{table: t}
}

func (t orderedTable[E, PE, In, P]) Reorder(ctx context.Context, ids []int) ([]E, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if err := storage.CheckOrder(t.order, ids); err != nil {
		return nil, err
	}
	for position, id := range ids {
		row := t.rows[id]
		PE(&row).SetDisplayOrder(position)
		t.rows[id] = row
	}
	t.store.mutations.Add(1)
	return t.listLocked(func(*E) bool { return true }), nil
}

type singleton[E any, PE entity[E], P patcher[E]] struct {
	store    *Store
	row      *E
	nextID   int
	defaults func() E
	touch    func(*E)
}

func newSingleton[E any, PE entity[E], P patcher[E]](store *Store, defaults func() E) *singleton[E, PE, P] {
	return &singleton[E, PE, P]{store: store, nextID: 1, defaults: defaults}
}

func (s *singleton[E, PE, P]) Get(ctx context.Context) (E, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	if s.row == nil {
		return s.defaults(), nil
	}
	return *s.row, nil
}

func (s *singleton[E, PE, P]) Upsert(ctx context.Context, patch P) (E, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.upsertLocked(patch), nil
}

func (s *singleton[E, PE, P]) upsertLocked(patch P) E {
	var row E
	if s.row != nil {
		row = *s.row
	} else {
		row = s.defaults()
		PE(&row).SetID(s.nextID)
		s.nextID++
	}
	patch.ApplyTo(&row)
	if s.touch != nil {
		s.touch(&row)
	}
	s.row = &row
	s.store.mutations.Add(1)
	return row
}
