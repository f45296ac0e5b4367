package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// itemView lecturas del catálogo sin lock (el llamador ya lo tiene).
type itemView struct {
	st *state
}

func (v itemView) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	it, ok := v.st.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (v itemView) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	id, ok := v.st.codes[code]
	if !ok {
		return nil, nil
	}
	return v.GetByID(ctx, id)
}

func (v itemView) List(_ context.Context, filter repository.ItemFilter) ([]*entity.InventoryItem, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)
	var out []*entity.InventoryItem
	for _, it := range v.st.items {
		if category != "" && it.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Code), search) &&
			!strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ItemRepo catálogo en memoria.
type ItemRepo struct {
	s *Store
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return itemView{st: r.s.st}.GetByID(ctx, id)
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return itemView{st: r.s.st}.GetByCode(ctx, code)
}

func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return itemView{st: r.s.st}.List(ctx, filter)
}

// Create agrega un ítem; código o ID repetido -> domain.ErrConflict.
func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.items[item.ID]; ok {
		return fmt.Errorf("%w: ítem %s ya existe", domain.ErrConflict, item.ID)
	}
	if _, ok := r.s.st.codes[item.Code]; ok {
		return fmt.Errorf("%w: código %s ya existe", domain.ErrConflict, item.Code)
	}
	r.s.st.items[item.ID] = *item
	r.s.st.codes[item.Code] = item.ID
	return nil
}

// Update reemplaza los campos editables conservando ID y CreatedAt.
func (r *ItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if owner, taken := r.s.st.codes[item.Code]; taken && owner != item.ID {
		return fmt.Errorf("%w: código %s ya existe", domain.ErrConflict, item.Code)
	}
	delete(r.s.st.codes, cur.Code)
	next := *item
	next.CreatedAt = cur.CreatedAt
	r.s.st.items[item.ID] = next
	r.s.st.codes[item.Code] = item.ID
	return nil
}

func (r *ItemRepo) NextCodeSequence(_ context.Context, prefix string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.counters[prefix]++
	return r.s.st.counters[prefix], nil
}

// locationView lecturas de ubicaciones sin lock.
type locationView struct {
	st *state
}

func (v locationView) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := v.st.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (v locationView) List(_ context.Context) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(v.st.locations))
	for _, l := range v.st.locations {
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	s *Store
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return locationView{st: r.s.st}.GetByID(ctx, id)
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return locationView{st: r.s.st}.List(ctx)
}

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.locations[l.ID]; ok {
		return fmt.Errorf("%w: ubicación %s ya existe", domain.ErrConflict, l.ID)
	}
	r.s.st.locations[l.ID] = *l
	return nil
}
