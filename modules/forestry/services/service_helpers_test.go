package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/constants"
)

type testIdentity struct {
	id          uuid.UUID
	orgID       *uuid.UUID
	privileged  bool
	permissions map[string]struct{}
}

func (i *testIdentity) ID() uuid.UUID { return i.id }

func (i *testIdentity) OrganizationID() (uuid.UUID, bool) {
	if i.orgID == nil {
		return uuid.Nil, false
	}
	return *i.orgID, true
}

func (i *testIdentity) Privileged() bool { return i.privileged }

func (i *testIdentity) Can(action string) bool {
	if i.privileged {
		return true
	}
	_, ok := i.permissions[action]
	return ok
}

// fakeTx satisfies the transaction interface for in-memory repositories
// that never touch SQL.
type fakeTx struct{}

func (fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

// authCtx builds a request context for a non-privileged tenant member
// holding the given permissions.
func authCtx(orgID uuid.UUID, permissions ...string) context.Context {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	org := orgID
	identity := &testIdentity{id: uuid.New(), orgID: &org, permissions: set}

	ctx := composables.WithIdentity(context.Background(), identity)
	ctx = composables.WithScope(ctx, composables.TenantScope{OrganizationID: orgID})
	return context.WithValue(ctx, constants.TxKey, fakeTx{})
}

type captureBus struct {
	events []interface{}
}

func (b *captureBus) Publish(args ...interface{}) {
	if len(args) == 2 {
		// drop the leading context argument the way typed handlers do
		b.events = append(b.events, args[1])
		return
	}
	b.events = append(b.events, args...)
}
func (b *captureBus) Subscribe(handler interface{})   {}
func (b *captureBus) Unsubscribe(handler interface{}) {}
func (b *captureBus) Clear()                          { b.events = nil }
func (b *captureBus) SubscribersCount() int           { return 0 }

type memEstateRepo struct {
	items map[uuid.UUID]estate.Estate
}

func newMemEstateRepo() *memEstateRepo {
	return &memEstateRepo{items: map[uuid.UUID]estate.Estate{}}
}

func (r *memEstateRepo) all() []estate.Estate {
	out := make([]estate.Estate, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func paged[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *memEstateRepo) GetPaginated(ctx context.Context, params *estate.FindParams) ([]estate.Estate, error) {
	items := r.all()
	if params == nil {
		return items, nil
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		filtered := items[:0:0]
		for _, e := range items {
			if strings.Contains(strings.ToUpper(e.Code), strings.ToUpper(search)) ||
				strings.Contains(strings.ToUpper(e.Name), strings.ToUpper(search)) {
				filtered = append(filtered, e)
			}
		}
		items = filtered
	}
	return paged(items, params.Limit, params.Offset), nil
}

func (r *memEstateRepo) Count(ctx context.Context, params *estate.FindParams) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memEstateRepo) GetByID(ctx context.Context, id uuid.UUID) (estate.Estate, error) {
	e, ok := r.items[id]
	if !ok {
		return estate.Estate{}, estate.ErrNotFound
	}
	return e, nil
}

func (r *memEstateRepo) GetByCode(ctx context.Context, code string) (estate.Estate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, e := range r.items {
		if e.Code == code {
			return e, nil
		}
	}
	return estate.Estate{}, estate.ErrNotFound
}

func (r *memEstateRepo) Create(ctx context.Context, entity estate.Estate) (estate.Estate, error) {
	for _, e := range r.items {
		if e.Code == entity.Code {
			return estate.Estate{}, estate.ErrDuplicateCode
		}
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memEstateRepo) Update(ctx context.Context, entity estate.Estate) (estate.Estate, error) {
	if _, ok := r.items[entity.ID]; !ok {
		return estate.Estate{}, estate.ErrNotFound
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memEstateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return estate.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memCompartmentRepo struct {
	items map[uuid.UUID]compartment.Compartment
}

func newMemCompartmentRepo() *memCompartmentRepo {
	return &memCompartmentRepo{items: map[uuid.UUID]compartment.Compartment{}}
}

func (r *memCompartmentRepo) all() []compartment.Compartment {
	out := make([]compartment.Compartment, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *memCompartmentRepo) GetPaginated(ctx context.Context, params *compartment.FindParams) ([]compartment.Compartment, error) {
	items := r.all()
	if params == nil {
		return items, nil
	}
	if params.EstateID != nil {
		filtered := items[:0:0]
		for _, c := range items {
			if c.EstateID == *params.EstateID {
				filtered = append(filtered, c)
			}
		}
		items = filtered
	}
	return paged(items, params.Limit, params.Offset), nil
}

func (r *memCompartmentRepo) Count(ctx context.Context, params *compartment.FindParams) (int64, error) {
	if params == nil || params.EstateID == nil {
		return int64(len(r.items)), nil
	}
	var n int64
	for _, c := range r.items {
		if c.EstateID == *params.EstateID {
			n++
		}
	}
	return n, nil
}

func (r *memCompartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (compartment.Compartment, error) {
	c, ok := r.items[id]
	if !ok {
		return compartment.Compartment{}, compartment.ErrNotFound
	}
	return c, nil
}

func (r *memCompartmentRepo) CountByEstate(ctx context.Context, estateID uuid.UUID) (int64, error) {
	return r.Count(ctx, &compartment.FindParams{EstateID: &estateID})
}

func (r *memCompartmentRepo) Create(ctx context.Context, entity compartment.Compartment) (compartment.Compartment, error) {
	for _, c := range r.items {
		if c.EstateID == entity.EstateID && c.Code == entity.Code {
			return compartment.Compartment{}, compartment.ErrDuplicateCode
		}
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memCompartmentRepo) Update(ctx context.Context, entity compartment.Compartment) (compartment.Compartment, error) {
	if _, ok := r.items[entity.ID]; !ok {
		return compartment.Compartment{}, compartment.ErrNotFound
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memCompartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return compartment.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memStandRepo struct {
	items map[uuid.UUID]stand.Stand
}

func newMemStandRepo() *memStandRepo {
	return &memStandRepo{items: map[uuid.UUID]stand.Stand{}}
}

func (r *memStandRepo) all() []stand.Stand {
	out := make([]stand.Stand, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *memStandRepo) GetPaginated(ctx context.Context, params *stand.FindParams) ([]stand.Stand, error) {
	items := r.all()
	if params == nil {
		return items, nil
	}
	if params.CompartmentID != nil {
		filtered := items[:0:0]
		for _, s := range items {
			if s.CompartmentID == *params.CompartmentID {
				filtered = append(filtered, s)
			}
		}
		items = filtered
	}
	return paged(items, params.Limit, params.Offset), nil
}

func (r *memStandRepo) Count(ctx context.Context, params *stand.FindParams) (int64, error) {
	if params == nil || params.CompartmentID == nil {
		return int64(len(r.items)), nil
	}
	var n int64
	for _, s := range r.items {
		if s.CompartmentID == *params.CompartmentID {
			n++
		}
	}
	return n, nil
}

func (r *memStandRepo) GetByID(ctx context.Context, id uuid.UUID) (stand.Stand, error) {
	s, ok := r.items[id]
	if !ok {
		return stand.Stand{}, stand.ErrNotFound
	}
	return s, nil
}

func (r *memStandRepo) CountByCompartment(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	return r.Count(ctx, &stand.FindParams{CompartmentID: &compartmentID})
}

func (r *memStandRepo) Create(ctx context.Context, entity stand.Stand) (stand.Stand, error) {
	for _, s := range r.items {
		if s.CompartmentID == entity.CompartmentID && s.Code == entity.Code {
			return stand.Stand{}, stand.ErrDuplicateCode
		}
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memStandRepo) Update(ctx context.Context, entity stand.Stand) (stand.Stand, error) {
	if _, ok := r.items[entity.ID]; !ok {
		return stand.Stand{}, stand.ErrNotFound
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memStandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return stand.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memPlotRepo struct {
	items map[uuid.UUID]plot.Plot
}

func newMemPlotRepo() *memPlotRepo {
	return &memPlotRepo{items: map[uuid.UUID]plot.Plot{}}
}

func (r *memPlotRepo) all() []plot.Plot {
	out := make([]plot.Plot, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *memPlotRepo) GetPaginated(ctx context.Context, params *plot.FindParams) ([]plot.Plot, error) {
	items := r.all()
	if params == nil {
		return items, nil
	}
	if params.StandID != nil {
		filtered := items[:0:0]
		for _, p := range items {
			if p.StandID == *params.StandID {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	return paged(items, params.Limit, params.Offset), nil
}

func (r *memPlotRepo) Count(ctx context.Context, params *plot.FindParams) (int64, error) {
	if params == nil || params.StandID == nil {
		return int64(len(r.items)), nil
	}
	var n int64
	for _, p := range r.items {
		if p.StandID == *params.StandID {
			n++
		}
	}
	return n, nil
}

func (r *memPlotRepo) GetByID(ctx context.Context, id uuid.UUID) (plot.Plot, error) {
	p, ok := r.items[id]
	if !ok {
		return plot.Plot{}, plot.ErrNotFound
	}
	return p, nil
}

func (r *memPlotRepo) CountByStand(ctx context.Context, standID uuid.UUID) (int64, error) {
	return r.Count(ctx, &plot.FindParams{StandID: &standID})
}

func (r *memPlotRepo) Create(ctx context.Context, entity plot.Plot) (plot.Plot, error) {
	for _, p := range r.items {
		if p.StandID == entity.StandID && p.Code == entity.Code {
			return plot.Plot{}, plot.ErrDuplicateCode
		}
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memPlotRepo) Update(ctx context.Context, entity plot.Plot) (plot.Plot, error) {
	if _, ok := r.items[entity.ID]; !ok {
		return plot.Plot{}, plot.ErrNotFound
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memPlotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return plot.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memLeafAssetRepo struct {
	items map[uuid.UUID]leafasset.LeafAsset
}

func newMemLeafAssetRepo() *memLeafAssetRepo {
	return &memLeafAssetRepo{items: map[uuid.UUID]leafasset.LeafAsset{}}
}

func (r *memLeafAssetRepo) GetPaginated(ctx context.Context, params *leafasset.FindParams) ([]leafasset.LeafAsset, error) {
	out := make([]leafasset.LeafAsset, 0, len(r.items))
	for _, a := range r.items {
		if params != nil && params.StandID != nil && a.StandID != *params.StandID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BiologicalAssetKey < out[j].BiologicalAssetKey })
	if params == nil {
		return out, nil
	}
	return paged(out, params.Limit, params.Offset), nil
}

func (r *memLeafAssetRepo) Count(ctx context.Context, params *leafasset.FindParams) (int64, error) {
	items, err := r.GetPaginated(ctx, &leafasset.FindParams{StandID: paramsStandID(params)})
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func paramsStandID(params *leafasset.FindParams) *uuid.UUID {
	if params == nil {
		return nil
	}
	return params.StandID
}

func (r *memLeafAssetRepo) CountByStand(ctx context.Context, standID uuid.UUID) (int64, error) {
	return r.Count(ctx, &leafasset.FindParams{StandID: &standID})
}

func (r *memLeafAssetRepo) UpsertByKey(ctx context.Context, entity leafasset.LeafAsset) (leafasset.LeafAsset, error) {
	for id, existing := range r.items {
		if existing.StandID == entity.StandID && existing.BiologicalAssetKey == entity.BiologicalAssetKey {
			entity.ID = id
			entity.CreatedAt = existing.CreatedAt
			r.items[id] = entity
			return entity, nil
		}
	}
	r.items[entity.ID] = entity
	return entity, nil
}

func (r *memLeafAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return leafasset.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
