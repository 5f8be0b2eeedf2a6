package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/domain/statement"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/pkg/email"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"gorm.io/gorm"
)

var testTenantID = uuid.MustParse("6f1c2a9e-3b7d-4e1a-9c55-0a1b2c3d4e5f")

func tenantCtx() context.Context {
	return infraRepo.WithTenant(context.Background(), testTenantID)
}

func ptr[T any](v T) *T { return &v }

// store backs every fake repository so that a test sees one consistent world
type store struct {
	mu          sync.Mutex
	customers   map[uuid.UUID]*entity.Customer
	orders      map[uuid.UUID]*entity.Order
	details     map[uuid.UUID][]entity.OrderDetail
	payments    map[uuid.UUID]*entity.Payment
	registers   map[uuid.UUID]*entity.Register
	products    map[uuid.UUID]*entity.Product
	tenants     map[uuid.UUID]*entity.Tenant
	memberships []entity.TenantMembership
	users       map[uuid.UUID]*entity.User
	roles       map[string]*entity.Role
	userRoles   map[uuid.UUID][]uint
	seq         int
	created     map[uuid.UUID]int
}

func newStore() *store {
	return &store{
		customers: map[uuid.UUID]*entity.Customer{},
		orders:    map[uuid.UUID]*entity.Order{},
		details:   map[uuid.UUID][]entity.OrderDetail{},
		payments:  map[uuid.UUID]*entity.Payment{},
		registers: map[uuid.UUID]*entity.Register{},
		products:  map[uuid.UUID]*entity.Product{},
		tenants:   map[uuid.UUID]*entity.Tenant{},
		users:     map[uuid.UUID]*entity.User{},
		roles:     map[string]*entity.Role{},
		userRoles: map[uuid.UUID][]uint{},
		created:   map[uuid.UUID]int{},
	}
}

func (s *store) stamp(id uuid.UUID) {
	s.seq++
	s.created[id] = s.seq
}

// --- customers

type fakeCustomerRepo struct{ s *store }

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email != nil && *c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.customers[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	balance := stored.Balance
	cp := *c
	cp.Balance = balance
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, params *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Balance += delta
	return nil
}

// --- orders

type fakeOrderRepo struct{ s *store }

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	cp.Details = nil
	r.s.orders[o.ID] = &cp
	r.s.stamp(o.ID)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, err := r.GetByID(ctx, id)
	if o == nil || err != nil {
		return o, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.Details = append([]entity.OrderDetail(nil), r.s.details[id]...)
	return o, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	cp.Details = nil
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Order
	for _, o := range r.s.orders {
		if params.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *params.CustomerID) {
			continue
		}
		if params.Status != nil && o.OrderStatus != *params.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) GetDueOrders(_ context.Context, _ *pagination.PaginationParams) ([]entity.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Order
	for _, o := range r.s.orders {
		if o.Due > 0 && o.OrderStatus != enum.OrderStatusCancel {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

type fakeOrderDetailRepo struct{ s *store }

func (r *fakeOrderDetailRepo) CreateBatch(_ context.Context, details []entity.OrderDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range details {
		r.s.details[d.OrderID] = append(r.s.details[d.OrderID], d)
	}
	return nil
}

func (r *fakeOrderDetailRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.OrderDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.OrderDetail(nil), r.s.details[orderID]...), nil
}

// --- payments

type fakePaymentRepo struct{ s *store }

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.s.payments[p.ID] = &cp
	r.s.stamp(p.ID)
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePaymentRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _ *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Payment
	for _, p := range r.s.payments {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.payments, id)
	return nil
}

// staleOrders answers plain reads from a snapshot taken earlier, the way a
// concurrent request sees a row before another one commits. Locked reads go
// to the live store.
type staleOrders struct {
	*fakeOrderRepo
	snapshot map[uuid.UUID]entity.Order
}

func (r *staleOrders) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.snapshot[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *staleOrders) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.snapshot[id]
	if !ok {
		return nil, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.Details = append([]entity.OrderDetail(nil), r.s.details[id]...)
	return &o, nil
}

// stalePayments is staleOrders for payments. With lockless set, locked reads
// see the snapshot too, leaving Delete as the only guard.
type stalePayments struct {
	*fakePaymentRepo
	snapshot map[uuid.UUID]entity.Payment
	lockless bool
}

func (r *stalePayments) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	p, ok := r.snapshot[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *stalePayments) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	if r.lockless {
		return r.GetByID(ctx, id)
	}
	return r.fakePaymentRepo.GetForUpdate(ctx, id)
}

// --- registers

type fakeRegisterRepo struct{ s *store }

func (r *fakeRegisterRepo) Create(_ context.Context, reg *entity.Register) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	cp := *reg
	r.s.registers[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Register, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registers[id]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegisterRepo) GetByName(_ context.Context, name string) (*entity.Register, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reg := range r.s.registers {
		if reg.Name == name {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRegisterRepo) Update(_ context.Context, reg *entity.Register) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *reg
	r.s.registers[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) List(_ context.Context, activeOnly bool) ([]entity.Register, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Register
	for _, reg := range r.s.registers {
		if activeOnly && !reg.IsActive {
			continue
		}
		out = append(out, *reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- products

type fakeProductRepo struct{ s *store }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, p := range r.s.products {
		if params.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := r.s.products[id]
		if !ok || p.Quantity < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		r.s.products[id].Quantity -= qty
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, qty := range increments {
		if p, ok := r.s.products[id]; ok {
			p.Quantity += qty
		}
	}
	return nil
}

// --- statement rows, derived from the stored orders and payments

type fakeStatementRepo struct {
	s        *store
	invoices []statement.InvoiceRecord
	payments []statement.PaymentRecord
	err      error
}

func (r *fakeStatementRepo) InvoiceRows(_ context.Context, customerID uuid.UUID) ([]statement.InvoiceRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.invoices != nil || r.s == nil {
		return r.invoices, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var orders []*entity.Order
	for _, o := range r.s.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID && o.OrderStatus != enum.OrderStatusCancel {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return r.s.created[orders[i].ID] < r.s.created[orders[j].ID] })
	out := make([]statement.InvoiceRecord, 0, len(orders))
	for _, o := range orders {
		out = append(out, statement.InvoiceRecord{
			ID:               o.ID.String(),
			InvoiceNo:        o.InvoiceNo,
			CreatedAtDate:    o.OrderDate.Format("2006-01-02"),
			CreatedAtTime:    o.OrderDate.Format("15:04:05"),
			TotalAmount:      entity.FromCents(o.Total).StringFixed(2),
			InvoiceTypeLabel: o.InvoiceType.Label(),
		})
	}
	return out, nil
}

func (r *fakeStatementRepo) PaymentRows(_ context.Context, customerID uuid.UUID) ([]statement.PaymentRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.payments != nil || r.s == nil {
		return r.payments, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var payments []*entity.Payment
	for _, p := range r.s.payments {
		if p.CustomerID == customerID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return r.s.created[payments[i].ID] < r.s.created[payments[j].ID] })
	out := make([]statement.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		out = append(out, statement.PaymentRecord{
			ID:            p.ID.String(),
			PaymentDate:   p.PaymentDate.Format("2006-01-02"),
			CreatedAtTime: p.PaymentDate.Format("15:04:05"),
			Amount:        entity.FromCents(p.Amount).StringFixed(2),
			Notes:         p.Notes,
		})
	}
	return out, nil
}

// --- tenants

type fakeTenantRepo struct{ s *store }

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.s.tenants[t.ID] = &cp
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.tenants[t.ID] = &cp
	return nil
}

func (r *fakeTenantRepo) GetUserTenants(_ context.Context, userID uuid.UUID) ([]entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Tenant
	for _, m := range r.s.memberships {
		if m.UserID == userID {
			if t, ok := r.s.tenants[m.TenantID]; ok {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (r *fakeTenantRepo) AddMember(_ context.Context, m *entity.TenantMembership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.memberships = append(r.s.memberships, *m)
	return nil
}

func (r *fakeTenantRepo) IsMember(_ context.Context, tenantID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if m.TenantID == tenantID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTenantRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	t, err := r.GetBySlug(ctx, slug)
	return t != nil, err
}

// --- users and roles

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if u == nil || err != nil {
		return u, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, roleID := range r.s.userRoles[id] {
		for _, role := range r.s.roles {
			if role.ID == roleID {
				u.Roles = append(u.Roles, *role)
			}
		}
	}
	return u, nil
}

func (r *fakeUserRepo) AssignRole(_ context.Context, userID uuid.UUID, roleID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.userRoles[userID] = append(r.s.userRoles[userID], roleID)
	return nil
}

type fakeRoleRepo struct{ s *store }

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[name]
	if !ok {
		return nil, nil
	}
	cp := *role
	return &cp, nil
}

// --- transactor, publisher, mailer

// fakeTransactor snapshots the store and restores it when fn fails
type fakeTransactor struct{ s *store }

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.snapshot()
	if err := fn(ctx); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}

func (t *fakeTransactor) snapshot() *store {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cp := newStore()
	for k, v := range t.s.customers {
		c := *v
		cp.customers[k] = &c
	}
	for k, v := range t.s.orders {
		o := *v
		cp.orders[k] = &o
	}
	for k, v := range t.s.details {
		cp.details[k] = append([]entity.OrderDetail(nil), v...)
	}
	for k, v := range t.s.payments {
		p := *v
		cp.payments[k] = &p
	}
	for k, v := range t.s.products {
		p := *v
		cp.products[k] = &p
	}
	return cp
}

func (t *fakeTransactor) restore(snap *store) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.customers = snap.customers
	t.s.orders = snap.orders
	t.s.details = snap.details
	t.s.payments = snap.payments
	t.s.products = snap.products
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMailer struct {
	sent []email.StatementEmail
	err  error
}

func (m *recordingMailer) SendStatement(msg email.StatementEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errBoom = errors.New("boom")
