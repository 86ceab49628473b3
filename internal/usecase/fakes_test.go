package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

// =====================
// インメモリのfake永続層
// =====================

// fakeStore はテスト用のインメモリDB。
// fakeTxManager がスナップショットを取って巻き戻すので、
// トランザクションの全消し/全残しをそのまま検証できる。
type fakeStore struct {
	categories map[int64]model.Category
	products   map[int64]model.Product
	orders     map[int64]model.Order
	orderItems map[int64][]model.OrderItem
	logs       []model.InventoryLog

	nextCategoryID int64
	nextProductID  int64
	nextOrderID    int64
	nextItemID     int64
	nextLogID      int64

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[int64]model.Category{},
		products:   map[int64]model.Product{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64][]model.OrderItem{},
		now:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) addCategory(name string) model.Category {
	s.nextCategoryID++
	c := model.Category{ID: s.nextCategoryID, Name: name, CreatedAt: s.now, UpdatedAt: s.now}
	s.categories[c.ID] = c
	return c
}

func (s *fakeStore) addProduct(name string, price string, quantity int64, categoryID int64) model.Product {
	s.nextProductID++
	p := model.Product{
		ID:         s.nextProductID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   quantity,
		CategoryID: categoryID,
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}
	s.products[p.ID] = p
	return p
}

func (s *fakeStore) snapshot() *fakeStore {
	c := &fakeStore{
		categories:     make(map[int64]model.Category, len(s.categories)),
		products:       make(map[int64]model.Product, len(s.products)),
		orders:         make(map[int64]model.Order, len(s.orders)),
		orderItems:     make(map[int64][]model.OrderItem, len(s.orderItems)),
		logs:           append([]model.InventoryLog(nil), s.logs...),
		nextCategoryID: s.nextCategoryID,
		nextProductID:  s.nextProductID,
		nextOrderID:    s.nextOrderID,
		nextItemID:     s.nextItemID,
		nextLogID:      s.nextLogID,
		now:            s.now,
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]model.OrderItem(nil), v...)
	}
	return c
}

func (s *fakeStore) restore(snap *fakeStore) {
	*s = *snap
}

// =====================
// TxManager
// =====================

type fakeTxManager struct {
	store *fakeStore

	// コールバック成功後に強制的に失敗させたいテスト用
	commitErr error
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snap := m.store.snapshot()
	err := fn(fakeTxRepos{s: m.store})
	if err == nil && m.commitErr != nil {
		err = m.commitErr
	}
	if err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeTxRepos struct {
	s *fakeStore
}

func (r fakeTxRepos) Categories() repo.CategoryRepository       { return &fakeCategoryRepo{s: r.s} }
func (r fakeTxRepos) Products() repo.ProductRepository          { return &fakeProductRepo{s: r.s} }
func (r fakeTxRepos) Orders() repo.OrderRepository              { return &fakeOrderRepo{s: r.s} }
func (r fakeTxRepos) OrderItems() repo.OrderItemRepository      { return &fakeOrderItemRepo{s: r.s} }
func (r fakeTxRepos) InventoryLogs() repo.InventoryLogRepository { return &fakeLogRepo{s: r.s} }

// =====================
// Repository fakes
// =====================

type fakeProductRepo struct {
	s *fakeStore
}

func (f *fakeProductRepo) List(ctx context.Context, q repo.ProductListQuery, lowStockThreshold int64) ([]model.Product, int64, error) {
	var all []model.Product
	for _, p := range f.s.products {
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			continue
		}
		if q.LowStock != nil {
			low := p.Quantity < lowStockThreshold
			if low != *q.LowStock {
				continue
			}
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := f.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	f.s.nextProductID++
	p.ID = f.s.nextProductID
	p.CreatedAt = f.s.now
	p.UpdatedAt = f.s.now
	f.s.products[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p model.Product) error {
	cur, ok := f.s.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.CategoryID = p.CategoryID
	cur.UpdatedAt = f.s.now
	f.s.products[p.ID] = cur
	return nil
}

func (f *fakeProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	cur, ok := f.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Quantity = quantity
	cur.UpdatedAt = f.s.now
	f.s.products[id] = cur
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.s.products, id)
	return nil
}

func (f *fakeProductRepo) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type fakeCategoryRepo struct {
	s *fakeStore
}

func (f *fakeCategoryRepo) List(ctx context.Context, page int, limit int) ([]model.Category, int64, error) {
	var all []model.Category
	for _, c := range f.s.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id int64) (model.Category, error) {
	c, ok := f.s.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) FindByName(ctx context.Context, name string) (model.Category, bool, error) {
	for _, c := range f.s.categories {
		if c.Name == name {
			return c, true, nil
		}
	}
	return model.Category{}, false, nil
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	f.s.nextCategoryID++
	c.ID = f.s.nextCategoryID
	c.CreatedAt = f.s.now
	c.UpdatedAt = f.s.now
	f.s.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c model.Category) error {
	cur, ok := f.s.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name = c.Name
	cur.Description = c.Description
	f.s.categories[c.ID] = cur
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.s.categories, id)
	return nil
}

type fakeOrderRepo struct {
	s *fakeStore
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := f.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}

	//明細と商品をまとめて読む（Preload相当）
	items := append([]model.OrderItem(nil), f.s.orderItems[orderID]...)
	for i := range items {
		if p, ok := f.s.products[items[i].ProductID]; ok {
			cp := p
			items[i].Product = &cp
		}
	}
	o.Items = items
	return o, nil
}

func (f *fakeOrderRepo) List(ctx context.Context, flt repo.OrderListFilter) ([]model.Order, int64, error) {
	var all []model.Order
	for id, o := range f.s.orders {
		if flt.Status != "" && string(o.Status) != flt.Status {
			continue
		}
		if flt.From != nil && o.OrderDate.Before(*flt.From) {
			continue
		}
		if flt.To != nil && !o.OrderDate.Before(*flt.To) {
			continue
		}
		full, _ := f.FindByID(ctx, id)
		all = append(all, full)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	start := (flt.Page - 1) * flt.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + flt.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	f.s.nextOrderID++
	order.ID = f.s.nextOrderID
	order.OrderDate = f.s.now
	order.Items = nil
	f.s.orders[order.ID] = order
	return order.ID, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := f.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	f.s.orders[orderID] = o
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, orderID int64) error {
	if _, ok := f.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.s.orders, orderID)
	delete(f.s.orderItems, orderID)
	return nil
}

func (f *fakeOrderRepo) RevenueSummary(ctx context.Context, period string, from *time.Time, to *time.Time) ([]repo.RevenuePoint, error) {
	layouts := map[string]string{
		"daily":   "2006-01-02",
		"monthly": "2006-01",
		"annual":  "2006",
	}

	sums := map[string]decimal.Decimal{}
	for _, o := range f.s.orders {
		if o.Status != model.OrderStatusCompleted {
			continue
		}
		if from != nil && o.OrderDate.Before(*from) {
			continue
		}
		if to != nil && !o.OrderDate.Before(*to) {
			continue
		}

		var key string
		if period == "weekly" {
			y, w := o.OrderDate.ISOWeek()
			key = fmt.Sprintf("%04d-%02d", y, w)
		} else {
			key = o.OrderDate.Format(layouts[period])
		}
		sums[key] = sums[key].Add(o.TotalAmount)
	}

	var points []repo.RevenuePoint
	for k, v := range sums {
		points = append(points, repo.RevenuePoint{Period: k, TotalRevenue: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points, nil
}

type fakeOrderItemRepo struct {
	s *fakeStore
}

func (f *fakeOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		f.s.nextItemID++
		it.ID = f.s.nextItemID
		it.OrderID = orderID
		it.Product = nil
		f.s.orderItems[orderID] = append(f.s.orderItems[orderID], it)
	}
	return nil
}

func (f *fakeOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), f.s.orderItems[orderID]...), nil
}

type fakeLogRepo struct {
	s *fakeStore
}

func (f *fakeLogRepo) Create(ctx context.Context, entry model.InventoryLog) (model.InventoryLog, error) {
	f.s.nextLogID++
	entry.ID = f.s.nextLogID
	entry.Timestamp = f.s.now
	f.s.logs = append(f.s.logs, entry)
	return entry, nil
}

func (f *fakeLogRepo) ListByProductID(ctx context.Context, productID int64, page int, limit int) ([]model.InventoryLog, int64, error) {
	var all []model.InventoryLog
	for _, l := range f.s.logs {
		if l.ProductID == productID {
			all = append(all, l)
		}
	}
	//新しい順（採番順の逆）
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// 商品ごとのログ（古い順）。履歴再生の検証用。
func (s *fakeStore) logsFor(productID int64) []model.InventoryLog {
	var out []model.InventoryLog
	for _, l := range s.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}
