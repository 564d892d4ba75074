package services

import (
	"context"
	"errors"
	"io"
	"maps"
	"sort"
	"sync"
	"time"

	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memDB backs the in-memory stores used by the service tests.
type memDB struct {
	mu          sync.Mutex
	orgs        map[primitive.ObjectID]models.Org
	categories  map[primitive.ObjectID]models.Category
	ingredients map[primitive.ObjectID]models.Ingredient
	products    map[primitive.ObjectID]models.Product
	orders      map[primitive.ObjectID]models.Order
	users       map[primitive.ObjectID]models.User

	failProductPurge error
}

func newMemDB() *memDB {
	return &memDB{
		orgs:        map[primitive.ObjectID]models.Org{},
		categories:  map[primitive.ObjectID]models.Category{},
		ingredients: map[primitive.ObjectID]models.Ingredient{},
		products:    map[primitive.ObjectID]models.Product{},
		orders:      map[primitive.ObjectID]models.Order{},
		users:       map[primitive.ObjectID]models.User{},
	}
}

type memSnapshot struct {
	orgs       map[primitive.ObjectID]models.Org
	categories map[primitive.ObjectID]models.Category
	products   map[primitive.ObjectID]models.Product
	orders     map[primitive.ObjectID]models.Order
}

// memTransactor restores the collections when fn fails.
type memTransactor struct{ db *memDB }

func (t memTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.mu.Lock()
	snap := memSnapshot{
		orgs:       maps.Clone(t.db.orgs),
		categories: maps.Clone(t.db.categories),
		products:   maps.Clone(t.db.products),
		orders:     maps.Clone(t.db.orders),
	}
	t.db.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.db.mu.Lock()
		t.db.orgs = snap.orgs
		t.db.categories = snap.categories
		t.db.products = snap.products
		t.db.orders = snap.orders
		t.db.mu.Unlock()
		return err
	}
	return nil
}

type memOrgs struct{ db *memDB }

func (s memOrgs) OwnedBy(_ context.Context, orgID, userID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	org, ok := s.db.orgs[orgID]
	return ok && org.User == userID, nil
}

func (s memOrgs) Exists(_ context.Context, orgID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	_, ok := s.db.orgs[orgID]
	return ok, nil
}

func (s memOrgs) ExistsByName(_ context.Context, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, o := range s.db.orgs {
		if o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memOrgs) Insert(_ context.Context, org models.Org) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.orgs[org.ID] = org
	return nil
}

func (s memOrgs) FindByID(_ context.Context, orgID primitive.ObjectID) (models.Org, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	org, ok := s.db.orgs[orgID]
	if !ok {
		return models.Org{}, mongo.ErrNoDocuments
	}
	return org, nil
}

func (s memOrgs) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Org, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Org
	for _, o := range s.db.orgs {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Nearby treats every org as in range.
func (s memOrgs) Nearby(_ context.Context, _ models.GeoPoint, _ float64) ([]models.Org, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Org
	for _, o := range s.db.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (s memOrgs) Update(_ context.Context, orgID primitive.ObjectID, u repositories.OrgUpdate) (models.Org, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	org, ok := s.db.orgs[orgID]
	if !ok {
		return models.Org{}, mongo.ErrNoDocuments
	}
	if u.Name != nil {
		org.Name = *u.Name
	}
	if u.Email != nil {
		org.Email = *u.Email
	}
	if u.Description != nil {
		org.Description = *u.Description
	}
	if u.OpeningHours != nil {
		org.OpeningHours = *u.OpeningHours
	}
	if u.Address != nil {
		org.Address = *u.Address
	}
	if u.Location != nil {
		org.Location = *u.Location
	}
	s.db.orgs[orgID] = org
	return org, nil
}

func (s memOrgs) Delete(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.orgs[orgID]; !ok {
		return 0, nil
	}
	delete(s.db.orgs, orgID)
	return 1, nil
}

type memCategories struct{ db *memDB }

func (s memCategories) ExistsInOrg(_ context.Context, orgID, id primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.categories[id]
	return ok && c.Org == orgID, nil
}

func (s memCategories) ExistsByName(_ context.Context, orgID primitive.ObjectID, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.categories {
		if c.Org == orgID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memCategories) Insert(_ context.Context, c models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.categories[c.ID] = c
	return nil
}

func (s memCategories) FindByOrg(_ context.Context, orgID primitive.ObjectID) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Category
	for _, c := range s.db.categories {
		if c.Org == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s memCategories) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Category{}
	for _, id := range ids {
		if c, ok := s.db.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s memCategories) Update(_ context.Context, id primitive.ObjectID, name, icon string) (models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.categories[id]
	if !ok {
		return models.Category{}, mongo.ErrNoDocuments
	}
	if name != "" {
		c.Name = name
	}
	if icon != "" {
		c.Icon = icon
	}
	s.db.categories[id] = c
	return c, nil
}

func (s memCategories) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.categories[id]; !ok {
		return 0, nil
	}
	delete(s.db.categories, id)
	return 1, nil
}

func (s memCategories) DeleteByOrg(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, c := range s.db.categories {
		if c.Org == orgID {
			delete(s.db.categories, id)
			n++
		}
	}
	return n, nil
}

type memIngredients struct{ db *memDB }

func (s memIngredients) ExistsByName(_ context.Context, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, in := range s.db.ingredients {
		if in.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memIngredients) Insert(_ context.Context, in models.Ingredient) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.ingredients[in.ID] = in
	return nil
}

func (s memIngredients) FindAll(_ context.Context) ([]models.Ingredient, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Ingredient
	for _, in := range s.db.ingredients {
		out = append(out, in)
	}
	return out, nil
}

func (s memIngredients) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Ingredient, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Ingredient{}
	for _, id := range ids {
		if in, ok := s.db.ingredients[id]; ok {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s memIngredients) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.ingredients[id]; !ok {
		return 0, nil
	}
	delete(s.db.ingredients, id)
	return 1, nil
}

type memProducts struct{ db *memDB }

func (s memProducts) ExistsInOrg(_ context.Context, orgID, id primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	return ok && p.Org == orgID, nil
}

func (s memProducts) ExistsByName(_ context.Context, orgID primitive.ObjectID, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.products {
		if p.Org == orgID && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memProducts) Insert(_ context.Context, p models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.products[p.ID] = p
	return nil
}

func (s memProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (s memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := s.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memProducts) FindByOrg(_ context.Context, orgID primitive.ObjectID, discountedOnly bool) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Product
	for _, p := range s.db.products {
		if p.Org == orgID && (!discountedOnly || p.Discount) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memProducts) Update(_ context.Context, id primitive.ObjectID, u repositories.ProductUpdate) (models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Ingredients != nil {
		p.Ingredients = u.Ingredients
	}
	s.db.products[id] = p
	return p, nil
}

func (s memProducts) SetDiscount(_ context.Context, id primitive.ObjectID, discount bool, priceInDiscount float64) (models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	p.Discount = discount
	p.PriceInDiscount = priceInDiscount
	s.db.products[id] = p
	return p, nil
}

func (s memProducts) Delete(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	delete(s.db.products, id)
	return p, nil
}

func (s memProducts) DeleteByOrg(_ context.Context, orgID primitive.ObjectID) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var images []string
	for id, p := range s.db.products {
		if p.Org == orgID {
			delete(s.db.products, id)
			if p.Image != "" {
				images = append(images, p.Image)
			}
		}
	}
	if s.db.failProductPurge != nil {
		return nil, s.db.failProductPurge
	}
	sort.Strings(images)
	return images, nil
}

func (s memProducts) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, p := range s.db.products {
		if p.Category == categoryID {
			n++
		}
	}
	return n, nil
}

func (s memProducts) CountByIngredient(_ context.Context, ingredientID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, p := range s.db.products {
		for _, id := range p.Ingredients {
			if id == ingredientID {
				n++
				break
			}
		}
	}
	return n, nil
}

type memOrders struct{ db *memDB }

func (s memOrders) ExistsInOrg(_ context.Context, orgID, id primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	return ok && o.Org == orgID, nil
}

func (s memOrders) Insert(_ context.Context, order models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.orders[order.ID] = order
	return nil
}

func (s memOrders) UpdateStatus(_ context.Context, orgID, orderID primitive.ObjectID, status models.OrderStatus) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[orderID]
	if !ok || o.Org != orgID {
		return false, nil
	}
	o.Status = status
	s.db.orders[orderID] = o
	return true, nil
}

func (s memOrders) SoftDelete(_ context.Context, orgID, orderID primitive.ObjectID, at time.Time) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[orderID]
	if !ok || o.Org != orgID {
		return false, nil
	}
	if !o.Deletion.IsDeleted() {
		o.Deletion = models.DeletedAt(at)
		s.db.orders[orderID] = o
	}
	return true, nil
}

func (s memOrders) SoftDeleteCreatedWithin(_ context.Context, orgID primitive.ObjectID, w models.TimeWindow, at time.Time) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, o := range s.db.orders {
		if o.Org == orgID && !o.Deletion.IsDeleted() && inWindow(o.CreatedAt, w) {
			o.Deletion = models.DeletedAt(at)
			s.db.orders[id] = o
			n++
		}
	}
	return n, nil
}

func (s memOrders) FindActive(_ context.Context, orgID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var orders []models.Order
	for _, o := range s.db.orders {
		if o.Org == orgID && !o.Deletion.IsDeleted() {
			orders = append(orders, o)
		}
	}
	return s.populateLocked(orders), nil
}

func (s memOrders) history(orgID primitive.ObjectID, w *models.TimeWindow) []models.Order {
	var orders []models.Order
	for _, o := range s.db.orders {
		if o.Org == orgID && (w == nil || inWindow(o.CreatedAt, *w)) {
			orders = append(orders, o)
		}
	}
	return orders
}

func (s memOrders) FindHistory(_ context.Context, orgID primitive.ObjectID, w *models.TimeWindow, skip, limit int64) ([]models.PopulatedOrder, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	populated := s.populateLocked(s.history(orgID, w))
	if skip >= int64(len(populated)) {
		return []models.PopulatedOrder{}, nil
	}
	end := skip + limit
	if end > int64(len(populated)) {
		end = int64(len(populated))
	}
	return populated[skip:end], nil
}

func (s memOrders) CountHistory(_ context.Context, orgID primitive.ObjectID, w *models.TimeWindow) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.history(orgID, w))), nil
}

func (s memOrders) DeleteByOrg(_ context.Context, orgID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, o := range s.db.orders {
		if o.Org == orgID {
			delete(s.db.orders, id)
			n++
		}
	}
	return n, nil
}

// populateLocked sorts newest first and resolves products and categories.
func (s memOrders) populateLocked(orders []models.Order) []models.PopulatedOrder {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	summaries := make(map[primitive.ObjectID]models.ProductSummary)
	for _, p := range s.db.products {
		var category *models.CategorySummary
		if c, ok := s.db.categories[p.Category]; ok {
			cs := c.Summary()
			category = &cs
		}
		summaries[p.ID] = p.Summary(category)
	}
	out := make([]models.PopulatedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Populate(summaries))
	}
	return out
}

func inWindow(t time.Time, w models.TimeWindow) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

type memUsers struct{ db *memDB }

func (s memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memUsers) Insert(_ context.Context, u models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.users[u.ID] = u
	return nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (s memUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

type emitted struct {
	room    string
	event   string
	payload interface{}
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEmitter) Emit(room, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{room: room, event: event, payload: payload})
}

type recordingAssets struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingAssets) DeleteKeys(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, keys)
}

var errStorage = errors.New("storage unavailable")

// fixture wires every service over one memDB.
type fixture struct {
	db      *memDB
	events  *recordingEmitter
	assets  *recordingAssets
	clock   Clock
	now     time.Time
	setNow  func(time.Time)
	owner   primitive.ObjectID
	org     models.Org
	orders  *OrderService
	history *HistoryService
	orgSvc  *OrgService
	catSvc  *CategoryService
	prodSvc *ProductService
	ingSvc  *IngredientService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture() *fixture {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, loc)
	current := now
	clock := Clock{Now: func() time.Time { return current }, Location: loc}

	db := newMemDB()
	orgs, categories, ingredients := memOrgs{db}, memCategories{db}, memIngredients{db}
	products, orders := memProducts{db}, memOrders{db}
	log := quietLogger()
	em := &recordingEmitter{}
	as := &recordingAssets{}

	ownership := NewOwnership(orgs, categories, orders, products)
	cascade := NewCascadeDeleter(orgs, categories, orders, products, ownership, memTransactor{db}, as, log)

	f := &fixture{
		db:      db,
		events:  em,
		assets:  as,
		clock:   clock,
		now:     now,
		setNow:  func(t time.Time) { current = t },
		owner:   primitive.NewObjectID(),
		orders:  NewOrderService(orders, orgs, NewCatalogResolver(products, log), ownership, em, log, clock),
		history: NewHistoryService(orders, ownership, clock),
		orgSvc:  NewOrgService(orgs, ownership, cascade, log, clock),
		catSvc:  NewCategoryService(categories, products, ownership, clock),
		prodSvc: NewProductService(products, categories, ingredients, ownership, as, log, clock),
		ingSvc:  NewIngredientService(ingredients, products, clock),
	}
	f.org = models.Org{ID: primitive.NewObjectID(), Name: "Cantina", User: f.owner}
	db.orgs[f.org.ID] = f.org
	return f
}

func (f *fixture) addCategory(name, icon string) models.Category {
	c := models.Category{ID: primitive.NewObjectID(), Name: name, Icon: icon, Org: f.org.ID}
	f.db.categories[c.ID] = c
	return c
}

func (f *fixture) addProduct(name string, price float64, category primitive.ObjectID) models.Product {
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Image:       "https://cdn.example.com/" + f.org.ID.Hex() + "/" + name + ".png",
		Price:       price,
		Category:    category,
		Org:         f.org.ID,
		Ingredients: []primitive.ObjectID{},
	}
	f.db.products[p.ID] = p
	return p
}

func (f *fixture) addOrder(createdAt time.Time, items ...models.LineItem) models.Order {
	o := models.Order{
		ID:        primitive.NewObjectID(),
		Table:     "1",
		Status:    models.StatusWaiting,
		Items:     items,
		Org:       f.org.ID,
		CreatedAt: createdAt,
		Deletion:  models.Active(),
	}
	f.db.orders[o.ID] = o
	return o
}
