// internal/mocks/memory.go
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/repository"
)

// MemoryDB is an in-memory stand-in for the relational store. Its product
// and user views share ownership state the way the product_users table does.
type MemoryDB struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]models.Product
	users    map[string]models.User
	owners   map[int64]string
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		nextID:   1,
		products: make(map[int64]models.Product),
		users:    make(map[string]models.User),
		owners:   make(map[int64]string),
	}
}

func (db *MemoryDB) Products() repository.ProductRepository { return memoryProducts{db} }

func (db *MemoryDB) Users() repository.UserRepository { return memoryUsers{db} }

func cloneProduct(p models.Product) models.Product {
	p.ImageUrls = append(models.ImageList{}, p.ImageUrls...)
	return p
}

type memoryProducts struct{ db *MemoryDB }

func (r memoryProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]models.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryProducts) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r memoryProducts) FindByUser(ctx context.Context, userID string) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := []models.Product{}
	for id, owner := range r.db.owners {
		if owner == userID {
			out = append(out, cloneProduct(r.db.products[id]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryProducts) Exists(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, ok := r.db.products[id]
	return ok, nil
}

func (r memoryProducts) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for _, owner := range r.db.owners {
		if owner == userID {
			n++
		}
	}
	return n, nil
}

func (r memoryProducts) CreateWithOwner(ctx context.Context, product *models.Product, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[userID]; !ok {
		return repository.ErrReferenced
	}
	if product.ID == 0 {
		for {
			if _, taken := r.db.products[r.db.nextID]; !taken {
				break
			}
			r.db.nextID++
		}
		product.ID = r.db.nextID
	}
	if _, ok := r.db.products[product.ID]; ok {
		return repository.ErrDuplicate
	}

	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.db.products[product.ID] = cloneProduct(*product)
	r.db.owners[product.ID] = userID
	return nil
}

func (r memoryProducts) Update(ctx context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.db.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r memoryProducts) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.products, id)
	delete(r.db.owners, id)
	return nil
}

type memoryUsers struct{ db *MemoryDB }

func (r memoryUsers) FindAll(ctx context.Context) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r memoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}

	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[user.ID] = *user
	return nil
}

func (r memoryUsers) Update(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.db.users[user.ID] = *user
	return nil
}

func (r memoryUsers) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	for _, owner := range r.db.owners {
		if owner == id {
			return repository.ErrReferenced
		}
	}
	delete(r.db.users, id)
	return nil
}
