package impl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
)

// memStore is an in-memory stand-in for the relational store. A single mutex
// serializes transactions, and snapshots give Execute rollback semantics, so
// the fakes preserve the atomicity the services rely on.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
	products map[uuid.UUID]*entity.Product
	reviews  map[uuid.UUID]*entity.Review
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[uuid.UUID]*entity.Account),
		products: make(map[uuid.UUID]*entity.Product),
		reviews:  make(map[uuid.UUID]*entity.Review),
	}
}

func (s *memStore) snapshot() (map[uuid.UUID]*entity.Account, map[uuid.UUID]*entity.Product, map[uuid.UUID]*entity.Review) {
	accounts := make(map[uuid.UUID]*entity.Account, len(s.accounts))
	for id, a := range s.accounts {
		cp := *a
		accounts[id] = &cp
	}
	products := make(map[uuid.UUID]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	reviews := make(map[uuid.UUID]*entity.Review, len(s.reviews))
	for id, r := range s.reviews {
		cp := *r
		reviews[id] = &cp
	}

	return accounts, products, reviews
}

func (s *memStore) seedAccount(account *entity.Account) *entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	cp := *account
	s.accounts[account.ID] = &cp

	return account
}

func (s *memStore) seedProduct(product *entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	s.products[product.ID] = &cp

	return product
}

func (s *memStore) seedReview(review *entity.Review) *entity.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	cp := *review
	s.reviews[review.ID] = &cp

	return review
}

func (s *memStore) accountBalance(id uuid.UUID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts[id].Balance
}

func (s *memStore) productStock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products[id].Stock
}

// --- unlocked core operations, callers hold the mutex ---

func (s *memStore) findAccountByUsername(username string) (*entity.Account, error) {
	for _, a := range s.accounts {
		if a.Username == username {
			cp := *a

			return &cp, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (s *memStore) findAccountByID(id uuid.UUID) (*entity.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a

	return &cp, nil
}

func (s *memStore) createAccount(account *entity.Account) error {
	for _, a := range s.accounts {
		if a.Username == account.Username {
			return repository.ErrDuplicateUsername
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	cp := *account
	s.accounts[account.ID] = &cp

	return nil
}

func (s *memStore) updateAccount(account *entity.Account) error {
	if _, ok := s.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	cp := *account
	cp.UpdatedAt = time.Now()
	s.accounts[account.ID] = &cp

	return nil
}

func (s *memStore) deleteAccount(username string) error {
	for id, a := range s.accounts {
		if a.Username == username {
			delete(s.accounts, id)
			for rid, r := range s.reviews {
				if r.AccountID == id {
					delete(s.reviews, rid)
				}
			}

			return nil
		}
	}

	return repository.ErrAccountNotFound
}

func (s *memStore) adjustBalance(id uuid.UUID, delta float64) (float64, error) {
	a, ok := s.accounts[id]
	if !ok {
		return 0, repository.ErrAccountNotFound
	}
	if a.Balance+delta < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	a.Balance += delta

	return a.Balance, nil
}

func (s *memStore) findProductByID(id uuid.UUID) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p

	return &cp, nil
}

func (s *memStore) createProduct(product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	cp := *product
	s.products[product.ID] = &cp

	return nil
}

func (s *memStore) updateProduct(product *entity.Product) error {
	existing, ok := s.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	cp.Stock = existing.Stock // stock changes only via adjustStock
	cp.UpdatedAt = time.Now()
	s.products[product.ID] = &cp

	return nil
}

func (s *memStore) adjustStock(id uuid.UUID, delta int) (int, error) {
	p, ok := s.products[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	p.Stock += delta

	return p.Stock, nil
}

func (s *memStore) findReviewByID(id uuid.UUID) (*entity.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := *r

	return &cp, nil
}

func (s *memStore) createReview(review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	cp := *review
	s.reviews[review.ID] = &cp

	return nil
}

func (s *memStore) updateReview(review *entity.Review) error {
	if _, ok := s.reviews[review.ID]; !ok {
		return repository.ErrReviewNotFound
	}
	cp := *review
	cp.UpdatedAt = time.Now()
	s.reviews[review.ID] = &cp

	return nil
}

func (s *memStore) deleteReview(id uuid.UUID) error {
	if _, ok := s.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(s.reviews, id)

	return nil
}

// --- repository fakes ---

// memAccountRepo implements repository.AccountRepository. When locking is
// false the caller (the transaction fake) already holds the store mutex.
type memAccountRepo struct {
	store   *memStore
	locking bool
}

func (r *memAccountRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()

	return r.store.mu.Unlock
}

func (r *memAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	defer r.lock()()

	return r.store.findAccountByID(id)
}

func (r *memAccountRepo) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	defer r.lock()()

	return r.store.findAccountByUsername(username)
}

func (r *memAccountRepo) List(_ context.Context) ([]*entity.Account, error) {
	defer r.lock()()

	accounts := make([]*entity.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		cp := *a
		accounts = append(accounts, &cp)
	}

	return accounts, nil
}

func (r *memAccountRepo) Create(_ context.Context, account *entity.Account) error {
	defer r.lock()()

	return r.store.createAccount(account)
}

func (r *memAccountRepo) Update(_ context.Context, account *entity.Account) error {
	defer r.lock()()

	return r.store.updateAccount(account)
}

func (r *memAccountRepo) Delete(_ context.Context, username string) error {
	defer r.lock()()

	return r.store.deleteAccount(username)
}

func (r *memAccountRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta float64) (float64, error) {
	defer r.lock()()

	return r.store.adjustBalance(id, delta)
}

type memProductRepo struct {
	store   *memStore
	locking bool
}

func (r *memProductRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()

	return r.store.mu.Unlock
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	defer r.lock()()

	return r.store.findProductByID(id)
}

func (r *memProductRepo) FindByName(_ context.Context, name string) (*entity.Product, error) {
	defer r.lock()()

	for _, p := range r.store.products {
		if p.Name == name {
			cp := *p

			return &cp, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *memProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.lock()()

	products := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		products = append(products, &cp)
	}

	return products, nil
}

func (r *memProductRepo) ListAvailable(_ context.Context) ([]*entity.Product, error) {
	defer r.lock()()

	products := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		if p.Stock > 0 {
			cp := *p
			products = append(products, &cp)
		}
	}

	return products, nil
}

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.lock()()

	return r.store.createProduct(product)
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.lock()()

	return r.store.updateProduct(product)
}

func (r *memProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	defer r.lock()()

	return r.store.adjustStock(id, delta)
}

type memReviewRepo struct {
	store   *memStore
	locking bool
}

func (r *memReviewRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()

	return r.store.mu.Unlock
}

func (r *memReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	defer r.lock()()

	return r.store.findReviewByID(id)
}

func (r *memReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	defer r.lock()()

	reviews := make([]*entity.Review, 0)
	for _, rv := range r.store.reviews {
		if rv.ProductID == productID {
			cp := *rv
			reviews = append(reviews, &cp)
		}
	}

	return reviews, nil
}

func (r *memReviewRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*entity.Review, error) {
	defer r.lock()()

	reviews := make([]*entity.Review, 0)
	for _, rv := range r.store.reviews {
		if rv.AccountID == accountID {
			cp := *rv
			reviews = append(reviews, &cp)
		}
	}

	return reviews, nil
}

func (r *memReviewRepo) Create(_ context.Context, review *entity.Review) error {
	defer r.lock()()

	return r.store.createReview(review)
}

func (r *memReviewRepo) Update(_ context.Context, review *entity.Review) error {
	defer r.lock()()

	return r.store.updateReview(review)
}

func (r *memReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()

	return r.store.deleteReview(id)
}

// memTxManager serializes transactions with the store mutex and rolls the
// store back to a snapshot when the callback fails.
type memTxManager struct {
	store *memStore
}

func (tm *memTxManager) Execute(_ context.Context, fn func(repos repository.RepositoryFactory) error) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	accounts, products, reviews := tm.store.snapshot()

	if err := fn(&memRepoFactory{store: tm.store}); err != nil {
		tm.store.accounts = accounts
		tm.store.products = products
		tm.store.reviews = reviews

		return err
	}

	return nil
}

type memRepoFactory struct {
	store *memStore
}

func (f *memRepoFactory) Accounts() repository.AccountRepository {
	return &memAccountRepo{store: f.store}
}

func (f *memRepoFactory) Products() repository.ProductRepository {
	return &memProductRepo{store: f.store}
}

func (f *memRepoFactory) Reviews() repository.ReviewRepository {
	return &memReviewRepo{store: f.store}
}

// --- service fakes ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService signs real HS256 tokens with a fixed test secret.
type fakeTokenService struct{}

const testTokenSecret = "test-secret"

func (fakeTokenService) GenerateTokens(accountID uuid.UUID, roles []string) (string, string, error) {
	now := time.Now()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   accountID.String(),
		"iat":   now.Unix(),
		"exp":   now.Add(15 * time.Minute).Unix(),
		"type":  "access",
		"roles": roles,
	}).SignedString([]byte(testTokenSecret))
	if err != nil {
		return "", "", err
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  accountID.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(7 * 24 * time.Hour).Unix(),
		"type": "refresh",
	}).SignedString([]byte(testTokenSecret))
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func (fakeTokenService) ValidateToken(tokenString, _ string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return []byte(testTokenSecret), nil
	})
}

func (fakeTokenService) RefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

// fakeSanitizer drops everything between angle brackets, which is enough to
// observe that services route comments through the sanitizer.
type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(input string) string {
	var b strings.Builder
	inTag := false
	for _, r := range input {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
