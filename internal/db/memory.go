package loyalty

import (
	"context"
	"sync"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
)

// MemoryDB keeps all loyalty state in process memory. Used by tests and local runs.
// All mutations are serialized by one mutex.
type MemoryDB struct {
	mu       sync.Mutex
	system   *models.SystemSettings
	products map[string]models.ProductSettings
	wallets  map[string]models.Wallet
	tnx      map[string][]models.Transaction
	coupons  map[string]models.Coupon
	usage    []models.CouponUsageRecord
	clock    func() time.Time
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		products: make(map[string]models.ProductSettings),
		wallets:  make(map[string]models.Wallet),
		tnx:      make(map[string][]models.Transaction),
		coupons:  make(map[string]models.Coupon),
		clock:    time.Now,
	}
}

// Storage returns the store wired into every repository slot.
func (m *MemoryDB) Storage() interf.Storage {
	return interf.Storage{
		Settings: m,
		Products: m,
		Wallets:  m,
		Coupons:  m,
		Usage:    m,
	}
}

// настройки

func (m *MemoryDB) GetSystemSettings(ctx context.Context) (models.SystemSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.system == nil {
		return models.SystemSettings{}, models.ErrConfigurationMissing
	}
	return *m.system, nil
}

func (m *MemoryDB) SaveSystemSettings(ctx context.Context, s models.SystemSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.system = &s
	return nil
}

func (m *MemoryDB) Get(ctx context.Context, productId string) (*models.ProductSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps, ok := m.products[productId]
	if !ok {
		return nil, nil
	}
	return &ps, nil
}

func (m *MemoryDB) CreateDefault(ctx context.Context, productId string) (models.ProductSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// уже создана параллельным запросом
	if ps, ok := m.products[productId]; ok {
		return ps, nil
	}
	ps := models.DefaultProductSettings(productId)
	m.products[productId] = ps
	return ps, nil
}

func (m *MemoryDB) List(ctx context.Context) ([]models.ProductSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]models.ProductSettings, 0, len(m.products))
	for _, ps := range m.products {
		list = append(list, ps)
	}
	return list, nil
}

func (m *MemoryDB) SaveProductSettings(ctx context.Context, ps models.ProductSettings) error {
	if err := ps.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[ps.ProductID] = ps
	return nil
}

// кошельки

func (m *MemoryDB) GetOrCreate(ctx context.Context, userId string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.walletLocked(userId), nil
}

func (m *MemoryDB) walletLocked(userId string) models.Wallet {
	w, ok := m.wallets[userId]
	if !ok {
		now := m.clock().UTC()
		w = models.Wallet{UserID: userId, CreatedAt: now, UpdatedAt: now}
		m.wallets[userId] = w
	}
	return w
}

func (m *MemoryDB) ApplyAtomic(ctx context.Context, userId string, mutation interf.WalletMutation) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.walletLocked(userId)
	log := &memoryLog{db: m}
	if err := mutation(ctx, &w, log); err != nil {
		return models.Wallet{}, err
	}
	w.Version++
	w.UpdatedAt = m.clock().UTC()
	m.wallets[userId] = w
	for _, t := range log.pending {
		m.tnx[t.UserID] = append(m.tnx[t.UserID], t)
	}
	return w, nil
}

func (m *MemoryDB) History(ctx context.Context, userId string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, len(m.tnx[userId]))
	copy(out, m.tnx[userId])
	return out, nil
}

func (m *MemoryDB) UsersWithExpiredCoins(ctx context.Context, asOf time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []string
	for user, tnxs := range m.tnx {
		for _, t := range tnxs {
			if t.Type == models.EARNED && t.ExpiresAt != nil && !t.ExpiresAt.After(asOf) {
				users = append(users, user)
				break
			}
		}
	}
	return users, nil
}

// журнал внутри ApplyAtomic: записи видны только после успешного завершения
type memoryLog struct {
	db      *MemoryDB
	pending []models.Transaction
}

func (l *memoryLog) Append(ctx context.Context, tnx models.Transaction) error {
	if !tnx.Type.Valid() {
		return models.ErrInvalidTransaction
	}
	l.pending = append(l.pending, tnx)
	return nil
}

func (l *memoryLog) List(ctx context.Context, userId string) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, len(l.db.tnx[userId])+len(l.pending))
	out = append(out, l.db.tnx[userId]...)
	for _, t := range l.pending {
		if t.UserID == userId {
			out = append(out, t)
		}
	}
	return out, nil
}

// купоны

func (m *MemoryDB) SaveCoupon(ctx context.Context, c models.Coupon) (models.Coupon, error) {
	if err := c.Validate(); err != nil {
		return models.Coupon{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = models.NormalizeCode(c.Code)
	m.coupons[c.Code] = c
	return c, nil
}

func (m *MemoryDB) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[models.NormalizeCode(code)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemoryDB) CountGlobal(ctx context.Context, couponId uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(couponId, ""), nil
}

func (m *MemoryDB) CountForUser(ctx context.Context, couponId uuid.UUID, userId string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(couponId, userId), nil
}

func (m *MemoryDB) countLocked(couponId uuid.UUID, userId string) int64 {
	var n int64
	for _, u := range m.usage {
		if u.CouponID == couponId && (userId == "" || u.UserID == userId) {
			n++
		}
	}
	return n
}

func (m *MemoryDB) Record(ctx context.Context, rec models.CouponUsageRecord, limits models.UsageLimits) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limits.Total != nil && m.countLocked(rec.CouponID, "") >= *limits.Total {
		return models.ErrUsageLimitExceeded
	}
	if limits.PerUser != nil && m.countLocked(rec.CouponID, rec.UserID) >= *limits.PerUser {
		return models.ErrPerUserLimitExceeded
	}
	m.usage = append(m.usage, rec)
	return nil
}
