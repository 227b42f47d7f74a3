package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

// Memory is the in-process Store implementation. It backs local
// development (no DATABASE_URL) and every test in the repo.
type Memory struct {
	mu sync.RWMutex

	smartphones  map[int64]smartphone.Smartphone
	users        map[int64]user.User
	carts        map[int64]cart.Cart
	cartItems    map[int64]cart.CartItem
	reviews      map[int64]review.Review
	orders       map[int64]order.Order
	tmpPasswords map[string]user.TmpPassword

	smartphoneSeq int64
	userSeq       int64
	cartSeq       int64
	itemSeq       int64
	reviewSeq     int64
	orderSeq      int64
	orderItemSeq  int64
}

func New() *Memory {
	return &Memory{
		smartphones:  make(map[int64]smartphone.Smartphone),
		users:        make(map[int64]user.User),
		carts:        make(map[int64]cart.Cart),
		cartItems:    make(map[int64]cart.CartItem),
		reviews:      make(map[int64]review.Review),
		orders:       make(map[int64]order.Order),
		tmpPasswords: make(map[string]user.TmpPassword),
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Seed loads the demo catalog and two accounts:
// admin@smartbuy.dev / admin123 and user@smartbuy.dev / password123.
func (m *Memory) Seed() error {
	phones := []smartphone.Smartphone{
		{Model: "iPhone 15 Pro", Producer: "Apple", Memory: 256, Ram: 8, DisplaySize: 6.1,
			Price: 99990, RatingsSum: 45, RatingsCount: 9, ImagePath: "/images/iphone15pro.jpg",
			Description: "Apple flagship smartphone"},
		{Model: "Galaxy S24", Producer: "Samsung", Memory: 256, Ram: 12, DisplaySize: 6.2,
			Price: 79990, RatingsSum: 38, RatingsCount: 8, ImagePath: "/images/galaxys24.jpg",
			Description: "Samsung flagship smartphone"},
		{Model: "Redmi Note 13", Producer: "Xiaomi", Memory: 128, Ram: 6, DisplaySize: 6.5,
			Price: 24990, RatingsSum: 28, RatingsCount: 6, ImagePath: "/images/redminote13.jpg",
			Description: "Popular Xiaomi smartphone"},
		{Model: "Pixel 8", Producer: "Google", Memory: 128, Ram: 8, DisplaySize: 6.2,
			Price: 69990, RatingsSum: 19, RatingsCount: 4, ImagePath: "/images/pixel8.jpg",
			Description: "Google smartphone with clean Android"},
	}
	m.mu.Lock()
	for _, p := range phones {
		m.smartphoneSeq++
		p.ID = m.smartphoneSeq
		m.smartphones[p.ID] = p
	}
	m.mu.Unlock()

	accounts := []struct {
		name, email, password string
		role                  user.Role
	}{
		{"Admin", "admin@smartbuy.dev", "admin123", user.RoleAdmin},
		{"Demo User", "user@smartbuy.dev", "password123", user.RoleUser},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = m.CreateUser(context.Background(), user.User{
			Name: a.name, Email: a.email, Password: string(hash), Role: a.role,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
