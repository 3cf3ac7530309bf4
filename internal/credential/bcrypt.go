package credential

import "golang.org/x/crypto/bcrypt"

// bcryptハッシュ化
type BcryptStore struct {
	cost int
}

// DI
func NewBcryptStore(cost int) *BcryptStore {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptStore{cost: cost}
}

func (s *BcryptStore) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *BcryptStore) Verify(plain string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
