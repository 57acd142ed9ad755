package pkg

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordCost = 14

// HashPasswordWithCost lets tests and the seed tool use a cheaper cost than DefaultPasswordCost.
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
