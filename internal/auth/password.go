package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost стандартная сложность bcrypt
	DefaultBcryptCost = 12
)

var (
	ErrInvalidPassphrase = errors.New("invalid passphrase")
)

// PasswordService сервис для работы с парольной фразой API
type PasswordService struct {
	cost int
}

// NewPasswordService создает новый сервис для работы с паролями
func NewPasswordService() *PasswordService {
	return &PasswordService{
		cost: DefaultBcryptCost,
	}
}

// NewPasswordServiceWithCost создает новый сервис с заданной сложностью
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{
		cost: cost,
	}
}

// HashPassphrase хеширует фразу с использованием bcrypt
func (s *PasswordService) HashPassphrase(passphrase string) (string, error) {
	if err := IsValidPassphrase(passphrase); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), s.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// VerifyPassphrase проверяет соответствие фразы и хеша
func (s *PasswordService) VerifyPassphrase(hashed, passphrase string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(passphrase)); err != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

// IsValidPassphrase проверяет фразу по базовым критериям
func IsValidPassphrase(passphrase string) error {
	if len(passphrase) < 8 {
		return errors.New("passphrase must be at least 8 characters long")
	}

	// bcrypt учитывает только первые 72 байта
	if len(passphrase) > 72 {
		return errors.New("passphrase must be no more than 72 bytes long")
	}

	return nil
}
