package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MySuperS3cret-Passphrase!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)
}

func TestSignupValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{"Valid request", SignupRequest{"test@example.com", "tester", "ComplexPass123!"}, false},
		{"Invalid email", SignupRequest{"notanemail", "tester", "ComplexPass123!"}, true},
		{"Username too short", SignupRequest{"test@example.com", "ab", "ComplexPass123!"}, true},
		{"Password too short", SignupRequest{"test@example.com", "tester", "Short1!"}, true},
		{"Missing digit", SignupRequest{"test@example.com", "tester", "NoDigitPassword!"}, true},
		{"Missing special char", SignupRequest{"test@example.com", "tester", "NoSpecialChar123"}, true},
		{"Missing uppercase", SignupRequest{"test@example.com", "tester", "nouppercase123!"}, true},
		{"Password too long (edge case)", SignupRequest{"test@example.com", "tester", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
