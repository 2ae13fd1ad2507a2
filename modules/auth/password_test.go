package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	for _, password := range []string{"password123", "P@ssw0rd!#$%^&*()", "密码123密码123"} {
		t.Run(password, func(t *testing.T) {
			hash, err := hasher.Hash(password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == password {
				t.Error("Hash() returned the original password")
			}
			if !hasher.Verify(password, hash) {
				t.Error("Verify() returned false for correct password")
			}
			if hasher.Verify(password+"x", hash) {
				t.Error("Verify() returned true for wrong password")
			}
		})
	}
}

func TestPasswordHasher_SaltedHashes(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("identical passwords produced identical hashes")
	}
}

func TestNewPasswordHasher_Cost(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{12, 12},
	}
	for _, tt := range tests {
		if got := NewPasswordHasher(tt.in).cost; got != tt.want {
			t.Errorf("NewPasswordHasher(%d).cost = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	if NewPasswordHasher(bcrypt.MinCost).Verify("password", "not-a-hash") {
		t.Error("Verify() accepted an invalid hash")
	}
}
