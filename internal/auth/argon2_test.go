package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// testParams keeps hashing fast in tests.
var testParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestHasher_HashFormat(t *testing.T) {
	t.Parallel()

	h := NewHasher(Argon2Params{})

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Verify PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}

	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected default m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHasher_CustomParams(t *testing.T) {
	t.Parallel()

	h := NewHasher(testParams)

	hash, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	parts := strings.Split(hash, "$")
	if parts[3] != "m=8192,t=1,p=1" {
		t.Errorf("Expected m=8192,t=1,p=1, got: %s", parts[3])
	}

	// Digest carries its own parameters, so a hasher with other params still verifies it.
	match, err := NewHasher(Argon2Params{}).Verify("password", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !match {
		t.Error("Digest should verify regardless of verifier work factor")
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	t.Parallel()

	_, err := NewHasher(testParams).Hash("")
	if err != ErrEmptyPassword {
		t.Errorf("Expected ErrEmptyPassword, got: %v", err)
	}
}

func TestHasher_Uniqueness(t *testing.T) {
	t.Parallel()

	h := NewHasher(testParams)
	password := "the_same_password_12345"

	hash1, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	hash2, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Same password should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}

	match1, _ := h.Verify(password, hash1)
	match2, _ := h.Verify(password, hash2)

	if !match1 || !match2 {
		t.Error("Both hashes should verify correctly")
	}
}

func TestHasher_VerifyCorrect(t *testing.T) {
	t.Parallel()

	h := NewHasher(testParams)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	match, err := h.Verify("s3cret-pass", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !match {
		t.Error("Correct password should match")
	}
}

func TestHasher_VerifyIncorrect(t *testing.T) {
	t.Parallel()

	h := NewHasher(testParams)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Wrong password should not verify (but no error)
	match, err := h.Verify("some-wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify should not return error for wrong password: %v", err)
	}
	if match {
		t.Error("Wrong password should not match")
	}
}

func TestHasher_VerifyBcrypt(t *testing.T) {
	t.Parallel()

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	h := NewHasher(testParams)

	match, err := h.Verify("legacy-pass", string(legacy))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !match {
		t.Error("bcrypt digest should verify")
	}

	match, err = h.Verify("wrong", string(legacy))
	if err != nil {
		t.Fatalf("Verify should not return error for wrong password: %v", err)
	}
	if match {
		t.Error("Wrong password should not match bcrypt digest")
	}
}

func TestHasher_VerifyInvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong format", "not-a-hash", ErrInvalidHash},
		{"wrong algorithm", "$scrypt$v=19$m=65536,t=3,p=4$salt$hash", ErrInvalidHash},
		{"missing parts", "$argon2id$v=19$m=65536", ErrInvalidHash},
		{"wrong part count", "$argon2id$v=19", ErrInvalidHash},
		{"zero parallelism", "$argon2id$v=19$m=65536,t=3,p=0$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"truncated bcrypt", "$2a$10$short", ErrInvalidHash},
		{"excessive memory", "$argon2id$v=19$m=4294967295,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"memory above limit", "$argon2id$v=19$m=262145,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"excessive time", "$argon2id$v=19$m=8192,t=13,p=1$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
	}

	h := NewHasher(testParams)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := h.Verify("password", tt.hash)
			if err != tt.wantErr {
				t.Errorf("Verify with %q error = %v, want %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestHasher_VerifyDefaultDigestWithCheapParams(t *testing.T) {
	t.Parallel()

	hash, err := NewHasher(Argon2Params{}).Hash("password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	match, err := NewHasher(testParams).Verify("password", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !match {
		t.Error("default-cost digest should verify under a cheaper configuration")
	}
}

func TestHasher_VerifyWrongVersion(t *testing.T) {
	t.Parallel()

	// v=18 simulates an incompatible argon2 version
	invalidVersionHash := "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl"

	match, err := NewHasher(testParams).Verify("password", invalidVersionHash)
	if err != ErrIncompatibleVersion {
		t.Errorf("Expected ErrIncompatibleVersion, got: %v", err)
	}
	if match {
		t.Error("Should not match with incompatible version")
	}
}
