package pass

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("password stored in plain text")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatalf("wrong password accepted")
	}
}
