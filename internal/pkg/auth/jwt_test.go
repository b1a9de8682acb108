package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
)

func testUser() *models.User {
	return &models.User{
		ID:            1,
		InstitutionID: 1,
		Email:         "teacher@school.edu",
		RoleType:      models.RoleTeacher,
		IsActive:      true,
	}
}

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims returned error: %v", err)
	}
	if claims.UserID != 1 || claims.InstitutionID != 1 {
		t.Errorf("claims = %+v", claims)
	}
	if claims.RoleType != string(models.RoleTeacher) {
		t.Errorf("roleType = %q, want TEACHER", claims.RoleType)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, _, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := svc.ValidateAndExtractClaims(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("got %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	if _, err := other.ValidateAndExtractClaims(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestValidateEmptyToken(t *testing.T) {
	svc := newTestService(time.Hour)
	if _, err := svc.ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer prefix", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bare token", "abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
