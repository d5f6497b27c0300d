package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Generate(RoleDoctor, "doctor1")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.Equal(t, "doctor1", claims.ActorID)
	assert.NotEmpty(t, claims.ID, "token id is required for revocation")
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).Generate(RoleMigrant, "m1")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}

func TestJWTTokenIDsAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	first, err := svc.Generate(RoleAuthority, "a1")
	require.NoError(t, err)
	second, err := svc.Generate(RoleAuthority, "a1")
	require.NoError(t, err)

	c1, err := svc.Validate(first)
	require.NoError(t, err)
	c2, err := svc.Validate(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier(map[string]string{"official1": "offpass1", "empty": ""})
	ctx := context.Background()

	assert.True(t, v.Verify(ctx, "official1", "offpass1"))
	assert.False(t, v.Verify(ctx, "official1", "wrong"))
	assert.False(t, v.Verify(ctx, "unknown", "offpass1"))
	// Empty secrets never match, even when configured empty.
	assert.False(t, v.Verify(ctx, "empty", ""))
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	assert.False(t, r.IsRevoked(ctx, "token-1"))

	require.NoError(t, r.Revoke(ctx, "token-1", time.Hour))
	assert.True(t, r.IsRevoked(ctx, "token-1"))
	assert.False(t, r.IsRevoked(ctx, "token-2"))
}

func TestMemoryRevokerEntriesExpire(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "short-lived", 20*time.Millisecond))
	assert.True(t, r.IsRevoked(ctx, "short-lived"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, r.IsRevoked(ctx, "short-lived"))
}
