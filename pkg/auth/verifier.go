package auth

import "context"

// CredentialVerifier checks an identity/secret pair. The shared-secret role
// accounts and the DB-backed doctor store both implement it, so a real
// identity provider can be substituted without touching the handlers.
type CredentialVerifier interface {
	Verify(ctx context.Context, identity, secret string) bool
}

// StaticVerifier verifies against a fixed identity -> secret table.
type StaticVerifier struct {
	accounts map[string]string
}

func NewStaticVerifier(accounts map[string]string) *StaticVerifier {
	if accounts == nil {
		accounts = map[string]string{}
	}
	return &StaticVerifier{accounts: accounts}
}

func (v *StaticVerifier) Verify(_ context.Context, identity, secret string) bool {
	want, ok := v.accounts[identity]
	return ok && secret != "" && want == secret
}
