package service

import (
	"context"
	"errors"
	"testing"

	"baknusai-be/internal/config"
	"baknusai-be/internal/dto"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/pkg/mailcow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	err       error
	lastEmail string
	lastPass  string
}

func (f *fakeVerifier) Verify(email, password string) error {
	f.lastEmail = email
	f.lastPass = password
	return f.err
}

type fakeDirectory struct {
	mailbox *mailcow.Mailbox
	err     error
}

func (f *fakeDirectory) GetMailbox(context.Context, string) (*mailcow.Mailbox, error) {
	return f.mailbox, f.err
}

func newTestAuthService(verifier CredentialVerifier, directory MailboxDirectory, repo *fakeUserRepo) IAuthService {
	return NewAuthService(verifier, directory, repo, config.AuthConfig{
		JWTSecret:  "rahasia12345",
		CookieName: "baknus_auth",
	}, logger.NewNopLogger())
}

func TestLogin_Success(t *testing.T) {
	verifier := &fakeVerifier{}
	directory := &fakeDirectory{mailbox: &mailcow.Mailbox{
		Name: "Budi Santoso",
		Tags: []string{"siswa"},
	}}
	repo := &fakeUserRepo{}
	svc := newTestAuthService(verifier, directory, repo)

	identity, token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "Budi@smkbn666.sch.id",
		Password: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "budi@smkbn666.sch.id", identity.Email, "email is normalized")
	assert.Equal(t, "Budi Santoso", identity.Name)
	require.NotNil(t, identity.Tag)
	assert.Equal(t, "siswa", *identity.Tag)
	assert.NotEmpty(t, token)

	require.NotNil(t, repo.upserted, "login must upsert the local user row")
	assert.Equal(t, "budi@smkbn666.sch.id", repo.upserted.Email)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("535 authentication failed")}
	svc := newTestAuthService(verifier, &fakeDirectory{}, &fakeUserRepo{})

	_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "budi@smkbn666.sch.id",
		Password: "wrong",
	})

	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DirectoryOutageDegradesToLocalPart(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("mailcow down")}
	repo := &fakeUserRepo{}
	svc := newTestAuthService(&fakeVerifier{}, directory, repo)

	identity, token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "budi@smkbn666.sch.id",
		Password: "secret",
	})

	require.NoError(t, err, "directory enrichment is best-effort")
	assert.Equal(t, "budi", identity.Name)
	assert.Nil(t, identity.Tag)
	assert.NotEmpty(t, token)
}

func TestParseToken_RoundTrip(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(&fakeVerifier{}, &fakeDirectory{mailbox: &mailcow.Mailbox{
		Name: "Ani",
		Tags: []string{"guru"},
	}}, repo)

	_, token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ani@smkbn666.sch.id",
		Password: "secret",
	})
	require.NoError(t, err)

	identity, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ani@smkbn666.sch.id", identity.Email)
	assert.Equal(t, "Ani", identity.Name)
	require.NotNil(t, identity.Tag)
	assert.Equal(t, "guru", *identity.Tag)
}

func TestParseToken_GarbageToken(t *testing.T) {
	svc := newTestAuthService(&fakeVerifier{}, &fakeDirectory{}, &fakeUserRepo{})

	_, err := svc.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := newTestAuthService(&fakeVerifier{}, &fakeDirectory{}, &fakeUserRepo{})
	_, token, err := issuer.Login(context.Background(), &dto.LoginRequest{
		Email:    "budi@smkbn666.sch.id",
		Password: "secret",
	})
	require.NoError(t, err)

	other := NewAuthService(&fakeVerifier{}, &fakeDirectory{}, &fakeUserRepo{}, config.AuthConfig{
		JWTSecret: "different-secret",
	}, logger.NewNopLogger())

	_, err = other.ParseToken(token)
	require.Error(t, err)
}
