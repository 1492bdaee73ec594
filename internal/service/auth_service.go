package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"baknusai-be/internal/config"
	"baknusai-be/internal/dto"
	"baknusai-be/internal/entity"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/pkg/mailcow"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/gomail.v2"
)

// ErrInvalidCredentials is returned when the mail server rejects the login.
var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenLifetime = 7 * 24 * time.Hour

type IAuthService interface {
	// Login verifies the school mailbox credentials and returns the signed
	// session token with the enriched identity.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.Identity, string, error)
	// ParseToken verifies a session token and extracts the identity.
	ParseToken(token string) (*dto.Identity, error)
}

// CredentialVerifier checks a mailbox login against the mail server.
type CredentialVerifier interface {
	Verify(email, password string) error
}

// MailboxDirectory resolves mailbox metadata (display name, role tags).
type MailboxDirectory interface {
	GetMailbox(ctx context.Context, email string) (*mailcow.Mailbox, error)
}

// SMTPVerifier authenticates by performing a full SMTP login handshake
// against the school mail server.
type SMTPVerifier struct {
	Host string
	Port int
}

func (v *SMTPVerifier) Verify(email, password string) error {
	d := gomail.NewDialer(v.Host, v.Port, email, password)
	d.SSL = true

	closer, err := d.Dial()
	if err != nil {
		return err
	}
	return closer.Close()
}

type authService struct {
	verifier  CredentialVerifier
	directory MailboxDirectory
	userRepo  contract.UserRepository
	cfg       config.AuthConfig
	log       logger.ILogger
}

func NewAuthService(
	verifier CredentialVerifier,
	directory MailboxDirectory,
	userRepo contract.UserRepository,
	cfg config.AuthConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		verifier:  verifier,
		directory: directory,
		userRepo:  userRepo,
		cfg:       cfg,
		log:       log,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.Identity, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.verifier.Verify(email, req.Password); err != nil {
		s.log.Warn("auth", "smtp login rejected", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, "", ErrInvalidCredentials
	}

	identity := &dto.Identity{
		Email: email,
		Name:  localPart(email),
	}

	// Directory enrichment is best-effort: a mailcow outage must not block
	// an already verified login.
	if s.directory != nil {
		if mailbox, err := s.directory.GetMailbox(ctx, email); err != nil {
			s.log.Warn("auth", "mailbox lookup failed", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		} else if mailbox != nil {
			if mailbox.Name != "" {
				identity.Name = mailbox.Name
			}
			if len(mailbox.Tags) > 0 {
				tag := mailbox.Tags[0]
				identity.Tag = &tag
			}
		}
	}

	user := &entity.User{
		Email: identity.Email,
		Name:  identity.Name,
		Tag:   identity.Tag,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(identity)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("auth", "login succeeded", map[string]interface{}{
		"email": identity.Email,
	})
	return identity, token, nil
}

func (s *authService) signToken(identity *dto.Identity) (string, error) {
	claims := jwt.MapClaims{
		"email": identity.Email,
		"name":  identity.Name,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
		"iat":   time.Now().Unix(),
	}
	if identity.Tag != nil {
		claims["tag"] = *identity.Tag
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ParseToken(tokenString string) (*dto.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("token has no subject")
	}
	name, _ := claims["name"].(string)

	identity := &dto.Identity{Email: email, Name: name}
	if tag, ok := claims["tag"].(string); ok && tag != "" {
		identity.Tag = &tag
	}
	return identity, nil
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
