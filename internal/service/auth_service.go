package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/driman-systems/fondue/internal/config"
	"github.com/driman-systems/fondue/internal/dto"
	"github.com/driman-systems/fondue/internal/middleware"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredenciaisInvalidas = errors.New("Usuário ou senha inválidos")
	ErrUsernameEmUso        = errors.New("Username já está em uso")
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, id string, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesativarUsuario(ctx context.Context, id string) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredenciaisInvalidas
	}
	return s.emitirTokens(u)
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// reloaded so a deactivation between tokens revokes access.
func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("Refresh token inválido ou expirado")
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("Refresh token inválido ou expirado")
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil || !u.Ativo {
		return nil, errors.New("Usuário inativo")
	}
	return s.emitirTokens(u)
}

func (s *authService) CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := model.Usuario{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUsernameEmUso
		}
		return nil, err
	}
	resp := toUsuarioResponse(&u)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUsuarioResponse(&users[i]))
	}
	return resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, id string, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("id inválido: %s", id)
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, errors.New("Usuário não encontrado")
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := toUsuarioResponse(u)
	return &resp, nil
}

func (s *authService) DesativarUsuario(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id inválido: %s", id)
	}
	if _, err := s.repo.FindByID(ctx, uid); err != nil {
		return errors.New("Usuário não encontrado")
	}
	return s.repo.SoftDelete(ctx, uid)
}

func (s *authService) emitirTokens(u *model.Usuario) (*dto.LoginResponse, error) {
	access, err := s.assinarToken(u, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.assinarToken(u, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         toUsuarioResponse(u),
	}, nil
}

func (s *authService) assinarToken(u *model.Usuario, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		Ativo:    u.Ativo,
	}
}
