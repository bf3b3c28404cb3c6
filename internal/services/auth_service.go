package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/domain"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentPrincipal resolves the session into the explicit Principal the
// sale ledger consumes. No request-scoped globals beyond this point.
func (s *AuthService) CurrentPrincipal(sid string) (*domain.Principal, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	p := u.ToPrincipal()
	return &p, nil
}
