package flow

import (
	"context"
	"net/http"

	"github.com/eshaffer321/flowmoney-go/internal/auth"
	internalTypes "github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/pkg/errors"
)

// authService implements the AuthService interface
type authService struct {
	client  *Client
	service *auth.Service
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	var logger internalTypes.Logger
	if l := client.logger(); l != nil {
		logger = l
	}
	return &authService{
		client: client,
		service: auth.NewService(
			client.baseURL,
			client.httpClient,
			logger,
		),
	}
}

// Login performs authentication
func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := a.service.Login(ctx, email, password); err != nil {
		return err
	}
	return a.adoptSession()
}

// Register creates an account
func (a *authService) Register(ctx context.Context, params *RegisterParams) error {
	if err := Validate(params); err != nil {
		return err
	}

	signedIn, err := a.service.Register(ctx, &auth.RegisterInput{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Password:  params.Password,
	})
	if err != nil {
		return err
	}
	if !signedIn {
		return nil
	}
	return a.adoptSession()
}

// ChangePassword changes the password of the signed-in user
func (a *authService) ChangePassword(ctx context.Context, params *ChangePasswordParams) error {
	if err := Validate(params); err != nil {
		return err
	}

	if err := a.client.execute(ctx, http.MethodPost, "/auth/change-password", nil, params, nil); err != nil {
		return errors.Wrap(err, "failed to change password")
	}
	return nil
}

// Logout forgets the token and removes the session file
func (a *authService) Logout() error {
	a.client.session = nil
	a.client.transport.SetSession(nil)
	a.service.SetSession(nil)
	if err := a.service.ClearSession(a.client.options.SessionFile); err != nil {
		if l := a.client.logger(); l != nil {
			l.Warn("Failed to remove session file", "error", err)
		}
		return err
	}
	return nil
}

// GetSession returns the current session
func (a *authService) GetSession() (*Session, error) {
	return a.service.GetSession()
}

// SaveSession saves session to file
func (a *authService) SaveSession(path string) error {
	if _, err := a.service.GetSession(); err != nil && a.client.session != nil {
		a.service.SetSession(a.client.session)
	}
	return a.service.SaveSession(path)
}

// LoadSession loads session from file
func (a *authService) LoadSession(path string) error {
	if err := a.service.LoadSession(path); err != nil {
		return err
	}

	session, err := a.service.GetSession()
	if err != nil {
		return err
	}

	a.client.session = session
	a.client.transport.SetSession(session)

	return nil
}

// adoptSession hands the new session to the client and saves it when configured
func (a *authService) adoptSession() error {
	session, err := a.service.GetSession()
	if err != nil {
		return err
	}

	a.client.session = session
	a.client.transport.SetSession(session)

	if a.client.options.SessionFile != "" {
		if err := a.service.SaveSession(a.client.options.SessionFile); err != nil {
			if l := a.client.logger(); l != nil {
				l.Warn("Failed to save session", "error", err)
			}
		}
	}

	return nil
}
