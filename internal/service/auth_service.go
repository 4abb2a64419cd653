package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/superlists/internal/auth"
	"github.com/mmynk/superlists/internal/metrics"
	"github.com/mmynk/superlists/internal/middleware"
	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/pkg/api"
)

// UserLookup resolves user IDs taken from session claims.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         UserLookup
	baseURL       string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

var _ api.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service. baseURL is the site
// root that login links point to.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users UserLookup, baseURL string, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		baseURL:       baseURL,
		metrics:       m,
		logger:        logger,
	}
}

// SendLoginEmail mails a single-use login link.
func (s *AuthService) SendLoginEmail(ctx context.Context, req *connect.Request[api.SendLoginEmailRequest]) (*connect.Response[api.SendLoginEmailResponse], error) {
	s.logger.Info("SendLoginEmail request", "email", req.Msg.Email)

	if req.Msg.Email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidEmail)
	}

	if err := s.authenticator.SendLoginEmail(ctx, req.Msg.Email, s.baseURL); err != nil {
		s.logger.Error("SendLoginEmail failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.LoginEmailsSent.Inc()
	s.logger.Info("Login email sent", "email", req.Msg.Email)
	return connect.NewResponse(&api.SendLoginEmailResponse{}), nil
}

// Login redeems a login link token and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request")

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Token)
	if err != nil {
		s.logger.Warn("Login failed", "error", err)
		return nil, toConnectError(err)
	}

	// Generate JWT token
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	// Get user ID from context (set by auth middleware)
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	s.logger.Info("GetCurrentUser request", "user_id", userID)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
