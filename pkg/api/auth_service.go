package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of the auth service.
const AuthServiceName = "superlists.v1.AuthService"

// Procedure paths of AuthService.
const (
	AuthServiceSendLoginEmailProcedure = "/superlists.v1.AuthService/SendLoginEmail"
	AuthServiceLoginProcedure          = "/superlists.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/superlists.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	SendLoginEmail(context.Context, *connect.Request[SendLoginEmailRequest]) (*connect.Response[SendLoginEmailResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on. GetCurrentUser takes its own options so that only it can
// be put behind a required-auth interceptor.
func NewAuthServiceHandler(svc AuthServiceHandler, publicOpts, privateOpts []connect.HandlerOption) (string, http.Handler) {
	public := append([]connect.HandlerOption{WithJSON()}, publicOpts...)
	private := append([]connect.HandlerOption{WithJSON()}, privateOpts...)

	routes := map[string]http.Handler{
		AuthServiceSendLoginEmailProcedure: connect.NewUnaryHandler(AuthServiceSendLoginEmailProcedure, svc.SendLoginEmail, public...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, public...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, private...),
	}
	return "/" + AuthServiceName + "/", dispatch(routes)
}

// AuthServiceClient is a typed client for AuthService.
type AuthServiceClient struct {
	sendLoginEmail *connect.Client[SendLoginEmailRequest, SendLoginEmailResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient creates a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &AuthServiceClient{
		sendLoginEmail: connect.NewClient[SendLoginEmailRequest, SendLoginEmailResponse](httpClient, baseURL+AuthServiceSendLoginEmailProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) SendLoginEmail(ctx context.Context, req *connect.Request[SendLoginEmailRequest]) (*connect.Response[SendLoginEmailResponse], error) {
	return c.sendLoginEmail.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
