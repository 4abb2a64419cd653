package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/superlists/internal/auth"
	"github.com/mmynk/superlists/internal/lists"
	"github.com/mmynk/superlists/internal/metrics"
	"github.com/mmynk/superlists/internal/middleware"
	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/pkg/api"
)

// ListService implements the Connect ListService.
// The caller's identity comes from the OptionalAuth interceptor; anonymous
// callers create ownerless lists.
type ListService struct {
	lists   *lists.Service
	metrics *metrics.Metrics
}

var _ api.ListServiceHandler = (*ListService)(nil)

// NewListService creates a ListService over svc.
func NewListService(svc *lists.Service, m *metrics.Metrics) *ListService {
	return &ListService{lists: svc, metrics: m}
}

// CreateList creates an empty list owned by the caller, if any.
func (s *ListService) CreateList(ctx context.Context, req *connect.Request[api.CreateListRequest]) (*connect.Response[api.CreateListResponse], error) {
	ownerID := middleware.GetUserID(ctx)
	slog.Info("CreateList request received", "owner_id", ownerID)

	listID, err := s.lists.CreateList(ctx, ownerID)
	if errors.Is(err, models.ErrUnknownOwner) {
		slog.Warn("Session user no longer exists, creating list anonymously", "owner_id", ownerID)
		listID, err = s.lists.CreateList(ctx, "")
	}
	if err != nil {
		slog.Error("CreateList failed", "error", err)
		return nil, toConnectError(err)
	}

	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		slog.Error("Failed to fetch created list", "list_id", listID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.ListsCreated.Inc()
	slog.Info("List created", "list_id", listID)
	return connect.NewResponse(&api.CreateListResponse{List: toAPIList(list)}), nil
}

// CreateListWithFirstItem creates a list and its first item atomically.
func (s *ListService) CreateListWithFirstItem(ctx context.Context, req *connect.Request[api.CreateListWithFirstItemRequest]) (*connect.Response[api.CreateListWithFirstItemResponse], error) {
	ownerID := middleware.GetUserID(ctx)
	slog.Info("CreateListWithFirstItem request received", "owner_id", ownerID)

	listID, err := s.lists.CreateListWithFirstItem(ctx, req.Msg.Text, ownerID)
	if errors.Is(err, models.ErrUnknownOwner) {
		slog.Warn("Session user no longer exists, creating list anonymously", "owner_id", ownerID)
		listID, err = s.lists.CreateListWithFirstItem(ctx, req.Msg.Text, "")
	}
	if err != nil {
		s.metrics.RecordItemError(err)
		slog.Warn("CreateListWithFirstItem failed", "error", err)
		return nil, toConnectError(err)
	}

	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		slog.Error("Failed to fetch created list", "list_id", listID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.ListsCreated.Inc()
	slog.Info("List created", "list_id", listID, "items_count", len(list.Items))
	return connect.NewResponse(&api.CreateListWithFirstItemResponse{List: toAPIList(list)}), nil
}

// GetList retrieves a list with its items.
func (s *ListService) GetList(ctx context.Context, req *connect.Request[api.GetListRequest]) (*connect.Response[api.GetListResponse], error) {
	slog.Info("GetList request received", "list_id", req.Msg.ListID)

	list, err := s.lists.GetList(ctx, req.Msg.ListID)
	if err != nil {
		slog.Error("GetList failed", "list_id", req.Msg.ListID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetList successful", "list_id", list.ID, "items_count", len(list.Items))
	return connect.NewResponse(&api.GetListResponse{List: toAPIList(list)}), nil
}

// AddItem appends an item to an existing list.
func (s *ListService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	slog.Info("AddItem request received", "list_id", req.Msg.ListID)

	id, err := s.lists.CreateItem(ctx, req.Msg.Text, req.Msg.ListID)
	if err != nil {
		s.metrics.RecordItemError(err)
		slog.Warn("AddItem failed", "list_id", req.Msg.ListID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.ItemsAdded.Inc()
	slog.Info("Item added", "list_id", req.Msg.ListID, "item_id", id)
	return connect.NewResponse(&api.AddItemResponse{
		Item: &api.Item{ID: id, Text: req.Msg.Text},
	}), nil
}

// DeleteList removes a list and its items.
func (s *ListService) DeleteList(ctx context.Context, req *connect.Request[api.DeleteListRequest]) (*connect.Response[api.DeleteListResponse], error) {
	slog.Info("DeleteList request received", "list_id", req.Msg.ListID)

	if err := s.lists.DeleteList(ctx, req.Msg.ListID); err != nil {
		slog.Error("DeleteList failed", "list_id", req.Msg.ListID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("List deleted", "list_id", req.Msg.ListID)
	return connect.NewResponse(&api.DeleteListResponse{}), nil
}

// ShareList shares a list with an existing user.
func (s *ListService) ShareList(ctx context.Context, req *connect.Request[api.ShareListRequest]) (*connect.Response[api.ShareListResponse], error) {
	slog.Info("ShareList request received", "list_id", req.Msg.ListID, "email", req.Msg.Email)

	if err := s.lists.ShareList(ctx, req.Msg.ListID, req.Msg.Email); err != nil {
		slog.Warn("ShareList failed", "list_id", req.Msg.ListID, "error", err)
		return nil, toConnectError(err)
	}

	list, err := s.lists.GetList(ctx, req.Msg.ListID)
	if err != nil {
		slog.Error("Failed to fetch shared list", "list_id", req.Msg.ListID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.ListsShared.Inc()
	slog.Info("List shared", "list_id", list.ID, "shared_count", len(list.SharedWith))
	return connect.NewResponse(&api.ShareListResponse{List: toAPIList(list)}), nil
}

// GetUserLists returns the lists owned by and shared with a user.
// An empty email means the caller.
func (s *ListService) GetUserLists(ctx context.Context, req *connect.Request[api.GetUserListsRequest]) (*connect.Response[api.GetUserListsResponse], error) {
	email := req.Msg.Email
	if email == "" {
		email = middleware.GetEmail(ctx)
	}
	if email == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	slog.Info("GetUserLists request received", "email", email)

	ul, err := s.lists.UserLists(ctx, email)
	if err != nil {
		slog.Warn("GetUserLists failed", "email", email, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetUserLists successful", "user_id", ul.User.ID, "owned", len(ul.Owned), "shared", len(ul.Shared))
	return connect.NewResponse(&api.GetUserListsResponse{
		User:   toAPIUser(ul.User),
		Owned:  toAPILists(ul.Owned),
		Shared: toAPILists(ul.Shared),
	}), nil
}
