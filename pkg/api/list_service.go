package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ListServiceName is the fully-qualified name of the list service.
const ListServiceName = "superlists.v1.ListService"

// Procedure paths of ListService.
const (
	ListServiceCreateListProcedure              = "/superlists.v1.ListService/CreateList"
	ListServiceCreateListWithFirstItemProcedure = "/superlists.v1.ListService/CreateListWithFirstItem"
	ListServiceGetListProcedure                 = "/superlists.v1.ListService/GetList"
	ListServiceAddItemProcedure                 = "/superlists.v1.ListService/AddItem"
	ListServiceDeleteListProcedure              = "/superlists.v1.ListService/DeleteList"
	ListServiceShareListProcedure               = "/superlists.v1.ListService/ShareList"
	ListServiceGetUserListsProcedure            = "/superlists.v1.ListService/GetUserLists"
)

// ListServiceHandler is implemented by the server side of ListService.
type ListServiceHandler interface {
	CreateList(context.Context, *connect.Request[CreateListRequest]) (*connect.Response[CreateListResponse], error)
	CreateListWithFirstItem(context.Context, *connect.Request[CreateListWithFirstItemRequest]) (*connect.Response[CreateListWithFirstItemResponse], error)
	GetList(context.Context, *connect.Request[GetListRequest]) (*connect.Response[GetListResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	DeleteList(context.Context, *connect.Request[DeleteListRequest]) (*connect.Response[DeleteListResponse], error)
	ShareList(context.Context, *connect.Request[ShareListRequest]) (*connect.Response[ShareListResponse], error)
	GetUserLists(context.Context, *connect.Request[GetUserListsRequest]) (*connect.Response[GetUserListsResponse], error)
}

// NewListServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewListServiceHandler(svc ListServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	routes := map[string]http.Handler{
		ListServiceCreateListProcedure:              connect.NewUnaryHandler(ListServiceCreateListProcedure, svc.CreateList, opts...),
		ListServiceCreateListWithFirstItemProcedure: connect.NewUnaryHandler(ListServiceCreateListWithFirstItemProcedure, svc.CreateListWithFirstItem, opts...),
		ListServiceGetListProcedure:                 connect.NewUnaryHandler(ListServiceGetListProcedure, svc.GetList, opts...),
		ListServiceAddItemProcedure:                 connect.NewUnaryHandler(ListServiceAddItemProcedure, svc.AddItem, opts...),
		ListServiceDeleteListProcedure:              connect.NewUnaryHandler(ListServiceDeleteListProcedure, svc.DeleteList, opts...),
		ListServiceShareListProcedure:               connect.NewUnaryHandler(ListServiceShareListProcedure, svc.ShareList, opts...),
		ListServiceGetUserListsProcedure:            connect.NewUnaryHandler(ListServiceGetUserListsProcedure, svc.GetUserLists, opts...),
	}
	return "/" + ListServiceName + "/", dispatch(routes)
}

// ListServiceClient is a typed client for ListService.
type ListServiceClient struct {
	createList              *connect.Client[CreateListRequest, CreateListResponse]
	createListWithFirstItem *connect.Client[CreateListWithFirstItemRequest, CreateListWithFirstItemResponse]
	getList                 *connect.Client[GetListRequest, GetListResponse]
	addItem                 *connect.Client[AddItemRequest, AddItemResponse]
	deleteList              *connect.Client[DeleteListRequest, DeleteListResponse]
	shareList               *connect.Client[ShareListRequest, ShareListResponse]
	getUserLists            *connect.Client[GetUserListsRequest, GetUserListsResponse]
}

// NewListServiceClient creates a client for the service at baseURL.
func NewListServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ListServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &ListServiceClient{
		createList:              connect.NewClient[CreateListRequest, CreateListResponse](httpClient, baseURL+ListServiceCreateListProcedure, opts...),
		createListWithFirstItem: connect.NewClient[CreateListWithFirstItemRequest, CreateListWithFirstItemResponse](httpClient, baseURL+ListServiceCreateListWithFirstItemProcedure, opts...),
		getList:                 connect.NewClient[GetListRequest, GetListResponse](httpClient, baseURL+ListServiceGetListProcedure, opts...),
		addItem:                 connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+ListServiceAddItemProcedure, opts...),
		deleteList:              connect.NewClient[DeleteListRequest, DeleteListResponse](httpClient, baseURL+ListServiceDeleteListProcedure, opts...),
		shareList:               connect.NewClient[ShareListRequest, ShareListResponse](httpClient, baseURL+ListServiceShareListProcedure, opts...),
		getUserLists:            connect.NewClient[GetUserListsRequest, GetUserListsResponse](httpClient, baseURL+ListServiceGetUserListsProcedure, opts...),
	}
}

func (c *ListServiceClient) CreateList(ctx context.Context, req *connect.Request[CreateListRequest]) (*connect.Response[CreateListResponse], error) {
	return c.createList.CallUnary(ctx, req)
}

func (c *ListServiceClient) CreateListWithFirstItem(ctx context.Context, req *connect.Request[CreateListWithFirstItemRequest]) (*connect.Response[CreateListWithFirstItemResponse], error) {
	return c.createListWithFirstItem.CallUnary(ctx, req)
}

func (c *ListServiceClient) GetList(ctx context.Context, req *connect.Request[GetListRequest]) (*connect.Response[GetListResponse], error) {
	return c.getList.CallUnary(ctx, req)
}

func (c *ListServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *ListServiceClient) DeleteList(ctx context.Context, req *connect.Request[DeleteListRequest]) (*connect.Response[DeleteListResponse], error) {
	return c.deleteList.CallUnary(ctx, req)
}

func (c *ListServiceClient) ShareList(ctx context.Context, req *connect.Request[ShareListRequest]) (*connect.Response[ShareListResponse], error) {
	return c.shareList.CallUnary(ctx, req)
}

func (c *ListServiceClient) GetUserLists(ctx context.Context, req *connect.Request[GetUserListsRequest]) (*connect.Response[GetUserListsResponse], error) {
	return c.getUserLists.CallUnary(ctx, req)
}

// dispatch routes a request to the handler registered for its exact path.
func dispatch(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
