package api

// User is the public view of an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Item is a single list entry.
type Item struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// List is a list with its items in creation order.
// Name is empty when the list has no items.
type List struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	OwnerID    string   `json:"owner_id,omitempty"`
	CreatedAt  int64    `json:"created_at"`
	Items      []Item   `json:"items"`
	SharedWith []string `json:"shared_with"`
}

type CreateListRequest struct{}

type CreateListResponse struct {
	List *List `json:"list"`
}

type CreateListWithFirstItemRequest struct {
	Text string `json:"text"`
}

type CreateListWithFirstItemResponse struct {
	List *List `json:"list"`
}

type GetListRequest struct {
	ListID string `json:"list_id"`
}

type GetListResponse struct {
	List *List `json:"list"`
}

type AddItemRequest struct {
	ListID string `json:"list_id"`
	Text   string `json:"text"`
}

type AddItemResponse struct {
	Item *Item `json:"item"`
}

type DeleteListRequest struct {
	ListID string `json:"list_id"`
}

type DeleteListResponse struct{}

type ShareListRequest struct {
	ListID string `json:"list_id"`
	Email  string `json:"email"`
}

type ShareListResponse struct {
	List *List `json:"list"`
}

type GetUserListsRequest struct {
	Email string `json:"email"`
}

type GetUserListsResponse struct {
	User   *User   `json:"user"`
	Owned  []*List `json:"owned"`
	Shared []*List `json:"shared"`
}

type SendLoginEmailRequest struct {
	Email string `json:"email"`
}

type SendLoginEmailResponse struct{}

// LoginRequest redeems the token from a login link.
type LoginRequest struct {
	Token string `json:"token"`
}

// LoginResponse carries the session token to send as "Authorization: Bearer".
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
