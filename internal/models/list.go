package models

// List represents a to-do list.
// A list is named after its first item and may be shared with other users.
type List struct {
	// ID is the unique identifier for the list (UUIDv7 format).
	ID string

	// OwnerID is the ID of the user who created the list.
	// Empty for lists created anonymously.
	OwnerID string

	// CreatedAt is the Unix timestamp when the list was created.
	CreatedAt int64

	// Items are the list's items in creation order.
	// Populated by the store on GetList.
	Items []Item

	// SharedWith are the users the list has been shared with.
	// Populated by the store on GetList.
	SharedWith []User
}

// Name returns the text of the list's first item.
// Returns ErrEmptyList if the list has no items.
func (l *List) Name() (string, error) {
	if len(l.Items) == 0 {
		return "", ErrEmptyList
	}
	return l.Items[0].Text, nil
}

// HasOwner reports whether the list was created by a logged-in user.
func (l *List) HasOwner() bool {
	return l.OwnerID != ""
}

// IsSharedWith reports whether userID is in the list's shared-with set.
func (l *List) IsSharedWith(userID string) bool {
	for _, u := range l.SharedWith {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Item represents a single line of text on a list.
type Item struct {
	// ID is the auto-incremented identifier; ascending ID is creation order.
	ID int64

	// ListID is the list this item belongs to.
	ListID string

	// Text is the item's content. Never empty once persisted.
	Text string
}

// String returns the item text.
func (i Item) String() string {
	return i.Text
}
