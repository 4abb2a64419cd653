package service

import (
	"github.com/mmynk/superlists/internal/models"
	"github.com/mmynk/superlists/pkg/api"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func toAPIList(list *models.List) *api.List {
	out := &api.List{
		ID:         list.ID,
		OwnerID:    list.OwnerID,
		CreatedAt:  list.CreatedAt,
		Items:      make([]api.Item, len(list.Items)),
		SharedWith: make([]string, len(list.SharedWith)),
	}
	// An empty list has no name.
	out.Name, _ = list.Name()
	for i, item := range list.Items {
		out.Items[i] = api.Item{ID: item.ID, Text: item.Text}
	}
	for i, user := range list.SharedWith {
		out.SharedWith[i] = user.Email
	}
	return out
}

func toAPILists(lists []*models.List) []*api.List {
	out := make([]*api.List, len(lists))
	for i, list := range lists {
		out[i] = toAPIList(list)
	}
	return out
}
