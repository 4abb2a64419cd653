// Package web serves the HTML front end: the home page, list pages, the
// "my lists" page, sharing and the magic-link login flow.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mmynk/superlists/internal/auth"
	"github.com/mmynk/superlists/internal/lists"
	"github.com/mmynk/superlists/internal/metrics"
	"github.com/mmynk/superlists/internal/middleware"
	"github.com/mmynk/superlists/internal/models"
)

// User-facing messages.
const (
	EmptyItemError     = "You can't have an empty list item"
	DuplicateItemError = "You've already got this in your list"
	UnknownUserError   = "No user with that email"
	CheckEmailMessage  = "Check your email, we've sent you a link you can use to log in."
	InvalidLinkMessage = "Invalid login link, please request a new one."
	SharedWithYouNote  = "This list has been shared with you."
)

// UserLookup resolves list owners for display.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Config holds the collaborators of a Handler.
type Config struct {
	Lists         *lists.Service
	Users         UserLookup
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Metrics       *metrics.Metrics
	BaseURL       string
	SecureCookie  bool
	Logger        *slog.Logger
}

// Handler serves the web pages.
type Handler struct {
	lists         *lists.Service
	users         UserLookup
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
	metrics       *metrics.Metrics
	baseURL       string
	secureCookie  bool
	logger        *slog.Logger
	templates     map[string]*template.Template
}

// New creates a Handler and parses the embedded templates.
func New(cfg Config) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		lists:         cfg.Lists,
		users:         cfg.Users,
		authenticator: cfg.Authenticator,
		jwt:           cfg.JWT,
		metrics:       cfg.Metrics,
		baseURL:       cfg.BaseURL,
		secureCookie:  cfg.SecureCookie,
		logger:        logger,
		templates:     templates,
	}, nil
}

// Register adds the page routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.home).Methods(http.MethodGet)
	r.HandleFunc("/lists/new", h.newList).Methods(http.MethodPost)
	r.HandleFunc("/lists/users/{email}/", h.myLists).Methods(http.MethodGet)
	r.HandleFunc("/lists/{id}/", h.viewList).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/lists/{id}/share", h.shareList).Methods(http.MethodPost)
	r.HandleFunc("/accounts/send_login_email", h.sendLoginEmail).Methods(http.MethodPost)
	r.HandleFunc("/accounts/login", h.login).Methods(http.MethodGet)
	r.HandleFunc("/accounts/logout", h.logout).Methods(http.MethodPost)
}

// newPage returns page data carrying the session user and any flash message.
func newPage(r *http.Request) *page {
	return &page{
		Email:   middleware.GetEmail(r.Context()),
		Message: r.URL.Query().Get("message"),
	}
}

func listURL(id string) string {
	return "/lists/" + id + "/"
}

// itemErrorMessage returns the message shown for an item validation error.
func itemErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyItem):
		return EmptyItemError
	case errors.Is(err, models.ErrDuplicateItem):
		return DuplicateItemError
	default:
		return err.Error()
	}
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	p := newPage(r)
	p.Form = &itemForm{Action: "/lists/new"}
	h.render(w, http.StatusOK, homePage, p)
}

func (h *Handler) newList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	text := r.PostFormValue("text")
	ownerID := middleware.GetUserID(ctx)

	listID, err := h.lists.CreateListWithFirstItem(ctx, text, ownerID)
	if errors.Is(err, models.ErrUnknownOwner) {
		h.logger.Warn("Session user no longer exists, creating list anonymously", "owner_id", ownerID)
		h.clearSession(w)
		ownerID = ""
		listID, err = h.lists.CreateListWithFirstItem(ctx, text, ownerID)
	}
	if models.IsValidation(err) {
		h.metrics.RecordItemError(err)
		p := newPage(r)
		p.Form = &itemForm{Action: "/lists/new", Text: text, Error: itemErrorMessage(err)}
		h.render(w, http.StatusOK, homePage, p)
		return
	}
	if err != nil {
		h.logger.Error("Failed to create list", "owner_id", ownerID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.ListsCreated.Inc()
	h.logger.Info("List created", "list_id", listID, "owner_id", ownerID)
	http.Redirect(w, r, listURL(listID), http.StatusFound)
}

func (h *Handler) viewList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := mux.Vars(r)["id"]
	form := &itemForm{Action: listURL(listID)}

	if r.Method == http.MethodPost {
		text := r.PostFormValue("text")
		_, err := h.lists.CreateItem(ctx, text, listID)
		switch {
		case err == nil:
			h.metrics.ItemsAdded.Inc()
			http.Redirect(w, r, listURL(listID), http.StatusFound)
			return
		case models.IsValidation(err):
			h.metrics.RecordItemError(err)
			form.Text = text
			form.Error = itemErrorMessage(err)
		case errors.Is(err, models.ErrNotFound):
			h.notFound(w, r)
			return
		default:
			h.logger.Error("Failed to add item", "list_id", listID, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	h.renderList(w, r, http.StatusOK, listID, form, "")
}

func (h *Handler) shareList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := mux.Vars(r)["id"]
	sharee := r.PostFormValue("sharee")

	err := h.lists.ShareList(ctx, listID, sharee)
	switch {
	case err == nil:
		h.metrics.ListsShared.Inc()
		h.logger.Info("List shared", "list_id", listID, "sharee", sharee)
		http.Redirect(w, r, listURL(listID), http.StatusFound)
	case errors.Is(err, models.ErrUnknownUser):
		h.renderList(w, r, http.StatusOK, listID, &itemForm{Action: listURL(listID)}, UnknownUserError)
	case errors.Is(err, models.ErrNotFound):
		h.notFound(w, r)
	default:
		h.logger.Error("Failed to share list", "list_id", listID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// renderList shows the list page for listID with the given form state.
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, listID string, form *itemForm, shareError string) {
	ctx := r.Context()
	list, err := h.lists.GetList(ctx, listID)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load list", "list_id", listID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	view, err := h.listView(ctx, list)
	if err != nil {
		h.logger.Error("Failed to load list owner", "list_id", listID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := newPage(r)
	p.List = view
	p.Form = form
	p.ShareError = shareError
	if list.IsSharedWith(middleware.GetUserID(ctx)) {
		p.Message = SharedWithYouNote
	}
	h.render(w, status, listPage, p)
}

func (h *Handler) listView(ctx context.Context, list *models.List) (*listView, error) {
	view := &listView{
		ID:         list.ID,
		Items:      make([]string, len(list.Items)),
		SharedWith: make([]string, len(list.SharedWith)),
	}
	view.Name, _ = list.Name()
	for i, item := range list.Items {
		view.Items[i] = item.Text
	}
	for i, user := range list.SharedWith {
		view.SharedWith[i] = user.Email
	}
	if list.HasOwner() {
		owner, err := h.users.GetUserByID(ctx, list.OwnerID)
		if err != nil {
			return nil, err
		}
		view.Owner = owner.Email
	}
	return view, nil
}

func (h *Handler) myLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := mux.Vars(r)["email"]

	ul, err := h.lists.UserLists(ctx, email)
	if errors.Is(err, models.ErrUnknownUser) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load user lists", "email", email, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := newPage(r)
	p.Owner = ul.User.Email
	for _, list := range ul.Owned {
		name, _ := list.Name()
		p.Owned = append(p.Owned, listView{ID: list.ID, Name: name})
	}
	for _, list := range ul.Shared {
		name, _ := list.Name()
		p.Shared = append(p.Shared, listView{ID: list.ID, Name: name})
	}
	h.render(w, http.StatusOK, myListsPage, p)
}

func (h *Handler) sendLoginEmail(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	message := CheckEmailMessage
	if err := h.authenticator.SendLoginEmail(r.Context(), email, h.baseURL); err != nil {
		if !errors.Is(err, auth.ErrInvalidEmail) {
			h.logger.Error("Failed to send login email", "email", email, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.logger.Warn("Rejected login email", "email", email, "error", err)
		message = err.Error()
	} else {
		h.metrics.LoginEmailsSent.Inc()
	}

	http.Redirect(w, r, "/?"+url.Values{"message": {message}}.Encode(), http.StatusFound)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticator.Authenticate(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warn("Login failed", "error", err)
		http.Redirect(w, r, "/?"+url.Values{"message": {InvalidLinkMessage}}.Encode(), http.StatusFound)
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		h.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwt.Duration().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// clearSession expires the session cookie.
func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	p := newPage(r)
	p.Error = "That list does not exist."
	if _, ok := mux.Vars(r)["email"]; ok {
		p.Error = UnknownUserError
	}
	h.render(w, http.StatusNotFound, notFoundPage, p)
}
