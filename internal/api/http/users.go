package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/aussiebroadwan/taskboard/pkg/taskboardsdk"
)

type UserHandler struct {
	*Controller[domain.User, domain.UserPatch]

	UserService *service.UserService
	AuthService *service.AuthService
}

// HandleAuthenticate issues a bearer token for valid credentials.
//
//	@Summary		Authenticate
//	@Description	Exchanges email and password for an HS256 access token. Also served at /user/login.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		taskboardsdk.Credentials	true	"Credentials"
//	@Success		200		{object}	taskboardsdk.TokenResponse
//	@Failure		400		{object}	httpx.Error	"Malformed body"
//	@Failure		401		{object}	httpx.Error	"Invalid credentials"
//	@Failure		429		{object}	httpx.Error	"Too many attempts"
//	@Router			/user/authenticate [post]
func (h *UserHandler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var creds taskboardsdk.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, r, err)
		return
	}

	token, _, err := h.AuthService.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, taskboardsdk.TokenResponse{Token: token})
}

// HandleMe returns the authenticated user.
//
//	@Summary		Current user
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	domain.User
//	@Failure		401	{object}	httpx.Error
//	@Failure		404	{object}	httpx.Error	"The account no longer exists"
//	@Security		BearerAuth
//	@Router			/user/me [get]
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserID(ctx)

	u, err := h.UserService.FindByID(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// HandleUpdateMe patches the authenticated user. Roles cannot be changed here.
//
//	@Summary		Update current user
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		domain.UserPatch	true	"Fields to change"
//	@Success		200		{object}	domain.User
//	@Failure		400		{object}	httpx.Error
//	@Failure		401		{object}	httpx.Error
//	@Failure		409		{object}	httpx.Error	"Email already taken"
//	@Security		BearerAuth
//	@Router			/user/me [put]
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID, _ := httpx.UserID(ctx)

	var p domain.UserPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if p.Roles != nil {
		log.Warn("ignoring role change through /user/me")
	}

	u, err := h.UserService.UpdateMe(ctx, userID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
