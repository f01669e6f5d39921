package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

type ProjectHandler struct {
	*Controller[domain.Project, domain.ProjectPatch]

	ProjectService *service.ProjectService
}

// HandleCreate creates a project owned by the caller.
//
//	@Summary		Create project
//	@Description	The caller becomes the first member of the new project.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			body	body		domain.ProjectPatch	true	"Project"
//	@Success		201		{object}	domain.Project
//	@Failure		400		{object}	httpx.Error
//	@Security		BearerAuth
//	@Router			/project [post]
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := httpx.UserID(ctx)

	var p domain.ProjectPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	proj, err := h.ProjectService.CreateOwned(ctx, userID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, proj)
}

// HandleByCompany pages through a company's projects.
//
//	@Summary		Projects of a company
//	@Tags			Projects
//	@Produce		json
//	@Param			companyId	path		string	true	"Company id"
//	@Param			page		query		int		false	"0-based page"
//	@Param			size		query		int		false	"Page size"
//	@Param			sort		query		string	false	"field or -field"
//	@Param			q			query		string	false	"Name contains"
//	@Success		200			{object}	domain.Page[domain.Project]
//	@Security		BearerAuth
//	@Router			/project/company/{companyId} [get]
func (h *ProjectHandler) HandleByCompany(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.ProjectService.FindByCompany(r.Context(), r.PathValue("companyId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

// HandleAddMember adds a user to the project.
//
//	@Summary		Add member
//	@Tags			Projects
//	@Produce		json
//	@Param			id		path		string	true	"Project id"
//	@Param			userId	path		string	true	"User id"
//	@Success		200		{object}	domain.Project
//	@Failure		403		{object}	httpx.Error	"Neither admin nor member"
//	@Failure		404		{object}	httpx.Error	"Unknown project or user"
//	@Security		BearerAuth
//	@Router			/project/{id}/user/{userId} [put]
func (h *ProjectHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	proj, err := h.ProjectService.AddMember(r.Context(), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, proj)
}

// HandleRemoveMember drops a user from the project.
//
//	@Summary		Remove member
//	@Tags			Projects
//	@Produce		json
//	@Param			id		path		string	true	"Project id"
//	@Param			userId	path		string	true	"User id"
//	@Success		200		{object}	domain.Project
//	@Failure		403		{object}	httpx.Error	"Neither admin nor member"
//	@Failure		404		{object}	httpx.Error	"Unknown project"
//	@Security		BearerAuth
//	@Router			/project/{id}/user/{userId} [delete]
func (h *ProjectHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	proj, err := h.ProjectService.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, proj)
}
