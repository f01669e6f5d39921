package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

type TaskHandler struct {
	*Controller[domain.Task, domain.TaskPatch]

	TaskService *service.TaskService
}

// HandleByProject pages through a project's tasks with assignees populated.
//
//	@Summary		Tasks of a project
//	@Description	The asignee field is replaced by {_id, name} of the referenced user.
//	@Tags			Tasks
//	@Produce		json
//	@Param			projectId	path		string	true	"Project id"
//	@Param			page		query		int		false	"0-based page"
//	@Param			size		query		int		false	"Page size"
//	@Param			sort		query		string	false	"field or -field"
//	@Param			q			query		string	false	"Name contains"
//	@Success		200			{object}	domain.Page[domain.PopulatedTask]
//	@Security		BearerAuth
//	@Router			/task/by_project/{projectId} [get]
func (h *TaskHandler) HandleByProject(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.TaskService.FindByProject(r.Context(), r.PathValue("projectId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

// HandleByAsignee pages through the tasks assigned to a user.
//
//	@Summary		Tasks of an assignee
//	@Tags			Tasks
//	@Produce		json
//	@Param			userId	path		string	true	"User id"
//	@Param			page	query		int		false	"0-based page"
//	@Param			size	query		int		false	"Page size"
//	@Param			sort	query		string	false	"field or -field"
//	@Param			q		query		string	false	"Name contains"
//	@Success		200		{object}	domain.Page[domain.Task]
//	@Security		BearerAuth
//	@Router			/task/by_asignee/{userId} [get]
func (h *TaskHandler) HandleByAsignee(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.TaskService.FindByAsignee(r.Context(), r.PathValue("userId"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

// HandleProjectPaginate pages through a project's tasks as stored.
//
//	@Summary		Tasks in project
//	@Tags			Tasks
//	@Produce		json
//	@Param			projectId	path		string	true	"Project id"
//	@Param			page		query		int		false	"0-based page"
//	@Param			size		query		int		false	"Page size"
//	@Param			sort		query		string	false	"field or -field"
//	@Param			q			query		string	false	"Name contains"
//	@Success		200			{object}	domain.Page[domain.Task]
//	@Security		BearerAuth
//	@Router			/task/{projectId} [get]
func (h *TaskHandler) HandleProjectPaginate(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.TaskService.Paginate(r.Context(), q.With("project", r.PathValue("projectId")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

// HandleProjectCreate creates a task in the path project.
//
//	@Summary		Create task
//	@Description	The project in the path wins over any project in the body. Members only.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path		string				true	"Project id"
//	@Param			body		body		domain.TaskPatch	true	"Task"
//	@Success		201			{object}	domain.Task
//	@Failure		400			{object}	httpx.Error
//	@Failure		403			{object}	httpx.Error	"Not a member"
//	@Failure		404			{object}	httpx.Error	"Unknown project"
//	@Security		BearerAuth
//	@Router			/task/{projectId} [post]
func (h *TaskHandler) HandleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var p domain.TaskPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.TaskService.CreateInProject(r.Context(), r.PathValue("projectId"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// HandleProjectFindByID returns a task of the path project.
//
//	@Summary		Task by id
//	@Tags			Tasks
//	@Produce		json
//	@Param			projectId	path		string	true	"Project id"
//	@Param			id			path		string	true	"Task id"
//	@Success		200			{object}	domain.Task
//	@Failure		404			{object}	httpx.Error
//	@Security		BearerAuth
//	@Router			/task/{projectId}/{id} [get]
func (h *TaskHandler) HandleProjectFindByID(w http.ResponseWriter, r *http.Request) {
	t, err := h.TaskService.FindInProject(r.Context(), r.PathValue("projectId"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleProjectUpdate patches a task of the path project.
//
//	@Summary		Update task
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path		string				true	"Project id"
//	@Param			id			path		string				true	"Task id"
//	@Param			body		body		domain.TaskPatch	true	"Fields to change"
//	@Success		200			{object}	domain.Task
//	@Failure		403			{object}	httpx.Error	"Not a member"
//	@Failure		404			{object}	httpx.Error
//	@Security		BearerAuth
//	@Router			/task/{projectId}/{id} [put]
func (h *TaskHandler) HandleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var p domain.TaskPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.TaskService.UpdateInProject(r.Context(), r.PathValue("projectId"), r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleProjectRemove deletes a task of the path project.
//
//	@Summary		Delete task
//	@Tags			Tasks
//	@Produce		json
//	@Param			projectId	path		string	true	"Project id"
//	@Param			id			path		string	true	"Task id"
//	@Success		200			{object}	domain.Task
//	@Failure		403			{object}	httpx.Error	"Not a member"
//	@Failure		404			{object}	httpx.Error
//	@Security		BearerAuth
//	@Router			/task/{projectId}/{id} [delete]
func (h *TaskHandler) HandleProjectRemove(w http.ResponseWriter, r *http.Request) {
	t, err := h.TaskService.RemoveInProject(r.Context(), r.PathValue("projectId"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}
