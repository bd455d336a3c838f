package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"acadcollab.org/internal/audit"
	"acadcollab.org/internal/auth"
	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/obs"
)

type createProjectRequest struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
	Status           string `json:"status"`
}

// createDocumentRequest accepts a "type" field because upload clients send
// the MIME type alongside the metadata; the decoder rejects unknown fields,
// so it is declared here even though only name/size/date are stored.
type createDocumentRequest struct {
	ProjectID int64     `json:"projectId"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
}

type createMessageRequest struct {
	ProjectID int64  `json:"projectId"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
}

func (a *API) handleProjectsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := a.collab.ListProjects(r.Context())
		if err != nil {
			obs.LogError("list projects failed", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, projects)
	case http.MethodPost:
		var req createProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		project, err := a.collab.CreateProject(r.Context(), req.Title, req.ShortDescription, req.Description, req.Status)
		if err != nil {
			writeCollabError(w, r, "create project failed", err)
			return
		}
		audit.LogEvent(r.Context(), "project.create", map[string]any{
			"project_id": strconv.FormatInt(project.ID, 10),
		})
		writeJSON(w, http.StatusCreated, project)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProjectResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/projects/")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid project id")
		return
	}
	switch r.Method {
	case http.MethodGet:
		project, err := a.collab.GetProject(r.Context(), id)
		if err != nil {
			writeCollabError(w, r, "get project failed", err)
			return
		}
		writeJSON(w, http.StatusOK, project)
	case http.MethodDelete:
		if err := a.collab.DeleteProject(r.Context(), id); err != nil {
			writeCollabError(w, r, "delete project failed", err)
			return
		}
		audit.LogEvent(r.Context(), "project.delete", map[string]any{
			"project_id": strconv.FormatInt(id, 10),
		})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID, err := queryProjectID(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid projectId")
			return
		}
		docs, err := a.collab.ListDocuments(r.Context(), projectID)
		if err != nil {
			obs.LogError("list documents failed", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, docs)
	case http.MethodPost:
		var req createDocumentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		doc, err := a.collab.AddDocument(r.Context(), req.ProjectID, req.Name, req.Size, req.Date)
		if err != nil {
			writeCollabError(w, r, "add document failed", err)
			return
		}
		audit.LogEvent(r.Context(), "document.create", map[string]any{
			"project_id":  strconv.FormatInt(doc.ProjectID, 10),
			"document_id": strconv.FormatInt(doc.ID, 10),
		})
		writeJSON(w, http.StatusCreated, doc)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID, err := queryProjectID(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid projectId")
			return
		}
		messages, err := a.collab.ListMessages(r.Context(), projectID)
		if err != nil {
			obs.LogError("list messages failed", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, messages)
	case http.MethodPost:
		var req createMessageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if req.Sender == "" {
			if claims, ok := auth.IdentityFromContext(r.Context()); ok {
				req.Sender = claims.Name
			}
		}
		msg, err := a.collab.PostMessage(r.Context(), req.ProjectID, req.Sender, req.Text)
		if err != nil {
			writeCollabError(w, r, "post message failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func writeCollabError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, collab.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, collab.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	default:
		obs.LogError(logMsg, err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// queryProjectID reads the optional projectId filter; 0 means no filter.
func queryProjectID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("projectId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid projectId")
	}
	return id, nil
}
