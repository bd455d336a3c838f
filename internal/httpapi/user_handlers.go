package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"acadcollab.org/internal/audit"
	"acadcollab.org/internal/identity"
	"acadcollab.org/internal/obs"
)

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	users, err := a.identity.ListPublicUsers(r.Context())
	if err != nil {
		obs.LogError("list users failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	id, err := pathID(r.URL.Path, "/users/")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := a.identity.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, identity.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		obs.LogError("delete user failed", err, nil)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	audit.LogEvent(r.Context(), "user.delete", map[string]any{
		"user_id": strconv.FormatInt(id, 10),
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// pathID extracts the trailing numeric id from paths like /users/42.
func pathID(path, prefix string) (int64, error) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
