package httpapi

import (
	"net/http"
	"strings"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type skillsResource struct {
	resource[models.Skill, models.SkillInput, models.SkillPatch]
	skills storage.SkillStore
}

// List narrows to one category when ?categoryId= is given.
func (res skillsResource) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("categoryId"))
	if raw == "" {
		res.resource.List(w, r)
		return
	}
	categoryID, err := parseID(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid categoryId")
		return
	}
	items, err := res.skills.ListByCategory(r.Context(), categoryID)
	if err != nil {
		res.fail(w, r, err, "fetch skills")
		return
	}
	WriteJSON(w, http.StatusOK, items)
}
