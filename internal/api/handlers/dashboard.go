// dashboard.go — сводка для главной страницы.
package handlers

import "net/http"

// dashboardResponse — агрегированные счётчики по всем доменам.
type dashboardResponse struct {
	TotalEmployees     int            `json:"totalEmployees"`
	ActiveEmployees    int            `json:"activeEmployees"`
	IncompleteProfiles int            `json:"incompleteProfiles"`
	TotalProjects      int            `json:"totalProjects"`
	ActiveProjects     int            `json:"activeProjects"`
	TasksByStatus      map[string]int `json:"tasksByStatus"`
	PendingGrants      int            `json:"pendingGrants"`
}

// GetDashboard — сводка счётчиков.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalEmployees:     summary.TotalEmployees,
		ActiveEmployees:    summary.ActiveEmployees,
		IncompleteProfiles: summary.IncompleteProfiles,
		TotalProjects:      summary.TotalProjects,
		ActiveProjects:     summary.ActiveProjects,
		TasksByStatus:      summary.TasksByStatus,
		PendingGrants:      summary.PendingGrants,
	})
}
