package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/auth"
	"github.com/gridops/gridassess/internal/export"
	"github.com/gridops/gridassess/internal/ingest"
	"github.com/gridops/gridassess/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	_ = encoder.Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httpError(w, http.StatusUnauthorized, err.Error())
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.auth.CookieName(),
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"username": session.Username,
		"name":     session.Name,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(s.sessionToken(r))

	http.SetCookie(w, &http.Cookie{
		Name:     s.auth.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleLeaders(w http.ResponseWriter, _ *http.Request) {
	leaders, err := s.store.Leaders()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if leaders == nil {
		leaders = []store.Leader{}
	}
	writeJSON(w, http.StatusOK, leaders)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleLeaderAssessments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid leader id")
		return
	}

	if _, err := s.store.LeaderByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "leader not found")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	assessments, err := s.store.AssessmentsByLeader(id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if assessments == nil {
		assessments = []store.Assessment{}
	}
	writeJSON(w, http.StatusOK, assessments)
}

type reportResponse struct {
	Leader store.Leader        `json:"leader"`
	Date   string              `json:"date"`
	Scores assess.Scores       `json:"scores"`
	Total  float64             `json:"total_score"`
	Grade  string              `json:"grade"`
	Rank   int                 `json:"rank,omitempty"`
	Advice []assess.Suggestion `json:"advice"`
}

func (s *Server) handleLeaderReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid leader id")
		return
	}

	leader, err := s.store.LeaderByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "leader not found")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	assessments, err := s.store.AssessmentsByLeader(id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(assessments) == 0 {
		httpError(w, http.StatusNotFound, "leader has no assessments")
		return
	}

	// Rows come newest first; an unmatched or absent date falls back to
	// the latest assessment.
	selected := assessments[0]
	if wanted := r.URL.Query().Get("date"); wanted != "" {
		for _, a := range assessments {
			if a.Date == wanted {
				selected = a
				break
			}
		}
	}

	resp := reportResponse{
		Leader: leader,
		Date:   selected.Date,
		Scores: selected.Scores,
		Total:  selected.TotalScore,
		Grade:  assess.GradeFor(selected.TotalScore),
		Advice: assess.Advice(selected.Scores),
	}
	if st, ok := s.board.Get(id); ok {
		resp.Rank = st.Rank
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRanking(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := s.board.Snapshot()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	var req struct {
		Scores assess.Scores `json:"scores"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for code, score := range req.Scores {
		if _, ok := assess.ByCode(code); !ok {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("unknown dimension %q", code))
			return
		}
		if !assess.Valid(score) {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("dimension %s: score %v out of range 0..100", code, score))
			return
		}
	}

	if err := s.store.UpdateScores(id, req.Scores); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "assessment not found")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.refreshBoard(); err != nil {
		s.logger.Warnw("standings refresh failed", "error", err)
	}

	total := assess.Total(assess.FillMissing(req.Scores))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_score": total,
		"grade":       assess.GradeFor(total),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	table, err := ingest.ReadFile(header.Filename, file)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	mapping := ingest.AutoMapping(table.Header)
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			httpError(w, http.StatusBadRequest, "invalid mapping: "+err.Error())
			return
		}
	}

	res, err := s.importer.Import(table, mapping)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.refreshBoard(); err != nil {
		s.logger.Warnw("standings refresh failed", "error", err)
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var leaderID int64
	if raw := r.URL.Query().Get("leader_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid leader_id")
			return
		}
		leaderID = id
	}

	rows, err := s.store.Joined(leaderID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="assessment_data.csv"`)
		if err := export.CSV(w, rows); err != nil {
			s.logger.Errorw("csv export failed", "error", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="assessment_data.xlsx"`)
		if err := export.XLSX(w, rows); err != nil {
			s.logger.Errorw("xlsx export failed", "error", err)
		}
	default:
		httpError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.RetentionDays
	var req struct {
		Days *int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Days != nil {
		days = *req.Days
	}
	if days < 1 {
		httpError(w, http.StatusBadRequest, "days must be at least 1")
		return
	}

	deleted, err := s.store.DeleteExpired(days, time.Now())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.refreshBoard(); err != nil {
		s.logger.Warnw("standings refresh failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
		"days":    days,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.ClearAll(); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.refreshBoard(); err != nil {
		s.logger.Warnw("standings refresh failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleBackup(w http.ResponseWriter, _ *http.Request) {
	path, err := s.store.Backup(s.cfg.BackupDir, time.Now())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
