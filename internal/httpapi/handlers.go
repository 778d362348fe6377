package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/apperr"
	"github.com/wdp365/siteapi/internal/domain"
	apimw "github.com/wdp365/siteapi/internal/httpapi/middleware"
	"github.com/wdp365/siteapi/internal/pagespeed"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}

type statusPayload struct {
	ClientName string `json:"client_name"`
}

func (s *Server) handleCreateStatus(w http.ResponseWriter, r *http.Request) {
	var p statusPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p); err != nil {
		s.writeError(w, r, "status_bad_payload", apperr.Invalid("invalid JSON body"), nil)
		return
	}
	name := strings.TrimSpace(p.ClientName)
	if name == "" {
		s.writeError(w, r, "status_bad_payload", apperr.Invalid("client_name is required"), nil)
		return
	}

	sc := domain.NewStatusCheck(name)
	if err := s.Statuses.InsertStatus(r.Context(), sc); err != nil {
		s.writeError(w, r, "status_insert_error", asStorage(err, "could not save status check"), nil)
		return
	}
	s.Logger.Info("status_created", zap.String("id", sc.ID), zap.String("client_name", sc.ClientName))
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleListStatus(w http.ResponseWriter, r *http.Request) {
	list, err := s.Statuses.ListStatus(r.Context())
	if err != nil {
		s.writeError(w, r, "status_list_error", asStorage(err, "could not list status checks"), nil)
		return
	}
	if list == nil {
		list = []domain.StatusCheck{}
	}
	writeJSON(w, http.StatusOK, list)
}

var contactFailure = map[string]any{"success": false}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	ip := apimw.ClientIP(r)
	var form domain.ContactForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&form); err != nil {
		if lerr := s.Contacts.Admit(r.Context(), ip); lerr != nil {
			s.writeError(w, r, "contact_error", lerr, contactFailure)
			return
		}
		s.writeError(w, r, "contact_bad_payload", apperr.Invalid("Invalid request body."), contactFailure)
		return
	}

	res, err := s.Contacts.Submit(r.Context(), form, ip)
	if err != nil {
		s.writeError(w, r, "contact_error", err, contactFailure)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Contacts.List(r.Context())
	if err != nil {
		s.writeError(w, r, "contact_list_error", asStorage(err, "could not list submissions"), nil)
		return
	}
	if list == nil {
		list = []domain.ContactSubmission{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePageSpeedPost(w http.ResponseWriter, r *http.Request) {
	var req pagespeed.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, "pagespeed_bad_payload", apperr.Invalid("invalid JSON body"), nil)
		return
	}
	s.servePageSpeed(w, r, req)
}

func (s *Server) handlePageSpeedGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.servePageSpeed(w, r, pagespeed.Request{
		URL:        q.Get("url"),
		Strategy:   q.Get("strategy"),
		Categories: q["category"],
	})
}

func (s *Server) servePageSpeed(w http.ResponseWriter, r *http.Request, req pagespeed.Request) {
	rep, err := s.PageSpeed.FetchReport(r.Context(), req)
	if err != nil {
		event := "pagespeed_upstream_error"
		if k := apperr.KindOf(err); k == apperr.InvalidInput || k == apperr.Configuration {
			event = "pagespeed_rejected"
		}
		s.writeError(w, r, event, err, nil)
		return
	}
	s.Logger.Info("pagespeed_report",
		zap.String("url", rep.URL),
		zap.String("strategy", rep.Strategy),
		zap.Int("categories", len(rep.Scores)),
	)
	writeJSON(w, http.StatusOK, rep)
}

// asStorage classifies a bare store error so its driver text stays out of
// the response.
func asStorage(err error, msg string) error {
	if apperr.KindOf(err) == apperr.Unknown {
		return apperr.StorageFailure(msg, err)
	}
	return err
}
