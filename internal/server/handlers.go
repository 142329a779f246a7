// internal/server/handlers.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bydupdates/internal/calculator"
	"bydupdates/internal/pages"
	"bydupdates/internal/seo"
)

type (
	listFunc   func(ctx context.Context, page int) (pages.PageData, error)
	detailFunc func(ctx context.Context, slug string) (pages.PageData, error)
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data, err := s.asm.Home(r.Context())
	s.render(w, r, data, err)
}

func (s *Server) list(fn listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(r.Context(), seo.ParsePage(r.URL.Query().Get("page")))
		s.render(w, r, data, err)
	}
}

func (s *Server) detail(fn detailFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(r.Context(), chi.URLParam(r, "slug"))
		s.render(w, r, data, err)
	}
}

func (s *Server) handleCountryModels(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	s.list(func(ctx context.Context, page int) (pages.PageData, error) {
		return s.asm.CountryModels(ctx, country, page)
	})(w, r)
}

func (s *Server) handleCountryModel(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	s.detail(func(ctx context.Context, slug string) (pages.PageData, error) {
		return s.asm.CountryModel(ctx, country, slug)
	})(w, r)
}

func (s *Server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.asm.Calculator(r.URL.Query()), nil)
}

func (s *Server) handleLifespan(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.asm.Lifespan(r.URL.Query()), nil)
}

type calculatorResponse struct {
	Session calculator.Session `json:"session"`
	Result  calculator.Result  `json:"result"`
}

func (s *Server) handleCalculatorAPI(w http.ResponseWriter, r *http.Request) {
	session, result := s.asm.Calculate(r.URL.Query())
	writeJSON(w, http.StatusOK, calculatorResponse{Session: session, Result: result})
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.asm.Sitemap(r.Context())
	if err != nil {
		s.log.WithError(err).Error("sitemap failed")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.asm.Robots()))
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	data, err := s.asm.Legal(chi.URLParam(r, "page"))
	s.render(w, r, data, err)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.asm.NotFound(r.URL.Path), nil)
}

// render writes data as HTML. A missing entity becomes the 404 page and any
// other error the 502 page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, data pages.PageData, err error) {
	switch {
	case errors.Is(err, pages.ErrNotFound):
		data = s.asm.NotFound(r.URL.Path)
	case err != nil:
		entry(r, s.log).WithError(err).Error("content backend failed")
		data = s.asm.ErrorPage(r.URL.Path, http.StatusBadGateway)
	}

	var buf bytes.Buffer
	if err := s.currentRenderer().Render(&buf, data); err != nil {
		entry(r, s.log).WithError(err).Error("template execution failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(data.Status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
