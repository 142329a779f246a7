// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bydupdates/internal/builder"
	"bydupdates/internal/config"
	"bydupdates/internal/pages"
	"bydupdates/internal/theme"
)

// Options configures the site server.
type Options struct {
	Site   config.SiteConfig
	Source pages.Source
	// Dev reads templates, static files and pages from the directories in
	// Site.Server when set, watches them and live-reloads connected browsers.
	Dev    bool
	Logger logrus.FieldLogger
	Now    func() time.Time
}

// Server renders pages on request from the content source.
type Server struct {
	site config.SiteConfig
	asm  *pages.Assembler
	log  logrus.FieldLogger
	dev  bool
	hub  *Hub

	templates fs.FS
	static    fs.FS

	mu       sync.RWMutex
	renderer *builder.Renderer

	// watchDirs are the theme directories read from disk in dev mode.
	watchDirs []string
}

// New loads the templates and returns a Server ready to serve.
func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: no content source")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		site:      opts.Site,
		log:       log.WithField("component", "server"),
		dev:       opts.Dev,
		templates: theme.Templates(),
		static:    theme.Static(),
	}
	pagesFS := theme.Pages()

	if opts.Dev {
		dirs := opts.Site.Server
		s.templates = s.devFS(dirs.TemplateDir, s.templates)
		s.static = s.devFS(dirs.StaticDir, s.static)
		pagesFS = s.devFS(dirs.PagesDir, pagesFS)
		s.hub = newHub(s.log)
	}

	s.asm = pages.NewAssembler(pages.Options{
		Source: opts.Source,
		Config: opts.Site,
		Pages:  pagesFS,
		Logger: log,
		Now:    opts.Now,
	})
	if err := s.ReloadTemplates(); err != nil {
		return nil, err
	}
	return s, nil
}

// devFS returns the directory as a filesystem when it exists, else fallback.
func (s *Server) devFS(dir string, fallback fs.FS) fs.FS {
	if dir == "" {
		return fallback
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.log.WithField("dir", dir).Warn("directory not found, using the embedded theme")
		return fallback
	}
	s.watchDirs = append(s.watchDirs, dir)
	return os.DirFS(dir)
}

// ReloadTemplates parses the templates again. On error the previous set
// stays in use.
func (s *Server) ReloadTemplates() error {
	r, err := builder.LoadTemplates(s.templates)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	s.mu.Lock()
	s.renderer = r
	s.mu.Unlock()
	return nil
}

func (s *Server) currentRenderer() *builder.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

// Handler returns the router with every site route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/blogs", s.list(s.asm.Blogs))
	r.Get("/blogs/{slug}", s.detail(s.asm.Blog))
	r.Get("/models", s.list(s.asm.Models))
	r.Get("/models/{slug}", s.detail(s.asm.Model))
	r.Get("/comparisons", s.list(s.asm.Comparisons))
	r.Get("/comparisons/{slug}", s.detail(s.asm.Comparison))
	r.Get("/{country}/models", s.handleCountryModels)
	r.Get("/{country}/models/{slug}", s.handleCountryModel)
	r.Get(pages.CalculatorPath, s.handleCalculator)
	r.Get(pages.LifespanPath, s.handleLifespan)
	r.Get("/api/calculator", s.handleCalculatorAPI)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/robots.txt", s.handleRobots)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.Get("/{page}", s.handleLegal)
	r.NotFound(s.handleNotFound)

	if !s.dev {
		return r
	}
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.hub, w, r)
	})
	return liveReloadWrapper(r)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully. In dev mode the theme directories are watched as well.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.site.Server.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.dev && len(s.watchDirs) > 0 {
		watcher, err := s.watch()
		if err != nil {
			return err
		}
		defer watcher.Close()
		g.Go(func() error {
			s.watchForChanges(gctx, watcher)
			return nil
		})
	}
	g.Go(func() error {
		s.log.WithField("addr", srv.Addr).Info("serving site")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.hub != nil {
			s.hub.closeAll()
		}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	// Track watched directories to avoid duplicates.
	watchedDirs := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watchedDirs[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			s.log.WithError(err).WithField("dir", dir).Error("failed to watch directory")
			return
		}
		s.log.WithField("dir", dir).Info("watching directory")
		watchedDirs[dir] = true
	}

	for _, root := range s.watchDirs {
		// Editors that save through a swap file replace the file, so every
		// subdirectory is watched rather than single files.
		if err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				addWatch(p)
			}
			return nil
		}); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", root, err)
		}
	}
	return watcher, nil
}

func (s *Server) watchForChanges(ctx context.Context, watcher *fsnotify.Watcher) {
	var lastReload time.Time
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			if time.Since(lastReload) <= debounceDuration {
				continue
			}
			time.Sleep(100 * time.Millisecond)

			log := s.log.WithField("file", event.Name)
			log.Info("change detected, reloading templates")
			if err := s.ReloadTemplates(); err != nil {
				log.WithError(err).Error("template reload failed")
			} else {
				s.hub.broadcastMessage([]byte("reload"))
			}
			lastReload = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("watcher error")
		}
	}
}
