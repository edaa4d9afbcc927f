package viewer

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"structiv/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".woff": "font/woff",
	".ttf":  "font/ttf",
	".eot":  "font/eot",
	".otf":  "font/otf",
	".wasm": "application/wasm",
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".obj":  "text/plain",
	".fbx":  "application/octet-stream",
}

// ContentType maps a file name to the type the viewer pages expect.
func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Server serves the 3D viewer assets from a directory.
type Server struct {
	cfg    config.ViewerConfig
	engine *gin.Engine
	logger *zerolog.Logger
}

func New(cfg config.ViewerConfig, logger *zerolog.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}

	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("panic recovered")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	engine.NoRoute(s.serveFile)
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) serveFile(c *gin.Context) {
	s.logger.Debug().Str("path", c.Request.URL.Path).Msg("request")

	name := path.Clean("/" + c.Request.URL.Path)
	if name == "/" {
		name = "/" + s.cfg.Index
	}

	content, err := os.ReadFile(filepath.Join(s.cfg.Root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.notFound(c)
			return
		}
		s.logger.Warn().Err(err).Str("path", name).Msg("read failed")
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Server Error: "+reason(err)))
		return
	}

	c.Data(http.StatusOK, ContentType(name), content)
}

// notFound answers with the configured 404 page; a missing page leaves the body empty.
func (s *Server) notFound(c *gin.Context) {
	page, err := os.ReadFile(filepath.Join(s.cfg.Root, s.cfg.NotFound))
	if err != nil {
		s.logger.Warn().Err(err).Msg("404 page unavailable")
	}
	c.Data(http.StatusNotFound, "text/html", page)
}

func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
