package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bookstore/bookstore-api/internal/books"
	"github.com/bookstore/bookstore-api/internal/books/service"
	"github.com/bookstore/bookstore-api/internal/models"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/bookstore/bookstore-api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

const (
	maxCoverBytes = 5 << 20
	coverURLTTL   = 15 * time.Minute
)

// CoverStore keeps cover images out of the database. nil disables the cover routes.
type CoverStore interface {
	PutCover(ctx context.Context, bookID string, r io.Reader, size int64, contentType string) (string, error)
	CoverURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type bookHandler struct {
	svc    service.Service
	covers CoverStore
}

// RegisterBookRoutes mounts /books. Reads need any valid user, writes need admin.
func RegisterBookRoutes(r gin.IRouter, svc service.Service, covers CoverStore, requireUser gin.HandlerFunc) {
	h := &bookHandler{svc: svc, covers: covers}
	admin := middleware.RequireRole(models.RoleAdmin)

	g := r.Group("/books", requireUser)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", admin, h.create)
	g.PUT("/:id", admin, h.update)
	g.DELETE("/:id", admin, h.delete)
	g.PUT("/:id/cover", admin, h.putCover)
	g.GET("/:id/cover", h.getCover)
}

func (h *bookHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	logger.FromContext(c.Request.Context()).Error("books handler", "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *bookHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *bookHandler) get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *bookHandler) create(c *gin.Context) {
	var in books.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *bookHandler) update(c *gin.Context) {
	var in books.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *bookHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Book deleted successfully"})
}

func (h *bookHandler) putCover(c *gin.Context) {
	if h.covers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cover storage not configured"})
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.svc.Get(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if fh.Size > maxCoverBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "cover too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	key, err := h.covers.PutCover(ctx, id, f, fh.Size, ct)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.SetCover(ctx, id, key); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "cover_key": key})
}

func (h *bookHandler) getCover(c *gin.Context) {
	if h.covers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cover storage not configured"})
		return
	}
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if b.CoverKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book has no cover"})
		return
	}
	u, err := h.covers.CoverURL(c.Request.Context(), b.CoverKey, coverURLTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}
