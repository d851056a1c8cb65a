package http

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/printing"
)

// HeaderPrintError carries the print consumer's failure when a reprint
// rendered but could not be queued for printing.
const HeaderPrintError = "X-Print-Error"

func (s *Server) handleListReceipts(c *gin.Context) {
	f, err := ParseReceiptFilter(c, s.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	receipts, err := s.deps.Receipts.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	if receipts == nil {
		receipts = []core.Receipt{}
	}
	NewResult().With("receipts", receipts).With("count", len(receipts)).Write(c)
}

func (s *Server) handleCreateReceipt(c *gin.Context) {
	var in core.NewReceipt
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, core.Invalid("body", err.Error()))
		return
	}
	id, err := s.deps.Receipts.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResult().Status(http.StatusCreated).With("id", id).Write(c)
}

func (s *Server) handleDeleteReceipt(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ok, err := s.deps.Receipts.Delete(c.Request.Context(), id)
	writeChanged(c, ok, err, "receipt")
}

// handleReprintReceipt returns the receipt PDF after handing it to the
// printer. A printer failure still returns the document.
func (s *Server) handleReprintReceipt(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := s.deps.Receipts.Reprint(ctx, id)
	if err != nil && len(doc) == 0 {
		respondError(c, err)
		return
	}
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Reprint rendered but not printed",
			applog.FieldReceiptID, id, applog.FieldError, err)
		_ = c.Error(err)
		c.Header(HeaderPrintError, err.Error())
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt_%d.pdf"`, id))
	c.Data(http.StatusOK, printing.ContentTypePDF, doc)
}

func (s *Server) handleExportReceipt(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := s.deps.Receipts.Export(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResult().With("path", path).With("file", filepath.Base(path)).Write(c)
}

func (s *Server) handlePrintMarkup(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	html, err := s.deps.Receipts.Markup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
