package http

import (
	"github.com/gin-gonic/gin"

	applog "temple/internal/log"
	"temple/internal/report"
)

// handleDashboard reports the figures for a preset (today by default) or a
// from/to span. When they cannot be computed the unavailable stats are
// still returned alongside the error.
func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var params RangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err)
		return
	}
	rng, err := params.Resolve(s.today(), s.loc, report.Today)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := s.deps.Dashboard.Stats(ctx, rng)
	if err != nil {
		_ = c.Error(err)
		ErrorResult(err).With("stats", stats).Write(c)
		return
	}
	NewResult().With("stats", stats).Write(c)
}

// handleGenerateBackup writes the backup report for the requested span,
// today when none is given.
func (s *Server) handleGenerateBackup(c *gin.Context) {
	ctx := c.Request.Context()
	var params RangeParams
	if c.Request.ContentLength != 0 {
		if err := bindBody(c, &params); err != nil {
			respondError(c, err)
			return
		}
	} else if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err)
		return
	}
	rng, err := params.Resolve(s.today(), s.loc, report.Today)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := s.deps.Backups.Generate(ctx, rng)
	if err != nil {
		respondError(c, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Backup generated",
		applog.FieldFile, res.Path,
		applog.FieldFrom, rng.From.String(),
		applog.FieldTo, rng.To.String())

	b := NewResult().
		With("path", res.Path).
		With("summary", res.Summary).
		With("range", rng)
	if res.SheetPath != "" {
		b.With("sheet_path", res.SheetPath)
	}
	b.Write(c)
}
