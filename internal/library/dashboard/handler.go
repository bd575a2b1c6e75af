package dashboard

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/clock"
)

type Handler struct {
	svc   *Service
	clock clock.Clock
	log   *zap.Logger
}

func RegisterRoutes(r gin.IRoutes, svc *Service, clk clock.Clock, log *zap.Logger) {
	h := &Handler{svc: svc, clock: clk, log: log}
	r.GET("/dashboard", h.Summary)
	r.GET("/dashboard/overdue.csv", h.OverdueCSV)
}

// Summary godoc
// @Summary  Library statistics for staff
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} Summary
// @Security Bearer
// @Router   /dashboard [get]
func (h *Handler) Summary(c *gin.Context) {
	res, err := h.svc.Summary(c.Request.Context(), h.clock.Now())
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) OverdueCSV(c *gin.Context) {
	enc, err := ParseEncoding(c.Query("encoding"))
	if err != nil {
		apierr.BadRequest(c, err.Error())
		return
	}
	now := h.clock.Now()
	var buf bytes.Buffer
	if err := h.svc.WriteOverdueCSV(c.Request.Context(), &buf, now, enc); err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	charset := "utf-8"
	if enc == EncodingShiftJIS {
		charset = "shift_jis"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="overdue-%s.csv"`, now.Format("20060102")))
	c.Data(http.StatusOK, "text/csv; charset="+charset, buf.Bytes())
}
