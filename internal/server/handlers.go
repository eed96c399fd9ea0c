package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkoudela/shoplens/internal/filter"
	"github.com/mkoudela/shoplens/internal/metrics"
	"github.com/mkoudela/shoplens/internal/plan"
	"github.com/mkoudela/shoplens/internal/rfm"
)

const dateLayout = "2006-01-02"

// parseSelection builds a filter selection from query parameters. Absent
// categorical parameters stay open; absent dates leave the range unbounded.
func parseSelection(c *gin.Context) (filter.Selection, error) {
	sel := filter.NewSelection()

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return sel, fmt.Errorf("invalid start_date %q: want YYYY-MM-DD", v)
		}
		sel.StartDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return sel, fmt.Errorf("invalid end_date %q: want YYYY-MM-DD", v)
		}
		sel.EndDate = t
	}
	if v := c.Query("customer_type"); v != "" {
		sel.CustomerType = v
	}
	if v := c.Query("channel"); v != "" {
		sel.Channel = v
	}
	if v := c.Query("category"); v != "" {
		sel.Category = v
	}
	if v := c.Query("payment_method"); v != "" {
		sel.PaymentMethod = v
	}
	if v := c.Query("order_status"); v != "" {
		sel.OrderStatus = v
	}
	return sel, nil
}

func (s *Server) getKPIs(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := filter.Apply(s.ds, sel)
	c.JSON(http.StatusOK, metrics.ComputeKPIs(view))
}

func (s *Server) listReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": metrics.ReportNames()})
}

func (s *Server) getReport(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", v)})
			return
		}
	}

	name := c.Param("name")
	view := filter.Apply(s.ds, sel)
	groups, err := metrics.BuildReport(view, name, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":  name,
		"no_data": view.Empty(),
		"groups":  groups,
	})
}

func (s *Server) rfmScale(c *gin.Context) (rfm.Scale, error) {
	v := c.Query("scale")
	if v == "" {
		v = s.cfg.RFM.Scale
	}
	return rfm.ParseScale(v)
}

func (s *Server) getRFM(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scale, err := s.rfmScale(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := filter.Apply(s.ds, sel)
	scores := rfm.Segment(view.Orders, time.Time{}, scale)
	c.JSON(http.StatusOK, gin.H{
		"scale":   scale.String(),
		"no_data": view.Empty(),
		"scores":  scores,
	})
}

func (s *Server) getRFMSegments(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scale, err := s.rfmScale(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := filter.Apply(s.ds, sel)
	scores := rfm.Segment(view.Orders, time.Time{}, scale)
	c.JSON(http.StatusOK, gin.H{
		"scale":    scale.String(),
		"no_data":  view.Empty(),
		"segments": rfm.Distribution(scores, scale),
	})
}

func (s *Server) getPlanAchievement(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gran := c.Query("granularity")
	if gran == "" {
		gran = s.cfg.Plan.Granularity
	}
	g, err := plan.ParseGranularity(gran)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The reconciliation window is the selected date range, falling back to
	// the full span of the order table.
	start, end := sel.StartDate, sel.EndDate
	if start.IsZero() || end.IsZero() {
		lo, hi := s.ds.OrderDateRange()
		if start.IsZero() {
			start = lo
		}
		if end.IsZero() {
			end = hi
		}
	}

	view := filter.Apply(s.ds, sel)
	c.JSON(http.StatusOK, plan.Reconcile(s.ds.Plans, view.Orders, start, end, g))
}
