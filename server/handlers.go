package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/staykit/core"
)

// interactionRequest 是 POST /api/:domain/interactions 的请求体。
type interactionRequest struct {
	UserID    string            `json:"user_id"`
	ItemID    string            `json:"item_id"`
	Type      string            `json:"interaction_type"`
	Rating    int               `json:"rating"`
	Weight    float64           `json:"weight"`
	GroupSize int               `json:"group_size"`
	Duration  int               `json:"duration"`
	Context   map[string]string `json:"context"`
}

func (s *Server) handleRecordInteraction(c *gin.Context) {
	eng, ok := s.engineOf(c)
	if !ok {
		return
	}
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, core.NewValidationError(core.ModuleEngine, "invalid request body: "+err.Error()))
		return
	}

	in := &core.Interaction{
		UserID:    req.UserID,
		ItemID:    req.ItemID,
		Type:      core.InteractionType(req.Type),
		Rating:    req.Rating,
		Weight:    req.Weight,
		GroupSize: req.GroupSize,
		Duration:  req.Duration,
		Context:   req.Context,
	}
	saved, err := eng.RecordInteraction(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "interaction": saved})
}

func (s *Server) handleRecommend(c *gin.Context) {
	eng, ok := s.engineOf(c)
	if !ok {
		return
	}
	rctx := recommendContextFrom(c)
	rctx.UserID = c.Param("user_id")

	result, err := eng.Recommend(c.Request.Context(), rctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"recommendations": result.Recommendations,
		"preferences":     result.Preferences,
		"cached":          result.Cached,
		"fallback":        result.Fallback,
		"generated_at":    result.GeneratedAt,
	})
}

func (s *Server) handlePopular(c *gin.Context) {
	eng, ok := s.engineOf(c)
	if !ok {
		return
	}
	rctx := recommendContextFrom(c)

	recs, err := eng.Popular(c.Request.Context(), rctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": recs})
}

func (s *Server) handleHistory(c *gin.Context) {
	eng, ok := s.engineOf(c)
	if !ok {
		return
	}
	hist, err := eng.UserHistory(c.Request.Context(), c.Param("user_id"), intQuery(c, "days"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"interactions": hist.Interactions,
		"preferences":  hist.Preferences,
		"window_days":  hist.WindowDays,
	})
}

func (s *Server) handleAnalytics(c *gin.Context) {
	eng, ok := s.engineOf(c)
	if !ok {
		return
	}
	stats, err := eng.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": stats})
}

// recommendContextFrom 从查询参数还原推荐上下文；场合与时段先归一化。
func recommendContextFrom(c *gin.Context) *core.RecommendContext {
	rctx := &core.RecommendContext{
		Count:     intQuery(c, "count"),
		GroupSize: intQuery(c, "group_size"),
	}
	if n := intQuery(c, "party_size"); n > 0 {
		rctx.PartySize = core.NormalizePartySize(n)
	}
	if occ := c.Query("occasion"); occ != "" {
		rctx.Occasion = core.NormalizeOccasion(occ)
	}
	if slot := c.Query("time_slot"); slot != "" {
		rctx.TimeSlot = core.NormalizeTimeSlot(slot)
	}
	if t, ok := timeQuery(c, "check_in"); ok {
		rctx.CheckIn = t
	}
	if t, ok := timeQuery(c, "check_out"); ok {
		rctx.CheckOut = t
	}
	return rctx
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// timeQuery 接受 RFC3339 或 2006-01-02 两种格式。
func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
