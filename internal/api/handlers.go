// internal/api/handlers.go
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/junglecut/storyarc/internal/config"
	"github.com/junglecut/storyarc/internal/logging"
	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/services"
	"github.com/junglecut/storyarc/internal/utils"
)

// Handler wires HTTP requests to the engine services.
type Handler struct {
	Blocks      *services.BlockService
	Structures  *services.StructureService
	Timeline    *services.TimelineService
	Metrics     *services.MetricsService
	Insights    *services.InsightService
	Suggestions *services.SuggestionService
	Drag        *services.DragSession
	Notify      *services.NotifyService
	LLM         *services.LLMService
	Stats       *services.StatsService

	Logger        *logging.Logger
	EngineMetrics *utils.EngineMetrics

	helper *ResponseHelper
}

func NewHandler() *Handler {
	return &Handler{helper: NewResponseHelper()}
}

// --- blocks ---

// GetBlocks returns both ordering groups: the story arc (with derived
// positions) and the idea pool.
func (h *Handler) GetBlocks(c *gin.Context) {
	h.helper.Success(c, gin.H{
		"arc":   h.Blocks.ArcBlocks(),
		"ideas": h.Blocks.IdeaBlocks(),
	})
}

type createBlockRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Notes       string           `json:"notes"`
	Status      string           `json:"status"`
	Type        models.BlockType `json:"type" binding:"required"`
	Duration    float64          `json:"duration"`
	InStoryArc  bool             `json:"in_story_arc"`
	AISource    models.AISource  `json:"ai_source"`
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	block, err := h.Blocks.Create(services.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Status:      req.Status,
		Type:        req.Type,
		Duration:    req.Duration,
		InStoryArc:  req.InStoryArc,
		AISource:    req.AISource,
	})
	if err != nil {
		h.helper.FromError(c, err)
		return
	}

	h.Stats.Increment(services.StatBlocksCreated)
	h.helper.Created(c, block)
}

func (h *Handler) GetBlock(c *gin.Context) {
	block, err := h.Blocks.Get(c.Param("id"))
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.helper.Success(c, block)
}

type updateBlockRequest struct {
	Title            *string           `json:"title"`
	Description      *string           `json:"description"`
	Notes            *string           `json:"notes"`
	Status           *string           `json:"status"`
	Type             *models.BlockType `json:"type"`
	Duration         *float64          `json:"duration"`
	AISource         *models.AISource  `json:"ai_source"`
	SuggestedSegment *string           `json:"suggested_segment"`
}

func (h *Handler) UpdateBlock(c *gin.Context) {
	var req updateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	block, err := h.Blocks.Update(c.Param("id"), services.BlockPatch{
		Title:            req.Title,
		Description:      req.Description,
		Notes:            req.Notes,
		Status:           req.Status,
		Type:             req.Type,
		Duration:         req.Duration,
		AISource:         req.AISource,
		SuggestedSegment: req.SuggestedSegment,
	})
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	if block == nil {
		// Stale id from a UI that missed a deletion. Not an error.
		h.helper.Success(c, nil, "block no longer exists; nothing updated")
		return
	}
	h.helper.Success(c, block)
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	if err := h.Blocks.Remove(c.Param("id")); err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.Stats.Increment(services.StatBlocksDeleted)
	h.helper.Success(c, nil, "block deleted")
}

type orderRequest struct {
	InsertAt int `json:"insert_at"`
}

// OrderBlock reinserts a block at an index within its ordering group.
func (h *Handler) OrderBlock(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	moved, err := h.Blocks.Move(c.Param("id"), req.InsertAt)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	if moved {
		h.Stats.Increment(services.StatReordersCommitted)
		h.EngineMetrics.RecordReorder("direct")
	}
	h.helper.Success(c, gin.H{"arc": h.Blocks.ArcBlocks()})
}

type arcMembershipRequest struct {
	InStoryArc *bool `json:"in_story_arc" binding:"required"`
}

func (h *Handler) SetArcMembership(c *gin.Context) {
	var req arcMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	block, err := h.Blocks.SetArcMembership(c.Param("id"), *req.InStoryArc)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.helper.Success(c, block)
}

// --- story arc ---

func (h *Handler) GetStoryArc(c *gin.Context) {
	structure, acts := h.Structures.Current()
	h.helper.Success(c, gin.H{
		"structure": structure,
		"acts":      acts,
		"blocks":    h.Blocks.ArcBlocks(),
	})
}

// GetStoryMetrics computes metrics against the selected structure, or a
// different one named by ?structure= for what-if comparisons.
func (h *Handler) GetStoryMetrics(c *gin.Context) {
	if raw := c.Query("structure"); raw != "" {
		metrics, err := h.Metrics.For(models.StructureType(raw))
		if err != nil {
			h.helper.FromError(c, err)
			return
		}
		h.helper.Success(c, metrics)
		return
	}
	h.helper.Success(c, h.Metrics.Current())
}

func (h *Handler) RunInsights(c *gin.Context) {
	h.Insights.Run()
	h.Stats.Increment(services.StatAnalysesRun)
	h.helper.Accepted(c, gin.H{"running": true}, "analysis started")
}

func (h *Handler) GetInsights(c *gin.Context) {
	insights, running := h.Insights.Insights()
	h.helper.Success(c, gin.H{
		"insights": insights,
		"running":  running,
	})
}

func (h *Handler) RunSuggestions(c *gin.Context) {
	h.Suggestions.Run(c.Request.Context())
	h.Stats.Increment(services.StatSuggestionPassesRun)
	h.helper.Accepted(c, gin.H{"generating": true}, "suggestion pass started")
}

func (h *Handler) GetSuggestionStatus(c *gin.Context) {
	h.helper.Success(c, gin.H{"generating": h.Suggestions.Generating()})
}

// --- drag ---

type dragStartRequest struct {
	BlockID string `json:"block_id" binding:"required"`
}

func (h *Handler) DragStart(c *gin.Context) {
	var req dragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if err := h.Drag.Start(req.BlockID); err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.helper.Success(c, h.Drag.Status())
}

type dragHoverRequest struct {
	TargetIndex int  `json:"target_index"`
	TopHalf     bool `json:"top_half"`
}

func (h *Handler) DragHover(c *gin.Context) {
	var req dragHoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	committed, err := h.Drag.Hover(req.TargetIndex, req.TopHalf)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	if committed {
		h.Stats.Increment(services.StatReordersCommitted)
		h.EngineMetrics.RecordReorder("hover")
	}
	h.helper.Success(c, gin.H{
		"committed": committed,
		"status":    h.Drag.Status(),
		"arc":       h.Blocks.ArcBlocks(),
	})
}

func (h *Handler) DragLeave(c *gin.Context) {
	h.Drag.Leave()
	h.helper.Success(c, h.Drag.Status())
}

type dragDropRequest struct {
	ZoneIndex int `json:"zone_index"`
}

func (h *Handler) DragDrop(c *gin.Context) {
	var req dragDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	moved, err := h.Drag.DropOnZone(req.ZoneIndex)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	if moved {
		h.Stats.Increment(services.StatReordersCommitted)
		h.EngineMetrics.RecordReorder("zone")
	}
	h.helper.Success(c, gin.H{"moved": moved, "arc": h.Blocks.ArcBlocks()})
}

type timelineDropRequest struct {
	Position float64 `json:"position"`
}

func (h *Handler) DragTimelineDrop(c *gin.Context) {
	var req timelineDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	moved, err := h.Drag.DropAtTimeline(req.Position)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	if moved {
		h.Stats.Increment(services.StatReordersCommitted)
		h.EngineMetrics.RecordReorder("timeline")
	}
	h.helper.Success(c, gin.H{"moved": moved, "arc": h.Blocks.ArcBlocks()})
}

func (h *Handler) DragCancel(c *gin.Context) {
	h.Drag.Cancel()
	h.helper.Success(c, h.Drag.Status())
}

func (h *Handler) DragStatus(c *gin.Context) {
	h.helper.Success(c, h.Drag.Status())
}

// --- timeline ---

func (h *Handler) GetTimelineLayout(c *gin.Context) {
	scale := 0.0
	if raw := c.Query("scale"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.helper.BadRequest(c, "invalid scale: "+raw)
			return
		}
		scale = parsed
	}
	h.helper.Success(c, h.Timeline.Layout(scale))
}

// --- structures and catalogs ---

func (h *Handler) GetStructures(c *gin.Context) {
	types := h.Structures.Types()
	structures := make(map[models.StructureType][]models.ActStructure, len(types))
	for _, st := range types {
		acts, err := h.Structures.Acts(st)
		if err != nil {
			continue
		}
		structures[st] = acts
	}
	h.helper.Success(c, gin.H{
		"types":      types,
		"structures": structures,
	})
}

func (h *Handler) GetStructure(c *gin.Context) {
	st := models.StructureType(c.Param("type"))
	acts, err := h.Structures.Acts(st)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.helper.Success(c, gin.H{"structure": st, "acts": acts})
}

type selectStructureRequest struct {
	Structure models.StructureType `json:"structure" binding:"required"`
}

func (h *Handler) SelectStructure(c *gin.Context) {
	var req selectStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if err := h.Structures.SetCurrent(req.Structure); err != nil {
		h.helper.FromError(c, err)
		return
	}
	structure, acts := h.Structures.Current()
	h.helper.Success(c, gin.H{"structure": structure, "acts": acts})
}

func (h *Handler) GetBlockTypes(c *gin.Context) {
	h.helper.Success(c, models.BlockTypeCatalog)
}

// --- AI ---

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	reply, err := h.LLM.Chat(c.Request.Context(), req.Message)
	if err != nil {
		h.helper.FromError(c, err)
		return
	}
	h.Stats.Increment(services.StatChatCompletions)
	h.helper.Success(c, gin.H{"reply": reply})
}

func (h *Handler) GetLLMSettings(c *gin.Context) {
	h.helper.Success(c, gin.H{
		"provider":  h.LLM.ProviderName(),
		"ready":     h.LLM.IsReady(),
		"models":    h.LLM.SupportedModels(),
		"available": services.AvailableProviders(),
	})
}

type llmSettingsRequest struct {
	Provider string            `json:"provider" binding:"required"`
	Config   map[string]string `json:"config"`
}

func (h *Handler) UpdateLLMSettings(c *gin.Context) {
	var req llmSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.helper.BadRequest(c, "invalid request body", err.Error())
		return
	}

	if err := h.LLM.UpdateProvider(req.Provider, req.Config); err != nil {
		h.helper.FromError(c, err)
		return
	}
	if err := config.UpdateLLMConfig(req.Provider, req.Config); err != nil {
		h.Logger.Warn("persist AI provider settings", "error", err)
	}
	h.helper.Success(c, gin.H{
		"provider": h.LLM.ProviderName(),
		"models":   h.LLM.SupportedModels(),
	}, "provider updated")
}

// --- operational ---

func (h *Handler) GetNotifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	h.helper.Success(c, h.Notify.Recent(limit))
}

func (h *Handler) GetStats(c *gin.Context) {
	h.helper.Success(c, h.Stats.Snapshot())
}

func (h *Handler) GetEngineMetrics(c *gin.Context) {
	h.helper.Success(c, utils.GetMetricsCollector().GetMetrics())
}

func (h *Handler) Health(c *gin.Context) {
	h.helper.Success(c, gin.H{
		"status":   "ok",
		"ai_ready": h.LLM.IsReady(),
	})
}
