package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/application/search"
)

// sseMessage is one event on a server-sent event stream
type sseMessage struct {
	Event string
	Data  string
}

func writeSSE(w io.Writer, msg sseMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

func setSSEHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}

// SearchHandler handles suggestion lookups and the live suggest stream
type SearchHandler struct {
	BaseHandler
	searchService *search.Service
	logger        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*search.Suggester
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *search.Service, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
		sessions:      make(map[string]*search.Suggester),
	}
}

// RegisterRoutes registers the public search routes
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sg := rg.Group("/search")
	sg.GET("/suggest", h.Suggest)
	sg.GET("/suggest/stream", h.Stream)
	sg.POST("/suggest/stream/:session", h.UpdateQuery)
}

// RegisterAdminRoutes registers curated panel management and the
// analytics views; the caller gates the group on the manage_categories
// permission
func (h *SearchHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	sg := rg.Group("/search")
	sg.GET("/popular-searches", h.ListPopularSearches)
	sg.PUT("/popular-searches", h.UpsertPopularSearch)
	sg.GET("/popular-categories", h.ListPopularCategories)
	sg.PUT("/popular-categories", h.UpsertPopularCategory)
}

// Suggest resolves one query immediately. An empty query returns the
// curated popular panel.
func (h *SearchHandler) Suggest(c *gin.Context) {
	result, err := h.searchService.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stream opens a suggest session over SSE. The first event names the
// session; the client then posts query updates to the session endpoint
// and receives debounced suggestion panels as "suggestions" events.
// Stale lookups are discarded inside the suggester, so the panel on the
// wire always matches the latest posted query.
func (h *SearchHandler) Stream(c *gin.Context) {
	setSSEHeaders(c)

	suggester := search.NewSuggester(h.searchService)
	sessionID := uuid.New().String()

	h.mu.Lock()
	h.sessions[sessionID] = suggester
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.sessions, sessionID)
		h.mu.Unlock()
		suggester.Close()
	}()

	writeSSE(c.Writer, sseMessage{
		Event: "session",
		Data:  fmt.Sprintf(`{"session_id":%q}`, sessionID),
	})
	c.Writer.Flush()

	// resolve the initial query right away, empty means popular panel
	suggester.Update(c.Query("q"))

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			return
		case <-heartbeat.C:
			writeSSE(c.Writer, sseMessage{Event: "heartbeat", Data: fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix())})
			c.Writer.Flush()
		case result, ok := <-suggester.Results():
			if !ok {
				return
			}
			if result.Err != nil {
				h.logger.Warn("Suggestion lookup failed",
					zap.String("query", result.Query),
					zap.Error(result.Err))
				continue
			}
			data, err := json.Marshal(result.Suggestions)
			if err != nil {
				continue
			}
			writeSSE(c.Writer, sseMessage{Event: "suggestions", Data: string(data)})
			c.Writer.Flush()
		}
	}
}

type updateQueryRequest struct {
	Query string `json:"query"`
}

// UpdateQuery feeds a keystroke into an open suggest session
func (h *SearchHandler) UpdateQuery(c *gin.Context) {
	var req updateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	h.mu.Lock()
	suggester, ok := h.sessions[c.Param("session")]
	h.mu.Unlock()
	if !ok {
		h.NotFound(c, "Suggest session not found")
		return
	}

	suggester.Update(req.Query)
	c.Status(http.StatusAccepted)
}

// analyticsLimit caps the admin analytics views
const analyticsLimit = 50

// ListPopularSearches returns term counts for the analytics view
func (h *SearchHandler) ListPopularSearches(c *gin.Context) {
	rows, err := h.searchService.PopularSearches(c.Request.Context(), analyticsLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// ListPopularCategories returns category counts for the analytics view
func (h *SearchHandler) ListPopularCategories(c *gin.Context) {
	rows, err := h.searchService.PopularCategories(c.Request.Context(), analyticsLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// UpsertPopularSearch adds or reorders a curated search term
func (h *SearchHandler) UpsertPopularSearch(c *gin.Context) {
	var req search.UpsertPopularSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.searchService.UpsertPopularSearch(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UpsertPopularCategory pins a category into the curated panel
func (h *SearchHandler) UpsertPopularCategory(c *gin.Context) {
	var req search.UpsertPopularCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.searchService.UpsertPopularCategory(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
