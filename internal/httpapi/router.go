// Package httpapi wires the HTTP surface documented in spec.md §6: schedule
// lookup, id resolution, search, and the Telegram/VK webhook endpoints.
// Grounded on noah-isme-sma-adp-api's internal/handler/* (one Handler
// struct per concern, gin route groups built in cmd/api-gateway/main.go)
// and pkg/response for status/body shape.
package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mpeix-go/schedule-backend/api/swagger"
	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/internal/search"
	"github.com/mpeix-go/schedule-backend/internal/transport/telegram"
	"github.com/mpeix-go/schedule-backend/internal/transport/vk"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
	"github.com/mpeix-go/schedule-backend/pkg/response"
)

// ScheduleService is the subset of schedule.Service the schedule/id
// handlers depend on.
type ScheduleService interface {
	GetSchedule(ctx context.Context, rawName string, t schedule.Type, offset int32) (schedule.Schedule, error)
}

// IDResolver is the subset of idresolver.Resolver the id handler depends on.
type IDResolver interface {
	GetID(ctx context.Context, name schedule.Name, t schedule.Type) (int64, error)
}

// SearchService is the subset of search.Service the search handler depends
// on.
type SearchService interface {
	Search(ctx context.Context, rawQuery string, t *schedule.Type) ([]search.Result, error)
}

// TelegramHandler is the subset of telegram.Handler the webhook route
// depends on.
type TelegramHandler interface {
	HandleUpdate(ctx context.Context, update telegram.Update, secret string) error
}

// VKHandler is the subset of vk.Handler the callback route depends on.
type VKHandler interface {
	HandleCallback(ctx context.Context, callback vk.CallbackRequest) (string, error)
}

// Handler groups every dependency the router's handlers call into; it has
// no behavior of its own beyond routing and request/response translation.
type Handler struct {
	Schedule        ScheduleService
	IDs             IDResolver
	Search          SearchService
	TelegramWebhook TelegramHandler
	TelegramSecret  string
	VKCallback      VKHandler
}

// NewRouter builds the gin.Engine for spec.md §6's documented surface.
// middlewares is applied to every route in order (request id, logging,
// CORS, metrics — see cmd/schedule-api/main.go for the concrete chain).
func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	for _, mw := range middlewares {
		engine.Use(mw)
	}

	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := engine.Group("/v1")
	v1.GET("/health", h.health)
	v1.GET("/:type/:name/id", h.resolveID)
	v1.GET("/:type/:name/schedule/:offset", h.getSchedule)
	v1.GET("/search", h.search)
	v1.POST("/telegram_webhook_:secret", h.telegramWebhook)
	v1.POST("/vk_callback", h.vkCallback)

	return engine
}

func (h *Handler) health(c *gin.Context) {
	response.Text(c, http.StatusOK, "I'm alive")
}

func (h *Handler) resolveID(c *gin.Context) {
	t, err := schedule.ParseType(c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	name, err := schedule.NewName(c.Param("name"), t)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := h.IDs.GetID(c.Request.Context(), name, t)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) getSchedule(c *gin.Context) {
	t, err := schedule.ParseType(c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	offset, err := strconv.ParseInt(c.Param("offset"), 10, 32)
	if err != nil {
		response.Error(c, apperrors.NewUser("offset must be an integer"))
		return
	}

	sched, err := h.Schedule.GetSchedule(c.Request.Context(), c.Param("name"), t, int32(offset))
	if err != nil {
		response.Error(c, err)
		return
	}

	downgradeSchedule(&sched, parseAppVersion(c.GetHeader("X-App-Version")))
	response.JSON(c, http.StatusOK, sched)
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	var typePtr *schedule.Type
	if raw := c.Query("type"); raw != "" {
		t, err := schedule.ParseType(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		typePtr = &t
	}

	results, err := h.Search.Search(c.Request.Context(), q, typePtr)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results)
}

func (h *Handler) telegramWebhook(c *gin.Context) {
	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, apperrors.NewUser("invalid telegram update payload"))
		return
	}

	if err := h.TelegramWebhook.HandleUpdate(c.Request.Context(), update, c.Param("secret")); err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, http.StatusOK, "ok")
}

func (h *Handler) vkCallback(c *gin.Context) {
	var callback vk.CallbackRequest
	if err := c.ShouldBindJSON(&callback); err != nil {
		response.Error(c, apperrors.NewUser("invalid vk callback payload"))
		return
	}

	body, err := h.VKCallback.HandleCallback(c.Request.Context(), callback)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, http.StatusOK, body)
}
