package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service orders.OrderUseCase
}

type ticketRequest struct {
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
	Flight int64 `json:"flight"`
}

type createOrderRequest struct {
	Tickets []ticketRequest `json:"tickets"`
}

type orderListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

// Register expects a group that already runs Authenticate.
func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/orders", h.create)
	router.GET("/orders", h.list)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tickets := make([]domain.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, domain.TicketRequest{Row: t.Row, Seat: t.Seat, FlightID: t.Flight})
	}

	order, err := h.service.CreateOrder(c.Request.Context(), orders.CreateOrderInput{
		UserID:  currentUserID(c),
		Tickets: tickets,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(*order))
}

func (h *OrderHandler) list(c *gin.Context) {
	var q orderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.ListOrders(c.Request.Context(), orders.ListOrdersInput{
		UserID: currentUserID(c),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]orderListResponse, 0, len(result))
	for _, o := range result {
		resp = append(resp, toOrderList(o))
	}
	c.JSON(http.StatusOK, resp)
}
