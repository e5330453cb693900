package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

type airportRequest struct {
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

type routeRequest struct {
	Source      int64 `json:"source"`
	Destination int64 `json:"destination"`
	Distance    int   `json:"distance"`
}

type airplaneTypeRequest struct {
	Name string `json:"name"`
}

type airplaneRequest struct {
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType int64  `json:"airplane_type"`
}

type crewRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Register mounts reads on public and writes on admin.
func (h *CatalogHandler) Register(public, admin *gin.RouterGroup) {
	public.GET("/airports", h.listAirports)
	admin.POST("/airports", h.createAirport)

	public.GET("/routes", h.listRoutes)
	public.GET("/routes/:id", h.getRoute)
	admin.POST("/routes", h.createRoute)

	public.GET("/airplane_types", h.listAirplaneTypes)
	admin.POST("/airplane_types", h.createAirplaneType)

	public.GET("/airplanes", h.listAirplanes)
	admin.POST("/airplanes", h.createAirplane)

	public.GET("/crew", h.listCrew)
	admin.POST("/crew", h.createCrew)
}

func (h *CatalogHandler) listAirports(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]airportResponse, 0, len(airports))
	for _, a := range airports {
		resp = append(resp, toAirport(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirport(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	airport, err := h.service.CreateAirport(c.Request.Context(), catalog.AirportInput{
		Name:           req.Name,
		ClosestBigCity: req.ClosestBigCity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirport(*airport))
}

func (h *CatalogHandler) listRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, toRoute(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) getRoute(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	route, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteDetail(*route))
}

func (h *CatalogHandler) createRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	route, err := h.service.CreateRoute(c.Request.Context(), catalog.RouteInput{
		SourceID:      req.Source,
		DestinationID: req.Destination,
		Distance:      req.Distance,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRouteDetail(*route))
}

func (h *CatalogHandler) listAirplaneTypes(c *gin.Context) {
	types, err := h.service.ListAirplaneTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]airplaneTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, airplaneTypeResponse{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirplaneType(c *gin.Context) {
	var req airplaneTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.service.CreateAirplaneType(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airplaneTypeResponse{ID: t.ID, Name: t.Name})
}

func (h *CatalogHandler) listAirplanes(c *gin.Context) {
	airplanes, err := h.service.ListAirplanes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]airplaneResponse, 0, len(airplanes))
	for _, a := range airplanes {
		resp = append(resp, toAirplane(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createAirplane(c *gin.Context) {
	var req airplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	airplane, err := h.service.CreateAirplane(c.Request.Context(), catalog.AirplaneInput{
		Name:       req.Name,
		Rows:       req.Rows,
		SeatsInRow: req.SeatsInRow,
		TypeID:     req.AirplaneType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirplane(*airplane))
}

func (h *CatalogHandler) listCrew(c *gin.Context) {
	crew, err := h.service.ListCrew(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]crewListResponse, 0, len(crew))
	for _, m := range crew {
		resp = append(resp, toCrewList(m))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) createCrew(c *gin.Context) {
	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	crew, err := h.service.CreateCrew(c.Request.Context(), catalog.CrewInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCrew(*crew))
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
