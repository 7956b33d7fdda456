package controller

import (
	"errors"
	"net/http"
	"strconv"

	"cafeapi/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CafeController struct {
	Service *service.CafeService
}

func NewCafeController(svc *service.CafeService) *CafeController {
	return &CafeController{Service: svc}
}

func (ctl *CafeController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Cafe & Wifi API"})
}

func (ctl *CafeController) GetRandomCafe(c *gin.Context) {
	cafe, err := ctl.Service.Random(c.Request.Context())
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafe": cafe})
}

func (ctl *CafeController) GetAllCafes(c *gin.Context) {
	cafes, err := ctl.Service.All(c.Request.Context())
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": cafes})
}

// Search answers an unknown location with 200 and an error envelope, which
// is what existing clients expect.
func (ctl *CafeController) Search(c *gin.Context) {
	var loc *string
	if v, ok := c.GetQuery("loc"); ok {
		loc = &v
	}

	cafes, err := ctl.Service.Search(c.Request.Context(), loc)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			c.JSON(http.StatusOK, gin.H{"error": gin.H{"Not Found": messageOf(err)}})
			return
		}
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": cafes})
}

// AddForm answers GET /add; cafes can only be added with POST.
func (ctl *CafeController) AddForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"response": gin.H{"error": "Request was not completed"}})
}

func (ctl *CafeController) AddCafe(c *gin.Context) {
	in := service.AddCafeInput{
		Name:         postForm(c, "name"),
		MapURL:       postForm(c, "map_url"),
		ImgURL:       postForm(c, "img_url"),
		Location:     postForm(c, "location"),
		Seats:        postForm(c, "seats"),
		HasToilet:    postForm(c, "has_toilet"),
		HasWifi:      postForm(c, "has_wifi"),
		HasSockets:   postForm(c, "has_sockets"),
		CanTakeCalls: postForm(c, "can_take_calls"),
		CoffeePrice:  postForm(c, "coffee_price"),
	}

	if _, err := ctl.Service.Add(c.Request.Context(), in); err != nil {
		respondMutationError(c, err, "error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": gin.H{"success": service.MsgCafeAdded}})
}

func (ctl *CafeController) UpdatePrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var price *string
	if v, ok := c.GetQuery("new_price"); ok {
		price = &v
	}

	if err := ctl.Service.UpdatePrice(c.Request.Context(), id, price); err != nil {
		key := "error"
		if service.KindOf(err) == service.KindNotFound {
			key = "Not found"
		}
		respondMutationError(c, err, key)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": gin.H{"success": service.MsgPriceUpdated}})
}

// DeleteCafe rejects a bad key before saying anything about the id.
func (ctl *CafeController) DeleteCafe(c *gin.Context) {
	apiKey := c.Query("api_key")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		if err := ctl.Service.Authorize(c.Request.Context(), apiKey); err != nil {
			respondMutationError(c, err, "error")
			return
		}
		respondBadID(c)
		return
	}

	if err := ctl.Service.Delete(c.Request.Context(), uint(id), apiKey); err != nil {
		respondMutationError(c, err, "error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": gin.H{"success": service.MsgCafeDeleted}})
}

func postForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadID(c)
		return 0, false
	}
	return uint(id), true
}

func respondBadID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"response": gin.H{"error": "Invalid cafe ID format"}})
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var lookupLabels = map[service.Kind]string{
	service.KindBadRequest: "Bad Request",
	service.KindNotFound:   "Not Found",
}

func messageOf(err error) string {
	var se *service.Error
	if errors.As(err, &se) && se.Kind != service.KindInternal {
		return se.Message
	}
	return service.MsgInternal
}

// respondLookupError writes the {"error": {...}} envelope used by read endpoints.
func respondLookupError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		respondInternal(c, err)
		return
	}
	c.JSON(statusOf(kind), gin.H{"error": gin.H{lookupLabels[kind]: messageOf(err)}})
}

// respondMutationError writes the {"response": {key: message}} envelope used
// by write endpoints.
func respondMutationError(c *gin.Context, err error, key string) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		respondInternal(c, err)
		return
	}
	c.JSON(statusOf(kind), gin.H{"response": gin.H{key: messageOf(err)}})
}

func respondInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"response": gin.H{"error": service.MsgInternal}})
}
