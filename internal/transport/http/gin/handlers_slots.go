package httpgin

import (
	"net/http"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/availability"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/slots"
	"github.com/gin-gonic/gin"
)

// @Summary  Find available resources
// @Param    resource_ids query string false "comma separated resource ids, all active resources when empty"
// @Param    from         query string true  "YYYY-MM-DD"
// @Param    to           query string true  "YYYY-MM-DD"
// @Param    daypart      query string true  "FULL, AM or PM"
// @Success  200  {object}  AvailabilityResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := parseIDList(c.Query("resource_ids"))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		from, to, err := domain.ParseRange(c.Query("from"), c.Query("to"))
		if err != nil {
			respondErr(c, err)
			return
		}
		part, err := domain.ParseDaypart(c.Query("daypart"))
		if err != nil {
			respondErr(c, err)
			return
		}

		found, err := svcs.Availability.Find(c.Request.Context(), availability.Query{
			ResourceIDs: ids,
			From:        from,
			To:          to,
			Daypart:     part,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		writeCachedJSON(c, AvailabilityResponse{
			From:      from.Format(domain.DateFormat),
			To:        to.Format(domain.DateFormat),
			Daypart:   part,
			Resources: found,
		}, availabilityMaxAge)
	}
}

// @Summary  List slots in a date range
// @Param    resource_ids query string false "comma separated resource ids"
// @Param    from         query string true  "YYYY-MM-DD"
// @Param    to           query string true  "YYYY-MM-DD"
// @Success  200  {array}   SlotResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /slots [get]
func handleQuerySlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := parseIDList(c.Query("resource_ids"))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		from, to, err := domain.ParseRange(c.Query("from"), c.Query("to"))
		if err != nil {
			respondErr(c, err)
			return
		}

		found, err := svcs.Slots.Query(c.Request.Context(), ids, from, to)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]*SlotResponse, 0, len(found))
		for i := range found {
			out = append(out, toSlotResponse(&found[i]))
		}
		writeCachedJSON(c, out, availabilityMaxAge)
	}
}

// @Summary  Toggle a slot on or off
// @Param    req body  ToggleSlotRequest true "payload"
// @Success  200 {object} ToggleSlotResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/slots/toggle [post]
func handleToggleSlot(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleSlotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			respondErr(c, err)
			return
		}
		part, err := domain.ParseDaypart(req.Daypart)
		if err != nil {
			respondErr(c, err)
			return
		}

		result, slot, err := svcs.Slots.Toggle(c.Request.Context(), slots.ToggleInput{
			ResourceID: req.ResourceID,
			Date:       date,
			Daypart:    part,
			Note:       req.Note,
			Blocked:    req.Blocked,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ToggleSlotResponse{Result: result, Slot: toSlotResponse(slot)})
	}
}

// @Summary  Set a slot note
// @Param    id  path  int  true  "Slot ID"
// @Param    req body  AnnotateSlotRequest true "payload"
// @Success  200 {object} SlotResponse
// @Failure  404 {object} ErrorResponse
// @Router   /admin/slots/{id}/note [patch]
func handleAnnotateSlot(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AnnotateSlotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		slot, err := svcs.Slots.Annotate(c.Request.Context(), id, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toSlotResponse(slot))
	}
}

// @Summary  Delete slots dated before a day
// @Param    before      query string true  "YYYY-MM-DD, exclusive"
// @Param    resource_id query int    false "limit to one resource"
// @Success  200 {object} PurgeSlotsResponse
// @Failure  400 {object} ErrorResponse
// @Router   /admin/slots [delete]
func handlePurgeSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		before, err := domain.ParseDate(c.Query("before"))
		if err != nil {
			respondErr(c, err)
			return
		}

		var resourceID *int64
		if raw := c.Query("resource_id"); raw != "" {
			ids, err := parseIDList(raw)
			if err != nil || len(ids) != 1 {
				badRequest(c, "invalid resource_id")
				return
			}
			resourceID = &ids[0]
		}

		n, err := svcs.Slots.Purge(c.Request.Context(), resourceID, before)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, PurgeSlotsResponse{Deleted: n})
	}
}
