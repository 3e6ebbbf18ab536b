package httpgin

import (
	"net/http"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/agency"
	"github.com/gin-gonic/gin"
)

// @Summary  Raise an agency request
// @Param    req body  CreateAgencyRequestRequest true "payload"
// @Success  201 {object} AgencyRequestResponse
// @Failure  400 {object} ErrorResponse
// @Router   /agency/requests [post]
func handleCreateAgencyRequest(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAgencyRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		from, to, err := domain.ParseRange(req.From, req.To)
		if err != nil {
			respondErr(c, err)
			return
		}
		part, err := domain.ParseDaypart(req.Daypart)
		if err != nil {
			respondErr(c, err)
			return
		}

		created, err := svcs.Agency.Create(c.Request.Context(), actorFrom(c), agency.CreateInput{
			ResourceID:          req.ResourceID,
			From:                from,
			To:                  to,
			Daypart:             part,
			Passengers:          req.Passengers,
			EstimatedTotalCents: req.EstimatedTotalCents,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAgencyRequestResponse(created))
	}
}

// @Summary  Get agency request
// @Param    id  path  string  true  "Request ID (uuid)"
// @Success  200 {object} AgencyRequestResponse
// @Failure  404 {object} ErrorResponse
// @Router   /agency/requests/{id} [get]
func handleGetAgencyRequest(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		req, err := svcs.Agency.Get(c.Request.Context(), id, actorFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAgencyRequestResponse(req))
	}
}

// @Summary  List agency requests
// @Param    status       query string false "pending, approved, rejected or converted"
// @Param    requester_id query int    false "agency user id"
// @Param    resource_id  query int    false "resource id"
// @Param    limit        query int    false "page size"
// @Param    offset       query int    false "offset"
// @Success  200 {array}  AgencyRequestResponse
// @Router   /admin/agency/requests [get]
func handleListAgencyRequests(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := domain.AgencyFilter{
			Status: domain.AgencyRequestStatus(c.Query("status")),
			Limit:  parseIntDefault(c.Query("limit"), 50),
			Offset: parseIntDefault(c.Query("offset"), 0),
		}
		switch f.Status {
		case "", domain.AgencyPending, domain.AgencyApproved, domain.AgencyRejected, domain.AgencyConverted:
		default:
			badRequest(c, "invalid status")
			return
		}
		if raw := c.Query("requester_id"); raw != "" {
			ids, err := parseIDList(raw)
			if err != nil || len(ids) != 1 {
				badRequest(c, "invalid requester_id")
				return
			}
			f.RequesterID = ids[0]
		}
		if raw := c.Query("resource_id"); raw != "" {
			ids, err := parseIDList(raw)
			if err != nil || len(ids) != 1 {
				badRequest(c, "invalid resource_id")
				return
			}
			f.ResourceID = ids[0]
		}

		found, err := svcs.Agency.List(c.Request.Context(), actorFrom(c), f)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]AgencyRequestResponse, 0, len(found))
		for i := range found {
			out = append(out, toAgencyRequestResponse(&found[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Approve agency request
// @Param    id  path  string  true  "Request ID (uuid)"
// @Success  200 {object} AgencyRequestResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/agency/requests/{id}/approve [post]
func handleApproveAgencyRequest(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		req, err := svcs.Agency.Approve(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAgencyRequestResponse(req))
	}
}

// @Summary  Reject agency request
// @Param    id  path  string  true  "Request ID (uuid)"
// @Success  200 {object} AgencyRequestResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/agency/requests/{id}/reject [post]
func handleRejectAgencyRequest(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		req, err := svcs.Agency.Reject(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAgencyRequestResponse(req))
	}
}

// @Summary  Convert approved agency request into a reservation (idempotent)
// @Param    id  path  string  true  "Request ID (uuid)"
// @Success  201 {object} ConvertResponse "created"
// @Success  200 {object} ConvertResponse "already converted"
// @Failure  409 {object} ErrorResponse "slot no longer available"
// @Router   /admin/agency/requests/{id}/convert [post]
func handleConvertAgencyRequest(svcs *service.Services, idem idempotency) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		idem.run(c, "agency.convert", func() (int, any, error) {
			res, created, err := svcs.Agency.Convert(c.Request.Context(), id)
			if err != nil {
				return 0, nil, err
			}
			status := http.StatusOK
			if created {
				status = http.StatusCreated
			}
			return status, ConvertResponse{Created: created, Reservation: toReservationResponse(res)}, nil
		})
	}
}
