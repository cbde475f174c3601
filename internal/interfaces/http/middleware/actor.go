package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/shared/constants"
	"panelsync/internal/shared/utils"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorType = "X-Actor-Type"
)

// Actor reads the operator identity set by the admin gateway in front of
// this service. Requests without X-Actor-ID run as the system actor.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderActorID)
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+HeaderActorID+" header")
			c.Abort()
			return
		}

		actorType := c.GetHeader(HeaderActorType)
		switch actorType {
		case "":
			actorType = constants.ActorTypeAdmin
		case constants.ActorTypeAdmin, constants.ActorTypeReseller:
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+HeaderActorType+" header")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, reseller.Actor{ID: uint(id), Type: actorType})
		c.Next()
	}
}

// ActorFromContext returns the actor stored by Actor, or the system actor.
func ActorFromContext(c *gin.Context) reseller.Actor {
	if v, ok := c.Get(constants.ContextKeyActor); ok {
		if actor, ok := v.(reseller.Actor); ok {
			return actor
		}
	}
	return reseller.SystemActor
}
