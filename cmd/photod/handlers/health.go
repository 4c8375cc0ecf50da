package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/photoshare/pkg/api/types/errors"
	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
)

type health struct {
	Status string `json:"status"`
	Schema int    `json:"schema"`
}

// HealthHandler reports the service is up when the database answers.
func HealthHandler(schema kschema.SchemaInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := schema.Version(c.Request().Context())
		if err != nil {
			return apierr.ServiceUnavailable("database is not reachable.", err)
		}
		return c.JSON(http.StatusOK, health{Status: "ok", Schema: v})
	}
}
