package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/tropical-nights/internal/store"
	"github.com/i474232898/tropical-nights/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/years", func(c *fiber.Ctx) error {
		years, err := service.CachedYears()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list cached years")
		}
		return c.JSON(fiber.Map{
			"location": service.Location(),
			"years":    years,
		})
	})

	v1.Get("/years/:year", func(c *fiber.Ctx) error {
		year, err := parseYearParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ds, err := service.GetYear(year)
		if err != nil {
			return yearError(err)
		}
		return c.JSON(ds)
	})

	v1.Get("/years/:year/stats", func(c *fiber.Ctx) error {
		year, err := parseYearParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stats, err := service.GetStats(year)
		if err != nil {
			return yearError(err)
		}
		return c.JSON(stats)
	})

	v1.Get("/summary", func(c *fiber.Ctx) error {
		q := summaryQuery{
			From: service.StartYear(),
			To:   service.CurrentYear(),
		}
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summaries, err := service.Summarize(q.From, q.To)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to summarize cached years")
		}
		return c.JSON(fiber.Map{
			"threshold": weather.TropicalThreshold,
			"from":      q.From,
			"to":        q.To,
			"years":     summaries,
		})
	})

	v1.Post("/sync", func(c *fiber.Ctx) error {
		report, err := service.SyncAll(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "sync failed: "+err.Error())
		}
		return c.JSON(report)
	})
}

func yearError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested year")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load weather data")
}

// yearParam holds the validated :year path segment.
type yearParam struct {
	Year int `validate:"gte=1940,lte=9999"`
}

func parseYearParam(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return 0, errors.New("year must be an integer")
	}
	p := yearParam{Year: n}
	if err := validate.Struct(p); err != nil {
		return 0, err
	}
	return p.Year, nil
}

// summaryQuery holds query parameters for the summary endpoint.
type summaryQuery struct {
	From int `validate:"gte=1940,lte=9999"`
	To   int `validate:"gte=1940,lte=9999,gtefield=From"`
}

func (q *summaryQuery) bind(c *fiber.Ctx) error {
	for key, dst := range map[string]*int{"from": &q.From, "to": &q.To} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(key + " must be an integer year")
		}
		*dst = n
	}
	return nil
}
