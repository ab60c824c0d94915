package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/flow-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the Translation Layer handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api", noStore)

	api.Get("/weather", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return weather.BadRequest(weather.MsgInvalidCity)
		}

		snapshot, err := service.CurrentWeatherByCity(c.UserContext(), q.City)
		if err != nil {
			return err
		}
		return c.JSON(snapshot)
	})

	api.Get("/weather/coordinates", func(c *fiber.Ctx) error {
		coords, err := parseCoordinates(c)
		if err != nil {
			return weather.BadRequest(weather.MsgCoordinatesRequired)
		}

		snapshot, err := service.CurrentWeatherByCoordinates(c.UserContext(), coords)
		if err != nil {
			return err
		}
		return c.JSON(snapshot)
	})

	api.Get("/weather/forecast", func(c *fiber.Ctx) error {
		loc := weather.CityLocation(c.Query("city"))
		if !loc.HasCity() {
			coords, err := parseCoordinates(c)
			if err != nil {
				return weather.BadRequest(weather.MsgCityOrCoordinates)
			}
			loc = weather.Location{Coordinates: coords}
		}

		forecast, err := service.Forecast(c.UserContext(), loc)
		if err != nil {
			return err
		}
		return c.JSON(forecast)
	})

	api.Get("/places/suggestions", func(c *fiber.Ctx) error {
		q := suggestionQuery{Search: c.Query("search")}
		if err := validate.Struct(q); err != nil {
			return weather.BadRequest(weather.MsgSearchRequired)
		}

		suggestions, err := service.PlaceSuggestions(c.UserContext(), q.Search, 0)
		if err != nil {
			return err
		}
		return c.JSON(suggestions)
	})
}

// noStore marks every API response as uncacheable.
func noStore(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Next()
}

type cityQuery struct {
	City string `validate:"required"`
}

type suggestionQuery struct {
	Search string `validate:"required"`
}

// coordinatesQuery holds the raw lat/lon query parameters.
type coordinatesQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseCoordinates(c *fiber.Ctx) (*weather.Coordinates, error) {
	q := coordinatesQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(q); err != nil {
		return nil, err
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return nil, err
	}
	return &weather.Coordinates{Lat: lat, Lon: lon}, nil
}
