package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

const (
	maxRadiusMeters = 50000
	maxKeywordLen   = 100
	maxLocationLen  = 200
	defaultPageSize = 20
	maxPageSize     = 60
)

var errRadius = fmt.Errorf("radius must be between 1 and %d meters", maxRadiusMeters)

// parseCoordinate reads lat/lon query parameters. ok is false when neither is
// present.
func parseCoordinate(c *fiber.Ctx) (coord *domain.Coordinate, ok bool, err error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return nil, false, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, true, fmt.Errorf("%w: lat and lon must be given together", domain.ErrMissingParameter)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, true, fmt.Errorf("%w: lat is not a number", domain.ErrInvalidCoordinate)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, true, fmt.Errorf("%w: lon is not a number", domain.ErrInvalidCoordinate)
	}

	coord = &domain.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return nil, true, err
	}
	return coord, true, nil
}

// parseSearchRequest validates the query parameters shared by /v1/trails.
func parseSearchRequest(c *fiber.Ctx) (usecases.SearchRequest, error) {
	req := usecases.SearchRequest{
		Location: strings.TrimSpace(c.Query("location")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	}
	if len(req.Location) > maxLocationLen {
		return req, fmt.Errorf("location too long (max %d characters)", maxLocationLen)
	}
	if len(req.Keyword) > maxKeywordLen {
		return req, fmt.Errorf("keyword too long (max %d characters)", maxKeywordLen)
	}

	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil || radius < 1 || radius > maxRadiusMeters {
			return req, errRadius
		}
		req.RadiusMeters = radius
	}

	// Typed location wins, so a malformed device coordinate beside it is ignored.
	if req.Location != "" {
		return req, nil
	}
	device, _, err := parseCoordinate(c)
	if err != nil {
		return req, err
	}
	req.Device = device
	return req, nil
}

// TrailsHandler runs a full trail search from location text or a device
// coordinate.
func TrailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseSearchRequest(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", defaultPageSize)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > maxPageSize {
			limit = defaultPageSize
		}

		res, err := deps.Trails.Search(c.UserContext(), req)
		if err != nil {
			return errSearch(c, err)
		}

		trails := res.Trails
		total := len(trails)
		if offset >= total {
			trails = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			trails = trails[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		if res.Source == usecases.SourceDevice {
			c.Set("Cache-Control", "private, max-age=300")
		}
		return c.JSON(TrailsResponse{
			Origin:     toOriginView(res),
			Query:      QueryView{RadiusMeters: res.Query.RadiusMeters, Keyword: res.Query.Keyword},
			Data:       toTrailViews(trails),
			Pagination: pg,
		})
	}
}

// LegacyTrailsHandler serves the pre-v1 coordinate-only route and returns
// the bare ranked array.
func LegacyTrailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, ok, err := parseCoordinate(c)
		if !ok || errors.Is(err, domain.ErrMissingParameter) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing lat/lon"})
		}
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		radius := c.QueryInt("radius", domain.DefaultRadiusMeters)
		if radius > maxRadiusMeters {
			radius = maxRadiusMeters
		}
		q := domain.NewSearchQuery(*origin, radius, c.Query("keyword"))

		trails, err := deps.Trails.Nearby(c.UserContext(), q)
		if err != nil {
			status, _, _ := classifyError(err)
			logUnexpected(c, status, err)
			msg := "Failed to fetch trails"
			if status == fiber.StatusBadGateway {
				msg = "Unexpected API response"
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
		}
		return c.JSON(toLegacyTrails(trails))
	}
}

// GeocodeHandler resolves free text to a coordinate.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(q) > maxLocationLen {
			return errBadRequest(c, fmt.Sprintf("query too long (max %d characters)", maxLocationLen))
		}

		loc, err := deps.Geo.ResolveText(c.UserContext(), q)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{
			"lat":          loc.Coordinate.Lat,
			"lon":          loc.Coordinate.Lon,
			"display_name": loc.DisplayName,
		})
	}
}

// ReverseGeocodeHandler returns a short label for a coordinate. The label is
// cosmetic and empty when the provider fails.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coord, ok, err := parseCoordinate(c)
		if !ok {
			return errBadRequest(c, "lat and lon are required")
		}
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "private, max-age=3600")
		return c.JSON(fiber.Map{
			"display_name": deps.Geo.ResolveDevice(c.UserContext(), *coord),
		})
	}
}

// AutocompleteHandler returns place predictions for partially typed input.
func AutocompleteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := c.Query("input")
		if len(input) > maxLocationLen {
			return errBadRequest(c, fmt.Sprintf("input too long (max %d characters)", maxLocationLen))
		}

		suggestions, err := deps.Places.Suggest(c.UserContext(), input)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{"data": suggestions})
	}
}

// StaticMapHandler proxies a static map preview centred on lat/lon.
func StaticMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coord, ok, err := parseCoordinate(c)
		if !ok {
			return errBadRequest(c, "lat and lon are required")
		}
		if err != nil {
			return errFromDomain(c, err)
		}

		img, err := deps.Places.MapPreview(c.UserContext(), *coord)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Content-Type", img.ContentType)
		c.Set("Cache-Control", "public, max-age=86400")
		return c.Send(img.Data)
	}
}

// BackdropHandler returns a background photo. It always answers 200.
func BackdropHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photo := deps.Places.Backdrop(c.UserContext(), c.Query("query"))
		if photo.FromFallback {
			c.Set("Cache-Control", "public, max-age=60")
		}
		return c.JSON(photo)
	}
}

// NewsHandler returns the latest outdoor headlines.
func NewsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 || limit > usecases.MaxHeadlines {
			return errBadRequest(c, fmt.Sprintf("limit must be between 1 and %d", usecases.MaxHeadlines))
		}

		headlines, err := deps.News.Latest(c.UserContext(), limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(fiber.Map{"data": headlines})
	}
}

// LegacyNewsHandler serves the pre-v1 news route as a bare array.
func LegacyNewsHandler(deps *Dependencies) fiber.Handler {
	type legacyHeadline struct {
		Title string `json:"title"`
		Link  string `json:"link"`
		Date  string `json:"date"`
	}

	return func(c *fiber.Ctx) error {
		headlines, err := deps.News.Latest(c.UserContext(), 0)
		if err != nil {
			return errFromDomain(c, err)
		}

		out := make([]legacyHeadline, 0, len(headlines))
		for _, h := range headlines {
			out = append(out, legacyHeadline{Title: h.Title, Link: h.Link, Date: h.Date})
		}
		return c.JSON(out)
	}
}
