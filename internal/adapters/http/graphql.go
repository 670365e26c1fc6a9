package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/trailmatch/internal/core/domain"
	"github.com/samirrijal/trailmatch/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services. Resolvers
// return the REST view types so both surfaces share field names.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	originType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Origin",
		Fields: graphql.Fields{
			"lat":          &graphql.Field{Type: graphql.Float},
			"lon":          &graphql.Field{Type: graphql.Float},
			"display_name": &graphql.Field{Type: graphql.String},
			"source":       &graphql.Field{Type: graphql.String},
		},
	})

	trailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trail",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"name":           &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: graphql.String},
			"lat":            &graphql.Field{Type: graphql.Float},
			"lon":            &graphql.Field{Type: graphql.Float},
			"rating":         &graphql.Field{Type: graphql.Float},
			"distance_km":    &graphql.Field{Type: graphql.Float},
			"distance_miles": &graphql.Field{Type: graphql.Float},
			"distance_text":  &graphql.Field{Type: graphql.String},
			"map_url":        &graphql.Field{Type: graphql.String},
			"preview_url":    &graphql.Field{Type: graphql.String},
			"tags":           &graphql.Field{Type: graphql.NewList(graphql.String)},
			"near_you":       &graphql.Field{Type: graphql.Boolean},
		},
	})

	searchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrailSearch",
		Fields: graphql.Fields{
			"origin":  &graphql.Field{Type: originType},
			"radius":  &graphql.Field{Type: graphql.Int},
			"keyword": &graphql.Field{Type: graphql.String},
			"trails":  &graphql.Field{Type: graphql.NewList(trailType)},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"lat":          &graphql.Field{Type: graphql.Float},
			"lon":          &graphql.Field{Type: graphql.Float},
			"display_name": &graphql.Field{Type: graphql.String},
		},
	})

	headlineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Headline",
		Fields: graphql.Fields{
			"title":   &graphql.Field{Type: graphql.String},
			"link":    &graphql.Field{Type: graphql.String},
			"date":    &graphql.Field{Type: graphql.String},
			"summary": &graphql.Field{Type: graphql.String},
			"image":   &graphql.Field{Type: graphql.String},
		},
	})

	suggestionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Suggestion",
		Fields: graphql.Fields{
			"description": &graphql.Field{Type: graphql.String},
			"place_id":    &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trails": &graphql.Field{
				Type:        searchType,
				Description: "Find trails near a location (text) or a device coordinate (lat/lon)",
				Args: graphql.FieldConfigArgument{
					"location": &graphql.ArgumentConfig{Type: graphql.String},
					"lat":      &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":      &graphql.ArgumentConfig{Type: graphql.Float},
					"radius":   &graphql.ArgumentConfig{Type: graphql.Int},
					"keyword":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := usecases.SearchRequest{}
					req.Location, _ = p.Args["location"].(string)
					req.Keyword, _ = p.Args["keyword"].(string)
					req.RadiusMeters, _ = p.Args["radius"].(int)
					if req.RadiusMeters < 0 || req.RadiusMeters > maxRadiusMeters {
						return nil, errors.New("radius out of range")
					}
					lat, hasLat := p.Args["lat"].(float64)
					lon, hasLon := p.Args["lon"].(float64)
					if hasLat && hasLon {
						req.Device = &domain.Coordinate{Lat: lat, Lon: lon}
					}

					res, err := deps.Trails.Search(p.Context, req)
					if err != nil {
						return nil, graphQLError(err)
					}
					return map[string]interface{}{
						"origin":  toOriginView(res),
						"radius":  res.Query.RadiusMeters,
						"keyword": res.Query.Keyword,
						"trails":  toTrailViews(res.Trails),
					}, nil
				},
			},
			"geocode": &graphql.Field{
				Type:        locationType,
				Description: "Resolve free text to a coordinate",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					loc, err := deps.Geo.ResolveText(p.Context, p.Args["query"].(string))
					if err != nil {
						return nil, graphQLError(err)
					}
					return map[string]interface{}{
						"lat":          loc.Coordinate.Lat,
						"lon":          loc.Coordinate.Lon,
						"display_name": loc.DisplayName,
					}, nil
				},
			},
			"reverseGeocode": &graphql.Field{
				Type:        graphql.String,
				Description: "Short place label for a coordinate, empty when unknown",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c := domain.Coordinate{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Geo.ResolveDevice(p.Context, c), nil
				},
			},
			"headlines": &graphql.Field{
				Type:        graphql.NewList(headlineType),
				Description: "Latest outdoor news",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					headlines, err := deps.News.Latest(p.Context, p.Args["limit"].(int))
					if err != nil {
						return nil, graphQLError(err)
					}
					out := make([]map[string]interface{}, 0, len(headlines))
					for _, h := range headlines {
						out = append(out, map[string]interface{}{
							"title":   h.Title,
							"link":    h.Link,
							"date":    h.Date,
							"summary": h.Summary,
							"image":   h.Image,
						})
					}
					return out, nil
				},
			},
			"suggestions": &graphql.Field{
				Type:        graphql.NewList(suggestionType),
				Description: "Place autocomplete predictions",
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					suggestions, err := deps.Places.Suggest(p.Context, p.Args["input"].(string))
					if err != nil {
						return nil, graphQLError(err)
					}
					return suggestions, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// graphQLError replaces provider details with the public message and code.
func graphQLError(err error) error {
	_, code, msg := classifyError(err)
	return errors.New(code + ": " + msg)
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
