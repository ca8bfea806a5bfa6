// Package openapi builds one OpenAPI 3 document per API version and serves
// them as JSON.
package openapi

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/api-versioning/internal/versioning"
	"github.com/getkin/kin-openapi/openapi3"
)

// Options describe how the version token is exposed in the documents.
type Options struct {
	Title      string
	Strategy   versioning.Strategy
	HeaderName string
	QueryParam string
}

// requestSchemas maps a major version to its order request schema.
var requestSchemas = map[int]func() *openapi3.Schema{
	1: orderRequestV1Schema,
	2: orderRequestV2Schema,
}

// Build assembles and validates the document for version v.
func Build(ctx context.Context, v versioning.Version, opts Options) (*openapi3.T, error) {
	newRequest, ok := requestSchemas[v.Major]
	if !ok {
		return nil, fmt.Errorf("openapi: no request schema for version %s", v)
	}

	requestName := fmt.Sprintf("PostOrderRequestV%d", v.Major)
	responseName := "OrderResponse"
	requestSchema := newRequest()
	responseSchema := orderResponseSchema()

	op := &openapi3.Operation{
		OperationID: fmt.Sprintf("PostOrderV%s", v),
		Summary:     "Submit an order",
		Tags:        []string{"Order"},
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+requestName, requestSchema)),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Order accepted").
					WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+responseName, responseSchema)),
			}),
			openapi3.WithStatus(400, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Order rejected; the body names the first failed rule").
					WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"})),
			}),
		),
	}

	path := "/orders"
	switch opts.Strategy {
	case versioning.StrategyHeader:
		op.Parameters = openapi3.Parameters{{
			Value: openapi3.NewHeaderParameter(opts.HeaderName).
				WithDescription("API version").
				WithSchema(openapi3.NewStringSchema().WithDefault(v.String())),
		}}
	case versioning.StrategyQuery:
		op.Parameters = openapi3.Parameters{{
			Value: openapi3.NewQueryParameter(opts.QueryParam).
				WithDescription("API version").
				WithSchema(openapi3.NewStringSchema().WithDefault(v.String())),
		}}
	case versioning.StrategyURL:
		path = fmt.Sprintf("/v%s/orders", v)
	default:
		return nil, fmt.Errorf("openapi: unknown strategy %q", opts.Strategy)
	}

	title := opts.Title
	if title == "" {
		title = "Order API"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   fmt.Sprintf("%s v%s", title, v),
			Version: v.String(),
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(path, &openapi3.PathItem{Post: op})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				requestName:  openapi3.NewSchemaRef("", requestSchema),
				responseName: openapi3.NewSchemaRef("", responseSchema),
			},
		},
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: version %s: %w", v, err)
	}

	return doc, nil
}

func orderRequestV1Schema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("ProductCode", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("Quantity", openapi3.NewInt32Schema().WithMin(0)).
		WithProperty("Address", openapi3.NewStringSchema().WithMinLength(1))
	s.Required = []string{"ProductCode", "Address"}
	return s
}

func orderRequestV2Schema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("ProductCode", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("Quantity", openapi3.NewInt32Schema().WithMin(0)).
		WithProperty("Country", openapi3.NewInt32Schema().WithMin(0)).
		WithProperty("City", openapi3.NewInt32Schema().WithMin(0)).
		WithProperty("AddressDetail", openapi3.NewStringSchema().WithMinLength(1))
	s.Required = []string{"ProductCode", "AddressDetail"}
	return s
}

func orderResponseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("ProductCode", openapi3.NewStringSchema()).
		WithProperty("Quantity", openapi3.NewInt32Schema()).
		WithProperty("Address", openapi3.NewStringSchema())
}
