// Package crossbind lets an API be declared once, as typed handler functions,
// and bound into any of several host web frameworks while the same type
// metadata is reflected into an OpenAPI 3.0 document. One signature record per
// endpoint drives both runtime parameter resolution and static schema
// generation, so the two can never silently diverge.
//
// The core handler signature removes the framework's request object entirely:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Routes are registered with package-level generic functions on a Router:
//
//	r := crossbind.New(crossbind.WithTitle("Items API"), crossbind.WithVersion("1.0.0"))
//	crossbind.Get[GetItemReq, Item](r, "/items/{item_id}", getItem)
//	crossbind.Post[CreateItemReq, Item](r, "/items", createItem, crossbind.WithStatus(http.StatusCreated))
//
// Request structs are the endpoint signature. Scalar fields resolve from path
// placeholders or query values with type coercion, struct-typed fields resolve
// from the JSON body (or, on GET, from query values flattened per field), and
// `default` tags supply fallbacks:
//
//	type GetItemReq struct {
//	    ItemID  int    `param:"item_id"`
//	    Verbose bool   `default:"false"`
//	}
//	type CreateItemReq struct {
//	    Item Item `param:"item"`
//	}
//
// A Router is framework-neutral: it never dispatches requests itself. Shims in
// the httpshim, ginshim, and echoshim packages implement the Binder interface
// and translate their host framework's request objects into RequestData, the
// generic calling convention every route understands.
//
// The OpenAPI document is built once per router, on first access, from the
// same signatures used at request time:
//
//	doc, err := r.Spec()
package crossbind
