// Package swagger generates Swagger 2.0 documents from a live route table
// and the validation schemas attached to each route.
//
// See: https://swagger.io/specification/v2/
//
// # Routes
//
// A RouteTable lists the routes of the host application. Each Route carries
// its tags, descriptions and validation schemas (schema.Node values for path
// params, query, headers, payload and responses). Host adapters such as
// hostchi build the table from the router; a Catalog can also be used on its
// own:
//
//	catalog := swagger.NewCatalog()
//	catalog.Get("/users/{id}").
//	    Tags("api", "users").
//	    Description("Get a user").
//	    Params(schema.Object(schema.Field("id", schema.String().GUID().Required()))).
//	    Response(schema.FromType(User{}))
//
// Only routes tagged with Settings.RouteTag ("api" by default) are
// documented. The "tags" query parameter of the document endpoint narrows
// the set further:
//
//	/swagger.json?tags=users,-admin   users but not admin
//	/swagger.json?tags=+users,+public users and public
//
// # Translation
//
// Objects become definitions referenced by $ref. Structurally equal objects
// share one definition unless ReuseDefinitions is disabled. Anonymous
// objects are named Model1, Model2 and so on, root arrays of objects
// Array1, Array2. Recursive schemas reference their own definition.
//
// Alternatives are documented by their first branch; with XProperties
// enabled every branch is listed under x-alternatives and rules without a
// Swagger equivalent under x-constraint.
//
// Fragments that cannot be expressed are documented as untyped schemas and
// reported as Warnings, so a partially unsupported schema never prevents
// the document from being served.
//
// # Plugin
//
//	plugin, err := swagger.New(catalog, swagger.Settings{
//	    Info: swagger.Info{Title: "Users API", Version: "1.0.0"},
//	})
//	if err != nil {
//	    return err
//	}
//	plugin.Register(http.DefaultServeMux)
//
// Register mounts the JSON document (default /swagger.json), the optional
// YAML document and the documentation page (default /documentation). Host
// and schemes are taken from settings or from the request, honouring
// X-Forwarded-Host and X-Forwarded-Proto.
//
// With Deref enabled every $ref is inlined and the definitions are dropped.
// With Debug enabled warnings and validation issues of each build are
// logged.
package swagger
