// Package typeprovider wires schema-described routes into HTTP hosts.
//
// A route declares schemas for the request parts it accepts (body, querystring,
// params, headers) and, per status code, for the replies it produces. The
// package provides:
//
//   - A Provider owning a format registry and a checker cache, so independent
//     providers (for example in tests) never share state.
//   - The inbound pipeline: MakeValidator compiles a schema once at route
//     registration and returns a per-request function that coerces non-body
//     parts, decodes transforms and reports {message, instancePath} errors.
//   - The outbound pipeline: EncodeForStatus / PreSerialization apply encode
//     transforms against the response schema registered for the final status.
//   - A stable error model via Issues (JSON Pointer, code, message) and the
//     typed boundary errors RequestError (4xx) and EncodeError (5xx).
//
// Schemas come from the dsl package; host integrations live under middleware/.
//
// Typical usage:
//
//	p := typeprovider.New(typeprovider.DefaultOptions())
//	validate, err := p.MakeValidator(querySchema, typeprovider.PartQuerystring)
//	res := validate(rawQuery)
//	if !res.OK() {
//	    return res.Err()
//	}
//	wire, err := p.EncodeForStatus(responses, http.StatusOK, payload)
//
// Unknown format names are not errors: a string constraint naming a format that
// is not registered passes every value until the format is registered.
package typeprovider
