package echomw

import (
	"github.com/labstack/echo/v4"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/middleware"
)

const bodyKey = "typeprovider.body"

// Validate compiles schema for part and returns middleware that validates it.
// Decoded values are stored in the request context; invalid requests are
// answered with an error payload.
func Validate(p *tp.Provider, part tp.HTTPPart, schema tp.Schema, opt ...middleware.BodyOptions) (echo.MiddlewareFunc, error) {
	cr, err := p.CompileRoute(tp.RouteSchema{}.WithPart(part, schema))
	if err != nil {
		return nil, err
	}
	return Route(cr, opt...), nil
}

// Must is a helper that panics when Validate fails.
func Must(mw echo.MiddlewareFunc, err error) echo.MiddlewareFunc {
	if err != nil {
		panic(err)
	}
	return mw
}

// Route validates every part cr declares.
func Route(cr *tp.CompiledRoute, opt ...middleware.BodyOptions) echo.MiddlewareFunc {
	var bo middleware.BodyOptions
	if len(opt) > 0 {
		bo = opt[0]
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ps := middleware.Parts{}
			for _, part := range cr.Parts() {
				v, err := rawPart(c, part, bo)
				if err != nil {
					return writeError(c, err)
				}
				ps.Set(part, v)
			}
			ctx, err := middleware.Validate(c.Request().Context(), cr, &ps)
			if err != nil {
				return writeError(c, err)
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func rawPart(c echo.Context, part tp.HTTPPart, opt middleware.BodyOptions) (any, error) {
	if part == tp.PartBody {
		if v, ok := c.Get(bodyKey).(bodyValue); ok {
			return v.v, nil
		}
	}
	names, values := c.ParamNames(), c.ParamValues()
	params := make(map[string]string, len(names))
	for i, k := range names {
		if i < len(values) {
			params[k] = values[i]
		}
	}
	v, err := middleware.ExtractPart(c.Request(), params, part, opt)
	if err == nil && part == tp.PartBody {
		c.Set(bodyKey, bodyValue{v})
	}
	return v, err
}

// bodyValue keeps a parsed nil body distinct from an unread one.
type bodyValue struct{ v any }

func writeError(c echo.Context, err error) error {
	pl := middleware.PayloadFor(err)
	return c.JSON(pl.StatusCode, pl)
}

// Get returns the decoded value of part as T.
func Get[T any](c echo.Context, part tp.HTTPPart) (T, bool) {
	return middleware.Validated[T](c.Request().Context(), part)
}

// Bind maps the decoded value of part onto T through s.
func Bind[T any](c echo.Context, s tp.Typed[T], part tp.HTTPPart) (T, error) {
	return middleware.Bind(c.Request().Context(), s, part)
}

// Send encodes payload for status and writes it. Encode failures are answered
// with a 500 payload.
func Send(c echo.Context, cr *tp.CompiledRoute, status int, payload any) error {
	out, err := middleware.Encode(c.Request().Context(), cr, status, payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, out)
}
