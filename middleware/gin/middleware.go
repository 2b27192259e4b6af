package ginmw

import (
	"github.com/gin-gonic/gin"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/middleware"
)

// bodyKey caches the parsed body so chained validators read it once.
const bodyKey = "typeprovider.body"

// Validate compiles schema for part and returns a handler that validates it,
// storing the decoded value in the request context. Invalid requests are
// aborted with an error payload.
func Validate(p *tp.Provider, part tp.HTTPPart, schema tp.Schema, opt ...middleware.BodyOptions) (gin.HandlerFunc, error) {
	cr, err := p.CompileRoute(tp.RouteSchema{}.WithPart(part, schema))
	if err != nil {
		return nil, err
	}
	return Route(cr, opt...), nil
}

// Must is a helper that panics when Validate fails.
func Must(h gin.HandlerFunc, err error) gin.HandlerFunc {
	if err != nil {
		panic(err)
	}
	return h
}

// Route validates every part cr declares.
func Route(cr *tp.CompiledRoute, opt ...middleware.BodyOptions) gin.HandlerFunc {
	var bo middleware.BodyOptions
	if len(opt) > 0 {
		bo = opt[0]
	}
	return func(c *gin.Context) {
		ps := middleware.Parts{}
		for _, part := range cr.Parts() {
			v, err := rawPart(c, part, bo)
			if err != nil {
				abort(c, err)
				return
			}
			ps.Set(part, v)
		}
		ctx, err := middleware.Validate(c.Request.Context(), cr, &ps)
		if err != nil {
			abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func rawPart(c *gin.Context, part tp.HTTPPart, opt middleware.BodyOptions) (any, error) {
	if part == tp.PartBody {
		if v, ok := c.Get(bodyKey); ok {
			return v, nil
		}
	}
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	v, err := middleware.ExtractPart(c.Request, params, part, opt)
	if err == nil && part == tp.PartBody {
		c.Set(bodyKey, v)
	}
	return v, err
}

func abort(c *gin.Context, err error) {
	pl := middleware.PayloadFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(pl.StatusCode, pl)
}

// Get returns the decoded value of part as T.
func Get[T any](c *gin.Context, part tp.HTTPPart) (T, bool) {
	return middleware.Validated[T](c.Request.Context(), part)
}

// Bind maps the decoded value of part onto T through s.
func Bind[T any](c *gin.Context, s tp.Typed[T], part tp.HTTPPart) (T, error) {
	return middleware.Bind(c.Request.Context(), s, part)
}

// Send encodes payload for status and writes it. Encode failures abort the
// request with a 500 payload.
func Send(c *gin.Context, cr *tp.CompiledRoute, status int, payload any) {
	out, err := middleware.Encode(c.Request.Context(), cr, status, payload)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(status, out)
}
