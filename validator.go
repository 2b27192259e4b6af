package typeprovider

import (
	"fmt"
	"log/slog"

	"github.com/reoring/typeprovider/i18n"
)

// ValidatorFunc validates one raw request part. It never panics and never
// returns an error: failures are reported through Result.
type ValidatorFunc func(raw any) Result

// Result is the outcome of validating one request part: either a decoded
// value or a list of validation errors.
type Result struct {
	Part HTTPPart
	// Value is the coerced and decoded value handlers observe. Zero values
	// (0, "", false, nil) are legitimate results; use OK to tell success.
	Value  any
	Errors []ValidationError
	Issues Issues
	ok     bool
}

// OK reports whether validation succeeded.
func (r Result) OK() bool { return r.ok }

// Err returns nil on success, otherwise a *RequestError. A zero Result
// reports ErrNoResult.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	if len(r.Errors) == 0 && len(r.Issues) == 0 {
		return ErrNoResult
	}
	return &RequestError{Part: r.Part, Errors: r.Errors, Issues: r.Issues}
}

// decodeOutcome is the internal Ok(value) | DecodeFailed result.
type decodeOutcome struct {
	value any
	ok    bool
	cause error
}

// MakeValidator compiles schema for part and returns the per-request
// validation function. Compile failures surface here, at registration time.
func (p *Provider) MakeValidator(schema Schema, part HTTPPart) (ValidatorFunc, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if !part.Valid() {
		return nil, fmt.Errorf("typeprovider: unknown http part %q", part)
	}
	ch, err := p.Resolve(schema)
	if err != nil {
		return nil, fmt.Errorf("typeprovider: %s schema: %w", part, err)
	}
	coerce := part.Coerces() && !p.opts.DisableCoercion
	return func(raw any) Result {
		res := runValidator(ch, part, coerce, raw)
		p.obs.Validated(part, res.ok)
		if !res.ok {
			p.log.Debug("typeprovider: validation failed",
				slog.String("part", string(part)),
				slog.Int("issues", len(res.Issues)))
		}
		return res
	}, nil
}

func runValidator(ch Checker, part HTTPPart, coerce bool, raw any) Result {
	v := raw
	if coerce {
		v = safeConvert(ch, raw)
	}
	out := decodeValue(ch, v)
	if out.ok {
		return Result{Part: part, Value: out.value, ok: true}
	}
	iss := safeErrors(ch, v)
	if len(iss) == 0 {
		iss = transformIssues(out.cause)
	}
	return Result{Part: part, Errors: ValidationErrors(iss), Issues: iss}
}

func decodeValue(ch Checker, v any) (out decodeOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = decodeOutcome{cause: fmt.Errorf("decode panicked: %v", r)}
		}
	}()
	switch ch.Kind() {
	case KindTransform:
		d, err := ch.Decode(v)
		if err != nil {
			return decodeOutcome{cause: err}
		}
		return decodeOutcome{value: d, ok: true}
	default:
		if ch.Check(v) {
			return decodeOutcome{value: v, ok: true}
		}
		return decodeOutcome{}
	}
}

// transformIssues reports a decode failure that the structural check did not
// see, keeping the failing path when the cause carries one.
func transformIssues(cause error) Issues {
	if iss, ok := AsIssues(cause); ok && len(iss) > 0 {
		return iss
	}
	msg := i18n.T(CodeTransform, nil)
	if cause != nil {
		msg = cause.Error()
	}
	return Issues{{Path: "", Code: CodeTransform, Message: msg, Cause: cause}}
}

func safeConvert(ch Checker, v any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = v
		}
	}()
	return ch.Convert(v)
}

func safeErrors(ch Checker, v any) (iss Issues) {
	defer func() {
		if r := recover(); r != nil {
			iss = nil
		}
	}()
	return ch.Errors(v)
}
