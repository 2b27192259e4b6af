package typeprovider

import (
	"fmt"
	"log/slog"
)

// ResponseSchemas maps status codes to response schemas.
type ResponseSchemas map[int]Schema

// EncodeForStatus encodes payload against the schema registered for status.
// Without a schema the payload is returned unchanged. Encode failures are
// returned as *EncodeError; they are server defects, not client errors.
func (p *Provider) EncodeForStatus(responses ResponseSchemas, status int, payload any) (any, error) {
	s, ok := responses[status]
	if !ok || s == nil {
		return payload, nil
	}
	ch, err := p.Resolve(s)
	if err != nil {
		p.obs.Encoded(status, false)
		return nil, &EncodeError{Status: status, Err: err}
	}
	out, err := encodeValue(ch, payload)
	p.obs.Encoded(status, err == nil)
	if err != nil {
		p.log.Warn("typeprovider: response encode failed",
			slog.Int("status", status),
			slog.Any("error", err))
		return nil, &EncodeError{Status: status, Err: err}
	}
	return out, nil
}

// PreSerialization is the continuation-passing form of EncodeForStatus: done
// is invoked exactly once, with either an error or the encoded value.
func (p *Provider) PreSerialization(responses ResponseSchemas, status int, payload any, done func(err error, value any)) {
	v, err := p.EncodeForStatus(responses, status, payload)
	if err != nil {
		done(err, nil)
		return
	}
	done(nil, v)
}

func encodeValue(ch Checker, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("encode panicked: %v", r)
		}
	}()
	return ch.Encode(v)
}
