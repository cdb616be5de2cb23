package binding

import (
	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/dom"
)

// Sentinels for errors.Is. Errors returned by this package carry the same
// codes with element and detail filled in.
var (
	ErrUnsupportedBinding = errors.New("E201")
	ErrMalformedDirective = errors.New("E202")
	ErrMissingHandler     = errors.New("E203")
	ErrInvalidBindingKind = errors.New("E204")
	ErrAlreadyBound       = errors.New("E205")
	ErrNotBound           = errors.New("E206")
	ErrMissingRoot        = errors.New("E207")
)

func describe(el *dom.Node) string {
	if el == nil {
		return ""
	}
	return el.String()
}

func unsupported(el *dom.Node, detail string) *errors.Error {
	return errors.New("E201").
		WithElement(describe(el)).
		WithDetail(detail).
		WithSuggestion("Use data-bind:<property> for one-way bindings on elements without a natural value")
}

func malformed(el *dom.Node, marker string) *errors.Error {
	return errors.New("E202").
		WithElement(describe(el)).
		WithDetailf("data-%s", marker)
}
