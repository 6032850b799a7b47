// Package clause inserts clauses and sentences into contract documents so
// that the new text looks like it was written by hand alongside the rest.
//
// Nothing here is told how a contract marks its clause headings. Conventions
// (bold, underline, italic, quote-wrapped defined terms, native list
// numbering, literal "7. " prefixes) are inferred from the paragraphs around
// the insertion point, and the new paragraphs imitate them.
//
// Every operation takes the document explicitly and mutates it in place.
// Anchors are resolved before anything is changed, so an operation that
// returns ErrAnchorNotFound leaves the document untouched.
package clause

import (
	"errors"

	"go.uber.org/zap"
)

// ErrAnchorNotFound indicates that a heading, clause or sentence prefix
// could not be located.
var ErrAnchorNotFound = errors.New("clause: anchor not found")

// Profile is the inferred convention for how clause headings are marked in
// some part of a document.
type Profile struct {
	Bold      bool
	Underline bool
	Italic    bool
	Quotes    bool
}

// defaultProfile is used when no styled paragraph is found.
var defaultProfile = Profile{Bold: true}

// Scope is a half-open paragraph range [Start, End).
type Scope struct {
	Start int
	End   int
}

// Heading is a detected clause heading.
type Heading struct {
	Index int
	Text  string
}

// QuotePair is an opening and closing quote character.
type QuotePair struct {
	Open  string
	Close string
}

// Quote pairs recognised around defined terms.
var (
	StraightQuotes = QuotePair{Open: `"`, Close: `"`}
	CurlyQuotes    = QuotePair{Open: "“", Close: "”"}
)

// Option configures an operation.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger operations report fallbacks and results to.
// Operations are silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
