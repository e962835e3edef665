// Package yaml provides a span-aware YAML format on gopkg.in/yaml.v3.
//
// Spans are byte offsets into the document. Start is derived from the node's
// line and column; end is recovered from the source text since yaml.v3 does
// not record it.
package yaml

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/zoobzio/spanned"
	"gopkg.in/yaml.v3"
)

// yamlFormat implements spanned.Format for YAML.
type yamlFormat struct{}

// New returns a YAML format.
func New() spanned.Format {
	return &yamlFormat{}
}

// ContentType returns the MIME type for YAML.
func (f *yamlFormat) ContentType() string {
	return "application/yaml"
}

// Deserializer parses the first document in data.
// An empty document decodes as nil.
func (f *yamlFormat) Deserializer(data []byte) (spanned.Deserializer, error) {
	doc := newDocument(data)
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, doc.syntax(err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		doc.markFlow(root.Content[0], false)
		return &deserializer{doc: doc, n: root.Content[0]}, nil
	}
	return &deserializer{doc: doc}, nil
}

// Marshal encodes v as YAML.
func (f *yamlFormat) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML data into v.
func Unmarshal(data []byte, v any) error {
	return spanned.Unmarshal(context.Background(), New(), data, v)
}

var lineRE = regexp.MustCompile(`line (\d+)`)

// syntax converts a yaml.v3 error into a SyntaxError at the start of the
// reported line.
func (doc *document) syntax(err error) error {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		return spanned.NewSyntaxError(0, "%s", err.Error())
	}
	off := spanned.Position(0)
	if m := lineRE.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			off = doc.offset(line, 1)
		}
	}
	return spanned.NewSyntaxError(off, "%s", err.Error())
}
