package docx

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NodeKind identifies the kind of a Node.
type NodeKind int

const (
	DocumentNode NodeKind = iota // synthetic root holding the prolog and the root element
	ElementNode
	TextNode
	ProcInstNode
	CommentNode
	DirectiveNode
)

// Node is a generic XML node that keeps namespace prefixes exactly as they
// appear in the source, so a part can be modified and written back without
// disturbing markup this package does not model.
//
// Element names and attribute names are stored raw: Name.Space holds the
// prefix ("w"), not the namespace URI.
type Node struct {
	Kind     NodeKind
	Name     xml.Name
	Attr     []xml.Attr
	Data     string // text, comment, directive or processing-instruction body
	Children []*Node
	Parent   *Node
}

// qname splits a qualified name such as "w:pPr" into an xml.Name.
func qname(s string) xml.Name {
	if prefix, local, ok := strings.Cut(s, ":"); ok {
		return xml.Name{Space: prefix, Local: local}
	}
	return xml.Name{Local: s}
}

// qualified joins a raw name back into "prefix:local" form.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// NewElement creates a detached element. Attributes are given as
// alternating qualified-name / value pairs.
func NewElement(name string, attrs ...string) *Node {
	n := &Node{Kind: ElementNode, Name: qname(name)}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, xml.Attr{Name: qname(attrs[i]), Value: attrs[i+1]})
	}
	return n
}

// NewText creates a detached text node.
func NewText(s string) *Node {
	return &Node{Kind: TextNode, Data: s}
}

// ParseXML parses an XML part into a tree rooted at a DocumentNode.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &Node{Kind: DocumentNode}
	cur := root

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading XML token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{Kind: ElementNode, Name: t.Name, Parent: cur}
			el.Attr = append(el.Attr, t.Attr...)
			cur.Children = append(cur.Children, el)
			cur = el
		case xml.EndElement:
			if cur.Kind != ElementNode || cur.Name != t.Name {
				return nil, fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
			}
			cur = cur.Parent
		case xml.CharData:
			cur.append(&Node{Kind: TextNode, Data: string(t)})
		case xml.Comment:
			cur.append(&Node{Kind: CommentNode, Data: string(t)})
		case xml.ProcInst:
			cur.append(&Node{Kind: ProcInstNode, Name: xml.Name{Local: t.Target}, Data: string(t.Inst)})
		case xml.Directive:
			cur.append(&Node{Kind: DirectiveNode, Data: string(t)})
		}
	}

	if cur != root {
		return nil, errors.New("unexpected end of XML: unclosed element " + qualified(cur.Name))
	}
	return root, nil
}

// Root returns the first element child of a DocumentNode.
func (n *Node) Root() *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			return c
		}
	}
	return nil
}

// Child returns the first element child with the given qualified name.
func (n *Node) Child(name string) *Node {
	want := qname(name)
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == want {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all element children with the given qualified name.
func (n *Node) ChildrenNamed(name string) []*Node {
	want := qname(name)
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == want {
			out = append(out, c)
		}
	}
	return out
}

// Find returns every descendant element with the given qualified name, in
// document order.
func (n *Node) Find(name string) []*Node {
	want := qname(name)
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.Children {
			if c.Kind != ElementNode {
				continue
			}
			if c.Name == want {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Is reports whether n is an element with the given qualified name.
func (n *Node) Is(name string) bool {
	return n != nil && n.Kind == ElementNode && n.Name == qname(name)
}

// AttrValue returns the value of the attribute with the given qualified name.
func (n *Node) AttrValue(name string) (string, bool) {
	want := qname(name)
	for _, a := range n.Attr {
		if a.Name == want {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or adds) an attribute.
func (n *Node) SetAttr(name, value string) {
	want := qname(name)
	for i, a := range n.Attr {
		if a.Name == want {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: want, Value: value})
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	want := qname(name)
	for i, a := range n.Attr {
		if a.Name == want {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func (n *Node) append(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Append adds c as the last child of n.
func (n *Node) Append(c *Node) {
	c.detach()
	n.append(c)
}

// indexOf returns the position of c among n's children, or -1.
func (n *Node) indexOf(c *Node) int {
	for i, x := range n.Children {
		if x == c {
			return i
		}
	}
	return -1
}

func (n *Node) insertAt(i int, c *Node) {
	c.detach()
	c.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// InsertBefore inserts c immediately before ref, which must be a child of n.
func (n *Node) InsertBefore(c, ref *Node) {
	i := n.indexOf(ref)
	if i < 0 {
		n.Append(c)
		return
	}
	n.insertAt(i, c)
}

// InsertAfter inserts c immediately after ref, which must be a child of n.
func (n *Node) InsertAfter(c, ref *Node) {
	i := n.indexOf(ref)
	if i < 0 {
		n.Append(c)
		return
	}
	n.insertAt(i+1, c)
}

// Remove detaches c from n.
func (n *Node) Remove(c *Node) {
	if i := n.indexOf(c); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
		c.Parent = nil
	}
}

func (n *Node) detach() {
	if n.Parent != nil {
		n.Parent.Remove(n)
	}
}

// ensureChild returns the child element called name, creating it at the
// position the schema sequence in order requires. Names not listed in order
// are treated as coming after every listed name.
func (n *Node) ensureChild(name string, order []string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := NewElement(name)
	n.insertOrdered(c, order)
	return c
}

// insertOrdered places c among n's element children according to order.
func (n *Node) insertOrdered(c *Node, order []string) {
	rank := func(name xml.Name) int {
		q := qualified(name)
		for i, o := range order {
			if o == q {
				return i
			}
		}
		return len(order)
	}
	mine := rank(c.Name)
	for i, ch := range n.Children {
		if ch.Kind == ElementNode && rank(ch.Name) > mine {
			n.insertAt(i, c)
			return
		}
	}
	n.Append(c)
}

// WriteTo serializes n and its descendants.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	n.write(cw)
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

// Bytes serializes n into a byte slice.
func (n *Node) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := n.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countingWriter) WriteString(s string) {
	if cw.err != nil {
		return
	}
	k, err := cw.w.WriteString(s)
	cw.n += int64(k)
	cw.err = err
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

func (n *Node) write(w *countingWriter) {
	switch n.Kind {
	case DocumentNode:
		for i, c := range n.Children {
			c.write(w)
			// keep the prolog on its own line, as Word writes it
			if c.Kind == ProcInstNode && i+1 < len(n.Children) && n.Children[i+1].Kind != TextNode {
				w.WriteString("\n")
			}
		}
	case ElementNode:
		w.WriteString("<" + qualified(n.Name))
		for _, a := range n.Attr {
			w.WriteString(" " + qualified(a.Name) + `="` + attrEscaper.Replace(a.Value) + `"`)
		}
		if len(n.Children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for _, c := range n.Children {
			c.write(w)
		}
		w.WriteString("</" + qualified(n.Name) + ">")
	case TextNode:
		w.WriteString(textEscaper.Replace(n.Data))
	case ProcInstNode:
		if n.Data == "" {
			w.WriteString("<?" + n.Name.Local + "?>")
		} else {
			w.WriteString("<?" + n.Name.Local + " " + n.Data + "?>")
		}
	case CommentNode:
		w.WriteString("<!--" + n.Data + "-->")
	case DirectiveNode:
		w.WriteString("<!" + n.Data + ">")
	}
}
