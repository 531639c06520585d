package uddf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// node 通用 XML 节点树；任何子元素查询都返回列表，单个/多个元素统一处理
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

var errNoRoot = errors.New("document has no root element")

// parseTree 解析为节点树，返回文档根元素
func parseTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: strings.ToLower(t.Name.Local)}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[strings.ToLower(a.Name.Local)] = strings.TrimSpace(a.Value)
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			n := stack[len(stack)-1]
			n.text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

// all 返回同名直接子元素
func (n *node) all(name string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// first 第一个同名子元素，不存在返回 nil
func (n *node) first(name string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// path 沿路径展开，每一层都可能是多个元素
func (n *node) path(names ...string) []*node {
	if n == nil {
		return nil
	}
	current := []*node{n}
	for _, name := range names {
		var next []*node
		for _, c := range current {
			next = append(next, c.all(name)...)
		}
		current = next
	}
	return current
}

// attr 读取属性
func (n *node) attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// textOf 子元素文本，元素不存在或为空时 ok 为 false
func (n *node) textOf(name string) (string, bool) {
	c := n.first(name)
	if c == nil || c.text == "" {
		return "", false
	}
	return c.text, true
}

// floatOf 子元素数值；元素缺失返回 ok=false，非数值返回错误
func (n *node) floatOf(name string) (float64, bool, error) {
	s, ok := n.textOf(name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, &fieldError{field: name, value: s}
	}
	return v, true, nil
}

// optionalFloat 子元素缺失或非数值时 ok=false
func (n *node) optionalFloat(name string) (float64, bool) {
	v, ok, err := n.floatOf(name)
	return v, ok && err == nil
}

type fieldError struct {
	field string
	value string
}

func (e *fieldError) Error() string {
	return "invalid " + e.field + " value " + strconv.Quote(e.value)
}
