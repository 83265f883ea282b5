/*
Package xpathadapter implements an xpath.NodeNavigator.

We use this library for XPath queries:

	github.com/antchfx/xpath

Package xpathadapter implements an adapter to enable antchfx/xpath to
access an HTML parse tree, where nodes are of type *html.Node. For a
possible usage of this package, refer to package dom (method
Document.XPath).

For a description of the various methods of interface xpath.NodeNavigator
please refer to the documentation of antchfx/xpath. It is not replicated here.

BSD License

Copyright (c) 2017–2022, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of Norbert Pillmayer nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package xpathadapter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// T traces with key 'cquery.dom'.
func T() tracing.Trace {
	return tracing.Select("cquery.dom")
}

// NodeNavigator navigates an HTML parse tree.
type NodeNavigator struct {
	root, current *html.Node
	attr          int // attributes index
}

// NewNavigator creates a new xpath.NodeNavigator for an HTML parse tree.
func NewNavigator(node *html.Node) *NodeNavigator {
	return &NodeNavigator{
		current: node,
		root:    node,
		attr:    -1,
	}
}

// CurrentNode returns the HTML node a navigator is positioned at.
func CurrentNode(nav xpath.NodeNavigator) (*html.Node, error) {
	mynav, ok := nav.(*NodeNavigator)
	if !ok {
		return nil, errors.New("Navigator is not of type xpathadapter.NodeNavigator")
	}
	return mynav.current, nil
}

// Select evaluates a compiled XPath expression and returns the element
// nodes selected.
func Select(root *html.Node, expr *xpath.Expr) []*html.Node {
	var nodes []*html.Node
	iter := expr.Select(NewNavigator(root))
	for iter.MoveNext() {
		n, err := CurrentNode(iter.Current())
		if err != nil {
			T().Errorf(err.Error())
			continue
		}
		if n.Type == html.ElementNode {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch nav.current.Type {
	case html.CommentNode:
		return xpath.CommentNode
	case html.TextNode:
		return xpath.TextNode
	case html.DocumentNode:
		return xpath.RootNode
	case html.ElementNode:
		if nav.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	case html.DoctypeNode:
		// ignored <!DOCTYPE HTML> declare and as Root-Node type.
		return xpath.RootNode
	}
	panic(fmt.Sprintf("unknown node type: %v", nav.current.Type))
}

func (nav *NodeNavigator) LocalName() string {
	if nav.attr != -1 {
		return nav.current.Attr[nav.attr].Key
	}
	return nav.current.Data
}

func (*NodeNavigator) Prefix() string {
	return ""
}

func (nav *NodeNavigator) Value() string {
	switch nav.current.Type {
	case html.CommentNode:
		return nav.current.Data
	case html.ElementNode:
		if nav.attr != -1 {
			return nav.current.Attr[nav.attr].Val
		}
		return innerText(nav.current)
	case html.TextNode:
		return nav.current.Data
	}
	return ""
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current == nav.root || nav.current.Parent == nil {
		return false
	}
	nav.current = nav.current.Parent
	return true
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.attr >= len(nav.current.Attr)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 || nav.current.FirstChild == nil {
		return false
	}
	nav.current = nav.current.FirstChild
	return true
}

func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current.PrevSibling == nil {
		return false
	}
	for nav.current.PrevSibling != nil {
		nav.current = nav.current.PrevSibling
	}
	return true
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 || nav.current == nav.root || nav.current.NextSibling == nil {
		return false
	}
	nav.current = nav.current.NextSibling
	return true
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 || nav.current == nav.root || nav.current.PrevSibling == nil {
		return false
	}
	nav.current = nav.current.PrevSibling
	return true
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	return true
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// InnerText returns the text between the start and end tags of the object.
func innerText(n *html.Node) string {
	var output func(*bytes.Buffer, *html.Node)
	output = func(buf *bytes.Buffer, n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			output(buf, child)
		}
	}

	var buf bytes.Buffer
	output(&buf, n)
	return buf.String()
}
