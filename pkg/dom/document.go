package dom

import (
	"errors"
	"fmt"
	"strings"
)

// maxDeliveryRounds bounds Flush when callbacks keep producing mutations.
const maxDeliveryRounds = 1000

// ErrUnsettled is returned by Flush when observers keep mutating the tree.
var ErrUnsettled = errors.New("dom: mutation delivery did not settle")

// Document owns a node tree and its mutation observers.
type Document struct {
	body      *Node
	observers []*Observer
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the document body.
func (d *Document) Body() *Node {
	return d.body
}

// CreateElement creates a detached element with the given tag.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{
		Type: ElementNode,
		doc:  d,
		tag:  strings.ToLower(tag),
	}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{
		Type: TextNode,
		doc:  d,
		data: text,
	}
}

// CreateFragment creates an empty document fragment.
func (d *Document) CreateFragment() *Node {
	return &Node{
		Type: FragmentNode,
		doc:  d,
	}
}

// Element creates an element with attributes given as name/value pairs and
// appends children. It is a shorthand for building trees in code.
func (d *Document) Element(tag string, attrs []Attr, children ...*Node) *Node {
	el := d.CreateElement(tag)
	for _, a := range attrs {
		el.attrs = append(el.attrs, Attr{Name: strings.ToLower(a.Name), Value: a.Value})
	}
	for _, c := range children {
		el.AppendChild(c)
	}
	return el
}

// Observe registers cb for mutations under root.
func (d *Document) Observe(root *Node, opts ObserveOptions, cb Callback) *Observer {
	o := &Observer{
		doc:    d,
		root:   root,
		opts:   opts,
		cb:     cb,
		active: true,
	}
	d.observers = append(d.observers, o)
	return o
}

// Pending reports whether any observer has undelivered records.
func (d *Document) Pending() bool {
	for _, o := range d.observers {
		if len(o.pending) > 0 {
			return true
		}
	}
	return false
}

// Flush delivers queued records to their observers in registration order
// and repeats until no records remain. Callback errors are joined.
func (d *Document) Flush() error {
	var errs []error
	for round := 0; d.Pending(); round++ {
		if round == maxDeliveryRounds {
			errs = append(errs, ErrUnsettled)
			break
		}
		observers := make([]*Observer, len(d.observers))
		copy(observers, d.observers)
		for _, o := range observers {
			records := o.TakeRecords()
			if len(records) == 0 || o.cb == nil {
				continue
			}
			if err := o.cb(records, o); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Document) enqueue(rec MutationRecord) {
	if d == nil {
		return
	}
	for _, o := range d.observers {
		if o.active && o.matches(rec) {
			o.pending = append(o.pending, rec)
		}
	}
}

func (d *Document) detach(o *Observer) {
	for i, x := range d.observers {
		if x == o {
			d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
			return
		}
	}
}

// MutationType is the kind of a mutation record.
type MutationType uint8

const (
	ChildList MutationType = iota + 1
	Attributes
)

// String returns the string representation of the MutationType.
func (t MutationType) String() string {
	switch t {
	case ChildList:
		return "childList"
	case Attributes:
		return "attributes"
	default:
		return fmt.Sprintf("MutationType(%d)", uint8(t))
	}
}

// MutationRecord describes one change to the tree.
type MutationRecord struct {
	Type   MutationType
	Target *Node

	// AddedNodes and RemovedNodes are set for ChildList records.
	AddedNodes   []*Node
	RemovedNodes []*Node

	// AttributeName and OldValue are set for Attributes records.
	AttributeName string
	OldValue      string
}

// ObserveOptions selects which mutations an observer receives.
type ObserveOptions struct {
	ChildList  bool
	Attributes bool
	Subtree    bool

	// AttributeFilter restricts attribute records to these names when set.
	AttributeFilter []string
}

// Callback receives one batch of records.
type Callback func(records []MutationRecord, o *Observer) error

// Observer receives mutation records for a subtree.
type Observer struct {
	doc     *Document
	root    *Node
	opts    ObserveOptions
	cb      Callback
	pending []MutationRecord
	active  bool
}

// Root returns the observed root.
func (o *Observer) Root() *Node {
	return o.root
}

// Active reports whether the observer is still connected.
func (o *Observer) Active() bool {
	return o.active
}

// TakeRecords returns and clears the pending records.
func (o *Observer) TakeRecords() []MutationRecord {
	records := o.pending
	o.pending = nil
	return records
}

// Disconnect stops delivery and drops pending records.
func (o *Observer) Disconnect() {
	if !o.active {
		return
	}
	o.active = false
	o.pending = nil
	o.doc.detach(o)
}

func (o *Observer) matches(rec MutationRecord) bool {
	switch rec.Type {
	case ChildList:
		if !o.opts.ChildList {
			return false
		}
	case Attributes:
		if !o.opts.Attributes {
			return false
		}
		if len(o.opts.AttributeFilter) > 0 && !containsString(o.opts.AttributeFilter, rec.AttributeName) {
			return false
		}
	default:
		return false
	}

	if rec.Target == o.root {
		return true
	}
	return o.opts.Subtree && o.root.Contains(rec.Target)
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
