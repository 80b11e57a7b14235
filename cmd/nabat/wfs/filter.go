package wfs

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

const ogcNamespace = "http://www.opengis.net/ogc"

// Expression is an OGC filter expression.
type Expression interface {
	expression()
}

// PropertyIsLike matches a property against a wildcard pattern.
type PropertyIsLike struct {
	XMLName    xml.Name `xml:"ogc:PropertyIsLike"`
	WildCard   string   `xml:"wildCard,attr"`
	SingleChar string   `xml:"singleChar,attr"`
	EscapeChar string   `xml:"escapeChar,attr"`
	Property   string   `xml:"ogc:PropertyName"`
	Literal    string   `xml:"ogc:Literal"`
}

// PropertyIsLessThanOrEqualTo compares a property with a literal.
type PropertyIsLessThanOrEqualTo struct {
	XMLName  xml.Name `xml:"ogc:PropertyIsLessThanOrEqualTo"`
	Property string   `xml:"ogc:PropertyName"`
	Literal  string   `xml:"ogc:Literal"`
}

// Or matches when any operand does.
type Or struct {
	XMLName    xml.Name     `xml:"ogc:Or"`
	Operations []Expression `xml:",any"`
}

// And matches when all operands do.
type And struct {
	XMLName    xml.Name     `xml:"ogc:And"`
	Operations []Expression `xml:",any"`
}

func (*PropertyIsLike) expression()              {}
func (*PropertyIsLessThanOrEqualTo) expression() {}
func (*Or) expression()                          {}
func (*And) expression()                         {}

// Filter is the root of an OGC filter document.
type Filter struct {
	XMLName    xml.Name   `xml:"ogc:Filter"`
	Namespace  string     `xml:"xmlns:ogc,attr"`
	Expression Expression `xml:",any"`
}

// Like returns a PropertyIsLike with "*" as the wildcard.
func Like(property, pattern string) *PropertyIsLike {
	return &PropertyIsLike{
		WildCard:   "*",
		SingleChar: ".",
		EscapeChar: "!",
		Property:   property,
		Literal:    pattern,
	}
}

// StateFilter matches cells intersecting a state or province. Cells store up
// to four state names in the fields state_n_1 to state_n_4.
func StateFilter(state string) Expression {
	or := &Or{}

	for i := 1; i <= 4; i++ {
		or.Operations = append(or.Operations, Like(fmt.Sprintf("state_n_%d", i), "*"+state))
	}

	return or
}

// PriorityFilter matches cells with a GRTS id at or below the cutoff.
func PriorityFilter(cutoff int) Expression {
	return &PropertyIsLessThanOrEqualTo{
		Property: "GRTS_ID",
		Literal:  strconv.Itoa(cutoff),
	}
}

// Query selects cells of a frame. The zero value selects all cells.
type Query struct {
	State        string
	HighPriority bool
}

// Expression builds the filter expression for the query for a frame with
// the given priority cutoff. It returns nil when no filter applies.
func (q *Query) Expression(cutoff int) Expression {
	var state Expression

	if q.State != "" {
		state = StateFilter(q.State)
	}

	if !q.HighPriority {
		return state
	}

	priority := PriorityFilter(cutoff)

	if state == nil {
		return priority
	}

	return &And{Operations: []Expression{priority, state}}
}

// Marshal encodes an expression as an OGC filter document.
func Marshal(e Expression) (string, error) {
	b, err := xml.Marshal(&Filter{
		Namespace:  ogcNamespace,
		Expression: e,
	})
	if err != nil {
		return "", err
	}

	return string(b), nil
}
