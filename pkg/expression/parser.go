package expression

type node interface {
	pos() int
}

type identNode struct {
	at   int
	name string
}

type literalNode struct {
	at    int
	value any
}

type propertyNode struct {
	at     int
	target node
	name   string
}

type indexNode struct {
	at     int
	target node
	index  node
}

type callNode struct {
	at     int
	target node
	method string
	args   []node
}

type unaryNode struct {
	at      int
	op      string
	operand node
}

type binaryNode struct {
	at    int
	op    string
	left  node
	right node
}

type ternaryNode struct {
	at        int
	cond      node
	then      node
	otherwise node
}

func (n *identNode) pos() int    { return n.at }
func (n *literalNode) pos() int  { return n.at }
func (n *propertyNode) pos() int { return n.at }
func (n *indexNode) pos() int    { return n.at }
func (n *callNode) pos() int     { return n.at }
func (n *unaryNode) pos() int    { return n.at }
func (n *binaryNode) pos() int   { return n.at }
func (n *ternaryNode) pos() int  { return n.at }

type parser struct {
	tokens []token
	cursor int
}

func (p *parser) peek() token {
	return p.tokens[p.cursor]
}

func (p *parser) next() token {
	t := p.tokens[p.cursor]
	if t.kind != tokEOF {
		p.cursor++
	}
	return t
}

func (p *parser) acceptPunct(text string) bool {
	if t := p.peek(); t.kind == tokPunct && t.text == text {
		p.cursor++
		return true
	}
	return false
}

func (p *parser) expectPunct(text string) error {
	if !p.acceptPunct(text) {
		t := p.peek()
		if t.kind == tokEOF {
			return errAt(t.pos, "expected %q, found end of expression", text)
		}
		return errAt(t.pos, "expected %q, found %q", text, t.text)
	}
	return nil
}

// parseTransform reads the arrow head `x =>` or `(x) =>` and the body.
func (p *parser) parseTransform() (*Expression, error) {
	var param string

	if p.acceptPunct("(") {
		t := p.next()
		if t.kind != tokIdent {
			return nil, errAt(t.pos, "expected parameter name")
		}
		param = t.text
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	} else {
		t := p.next()
		if t.kind != tokIdent {
			return nil, errAt(t.pos, "expected parameter name")
		}
		param = t.text
	}

	if err := p.expectPunct("=>"); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, errAt(t.pos, "unexpected %q after expression", t.text)
	}

	return &Expression{param: param, body: body}, nil
}

func (p *parser) parseExpression() (node, error) {
	return p.parseTernary()
}

func (p *parser) parseTernary() (node, error) {
	cond, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if !p.acceptPunct("?") {
		return cond, nil
	}

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{at: cond.pos(), cond: cond, then: then, otherwise: otherwise}, nil
}

var comparisonOps = map[string]bool{
	"===": true, "!==": true, "==": true, "!=": true,
	">": true, ">=": true, "<": true, "<=": true,
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct || !comparisonOps[t.text] {
			return left, nil
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{at: t.pos, op: t.text, left: left, right: right}
	}
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{at: t.pos, op: t.text, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPunct || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{at: t.pos, op: t.text, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokPunct && (t.text == "!" || t.text == "-") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{at: t.pos, op: t.text, operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (node, error) {
	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		if p.acceptPunct(".") {
			t := p.next()
			if t.kind != tokIdent {
				return nil, errAt(t.pos, "expected property name after '.'")
			}
			if p.acceptPunct("(") {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				target = &callNode{at: t.pos, target: target, method: t.text, args: args}
				continue
			}
			target = &propertyNode{at: t.pos, target: target, name: t.text}
			continue
		}

		if p.acceptPunct("[") {
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			target = &indexNode{at: target.pos(), target: target, index: index}
			continue
		}

		return target, nil
	}
}

// parseArguments reads a call argument list; the opening '(' is consumed.
func (p *parser) parseArguments() ([]node, error) {
	if p.acceptPunct(")") {
		return nil, nil
	}
	var args []node
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.acceptPunct(",") {
			continue
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &literalNode{at: t.pos, value: t.number}, nil
	case tokString:
		return &literalNode{at: t.pos, value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &literalNode{at: t.pos, value: true}, nil
		case "false":
			return &literalNode{at: t.pos, value: false}, nil
		case "null":
			return &literalNode{at: t.pos, value: nil}, nil
		}
		return &identNode{at: t.pos, name: t.text}, nil
	case tokPunct:
		if t.text == "(" {
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	case tokEOF:
		return nil, errAt(t.pos, "unexpected end of expression")
	}
	return nil, errAt(t.pos, "unexpected %q", t.text)
}
