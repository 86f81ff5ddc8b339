package parser

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/token"
)

// parseExpression is the Pratt-parser core: precedence-climbing condensed
// into one function since this grammar has few expression kinds.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMI) && precedence < p.peekPrecedence() {
		p.next()
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.INT:
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: p.cur}, Kind: token.INT, Value: p.atoi(p.cur.Lexeme)}
	case token.FLOAT:
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: p.cur}, Kind: token.FLOAT, Value: p.atof(p.cur.Lexeme)}
	case token.STRING:
		return p.parseStringLiteral()
	case token.TRUE, token.FALSE:
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: p.cur}, Kind: p.cur.Type, Value: p.cur.Type == token.TRUE}
	case token.NULL:
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: p.cur}, Kind: token.NULL}
	case token.IDENT:
		return &ast.Identifier{BaseExpr: ast.BaseExpr{Token: p.cur}, Name: p.cur.Lexeme}
	case token.BANG, token.MINUS:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseGrouped()
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	case token.FUN:
		return p.parseClosure()
	case token.NEW:
		return p.parseInvokeInit()
	case token.EVAL:
		return p.parseEval()
	default:
		p.errorf(diagnostics.ErrP001, "unexpected token %q in expression", p.cur.Lexeme)
		return nil
	}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.cur.Type {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE, token.AND, token.OR:
		return p.parseBinary(left)
	case token.QUESTION:
		return p.parseTernary(left)
	case token.LPAREN:
		return p.parseCall(left)
	case token.DOT, token.QUESTION_DOT:
		return p.parseMemberOrMethodCall(left)
	case token.LBRACKET:
		return p.parseArrayGet(left)
	case token.ASSIGN:
		return p.parseAssign(left)
	default:
		return left
	}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.next()
	operand := p.parseExpression(precPrefix)
	return &ast.UnaryExpression{BaseExpr: ast.BaseExpr{Token: tok}, Operator: op, Operand: operand}
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{BaseExpr: ast.BaseExpr{Token: tok}, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.cur
	p.next()
	then := p.parseExpression(precTernary)
	if !p.expect(token.COLON, "':'") {
		return &ast.TernaryExpression{BaseExpr: ast.BaseExpr{Token: tok}, Condition: cond, Then: then}
	}
	p.next()
	els := p.parseExpression(precTernary)
	return &ast.TernaryExpression{BaseExpr: ast.BaseExpr{Token: tok}, Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseGrouped() ast.Expression {
	p.next()
	expr := p.parseExpression(precLowest)
	p.expect(token.RPAREN, "')'")
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.ListLiteral{BaseExpr: ast.BaseExpr{Token: tok}}
	if p.peekIs(token.RBRACKET) {
		p.next()
		return lit
	}
	p.next()
	for {
		lit.Elements = append(lit.Elements, p.parseExpression(precLowest))
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	p.expect(token.RBRACKET, "']'")
	return lit
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.MapLiteral{BaseExpr: ast.BaseExpr{Token: tok}}
	if p.peekIs(token.RBRACE) {
		p.next()
		return lit
	}
	p.next()
	for {
		key := p.parseExpression(precLowest)
		p.expect(token.COLON, "':'")
		p.next()
		val := p.parseExpression(precLowest)
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, val)
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	p.expect(token.RBRACE, "'}'")
	return lit
}

// parseStringLiteral scans the lexeme for "${...}" holes and produces an
// InterpolatedString when any are found, else a plain Literal.
func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	raw := tok.Lexeme
	var parts []ast.Expression
	var lit string
	i := 0
	for i < len(raw) {
		if i+1 < len(raw) && raw[i] == '$' && raw[i+1] == '{' {
			if lit != "" {
				parts = append(parts, &ast.Literal{BaseExpr: ast.BaseExpr{Token: tok}, Kind: token.STRING, Value: lit})
				lit = ""
			}
			end := i + 2
			depth := 1
			for end < len(raw) && depth > 0 {
				if raw[end] == '{' {
					depth++
				} else if raw[end] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				end++
			}
			holeSrc := raw[i+2 : end]
			parts = append(parts, p.parseEmbeddedExpression(holeSrc, tok))
			i = end + 1
			continue
		}
		lit += string(raw[i])
		i++
	}
	if len(parts) == 0 {
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: tok}, Kind: token.STRING, Value: raw}
	}
	if lit != "" {
		parts = append(parts, &ast.Literal{BaseExpr: ast.BaseExpr{Token: tok}, Kind: token.STRING, Value: lit})
	}
	return &ast.InterpolatedString{BaseExpr: ast.BaseExpr{Token: tok}, Parts: parts}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.cur
	call := &ast.CallExpression{BaseExpr: ast.BaseExpr{Token: tok}, Callee: callee}
	if p.peekIs(token.RPAREN) {
		p.next()
		return call
	}
	p.next()
	for {
		call.Args = append(call.Args, p.parseExpression(precLowest))
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	p.expect(token.RPAREN, "')'")
	return call
}

func (p *Parser) parseMemberOrMethodCall(receiver ast.Expression) ast.Expression {
	p.next() // consume the field name
	name := p.cur.Lexeme
	if p.peekIs(token.LPAREN) {
		p.next()
		mc := &ast.MethodCallExpression{BaseExpr: ast.BaseExpr{Token: p.cur}, Receiver: receiver, MethodName: name}
		if p.peekIs(token.RPAREN) {
			p.next()
			return mc
		}
		p.next()
		for {
			mc.Args = append(mc.Args, p.parseExpression(precLowest))
			if !p.peekIs(token.COMMA) {
				break
			}
			p.next()
			p.next()
		}
		p.expect(token.RPAREN, "')'")
		return mc
	}
	return &ast.FieldAccessExpression{BaseExpr: ast.BaseExpr{Token: p.cur}, Target: receiver, FieldName: name}
}

func (p *Parser) parseArrayGet(arr ast.Expression) ast.Expression {
	tok := p.cur
	p.next()
	idx := p.parseExpression(precLowest)
	p.expect(token.RBRACKET, "']'")
	return &ast.ArrayGetExpression{BaseExpr: ast.BaseExpr{Token: tok}, Array: arr, Index: idx}
}

func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	tok := p.cur
	p.next()
	value := p.parseExpression(precLowest)
	if fr, ok := left.(*ast.FieldAccessExpression); ok {
		return &ast.FieldAssignExpression{
			BaseExpr:  ast.BaseExpr{Token: tok},
			Target:    fr.Target,
			FieldName: fr.FieldName,
			Value:     value,
		}
	}
	return &ast.AssignExpression{BaseExpr: ast.BaseExpr{Token: tok}, Target: left, Value: value}
}

func (p *Parser) parseClosure() ast.Expression {
	tok := p.cur
	p.expect(token.LPAREN, "'('")
	params, _ := p.parseParamList()
	p.expect(token.LBRACE, "'{'")
	body := p.parseBlockStatements()
	fun := &ast.FunDecl{Token: tok, Body: body, Params: params, Captures: ast.NewCaptureSet()}
	fun.Descriptor = descriptors.New("<closure>", "")
	return &ast.ClosureExpression{BaseExpr: ast.BaseExpr{Token: tok}, Fun: fun}
}

func (p *Parser) parseInvokeInit() ast.Expression {
	tok := p.cur
	if !p.expect(token.IDENT, "class name") {
		return &ast.InvokeInitExpression{BaseExpr: ast.BaseExpr{Token: tok}}
	}
	className := p.cur.Lexeme
	ii := &ast.InvokeInitExpression{BaseExpr: ast.BaseExpr{Token: tok}, Class: &ast.ClassDecl{Name: className}}
	if !p.expect(token.LPAREN, "'('") {
		return ii
	}
	if p.peekIs(token.RPAREN) {
		p.next()
		return ii
	}
	p.next()
	for {
		ii.Args = append(ii.Args, p.parseExpression(precLowest))
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	p.expect(token.RPAREN, "')'")
	return ii
}

func (p *Parser) parseEval() ast.Expression {
	tok := p.cur
	p.expect(token.LPAREN, "'('")
	p.next()
	src := p.parseExpression(precLowest)
	p.expect(token.RPAREN, "')'")
	return &ast.EvalExpression{BaseExpr: ast.BaseExpr{Token: tok}, Source: src}
}

// parseEmbeddedExpression lexes and parses a "${...}" interpolation hole
// as a standalone sub-expression.
func (p *Parser) parseEmbeddedExpression(src string, at token.Token) ast.Expression {
	sub := newSubParser(src, p.filePath, p.registry)
	expr := sub.parseExpression(precLowest)
	p.errors = append(p.errors, sub.Errors()...)
	if expr == nil {
		return &ast.Literal{BaseExpr: ast.BaseExpr{Token: at}, Kind: token.STRING, Value: ""}
	}
	return expr
}
