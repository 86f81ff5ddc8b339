package parser

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.VAR, token.FINAL:
		return p.parseVarDecl()
	case token.FUN:
		return p.parseFunDecl("", nil)
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return &ast.ContinueStatement{BaseStmt: ast.BaseStmt{Token: p.cur}}
	case token.RETURN:
		return p.parseReturnStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.LBRACE:
		return p.parseBlock()
	default:
		expr := p.parseExpression(precLowest)
		stmt := &ast.ExpressionStatement{BaseStmt: ast.BaseStmt{Token: p.cur}, Expr: expr}
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return stmt
	}
}

// parseVarDecl parses `(var|final) name (= init)? ;`.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	tok := p.cur
	isFinal := p.curIs(token.FINAL)
	if !p.expect(token.IDENT, "variable name") {
		return &ast.VarDecl{Token: tok, IsFinal: isFinal}
	}
	vd := &ast.VarDecl{Token: tok, Name: p.cur.Lexeme, IsFinal: isFinal}

	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		vd.Initialiser = p.parseExpression(precLowest)
		if closure, ok := vd.Initialiser.(*ast.ClosureExpression); ok {
			vd.BoundFunDecl = closure.Fun
		}
	}
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return vd
}

// parseFunDecl parses a function/method declaration, splitting off a
// Wrapper FunDecl when any parameter is variadic or has a default value.
func (p *Parser) parseFunDecl(owningClass string, owner *ast.FunDecl) *ast.FunDecl {
	tok := p.cur
	if !p.expect(token.IDENT, "function name") {
		return &ast.FunDecl{Token: tok}
	}
	name := p.cur.Lexeme

	if !p.expect(token.LPAREN, "'('") {
		return &ast.FunDecl{Token: tok, Name: name}
	}
	params, needsWrapper := p.parseParamList()

	fd := &ast.FunDecl{Token: tok, Name: name, Params: params, Owner: owner, Captures: ast.NewCaptureSet()}
	fd.Descriptor = descriptors.New(name, owningClass)
	p.registry.Register(fd.Descriptor)

	if !p.expect(token.LBRACE, "'{'") {
		return fd
	}
	fd.Body = p.parseBlockStatements()

	if needsWrapper {
		fd.Wrapper = p.synthesizeWrapper(fd, owningClass)
	}

	return fd
}

// synthesizeWrapper builds the adapter FunDecl a variadic/default-arg
// function needs: same visible name, a flattened parameter list, and a
// body that forwards to real. The async-propagation analyser's
// conservative rule is that an async wrapper also marks real async.
func (p *Parser) synthesizeWrapper(real *ast.FunDecl, owningClass string) *ast.FunDecl {
	wrapper := &ast.FunDecl{
		Token:        real.Token,
		Name:         real.Name,
		Params:       real.Params,
		Owner:        real.Owner,
		IsWrapperFor: real,
		Captures:     ast.NewCaptureSet(),
	}
	wrapper.Descriptor = descriptors.New(real.Name+"$wrapper", owningClass)
	p.registry.Register(wrapper.Descriptor)

	args := make([]ast.Expression, 0, len(real.Params))
	for _, param := range real.Params {
		args = append(args, &ast.Identifier{BaseExpr: ast.BaseExpr{Token: real.Token}, Name: param.Name})
	}
	call := &ast.CallExpression{
		BaseExpr: ast.BaseExpr{Token: real.Token},
		Callee:   &ast.Identifier{BaseExpr: ast.BaseExpr{Token: real.Token}, Name: real.Name},
		Args:     args,
	}
	wrapper.Body = []ast.Statement{&ast.ReturnStatement{BaseStmt: ast.BaseStmt{Token: real.Token}, Value: call}}
	return wrapper
}

func (p *Parser) parseParamList() ([]*ast.Parameter, bool) {
	var params []*ast.Parameter
	needsWrapper := false

	if p.peekIs(token.RPAREN) {
		p.next()
		return params, needsWrapper
	}

	p.next()
	for {
		param := p.parseParameter()
		if param.Variadic || param.Default != nil {
			needsWrapper = true
		}
		params = append(params, param)
		if !p.peekIs(token.COMMA) {
			break
		}
		p.next()
		p.next()
	}
	p.expect(token.RPAREN, "')'")
	return params, needsWrapper
}

func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{Name: p.cur.Lexeme}
	if p.peekIs(token.ARROW) { // postfix "->" marks a variadic parameter, e.g. `rest->`
		p.next()
		param.Variadic = true
		return param
	}
	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		param.Default = p.parseExpression(precLowest)
	}
	return param
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{BaseStmt: ast.BaseStmt{Token: p.cur}}
	block.Statements = p.parseBlockStatements()
	return block
}

// parseBlockStatements assumes p.cur is the opening '{' and consumes
// through the matching '}', leaving p.cur on that closing brace.
func (p *Parser) parseBlockStatements() []ast.Statement {
	var stmts []ast.Statement
	p.next()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.next()
	}
	return stmts
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.cur
	if !p.expect(token.LPAREN, "'('") {
		return &ast.IfStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	}
	p.next()
	cond := p.parseExpression(precLowest)
	if !p.expect(token.RPAREN, "')'") {
		return &ast.IfStatement{BaseStmt: ast.BaseStmt{Token: tok}, Condition: cond}
	}
	if !p.expect(token.LBRACE, "'{'") {
		return &ast.IfStatement{BaseStmt: ast.BaseStmt{Token: tok}, Condition: cond}
	}
	then := p.parseBlock()

	stmt := &ast.IfStatement{BaseStmt: ast.BaseStmt{Token: tok}, Condition: cond, Then: then}
	if p.peekIs(token.ELSE) {
		p.next()
		if p.peekIs(token.IF) {
			p.next()
			nested := p.parseIfStatement()
			stmt.Otherwise = &ast.BlockStatement{BaseStmt: ast.BaseStmt{Token: nested.Token}, Statements: []ast.Statement{nested}}
		} else if p.expect(token.LBRACE, "'{'") {
			stmt.Otherwise = p.parseBlock()
		}
	}
	return stmt
}

// parseForStatement parses the for-in form: `for (item in iterable) { }`.
func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.cur
	fs := &ast.ForStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	if !p.expect(token.LPAREN, "'('") {
		return fs
	}
	p.expect(token.IDENT, "loop variable")
	if !p.expect(token.IN, "'in'") {
		return fs
	}
	p.next()
	fs.Iterable = p.parseExpression(precLowest)
	if !p.expect(token.RPAREN, "')'") {
		return fs
	}
	if !p.expect(token.LBRACE, "'{'") {
		return fs
	}
	fs.Body = p.parseBlock()
	return fs
}

// parseWhileStatement models the condition-style loop as a ForStatement
// with Condition set instead of Iterable.
func (p *Parser) parseWhileStatement() *ast.ForStatement {
	tok := p.cur
	fs := &ast.ForStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	if !p.expect(token.LPAREN, "'('") {
		return fs
	}
	p.next()
	fs.Condition = p.parseExpression(precLowest)
	if !p.expect(token.RPAREN, "')'") {
		return fs
	}
	if !p.expect(token.LBRACE, "'{'") {
		return fs
	}
	fs.Body = p.parseBlock()
	return fs
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	tok := p.cur
	bs := &ast.BreakStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	if !p.peekIs(token.SEMI) && !p.peekIs(token.RBRACE) {
		p.next()
		bs.Value = p.parseExpression(precLowest)
	}
	return bs
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.cur
	rs := &ast.ReturnStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	if !p.peekIs(token.SEMI) && !p.peekIs(token.RBRACE) {
		p.next()
		rs.Value = p.parseExpression(precLowest)
	}
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return rs
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	tok := p.cur
	ss := &ast.SwitchStatement{BaseStmt: ast.BaseStmt{Token: tok}}
	if !p.expect(token.LPAREN, "'('") {
		return ss
	}
	p.next()
	ss.Subject = p.parseExpression(precLowest)
	if !p.expect(token.RPAREN, "')'") {
		return ss
	}
	if !p.expect(token.LBRACE, "'{'") {
		return ss
	}
	p.next()

	for p.curIs(token.CASE) || p.curIs(token.DEFAULT) {
		ss.Cases = append(ss.Cases, p.parseSwitchCase())
		p.next()
	}
	return ss
}

func (p *Parser) parseSwitchCase() *ast.SwitchCase {
	sc := &ast.SwitchCase{Token: p.cur}
	if p.curIs(token.CASE) {
		for {
			p.next()
			sc.Patterns = append(sc.Patterns, p.parseConstructorPattern())
			if !p.peekIs(token.COMMA) {
				break
			}
			p.next()
		}
	}
	if !p.expect(token.COLON, "':'") {
		return sc
	}
	if p.peekIs(token.LBRACE) {
		p.next()
		sc.Result = p.parseBlock()
		return sc
	}
	p.next()
	var stmts []ast.Statement
	for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.peekIs(token.CASE) || p.peekIs(token.DEFAULT) || p.peekIs(token.RBRACE) {
			break
		}
		p.next()
	}
	sc.Result = &ast.BlockStatement{BaseStmt: ast.BaseStmt{Token: sc.Token}, Statements: stmts}
	return sc
}

// parseConstructorPattern parses `ClassName(field, field)` or a bare
// identifier as the class name with no field bindings.
func (p *Parser) parseConstructorPattern() *ast.ConstructorPattern {
	cp := &ast.ConstructorPattern{Token: p.cur, ClassName: p.cur.Lexeme}
	if p.peekIs(token.LPAREN) {
		p.next()
		if p.peekIs(token.RPAREN) {
			p.next()
			return cp
		}
		p.next()
		for {
			cp.FieldBinds = append(cp.FieldBinds, p.parseExpression(precLowest))
			if !p.peekIs(token.COMMA) {
				break
			}
			p.next()
			p.next()
		}
		p.expect(token.RPAREN, "')'")
	}
	return cp
}
