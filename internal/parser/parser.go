// Package parser implements a Pratt (precedence-climbing) recursive
// descent parser producing the AST defined in internal/ast. Like the
// lexer, it is an external collaborator — not one of
// the three core engineered subsystems — but is required to drive
// the evaluator and codec end to end.
package parser

import (
	"fmt"
	"strconv"

	"github.com/mochacinno-dev/zephyr/internal/ast"
	"github.com/mochacinno-dev/zephyr/internal/lexer"
	"github.com/mochacinno-dev/zephyr/internal/token"
)

const (
	_ int = iota
	LOWEST
	ASSIGN
	OR
	AND
	EQUALS
	LESSGREATER
	RANGE
	SUM
	PRODUCT
	PREFIX
	POSTFIX
	CALL
)

var precedences = map[token.Kind]int{
	token.ASSIGN:   ASSIGN,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NEQ:      EQUALS,
	token.LT:       LESSGREATER,
	token.LTEQ:     LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTEQ:     LESSGREATER,
	token.DOTDOT:   RANGE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.QUESTION: POSTFIX,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
	token.LBRACKET: CALL,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser consumes tokens from a Lexer and builds a Program.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New creates a Parser over the given source text.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	p.nextToken()

	p.prefixFns = map[token.Kind]prefixParseFn{
		token.INT:           p.parseIntLiteral,
		token.FLOAT:         p.parseFloatLiteral,
		token.TRUE:          p.parseBoolLiteral,
		token.FALSE:         p.parseBoolLiteral,
		token.NIL:           func() ast.Expr { return &ast.NilLit{} },
		token.STRING:        p.parseStringLiteral,
		token.INTERP_STRING: p.parseInterpString,
		token.IDENT:         p.parseIdentifier,
		token.UNDERSCORE:    p.parseIdentifier,
		token.LPAREN:        p.parseParenOrTuple,
		token.LBRACKET:      p.parseListLiteral,
		token.LBRACE:        p.parseBlockOrMap,
		token.MINUS:         p.parsePrefix,
		token.BANG:          p.parsePrefix,
		token.BOX:           p.parsePrefix,
		token.REF:           p.parsePrefix,
		token.IF:            p.parseIfExpr,
		token.MATCH:         p.parseMatchExpr,
		token.PIPE:          p.parseClosure,
		token.SOME:          p.parseWrapExpr,
		token.OK:            p.parseWrapExpr,
		token.ERR:           p.parseWrapExpr,
	}
	p.infixFns = map[token.Kind]infixParseFn{
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.STAR:     p.parseBinary,
		token.SLASH:    p.parseBinary,
		token.PERCENT:  p.parseBinary,
		token.EQ:       p.parseBinary,
		token.NEQ:      p.parseBinary,
		token.LT:       p.parseBinary,
		token.LTEQ:     p.parseBinary,
		token.GT:       p.parseBinary,
		token.GTEQ:     p.parseBinary,
		token.AND:      p.parseBinary,
		token.OR:       p.parseBinary,
		token.DOTDOT:   p.parseBinary,
		token.ASSIGN:   p.parseAssign,
		token.LPAREN:   p.parseCall,
		token.DOT:      p.parseDot,
		token.LBRACKET: p.parseIndex,
		token.QUESTION: p.parseQuestion,
	}
	return p
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.cur.Line, msg))
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token %s, got %s (%q)", k, p.peek.Kind, p.peek.Lexeme)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the entire token stream into a Program.
func ParseProgram(input string) (*ast.Program, []string) {
	p := New(input)
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
		p.nextToken()
	}
	return prog, p.errors
}

// skipSemis consumes any number of trailing ';' separators.
func (p *Parser) skipSemis() {
	for p.curIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errorf("no prefix parse function for %s", p.cur.Kind)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIntLiteral() ast.Expr {
	v, err := strconv.ParseInt(p.cur.Lexeme, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", p.cur.Lexeme)
		return nil
	}
	return &ast.IntLit{Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	v, err := strconv.ParseFloat(p.cur.Lexeme, 64)
	if err != nil {
		p.errorf("invalid float literal %q", p.cur.Lexeme)
		return nil
	}
	return &ast.FloatLit{Value: v}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return &ast.BoolLit{Value: p.curIs(token.TRUE)}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return &ast.StringLit{Value: p.cur.Lexeme}
}

// parseInterpString splits the raw lexeme (with ${...} markers intact)
// into literal/interpolated StringParts, re-parsing each ${expr}.
func (p *Parser) parseInterpString() ast.Expr {
	raw := p.cur.Lexeme
	var parts []ast.StringPart
	var lit []byte
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			if len(lit) > 0 {
				parts = append(parts, ast.LiteralPart{Text: string(lit)})
				lit = nil
			}
			depth := 1
			j := i + 2
			start := j
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			exprSrc := raw[start:j]
			sub := New(exprSrc)
			e := sub.parseExpression(LOWEST)
			if e != nil {
				parts = append(parts, ast.InterpPart{Expr: e})
			}
			p.errors = append(p.errors, sub.errors...)
			i = j + 1
			continue
		}
		lit = append(lit, raw[i])
		i++
	}
	if len(lit) > 0 {
		parts = append(parts, ast.LiteralPart{Text: string(lit)})
	}
	return &ast.InterpString{Parts: parts}
}

func (p *Parser) parseIdentifier() ast.Expr {
	name := p.cur.Lexeme
	if p.peekIs(token.COLONCOLON) {
		p.nextToken()
		p.expect(token.IDENT)
		variant := p.cur.Lexeme
		var args []ast.Expr
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			args = p.parseExprList(token.RPAREN)
		}
		return &ast.EnumVariantExpr{Enum: name, Variant: variant, Args: args}
	}
	if p.peekIs(token.LBRACE) && isUpper(name) && p.braceStartsStruct() {
		p.nextToken()
		p.nextToken()
		var fields []ast.StructFieldInit
		for !p.curIs(token.RBRACE) {
			fname := p.cur.Lexeme
			p.expect(token.COLON)
			p.nextToken()
			fval := p.parseExpression(LOWEST)
			fields = append(fields, ast.StructFieldInit{Name: fname, Value: fval})
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			p.nextToken()
		}
		return &ast.StructCreateExpr{Name: name, Fields: fields}
	}
	return &ast.Var{Name: name}
}

// braceStartsStruct looks ahead past '{' to see IDENT ':' which signals
// a struct-literal field rather than, e.g., a block used as a call arg.
func (p *Parser) braceStartsStruct() bool {
	save, lexSave := *p, *p.l
	p.nextToken()
	p.nextToken() // consume '{' -> cur is first token inside
	isField := p.curIs(token.RBRACE) || (p.curIs(token.IDENT) && p.peekIs(token.COLON))
	*p, *p.l = save, lexSave
	return isField
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	p.nextToken()
	if p.curIs(token.RPAREN) {
		return &ast.TupleExpr{}
	}
	first := p.parseExpression(LOWEST)
	if p.peekIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RPAREN) {
				break
			}
			p.nextToken()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.expect(token.RPAREN)
		return &ast.TupleExpr{Elems: elems}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseListLiteral() ast.Expr {
	elems := p.parseExprList(token.RBRACKET)
	return &ast.ListExpr{Elems: elems}
}

func (p *Parser) parseExprList(end token.Kind) []ast.Expr {
	var list []ast.Expr
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(end) {
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expect(end)
	return list
}

// parseBlockOrMap disambiguates `{ stmts... }` from `{ k: v, ... }`.
func (p *Parser) parseBlockOrMap() ast.Expr {
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return &ast.BlockExpr{}
	}
	// Heuristic: STRING/IDENT ':' at top of braces (not '::') means a map literal.
	if (p.peekIs(token.STRING) || p.peekIs(token.IDENT)) {
		save, lexSave := *p, *p.l
		p.nextToken()
		isMap := p.peekIs(token.COLON)
		*p, *p.l = save, lexSave
		if isMap {
			return p.parseMapLiteral()
		}
	}
	return p.parseBlockBody()
}

func (p *Parser) parseMapLiteral() ast.Expr {
	m := &ast.MapExpr{}
	p.nextToken()
	for {
		key := p.parseExpression(LOWEST)
		p.expect(token.COLON)
		p.nextToken()
		val := p.parseExpression(LOWEST)
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, val)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RBRACE) {
				break
			}
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return m
}

// parseBlockBody parses `{ stmt* expr? }` assuming cur is '{'.
func (p *Parser) parseBlockBody() ast.Expr {
	blk := &ast.BlockExpr{}
	p.nextToken()
	p.skipSemis()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if isStatementStart(p.cur.Kind) {
			blk.Stmts = append(blk.Stmts, p.parseStatement())
			p.nextToken()
			p.skipSemis()
			continue
		}
		expr := p.parseExpression(LOWEST)
		if p.peekIs(token.SEMICOLON) {
			blk.Stmts = append(blk.Stmts, &ast.ExprStmt{Expr: expr})
			p.nextToken()
			p.skipSemis()
			continue
		}
		p.nextToken()
		blk.Tail = expr
		break
	}
	if !p.curIs(token.RBRACE) {
		p.errorf("expected } to close block, got %s", p.cur.Kind)
	}
	return blk
}

func isStatementStart(k token.Kind) bool {
	switch k {
	case token.LET, token.VAR, token.RETURN, token.BREAK, token.CONTINUE,
		token.WHILE, token.FOR, token.FUN, token.STRUCT, token.ENUM,
		token.IMPL, token.MOD, token.IMPORT, token.TYPE, token.PUB:
		return true
	}
	return false
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Kind {
	case token.MINUS:
		p.nextToken()
		return &ast.UnaryExpr{Op: ast.Neg, Operand: p.parseExpression(PREFIX)}
	case token.BANG:
		p.nextToken()
		return &ast.UnaryExpr{Op: ast.Not, Operand: p.parseExpression(PREFIX)}
	case token.BOX:
		p.nextToken()
		return &ast.BoxExpr{Inner: p.parseExpression(PREFIX)}
	case token.REF:
		p.nextToken()
		return &ast.RefExpr{Inner: p.parseExpression(PREFIX)}
	}
	return nil
}

func (p *Parser) parseWrapExpr() ast.Expr {
	kind := p.cur.Kind
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	switch kind {
	case token.SOME:
		return &ast.SomeExpr{Inner: inner}
	case token.OK:
		return &ast.OkExpr{Inner: inner}
	case token.ERR:
		return &ast.ErrExpr{Inner: inner}
	}
	return nil
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	var op ast.BinOp
	switch p.cur.Kind {
	case token.PLUS:
		op = ast.Add
	case token.MINUS:
		op = ast.Sub
	case token.STAR:
		op = ast.Mul
	case token.SLASH:
		op = ast.Div
	case token.PERCENT:
		op = ast.Mod
	case token.EQ:
		op = ast.Eq
	case token.NEQ:
		op = ast.NotEq
	case token.LT:
		op = ast.Lt
	case token.LTEQ:
		op = ast.LtEq
	case token.GT:
		op = ast.Gt
	case token.GTEQ:
		op = ast.GtEq
	case token.AND:
		op = ast.And
	case token.OR:
		op = ast.Or
	case token.DOTDOT:
		op = ast.DotDot
	}
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Left: left, Op: op, Right: right}
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	p.nextToken()
	val := p.parseExpression(ASSIGN - 1)
	return &ast.AssignExpr{Target: left, Value: val}
}

func (p *Parser) parseQuestion(left ast.Expr) ast.Expr {
	return &ast.QuestionExpr{Inner: left}
}

func (p *Parser) parseDot(left ast.Expr) ast.Expr {
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Lexeme
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		args := p.parseExprList(token.RPAREN)
		return &ast.MethodCallExpr{Receiver: left, Method: name, Args: args}
	}
	return &ast.FieldAccessExpr{Receiver: left, Field: name}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Receiver: left, Index: idx}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	args := p.parseExprList(token.RPAREN)
	if v, ok := left.(*ast.Var); ok {
		if p.isKnownEnum(v.Name) {
			// handled elsewhere; plain calls only here
			_ = v
		}
	}
	return &ast.CallExpr{Callee: left, Args: args}
}

func (p *Parser) isKnownEnum(string) bool { return false }

func (p *Parser) parseIfExpr() ast.Expr {
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	then := p.parseBlockBody()

	ifExpr := &ast.IfExpr{Cond: cond, Then: then}
	for p.peekIs(token.ELIF) {
		p.nextToken()
		p.nextToken()
		c := p.parseExpression(LOWEST)
		if !p.expect(token.LBRACE) {
			return nil
		}
		b := p.parseBlockBody()
		ifExpr.Elifs = append(ifExpr.Elifs, ast.ElifBranch{Cond: c, Body: b})
	}
	if p.peekIs(token.ELSE) {
		p.nextToken()
		if p.peekIs(token.IF) {
			p.nextToken()
			ifExpr.Else = p.parseIfExpr()
			return ifExpr
		}
		if !p.expect(token.LBRACE) {
			return nil
		}
		ifExpr.Else = p.parseBlockBody()
	}
	return ifExpr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	p.nextToken()
	subject := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()
	p.skipSemis()
	m := &ast.MatchExpr{Subject: subject}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.peekIs(token.IF) {
			p.nextToken()
			p.nextToken()
			guard = p.parseExpression(LOWEST)
		}
		if !p.expect(token.FATARROW) {
			return nil
		}
		p.nextToken()
		body := p.parseExpression(LOWEST)
		m.Arms = append(m.Arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
		p.skipSemis()
	}
	return m
}

func (p *Parser) parseClosure() ast.Expr {
	var params []ast.ClosureParam
	p.nextToken()
	for !p.curIs(token.PIPE) {
		name := p.cur.Lexeme
		var ty ast.Type
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			ty = p.parseType()
		}
		params = append(params, ast.ClosureParam{Name: name, Type: ty})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	if !p.expect(token.FATARROW) {
		if !p.peekIs(token.LBRACE) {
			return nil
		}
	}
	p.nextToken()
	var body ast.Expr
	if p.curIs(token.LBRACE) {
		body = p.parseBlockBody()
	} else {
		body = p.parseExpression(LOWEST)
	}
	return &ast.ClosureExpr{Params: params, Body: body}
}

// --- Types ---

func (p *Parser) parseType() ast.Type {
	switch p.cur.Kind {
	case token.IDENT:
		switch p.cur.Lexeme {
		case "Int":
			return ast.IntType{}
		case "Float":
			return ast.FloatType{}
		case "Bool":
			return ast.BoolType{}
		case "String":
			return ast.StringType{}
		case "Nil":
			return ast.NilType{}
		case "Option":
			p.expect(token.LT)
			p.nextToken()
			inner := p.parseType()
			p.expect(token.GT)
			return &ast.OptionType{Inner: inner}
		case "Result":
			p.expect(token.LT)
			p.nextToken()
			ok := p.parseType()
			p.expect(token.COMMA)
			p.nextToken()
			errT := p.parseType()
			p.expect(token.GT)
			return &ast.ResultType{Ok: ok, Err: errT}
		case "List":
			p.expect(token.LT)
			p.nextToken()
			inner := p.parseType()
			p.expect(token.GT)
			return &ast.ListType{Elem: inner}
		case "Map":
			p.expect(token.LT)
			p.nextToken()
			k := p.parseType()
			p.expect(token.COMMA)
			p.nextToken()
			v := p.parseType()
			p.expect(token.GT)
			return &ast.MapType{Key: k, Value: v}
		default:
			name := p.cur.Lexeme
			if p.peekIs(token.LT) {
				p.nextToken()
				p.nextToken()
				var args []ast.Type
				args = append(args, p.parseType())
				for p.peekIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					args = append(args, p.parseType())
				}
				p.expect(token.GT)
				return &ast.GenericType{Name: name, Args: args}
			}
			return &ast.NamedType{Name: name}
		}
	case token.LPAREN:
		p.nextToken()
		var elems []ast.Type
		if !p.curIs(token.RPAREN) {
			elems = append(elems, p.parseType())
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parseType())
			}
			p.expect(token.RPAREN)
		}
		if p.peekIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			ret := p.parseType()
			return &ast.FuncType{Params: elems, Return: ret}
		}
		return &ast.TupleType{Elems: elems}
	}
	return &ast.InferredType{}
}

// --- Patterns ---

func (p *Parser) parsePattern() ast.Pattern {
	return p.parseOrPattern()
}

func (p *Parser) parseOrPattern() ast.Pattern {
	left := p.parseRangePattern()
	for p.peekIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		right := p.parseRangePattern()
		left = &ast.OrPattern{Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRangePattern() ast.Pattern {
	left := p.parsePrimaryPattern()
	if p.peekIs(token.DOTDOT) {
		p.nextToken()
		p.nextToken()
		right := p.parsePrimaryPattern()
		return &ast.RangePattern{Low: left, High: right}
	}
	return left
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.cur.Kind {
	case token.UNDERSCORE:
		return &ast.WildcardPattern{}
	case token.NIL:
		return &ast.NilPattern{}
	case token.TRUE, token.FALSE:
		return &ast.BoolPattern{Value: p.curIs(token.TRUE)}
	case token.INT:
		v, _ := strconv.ParseInt(p.cur.Lexeme, 10, 64)
		return &ast.IntPattern{Value: v}
	case token.FLOAT:
		v, _ := strconv.ParseFloat(p.cur.Lexeme, 64)
		return &ast.FloatPattern{Value: v}
	case token.STRING:
		return &ast.StringPattern{Value: p.cur.Lexeme}
	case token.MINUS:
		p.nextToken()
		if p.curIs(token.INT) {
			v, _ := strconv.ParseInt(p.cur.Lexeme, 10, 64)
			return &ast.IntPattern{Value: -v}
		}
		v, _ := strconv.ParseFloat(p.cur.Lexeme, 64)
		return &ast.FloatPattern{Value: -v}
	case token.SOME:
		p.expect(token.LPAREN)
		p.nextToken()
		inner := p.parsePattern()
		p.expect(token.RPAREN)
		return &ast.SomePattern{Inner: inner}
	case token.OK:
		p.expect(token.LPAREN)
		p.nextToken()
		inner := p.parsePattern()
		p.expect(token.RPAREN)
		return &ast.OkPattern{Inner: inner}
	case token.ERR:
		p.expect(token.LPAREN)
		p.nextToken()
		inner := p.parsePattern()
		p.expect(token.RPAREN)
		return &ast.ErrPattern{Inner: inner}
	case token.LPAREN:
		p.nextToken()
		var elems []ast.Pattern
		if !p.curIs(token.RPAREN) {
			elems = append(elems, p.parsePattern())
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parsePattern())
			}
			p.expect(token.RPAREN)
		}
		return &ast.TuplePattern{Elems: elems}
	case token.LBRACKET:
		p.nextToken()
		var elems []ast.Pattern
		if !p.curIs(token.RBRACKET) {
			elems = append(elems, p.parsePattern())
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parsePattern())
			}
			p.expect(token.RBRACKET)
		}
		return &ast.ListPattern{Elems: elems}
	case token.IDENT:
		name := p.cur.Lexeme
		if p.peekIs(token.COLONCOLON) {
			p.nextToken()
			p.expect(token.IDENT)
			variant := p.cur.Lexeme
			var fields []ast.Pattern
			if p.peekIs(token.LPAREN) {
				p.nextToken()
				p.nextToken()
				if !p.curIs(token.RPAREN) {
					fields = append(fields, p.parsePattern())
					for p.peekIs(token.COMMA) {
						p.nextToken()
						p.nextToken()
						fields = append(fields, p.parsePattern())
					}
					p.expect(token.RPAREN)
				}
			}
			return &ast.EnumVariantPattern{Enum: name, Variant: variant, Fields: fields}
		}
		if p.peekIs(token.LBRACE) && isUpper(name) {
			p.nextToken()
			p.nextToken()
			var fields []ast.StructFieldPattern
			for !p.curIs(token.RBRACE) {
				fname := p.cur.Lexeme
				p.expect(token.COLON)
				p.nextToken()
				fpat := p.parsePattern()
				fields = append(fields, ast.StructFieldPattern{Name: fname, Pattern: fpat})
				if p.peekIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					continue
				}
				p.nextToken()
			}
			return &ast.StructPattern{Name: name, Fields: fields}
		}
		return &ast.IdentPattern{Name: name}
	}
	p.errorf("unexpected token in pattern: %s", p.cur.Kind)
	return &ast.WildcardPattern{}
}

func isUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}
