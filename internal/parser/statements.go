package parser

import (
	"github.com/mochacinno-dev/zephyr/internal/ast"
	"github.com/mochacinno-dev/zephyr/internal/token"
)

// parseStatement parses one statement; cur is positioned at its first token.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLet(true)
	case token.VAR:
		return p.parseLet(false)
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return &ast.BreakStmt{}
	case token.CONTINUE:
		return &ast.ContinueStmt{}
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.PUB:
		p.nextToken()
		return p.parsePubStatement()
	case token.FUN:
		return &ast.FunDefStmt{Fun: p.parseFunDef(false)}
	case token.STRUCT:
		return &ast.StructDefStmt{Struct: p.parseStructDef(false)}
	case token.ENUM:
		return &ast.EnumDefStmt{Enum: p.parseEnumDef(false)}
	case token.IMPL:
		return &ast.ImplBlockStmt{Impl: p.parseImplBlock()}
	case token.MOD:
		return p.parseModDef()
	case token.IMPORT:
		return p.parseImport()
	case token.TYPE:
		return p.parseTypeAlias()
	default:
		expr := p.parseExpression(LOWEST)
		return &ast.ExprStmt{Expr: expr}
	}
}

func (p *Parser) parsePubStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.FUN:
		return &ast.FunDefStmt{Fun: p.parseFunDef(true)}
	case token.STRUCT:
		return &ast.StructDefStmt{Struct: p.parseStructDef(true)}
	case token.ENUM:
		return &ast.EnumDefStmt{Enum: p.parseEnumDef(true)}
	}
	return &ast.ExprStmt{Expr: p.parseExpression(LOWEST)}
}

func (p *Parser) parseLet(mutableIsFalseForLet bool) ast.Stmt {
	// `let` bindings are spec'd as assignment-or-define capable like `var`;
	// the is_mutable flag is carried (serialized) but not enforced.
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	var ty ast.Type
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ty = p.parseType()
	}
	p.expect(token.ASSIGN)
	p.nextToken()
	val := p.parseExpression(LOWEST)
	return &ast.LetStmt{Name: name, Type: ty, Value: val, Mutable: !mutableIsFalseForLet}
}

func (p *Parser) parseReturn() ast.Stmt {
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.RBRACE) {
		return &ast.ReturnStmt{}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	return &ast.ReturnStmt{Value: val}
}

func (p *Parser) parseWhile() ast.Stmt {
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseStmtList()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	p.expect(token.IDENT)
	varName := p.cur.Lexeme
	p.expect(token.IN)
	p.nextToken()
	iter := p.parseExpression(LOWEST)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseStmtList()
	return &ast.ForStmt{Var: varName, Iter: iter, Body: body}
}

// parseStmtList parses `{ stmt* }` assuming cur == '{'; leaves cur on '}'.
func (p *Parser) parseStmtList() []ast.Stmt {
	var stmts []ast.Stmt
	p.nextToken()
	p.skipSemis()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		p.nextToken()
		p.skipSemis()
	}
	return stmts
}

func (p *Parser) parseFunDef(isPub bool) *ast.FunDef {
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	generics := p.parseOptGenerics()
	p.expect(token.LPAREN)
	params := p.parseParams()
	var ret ast.Type
	if p.peekIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseStmtList()
	return &ast.FunDef{Name: name, Generics: generics, Params: params, ReturnType: ret, Body: body, IsPub: isPub}
}

func (p *Parser) parseOptGenerics() []string {
	if !p.peekIs(token.LT) {
		return nil
	}
	p.nextToken()
	p.nextToken()
	var gs []string
	gs = append(gs, p.cur.Lexeme)
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		gs = append(gs, p.cur.Lexeme)
	}
	p.expect(token.GT)
	return gs
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		name := p.cur.Lexeme
		var ty ast.Type
		var def ast.Expr
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			ty = p.parseType()
		}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def = p.parseExpression(LOWEST)
		}
		params = append(params, ast.Param{Name: name, Type: ty, Default: def})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseStructDef(isPub bool) *ast.StructDef {
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	generics := p.parseOptGenerics()
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()
	var fields []ast.StructField
	for !p.curIs(token.RBRACE) {
		fieldPub := false
		if p.curIs(token.PUB) {
			fieldPub = true
			p.nextToken()
		}
		fname := p.cur.Lexeme
		p.expect(token.COLON)
		p.nextToken()
		fty := p.parseType()
		fields = append(fields, ast.StructField{Name: fname, Type: fty, IsPub: fieldPub})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return &ast.StructDef{Name: name, Generics: generics, Fields: fields, IsPub: isPub}
}

func (p *Parser) parseEnumDef(isPub bool) *ast.EnumDef {
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	generics := p.parseOptGenerics()
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()
	var variants []ast.EnumVariant
	for !p.curIs(token.RBRACE) {
		vname := p.cur.Lexeme
		var fields []ast.Type
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			if !p.curIs(token.RPAREN) {
				fields = append(fields, p.parseType())
				for p.peekIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					fields = append(fields, p.parseType())
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Name: vname, Fields: fields})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return &ast.EnumDef{Name: name, Generics: generics, Variants: variants, IsPub: isPub}
}

func (p *Parser) parseImplBlock() *ast.ImplBlock {
	p.expect(token.IDENT)
	target := p.cur.Lexeme
	generics := p.parseOptGenerics()
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()
	p.skipSemis()
	var methods []*ast.FunDef
	for !p.curIs(token.RBRACE) {
		isPub := false
		if p.curIs(token.PUB) {
			isPub = true
			p.nextToken()
		}
		methods = append(methods, p.parseFunDef(isPub))
		p.nextToken()
		p.skipSemis()
	}
	return &ast.ImplBlock{Target: target, Generics: generics, Methods: methods}
}

func (p *Parser) parseModDef() ast.Stmt {
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	if !p.expect(token.LBRACE) {
		return nil
	}
	stmts := p.parseStmtList()
	return &ast.ModDefStmt{Name: name, Stmts: stmts}
}

func (p *Parser) parseImport() ast.Stmt {
	p.nextToken()
	var path []string
	path = append(path, p.cur.Lexeme)
	for p.peekIs(token.COLONCOLON) || p.peekIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		path = append(path, p.cur.Lexeme)
	}
	return &ast.ImportStmt{Path: path}
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	p.expect(token.IDENT)
	name := p.cur.Lexeme
	generics := p.parseOptGenerics()
	p.expect(token.ASSIGN)
	p.nextToken()
	ty := p.parseType()
	return &ast.TypeAliasStmt{Name: name, Generics: generics, Type: ty}
}
