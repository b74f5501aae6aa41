// Package parser implements the tiny recursive-descent
// expression/statement parser of SPEC_FULL.md §6: enough grammar to
// drive tests and the `zsc c -e` one-liner path (variable declarations,
// function declarations, calls including the generic `Box[Int32]`
// square-call form, control flow, imports), not a complete Pratt
// parser — operator precedence beyond the fixed table below, custom
// user-defined operator fixity, and full class/typeclass syntax are
// out of scope for this stub.
package parser

import (
	"fmt"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/token"
)

// Parse lexes and parses source into a Program for document. It
// satisfies driver.ParseFunc's shape without importing internal/driver
// (driver imports parser-shaped functions by value, never the other
// way around).
func Parse(document, source string) (*ast.Program, error) {
	p := &parser{lex: newLexer(document, source)}
	p.advance()
	p.advance()
	stmts, err := p.parseStatements(token.EOF)
	if err != nil {
		return nil, err
	}
	span := token.Span{Document: document}
	if len(stmts) > 0 {
		span = token.Join(stmts[0].Pos(), stmts[len(stmts)-1].Pos())
	}
	return ast.NewProgram(document, span, stmts), nil
}

type parser struct {
	lex  *lexer
	cur  token.Token
	peek token.Token
	// typePos is set while parsing a type expression, where a
	// following `{` opens a body rather than a curly call.
	typePos bool
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

func (p *parser) at(k token.Kind) bool     { return p.cur.Kind == k }
func (p *parser) peekAt(k token.Kind) bool { return p.peek.Kind == k }

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, fmt.Errorf("parser: %s: expected %s, got %s %q", p.cur.Span, k, p.cur.Kind, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// parseStatements reads statements until the current token is end.
func (p *parser) parseStatements(end token.Kind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.at(end) && !p.at(token.EOF) {
		for p.at(token.SEMI) {
			p.advance()
		}
		if p.at(end) || p.at(token.EOF) {
			break
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		for p.at(token.SEMI) {
			p.advance()
		}
	}
	return stmts, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Kind {
	case token.VAR, token.LET:
		return p.parseVar()
	case token.FUN:
		return p.parseFunction()
	case token.CLASS:
		return p.parseClass()
	case token.MODULE:
		return p.parseModule()
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.cur
		p.advance()
		label := ""
		if p.at(token.IDENT) {
			label = p.cur.Lexeme
			p.advance()
		}
		return ast.NewBreak(tok, label), nil
	case token.CONTINUE:
		tok := p.cur
		p.advance()
		label := ""
		if p.at(token.IDENT) {
			label = p.cur.Lexeme
			p.advance()
		}
		return ast.NewContinue(tok, label), nil
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewExpressionStatement(expr), nil
	}
}

func (p *parser) parseVar() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpression
	if p.at(token.COLON) {
		p.advance()
		typ, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	}
	var init ast.Expression
	if p.at(token.ASSIGN) {
		p.advance()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewVar(tok, name, typ, init), nil
}

func (p *parser) parseIdentifier() (*ast.Identifier, error) {
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewIdentifier(tok), nil
}

// parseTypeExpression parses the subset of expression grammar valid
// in type position: a name, optionally member-accessed and/or
// generically instantiated (`Box[Int32]`, spec.md §3 TypeExpression).
func (p *parser) parseTypeExpression() (ast.TypeExpression, error) {
	saved := p.typePos
	p.typePos = true
	expr, err := p.parsePostfix()
	p.typePos = saved
	if err != nil {
		return nil, err
	}
	te, ok := expr.(ast.TypeExpression)
	if !ok {
		return nil, fmt.Errorf("parser: %s: not valid in type position", expr.Pos())
	}
	return te, nil
}

func (p *parser) parseFunction() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	var generics []*ast.GenericParameter
	if p.at(token.LBRACKET) {
		generics, err = p.parseGenericParams()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	for !p.at(token.RPAREN) {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	var ret ast.TypeExpression
	if p.at(token.COLON) {
		p.advance()
		ret, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	}
	var body *ast.Block
	if p.at(token.LBRACE) {
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewFunction(tok, name, generics, params, ret, body), nil
}

func (p *parser) parseGenericParams() ([]*ast.GenericParameter, error) {
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	var gens []*ast.GenericParameter
	for !p.at(token.RBRACKET) {
		start := p.cur.Span
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		var constraint ast.TypeExpression
		if p.at(token.COLON) {
			p.advance()
			constraint, err = p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
		}
		gens = append(gens, ast.NewGenericParameter(start, name, constraint))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return gens, nil
}

func (p *parser) parseParameter() (*ast.Parameter, error) {
	start := p.cur.Span
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpression
	if p.at(token.COLON) {
		p.advance()
		typ, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	}
	var def ast.Expression
	if p.at(token.ASSIGN) {
		p.advance()
		def, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewParameter(start, name, typ, ast.Positional, def), nil
}

func (p *parser) parseClass() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	var generics []*ast.GenericParameter
	if p.at(token.LBRACKET) {
		generics, err = p.parseGenericParams()
		if err != nil {
			return nil, err
		}
	}
	var bases []ast.TypeExpression
	if p.at(token.COLON) {
		p.advance()
		for {
			te, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			bases = append(bases, te)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	items, err := p.parseStatements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewClass(tok, name, generics, bases, items), nil
}

func (p *parser) parseModule() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	items, err := p.parseStatements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewModule(tok, name, items), nil
}

func (p *parser) parseImportedSymbols() ([]ast.ImportedSymbol, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var syms []ast.ImportedSymbol
	for !p.at(token.RBRACE) {
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		var alias *ast.Identifier
		if p.at(token.AS) {
			p.advance()
			alias, err = p.parseIdentifier()
			if err != nil {
				return nil, err
			}
		}
		syms = append(syms, ast.ImportedSymbol{Name: name, Alias: alias})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return syms, nil
}

func (p *parser) parseImport() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	syms, err := p.parseImportedSymbols()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	src, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	return ast.NewImport(tok, syms, unquote(src.Lexeme)), nil
}

func (p *parser) parseExport() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	if p.at(token.OPERATOR) && p.cur.Lexeme == "*" {
		p.advance()
		src := ""
		if p.at(token.FROM) {
			p.advance()
			s, err := p.expect(token.STRING)
			if err != nil {
				return nil, err
			}
			src = unquote(s.Lexeme)
		}
		return ast.NewExport(tok, true, nil, src), nil
	}
	syms, err := p.parseImportedSymbols()
	if err != nil {
		return nil, err
	}
	src := ""
	if p.at(token.FROM) {
		p.advance()
		s, err := p.expect(token.STRING)
		if err != nil {
			return nil, err
		}
		src = unquote(s.Lexeme)
	}
	return ast.NewExport(tok, false, syms, src), nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	tok := p.cur
	p.advance()
	if p.at(token.SEMI) || p.at(token.RBRACE) || p.at(token.EOF) {
		return ast.NewReturn(tok, nil), nil
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(tok, val), nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	start, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(token.Join(start.Span, end.Span), stmts), nil
}

// --- Expressions ---

// binaryPrecedence is the fixed table this stub supports, lowest to
// highest. Assignment is handled separately, below all of these, and
// right-associative.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.at(token.ASSIGN) {
		p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(token.Join(left.Pos(), value.Pos()), left, value), nil
	}
	return left, nil
}

func (p *parser) parseBinary(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := p.peekBinaryOp()
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right)
	}
}

func (p *parser) peekBinaryOp() (token.Token, int, bool) {
	if p.cur.Kind != token.OPERATOR {
		return token.Token{}, 0, false
	}
	prec, ok := binaryPrecedence[p.cur.Lexeme]
	return p.cur, prec, ok
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if p.at(token.OPERATOR) && (p.cur.Lexeme == "-" || p.cur.Lexeme == "!" || p.cur.Lexeme == "~") {
		op := p.cur
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op, operand), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any number of
// `.member`, `(args)` and `[args]` trailers (spec.md §4.4: `()`,
// `[]`, `{}` select distinct call protocols).
func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.DOT):
			p.advance()
			member, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccess(token.Join(expr.Pos(), member.Pos()), expr, member)
		case p.at(token.LPAREN):
			expr, err = p.parseCallArgs(expr, ast.CurvyCall, token.LPAREN, token.RPAREN)
			if err != nil {
				return nil, err
			}
		case p.at(token.LBRACKET):
			expr, err = p.parseCallArgs(expr, ast.SquareCall, token.LBRACKET, token.RBRACKET)
			if err != nil {
				return nil, err
			}
		case p.at(token.LBRACE) && !p.typePos:
			expr, err = p.parseCallArgs(expr, ast.CurlyCall, token.LBRACE, token.RBRACE)
			if err != nil {
				return nil, err
			}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseCallArgs(callee ast.Expression, bracket ast.CallBracket, open, close token.Kind) (ast.Expression, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var args []ast.Argument
	for !p.at(close) {
		name := ""
		if p.at(token.IDENT) && p.peekAt(token.COLON) {
			name = p.cur.Lexeme
			p.advance()
			p.advance()
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Name: name, Value: val})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end, err := p.expect(close)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(token.Join(callee.Pos(), end.Span), callee, bracket, args), nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	switch p.cur.Kind {
	case token.IDENT:
		return p.parseIdentifier()
	case token.INT:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitInt), nil
	case token.FLOAT:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitFloat), nil
	case token.STRING:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitString), nil
	case token.TRUE, token.FALSE:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitBool), nil
	case token.NULL:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitNull), nil
	case token.UNIT:
		tok := p.cur
		p.advance()
		return ast.NewLiteral(tok, ast.LitUnit), nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	default:
		return nil, fmt.Errorf("parser: %s: unexpected token %s %q", p.cur.Span, p.cur.Kind, p.cur.Lexeme)
	}
}

func (p *parser) parseIf() (ast.Expression, error) {
	start := p.cur.Span
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var els ast.Expression
	if p.at(token.ELSE) {
		p.advance()
		els, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	end := then.Pos()
	if els != nil {
		end = els.Pos()
	}
	return ast.NewIf(token.Join(start, end), cond, then, els), nil
}

func (p *parser) parseWhile() (ast.Expression, error) {
	start := p.cur.Span
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var els ast.Expression
	if p.at(token.ELSE) {
		p.advance()
		els, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	end := body.Pos()
	if els != nil {
		end = els.Pos()
	}
	return ast.NewWhile(token.Join(start, end), "", cond, body, els), nil
}

func unquote(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '"' && lexeme[len(lexeme)-1] == '"' {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}
