// Package parse turns lua source into a tree of statements and expressions. It
// does no resolution of names or types, that is left to the checker, so that
// the tree is a plain description of the source.
package parse

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tanema/luafcheck/src/lerrors"
)

type (
	// Parser is the object that will parse a file and return its tree. A
	// Parser can be reused but not shared between goroutines.
	Parser struct {
		lex           *lexer
		filename      string
		lastTokenInfo LineInfo
		loopDepth     int
	}
	incompleteErr struct{}
)

// ErrIncomplete is wrapped in the parser error when the source ends in the
// middle of a statement. It matches io.EOF with errors.Is so that callers like
// the repl can ask for more input.
var ErrIncomplete error = incompleteErr{}

func (incompleteErr) Error() string        { return "unexpected end of input" }
func (incompleteErr) Is(target error) bool { return target == io.EOF }

// New creates a new parser that can parse one file at a time.
func New() *Parser {
	return &Parser{}
}

// File is a helper function around Parse to open and close a file automatically.
func File(path string) (*Chunk, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return Parse(path, src)
}

// Parse will parse the whole source and return the tree for it.
func Parse(filename string, src io.Reader) (*Chunk, error) {
	return New().Parse(filename, src)
}

// Parse will reset the parser and parse the source.
func (p *Parser) Parse(filename string, src io.Reader) (*Chunk, error) {
	p.filename = filename
	p.lex = newLexer(filename, src)
	p.lastTokenInfo = LineInfo{Line: 1}
	p.loopDepth = 0
	body, err := p.statList()
	if err != nil {
		return nil, p.incomplete(err)
	}
	tk, err := p.peek()
	if err != nil {
		return nil, p.incomplete(err)
	} else if tk.Kind != tokenEOS {
		return nil, p.parseErr(tk, fmt.Errorf("'<eof>' expected near '%v'", tk))
	}
	return &Chunk{Filename: filename, Body: body}, nil
}

func (p *Parser) incomplete(err error) error {
	if !errors.Is(err, io.EOF) {
		return err
	}
	var luaErr *lerrors.Error
	if errors.As(err, &luaErr) {
		return err
	}
	return &lerrors.Error{
		Kind:     lerrors.ParserErr,
		Filename: p.filename,
		Line:     p.lex.Line,
		Column:   p.lex.Column,
		Err:      ErrIncomplete,
	}
}

func (p *Parser) parseErr(tk *token, err error) error {
	if err == nil {
		return nil
	}
	var luaErr *lerrors.Error
	if errors.As(err, &luaErr) {
		return err
	} else if errors.Is(err, io.EOF) {
		return err
	}
	newErr := &lerrors.Error{
		Kind:     lerrors.ParserErr,
		Filename: p.filename,
		Err:      err,
	}
	if tk != nil {
		newErr.Line = tk.Line
		newErr.Column = tk.Column
	}
	return newErr
}

// peek skips any comments and returns the next meaningful token.
func (p *Parser) peek() (*token, error) {
	for {
		tk, err := p.lex.Peek()
		if err != nil || tk.Kind != tokenComment {
			return tk, err
		} else if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) consumeToken(tt tokenType) (*token, error) {
	if _, err := p.peek(); err != nil {
		return nil, err
	}
	tk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(tk, err)
	} else if tt != tk.Kind {
		return nil, p.parseErr(tk, fmt.Errorf("'%v' expected near '%v'", tt, tk))
	}
	p.lastTokenInfo = tk.LineInfo
	return tk, nil
}

func (p *Parser) next(tt tokenType) error {
	_, err := p.consumeToken(tt)
	return err
}

// This is used when the token has already been peeked but lets panic just in
// case something goes funky.
func (p *Parser) mustnext(tt tokenType) *token {
	tk, err := p.consumeToken(tt)
	if err != nil {
		panic(err)
	}
	return tk
}

// statlist -> { stat [';'] }.
func (p *Parser) statList() ([]Stmt, error) {
	stmts := []Stmt{}
	for {
		if follow, err := p.blockFollow(true); err != nil {
			return nil, err
		} else if follow {
			return stmts, nil
		}
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		}
		stmt, err := p.stat()
		if err != nil {
			return nil, err
		} else if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if ptk.Kind == tokenReturn {
			return stmts, nil /* 'return' must be last stat */
		}
	}
}

func (p *Parser) loopBlock() ([]Stmt, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.statList()
}

// check if the next token indicates that we are still inside a block or not.
func (p *Parser) blockFollow(withuntil bool) (bool, error) {
	ptk, err := p.peek()
	if err != nil {
		return false, err
	}
	switch ptk.Kind {
	case tokenElse, tokenElseif, tokenEnd, tokenEOS:
		return true, nil
	case tokenUntil:
		return withuntil, nil
	default:
		return false, nil
	}
}

// stat -> ';' | localstat | funcstat | retstat | dostat | ifstat | whilestat |
// forstat | repeatstat | label | 'break' | 'goto' NAME | funccallstat | assignment.
func (p *Parser) stat() (Stmt, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenSemiColon:
		return nil, p.next(tokenSemiColon)
	case tokenLocal:
		return p.localstat()
	case tokenFunction:
		return p.funcstat()
	case tokenReturn:
		return p.retstat()
	case tokenDo:
		return p.dostat()
	case tokenIf:
		return p.ifstat()
	case tokenWhile:
		return p.whilestat()
	case tokenFor:
		return p.forstat()
	case tokenRepeat:
		return p.repeatstat()
	case tokenLabel:
		return p.labelstat()
	case tokenBreak:
		return p.breakstat()
	case tokenGoto:
		return p.gotostat()
	default:
		return p.exprstat()
	}
}

// exprstat -> funccallstat | assignment.
func (p *Parser) exprstat() (Stmt, error) {
	expr, err := p.suffixedexp()
	if err != nil {
		return nil, err
	} else if call, isCall := expr.(*Call); isCall {
		return &CallStmt{LineInfo: call.LineInfo, Call: call}, nil
	}
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	} else if ptk.Kind == tokenAssign || ptk.Kind == tokenComma {
		return p.assignment(expr)
	}
	return nil, p.parseErr(ptk, fmt.Errorf("syntax error near '%v'", ptk))
}

// localstat -> local [localfunc | localassign].
func (p *Parser) localstat() (Stmt, error) {
	tk := p.mustnext(tokenLocal)
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenFunction {
		return p.localfunc(tk)
	}
	return p.localassign(tk)
}

// localfunc -> FUNCTION NAME funcbody.
func (p *Parser) localfunc(decl *token) (Stmt, error) {
	p.mustnext(tokenFunction)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	fn, err := p.funcbody(name.StringVal, false, decl.LineInfo)
	if err != nil {
		return nil, err
	}
	return &FuncDef{
		LineInfo: decl.LineInfo,
		Local:    true,
		Name:     &Name{LineInfo: name.LineInfo, Ident: name.StringVal},
		Func:     fn,
	}, nil
}

// localassign -> NAME attrib { ',' NAME attrib } ['=' explist].
func (p *Parser) localassign(decl *token) (Stmt, error) {
	stmt := &Assign{LineInfo: decl.LineInfo, Local: true}
	for {
		ident, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		attrib, err := p.attrib()
		if err != nil {
			return nil, err
		}
		stmt.Targets = append(stmt.Targets, &Name{LineInfo: ident.LineInfo, Ident: ident.StringVal})
		stmt.Attribs = append(stmt.Attribs, attrib)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
	}

	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind != tokenAssign {
		return stmt, nil
	}
	p.mustnext(tokenAssign)
	values, err := p.explist()
	if err != nil {
		return nil, err
	}
	stmt.Values = values
	return stmt, nil
}

// attrib -> ['<' NAME '>'].
func (p *Parser) attrib() (string, error) {
	if ptk, err := p.peek(); err != nil || ptk.Kind != tokenLt {
		return "", err
	}
	p.mustnext(tokenLt)
	tk, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return "", err
	} else if tk.StringVal != "const" && tk.StringVal != "close" {
		return "", p.parseErr(tk, fmt.Errorf("unknown attribute '%v'", tk.StringVal))
	}
	return tk.StringVal, p.next(tokenGt)
}

// funcstat -> FUNCTION funcname funcbody.
func (p *Parser) funcstat() (Stmt, error) {
	tk := p.mustnext(tokenFunction)
	name, hasSelf, fullname, err := p.funcname()
	if err != nil {
		return nil, err
	}
	fn, err := p.funcbody(fullname, hasSelf, tk.LineInfo)
	if err != nil {
		return nil, err
	}
	return &FuncDef{
		LineInfo: tk.LineInfo,
		Method:   hasSelf,
		Name:     name,
		Func:     fn,
	}, nil
}

// funcname -> NAME {'.' NAME} [':' NAME].
func (p *Parser) funcname() (Expr, bool, string, error) {
	ident, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, false, "", err
	}
	var name Expr = &Name{LineInfo: ident.LineInfo, Ident: ident.StringVal}
	fullname := ident.StringVal
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, false, "", err
		} else if ptk.Kind != tokenPeriod && ptk.Kind != tokenColon {
			return name, false, fullname, nil
		}
		sep := p.mustnext(ptk.Kind)
		key, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, false, "", err
		}
		fullname += string(sep.Kind) + key.StringVal
		name = &Index{
			LineInfo: key.LineInfo,
			Table:    name,
			Key:      &String{LineInfo: key.LineInfo, Val: key.StringVal},
		}
		if sep.Kind == tokenColon {
			return name, true, fullname, nil
		}
	}
}

// funcbody -> parlist block END.
func (p *Parser) funcbody(name string, hasSelf bool, linfo LineInfo) (*Function, error) {
	params, varargs, err := p.parlist()
	if err != nil {
		return nil, err
	}
	if hasSelf {
		params = append([]string{"self"}, params...)
	}

	depth := p.loopDepth
	p.loopDepth = 0
	body, err := p.statList()
	p.loopDepth = depth
	if err != nil {
		return nil, err
	}
	return &Function{
		LineInfo: linfo,
		Name:     name,
		Params:   params,
		VarArgs:  varargs,
		Body:     body,
	}, p.next(tokenEnd)
}

// parlist -> '(' [ {NAME ','} (NAME | '...') ] ')'.
func (p *Parser) parlist() ([]string, bool, error) {
	if err := p.next(tokenOpenParen); err != nil {
		return nil, false, err
	}
	names := []string{}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, false, err
		}
		switch ptk.Kind {
		case tokenCloseParen:
			return names, false, p.next(tokenCloseParen)
		case tokenDots:
			p.mustnext(tokenDots)
			return names, true, p.next(tokenCloseParen)
		case tokenIdentifier:
			names = append(names, p.mustnext(tokenIdentifier).StringVal)
			if ptk, err := p.peek(); err != nil {
				return nil, false, err
			} else if ptk.Kind != tokenComma {
				return names, false, p.next(tokenCloseParen)
			}
			p.mustnext(tokenComma)
		default:
			return nil, false, p.parseErr(ptk, fmt.Errorf("<name> expected near '%v'", ptk))
		}
	}
}

// retstat -> RETURN [explist] [';'].
func (p *Parser) retstat() (Stmt, error) {
	tk := p.mustnext(tokenReturn)
	stmt := &Return{LineInfo: tk.LineInfo}
	if follow, err := p.blockFollow(true); err != nil || follow {
		return stmt, err
	} else if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind != tokenSemiColon {
		if stmt.Exprs, err = p.explist(); err != nil {
			return nil, err
		}
	}
	if ptk, err := p.peek(); err != nil {
		return nil, err
	} else if ptk.Kind == tokenSemiColon {
		p.mustnext(tokenSemiColon)
	}
	return stmt, nil
}

// dostat -> DO block END.
func (p *Parser) dostat() (Stmt, error) {
	tk := p.mustnext(tokenDo)
	body, err := p.statList()
	if err != nil {
		return nil, err
	}
	return &Do{LineInfo: tk.LineInfo, Body: body}, p.next(tokenEnd)
}

// ifstat -> IF exp THEN block {ELSEIF exp THEN block} [ELSE block] END.
func (p *Parser) ifstat() (Stmt, error) {
	return p.ifblock(p.mustnext(tokenIf))
}

// ifblock parses everything after an if or elseif keyword, including the
// closing end. An elseif becomes a nested if inside the else block.
func (p *Parser) ifblock(tk *token) (*If, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenThen); err != nil {
		return nil, err
	}
	then, err := p.statList()
	if err != nil {
		return nil, err
	}
	stmt := &If{LineInfo: tk.LineInfo, Cond: cond, Then: then}
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch ptk.Kind {
	case tokenElseif:
		nested, err := p.ifblock(p.mustnext(tokenElseif))
		if err != nil {
			return nil, err
		}
		stmt.Else = []Stmt{nested}
		return stmt, nil
	case tokenElse:
		p.mustnext(tokenElse)
		if stmt.Else, err = p.statList(); err != nil {
			return nil, err
		}
	}
	return stmt, p.next(tokenEnd)
}

// whilestat -> WHILE exp DO block END.
func (p *Parser) whilestat() (Stmt, error) {
	tk := p.mustnext(tokenWhile)
	cond, err := p.expression()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenDo); err != nil {
		return nil, err
	}
	body, err := p.loopBlock()
	if err != nil {
		return nil, err
	}
	return &While{LineInfo: tk.LineInfo, Cond: cond, Body: body}, p.next(tokenEnd)
}

// forstat -> FOR (fornum | forlist) END.
func (p *Parser) forstat() (Stmt, error) {
	tk := p.mustnext(tokenFor)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch ptk.Kind {
	case tokenAssign:
		return p.fornum(tk, name)
	case tokenComma, tokenIn:
		return p.forlist(tk, name)
	default:
		return nil, p.parseErr(ptk, errors.New("'=' or 'in' expected"))
	}
}

// fornum -> NAME = exp,exp[,exp] DO block.
func (p *Parser) fornum(tk, name *token) (Stmt, error) {
	assign := p.mustnext(tokenAssign)
	exprs, err := p.explist()
	if err != nil {
		return nil, err
	} else if len(exprs) < 2 || len(exprs) > 3 {
		return nil, p.parseErr(assign, errors.New("invalid for stat, expected 2-3 expressions"))
	} else if err := p.next(tokenDo); err != nil {
		return nil, err
	}
	stmt := &NumericFor{
		LineInfo: tk.LineInfo,
		Var:      name.StringVal,
		Start:    exprs[0],
		Limit:    exprs[1],
	}
	if len(exprs) == 3 {
		stmt.Step = exprs[2]
	}
	if stmt.Body, err = p.loopBlock(); err != nil {
		return nil, err
	}
	return stmt, p.next(tokenEnd)
}

// forlist -> NAME {,NAME} IN explist DO block.
func (p *Parser) forlist(tk, firstName *token) (Stmt, error) {
	stmt := &GenericFor{LineInfo: tk.LineInfo, Names: []string{firstName.StringVal}}
	for {
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
		name, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		stmt.Names = append(stmt.Names, name.StringVal)
	}
	if err := p.next(tokenIn); err != nil {
		return nil, err
	}
	exprs, err := p.explist()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenDo); err != nil {
		return nil, err
	}
	stmt.Exprs = exprs
	if stmt.Body, err = p.loopBlock(); err != nil {
		return nil, err
	}
	return stmt, p.next(tokenEnd)
}

// repeatstat -> REPEAT block UNTIL exp.
func (p *Parser) repeatstat() (Stmt, error) {
	tk := p.mustnext(tokenRepeat)
	body, err := p.loopBlock()
	if err != nil {
		return nil, err
	} else if err := p.next(tokenUntil); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Repeat{LineInfo: tk.LineInfo, Body: body, Cond: cond}, nil
}

func (p *Parser) breakstat() (Stmt, error) {
	tk := p.mustnext(tokenBreak)
	if p.loopDepth == 0 {
		return nil, p.parseErr(tk, errors.New("break outside a loop"))
	}
	return &Break{LineInfo: tk.LineInfo}, nil
}

// label -> '::' NAME '::'.
func (p *Parser) labelstat() (Stmt, error) {
	tk := p.mustnext(tokenLabel)
	return &Label{LineInfo: tk.LineInfo, Name: tk.StringVal}, nil
}

// gotostat -> 'goto' NAME.
func (p *Parser) gotostat() (Stmt, error) {
	tk := p.mustnext(tokenGoto)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	return &Goto{LineInfo: tk.LineInfo, Label: name.StringVal}, nil
}

// assignment -> suffixedexp { ',' suffixedexp } '=' explist.
func (p *Parser) assignment(first Expr) (Stmt, error) {
	targets := []Expr{first}
	for {
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			break
		}
		p.mustnext(tokenComma)
		expr, err := p.suffixedexp()
		if err != nil {
			return nil, err
		}
		targets = append(targets, expr)
	}
	tk, err := p.consumeToken(tokenAssign)
	if err != nil {
		return nil, err
	}
	for _, target := range targets {
		switch target.(type) {
		case *Name, *Index:
		default:
			return nil, p.parseErr(tk, errors.New("syntax error near '='"))
		}
	}
	values, err := p.explist()
	if err != nil {
		return nil, err
	}
	return &Assign{LineInfo: first.Pos(), Targets: targets, Values: values}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.expr(0)
}

// expr -> (simpleexp | unop expr) { binop expr }
// where 'binop' is any binary operator with a priority higher than 'limit'.
func (p *Parser) expr(limit int) (Expr, error) {
	var desc Expr
	if tk, err := p.peek(); err != nil {
		return nil, err
	} else if tk.isUnary() {
		p.mustnext(tk.Kind)
		operand, err := p.expr(unaryPriority)
		if err != nil {
			return nil, err
		}
		desc = &UnaryOp{LineInfo: tk.LineInfo, Op: string(tk.Kind), Operand: operand}
	} else if desc, err = p.simpleexp(); err != nil {
		return nil, err
	}
	op, err := p.peek()
	if err != nil {
		return nil, err
	}
	for op.isBinary() && binaryPriority[op.Kind][0] > limit {
		p.mustnext(op.Kind)
		rdesc, err := p.expr(binaryPriority[op.Kind][1])
		if err != nil {
			return nil, err
		}
		desc = &BinaryOp{LineInfo: desc.Pos(), Op: string(op.Kind), Left: desc, Right: rdesc}
		if op, err = p.peek(); err != nil {
			return nil, err
		}
	}
	return desc, nil
}

// simpleexp -> Float | Integer | String | nil | true | false | ... | constructor | FUNCTION body | suffixedexp.
func (p *Parser) simpleexp() (Expr, error) {
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch ptk.Kind {
	case tokenFloat:
		tk := p.mustnext(tokenFloat)
		return &Float{LineInfo: tk.LineInfo, Val: tk.FloatVal}, nil
	case tokenInteger:
		tk := p.mustnext(tokenInteger)
		return &Integer{LineInfo: tk.LineInfo, Val: tk.IntVal}, nil
	case tokenString:
		tk := p.mustnext(tokenString)
		return &String{LineInfo: tk.LineInfo, Val: tk.StringVal}, nil
	case tokenNil:
		return &Nil{LineInfo: p.mustnext(tokenNil).LineInfo}, nil
	case tokenTrue:
		return &Bool{LineInfo: p.mustnext(tokenTrue).LineInfo, Val: true}, nil
	case tokenFalse:
		return &Bool{LineInfo: p.mustnext(tokenFalse).LineInfo, Val: false}, nil
	case tokenDots:
		return &VarArgs{LineInfo: p.mustnext(tokenDots).LineInfo}, nil
	case tokenOpenCurly:
		return p.constructor()
	case tokenFunction:
		tk := p.mustnext(tokenFunction)
		return p.funcbody("", false, tk.LineInfo)
	default:
		return p.suffixedexp()
	}
}

// primaryexp -> NAME | '(' expr ')'.
func (p *Parser) primaryexp() (Expr, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenOpenParen:
		p.mustnext(tokenOpenParen)
		desc, err := p.expression()
		if err != nil {
			return nil, err
		}
		return desc, p.next(tokenCloseParen)
	case tokenIdentifier:
		tk := p.mustnext(tokenIdentifier)
		return &Name{LineInfo: tk.LineInfo, Ident: tk.StringVal}, nil
	case tokenEOS:
		return nil, io.EOF
	default:
		return nil, p.parseErr(tk, fmt.Errorf("unexpected symbol near '%v'", tk))
	}
}

// suffixedexp -> primaryexp { '.' NAME | '[' exp ']' | ':' NAME funcargs | funcargs }.
func (p *Parser) suffixedexp() (Expr, error) {
	start, err := p.peek()
	if err != nil {
		return nil, err
	}
	expr, err := p.primaryexp()
	if err != nil {
		return nil, err
	}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch ptk.Kind {
		case tokenPeriod:
			p.mustnext(tokenPeriod)
			key, err := p.consumeToken(tokenIdentifier)
			if err != nil {
				return nil, err
			}
			expr = &Index{
				LineInfo: key.LineInfo,
				Table:    expr,
				Key:      &String{LineInfo: key.LineInfo, Val: key.StringVal},
			}
		case tokenOpenBracket:
			tk := p.mustnext(tokenOpenBracket)
			key, err := p.expression()
			if err != nil {
				return nil, err
			} else if err := p.next(tokenCloseBracket); err != nil {
				return nil, err
			}
			expr = &Index{LineInfo: tk.LineInfo, Table: expr, Key: key}
		case tokenColon:
			p.mustnext(tokenColon)
			key, err := p.consumeToken(tokenIdentifier)
			if err != nil {
				return nil, err
			}
			args, err := p.funcargs()
			if err != nil {
				return nil, err
			}
			expr = &Call{LineInfo: start.LineInfo, Fn: expr, Method: key.StringVal, Args: args}
		case tokenOpenParen, tokenString, tokenOpenCurly:
			args, err := p.funcargs()
			if err != nil {
				return nil, err
			}
			expr = &Call{LineInfo: start.LineInfo, Fn: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// funcargs -> '(' [ explist ] ')' | constructor | STRING.
func (p *Parser) funcargs() ([]Expr, error) {
	ptk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch ptk.Kind {
	case tokenOpenParen:
		p.mustnext(tokenOpenParen)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind == tokenCloseParen {
			p.mustnext(tokenCloseParen)
			return []Expr{}, nil
		}
		exprs, err := p.explist()
		if err != nil {
			return nil, err
		}
		return exprs, p.next(tokenCloseParen)
	case tokenOpenCurly:
		expr, err := p.constructor()
		return []Expr{expr}, err
	case tokenString:
		tk := p.mustnext(tokenString)
		return []Expr{&String{LineInfo: tk.LineInfo, Val: tk.StringVal}}, nil
	default:
		return nil, p.parseErr(ptk, fmt.Errorf("function arguments expected near '%v'", ptk))
	}
}

// explist -> expr { ',' expr }.
func (p *Parser) explist() ([]Expr, error) {
	list := []Expr{}
	for {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if ptk, err := p.peek(); err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma {
			return list, nil
		}
		p.mustnext(tokenComma)
	}
}

// constructor -> '{' [ field { sep field } [sep] ] '}'
// field -> NAME = exp | '['exp']' = exp | exp.
func (p *Parser) constructor() (Expr, error) {
	expr := &Table{LineInfo: p.mustnext(tokenOpenCurly).LineInfo}
	for {
		ptk, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch ptk.Kind {
		case tokenCloseCurly:
			return expr, p.next(tokenCloseCurly)
		case tokenIdentifier:
			tk := p.mustnext(tokenIdentifier)
			if ptk, err := p.peek(); err != nil {
				return nil, err
			} else if ptk.Kind == tokenAssign {
				p.mustnext(tokenAssign)
				val, err := p.expression()
				if err != nil {
					return nil, err
				}
				expr.Fields = append(expr.Fields, TableField{
					Key: &String{LineInfo: tk.LineInfo, Val: tk.StringVal},
					Val: val,
				})
				break
			}
			p.lex.back(tk)
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			expr.Fields = append(expr.Fields, TableField{Val: val})
		case tokenOpenBracket:
			p.mustnext(tokenOpenBracket)
			key, err := p.expression()
			if err != nil {
				return nil, err
			} else if err := p.next(tokenCloseBracket); err != nil {
				return nil, err
			} else if err := p.next(tokenAssign); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			expr.Fields = append(expr.Fields, TableField{Key: key, Val: val})
		default:
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			expr.Fields = append(expr.Fields, TableField{Val: val})
		}
		ptk, err = p.peek()
		if err != nil {
			return nil, err
		} else if ptk.Kind != tokenComma && ptk.Kind != tokenSemiColon {
			return expr, p.next(tokenCloseCurly)
		}
		p.mustnext(ptk.Kind)
	}
}
