package parse

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/tanema/luafcheck/src/lerrors"
)

var (
	escapeCodes = map[rune]rune{
		'a':  '\x07', // bell
		'b':  '\x08', // backspace
		'f':  '\x0C', // form feed
		'n':  '\n',   // newline
		'r':  '\r',   // carriage return
		't':  '\t',   // tab
		'v':  '\x0B', // vertical tab
		'\\': '\\',   // backslach
		'"':  '"',    // quote
		'\'': '\'',   // apostrophe
		'[':  '[',    // brackets for bracketed strings
		']':  ']',
		'\n': '\n', // escaped line break
	}
	singleCharTokens = map[rune]tokenType{
		'+': tokenAdd,
		'*': tokenMultiply,
		'%': tokenModulo,
		'^': tokenExponent,
		'&': tokenBitwiseAnd,
		'|': tokenBitwiseOr,
		',': tokenComma,
		';': tokenSemiColon,
		'#': tokenLength,
		'(': tokenOpenParen,
		')': tokenCloseParen,
		'{': tokenOpenCurly,
		'}': tokenCloseCurly,
		']': tokenCloseBracket,
	}
)

type lexer struct {
	filename string
	rdr      *bufio.Reader
	peeked   []*token
	LineInfo
}

func newLexer(filename string, src io.Reader) *lexer {
	return &lexer{
		filename: filename,
		LineInfo: LineInfo{Line: 1},
		rdr:      bufio.NewReaderSize(src, 4096),
		peeked:   []*token{},
	}
}

func (lex *lexer) errf(msg string, data ...any) error {
	return lex.err(fmt.Errorf(msg, data...))
}

func (lex *lexer) err(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	return &lerrors.Error{
		Filename: lex.filename,
		Kind:     lerrors.LexerErr,
		Line:     lex.Line,
		Column:   lex.Column,
		Err:      err,
	}
}

func (lex *lexer) peek() rune {
	chs, _ := lex.rdr.Peek(1)
	if len(chs) == 0 {
		return 0
	}
	return rune(chs[0])
}

func (lex *lexer) next() (rune, error) {
	ch, _, err := lex.rdr.ReadRune()
	if err != nil {
		return ch, lex.err(err)
	}
	if ch == '\n' {
		lex.Line++
		lex.Column = 0
		return ch, nil
	}
	lex.Column++
	return ch, nil
}

func (lex *lexer) mustNext(expected rune) error {
	ch, err := lex.next()
	if err != nil {
		return err
	} else if ch != expected {
		return lex.errf("expected rune %v but found %v", string(expected), string(ch))
	}
	return nil
}

func (lex *lexer) skipWhitespace() error {
	for {
		switch lex.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			if _, err := lex.next(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (lex *lexer) tokenVal(tk tokenType) (*token, error) {
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk)) + 1}}, nil
}

func (lex *lexer) takeTokenVal(tk tokenType) (*token, error) {
	if _, err := lex.next(); err != nil {
		return nil, err
	}
	return lex.tokenVal(tk)
}

// allow for FIFO stack.
func (lex *lexer) back(tk *token) {
	lex.peeked = append(lex.peeked, tk)
}

// Peek will return the next token without consuming it. At the end of the
// source it returns an EOS token rather than io.EOF.
func (lex *lexer) Peek() (*token, error) {
	if len(lex.peeked) == 0 {
		tk, err := lex.Next()
		if err != nil && !errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS, LineInfo: lex.LineInfo}, err
		} else if err != nil && errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS, LineInfo: lex.LineInfo}, nil
		}
		lex.peeked = append(lex.peeked, tk)
	}
	return lex.peeked[len(lex.peeked)-1], nil
}

// Next consumes the next token, comments included.
func (lex *lexer) Next() (*token, error) {
	if len(lex.peeked) != 0 {
		top := lex.peeked[len(lex.peeked)-1]
		lex.peeked = lex.peeked[:len(lex.peeked)-1]
		return top, nil
	}
	if lex.peek() == '#' && lex.Line == 1 && lex.Column == 0 {
		if err := lex.parseShebang(); err != nil {
			return nil, err
		}
	}
	if err := lex.skipWhitespace(); err != nil {
		return nil, err
	}
	ch, err := lex.next()
	if err != nil {
		return nil, err
	}
	peekCh := lex.peek()
	switch ch {
	case '-':
		if peekCh == '-' {
			return lex.parseComment()
		}
		return lex.tokenVal(tokenMinus)
	case '[':
		if peekCh == '=' || peekCh == '[' {
			return lex.parseBracketedString()
		}
		return lex.tokenVal(tokenOpenBracket)
	case '=':
		if peekCh == '=' {
			return lex.takeTokenVal(tokenEq)
		}
		return lex.tokenVal(tokenAssign)
	case '<':
		if peekCh == '=' {
			return lex.takeTokenVal(tokenLe)
		} else if peekCh == '<' {
			return lex.takeTokenVal(tokenShiftLeft)
		}
		return lex.tokenVal(tokenLt)
	case '>':
		if peekCh == '=' {
			return lex.takeTokenVal(tokenGe)
		} else if peekCh == '>' {
			return lex.takeTokenVal(tokenShiftRight)
		}
		return lex.tokenVal(tokenGt)
	case '~':
		if peekCh == '=' {
			return lex.takeTokenVal(tokenNe)
		}
		return lex.tokenVal(tokenBitwiseNotOr)
	case '/':
		if peekCh == '/' {
			return lex.takeTokenVal(tokenFloorDivide)
		}
		return lex.tokenVal(tokenDivide)
	case '.':
		if unicode.IsDigit(peekCh) {
			return lex.parseNumber(ch)
		} else if peekCh != '.' {
			return lex.tokenVal(tokenPeriod)
		} else if _, err := lex.next(); err != nil {
			return nil, err
		} else if lex.peek() == '.' {
			return lex.takeTokenVal(tokenDots)
		}
		return lex.tokenVal(tokenConcat)
	case ':':
		if peekCh == ':' {
			return lex.parseLabel()
		}
		return lex.tokenVal(tokenColon)
	case '"', '\'':
		return lex.parseString(ch)
	}
	if kind, ok := singleCharTokens[ch]; ok {
		return lex.tokenVal(kind)
	} else if unicode.IsDigit(ch) {
		return lex.parseNumber(ch)
	} else if unicode.IsLetter(ch) || ch == '_' {
		return lex.parseIdentifier(ch)
	}
	return nil, lex.errf("unexpected character %v", string(ch))
}

// label -> '::' NAME '::'.
func (lex *lexer) parseLabel() (*token, error) {
	linfo := lex.LineInfo
	if err := lex.mustNext(':'); err != nil {
		return nil, err
	} else if err := lex.skipWhitespace(); err != nil {
		return nil, err
	}
	ch, err := lex.next()
	if err != nil {
		return nil, err
	} else if !unicode.IsLetter(ch) && ch != '_' {
		return nil, lex.errf("unexpected character %v while parsing label", string(ch))
	}
	tk, err := lex.parseIdentifier(ch)
	if err != nil {
		return nil, err
	} else if tk.Kind != tokenIdentifier {
		return nil, lex.errf("cannot use keyword %v as a label", tk.Kind)
	} else if err := lex.skipWhitespace(); err != nil {
		return nil, err
	} else if err := lex.mustNext(':'); err != nil {
		return nil, lex.err(errors.New("unexpected character while parsing label"))
	} else if err := lex.mustNext(':'); err != nil {
		return nil, lex.err(errors.New("unexpected character while parsing label"))
	}
	return &token{
		Kind:      tokenLabel,
		StringVal: tk.StringVal,
		LineInfo:  linfo,
	}, nil
}

func (lex *lexer) parseIdentifier(start rune) (*token, error) {
	linfo := lex.LineInfo
	var ident bytes.Buffer
	ident.WriteRune(start)
	for {
		peekCh := lex.peek()
		if !unicode.IsLetter(peekCh) && !unicode.IsDigit(peekCh) && peekCh != '_' {
			break
		} else if err := lex.writeNext(&ident); err != nil {
			return nil, err
		}
	}
	strVal := ident.String()
	if kw, ok := keywords[strVal]; ok {
		return lex.tokenVal(kw)
	}
	return &token{
		Kind:      tokenIdentifier,
		StringVal: strVal,
		LineInfo:  linfo,
	}, nil
}

/*
A short literal string can be delimited by matching single or double quotes, and
can contain the following C-like escape sequences:

'\a'      (bell)
'\b'      (backspace)
'\f'      (form feed)
'\n'      (newline)
'\r'      (carriage return)
'\t'      (horizontal tab)
'\v'      (vertical tab)
'\\'      (backslash)
'\"'      (quotation mark [double quote])
'\”      (apostrophe [single quote])
'\z'      skips the following span of white-space characters, including line breaks
\xXX      where XX is a sequence of exactly two hexadecimal digits specifies any byte
\ddd      where ddd is a sequence of up to three decimal digits
\u{XXX}   where XXX is a sequence of one or more hexadecimal digits representing the character code point
*/
func (lex *lexer) parseString(delimiter rune) (*token, error) {
	linfo := lex.LineInfo
	var str bytes.Buffer
	for {
		ch, err := lex.next()
		if err != nil {
			return nil, err
		}
		switch {
		case ch == delimiter:
			return &token{
				Kind:      tokenString,
				StringVal: str.String(),
				LineInfo:  linfo,
			}, nil
		case ch == '\n':
			return nil, lex.errf("unfinished string")
		case ch == '\\':
			if err := lex.parseEscape(&str); err != nil {
				return nil, err
			}
		default:
			str.WriteRune(ch)
		}
	}
}

func (lex *lexer) parseEscape(str *bytes.Buffer) error {
	ch, err := lex.next()
	if err != nil {
		return err
	}
	if esc, ok := escapeCodes[ch]; ok {
		str.WriteRune(esc)
		return nil
	}
	switch {
	case ch == 'z': // remove spaces
		return lex.skipWhitespace()
	case ch == 'u': // utf8 unicode character
		if err := lex.mustNext('{'); err != nil {
			return err
		}
		var hexNumber bytes.Buffer
		if err := lex.consumeDigits(&hexNumber, true); err != nil {
			return err
		}
		ivalue, err := strconv.ParseInt(hexNumber.String(), 16, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		}
		str.WriteRune(rune(ivalue))
		return lex.mustNext('}')
	case ch == 'x': // hex char code
		var hexNumber bytes.Buffer
		for range 2 {
			if !isHexDigit(lex.peek()) {
				return lex.errf("hexadecimal digit expected near %q", `\x`+hexNumber.String())
			} else if err := lex.writeNext(&hexNumber); err != nil {
				return err
			}
		}
		ivalue, err := strconv.ParseInt(hexNumber.String(), 16, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		}
		str.WriteByte(byte(ivalue))
		return nil
	case unicode.IsDigit(ch):
		var number bytes.Buffer
		number.WriteRune(ch)
		for range 2 {
			if !unicode.IsDigit(lex.peek()) {
				break
			} else if err := lex.writeNext(&number); err != nil {
				return err
			}
		}
		ivalue, err := strconv.ParseInt(number.String(), 10, 64)
		if err != nil {
			return lex.err(fmt.Errorf("parse int: %w", errors.Unwrap(err)))
		} else if ivalue > 255 {
			return lex.errf("decimal escape too large near %q", `\`+number.String())
		}
		str.WriteRune(rune(ivalue))
		return nil
	default:
		return lex.errf("unexpected escape code \\%s", string(ch))
	}
}

func (lex *lexer) parseNumber(start rune) (*token, error) {
	linfo := lex.LineInfo
	var number bytes.Buffer
	isHex, isFloat := false, false

	if start == '.' {
		number.WriteString("0.")
		isFloat = true
		if err := lex.consumeDigits(&number, isHex); err != nil {
			return nil, err
		}
	} else {
		number.WriteRune(start)
		if err := lex.consumeDigits(&number, isHex); err != nil {
			return nil, err
		}
		if peekCh := lex.peek(); start == '0' && (peekCh == 'x' || peekCh == 'X') {
			isHex = true
			if err := lex.writeNext(&number); err != nil {
				return nil, err
			} else if err := lex.consumeDigits(&number, isHex); err != nil {
				return nil, err
			}
		}
		if peekCh := lex.peek(); peekCh == '.' {
			isFloat = true
			if err := lex.writeNext(&number); err != nil {
				return nil, err
			} else if err := lex.consumeDigits(&number, isHex); err != nil {
				return nil, err
			}
		}
	}

	if peekCh := lex.peek(); !isHex && (peekCh == 'e' || peekCh == 'E') {
		isFloat = true
		if err := lex.parseExponent(&number, false); err != nil {
			return nil, err
		}
	} else if isHex && (peekCh == 'p' || peekCh == 'P') {
		isFloat = true
		if err := lex.parseExponent(&number, false); err != nil {
			return nil, err
		}
	}

	if isFloat {
		fval, _, err := big.ParseFloat(number.String(), 0, 0, big.ToNearestEven)
		if err != nil {
			return nil, lex.err(fmt.Errorf("malformed number near %v", number.String()))
		}
		num, _ := fval.Float64()
		return &token{
			Kind:     tokenFloat,
			FloatVal: num,
			LineInfo: linfo,
		}, nil
	}

	strNum := number.String()
	if !isHex {
		strNum = strings.TrimLeft(strNum, "0")
		if len(strNum) == 0 {
			return &token{Kind: tokenInteger, IntVal: 0, LineInfo: linfo}, nil
		}
	}

	ivalue, err := strconv.ParseInt(strNum, 0, 64)
	if err != nil {
		return nil, lex.err(fmt.Errorf("malformed number near %v", number.String()))
	}
	return &token{
		Kind:     tokenInteger,
		IntVal:   ivalue,
		LineInfo: linfo,
	}, nil
}

func (lex *lexer) consumeDigits(number *bytes.Buffer, withHex bool) error {
	for {
		ch := lex.peek()
		if !unicode.IsDigit(ch) && (!withHex || !isHexDigit(ch)) {
			return nil
		} else if err := lex.writeNext(number); err != nil {
			return err
		}
	}
}

func (lex *lexer) parseExponent(number *bytes.Buffer, withHex bool) error {
	if err := lex.writeNext(number); err != nil {
		return err
	}
	if tk := lex.peek(); tk == '-' || tk == '+' {
		if err := lex.writeNext(number); err != nil {
			return err
		}
	}
	return lex.consumeDigits(number, withHex)
}

func (lex *lexer) writeNext(buf *bytes.Buffer) error {
	ch, err := lex.next()
	if err != nil {
		return err
	}
	buf.WriteRune(ch)
	return nil
}

func (lex *lexer) parseShebang() error {
	for {
		if ch, err := lex.next(); err != nil {
			return err
		} else if ch == '\n' {
			return nil
		}
	}
}

func (lex *lexer) parseComment() (*token, error) {
	linfo := lex.LineInfo
	if _, err := lex.next(); err != nil {
		return nil, err
	}

	if lex.peek() == '[' {
		if _, err := lex.next(); err != nil {
			return nil, err
		}
		if peekCh := lex.peek(); peekCh == '=' || peekCh == '[' {
			str, err := lex.parseBracketed()
			return &token{Kind: tokenComment, StringVal: str, LineInfo: linfo}, err
		}
		return lex.finishComment(linfo, "[")
	}
	return lex.finishComment(linfo, "")
}

func (lex *lexer) finishComment(linfo LineInfo, prefix string) (*token, error) {
	var comment bytes.Buffer
	comment.WriteString(prefix)
	for {
		ch, err := lex.next()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		} else if ch == '\n' || errors.Is(err, io.EOF) {
			return &token{
				Kind:      tokenComment,
				StringVal: comment.String(),
				LineInfo:  linfo,
			}, nil
		}
		comment.WriteRune(ch)
	}
}

func (lex *lexer) parseBracketedString() (*token, error) {
	linfo := lex.LineInfo
	str, err := lex.parseBracketed()
	return &token{
		Kind:      tokenString,
		StringVal: str,
		LineInfo:  linfo,
	}, err
}

// parseBracketed is called after the first [ was consumed. It reads the
// opening level, then everything up to the matching close bracket.
func (lex *lexer) parseBracketed() (string, error) {
	level := 0
	for {
		ch, err := lex.next()
		if err != nil {
			return "", err
		} else if ch == '=' {
			level++
			continue
		} else if ch == '[' {
			break
		}
		return "", lex.errf("malformed bracketed string, expected [ or = and found %v", string(ch))
	}

	if lex.peek() == '\n' {
		if _, err := lex.next(); err != nil {
			return "", err
		}
	}

	closing := "]" + strings.Repeat("=", level) + "]"
	var str bytes.Buffer
	for {
		if err := lex.writeNext(&str); err != nil {
			return "", err
		} else if bytes.HasSuffix(str.Bytes(), []byte(closing)) {
			return strings.TrimSuffix(str.String(), closing), nil
		}
	}
}

func isHexDigit(ch rune) bool {
	return unicode.IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
