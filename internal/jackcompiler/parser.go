package jackcompiler

import "fmt"

// Parser is a recursive descent parser over a token stream. Every production
// leaves the cursor on the first tag after it, and writes its subtree to the
// sink wrapped in an open and a close tag. Punctuation that carries no
// meaning for code generation is checked but not written.
type Parser struct {
	src  TagSource
	sink TagSink
	cur  *cursor
}

func NewParser(src TagSource, sink TagSink) *Parser {
	return &Parser{src: src, sink: sink}
}

// ParseClass parses a whole file, which must hold exactly one class.
// class: 'class' className '{' classVarDec* subroutineDec* '}'
func (parser *Parser) ParseClass() (err error) {
	parser.cur, err = newCursor(parser.src)
	if err != nil {
		return err
	}
	if err = parser.drop(ClassTP); err != nil {
		return err
	}
	if err = parser.open(ClassNT); err != nil {
		return err
	}
	if err = parser.identifier(); err != nil {
		return err
	}
	if err = parser.expectSymbol('{'); err != nil {
		return err
	}
	seenSubroutine := false
	for {
		current := parser.cur.current
		if current.isKeyword(StaticTP, FieldTP) {
			if seenSubroutine {
				return parser.makeError("class variables must be declared before subroutines")
			}
			err = parser.parseClassVarDec()
		} else if current.isKeyword(ConstructorTP, FunctionTP, MethodTP) {
			seenSubroutine = true
			err = parser.parseSubroutineDec()
		} else {
			break
		}
		if err != nil {
			return err
		}
	}
	if err = parser.expectSymbol('}'); err != nil {
		return err
	}
	if err = parser.close(ClassNT); err != nil {
		return err
	}
	if parser.cur.current.isKeyword(ClassTP) {
		return parser.makeError("a file holds a single class")
	}
	if parser.cur.current != nil {
		return parser.makeError("unexpected tokens after class")
	}
	return nil
}

// classVarDec: ('static' | 'field') type varName (',' varName)* ';'
func (parser *Parser) parseClassVarDec() error {
	if err := parser.open(ClassVarDecNT); err != nil {
		return err
	}
	if err := parser.keyword(StaticTP, FieldTP); err != nil {
		return err
	}
	if err := parser.parseVarNames(); err != nil {
		return err
	}
	return parser.close(ClassVarDecNT)
}

// parseVarNames parses type varName (',' varName)* ';'
func (parser *Parser) parseVarNames() error {
	if err := parser.parseType(false); err != nil {
		return err
	}
	if err := parser.identifier(); err != nil {
		return err
	}
	for parser.cur.current.isSymbol(',') {
		if err := parser.advance(); err != nil {
			return err
		}
		if err := parser.identifier(); err != nil {
			return err
		}
	}
	return parser.expectSymbol(';')
}

// type: 'int' | 'char' | 'boolean' | className, and 'void' for return types.
func (parser *Parser) parseType(allowVoid bool) error {
	current := parser.cur.current
	if current.isKeyword(IntTP, CharTP, BooleanTP) || (allowVoid && current.isKeyword(VoidTP)) {
		return parser.shift()
	}
	if current != nil && current.TP == IdentifierTag {
		return parser.shift()
	}
	return parser.makeError("expect a type")
}

// subroutineDec: ('constructor' | 'function' | 'method') ('void' | type) subroutineName
// '(' parameterList ')' subroutineBody
func (parser *Parser) parseSubroutineDec() error {
	if err := parser.open(SubroutineDecNT); err != nil {
		return err
	}
	if err := parser.keyword(ConstructorTP, FunctionTP, MethodTP); err != nil {
		return err
	}
	if err := parser.parseType(true); err != nil {
		return err
	}
	if err := parser.identifier(); err != nil {
		return err
	}
	if err := parser.expectSymbol('('); err != nil {
		return err
	}
	if err := parser.parseParameterList(); err != nil {
		return err
	}
	if err := parser.expectSymbol(')'); err != nil {
		return err
	}
	if err := parser.parseSubroutineBody(); err != nil {
		return err
	}
	return parser.close(SubroutineDecNT)
}

// parameterList: ((type varName) (',' type varName)*)?
func (parser *Parser) parseParameterList() error {
	if err := parser.open(ParameterListNT); err != nil {
		return err
	}
	if parser.cur.current.isSymbol(')') {
		return parser.close(ParameterListNT)
	}
	if err := parser.parseParameter(); err != nil {
		return err
	}
	for parser.cur.current.isSymbol(',') {
		if err := parser.advance(); err != nil {
			return err
		}
		if err := parser.parseParameter(); err != nil {
			return err
		}
	}
	return parser.close(ParameterListNT)
}

func (parser *Parser) parseParameter() error {
	if err := parser.parseType(false); err != nil {
		return err
	}
	return parser.identifier()
}

// subroutineBody: '{' varDec* statements '}'
func (parser *Parser) parseSubroutineBody() error {
	if err := parser.open(SubroutineBodyNT); err != nil {
		return err
	}
	if err := parser.expectSymbol('{'); err != nil {
		return err
	}
	for parser.cur.current.isKeyword(VarTP) {
		if err := parser.parseVarDec(); err != nil {
			return err
		}
	}
	if err := parser.parseStatements(); err != nil {
		return err
	}
	if err := parser.expectSymbol('}'); err != nil {
		return err
	}
	return parser.close(SubroutineBodyNT)
}

// varDec: 'var' type varName (',' varName)* ';'
func (parser *Parser) parseVarDec() error {
	if err := parser.open(VarDecNT); err != nil {
		return err
	}
	if err := parser.drop(VarTP); err != nil {
		return err
	}
	if err := parser.parseVarNames(); err != nil {
		return err
	}
	return parser.close(VarDecNT)
}

// statements: statement*
func (parser *Parser) parseStatements() error {
	if err := parser.open(StatementsNT); err != nil {
		return err
	}
	for {
		var err error
		current := parser.cur.current
		switch {
		case current.isKeyword(LetTP):
			err = parser.parseLetStatement()
		case current.isKeyword(IfTP):
			err = parser.parseIfStatement()
		case current.isKeyword(WhileTP):
			err = parser.parseWhileStatement()
		case current.isKeyword(DoTP):
			err = parser.parseDoStatement()
		case current.isKeyword(ReturnTP):
			err = parser.parseReturnStatement()
		default:
			return parser.close(StatementsNT)
		}
		if err != nil {
			return err
		}
	}
}

// letStatement: 'let' varName ('[' expression ']')? '=' expression ';'
func (parser *Parser) parseLetStatement() error {
	if err := parser.open(LetStatementNT); err != nil {
		return err
	}
	if err := parser.drop(LetTP); err != nil {
		return err
	}
	if err := parser.identifier(); err != nil {
		return err
	}
	if parser.cur.current.isSymbol('[') {
		if err := parser.parseIndex(); err != nil {
			return err
		}
	}
	if err := parser.expectSymbol('='); err != nil {
		return err
	}
	if err := parser.parseExpression(); err != nil {
		return err
	}
	if err := parser.expectSymbol(';'); err != nil {
		return err
	}
	return parser.close(LetStatementNT)
}

// parseIndex parses '[' expression ']' and keeps both brackets.
func (parser *Parser) parseIndex() error {
	if err := parser.shift(); err != nil {
		return err
	}
	if err := parser.parseExpression(); err != nil {
		return err
	}
	if !parser.cur.current.isSymbol(']') {
		return parser.makeError("expect ']'")
	}
	return parser.shift()
}

// ifStatement: 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?
func (parser *Parser) parseIfStatement() error {
	if err := parser.open(IfStatementNT); err != nil {
		return err
	}
	if err := parser.drop(IfTP); err != nil {
		return err
	}
	if err := parser.parseCondition(); err != nil {
		return err
	}
	if err := parser.parseBlock(); err != nil {
		return err
	}
	if parser.cur.current.isKeyword(ElseTP) {
		if err := parser.advance(); err != nil {
			return err
		}
		if err := parser.parseBlock(); err != nil {
			return err
		}
	}
	return parser.close(IfStatementNT)
}

// whileStatement: 'while' '(' expression ')' '{' statements '}'
func (parser *Parser) parseWhileStatement() error {
	if err := parser.open(WhileStatementNT); err != nil {
		return err
	}
	if err := parser.drop(WhileTP); err != nil {
		return err
	}
	if err := parser.parseCondition(); err != nil {
		return err
	}
	if err := parser.parseBlock(); err != nil {
		return err
	}
	return parser.close(WhileStatementNT)
}

// parseCondition parses '(' expression ')'
func (parser *Parser) parseCondition() error {
	if err := parser.expectSymbol('('); err != nil {
		return err
	}
	if err := parser.parseExpression(); err != nil {
		return err
	}
	return parser.expectSymbol(')')
}

// parseBlock parses '{' statements '}'
func (parser *Parser) parseBlock() error {
	if err := parser.expectSymbol('{'); err != nil {
		return err
	}
	if err := parser.parseStatements(); err != nil {
		return err
	}
	return parser.expectSymbol('}')
}

// doStatement: 'do' subroutineCall ';'
func (parser *Parser) parseDoStatement() error {
	if err := parser.open(DoStatementNT); err != nil {
		return err
	}
	if err := parser.drop(DoTP); err != nil {
		return err
	}
	if err := parser.parseSubroutineCall(); err != nil {
		return err
	}
	if err := parser.expectSymbol(';'); err != nil {
		return err
	}
	return parser.close(DoStatementNT)
}

// returnStatement: 'return' expression? ';'
func (parser *Parser) parseReturnStatement() error {
	if err := parser.open(ReturnStatementNT); err != nil {
		return err
	}
	if err := parser.drop(ReturnTP); err != nil {
		return err
	}
	if !parser.cur.current.isSymbol(';') {
		if err := parser.parseExpression(); err != nil {
			return err
		}
	}
	if err := parser.expectSymbol(';'); err != nil {
		return err
	}
	return parser.close(ReturnStatementNT)
}

func isOp(tag *Tag) bool {
	if tag == nil || tag.TP != SymbolTag {
		return false
	}
	switch tag.Symbol {
	case '+', '-', '*', '/', '&', '|', '<', '>', '=':
		return true
	}
	return false
}

// expression: term (op term)*
func (parser *Parser) parseExpression() error {
	if err := parser.open(ExpressionNT); err != nil {
		return err
	}
	if err := parser.parseTerm(); err != nil {
		return err
	}
	for isOp(parser.cur.current) {
		if err := parser.shift(); err != nil {
			return err
		}
		if err := parser.parseTerm(); err != nil {
			return err
		}
	}
	return parser.close(ExpressionNT)
}

// term: integerConstant | stringConstant | keywordConstant | varName | varName '[' expression ']' |
// subroutineCall | '(' expression ')' | unaryOp term
func (parser *Parser) parseTerm() error {
	if err := parser.open(TermNT); err != nil {
		return err
	}
	current, lookahead := parser.cur.current, parser.cur.lookahead
	var err error
	switch {
	case current == nil:
		return parser.makeError("expect a term")
	case current.TP == IntegerConstantTag, current.TP == StringConstantTag:
		err = parser.shift()
	case current.isKeyword(TrueTP, FalseTP, NullTP, ThisTP):
		err = parser.shift()
	case current.TP == IdentifierTag && (lookahead.isSymbol('.') || lookahead.isSymbol('(')):
		err = parser.parseSubroutineCall()
	case current.TP == IdentifierTag:
		if err = parser.shift(); err == nil && parser.cur.current.isSymbol('[') {
			err = parser.parseIndex()
		}
	case current.isSymbol('('):
		if err = parser.advance(); err != nil {
			return err
		}
		if err = parser.parseExpression(); err != nil {
			return err
		}
		err = parser.expectSymbol(')')
	case current.isSymbol('-'), current.isSymbol('~'):
		if err = parser.shift(); err != nil {
			return err
		}
		err = parser.parseTerm()
	default:
		return parser.makeError("expect a term")
	}
	if err != nil {
		return err
	}
	return parser.close(TermNT)
}

// subroutineCall: subroutineName '(' expressionList ')' |
// (className | varName) '.' subroutineName '(' expressionList ')'
func (parser *Parser) parseSubroutineCall() error {
	if err := parser.open(SubroutineCallNT); err != nil {
		return err
	}
	if err := parser.identifier(); err != nil {
		return err
	}
	if parser.cur.current.isSymbol('.') {
		if err := parser.shift(); err != nil {
			return err
		}
		if err := parser.identifier(); err != nil {
			return err
		}
	}
	if err := parser.expectSymbol('('); err != nil {
		return err
	}
	if err := parser.parseExpressionList(); err != nil {
		return err
	}
	if err := parser.expectSymbol(')'); err != nil {
		return err
	}
	return parser.close(SubroutineCallNT)
}

// expressionList: (expression (',' expression)*)?
func (parser *Parser) parseExpressionList() error {
	if err := parser.open(ExpressionListNT); err != nil {
		return err
	}
	if parser.cur.current.isSymbol(')') {
		return parser.close(ExpressionListNT)
	}
	if err := parser.parseExpression(); err != nil {
		return err
	}
	for parser.cur.current.isSymbol(',') {
		if err := parser.advance(); err != nil {
			return err
		}
		if err := parser.parseExpression(); err != nil {
			return err
		}
	}
	return parser.close(ExpressionListNT)
}

func (parser *Parser) open(nt NonTerminal) error {
	return parser.sink.Write(openTag(nt, parser.cur.line()))
}

func (parser *Parser) close(nt NonTerminal) error {
	return parser.sink.Write(closeTag(nt, parser.cur.line()))
}

func (parser *Parser) advance() error {
	return parser.cur.advance()
}

// shift writes the current tag and moves past it.
func (parser *Parser) shift() error {
	if err := parser.sink.Write(parser.cur.current); err != nil {
		return err
	}
	return parser.advance()
}

func (parser *Parser) identifier() error {
	current := parser.cur.current
	if current == nil || current.TP != IdentifierTag {
		return parser.makeError("expect an identifier")
	}
	return parser.shift()
}

func (parser *Parser) keyword(keyWords ...KeyWordTP) error {
	if !parser.cur.current.isKeyword(keyWords...) {
		return parser.makeError(fmt.Sprintf("expect one of %v", keyWords))
	}
	return parser.shift()
}

// drop checks the current keyword and moves past it without writing it.
func (parser *Parser) drop(keyWord KeyWordTP) error {
	if !parser.cur.current.isKeyword(keyWord) {
		return parser.makeError(fmt.Sprintf("expect '%s'", keyWord))
	}
	return parser.advance()
}

func (parser *Parser) expectSymbol(symbol byte) error {
	if !parser.cur.current.isSymbol(symbol) {
		return parser.makeError(fmt.Sprintf("expect '%c'", symbol))
	}
	return parser.advance()
}

func (parser *Parser) makeError(msg string) error {
	return &CompileError{Stage: ParserStage, Line: parser.cur.line(), Near: parser.cur.near(), Msg: msg}
}
