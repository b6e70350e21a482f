package jackcompiler

import (
	"bufio"
	"fmt"
	"io"
)

var opCommands = map[byte]string{
	'+': "add",
	'-': "sub",
	'*': "call Math.multiply 2",
	'/': "call Math.divide 2",
	'&': "and",
	'|': "or",
	'<': "lt",
	'>': "gt",
	'=': "eq",
}

var unaryOpCommands = map[byte]string{
	'-': "neg",
	'~': "not",
}

// CodeGenerator walks a parse tree stream with the same two tag window the
// parser uses and writes vm code. The if and while label counters belong to
// the generator: they never go back while one class is compiled.
type CodeGenerator struct {
	src       TagSource
	w         *bufio.Writer
	cur       *cursor
	className string
	class     *SymbolTable
	sub       *SymbolTable
	ifID      int
	whileID   int
}

func NewCodeGenerator(src TagSource, w io.Writer) *CodeGenerator {
	return &CodeGenerator{src: src, w: bufio.NewWriter(w)}
}

// CompileClass translates the class held by the stream.
func (gen *CodeGenerator) CompileClass() (err error) {
	gen.cur, err = newCursor(gen.src)
	if err != nil {
		return err
	}
	if err = gen.enter(ClassNT); err != nil {
		return err
	}
	if gen.className, err = gen.identifier(); err != nil {
		return err
	}
	gen.class = NewSymbolTable()
	for gen.cur.current.isOpen(ClassVarDecNT) {
		if err = gen.generateClassVarDecCode(); err != nil {
			return err
		}
	}
	for gen.cur.current.isOpen(SubroutineDecNT) {
		if err = gen.generateSubroutineCode(); err != nil {
			return err
		}
	}
	if err = gen.leave(ClassNT); err != nil {
		return err
	}
	if gen.cur.current != nil {
		return gen.makeError("unexpected tags after class")
	}
	return gen.w.Flush()
}

func (gen *CodeGenerator) writeOutput(format string, args ...interface{}) {
	fmt.Fprintf(gen.w, format, args...)
	gen.w.WriteByte('\n')
}

func (gen *CodeGenerator) generateClassVarDecCode() error {
	if err := gen.enter(ClassVarDecNT); err != nil {
		return err
	}
	kind := FieldKind
	if gen.cur.current.isKeyword(StaticTP) {
		kind = StaticKind
	}
	if err := gen.cur.advance(); err != nil {
		return err
	}
	if err := gen.declareVariables(gen.class, kind); err != nil {
		return err
	}
	return gen.leave(ClassVarDecNT)
}

// declareVariables reads a type followed by names up to the enclosing close
// tag and declares them all.
func (gen *CodeGenerator) declareVariables(table *SymbolTable, kind SymbolKind) error {
	varType, err := gen.typeName()
	if err != nil {
		return err
	}
	for gen.cur.current != nil && gen.cur.current.TP == IdentifierTag {
		if _, err := table.Insert(gen.cur.current.Str, varType, kind); err != nil {
			return gen.makeError(err.Error())
		}
		if err := gen.cur.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (gen *CodeGenerator) typeName() (string, error) {
	current := gen.cur.current
	if current == nil || (current.TP != KeywordTag && current.TP != IdentifierTag) {
		return "", gen.makeError("expect a type")
	}
	return current.Value(), gen.cur.advance()
}

// generateSubroutineCode writes function Class.name nLocals and the
// prologue, which depends on the kind:
// method:      push argument 0 / pop pointer 0
// constructor: push constant nFields / call Memory.alloc 1 / pop pointer 0
func (gen *CodeGenerator) generateSubroutineCode() error {
	if err := gen.enter(SubroutineDecNT); err != nil {
		return err
	}
	kind := gen.cur.current
	if !kind.isKeyword(ConstructorTP, FunctionTP, MethodTP) {
		return gen.makeError("expect a subroutine kind")
	}
	if err := gen.cur.advance(); err != nil {
		return err
	}
	if _, err := gen.typeName(); err != nil {
		return err
	}
	name, err := gen.identifier()
	if err != nil {
		return err
	}
	gen.sub = NewSymbolTable()
	if kind.isKeyword(MethodTP) {
		if _, err := gen.sub.Insert("this", gen.className, ArgumentKind); err != nil {
			return gen.makeError(err.Error())
		}
	}
	if err := gen.enter(ParameterListNT); err != nil {
		return err
	}
	for !gen.cur.current.isClose(ParameterListNT) {
		varType, err := gen.typeName()
		if err != nil {
			return err
		}
		paramName, err := gen.identifier()
		if err != nil {
			return err
		}
		if _, err := gen.sub.Insert(paramName, varType, ArgumentKind); err != nil {
			return gen.makeError(err.Error())
		}
	}
	if err := gen.leave(ParameterListNT); err != nil {
		return err
	}
	if err := gen.enter(SubroutineBodyNT); err != nil {
		return err
	}
	for gen.cur.current.isOpen(VarDecNT) {
		if err := gen.enter(VarDecNT); err != nil {
			return err
		}
		if err := gen.declareVariables(gen.sub, LocalKind); err != nil {
			return err
		}
		if err := gen.leave(VarDecNT); err != nil {
			return err
		}
	}
	gen.writeOutput("function %s.%s %d", gen.className, name, gen.sub.Count(LocalKind))
	switch {
	case kind.isKeyword(MethodTP):
		gen.writeOutput("push argument 0")
		gen.writeOutput("pop pointer 0")
	case kind.isKeyword(ConstructorTP):
		gen.writeOutput("push constant %d", gen.class.Count(FieldKind))
		gen.writeOutput("call Memory.alloc 1")
		gen.writeOutput("pop pointer 0")
	}
	if err := gen.generateStatementsCode(); err != nil {
		return err
	}
	if err := gen.leave(SubroutineBodyNT); err != nil {
		return err
	}
	return gen.leave(SubroutineDecNT)
}

func (gen *CodeGenerator) generateStatementsCode() error {
	if err := gen.enter(StatementsNT); err != nil {
		return err
	}
	for !gen.cur.current.isClose(StatementsNT) {
		current := gen.cur.current
		var err error
		switch {
		case current.isOpen(LetStatementNT):
			err = gen.generateLetStatementCode()
		case current.isOpen(IfStatementNT):
			err = gen.generateIfStatementCode()
		case current.isOpen(WhileStatementNT):
			err = gen.generateWhileStatementCode()
		case current.isOpen(DoStatementNT):
			err = gen.generateDoStatementCode()
		case current.isOpen(ReturnStatementNT):
			err = gen.generateReturnStatementCode()
		default:
			return gen.makeError("expect a statement")
		}
		if err != nil {
			return err
		}
	}
	return gen.leave(StatementsNT)
}

// generateLetStatementCode for let a[i] = e:
// <i>
// push a
// add
// <e>
// pop temp 0
// pop pointer 1
// push temp 0
// pop that 0
// and for let v = e: <e> / pop v
func (gen *CodeGenerator) generateLetStatementCode() error {
	if err := gen.enter(LetStatementNT); err != nil {
		return err
	}
	desc, err := gen.variable()
	if err != nil {
		return err
	}
	if gen.cur.current.isSymbol('[') {
		if err := gen.generateIndexCode(); err != nil {
			return err
		}
		gen.writeOutput("push %s %d", desc.Segment(), desc.Index)
		gen.writeOutput("add")
		if err := gen.generateExpressionCode(); err != nil {
			return err
		}
		gen.writeOutput("pop temp 0")
		gen.writeOutput("pop pointer 1")
		gen.writeOutput("push temp 0")
		gen.writeOutput("pop that 0")
	} else {
		if err := gen.generateExpressionCode(); err != nil {
			return err
		}
		gen.writeOutput("pop %s %d", desc.Segment(), desc.Index)
	}
	return gen.leave(LetStatementNT)
}

// generateIndexCode evaluates '[' expression ']'.
func (gen *CodeGenerator) generateIndexCode() error {
	if err := gen.expectSymbol('['); err != nil {
		return err
	}
	if err := gen.generateExpressionCode(); err != nil {
		return err
	}
	return gen.expectSymbol(']')
}

// generateIfStatementCode:
// <cond>
// not
// if-goto end_if_N
// <then>
// goto end_else_N     // with an else branch
// label end_if_N
// <else>
// label end_else_N
func (gen *CodeGenerator) generateIfStatementCode() error {
	if err := gen.enter(IfStatementNT); err != nil {
		return err
	}
	id := gen.ifID
	gen.ifID++
	if err := gen.generateExpressionCode(); err != nil {
		return err
	}
	gen.writeOutput("not")
	gen.writeOutput("if-goto end_if_%d", id)
	if err := gen.generateStatementsCode(); err != nil {
		return err
	}
	if gen.cur.current.isOpen(StatementsNT) {
		gen.writeOutput("goto end_else_%d", id)
		gen.writeOutput("label end_if_%d", id)
		if err := gen.generateStatementsCode(); err != nil {
			return err
		}
		gen.writeOutput("label end_else_%d", id)
	} else {
		gen.writeOutput("label end_if_%d", id)
	}
	return gen.leave(IfStatementNT)
}

// generateWhileStatementCode:
// label start_while_N
// <cond>
// not
// if-goto end_while_N
// <body>
// goto start_while_N
// label end_while_N
func (gen *CodeGenerator) generateWhileStatementCode() error {
	if err := gen.enter(WhileStatementNT); err != nil {
		return err
	}
	id := gen.whileID
	gen.whileID++
	gen.writeOutput("label start_while_%d", id)
	if err := gen.generateExpressionCode(); err != nil {
		return err
	}
	gen.writeOutput("not")
	gen.writeOutput("if-goto end_while_%d", id)
	if err := gen.generateStatementsCode(); err != nil {
		return err
	}
	gen.writeOutput("goto start_while_%d", id)
	gen.writeOutput("label end_while_%d", id)
	return gen.leave(WhileStatementNT)
}

// generateDoStatementCode calls and drops the result with pop temp 0.
func (gen *CodeGenerator) generateDoStatementCode() error {
	if err := gen.enter(DoStatementNT); err != nil {
		return err
	}
	if err := gen.generateSubroutineCallCode(); err != nil {
		return err
	}
	gen.writeOutput("pop temp 0")
	return gen.leave(DoStatementNT)
}

// generateReturnStatementCode returns 0 when there is no expression, every
// subroutine leaves a value.
func (gen *CodeGenerator) generateReturnStatementCode() error {
	if err := gen.enter(ReturnStatementNT); err != nil {
		return err
	}
	if gen.cur.current.isOpen(ExpressionNT) {
		if err := gen.generateExpressionCode(); err != nil {
			return err
		}
	} else {
		gen.writeOutput("push constant 0")
	}
	gen.writeOutput("return")
	return gen.leave(ReturnStatementNT)
}

// generateExpressionCode evaluates the terms from left to right, no operator
// binds tighter than another.
func (gen *CodeGenerator) generateExpressionCode() error {
	if err := gen.enter(ExpressionNT); err != nil {
		return err
	}
	if err := gen.generateTermCode(); err != nil {
		return err
	}
	for gen.cur.current != nil && gen.cur.current.TP == SymbolTag {
		command, ok := opCommands[gen.cur.current.Symbol]
		if !ok {
			return gen.makeError("expect an operator")
		}
		if err := gen.cur.advance(); err != nil {
			return err
		}
		if err := gen.generateTermCode(); err != nil {
			return err
		}
		gen.writeOutput(command)
	}
	return gen.leave(ExpressionNT)
}

func (gen *CodeGenerator) generateTermCode() error {
	if err := gen.enter(TermNT); err != nil {
		return err
	}
	current := gen.cur.current
	var err error
	switch {
	case current == nil:
		return gen.makeError("expect a term")
	case current.TP == IntegerConstantTag:
		gen.writeOutput("push constant %d", current.Int)
		err = gen.cur.advance()
	case current.TP == StringConstantTag:
		gen.generateStringCode(current.Str)
		err = gen.cur.advance()
	case current.TP == KeywordTag:
		err = gen.generateKeywordConstantCode()
	case current.TP == IdentifierTag:
		err = gen.generateVariableTermCode()
	case current.isOpen(ExpressionNT):
		err = gen.generateExpressionCode()
	case current.isOpen(SubroutineCallNT):
		err = gen.generateSubroutineCallCode()
	case current.TP == SymbolTag:
		command, ok := unaryOpCommands[current.Symbol]
		if !ok {
			return gen.makeError("expect an unary operator")
		}
		if err = gen.cur.advance(); err != nil {
			return err
		}
		if err = gen.generateTermCode(); err != nil {
			return err
		}
		gen.writeOutput(command)
	default:
		return gen.makeError("expect a term")
	}
	if err != nil {
		return err
	}
	return gen.leave(TermNT)
}

// generateStringCode builds the string on the heap:
// push constant len
// call String.new 1
// push constant c     // for every character
// call String.appendChar 2
func (gen *CodeGenerator) generateStringCode(str string) {
	gen.writeOutput("push constant %d", len(str))
	gen.writeOutput("call String.new 1")
	for i := 0; i < len(str); i++ {
		gen.writeOutput("push constant %d", str[i])
		gen.writeOutput("call String.appendChar 2")
	}
}

// generateKeywordConstantCode: true is -1 (push constant 1 / neg), false and
// null are 0 and this is pointer 0.
func (gen *CodeGenerator) generateKeywordConstantCode() error {
	current := gen.cur.current
	switch {
	case current.isKeyword(TrueTP):
		gen.writeOutput("push constant 1")
		gen.writeOutput("neg")
	case current.isKeyword(FalseTP, NullTP):
		gen.writeOutput("push constant 0")
	case current.isKeyword(ThisTP):
		gen.writeOutput("push pointer 0")
	default:
		return gen.makeError("expect a keyword constant")
	}
	return gen.cur.advance()
}

// generateVariableTermCode pushes a variable, or for a[i]:
// push a
// <i>
// add
// pop pointer 1
// push that 0
func (gen *CodeGenerator) generateVariableTermCode() error {
	desc, err := gen.variable()
	if err != nil {
		return err
	}
	gen.writeOutput("push %s %d", desc.Segment(), desc.Index)
	if !gen.cur.current.isSymbol('[') {
		return nil
	}
	if err := gen.generateIndexCode(); err != nil {
		return err
	}
	gen.writeOutput("add")
	gen.writeOutput("pop pointer 1")
	gen.writeOutput("push that 0")
	return nil
}

// generateSubroutineCallCode resolves the three call forms:
// f(args)       method of the current object: push pointer 0 / <args> / call Class.f n+1
// v.f(args)     method of variable v:         push v / <args> / call Type.f n+1
// Class.f(args) function or constructor:      <args> / call Class.f n
func (gen *CodeGenerator) generateSubroutineCallCode() error {
	if err := gen.enter(SubroutineCallNT); err != nil {
		return err
	}
	first, err := gen.identifier()
	if err != nil {
		return err
	}
	var callee string
	implicitArgs := 0
	if gen.cur.current.isSymbol('.') {
		if err := gen.cur.advance(); err != nil {
			return err
		}
		name, err := gen.identifier()
		if err != nil {
			return err
		}
		if desc, ok := gen.lookUp(first); ok {
			gen.writeOutput("push %s %d", desc.Segment(), desc.Index)
			callee, implicitArgs = desc.Type+"."+name, 1
		} else {
			callee = first + "." + name
		}
	} else {
		gen.writeOutput("push pointer 0")
		callee, implicitArgs = gen.className+"."+first, 1
	}
	args, err := gen.generateExpressionListCode()
	if err != nil {
		return err
	}
	gen.writeOutput("call %s %d", callee, args+implicitArgs)
	return gen.leave(SubroutineCallNT)
}

func (gen *CodeGenerator) generateExpressionListCode() (int, error) {
	if err := gen.enter(ExpressionListNT); err != nil {
		return 0, err
	}
	count := 0
	for gen.cur.current.isOpen(ExpressionNT) {
		if err := gen.generateExpressionCode(); err != nil {
			return 0, err
		}
		count++
	}
	return count, gen.leave(ExpressionListNT)
}

// lookUp resolves name in the subroutine scope first, then the class scope.
func (gen *CodeGenerator) lookUp(name string) (*SymbolDesc, bool) {
	if desc, ok := gen.sub.LookUp(name); ok {
		return desc, true
	}
	return gen.class.LookUp(name)
}

// variable reads an identifier which must be a declared variable.
func (gen *CodeGenerator) variable() (*SymbolDesc, error) {
	current := gen.cur.current
	if current == nil || current.TP != IdentifierTag {
		return nil, gen.makeError("expect a variable")
	}
	desc, ok := gen.lookUp(current.Str)
	if !ok {
		return nil, gen.makeError("undeclared identifier " + current.Str)
	}
	return desc, gen.cur.advance()
}

func (gen *CodeGenerator) identifier() (string, error) {
	current := gen.cur.current
	if current == nil || current.TP != IdentifierTag {
		return "", gen.makeError("expect an identifier")
	}
	return current.Str, gen.cur.advance()
}

func (gen *CodeGenerator) expectSymbol(symbol byte) error {
	if !gen.cur.current.isSymbol(symbol) {
		return gen.makeError(fmt.Sprintf("expect '%c'", symbol))
	}
	return gen.cur.advance()
}

// enter moves past the open tag of nt.
func (gen *CodeGenerator) enter(nt NonTerminal) error {
	if !gen.cur.current.isOpen(nt) {
		return gen.makeError("expect <" + nt.String() + ">")
	}
	return gen.cur.advance()
}

// leave moves past the close tag of nt.
func (gen *CodeGenerator) leave(nt NonTerminal) error {
	if !gen.cur.current.isClose(nt) {
		return gen.makeError("expect </" + nt.String() + ">")
	}
	return gen.cur.advance()
}

func (gen *CodeGenerator) makeError(msg string) error {
	return &CompileError{Stage: CodeGeneratorStage, Line: gen.cur.line(), Near: gen.cur.near(), Msg: msg}
}
