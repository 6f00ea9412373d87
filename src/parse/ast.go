package parse

type (
	// LineInfo is the position of a token or node in the source.
	LineInfo struct {
		Line   int64
		Column int64
	}
	// Node is any element of the tree.
	Node interface {
		Pos() LineInfo
	}
	// Expr is the closed set of expression nodes. Only types in this package
	// can satisfy it.
	Expr interface {
		Node
		exprNode()
	}
	// Stmt is the closed set of statement nodes. Only types in this package
	// can satisfy it.
	Stmt interface {
		Node
		stmtNode()
	}
	// Chunk is the root of a parsed file.
	Chunk struct {
		Filename string
		Body     []Stmt
	}
)

// Expressions.
type (
	// Nil is the nil literal.
	Nil struct{ LineInfo }
	// Bool is true or false.
	Bool struct {
		LineInfo
		Val bool
	}
	// Integer is an integer literal.
	Integer struct {
		LineInfo
		Val int64
	}
	// Float is a float literal.
	Float struct {
		LineInfo
		Val float64
	}
	// String is a string literal, short or bracketed.
	String struct {
		LineInfo
		Val string
	}
	// VarArgs is the ... expression.
	VarArgs struct{ LineInfo }
	// Name is a reference to a variable by name.
	Name struct {
		LineInfo
		Ident string
	}
	// Index is table[key]. table.key is sugar for table["key"].
	Index struct {
		LineInfo
		Table Expr
		Key   Expr
	}
	// Call is a function call. When Method is set this is a method call
	// Fn:Method(Args...) where Fn is passed as self.
	Call struct {
		LineInfo
		Fn     Expr
		Method string
		Args   []Expr
	}
	// BinaryOp is any infix operation.
	BinaryOp struct {
		LineInfo
		Op    string
		Left  Expr
		Right Expr
	}
	// UnaryOp is not, #, - and ~.
	UnaryOp struct {
		LineInfo
		Op      string
		Operand Expr
	}
	// TableField is one field of a table constructor. Key is nil for
	// positional fields.
	TableField struct {
		Key Expr
		Val Expr
	}
	// Table is a table constructor with its fields in source order.
	Table struct {
		LineInfo
		Fields []TableField
	}
	// Function is a function body, either a literal or the value of a
	// function statement.
	Function struct {
		LineInfo
		Name    string
		Params  []string
		VarArgs bool
		Body    []Stmt
	}
)

// Statements.
type (
	// Assign is both a global assignment and a local declaration. A local
	// declaration without values has no Values.
	Assign struct {
		LineInfo
		Local   bool
		Targets []Expr
		Attribs []string
		Values  []Expr
	}
	// FuncDef is function name() end, and local function name() end. Name is
	// a *Name or an *Index chain.
	FuncDef struct {
		LineInfo
		Local  bool
		Method bool
		Name   Expr
		Func   *Function
	}
	// CallStmt is a call evaluated only for its side effects.
	CallStmt struct {
		LineInfo
		Call *Call
	}
	// If is if/then/else. An elseif is an If nested as the only statement of
	// Else.
	If struct {
		LineInfo
		Cond Expr
		Then []Stmt
		Else []Stmt
	}
	// NumericFor is for i = start, limit[, step] do end. Step may be nil.
	NumericFor struct {
		LineInfo
		Var   string
		Start Expr
		Limit Expr
		Step  Expr
		Body  []Stmt
	}
	// GenericFor is for names in exprs do end.
	GenericFor struct {
		LineInfo
		Names []string
		Exprs []Expr
		Body  []Stmt
	}
	// While is while cond do end.
	While struct {
		LineInfo
		Cond Expr
		Body []Stmt
	}
	// Repeat is repeat until cond.
	Repeat struct {
		LineInfo
		Body []Stmt
		Cond Expr
	}
	// Do is a plain do end block.
	Do struct {
		LineInfo
		Body []Stmt
	}
	// Return is return [explist].
	Return struct {
		LineInfo
		Exprs []Expr
	}
	// Break is break.
	Break struct{ LineInfo }
	// Goto is goto label.
	Goto struct {
		LineInfo
		Label string
	}
	// Label is ::name::.
	Label struct {
		LineInfo
		Name string
	}
)

// Pos returns the position itself so that every node embedding LineInfo is a Node.
func (li LineInfo) Pos() LineInfo { return li }

func (*Nil) exprNode()      {}
func (*Bool) exprNode()     {}
func (*Integer) exprNode()  {}
func (*Float) exprNode()    {}
func (*String) exprNode()   {}
func (*VarArgs) exprNode()  {}
func (*Name) exprNode()     {}
func (*Index) exprNode()    {}
func (*Call) exprNode()     {}
func (*BinaryOp) exprNode() {}
func (*UnaryOp) exprNode()  {}
func (*Table) exprNode()    {}
func (*Function) exprNode() {}

func (*Assign) stmtNode()     {}
func (*FuncDef) stmtNode()    {}
func (*CallStmt) stmtNode()   {}
func (*If) stmtNode()         {}
func (*NumericFor) stmtNode() {}
func (*GenericFor) stmtNode() {}
func (*While) stmtNode()      {}
func (*Repeat) stmtNode()     {}
func (*Do) stmtNode()         {}
func (*Return) stmtNode()     {}
func (*Break) stmtNode()      {}
func (*Goto) stmtNode()       {}
func (*Label) stmtNode()      {}
